package coordinator

import (
	"time"

	"go.uber.org/zap"

	"vellum/pkg/html"
	"vellum/pkg/layout"
	"vellum/pkg/text"
	"vellum/pkg/vlog"
)

// Coordinator is the single-threaded owner of focus, selection, timers, and
// the pending invalidation record, per spec §4.7/§5: "exactly one thread
// owns the DOM, styled tree, layout results, display list, and caches for
// the duration of a frame" and "re-entrant dispatch is forbidden; nested
// events are queued."
type Coordinator struct {
	log *zap.Logger

	Focus       *FocusManager
	Selection   *SelectionManager
	Timers      *TimerManager
	Invalidation *Invalidation

	queue []html.Event
}

// New builds a coordinator over root's current DOM. log may be nil.
func New(root *html.Node, log *zap.Logger) *Coordinator {
	return &Coordinator{
		log:          vlog.Named(log, "coordinator"),
		Focus:        NewFocusManager(root),
		Selection:    NewSelectionManager(),
		Timers:       NewTimerManager(),
		Invalidation: NewInvalidation(),
	}
}

// Enqueue appends an event to the dispatch queue. Per spec §5's ordering
// rule, events are processed strictly in arrival order and one at a time.
func (c *Coordinator) Enqueue(e html.Event) {
	c.queue = append(c.queue, e)
}

// DrainQueue dispatches every queued event to root's positioned box tree in
// arrival order, accumulating invalidations as callbacks run. Re-entrant
// Enqueue calls from within a callback are appended and processed on this
// same drain, not re-entered mid-dispatch.
func (c *Coordinator) DrainQueue(root *layout.Box, now time.Time) {
	for len(c.queue) > 0 {
		e := c.queue[0]
		c.queue = c.queue[1:]
		c.handle(root, e, now)
	}
}

func (c *Coordinator) handle(root *layout.Box, e html.Event, now time.Time) {
	switch e.Filter {
	case "mousedown":
		box := HitTest(root, e.X, e.Y)
		if box == nil {
			return
		}
		Dispatch(box.Node, e)
	case "mousemove":
		box := HitTest(root, e.X, e.Y)
		if box != nil {
			Dispatch(box.Node, e)
		}
	case "mouseup", "click":
		box := HitTest(root, e.X, e.Y)
		if box == nil {
			return
		}
		if Dispatch(box.Node, e) {
			return
		}
	case "keydown":
		c.handleKey(e)
	}
}

// handleKey implements spec §4.7's keyboard focus model: Tab/Shift-Tab
// cycle focus, Enter/Space on an activatable node synthesizes a click,
// Escape clears focus.
func (c *Coordinator) handleKey(e html.Event) {
	const shiftMask = 1 // bit 0 of Modifiers, matching the Event set's host-supplied modifier bits
	switch e.Key {
	case "Tab":
		if e.Modifiers&shiftMask != 0 {
			c.Focus.Prev()
		} else {
			c.Focus.Next()
		}
		c.Invalidation.FocusChanged = true
	case "Escape":
		c.Focus.Clear()
		c.Invalidation.FocusChanged = true
	case "Enter", " ":
		if c.Focus.Current != nil {
			if Dispatch(c.Focus.Current, html.Event{Filter: "click"}) {
				return
			}
		}
	default:
		if c.Focus.Current != nil {
			Dispatch(c.Focus.Current, e)
		}
	}
}

// RebuildFocusOrder recomputes the tab order after a DOM mutation.
func (c *Coordinator) RebuildFocusOrder(root *html.Node) {
	c.Focus.Rebuild(root)
}

// HitTestAt exposes HitTest for callers (platform event translation,
// tests) that only need the topmost interactive node, not full dispatch.
func (c *Coordinator) HitTestAt(root *layout.Box, x, y float64) *layout.Box {
	return HitTest(root, x, y)
}

// CursorAt resolves a client point to a text cursor within layout, for
// MouseDown/Drag selection handling.
func CursorAt(layout *text.UnifiedLayout, x, y float64) text.Cursor {
	idx, aff := text.HitTest(layout, x, y)
	return text.Cursor{ClusterIndex: idx, Affinity: aff}
}
