package coordinator

import (
	"math"
	"time"

	"vellum/pkg/html"
	"vellum/pkg/text"
)

// clickWindow and clickRadius bound the multi-click detection spec §4.7
// requires: "within a 500 ms window and 5 px radius of the previous click
// on the same node."
const (
	clickWindow = 500 * time.Millisecond
	clickRadius = 5.0
)

// SelectionManager tracks the active selection per node plus the click-
// count state used to upgrade a click into a word/paragraph selection.
type SelectionManager struct {
	selections map[*html.Node]text.Selection

	lastNode  *html.Node
	lastX     float64
	lastY     float64
	lastTime  time.Time
	clickRun  int
}

// NewSelectionManager creates an empty selection manager.
func NewSelectionManager() *SelectionManager {
	return &SelectionManager{selections: make(map[*html.Node]text.Selection)}
}

// Selection returns the active selection on n, if any.
func (sm *SelectionManager) Selection(n *html.Node) (text.Selection, bool) {
	s, ok := sm.selections[n]
	return s, ok
}

// Clear drops the selection on n.
func (sm *SelectionManager) Clear(n *html.Node) {
	delete(sm.selections, n)
}

// MouseDown registers a click on n's layout at point (x, y), which hits
// cursor c in n's UnifiedLayout. It returns the click count (1, 2, or 3;
// a fourth click in the series starts over at 1) this click represents
// and starts (or extends, per clickCount) the
// selection anchored at c.
func (sm *SelectionManager) MouseDown(n *html.Node, layout *text.UnifiedLayout, c text.Cursor, x, y float64, now time.Time) int {
	count := 1
	if sm.lastNode == n && !sm.lastTime.IsZero() &&
		now.Sub(sm.lastTime) <= clickWindow &&
		math.Hypot(x-sm.lastX, y-sm.lastY) <= clickRadius {
		count = sm.clickRun + 1
		if count > 3 {
			count = 1
		}
	}
	sm.lastNode, sm.lastX, sm.lastY, sm.lastTime, sm.clickRun = n, x, y, now, count

	switch count {
	case 2:
		sm.selections[n] = wordSelection(layout, c)
	case 3:
		sm.selections[n] = paragraphSelection(layout)
	default:
		sm.selections[n] = text.Selection{Anchor: c, Head: c}
	}
	return count
}

// Drag extends the head of n's active selection to cursor c, per spec's
// "drag extends the head."
func (sm *SelectionManager) Drag(n *html.Node, c text.Cursor) {
	sel, ok := sm.selections[n]
	if !ok {
		sm.selections[n] = text.Selection{Anchor: c, Head: c}
		return
	}
	sel.Head = c
	sm.selections[n] = sel
}

// wordSelection expands c to the word boundary containing its cluster,
// using simple whitespace-delimited word segmentation over the run's
// clusters (the text pipeline's Unicode clustering already collapsed
// grapheme boundaries; this layers word boundaries on top).
func wordSelection(layout *text.UnifiedLayout, c text.Cursor) text.Selection {
	if layout == nil || len(layout.Clusters) == 0 {
		return text.Selection{Anchor: c, Head: c}
	}
	start := c.ClusterIndex
	end := c.ClusterIndex
	isSpace := func(i int) bool {
		if i < 0 || i >= len(layout.Clusters) {
			return true
		}
		t := layout.Clusters[i].Text
		return t == " " || t == "\t" || t == "\n"
	}
	for start > 0 && !isSpace(start-1) {
		start--
	}
	for end < len(layout.Clusters)-1 && !isSpace(end+1) {
		end++
	}
	return text.Selection{
		Anchor: text.Cursor{ClusterIndex: start, Affinity: text.Leading},
		Head:   text.Cursor{ClusterIndex: end, Affinity: text.Trailing},
	}
}

// paragraphSelection selects the whole run (a text box is one paragraph in
// this pipeline; block-level splitting happens above the text layer).
func paragraphSelection(layout *text.UnifiedLayout) text.Selection {
	if layout == nil || len(layout.Clusters) == 0 {
		return text.Selection{}
	}
	return text.Selection{
		Anchor: text.Cursor{ClusterIndex: 0, Affinity: text.Leading},
		Head:   text.Cursor{ClusterIndex: len(layout.Clusters) - 1, Affinity: text.Trailing},
	}
}
