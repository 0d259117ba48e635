package coordinator

import (
	"vellum/pkg/html"
	"vellum/pkg/text"
)

// naturallyFocusable lists the element tags that are part of the tab order
// without an explicit tabindex, mirroring the HTML living standard's
// "interactive content" list we care about for a layout/render core.
var naturallyFocusable = map[string]bool{
	"a": true, "button": true, "input": true, "select": true,
	"textarea": true, "summary": true,
}

// Focusable reports whether n participates in tab order: it has a tabindex
// attribute other than "-1", is one of naturallyFocusable's tags, or is
// editable.
func Focusable(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if ti, ok := n.GetAttribute("tabindex"); ok && ti != "-1" {
		return true
	}
	if naturallyFocusable[n.TagName] {
		return true
	}
	return isContentEditable(n)
}

func isContentEditable(n *html.Node) bool {
	v, ok := n.GetAttribute("contenteditable")
	return ok && (v == "" || v == "true")
}

// FocusManager owns the single focused-node id (or none) and the tab order
// derived from the DOM, per spec §4.7's focus model. It also tracks one
// text.Cursor per contenteditable node, initialized/cleared as focus
// enters/leaves that node.
type FocusManager struct {
	Current *html.Node
	order   []*html.Node
	cursors map[*html.Node]text.Cursor
}

// NewFocusManager builds a focus manager over root's current focusable set,
// in DOM order.
func NewFocusManager(root *html.Node) *FocusManager {
	fm := &FocusManager{cursors: make(map[*html.Node]text.Cursor)}
	fm.Rebuild(root)
	return fm
}

// Rebuild recomputes the tab order from root, called after any DOM
// mutation. If the currently focused node no longer exists in the new
// order, focus is cleared.
func (fm *FocusManager) Rebuild(root *html.Node) {
	fm.order = fm.order[:0]
	collectFocusable(root, &fm.order)
	if fm.Current != nil {
		found := false
		for _, n := range fm.order {
			if n == fm.Current {
				found = true
				break
			}
		}
		if !found {
			fm.Clear()
		}
	}
}

func collectFocusable(n *html.Node, out *[]*html.Node) {
	if n == nil {
		return
	}
	if Focusable(n) {
		*out = append(*out, n)
	}
	for _, c := range n.Children {
		collectFocusable(c, out)
	}
}

// Next advances focus to the next focusable node in DOM order, wrapping
// around, per spec's Tab semantics.
func (fm *FocusManager) Next() *html.Node {
	return fm.step(1)
}

// Prev reverses focus to the previous focusable node, per Shift-Tab.
func (fm *FocusManager) Prev() *html.Node {
	return fm.step(-1)
}

func (fm *FocusManager) step(dir int) *html.Node {
	if len(fm.order) == 0 {
		return nil
	}
	if fm.Current == nil {
		if dir > 0 {
			fm.Enter(fm.order[0], "")
		} else {
			fm.Enter(fm.order[len(fm.order)-1], "")
		}
		return fm.Current
	}
	idx := -1
	for i, n := range fm.order {
		if n == fm.Current {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
	}
	next := (idx + dir + len(fm.order)) % len(fm.order)
	fm.Enter(fm.order[next], "")
	return fm.Current
}

// Enter moves focus onto n. If n is contenteditable, a text cursor is
// initialized at the end of runText (its current text content), per spec
// §4.7: "when focus enters a contenteditable node, a text cursor is
// initialized at the end of its text."
func (fm *FocusManager) Enter(n *html.Node, runText string) {
	if fm.Current == n {
		return
	}
	if fm.Current != nil {
		delete(fm.cursors, fm.Current)
	}
	fm.Current = n
	if n != nil && isContentEditable(n) {
		fm.cursors[n] = text.Cursor{ClusterIndex: lastClusterIndex(runText), Affinity: text.Trailing}
	}
}

func lastClusterIndex(runText string) int {
	clusters := text.SegmentClusters(runText)
	if len(clusters) == 0 {
		return 0
	}
	return len(clusters) - 1
}

// Clear removes focus entirely and clears the outgoing node's cursor, per
// spec's Escape semantics and "when focus leaves, the cursor is cleared."
func (fm *FocusManager) Clear() {
	if fm.Current != nil {
		delete(fm.cursors, fm.Current)
	}
	fm.Current = nil
}

// Cursor returns the contenteditable cursor for n, if any.
func (fm *FocusManager) Cursor(n *html.Node) (text.Cursor, bool) {
	c, ok := fm.cursors[n]
	return c, ok
}

// SetCursor updates n's contenteditable cursor (called as edit operations
// and arrow-key navigation move it).
func (fm *FocusManager) SetCursor(n *html.Node, c text.Cursor) {
	fm.cursors[n] = c
}
