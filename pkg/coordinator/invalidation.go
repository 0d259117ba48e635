package coordinator

import "vellum/pkg/html"

// Invalidation accumulates what changed during one callback tick, per spec
// §4.7's invalidation record: "changed CSS properties per node, changed
// text runs per node, changed images/masks, scroll requests, focus
// changes, created timers/threads." §4.4's incremental relayout consumes
// this on the next frame instead of re-running layout from scratch.
type Invalidation struct {
	StyleChanged map[*html.Node][]string // node -> changed property names
	TextChanged  map[*html.Node]string   // node -> new run text
	ImageChanged map[*html.Node]string   // node -> new resource key
	ScrollDelta  map[*html.Node][2]float64
	FocusChanged bool
	TimersAdded  []string
	TimersRemoved []string
}

// NewInvalidation returns an empty record.
func NewInvalidation() *Invalidation {
	return &Invalidation{
		StyleChanged: make(map[*html.Node][]string),
		TextChanged:  make(map[*html.Node]string),
		ImageChanged: make(map[*html.Node]string),
		ScrollDelta:  make(map[*html.Node][2]float64),
	}
}

// MarkStyle records that property changed on n.
func (inv *Invalidation) MarkStyle(n *html.Node, property string) {
	inv.StyleChanged[n] = append(inv.StyleChanged[n], property)
}

// MarkText records n's run text changed to newText.
func (inv *Invalidation) MarkText(n *html.Node, newText string) {
	inv.TextChanged[n] = newText
}

// MarkImage records n's background/content image changed to resourceKey.
func (inv *Invalidation) MarkImage(n *html.Node, resourceKey string) {
	inv.ImageChanged[n] = resourceKey
}

// MarkScroll accumulates a scroll request on n.
func (inv *Invalidation) MarkScroll(n *html.Node, dx, dy float64) {
	cur := inv.ScrollDelta[n]
	inv.ScrollDelta[n] = [2]float64{cur[0] + dx, cur[1] + dy}
}

// Empty reports whether nothing was recorded this tick.
func (inv *Invalidation) Empty() bool {
	return len(inv.StyleChanged) == 0 && len(inv.TextChanged) == 0 &&
		len(inv.ImageChanged) == 0 && len(inv.ScrollDelta) == 0 &&
		!inv.FocusChanged && len(inv.TimersAdded) == 0 && len(inv.TimersRemoved) == 0
}

// Reset clears the record for the next tick, called once §4.4's
// incremental relayout has consumed it.
func (inv *Invalidation) Reset() {
	inv.StyleChanged = make(map[*html.Node][]string)
	inv.TextChanged = make(map[*html.Node]string)
	inv.ImageChanged = make(map[*html.Node]string)
	inv.ScrollDelta = make(map[*html.Node][2]float64)
	inv.FocusChanged = false
	inv.TimersAdded = nil
	inv.TimersRemoved = nil
}
