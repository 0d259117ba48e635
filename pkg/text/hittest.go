package text

import "sort"

// Affinity distinguishes a cursor logically "before" (Leading) or "after"
// (Trailing) its cluster, needed to place a caret unambiguously at bidi and
// line-wrap boundaries where two clusters abut in visual space.
type Affinity int

const (
	Leading Affinity = iota
	Trailing
)

// HitTest finds the cluster a point (x, y) lands on within layout: binary
// search the lines by y, then a linear walk of that line's cluster rects
// by x. Affinity is Leading if x falls before the cluster's midpoint, else
// Trailing, per spec's hit-testing rule.
func HitTest(layout *UnifiedLayout, x, y float64) (clusterIndex int, affinity Affinity) {
	if layout == nil || len(layout.Lines) == 0 {
		return 0, Leading
	}
	lineIdx := sort.Search(len(layout.Lines), func(i int) bool {
		return layout.Lines[i].Y+layout.Lines[i].Line.height() > y
	})
	if lineIdx >= len(layout.Lines) {
		lineIdx = len(layout.Lines) - 1
	}
	line := layout.Lines[lineIdx]

	rects := rectsForLine(layout, line)
	if len(rects) == 0 {
		return 0, Leading
	}
	for _, r := range rects {
		if x < r.X {
			return r.ClusterIndex, Leading
		}
		if x <= r.X+r.Width {
			mid := r.X + r.Width/2
			if x < mid {
				return r.ClusterIndex, Leading
			}
			return r.ClusterIndex, Trailing
		}
	}
	last := rects[len(rects)-1]
	return last.ClusterIndex, Trailing
}

func rectsForLine(layout *UnifiedLayout, line PositionedLine) []ClusterRect {
	var out []ClusterRect
	for _, r := range layout.Rects {
		if r.ClusterIndex >= clusterIndexForGlyph(layout, line.GlyphStart) &&
			r.ClusterIndex <= clusterIndexForGlyph(layout, line.GlyphEnd-1) {
			out = append(out, r)
		}
	}
	return out
}

func clusterIndexForGlyph(layout *UnifiedLayout, glyphIdx int) int {
	if glyphIdx < 0 || glyphIdx >= len(layout.Glyphs) {
		return -1
	}
	return layout.Glyphs[glyphIdx].ClusterIndex
}

// height returns the line's vertical extent for y binary search.
func (l Line) height() float64 {
	return l.Height
}
