package text

// Cursor is a caret position: the cluster it sits at plus which side of
// that cluster it's logically on. Per spec.md §3, cursor position is always
// (cluster id, affinity), never a raw byte offset, so it survives reshaping.
type Cursor struct {
	ClusterIndex int
	Affinity     Affinity
}

// Selection is either a bare cursor (Anchor == Head) or an oriented
// anchor/head range. Multiple simultaneous selections are represented as a
// []Selection by the caller (spec.md's multi-cursor allowance).
type Selection struct {
	Anchor Cursor
	Head   Cursor
}

// IsCollapsed reports whether the selection is a single caret.
func (s Selection) IsCollapsed() bool { return s.Anchor == s.Head }

// visualOrder returns the glyph index order the clusters appear at on
// screen, used so left/right navigation walks visual rather than logical
// neighbors across a bidi boundary.
func visualOrder(layout *UnifiedLayout) []int {
	order := make([]int, len(layout.Glyphs))
	for i, g := range layout.Glyphs {
		order[i] = g.ClusterIndex
	}
	return order
}

func glyphIndexForCluster(layout *UnifiedLayout, clusterIdx int) int {
	for i, g := range layout.Glyphs {
		if g.ClusterIndex == clusterIdx {
			return i
		}
	}
	return -1
}

// MoveHorizontal steps the cursor one cluster left or right in VISUAL
// order, swapping affinity at the step per spec.md's navigation rule.
func MoveHorizontal(layout *UnifiedLayout, c Cursor, forward bool) Cursor {
	order := visualOrder(layout)
	if len(order) == 0 {
		return c
	}
	gi := glyphIndexForCluster(layout, c.ClusterIndex)
	if gi < 0 {
		gi = 0
	}
	if forward {
		if gi+1 < len(order) {
			return Cursor{ClusterIndex: order[gi+1], Affinity: Leading}
		}
		return Cursor{ClusterIndex: order[gi], Affinity: Trailing}
	}
	if gi-1 >= 0 {
		return Cursor{ClusterIndex: order[gi-1], Affinity: Trailing}
	}
	return Cursor{ClusterIndex: order[gi], Affinity: Leading}
}

// lineContaining returns the index of the line owning clusterIdx.
func lineContaining(layout *UnifiedLayout, clusterIdx int) int {
	gi := glyphIndexForCluster(layout, clusterIdx)
	for i, ln := range layout.Lines {
		if gi >= ln.GlyphStart && gi < ln.GlyphEnd {
			return i
		}
	}
	if len(layout.Lines) > 0 {
		return len(layout.Lines) - 1
	}
	return -1
}

func rectForCluster(layout *UnifiedLayout, clusterIdx int) (ClusterRect, bool) {
	for _, r := range layout.Rects {
		if r.ClusterIndex == clusterIdx {
			return r, true
		}
	}
	return ClusterRect{}, false
}

// MoveVertical moves the cursor to the nearest cluster on the adjacent line
// whose horizontal bracket contains xGoal — the saved x-goal that up/down
// navigation preserves across lines of differing cluster widths.
func MoveVertical(layout *UnifiedLayout, c Cursor, xGoal float64, down bool) Cursor {
	line := lineContaining(layout, c.ClusterIndex)
	if line < 0 {
		return c
	}
	target := line - 1
	if down {
		target = line + 1
	}
	if target < 0 || target >= len(layout.Lines) {
		return c
	}
	ln := layout.Lines[target]
	best := -1
	bestDist := -1.0
	for gi := ln.GlyphStart; gi < ln.GlyphEnd; gi++ {
		ci := layout.Glyphs[gi].ClusterIndex
		r, ok := rectForCluster(layout, ci)
		if !ok {
			continue
		}
		var dist float64
		if xGoal < r.X {
			dist = r.X - xGoal
		} else if xGoal > r.X+r.Width {
			dist = xGoal - (r.X + r.Width)
		} else {
			dist = 0
		}
		if best < 0 || dist < bestDist {
			best = ci
			bestDist = dist
		}
	}
	if best < 0 {
		return c
	}
	return Cursor{ClusterIndex: best, Affinity: Leading}
}

// LineStart and LineEnd pick the first/last cluster of the line containing
// c, in LOGICAL order (unlike horizontal navigation, which is visual).
func LineStart(layout *UnifiedLayout, c Cursor) Cursor {
	line := lineContaining(layout, c.ClusterIndex)
	if line < 0 {
		return c
	}
	ln := layout.Lines[line]
	minCluster := -1
	for gi := ln.GlyphStart; gi < ln.GlyphEnd; gi++ {
		ci := layout.Glyphs[gi].ClusterIndex
		if minCluster < 0 || ci < minCluster {
			minCluster = ci
		}
	}
	if minCluster < 0 {
		return c
	}
	return Cursor{ClusterIndex: minCluster, Affinity: Leading}
}

func LineEnd(layout *UnifiedLayout, c Cursor) Cursor {
	line := lineContaining(layout, c.ClusterIndex)
	if line < 0 {
		return c
	}
	ln := layout.Lines[line]
	maxCluster := -1
	for gi := ln.GlyphStart; gi < ln.GlyphEnd; gi++ {
		ci := layout.Glyphs[gi].ClusterIndex
		if ci > maxCluster {
			maxCluster = ci
		}
	}
	if maxCluster < 0 {
		return c
	}
	return Cursor{ClusterIndex: maxCluster, Affinity: Trailing}
}

// XGoal returns the x coordinate of c's cluster, the value up/down
// navigation should carry forward as its goal across lines.
func XGoal(layout *UnifiedLayout, c Cursor) float64 {
	r, ok := rectForCluster(layout, c.ClusterIndex)
	if !ok {
		return 0
	}
	if c.Affinity == Trailing {
		return r.X + r.Width
	}
	return r.X
}
