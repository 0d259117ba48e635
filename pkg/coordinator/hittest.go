// Package coordinator implements the event & cache coordinator: hit-testing,
// focus, selection, callback dispatch, timers, and invalidation recording,
// per spec §4.7. It is the only package allowed to mutate focus/selection/
// timer state; layout and paint only ever read a snapshot of it.
package coordinator

import (
	"vellum/pkg/css"
	"vellum/pkg/layout"
)

// clip is one entry of the clip chain a point must fall inside: an
// overflow:hidden/scroll/auto ancestor's border-box.
type clip struct{ x0, y0, x1, y1 float64 }

func (c clip) contains(x, y float64) bool {
	return x >= c.x0 && x < c.x1 && y >= c.y0 && y < c.y1
}

// HitTest walks the positioned box tree in reverse paint order (later
// siblings and deeper descendants paint on top) and returns the topmost box
// whose border-box contains the point, whose clip chain also contains it,
// and whose node carries a non-empty HitTag. Returns nil if nothing
// interactive is under the point, per spec §4.7's hit-testing rule.
func HitTest(root *layout.Box, x, y float64) *layout.Box {
	if root == nil {
		return nil
	}
	return hitTestWalk(root, x, y, nil)
}

func hitTestWalk(box *layout.Box, x, y float64, clips []clip) *layout.Box {
	active := clips
	if boxClips(box) {
		x0, y0, x1, y1 := borderBox(box)
		active = append(append([]clip{}, clips...), clip{x0: x0, y0: y0, x1: x1, y1: y1})
	}

	// Reverse paint order: later children paint over earlier ones, so probe
	// them first.
	for i := len(box.Children) - 1; i >= 0; i-- {
		if hit := hitTestWalk(box.Children[i], x, y, active); hit != nil {
			return hit
		}
	}

	bx0, by0, bx1, by1 := borderBox(box)
	if x < bx0 || x >= bx1 || y < by0 || y >= by1 {
		return nil
	}
	for _, c := range active {
		if !c.contains(x, y) {
			return nil
		}
	}
	if box.Node == nil || box.Node.HitTag == "" {
		return nil
	}
	return box
}

func borderBox(box *layout.Box) (x0, y0, x1, y1 float64) {
	x0 = box.X
	y0 = box.Y
	x1 = box.X + box.Width + box.Padding.Left + box.Padding.Right + box.Border.Left + box.Border.Right
	y1 = box.Y + box.Height + box.Padding.Top + box.Padding.Bottom + box.Border.Top + box.Border.Bottom
	return
}

func boxClips(box *layout.Box) bool {
	if box.Style == nil {
		return false
	}
	ov := box.Style.GetOverflow()
	return ov == css.OverflowHidden || ov == css.OverflowScroll || ov == css.OverflowAuto
}
