package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"

	"vellum/pkg/css"
	"vellum/pkg/displaylist"
)

// gradientLUTSize is the number of precomputed samples along a gradient's
// 0..1 axis, per spec §4.6's "precomputed gradient lookup table".
const gradientLUTSize = 256

// gradientInterp is the setup-stage output: a per-tile interpolant table
// plus the axis/center geometry Run projects each pixel onto.
type gradientInterp struct {
	lut    [gradientLUTSize]color.RGBA
	kind   displaylist.Kind
	x0, y0 float64
	x1, y1 float64 // linear: gradient end point. radial: unused beyond x0,y0=center.
	radius float64 // radial gradient radius
}

// gradientKernel evaluates linear, radial, and conic gradients via the same
// two-stage shape spec §4.6 describes: Setup samples the color stops into
// a fixed-size LUT, Run projects each destination pixel onto the gradient's
// axis and looks up (with clamp-at-edges repeat semantics) into that LUT.
type gradientKernel struct{}

func (gradientKernel) Setup(item displaylist.Item) (Interpolants, error) {
	g := item.Gradient.Gradient
	in := gradientInterp{kind: item.Kind}
	if g == nil || len(g.ColorStops) == 0 {
		return in, nil
	}
	for i := 0; i < gradientLUTSize; i++ {
		t := float64(i) / float64(gradientLUTSize-1)
		in.lut[i] = sampleStops(g.ColorStops, t)
	}

	rect := item.Gradient
	switch item.Kind {
	case displaylist.KindRadialGradient:
		in.x0 = rect.X + rect.Width/2
		in.y0 = rect.Y + rect.Height/2
		in.radius = math.Hypot(rect.Width, rect.Height) / 2
	case displaylist.KindConicGradient:
		in.x0 = rect.X + rect.Width/2
		in.y0 = rect.Y + rect.Height/2
	default: // linear
		x0, y0, x1, y1 := linearAxis(g.Direction, rect.X, rect.Y, rect.Width, rect.Height)
		in.x0, in.y0, in.x1, in.y1 = x0, y0, x1, y1
	}
	return in, nil
}

func linearAxis(direction string, x, y, w, h float64) (x0, y0, x1, y1 float64) {
	switch direction {
	case "to right":
		return x, y, x + w, y
	case "to left":
		return x + w, y, x, y
	case "to top":
		return x, y + h, x, y
	default: // "to bottom" and unhandled angle directions
		return x, y, x, y + h
	}
}

func sampleStops(stops []css.ColorStop, t float64) color.RGBA {
	if len(stops) == 1 {
		return cssColorToRGBA(stops[0].Color, 1)
	}
	for i := 0; i < len(stops)-1; i++ {
		a, b := stops[i], stops[i+1]
		if t >= a.Offset && t <= b.Offset {
			span := b.Offset - a.Offset
			localT := 0.0
			if span > 0 {
				localT = (t - a.Offset) / span
			}
			return lerpColor(a.Color, b.Color, localT)
		}
	}
	if t < stops[0].Offset {
		return cssColorToRGBA(stops[0].Color, 1)
	}
	return cssColorToRGBA(stops[len(stops)-1].Color, 1)
}

func lerpColor(a, b css.Color, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 255,
	}
}

// projectedT computes the 0..1 position a pixel falls at along the
// gradient's axis, clamped (repeat semantics are a future extension once
// `repeating-linear-gradient()` parsing lands in pkg/css).
func (in gradientInterp) projectedT(px, py float64) float64 {
	var t float64
	switch in.kind {
	case displaylist.KindRadialGradient:
		if in.radius <= 0 {
			return 0
		}
		t = math.Hypot(px-in.x0, py-in.y0) / in.radius
	case displaylist.KindConicGradient:
		angle := math.Atan2(py-in.y0, px-in.x0)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		t = angle / (2 * math.Pi)
	default:
		dx, dy := in.x1-in.x0, in.y1-in.y0
		lenSq := dx*dx + dy*dy
		if lenSq == 0 {
			return 0
		}
		t = ((px-in.x0)*dx + (py-in.y0)*dy) / lenSq
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t
}

func (in gradientInterp) at(px, py float64) color.RGBA {
	t := in.projectedT(px, py)
	idx := int(t * float64(gradientLUTSize-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= gradientLUTSize {
		idx = gradientLUTSize - 1
	}
	return in.lut[idx]
}

func (gradientKernel) Run(ctx *gg.Context, tile Tile, item displaylist.Item, interp Interpolants, opacity float64) {
	in := interp.(gradientInterp)
	r := item.Gradient
	x0, y0, x1, y1 := clipToTile(r.X, r.Y, r.X+r.Width, r.Y+r.Height, tile)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	img := ctx.Image()
	dst, ok := img.(draw.Image)
	if !ok {
		return
	}
	for y := int(y0); y < int(y1); y++ {
		for x := int(x0); x < int(x1); x++ {
			c := in.at(float64(x)+0.5, float64(y)+0.5)
			c.A = uint8(clamp255(float64(c.A) * opacity))
			dst.Set(x, y, c)
		}
	}
}
