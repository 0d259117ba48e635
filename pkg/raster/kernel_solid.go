package raster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"

	"vellum/pkg/css"
	"vellum/pkg/displaylist"
)

// solidKernel paints KindRect: a constant color, optionally with rounded
// corners, per the teacher's own `drawGradientBackground`/background-color
// path in pkg/render/render.go (DrawRoundedRectangle + Fill).
type solidKernel struct{}

type solidInterp struct {
	c css.Color
}

func cssColorToRGBA(c css.Color, alpha float64) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp255(alpha * 255))}
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func (solidKernel) Setup(item displaylist.Item) (Interpolants, error) {
	return solidInterp{c: item.Rect.Color}, nil
}

func (solidKernel) Run(ctx *gg.Context, tile Tile, item displaylist.Item, interp Interpolants, opacity float64) {
	in := interp.(solidInterp)
	r := item.Rect
	ctx.SetColor(cssColorToRGBA(in.c, opacity))
	if r.BorderRadius > 0 {
		ctx.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, r.BorderRadius)
	} else {
		ctx.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	}
	ctx.Fill()
}

// DrawSpanRGBA8 is the fast path for an axis-aligned, non-rounded, fully
// opaque solid rect: a direct per-row fill of the destination buffer,
// bypassing gg's path rasterizer entirely.
func (solidKernel) DrawSpanRGBA8(dst *image.RGBA, tile Tile, item displaylist.Item, interp Interpolants, opacity float64) bool {
	r := item.Rect
	if r.BorderRadius > 0 || opacity < 1 {
		return false
	}
	in := interp.(solidInterp)
	x0, y0, x1, y1 := clipToTile(r.X, r.Y, r.X+r.Width, r.Y+r.Height, tile)
	if x1 <= x0 || y1 <= y0 {
		return true
	}
	c := cssColorToRGBA(in.c, 1)
	draw.Draw(dst, image.Rect(int(x0), int(y0), int(x1), int(y1)), &image.Uniform{C: c}, image.Point{}, draw.Over)
	return true
}

func clipToTile(x0, y0, x1, y1 float64, tile Tile) (float64, float64, float64, float64) {
	tx0, ty0, tx1, ty1 := tile.Rect()
	if x0 < tx0 {
		x0 = tx0
	}
	if y0 < ty0 {
		y0 = ty0
	}
	if x1 > tx1 {
		x1 = tx1
	}
	if y1 > ty1 {
		y1 = ty1
	}
	return x0, y0, x1, y1
}

// borderKernel paints KindBorder as four axis-aligned edge strips — a
// simplified stand-in for the teacher's mitred per-side polygon fills in
// drawBorder, adequate for the solid/dashed/dotted styles this engine
// exposes without replicating that function's corner-join math.
type borderKernel struct{}

func (borderKernel) Setup(item displaylist.Item) (Interpolants, error) {
	return nil, nil
}

func (borderKernel) Run(ctx *gg.Context, tile Tile, item displaylist.Item, interp Interpolants, opacity float64) {
	b := item.Border
	drawEdge := func(side displaylist.BorderSide, x, y, w, h float64) {
		if side.Width <= 0 || side.Style == "none" {
			return
		}
		ctx.SetColor(cssColorToRGBA(side.Color, opacity))
		ctx.DrawRectangle(x, y, w, h)
		ctx.Fill()
	}
	drawEdge(b.Top, b.X, b.Y, b.Width, b.Top.Width)
	drawEdge(b.Bottom, b.X, b.Y+b.Height-b.Bottom.Width, b.Width, b.Bottom.Width)
	drawEdge(b.Left, b.X, b.Y, b.Left.Width, b.Height)
	drawEdge(b.Right, b.X+b.Width-b.Right.Width, b.Y, b.Right.Width, b.Height)
}
