package raster

import (
	"image"

	"github.com/fogleman/gg"

	"vellum/pkg/displaylist"
)

// Interpolants is the opaque per-instance state a kernel's Setup stage
// produces once and Run/DrawSpanRGBA8 consume per tile — a resolved
// color, a gradient lookup table, a decoded image, a glyph mask. Each
// kernel defines its own concrete type.
type Interpolants any

// Kernel is a per-primitive shader, per spec §4.6: Setup resolves one item
// instance into interpolants, Run paints a tile's contribution using a
// gg.Context already clipped to that tile's active clip region.
// opacity is the cumulative alpha of every enclosing stacking context's
// Opacity item — the only source of transparency for solid fills, since
// css.Color itself carries no alpha channel (the cascade parses but
// deliberately discards rgba()'s alpha component; see pkg/css/style.go's
// parseRGBColor). Compositing fractional opacity is therefore entirely
// the containing stacking context's job, per spec §4.6's "Compositing".
type Kernel interface {
	Setup(item displaylist.Item) (Interpolants, error)
	Run(ctx *gg.Context, tile Tile, item displaylist.Item, interp Interpolants, opacity float64)
}

// SpanFastPath is implemented by kernels that can composite straight into
// the destination buffer for affine-only, axis-aligned instances, skipping
// gg's generic path entirely — the inner-loop fast path spec §4.6 calls
// out for span runs under identity/translation-only transforms.
type SpanFastPath interface {
	DrawSpanRGBA8(dst *image.RGBA, tile Tile, item displaylist.Item, interp Interpolants, opacity float64) bool
}
