package raster

import (
	"github.com/fogleman/gg"

	"vellum/pkg/displaylist"
)

// textKernel composites a UnifiedLayout's glyphs onto a tile. It loads the
// run's face on the tile's gg.Context and draws each grapheme cluster at
// its Stage-4 rect, the same DrawString-per-character approach the teacher
// uses for letter-spacing in pkg/render/render.go's drawText, generalized
// to draw from the text pipeline's cached positions instead of re-measuring
// inline.
type textKernel struct{}

type textInterp struct{}

func (textKernel) Setup(item displaylist.Item) (Interpolants, error) {
	return textInterp{}, nil
}

func (textKernel) Run(ctx *gg.Context, tile Tile, item displaylist.Item, interp Interpolants, opacity float64) {
	t := item.Text
	if t.Layout == nil {
		return
	}
	size := t.FontSize
	if size <= 0 {
		size = 16
	}
	if err := ctx.LoadFontFace(t.FontPath, size); err != nil {
		return
	}
	ctx.SetColor(cssColorToRGBA(t.Color, opacity))

	for _, line := range t.Layout.Lines {
		baselineY := t.Y + line.Y + line.Baseline
		for _, rect := range t.Layout.Rects {
			if rect.ClusterIndex < 0 || rect.ClusterIndex >= len(t.Layout.Clusters) {
				continue
			}
			// Rects are flattened across all lines; only draw the ones whose
			// Y matches this line's top, since ClusterRect.Y is the line's
			// top offset (see text.Layout's Stage 4 positioning).
			if rect.Y != line.Y {
				continue
			}
			x := t.X + rect.X
			if x+rect.Width < float64(tile.X) || x > float64(tile.X+tile.Width) {
				continue
			}
			if baselineY < float64(tile.Y)-size || baselineY > float64(tile.Y+tile.Height)+size {
				continue
			}
			cluster := t.Layout.Clusters[rect.ClusterIndex]
			ctx.DrawString(cluster.Text, x, baselineY)
		}
	}
}
