package raster

import (
	"image"

	"github.com/fogleman/gg"

	"vellum/pkg/displaylist"
)

// Rasterizer paints a display list into a frame buffer by binning items per
// tile and replaying each tile's bin through a per-Kind shader kernel, per
// spec §4.6. ClipPush/ClipPop nest correctly in the item stream and are
// bracketed with real gg.Context Push/Pop; Transform and Opacity have no
// matching "pop" item (a box's stacking context just ends when its children
// run out), so the rasterizer tracks the latest transform/opacity recorded
// for each spatial-node id instead and applies them per paint item by that
// item's own SpatialNodeID, matching the "nearest transform ancestor"
// contract documented on displaylist.Item.
type Rasterizer struct {
	kernels  map[displaylist.Kind]Kernel
	tileSize int
}

// NewRasterizer builds a rasterizer wired to the shared image cache the
// image kernel samples from.
func NewRasterizer(images ImageSource, tileSize int) *Rasterizer {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return &Rasterizer{
		tileSize: tileSize,
		kernels: map[displaylist.Kind]Kernel{
			displaylist.KindRect:           solidKernel{},
			displaylist.KindBorder:         borderKernel{},
			displaylist.KindImage:          imageKernel{cache: images},
			displaylist.KindText:           textKernel{},
			displaylist.KindLinearGradient: gradientKernel{},
			displaylist.KindRadialGradient: gradientKernel{},
			displaylist.KindConicGradient:  gradientKernel{},
		},
	}
}

// Render paints items into a width x height RGBA frame, tiling the work per
// spec §4.6 so each tile's replay loop could in principle run on its own
// worker (pkg/workerpool schedules that; Render itself stays sequential so
// it's usable standalone, e.g. from cmd/vellumctl).
func (rz *Rasterizer) Render(items []displaylist.Item, width, height int) *image.RGBA {
	grid := NewTileGrid(width, height, rz.tileSize)
	bins := grid.Bin(items)

	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	for ti, tile := range grid.Tiles {
		rz.paintTile(frame, tile, items, bins[ti])
	}
	return frame
}

func (rz *Rasterizer) paintTile(frame *image.RGBA, tile Tile, items []displaylist.Item, indices []int) {
	sub := frame.SubImage(image.Rect(tile.X, tile.Y, tile.X+tile.Width, tile.Y+tile.Height)).(*image.RGBA)
	ctx := gg.NewContextForRGBA(sub)

	transforms := map[uint32]displaylist.TransformPayload{}
	opacities := map[uint32]float64{}
	clipDepth := 0

	for _, idx := range indices {
		item := items[idx]
		switch item.Kind {
		case displaylist.KindClipPush:
			ctx.Push()
			c := item.Clip
			ctx.DrawRectangle(c.X, c.Y, c.Width, c.Height)
			ctx.Clip()
			clipDepth++
		case displaylist.KindClipPop:
			if clipDepth > 0 {
				ctx.Pop()
				clipDepth--
			}
		case displaylist.KindTransform:
			transforms[item.Transform.SpatialNodeID] = item.Transform
		case displaylist.KindOpacity:
			opacities[item.SpatialNodeID] = item.Opacity.Alpha
		default:
			rz.paintItem(ctx, tile, item, transforms, opacities)
		}
	}
}

func (rz *Rasterizer) paintItem(ctx *gg.Context, tile Tile, item displaylist.Item, transforms map[uint32]displaylist.TransformPayload, opacities map[uint32]float64) {
	kernel, ok := rz.kernels[item.Kind]
	if !ok {
		return
	}
	interp, err := kernel.Setup(item)
	if err != nil {
		return
	}
	opacity := 1.0
	if a, ok := opacities[item.SpatialNodeID]; ok {
		opacity = a
	}

	tp, hasTransform := transforms[item.SpatialNodeID]
	if !hasTransform {
		if fast, ok := kernel.(SpanFastPath); ok {
			if fast.DrawSpanRGBA8(ctx.Image().(*image.RGBA), tile, item, interp, opacity) {
				return
			}
		}
		kernel.Run(ctx, tile, item, interp, opacity)
		return
	}

	ctx.Push()
	applyTransform(ctx, tp)
	kernel.Run(ctx, tile, item, interp, opacity)
	ctx.Pop()
}

// applyTransform mirrors pkg/render/render.go's applyTransforms: translate
// to the transform-origin point, apply each function in order, then
// translate back.
func applyTransform(ctx *gg.Context, tp displaylist.TransformPayload) {
	originX := tp.X + tp.Origin.X*tp.Width
	originY := tp.Y + tp.Origin.Y*tp.Height

	ctx.Translate(originX, originY)
	for _, t := range tp.Transforms {
		switch t.Type {
		case "translate":
			if len(t.Values) >= 2 {
				ctx.Translate(t.Values[0], t.Values[1])
			} else if len(t.Values) >= 1 {
				ctx.Translate(t.Values[0], 0)
			}
		case "rotate":
			if len(t.Values) >= 1 {
				ctx.Rotate(t.Values[0])
			}
		case "scale":
			if len(t.Values) >= 2 {
				ctx.Scale(t.Values[0], t.Values[1])
			} else if len(t.Values) >= 1 {
				ctx.Scale(t.Values[0], t.Values[0])
			}
		}
	}
	ctx.Translate(-originX, -originY)
}
