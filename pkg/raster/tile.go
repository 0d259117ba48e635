// Package raster is the tile-based software rasterizer, §4.6: the frame is
// divided into fixed-size tiles, the display list is binned per tile by
// bounds intersection, and each tile is painted by replaying the item
// stream through a shader kernel per primitive.
package raster

import "vellum/pkg/displaylist"

// DefaultTileSize matches the tile grain a WebRender-style compositor uses;
// small enough to parallelize across a worker pool, large enough that
// per-tile state replay overhead stays low.
const DefaultTileSize = 256

// Tile is one fixed-size region of the target frame buffer.
type Tile struct {
	X, Y, Width, Height int
}

// Rect returns the tile's bounds as float64 edges, for intersection tests
// against item bounds.
func (t Tile) Rect() (x0, y0, x1, y1 float64) {
	return float64(t.X), float64(t.Y), float64(t.X + t.Width), float64(t.Y + t.Height)
}

// TileGrid partitions a width x height frame into tiles of tileSize pixels,
// clipping the last row/column to the frame edge.
type TileGrid struct {
	Tiles      []Tile
	Cols, Rows int
	TileSize   int
}

// NewTileGrid builds the tile grid for a frame buffer.
func NewTileGrid(width, height, tileSize int) *TileGrid {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	cols := (width + tileSize - 1) / tileSize
	rows := (height + tileSize - 1) / tileSize
	grid := &TileGrid{Cols: cols, Rows: rows, TileSize: tileSize}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x := col * tileSize
			y := row * tileSize
			w := tileSize
			if x+w > width {
				w = width - x
			}
			h := tileSize
			if y+h > height {
				h = height - y
			}
			grid.Tiles = append(grid.Tiles, Tile{X: x, Y: y, Width: w, Height: h})
		}
	}
	return grid
}

// itemBounds returns the axis-aligned bounds a display item occupies,
// ignoring any active transform (transforms are applied by the rasterizer
// as part of the paint walk, not accounted for in binning — an item under
// a transform is conservatively bound to every tile since GetTransforms
// implies unknown extent without resolving the full matrix).
func itemBounds(item displaylist.Item) (x0, y0, x1, y1 float64, unbounded bool) {
	switch item.Kind {
	case displaylist.KindRect:
		r := item.Rect
		return r.X, r.Y, r.X + r.Width, r.Y + r.Height, false
	case displaylist.KindBorder:
		b := item.Border
		return b.X, b.Y, b.X + b.Width, b.Y + b.Height, false
	case displaylist.KindImage:
		im := item.Image
		return im.X, im.Y, im.X + im.Width, im.Y + im.Height, false
	case displaylist.KindText:
		t := item.Text
		w, h := 0.0, 0.0
		if t.Layout != nil {
			for _, line := range t.Layout.Lines {
				if line.Width > w {
					w = line.Width
				}
				h += line.Height
			}
		}
		return t.X, t.Y, t.X + w, t.Y + h, false
	case displaylist.KindLinearGradient, displaylist.KindRadialGradient, displaylist.KindConicGradient:
		g := item.Gradient
		return g.X, g.Y, g.X + g.Width, g.Y + g.Height, false
	case displaylist.KindClipPush:
		c := item.Clip
		return c.X, c.Y, c.X + c.Width, c.Y + c.Height, false
	default:
		// ClipPop/Transform/Opacity are state-stack operations with no
		// paint footprint of their own; they must be replayed on every
		// tile regardless of bounds.
		return 0, 0, 0, 0, true
	}
}

func intersects(ax0, ay0, ax1, ay1, bx0, by0, bx1, by1 float64) bool {
	return ax0 < bx1 && ax1 > bx0 && ay0 < by1 && ay1 > by0
}

// Bin groups item indices by the tile(s) their bounds intersect. State-
// stack items (clip pop, transform, opacity) are included in every tile's
// list since they must be replayed unconditionally to keep paint state
// consistent; Build's caller still iterates the full item list in order
// per tile, using Bin only to decide which *paint* items are worth the
// per-tile draw call.
func (g *TileGrid) Bin(items []displaylist.Item) [][]int {
	bins := make([][]int, len(g.Tiles))
	for i, item := range items {
		x0, y0, x1, y1, unbounded := itemBounds(item)
		for t, tile := range g.Tiles {
			if unbounded {
				bins[t] = append(bins[t], i)
				continue
			}
			tx0, ty0, tx1, ty1 := tile.Rect()
			if intersects(x0, y0, x1, y1, tx0, ty0, tx1, ty1) {
				bins[t] = append(bins[t], i)
			}
		}
	}
	return bins
}
