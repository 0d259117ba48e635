package resource

import (
	"container/list"
	"fmt"
	"image"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// GlyphRasterKey is spec §4.2's glyph raster cache key: font id, glyph
// index, size, subpixel position, and rendering flags (e.g. hinting on/off).
type GlyphRasterKey struct {
	FontID    string
	GlyphIdx  truetype.Index
	Size      float64
	Subpixel  float64 // fractional pixel x-offset, 0..1
	Flags     uint32
}

func (k GlyphRasterKey) string() string {
	return fmt.Sprintf("%s|%d|%.2f|%.3f|%d", k.FontID, k.GlyphIdx, k.Size, k.Subpixel, k.Flags)
}

// GlyphRasterCache produces and memoizes glyph alpha masks on demand,
// evicting least-recently-used entries once over capacity — the same
// hand-rolled LRU shape as FontCache (see font.go), since no LRU library
// exists anywhere in the example corpus.
type GlyphRasterCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type glyphCacheEntry struct {
	key  string
	mask *image.Alpha
}

// NewGlyphRasterCache creates a cache holding at most capacity rasterized
// glyphs.
func NewGlyphRasterCache(capacity int) *GlyphRasterCache {
	if capacity <= 0 {
		capacity = 4096
	}
	return &GlyphRasterCache{capacity: capacity, ll: list.New(), items: make(map[string]*list.Element)}
}

// Get returns the alpha mask for key, rasterizing it from face via
// truetype's glyph buffer/rasterizer on first use.
func (gc *GlyphRasterCache) Get(key GlyphRasterKey, face *truetype.Font) (*image.Alpha, error) {
	k := key.string()

	gc.mu.Lock()
	if el, ok := gc.items[k]; ok {
		gc.ll.MoveToFront(el)
		mask := el.Value.(*glyphCacheEntry).mask
		gc.mu.Unlock()
		return mask, nil
	}
	gc.mu.Unlock()

	mask, err := rasterizeGlyph(face, key)
	if err != nil {
		return nil, err
	}

	gc.mu.Lock()
	defer gc.mu.Unlock()
	if el, ok := gc.items[k]; ok {
		gc.ll.MoveToFront(el)
		return el.Value.(*glyphCacheEntry).mask, nil
	}
	el := gc.ll.PushFront(&glyphCacheEntry{key: k, mask: mask})
	gc.items[k] = el
	for gc.ll.Len() > gc.capacity {
		back := gc.ll.Back()
		if back == nil {
			break
		}
		gc.ll.Remove(back)
		delete(gc.items, back.Value.(*glyphCacheEntry).key)
	}
	return mask, nil
}

// rasterizeGlyph renders a single glyph outline to a coverage (alpha) mask.
// It loads the outline via truetype.GlyphBuf (on/off-curve quadratic
// contours, per the TrueType glyf format) and scan-converts it with
// golang.org/x/image/vector, the same scanline rasterizer family pkg/raster
// uses for the tile compositor. The fractional subpixel offset is baked
// into the sampled outline per spec's subpixel-positioning support
// (grayscale AA only — no ClearType-style subpixel color fringing).
func rasterizeGlyph(face *truetype.Font, key GlyphRasterKey) (*image.Alpha, error) {
	if face == nil {
		return nil, fmt.Errorf("rasterizeGlyph: nil face")
	}
	scale := fixed.Int26_6(key.Size * 64)

	var buf truetype.GlyphBuf
	if err := buf.Load(face, scale, key.GlyphIdx, font.HintingNone); err != nil {
		return nil, fmt.Errorf("rasterizeGlyph: load glyph %d: %w", key.GlyphIdx, err)
	}

	b := buf.Bounds
	w := (b.Max.X - b.Min.X).Ceil()
	h := (b.Max.Y - b.Min.Y).Ceil()
	if w <= 0 || h <= 0 {
		return image.NewAlpha(image.Rect(0, 0, 1, 1)), nil
	}

	rast := vector.NewRasterizer(w, h)
	originX := fixed26ToFloat(b.Min.X) - key.Subpixel
	originY := fixed26ToFloat(b.Min.Y)

	start := 0
	for _, end := range buf.Ends {
		addContour(rast, buf.Points[start:end], originX, originY, h)
		start = end
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask, nil
}

func fixed26ToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// addContour walks one glyf contour's on/off-curve points, synthesizing the
// implied on-curve midpoint between two consecutive off-curve control
// points, and feeds the resulting line/quadratic segments to rast. Y is
// flipped since glyf outlines are Y-up and image coordinates are Y-down.
func addContour(rast *vector.Rasterizer, pts []truetype.Point, originX, originY float64, h int) {
	n := len(pts)
	if n == 0 {
		return
	}
	toVec := func(p truetype.Point) (float64, float64) {
		x := fixed26ToFloat(p.X) - originX
		y := float64(h) - (fixed26ToFloat(p.Y) - originY)
		return x, y
	}
	onCurve := func(p truetype.Point) bool { return p.Flags&0x01 != 0 }

	startIdx := -1
	for i, p := range pts {
		if onCurve(p) {
			startIdx = i
			break
		}
	}
	var startX, startY float64
	if startIdx == -1 {
		x0, y0 := toVec(pts[0])
		x1, y1 := toVec(pts[n-1])
		startX, startY = (x0+x1)/2, (y0+y1)/2
		startIdx = 0
	} else {
		startX, startY = toVec(pts[startIdx])
	}

	rast.MoveTo(float32(startX), float32(startY))

	i := startIdx
	count := 0
	for count < n {
		next := (i + 1) % n
		p := pts[next]
		if onCurve(p) {
			x, y := toVec(p)
			rast.LineTo(float32(x), float32(y))
			i = next
			count++
			continue
		}
		afterNext := (next + 1) % n
		cx, cy := toVec(p)
		var ex, ey float64
		if onCurve(pts[afterNext]) {
			ex, ey = toVec(pts[afterNext])
			i = afterNext
			count += 2
		} else {
			nx, ny := toVec(pts[afterNext])
			ex, ey = (cx+nx)/2, (cy+ny)/2
			i = next
			count++
		}
		rast.QuadTo(float32(cx), float32(cy), float32(ex), float32(ey))
	}
	rast.ClosePath()
}
