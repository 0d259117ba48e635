package text

import (
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/math/fixed"
)

// ShapedGlyph is one output of Stage 2 (shaping): a single glyph produced
// from one grapheme cluster, carrying the advance and offsets a rasterizer
// needs to place it, plus the cluster it came from for hit-testing.
type ShapedGlyph struct {
	ClusterIndex int
	GlyphIndex   truetype.Index
	XAdvance     float64
	YAdvance     float64
	XOffset      float64
	YOffset      float64
}

// Shaper shapes grapheme clusters against one font face. Ligature/kerning
// tables are not consulted — each cluster maps to exactly one glyph, which
// is enough fidelity for the layout and hit-testing properties this engine
// is responsible for.
type Shaper struct {
	face *truetype.Font
}

// NewShaper wraps a parsed TrueType font for shaping.
func NewShaper(face *truetype.Font) *Shaper {
	return &Shaper{face: face}
}

// HasGlyph reports whether the face carries a glyph for r (cmap lookup
// returning the notdef index means no coverage).
func (s *Shaper) HasGlyph(r rune) bool {
	if s.face == nil {
		return false
	}
	return s.face.Index(r) != 0
}

// Shape converts clusters to positioned glyphs at the given pixel size.
// RTL reversal is the caller's responsibility (see ReverseGlyphsForRTL)
// since it is a property of the bidi run, not of shaping itself.
func (s *Shaper) Shape(clusters []Cluster, size float64) []ShapedGlyph {
	if s.face == nil {
		return nil
	}
	scale := fixed.Int26_6(size * 64)
	out := make([]ShapedGlyph, 0, len(clusters))
	for i, c := range clusters {
		rs := []rune(c.Text)
		if len(rs) == 0 {
			continue
		}
		idx := s.face.Index(rs[0])
		hm := s.face.HMetric(scale, idx)
		out = append(out, ShapedGlyph{
			ClusterIndex: i,
			GlyphIndex:   idx,
			XAdvance:     float64(hm.AdvanceWidth) / 64.0,
		})
	}
	return out
}

// ReverseGlyphsForRTL reverses glyph order in place semantics (returns a
// new slice) for a run whose bidi direction is right-to-left: per spec
// Stage 2, RTL runs are glyph-reversed after shaping so visual left-to-right
// iteration during line breaking and painting stays uniform across runs.
func ReverseGlyphsForRTL(glyphs []ShapedGlyph) []ShapedGlyph {
	out := make([]ShapedGlyph, len(glyphs))
	for i, g := range glyphs {
		out[len(glyphs)-1-i] = g
	}
	return out
}

// FallbackChain picks, for each cluster in text, the first face in chain
// that covers it; a cluster covered by none is recorded as tofu (face
// index -1). A chain "covers" text if every cluster finds a glyph.
type FallbackChain struct {
	Faces []*Shaper
}

// Resolve reports the face index in the chain to use per cluster, and
// whether every cluster was covered by some face in the chain.
func (fc FallbackChain) Resolve(clusters []Cluster) (faceIdx []int, covers bool) {
	faceIdx = make([]int, len(clusters))
	covers = true
	for i, c := range clusters {
		rs := []rune(c.Text)
		if len(rs) == 0 {
			faceIdx[i] = -1
			continue
		}
		found := -1
		for fi, face := range fc.Faces {
			if face.HasGlyph(rs[0]) {
				found = fi
				break
			}
		}
		faceIdx[i] = found
		if found < 0 {
			covers = false
		}
	}
	return faceIdx, covers
}
