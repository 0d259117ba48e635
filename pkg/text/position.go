package text

import "fmt"

// Justify selects how a line's leftover space (maxWidth - line width) is
// distributed, mirroring the text-align/justify-content values that reach
// this pipeline from computed style.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
)

// ClusterRect is the per-cluster selection rectangle Stage 4 records: the
// box a caret or selection highlight occupies for one grapheme cluster.
type ClusterRect struct {
	ClusterIndex int
	X, Y         float64
	Width        float64
	Height       float64
}

// PositionedLine is a line after Stage 4 has assigned it a baseline and
// horizontal offset.
type PositionedLine struct {
	Line
	X float64 // left edge after justification
	Y float64 // top of the line box
}

// UnifiedLayout is the cached result of running all four text-pipeline
// stages over one text run: the shaped glyphs, the broken+positioned
// lines, and the per-cluster rects hit-testing and selection read from.
// It is cached keyed by CacheKey so repeated layouts of unchanged text
// under unchanged constraints are free.
type UnifiedLayout struct {
	Clusters []Cluster
	Glyphs   []ShapedGlyph
	Lines    []PositionedLine
	Rects    []ClusterRect
}

// CacheKey is the tuple spec.md ties shaped-text caching to: text hash,
// font id, wrap width, letter spacing, word spacing, and line height.
type CacheKey struct {
	TextHash     uint64
	FontID       string
	WrapWidth    float64
	LetterSpace  float64
	WordSpace    float64
	LineHeight   float64
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%x|%s|%.2f|%.2f|%.2f|%.2f", k.TextHash, k.FontID, k.WrapWidth, k.LetterSpace, k.WordSpace, k.LineHeight)
}

// HashText is the small FNV-1a hash used to build CacheKey.TextHash.
func HashText(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

// LayoutCache memoizes UnifiedLayout by CacheKey, evicted by the caller
// (typically on style/text invalidation) rather than by an internal LRU —
// the document owns cache lifetime, matching how layout.Box trees are
// rebuilt wholesale on invalidation rather than incrementally pruned here.
type LayoutCache struct {
	entries map[string]*UnifiedLayout
}

// NewLayoutCache creates an empty cache.
func NewLayoutCache() *LayoutCache {
	return &LayoutCache{entries: make(map[string]*UnifiedLayout)}
}

// Get returns the cached layout for key, if present.
func (c *LayoutCache) Get(key CacheKey) (*UnifiedLayout, bool) {
	l, ok := c.entries[key.String()]
	return l, ok
}

// Put stores a layout for key.
func (c *LayoutCache) Put(key CacheKey, layout *UnifiedLayout) {
	c.entries[key.String()] = layout
}

// Invalidate drops every cached entry (called when a font is reloaded or
// the whole document is torn down).
func (c *LayoutCache) Invalidate() {
	c.entries = make(map[string]*UnifiedLayout)
}

// Layout runs all four text-pipeline stages over text and produces a
// UnifiedLayout. runText is treated as one already-resolved run; no bidi
// reordering is done here. The stages are grapheme clustering, shaping via
// shaper, first-fit line breaking against maxWidth, and Stage 4 positioning
// (justification + per-cluster rects) using lineHeight for line advance.
func Layout(runText string, shaper *Shaper, fontSize, lineHeight, maxWidth float64, align Justify, wrap OverflowWrap) *UnifiedLayout {
	clusters := SegmentClusters(runText)
	glyphs := shaper.Shape(clusters, fontSize)
	lines := BreakLines(clusters, glyphs, maxWidth, wrap)

	positioned := make([]PositionedLine, 0, len(lines))
	rects := make([]ClusterRect, 0, len(clusters))
	y := 0.0
	for _, ln := range lines {
		x := justifyOffset(align, ln.Width, maxWidth)
		cursorX := x
		for gi := ln.GlyphStart; gi < ln.GlyphEnd; gi++ {
			g := glyphs[gi]
			rects = append(rects, ClusterRect{
				ClusterIndex: g.ClusterIndex,
				X:            cursorX,
				Y:            y,
				Width:        g.XAdvance,
				Height:       lineHeight,
			})
			cursorX += g.XAdvance
		}
		positioned = append(positioned, PositionedLine{
			Line: Line{
				GlyphStart: ln.GlyphStart,
				GlyphEnd:   ln.GlyphEnd,
				Width:      ln.Width,
				Baseline:   y + lineHeight*0.8,
				Height:     lineHeight,
			},
			X: x,
			Y: y,
		})
		y += lineHeight
	}

	return &UnifiedLayout{Clusters: clusters, Glyphs: glyphs, Lines: positioned, Rects: rects}
}

func justifyOffset(align Justify, lineWidth, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return 0
	}
	switch align {
	case JustifyCenter:
		if maxWidth > lineWidth {
			return (maxWidth - lineWidth) / 2
		}
	case JustifyEnd:
		if maxWidth > lineWidth {
			return maxWidth - lineWidth
		}
	}
	return 0
}
