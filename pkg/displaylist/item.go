// Package displaylist builds the flat, paint-ordered list of display
// items a tile rasterizer consumes, per spec §4.5 and §3's Display Item
// type.
package displaylist

import (
	"vellum/pkg/css"
	"vellum/pkg/text"
)

// Kind tags which variant an Item payload holds.
type Kind int

const (
	KindRect Kind = iota
	KindBorder
	KindImage
	KindText
	KindLinearGradient
	KindRadialGradient
	KindConicGradient
	KindClipPush
	KindClipPop
	KindTransform
	KindOpacity
)

var kindNames = [...]string{
	"Rect", "Border", "Image", "Text",
	"LinearGradient", "RadialGradient", "ConicGradient",
	"ClipPush", "ClipPop", "Transform", "Opacity",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Rect holds the payload for KindRect: a solid-color fill, optionally
// rounded.
type Rect struct {
	X, Y, Width, Height float64
	Color               css.Color
	BorderRadius        float64
}

// BorderSide is one edge of a Border item.
type BorderSide struct {
	Width float64
	Color css.Color
	Style string
}

// Border holds the payload for KindBorder.
type Border struct {
	X, Y, Width, Height      float64
	Top, Right, Bottom, Left BorderSide
	BorderRadius             float64
}

// Image holds the payload for KindImage: the resource key the rasterizer
// samples from (see pkg/resource.Key) plus the destination rect.
type Image struct {
	X, Y, Width, Height float64
	ResourceNamespace   uint32
	ResourceKey         uint32
}

// Text holds the payload for KindText: a reference to the cached
// UnifiedLayout the text pipeline produced, plus the origin it's painted
// at, the fill color, and the face the glyph cache should rasterize from.
type Text struct {
	X, Y     float64
	Layout   *text.UnifiedLayout
	Color    css.Color
	FontPath string
	FontSize float64
}

// Gradient holds the payload shared by the three gradient item kinds.
type Gradient struct {
	X, Y, Width, Height float64
	Gradient            *css.Gradient
}

// Clip holds the payload for KindClipPush: the clip rect a scroll/overflow
// root establishes for its descendants, popped by the matching KindClipPop.
type Clip struct {
	X, Y, Width, Height float64
	ClipID              uint32
}

// TransformPayload holds the payload for KindTransform: the matrix-style
// function list a new stacking context applies, and the id assigned to
// the spatial node it creates.
type TransformPayload struct {
	X, Y, Width, Height float64
	Transforms          []css.Transform
	Origin              css.TransformOrigin
	SpatialNodeID       uint32
}

// Opacity holds the payload for KindOpacity: the alpha a stacking context
// composites its children at.
type Opacity struct {
	Alpha float64
}

// Item is one entry of the flat display list: a tagged union plus the
// spatial-node id (nearest transform ancestor) and clip id it paints
// under, per spec §4.5/§6.
type Item struct {
	Kind          Kind
	SpatialNodeID uint32
	ClipID        uint32

	Rect      Rect
	Border    Border
	Image     Image
	Text      Text
	Gradient  Gradient
	Clip      Clip
	Transform TransformPayload
	Opacity   Opacity
}
