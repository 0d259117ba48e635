package displaylist

import (
	"strconv"
	"strings"

	"vellum/pkg/css"
	"vellum/pkg/html"
	"vellum/pkg/layout"
	"vellum/pkg/text"
)

var defaultFonts = text.DefaultFontConfig()

// TextShaper produces a UnifiedLayout for a text box's content, given its
// resolved style. The builder doesn't own font resolution (pkg/resource
// does); callers supply this hook so displaylist stays decoupled from the
// font cache and glyph fallback machinery.
type TextShaper func(runText string, style *css.Style, maxWidth float64) *text.UnifiedLayout

// Builder walks a positioned layout.Box tree and emits a flat, paint-
// ordered Item list, per spec §4.5: stacking-context order, clip push/pop
// around scroll/overflow roots, background color then background image/
// gradient then border then children for each box, one Text item per text
// node, and a new spatial node for every transform/opacity boundary.
type Builder struct {
	Shape TextShaper

	items         []Item
	nextClipID    uint32
	nextSpatialID uint32
}

// NewBuilder creates a builder. shape may be nil, in which case text boxes
// are skipped (useful for layout-only dumps that don't need glyph data).
func NewBuilder(shape TextShaper) *Builder {
	return &Builder{Shape: shape, nextClipID: 1, nextSpatialID: 1}
}

// Build walks boxes in document order (already stacking-context ordered by
// the layout solver's z-index sort) and returns the flat item list.
func (b *Builder) Build(boxes []*layout.Box) []Item {
	b.items = nil
	b.walk(boxes, 0, 0)
	return b.items
}

func (b *Builder) walk(boxes []*layout.Box, clipID, spatialID uint32) {
	for _, box := range boxes {
		b.emitBox(box, clipID, spatialID)
	}
}

func (b *Builder) emitBox(box *layout.Box, clipID, spatialID uint32) {
	if box == nil {
		return
	}

	// Text boxes have no Style-driven background/border of their own; they
	// come from a text run and emit exactly one Text item.
	if box.Node != nil && box.Node.Type == html.TextNode {
		b.emitText(box, clipID, spatialID)
		return
	}

	thisSpatial := spatialID

	if box.Style != nil {
		if transforms := box.Style.GetTransforms(); len(transforms) > 0 {
			thisSpatial = b.nextSpatialID
			b.nextSpatialID++
			b.items = append(b.items, Item{
				Kind:          KindTransform,
				SpatialNodeID: thisSpatial,
				ClipID:        clipID,
				Transform: TransformPayload{
					X: box.X, Y: box.Y, Width: box.Width, Height: box.Height,
					Transforms:    transforms,
					Origin:        box.Style.GetTransformOrigin(),
					SpatialNodeID: thisSpatial,
				},
			})
		}
		if alpha, ok := box.Style.Get("opacity"); ok {
			if a := parseOpacity(alpha); a < 1 {
				b.items = append(b.items, Item{
					Kind: KindOpacity, SpatialNodeID: thisSpatial, ClipID: clipID,
					Opacity: Opacity{Alpha: a},
				})
			}
		}
	}

	thisClip := clipID
	clipPushed := false
	if box.Style != nil {
		ov := box.Style.GetOverflow()
		if ov == css.OverflowHidden || ov == css.OverflowScroll || ov == css.OverflowAuto {
			thisClip = b.nextClipID
			b.nextClipID++
			b.items = append(b.items, Item{
				Kind: KindClipPush, SpatialNodeID: thisSpatial, ClipID: thisClip,
				Clip: Clip{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height, ClipID: thisClip},
			})
			clipPushed = true
		}
	}

	b.emitBackgroundAndBorder(box, thisSpatial, thisClip)

	b.walk(box.Children, thisClip, thisSpatial)

	if clipPushed {
		b.items = append(b.items, Item{Kind: KindClipPop, SpatialNodeID: thisSpatial, ClipID: thisClip})
	}
}

func (b *Builder) emitBackgroundAndBorder(box *layout.Box, spatialID, clipID uint32) {
	if box.Style == nil {
		return
	}
	x := box.X
	y := box.Y
	w := box.Width + box.Padding.Left + box.Padding.Right + box.Border.Left + box.Border.Right
	h := box.Height + box.Padding.Top + box.Padding.Bottom + box.Border.Top + box.Border.Bottom

	if bgColor, ok := box.Style.Get("background-color"); ok {
		if color, ok := css.ParseColor(bgColor); ok {
			b.items = append(b.items, Item{
				Kind: KindRect, SpatialNodeID: spatialID, ClipID: clipID,
				Rect: Rect{X: x, Y: y, Width: w, Height: h, Color: color},
			})
		}
	}

	if bgImage, ok := box.Style.Get("background-image"); ok && bgImage != "" && bgImage != "none" {
		if grad, ok := css.ParseLinearGradient(bgImage); ok {
			b.items = append(b.items, Item{
				Kind: KindLinearGradient, SpatialNodeID: spatialID, ClipID: clipID,
				Gradient: Gradient{X: x, Y: y, Width: w, Height: h, Gradient: grad},
			})
		} else {
			b.items = append(b.items, Item{
				Kind: KindImage, SpatialNodeID: spatialID, ClipID: clipID,
				Image: Image{X: x, Y: y, Width: w, Height: h},
			})
		}
	}

	bw := box.Style.GetBorderWidth()
	if bw.Top > 0 || bw.Right > 0 || bw.Bottom > 0 || bw.Left > 0 {
		b.items = append(b.items, Item{
			Kind: KindBorder, SpatialNodeID: spatialID, ClipID: clipID,
			Border: Border{
				X: x, Y: y, Width: w, Height: h,
				Top:    borderSide(box.Style, bw.Top),
				Right:  borderSide(box.Style, bw.Right),
				Bottom: borderSide(box.Style, bw.Bottom),
				Left:   borderSide(box.Style, bw.Left),
			},
		})
	}
}

// borderSide resolves one edge's paint color and style. The cascade only
// tracks border-color/border-style as shorthand properties today (per-side
// widths are the only longhand split out), so all four edges share them.
func borderSide(style *css.Style, width float64) BorderSide {
	color := style.GetColor()
	if c, ok := style.Get("border-color"); ok {
		if parsed, ok := css.ParseColor(c); ok {
			color = parsed
		}
	}
	styleName := "solid"
	if s, ok := style.Get("border-style"); ok && s != "" {
		styleName = s
	}
	return BorderSide{Width: width, Color: color, Style: styleName}
}

func (b *Builder) emitText(box *layout.Box, clipID, spatialID uint32) {
	if box.Node == nil || b.Shape == nil {
		return
	}
	color := css.Color{}
	fontPath := defaultFonts.Regular
	fontSize := 16.0
	if box.Style != nil {
		color = box.Style.GetColor()
		fontSize = box.Style.GetFontSize()
		bold := box.Style.GetFontWeight() == css.FontWeightBold
		italic := box.Style.GetFontStyle() == css.FontStyleItalic
		fontPath = defaultFonts.FontPath(bold, italic, box.Style.IsMonospaceFamily(), box.Style.IsAhemFamily())
	}
	shaped := b.Shape(box.Node.Text, box.Style, box.Width)
	if shaped == nil {
		return
	}
	b.items = append(b.items, Item{
		Kind: KindText, SpatialNodeID: spatialID, ClipID: clipID,
		Text: Text{X: box.X, Y: box.Y, Layout: shaped, Color: color, FontPath: fontPath, FontSize: fontSize},
	})
}

func parseOpacity(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 1
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
