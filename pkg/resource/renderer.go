package resource

import (
	"fmt"
	"image"
	"image/draw"
	"log"

	"vellum/pkg/css"
	"vellum/pkg/displaylist"
	"vellum/pkg/html"
	"vellum/pkg/images"
	"vellum/pkg/layout"
	"vellum/pkg/raster"
	"vellum/pkg/script"
	"vellum/pkg/text"
)

// Renderer renders HTML content onto an image.
type Renderer interface {
	Render(htmlContent string, target *image.RGBA) error
}

// VellumRenderer renders HTML content by running the cascade, layout
// solver, display-list builder, and tile rasterizer in sequence onto a
// target image.
type VellumRenderer struct {
	fetcher  Fetcher
	fonts    text.FontConfig
	jsEngine *script.Engine // nil = skip JS execution

	fontCache *FontCache
	images    *ImageCache
}

// SetJSEngine configures a JavaScript engine for DOM manipulation.
// When set, the renderer performs a two-pass render: first pass renders
// the initial state, then JS executes and mutates the DOM, then a
// second layout+render pass produces the final output.
func (r *VellumRenderer) SetJSEngine(engine *script.Engine) {
	r.jsEngine = engine
}

// NewVellumRenderer creates a new VellumRenderer with the given fetcher and font paths.
// The fetcher is used to load external stylesheets and images.
// If fonts is nil or zero-value, the default bundled fonts are used.
func NewVellumRenderer(fetcher Fetcher, fonts ...text.FontConfig) *VellumRenderer {
	fc := text.DefaultFontConfig()
	if len(fonts) > 0 && fonts[0].Regular != "" {
		fc = fonts[0]
	}
	return &VellumRenderer{
		fetcher:   fetcher,
		fonts:     fc,
		fontCache: NewFontCache(32),
		images:    NewImageCache(1),
	}
}

// Render parses the HTML content, performs layout, and renders onto the target image.
// The viewport width and height are derived from the target image dimensions.
func (r *VellumRenderer) Render(htmlContent string, target *image.RGBA) error {
	bounds := target.Bounds()
	viewportWidth := float64(bounds.Dx())
	viewportHeight := float64(bounds.Dy())

	// Build a CSS fetcher function from our Fetcher interface
	var cssFetcher html.CSSFetcher
	if r.fetcher != nil {
		cssFetcher = func(uri string) (string, error) {
			if df, ok := r.fetcher.(*DefaultFetcher); ok {
				return df.FetchCSS(uri)
			}
			body, _, err := r.fetcher.Fetch(uri)
			if err != nil {
				return "", err
			}
			return string(body), nil
		}
	}

	// Parse HTML with CSS fetcher
	doc, err := html.ParseWithFetcher(htmlContent, cssFetcher)
	if err != nil {
		return fmt.Errorf("parsing HTML: %w", err)
	}

	// Build an image fetcher function from our Fetcher interface
	var imageFetcher images.ImageFetcher
	if r.fetcher != nil {
		imageFetcher = func(uri string) ([]byte, error) {
			if df, ok := r.fetcher.(*DefaultFetcher); ok {
				return df.FetchImage(uri)
			}
			body, _, err := r.fetcher.Fetch(uri)
			if err != nil {
				return nil, err
			}
			return body, nil
		}
	}

	// Layout
	layoutEngine := layout.NewLayoutEngine(viewportWidth, viewportHeight)
	if imageFetcher != nil {
		layoutEngine.SetImageFetcher(imageFetcher)
	}
	boxes := layoutEngine.Layout(doc)

	r.paint(boxes, target)

	// Execute JavaScript if engine is configured
	if r.jsEngine != nil && len(doc.Scripts) > 0 {
		if err := r.jsEngine.Execute(doc); err != nil {
			log.Printf("js: %v", err)
		}

		// Second pass: re-layout and re-render with JS modifications
		layoutEngine2 := layout.NewLayoutEngine(viewportWidth, viewportHeight)
		if imageFetcher != nil {
			layoutEngine2.SetImageFetcher(imageFetcher)
		}
		boxes2 := layoutEngine2.Layout(doc)
		r.paint(boxes2, target)
	}

	return nil
}

// paint builds the display list for boxes and rasterizes it straight into
// target, superseding the teacher's box-walking renderer (pkg/render) with
// the cascade-driven builder + tile kernels pipeline.
func (r *VellumRenderer) paint(boxes []*layout.Box, target *image.RGBA) {
	bounds := target.Bounds()
	builder := displaylist.NewBuilder(r.shapeText)
	items := builder.Build(boxes)

	rz := raster.NewRasterizer(r.images, raster.DefaultTileSize)
	frame := rz.Render(items, bounds.Dx(), bounds.Dy())
	draw.Draw(target, bounds, frame, image.Point{}, draw.Src)
}

// shapeText is the displaylist.TextShaper hook: it resolves the run's face
// through r.fontCache (parsing and shaper construction happens once per
// distinct face, per FontCache.Get) and runs the text pipeline's four
// stages via text.Layout.
func (r *VellumRenderer) shapeText(runText string, style *css.Style, maxWidth float64) *text.UnifiedLayout {
	fontSize := 16.0
	lineHeight := fontSize * 1.2
	bold := false
	italic := false
	mono := false
	ahem := false
	align := text.JustifyStart
	if style != nil {
		fontSize = style.GetFontSize()
		lineHeight = style.GetLineHeight()
		bold = style.GetFontWeight() == css.FontWeightBold
		italic = style.GetFontStyle() == css.FontStyleItalic
		mono = style.IsMonospaceFamily()
		ahem = style.IsAhemFamily()
		switch style.GetTextAlign() {
		case css.TextAlignCenter:
			align = text.JustifyCenter
		case css.TextAlignRight:
			align = text.JustifyEnd
		}
	}

	fontPath := r.fonts.FontPath(bold, italic, mono, ahem)
	weight := 400
	if bold {
		weight = 700
	}
	rec, err := r.fontCache.Get(FontDescriptor{Family: fontPath, Weight: weight, Italic: italic}, fontPath)
	if err != nil {
		return nil
	}

	return text.Layout(runText, rec.Shaper, fontSize, lineHeight, maxWidth, align, text.OverflowBreakWord)
}
