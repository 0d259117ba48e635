// Command vellumctl is the headless CLI entry point for the layout engine:
// it loads an XML/HTML document, runs the cascade and layout solver, and
// dumps whichever artifact the caller asked for (a computed-layout tree, a
// display-list, or a scroll-clip map) to stdout or a PNG file, per spec §6.
package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v3"

	"vellum/pkg/css"
	"vellum/pkg/displaylist"
	"vellum/pkg/html"
	"vellum/pkg/images"
	"vellum/pkg/layout"
	"vellum/pkg/raster"
	"vellum/pkg/resource"
	"vellum/pkg/text"
	"vellum/pkg/vlog"
)

func main() {
	log := vlog.New("info")
	defer log.Sync()

	app := &cli.Command{
		Name:            "vellumctl",
		Usage:           "headless driver for the vellum layout and rendering engine",
		HideHelpCommand: true,
		ArgsUsage:       "INPUT.html",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "cascade", Usage: "dump the computed style cascade instead of rendering"},
			&cli.StringFlag{Name: "language", Value: "html",
				Usage: "binding `LANGUAGE` (rust|c|cpp|python|html); the value is validated only, no binding source is generated"},
			&cli.StringFlag{Name: "debug-layout", Usage: "dump the positioned layout tree at `WxH` viewport size"},
			&cli.StringFlag{Name: "display-list", Usage: "dump the display-list at `WxH` viewport size"},
			&cli.StringFlag{Name: "scroll-clips", Usage: "dump the scroll-clip chain at `WxH` viewport size"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "output.png", Usage: "output PNG path when no dump flag is given"},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "vellumctl: %v\n", err)
		os.Exit(-1) // spec §6: exit -1 on error, 0 on success or --help
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("expected an input file argument")
	}
	inputPath := cmd.Args().Get(0)

	lang := cmd.String("language")
	switch lang {
	case "rust", "c", "cpp", "python", "html":
	default:
		return fmt.Errorf("unsupported --language %q", lang)
	}

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	baseDir := filepath.Dir(inputPath)
	cssFetcher := func(uri string) (string, error) {
		resolved := uri
		if !filepath.IsAbs(uri) {
			resolved = filepath.Join(baseDir, uri)
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	doc, err := html.ParseWithFetcher(string(content), cssFetcher)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", inputPath, err)
	}

	width, height := parseWxH(firstNonEmpty(cmd.String("debug-layout"), cmd.String("display-list"), cmd.String("scroll-clips")), 1024, 768)

	imageFetcher := images.NewFilesystemFetcher(inputPath)
	engine := layout.NewLayoutEngine(width, height)
	engine.SetImageFetcher(imageFetcher)
	boxes := engine.Layout(doc)

	switch {
	case cmd.Bool("cascade"):
		dumpCascade(boxes)
	case cmd.String("debug-layout") != "":
		dumpLayoutTree(boxes, 0)
	case cmd.String("display-list") != "":
		dumpDisplayList(boxes)
	case cmd.String("scroll-clips") != "":
		dumpScrollClips(boxes, 0)
	default:
		frame, err := renderFrame(boxes, int(width), int(height))
		if err != nil {
			return err
		}
		out, err := os.Create(cmd.String("out"))
		if err != nil {
			return fmt.Errorf("creating %s: %w", cmd.String("out"), err)
		}
		defer out.Close()
		if err := png.Encode(out, frame); err != nil {
			return fmt.Errorf("saving %s: %w", cmd.String("out"), err)
		}
		fmt.Printf("rendered %d boxes to %s\n", len(boxes), cmd.String("out"))
	}
	return nil
}

// renderFrame walks boxes into a display list and rasterizes it, the same
// pipeline pkg/resource.VellumRenderer.paint drives for the embedder path.
func renderFrame(boxes []*layout.Box, width, height int) (*image.RGBA, error) {
	fonts := text.DefaultFontConfig()
	fontCache := resource.NewFontCache(32)
	shape := func(runText string, style *css.Style, maxWidth float64) *text.UnifiedLayout {
		fontSize := 16.0
		lineHeight := fontSize * 1.2
		bold, italic, mono, ahem := false, false, false, false
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
		path := fonts.FontPath(bold, italic, mono, ahem)
		weight := 400
		if bold {
			weight = 700
		}
		rec, err := fontCache.Get(resource.FontDescriptor{Family: path, Weight: weight, Italic: italic}, path)
		if err != nil {
			return nil
		}
		return text.Layout(runText, rec.Shaper, fontSize, lineHeight, maxWidth, align, text.OverflowBreakWord)
	}

	builder := displaylist.NewBuilder(shape)
	items := builder.Build(boxes)

	rz := raster.NewRasterizer(resource.NewImageCache(1), raster.DefaultTileSize)
	return rz.Render(items, width, height), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseWxH(spec string, defW, defH float64) (float64, float64) {
	parts := strings.SplitN(spec, "x", 2)
	if len(parts) != 2 {
		parts = strings.SplitN(spec, "X", 2)
	}
	if len(parts) != 2 {
		return defW, defH
	}
	w, err1 := strconv.ParseFloat(parts[0], 64)
	h, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return defW, defH
	}
	return w, h
}

func dumpCascade(boxes []*layout.Box) {
	var walk func(b *layout.Box, depth int)
	walk = func(b *layout.Box, depth int) {
		if b == nil {
			return
		}
		indent := strings.Repeat("  ", depth)
		tag := "#text"
		if b.Node != nil && b.Node.TagName != "" {
			tag = b.Node.TagName
		}
		fmt.Printf("%s<%s>\n", indent, tag)
		if b.Style != nil {
			props := make([]string, 0, len(b.Style.Properties))
			for p := range b.Style.Properties {
				props = append(props, p)
			}
			sort.Strings(props)
			for _, p := range props {
				fmt.Printf("%s  %s: %s\n", indent, p, b.Style.Properties[p])
			}
		}
		for _, c := range b.Children {
			walk(c, depth+1)
		}
	}
	for _, b := range boxes {
		walk(b, 0)
	}
}

func dumpLayoutTree(boxes []*layout.Box, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, b := range boxes {
		tag := "#text"
		if b.Node != nil && b.Node.TagName != "" {
			tag = b.Node.TagName
		}
		fmt.Printf("%s<%s> x=%.1f y=%.1f w=%.1f h=%.1f\n", indent, tag, b.X, b.Y, b.Width, b.Height)
		dumpLayoutTree(b.Children, depth+1)
	}
}

func dumpScrollClips(boxes []*layout.Box, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, b := range boxes {
		tag := "#text"
		if b.Node != nil && b.Node.TagName != "" {
			tag = b.Node.TagName
		}
		isClipRoot := b.Style != nil &&
			(b.Style.GetOverflow() == css.OverflowHidden ||
				b.Style.GetOverflow() == css.OverflowScroll ||
				b.Style.GetOverflow() == css.OverflowAuto)
		if isClipRoot {
			fmt.Printf("%sclip <%s> x=%.1f y=%.1f w=%.1f h=%.1f\n", indent, tag, b.X, b.Y, b.Width, b.Height)
		}
		dumpScrollClips(b.Children, depth+1)
	}
}

// dumpDisplayList prints the flat, paint-ordered Item stream pkg/displaylist
// builds from boxes — the same stream the rasterizer consumes, not just a
// summary of the box tree.
func dumpDisplayList(boxes []*layout.Box) {
	fonts := text.DefaultFontConfig()
	fontCache := resource.NewFontCache(32)
	shape := func(runText string, style *css.Style, maxWidth float64) *text.UnifiedLayout {
		fontSize := 16.0
		if style != nil {
			fontSize = style.GetFontSize()
		}
		path := fonts.FontPath(false, false, false, false)
		rec, err := fontCache.Get(resource.FontDescriptor{Family: path}, path)
		if err != nil {
			return nil
		}
		return text.Layout(runText, rec.Shaper, fontSize, fontSize*1.2, maxWidth, text.JustifyStart, text.OverflowBreakWord)
	}

	items := displaylist.NewBuilder(shape).Build(boxes)
	for i, item := range items {
		fmt.Printf("%4d  %-16s spatial=%d clip=%d\n", i, item.Kind, item.SpatialNodeID, item.ClipID)
	}
	fmt.Printf("display-list: %d items\n", len(items))
}
