// Command vellum-demo is a minimal fyne.io desktop shell around
// VellumRenderer: a URL bar, a status line, and an image canvas the
// rendered page is blitted into. It stands in for the PlatformHost a real
// embedder would supply (see pkg/platform) until that host is wired to a
// live event loop.
package main

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"vellum/pkg/platform"
	"vellum/pkg/resource"
	"vellum/pkg/script"
	stdnet "vellum/std/net"
)

func main() {
	a := app.New()
	w := a.NewWindow("vellum")
	w.Resize(fyne.NewSize(1024, 768))

	target := image.NewRGBA(image.Rect(0, 0, 1024, 700))
	canvasImg := canvas.NewImageFromImage(target)
	canvasImg.FillMode = canvas.ImageFillOriginal

	host := platform.NewFyneHost(w, canvasImg)

	status := widget.NewLabel("Enter a URL and press Enter")

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://example.com")
	urlEntry.OnSubmitted = func(url string) {
		status.SetText("Loading " + url + "...")
		go func() {
			body, _, err := stdnet.Fetch(url)
			if err != nil {
				status.SetText("Error: " + err.Error())
				return
			}

			renderTarget := image.NewRGBA(image.Rect(0, 0, 1024, 700))
			fetcher := resource.NewFetcher(url)
			renderer := resource.NewVellumRenderer(fetcher)
			renderer.SetJSEngine(script.New())
			if err := renderer.Render(string(body), renderTarget); err != nil {
				status.SetText("Render error: " + err.Error())
				return
			}

			host.Present(renderTarget)
			status.SetText(url)
			w.SetTitle(fmt.Sprintf("vellum — %s", url))
		}()
	}

	topBar := container.NewBorder(nil, nil, nil, nil, urlEntry)
	content := container.NewBorder(topBar, status, nil, nil, canvasImg)
	w.SetContent(content)

	w.Canvas().Focus(urlEntry)

	w.ShowAndRun()
}
