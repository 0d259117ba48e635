package platform

import (
	"image"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// FyneHost adapts a fyne.io/fyne/v2 window to the Host contract, grounded
// on the teacher's cmd/l14/main.go window setup (app.New/NewWindow/Resize/
// canvas.NewImageFromImage/SetContent/ShowAndRun). PollEvents always
// returns nil: fyne is callback-driven rather than poll-driven, so this
// adapter's caller wires fyne's widget callbacks (OnTapped, OnSubmitted,
// window.Canvas().SetOnTypedKey, ...) to push onto an Event channel
// instead, the same shape cmd/vellum-demo already uses for its URL bar.
type FyneHost struct {
	Window  fyne.Window
	Surface *canvas.Image

	events chan Event
}

// NewFyneHost wraps an already-constructed window and its backing image
// canvas (see cmd/vellum-demo for the construction site).
func NewFyneHost(w fyne.Window, surface *canvas.Image) *FyneHost {
	return &FyneHost{Window: w, Surface: surface, events: make(chan Event, 64)}
}

// Push enqueues an event a fyne widget callback observed (a key press, a
// pointer click) for the next PollEvents call.
func (h *FyneHost) Push(e Event) {
	select {
	case h.events <- e:
	default:
	}
}

func (h *FyneHost) SurfaceSize() (width, height int, dpi float64) {
	size := h.Window.Canvas().Size()
	return int(size.Width), int(size.Height), 96
}

func (h *FyneHost) Present(frame *image.RGBA) {
	if h.Surface == nil {
		return
	}
	h.Surface.Image = frame
	h.Surface.Refresh()
}

func (h *FyneHost) PollEvents() []Event {
	var out []Event
	for {
		select {
		case e := <-h.events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func (h *FyneHost) SetCursor(kind CursorKind) {
	// fyne's cursor API is per-widget (desktop.Cursorable), not per-window;
	// a generic Host adapter has no single widget to attach it to.
}

func (h *FyneHost) ClipboardGet() string {
	return h.Window.Clipboard().Content()
}

func (h *FyneHost) ClipboardSet(text string) {
	h.Window.Clipboard().SetContent(text)
}

func (h *FyneHost) ClockNow() time.Time { return time.Now() }

func (h *FyneHost) SpawnTimer(interval time.Duration) <-chan time.Time {
	return time.NewTicker(interval).C
}

func (h *FyneHost) OpenURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	return fyne.CurrentApp().OpenURL(u)
}

func (h *FyneHost) OpenFileDialog() (string, error) {
	// fyne's file dialog (dialog.ShowFileOpen) is callback-based, not a
	// blocking call, so it doesn't fit this synchronous method shape
	// without the caller supplying a continuation; left for the concrete
	// embedder to implement against dialog.ShowFileOpen directly.
	return "", nil
}

func (h *FyneHost) ShowNativeMenu(tree MenuTree, anchorX, anchorY float64) {
	// fyne menus are constructed per-window via fyne.NewMainMenu at window
	// creation, not shown ad hoc at a point; the concrete embedder builds
	// its fyne.Menu from MenuTree once at startup instead of calling this.
}
