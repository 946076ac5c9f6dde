package ui

import (
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/logging"
	"SketchBoard/internal/raster"
	"SketchBoard/internal/state"
)

// BoardWidget shows the raster surface and feeds mouse input to the
// board's stroke recorder.
type BoardWidget struct {
	widget.BaseWidget
	board   *state.Board
	surface *raster.Surface
	log     *slog.Logger

	image *canvas.Image
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(board *state.Board, surface *raster.Surface, logger *slog.Logger) *BoardWidget {
	b := &BoardWidget{
		board:   board,
		surface: surface,
		log:     logging.OrNop(logger),
	}
	b.image = canvas.NewImageFromImage(surface.Image())
	b.image.FillMode = canvas.ImageFillStretch
	b.image.ScaleMode = canvas.ImageScalePixels
	b.ExtendBaseWidget(b)
	return b
}

// refreshImage pulls the latest pixels from the surface. Safe to call from
// any goroutine.
func (b *BoardWidget) refreshImage() {
	fyne.Do(func() {
		b.image.Image = b.surface.Image()
		b.image.Refresh()
	})
}

// toSurface maps a widget position onto surface pixels.
func (b *BoardWidget) toSurface(pos fyne.Position) state.Point {
	size := b.Size()
	w, h := b.surface.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return state.Point{X: float64(pos.X), Y: float64(pos.Y)}
	}
	return state.Point{
		X: float64(pos.X) * float64(w) / float64(size.Width),
		Y: float64(pos.Y) * float64(h) / float64(size.Height),
	}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	if err := b.board.Recorder.PointerDown(b.toSurface(e.Position)); err != nil {
		b.log.Warn("pending stroke lost", "error", err)
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.pointerUp(e.Position)
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.board.Recorder.PointerMove(b.toSurface(e.Position))
}

// DragEnd also ends the stroke; drivers that deliver MouseUp as well make
// the second call a no-op.
func (b *BoardWidget) DragEnd() {
	b.pointerUp(fyne.Position{})
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.board.Recorder.PointerMove(b.toSurface(e.Position))
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

// MouseOut leaves the stroke open; the recorder handles a later down
// without an up.
func (b *BoardWidget) MouseOut() {}

func (b *BoardWidget) pointerUp(pos fyne.Position) {
	if err := b.board.Recorder.PointerUp(b.toSurface(pos)); err != nil {
		b.log.Error("stroke not recorded", "error", err)
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{
		board:      b,
		background: canvas.NewRectangle(color.White),
	}
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.board.image}
}

// Layout stretches the surface to the widget, one surface pixel per unit,
// and repaints it from history when the size actually changed.
func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.image.Resize(size)
	w, h := int(size.Width), int(size.Height)
	if w <= 0 || h <= 0 {
		return
	}
	if cw, ch := r.board.surface.Size(); cw == w && ch == h {
		return
	}
	if err := r.board.surface.Resize(w, h); err != nil {
		r.board.log.Warn("resize surface", "error", err)
		return
	}
	r.board.board.Refit()
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Refresh() {
	r.board.image.Refresh()
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Destroy() {}
