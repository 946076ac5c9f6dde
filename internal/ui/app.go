package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/logging"
	"SketchBoard/internal/raster"
	"SketchBoard/internal/state"
)

// Window bundles the board widget, toolbar and status line of one window.
type Window struct {
	Board   *BoardWidget
	Toolbar *Toolbar
	Status  *widget.Label
}

// NewWindow wires board and surface to fresh widgets. Surface and history
// callbacks are installed here, so a board should back one window.
func NewWindow(board *state.Board, surface *raster.Surface, logger *slog.Logger) *Window {
	logger = logging.OrNop(logger)
	w := &Window{
		Board:   NewBoardWidget(board, surface, logger),
		Toolbar: NewToolbar(board),
		Status:  widget.NewLabel("Ready"),
	}
	surface.OnChange = w.Board.refreshImage
	board.History.OnChange = func(st state.Status) {
		fyne.Do(func() { w.Toolbar.SetStatus(st) })
	}
	board.History.OnRender = func(e state.Entry, err error) {
		if err != nil {
			fyne.Do(func() { w.Status.SetText("Could not restore: " + err.Error()) })
		}
	}
	return w
}

// Content lays out the toolbar above the board.
func (w *Window) Content() fyne.CanvasObject {
	return container.NewBorder(w.Toolbar.Object(), w.Status, nil, nil, w.Board)
}

// RunApp opens the desktop window and blocks until it closes.
func RunApp(board *state.Board, surface *raster.Surface, exportName string, logger *slog.Logger) {
	a := app.NewWithID("io.sketchboard")
	win := a.NewWindow("SketchBoard")
	width, height := surface.Size()
	win.Resize(fyne.NewSize(float32(width), float32(height)))

	w := NewWindow(board, surface, logger)
	w.Toolbar.OnDownload = func() { showExportDialog(win, w, board, exportName) }

	win.SetContent(w.Content())
	win.ShowAndRun()
}

func showExportDialog(win fyne.Window, w *Window, board *state.Board, exportName string) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := board.Export(path); err != nil {
			dialog.ShowError(err, win)
			return
		}
		w.Status.SetText("Exported " + path)
	}, win)
	d.SetFileName(exportName)
	d.Show()
}
