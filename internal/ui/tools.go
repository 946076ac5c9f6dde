package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/state"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar holds the controls that edit tool settings and drive history.
type Toolbar struct {
	board *state.Board

	pen         *widget.Button
	eraser      *widget.Button
	penWidth    *widget.Slider
	eraserWidth *widget.Slider
	undo        *widget.Button
	redo        *widget.Button
	clear       *widget.Button
	download    *widget.Button

	// OnDownload is called when the download button is tapped.
	OnDownload func()
}

func NewToolbar(board *state.Board) *Toolbar {
	t := &Toolbar{board: board}
	st := board.Settings

	t.pen = widget.NewButtonWithIcon("Pen", theme.DocumentCreateIcon(), func() {
		st.SetErasing(false)
		t.syncTool()
	})
	t.eraser = widget.NewButtonWithIcon("Eraser", theme.ContentClearIcon(), func() {
		st.ToggleErasing()
		t.syncTool()
	})

	t.penWidth = widget.NewSlider(1, 50)
	t.penWidth.SetValue(st.PenWidth())
	t.penWidth.OnChanged = func(v float64) { st.SetPenWidth(v) }

	t.eraserWidth = widget.NewSlider(1, 100)
	t.eraserWidth.SetValue(st.EraserWidth())
	t.eraserWidth.OnChanged = func(v float64) { st.SetEraserWidth(v) }

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() { board.History.Undo() })
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() { board.History.Redo() })
	t.clear = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		if err := board.Wipe(); err != nil {
			fyne.LogError("clear board", err)
		}
	})
	t.download = widget.NewButtonWithIcon("", theme.DownloadIcon(), func() {
		if t.OnDownload != nil {
			t.OnDownload()
		}
	})

	t.syncTool()
	t.SetStatus(board.History.Status())
	return t
}

// syncTool highlights whichever of pen or eraser is active.
func (t *Toolbar) syncTool() {
	if t.board.Settings.Erasing() {
		t.eraser.Importance = widget.HighImportance
		t.pen.Importance = widget.MediumImportance
	} else {
		t.pen.Importance = widget.HighImportance
		t.eraser.Importance = widget.MediumImportance
	}
	t.pen.Refresh()
	t.eraser.Refresh()
}

// SetStatus enables undo and redo according to the history bounds.
func (t *Toolbar) SetStatus(st state.Status) {
	if st.CanUndo {
		t.undo.Enable()
	} else {
		t.undo.Disable()
	}
	if st.CanRedo {
		t.redo.Enable()
	} else {
		t.redo.Disable()
	}
}

// Object assembles the toolbar row.
func (t *Toolbar) Object() fyne.CanvasObject {
	onColorTapped := func(c color.Color) {
		t.board.Settings.SetPenColor(c)
		t.board.Settings.SetErasing(false)
		t.syncTool()
	}
	colorBox := container.NewHBox()
	for _, sw := range state.Palette {
		colorBox.Add(newColorSwatch(sw.Color, onColorTapped))
	}

	slider := func(s *widget.Slider) fyne.CanvasObject {
		return container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), s)
	}

	return container.NewHBox(
		t.pen,
		t.eraser,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Pen:"),
		slider(t.penWidth),
		widget.NewLabel("Eraser:"),
		slider(t.eraserWidth),
		widget.NewSeparator(),
		t.undo,
		t.redo,
		t.clear,
		t.download,
		layout.NewSpacer(),
	)
}
