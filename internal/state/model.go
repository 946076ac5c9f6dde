package state

import (
	"errors"
	"image/color"
	"time"
)

// Point is a pointer position in surface coordinates.
type Point struct{ X, Y float64 }

// Entry is one committed snapshot of the whole surface.
// Entries are never mutated after Commit.
type Entry struct {
	ID        string
	Data      []byte // encoded PNG
	CreatedAt time.Time
}

// Background is the surface fill and the eraser color.
var Background color.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// ErrSuperseded is reported to a paint callback when a newer history
// action landed before the decode finished.
var ErrSuperseded = errors.New("render superseded")

// Surface is the raster the recorder draws on and the history repaints.
type Surface interface {
	// BeginStroke opens a new path at p.
	BeginStroke(p Point)
	// ExtendStroke draws a segment from the current path position to p.
	ExtendStroke(p Point, c color.Color, width float64)
	// Clear blanks the whole surface.
	Clear()
	// Snapshot encodes the current pixels.
	Snapshot() ([]byte, error)
	// Paint decodes data off the caller's goroutine, then clears the
	// surface and draws the image stretched to the current size. current
	// is checked right before drawing; when it reports false nothing is
	// drawn and done receives ErrSuperseded.
	Paint(data []byte, current func() bool, done func(error))
	// ExportAs writes the current pixels to filename.
	ExportAs(filename string) error
}
