// Package raster implements the board's drawing surface on a gg software
// context.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"SketchBoard/internal/export"
	"SketchBoard/internal/logging"
	"SketchBoard/internal/state"
)

var _ state.Surface = (*Surface)(nil)

// MaxSide bounds either surface dimension. 8192x8192 RGBA is 256 MiB.
const MaxSide = 8192

// Surface is a fixed-size RGBA canvas with an open path, the way an HTML
// canvas 2D context behaves for freehand drawing.
type Surface struct {
	mu         sync.Mutex
	dc         *gg.Context
	background gg.RGBA
	last       state.Point
	open       bool
	log        *slog.Logger
	stroke     func(*gg.Context) error

	// OnChange, if set, is called after the pixels change. It runs without
	// the surface lock held, possibly on a decode goroutine.
	OnChange func()
}

// New creates a width×height surface filled with background.
func New(width, height int, background color.Color) (*Surface, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	s := &Surface{
		dc:         gg.NewContext(width, height),
		background: gg.FromColor(background),
		log:        logging.Nop(),
		stroke:     (*gg.Context).Stroke,
	}
	s.setupStroke()
	s.dc.ClearWithColor(s.background)
	return s, nil
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxSide || height > MaxSide {
		return fmt.Errorf("invalid surface size %dx%d (max %d per side)", width, height, MaxSide)
	}
	return nil
}

// SetLogger replaces the surface's logger. A nil logger silences it.
func (s *Surface) SetLogger(l *slog.Logger) {
	s.mu.Lock()
	s.log = logging.OrNop(l)
	s.mu.Unlock()
}

func (s *Surface) setupStroke() {
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
}

func (s *Surface) BeginStroke(p state.Point) {
	s.mu.Lock()
	s.last = p
	s.open = true
	s.mu.Unlock()
}

// ExtendStroke strokes one segment from the path position to p and moves
// the position. Earlier segments are left as they are.
func (s *Surface) ExtendStroke(p state.Point, c color.Color, width float64) {
	s.mu.Lock()
	if !s.open {
		s.last = p
		s.open = true
	}
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.DrawLine(s.last.X, s.last.Y, p.X, p.Y)
	if err := s.stroke(s.dc); err != nil {
		s.log.Error("stroke segment", "from", s.last, "to", p, "width", width, "error", err)
	}
	s.last = p
	s.mu.Unlock()
	s.changed()
}

func (s *Surface) Clear() {
	s.mu.Lock()
	s.dc.ClearPath()
	s.dc.ClearWithColor(s.background)
	s.open = false
	s.mu.Unlock()
	s.changed()
}

// Snapshot encodes the surface as PNG.
func (s *Surface) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var buf bytes.Buffer
	if err := s.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Paint decodes data on its own goroutine and, if current still holds,
// replaces the surface contents with the image stretched to fit.
func (s *Surface) Paint(data []byte, current func() bool, done func(error)) {
	go func() {
		err := s.paint(data, current)
		if err == nil {
			s.changed()
		}
		if done != nil {
			done(err)
		}
	}()
}

func (s *Surface) paint(data []byte, current func() bool) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	buf := gg.ImageBufFromImage(img)

	s.mu.Lock()
	defer s.mu.Unlock()
	if current != nil && !current() {
		return state.ErrSuperseded
	}
	s.dc.ClearPath()
	s.dc.ClearWithColor(s.background)
	s.dc.DrawImageEx(buf, gg.DrawImageOptions{
		DstWidth:      float64(s.dc.Width()),
		DstHeight:     float64(s.dc.Height()),
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
	s.open = false
	return nil
}

// Resize changes the surface dimensions, stretching what is drawn to the
// new size. The resampling is lossy; boards repaint from history after it
// (see state.Board.Refit).
func (s *Surface) Resize(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	s.mu.Lock()
	if s.dc.Width() == width && s.dc.Height() == height {
		s.mu.Unlock()
		return nil
	}
	src := s.dc.Image()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	s.dc = gg.NewContextForImage(dst)
	s.setupStroke()
	s.open = false
	s.mu.Unlock()
	s.changed()
	return nil
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.Width(), s.dc.Height()
}

// Image returns a copy of the current pixels.
func (s *Surface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dc.Image()
}

// ExportAs writes the surface to filename in the format its extension names.
func (s *Surface) ExportAs(filename string) error {
	return export.WriteFile(filename, s.Image())
}

func (s *Surface) changed() {
	if s.OnChange != nil {
		s.OnChange()
	}
}
