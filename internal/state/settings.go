package state

import (
	"image/color"
	"sync"
)

// ToolSettings holds the pen and eraser configuration. UI selectors write
// it, the recorder reads it once per segment.
type ToolSettings struct {
	mu          sync.RWMutex
	penColor    color.Color
	penWidth    float64
	eraserWidth float64
	erasing     bool
}

func NewToolSettings(penColor color.Color, penWidth, eraserWidth float64) *ToolSettings {
	return &ToolSettings{
		penColor:    penColor,
		penWidth:    penWidth,
		eraserWidth: eraserWidth,
	}
}

func (s *ToolSettings) SetPenColor(c color.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.penColor = c
}

func (s *ToolSettings) PenColor() color.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.penColor
}

func (s *ToolSettings) SetPenWidth(w float64) {
	if w <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.penWidth = w
}

func (s *ToolSettings) PenWidth() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.penWidth
}

func (s *ToolSettings) SetEraserWidth(w float64) {
	if w <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eraserWidth = w
}

func (s *ToolSettings) EraserWidth() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eraserWidth
}

// SetErasing switches between the eraser and the pen.
func (s *ToolSettings) SetErasing(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.erasing = on
}

// ToggleErasing flips erase mode and returns the new value.
func (s *ToolSettings) ToggleErasing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.erasing = !s.erasing
	return s.erasing
}

func (s *ToolSettings) Erasing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.erasing
}

// Active returns the color and width the next segment should use.
func (s *ToolSettings) Active() (color.Color, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.erasing {
		return Background, s.eraserWidth
	}
	return s.penColor, s.penWidth
}
