package state

import (
	"fmt"
	"log/slog"
	"sync"

	"SketchBoard/internal/logging"
)

// Recorder turns pointer events into strokes on the surface and commits
// a snapshot when a stroke that actually drew something ends.
type Recorder struct {
	mu       sync.Mutex
	surface  Surface
	settings *ToolSettings
	history  *Manager
	log      *slog.Logger

	active bool // pointer button held
	dirty  bool // moved since the button went down
}

func NewRecorder(surface Surface, settings *ToolSettings, history *Manager, logger *slog.Logger) *Recorder {
	return &Recorder{
		surface:  surface,
		settings: settings,
		history:  history,
		log:      logging.OrNop(logger),
	}
}

// PointerDown opens a new path at p.
func (r *Recorder) PointerDown(p Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.active && r.dirty {
		// The previous stroke never saw its pointer-up.
		err = r.commitLocked()
	}
	r.history.Supersede()
	r.surface.BeginStroke(p)
	r.active = true
	r.dirty = false
	return err
}

// PointerMove draws a segment to p with whatever tool is selected right now.
// Moves without a held button are ignored.
func (r *Recorder) PointerMove(p Point) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return
	}
	c, w := r.settings.Active()
	r.surface.ExtendStroke(p, c, w)
	r.dirty = true
}

// PointerUp ends the stroke. A stroke with no movement leaves history alone.
func (r *Recorder) PointerUp(Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return nil
	}
	r.active = false
	if !r.dirty {
		return nil
	}
	return r.commitLocked()
}

// Stroking reports whether a pointer button is held.
func (r *Recorder) Stroking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Recorder) commitLocked() error {
	r.dirty = false
	data, err := r.surface.Snapshot()
	if err != nil {
		r.log.Error("snapshot failed, stroke not recorded", "error", err)
		return fmt.Errorf("snapshot stroke: %w", err)
	}
	r.history.Commit(data)
	return nil
}
