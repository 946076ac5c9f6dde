package state

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"SketchBoard/internal/logging"
)

// Status is a point-in-time view of the history, used to enable the
// undo/redo controls.
type Status struct {
	Cursor  int  `json:"cursor"`
	Length  int  `json:"length"`
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

// Manager owns a History and keeps the surface in step with its cursor.
type Manager struct {
	mu      sync.Mutex
	history *History
	surface Surface
	clock   renderClock
	pending sync.WaitGroup
	log     *slog.Logger

	// OnRender, if set, is called after every render attempt finishes.
	// err is nil when the entry was painted.
	OnRender func(e Entry, err error)
	// OnChange, if set, is called after the cursor or length changes.
	OnChange func(Status)
}

func NewManager(surface Surface, history *History, logger *slog.Logger) *Manager {
	if history == nil {
		history = NewHistory(0)
	}
	return &Manager{
		history: history,
		surface: surface,
		log:     logging.OrNop(logger),
	}
}

// Commit stores a snapshot after the cursor and discards any redo future.
// data is copied; the caller keeps ownership of its slice.
func (m *Manager) Commit(data []byte) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		Data:      bytes.Clone(data),
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.clock.tick()
	m.history.Commit(e)
	st := m.statusLocked()
	m.mu.Unlock()

	m.log.Debug("history commit", "entry", e.ID, "cursor", st.Cursor, "length", st.Length, "bytes", len(e.Data))
	m.notify(st)
	return e
}

// Undo steps back one entry. Undoing the first entry clears the surface
// but keeps the entry so Redo can bring it back. Reports whether the
// cursor moved.
func (m *Manager) Undo() bool {
	m.mu.Lock()
	cursor, ok := m.history.Undo()
	if !ok {
		m.mu.Unlock()
		return false
	}
	gen := m.clock.tick()
	if cursor < 0 {
		m.surface.Clear()
	} else {
		e, _ := m.history.At(cursor)
		m.renderLocked(e, gen)
	}
	st := m.statusLocked()
	m.mu.Unlock()

	m.log.Debug("history undo", "cursor", st.Cursor, "length", st.Length)
	m.notify(st)
	return true
}

// Redo steps forward one entry. Reports whether the cursor moved.
func (m *Manager) Redo() bool {
	m.mu.Lock()
	cursor, ok := m.history.Redo()
	if !ok {
		m.mu.Unlock()
		return false
	}
	gen := m.clock.tick()
	e, _ := m.history.At(cursor)
	m.renderLocked(e, gen)
	st := m.statusLocked()
	m.mu.Unlock()

	m.log.Debug("history redo", "cursor", st.Cursor, "length", st.Length)
	m.notify(st)
	return true
}

// Repaint draws the entry at the cursor again, or blanks the surface when
// the cursor is before the first entry. Any render still decoding is
// superseded.
func (m *Manager) Repaint() {
	m.mu.Lock()
	defer m.mu.Unlock()
	gen := m.clock.tick()
	if e, ok := m.history.At(m.history.Cursor()); ok {
		m.renderLocked(e, gen)
		return
	}
	m.surface.Clear()
}

// Supersede invalidates any render still decoding. Called before anything
// else draws on the surface.
func (m *Manager) Supersede() {
	m.clock.tick()
}

// Wait blocks until every render started so far has painted or been
// discarded.
func (m *Manager) Wait() {
	m.pending.Wait()
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

// Current returns the entry at the cursor, if any. Data is a copy.
func (m *Manager) Current() (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.history.At(m.history.Cursor())
	if ok {
		e.Data = bytes.Clone(e.Data)
	}
	return e, ok
}

func (m *Manager) renderLocked(e Entry, gen uint64) {
	m.pending.Add(1)
	m.surface.Paint(e.Data, m.clock.guard(gen), func(err error) {
		defer m.pending.Done()
		switch {
		case err == nil:
		case errors.Is(err, ErrSuperseded):
			m.log.Debug("render discarded", "entry", e.ID, "generation", gen)
		default:
			m.log.Error("render failed", "entry", e.ID, "error", err)
		}
		if m.OnRender != nil {
			m.OnRender(e, err)
		}
	})
}

func (m *Manager) statusLocked() Status {
	return Status{
		Cursor:  m.history.Cursor(),
		Length:  m.history.Len(),
		CanUndo: m.history.CanUndo(),
		CanRedo: m.history.CanRedo(),
	}
}

func (m *Manager) notify(st Status) {
	if m.OnChange != nil {
		m.OnChange(st)
	}
}
