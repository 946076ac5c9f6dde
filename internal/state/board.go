package state

import (
	"fmt"
	"log/slog"

	"SketchBoard/internal/logging"
)

// Board wires one surface to its settings, history and recorder.
type Board struct {
	Surface  Surface
	Settings *ToolSettings
	History  *Manager
	Recorder *Recorder
	log      *slog.Logger
}

// NewBoard builds a board over surface. maxHistory <= 0 keeps every entry.
func NewBoard(surface Surface, settings *ToolSettings, maxHistory int, logger *slog.Logger) *Board {
	logger = logging.OrNop(logger)
	history := NewManager(surface, NewHistory(maxHistory), logger.With("component", "history"))
	return &Board{
		Surface:  surface,
		Settings: settings,
		History:  history,
		Recorder: NewRecorder(surface, settings, history, logger.With("component", "recorder")),
		log:      logger,
	}
}

// Wipe blanks the surface as a regular, undoable history step.
func (b *Board) Wipe() error {
	b.History.Supersede()
	b.Surface.Clear()
	data, err := b.Surface.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot wipe: %w", err)
	}
	b.History.Commit(data)
	return nil
}

// Refit repaints the surface from history after it changed size, so the
// pixels come from the snapshot rather than a resampled copy. It does
// nothing while a stroke is in progress and reports whether it repainted.
func (b *Board) Refit() bool {
	if b.Recorder.Stroking() {
		return false
	}
	b.History.Repaint()
	return true
}

// Export writes the current surface to filename.
func (b *Board) Export(filename string) error {
	if err := b.Surface.ExportAs(filename); err != nil {
		b.log.Error("export failed", "file", filename, "error", err)
		return err
	}
	b.log.Info("exported board", "file", filename)
	return nil
}
