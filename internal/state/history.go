package state

// History is an ordered list of snapshots with a cursor. Cursor -1 is the
// empty surface. Moving the cursor never removes entries; only Commit
// discards the redo future.
//
// History is not safe for concurrent use; Manager guards it.
type History struct {
	entries    []Entry
	cursor     int
	maxEntries int
	trimmed    bool // oldest entries were dropped; the blank origin is gone
}

// NewHistory creates an empty history. maxEntries <= 0 means unlimited.
func NewHistory(maxEntries int) *History {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &History{cursor: -1, maxEntries: maxEntries}
}

// Commit places e right after the cursor, dropping everything beyond it.
func (h *History) Commit(e Entry) {
	h.cursor++
	for i := h.cursor; i < len(h.entries); i++ {
		h.entries[i] = Entry{}
	}
	h.entries = append(h.entries[:h.cursor], e)

	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		excess := len(h.entries) - h.maxEntries
		for i := 0; i < excess; i++ {
			h.entries[i] = Entry{}
		}
		h.entries = append([]Entry(nil), h.entries[excess:]...)
		h.cursor -= excess
		h.trimmed = true
	}
}

// Undo moves the cursor back one step and returns the new cursor.
// A result of -1 means the surface should be blank.
func (h *History) Undo() (int, bool) {
	if !h.CanUndo() {
		return h.cursor, false
	}
	h.cursor--
	return h.cursor, true
}

// Redo moves the cursor forward one step and returns the new cursor.
func (h *History) Redo() (int, bool) {
	if !h.CanRedo() {
		return h.cursor, false
	}
	h.cursor++
	return h.cursor, true
}

func (h *History) CanUndo() bool {
	if h.trimmed {
		return h.cursor > 0
	}
	return h.cursor >= 0
}

func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// At returns the entry at index i.
func (h *History) At(i int) (Entry, bool) {
	if i < 0 || i >= len(h.entries) {
		return Entry{}, false
	}
	return h.entries[i], true
}

func (h *History) Cursor() int { return h.cursor }

func (h *History) Len() int { return len(h.entries) }
