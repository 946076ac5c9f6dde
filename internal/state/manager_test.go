package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *fakeSurface) {
	t.Helper()
	s := newFakeSurface()
	return NewManager(s, NewHistory(0), nil), s
}

// draw simulates a finished stroke: the surface shows content, then the
// snapshot is committed.
func draw(m *Manager, s *fakeSurface, content string) {
	s.set(content)
	m.Commit([]byte(content))
}

func TestManagerCommitCopiesData(t *testing.T) {
	m, _ := newTestManager(t)
	data := []byte("A")
	e := m.Commit(data)
	data[0] = 'X'

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "A", string(cur.Data))
	assert.Equal(t, e.ID, cur.ID)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestManagerCurrentReturnsCopy(t *testing.T) {
	m, _ := newTestManager(t)
	m.Commit([]byte("A"))

	cur, ok := m.Current()
	require.True(t, ok)
	cur.Data[0] = 'X'

	again, _ := m.Current()
	assert.Equal(t, "A", string(again.Data))
}

func TestManagerUndoRedoRendersCursor(t *testing.T) {
	for n := 1; n <= 4; n++ {
		for k := 0; k <= n; k++ {
			for r := 0; r <= k; r++ {
				m, s := newTestManager(t)
				snaps := []string{"s0", "s1", "s2", "s3"}[:n]
				for _, c := range snaps {
					draw(m, s, c)
				}

				expect := func() {
					m.Wait()
					st := m.Status()
					if st.Cursor < 0 {
						assert.Equal(t, "", s.get(), "blank at cursor -1 (n=%d k=%d r=%d)", n, k, r)
						return
					}
					assert.Equal(t, snaps[st.Cursor], s.get(), "n=%d k=%d r=%d", n, k, r)
				}
				for i := 0; i < k; i++ {
					require.True(t, m.Undo())
					expect()
				}
				for i := 0; i < r; i++ {
					require.True(t, m.Redo())
					expect()
				}
				assert.Equal(t, n-1-k+r, m.Status().Cursor)
			}
		}
	}
}

func TestManagerScenarioUndoTwiceThenCommit(t *testing.T) {
	m, s := newTestManager(t)
	draw(m, s, "A")
	draw(m, s, "B")
	draw(m, s, "C")
	require.Equal(t, Status{Cursor: 2, Length: 3, CanUndo: true}, m.Status())

	m.Undo()
	m.Undo()
	m.Wait()
	assert.Equal(t, "A", s.get())
	assert.Equal(t, 0, m.Status().Cursor)

	draw(m, s, "D")
	assert.Equal(t, Status{Cursor: 1, Length: 2, CanUndo: true, CanRedo: false}, m.Status())
	assert.False(t, m.Redo())

	m.Undo()
	m.Wait()
	assert.Equal(t, "A", s.get())
	assert.True(t, m.Redo())
	m.Wait()
	assert.Equal(t, "D", s.get())
}

func TestManagerUndoOnEmptyIsNoop(t *testing.T) {
	m, s := newTestManager(t)
	assert.False(t, m.Undo())
	assert.Equal(t, "", s.get())
	assert.Equal(t, 0, s.clears)
	assert.Equal(t, -1, m.Status().Cursor)
}

func TestManagerUndoFirstClearsThenRedoRestores(t *testing.T) {
	m, s := newTestManager(t)
	draw(m, s, "A")

	require.True(t, m.Undo())
	assert.Equal(t, "", s.get())
	assert.Equal(t, Status{Cursor: -1, Length: 1, CanRedo: true}, m.Status())

	require.True(t, m.Redo())
	m.Wait()
	assert.Equal(t, "A", s.get())
	assert.Equal(t, 0, m.Status().Cursor)
}

func TestManagerRedoAtEndIsNoop(t *testing.T) {
	m, s := newTestManager(t)
	draw(m, s, "A")
	draw(m, s, "B")
	assert.False(t, m.Redo())
	assert.Equal(t, "B", s.get())
}

func TestManagerStaleRenderIsDiscarded(t *testing.T) {
	m, s := newTestManager(t)
	draw(m, s, "A")
	draw(m, s, "B")
	draw(m, s, "C")
	s.setDelay("B", 50*time.Millisecond)

	var mu sync.Mutex
	results := map[string]error{}
	m.OnRender = func(e Entry, err error) {
		mu.Lock()
		defer mu.Unlock()
		results[string(e.Data)] = err
	}

	m.Undo() // renders B slowly
	m.Undo() // renders A immediately
	m.Wait()

	assert.Equal(t, "A", s.get(), "late decode of B must not win")
	mu.Lock()
	defer mu.Unlock()
	assert.ErrorIs(t, results["B"], ErrSuperseded)
	assert.NoError(t, results["A"])
}

func TestManagerClearBeatsPendingRender(t *testing.T) {
	m, s := newTestManager(t)
	draw(m, s, "A")
	draw(m, s, "B")
	s.setDelay("A", 50*time.Millisecond)

	m.Undo() // renders A slowly
	m.Undo() // clears
	m.Wait()
	assert.Equal(t, "", s.get())
}

func TestManagerSupersedeDropsRender(t *testing.T) {
	m, s := newTestManager(t)
	draw(m, s, "A")
	draw(m, s, "B")
	s.setDelay("A", 50*time.Millisecond)

	m.Undo()
	m.Supersede()
	s.set("live stroke")
	m.Wait()
	assert.Equal(t, "live stroke", s.get())
}

func TestManagerCommitBeatsPendingRender(t *testing.T) {
	m, s := newTestManager(t)
	draw(m, s, "A")
	draw(m, s, "B")
	s.setDelay("A", 50*time.Millisecond)

	var mu sync.Mutex
	var renderErr error
	m.OnRender = func(_ Entry, err error) {
		mu.Lock()
		defer mu.Unlock()
		renderErr = err
	}

	require.True(t, m.Undo()) // renders A slowly
	draw(m, s, "C")
	m.Wait()

	assert.Equal(t, "C", s.get())
	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "C", string(cur.Data))
	mu.Lock()
	defer mu.Unlock()
	assert.ErrorIs(t, renderErr, ErrSuperseded)
}

func TestManagerRepaint(t *testing.T) {
	m, s := newTestManager(t)
	m.Repaint()
	assert.Equal(t, "", s.get())

	draw(m, s, "A")
	s.set("resampled A")
	m.Repaint()
	m.Wait()
	assert.Equal(t, "A", s.get())
	assert.Equal(t, Status{Cursor: 0, Length: 1, CanUndo: true}, m.Status())
}

func TestManagerRepaintSupersedesPendingRender(t *testing.T) {
	m, s := newTestManager(t)
	draw(m, s, "A")
	draw(m, s, "B")
	s.setDelay("B", 50*time.Millisecond)

	m.Undo()
	m.Redo() // renders B slowly
	m.Undo()
	m.Repaint()
	m.Wait()
	assert.Equal(t, "A", s.get())
}

func TestManagerRenderErrorReported(t *testing.T) {
	m, s := newTestManager(t)
	draw(m, s, "corrupt")
	draw(m, s, "B")

	var got error
	m.OnRender = func(_ Entry, err error) { got = err }
	require.True(t, m.Undo())
	m.Wait()

	require.Error(t, got)
	assert.NotErrorIs(t, got, ErrSuperseded)
	assert.Equal(t, 0, m.Status().Cursor, "cursor is not rolled back")
}

func TestManagerOnChange(t *testing.T) {
	m, s := newTestManager(t)
	var seen []Status
	m.OnChange = func(st Status) { seen = append(seen, st) }

	draw(m, s, "A")
	m.Undo()
	m.Undo() // no-op, no notification
	m.Redo()
	m.Wait()

	require.Len(t, seen, 3)
	assert.Equal(t, 0, seen[0].Cursor)
	assert.Equal(t, -1, seen[1].Cursor)
	assert.Equal(t, 0, seen[2].Cursor)
}
