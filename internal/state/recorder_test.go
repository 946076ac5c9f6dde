package state

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func newTestBoard(t *testing.T) (*Board, *fakeSurface) {
	t.Helper()
	s := newFakeSurface()
	return NewBoard(s, NewToolSettings(red, 3, 20), 0, nil), s
}

func TestRecorderStrokeCommitsOnce(t *testing.T) {
	b, s := newTestBoard(t)
	r := b.Recorder

	require.NoError(t, r.PointerDown(Point{X: 1, Y: 1}))
	assert.True(t, r.Stroking())
	r.PointerMove(Point{X: 2, Y: 2})
	r.PointerMove(Point{X: 3, Y: 3})
	require.NoError(t, r.PointerUp(Point{X: 3, Y: 3}))
	assert.False(t, r.Stroking())

	st := b.History.Status()
	assert.Equal(t, 1, st.Length)
	assert.Equal(t, 0, st.Cursor)
	cur, _ := b.History.Current()
	assert.Equal(t, s.get(), string(cur.Data))
	assert.Equal(t, []Point{{X: 1, Y: 1}}, s.begins)
	assert.Len(t, s.segments, 2)
}

func TestRecorderClickLeavesHistoryAlone(t *testing.T) {
	b, s := newTestBoard(t)
	require.NoError(t, b.Recorder.PointerDown(Point{X: 5, Y: 5}))
	require.NoError(t, b.Recorder.PointerUp(Point{X: 5, Y: 5}))

	assert.Equal(t, Status{Cursor: -1, Length: 0}, b.History.Status())
	assert.Empty(t, s.segments)
}

func TestRecorderMoveWhileIdleIgnored(t *testing.T) {
	b, s := newTestBoard(t)
	b.Recorder.PointerMove(Point{X: 1, Y: 1})
	require.NoError(t, b.Recorder.PointerUp(Point{X: 1, Y: 1}))

	assert.Empty(t, s.segments)
	assert.Equal(t, 0, b.History.Status().Length)
}

func TestRecorderReadsSettingsPerSegment(t *testing.T) {
	b, s := newTestBoard(t)
	r := b.Recorder

	require.NoError(t, r.PointerDown(Point{}))
	r.PointerMove(Point{X: 1})
	b.Settings.SetPenColor(blue)
	b.Settings.SetPenWidth(7)
	r.PointerMove(Point{X: 2})
	b.Settings.SetErasing(true)
	r.PointerMove(Point{X: 3})
	require.NoError(t, r.PointerUp(Point{X: 3}))

	require.Len(t, s.segments, 3)
	assert.Equal(t, segment{to: Point{X: 1}, color: red, width: 3}, s.segments[0])
	assert.Equal(t, segment{to: Point{X: 2}, color: blue, width: 7}, s.segments[1])
	assert.Equal(t, segment{to: Point{X: 3}, color: Background, width: 20}, s.segments[2])
}

func TestRecorderDownWithoutUpCommitsPendingStroke(t *testing.T) {
	b, _ := newTestBoard(t)
	r := b.Recorder

	require.NoError(t, r.PointerDown(Point{}))
	r.PointerMove(Point{X: 1})
	require.NoError(t, r.PointerDown(Point{X: 10}))
	assert.Equal(t, 1, b.History.Status().Length)

	require.NoError(t, r.PointerUp(Point{X: 10}))
	assert.Equal(t, 1, b.History.Status().Length, "second stroke never moved")
}

func TestRecorderSnapshotFailure(t *testing.T) {
	b, s := newTestBoard(t)
	s.snapshotErr = errors.New("out of memory")

	require.NoError(t, b.Recorder.PointerDown(Point{}))
	b.Recorder.PointerMove(Point{X: 1})
	err := b.Recorder.PointerUp(Point{X: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, s.snapshotErr)
	assert.Equal(t, 0, b.History.Status().Length)
	assert.False(t, b.Recorder.Stroking())
}

func TestRecorderDownSupersedesPendingRender(t *testing.T) {
	b, s := newTestBoard(t)
	s.set("A")
	b.History.Commit([]byte("A"))
	s.set("B")
	b.History.Commit([]byte("B"))
	s.setDelay("A", 30*time.Millisecond)

	b.History.Undo()
	require.NoError(t, b.Recorder.PointerDown(Point{}))
	b.Recorder.PointerMove(Point{X: 4})
	b.History.Wait()

	assert.Equal(t, "B[4,0]", s.get(), "late restore must not erase the live stroke")
}
