package state

import (
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"
)

type segment struct {
	to    Point
	color color.Color
	width float64
}

// fakeSurface stands in for a raster. Its "pixels" are a string so tests
// can compare snapshots directly.
type fakeSurface struct {
	mu          sync.Mutex
	content     string
	begins      []Point
	segments    []segment
	clears      int
	delays      map[string]time.Duration
	snapshotErr error
	exported    []string
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{delays: make(map[string]time.Duration)}
}

func (f *fakeSurface) BeginStroke(p Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.begins = append(f.begins, p)
}

func (f *fakeSurface) ExtendStroke(p Point, c color.Color, w float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.segments = append(f.segments, segment{to: p, color: c, width: w})
	f.content += fmt.Sprintf("[%v,%v]", p.X, p.Y)
}

func (f *fakeSurface) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = ""
	f.clears++
}

func (f *fakeSurface) Snapshot() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	return []byte(f.content), nil
}

func (f *fakeSurface) Paint(data []byte, current func() bool, done func(error)) {
	f.mu.Lock()
	delay := f.delays[string(data)]
	f.mu.Unlock()
	go func() {
		time.Sleep(delay)
		f.mu.Lock()
		var err error
		switch {
		case string(data) == "corrupt":
			err = errors.New("decode snapshot: bad data")
		case current != nil && !current():
			err = ErrSuperseded
		default:
			f.content = string(data)
		}
		f.mu.Unlock()
		done(err)
	}()
}

func (f *fakeSurface) ExportAs(filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exported = append(f.exported, filename)
	return nil
}

func (f *fakeSurface) set(content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = content
}

func (f *fakeSurface) get() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.content
}

func (f *fakeSurface) setDelay(content string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[content] = d
}
