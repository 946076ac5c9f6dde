package state

import "sync/atomic"

// renderClock tags paint requests. Every history action ticks it; a decode
// that finishes under an older tick is stale and must not paint.
type renderClock struct {
	gen atomic.Uint64
}

// tick advances the clock and returns the new generation.
func (c *renderClock) tick() uint64 {
	return c.gen.Add(1)
}

// guard returns a check that stays true until the next tick.
func (c *renderClock) guard(gen uint64) func() bool {
	return func() bool { return c.gen.Load() == gen }
}
