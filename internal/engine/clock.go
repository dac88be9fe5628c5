package engine

import "sync/atomic"

// Clock is the runtime's monotonic logical clock. Every tick is stamped
// with a strictly increasing sequence number, so traces and replays order
// identically regardless of wall time.
//
// Safe for concurrent use, though the single-writer Tick loop is normally
// the only caller of Next.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
// Used when resuming a session from a snapshot.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
