package pipeline

import "sync/atomic"

// Clock is a monotonic logical clock stamping lifecycle events.
//
// Events are ordered by seq, never by wall time: the trace of a preparation
// run must replay identically, and wall-clock timestamps would make ledger
// comparisons flaky. The pipeline itself is single-threaded; the atomic is
// for callers that read the clock while a run is in flight.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next() returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
