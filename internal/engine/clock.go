package engine

import "sync/atomic"

// Clock is a monotonic logical clock. Every task run by the engine is
// stamped with the next value, giving traces a total order that does not
// depend on wall time.
//
// Thread-safety: Clock is safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last returned sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
