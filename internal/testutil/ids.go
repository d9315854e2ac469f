package testutil

import (
	"encoding/binary"
	"sync"

	"github.com/google/uuid"
)

// SequentialIDs generates predictable inventory UUIDs.
//
// The n-th call to Next returns a version 7 UUID whose low bits are n, so
// the same scenario always produces byte-identical persisted data and
// golden traces.
//
// Thread-safety: all methods are safe for concurrent use.
type SequentialIDs struct {
	mu sync.Mutex
	n  uint64
}

// NewSequentialIDs creates a generator whose first UUID ends in 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// Next returns the next UUID.
func (g *SequentialIDs) Next() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return IDFor(g.n)
}

// Reset restarts the sequence.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}

// IDFor returns the UUID SequentialIDs produces on its n-th call.
func IDFor(n uint64) uuid.UUID {
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[8:], n)
	id[6] = 0x70
	id[8] |= 0x80
	return id
}
