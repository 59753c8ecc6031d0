package model

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource mints identifiers for new slides and elements.
type IDSource interface {
	NewID() string
}

// UUIDSource mints random UUIDs.
type UUIDSource struct{}

// NewID returns a new random UUID string.
func (UUIDSource) NewID() string {
	return uuid.NewString()
}

// CounterSource mints prefix-1, prefix-2, ... in order. It never repeats
// within one source, which keeps tests deterministic.
type CounterSource struct {
	prefix string
	next   atomic.Uint64
}

// NewCounterSource returns a counter source with the given prefix.
func NewCounterSource(prefix string) *CounterSource {
	return &CounterSource{prefix: prefix}
}

// NewID returns the next identifier.
func (c *CounterSource) NewID() string {
	return fmt.Sprintf("%s-%d", c.prefix, c.next.Add(1))
}

// IDSourceFunc adapts a function to IDSource.
type IDSourceFunc func() string

// NewID calls f.
func (f IDSourceFunc) NewID() string { return f() }
