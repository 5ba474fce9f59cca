// Package testutil provides deterministic helpers shared by tests.
package testutil

import (
	"sync"
	"time"
)

// FixedClock is a thread-safe manual clock for tests.
//
// Unlike time.Now, FixedClock only moves when told to. The same scenario
// with the same FixedClock produces byte-identical timestamps, which golden
// file comparison depends on.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// Epoch is the default starting instant for test clocks.
var Epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// NewFixedClock creates a clock frozen at Epoch.
func NewFixedClock() *FixedClock {
	return &FixedClock{now: Epoch}
}

// NewFixedClockAt creates a clock frozen at the given instant.
func NewFixedClockAt(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// Now returns the current instant. Pass the method value as a core clock
// option.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
