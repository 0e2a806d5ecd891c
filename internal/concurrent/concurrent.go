// Package concurrent carries the small thread-safety helpers the relation
// store loader needs while it runs across a worker pool: a mutex-protected
// accumulator and a panic-recovery wrapper for pool workers.
package concurrent

import (
	"log"
	"sync"
)

// Counter is a mutex-protected set of named int64 tallies, used to
// accumulate per-worker statistics (e.g. skipped-unknown-relation counts)
// across a pool.Launch_pool run without each worker needing its own
// channel back to the caller.
type Counter struct {
	mu    sync.Mutex
	tally map[string]int64
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{tally: make(map[string]int64)}
}

// Add adds delta to the named tally.
func (c *Counter) Add(name string, delta int64) {
	c.mu.Lock()
	c.tally[name] += delta
	c.mu.Unlock()
}

// Get returns the current value of the named tally.
func (c *Counter) Get(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tally[name]
}

// Snapshot returns a copy of every tally.
func (c *Counter) Snapshot() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.tally))
	for k, v := range c.tally {
		out[k] = v
	}
	return out
}

// Recover logs and swallows a panic in the current goroutine. Deferred at
// the top of every pool worker so one AS's bad data doesn't take the whole
// load down.
func Recover() {
	if r := recover(); r != nil {
		log.Println(r)
	}
}
