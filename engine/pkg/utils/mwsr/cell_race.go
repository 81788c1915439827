//go:build race

package mwsr

import "sync"

// wideCell under the race detector. The 128-bit instructions are invisible to
// the detector, so slot hand-offs ordered by them would be reported as races.
// A mutex gives the same whole-value atomicity and is tracked.
type wideCell struct {
	mu sync.Mutex
	v  wideWord
}

func (c *wideCell) load() wideWord {
	c.mu.Lock()
	w := c.v
	c.mu.Unlock()
	return w
}

func (c *wideCell) store(w wideWord) {
	c.mu.Lock()
	c.v = w
	c.mu.Unlock()
}

func (c *wideCell) compareAndSwap(expected *wideWord, desired wideWord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.v != *expected {
		*expected = c.v
		return false
	}
	c.v = desired
	return true
}
