package mwsr

import "code.hybscloud.com/spin"

// wideWord is the raw 128-bit value held by a wideCell.
type wideWord struct {
	lo uint64
	hi uint64
}

// exchange installs desired and returns the value it replaced.
func (c *wideCell) exchange(desired wideWord) wideWord {
	old := c.load()
	for !c.compareAndSwap(&old, desired) {
	}
	return old
}

// react runs one read-modify-write transition against c.
//
// fn receives a copy of the current value and mutates it in place. When fn
// reports earlyExit nothing is installed and its result is returned as is.
// Otherwise the new value is installed with compare-and-swap; on failure fn
// is evaluated again against the value that won.
func react[R any](c *wideCell, fn func(w *wideWord) (out R, earlyExit bool)) R {
	sw := spin.Wait{}
	cur := c.load()
	for {
		next := cur
		out, earlyExit := fn(&next)
		if earlyExit {
			return out
		}
		if c.compareAndSwap(&cur, next) {
			return out
		}
		sw.Once()
	}
}
