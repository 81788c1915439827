//go:build !race

package mwsr

import "code.hybscloud.com/atomix"

// wideCell is a 128-bit value that is loaded, stored and compared-and-swapped
// as one unit.
type wideCell struct {
	v atomix.Uint128
	_ [64 - 16]byte // own cache line
}

func (c *wideCell) load() wideWord {
	lo, hi := c.v.LoadAcquire()
	return wideWord{lo: lo, hi: hi}
}

func (c *wideCell) store(w wideWord) {
	c.v.StoreRelease(w.lo, w.hi)
}

// compareAndSwap installs desired if the cell still holds *expected. On
// failure *expected is refreshed with the value currently in the cell.
func (c *wideCell) compareAndSwap(expected *wideWord, desired wideWord) bool {
	if c.v.CompareAndSwapAcqRel(expected.lo, expected.hi, desired.lo, desired.hi) {
		return true
	}
	*expected = c.load()
	return false
}
