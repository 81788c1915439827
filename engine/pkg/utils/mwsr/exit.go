package mwsr

import "math/bits"

const parkedBit = uint64(1) << 63

// exitState is the reader-side coordinator record.
//
//	lo: completion mask, bit i set means id firstUnread+i is written and unread
//	hi: bits 0-62 firstUnread, bit 63 reader parked
type exitState struct {
	firstUnread uint64
	parked      bool
	mask        uint64
}

func exitOf(w wideWord) exitState {
	return exitState{
		firstUnread: w.hi &^ parkedBit,
		parked:      w.hi&parkedBit != 0,
		mask:        w.lo,
	}
}

func (s exitState) word() wideWord {
	hi := s.firstUnread
	if s.parked {
		hi |= parkedBit
	}
	return wideWord{lo: s.mask, hi: hi}
}

// lowBits returns a mask with the n lowest bits set, n in [0, 64].
func lowBits(n uint64) uint64 {
	return uint64(1)<<n - 1
}

type run struct {
	length      int
	firstUnread uint64
	empty       bool
}

type exit struct {
	cell     wideCell
	capacity uint64
}

func (x *exit) init(capacity uint64) {
	x.capacity = capacity
	x.cell.store(exitState{}.word())
}

// markWriteComplete publishes the write of id. It reports true when the
// reader was parked; the caller must then wake it.
func (x *exit) markWriteComplete(id uint64) bool {
	return react(&x.cell, func(w *wideWord) (bool, bool) {
		s := exitOf(*w)
		if id < s.firstUnread || id-s.firstUnread >= x.capacity {
			panic(invariantf("id %d outside [%d, %d)", id, s.firstUnread, s.firstUnread+x.capacity))
		}
		bit := uint64(1) << (id - s.firstUnread)
		if s.mask&bit != 0 {
			panic(invariantf("id %d completed twice", id))
		}
		s.mask |= bit

		wake := s.parked
		s.parked = false
		*w = s.word()
		return wake, false
	})
}

// claimContiguousRun looks for written items at the head of the queue. When
// there are none the reader is marked parked and empty is set; the caller
// must wait to be woken. Otherwise the length of the completed run starting
// at firstUnread is returned and the state is left alone until
// advanceAfterDrain.
func (x *exit) claimContiguousRun() (length int, firstUnread uint64, empty bool) {
	r := react(&x.cell, func(w *wideWord) (run, bool) {
		s := exitOf(*w)
		if s.parked {
			panic(invariantf("reader claimed while parked"))
		}
		if s.mask&1 == 0 {
			s.parked = true
			*w = s.word()
			return run{empty: true}, false
		}
		n := uint64(bits.TrailingZeros64(^s.mask))
		if n > x.capacity {
			n = x.capacity
		}
		return run{length: int(n), firstUnread: s.firstUnread}, true
	})
	return r.length, r.firstUnread, r.empty
}

// advanceAfterDrain retires n items from the head of the queue and returns
// the new exclusive upper bound of the producer window.
func (x *exit) advanceAfterDrain(n int) uint64 {
	return react(&x.cell, func(w *wideWord) (uint64, bool) {
		s := exitOf(*w)
		if n <= 0 || uint64(n) > x.capacity {
			panic(invariantf("drain of %d items with capacity %d", n, x.capacity))
		}
		if want := lowBits(uint64(n)); s.mask&want != want {
			panic(invariantf("drain of %d items past an incomplete write, mask %#x", n, s.mask))
		}
		next := s.firstUnread + uint64(n)
		if next&parkedBit != 0 {
			panic(invariantf("sequence id overflow"))
		}
		s.firstUnread = next
		s.mask >>= uint64(n)
		*w = s.word()
		return next + x.capacity, false
	})
}

func (x *exit) snapshot() exitState {
	return exitOf(x.cell.load())
}
