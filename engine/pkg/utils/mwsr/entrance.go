package mwsr

import "math"

// entranceState is the producer-side coordinator record.
//
//	lo: next id to hand out
//	hi: bits 0-31 window, signed offset so that lastAllocatable = nextID + window
//	    bits 32-63 number of producers parked on a full queue
type entranceState struct {
	nextID  uint64
	window  int32
	blocked uint32
}

func entranceOf(w wideWord) entranceState {
	return entranceState{
		nextID:  w.lo,
		window:  int32(uint32(w.hi)),
		blocked: uint32(w.hi >> 32),
	}
}

func (s entranceState) word() wideWord {
	return wideWord{
		lo: s.nextID,
		hi: uint64(uint32(s.window)) | uint64(s.blocked)<<32,
	}
}

// lastAllocatable is the exclusive upper bound of the admissible ids.
func (s entranceState) lastAllocatable() uint64 {
	return s.nextID + uint64(int64(s.window))
}

func (s *entranceState) setLastAllocatable(last uint64) {
	offset := int64(last - s.nextID)
	if offset < math.MinInt32 || offset > math.MaxInt32 {
		panic(invariantf("window offset %d does not fit in 32 bits", offset))
	}
	s.window = int32(offset)
}

// setNextID moves nextID and keeps lastAllocatable where it was.
func (s *entranceState) setNextID(id uint64) {
	last := s.lastAllocatable()
	s.nextID = id
	s.setLastAllocatable(last)
}

type admission struct {
	id    uint64
	block bool
}

type entrance struct {
	cell wideCell
}

func (e *entrance) init(capacity uint64) {
	s := entranceState{}
	s.setLastAllocatable(capacity)
	e.cell.store(s.word())
}

// allocateNextID hands out the next sequence id. block is set when the id is
// outside the current window; the caller must park until the reader moves the
// window past it.
func (e *entrance) allocateNextID() (id uint64, block bool) {
	a := react(&e.cell, func(w *wideWord) (admission, bool) {
		s := entranceOf(*w)
		a := admission{id: s.nextID}
		s.setNextID(s.nextID + 1)
		if a.id >= s.lastAllocatable() {
			if s.blocked == math.MaxUint32 {
				panic(invariantf("parked producer count overflow"))
			}
			a.block = true
			s.blocked++
		}
		*w = s.word()
		return a, false
	})
	return a.id, a.block
}

// unlock is called by a producer once it has been released from parking.
func (e *entrance) unlock() {
	react(&e.cell, func(w *wideWord) (struct{}, bool) {
		s := entranceOf(*w)
		if s.blocked == 0 {
			panic(invariantf("unlock without a parked producer"))
		}
		s.blocked--
		*w = s.word()
		return struct{}{}, false
	})
}

// advanceWindow raises lastAllocatable to newLast and reports whether any
// producer is parked and may need waking.
func (e *entrance) advanceWindow(newLast uint64) bool {
	return react(&e.cell, func(w *wideWord) (bool, bool) {
		s := entranceOf(*w)
		if last := s.lastAllocatable(); newLast < last {
			panic(invariantf("window moved backwards from %d to %d", last, newLast))
		}
		s.setLastAllocatable(newLast)
		*w = s.word()
		return s.blocked > 0, false
	})
}

func (e *entrance) snapshot() entranceState {
	return entranceOf(e.cell.load())
}
