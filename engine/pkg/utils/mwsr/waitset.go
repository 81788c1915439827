package mwsr

import (
	"cmp"
	"slices"
	"sync"
)

type waiter struct {
	id    uint64
	ready chan struct{}
}

// waitSet holds producers parked on a full queue, ordered by id.
//
// threshold only grows. A producer whose id is below it never parks, so a
// release that lands before the producer gets here is not lost.
type waitSet struct {
	mu        sync.Mutex
	threshold uint64
	waiters   []*waiter // ascending id
	pool      sync.Pool
}

func (ws *waitSet) get(id uint64) *waiter {
	w, _ := ws.pool.Get().(*waiter)
	if w == nil {
		w = &waiter{ready: make(chan struct{}, 1)}
	}
	w.id = id
	return w
}

// park blocks the caller until the threshold passes id.
func (ws *waitSet) park(id uint64) {
	ws.mu.Lock()
	if id < ws.threshold {
		ws.mu.Unlock()
		return
	}
	w := ws.get(id)
	i, found := slices.BinarySearchFunc(ws.waiters, id, func(w *waiter, id uint64) int {
		return cmp.Compare(w.id, id)
	})
	if found {
		ws.mu.Unlock()
		panic(invariantf("producer id %d parked twice", id))
	}
	ws.waiters = slices.Insert(ws.waiters, i, w)
	ws.mu.Unlock()

	<-w.ready
	ws.pool.Put(w)
}

// releaseUpTo raises the threshold and wakes, lowest id first, every parked
// producer below it. It returns how many were woken.
func (ws *waitSet) releaseUpTo(threshold uint64) int {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if threshold < ws.threshold {
		panic(invariantf("release threshold moved backwards from %d to %d", ws.threshold, threshold))
	}
	ws.threshold = threshold

	n := 0
	for n < len(ws.waiters) && ws.waiters[n].id < threshold {
		ws.waiters[n].ready <- struct{}{}
		n++
	}
	ws.waiters = slices.Delete(ws.waiters, 0, n)
	return n
}

// parked returns the number of producers currently waiting.
func (ws *waitSet) parked() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.waiters)
}
