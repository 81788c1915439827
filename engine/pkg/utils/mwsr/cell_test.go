package mwsr

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWideCell_CompareAndSwap(t *testing.T) {
	var c wideCell
	c.store(wideWord{lo: 1, hi: 2})

	expected := wideWord{lo: 1, hi: 3}
	require.False(t, c.compareAndSwap(&expected, wideWord{lo: 9, hi: 9}))
	assert.Equal(t, wideWord{lo: 1, hi: 2}, expected, "failed CAS must report the observed value")

	require.True(t, c.compareAndSwap(&expected, wideWord{lo: 9, hi: 9}))
	assert.Equal(t, wideWord{lo: 9, hi: 9}, c.load())
}

func TestWideCell_Exchange(t *testing.T) {
	var c wideCell
	c.store(wideWord{lo: 5, hi: 6})
	old := c.exchange(wideWord{lo: 7, hi: 8})
	assert.Equal(t, wideWord{lo: 5, hi: 6}, old)
	assert.Equal(t, wideWord{lo: 7, hi: 8}, c.load())
}

// Both halves must move together under contention.
func TestWideCell_ReactWholeValue(t *testing.T) {
	const (
		workers = 8
		perG    = 10_000
	)
	var c wideCell
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				react(&c, func(w *wideWord) (struct{}, bool) {
					w.lo++
					w.hi += 2
					return struct{}{}, false
				})
			}
		}()
	}
	wg.Wait()

	w := c.load()
	assert.EqualValues(t, workers*perG, w.lo)
	assert.EqualValues(t, 2*workers*perG, w.hi)
}

func TestWideCell_ReactEarlyExitLeavesValue(t *testing.T) {
	var c wideCell
	c.store(wideWord{lo: 1})
	out := react(&c, func(w *wideWord) (int, bool) {
		w.lo = 100
		return 42, true
	})
	assert.Equal(t, 42, out)
	assert.EqualValues(t, 1, c.load().lo)
}
