package dedup

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLDeDuplicator_Seen(t *testing.T) {
	d := NewTTLDeDuplicator()
	assert.False(t, d.Seen("worker-1", "create:a"))
	assert.True(t, d.Seen("worker-1", "create:a"))
	assert.False(t, d.Seen("worker-2", "create:a"), "owners are independent")
	assert.Equal(t, 2, d.Len())
}

func TestTTLDeDuplicator_MarkDone(t *testing.T) {
	d := NewTTLDeDuplicator()
	assert.False(t, d.Seen("w", "k"))
	d.MarkDone("w", "k")
	assert.False(t, d.Seen("w", "k"))
}

func TestTTLDeDuplicator_Expire(t *testing.T) {
	d := NewTTLDeDuplicator(WithTTL(20*time.Millisecond), WithCleanTTL(time.Hour))
	assert.False(t, d.Seen("w", "k"))
	time.Sleep(40 * time.Millisecond)
	assert.False(t, d.Seen("w", "k"))
}

func TestTTLDeDuplicator_ConcurrentFirstSight(t *testing.T) {
	d := NewTTLDeDuplicator()
	var first atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !d.Seen("w", "same") {
				first.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), first.Load())
}
