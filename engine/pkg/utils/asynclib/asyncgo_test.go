package asynclib

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGo_WithoutPool(t *testing.T) {
	done := make(chan struct{})
	require.NoError(t, Go(func() { close(done) }))
	<-done
}

func TestGo_Pool(t *testing.T) {
	InitAntsPool(2)
	defer Release()

	var n atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		require.NoError(t, Go(func() {
			defer wg.Done()
			n.Add(1)
		}))
	}
	wg.Wait()
	assert.Equal(t, int32(100), n.Load())
}

func TestGo_RecoversPanic(t *testing.T) {
	InitAntsPool(1)
	defer Release()

	done := make(chan struct{})
	require.NoError(t, Go(func() {
		defer close(done)
		panic("boom")
	}))
	<-done
	ok := make(chan struct{})
	require.NoError(t, Go(func() { close(ok) }))
	<-ok
}
