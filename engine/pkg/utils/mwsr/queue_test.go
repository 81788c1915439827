package mwsr_test

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njtc406/emberqueue/engine/pkg/utils/mwsr"
)

func TestNew_RejectsCapacity(t *testing.T) {
	for _, c := range []int{-1, 0, mwsr.MaxCapacity + 1} {
		func() {
			defer func() {
				r := recover()
				require.NotNil(t, r, "capacity %d", c)
				assert.True(t, errors.Is(r.(error), mwsr.ErrInvalidCapacity))
			}()
			mwsr.New[int](c)
		}()
	}
	assert.Equal(t, 1, mwsr.New[int](1).Cap())
	assert.Equal(t, mwsr.MaxCapacity, mwsr.New[int](mwsr.MaxCapacity).Cap())
}

// Basic sanity: sequential push/pop, wrapping the ring many times.
func TestQueue_Sequential(t *testing.T) {
	const N = 10_000
	q := mwsr.New[int](8)
	for i := 0; i < N; i++ {
		q.Push(i)
		require.Equal(t, i, q.Pop())
	}
	assert.True(t, q.IsEmpty())
}

func TestQueue_CapacityOne(t *testing.T) {
	q := mwsr.New[string](1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			q.Push(fmt.Sprint(i))
		}
	}()
	for i := 0; i < 100; i++ {
		require.Equal(t, fmt.Sprint(i), q.Pop())
	}
	<-done
}

// Scenario A: four producers, no contention delay, values come back in push order.
func TestQueue_ScenarioA(t *testing.T) {
	q := mwsr.New[string](4)
	for _, v := range []string{"A", "B", "C", "D"} {
		done := make(chan struct{})
		go func(v string) {
			q.Push(v)
			close(done)
		}(v)
		<-done
	}
	for _, want := range []string{"A", "B", "C", "D"} {
		assert.Equal(t, want, q.Pop())
	}
}

// Scenario B: a full queue parks the next producer until one item is read.
func TestQueue_ScenarioB(t *testing.T) {
	q := mwsr.New[int](4)
	for i := 0; i < 4; i++ {
		q.Push(i)
	}
	assert.Zero(t, q.Stats().BlockedPushes, "four items fit in a capacity-4 queue")

	done := make(chan struct{})
	go func() {
		q.Push(4)
		close(done)
	}()
	require.Eventually(t, func() bool { return q.Stats().Blocked == 1 }, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("fifth push must block while the queue is full")
	case <-time.After(20 * time.Millisecond):
	}

	assert.Equal(t, 0, q.Pop())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("one pop must admit the parked producer")
	}

	for want := 1; want <= 4; want++ {
		assert.Equal(t, want, q.Pop())
	}
	st := q.Stats()
	assert.EqualValues(t, 1, st.BlockedPushes)
	assert.Zero(t, st.Blocked)
}

// Scenario C: Pop on an empty queue sleeps until a push lands.
func TestQueue_ScenarioC(t *testing.T) {
	q := mwsr.New[string](4)
	got := make(chan string)
	go func() {
		got <- q.Pop()
	}()
	require.Eventually(t, func() bool { return q.Stats().ReaderParks >= 1 }, time.Second, time.Millisecond)

	q.Push("late")
	select {
	case v := <-got:
		assert.Equal(t, "late", v)
	case <-time.After(time.Second):
		t.Fatal("parked reader was not woken")
	}
}

// A run completed while nobody reads is drained with one synchronisation and
// then served from the read cache.
func TestQueue_BatchedDrain(t *testing.T) {
	const K = 7
	q := mwsr.New[int](8)
	for i := 0; i < K; i++ {
		q.Push(i)
	}

	assert.Equal(t, 0, q.Pop())
	st := q.Stats()
	assert.EqualValues(t, 1, st.Drains)
	assert.False(t, q.IsEmpty())

	for i := 1; i < K; i++ {
		assert.Equal(t, i, q.Pop())
	}
	st = q.Stats()
	assert.EqualValues(t, 1, st.Drains, "cached items need no further synchronisation")
	assert.EqualValues(t, K, st.Pops)
	assert.True(t, q.IsEmpty())
	assert.EqualValues(t, K, st.FirstUnread)
}

// Producers never get more than capacity writes ahead of the reader.
func TestQueue_CapacityBound(t *testing.T) {
	const (
		capacity  = 4
		producers = 10
	)
	q := mwsr.New[int](capacity)

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			q.Push(p)
		}(p)
	}

	require.Eventually(t, func() bool {
		st := q.Stats()
		return st.Ready == capacity && st.Blocked == producers-capacity
	}, time.Second, time.Millisecond)
	st := q.Stats()
	assert.EqualValues(t, capacity, st.Pushes)
	assert.Zero(t, st.FirstUnread)

	seen := make([]int, 0, producers)
	for i := 0; i < producers; i++ {
		seen = append(seen, q.Pop())
		st := q.Stats()
		assert.LessOrEqual(t, st.Ready, capacity)
	}
	wg.Wait()
	sort.Ints(seen)
	for i, v := range seen {
		assert.Equal(t, i, v)
	}
}

// Many producers, one consumer: nothing lost, nothing duplicated, and each
// producer's own values stay in order.
func TestQueue_ConcurrentProducers(t *testing.T) {
	const (
		capacity    = 16
		producers   = 8
		perProducer = 20_000
		N           = producers * perProducer
	)
	type item struct {
		producer int
		seq      int
	}
	q := mwsr.New[item](capacity)

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(item{producer: p, seq: i})
				if i%1024 == 0 {
					runtime.Gosched()
				}
			}
		}(p)
	}

	next := make([]int, producers)
	for i := 0; i < N; i++ {
		v := q.Pop()
		require.Equal(t, next[v.producer], v.seq, "producer %d out of order", v.producer)
		next[v.producer]++
	}
	wg.Wait()

	for p, n := range next {
		assert.Equal(t, perProducer, n, "producer %d", p)
	}
	st := q.Stats()
	assert.EqualValues(t, N, st.Pushes)
	assert.EqualValues(t, N, st.Pops)
	assert.EqualValues(t, N, st.NextID)
	assert.EqualValues(t, N, st.FirstUnread)
	assert.Zero(t, st.Blocked)
	assert.LessOrEqual(t, st.Drains, st.Pops)
}

// Pop order is the order ids were allocated. Pushes are serialised through a
// mutex here, so allocation order is the order values were chosen.
func TestQueue_FIFOAcrossProducers(t *testing.T) {
	const (
		producers = 6
		N         = 30_000
	)
	q := mwsr.New[int](32)

	var (
		mu   sync.Mutex
		next int
		wg   sync.WaitGroup
	)
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for {
				mu.Lock()
				if next == N {
					mu.Unlock()
					return
				}
				v := next
				next++
				q.Push(v)
				mu.Unlock()
			}
		}()
	}

	for i := 0; i < N; i++ {
		require.Equal(t, i, q.Pop())
	}
	wg.Wait()
}

func TestQueue_ConcurrentPopPanics(t *testing.T) {
	q := mwsr.New[int](4)
	got := make(chan int)
	go func() {
		got <- q.Pop()
	}()
	require.Eventually(t, func() bool { return q.Stats().ReaderParks >= 1 }, time.Second, time.Millisecond)

	assert.PanicsWithValue(t, mwsr.ErrConcurrentPop, func() { q.Pop() })

	q.Push(1)
	assert.Equal(t, 1, <-got)
}

// Pointer items come back intact and the read cache ends drained.
func TestQueue_ReleasesItems(t *testing.T) {
	q := mwsr.New[*int](4)
	for i := 0; i < 3; i++ {
		v := i
		q.Push(&v)
	}
	for i := 0; i < 3; i++ {
		assert.Equal(t, i, *q.Pop())
	}
	assert.True(t, q.IsEmpty())
}

// Benchmark: single producer, single consumer.
func BenchmarkQueue_1P1C(b *testing.B) {
	q := mwsr.New[int](mwsr.MaxCapacity)
	done := make(chan struct{})

	go func() {
		for i := 0; i < b.N; i++ {
			q.Pop()
		}
		close(done)
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Push(i)
	}
	<-done
	b.StopTimer()
}

// Benchmark: many producers, single consumer.
func BenchmarkQueue_MP1C(b *testing.B) {
	const producers = 8
	q := mwsr.New[int](mwsr.MaxCapacity)
	perProducer := b.N / producers
	total := perProducer * producers

	var wg sync.WaitGroup
	wg.Add(producers + 1)

	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Pop()
		}
	}()

	b.ResetTimer()
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(i)
			}
		}()
	}
	wg.Wait()
	b.StopTimer()
}
