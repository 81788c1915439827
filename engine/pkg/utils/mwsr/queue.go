package mwsr

import (
	"fmt"
	"math/bits"
	"sync/atomic"

	"github.com/njtc406/logrus"
)

// MaxCapacity is the width of the completion mask.
const MaxCapacity = 64

type Option func(o *options)

type options struct {
	name   string
	logger logrus.FieldLogger
}

// WithName tags log lines written by the queue.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger enables debug traces of park and wake transitions.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Stats is a point-in-time view of a queue. Counters are exact; the
// coordinator fields are read without stopping producers.
type Stats struct {
	Pushes        uint64 // completed Push calls
	BlockedPushes uint64 // Push calls that parked on a full queue
	Pops          uint64 // completed Pop calls
	Drains        uint64 // Pop calls that synchronised with producers
	ReaderParks   uint64 // times the reader slept on an empty queue

	NextID      uint64 // next id the entrance will hand out
	FirstUnread uint64 // oldest id not yet taken by the reader
	Blocked     uint32 // producers counted as parked by the entrance
	Ready       int    // written, unread items visible in the completion mask
}

// Queue is a bounded multi-writer, single-reader FIFO queue.
//
// The zero value is not usable; create queues with New.
type Queue[T any] struct {
	_        [64]byte
	entrance entrance
	exit     exit
	_        [64]byte

	writers waitSet
	reader  readerPark

	capacity uint64
	items    []T

	// reader-owned
	cache      []T
	cacheBegin int
	cacheEnd   int
	popActive  atomic.Uint32

	pushes        atomic.Uint64
	blockedPushes atomic.Uint64
	pops          atomic.Uint64
	drains        atomic.Uint64
	readerParks   atomic.Uint64

	name   string
	logger logrus.FieldLogger
}

// New creates a queue that holds up to capacity unread items.
// It panics unless 1 <= capacity <= MaxCapacity.
func New[T any](capacity int, opts ...Option) *Queue[T] {
	if capacity < 1 || capacity > MaxCapacity {
		panic(fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity))
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	q := &Queue[T]{
		capacity: uint64(capacity),
		items:    make([]T, capacity),
		cache:    make([]T, capacity-1),
		name:     o.name,
		logger:   o.logger,
	}
	q.entrance.init(q.capacity)
	q.exit.init(q.capacity)
	q.reader.init()
	return q
}

// Push appends item. It blocks while the queue already holds capacity unread
// items. Safe for concurrent use by any number of goroutines.
func (q *Queue[T]) Push(item T) {
	id, block := q.entrance.allocateNextID()
	if block {
		q.blockedPushes.Add(1)
		q.trace("producer parked", "id", id)
		q.writers.park(id)
		q.entrance.unlock()
		q.trace("producer released", "id", id)
	}

	q.items[id%q.capacity] = item

	if q.exit.markWriteComplete(id) {
		q.trace("reader woken", "id", id)
		q.reader.unlock()
	}
	q.pushes.Add(1)
}

// Pop removes and returns the oldest item, blocking while the queue is empty.
//
// Only one goroutine may be inside Pop at a time; a second one panics with
// ErrConcurrentPop.
func (q *Queue[T]) Pop() T {
	if !q.popActive.CompareAndSwap(0, 1) {
		panic(ErrConcurrentPop)
	}
	defer q.popActive.Store(0)

	var zero T
	if q.cacheBegin < q.cacheEnd {
		v := q.cache[q.cacheBegin]
		q.cache[q.cacheBegin] = zero
		q.cacheBegin++
		q.pops.Add(1)
		return v
	}

	for {
		n, first, empty := q.exit.claimContiguousRun()
		if empty {
			parks := q.readerParks.Add(1)
			q.trace("reader parked", "parks", parks)
			q.reader.lockAndWait()
			continue
		}

		idx := first % q.capacity
		v := q.items[idx]
		q.items[idx] = zero

		q.cacheBegin, q.cacheEnd = 0, 0
		for i := 1; i < n; i++ {
			idx = (first + uint64(i)) % q.capacity
			q.cache[q.cacheEnd] = q.items[idx]
			q.items[idx] = zero
			q.cacheEnd++
		}

		bound := q.exit.advanceAfterDrain(n)
		if q.entrance.advanceWindow(bound) {
			woken := q.writers.releaseUpTo(bound)
			q.trace("producers released", "woken", uint64(woken))
		}

		q.drains.Add(1)
		q.pops.Add(1)
		return v
	}
}

// IsEmpty reports whether the reader's local cache is drained. It says
// nothing reliable about items still held by the queue, so it must not be
// used to decide whether to call Pop. Reader goroutine only.
func (q *Queue[T]) IsEmpty() bool {
	return q.cacheBegin == q.cacheEnd
}

// Cap returns the capacity the queue was created with.
func (q *Queue[T]) Cap() int {
	return int(q.capacity)
}

func (q *Queue[T]) Stats() Stats {
	in := q.entrance.snapshot()
	out := q.exit.snapshot()
	return Stats{
		Pushes:        q.pushes.Load(),
		BlockedPushes: q.blockedPushes.Load(),
		Pops:          q.pops.Load(),
		Drains:        q.drains.Load(),
		ReaderParks:   q.readerParks.Load(),
		NextID:        in.nextID,
		FirstUnread:   out.firstUnread,
		Blocked:       in.blocked,
		Ready:         bits.OnesCount64(out.mask),
	}
}

func (q *Queue[T]) trace(msg, key string, v uint64) {
	if q.logger == nil {
		return
	}
	q.logger.WithFields(logrus.Fields{
		"queue": q.name,
		key:     v,
	}).Debug(msg)
}
