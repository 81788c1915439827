// Package mwsr provides a bounded multi-writer, single-reader queue.
//
// Producers and the consumer never share a lock on the common path. They meet
// at two coordinator states, each packed into one 128-bit word and updated by
// compare-and-swap:
//
//   - the entrance state hands out sequence ids and tracks the window of ids
//     producers may write into, plus the number of producers parked because
//     the queue is full;
//   - the exit state tracks the oldest unread id, a bitmask of which of the
//     next capacity slots have been written, and whether the reader is parked.
//
// Items are delivered in the order their ids were allocated, not the order
// the writes finished. The reader drains the longest completed run in one
// step and serves the rest of it from a local cache.
//
// Push may be called from any number of goroutines. Pop and IsEmpty must only
// be called from one consumer goroutine at a time.
package mwsr
