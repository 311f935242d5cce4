package spsc

import (
	"sync/atomic"
)

const (
	// cursorPadSize pads a cursor and its cached peer out to a full cache
	// line, so the producer and consumer never write the same line.
	cursorPadSize = sizeOfCacheLine - sizeOfAtomicUint64 - sizeOfUint64
)

// Ring is a fixed-capacity SPSC FIFO queue.
//
// Memory Ordering:
//   - TryPush: Write Slot -> Store tail (Release)
//   - TryPop:  Load tail (Acquire) -> Read Slot -> Clear Slot -> Store head (Release)
//
// Each side keeps a private copy of the other side's cursor, and only reloads
// it when the ring looks full (producer) or empty (consumer), which keeps the
// common case free of cross-core cache traffic.
//
// The logical capacity is exactly the value passed to [New]. The backing
// array is rounded up to a power of 2 so slot lookup is a mask, but fullness
// is judged against the logical capacity.
type Ring[T any] struct { // betteralign:ignore
	_ [sizeOfCacheLine]byte // Cache line padding

	// consumer side
	head       atomic.Uint64 // next slot to read
	cachedTail uint64        // consumer's last view of tail
	_          [cursorPadSize]byte

	// producer side
	tail       atomic.Uint64 // next slot to write
	cachedHead uint64        // producer's last view of head
	_          [cursorPadSize]byte

	// read-only after New
	buf      []T
	mask     uint64
	capacity uint64
}

// New allocates a ring holding at most capacity values. A panic will occur if
// capacity is less than 1.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		panic(`spsc: capacity must be positive`)
	}
	size := nextPowerOfTwo(uint64(capacity))
	return &Ring[T]{
		buf:      make([]T, size),
		mask:     size - 1,
		capacity: uint64(capacity),
	}
}

// TryPush appends v, returning false, without modifying the ring, if the ring
// is full. It must only be called from the producer goroutine.
func (r *Ring[T]) TryPush(v T) bool {
	tail := r.tail.Load()
	if tail-r.cachedHead >= r.capacity {
		r.cachedHead = r.head.Load()
		if tail-r.cachedHead >= r.capacity {
			return false
		}
	}
	r.buf[tail&r.mask] = v
	r.tail.Store(tail + 1) // publish to consumer
	return true
}

// TryPop removes and returns the oldest value, returning false if the ring is
// empty. It must only be called from the consumer goroutine.
func (r *Ring[T]) TryPop() (v T, ok bool) {
	head := r.head.Load()
	if head == r.cachedTail {
		r.cachedTail = r.tail.Load()
		if head == r.cachedTail {
			return v, false
		}
	}
	slot := &r.buf[head&r.mask]
	v = *slot
	var zero T
	*slot = zero           // drop references held by the slot
	r.head.Store(head + 1) // release slot to producer
	return v, true
}

// Len returns an approximation of the number of values pending. It is exact
// when neither side is running, and may be called from any goroutine.
func (r *Ring[T]) Len() int {
	// head first: tail never falls behind a previously observed head
	head := r.head.Load()
	tail := r.tail.Load()
	n := tail - head
	if n > r.capacity {
		n = r.capacity
	}
	return int(n)
}

// Cap returns the fixed capacity, as passed to [New].
func (r *Ring[T]) Cap() int {
	return int(r.capacity)
}

func nextPowerOfTwo(v uint64) uint64 {
	size := uint64(1)
	for size < v {
		size <<= 1
	}
	return size
}
