package rtshare

import (
	"sync/atomic"
)

// DeliveryCount is a consistent view of a [DeliveryCounter].
//
// Each field is an independently wrapping uint32, so after 2^32 attempts
// Successful may exceed Total. The counts are diagnostic, and the wrap is
// accepted.
type DeliveryCount struct {
	Successful uint32
	Total      uint32
}

// DeliveryCounter tallies enqueue attempts. The zero value is ready to use.
//
// Both counts are packed into one 64-bit word, so every observer sees a pair
// that existed at some instant, and never one field without the other.
type DeliveryCounter struct {
	// total in the high 32 bits, successful in the low 32 bits
	v atomic.Uint64
}

// RecordAttempt increments Total, and Successful if success is true, as a
// single atomic step. It is lock-free, and correct with any number of
// concurrent callers.
func (x *DeliveryCounter) RecordAttempt(success bool) {
	var inc uint32
	if success {
		inc = 1
	}
	for {
		old := x.v.Load()
		c := unpackCount(old)
		c.Successful += inc
		c.Total++
		if x.v.CompareAndSwap(old, packCount(c)) {
			return
		}
	}
}

// Snapshot returns both counts, as observed at one instant.
func (x *DeliveryCounter) Snapshot() DeliveryCount {
	return unpackCount(x.v.Load())
}

// Dropped returns the number of failed attempts, Total - Successful.
func (x DeliveryCount) Dropped() uint32 {
	return x.Total - x.Successful
}

func packCount(c DeliveryCount) uint64 {
	return uint64(c.Total)<<32 | uint64(c.Successful)
}

func unpackCount(v uint64) DeliveryCount {
	return DeliveryCount{
		Successful: uint32(v),
		Total:      uint32(v >> 32),
	}
}
