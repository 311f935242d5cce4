// Package spsc implements a bounded, lock-free, single-producer
// single-consumer ring buffer.
//
// A [Ring] moves values from exactly one producing goroutine to exactly one
// consuming goroutine. Neither side ever blocks: [Ring.TryPush] reports false
// when the ring is at capacity, and [Ring.TryPop] reports false when it is
// empty. All storage is allocated by [New], so the hot paths are
// allocation-free, which makes the ring suitable for hand-off out of a
// real-time loop.
//
// Calling TryPush from more than one goroutine concurrently, or TryPop from
// more than one goroutine concurrently, is a data race. Use one ring per
// producer/consumer pair.
package spsc
