// Package pimutex provides a mutual exclusion lock with priority inheritance,
// for critical sections shared between a real-time goroutine and ordinary
// goroutines.
//
// On Linux, [Mutex] implements the PI futex protocol: while a lower priority
// thread holds the lock, and a higher priority thread waits on it, the kernel
// boosts the holder to the waiter's priority, bounding the inversion to the
// length of the critical section. The calling goroutine is locked to its OS
// thread between Lock and Unlock, because the lock word records the owning
// thread.
//
// Where PI futexes are unavailable (other platforms, or kernels and sandboxes
// that reject them), Mutex behaves as a [sync.Mutex], and [Supported] reports
// false.
//
// The race detector can't see a lock handed over by the kernel, so race
// enabled builds also pass every acquire and release through an atomic
// counter on the mutex.
package pimutex

import (
	"sync"
	"sync/atomic"
)

// Mutex is a priority-inheritance mutual exclusion lock. The zero value is an
// unlocked mutex. A Mutex must not be copied after first use.
//
// As with [sync.Mutex], a locked Mutex is not associated with a goroutine,
// but, unlike sync.Mutex, on the PI path it IS associated with an OS thread,
// so Unlock must be called by the goroutine that called Lock.
type Mutex struct {
	// owner TID, with the kernel's waiters bit set while contended
	state atomic.Uint32
	// only touched in race enabled builds
	handoff  atomic.Uint32
	fallback sync.Mutex
}

var _ sync.Locker = (*Mutex)(nil)

var (
	supportOnce sync.Once
	supported   bool
	probes      atomic.Int32
)

// New returns a new, unlocked, Mutex. It runs the [Supported] probe, if that
// hasn't happened yet, so the first Lock makes no extra syscalls.
func New() *Mutex {
	Supported()
	return new(Mutex)
}

// Supported reports whether priority inheritance is in effect. The result is
// determined once, on first use, and never changes for the life of the
// process.
func Supported() bool {
	supportOnce.Do(func() {
		probes.Add(1)
		supported = probe()
	})
	return supported
}

// Lock locks m, blocking until it is available.
func (m *Mutex) Lock() {
	if !Supported() {
		m.fallback.Lock()
		return
	}
	m.lockPI()
}

// TryLock tries to lock m without blocking, and reports whether it succeeded.
func (m *Mutex) TryLock() bool {
	if !Supported() {
		return m.fallback.TryLock()
	}
	return m.tryLockPI()
}

// Unlock unlocks m. It is a run-time error if m is not locked on entry.
func (m *Mutex) Unlock() {
	if !Supported() {
		m.fallback.Unlock()
		return
	}
	m.unlockPI()
}
