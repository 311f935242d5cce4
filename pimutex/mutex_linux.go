//go:build linux

package pimutex

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// futex(2) operations and lock word layout, from linux/futex.h
const (
	futexLockPI      = 6
	futexUnlockPI    = 7
	futexPrivateFlag = 128
	futexTIDMask     = 0x3fffffff
)

func futex(addr *atomic.Uint32, op uintptr) unix.Errno {
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), op|futexPrivateFlag, 0, 0, 0, 0)
	return errno
}

// probe takes and releases a private PI futex, in the kernel.
func probe() bool {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	word := new(atomic.Uint32)
	if futex(word, futexLockPI) != 0 {
		return false
	}
	return futex(word, futexUnlockPI) == 0
}

func (m *Mutex) raceAcquire() {
	if raceEnabled {
		m.handoff.Load()
	}
}

func (m *Mutex) raceRelease() {
	if raceEnabled {
		m.handoff.Add(1)
	}
}

func (m *Mutex) lockPI() {
	runtime.LockOSThread()
	tid := uint32(unix.Gettid())
	if m.state.CompareAndSwap(0, tid) {
		m.raceAcquire()
		return
	}
	for {
		switch errno := futex(&m.state, futexLockPI); errno {
		case 0:
			// the kernel stored our tid (possibly with the waiters bit)
			m.raceAcquire()
			return
		case unix.EINTR, unix.EAGAIN:
			// interrupted, or the owner is exiting
		default:
			// EDEADLK (relocking from the owning thread) or EINVAL (corrupt
			// lock word): both are misuse, as with sync.Mutex
			runtime.UnlockOSThread()
			panic(fmt.Errorf(`pimutex: lock: %w`, errno))
		}
	}
}

func (m *Mutex) tryLockPI() bool {
	runtime.LockOSThread()
	if m.state.CompareAndSwap(0, uint32(unix.Gettid())) {
		m.raceAcquire()
		return true
	}
	runtime.UnlockOSThread()
	return false
}

func (m *Mutex) unlockPI() {
	tid := uint32(unix.Gettid())
	if m.state.Load()&futexTIDMask != tid {
		panic(`pimutex: unlock of unlocked mutex`)
	}
	m.raceRelease()
	if !m.state.CompareAndSwap(tid, 0) {
		// contended: the kernel hands the lock to the highest priority waiter
		for {
			errno := futex(&m.state, futexUnlockPI)
			if errno == 0 {
				break
			}
			if errno != unix.EINTR {
				panic(fmt.Errorf(`pimutex: unlock: %w`, errno))
			}
		}
	}
	runtime.UnlockOSThread()
}
