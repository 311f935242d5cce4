//go:build !linux

package pimutex

func probe() bool { return false }

func (m *Mutex) lockPI() { m.fallback.Lock() }

func (m *Mutex) tryLockPI() bool { return m.fallback.TryLock() }

func (m *Mutex) unlockPI() { m.fallback.Unlock() }
