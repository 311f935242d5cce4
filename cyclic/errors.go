package cyclic

import (
	"errors"
)

var (
	// ErrRunning is returned by [Thread.Run] if the thread is already running.
	ErrRunning = errors.New("cyclic: thread is already running")

	// ErrInvalidPeriod is returned by [New] for a non-positive period.
	ErrInvalidPeriod = errors.New("cyclic: period must be positive")

	// ErrInvalidPriority is returned by [New] for a priority outside 0..99.
	ErrInvalidPriority = errors.New("cyclic: priority must be in the range 0..99")

	// ErrInvalidCPU is returned by [New] for a negative CPU index.
	ErrInvalidCPU = errors.New("cyclic: cpu index must not be negative")
)
