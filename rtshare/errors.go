package rtshare

import (
	"errors"
)

var (
	// ErrInvalidCapacity is returned when constructing a [TelemetryChannel]
	// (or [SharedContext]) with a capacity less than 1.
	ErrInvalidCapacity = errors.New(`rtshare: capacity must be positive`)
)
