package rtshare

import (
	"time"
)

// Sample is one controller output, as produced by the real-time loop.
type Sample struct {
	// Timestamp is when the output was computed. Values from time.Now carry
	// a monotonic clock reading, which is what Sub and Since will use.
	Timestamp time.Time
	// Output is the controller output, e.g. the commanded torque.
	Output float64
}
