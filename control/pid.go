package control

import (
	"github.com/joeycumines/go-rtpendulum/rtshare"
)

// PID holds the state for a PID controller. Gains are supplied on each
// update, so they may change between cycles. The zero value is ready to use.
type PID struct {
	prevError float64
	integral  float64
	primed    bool
}

// Update calculates the new control output, for the given error and elapsed
// time in seconds. A non-positive dt contributes only the proportional term.
func (x *PID) Update(currentError, dt float64, gains rtshare.PIDGains) float64 {
	output := gains.Proportional * currentError

	if dt > 0 {
		x.integral += currentError * dt
		output += gains.Integral * x.integral

		// no derivative kick on the first update
		if x.primed {
			output += gains.Derivative * (currentError - x.prevError) / dt
		}
	}

	x.prevError = currentError
	x.primed = true

	return output
}

// Reset clears the integral and derivative history.
func (x *PID) Reset() {
	*x = PID{}
}
