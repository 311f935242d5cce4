package rtshare

import (
	"math"
	"sync/atomic"
)

// ControlSignals carries the commands for the real-time loop that fit in a
// single atomic word. The zero value is ready to use, with reset false and a
// desired position of 0.
//
// The two signals are independent: a reader may see a new desired position
// alongside a stale reset flag, or vice versa.
type ControlSignals struct {
	reset           atomic.Bool
	desiredPosition atomic.Uint64 // math.Float64bits
}

// SetReset stores the reset flag.
func (x *ControlSignals) SetReset(reset bool) {
	x.reset.Store(reset)
}

// Reset returns the reset flag. The flag is never cleared implicitly, it
// stays set until SetReset(false) or ConsumeReset.
func (x *ControlSignals) Reset() bool {
	return x.reset.Load()
}

// ConsumeReset clears the reset flag, returning true if it was set. It is
// intended for the real-time loop, which is responsible for clearing the
// flag once it has acted on it. Unlike Reset followed by SetReset(false), a
// reset requested between the two steps cannot be lost.
func (x *ControlSignals) ConsumeReset() bool {
	return x.reset.CompareAndSwap(true, false)
}

// SetDesiredPosition stores the setpoint, in radians.
func (x *ControlSignals) SetDesiredPosition(position float64) {
	x.desiredPosition.Store(math.Float64bits(position))
}

// DesiredPosition returns the setpoint, in radians.
func (x *ControlSignals) DesiredPosition() float64 {
	return math.Float64frombits(x.desiredPosition.Load())
}
