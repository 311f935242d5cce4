package control

import (
	"errors"
	"math"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-rtpendulum/rtshare"
)

// ErrInvalidStep is returned by NewController for a non-positive step.
var ErrInvalidStep = errors.New("control: step must be positive")

// Controller runs the control loop, one cycle per call to Step. Step must
// only be called from a single goroutine, the producer of the telemetry
// channel. It does not allocate, block, or take any lock other than the
// gains lock.
type Controller struct {
	shared   *rtshare.SharedContext
	plant    *Pendulum
	position atomic.Uint64
	pid      PID
	dt       float64
}

// NewController binds a plant to shared. The step is the simulated time per
// cycle, normally the cycle period. A panic will occur if shared or plant are
// nil.
func NewController(shared *rtshare.SharedContext, plant *Pendulum, step time.Duration) (*Controller, error) {
	if shared == nil || plant == nil {
		panic(`control: nil shared context or plant`)
	}
	if step <= 0 {
		return nil, ErrInvalidStep
	}
	x := &Controller{
		shared: shared,
		plant:  plant,
		dt:     step.Seconds(),
	}
	x.storePosition()
	return x, nil
}

// Step performs one cycle, and always returns true, making it suitable for
// use with cyclic.Thread.Run.
//
// A pending reset request is consumed, resetting the plant and the PID
// state. The output is recorded in the telemetry channel, or dropped, if the
// channel is full.
func (x *Controller) Step(now time.Time) bool {
	signals := x.shared.Signals()

	if signals.ConsumeReset() {
		x.plant.Reset()
		x.pid.Reset()
	}

	gains := x.shared.Config().Gains()
	angle, _ := x.plant.State()
	output := x.pid.Update(signals.DesiredPosition()-angle, x.dt, gains)
	x.plant.Step(output, x.dt)
	x.storePosition()

	x.shared.Telemetry().TryPush(rtshare.Sample{
		Timestamp: now,
		Output:    output,
	})

	return true
}

// Position returns the most recent plant angle. It may be called from any
// goroutine.
func (x *Controller) Position() float64 {
	return math.Float64frombits(x.position.Load())
}

func (x *Controller) storePosition() {
	angle, _ := x.plant.State()
	x.position.Store(math.Float64bits(angle))
}
