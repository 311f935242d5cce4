package rtshare

import (
	"github.com/joeycumines/go-rtpendulum/spsc"
)

// DefaultCapacity is the default TelemetryChannel capacity. At the reference
// production rate of 1 kHz it absorbs a stalled consumer for ~8 seconds.
const DefaultCapacity = 8192

// TelemetryChannel is a bounded, lossy, FIFO hand-off of samples from the
// real-time loop (the single producer) to the supervisor (the single
// consumer), which accounts for every push in a [DeliveryCounter].
//
// Instances must be initialized using the NewTelemetryChannel factory.
type TelemetryChannel struct {
	ring    *spsc.Ring[Sample]
	counter DeliveryCounter
}

// NewTelemetryChannel allocates a channel holding at most capacity samples.
// ErrInvalidCapacity is returned if capacity is less than 1.
func NewTelemetryChannel(capacity int) (*TelemetryChannel, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &TelemetryChannel{ring: spsc.New[Sample](capacity)}, nil
}

// TryPush enqueues sample, returning false if the channel is full, in which
// case the sample is discarded. Either way, the attempt is recorded. It never
// blocks or allocates, and must only be called from the producer goroutine.
// Failed pushes are not retried.
func (x *TelemetryChannel) TryPush(sample Sample) bool {
	ok := x.ring.TryPush(sample)
	x.counter.RecordAttempt(ok)
	return ok
}

// TryPop dequeues the oldest sample, returning false if there are none. It
// never blocks, and must only be called from the consumer goroutine.
func (x *TelemetryChannel) TryPop() (Sample, bool) {
	return x.ring.TryPop()
}

// Snapshot returns the delivery counts for all pushes so far. It may be called
// from any goroutine.
func (x *TelemetryChannel) Snapshot() DeliveryCount {
	return x.counter.Snapshot()
}

// Counter exposes the underlying delivery counter.
func (x *TelemetryChannel) Counter() *DeliveryCounter {
	return &x.counter
}

// Len returns the approximate number of pending samples.
func (x *TelemetryChannel) Len() int {
	return x.ring.Len()
}

// Cap returns the fixed capacity.
func (x *TelemetryChannel) Cap() int {
	return x.ring.Cap()
}
