package rtshare

import (
	"sync"

	"github.com/joeycumines/go-rtpendulum/pimutex"
)

// PIDGains are the controller gains, always read and written as a unit.
type PIDGains struct {
	Proportional float64
	Integral     float64
	Derivative   float64
}

// GainsCell guards a PIDGains value. Instances must be initialized using the
// NewGainsCell factory.
//
// The critical section is a plain copy of the record, nothing else, so the
// longest either side can wait is one copy by the other.
type GainsCell struct {
	mu    sync.Locker
	gains PIDGains
}

// NewGainsCell returns a cell holding initial, guarded by mu. If mu is nil, a
// [pimutex.Mutex] is used, and the PI support probe runs here rather than in
// the first Gains.
//
// The lock should provide priority inheritance, or an equivalent bound on
// priority inversion, if a real-time goroutine will call Gains.
func NewGainsCell(mu sync.Locker, initial PIDGains) *GainsCell {
	if mu == nil {
		mu = pimutex.New()
	}
	return &GainsCell{mu: mu, gains: initial}
}

// SetGains replaces the gains.
func (x *GainsCell) SetGains(gains PIDGains) {
	x.mu.Lock()
	x.gains = gains
	x.mu.Unlock()
}

// Gains returns the current gains, never a mix of two writes.
func (x *GainsCell) Gains() PIDGains {
	x.mu.Lock()
	gains := x.gains
	x.mu.Unlock()
	return gains
}
