package rtshare

import (
	"sync"
)

// sharedOptions holds configuration options for SharedContext creation.
type sharedOptions struct {
	locker          sync.Locker
	gains           PIDGains
	desiredPosition float64
	capacity        int
}

// Option configures a SharedContext instance.
type Option interface {
	applyShared(*sharedOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applySharedFunc func(*sharedOptions) error
}

func (x *optionImpl) applyShared(opts *sharedOptions) error {
	return x.applySharedFunc(opts)
}

// WithCapacity sets the TelemetryChannel capacity. Defaults to
// DefaultCapacity. Values less than 1 cause New to fail with
// ErrInvalidCapacity.
func WithCapacity(capacity int) Option {
	return &optionImpl{func(opts *sharedOptions) error {
		if capacity < 1 {
			return ErrInvalidCapacity
		}
		opts.capacity = capacity
		return nil
	}}
}

// WithLocker sets the lock guarding the PID gains. Defaults to a
// [github.com/joeycumines/go-rtpendulum/pimutex.Mutex]. A nil locker restores
// the default.
func WithLocker(locker sync.Locker) Option {
	return &optionImpl{func(opts *sharedOptions) error {
		opts.locker = locker
		return nil
	}}
}

// WithInitialGains sets the gains prior to first use. Defaults to all zero.
func WithInitialGains(gains PIDGains) Option {
	return &optionImpl{func(opts *sharedOptions) error {
		opts.gains = gains
		return nil
	}}
}

// WithInitialDesiredPosition sets the setpoint prior to first use, in
// radians. Defaults to 0.
func WithInitialDesiredPosition(position float64) Option {
	return &optionImpl{func(opts *sharedOptions) error {
		opts.desiredPosition = position
		return nil
	}}
}

// resolveOptions applies Option instances to sharedOptions.
func resolveOptions(opts []Option) (*sharedOptions, error) {
	cfg := &sharedOptions{
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyShared(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
