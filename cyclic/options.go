package cyclic

import (
	"time"

	"github.com/joeycumines/logiface"
)

const (
	// DefaultPeriod is the cycle period used when WithPeriod is not provided.
	DefaultPeriod = time.Millisecond

	// DefaultPriority is the SCHED_FIFO priority used when WithPriority is
	// not provided.
	DefaultPriority = 80

	maxPriority = 99
)

// threadOptions holds configuration options for Thread creation.
type threadOptions struct {
	logger     *logiface.Logger[logiface.Event]
	cpus       []int
	period     time.Duration
	priority   int
	lockMemory bool
}

// Option configures a Thread instance.
type Option interface {
	applyThread(*threadOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyThreadFunc func(*threadOptions) error
}

func (x *optionImpl) applyThread(opts *threadOptions) error {
	return x.applyThreadFunc(opts)
}

// WithPeriod sets the cycle period. Defaults to DefaultPeriod.
func WithPeriod(period time.Duration) Option {
	return &optionImpl{func(opts *threadOptions) error {
		if period <= 0 {
			return ErrInvalidPeriod
		}
		opts.period = period
		return nil
	}}
}

// WithPriority sets the SCHED_FIFO priority, in the range 1..99. A priority
// of 0 leaves the scheduling policy of the thread unchanged.
func WithPriority(priority int) Option {
	return &optionImpl{func(opts *threadOptions) error {
		if priority < 0 || priority > maxPriority {
			return ErrInvalidPriority
		}
		opts.priority = priority
		return nil
	}}
}

// WithCPUs pins the thread to the given CPUs. No CPUs (the default) leaves
// the affinity unchanged.
func WithCPUs(cpus ...int) Option {
	return &optionImpl{func(opts *threadOptions) error {
		for _, cpu := range cpus {
			if cpu < 0 {
				return ErrInvalidCPU
			}
		}
		opts.cpus = append([]int(nil), cpus...)
		return nil
	}}
}

// WithLockMemory enables locking all current and future process memory for
// the duration of Run, avoiding page faults on the real-time path.
func WithLockMemory(enabled bool) Option {
	return &optionImpl{func(opts *threadOptions) error {
		opts.lockMemory = enabled
		return nil
	}}
}

// WithLogger sets the logger. A nil logger (the default) disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *threadOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveOptions applies options over the defaults. Nil options are skipped.
func resolveOptions(opts []Option) (*threadOptions, error) {
	cfg := &threadOptions{
		period:   DefaultPeriod,
		priority: DefaultPriority,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyThread(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
