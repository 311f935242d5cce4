package supervisor

import (
	"fmt"
	"time"

	"github.com/joeycumines/logiface"
)

const (
	// DefaultPollInterval is how often the Drainer empties the channel.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultBatchSize is the maximum number of samples per Publish call.
	DefaultBatchSize = 256

	// DefaultFlushInterval is the maximum time a partial batch is held.
	DefaultFlushInterval = 100 * time.Millisecond

	// DefaultShutdownTimeout bounds the final drain, after cancellation.
	DefaultShutdownTimeout = 5 * time.Second
)

// drainerOptions holds configuration options for Drainer creation.
type drainerOptions struct {
	logger          *logiface.Logger[logiface.Event]
	warningRates    map[time.Duration]int
	pollInterval    time.Duration
	flushInterval   time.Duration
	shutdownTimeout time.Duration
	batchSize       int
}

// DrainerOption configures a Drainer instance.
type DrainerOption interface {
	applyDrainer(*drainerOptions) error
}

// drainerOptionImpl implements DrainerOption.
type drainerOptionImpl struct {
	applyDrainerFunc func(*drainerOptions) error
}

func (x *drainerOptionImpl) applyDrainer(opts *drainerOptions) error {
	return x.applyDrainerFunc(opts)
}

// WithPollInterval sets how often the channel is emptied. Defaults to
// DefaultPollInterval.
func WithPollInterval(interval time.Duration) DrainerOption {
	return &drainerOptionImpl{func(opts *drainerOptions) error {
		if interval <= 0 {
			return fmt.Errorf("%w: poll interval must be positive", ErrInvalidOption)
		}
		opts.pollInterval = interval
		return nil
	}}
}

// WithBatchSize sets the maximum number of samples per Publish call.
// Defaults to DefaultBatchSize.
func WithBatchSize(size int) DrainerOption {
	return &drainerOptionImpl{func(opts *drainerOptions) error {
		if size < 1 {
			return fmt.Errorf("%w: batch size must be positive", ErrInvalidOption)
		}
		opts.batchSize = size
		return nil
	}}
}

// WithFlushInterval sets the maximum time a partial batch is held before it
// is published. Defaults to DefaultFlushInterval.
func WithFlushInterval(interval time.Duration) DrainerOption {
	return &drainerOptionImpl{func(opts *drainerOptions) error {
		if interval <= 0 {
			return fmt.Errorf("%w: flush interval must be positive", ErrInvalidOption)
		}
		opts.flushInterval = interval
		return nil
	}}
}

// WithShutdownTimeout bounds the final drain and flush performed after the
// context passed to Run is done. Defaults to DefaultShutdownTimeout.
func WithShutdownTimeout(timeout time.Duration) DrainerOption {
	return &drainerOptionImpl{func(opts *drainerOptions) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidOption)
		}
		opts.shutdownTimeout = timeout
		return nil
	}}
}

// WithWarningRates sets the rate limits applied to each category of warning,
// in the format accepted by catrate.NewLimiter. Defaults to one per second.
// An empty map disables rate limiting.
func WithWarningRates(rates map[time.Duration]int) DrainerOption {
	return &drainerOptionImpl{func(opts *drainerOptions) error {
		opts.warningRates = rates
		return nil
	}}
}

// WithLogger sets the logger. A nil logger (the default) disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) DrainerOption {
	return &drainerOptionImpl{func(opts *drainerOptions) error {
		opts.logger = logger
		return nil
	}}
}

// resolveDrainerOptions applies options over the defaults. Nil options are
// skipped.
func resolveDrainerOptions(opts []DrainerOption) (*drainerOptions, error) {
	cfg := &drainerOptions{
		warningRates:    map[time.Duration]int{time.Second: 1},
		pollInterval:    DefaultPollInterval,
		flushInterval:   DefaultFlushInterval,
		shutdownTimeout: DefaultShutdownTimeout,
		batchSize:       DefaultBatchSize,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyDrainer(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
