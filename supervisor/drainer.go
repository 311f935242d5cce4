package supervisor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-microbatch"
	"github.com/joeycumines/go-rtpendulum/rtshare"
	"github.com/joeycumines/logiface"
)

// warningCategory keys the rate limits applied to logged warnings.
type warningCategory int

const (
	warningDropped warningCategory = iota
	warningPublish
)

// Drainer is the consumer of a telemetry channel. Only one Run may be active
// at a time, and nothing else may pop from the channel while it is.
type Drainer struct {
	telemetry       *rtshare.TelemetryChannel
	publisher       Publisher
	logger          *logiface.Logger[logiface.Event]
	limiter         *catrate.Limiter
	published       atomic.Uint64
	pollInterval    time.Duration
	flushInterval   time.Duration
	shutdownTimeout time.Duration
	batchSize       int
	running         atomic.Bool

	// owned by Run
	pending     rtshare.Sample
	hasPending  bool
	lastDropped uint32
	unreported  uint32
}

// NewDrainer creates a Drainer for telemetry, publishing to publisher. A panic
// will occur if telemetry or publisher are nil, or if the warning rates are
// invalid (see catrate.NewLimiter).
func NewDrainer(telemetry *rtshare.TelemetryChannel, publisher Publisher, options ...DrainerOption) (*Drainer, error) {
	if telemetry == nil || publisher == nil {
		panic(`supervisor: nil telemetry channel or publisher`)
	}
	cfg, err := resolveDrainerOptions(options)
	if err != nil {
		return nil, err
	}
	x := &Drainer{
		telemetry:       telemetry,
		publisher:       publisher,
		logger:          cfg.logger,
		pollInterval:    cfg.pollInterval,
		flushInterval:   cfg.flushInterval,
		shutdownTimeout: cfg.shutdownTimeout,
		batchSize:       cfg.batchSize,
	}
	if len(cfg.warningRates) != 0 {
		x.limiter = catrate.NewLimiter(cfg.warningRates)
	}
	return x, nil
}

// Published returns the number of samples successfully published.
func (x *Drainer) Published() uint64 {
	return x.published.Load()
}

// Run empties the channel every poll interval, submitting samples to be
// published in batches, and logs a (rate limited) warning whenever samples
// were dropped since the last check.
//
// After ctx is done, the channel is drained one last time, and all pending
// batches are published, bounded by the shutdown timeout. Run returns nil if
// that succeeds.
func (x *Drainer) Run(ctx context.Context) error {
	if ctx == nil {
		panic(`supervisor: nil context`)
	}
	if !x.running.CompareAndSwap(false, true) {
		return ErrDrainerRunning
	}
	defer x.running.Store(false)

	batcher := microbatch.NewBatcher[rtshare.Sample](&microbatch.BatcherConfig{
		MaxSize:       x.batchSize,
		FlushInterval: x.flushInterval,
	}, x.process)

	ticker := time.NewTicker(x.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return x.shutdown(ctx, batcher)
		case <-ticker.C:
		}
		if err := x.drain(ctx, batcher); err != nil {
			if ctx.Err() != nil {
				return x.shutdown(ctx, batcher)
			}
			_ = batcher.Close()
			return err
		}
	}
}

func (x *Drainer) shutdown(ctx context.Context, batcher *microbatch.Batcher[rtshare.Sample]) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), x.shutdownTimeout)
	defer cancel()

	err := x.drain(ctx, batcher)
	if e := batcher.Shutdown(ctx); err == nil {
		err = e
	}

	snapshot := x.telemetry.Snapshot()
	x.logger.Info().
		Uint64(`published`, x.published.Load()).
		Int64(`delivered`, int64(snapshot.Successful)).
		Int64(`attempts`, int64(snapshot.Total)).
		Int64(`dropped`, int64(snapshot.Dropped())).
		Log(`telemetry drainer stopped`)

	return err
}

// drain pops until the channel is empty. A sample that could not be
// submitted is retained for the next call.
func (x *Drainer) drain(ctx context.Context, batcher *microbatch.Batcher[rtshare.Sample]) error {
	for {
		if !x.hasPending {
			var ok bool
			if x.pending, ok = x.telemetry.TryPop(); !ok {
				break
			}
			x.hasPending = true
		}
		if _, err := batcher.Submit(ctx, x.pending); err != nil {
			return err
		}
		x.hasPending = false
	}
	x.checkDropped()
	return nil
}

func (x *Drainer) checkDropped() {
	dropped := x.telemetry.Snapshot().Dropped()
	x.unreported += dropped - x.lastDropped
	x.lastDropped = dropped
	if x.unreported == 0 {
		return
	}
	if _, ok := x.limiter.Allow(warningDropped); !ok {
		return
	}
	x.logger.Warning().
		Int64(`dropped`, int64(x.unreported)).
		Int(`capacity`, x.telemetry.Cap()).
		Log(`telemetry channel full, samples dropped`)
	x.unreported = 0
}

func (x *Drainer) process(ctx context.Context, samples []rtshare.Sample) error {
	if err := x.publisher.Publish(ctx, samples); err != nil {
		if _, ok := x.limiter.Allow(warningPublish); ok {
			x.logger.Warning().
				Err(err).
				Int(`samples`, len(samples)).
				Log(`failed to publish telemetry`)
		}
		return err
	}
	x.published.Add(uint64(len(samples)))
	return nil
}
