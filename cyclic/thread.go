package cyclic

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"
)

// Stats is a point-in-time view of a Thread's progress.
type Stats struct {
	// Cycles is the number of times the cycle function was invoked.
	Cycles uint64
	// Overruns is the number of cycles that finished after the following
	// deadline had already passed.
	Overruns uint64
	// MaxLateness is the largest observed delay between a deadline and the
	// wakeup that served it.
	MaxLateness time.Duration
}

// Thread invokes a function once per period, see [Thread.Run].
type Thread struct {
	logger      *logiface.Logger[logiface.Event]
	cpus        []int
	cycles      atomic.Uint64
	overruns    atomic.Uint64
	maxLateness atomic.Int64
	period      time.Duration
	priority    int
	running     atomic.Bool
	lockMemory  bool
}

// New creates a new Thread with the given options.
func New(options ...Option) (*Thread, error) {
	cfg, err := resolveOptions(options)
	if err != nil {
		return nil, err
	}
	return &Thread{
		logger:     cfg.logger,
		cpus:       cfg.cpus,
		period:     cfg.period,
		priority:   cfg.priority,
		lockMemory: cfg.lockMemory,
	}, nil
}

// Period returns the configured cycle period.
func (x *Thread) Period() time.Duration {
	return x.period
}

// Stats may be called from any goroutine.
func (x *Thread) Stats() Stats {
	return Stats{
		Cycles:      x.cycles.Load(),
		Overruns:    x.overruns.Load(),
		MaxLateness: time.Duration(x.maxLateness.Load()),
	}
}

// Run locks the calling goroutine to its OS thread, applies the configured
// real-time settings, then calls fn once per period until fn returns false
// (Run returns nil) or ctx is done (Run returns ctx.Err()).
//
// The now passed to fn is the wall clock time at wakeup. Cancellation is
// checked between cycles, without blocking. Settings applied to the thread
// are reverted before Run returns.
//
// A panic will occur if ctx or fn are nil.
func (x *Thread) Run(ctx context.Context, fn func(now time.Time) bool) error {
	if ctx == nil {
		panic(`cyclic: nil context`)
	}
	if fn == nil {
		panic(`cyclic: nil cycle function`)
	}
	if !x.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer x.running.Store(false)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	restore := x.configure()
	defer restore()

	x.logger.Info().
		Dur(`period`, x.period).
		Int(`priority`, x.priority).
		Log(`cyclic thread started`)

	period := int64(x.period)
	next := monotonicNow()
	done := ctx.Done()
	for {
		select {
		case <-done:
			return ctx.Err()
		default:
		}

		sleepUntil(next)
		x.observeLateness(monotonicNow() - next)
		x.cycles.Add(1)

		if !fn(time.Now()) {
			return nil
		}

		next += period
		if now := monotonicNow(); now > next {
			// skip every deadline that has already passed
			x.overruns.Add(1)
			next += ((now-next)/period + 1) * period
		}
	}
}

func (x *Thread) observeLateness(late int64) {
	for {
		current := x.maxLateness.Load()
		if late <= current || x.maxLateness.CompareAndSwap(current, late) {
			return
		}
	}
}

// configure applies each real-time setting independently, logging failures.
// The returned func reverts whatever was applied.
func (x *Thread) configure() (restore func()) {
	var undo []func()

	if x.lockMemory {
		if fn, err := lockMemory(); err != nil {
			x.logger.Warning().Err(err).Log(`failed to lock memory`)
		} else {
			undo = append(undo, fn)
		}
	}

	if len(x.cpus) != 0 {
		if fn, err := setAffinity(x.cpus); err != nil {
			x.logger.Warning().Err(err).Log(`failed to set cpu affinity`)
		} else {
			undo = append(undo, fn)
		}
	}

	if x.priority != 0 {
		if fn, err := setRealtimePriority(x.priority); err != nil {
			x.logger.Warning().
				Err(err).
				Int(`priority`, x.priority).
				Log(`failed to set real-time priority, running at normal priority`)
		} else {
			undo = append(undo, fn)
		}
	}

	return func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}
}
