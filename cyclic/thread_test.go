package cyclic

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestThread(t *testing.T, options ...Option) *Thread {
	t.Helper()
	thread, err := New(append([]Option{WithPriority(0)}, options...)...)
	require.NoError(t, err)
	return thread
}

func TestNew_defaults(t *testing.T) {
	thread, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultPeriod, thread.Period())
	assert.Equal(t, DefaultPriority, thread.priority)
	assert.Empty(t, thread.cpus)
	assert.False(t, thread.lockMemory)
	assert.Equal(t, Stats{}, thread.Stats())
}

func TestNew_invalidOptions(t *testing.T) {
	for _, tc := range [...]struct {
		name   string
		option Option
		err    error
	}{
		{`zero period`, WithPeriod(0), ErrInvalidPeriod},
		{`negative period`, WithPeriod(-time.Second), ErrInvalidPeriod},
		{`negative priority`, WithPriority(-1), ErrInvalidPriority},
		{`priority too high`, WithPriority(100), ErrInvalidPriority},
		{`negative cpu`, WithCPUs(0, -1), ErrInvalidCPU},
	} {
		t.Run(tc.name, func(t *testing.T) {
			thread, err := New(tc.option)
			assert.ErrorIs(t, err, tc.err)
			assert.Nil(t, thread)
		})
	}
}

func TestNew_nilOptionSkipped(t *testing.T) {
	thread, err := New(nil, WithPeriod(time.Second), nil)
	require.NoError(t, err)
	assert.Equal(t, time.Second, thread.Period())
}

func TestWithCPUs_copies(t *testing.T) {
	cpus := []int{0, 1}
	thread, err := New(WithCPUs(cpus...))
	require.NoError(t, err)
	cpus[0] = 7
	assert.Equal(t, []int{0, 1}, thread.cpus)
}

func TestThread_Run_stopsWhenFuncReturnsFalse(t *testing.T) {
	thread := newTestThread(t, WithPeriod(time.Millisecond))

	var calls int
	err := thread.Run(context.Background(), func(now time.Time) bool {
		assert.False(t, now.IsZero())
		calls++
		return calls < 5
	})
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, uint64(5), thread.Stats().Cycles)
}

func TestThread_Run_period(t *testing.T) {
	const period = 5 * time.Millisecond
	thread := newTestThread(t, WithPeriod(period))

	var times []time.Time
	require.NoError(t, thread.Run(context.Background(), func(now time.Time) bool {
		times = append(times, now)
		return len(times) < 4
	}))
	require.Len(t, times, 4)
	// deadlines are absolute, the total can't be shorter than 3 periods
	assert.GreaterOrEqual(t, times[3].Sub(times[0]), 2*period)
}

func TestThread_Run_contextCanceled(t *testing.T) {
	thread := newTestThread(t, WithPeriod(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := thread.Run(ctx, func(time.Time) bool {
		if thread.Stats().Cycles == 3 {
			cancel()
		}
		return true
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(3), thread.Stats().Cycles)
}

func TestThread_Run_alreadyCanceled(t *testing.T) {
	thread := newTestThread(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := thread.Run(ctx, func(time.Time) bool {
		t.Error(`unexpected call`)
		return false
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, thread.Stats().Cycles)
}

func TestThread_Run_overrunSkipsMissedPeriods(t *testing.T) {
	const period = 2 * time.Millisecond
	thread := newTestThread(t, WithPeriod(period))

	var times []time.Time
	require.NoError(t, thread.Run(context.Background(), func(now time.Time) bool {
		times = append(times, now)
		if len(times) == 1 {
			time.Sleep(5 * period)
		}
		return len(times) < 3
	}))

	stats := thread.Stats()
	assert.Equal(t, uint64(3), stats.Cycles)
	assert.GreaterOrEqual(t, stats.Overruns, uint64(1))
	// no burst: the cycle after the overrun still waits for a fresh deadline
	assert.Greater(t, times[2].Sub(times[1]), time.Duration(0))
}

func TestThread_Run_concurrentRunFails(t *testing.T) {
	thread := newTestThread(t, WithPeriod(time.Millisecond))

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var once sync.Once
		assert.NoError(t, thread.Run(context.Background(), func(time.Time) bool {
			once.Do(func() { close(started) })
			select {
			case <-release:
				return false
			default:
				return true
			}
		}))
	}()

	<-started
	assert.ErrorIs(t, thread.Run(context.Background(), func(time.Time) bool { return false }), ErrRunning)
	close(release)
	wg.Wait()

	// may be run again once stopped
	assert.NoError(t, thread.Run(context.Background(), func(time.Time) bool { return false }))
}

func TestThread_Run_nilArgumentsPanic(t *testing.T) {
	thread := newTestThread(t)
	assert.PanicsWithValue(t, `cyclic: nil context`, func() {
		//lint:ignore SA1012 testing nil context
		_ = thread.Run(nil, func(time.Time) bool { return false })
	})
	assert.PanicsWithValue(t, `cyclic: nil cycle function`, func() {
		_ = thread.Run(context.Background(), nil)
	})
}

func TestThread_Run_logsStart(t *testing.T) {
	var buf bytes.Buffer
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(&buf), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(logiface.LevelInformational),
	).Logger()

	thread := newTestThread(t, WithLogger(logger))
	require.NoError(t, thread.Run(context.Background(), func(time.Time) bool { return false }))
	assert.Contains(t, buf.String(), `"msg":"cyclic thread started"`)
}

func TestThread_observeLateness(t *testing.T) {
	var thread Thread
	thread.observeLateness(int64(time.Millisecond))
	thread.observeLateness(int64(time.Microsecond))
	assert.Equal(t, time.Millisecond, thread.Stats().MaxLateness)
	thread.observeLateness(int64(2 * time.Millisecond))
	assert.Equal(t, 2*time.Millisecond, thread.Stats().MaxLateness)
}
