package supervisor

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/go-rtpendulum/rtshare"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer, for loggers written from multiple
// goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (x *syncBuffer) Write(p []byte) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buf.Write(p)
}

func (x *syncBuffer) String() string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buf.String()
}

func newTestLogger(level logiface.Level) (*logiface.Logger[logiface.Event], *syncBuffer) {
	buf := new(syncBuffer)
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(buf), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(level),
	).Logger()
	return logger, buf
}

// recordingPublisher stores every published sample.
type recordingPublisher struct {
	mu      sync.Mutex
	samples []rtshare.Sample
	batches int
}

func (x *recordingPublisher) Publish(_ context.Context, samples []rtshare.Sample) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.samples = append(x.samples, samples...)
	x.batches++
	return nil
}

func (x *recordingPublisher) Samples() []rtshare.Sample {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]rtshare.Sample(nil), x.samples...)
}

func sampleN(n int) rtshare.Sample {
	return rtshare.Sample{
		Timestamp: time.Unix(1700000000, 0).Add(time.Duration(n) * time.Millisecond),
		Output:    float64(n),
	}
}

func newTestShared(t *testing.T, options ...rtshare.Option) *rtshare.SharedContext {
	t.Helper()
	shared, err := rtshare.New(options...)
	require.NoError(t, err)
	return shared
}
