package supervisor

import (
	"context"
	"errors"
	"testing"

	"github.com/joeycumines/go-rtpendulum/rtshare"
	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiPublisher_Publish(t *testing.T) {
	var a, b recordingPublisher
	errA := errors.New("a")
	errB := errors.New("b")

	var calls []string
	p := MultiPublisher{
		&a,
		nil,
		PublisherFunc(func(context.Context, []rtshare.Sample) error {
			calls = append(calls, `first`)
			return errA
		}),
		&b,
		PublisherFunc(func(context.Context, []rtshare.Sample) error {
			calls = append(calls, `second`)
			return errB
		}),
	}

	samples := []rtshare.Sample{sampleN(1), sampleN(2)}
	err := p.Publish(context.Background(), samples)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, []string{`first`, `second`}, calls)
	assert.Equal(t, samples, a.Samples())
	assert.Equal(t, samples, b.Samples())
}

func TestMultiPublisher_empty(t *testing.T) {
	assert.NoError(t, MultiPublisher(nil).Publish(context.Background(), []rtshare.Sample{sampleN(1)}))
}

func TestLogPublisher_Publish(t *testing.T) {
	logger, buf := newTestLogger(logiface.LevelDebug)
	p := &LogPublisher{Logger: logger}

	require.NoError(t, p.Publish(context.Background(), nil))
	assert.Empty(t, buf.String())

	require.NoError(t, p.Publish(context.Background(), []rtshare.Sample{sampleN(3), sampleN(1), sampleN(2)}))
	s := buf.String()
	assert.Contains(t, s, `"lvl":"debug"`)
	assert.Contains(t, s, `"samples":3`)
	assert.Contains(t, s, `"min":`)
	assert.Contains(t, s, `"max":`)
	assert.Contains(t, s, `"mean":`)
	assert.Contains(t, s, `"msg":"telemetry batch"`)
}

func TestLogPublisher_disabled(t *testing.T) {
	logger, buf := newTestLogger(logiface.LevelInformational)
	for _, p := range []*LogPublisher{{Logger: logger}, {}} {
		assert.NoError(t, p.Publish(context.Background(), []rtshare.Sample{sampleN(1)}))
	}
	assert.Empty(t, buf.String())
}
