package supervisor

import (
	"context"
	"errors"
	"math"

	"github.com/joeycumines/go-rtpendulum/rtshare"
	"github.com/joeycumines/logiface"
)

type (
	// Publisher receives batches of telemetry. The slice must not be retained
	// after Publish returns.
	Publisher interface {
		Publish(ctx context.Context, samples []rtshare.Sample) error
	}

	// PublisherFunc implements Publisher.
	PublisherFunc func(ctx context.Context, samples []rtshare.Sample) error

	// MultiPublisher publishes to each Publisher in order, joining any errors.
	MultiPublisher []Publisher

	// LogPublisher logs a summary of each batch, at debug level.
	LogPublisher struct {
		Logger *logiface.Logger[logiface.Event]
	}
)

var (
	_ Publisher = PublisherFunc(nil)
	_ Publisher = MultiPublisher(nil)
	_ Publisher = (*LogPublisher)(nil)
	_ Publisher = (*MetricsPublisher)(nil)
)

func (x PublisherFunc) Publish(ctx context.Context, samples []rtshare.Sample) error {
	return x(ctx, samples)
}

func (x MultiPublisher) Publish(ctx context.Context, samples []rtshare.Sample) error {
	var errs []error
	for _, p := range x {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, samples); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (x *LogPublisher) Publish(_ context.Context, samples []rtshare.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	b := x.Logger.Debug()
	if !b.Enabled() {
		return nil
	}
	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, s := range samples {
		lo = math.Min(lo, s.Output)
		hi = math.Max(hi, s.Output)
		sum += s.Output
	}
	b.Int(`samples`, len(samples)).
		Time(`first`, samples[0].Timestamp).
		Time(`last`, samples[len(samples)-1].Timestamp).
		Float64(`min`, lo).
		Float64(`max`, hi).
		Float64(`mean`, sum/float64(len(samples))).
		Log(`telemetry batch`)
	return nil
}
