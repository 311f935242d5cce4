package supervisor

import (
	"context"
	"sync"

	"github.com/joeycumines/go-rtpendulum/rtshare"
	"go.opentelemetry.io/otel/metric"
)

// MetricsPublisher records telemetry as OpenTelemetry metrics.
//
// Each published sample is recorded to the pendulum.output histogram. The
// delivery counts of the channel are exported as observable counters
// (pendulum.telemetry.attempts, pendulum.telemetry.delivered and
// pendulum.telemetry.dropped), extended to 64 bits so they survive the
// wrapping of the underlying 32-bit counts, as long as they are observed at
// least once per 2^32 attempts. The channel occupancy is exported as the
// pendulum.telemetry.depth gauge, and, if configured, the plant angle as the
// pendulum.position gauge.
type MetricsPublisher struct {
	output       metric.Float64Histogram
	registration metric.Registration
	telemetry    *rtshare.TelemetryChannel
	mu           sync.Mutex
	last         rtshare.DeliveryCount
	attempts     uint64
	delivered    uint64
}

// NewMetricsPublisher registers instruments with meter. The position func is
// optional. Close should be called to unregister the observable instruments.
func NewMetricsPublisher(meter metric.Meter, telemetry *rtshare.TelemetryChannel, position func() float64) (*MetricsPublisher, error) {
	if meter == nil || telemetry == nil {
		panic(`supervisor: nil meter or telemetry channel`)
	}

	x := &MetricsPublisher{telemetry: telemetry}

	var err error
	if x.output, err = meter.Float64Histogram(
		`pendulum.output`,
		metric.WithDescription(`Controller output per cycle.`),
	); err != nil {
		return nil, err
	}

	attempts, err := meter.Int64ObservableCounter(
		`pendulum.telemetry.attempts`,
		metric.WithDescription(`Samples the controller attempted to publish.`),
		metric.WithUnit(`{sample}`),
	)
	if err != nil {
		return nil, err
	}
	delivered, err := meter.Int64ObservableCounter(
		`pendulum.telemetry.delivered`,
		metric.WithDescription(`Samples accepted by the telemetry channel.`),
		metric.WithUnit(`{sample}`),
	)
	if err != nil {
		return nil, err
	}
	dropped, err := meter.Int64ObservableCounter(
		`pendulum.telemetry.dropped`,
		metric.WithDescription(`Samples dropped because the telemetry channel was full.`),
		metric.WithUnit(`{sample}`),
	)
	if err != nil {
		return nil, err
	}
	depth, err := meter.Int64ObservableGauge(
		`pendulum.telemetry.depth`,
		metric.WithDescription(`Samples pending in the telemetry channel.`),
		metric.WithUnit(`{sample}`),
	)
	if err != nil {
		return nil, err
	}
	instruments := []metric.Observable{attempts, delivered, dropped, depth}

	var angle metric.Float64ObservableGauge
	if position != nil {
		if angle, err = meter.Float64ObservableGauge(
			`pendulum.position`,
			metric.WithDescription(`Most recent pendulum angle.`),
			metric.WithUnit(`rad`),
		); err != nil {
			return nil, err
		}
		instruments = append(instruments, angle)
	}

	if x.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		total, successful := x.extend()
		o.ObserveInt64(attempts, int64(total))
		o.ObserveInt64(delivered, int64(successful))
		o.ObserveInt64(dropped, int64(total-successful))
		o.ObserveInt64(depth, int64(x.telemetry.Len()))
		if position != nil {
			o.ObserveFloat64(angle, position())
		}
		return nil
	}, instruments...); err != nil {
		return nil, err
	}

	return x, nil
}

func (x *MetricsPublisher) Publish(ctx context.Context, samples []rtshare.Sample) error {
	for _, s := range samples {
		x.output.Record(ctx, s.Output)
	}
	return nil
}

// Close unregisters the observable instruments.
func (x *MetricsPublisher) Close() error {
	return x.registration.Unregister()
}

// extend folds the latest snapshot into the 64-bit totals.
func (x *MetricsPublisher) extend() (attempts, delivered uint64) {
	x.mu.Lock()
	defer x.mu.Unlock()
	snapshot := x.telemetry.Snapshot()
	x.attempts += uint64(snapshot.Total - x.last.Total)
	x.delivered += uint64(snapshot.Successful - x.last.Successful)
	x.last = snapshot
	return x.attempts, x.delivered
}
