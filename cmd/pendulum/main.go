// Command pendulum runs a simulated inverted pendulum under PID control, on a
// real-time cyclic thread, with telemetry drained to logs and (optionally)
// OTLP metrics. Operator commands are read from stdin, one per line:
//
//	gains <kp> <ki> <kd>
//	setpoint <radians>
//	reset
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joeycumines/go-rtpendulum/control"
	"github.com/joeycumines/go-rtpendulum/cyclic"
	"github.com/joeycumines/go-rtpendulum/rtshare"
	"github.com/joeycumines/go-rtpendulum/supervisor"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stderr io.Writer) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(stderr)),
		stumpy.L.WithLevel(level),
	).Logger()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	shared, err := rtshare.New(
		rtshare.WithCapacity(cfg.Capacity),
		rtshare.WithInitialGains(cfg.Gains.PIDGains()),
		rtshare.WithInitialDesiredPosition(cfg.Setpoint),
	)
	if err != nil {
		return err
	}

	controller, err := control.NewController(shared, control.NewPendulum(control.DefaultPendulumParams()), cfg.Period)
	if err != nil {
		return err
	}

	thread, err := cyclic.New(
		cyclic.WithPeriod(cfg.Period),
		cyclic.WithPriority(cfg.Priority),
		cyclic.WithCPUs(cfg.CPUs...),
		cyclic.WithLockMemory(cfg.LockMemory),
		cyclic.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	publishers := supervisor.MultiPublisher{&supervisor.LogPublisher{Logger: logger}}
	if cfg.OTLPEndpoint != `` {
		provider, err := newMeterProvider(ctx, cfg.OTLPEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := provider.Shutdown(ctx); err != nil {
				logger.Err().Err(err).Log(`failed to shut down meter provider`)
			}
		}()
		otel.SetMeterProvider(provider)

		metrics, err := supervisor.NewMetricsPublisher(otel.Meter(`github.com/joeycumines/go-rtpendulum`), shared.Telemetry(), controller.Position)
		if err != nil {
			return err
		}
		defer metrics.Close()
		publishers = append(publishers, metrics)
	}

	drainer, err := supervisor.NewDrainer(shared.Telemetry(), publishers,
		supervisor.WithPollInterval(cfg.PollInterval),
		supervisor.WithShutdownTimeout(shutdownTimeout),
		supervisor.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	logger.Notice().
		Dur(`period`, cfg.Period).
		Int(`capacity`, cfg.Capacity).
		Log(`pendulum started`)

	g, ctx := errgroup.WithContext(ctx)
	commands := readCommands(ctx, stdin, logger)
	g.Go(func() error {
		return ignoreDone(thread.Run(ctx, controller.Step))
	})
	g.Go(func() error {
		return drainer.Run(ctx)
	})
	g.Go(func() error {
		return ignoreDone(supervisor.CommandLoop(ctx, shared, commands, logger))
	})
	err = g.Wait()

	snapshot := shared.Telemetry().Snapshot()
	stats := thread.Stats()
	logger.Notice().
		Int64(`delivered`, int64(snapshot.Successful)).
		Int64(`attempts`, int64(snapshot.Total)).
		Int64(`dropped`, int64(snapshot.Dropped())).
		Uint64(`cycles`, stats.Cycles).
		Uint64(`overruns`, stats.Overruns).
		Dur(`max_lateness`, stats.MaxLateness).
		Float64(`position`, controller.Position()).
		Log(`pendulum stopped`)

	return err
}

// readCommands feeds commands parsed from r to the returned channel, which is
// closed at EOF or once ctx is done. Reads from r can't be interrupted, so
// this isn't part of the group.
func readCommands(ctx context.Context, r io.Reader, logger *logiface.Logger[logiface.Event]) <-chan supervisor.Command {
	commands := make(chan supervisor.Command)
	go func() {
		defer close(commands)
		if err := supervisor.ReadCommands(ctx, r, commands, logger); err != nil && ctx.Err() == nil {
			logger.Warning().Err(err).Log(`stopped reading commands`)
		}
	}()
	return commands
}

func newMeterProvider(ctx context.Context, endpoint string) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter))), nil
}

// ignoreDone treats the context ending as a clean stop.
func ignoreDone(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
