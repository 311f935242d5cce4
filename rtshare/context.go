package rtshare

// SharedContext is everything the real-time loop and the supervisor share.
// Instances must be initialized using the New factory.
//
// Each component is synchronized independently; see the package docs.
type SharedContext struct {
	telemetry *TelemetryChannel
	gains     *GainsCell
	signals   ControlSignals
}

// New initializes a SharedContext, returning an error if any option is
// invalid.
func New(options ...Option) (*SharedContext, error) {
	opts, err := resolveOptions(options)
	if err != nil {
		return nil, err
	}
	telemetry, err := NewTelemetryChannel(opts.capacity)
	if err != nil {
		return nil, err
	}
	x := SharedContext{
		telemetry: telemetry,
		gains:     NewGainsCell(opts.locker, opts.gains),
	}
	x.signals.SetDesiredPosition(opts.desiredPosition)
	return &x, nil
}

// Telemetry returns the output sample channel.
func (x *SharedContext) Telemetry() *TelemetryChannel {
	return x.telemetry
}

// Signals returns the reset flag and setpoint.
func (x *SharedContext) Signals() *ControlSignals {
	return &x.signals
}

// Config returns the PID gains cell.
func (x *SharedContext) Config() *GainsCell {
	return x.gains
}
