// Package supervisor implements the non-real-time side of the pendulum
// process.
//
// A [Drainer] consumes telemetry from an [rtshare.TelemetryChannel], batching
// samples to a [Publisher]. [CommandLoop] applies operator [Command] values to
// the shared control state, as produced by e.g. [ParseCommand].
//
// Nothing in this package is safe to call from the real-time thread.
package supervisor
