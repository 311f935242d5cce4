// Package rtshare is the communication layer between the real-time control
// loop of the pendulum, and the supervisory (non real-time) side of the
// process.
//
// # Components
//
//   - [TelemetryChannel]: bounded, lock-free SPSC queue of output [Sample]
//     values, real-time producer to supervisory consumer. Overflow drops the
//     sample, it never blocks.
//   - [DeliveryCounter]: attempted vs successful pushes, updated as one
//     atomic step, readable at any time.
//   - [ControlSignals]: reset flag and desired position, each an independent
//     atomic cell.
//   - [GainsCell]: the PID gains, copied in and out under a short
//     priority-inheritance lock (see [github.com/joeycumines/go-rtpendulum/pimutex]).
//
// A [SharedContext] owns one of each. Construct it once, with [New], and pass
// the same pointer to both the real-time loop and the supervisor.
//
// # Thread Safety
//
// Every operation is safe to call concurrently, with one exception: the
// TelemetryChannel accepts exactly one pushing goroutine and exactly one
// popping goroutine.
//
// # Real-time Guarantees
//
// TryPush, RecordAttempt, Snapshot, and the ControlSignals accessors are
// lock-free and never allocate. Gains and SetGains block at most for the
// length of a single record copy performed by the other side.
package rtshare
