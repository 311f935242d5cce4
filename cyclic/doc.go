// Package cyclic runs a function at a fixed period on a dedicated OS thread,
// against absolute monotonic deadlines.
//
// On Linux, [Thread.Run] attempts to elevate the thread to SCHED_FIFO, pin it
// to a set of CPUs, and lock the process memory. Each of these is optional,
// and a failure (typically a missing CAP_SYS_NICE or RLIMIT_MEMLOCK) is logged
// as a warning, after which the loop runs with whatever was applied.
//
// A cycle that overruns its deadline does not cause a burst of catch-up
// invocations. Missed periods are skipped, and counted, see [Stats].
package cyclic
