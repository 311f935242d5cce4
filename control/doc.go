// Package control implements the real-time side of the pendulum: a PID
// controller, a simulated inverted pendulum plant, and [Controller], which
// performs one control cycle against an [rtshare.SharedContext].
package control
