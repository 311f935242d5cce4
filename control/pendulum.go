package control

import (
	"math"
)

// PendulumParams describes the physical plant. Angles are in radians,
// measured from upright.
type PendulumParams struct {
	Gravity         float64 // m/s^2
	Length          float64 // m
	Mass            float64 // kg
	Damping         float64 // N*m*s/rad
	InitialAngle    float64
	InitialVelocity float64
}

// DefaultPendulumParams returns a 1 kg, 1 m pendulum, starting slightly off
// upright.
func DefaultPendulumParams() PendulumParams {
	return PendulumParams{
		Gravity:      9.81,
		Length:       1,
		Mass:         1,
		Damping:      0.1,
		InitialAngle: 0.1,
	}
}

// Pendulum simulates an inverted pendulum, driven by a torque, using explicit
// Euler integration.
type Pendulum struct {
	params   PendulumParams
	angle    float64
	velocity float64
}

// NewPendulum initializes a pendulum at its initial state. A panic will occur
// if Length or Mass are not positive.
func NewPendulum(params PendulumParams) *Pendulum {
	if !(params.Length > 0) || !(params.Mass > 0) {
		panic(`control: pendulum length and mass must be positive`)
	}
	x := &Pendulum{params: params}
	x.Reset()
	return x
}

// Reset restores the initial angle and velocity.
func (x *Pendulum) Reset() {
	x.angle = x.params.InitialAngle
	x.velocity = x.params.InitialVelocity
}

// State returns the current angle and angular velocity.
func (x *Pendulum) State() (angle, velocity float64) {
	return x.angle, x.velocity
}

// Step advances the simulation by dt seconds, applying torque.
func (x *Pendulum) Step(torque, dt float64) {
	p := &x.params
	inertia := p.Mass * p.Length * p.Length
	acceleration := (p.Gravity/p.Length)*math.Sin(x.angle) -
		(p.Damping/inertia)*x.velocity +
		torque/inertia
	x.angle += x.velocity * dt
	x.velocity += acceleration * dt
}
