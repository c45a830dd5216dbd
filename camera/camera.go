// Package camera provides the orbiting viewpoint used by the tank viewer.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// StartAngle is the orbit angle after construction or Reset.
const StartAngle = math.Pi * 0.15

// driftFrequency is the rate of the vertical bob in radians per second.
const driftFrequency = 0.4

// Orbit circles a target point at a fixed radius with a slow vertical drift.
type Orbit struct {
	Radius         float64
	Height         float64 // eye height above the world origin before drift
	Speed          float64 // radians per second
	DriftAmplitude float64
	Target         r3.Vec
	Fovy           float64 // degrees

	Angle  float64
	Paused bool
	clock  float64
}

// New creates an orbit camera looking at target.
func New(radius, height, speed, drift, fovy float64, target r3.Vec) *Orbit {
	return &Orbit{
		Radius:         radius,
		Height:         height,
		Speed:          speed,
		DriftAmplitude: drift,
		Target:         target,
		Fovy:           fovy,
		Angle:          StartAngle,
	}
}

// Update advances the orbit unless paused.
func (o *Orbit) Update(dt float64) {
	if o.Paused || !(dt > 0) {
		return
	}
	o.Angle = math.Mod(o.Angle+o.Speed*dt, 2*math.Pi)
	o.clock += dt
}

// TogglePause stops or resumes the orbit.
func (o *Orbit) TogglePause() {
	o.Paused = !o.Paused
}

// Reset returns to the start angle and resumes.
func (o *Orbit) Reset() {
	o.Angle = StartAngle
	o.clock = 0
	o.Paused = false
}

// Position returns the eye position.
func (o *Orbit) Position() r3.Vec {
	drift := math.Sin(o.clock*driftFrequency) * o.DriftAmplitude
	return r3.Vec{
		X: math.Cos(o.Angle) * o.Radius,
		Y: o.Height + drift,
		Z: math.Sin(o.Angle) * o.Radius,
	}
}

// Forward returns the unit view direction.
func (o *Orbit) Forward() r3.Vec {
	d := r3.Sub(o.Target, o.Position())
	n := r3.Norm(d)
	if n == 0 {
		return r3.Vec{Z: -1}
	}
	return r3.Scale(1/n, d)
}

// PointAhead returns the point dist units in front of the eye.
// The viewer drops food here.
func (o *Orbit) PointAhead(dist float64) r3.Vec {
	return r3.Add(o.Position(), r3.Scale(dist, o.Forward()))
}
