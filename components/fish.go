package components

import "gonum.org/v1/gonum/spatial/r3"

// SteeringState is the fish behaviour state.
type SteeringState uint8

const (
	StateWander SteeringState = iota
	StateSeek
)

// String returns the state name.
func (s SteeringState) String() string {
	switch s {
	case StateWander:
		return "wander"
	case StateSeek:
		return "seek"
	default:
		return "unknown"
	}
}

// Fish identifies an agent.
type Fish struct {
	ID uint32
}

// Fin holds the per-fish swimming parameters.
type Fin struct {
	Speed               float64 // nominal cruise speed
	TurnRate            float64 // max velocity change per second
	DetectionRadius     float64
	EatDistance         float64
	WanderRadius        float64 // local wander sphere when the tank is unbounded
	WanderJitter        float64
	RecenterInterval    float64 // seconds before a new wander target is forced
	PursuitAcceleration float64 // speed multiplier while seeking
	MinSpeedFactor      float64 // speed band, as fractions of nominal
	MaxSpeedFactor      float64
	BobAmplitude        float64 // vertical sway added to the wander heading
	BobSpeed            float64 // radians per second
}

// Steering holds the mutable behaviour state of a fish.
// State == StateSeek implies Target is set; StateWander implies it is zero.
type Steering struct {
	State  SteeringState
	Target Handle

	Desired r3.Vec // last desired direction (unit or zero)

	WanderTarget    r3.Vec
	HasWanderTarget bool
	WanderTimer     float64

	// ResumeDelay > 0 means a target was lost involuntarily and detection is
	// suppressed until the countdown reaches zero.
	ResumeDelay float64
	DelayTick   uint64 // steering tick the delay was set on

	ChaseTime float64 // seconds spent on the current target

	BobPhase float64 // radians, in [0, 2π)
}

// Resting reports whether the fish is waiting out a resume delay.
func (s *Steering) Resting() bool {
	return s.ResumeDelay > 0
}
