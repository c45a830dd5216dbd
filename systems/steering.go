package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquarium/components"
)

// SteeringParams holds the steering settings shared by every fish.
type SteeringParams struct {
	BoundaryMargin   float64
	ArrivalTolerance float64 // wander target counts as reached within this distance
	VerticalJitter   float64 // scales the Y component of wander jitter
	ResumeDelayMin   float64
	ResumeDelayMax   float64
}

// StepResult reports the transitions a fish made during one step.
type StepResult struct {
	Acquired    bool
	Abandoned   bool              // lost its target to someone or something else
	Consumed    components.Handle // zero unless the fish ate this step
	ConsumedAge float64           // age of the eaten resource
	ChaseTime   float64           // seconds spent on the eaten resource
}

// SteeringSystem runs the wander/seek state machine for individual fish.
type SteeringSystem struct {
	bounds *Bounds // nil = unbounded
	rng    *rand.Rand
	params SteeringParams
	tick   uint64 // completed ticks; stamps resume delays
}

// NewSteeringSystem creates a steering system. A nil bounds lets fish wander
// around themselves without walls.
func NewSteeringSystem(bounds *Bounds, rng *rand.Rand, params SteeringParams) *SteeringSystem {
	return &SteeringSystem{bounds: bounds, rng: rng, params: params}
}

// SetBounds replaces the swim volume.
func (s *SteeringSystem) SetBounds(b *Bounds) { s.bounds = b }

// EndTick closes a simulation tick. Delays set since the previous EndTick
// start counting down on the next tick.
func (s *SteeringSystem) EndTick() { s.tick++ }

// Abandon drops the current target and suppresses detection for a random
// delay. Used whenever the loss was not the fish's own doing.
func (s *SteeringSystem) Abandon(st *components.Steering) {
	st.State = components.StateWander
	st.Target = components.Handle{}
	st.ChaseTime = 0
	st.ResumeDelay = uniform(s.rng, s.params.ResumeDelayMin, s.params.ResumeDelayMax)
	st.DelayTick = s.tick
}

// Step advances one fish by dt: target validity, acquisition, desired
// direction, wall avoidance, steering integration, then consumption.
func (s *SteeringSystem) Step(dt float64, pool *ResourcePool, pos *components.Position, vel *components.Velocity, fin *components.Fin, st *components.Steering) StepResult {
	var res StepResult

	// a delay set earlier in this tick keeps its full length
	if st.ResumeDelay > 0 && st.DelayTick != s.tick {
		st.ResumeDelay -= dt
	}

	st.BobPhase = math.Mod(st.BobPhase+fin.BobSpeed*dt, 2*math.Pi)

	// 1. target validity
	if st.State == components.StateSeek && !pool.IsActive(st.Target) {
		s.Abandon(st)
		res.Abandoned = true
	}

	// 2. acquisition
	if st.State == components.StateWander && st.ResumeDelay <= 0 {
		if h, ok := NearestConsumable(pool, pos.Vec, fin.DetectionRadius); ok {
			st.State = components.StateSeek
			st.Target = h
			st.ResumeDelay = 0
			st.ChaseTime = 0
			res.Acquired = true
		}
	}

	// 3. desired direction
	var dir r3.Vec
	if st.State == components.StateSeek {
		target, _ := pool.Position(st.Target)
		dir = Unit(r3.Sub(target, pos.Vec))
		st.ChaseTime += dt
	} else {
		dir = s.wanderDirection(dt, pos.Vec, fin, st)
	}

	// 4. wall avoidance
	if s.bounds != nil {
		dir = s.bounds.AvoidFaces(pos.Vec, dir, s.params.BoundaryMargin)
	}
	st.Desired = dir

	// 5. steering integration
	nominal := fin.Speed
	if st.State == components.StateSeek {
		nominal *= fin.PursuitAcceleration
	}
	desired := r3.Scale(nominal, dir)
	steer := ClampLength(r3.Sub(desired, vel.Vec), fin.TurnRate*dt)
	fallback := dir
	if fallback == (r3.Vec{}) {
		fallback = vel.Vec
	}
	vel.Vec = ClampSpeed(r3.Add(vel.Vec, steer), fallback, nominal*fin.MinSpeedFactor, nominal*fin.MaxSpeedFactor)
	pos.Vec = r3.Add(pos.Vec, r3.Scale(dt, vel.Vec))

	// 6. consumption; the target may have gone since step 1
	if st.State != components.StateSeek {
		return res
	}
	view, ok := pool.View(st.Target)
	if !ok {
		s.Abandon(st)
		res.Abandoned = true
		return res
	}
	if r3.Norm2(r3.Sub(view.Position, pos.Vec)) <= fin.EatDistance*fin.EatDistance {
		h := st.Target
		res.ChaseTime = st.ChaseTime
		res.ConsumedAge = view.Age

		// clear first so the release fan-out does not treat this fish as a
		// bystander
		st.State = components.StateWander
		st.Target = components.Handle{}
		st.ChaseTime = 0
		st.HasWanderTarget = false

		if pool.Release(h, ReleaseConsumed) {
			res.Consumed = h
		}
	}
	return res
}

// wanderDirection keeps a wander target alive and returns a jittered unit
// heading toward it, swayed up and down by the fish's bob.
func (s *SteeringSystem) wanderDirection(dt float64, pos r3.Vec, fin *components.Fin, st *components.Steering) r3.Vec {
	st.WanderTimer += dt
	tol := s.params.ArrivalTolerance
	if !st.HasWanderTarget ||
		st.WanderTimer >= fin.RecenterInterval ||
		r3.Norm2(r3.Sub(st.WanderTarget, pos)) <= tol*tol {
		st.WanderTarget = s.pickWanderTarget(pos, fin)
		st.HasWanderTarget = true
		st.WanderTimer = 0
	}

	jitter := insideUnitSphere(s.rng)
	jitter.Y *= s.params.VerticalJitter
	to := Unit(r3.Sub(st.WanderTarget, pos))
	dir := Unit(r3.Add(to, r3.Scale(fin.WanderJitter, jitter)))
	dir.Y += fin.BobAmplitude * math.Sin(st.BobPhase)
	return Unit(dir)
}

func (s *SteeringSystem) pickWanderTarget(pos r3.Vec, fin *components.Fin) r3.Vec {
	if s.bounds == nil {
		return r3.Add(pos, r3.Scale(fin.WanderRadius, insideUnitSphere(s.rng)))
	}

	inner := s.bounds.Shrink(s.params.BoundaryMargin)
	t := inner.RandomPoint(s.rng)
	t = r3.Add(t, r3.Scale(fin.WanderJitter, insideUnitSphere(s.rng)))
	// keep depth changes gentle
	t.Y = clampFloat(t.Y, pos.Y-fin.WanderRadius, pos.Y+fin.WanderRadius)
	return inner.Clamp(t)
}
