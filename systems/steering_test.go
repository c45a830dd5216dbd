package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquarium/components"
)

const testDT = 1.0 / 60.0

func testFin() components.Fin {
	return components.Fin{
		Speed:               1.6,
		TurnRate:            1.8,
		DetectionRadius:     4.5,
		EatDistance:         0.6,
		WanderRadius:        2,
		WanderJitter:        0.6,
		RecenterInterval:    6,
		PursuitAcceleration: 1.25,
		MinSpeedFactor:      0.6,
		MaxSpeedFactor:      1.1,
	}
}

func testSteeringParams() SteeringParams {
	return SteeringParams{
		BoundaryMargin:   1.5,
		ArrivalTolerance: 0.3,
		VerticalJitter:   0.4,
		ResumeDelayMin:   0.5,
		ResumeDelayMax:   1.5,
	}
}

type testFish struct {
	pos components.Position
	vel components.Velocity
	fin components.Fin
	st  components.Steering
}

func newTestFish(at, vel r3.Vec) *testFish {
	return &testFish{
		pos: components.Position{Vec: at},
		vel: components.Velocity{Vec: vel},
		fin: testFin(),
	}
}

// step runs one fish for one whole tick.
func (f *testFish) step(s *SteeringSystem, pool *ResourcePool) StepResult {
	res := s.Step(testDT, pool, &f.pos, &f.vel, &f.fin, &f.st)
	s.EndTick()
	return res
}

func checkStateInvariant(t *testing.T, st *components.Steering) {
	t.Helper()
	switch st.State {
	case components.StateSeek:
		if st.Target.IsZero() {
			t.Fatal("seeking without a target")
		}
	case components.StateWander:
		if !st.Target.IsZero() {
			t.Fatal("wandering with a target")
		}
	}
}

func TestSteeringSeekAndConsume(t *testing.T) {
	pool, log := newTestPool(t, 5, EvictOldest)
	pool.Acquire(r3.Vec{X: 3}, r3.Vec{}, 100)

	s := NewSteeringSystem(nil, rand.New(rand.NewSource(1)), testSteeringParams())
	fish := newTestFish(r3.Vec{}, r3.Vec{X: 1.6})

	res := fish.step(s, pool)
	if !res.Acquired || fish.st.State != components.StateSeek {
		t.Fatalf("fish should seek a pellet 3 units away, state=%v", fish.st.State)
	}

	consumed := 0
	for i := 0; i < 600 && pool.Len() > 0; i++ {
		pool.Update(testDT)
		res = fish.step(s, pool)
		checkStateInvariant(t, &fish.st)
		if !res.Consumed.IsZero() {
			consumed++
		}
	}

	if consumed != 1 {
		t.Fatalf("consumed %d times, want 1", consumed)
	}
	if pool.Len() != 0 {
		t.Errorf("active = %d, want 0", pool.Len())
	}
	if fish.st.State != components.StateWander || fish.st.Resting() {
		t.Errorf("after eating: state=%v resting=%v, want wander without delay", fish.st.State, fish.st.Resting())
	}
	if log.count(ReleaseConsumed) != 1 {
		t.Errorf("consumed releases = %d, want 1", log.count(ReleaseConsumed))
	}
}

func TestSteeringIgnoresOutOfRange(t *testing.T) {
	pool, _ := newTestPool(t, 5, EvictOldest)
	pool.Acquire(r3.Vec{X: 4.51}, r3.Vec{}, 100)

	s := NewSteeringSystem(nil, rand.New(rand.NewSource(1)), testSteeringParams())
	fish := newTestFish(r3.Vec{}, r3.Vec{})
	// the fish moves during the step, so check acquisition before any motion
	if _, ok := NearestConsumable(pool, fish.pos.Vec, fish.fin.DetectionRadius); ok {
		t.Fatal("resource at 4.51 must not be detected")
	}

	pool.Release(pool.ActiveResources()[0], ReleaseRevoked)
	pool.Acquire(r3.Vec{X: 4.49}, r3.Vec{}, 100)
	if res := fish.step(s, pool); !res.Acquired {
		t.Error("resource at 4.49 should be acquired")
	}
}

func TestSteeringExactlyOnceConsumption(t *testing.T) {
	pool, _ := newTestPool(t, 5, EvictOldest)
	pool.Acquire(r3.Vec{}, r3.Vec{}, 100)

	s := NewSteeringSystem(nil, rand.New(rand.NewSource(2)), testSteeringParams())
	a := newTestFish(r3.Vec{X: -1}, r3.Vec{X: 1.6})
	b := newTestFish(r3.Vec{X: 1}, r3.Vec{X: -1.6})

	a.step(s, pool)
	b.step(s, pool)
	if a.st.State != components.StateSeek || b.st.State != components.StateSeek {
		t.Fatal("both fish should chase the same pellet")
	}
	if a.st.Target != b.st.Target {
		t.Fatal("both fish should share a target")
	}

	consumed := 0
	abandoned := 0
	for i := 0; i < 300 && pool.Len() > 0; i++ {
		pool.Update(testDT)
		for _, f := range []*testFish{a, b} {
			res := f.step(s, pool)
			if !res.Consumed.IsZero() {
				consumed++
			}
			if res.Abandoned {
				abandoned++
			}
		}
	}
	// the loser notices on its next step
	if b.st.State == components.StateSeek {
		if res := b.step(s, pool); res.Abandoned {
			abandoned++
		}
	}

	if consumed != 1 {
		t.Errorf("consumed %d times, want exactly 1", consumed)
	}
	if abandoned != 1 {
		t.Errorf("abandoned %d times, want 1", abandoned)
	}
	if a.st.State != components.StateWander || b.st.State != components.StateWander {
		t.Errorf("both fish should wander, got %v and %v", a.st.State, b.st.State)
	}
}

func TestSteeringResumeDelayBounds(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		pool, _ := newTestPool(t, 5, EvictOldest)
		target, _ := pool.Acquire(r3.Vec{X: 1.5}, r3.Vec{}, 100)
		pool.Acquire(r3.Vec{Z: 2}, r3.Vec{}, 100)

		s := NewSteeringSystem(nil, rand.New(rand.NewSource(seed)), testSteeringParams())
		fish := newTestFish(r3.Vec{}, r3.Vec{X: 1.6})
		fish.fin.DetectionRadius = 50

		fish.step(s, pool)
		if fish.st.Target != target {
			t.Fatalf("seed %d: fish should chase the nearest pellet", seed)
		}

		pool.Release(target, ReleaseRevoked)

		steps := 0
		for {
			steps++
			res := fish.step(s, pool)
			if steps == 1 {
				if !res.Abandoned {
					t.Fatalf("seed %d: revoked target should be abandoned", seed)
				}
				if d := fish.st.ResumeDelay; d < 0.5 || d > 1.5 {
					t.Fatalf("seed %d: resume delay %.3f outside [0.5, 1.5]", seed, d)
				}
			}
			if res.Acquired {
				break
			}
			if steps > 1000 {
				t.Fatalf("seed %d: fish never re-acquired", seed)
			}
		}

		elapsed := float64(steps) * testDT
		if elapsed < 0.5 || elapsed > 1.5+2*testDT {
			t.Errorf("seed %d: re-acquired after %.3fs, want within [0.5, 1.5]", seed, elapsed)
		}
	}
}

func TestSteeringAbandonSetsDelay(t *testing.T) {
	s := NewSteeringSystem(nil, rand.New(rand.NewSource(9)), testSteeringParams())
	for i := 0; i < 100; i++ {
		st := components.Steering{State: components.StateSeek, Target: components.Handle{Gen: 1}, ChaseTime: 2}
		s.Abandon(&st)
		if st.State != components.StateWander || !st.Target.IsZero() || st.ChaseTime != 0 {
			t.Fatalf("abandon left state %+v", st)
		}
		if st.ResumeDelay < 0.5 || st.ResumeDelay > 1.5 {
			t.Fatalf("resume delay %.3f outside [0.5, 1.5]", st.ResumeDelay)
		}
	}
}

func TestSteeringDelayFromOutsideStepKeepsFullLength(t *testing.T) {
	pool, _ := newTestPool(t, 1, EvictOldest)
	s := NewSteeringSystem(nil, rand.New(rand.NewSource(3)), testSteeringParams())
	fish := newTestFish(r3.Vec{}, r3.Vec{X: 1.6})
	fish.st = components.Steering{State: components.StateSeek, Target: components.Handle{Gen: 1}}

	// a release fan-out abandons the fish before it steps this tick
	s.Abandon(&fish.st)
	set := fish.st.ResumeDelay

	s.Step(testDT, pool, &fish.pos, &fish.vel, &fish.fin, &fish.st)
	if fish.st.ResumeDelay != set {
		t.Errorf("delay after the abandoning tick = %v, want %v", fish.st.ResumeDelay, set)
	}
	s.EndTick()

	fish.step(s, pool)
	if got := fish.st.ResumeDelay; math.Abs(got-(set-testDT)) > 1e-12 {
		t.Errorf("delay one tick later = %v, want %v", got, set-testDT)
	}
}

func TestSteeringDelayAfterOwnStepCountsNextTick(t *testing.T) {
	pool, _ := newTestPool(t, 1, EvictOldest)
	s := NewSteeringSystem(nil, rand.New(rand.NewSource(3)), testSteeringParams())
	fish := newTestFish(r3.Vec{}, r3.Vec{X: 1.6})

	// fish steps, then a later fish in the same tick eats its target
	s.Step(testDT, pool, &fish.pos, &fish.vel, &fish.fin, &fish.st)
	s.Abandon(&fish.st)
	set := fish.st.ResumeDelay
	s.EndTick()

	fish.step(s, pool)
	if got := fish.st.ResumeDelay; math.Abs(got-(set-testDT)) > 1e-12 {
		t.Errorf("delay = %v, want %v", got, set-testDT)
	}
}

func TestSteeringVerticalBob(t *testing.T) {
	tests := []struct {
		name      string
		amplitude float64
		wantSway  bool
	}{
		{"bobbing", 0.5, true},
		{"off", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, _ := newTestPool(t, 1, EvictOldest)
			s := NewSteeringSystem(nil, rand.New(rand.NewSource(8)), testSteeringParams())
			fish := newTestFish(r3.Vec{}, r3.Vec{X: 1.6})
			fish.fin.WanderJitter = 0
			fish.fin.RecenterInterval = 1000
			fish.fin.BobAmplitude = tt.amplitude
			fish.fin.BobSpeed = math.Pi
			fish.st.WanderTarget = r3.Vec{X: 1000}
			fish.st.HasWanderTarget = true

			minY, maxY := 0.0, 0.0
			for range 120 {
				fish.step(s, pool)
				minY = min(minY, fish.st.Desired.Y)
				maxY = max(maxY, fish.st.Desired.Y)
			}
			if fish.st.BobPhase < 0 || fish.st.BobPhase >= 2*math.Pi {
				t.Errorf("bob phase %v outside [0, 2π)", fish.st.BobPhase)
			}

			if tt.wantSway {
				if maxY < 0.3 || minY > -0.3 {
					t.Errorf("desired Y ranged [%.3f, %.3f], want a sway past ±0.3", minY, maxY)
				}
				return
			}
			if minY != 0 || maxY != 0 {
				t.Errorf("desired Y ranged [%v, %v] with the bob off", minY, maxY)
			}
		})
	}
}

func TestSteeringStaysInBounds(t *testing.T) {
	bounds, err := NewBounds(r3.Vec{Y: 5}, r3.Vec{X: 9, Y: 5, Z: 5})
	if err != nil {
		t.Fatal(err)
	}
	pool, _ := newTestPool(t, 5, EvictOldest)
	s := NewSteeringSystem(&bounds, rand.New(rand.NewSource(4)), testSteeringParams())
	fish := newTestFish(r3.Vec{Y: 5}, r3.Vec{X: 1.6})

	loose := Bounds{Center: bounds.Center, Extents: r3.Add(bounds.Extents, r3.Vec{X: 1.5, Y: 1.5, Z: 1.5})}
	for i := 0; i < 60*120; i++ {
		fish.step(s, pool)
		if !loose.Contains(fish.pos.Vec) {
			t.Fatalf("fish left the tank at tick %d: %v", i, fish.pos.Vec)
		}
		speed := r3.Norm(fish.vel.Vec)
		if speed < 1.6*0.6-1e-9 || speed > 1.6*1.1+1e-9 {
			t.Fatalf("speed %.3f outside band at tick %d", speed, i)
		}
	}
}

func TestSteeringDegenerateWanderTarget(t *testing.T) {
	pool, _ := newTestPool(t, 1, EvictOldest)
	s := NewSteeringSystem(nil, rand.New(rand.NewSource(5)), testSteeringParams())
	fish := newTestFish(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{})
	fish.fin.WanderRadius = 0
	fish.fin.WanderJitter = 0

	for i := 0; i < 10; i++ {
		fish.step(s, pool)
	}
	p := fish.pos.Vec
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
		t.Fatalf("position became NaN: %v", p)
	}
}

func TestSteeringRecentersWanderTarget(t *testing.T) {
	pool, _ := newTestPool(t, 1, EvictOldest)
	s := NewSteeringSystem(nil, rand.New(rand.NewSource(6)), testSteeringParams())
	fish := newTestFish(r3.Vec{}, r3.Vec{X: 1.6})
	fish.fin.RecenterInterval = 0.5

	fish.step(s, pool)
	first := fish.st.WanderTarget
	changed := false
	for i := 0; i < 40; i++ {
		fish.step(s, pool)
		if fish.st.WanderTarget != first {
			changed = true
			break
		}
	}
	if !changed {
		t.Error("wander target should be re-picked after the recenter interval")
	}
}
