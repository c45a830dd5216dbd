package game

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/systems"
)

// AgentSpec describes a fish to register. A zero Fin uses the configured
// fish parameters.
type AgentSpec struct {
	Position r3.Vec
	Velocity r3.Vec
	Fin      components.Fin
}

// DefaultFin returns the configured swimming parameters scaled by a speed
// multiplier.
func (g *Game) DefaultFin(speedMul float64) components.Fin {
	f := g.cfg.Fish
	return components.Fin{
		Speed:               f.Speed * speedMul,
		TurnRate:            f.TurnRate,
		DetectionRadius:     f.DetectionRadius,
		EatDistance:         f.EatDistance,
		WanderRadius:        f.WanderRadius,
		WanderJitter:        f.WanderJitter,
		RecenterInterval:    f.RecenterInterval,
		PursuitAcceleration: f.PursuitAcceleration,
		MinSpeedFactor:      f.MinSpeedFactor,
		MaxSpeedFactor:      f.MaxSpeedFactor,
		BobAmplitude:        f.BobAmplitude,
		BobSpeed:            f.BobSpeed,
	}
}

// RegisterAgent adds a fish at the end of the update order.
func (g *Game) RegisterAgent(spec AgentSpec) ecs.Entity {
	fin := spec.Fin
	if fin == (components.Fin{}) {
		fin = g.DefaultFin(1)
	}

	id := g.nextID
	g.nextID++

	pos := components.Position{Vec: spec.Position}
	vel := components.Velocity{Vec: spec.Velocity}
	// ids spread the bob phases so the school does not sway in step
	st := components.Steering{
		State:    components.StateWander,
		BobPhase: math.Mod(float64(id), 2*math.Pi),
	}
	fish := components.Fish{ID: id}

	e := g.fishMapper.NewEntity(&pos, &vel, &fin, &st, &fish)
	g.agents = append(g.agents, e)
	g.ledger.Register(id, g.tick)
	return e
}

// UnregisterAgent removes a fish. Returns false if e is not a registered
// fish.
func (g *Game) UnregisterAgent(e ecs.Entity) bool {
	i := slices.Index(g.agents, e)
	if i < 0 || !g.world.Alive(e) {
		return false
	}
	g.agents = slices.Delete(g.agents, i, i+1)
	g.world.RemoveEntity(e)
	return true
}

// Steering returns a fish's behaviour state, nil if e is not registered.
func (g *Game) Steering(e ecs.Entity) *components.Steering {
	if !slices.Contains(g.agents, e) {
		return nil
	}
	return g.steerMap.Get(e)
}

// Agents returns the registered fish in update order.
func (g *Game) Agents() []ecs.Entity {
	return slices.Clone(g.agents)
}

// populate registers n fish with varied speeds in the inner part of the tank.
func (g *Game) populate(n int) {
	f := g.cfg.Fish
	inner := systems.Bounds{Center: g.bounds.Center, Extents: r3.Scale(0.3, g.bounds.Extents)}

	for range n {
		mul := f.SpeedVarianceMin + g.rng.Float64()*(f.SpeedVarianceMax-f.SpeedVarianceMin)
		fin := g.DefaultFin(mul)

		heading := g.rng.Float64() * 2 * math.Pi
		vel := r3.Vec{
			X: math.Cos(heading) * fin.Speed,
			Z: math.Sin(heading) * fin.Speed,
		}
		g.RegisterAgent(AgentSpec{
			Position: inner.RandomPoint(g.rng),
			Velocity: vel,
			Fin:      fin,
		})
	}
}

// SetQuality switches to a named preset: the fish are rebuilt and both pools
// are cleared and resized.
func (g *Game) SetQuality(name string) error {
	preset, ok := g.cfg.QualityPreset(name)
	if !ok {
		return fmt.Errorf("game: unknown quality preset %q", name)
	}

	for _, e := range slices.Clone(g.agents) {
		g.UnregisterAgent(e)
	}
	g.pellets.Clear(systems.ReleaseRevoked)
	g.bubbles.Clear(systems.ReleaseRevoked)

	if err := g.applyPoolSizes(preset); err != nil {
		return err
	}
	g.populate(preset.Fish)
	g.quality = preset.Name

	slog.Info("quality changed",
		"preset", preset.Name,
		"fish", preset.Fish,
		"bubbles", preset.Bubbles,
		"pellet_pool", preset.PelletPool,
	)
	return nil
}

func (g *Game) applyPoolSizes(q config.QualityConfig) error {
	if err := g.pellets.SetCapacity(q.PelletPool); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	bubbles := q.Bubbles
	if !g.cfg.Bubble.Enabled {
		bubbles = 0
	}
	if err := g.bubbles.SetCapacity(bubbles); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	return nil
}
