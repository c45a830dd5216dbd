package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/systems"
	"github.com/pthm-cable/aquarium/telemetry"
)

// AgentSnapshot is the render view of one fish.
type AgentSnapshot struct {
	Entity   ecs.Entity
	ID       uint32
	Position r3.Vec
	Velocity r3.Vec
	Yaw      float64 // radians about +Y, 0 = facing +X
	Pitch    float64
	State    components.SteeringState
	Resting  bool
}

// ResourceSnapshot is the render view of one pooled resource.
type ResourceSnapshot struct {
	Position  r3.Vec
	ScaleHint float64 // remaining life fraction in [0, 1]
	Active    bool
}

// AgentSnapshots returns every registered fish in update order.
func (g *Game) AgentSnapshots() []AgentSnapshot {
	out := make([]AgentSnapshot, 0, len(g.agents))
	for _, e := range g.agents {
		pos := g.posMap.Get(e)
		vel := g.velMap.Get(e)
		st := g.steerMap.Get(e)
		yaw, pitch := systems.Orientation(vel.Vec)
		out = append(out, AgentSnapshot{
			Entity:   e,
			ID:       g.fishMap.Get(e).ID,
			Position: pos.Vec,
			Velocity: vel.Vec,
			Yaw:      yaw,
			Pitch:    pitch,
			State:    st.State,
			Resting:  st.Resting(),
		})
	}
	return out
}

// ResourceSnapshots returns the active pellets.
func (g *Game) ResourceSnapshots() []ResourceSnapshot {
	return g.resourceSnapshots(PelletPoolID)
}

// BubbleSnapshots returns the active bubbles.
func (g *Game) BubbleSnapshots() []ResourceSnapshot {
	return g.resourceSnapshots(BubblePoolID)
}

func (g *Game) resourceSnapshots(pool uint16) []ResourceSnapshot {
	var out []ResourceSnapshot
	query := g.resourceFilter.Query()
	for query.Next() {
		pos, _, res := query.Get()
		if res.Pool != pool || !res.Active {
			continue
		}
		hint := 0.0
		if res.Lifetime > 0 {
			hint = clamp(res.Life/res.Lifetime, 0, 1)
		}
		out = append(out, ResourceSnapshot{
			Position:  pos.Vec,
			ScaleHint: hint,
			Active:    true,
		})
	}
	return out
}

// census counts fish by state and samples their speeds.
func (g *Game) census() (telemetry.Populations, []float64) {
	pop := telemetry.Populations{
		Pellets:       g.pellets.Len(),
		PelletCap:     g.pellets.Capacity(),
		FreePelletLen: g.pellets.FreeLen(),
		Bubbles:       g.bubbles.Len(),
	}
	speeds := make([]float64, 0, len(g.agents))

	query := g.fishFilter.Query()
	for query.Next() {
		_, vel, _, st, _ := query.Get()
		pop.Fish++
		switch st.State {
		case components.StateSeek:
			pop.Seeking++
		default:
			pop.Wandering++
			if st.Resting() {
				pop.Resting++
			}
		}
		speeds = append(speeds, r3.Norm(vel.Vec))
	}
	return pop, speeds
}
