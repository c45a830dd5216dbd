package game

import (
	"math"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/systems"
	"github.com/pthm-cable/aquarium/telemetry"
)

// Tick advances the tank by delta seconds: pellets, then bubbles, then every
// fish in registration order. A non-positive or NaN delta does nothing.
func (g *Game) Tick(delta float64) {
	if !(delta > 0) || math.IsInf(delta, 0) {
		return
	}

	g.perfCollector.StartTick()

	// Pellets first so fish never chase something that expired this tick
	g.perfCollector.StartPhase(telemetry.PhasePellets)
	g.pellets.Update(delta)

	g.perfCollector.StartPhase(telemetry.PhaseBubbles)
	g.bubbles.Update(delta)
	g.emitter.Update(delta)

	g.perfCollector.StartPhase(telemetry.PhaseAgents)
	g.updateAgents(delta)
	g.steering.EndTick()

	g.tick++
	g.simTime += delta

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// updateAgents steps each fish once. Consumption releases the pellet
// immediately, so a later fish in the same tick can never eat it again.
func (g *Game) updateAgents(dt float64) {
	for _, e := range g.agents {
		pos := g.posMap.Get(e)
		vel := g.velMap.Get(e)
		fin := g.finMap.Get(e)
		st := g.steerMap.Get(e)
		id := g.fishMap.Get(e).ID

		res := g.steering.Step(dt, g.pellets, pos, vel, fin, st)
		if res.Abandoned {
			g.recordAbandon(id)
		}
		if res.Acquired {
			g.collector.Record(telemetry.NewFishEvent(telemetry.EventAcquire, g.tick, id))
			g.ledger.RecordChase(id)
		}
		if !res.Consumed.IsZero() {
			g.collector.Record(telemetry.NewConsumeEvent(g.tick, id, res.ConsumedAge))
			g.ledger.RecordMeal(id, g.tick, res.ChaseTime)
		}
	}
}

func (g *Game) recordAbandon(id uint32) {
	g.collector.Record(telemetry.NewFishEvent(telemetry.EventAbandon, g.tick, id))
	g.ledger.RecordAbandon(id)
}

// ResourceReleased fans a release out to every fish still targeting the
// handle. The consumer has already cleared its target, so only bystanders
// are abandoned.
func (g *Game) ResourceReleased(pool *systems.ResourcePool, h components.Handle, reason systems.ReleaseReason) {
	if pool == g.bubbles {
		if reason == systems.ReleaseSurfaced {
			g.collector.Record(telemetry.NewPoolEvent(telemetry.EventSurface, g.tick))
		}
		return
	}

	switch reason {
	case systems.ReleaseExpired:
		g.collector.Record(telemetry.NewPoolEvent(telemetry.EventExpire, g.tick))
	case systems.ReleaseEvicted:
		g.collector.Record(telemetry.NewPoolEvent(telemetry.EventEvict, g.tick))
	case systems.ReleaseRevoked:
		g.collector.Record(telemetry.NewPoolEvent(telemetry.EventRevoke, g.tick))
	}

	for _, e := range g.agents {
		st := g.steerMap.Get(e)
		if st.State != components.StateSeek || st.Target != h {
			continue
		}
		g.steering.Abandon(st)
		g.recordAbandon(g.fishMap.Get(e).ID)
	}
}

// UpdateHeadless runs StepsPerUpdate fixed ticks, dropping food on the
// feeder schedule.
func (g *Game) UpdateHeadless() {
	dt := g.cfg.Physics.DT
	for range g.stepsPerUpdate {
		g.runFeeder(dt)
		g.Tick(dt)
	}
}

// runFeeder drops food over a random point every feedInterval seconds.
func (g *Game) runFeeder(dt float64) {
	if !(g.feedInterval > 0) {
		return
	}
	g.feedTimer += dt
	if g.feedTimer < g.feedInterval {
		return
	}
	g.feedTimer -= g.feedInterval

	origin := g.bounds.Shrink(g.cfg.Fish.BoundaryMargin).RandomPoint(g.rng)
	g.DropFood(origin)
}
