package game

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquarium/systems"
	"github.com/pthm-cable/aquarium/telemetry"
)

// feedZoneFraction bounds drop origins horizontally, as a fraction of the
// tank size measured from the center.
const feedZoneFraction = 0.45

// SpawnBurst drops up to count pellets around origin and returns how many
// were placed. Unplaced pellets are counted as rejections.
func (g *Game) SpawnBurst(origin r3.Vec, count int) int {
	if count <= 0 {
		return 0
	}
	placed := systems.SpawnBurst(g.pellets, g.rng, origin, count, g.burst)
	for range placed {
		g.collector.Record(telemetry.NewPoolEvent(telemetry.EventSpawn, g.tick))
	}
	for range count - placed {
		g.collector.Record(telemetry.NewPoolEvent(telemetry.EventReject, g.tick))
	}
	return placed
}

// DropFood clamps origin to the feeding zone and drops one handful.
func (g *Game) DropFood(origin r3.Vec) int {
	return g.SpawnBurst(g.FeedOrigin(origin), g.cfg.Pellet.PerDrop)
}

// FeedOrigin clamps p to the feeding zone: the central 90% of the tank
// horizontally and at least one unit below the surface.
func (g *Game) FeedOrigin(p r3.Vec) r3.Vec {
	size := g.bounds.Size()
	c := g.bounds.Center
	hx := feedZoneFraction * size.X
	hz := feedZoneFraction * size.Z

	p.X = clamp(p.X, c.X-hx, c.X+hx)
	p.Z = clamp(p.Z, c.Z-hz, c.Z+hz)
	if top := g.surfaceY() - 1; p.Y > top {
		p.Y = top
	}
	return p
}
