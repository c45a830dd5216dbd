package game

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquarium/systems"
)

// ConfigureBounds replaces the tank volume. Pellet floor, bubble surface,
// the emitter patch and steering all follow the new volume. Fish outside it
// steer back in on their own.
func (g *Game) ConfigureBounds(center, extents r3.Vec) error {
	b, err := systems.NewBounds(center, extents)
	if err != nil {
		return fmt.Errorf("game: configure bounds: %w", err)
	}
	g.bounds = b
	g.steering.SetBounds(g.boundsRef())
	g.pellets.SetMotion(g.pelletMotion())
	g.bubbles.SetMotion(g.bubbleMotion())
	g.emitter.SetParams(g.bubbleParams())
	if g.orbit != nil {
		g.orbit.Target = center
	}

	slog.Info("bounds configured",
		"center", fmt.Sprintf("%.2f,%.2f,%.2f", center.X, center.Y, center.Z),
		"extents", fmt.Sprintf("%.2f,%.2f,%.2f", extents.X, extents.Y, extents.Z),
	)
	return nil
}

// ConfigurePoolCapacity resizes the pellet pool. Shrinking revokes the oldest
// pellets; fish chasing them are abandoned.
func (g *Game) ConfigurePoolCapacity(n int) error {
	if err := g.pellets.SetCapacity(n); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	return nil
}

// ConfigureEvictionPolicy switches the pellet pool's behaviour at capacity.
func (g *Game) ConfigureEvictionPolicy(p systems.EvictionPolicy) {
	g.pellets.SetPolicy(p)
}
