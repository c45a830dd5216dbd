package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// BurstParams shapes the pellets produced by SpawnBurst.
type BurstParams struct {
	Jitter    float64 // max horizontal offset from the origin per axis
	Drift     float64 // max lateral speed
	SinkSpeed float64 // initial downward speed
	Lifetime  float64
}

// SpawnBurst acquires up to count resources scattered around origin and
// returns how many were placed. It stops at the first rejected acquire.
func SpawnBurst(pool *ResourcePool, rng *rand.Rand, origin r3.Vec, count int, bp BurstParams) int {
	placed := 0
	for range count {
		pos := r3.Vec{
			X: origin.X + uniform(rng, -bp.Jitter, bp.Jitter),
			Y: origin.Y,
			Z: origin.Z + uniform(rng, -bp.Jitter, bp.Jitter),
		}
		vel := r3.Vec{
			X: uniform(rng, -bp.Drift, bp.Drift),
			Y: -bp.SinkSpeed,
			Z: uniform(rng, -bp.Drift, bp.Drift),
		}
		if _, ok := pool.Acquire(pos, vel, bp.Lifetime); !ok {
			break
		}
		placed++
	}
	return placed
}
