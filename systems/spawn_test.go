package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquarium/components"
)

func TestSpawnBurstEvictsOldestAtCapacity(t *testing.T) {
	pool, log := newTestPool(t, 5, EvictOldest)
	var prior []components.Handle
	for i := 0; i < 5; i++ {
		h, _ := pool.Acquire(r3.Vec{X: 100 + float64(i)}, r3.Vec{}, 18)
		prior = append(prior, h)
	}

	origin := r3.Vec{X: 1, Y: 6, Z: -2}
	bp := BurstParams{Jitter: 0.4, Drift: 0.15, SinkSpeed: 0.35, Lifetime: 18}
	placed := SpawnBurst(pool, rand.New(rand.NewSource(7)), origin, 3, bp)

	if placed != 3 {
		t.Fatalf("placed %d, want 3", placed)
	}
	if pool.Len() != 5 {
		t.Fatalf("active = %d, want 5", pool.Len())
	}
	for i, h := range prior {
		if want := i >= 3; pool.IsActive(h) != want {
			t.Errorf("prior[%d] active = %v, want %v", i, pool.IsActive(h), want)
		}
	}
	if log.count(ReleaseEvicted) != 3 {
		t.Errorf("evicted = %d, want 3", log.count(ReleaseEvicted))
	}

	active := pool.ActiveResources()
	for _, h := range active[2:] {
		v, _ := pool.View(h)
		d := r3.Sub(v.Position, origin)
		if math.Abs(d.X) > bp.Jitter || math.Abs(d.Y) > bp.Jitter || math.Abs(d.Z) > bp.Jitter {
			t.Errorf("new pellet at %v too far from origin %v", v.Position, origin)
		}
		if v.Velocity.Y != -bp.SinkSpeed {
			t.Errorf("new pellet velocity.y = %v, want %v", v.Velocity.Y, -bp.SinkSpeed)
		}
		if math.Abs(v.Velocity.X) > bp.Drift || math.Abs(v.Velocity.Z) > bp.Drift {
			t.Errorf("lateral drift %v exceeds %v", v.Velocity, bp.Drift)
		}
	}
}

func TestSpawnBurstStopsOnReject(t *testing.T) {
	pool, _ := newTestPool(t, 4, EvictReject)
	pool.Acquire(r3.Vec{}, r3.Vec{}, 18)
	pool.Acquire(r3.Vec{}, r3.Vec{}, 18)

	placed := SpawnBurst(pool, rand.New(rand.NewSource(1)), r3.Vec{}, 5, BurstParams{Lifetime: 18})
	if placed != 2 {
		t.Errorf("placed %d, want 2", placed)
	}
	if pool.Len() != 4 {
		t.Errorf("active = %d, want 4", pool.Len())
	}
}

func TestSpawnBurstZeroCount(t *testing.T) {
	pool, _ := newTestPool(t, 4, EvictOldest)
	if placed := SpawnBurst(pool, rand.New(rand.NewSource(1)), r3.Vec{}, 0, BurstParams{Lifetime: 1}); placed != 0 {
		t.Errorf("placed %d, want 0", placed)
	}
}
