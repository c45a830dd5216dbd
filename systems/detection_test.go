package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNearestConsumableRadiusBoundary(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     bool
	}{
		{"inside", 4.49, true},
		{"on radius", 4.5, true},
		{"outside", 4.51, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, _ := newTestPool(t, 4, EvictOldest)
			pool.Acquire(r3.Vec{X: tt.distance}, r3.Vec{}, 5)

			_, ok := NearestConsumable(pool, r3.Vec{}, 4.5)
			if ok != tt.want {
				t.Errorf("distance %.2f: found = %v, want %v", tt.distance, ok, tt.want)
			}
		})
	}
}

func TestNearestConsumablePicksClosest(t *testing.T) {
	pool, _ := newTestPool(t, 4, EvictOldest)
	pool.Acquire(r3.Vec{X: 3}, r3.Vec{}, 5)
	near, _ := pool.Acquire(r3.Vec{Y: -1}, r3.Vec{}, 5)
	pool.Acquire(r3.Vec{Z: 2}, r3.Vec{}, 5)

	got, ok := NearestConsumable(pool, r3.Vec{}, 10)
	if !ok || got != near {
		t.Errorf("got %v (%v), want %v", got, ok, near)
	}
}

func TestNearestConsumableTieGoesToFirst(t *testing.T) {
	pool, _ := newTestPool(t, 4, EvictOldest)
	first, _ := pool.Acquire(r3.Vec{X: 2}, r3.Vec{}, 5)
	pool.Acquire(r3.Vec{X: -2}, r3.Vec{}, 5)

	got, ok := NearestConsumable(pool, r3.Vec{}, 5)
	if !ok || got != first {
		t.Errorf("tie should go to the first acquired resource, got %v", got)
	}
}

func TestNearestConsumableSkipsInactive(t *testing.T) {
	pool, _ := newTestPool(t, 4, EvictOldest)
	h, _ := pool.Acquire(r3.Vec{X: 1}, r3.Vec{}, 5)
	pool.Release(h, ReleaseConsumed)

	if _, ok := NearestConsumable(pool, r3.Vec{}, 5); ok {
		t.Error("released resources must not be detected")
	}
}

func TestNearestConsumableIgnoresAmbientPool(t *testing.T) {
	bubbles, err := NewResourcePool(ecs.NewWorld(), PoolOptions{Name: "bubbles", ID: 2, Capacity: 4})
	if err != nil {
		t.Fatal(err)
	}
	bubbles.Acquire(r3.Vec{X: 0.1}, r3.Vec{}, 5)

	if _, ok := NearestConsumable(bubbles, r3.Vec{}, 5); ok {
		t.Error("non-consumable resources must never be detected")
	}
}

func TestNearestConsumableSharedWorld(t *testing.T) {
	w := ecs.NewWorld()
	pellets, _ := NewResourcePool(w, PoolOptions{Name: "pellets", ID: 1, Capacity: 4, Consumable: true})
	bubbles, _ := NewResourcePool(w, PoolOptions{Name: "bubbles", ID: 2, Capacity: 4})

	bubbles.Acquire(r3.Vec{X: 0.5}, r3.Vec{}, 5)
	pellet, _ := pellets.Acquire(r3.Vec{X: 3}, r3.Vec{}, 5)

	got, ok := NearestConsumable(pellets, r3.Vec{}, 5)
	if !ok || got != pellet {
		t.Errorf("got %v, want pellet %v", got, pellet)
	}
	if pellets.IsActive(bubbles.ActiveResources()[0]) {
		t.Error("a bubble handle must not resolve in the pellet pool")
	}
}
