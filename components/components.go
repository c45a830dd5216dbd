// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// Handle is a weak reference to a pooled resource.
// Gen is bumped every time the slot is acquired, so a handle to a recycled
// slot never resolves. The zero Handle refers to nothing.
type Handle struct {
	Entity ecs.Entity
	Gen    uint32
}

// IsZero reports whether the handle refers to nothing.
func (h Handle) IsZero() bool {
	return h.Gen == 0
}

// Resource holds pooled lifecycle state. Owned by exactly one pool.
type Resource struct {
	Pool       uint16  // owning pool id
	Active     bool    // false = parked on the free list
	Generation uint32  // acquisitions of this slot so far
	Life       float64 // seconds remaining
	Lifetime   float64 // seconds granted at acquire
	Age        float64 // seconds since acquire
}

// Consumable marks pooled entities that fish can detect and eat.
// Ambient entities (bubbles) share the pool mechanics but never carry it.
type Consumable struct{}
