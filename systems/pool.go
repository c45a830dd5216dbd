package systems

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquarium/components"
)

// EvictionPolicy decides what Acquire does when the pool is full.
type EvictionPolicy uint8

const (
	EvictOldest EvictionPolicy = iota // release the longest-lived active resource
	EvictReject                       // acquire yields nothing
)

// String returns the policy name used in config files.
func (p EvictionPolicy) String() string {
	switch p {
	case EvictOldest:
		return "oldest"
	case EvictReject:
		return "reject"
	default:
		return fmt.Sprintf("EvictionPolicy(%d)", uint8(p))
	}
}

// ParseEvictionPolicy maps a config name to a policy.
func ParseEvictionPolicy(s string) (EvictionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oldest", "":
		return EvictOldest, nil
	case "reject":
		return EvictReject, nil
	}
	return EvictOldest, fmt.Errorf("unknown eviction policy %q", s)
}

// ReleaseReason records why a resource left the active list.
type ReleaseReason uint8

const (
	ReleaseConsumed ReleaseReason = iota
	ReleaseExpired
	ReleaseEvicted
	ReleaseRevoked
	ReleaseSurfaced
)

// String returns the reason name.
func (r ReleaseReason) String() string {
	switch r {
	case ReleaseConsumed:
		return "consumed"
	case ReleaseExpired:
		return "expired"
	case ReleaseEvicted:
		return "evicted"
	case ReleaseRevoked:
		return "revoked"
	case ReleaseSurfaced:
		return "surfaced"
	default:
		return "unknown"
	}
}

// ReleaseListener is told about every release before Release returns.
type ReleaseListener interface {
	ResourceReleased(pool *ResourcePool, h components.Handle, reason ReleaseReason)
}

// Motion describes how active resources drift each update.
type Motion struct {
	Terminal   r3.Vec  // velocity approached over time (sink or rise)
	Response   float64 // 1/s rate of the exponential approach
	Floor      float64
	HasFloor   bool // clamp Y to Floor
	Ceiling    float64
	HasCeiling bool // release as surfaced above Ceiling
}

// PoolOptions configures a ResourcePool.
type PoolOptions struct {
	Name       string
	ID         uint16
	Capacity   int
	Policy     EvictionPolicy
	Consumable bool // tag slots with components.Consumable
	Motion     Motion
}

// ResourceView is a read-only copy of an active resource.
type ResourceView struct {
	Handle   components.Handle
	Position r3.Vec
	Velocity r3.Vec
	Life     float64
	Lifetime float64
	Age      float64
}

// ResourcePool recycles transient entities stored in the ECS world.
// Slots are never destroyed while the simulation ticks: release only flips
// the Active flag and moves the entity to the free list, so fish iterating
// mid-tick never see structural world changes.
type ResourcePool struct {
	name       string
	id         uint16
	world      *ecs.World
	consumable bool
	capacity   int
	policy     EvictionPolicy
	motion     Motion

	plain  *ecs.Map3[components.Position, components.Velocity, components.Resource]
	edible *ecs.Map4[components.Position, components.Velocity, components.Resource, components.Consumable]

	posMap *ecs.Map[components.Position]
	velMap *ecs.Map[components.Velocity]
	resMap *ecs.Map[components.Resource]
	tagMap *ecs.Map[components.Consumable]

	free   []ecs.Entity // parked slots, reused oldest first
	active []ecs.Entity // acquisition order; active[0] is the eviction candidate

	listener ReleaseListener

	// scratch for releases collected during Update
	pending []pendingRelease
}

type pendingRelease struct {
	entity ecs.Entity
	reason ReleaseReason
}

// NewResourcePool creates an empty pool. Slots are created lazily.
func NewResourcePool(w *ecs.World, opts PoolOptions) (*ResourcePool, error) {
	if opts.Capacity < 0 {
		return nil, fmt.Errorf("pool %s: capacity must be >= 0, got %d", opts.Name, opts.Capacity)
	}
	if opts.Motion.Response < 0 || math.IsNaN(opts.Motion.Response) {
		return nil, fmt.Errorf("pool %s: motion response must be >= 0, got %v", opts.Name, opts.Motion.Response)
	}
	return &ResourcePool{
		name:       opts.Name,
		id:         opts.ID,
		world:      w,
		consumable: opts.Consumable,
		capacity:   opts.Capacity,
		policy:     opts.Policy,
		motion:     opts.Motion,
		plain:      ecs.NewMap3[components.Position, components.Velocity, components.Resource](w),
		edible:     ecs.NewMap4[components.Position, components.Velocity, components.Resource, components.Consumable](w),
		posMap:     ecs.NewMap[components.Position](w),
		velMap:     ecs.NewMap[components.Velocity](w),
		resMap:     ecs.NewMap[components.Resource](w),
		tagMap:     ecs.NewMap[components.Consumable](w),
		free:       make([]ecs.Entity, 0, opts.Capacity),
		active:     make([]ecs.Entity, 0, opts.Capacity),
	}, nil
}

// Name returns the pool name.
func (p *ResourcePool) Name() string { return p.name }

// Len returns the number of active resources.
func (p *ResourcePool) Len() int { return len(p.active) }

// FreeLen returns the number of parked slots.
func (p *ResourcePool) FreeLen() int { return len(p.free) }

// Capacity returns the maximum number of simultaneously active resources.
func (p *ResourcePool) Capacity() int { return p.capacity }

// Policy returns the eviction policy.
func (p *ResourcePool) Policy() EvictionPolicy { return p.policy }

// Consumable reports whether slots carry the Consumable capability.
func (p *ResourcePool) Consumable() bool { return p.consumable }

// SetPolicy changes the eviction policy.
func (p *ResourcePool) SetPolicy(policy EvictionPolicy) { p.policy = policy }

// SetMotion replaces the drift applied by Update.
func (p *ResourcePool) SetMotion(m Motion) { p.motion = m }

// Motion returns the drift applied by Update.
func (p *ResourcePool) Motion() Motion { return p.motion }

// SetListener installs the release listener.
func (p *ResourcePool) SetListener(l ReleaseListener) { p.listener = l }

// SetCapacity changes the cap. Shrinking revokes the oldest resources until
// the active list fits and destroys surplus free slots, so it must not be
// called while a tick is running.
func (p *ResourcePool) SetCapacity(n int) error {
	if n < 0 {
		return fmt.Errorf("pool %s: capacity must be >= 0, got %d", p.name, n)
	}
	p.capacity = n
	for len(p.active) > n {
		p.release(p.active[0], ReleaseRevoked)
	}
	for len(p.active)+len(p.free) > n {
		last := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		p.world.RemoveEntity(last)
	}
	return nil
}

// Acquire activates a resource at pos with the given velocity and lifetime.
// At capacity the eviction policy applies; under EvictReject (or with a zero
// capacity) it returns false and the pool is unchanged. A lifetime that is
// not positive and finite is refused the same way.
func (p *ResourcePool) Acquire(pos, vel r3.Vec, lifetime float64) (components.Handle, bool) {
	if !(lifetime > 0) || math.IsInf(lifetime, 1) {
		return components.Handle{}, false
	}
	if len(p.active) >= p.capacity {
		if p.policy == EvictReject || len(p.active) == 0 {
			return components.Handle{}, false
		}
		p.release(p.active[0], ReleaseEvicted)
	}

	var e ecs.Entity
	if len(p.free) > 0 {
		e = p.free[0]
		p.free = slices.Delete(p.free, 0, 1)
	} else {
		e = p.newSlot()
	}

	p.posMap.Get(e).Vec = pos
	p.velMap.Get(e).Vec = vel
	r := p.resMap.Get(e)
	r.Generation++
	r.Active = true
	r.Life = lifetime
	r.Lifetime = lifetime
	r.Age = 0

	p.active = append(p.active, e)
	return components.Handle{Entity: e, Gen: r.Generation}, true
}

// newSlot creates a fresh entity for the pool.
func (p *ResourcePool) newSlot() ecs.Entity {
	pos := components.Position{}
	vel := components.Velocity{}
	res := components.Resource{Pool: p.id}
	if p.consumable {
		return p.edible.NewEntity(&pos, &vel, &res, &components.Consumable{})
	}
	return p.plain.NewEntity(&pos, &vel, &res)
}

// Release returns the resource to the free list. Releasing a stale or
// inactive handle is a no-op and returns false.
func (p *ResourcePool) Release(h components.Handle, reason ReleaseReason) bool {
	if !p.IsActive(h) {
		return false
	}
	p.release(h.Entity, reason)
	return true
}

// release parks an active slot and notifies the listener.
func (p *ResourcePool) release(e ecs.Entity, reason ReleaseReason) {
	r := p.resMap.Get(e)
	r.Active = false
	r.Life = 0

	if i := slices.Index(p.active, e); i >= 0 {
		p.active = slices.Delete(p.active, i, i+1)
	}
	p.free = append(p.free, e)

	if p.listener != nil {
		p.listener.ResourceReleased(p, components.Handle{Entity: e, Gen: r.Generation}, reason)
	}
}

// Clear releases every active resource with the given reason.
func (p *ResourcePool) Clear(reason ReleaseReason) {
	for len(p.active) > 0 {
		p.release(p.active[0], reason)
	}
}

// IsActive reports whether h still refers to a live resource of this pool.
func (p *ResourcePool) IsActive(h components.Handle) bool {
	if h.IsZero() || !p.world.Alive(h.Entity) || !p.resMap.Has(h.Entity) {
		return false
	}
	r := p.resMap.Get(h.Entity)
	return r.Active && r.Pool == p.id && r.Generation == h.Gen
}

// Position returns the position of an active resource.
func (p *ResourcePool) Position(h components.Handle) (r3.Vec, bool) {
	if !p.IsActive(h) {
		return r3.Vec{}, false
	}
	return p.posMap.Get(h.Entity).Vec, true
}

// Displace moves an active resource by offset.
func (p *ResourcePool) Displace(h components.Handle, offset r3.Vec) bool {
	if !p.IsActive(h) {
		return false
	}
	pos := p.posMap.Get(h.Entity)
	pos.Vec = r3.Add(pos.Vec, offset)
	return true
}

// View returns a copy of an active resource's state.
func (p *ResourcePool) View(h components.Handle) (ResourceView, bool) {
	if !p.IsActive(h) {
		return ResourceView{}, false
	}
	return p.view(h.Entity), true
}

func (p *ResourcePool) view(e ecs.Entity) ResourceView {
	r := p.resMap.Get(e)
	return ResourceView{
		Handle:   components.Handle{Entity: e, Gen: r.Generation},
		Position: p.posMap.Get(e).Vec,
		Velocity: p.velMap.Get(e).Vec,
		Life:     r.Life,
		Lifetime: r.Lifetime,
		Age:      r.Age,
	}
}

// ActiveResources returns handles of the active resources in acquisition
// order. The slice is a copy: releases after the call do not affect it.
func (p *ResourcePool) ActiveResources() []components.Handle {
	out := make([]components.Handle, len(p.active))
	for i, e := range p.active {
		out[i] = components.Handle{Entity: e, Gen: p.resMap.Get(e).Generation}
	}
	return out
}

// Update ages and moves every active resource, then releases the ones that
// expired or surfaced. Releases happen before Update returns.
func (p *ResourcePool) Update(dt float64) {
	if !(dt > 0) {
		return
	}
	blend := 1 - math.Exp(-p.motion.Response*dt)

	p.pending = p.pending[:0]
	for _, e := range p.active {
		pos := p.posMap.Get(e)
		vel := p.velMap.Get(e)
		r := p.resMap.Get(e)

		r.Life -= dt
		r.Age += dt

		vel.Vec = r3.Add(vel.Vec, r3.Scale(blend, r3.Sub(p.motion.Terminal, vel.Vec)))
		pos.Vec = r3.Add(pos.Vec, r3.Scale(dt, vel.Vec))
		if p.motion.HasFloor && pos.Y < p.motion.Floor {
			pos.Y = p.motion.Floor
		}

		switch {
		case r.Life <= 0:
			p.pending = append(p.pending, pendingRelease{entity: e, reason: ReleaseExpired})
		case p.motion.HasCeiling && pos.Y >= p.motion.Ceiling:
			p.pending = append(p.pending, pendingRelease{entity: e, reason: ReleaseSurfaced})
		}
	}

	for _, pr := range p.pending {
		p.release(pr.entity, pr.reason)
	}
}
