package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquarium/components"
)

// NearestConsumable returns the closest active consumable resource within
// radius of origin. Ties go to the resource acquired first.
//
// This is a linear scan over the active list. At tens of resources a spatial
// grid costs more than it saves; swap one in here if populations grow.
func NearestConsumable(pool *ResourcePool, origin r3.Vec, radius float64) (components.Handle, bool) {
	if pool == nil || !pool.consumable || !(radius >= 0) {
		return components.Handle{}, false
	}

	best := -1
	bestD := radius * radius
	for i, e := range pool.active {
		if !pool.tagMap.Has(e) {
			continue
		}
		d := r3.Norm2(r3.Sub(pool.posMap.Get(e).Vec, origin))
		if d > bestD {
			continue
		}
		if best < 0 || d < bestD {
			best = i
			bestD = d
		}
	}
	if best < 0 {
		return components.Handle{}, false
	}

	e := pool.active[best]
	return components.Handle{Entity: e, Gen: pool.resMap.Get(e).Generation}, true
}
