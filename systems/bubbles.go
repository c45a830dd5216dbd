package systems

import (
	"math/rand"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r3"
)

// BubbleParams configures the ambient bubble emitter.
type BubbleParams struct {
	Rate      float64 // bubbles per second
	Spread    float64 // edge length of the square spawn patch
	RiseSpeed float64
	LifeMin   float64
	LifeMax   float64
	HeightMin float64 // absolute spawn Y range
	HeightMax float64
	Sway      float64 // peak lateral speed
	SwayScale float64 // noise frequency over position
	Base      r3.Vec  // center of the spawn patch
}

// BubbleEmitter feeds a non-consumable pool at a steady rate and sways the
// active bubbles with simplex noise. Fish never detect bubbles.
type BubbleEmitter struct {
	pool   *ResourcePool
	rng    *rand.Rand
	noise  opensimplex.Noise
	params BubbleParams

	accum float64
	clock float64
}

// NewBubbleEmitter creates an emitter feeding pool.
func NewBubbleEmitter(pool *ResourcePool, seed int64, params BubbleParams) *BubbleEmitter {
	return &BubbleEmitter{
		pool:   pool,
		rng:    rand.New(rand.NewSource(seed)),
		noise:  opensimplex.New(seed),
		params: params,
	}
}

// SetParams replaces the emitter parameters, keeping the sway clock.
func (b *BubbleEmitter) SetParams(p BubbleParams) { b.params = p }

// SetRate changes the emission rate.
func (b *BubbleEmitter) SetRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	b.params.Rate = rate
}

// Update emits the bubbles due for dt and applies sway to the active ones.
// Returns the number emitted.
func (b *BubbleEmitter) Update(dt float64) int {
	if !(dt > 0) {
		return 0
	}
	b.clock += dt
	b.sway(dt)

	b.accum += b.params.Rate * dt
	emitted := 0
	for b.accum >= 1 {
		b.accum--
		if !b.emit() {
			// full: drop the backlog instead of bursting later
			b.accum = 0
			break
		}
		emitted++
	}
	return emitted
}

func (b *BubbleEmitter) emit() bool {
	p := b.params
	half := p.Spread / 2
	pos := r3.Vec{
		X: p.Base.X + uniform(b.rng, -half, half),
		Y: uniform(b.rng, p.HeightMin, p.HeightMax),
		Z: p.Base.Z + uniform(b.rng, -half, half),
	}
	vel := r3.Vec{Y: p.RiseSpeed}
	_, ok := b.pool.Acquire(pos, vel, uniform(b.rng, p.LifeMin, p.LifeMax))
	return ok
}

func (b *BubbleEmitter) sway(dt float64) {
	if b.params.Sway == 0 {
		return
	}
	s := b.params.SwayScale
	for _, h := range b.pool.ActiveResources() {
		pos, _ := b.pool.Position(h)
		nx := b.noise.Eval3(pos.X*s, pos.Y*s, b.clock)
		nz := b.noise.Eval3(pos.Z*s+31.7, pos.Y*s, b.clock)
		b.pool.Displace(h, r3.Vec{X: nx * b.params.Sway * dt, Z: nz * b.params.Sway * dt})
	}
}
