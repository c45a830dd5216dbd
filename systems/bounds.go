package systems

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds is an axis-aligned swim volume described by its center and half
// extents. Extents are never negative.
type Bounds struct {
	Center  r3.Vec
	Extents r3.Vec
}

// NewBounds validates and returns a bounds volume.
func NewBounds(center, extents r3.Vec) (Bounds, error) {
	if extents.X < 0 || extents.Y < 0 || extents.Z < 0 {
		return Bounds{}, fmt.Errorf("bounds extents must be >= 0, got %v", extents)
	}
	if math.IsNaN(extents.X + extents.Y + extents.Z + center.X + center.Y + center.Z) {
		return Bounds{}, fmt.Errorf("bounds contain NaN: center %v extents %v", center, extents)
	}
	return Bounds{Center: center, Extents: extents}, nil
}

// Min returns the lowest corner.
func (b Bounds) Min() r3.Vec {
	return r3.Sub(b.Center, b.Extents)
}

// Max returns the highest corner.
func (b Bounds) Max() r3.Vec {
	return r3.Add(b.Center, b.Extents)
}

// Size returns the full edge lengths.
func (b Bounds) Size() r3.Vec {
	return r3.Scale(2, b.Extents)
}

// Contains reports whether p lies inside or on the volume.
func (b Bounds) Contains(p r3.Vec) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

// Clamp returns the point of the volume closest to p.
func (b Bounds) Clamp(p r3.Vec) r3.Vec {
	lo, hi := b.Min(), b.Max()
	return r3.Vec{
		X: clampFloat(p.X, lo.X, hi.X),
		Y: clampFloat(p.Y, lo.Y, hi.Y),
		Z: clampFloat(p.Z, lo.Z, hi.Z),
	}
}

// Shrink returns the volume inset by margin on every face.
// Axes thinner than 2*margin collapse onto the center plane.
func (b Bounds) Shrink(margin float64) Bounds {
	return Bounds{
		Center: b.Center,
		Extents: r3.Vec{
			X: math.Max(0, b.Extents.X-margin),
			Y: math.Max(0, b.Extents.Y-margin),
			Z: math.Max(0, b.Extents.Z-margin),
		},
	}
}

// RandomPoint returns a uniformly distributed point inside the volume.
func (b Bounds) RandomPoint(rng *rand.Rand) r3.Vec {
	return r3.Vec{
		X: b.Center.X + b.Extents.X*uniform(rng, -1, 1),
		Y: b.Center.Y + b.Extents.Y*uniform(rng, -1, 1),
		Z: b.Center.Z + b.Extents.Z*uniform(rng, -1, 1),
	}
}

// AvoidFaces forces dir to point inward on every axis where pos is within
// margin of a face. Only the sign of each component changes.
func (b Bounds) AvoidFaces(pos, dir r3.Vec, margin float64) r3.Vec {
	lo, hi := b.Min(), b.Max()
	if pos.X > hi.X-margin {
		dir.X = -math.Abs(dir.X)
	}
	if pos.X < lo.X+margin {
		dir.X = math.Abs(dir.X)
	}
	if pos.Y > hi.Y-margin {
		dir.Y = -math.Abs(dir.Y)
	}
	if pos.Y < lo.Y+margin {
		dir.Y = math.Abs(dir.Y)
	}
	if pos.Z > hi.Z-margin {
		dir.Z = -math.Abs(dir.Z)
	}
	if pos.Z < lo.Z+margin {
		dir.Z = math.Abs(dir.Z)
	}
	return dir
}
