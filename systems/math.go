package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// epsilon below which a vector is treated as zero length.
const epsilon = 1e-9

// clampFloat clamps v between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// Unit returns v scaled to length 1, or the zero vector when v has no length.
// r3.Unit yields NaNs for the zero vector, which must never reach a position.
func Unit(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < epsilon {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// ClampLength limits the magnitude of v to maxLen.
func ClampLength(v r3.Vec, maxLen float64) r3.Vec {
	if maxLen <= 0 {
		return r3.Vec{}
	}
	n := r3.Norm(v)
	if n <= maxLen {
		return v
	}
	return r3.Scale(maxLen/n, v)
}

// ClampSpeed keeps the magnitude of v inside [minLen, maxLen].
// A zero vector is pushed along fallback so a fish never stalls. A slow
// vector pointing away from fallback turns onto it instead of being
// stretched back up to speed in the wrong direction.
func ClampSpeed(v, fallback r3.Vec, minLen, maxLen float64) r3.Vec {
	n := r3.Norm(v)
	if n < epsilon {
		return r3.Scale(minLen, Unit(fallback))
	}
	switch {
	case n < minLen:
		if r3.Dot(v, fallback) < 0 {
			return r3.Scale(minLen, Unit(fallback))
		}
		return r3.Scale(minLen/n, v)
	case n > maxLen:
		return r3.Scale(maxLen/n, v)
	}
	return v
}

// Orientation derives yaw and pitch (radians) from a velocity.
// Yaw is measured in the XZ plane from +X toward +Z.
func Orientation(vel r3.Vec) (yaw, pitch float64) {
	u := Unit(vel)
	if u == (r3.Vec{}) {
		return 0, 0
	}
	yaw = math.Atan2(u.Z, u.X)
	pitch = math.Asin(clampFloat(u.Y, -0.99, 0.99))
	return yaw, pitch
}

// uniform returns a value in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// insideUnitSphere returns a uniformly distributed point in the unit ball.
func insideUnitSphere(rng *rand.Rand) r3.Vec {
	for {
		p := r3.Vec{X: uniform(rng, -1, 1), Y: uniform(rng, -1, 1), Z: uniform(rng, -1, 1)}
		if r3.Norm2(p) <= 1 {
			return p
		}
	}
}
