package game

import "gonum.org/v1/gonum/spatial/r3"

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func r3Down(speed float64) r3.Vec { return r3.Vec{Y: -speed} }
func r3Up(speed float64) r3.Vec   { return r3.Vec{Y: speed} }
