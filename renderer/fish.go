package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

// FishSprite is everything needed to draw one fish.
type FishSprite struct {
	Position r3.Vec
	Yaw      float64
	Pitch    float64
	Seeking  bool
	Resting  bool
	Hue      float32 // degrees, stable per fish
}

// FishRenderer draws fish as a tapered body with a tail fin.
type FishRenderer struct {
	Length float32
	Girth  float32
}

// NewFishRenderer creates a fish renderer with the default proportions.
func NewFishRenderer() *FishRenderer {
	return &FishRenderer{Length: 0.7, Girth: 0.16}
}

// FishForward returns the unit heading for a yaw and pitch.
// Yaw 0 faces +X and increases toward +Z.
func FishForward(yaw, pitch float64) r3.Vec {
	cp := math.Cos(pitch)
	return r3.Vec{
		X: math.Cos(yaw) * cp,
		Y: math.Sin(pitch),
		Z: math.Sin(yaw) * cp,
	}
}

// Draw renders every fish. Call inside BeginMode3D.
func (r *FishRenderer) Draw(fish []FishSprite) {
	half := float64(r.Length) / 2
	for i := range fish {
		f := &fish[i]
		fwd := FishForward(f.Yaw, f.Pitch)
		nose := r3.Add(f.Position, r3.Scale(half, fwd))
		tail := r3.Sub(f.Position, r3.Scale(half, fwd))
		finTip := r3.Sub(f.Position, r3.Scale(half*1.5, fwd))

		body := rl.ColorFromHSV(f.Hue, 0.65, 0.95)
		if f.Seeking {
			body = rl.ColorFromHSV(f.Hue, 0.9, 1)
		} else if f.Resting {
			body = rl.ColorFromHSV(f.Hue, 0.35, 0.75)
		}

		rl.DrawCylinderEx(V3(tail), V3(f.Position), r.Girth*0.35, r.Girth, 8, body)
		rl.DrawCylinderEx(V3(f.Position), V3(nose), r.Girth, r.Girth*0.3, 8, body)
		rl.DrawCylinderEx(V3(finTip), V3(tail), r.Girth*0.9, 0.01, 4, shade(body, 0.8))
	}
}

// DrawDetection draws each fish's detection radius as a horizontal ring.
func (r *FishRenderer) DrawDetection(fish []FishSprite, radius float64) {
	for i := range fish {
		rl.DrawCircle3D(V3(fish[i].Position), float32(radius), rl.Vector3{X: 1}, 90, rl.Color{R: 255, G: 255, B: 255, A: 50})
	}
}

// DrawLine draws a guide line between two points, for chase and wander
// overlays.
func DrawLine(from, to r3.Vec, c rl.Color) {
	rl.DrawLine3D(V3(from), V3(to), c)
}
