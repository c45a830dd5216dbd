// Package renderer draws the tank scene with raylib primitives.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// WaterBackground renders a slowly shifting vertical gradient behind the
// tank.
type WaterBackground struct {
	width  float32
	height float32
	top    rl.Color
	bottom rl.Color
}

// NewWaterBackground creates a new water background renderer.
func NewWaterBackground(width, height int32) *WaterBackground {
	return &WaterBackground{
		width:  float32(width),
		height: float32(height),
		top:    rl.Color{R: 24, G: 92, B: 120, A: 255},
		bottom: rl.Color{R: 4, G: 22, B: 38, A: 255},
	}
}

// Resize updates the screen dimensions.
func (w *WaterBackground) Resize(width, height float32) {
	w.width = width
	w.height = height
}

// Draw renders the gradient. time is in seconds.
func (w *WaterBackground) Draw(time float32) {
	top := shade(w.top, 1+0.06*float32(math.Sin(float64(time)*0.3)))
	rl.DrawRectangleGradientV(0, 0, int32(w.width), int32(w.height), top, w.bottom)
}

// shade scales the RGB channels of c by f, saturating at 255.
func shade(c rl.Color, f float32) rl.Color {
	scale := func(v uint8) uint8 {
		return uint8(min(max(float32(v)*f, 0), 255))
	}
	return rl.Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}
