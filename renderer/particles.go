package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

// ResourceSprite is one pellet or bubble to draw.
type ResourceSprite struct {
	Position  r3.Vec
	ScaleHint float64 // remaining life fraction
}

// ParticleRenderer draws pellets and bubbles.
type ParticleRenderer struct {
	PelletRadius float32
	BubbleRadius float32
	Pellet       rl.Color
	Bubble       rl.Color
	Fade         bool // shrink pellets as they age
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{
		PelletRadius: 0.09,
		BubbleRadius: 0.05,
		Pellet:       rl.Color{R: 220, G: 140, B: 60, A: 255},
		Bubble:       rl.Color{R: 210, G: 240, B: 255, A: 110},
		Fade:         true,
	}
}

// PelletScale returns the draw scale for a pellet with the given remaining
// life fraction at time t. Pellets pulse gently and shrink toward half size
// as they expire.
func PelletScale(hint, t float64, fade bool) float64 {
	pulse := 1 + 0.12*math.Sin(t*5)
	if !fade {
		return pulse
	}
	return pulse * (0.5 + 0.5*min(max(hint, 0), 1))
}

// DrawPellets renders pellets. Call inside BeginMode3D.
func (r *ParticleRenderer) DrawPellets(pellets []ResourceSprite, t float64) {
	for i := range pellets {
		p := &pellets[i]
		radius := float32(PelletScale(p.ScaleHint, t+float64(i)*0.7, r.Fade)) * r.PelletRadius
		rl.DrawSphereEx(V3(p.Position), radius, 6, 6, r.Pellet)
	}
}

// DrawBubbles renders bubbles, fading out near the end of their life.
func (r *ParticleRenderer) DrawBubbles(bubbles []ResourceSprite) {
	for i := range bubbles {
		b := &bubbles[i]
		c := r.Bubble
		c.A = uint8(float64(c.A) * min(1, 0.3+b.ScaleHint))
		rl.DrawSphereEx(V3(b.Position), r.BubbleRadius, 5, 5, c)
	}
}
