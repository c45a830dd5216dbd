package renderer

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestFishForward(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float64
		want       r3.Vec
	}{
		{"plus x", 0, 0, r3.Vec{X: 1}},
		{"plus z", math.Pi / 2, 0, r3.Vec{Z: 1}},
		{"minus x", math.Pi, 0, r3.Vec{X: -1}},
		{"straight up", 0, math.Pi / 2, r3.Vec{Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FishForward(tt.yaw, tt.pitch)
			if r3.Norm(r3.Sub(got, tt.want)) > 1e-9 {
				t.Errorf("FishForward(%v, %v) = %v, want %v", tt.yaw, tt.pitch, got, tt.want)
			}
		})
	}
}

func TestPelletScale(t *testing.T) {
	if got := PelletScale(1, 0, true); math.Abs(got-1) > 1e-9 {
		t.Errorf("fresh pellet at t=0 scale = %v, want 1", got)
	}
	if got := PelletScale(0, 0, true); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("expiring pellet scale = %v, want 0.5", got)
	}
	if got := PelletScale(0, 0, false); math.Abs(got-1) > 1e-9 {
		t.Errorf("no fade scale = %v, want 1", got)
	}
	for _, tm := range []float64{0, 0.3, 1, 2.5, 10} {
		s := PelletScale(0.5, tm, true)
		if s < 0.75*0.88-1e-9 || s > 0.75*1.12+1e-9 {
			t.Errorf("PelletScale(0.5, %v) = %v outside pulse band", tm, s)
		}
	}
}

func TestShade(t *testing.T) {
	c := rl.Color{R: 200, G: 100, B: 10, A: 77}
	got := shade(c, 2)
	if got.R != 255 || got.G != 200 || got.B != 20 || got.A != 77 {
		t.Errorf("shade(x2) = %+v", got)
	}
	got = shade(c, 0.5)
	if got.R != 100 || got.G != 50 || got.B != 5 {
		t.Errorf("shade(x0.5) = %+v", got)
	}
}

func TestV3(t *testing.T) {
	got := V3(r3.Vec{X: 1.5, Y: -2, Z: 3})
	if got != (rl.Vector3{X: 1.5, Y: -2, Z: 3}) {
		t.Errorf("V3 = %+v", got)
	}
}
