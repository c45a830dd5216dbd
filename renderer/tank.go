package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

// V3 converts a simulation vector to raylib's float32 vector.
func V3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// TankRenderer draws the glass volume and the sand floor.
type TankRenderer struct {
	Glass rl.Color
	Sand  rl.Color
}

// NewTankRenderer creates a tank renderer with the default palette.
func NewTankRenderer() *TankRenderer {
	return &TankRenderer{
		Glass: rl.Color{R: 150, G: 210, B: 230, A: 120},
		Sand:  rl.Color{R: 180, G: 160, B: 110, A: 255},
	}
}

// DrawFloor draws the sand at the bottom face. Call inside BeginMode3D.
func (t *TankRenderer) DrawFloor(center, extents r3.Vec) {
	floor := center
	floor.Y -= extents.Y
	rl.DrawPlane(V3(floor), rl.Vector2{X: float32(2 * extents.X), Y: float32(2 * extents.Z)}, t.Sand)
}

// DrawGlass draws the tank edges. Call inside BeginMode3D.
func (t *TankRenderer) DrawGlass(center, extents r3.Vec) {
	rl.DrawCubeWiresV(V3(center), V3(r3.Scale(2, extents)), t.Glass)
}
