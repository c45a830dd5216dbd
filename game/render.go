package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/renderer"
	"github.com/pthm-cable/aquarium/systems"
	"github.com/pthm-cable/aquarium/ui"
)

// hudState holds the viewer's renderers and widgets.
type hudState struct {
	screenWidth  float32
	screenHeight float32
	frames       int

	water     *renderer.WaterBackground
	tank      *renderer.TankRenderer
	fish      *renderer.FishRenderer
	particles *renderer.ParticleRenderer

	hud      *ui.HUD
	controls *ui.ControlsPanel
	overlays *ui.OverlayRegistry

	fishSprites []renderer.FishSprite
	resSprites  []renderer.ResourceSprite
}

// initViewer builds the renderers. Call after the raylib window exists.
func (g *Game) initViewer() {
	w := float32(g.cfg.Screen.Width)
	h := float32(g.cfg.Screen.Height)
	g.hud = hudState{
		screenWidth:  w,
		screenHeight: h,
		water:        renderer.NewWaterBackground(int32(w), int32(h)),
		tank:         renderer.NewTankRenderer(),
		fish:         renderer.NewFishRenderer(),
		particles:    renderer.NewParticleRenderer(),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(int32(w)-230, 10, 220),
		overlays:     ui.NewOverlayRegistry(),
	}
}

// Update advances one rendered frame: input, camera, then the simulation
// with the clamped frame delta.
func (g *Game) Update() {
	g.handleInput()

	dt := g.cfg.Physics.ClampDelta(float64(rl.GetFrameTime()))
	g.orbit.Update(dt)
	if !g.paused {
		for range g.stepsPerUpdate {
			g.Tick(dt)
		}
	}

	g.perfCollector.RecordFrame()
	g.hud.frames++
	if g.logStats && g.hud.frames%600 == 0 {
		g.logPerfStats()
	}
}

func (g *Game) camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   renderer.V3(g.orbit.Position()),
		Target:     renderer.V3(g.orbit.Target),
		Up:         rl.Vector3{Y: 1},
		Fovy:       float32(g.orbit.Fovy),
		Projection: rl.CameraPerspective,
	}
}

// Draw renders the tank and the UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	g.hud.water.Draw(float32(g.simTime))

	rl.BeginMode3D(g.camera3D())
	g.drawScene()
	rl.EndMode3D()

	g.drawUI()
	rl.EndDrawing()
}

func (g *Game) drawScene() {
	ov := g.hud.overlays
	b := g.bounds

	g.hud.tank.DrawFloor(b.Center, b.Extents)

	g.hud.fishSprites = g.hud.fishSprites[:0]
	for _, a := range g.AgentSnapshots() {
		g.hud.fishSprites = append(g.hud.fishSprites, renderer.FishSprite{
			Position: a.Position,
			Yaw:      a.Yaw,
			Pitch:    a.Pitch,
			Seeking:  a.State == components.StateSeek,
			Resting:  a.Resting,
			Hue:      float32((a.ID * 47) % 360),
		})
	}
	g.hud.fish.Draw(g.hud.fishSprites)

	if ov.IsEnabled(ui.OverlayDetection) {
		g.hud.fish.DrawDetection(g.hud.fishSprites, g.cfg.Fish.DetectionRadius)
	}
	if ov.IsEnabled(ui.OverlayTargets) || ov.IsEnabled(ui.OverlayWanderTargets) || ov.IsEnabled(ui.OverlayHeadings) {
		g.drawSteeringGuides(ov)
	}

	g.hud.particles.Fade = ov.IsEnabled(ui.OverlayPelletLifetime)
	g.hud.particles.DrawPellets(g.sprites(g.ResourceSnapshots()), g.simTime)
	if ov.IsEnabled(ui.OverlayBubbles) {
		g.hud.particles.DrawBubbles(g.sprites(g.BubbleSnapshots()))
	}

	if ov.IsEnabled(ui.OverlayBounds) {
		g.hud.tank.DrawGlass(b.Center, b.Extents)
	}
}

func (g *Game) sprites(snaps []ResourceSnapshot) []renderer.ResourceSprite {
	g.hud.resSprites = g.hud.resSprites[:0]
	for _, s := range snaps {
		g.hud.resSprites = append(g.hud.resSprites, renderer.ResourceSprite{Position: s.Position, ScaleHint: s.ScaleHint})
	}
	return g.hud.resSprites
}

func (g *Game) drawSteeringGuides(ov *ui.OverlayRegistry) {
	chase := rl.Color{R: 255, G: 200, B: 90, A: 200}
	wander := rl.Color{R: 120, G: 200, B: 255, A: 140}
	heading := rl.Color{R: 255, G: 255, B: 255, A: 160}

	for _, e := range g.agents {
		pos := g.posMap.Get(e).Vec
		st := g.steerMap.Get(e)

		if ov.IsEnabled(ui.OverlayTargets) && st.State == components.StateSeek {
			if target, ok := g.pellets.Position(st.Target); ok {
				renderer.DrawLine(pos, target, chase)
			}
		}
		if ov.IsEnabled(ui.OverlayWanderTargets) && st.HasWanderTarget {
			renderer.DrawLine(pos, st.WanderTarget, wander)
		}
		if ov.IsEnabled(ui.OverlayHeadings) {
			renderer.DrawLine(pos, r3.Add(pos, st.Desired), heading)
		}
	}
}

func (g *Game) drawUI() {
	pop, _ := g.census()
	data := ui.HUDData{
		Title:     "Aquarium",
		Fish:      pop.Fish,
		Seeking:   pop.Seeking,
		Resting:   pop.Resting,
		Pellets:   pop.Pellets,
		PelletCap: pop.PelletCap,
		Bubbles:   pop.Bubbles,
		Meals:     g.ledger.TotalMeals(),
		Tick:      g.tick,
		SimTime:   g.simTime,
		Speed:     g.stepsPerUpdate,
		FPS:       rl.GetFPS(),
		Paused:    g.paused,
		Quality:   g.quality,
		Policy:    g.pellets.Policy().String(),
	}
	g.hud.hud.Draw(data)

	qualities := make([]string, 0, len(g.cfg.Quality))
	for _, q := range g.cfg.Quality {
		qualities = append(qualities, q.Name)
	}
	act := g.hud.controls.Draw(ui.ControlsState{
		Capacity:    g.pellets.Capacity(),
		MaxCapacity: max(2*g.cfg.Pellet.PoolCapacity, 10),
		EvictOldest: g.pellets.Policy() == systems.EvictOldest,
		Qualities:   qualities,
		Quality:     g.quality,
	})
	g.applyControls(act)

	g.hud.hud.DrawControls(int32(g.hud.screenHeight),
		"Space: Drop food | P: Pause | C: Orbit | R: Reset view | </>: Speed | Tab: Panel | "+g.hud.overlays.Legend())
}

// applyControls performs the panel's requests after drawing.
func (g *Game) applyControls(act ui.ControlsAction) {
	if act.DropFood {
		g.dropFoodAhead()
	}
	if act.TogglePolicy {
		p := systems.EvictReject
		if g.pellets.Policy() == systems.EvictReject {
			p = systems.EvictOldest
		}
		g.ConfigureEvictionPolicy(p)
	}
	if act.Capacity >= 0 && act.Capacity != g.pellets.Capacity() {
		if err := g.ConfigurePoolCapacity(act.Capacity); err != nil {
			logError("failed to resize pellet pool", err)
		}
	}
	if act.Quality != "" {
		if err := g.SetQuality(act.Quality); err != nil {
			logError("failed to switch quality", err)
		}
	}
}

// dropFoodAhead drops food in front of the camera.
func (g *Game) dropFoodAhead() {
	placed := g.DropFood(g.orbit.PointAhead(feedDistance))
	slog.Debug("food dropped", "placed", placed, "pellets", g.pellets.Len())
}
