package game

import rl "github.com/gen2brain/raylib-go/raylib"

// feedDistance is how far in front of the camera food is dropped.
const feedDistance = 6.0

// maxStepsPerUpdate caps the viewer's fast-forward.
const maxStepsPerUpdate = 10

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.dropFoodAhead()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.orbit.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.orbit.Reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.hud.controls.Toggle()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	// Number keys pick quality presets in config order
	for i, q := range g.cfg.Quality {
		if i > 8 {
			break
		}
		if rl.IsKeyPressed(int32(rl.KeyOne)+int32(i)) && q.Name != g.quality {
			if err := g.SetQuality(q.Name); err != nil {
				logError("failed to switch quality", err)
			}
		}
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		g.hud.overlays.HandleKeyPress(key)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.hud.screenWidth && h == g.hud.screenHeight {
		return
	}
	g.hud.screenWidth = w
	g.hud.screenHeight = h
	g.hud.water.Resize(w, h)
	g.hud.controls.SetPosition(int32(w)-230, 10)
}
