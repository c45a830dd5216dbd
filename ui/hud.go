package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds everything the heads-up display shows.
type HUDData struct {
	Title     string
	Fish      int
	Seeking   int
	Resting   int
	Pellets   int
	PelletCap int
	Bubbles   int
	Meals     int
	Tick      int32
	SimTime   float64
	Speed     int
	FPS       int32
	Paused    bool
	Quality   string
	Policy    string
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Fields returns the tank stats panel lines for data.
func (h *HUD) Fields(data HUDData) []FieldDescriptor {
	fill := 0.0
	if data.PelletCap > 0 {
		fill = float64(data.Pellets) / float64(data.PelletCap)
	}
	return []FieldDescriptor{
		{Label: "Fish", Value: float64(data.Fish)},
		{Label: "Seeking", Value: float64(data.Seeking)},
		{Label: "Resting", Value: float64(data.Resting)},
		{Label: "Pellets", Value: float64(data.Pellets)},
		{Label: "Pool fill", Bar: true, Value: fill},
		{Label: "Bubbles", Value: float64(data.Bubbles)},
		{Label: "Meals", Value: float64(data.Meals)},
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.RayWhite)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Quality: %s | Eviction: %s", data.Quality, data.Policy),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	h.renderer.DrawSection(10, 100, 220, "Tank", h.Fields(data))
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
