package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is what the control panel displays.
type ControlsState struct {
	Capacity    int
	MaxCapacity int
	EvictOldest bool
	Qualities   []string
	Quality     string
}

// ControlsAction reports the user's requests from one frame.
type ControlsAction struct {
	DropFood     bool
	TogglePolicy bool
	Capacity     int    // new pellet capacity, -1 = unchanged
	Quality      string // preset to switch to, empty = unchanged
}

// ControlsPanel renders the right-side raygui panel.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition moves the panel, used after a window resize.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the requested actions.
func (c *ControlsPanel) Draw(s ControlsState) ControlsAction {
	act := ControlsAction{Capacity: -1}
	if !c.visible {
		return act
	}

	r := c.renderer
	pad := float32(r.Theme.Padding)
	rows := 5 + len(s.Qualities)
	height := int32(rows)*34 + 2*r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, height)

	x := float32(c.x) + pad
	y := float32(c.y) + pad
	w := float32(c.width) - 2*pad

	rl.DrawText("Controls", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += 24

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 26}, "Drop food") {
		act.DropFood = true
	}
	y += 34

	policy := "Eviction: reject"
	if s.EvictOldest {
		policy = "Eviction: oldest"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 26}, policy) {
		act.TogglePolicy = true
	}
	y += 34

	rl.DrawText(fmt.Sprintf("Pellet capacity: %d", s.Capacity), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 16
	newCap := gui.SliderBar(
		rl.Rectangle{X: x + 20, Y: y, Width: w - 50, Height: 16},
		"0", fmt.Sprint(s.MaxCapacity),
		float32(s.Capacity), 0, float32(s.MaxCapacity),
	)
	if n := int(newCap + 0.5); n != s.Capacity {
		act.Capacity = n
	}
	y += 34

	for _, q := range s.Qualities {
		label := "Quality: " + q
		if q == s.Quality {
			label = "> " + label
		}
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: 26}, label) && q != s.Quality {
			act.Quality = q
		}
		y += 34
	}
	return act
}
