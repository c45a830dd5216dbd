// Package ui draws the viewer's 2D layer: the HUD, the raygui control panel
// and the overlay toggles.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// FieldDescriptor defines one line of a stats panel.
type FieldDescriptor struct {
	Label  string
	Format string  // Printf format for the value
	Bar    bool    // draw as a [0, 1] bar instead of text
	Value  float64 // current value
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 10, G: 24, B: 36, A: 220},
		PanelBorder:    rl.Color{R: 50, G: 90, B: 110, A: 255},
		SectionHeader:  rl.Color{R: 140, G: 220, B: 230, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 30, G: 40, B: 50, A: 255},
		BarFill:        rl.Color{R: 230, G: 170, B: 80, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
