package ui

import (
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayDefaults(t *testing.T) {
	reg := NewOverlayRegistry()

	tests := []struct {
		id   OverlayID
		want bool
	}{
		{OverlayBounds, true},
		{OverlayBubbles, true},
		{OverlayPelletLifetime, true},
		{OverlayDetection, false},
		{OverlayTargets, false},
		{OverlayWanderTargets, false},
		{OverlayHeadings, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := reg.IsEnabled(tt.id); got != tt.want {
				t.Errorf("IsEnabled(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	reg.SetEnabled(OverlayWanderTargets, true)
	if !reg.Toggle(OverlayHeadings) {
		t.Fatal("headings should be enabled after toggle")
	}
	if reg.IsEnabled(OverlayWanderTargets) {
		t.Error("enabling headings should disable wander targets")
	}

	if reg.Toggle(OverlayHeadings) {
		t.Error("second toggle should disable headings")
	}
	if reg.Toggle("missing") {
		t.Error("unknown overlay should not toggle")
	}
}

func TestOverlayKeyPress(t *testing.T) {
	reg := NewOverlayRegistry()

	id, on, ok := reg.HandleKeyPress(rl.KeyV)
	if !ok || id != OverlayDetection || !on {
		t.Errorf("KeyV = (%s, %v, %v), want (detection, true, true)", id, on, ok)
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not toggle anything")
	}

	if n := len(reg.ByCategory("steering")); n != 4 {
		t.Errorf("steering overlays = %d, want 4", n)
	}
	if !strings.Contains(reg.Legend(), "V: Detection Radius") {
		t.Errorf("legend missing detection entry: %q", reg.Legend())
	}
}

func TestHUDFields(t *testing.T) {
	h := NewHUD()
	fields := h.Fields(HUDData{Fish: 12, Pellets: 15, PelletCap: 60})

	var fill FieldDescriptor
	for _, f := range fields {
		if f.Bar {
			fill = f
		}
	}
	if fill.Value != 0.25 {
		t.Errorf("pool fill = %v, want 0.25", fill.Value)
	}

	fields = h.Fields(HUDData{})
	for _, f := range fields {
		if f.Bar && f.Value != 0 {
			t.Errorf("zero capacity fill = %v, want 0", f.Value)
		}
	}
}
