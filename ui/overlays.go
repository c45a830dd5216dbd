package ui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayBounds         OverlayID = "bounds"
	OverlayDetection      OverlayID = "detection"
	OverlayTargets        OverlayID = "targets"
	OverlayWanderTargets  OverlayID = "wander_targets"
	OverlayHeadings       OverlayID = "headings"
	OverlayBubbles        OverlayID = "bubbles"
	OverlayPelletLifetime OverlayID = "pellet_lifetime"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32  // keyboard key to toggle (0 = no key)
	KeyLabel  string // e.g. "B"
	Category  string
	Default   bool
	Exclusive []OverlayID // disabled when this one is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID: OverlayBounds, Name: "Tank Bounds", Key: rl.KeyB, KeyLabel: "B",
		Category: "tank", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayBubbles, Name: "Bubbles", Key: rl.KeyU, KeyLabel: "U",
		Category: "tank", Default: true,
	})
	r.Register(OverlayDescriptor{
		ID: OverlayPelletLifetime, Name: "Pellet Fade", Key: rl.KeyL, KeyLabel: "L",
		Category: "tank", Default: true,
	})

	r.Register(OverlayDescriptor{
		ID: OverlayDetection, Name: "Detection Radius", Key: rl.KeyV, KeyLabel: "V",
		Category: "steering",
	})
	r.Register(OverlayDescriptor{
		ID: OverlayTargets, Name: "Chase Lines", Key: rl.KeyT, KeyLabel: "T",
		Category: "steering",
	})
	r.Register(OverlayDescriptor{
		ID: OverlayWanderTargets, Name: "Wander Targets", Key: rl.KeyW, KeyLabel: "W",
		Category: "steering",
	})
	r.Register(OverlayDescriptor{
		ID: OverlayHeadings, Name: "Desired Heading", Key: rl.KeyH, KeyLabel: "H",
		Category: "steering", Exclusive: []OverlayID{OverlayWanderTargets},
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID, its new state and whether a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// Legend returns "key name" pairs for the controls line.
func (r *OverlayRegistry) Legend() string {
	var parts []string
	for _, desc := range r.descriptors {
		if desc.Key != 0 {
			parts = append(parts, desc.KeyLabel+": "+desc.Name)
		}
	}
	return strings.Join(parts, " | ")
}
