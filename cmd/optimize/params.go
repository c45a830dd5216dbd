package main

import (
	"github.com/pthm-cable/aquarium/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable fish parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "speed", Path: "fish.speed", Min: 0.8, Max: 3.0, Default: 1.6},
			{Name: "turn_rate", Path: "fish.turn_rate", Min: 0.5, Max: 5.0, Default: 1.8},
			{Name: "detection_radius", Path: "fish.detection_radius", Min: 1.5, Max: 8.0, Default: 4.5},
			{Name: "pursuit_acceleration", Path: "fish.pursuit_acceleration", Min: 1.0, Max: 2.0, Default: 1.25},
			{Name: "wander_jitter", Path: "fish.wander_jitter", Min: 0.0, Max: 2.0, Default: 0.6},
			{Name: "recenter_interval", Path: "fish.recenter_interval", Min: 1.0, Max: 12.0, Default: 6.0},
			// resume_delay_max is resume_delay_min + resume_delay_span
			{Name: "resume_delay_min", Path: "fish.resume_delay_min", Min: 0.0, Max: 2.0, Default: 0.5},
			{Name: "resume_delay_span", Path: "fish.resume_delay_max", Min: 0.0, Max: 2.0, Default: 1.0},
			{Name: "boundary_margin", Path: "fish.boundary_margin", Min: 0.5, Max: 3.0, Default: 1.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	f := &cfg.Fish
	f.Speed = c[0]
	f.TurnRate = c[1]
	f.DetectionRadius = c[2]
	f.PursuitAcceleration = c[3]
	f.WanderJitter = c[4]
	f.RecenterInterval = c[5]
	f.ResumeDelayMin = c[6]
	f.ResumeDelayMax = c[6] + c[7]
	f.BoundaryMargin = c[8]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	f := cfg.Fish
	return []float64{
		f.Speed,
		f.TurnRate,
		f.DetectionRadius,
		f.PursuitAcceleration,
		f.WanderJitter,
		f.RecenterInterval,
		f.ResumeDelayMin,
		f.ResumeDelayMax - f.ResumeDelayMin,
		f.BoundaryMargin,
	}
}
