// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Eviction policy names accepted by pellet.eviction_policy.
const (
	EvictOldest = "oldest"
	EvictReject = "reject"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Tank      TankConfig      `yaml:"tank"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Fish      FishConfig      `yaml:"fish"`
	Pellet    PelletConfig    `yaml:"pellet"`
	Bubble    BubbleConfig    `yaml:"bubble"`
	Feeder    FeederConfig    `yaml:"feeder"`
	Camera    CameraConfig    `yaml:"camera"`
	Quality   []QualityConfig `yaml:"quality"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Vec3 is a YAML-friendly 3D vector.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// R3 converts to a gonum vector.
func (v Vec3) R3() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TankConfig describes the swim volume.
// The tank floor sits at Center.Y - Size.Y/2.
type TankConfig struct {
	Bounded bool `yaml:"bounded"` // false = fish wander around themselves, no walls
	Center  Vec3 `yaml:"center"`
	Size    Vec3 `yaml:"size"` // full edge lengths
}

// PhysicsConfig holds timestep parameters.
type PhysicsConfig struct {
	DT       float64 `yaml:"dt"`        // fixed step used by headless runs
	MinDelta float64 `yaml:"min_delta"` // frame delta clamp applied by the viewer
	MaxDelta float64 `yaml:"max_delta"`
}

// ClampDelta bounds a frame delta to [MinDelta, MaxDelta].
// Frame hitches and backgrounded windows otherwise produce huge steps.
func (p PhysicsConfig) ClampDelta(d float64) float64 {
	if math.IsNaN(d) || d < p.MinDelta {
		return p.MinDelta
	}
	if d > p.MaxDelta {
		return p.MaxDelta
	}
	return d
}

// FishConfig holds agent steering parameters.
type FishConfig struct {
	Count               int     `yaml:"count"`
	Speed               float64 `yaml:"speed"`
	SpeedVarianceMin    float64 `yaml:"speed_variance_min"` // per-fish speed multiplier range
	SpeedVarianceMax    float64 `yaml:"speed_variance_max"`
	TurnRate            float64 `yaml:"turn_rate"` // max steering change per second
	WanderRadius        float64 `yaml:"wander_radius"`
	WanderJitter        float64 `yaml:"wander_jitter"`
	VerticalJitter      float64 `yaml:"vertical_jitter"` // scales the Y component of jitter
	RecenterInterval    float64 `yaml:"recenter_interval"`
	ArrivalTolerance    float64 `yaml:"arrival_tolerance"`
	DetectionRadius     float64 `yaml:"detection_radius"`
	EatDistance         float64 `yaml:"eat_distance"`
	PursuitAcceleration float64 `yaml:"pursuit_acceleration"`
	MinSpeedFactor      float64 `yaml:"min_speed_factor"`
	MaxSpeedFactor      float64 `yaml:"max_speed_factor"`
	BoundaryMargin      float64 `yaml:"boundary_margin"`
	BobAmplitude        float64 `yaml:"bob_amplitude"`
	BobSpeed            float64 `yaml:"bob_speed"` // radians per second
	ResumeDelayMin      float64 `yaml:"resume_delay_min"`
	ResumeDelayMax      float64 `yaml:"resume_delay_max"`
}

// PelletConfig holds food pellet pool parameters.
type PelletConfig struct {
	PoolCapacity   int     `yaml:"pool_capacity"`
	EvictionPolicy string  `yaml:"eviction_policy"` // "oldest" or "reject"
	Lifetime       float64 `yaml:"lifetime"`
	SinkSpeed      float64 `yaml:"sink_speed"`
	SinkResponse   float64 `yaml:"sink_response"` // 1/s, exponential approach to sink speed
	Drift          float64 `yaml:"drift"`
	SpawnJitter    float64 `yaml:"spawn_jitter"`
	PerDrop        int     `yaml:"per_drop"`
	FloorOffset    float64 `yaml:"floor_offset"` // resting height above the tank floor
}

// BubbleConfig holds ambient bubble parameters.
type BubbleConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Capacity       int     `yaml:"capacity"`
	Rate           float64 `yaml:"rate"` // bubbles per second
	RiseSpeed      float64 `yaml:"rise_speed"`
	RiseResponse   float64 `yaml:"rise_response"`
	Spread         float64 `yaml:"spread"`
	LifeMin        float64 `yaml:"life_min"`
	LifeMax        float64 `yaml:"life_max"`
	SpawnHeightMin float64 `yaml:"spawn_height_min"` // above the tank floor
	SpawnHeightMax float64 `yaml:"spawn_height_max"`
	Sway           float64 `yaml:"sway"`
	SwayScale      float64 `yaml:"sway_scale"`
	SurfaceOffset  float64 `yaml:"surface_offset"` // released this far below the top
}

// FeederConfig controls automatic food drops in headless runs.
type FeederConfig struct {
	Interval float64 `yaml:"interval"` // seconds between drops (0 = never)
}

// CameraConfig holds orbit camera parameters for the viewer.
type CameraConfig struct {
	Distance       float64 `yaml:"distance"`
	Height         float64 `yaml:"height"`
	OrbitSpeed     float64 `yaml:"orbit_speed"`
	DriftAmplitude float64 `yaml:"drift_amplitude"`
	Fovy           float64 `yaml:"fovy"`
}

// QualityConfig is a named preset trading visual density for cost.
type QualityConfig struct {
	Name       string `yaml:"name"`
	Fish       int    `yaml:"fish"`
	Bubbles    int    `yaml:"bubbles"`
	PelletPool int    `yaml:"pellet_pool"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds of sim time per window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
// Tank geometry is read from Tank directly since callers mutate it after
// loading.
type DerivedConfig struct {
	QualityIndex map[string]int // name -> index into Quality
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate reports every out-of-range value. Nothing is clamped silently.
func (c *Config) Validate() error {
	var errs []error
	nonNeg := func(name string, v float64) {
		if v < 0 || math.IsNaN(v) {
			errs = append(errs, fmt.Errorf("%s must be >= 0, got %v", name, v))
		}
	}
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %v", name, v))
		}
	}
	ordered := func(lo, hi string, a, b float64) {
		if a > b {
			errs = append(errs, fmt.Errorf("%s (%v) must not exceed %s (%v)", lo, a, hi, b))
		}
	}

	nonNeg("tank.size.x", c.Tank.Size.X)
	nonNeg("tank.size.y", c.Tank.Size.Y)
	nonNeg("tank.size.z", c.Tank.Size.Z)

	positive("physics.dt", c.Physics.DT)
	positive("physics.min_delta", c.Physics.MinDelta)
	ordered("physics.min_delta", "physics.max_delta", c.Physics.MinDelta, c.Physics.MaxDelta)

	f := c.Fish
	if f.Count < 0 {
		errs = append(errs, fmt.Errorf("fish.count must be >= 0, got %d", f.Count))
	}
	positive("fish.speed", f.Speed)
	positive("fish.speed_variance_min", f.SpeedVarianceMin)
	ordered("fish.speed_variance_min", "fish.speed_variance_max", f.SpeedVarianceMin, f.SpeedVarianceMax)
	nonNeg("fish.turn_rate", f.TurnRate)
	nonNeg("fish.wander_radius", f.WanderRadius)
	nonNeg("fish.wander_jitter", f.WanderJitter)
	nonNeg("fish.vertical_jitter", f.VerticalJitter)
	positive("fish.recenter_interval", f.RecenterInterval)
	nonNeg("fish.bob_amplitude", f.BobAmplitude)
	nonNeg("fish.bob_speed", f.BobSpeed)
	nonNeg("fish.arrival_tolerance", f.ArrivalTolerance)
	nonNeg("fish.detection_radius", f.DetectionRadius)
	nonNeg("fish.eat_distance", f.EatDistance)
	positive("fish.pursuit_acceleration", f.PursuitAcceleration)
	nonNeg("fish.min_speed_factor", f.MinSpeedFactor)
	ordered("fish.min_speed_factor", "fish.max_speed_factor", f.MinSpeedFactor, f.MaxSpeedFactor)
	nonNeg("fish.boundary_margin", f.BoundaryMargin)
	nonNeg("fish.resume_delay_min", f.ResumeDelayMin)
	ordered("fish.resume_delay_min", "fish.resume_delay_max", f.ResumeDelayMin, f.ResumeDelayMax)

	p := c.Pellet
	if p.PoolCapacity < 0 {
		errs = append(errs, fmt.Errorf("pellet.pool_capacity must be >= 0, got %d", p.PoolCapacity))
	}
	switch strings.ToLower(p.EvictionPolicy) {
	case EvictOldest, EvictReject:
	default:
		errs = append(errs, fmt.Errorf("pellet.eviction_policy must be %q or %q, got %q", EvictOldest, EvictReject, p.EvictionPolicy))
	}
	positive("pellet.lifetime", p.Lifetime)
	nonNeg("pellet.sink_speed", p.SinkSpeed)
	nonNeg("pellet.sink_response", p.SinkResponse)
	nonNeg("pellet.drift", p.Drift)
	nonNeg("pellet.spawn_jitter", p.SpawnJitter)
	if p.PerDrop < 0 {
		errs = append(errs, fmt.Errorf("pellet.per_drop must be >= 0, got %d", p.PerDrop))
	}

	b := c.Bubble
	if b.Capacity < 0 {
		errs = append(errs, fmt.Errorf("bubble.capacity must be >= 0, got %d", b.Capacity))
	}
	nonNeg("bubble.rate", b.Rate)
	nonNeg("bubble.spread", b.Spread)
	positive("bubble.life_min", b.LifeMin)
	ordered("bubble.life_min", "bubble.life_max", b.LifeMin, b.LifeMax)
	ordered("bubble.spawn_height_min", "bubble.spawn_height_max", b.SpawnHeightMin, b.SpawnHeightMax)

	nonNeg("feeder.interval", c.Feeder.Interval)
	positive("telemetry.stats_window", c.Telemetry.StatsWindow)

	seen := make(map[string]bool, len(c.Quality))
	for i, q := range c.Quality {
		if q.Name == "" {
			errs = append(errs, fmt.Errorf("quality[%d].name is empty", i))
		}
		if seen[q.Name] {
			errs = append(errs, fmt.Errorf("quality[%d].name %q is duplicated", i, q.Name))
		}
		seen[q.Name] = true
		if q.Fish < 0 || q.Bubbles < 0 || q.PelletPool < 0 {
			errs = append(errs, fmt.Errorf("quality[%d] %q has negative counts", i, q.Name))
		}
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Pellet.EvictionPolicy = strings.ToLower(c.Pellet.EvictionPolicy)

	c.Derived.QualityIndex = make(map[string]int, len(c.Quality))
	for i, q := range c.Quality {
		c.Derived.QualityIndex[q.Name] = i
	}
}

// QualityPreset looks up a preset by name.
func (c *Config) QualityPreset(name string) (QualityConfig, bool) {
	i, ok := c.Derived.QualityIndex[name]
	if !ok {
		return QualityConfig{}, false
	}
	return c.Quality[i], true
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
