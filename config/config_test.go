package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("embedded defaults invalid: %v", err)
	}
	if cfg.Pellet.EvictionPolicy != EvictOldest {
		t.Errorf("eviction policy = %q, want %q", cfg.Pellet.EvictionPolicy, EvictOldest)
	}
	if cfg.Fish.ResumeDelayMin != 0.5 || cfg.Fish.ResumeDelayMax != 1.5 {
		t.Errorf("resume delay = [%v, %v], want [0.5, 1.5]", cfg.Fish.ResumeDelayMin, cfg.Fish.ResumeDelayMax)
	}

	if cfg.Fish.BobAmplitude != 0.05 || cfg.Fish.BobSpeed != 0.3 {
		t.Errorf("bob = %v at %v rad/s, want 0.05 at 0.3", cfg.Fish.BobAmplitude, cfg.Fish.BobSpeed)
	}
	if len(cfg.Derived.QualityIndex) != len(cfg.Quality) {
		t.Errorf("quality index has %d entries, want %d", len(cfg.Derived.QualityIndex), len(cfg.Quality))
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	overlay := `
fish:
  count: 3
pellet:
  eviction_policy: REJECT
`
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fish.Count != 3 {
		t.Errorf("fish.count = %d, want 3", cfg.Fish.Count)
	}
	if cfg.Fish.Speed != 1.6 {
		t.Errorf("fish.speed = %v, want default 1.6 kept", cfg.Fish.Speed)
	}
	if cfg.Pellet.EvictionPolicy != EvictReject {
		t.Errorf("eviction policy = %q, want normalized %q", cfg.Pellet.EvictionPolicy, EvictReject)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file: expected error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("fish: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("malformed yaml: expected error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("pellet:\n  pool_capacity: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(invalid)
	if err == nil || !strings.Contains(err.Error(), "pellet.pool_capacity") {
		t.Errorf("negative capacity: err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative fish", func(c *Config) { c.Fish.Count = -1 }, "fish.count"},
		{"zero speed", func(c *Config) { c.Fish.Speed = 0 }, "fish.speed"},
		{"resume delay order", func(c *Config) { c.Fish.ResumeDelayMin = 2 }, "fish.resume_delay_min"},
		{"unknown policy", func(c *Config) { c.Pellet.EvictionPolicy = "newest" }, "pellet.eviction_policy"},
		{"zero lifetime", func(c *Config) { c.Pellet.Lifetime = 0 }, "pellet.lifetime"},
		{"bubble life order", func(c *Config) { c.Bubble.LifeMax = 1 }, "bubble.life_min"},
		{"negative tank", func(c *Config) { c.Tank.Size.Y = -1 }, "tank.size.y"},
		{"duplicate quality", func(c *Config) { c.Quality = append(c.Quality, c.Quality[0]) }, "duplicated"},
		{"zero window", func(c *Config) { c.Telemetry.StatsWindow = 0 }, "telemetry.stats_window"},
		{"negative bob", func(c *Config) { c.Fish.BobAmplitude = -0.1 }, "fish.bob_amplitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Defaults()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Fish.Speed = -1
	cfg.Pellet.PerDrop = -1

	msg := cfg.Validate().Error()
	for _, field := range []string{"fish.speed", "pellet.per_drop"} {
		if !strings.Contains(msg, field) {
			t.Errorf("error %q missing %s", msg, field)
		}
	}
}

func TestClampDelta(t *testing.T) {
	p := PhysicsConfig{MinDelta: 0.001, MaxDelta: 0.05}
	tests := []struct {
		in, want float64
	}{
		{0.016, 0.016},
		{0, 0.001},
		{-1, 0.001},
		{2, 0.05},
	}
	for _, tt := range tests {
		if got := p.ClampDelta(tt.in); got != tt.want {
			t.Errorf("ClampDelta(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestQualityPreset(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	q, ok := cfg.QualityPreset("calm")
	if !ok {
		t.Fatal("calm preset missing")
	}
	if q.Fish != 7 || q.Bubbles != 60 || q.PelletPool != 40 {
		t.Errorf("calm = %+v", q)
	}
	if _, ok := cfg.QualityPreset("ultra"); ok {
		t.Error("unknown preset reported found")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Fish.DetectionRadius = 6.25
	cfg.Tank.Bounded = false

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Fish.DetectionRadius != 6.25 {
		t.Errorf("detection radius = %v, want 6.25", loaded.Fish.DetectionRadius)
	}
	if loaded.Tank.Bounded {
		t.Error("bounded flag not preserved")
	}
}
