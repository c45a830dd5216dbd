package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/telemetry"
)

func TestDefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	got := pv.ExtractFromConfig(cfg)
	want := pv.DefaultVector()
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("%s: config has %v, param default %v", spec.Name, got[i], want[i])
		}
		if want[i] < spec.Min || want[i] > spec.Max {
			t.Errorf("%s: default %v outside [%v, %v]", spec.Name, want[i], spec.Min, spec.Max)
		}
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestApplyClampsAndKeepsDelayOrder(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	v := pv.DefaultVector()
	v[0] = 100 // speed above max
	v[6] = -1  // resume_delay_min below min
	v[7] = 0.5

	pv.ApplyToConfig(cfg, v)

	if cfg.Fish.Speed != pv.Specs[0].Max {
		t.Errorf("speed = %v, want clamped to %v", cfg.Fish.Speed, pv.Specs[0].Max)
	}
	if cfg.Fish.ResumeDelayMin != 0 || cfg.Fish.ResumeDelayMax != 0.5 {
		t.Errorf("resume delays = [%v, %v], want [0, 0.5]", cfg.Fish.ResumeDelayMin, cfg.Fish.ResumeDelayMax)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("applied config invalid: %v", err)
	}
}

func TestComputeScore(t *testing.T) {
	windows := []telemetry.WindowStats{
		{Spawned: 100, Consumed: 100}, // warmup, ignored
		{Spawned: 10, Consumed: 5, Acquired: 8, Abandoned: 2, MealAgeMean: 2},
		{Spawned: 10, Consumed: 5, Acquired: 2, Abandoned: 0, MealAgeMean: 4},
	}
	s := computeScore(windows, 10)

	if math.Abs(s.EatRate-0.5) > 1e-9 {
		t.Errorf("eat rate = %v, want 0.5", s.EatRate)
	}
	if math.Abs(s.AbandonRate-0.2) > 1e-9 {
		t.Errorf("abandon rate = %v, want 0.2", s.AbandonRate)
	}
	if math.Abs(s.MealAge-0.3) > 1e-9 {
		t.Errorf("meal age = %v, want 0.3", s.MealAge)
	}
	want := -0.5 + weightAbandon*0.2 + weightMealAge*0.3
	if math.Abs(s.fitness()-want) > 1e-9 {
		t.Errorf("fitness = %v, want %v", s.fitness(), want)
	}
}

func TestComputeScoreTooShort(t *testing.T) {
	s := computeScore([]telemetry.WindowStats{{Spawned: 5, Consumed: 5}}, 10)
	if s != (score{}) {
		t.Errorf("score = %+v, want zero", s)
	}
}

func TestEvaluateShortRun(t *testing.T) {
	cfg, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 600, []int64{1, 2}, cfg)
	fe.statsWindow = 2

	f := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(f) || math.IsInf(f, 0) {
		t.Fatalf("fitness = %v", f)
	}
	run := fe.BestRun()
	if run == nil {
		t.Fatal("no best run recorded")
	}
	if len(run.windowStats) == 0 {
		t.Error("best run collected no windows")
	}
	if len(run.feeding) != cfg.Fish.Count {
		t.Errorf("feeding records = %d, want %d", len(run.feeding), cfg.Fish.Count)
	}
}
