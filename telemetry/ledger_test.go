package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFeedingLedger(t *testing.T) {
	l := NewFeedingLedger()
	l.Register(2, 0)
	l.Register(1, 0)

	l.RecordChase(1)
	l.RecordMeal(1, 120, 1.5)
	l.RecordChase(1)
	l.RecordAbandon(1)
	l.RecordChase(2)
	l.RecordMeal(99, 1, 1) // unknown fish is ignored

	r := l.Get(1)
	if r.Meals != 1 || r.Chases != 2 || r.AbandonedChase != 1 || r.LastMealTick != 120 {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.SuccessRate() != 0.5 {
		t.Errorf("success rate = %v, want 0.5", r.SuccessRate())
	}
	if l.Get(2).LastMealTick != -1 {
		t.Error("fish without meals should report no last meal")
	}

	recs := l.Records()
	if len(recs) != 2 || recs[0].FishID != 1 || recs[1].FishID != 2 {
		t.Errorf("records should be ordered by id: %+v", recs)
	}
	if l.TotalMeals() != 1 {
		t.Errorf("total meals = %d, want 1", l.TotalMeals())
	}

	if removed := l.Remove(2); removed == nil || l.Count() != 1 {
		t.Error("remove should drop the record")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), Consumed: i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WritePerf(PerfStats{}, 600); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteFeeding([]FeedingRecord{{FishID: 1, Meals: 3}}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2 rows", len(lines))
	}
	if !strings.Contains(lines[0], "consumed") || strings.Contains(lines[1], "consumed") {
		t.Errorf("header should be written once: %q", lines[:2])
	}

	feeding, err := os.ReadFile(filepath.Join(dir, "feeding.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(feeding), "fish_id,") {
		t.Errorf("feeding.csv header = %q", strings.SplitN(string(feeding), "\n", 2)[0])
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	// nil manager methods are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should be inert")
	}
}
