package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/parallax/internal/sim"
	"github.com/san-kum/parallax/internal/storage"
)

const scenarioYAML = `name: lesson
description: move X away from the Sun
steps:
  - frames: 50
    save_as: near
  - distance_x: 8
    frames: 30
  - speed: 2
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "lesson" || len(sc.Steps) != 3 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if sc.Steps[0].DistanceX != nil || sc.Steps[1].DistanceX == nil || *sc.Steps[1].DistanceX != 8 {
		t.Error("distance_x not parsed as optional")
	}
	if sc.Steps[2].Speed == nil || *sc.Steps[2].Speed != 2 {
		t.Error("speed not parsed")
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())

	results, err := RunScenario(context.Background(), sc, sim.DefaultConfig(), Options{Store: st, Seed: 7})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[0].Name != "near" || results[0].Frames != 50 {
		t.Errorf("step 1 = %+v", results[0])
	}
	if results[1].Name != "lesson-step2" || results[1].Config.DistanceX != 8 {
		t.Errorf("step 2 = %+v", results[1])
	}
	// Step 3 keeps X at 8 pc and runs one orbit at double speed.
	if results[2].Config.DistanceX != 8 || results[2].Frames != OrbitFrames(2) {
		t.Errorf("step 3 = %+v", results[2])
	}
	if results[2].Metrics["orbits"] != 1 {
		t.Errorf("step 3 orbits = %v, want 1", results[2].Metrics["orbits"])
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 saved runs, got %d", len(runs))
	}
	meta, err := st.Load(results[1].RunID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.DistanceX != 8 || meta.Seed != 7 {
		t.Errorf("unexpected metadata %+v", meta)
	}
}

func TestRunScenario_BadStep(t *testing.T) {
	far := 80.0
	sc := &Scenario{Name: "bad", Steps: []ScenarioStep{{Frames: 5}, {DistanceY: &far, Frames: 5}}}

	results, err := RunScenario(context.Background(), sc, sim.DefaultConfig(), Options{})
	if err == nil {
		t.Fatal("expected error for out of range distance")
	}
	if len(results) != 1 {
		t.Errorf("expected the first step to complete, got %d results", len(results))
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &DistanceSweep{Star: sim.StarX, Min: 1, Max: 4, NumSteps: 4}
	results, err := RunSweep(context.Background(), sweep, sim.DefaultConfig(), Options{})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	// 1 pc gives p x 50 = 50 either side of the base angle.
	if math.Abs(results[0].OffsetRange-100) > 0.05 || math.Abs(results[0].ShiftAngle-45) > 0.05 {
		t.Errorf("1 pc result = %+v", results[0])
	}

	for i, r := range results {
		if want := float64(i + 1); r.Distance != want {
			t.Errorf("result %d distance = %v, want %v", i, r.Distance, want)
		}
		if math.Abs(r.Parallax-1/r.Distance) > 1e-12 {
			t.Errorf("parallax at %v pc = %v", r.Distance, r.Parallax)
		}
		if i > 0 {
			prev := results[i-1]
			if r.OffsetRange >= prev.OffsetRange {
				t.Errorf("offset range should shrink with distance: %v then %v", prev.OffsetRange, r.OffsetRange)
			}
		}
	}
}

func TestRunSweep_Errors(t *testing.T) {
	base := sim.DefaultConfig()
	if _, err := RunSweep(context.Background(), &DistanceSweep{Star: sim.StarY, Min: 1, Max: 2}, base, Options{}); err == nil {
		t.Error("expected error for zero steps")
	}
	if _, err := RunSweep(context.Background(), &DistanceSweep{Star: sim.StarY, Min: 5, Max: 2, NumSteps: 2}, base, Options{}); err == nil {
		t.Error("expected error for empty range")
	}
	if _, err := RunSweep(context.Background(), &DistanceSweep{Star: sim.StarID(9), Min: 1, Max: 2, NumSteps: 2}, base, Options{}); err == nil {
		t.Error("expected error for unknown star")
	}
}
