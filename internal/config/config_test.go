package config

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/relaxlab/internal/relax"
	"github.com/san-kum/relaxlab/internal/scenario"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "laplace" {
		t.Errorf("expected scenario laplace, got %s", cfg.Scenario)
	}
	if cfg.Traversal != "descending" {
		t.Errorf("expected descending traversal, got %s", cfg.Traversal)
	}
	if cfg.Alpha != 0 {
		t.Error("alpha should default to the scenario value")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := &Config{
		Scenario:  "poisson",
		Size:      25,
		Traversal: "redblack",
		Workers:   4,
		Geometry: GeometryConfig{
			Charges: []scenario.Charge{{X: 0.25, Y: 0.5, Q: -100}, {X: 0.75, Y: 0.5, Q: 100}},
		},
	}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got.Scenario != "poisson" || got.Size != 25 || got.Workers != 4 {
		t.Errorf("unexpected config %+v", got)
	}
	if len(got.Geometry.Charges) != 2 || got.Geometry.Charges[0].Q != -100 {
		t.Errorf("unexpected charges %+v", got.Geometry.Charges)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApply(t *testing.T) {
	cfg := &Config{Alpha: 2.1, MaxSweeps: 12, Traversal: "rb", Unchecked: true}
	got, err := cfg.Apply(relax.LaplaceConfig(7, 1.1))
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if got.Alpha != 2.1 {
		t.Errorf("expected alpha 2.1, got %f", got.Alpha)
	}
	if got.Tolerance != relax.LaplaceTolerance {
		t.Errorf("tolerance should keep the variant default, got %g", got.Tolerance)
	}
	if got.MaxSweeps != 12 {
		t.Errorf("expected 12 sweeps, got %d", got.MaxSweeps)
	}
	if got.Traversal != relax.RedBlack {
		t.Errorf("expected redblack, got %s", got.Traversal)
	}
	if !got.Unchecked {
		t.Error("expected unchecked alpha")
	}

	if _, err := (&Config{Traversal: "zigzag"}).Apply(relax.Config{}); err == nil {
		t.Error("expected error for unknown traversal")
	}
}

func TestMerge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(GetPreset("outflow", "third"))

	if cfg.Scenario != "outflow" || cfg.Size != 100 || cfg.Geometry.Divisor != 3 {
		t.Errorf("unexpected merge result %+v", cfg)
	}
	if cfg.Traversal != DefaultTraversal {
		t.Errorf("traversal should survive merge, got %s", cfg.Traversal)
	}

	cfg.Merge(nil)
	if cfg.Scenario != "outflow" {
		t.Error("merging nil should be a no-op")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("laplace", "alpha135")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Alpha != 1.35 {
		t.Errorf("expected alpha 1.35, got %f", cfg.Alpha)
	}

	if !GetPreset("laplace", "alpha210").Unchecked {
		t.Error("alpha210 must skip the alpha range check")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("laplace", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "alpha110")
	if cfg != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("outflow")
	want := []string{"half", "quarter", "third"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("expected %v, got %v", want, presets)
		}
	}

	presets = ListPresets("nonexistent")
	if presets != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestPresetsBuild(t *testing.T) {
	for name, presets := range Presets {
		for preset, cfg := range presets {
			if cfg.Scenario != name {
				t.Errorf("%s/%s: scenario %q", name, preset, cfg.Scenario)
			}
			if _, err := scenario.Build(cfg.Scenario, cfg.Params()); err != nil {
				t.Errorf("%s/%s: %v", name, preset, err)
			}
		}
	}
}
