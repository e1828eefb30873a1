package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"testing"

	"github.com/san-kum/relaxlab/internal/config"
	"github.com/san-kum/relaxlab/internal/experiment"
)

func solve(t *testing.T, cfg config.Config) *experiment.Outcome {
	t.Helper()
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	out, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	out := solve(t, config.Config{Scenario: "laplace", Alpha: 1.35})
	runID, err := st.Save(out)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Scenario != "laplace" {
		t.Errorf("expected scenario 'laplace', got '%s'", meta.Scenario)
	}
	if meta.Sweeps != 15 || !meta.Converged || meta.Status != "converged" {
		t.Errorf("unexpected outcome: %d sweeps, status %s", meta.Sweeps, meta.Status)
	}
	if meta.Alpha != 1.35 {
		t.Errorf("expected alpha 1.35, got %f", meta.Alpha)
	}
	if len(meta.Samples) != 3 || meta.Samples[1].Name != "middle" {
		t.Errorf("unexpected samples %+v", meta.Samples)
	}

	grid, err := st.LoadGrid(runID)
	if err != nil {
		t.Fatalf("load grid failed: %v", err)
	}
	for i := 0; i < 7; i++ {
		for j := 0; j < 7; j++ {
			if grid.At(i, j) != out.Result.Grid.At(i, j) {
				t.Fatalf("grid (%d, %d): got %v, want %v", i, j, grid.At(i, j), out.Result.Grid.At(i, j))
			}
		}
	}

	hist, err := st.LoadHistory(runID)
	if err != nil {
		t.Fatalf("load history failed: %v", err)
	}
	if hist.Len() != 15 {
		t.Errorf("expected 15 history rows, got %d", hist.Len())
	}
	last, _ := hist.Last(1)
	if last != grid.At(3, 3) {
		t.Errorf("last middle sample %v, want %v", last, grid.At(3, 3))
	}

	res, err := st.LoadResiduals(runID)
	if err != nil {
		t.Fatalf("load residuals failed: %v", err)
	}
	if len(res) != 15 || res[14] != out.Result.FinalResidual() {
		t.Errorf("unexpected residuals %v", res)
	}

	fixed, err := st.LoadFixed(runID)
	if err != nil {
		t.Fatalf("load fixed failed: %v", err)
	}
	if fixed.Count() != 24 {
		t.Errorf("expected 24 fixed border cells, got %d", fixed.Count())
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on empty store failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	first, err := st.Save(solve(t, config.Config{Scenario: "laplace", Alpha: 1.25}))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(solve(t, config.Config{Scenario: "poisson", Size: 9, MaxSweeps: 3}))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs out of order: %s, %s", runs[0].ID, runs[1].ID)
	}
	if runs[1].Samples != nil {
		t.Error("poisson runs record no samples")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(solve(t, config.Config{Scenario: "laplace", Alpha: 1.1}))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data.Metadata.ID != runID {
		t.Errorf("expected id %s, got %s", runID, data.Metadata.ID)
	}
	if len(data.Grid) != 7 || len(data.Grid[0]) != 7 {
		t.Errorf("unexpected grid shape %dx%d", len(data.Grid), len(data.Grid[0]))
	}
	if len(data.History) != 3 || len(data.History[0]) != 30 {
		t.Errorf("unexpected history shape")
	}
	if len(data.Residuals) != 30 {
		t.Errorf("expected 30 residuals, got %d", len(data.Residuals))
	}
}

func TestSaveDivergentRun(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	out := solve(t, config.Config{Scenario: "laplace", Alpha: 3.5, Unchecked: true, MaxSweeps: 2000})
	if out.Result.Converged || !math.IsNaN(out.Result.FinalResidual()) {
		t.Fatalf("expected a diverged run, got residual %v", out.Result.FinalResidual())
	}

	runID, err := st.Save(out)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Status != "exhausted" || meta.Sweeps != 2000 {
		t.Errorf("unexpected outcome: %d sweeps, status %s", meta.Sweeps, meta.Status)
	}
	if !math.IsNaN(float64(meta.FinalResidual)) || !math.IsNaN(float64(meta.Mean)) {
		t.Errorf("expected NaN residual and mean, got %v and %v", meta.FinalResidual, meta.Mean)
	}
	if meta.Alpha != 3.5 {
		t.Errorf("expected alpha 3.5, got %v", meta.Alpha)
	}

	res, err := st.LoadResiduals(runID)
	if err != nil {
		t.Fatalf("load residuals failed: %v", err)
	}
	if len(res) != 2000 || !math.IsNaN(res[len(res)-1]) {
		t.Errorf("unexpected residual tail %v", res[len(res)-1])
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("expected the diverged run to be listed, got %d runs", len(runs))
	}
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 run directory, got %d", len(entries))
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !math.IsNaN(float64(data.Residuals[len(data.Residuals)-1])) {
		t.Error("expected the exported residual to stay NaN")
	}
}

func TestFloatJSON(t *testing.T) {
	for _, v := range []float64{1.5, math.Inf(1), math.Inf(-1), math.NaN()} {
		b, err := json.Marshal(Float(v))
		if err != nil {
			t.Fatalf("marshal %v: %v", v, err)
		}
		var got Float
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if float64(got) != v && !(math.IsNaN(v) && math.IsNaN(float64(got))) {
			t.Errorf("%s decoded to %v, want %v", b, got, v)
		}
	}
	if b, _ := json.Marshal(Float(math.NaN())); string(b) != `"NaN"` {
		t.Errorf("NaN encoded as %s", b)
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadGrid("nope"); err == nil {
		t.Error("expected error for missing grid")
	}
}
