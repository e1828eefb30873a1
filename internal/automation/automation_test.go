package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/relaxlab/internal/config"
	"github.com/san-kum/relaxlab/internal/experiment"
	"github.com/san-kum/relaxlab/internal/relax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batchYAML = `
name: study
description: laplace and a dipole
runs:
  - scenario: laplace
    preset: alpha125
  - scenario: poisson
    size: 13
    max_sweeps: 5
    geometry:
      charges:
        - {x: 0.25, y: 0.5, q: -100}
        - {x: 0.75, y: 0.5, q: 100}
`

func writeBatch(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadAndRunBatch(t *testing.T) {
	batch, err := LoadBatch(writeBatch(t, batchYAML))
	require.NoError(t, err)
	require.Len(t, batch.Runs, 2)
	assert.Equal(t, "study", batch.Name)
	assert.Equal(t, "alpha125", batch.Runs[0].Preset)
	assert.Len(t, batch.Runs[1].Geometry.Charges, 2)

	outs, err := RunBatch(context.Background(), batch, experiment.NewRegistry())
	require.NoError(t, err)
	require.Len(t, outs, 2)

	assert.Equal(t, 1.25, outs[0].Problem.Config.Alpha)
	assert.Equal(t, 24, outs[0].Result.Sweeps)
	assert.True(t, outs[0].Result.Converged)

	assert.Equal(t, 5, outs[1].Result.Sweeps)
	assert.Equal(t, -100.0, outs[1].Problem.Source.At(6, 3))
	assert.Equal(t, 100.0, outs[1].Problem.Source.At(6, 9))
}

func TestLoadBatchErrors(t *testing.T) {
	_, err := LoadBatch(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadBatch(writeBatch(t, "name: empty\nruns: []\n"))
	require.Error(t, err)

	_, err = LoadBatch(writeBatch(t, "runs: [\n"))
	require.Error(t, err)
}

func TestRunBatchStopsAtFailure(t *testing.T) {
	batch := &Batch{Name: "bad", Runs: []BatchRun{
		{Config: config.Config{Scenario: "laplace"}},
		{Config: config.Config{Scenario: "laplace"}, Preset: "nope"},
		{Config: config.Config{Scenario: "laplace"}},
	}}
	outs, err := RunBatch(context.Background(), batch, experiment.NewRegistry())
	require.Error(t, err)
	assert.Len(t, outs, 1)
}

func TestLaplaceAlphaStudy(t *testing.T) {
	want := []struct {
		sweeps    int
		converged bool
	}{
		{30, false},
		{24, true},
		{15, true},
		{18, true},
		{30, false},
	}

	for _, parallel := range []int{0, 3} {
		sweep := &AlphaSweep{
			Base:     config.Config{Scenario: "laplace"},
			Alphas:   DefaultAlphas,
			Parallel: parallel,
		}
		results, err := RunSweep(context.Background(), sweep, experiment.NewRegistry())
		require.NoError(t, err)
		require.Len(t, results, len(want))

		for i, r := range results {
			assert.Equal(t, DefaultAlphas[i], r.Alpha)
			assert.Equal(t, want[i].sweeps, r.Sweeps, "alpha %.2f", r.Alpha)
			assert.Equal(t, want[i].converged, r.Converged, "alpha %.2f", r.Alpha)
			assert.Equal(t, r.Sweeps, r.History.Len())
		}
	}
}

func TestSweepValues(t *testing.T) {
	s := &AlphaSweep{AlphaMin: 1, AlphaMax: 1.8, Steps: 5}
	got, err := s.Values()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1.2, 1.4, 1.6, 1.8}, got, 1e-12)

	_, err = (&AlphaSweep{AlphaMin: 1, AlphaMax: 1, Steps: 3}).Values()
	require.ErrorIs(t, err, relax.ErrInvalidParameter)
}
