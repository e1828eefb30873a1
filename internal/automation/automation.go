package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/relaxlab/internal/config"
	"github.com/san-kum/relaxlab/internal/experiment"
	"gopkg.in/yaml.v3"
)

// Batch is a list of runs read from a YAML file.
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []BatchRun `yaml:"runs"`
}

// BatchRun is one run of a batch. Preset, when set, is applied first and
// the inline fields override it.
type BatchRun struct {
	config.Config `yaml:",inline"`
	Preset        string `yaml:"preset,omitempty"`
	// SaveAs writes the resolved configuration to this YAML path.
	SaveAs        string `yaml:"save_as,omitempty"`
}

// Resolve returns the effective configuration of the run.
func (r BatchRun) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		p := config.GetPreset(r.Scenario, r.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s/%s", r.Scenario, r.Preset)
		}
		cfg.Merge(p)
	}
	own := r.Config
	cfg.Merge(&own)
	return cfg, nil
}

// LoadBatch loads a batch from a YAML file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, err
	}
	if len(batch.Runs) == 0 {
		return nil, fmt.Errorf("batch %q has no runs", batch.Name)
	}

	return &batch, nil
}

// RunBatch executes every run in order. On error the outcomes of the runs
// completed so far are returned with it.
func RunBatch(ctx context.Context, batch *Batch, registry *experiment.Registry) ([]*experiment.Outcome, error) {
	outcomes := make([]*experiment.Outcome, 0, len(batch.Runs))

	for i, run := range batch.Runs {
		cfg, err := run.Resolve()
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}
		if run.SaveAs != "" {
			if err := config.Save(run.SaveAs, cfg); err != nil {
				return outcomes, fmt.Errorf("run %d: %w", i+1, err)
			}
		}
		slog.Info("batch run", "batch", batch.Name, "run", i+1, "of", len(batch.Runs), "scenario", cfg.Scenario)

		exp := experiment.New(*cfg)
		if err := exp.Setup(registry); err != nil {
			return outcomes, fmt.Errorf("run %d setup: %w", i+1, err)
		}

		out, err := exp.Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}

		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}
