package automation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/relaxlab/internal/config"
	"github.com/san-kum/relaxlab/internal/experiment"
	"github.com/san-kum/relaxlab/internal/relax"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// DefaultAlphas are the factors of the fixed-boundary Laplace study.
var DefaultAlphas = []float64{1.10, 1.25, 1.35, 1.45, 2.10}

// AlphaSweep solves the same scenario once per relaxation factor. When
// Alphas is empty, Steps evenly spaced factors from AlphaMin to AlphaMax
// are used. The alpha range check is skipped so divergent factors can be
// studied.
type AlphaSweep struct {
	Base     config.Config
	Alphas   []float64
	AlphaMin float64
	AlphaMax float64
	Steps    int
	// Parallel bounds the number of concurrent solves; 0 runs them one by one.
	Parallel int
}

// SweepResult is the outcome of one factor.
type SweepResult struct {
	Alpha     float64
	Sweeps    int
	Converged bool
	Final     float64
	History   *relax.History
	Residuals []float64
}

// Values returns the factors the sweep will run.
func (s *AlphaSweep) Values() ([]float64, error) {
	if len(s.Alphas) > 0 {
		return s.Alphas, nil
	}
	if s.Steps < 2 || !(s.AlphaMax > s.AlphaMin) {
		return nil, fmt.Errorf("%w: alpha sweep needs alphas or a range with at least 2 steps", relax.ErrInvalidParameter)
	}
	return floats.Span(make([]float64, s.Steps), s.AlphaMin, s.AlphaMax), nil
}

// RunSweep executes an alpha sweep. Results keep the order of the factors.
func RunSweep(ctx context.Context, sweep *AlphaSweep, registry *experiment.Registry) ([]SweepResult, error) {
	alphas, err := sweep.Values()
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(alphas))
	g, ctx := errgroup.WithContext(ctx)
	limit := sweep.Parallel
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, alpha := range alphas {
		g.Go(func() error {
			cfg := sweep.Base
			cfg.Alpha = alpha
			cfg.Unchecked = true

			exp := experiment.New(cfg)
			if err := exp.Setup(registry); err != nil {
				return fmt.Errorf("alpha %.3f: %w", alpha, err)
			}
			out, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("alpha %.3f: %w", alpha, err)
			}

			res := out.Result
			results[i] = SweepResult{
				Alpha:     alpha,
				Sweeps:    res.Sweeps,
				Converged: res.Converged,
				Final:     res.FinalResidual(),
				History:   res.History,
				Residuals: res.Residuals,
			}
			slog.Info("sweep", "alpha", alpha, "sweeps", res.Sweeps, "status", res.Status())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
