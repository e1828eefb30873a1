package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/relaxlab/internal/config"
	"github.com/san-kum/relaxlab/internal/relax"
	"github.com/san-kum/relaxlab/internal/scenario"
)

// Outcome is a solved problem together with its wall time.
type Outcome struct {
	Problem *scenario.Problem
	Result  *relax.Result
	Elapsed time.Duration
}

type Experiment struct {
	cfg    config.Config
	solver *relax.Solver
	prob   *scenario.Problem
	logger *slog.Logger
}

func New(cfg config.Config) *Experiment {
	return &Experiment{cfg: cfg, logger: slog.Default()}
}

// WithLogger replaces the default logger.
func (e *Experiment) WithLogger(l *slog.Logger) *Experiment {
	e.logger = l
	return e
}

// Setup builds the configured scenario and prepares a solver for it.
func (e *Experiment) Setup(registry *Registry) error {
	prob, err := registry.GetScenario(e.cfg.Scenario, e.cfg.Params())
	if err != nil {
		return err
	}
	rc, err := e.cfg.Apply(prob.Config)
	if err != nil {
		return err
	}
	prob.Config = rc

	s, err := relax.New(prob.Grid, prob.Fixed, prob.Source, rc)
	if err != nil {
		return fmt.Errorf("setup %s: %w", prob.Name, err)
	}
	e.prob, e.solver = prob, s
	return nil
}

// Run sweeps until the solver is done. The context is checked between
// sweeps.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	if e.solver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	rc := e.solver.Config()
	e.logger.Debug("solve started",
		"scenario", e.prob.Name,
		"size", e.prob.Size(),
		"alpha", rc.Alpha,
		"traversal", rc.Traversal.String(),
	)

	start := time.Now()
	for !e.solver.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, _ := e.solver.Sweep()
		e.logger.Debug("sweep", "n", e.solver.Sweeps(), "residual", m)
	}
	out := &Outcome{Problem: e.prob, Result: e.solver.Result(), Elapsed: time.Since(start)}

	e.logger.Debug("solve finished",
		"scenario", e.prob.Name,
		"sweeps", out.Result.Sweeps,
		"status", out.Result.Status(),
		"elapsed", out.Elapsed,
	)
	return out, nil
}

// Solver returns the underlying solver for stepping sweeps by hand.
func (e *Experiment) Solver() *relax.Solver {
	return e.solver
}

// Problem returns the problem built by Setup.
func (e *Experiment) Problem() *scenario.Problem {
	return e.prob
}

// Config returns the run configuration.
func (e *Experiment) Config() config.Config {
	return e.cfg
}
