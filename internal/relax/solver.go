package relax

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Result is what a solve hands back to the caller.
type Result struct {
	// Grid is the input grid, updated in place.
	Grid *mat.Dense
	// History is nil unless sample points were configured.
	History *History
	// Sweeps is the number of full passes performed.
	Sweeps int
	// Converged is true when the last sweep saw no residual above tolerance.
	Converged bool
	// Residuals holds the largest absolute residual of each sweep.
	Residuals []float64
}

// Status returns "converged" or "exhausted".
func (r *Result) Status() string {
	if r.Converged {
		return "converged"
	}
	return "exhausted"
}

// FinalResidual returns the largest residual of the last sweep.
func (r *Result) FinalResidual() float64 {
	if len(r.Residuals) == 0 {
		return 0
	}
	return r.Residuals[len(r.Residuals)-1]
}

// Solver runs sweeps over a grid it owns until convergence or the cap.
// A Solver is not safe for concurrent use.
type Solver struct {
	psi       *mat.Dense
	k         *kernel
	cfg       Config
	hist      *History
	sweeps    int
	converged bool
	residuals []float64
}

// New validates the operands and prepares a solver. fixed may be nil, in
// which case only the border is fixed; source may be nil for Laplace
// problems. psi is modified by every sweep.
func New(psi *mat.Dense, fixed Fixed, source *mat.Dense, cfg Config) (*Solver, error) {
	if psi == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidParameter)
	}
	n, c := psi.Dims()
	if n != c {
		return nil, &ShapeError{What: "grid", Rows: n, Cols: c, WantRows: n, WantCols: n}
	}
	if n < 3 {
		return nil, &ParamError{Name: "size", Value: float64(n), Reason: "must be at least 3"}
	}
	if fixed == nil {
		fixed = Border(n)
	}
	if s, ok := fixed.(sized); ok {
		if err := checkShape("mask", s, n); err != nil {
			return nil, err
		}
	}
	if source != nil {
		if err := checkShape("source", source, n); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(n); err != nil {
		return nil, err
	}

	s := &Solver{
		psi:       psi,
		k:         newKernel(psi, fixed, source, cfg.Alpha),
		cfg:       cfg,
		residuals: make([]float64, 0, cfg.MaxSweeps),
	}
	if len(cfg.Samples) > 0 {
		s.hist = newHistory(cfg.Samples, cfg.MaxSweeps)
	}
	return s, nil
}

// Solve is the one-call form of New followed by Run.
func Solve(psi *mat.Dense, fixed Fixed, source *mat.Dense, cfg Config) (*Result, error) {
	s, err := New(psi, fixed, source, cfg)
	if err != nil {
		return nil, err
	}
	return s.Run(), nil
}

// Sweep performs one full pass and reports its largest absolute residual
// and whether it satisfied the tolerance. After the solver is done Sweep
// does nothing and repeats the last outcome.
func (s *Solver) Sweep() (float64, bool) {
	if s.Done() {
		return s.lastResidual(), s.converged
	}

	switch s.cfg.Traversal {
	case Ascending:
		s.k.sweepAscending()
	case RedBlack:
		s.k.sweepRedBlack(s.cfg.Workers)
	default:
		s.k.sweepDescending()
	}

	m := s.k.maxResidual()
	s.sweeps++
	s.residuals = append(s.residuals, m)
	if s.hist != nil {
		s.hist.record(s.psi)
	}
	s.converged = m <= s.cfg.Tolerance
	return m, s.converged
}

// Done reports whether the solver converged or used up its sweeps.
func (s *Solver) Done() bool {
	return s.converged || s.sweeps >= s.cfg.MaxSweeps
}

// Run sweeps until done and returns the result.
func (s *Solver) Run() *Result {
	for !s.Done() {
		s.Sweep()
	}
	return s.Result()
}

// Result snapshots the current state. Grid and History are shared with
// the solver.
func (s *Solver) Result() *Result {
	return &Result{
		Grid:      s.psi,
		History:   s.hist,
		Sweeps:    s.sweeps,
		Converged: s.converged,
		Residuals: append([]float64(nil), s.residuals...),
	}
}

// Sweeps returns the number of passes performed so far.
func (s *Solver) Sweeps() int { return s.sweeps }

// Grid returns the grid being relaxed.
func (s *Solver) Grid() *mat.Dense { return s.psi }

// Config returns the configuration the solver was built with.
func (s *Solver) Config() Config { return s.cfg }

func (s *Solver) lastResidual() float64 {
	if len(s.residuals) == 0 {
		return 0
	}
	return s.residuals[len(s.residuals)-1]
}
