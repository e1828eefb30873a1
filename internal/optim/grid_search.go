package optim

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/relaxlab/internal/experiment"
	"gonum.org/v1/gonum/floats"
)

// Candidate is the outcome of one relaxation factor.
type Candidate struct {
	Alpha     float64
	Sweeps    int
	Converged bool
	Residual  float64
}

// better ranks converged runs first, then fewer sweeps, then smaller
// final residual.
func better(a, b Candidate) bool {
	if a.Converged != b.Converged {
		return a.Converged
	}
	if a.Sweeps != b.Sweeps {
		return a.Sweeps < b.Sweeps
	}
	return a.Residual < b.Residual
}

type GridSearch struct {
	alphas []float64
}

func NewGridSearch(alphas []float64) *GridSearch {
	return &GridSearch{alphas: alphas}
}

// Span returns n evenly spaced factors from lo to hi inclusive.
func Span(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// Search solves one experiment per factor and returns the best candidate
// together with all candidates ranked best first. Factors whose experiment
// cannot be built are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(alpha float64) (*experiment.Experiment, error),
) (Candidate, []Candidate, error) {
	ranked := make([]Candidate, 0, len(g.alphas))

	for _, alpha := range g.alphas {
		exp, err := buildExperiment(alpha)
		if err != nil {
			continue
		}

		out, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return Candidate{}, ranked, err
			}
			continue
		}

		res := out.Result
		ranked = append(ranked, Candidate{
			Alpha:     alpha,
			Sweeps:    res.Sweeps,
			Converged: res.Converged,
			Residual:  res.FinalResidual(),
		})
	}

	if len(ranked) == 0 {
		return Candidate{}, nil, fmt.Errorf("no candidate could be evaluated")
	}

	sort.SliceStable(ranked, func(i, j int) bool { return better(ranked[i], ranked[j]) })
	return ranked[0], ranked, nil
}

// Refine runs a coarse search over [lo, hi] and then a finer one around the
// best factor, rounds times, each pass narrowing the window to two coarse
// steps.
func Refine(
	ctx context.Context,
	lo, hi float64,
	points, rounds int,
	buildExperiment func(alpha float64) (*experiment.Experiment, error),
) (Candidate, error) {
	if points < 2 || !(hi > lo) {
		return Candidate{}, fmt.Errorf("refine needs hi > lo and at least 2 points")
	}

	var best Candidate
	for r := 0; r < rounds || r == 0; r++ {
		c, _, err := NewGridSearch(Span(lo, hi, points)).Search(ctx, buildExperiment)
		if err != nil {
			return best, err
		}
		if r == 0 || better(c, best) {
			best = c
		}
		step := (hi - lo) / float64(points-1)
		lo, hi = best.Alpha-step, best.Alpha+step
	}
	return best, nil
}
