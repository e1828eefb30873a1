// Package scenario builds ready-to-solve relaxation problems: the
// fixed-boundary Laplace grid, point charges on a grounded square and
// stream functions between two plates with obstacles in the flow.
package scenario

import (
	"fmt"
	"math"

	"github.com/san-kum/relaxlab/internal/relax"
	"gonum.org/v1/gonum/mat"
)

// Problem is a grid with its fixed predicate, optional source and the
// variant's default solver configuration.
type Problem struct {
	Name        string
	Description string
	Grid        *mat.Dense
	Fixed       relax.Fixed
	Source      *mat.Dense
	Config      relax.Config
}

// Size returns the side length of the grid.
func (p *Problem) Size() int {
	n, _ := p.Grid.Dims()
	return n
}

// Solve relaxes the problem grid in place with its own configuration.
func (p *Problem) Solve() (*relax.Result, error) {
	return relax.Solve(p.Grid, p.Fixed, p.Source, p.Config)
}

func checkSize(n, min int) error {
	if n < min {
		return &relax.ParamError{Name: "size", Value: float64(n), Reason: fmt.Sprintf("must be at least %d", min)}
	}
	return nil
}

// Laplace is the 7×7 style problem with psi = sin(x)sinh(y) prescribed on
// the top row and right column and zero on the other two edges.
func Laplace(n int, alpha float64) (*Problem, error) {
	if err := checkSize(n, 3); err != nil {
		return nil, err
	}
	psi := relax.NewGrid(n)
	d := float64(n - 1)
	for i := 0; i < n; i++ {
		psi.Set(n-1, i, math.Sin(float64(i)/d)*math.Sinh(1))
		psi.Set(i, n-1, math.Sin(1)*math.Sinh(float64(i)/d))
	}
	return &Problem{
		Name:        "laplace",
		Description: fmt.Sprintf("psi(x, y) for alpha = %.2f", alpha),
		Grid:        psi,
		Fixed:       relax.Border(n),
		Config:      relax.LaplaceConfig(n, alpha),
	}, nil
}
