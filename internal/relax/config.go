package relax

import (
	"fmt"
	"math"
	"strings"
)

// Traversal selects the order in which a sweep visits free positions.
type Traversal int

const (
	// Descending visits columns N-2..1 and, within each column, rows N-2..1.
	Descending Traversal = iota
	// Ascending visits columns 1..N-2 and, within each column, rows 1..N-2.
	Ascending
	// RedBlack updates all (row+col)-even positions, then all odd ones.
	RedBlack
)

func (t Traversal) String() string {
	switch t {
	case Descending:
		return "descending"
	case Ascending:
		return "ascending"
	case RedBlack:
		return "redblack"
	}
	return fmt.Sprintf("traversal(%d)", int(t))
}

// ParseTraversal accepts the names returned by [Traversal.String].
func ParseTraversal(s string) (Traversal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "descending", "desc":
		return Descending, nil
	case "ascending", "asc":
		return Ascending, nil
	case "redblack", "red-black", "rb":
		return RedBlack, nil
	}
	return Descending, fmt.Errorf("%w: unknown traversal %q", ErrInvalidParameter, s)
}

// Variant defaults observed for the three problem families.
const (
	LaplaceTolerance = 1e-6
	LaplaceMaxSweeps = 30
	PoissonTolerance = 1e-12
	PoissonMaxSweeps = 100
)

// Config parameterizes a solve.
type Config struct {
	// Alpha is the over-relaxation factor; 1 is plain Gauss-Seidel.
	Alpha float64
	// Tolerance bounds the absolute residual of every free position.
	Tolerance float64
	// MaxSweeps caps the number of full passes.
	MaxSweeps int
	Traversal Traversal
	// Workers bounds the goroutines of a RedBlack pass; 0 means GOMAXPROCS.
	Workers int
	// Samples are recorded after every sweep. Nil disables history.
	Samples []Point
	// Unchecked skips the (0, 2) range check on Alpha.
	Unchecked bool
}

// OptimalAlpha is the SOR factor for a square Dirichlet grid of side n.
func OptimalAlpha(n int) float64 {
	return 2 / (1 + math.Sin(math.Pi/float64(n-1)))
}

// LaplaceConfig is the fixed-boundary Laplace variant: explicit alpha,
// loose tolerance, few sweeps, history at the default samples.
func LaplaceConfig(n int, alpha float64) Config {
	return Config{
		Alpha:     alpha,
		Tolerance: LaplaceTolerance,
		MaxSweeps: LaplaceMaxSweeps,
		Samples:   DefaultSamples(n),
	}
}

// PoissonConfig is the masked Poisson variant with the analytic alpha.
func PoissonConfig(n int) Config {
	return Config{
		Alpha:     OptimalAlpha(n),
		Tolerance: PoissonTolerance,
		MaxSweeps: PoissonMaxSweeps,
	}
}

// FluidConfig is the masked Laplace variant used for stream functions. It
// shares the Poisson update rule and defaults; the source is simply absent.
func FluidConfig(n int) Config {
	return PoissonConfig(n)
}

func (c Config) validate(n int) error {
	if !c.Unchecked && !(c.Alpha > 0 && c.Alpha < 2) {
		return &ParamError{Name: "alpha", Value: c.Alpha, Reason: "must lie in (0, 2)"}
	}
	if math.IsNaN(c.Alpha) || math.IsInf(c.Alpha, 0) {
		return &ParamError{Name: "alpha", Value: c.Alpha, Reason: "must be finite"}
	}
	if !(c.Tolerance > 0) {
		return &ParamError{Name: "tolerance", Value: c.Tolerance, Reason: "must be positive"}
	}
	if c.MaxSweeps <= 0 {
		return &ParamError{Name: "max_sweeps", Value: float64(c.MaxSweeps), Reason: "must be positive"}
	}
	if c.Workers < 0 {
		return &ParamError{Name: "workers", Value: float64(c.Workers), Reason: "must not be negative"}
	}
	switch c.Traversal {
	case Descending, Ascending, RedBlack:
	default:
		return &ParamError{Name: "traversal", Value: float64(c.Traversal), Reason: "is unknown"}
	}
	for _, p := range c.Samples {
		if p.Row < 0 || p.Col < 0 || p.Row >= n || p.Col >= n {
			return fmt.Errorf("%w: sample (%d, %d) outside %dx%d grid", ErrInvalidParameter, p.Row, p.Col, n, n)
		}
	}
	return nil
}
