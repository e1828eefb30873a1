package relax

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// spacing2 is (N-1)², the divisor applied to source values.
func spacing2(n int) float64 {
	d := float64(n - 1)
	return d * d
}

// Residual returns the five-point imbalance at an interior position:
// the sum of the four neighbours minus four times the centre, minus the
// source value divided by (N-1)². source may be nil.
func Residual(psi, source *mat.Dense, row, col int) float64 {
	n, _ := psi.Dims()
	r := psi.At(row, col+1) + psi.At(row, col-1) + psi.At(row+1, col) + psi.At(row-1, col) - 4*psi.At(row, col)
	if source != nil {
		r -= source.At(row, col) / spacing2(n)
	}
	return r
}

// MaxResidual returns the largest absolute residual over the free interior.
// fixed may be nil, meaning only the border is fixed.
func MaxResidual(psi *mat.Dense, fixed Fixed, source *mat.Dense) float64 {
	n, _ := psi.Dims()
	var m float64
	for row := 1; row < n-1; row++ {
		for col := 1; col < n-1; col++ {
			if fixed != nil && fixed.Fixed(row, col) {
				continue
			}
			m = worse(m, math.Abs(Residual(psi, source, row, col)))
		}
	}
	return m
}

// worse keeps NaN sticky so a blown-up sweep never reads as converged.
func worse(m, a float64) float64 {
	if math.IsNaN(m) || math.IsNaN(a) {
		return math.NaN()
	}
	if a > m {
		return a
	}
	return m
}
