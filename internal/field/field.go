// Package field derives quantities from a relaxed grid.
package field

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Velocity returns the flow components of a stream function. u is the
// derivative along rows and v the negated derivative along columns, both
// with unit spacing: central differences inside, one-sided differences on
// the edges.
func Velocity(psi mat.Matrix) (u, v *mat.Dense) {
	r, c := psi.Dims()
	u = mat.NewDense(r, c, nil)
	v = mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			u.Set(i, j, gradient(r, i, func(k int) float64 { return psi.At(k, j) }))
			v.Set(i, j, -gradient(c, j, func(k int) float64 { return psi.At(i, k) }))
		}
	}
	return u, v
}

func gradient(n, i int, at func(int) float64) float64 {
	switch {
	case n < 2:
		return 0
	case i == 0:
		return at(1) - at(0)
	case i == n-1:
		return at(n-1) - at(n-2)
	}
	return (at(i+1) - at(i-1)) / 2
}

// Speed returns the pointwise magnitude of (u, v).
func Speed(u, v mat.Matrix) *mat.Dense {
	r, c := u.Dims()
	s := mat.NewDense(r, c, nil)
	s.Apply(func(i, j int, x float64) float64 {
		return math.Hypot(x, v.At(i, j))
	}, u)
	return s
}

// Arrow is a velocity vector anchored at a grid position.
type Arrow struct {
	Row, Col int
	U, V     float64
}

// Sample picks every stride-th position in each direction, starting at the
// origin.
func Sample(u, v mat.Matrix, stride int) []Arrow {
	if stride < 1 {
		stride = 1
	}
	r, c := u.Dims()
	arrows := make([]Arrow, 0, ((r+stride-1)/stride)*((c+stride-1)/stride))
	for i := 0; i < r; i += stride {
		for j := 0; j < c; j += stride {
			arrows = append(arrows, Arrow{Row: i, Col: j, U: u.At(i, j), V: v.At(i, j)})
		}
	}
	return arrows
}

// Summary describes the value range of a grid.
type Summary struct {
	Min, Max, Mean float64
}

// Stats summarizes every value of m. A NaN anywhere makes every field NaN.
func Stats(m mat.Matrix) Summary {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return Summary{}
	}
	row := make([]float64, c)
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for i := 0; i < r; i++ {
		mat.Row(row, i, m)
		if floats.HasNaN(row) {
			nan := math.NaN()
			return Summary{Min: nan, Max: nan, Mean: nan}
		}
		s.Min = math.Min(s.Min, floats.Min(row))
		s.Max = math.Max(s.Max, floats.Max(row))
		sum += floats.Sum(row)
	}
	s.Mean = sum / float64(r*c)
	return s
}

// MaxAbsDiff returns the largest absolute elementwise difference of two
// equally sized matrices.
func MaxAbsDiff(a, b mat.Matrix) float64 {
	r, c := a.Dims()
	ra := make([]float64, c)
	rb := make([]float64, c)
	var m float64
	for i := 0; i < r; i++ {
		mat.Row(ra, i, a)
		mat.Row(rb, i, b)
		m = math.Max(m, floats.Distance(ra, rb, math.Inf(1)))
	}
	return m
}
