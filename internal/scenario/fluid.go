package scenario

import (
	"fmt"

	"github.com/san-kum/relaxlab/internal/relax"
	"gonum.org/v1/gonum/mat"
)

// Plate values of the stream function along the bottom and top rows.
const (
	LowerPlate = -10.0
	UpperPlate = 10.0
)

// plates returns the two-plate channel every fluid scenario starts from.
// Only rows 0 and N-1 are fixed; the left and right columns are still never
// updated because they lie on the border.
func plates(n int) (*mat.Dense, *relax.Mask) {
	psi := relax.NewGrid(n)
	mask := relax.NewMask(n)
	for i := 0; i < n; i++ {
		psi.Set(0, i, LowerPlate)
		psi.Set(n-1, i, UpperPlate)
		mask.Set(0, i, true)
		mask.Set(n-1, i, true)
	}
	return psi, mask
}

func fluid(name, desc string, psi *mat.Dense, mask *relax.Mask) *Problem {
	n, _ := psi.Dims()
	return &Problem{
		Name:        name,
		Description: desc,
		Grid:        psi,
		Fixed:       mask,
		Config:      relax.FluidConfig(n),
	}
}

// Plates is uniform flow between parallel plates at y = 0 and y = 1.
func Plates(n int) (*Problem, error) {
	if err := checkSize(n, 3); err != nil {
		return nil, err
	}
	psi, mask := plates(n)
	return fluid("plates", "psi(x, y) for parallel plates at y = 0 and y = 1", psi, mask), nil
}

// BoxBounds returns the first and last index of the middle third.
func BoxBounds(n int) (lo, hi int) {
	return n / 3, (2*n + 2) / 3
}

// Box fixes the outline of a square covering the middle third in each
// direction. The outline keeps its initial value of zero.
func Box(n int) (*Problem, error) {
	if err := checkSize(n, 5); err != nil {
		return nil, err
	}
	psi, mask := plates(n)
	lo, hi := BoxBounds(n)
	for i := lo; i <= hi; i++ {
		mask.Set(i, lo, true)
		mask.Set(i, hi, true)
		mask.Set(lo, i, true)
		mask.Set(hi, i, true)
	}
	return fluid("box", "psi(x, y) for parallel plates with a box in the middle", psi, mask), nil
}

// DefaultRadius is the cylinder radius used when none is given.
func DefaultRadius(n int) float64 {
	return float64(n) / 8
}

// Cylinder fixes every position within radius of the grid centre. A
// non-positive radius selects DefaultRadius.
func Cylinder(n int, radius float64) (*Problem, error) {
	if err := checkSize(n, 5); err != nil {
		return nil, err
	}
	if radius <= 0 {
		radius = DefaultRadius(n)
	}
	if 2*radius >= float64(n-1) {
		return nil, &relax.ParamError{Name: "radius", Value: radius, Reason: fmt.Sprintf("must be below %g", float64(n-1)/2)}
	}

	psi, mask := plates(n)
	c := n / 2
	r2 := radius * radius
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			di, dj := float64(c-i), float64(c-j)
			if di*di+dj*dj <= r2 {
				mask.Set(i, j, true)
			}
		}
	}
	desc := fmt.Sprintf("psi(x, y) for parallel plates with a cylinder of radius %g in the middle", radius)
	return fluid("cylinder", desc, psi, mask), nil
}

// OutflowGeometry describes the narrowed outlet of the channel: walls at
// column Pos close the channel down to Width rows, leaving Blockage rows
// blocked above and below.
type OutflowGeometry struct {
	Width, Blockage, Pos int
}

// Outlet returns the outlet geometry for an n×n grid narrowed to
// n/divisor.
func Outlet(n, divisor int) OutflowGeometry {
	w := n / divisor
	return OutflowGeometry{
		Width:    w,
		Blockage: (n - w) / 2,
		Pos:      (2*n + 2) / 3,
	}
}

// Outflow closes the downstream third of the channel down to 1/divisor of
// its width. The walls carry the plate values and the solid blocks behind
// them stay at zero.
func Outflow(n, divisor int) (*Problem, error) {
	if err := checkSize(n, 5); err != nil {
		return nil, err
	}
	if divisor < 2 || n/divisor < 1 {
		return nil, &relax.ParamError{Name: "divisor", Value: float64(divisor), Reason: fmt.Sprintf("must lie in [2, %d]", n)}
	}

	psi, mask := plates(n)
	g := Outlet(n, divisor)
	b, pos := g.Blockage, g.Pos

	for i := 0; i < b; i++ {
		mask.Set(i, pos, true)
		mask.Set(n-i-1, pos, true)
		psi.Set(i, pos, LowerPlate)
		psi.Set(n-i-1, pos, UpperPlate)
	}
	for i := pos; i < n; i++ {
		mask.Set(b, i, true)
		mask.Set(n-b, i, true)
		psi.Set(b, i, LowerPlate)
		psi.Set(n-b, i, UpperPlate)
	}
	for i := pos; i < n; i++ {
		for j := 0; j < b; j++ {
			mask.Set(j, i, true)
		}
		for k := n - b; k < n; k++ {
			mask.Set(k, i, true)
		}
	}

	desc := fmt.Sprintf("psi(x, y) for parallel plates with the outflow narrowed to 1/%d", divisor)
	return fluid("outflow", desc, psi, mask), nil
}
