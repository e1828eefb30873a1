package relax

import "gonum.org/v1/gonum/mat"

// Point addresses a grid position.
type Point struct {
	Row, Col int
}

// NewGrid allocates an n×n grid of zeros. It panics if n < 1.
func NewGrid(n int) *mat.Dense {
	return mat.NewDense(n, n, nil)
}

// sized is implemented by predicates and operands that can be shape-checked.
type sized interface {
	Dims() (r, c int)
}

func checkShape(what string, s sized, n int) error {
	r, c := s.Dims()
	if r != n || c != n {
		return &ShapeError{What: what, Rows: r, Cols: c, WantRows: n, WantCols: n}
	}
	return nil
}
