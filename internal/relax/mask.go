package relax

import "gonum.org/v1/gonum/mat"

// Fixed reports whether the value at (row, col) must never be updated.
type Fixed interface {
	Fixed(row, col int) bool
}

// Border is the implicit predicate of an n×n grid whose outer ring is fixed
// and whose interior floats.
type Border int

func (b Border) Fixed(row, col int) bool {
	n := int(b)
	return row == 0 || col == 0 || row == n-1 || col == n-1
}

func (b Border) Dims() (int, int) { return int(b), int(b) }

// Mask is an explicit per-position fixed flag.
type Mask struct {
	rows, cols int
	cells      []bool
}

// NewMask returns an n×n mask with every position free.
func NewMask(n int) *Mask {
	return &Mask{rows: n, cols: n, cells: make([]bool, n*n)}
}

// BorderMask returns an n×n mask with the outer ring fixed.
func BorderMask(n int) *Mask {
	m := NewMask(n)
	b := Border(n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			m.cells[row*n+col] = b.Fixed(row, col)
		}
	}
	return m
}

// MaskFromDense treats every non-zero entry of m as fixed.
func MaskFromDense(m mat.Matrix) *Mask {
	r, c := m.Dims()
	mask := &Mask{rows: r, cols: c, cells: make([]bool, r*c)}
	for row := 0; row < r; row++ {
		for col := 0; col < c; col++ {
			mask.cells[row*c+col] = m.At(row, col) != 0
		}
	}
	return mask
}

func (m *Mask) Fixed(row, col int) bool {
	if row < 0 || col < 0 || row >= m.rows || col >= m.cols {
		return true
	}
	return m.cells[row*m.cols+col]
}

// Set marks (row, col) fixed or free. Out of range positions are ignored.
func (m *Mask) Set(row, col int, fixed bool) {
	if row < 0 || col < 0 || row >= m.rows || col >= m.cols {
		return
	}
	m.cells[row*m.cols+col] = fixed
}

func (m *Mask) Dims() (int, int) { return m.rows, m.cols }

// Count returns the number of fixed positions.
func (m *Mask) Count() int {
	n := 0
	for _, f := range m.cells {
		if f {
			n++
		}
	}
	return n
}
