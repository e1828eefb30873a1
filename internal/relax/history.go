package relax

import "gonum.org/v1/gonum/mat"

// History holds the value at each sample point after every completed sweep.
// Values[k] belongs to Points[k]; every series has one entry per sweep
// actually performed, which is fewer than MaxSweeps when the solve
// converged early.
type History struct {
	Points []Point
	Values [][]float64
}

// DefaultSamples returns one point in the lower, middle and upper region of
// the middle row.
func DefaultSamples(n int) []Point {
	mid := n / 2
	return []Point{{mid, 1}, {mid, mid}, {mid, n - 2}}
}

// SampleNames labels [DefaultSamples] in order.
var SampleNames = []string{"lower", "middle", "upper"}

func newHistory(points []Point, capacity int) *History {
	h := &History{
		Points: append([]Point(nil), points...),
		Values: make([][]float64, len(points)),
	}
	for k := range h.Values {
		h.Values[k] = make([]float64, 0, capacity)
	}
	return h
}

func (h *History) record(psi *mat.Dense) {
	for k, p := range h.Points {
		h.Values[k] = append(h.Values[k], psi.At(p.Row, p.Col))
	}
}

// Len returns the number of recorded sweeps.
func (h *History) Len() int {
	if h == nil || len(h.Values) == 0 {
		return 0
	}
	return len(h.Values[0])
}

// Last returns the most recent value recorded for sample k.
func (h *History) Last(k int) (float64, bool) {
	if h == nil || k < 0 || k >= len(h.Values) || len(h.Values[k]) == 0 {
		return 0, false
	}
	s := h.Values[k]
	return s[len(s)-1], true
}
