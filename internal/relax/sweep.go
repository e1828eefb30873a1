package relax

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// kernel holds the raw views a sweep works on. free and res are n×n with
// stride n; psi and src keep the stride of their backing matrices.
type kernel struct {
	n         int
	psi       []float64
	stride    int
	src       []float64
	srcStride int
	h2        float64
	free      []bool
	res       []float64
	alpha     float64
}

func newKernel(psi *mat.Dense, fixed Fixed, source *mat.Dense, alpha float64) *kernel {
	n, _ := psi.Dims()
	raw := psi.RawMatrix()
	k := &kernel{
		n:      n,
		psi:    raw.Data,
		stride: raw.Stride,
		h2:     spacing2(n),
		free:   make([]bool, n*n),
		res:    make([]float64, n*n),
		alpha:  alpha,
	}
	if source != nil {
		sraw := source.RawMatrix()
		k.src, k.srcStride = sraw.Data, sraw.Stride
	}
	for row := 1; row < n-1; row++ {
		for col := 1; col < n-1; col++ {
			k.free[row*n+col] = !fixed.Fixed(row, col)
		}
	}
	return k
}

// relax computes the residual at (row, col), stores it in the scratch grid
// and applies alpha/4 of it.
func (k *kernel) relax(row, col int) {
	i := row*k.stride + col
	p := k.psi
	r := p[i+1] + p[i-1] + p[i+k.stride] + p[i-k.stride] - 4*p[i]
	if k.src != nil {
		r -= k.src[row*k.srcStride+col] / k.h2
	}
	k.res[row*k.n+col] = r
	p[i] += k.alpha * r / 4
}

func (k *kernel) sweepDescending() {
	for col := k.n - 2; col >= 1; col-- {
		for row := k.n - 2; row >= 1; row-- {
			if k.free[row*k.n+col] {
				k.relax(row, col)
			}
		}
	}
}

func (k *kernel) sweepAscending() {
	for col := 1; col < k.n-1; col++ {
		for row := 1; row < k.n-1; row++ {
			if k.free[row*k.n+col] {
				k.relax(row, col)
			}
		}
	}
}

// sweepRedBlack updates colour 0 then colour 1. Within a colour no position
// neighbours another of the same colour, so row blocks run concurrently.
func (k *kernel) sweepRedBlack(workers int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	for color := 0; color < 2; color++ {
		k.colorPass(color, workers)
	}
}

func (k *kernel) colorPass(color, workers int) {
	rows := k.n - 2
	if workers > rows {
		workers = rows
	}
	if workers <= 1 {
		k.colorRows(color, 1, k.n-1)
		return
	}

	chunk := (rows + workers - 1) / workers
	var g errgroup.Group
	for lo := 1; lo < k.n-1; lo += chunk {
		hi := min(lo+chunk, k.n-1)
		g.Go(func() error {
			k.colorRows(color, lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

func (k *kernel) colorRows(color, lo, hi int) {
	for row := lo; row < hi; row++ {
		start := 1
		if (row+start)%2 != color {
			start = 2
		}
		for col := start; col < k.n-1; col += 2 {
			if k.free[row*k.n+col] {
				k.relax(row, col)
			}
		}
	}
}

// maxResidual scans the scratch grid written by the last sweep.
func (k *kernel) maxResidual() float64 {
	var m float64
	for i, free := range k.free {
		if free {
			m = worse(m, math.Abs(k.res[i]))
		}
	}
	return m
}
