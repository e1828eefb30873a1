// Package render draws solved grids and their sample histories to image
// files. The output format follows the file extension: png, svg, pdf, eps,
// jpg or tif.
package render

import (
	"fmt"
	"math"

	"github.com/san-kum/relaxlab/internal/field"
	"github.com/san-kum/relaxlab/internal/relax"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Figure size of every saved plot.
var (
	Width  = 6 * vg.Inch
	Height = 5 * vg.Inch
)

// Levels is the number of contour lines drawn over a heat map.
var Levels = 10

// unitGrid exposes a square matrix as plotter.GridXYZ on the unit square:
// columns run along x and rows along y.
type unitGrid struct {
	m mat.Matrix
	d float64
}

func newUnitGrid(m mat.Matrix) unitGrid {
	n, _ := m.Dims()
	return unitGrid{m: m, d: float64(n - 1)}
}

func (g unitGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g unitGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g unitGrid) X(c int) float64    { return float64(c) / g.d }
func (g unitGrid) Y(r int) float64    { return float64(r) / g.d }

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	return p
}

// heatPlot is the shared base of the grid plots.
func heatPlot(psi mat.Matrix, title string, contours bool) (*plot.Plot, error) {
	n, c := psi.Dims()
	if n != c || n < 2 {
		return nil, fmt.Errorf("render: grid must be square with side at least 2, got %dx%d", n, c)
	}
	s := field.Stats(psi)
	if math.IsNaN(s.Min) || math.IsNaN(s.Max) || math.IsInf(s.Min, 0) || math.IsInf(s.Max, 0) {
		return nil, fmt.Errorf("render: grid holds non-finite values")
	}

	p := newPlot(title)
	g := newUnitGrid(psi)

	h := plotter.NewHeatMap(g, palette.Heat(32, 1))
	if s.Max == s.Min {
		h.Max = h.Min + 1
	}
	p.Add(h)

	if contours && s.Max > s.Min {
		levels := floats.Span(make([]float64, Levels+2), s.Min, s.Max)[1 : Levels+1]
		p.Add(plotter.NewContour(g, levels, palette.Rainbow(Levels, palette.Blue, palette.Red, 1, 1, 1)))
	}

	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	return p, nil
}

// HeatMap saves psi as a heat map with contour lines.
func HeatMap(psi mat.Matrix, title, path string) error {
	p, err := heatPlot(psi, title, true)
	if err != nil {
		return err
	}
	return p.Save(Width, Height, path)
}

// Quiver saves psi as a heat map overlaid with the flow velocity, drawing
// one arrow every stride positions.
func Quiver(psi mat.Matrix, stride int, title, path string) error {
	p, err := heatPlot(psi, title, false)
	if err != nil {
		return err
	}
	u, v := field.Velocity(psi)
	n, _ := psi.Dims()
	p.Add(NewArrows(field.Sample(u, v, stride), n, stride))
	return p.Save(Width, Height, path)
}

// History saves one line per sample point against the sweep number.
func History(h *relax.History, names []string, title, path string) error {
	if h.Len() == 0 {
		return fmt.Errorf("render: empty history")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "sweep"
	p.Y.Label.Text = "psi"

	var lines []interface{}
	for k, series := range h.Values {
		xys := make(plotter.XYs, len(series))
		for i, v := range series {
			xys[i].X = float64(i + 1)
			xys[i].Y = v
		}
		name := fmt.Sprintf("(%d, %d)", h.Points[k].Row, h.Points[k].Col)
		if k < len(names) {
			name = names[k]
		}
		lines = append(lines, name, xys)
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}
	return p.Save(Width, Height, path)
}

// Residuals saves the per-sweep maximum residual on a log scale.
func Residuals(residuals []float64, title, path string) error {
	xys := make(plotter.XYs, 0, len(residuals))
	for i, r := range residuals {
		if r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r) {
			xys = append(xys, plotter.XY{X: float64(i + 1), Y: r})
		}
	}
	if len(xys) == 0 {
		return fmt.Errorf("render: no positive residuals to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "sweep"
	p.Y.Label.Text = "max |residual|"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())
	return p.Save(Width, Height, path)
}
