package render

import (
	"image/color"
	"math"

	"github.com/san-kum/relaxlab/internal/field"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Arrows is a quiver plotter. Arrow lengths are scaled so the longest one
// spans one sampling step.
type Arrows struct {
	arrows []field.Arrow
	d      float64
	scale  float64

	draw.LineStyle
	// Head is the length of each barb of the arrow head.
	Head vg.Length
}

// NewArrows returns a plotter for arrows sampled from an n×n grid.
func NewArrows(arrows []field.Arrow, n, stride int) *Arrows {
	if stride < 1 {
		stride = 1
	}
	var longest float64
	for _, a := range arrows {
		longest = math.Max(longest, math.Hypot(a.U, a.V))
	}
	d := float64(n - 1)
	scale := 0.0
	if longest > 0 {
		scale = float64(stride) / d / longest
	}
	return &Arrows{
		arrows: arrows,
		d:      d,
		scale:  scale,
		LineStyle: draw.LineStyle{
			Color: color.Black,
			Width: vg.Points(0.7),
		},
		Head: vg.Points(3),
	}
}

// Plot implements plot.Plotter.
func (a *Arrows) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, ar := range a.arrows {
		if ar.U == 0 && ar.V == 0 {
			continue
		}
		x0, y0 := float64(ar.Col)/a.d, float64(ar.Row)/a.d
		x1, y1 := x0+ar.U*a.scale, y0+ar.V*a.scale

		from := vg.Point{X: trX(x0), Y: trY(y0)}
		to := vg.Point{X: trX(x1), Y: trY(y1)}
		c.StrokeLine2(a.LineStyle, from.X, from.Y, to.X, to.Y)

		ang := math.Atan2(float64(to.Y-from.Y), float64(to.X-from.X))
		for _, side := range []float64{-1, 1} {
			t := ang + math.Pi - side*math.Pi/6
			tip := vg.Point{
				X: to.X + a.Head*vg.Length(math.Cos(t)),
				Y: to.Y + a.Head*vg.Length(math.Sin(t)),
			}
			c.StrokeLine2(a.LineStyle, to.X, to.Y, tip.X, tip.Y)
		}
	}
}

// DataRange implements plot.DataRanger.
func (a *Arrows) DataRange() (xmin, xmax, ymin, ymax float64) {
	return 0, 1, 0, 1
}
