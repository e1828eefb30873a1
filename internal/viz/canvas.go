package viz

import (
	"math"
	"strings"

	"github.com/san-kum/relaxlab/internal/field"
	"github.com/san-kum/relaxlab/internal/relax"
)

// Braille cells hold 2x4 dots; the bit of each dot, by sub-row and
// sub-column, is added to U+2800.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Braille dot canvas of Width×Height terminal cells, that is
// 2·Width × 4·Height dots.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set turns on the dot at (x, y); out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return
	}
	c.cells[y/4][x/2] |= dotBits[y%4][x%2]
}

// Clear blanks the canvas.
func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBlank
		}
	}
}

// Line draws a straight line between two dots (Bresenham).
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Flow draws the sampled velocity of an n×n grid as arrows, the longest
// spanning one sampling step, with fixed interior positions as single dots.
// Rows map upward so the picture matches the heat map.
func (c *Canvas) Flow(arrows []field.Arrow, fixed relax.Fixed, n, stride int) {
	if n < 2 {
		return
	}
	W, H := float64(2*c.Width-1), float64(4*c.Height-1)
	d := float64(n - 1)
	toDot := func(row, col float64) (int, int) {
		return int(math.Round(col / d * W)), int(math.Round((1 - row/d) * H))
	}

	if fixed != nil {
		for row := 1; row < n-1; row++ {
			for col := 1; col < n-1; col++ {
				if fixed.Fixed(row, col) {
					c.Set(toDot(float64(row), float64(col)))
				}
			}
		}
	}

	var longest float64
	for _, a := range arrows {
		longest = math.Max(longest, math.Hypot(a.U, a.V))
	}
	if longest == 0 {
		return
	}
	scale := float64(stride) / longest
	for _, a := range arrows {
		if a.U == 0 && a.V == 0 {
			continue
		}
		x0, y0 := toDot(float64(a.Row), float64(a.Col))
		// U runs along x (columns) and V along y (rows).
		x1, y1 := toDot(float64(a.Row)+a.V*scale, float64(a.Col)+a.U*scale)
		c.Line(x0, y0, x1, y1)
		c.Set(x1+1, y1)
		c.Set(x1-1, y1)
	}
}
