package scenario

import (
	"fmt"
	"math"

	"github.com/san-kum/relaxlab/internal/relax"
)

// Charge is a line charge of strength Q at unit-square coordinates (X, Y).
// Y runs along rows and X along columns.
type Charge struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Q float64 `yaml:"q" json:"q"`
}

// Cell returns the grid position of c on an n×n grid.
func (c Charge) Cell(n int) relax.Point {
	d := float64(n - 1)
	return relax.Point{Row: int(math.Round(c.Y * d)), Col: int(math.Round(c.X * d))}
}

// ChargeLayout is a named set of charges.
type ChargeLayout struct {
	Name        string
	Description string
	Charges     []Charge
}

var layouts = []ChargeLayout{
	{"line-right", "line charge at (0.75, 0.5)", []Charge{{0.75, 0.5, 100}}},
	{"line-centre", "line charge at (0.5, 0.5)", []Charge{{0.5, 0.5, 100}}},
	{"line-corner", "line charge at (0.75, 0.75)", []Charge{{0.75, 0.75, 100}}},
	{"dipole-centre-right", "dipole from (0.5, 0.5) to (0.75, 0.5)", []Charge{{0.5, 0.5, -100}, {0.75, 0.5, 100}}},
	{"dipole-centre-corner", "dipole from (0.5, 0.5) to (0.75, 0.75)", []Charge{{0.5, 0.5, -100}, {0.75, 0.75, 100}}},
	{"dipole-left-right", "dipole from (0.25, 0.5) to (0.75, 0.5)", []Charge{{0.25, 0.5, -100}, {0.75, 0.5, 100}}},
	{"dipole-upper", "dipole from (0.25, 0.75) to (0.75, 0.75)", []Charge{{0.25, 0.75, -100}, {0.75, 0.75, 100}}},
	{"dipole-left-corner", "dipole from (0.25, 0.5) to (0.75, 0.75)", []Charge{{0.25, 0.5, -100}, {0.75, 0.75, 100}}},
	{"dipole-diagonal", "dipole from (0.25, 0.25) to (0.75, 0.75)", []Charge{{0.25, 0.25, -100}, {0.75, 0.75, 100}}},
}

// DefaultLayout is used when a Poisson problem names no charges.
const DefaultLayout = "line-right"

// Layouts returns the built-in charge layouts.
func Layouts() []ChargeLayout {
	out := make([]ChargeLayout, len(layouts))
	copy(out, layouts)
	return out
}

// FindLayout looks a layout up by name.
func FindLayout(name string) (ChargeLayout, error) {
	for _, l := range layouts {
		if l.Name == name {
			return l, nil
		}
	}
	return ChargeLayout{}, fmt.Errorf("unknown charge layout: %s", name)
}

// Poisson places charges on a zero grid whose border is held at zero.
// Charges landing on the same cell add up.
func Poisson(n int, charges ...Charge) (*Problem, error) {
	if err := checkSize(n, 3); err != nil {
		return nil, err
	}
	if len(charges) == 0 {
		return nil, fmt.Errorf("%w: poisson problem needs at least one charge", relax.ErrInvalidParameter)
	}

	src := relax.NewGrid(n)
	for _, c := range charges {
		if c.X < 0 || c.X > 1 || c.Y < 0 || c.Y > 1 {
			return nil, fmt.Errorf("%w: charge at (%g, %g) outside the unit square", relax.ErrInvalidParameter, c.X, c.Y)
		}
		p := c.Cell(n)
		src.Set(p.Row, p.Col, src.At(p.Row, p.Col)+c.Q)
	}

	return &Problem{
		Name:        "poisson",
		Description: describeCharges(charges),
		Grid:        relax.NewGrid(n),
		Fixed:       relax.BorderMask(n),
		Source:      src,
		Config:      relax.PoissonConfig(n),
	}, nil
}

// PoissonLayout builds a Poisson problem from a named layout.
func PoissonLayout(n int, name string) (*Problem, error) {
	l, err := FindLayout(name)
	if err != nil {
		return nil, err
	}
	p, err := Poisson(n, l.Charges...)
	if err != nil {
		return nil, err
	}
	p.Description = "psi(x, y) for a " + l.Description
	return p, nil
}

func describeCharges(charges []Charge) string {
	s := "psi(x, y) for charges"
	for i, c := range charges {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf(" %+g at (%g, %g)", c.Q, c.X, c.Y)
	}
	return s
}
