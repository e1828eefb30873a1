package scenario

import (
	"fmt"
	"sort"
)

// Params carries the knobs a scenario builder may read. Zero values select
// the entry defaults.
type Params struct {
	Size    int
	Alpha   float64
	Radius  float64
	Divisor int
	Layout  string
	Charges []Charge
}

// Entry is a named scenario builder.
type Entry struct {
	Name        string
	Description string
	// Size is the grid side used when Params.Size is zero.
	Size  int
	Build func(Params) (*Problem, error)
}

// DefaultLaplaceAlpha is the fastest converging factor of the Laplace study.
const DefaultLaplaceAlpha = 1.35

// DefaultDivisor narrows the outflow to half the channel.
const DefaultDivisor = 2

func size(p Params, def int) int {
	if p.Size > 0 {
		return p.Size
	}
	return def
}

var entries = []Entry{
	{
		Name:        "laplace",
		Description: "fixed boundary, psi = sin(x)sinh(y) on top and right edges",
		Size:        7,
		Build: func(p Params) (*Problem, error) {
			alpha := p.Alpha
			if alpha == 0 {
				alpha = DefaultLaplaceAlpha
			}
			return Laplace(size(p, 7), alpha)
		},
	},
	{
		Name:        "poisson",
		Description: "line charges and dipoles inside a grounded square",
		Size:        25,
		Build: func(p Params) (*Problem, error) {
			n := size(p, 25)
			if len(p.Charges) > 0 {
				return Poisson(n, p.Charges...)
			}
			layout := p.Layout
			if layout == "" {
				layout = DefaultLayout
			}
			return PoissonLayout(n, layout)
		},
	},
	{
		Name:        "plates",
		Description: "stream function between parallel plates",
		Size:        100,
		Build:       func(p Params) (*Problem, error) { return Plates(size(p, 100)) },
	},
	{
		Name:        "box",
		Description: "flow past a square obstacle",
		Size:        100,
		Build:       func(p Params) (*Problem, error) { return Box(size(p, 100)) },
	},
	{
		Name:        "cylinder",
		Description: "flow past a circular obstacle",
		Size:        100,
		Build:       func(p Params) (*Problem, error) { return Cylinder(size(p, 100), p.Radius) },
	},
	{
		Name:        "outflow",
		Description: "channel with a narrowed outlet",
		Size:        100,
		Build: func(p Params) (*Problem, error) {
			d := p.Divisor
			if d == 0 {
				d = DefaultDivisor
			}
			return Outflow(size(p, 100), d)
		},
	},
}

// Catalog returns every built-in scenario sorted by name.
func Catalog() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the named entry.
func Lookup(name string) (Entry, error) {
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("unknown scenario: %s", name)
}

// Build looks up name and builds it with p.
func Build(name string, p Params) (*Problem, error) {
	e, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return e.Build(p)
}
