package config

import (
	"os"

	"github.com/san-kum/relaxlab/internal/relax"
	"github.com/san-kum/relaxlab/internal/scenario"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScenario  = "laplace"
	DefaultTraversal = "descending"
)

// Config is a run description. Zero numeric fields leave the scenario
// default in place.
type Config struct {
	Scenario  string         `yaml:"scenario"`
	Size      int            `yaml:"size,omitempty"`
	Alpha     float64        `yaml:"alpha,omitempty"`
	Tolerance float64        `yaml:"tolerance,omitempty"`
	MaxSweeps int            `yaml:"max_sweeps,omitempty"`
	Traversal string         `yaml:"traversal,omitempty"`
	Workers   int            `yaml:"workers,omitempty"`
	Unchecked bool           `yaml:"unchecked,omitempty"`
	Geometry  GeometryConfig `yaml:"geometry,omitempty"`
}

// GeometryConfig holds the scenario specific shape knobs.
type GeometryConfig struct {
	Radius  float64           `yaml:"radius,omitempty"`
	Divisor int               `yaml:"divisor,omitempty"`
	Layout  string            `yaml:"layout,omitempty"`
	Charges []scenario.Charge `yaml:"charges,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:  DefaultScenario,
		Traversal: DefaultTraversal,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params returns the scenario builder inputs.
func (c *Config) Params() scenario.Params {
	return scenario.Params{
		Size:    c.Size,
		Alpha:   c.Alpha,
		Radius:  c.Geometry.Radius,
		Divisor: c.Geometry.Divisor,
		Layout:  c.Geometry.Layout,
		Charges: c.Geometry.Charges,
	}
}

// Apply overlays the non-zero solver settings of c on base.
func (c *Config) Apply(base relax.Config) (relax.Config, error) {
	if c.Alpha != 0 {
		base.Alpha = c.Alpha
	}
	if c.Tolerance != 0 {
		base.Tolerance = c.Tolerance
	}
	if c.MaxSweeps != 0 {
		base.MaxSweeps = c.MaxSweeps
	}
	if c.Traversal != "" {
		t, err := relax.ParseTraversal(c.Traversal)
		if err != nil {
			return base, err
		}
		base.Traversal = t
	}
	if c.Workers != 0 {
		base.Workers = c.Workers
	}
	if c.Unchecked {
		base.Unchecked = true
	}
	return base, nil
}

// Merge copies every non-zero field of o into c.
func (c *Config) Merge(o *Config) {
	if o == nil {
		return
	}
	if o.Scenario != "" {
		c.Scenario = o.Scenario
	}
	if o.Size != 0 {
		c.Size = o.Size
	}
	if o.Alpha != 0 {
		c.Alpha = o.Alpha
	}
	if o.Tolerance != 0 {
		c.Tolerance = o.Tolerance
	}
	if o.MaxSweeps != 0 {
		c.MaxSweeps = o.MaxSweeps
	}
	if o.Traversal != "" {
		c.Traversal = o.Traversal
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.Unchecked {
		c.Unchecked = true
	}
	if o.Geometry.Radius != 0 {
		c.Geometry.Radius = o.Geometry.Radius
	}
	if o.Geometry.Divisor != 0 {
		c.Geometry.Divisor = o.Geometry.Divisor
	}
	if o.Geometry.Layout != "" {
		c.Geometry.Layout = o.Geometry.Layout
	}
	if len(o.Geometry.Charges) > 0 {
		c.Geometry.Charges = append([]scenario.Charge(nil), o.Geometry.Charges...)
	}
}
