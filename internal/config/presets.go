package config

import "sort"

var Presets = map[string]map[string]*Config{
	"laplace": {
		"alpha110": {Scenario: "laplace", Size: 7, Alpha: 1.10},
		"alpha125": {Scenario: "laplace", Size: 7, Alpha: 1.25},
		"alpha135": {Scenario: "laplace", Size: 7, Alpha: 1.35},
		"alpha145": {Scenario: "laplace", Size: 7, Alpha: 1.45},
		"alpha210": {Scenario: "laplace", Size: 7, Alpha: 2.10, Unchecked: true},
		"fine": {
			Scenario: "laplace", Size: 51, Alpha: 1.88, MaxSweeps: 500,
		},
	},
	"poisson": {
		"line-right":           poisson("line-right"),
		"line-centre":          poisson("line-centre"),
		"line-corner":          poisson("line-corner"),
		"dipole-centre-right":  poisson("dipole-centre-right"),
		"dipole-centre-corner": poisson("dipole-centre-corner"),
		"dipole-left-right":    poisson("dipole-left-right"),
		"dipole-upper":         poisson("dipole-upper"),
		"dipole-left-corner":   poisson("dipole-left-corner"),
		"dipole-diagonal":      poisson("dipole-diagonal"),
	},
	"plates": {
		"default": {Scenario: "plates", Size: 100},
		"coarse":  {Scenario: "plates", Size: 25},
	},
	"box": {
		"default":  {Scenario: "box", Size: 100},
		"parallel": {Scenario: "box", Size: 100, Traversal: "redblack"},
	},
	"cylinder": {
		"small": {Scenario: "cylinder", Size: 100, Geometry: GeometryConfig{Radius: 12.5}},
		"large": {Scenario: "cylinder", Size: 100, Geometry: GeometryConfig{Radius: 25}},
	},
	"outflow": {
		"half":    {Scenario: "outflow", Size: 100, Geometry: GeometryConfig{Divisor: 2}},
		"third":   {Scenario: "outflow", Size: 100, Geometry: GeometryConfig{Divisor: 3}},
		"quarter": {Scenario: "outflow", Size: 100, Geometry: GeometryConfig{Divisor: 4}},
	},
}

func poisson(layout string) *Config {
	return &Config{Scenario: "poisson", Size: 25, Geometry: GeometryConfig{Layout: layout}}
}

func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
