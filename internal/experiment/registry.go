package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/relaxlab/internal/scenario"
)

// Builder turns scenario parameters into a problem.
type Builder func(scenario.Params) (*scenario.Problem, error)

type Registry struct {
	scenarios    map[string]Builder
	descriptions map[string]string
}

// NewRegistry returns a registry holding every built-in scenario.
func NewRegistry() *Registry {
	r := &Registry{
		scenarios:    make(map[string]Builder),
		descriptions: make(map[string]string),
	}
	for _, e := range scenario.Catalog() {
		r.Register(e.Name, e.Description, e.Build)
	}
	return r
}

// Register adds or replaces a scenario.
func (r *Registry) Register(name, description string, b Builder) {
	r.scenarios[name] = b
	r.descriptions[name] = description
}

func (r *Registry) GetScenario(name string, p scenario.Params) (*scenario.Problem, error) {
	fn, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return fn(p)
}

func (r *Registry) Describe(name string) string {
	return r.descriptions[name]
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
