// Package catalog holds the fixed set of market scenarios the engine can run.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"ech-simulator/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var embedded []byte

// Catalog is an immutable, id-indexed scenario table.
type Catalog struct {
	byID  map[int]model.Scenario
	order []int
}

type catalogFile struct {
	Scenarios []model.Scenario `yaml:"scenarios"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(embedded)
}

// LoadFile reads a catalog from a YAML file with the same shape as the built-in one.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and checks a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("catalog has no scenarios")
	}

	c := &Catalog{byID: make(map[int]model.Scenario, len(f.Scenarios))}
	for _, s := range f.Scenarios {
		if s.ID <= 0 {
			return nil, fmt.Errorf("scenario %q: id must be > 0", s.Name)
		}
		if s.Name == "" {
			return nil, fmt.Errorf("scenario %d: name is required", s.ID)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("scenario %d: duplicate id", s.ID)
		}
		s.Parameters = model.Normalize(s.Parameters)
		c.byID[s.ID] = s
		c.order = append(c.order, s.ID)
	}
	sort.Ints(c.order)
	return c, nil
}

// Get returns a copy of the scenario so callers cannot mutate the catalog.
func (c *Catalog) Get(id int) (model.Scenario, bool) {
	s, ok := c.byID[id]
	if !ok {
		return model.Scenario{}, false
	}
	return clone(s), true
}

// All returns every scenario ordered by id.
func (c *Catalog) All() []model.Scenario {
	out := make([]model.Scenario, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.byID[id]))
	}
	return out
}

// ByCategory returns the scenarios in category, in id order.
func (c *Catalog) ByCategory(category string) []model.Scenario {
	out := []model.Scenario{}
	for _, id := range c.order {
		if s := c.byID[id]; s.Category == category {
			out = append(out, clone(s))
		}
	}
	return out
}

// Categories counts scenarios per category.
func (c *Catalog) Categories() map[string]int {
	counts := map[string]int{}
	for _, s := range c.byID {
		counts[s.Category]++
	}
	return counts
}

func clone(s model.Scenario) model.Scenario {
	s.Parameters = s.Parameters.Clone()
	s.AffectedRegions = append([]string(nil), s.AffectedRegions...)
	return s
}
