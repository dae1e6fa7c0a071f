// Package catalog holds the fixed, versioned table of statistical methods the
// recommender can choose from. It is reference data, loaded once and read-only.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"statadvisor/domain/recommendation"
	"statadvisor/internal/errors"
)

//go:embed methods.yaml
var methodsYAML []byte

type document struct {
	Version string                            `yaml:"version"`
	Methods []recommendation.MethodDescriptor `yaml:"methods"`
}

// Catalog is an immutable method table keyed by id
type Catalog struct {
	version string
	order   []string
	byID    map[string]recommendation.MethodDescriptor
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog, parsed on first use
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(methodsYAML)
	})
	return defaultCatalog, defaultErr
}

// Parse builds a catalog from a YAML document and checks its integrity
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse method catalog")
	}
	if strings.TrimSpace(doc.Version) == "" {
		return nil, errors.CatalogInvalid("method catalog has no version")
	}

	c := &Catalog{
		version: doc.Version,
		order:   make([]string, 0, len(doc.Methods)),
		byID:    make(map[string]recommendation.MethodDescriptor, len(doc.Methods)),
	}
	for i, m := range doc.Methods {
		if m.ID == "" || m.Name == "" {
			return nil, errors.CatalogInvalid(fmt.Sprintf("method #%d is missing id or name", i))
		}
		if _, dup := c.byID[m.ID]; dup {
			return nil, errors.CatalogInvalid(fmt.Sprintf("duplicate method id %q", m.ID))
		}
		c.byID[m.ID] = m
		c.order = append(c.order, m.ID)
	}
	return c, nil
}

// Version returns the catalog version string
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of methods
func (c *Catalog) Len() int {
	return len(c.order)
}

// Get returns a copy of the descriptor for id
func (c *Catalog) Get(id string) (recommendation.MethodDescriptor, bool) {
	m, ok := c.byID[id]
	if !ok {
		return recommendation.MethodDescriptor{}, false
	}
	return m.Clone(), true
}

// All returns copies of every descriptor in catalog order
func (c *Catalog) All() []recommendation.MethodDescriptor {
	out := make([]recommendation.MethodDescriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].Clone())
	}
	return out
}

// ByCategory returns the descriptors of one category in catalog order
func (c *Catalog) ByCategory(category recommendation.Category) []recommendation.MethodDescriptor {
	var out []recommendation.MethodDescriptor
	for _, id := range c.order {
		if m := c.byID[id]; m.Category == category {
			out = append(out, m.Clone())
		}
	}
	return out
}

// Validate fails when any of ids is absent from the catalog
func (c *Catalog) Validate(ids []string) error {
	var missing []string
	for _, id := range ids {
		if _, ok := c.byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.CatalogInvalid(fmt.Sprintf("catalog %s is missing methods: %s", c.version, strings.Join(missing, ", ")))
	}
	return nil
}

