// Package reference provides the static vegetable reference catalog.
package reference

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/IsmaelMartinez/community-allotment-sub000/internal/domain/garden"
)

//go:embed vegetables.yaml
var embeddedCatalog []byte

// ErrInvalidCatalog is returned when catalog data fails validation
var ErrInvalidCatalog = errors.New("invalid vegetable catalog")

type catalogFile struct {
	Vegetables []garden.Vegetable `yaml:"vegetables"`
}

// Catalog is an immutable, in-memory vegetable catalog.
// It is safe for concurrent use.
type Catalog struct {
	vegetables []garden.Vegetable
	byID       map[string]int
}

var _ garden.VegetableCatalog = (*Catalog)(nil)

// LoadEmbedded loads the catalog bundled with the binary
func LoadEmbedded() (*Catalog, error) {
	return LoadFromBytes(embeddedCatalog)
}

// LoadFromFile loads a catalog from a YAML file
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates catalog YAML
func LoadFromBytes(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(file.Vegetables)
}

// New builds a catalog from vegetables, validating ids, categories and difficulties
func New(vegetables []garden.Vegetable) (*Catalog, error) {
	if len(vegetables) == 0 {
		return nil, fmt.Errorf("%w: no vegetables", ErrInvalidCatalog)
	}
	c := &Catalog{
		vegetables: make([]garden.Vegetable, 0, len(vegetables)),
		byID:       make(map[string]int, len(vegetables)),
	}
	for _, v := range vegetables {
		if v.ID == "" || v.Name == "" {
			return nil, fmt.Errorf("%w: vegetable id and name are required", ErrInvalidCatalog)
		}
		if _, dup := c.byID[v.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, v.ID)
		}
		if !v.Category.IsValid() {
			return nil, fmt.Errorf("%w: %s has unknown category %q", ErrInvalidCatalog, v.ID, v.Category)
		}
		if !v.CareDifficulty.IsValid() {
			return nil, fmt.Errorf("%w: %s has unknown difficulty %q", ErrInvalidCatalog, v.ID, v.CareDifficulty)
		}
		c.byID[v.ID] = len(c.vegetables)
		c.vegetables = append(c.vegetables, cloneVegetable(v))
	}
	return c, nil
}

// GetVegetableByID returns a copy of the vegetable with the given id
func (c *Catalog) GetVegetableByID(id string) (*garden.Vegetable, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	v := cloneVegetable(c.vegetables[i])
	return &v, true
}

// ListAllVegetables returns a copy of every vegetable in catalog order
func (c *Catalog) ListAllVegetables() []garden.Vegetable {
	out := make([]garden.Vegetable, len(c.vegetables))
	for i, v := range c.vegetables {
		out[i] = cloneVegetable(v)
	}
	return out
}

// Len returns the number of vegetables
func (c *Catalog) Len() int {
	return len(c.vegetables)
}

func cloneVegetable(v garden.Vegetable) garden.Vegetable {
	v.CompanionPlants = append([]string(nil), v.CompanionPlants...)
	v.AvoidPlants = append([]string(nil), v.AvoidPlants...)
	return v
}
