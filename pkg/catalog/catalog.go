// Package catalog defines the read-only module catalog: the templates that
// placed habitat modules are instantiated from. The built-in catalog is
// embedded as YAML; user catalogs can be loaded from disk and merged over it.
package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
)

//go:embed catalog.yaml
var builtinYAML []byte

// Kind is the functional category of a module definition.
type Kind string

const (
	KindCore        Kind = "core"
	KindHabitation  Kind = "habitation"
	KindScience     Kind = "science"
	KindLifeSupport Kind = "life-support"
	KindPower       Kind = "power"
	KindAirlock     Kind = "airlock"
)

// validKinds enumerates the accepted module kinds.
var validKinds = map[Kind]bool{
	KindCore:        true,
	KindHabitation:  true,
	KindScience:     true,
	KindLifeSupport: true,
	KindPower:       true,
	KindAirlock:     true,
}

// PointType categorizes a connection point. It governs which points may mate.
type PointType string

const (
	PointStructural PointType = "structural"
	PointUtility    PointType = "utility"
	PointExternal   PointType = "external"
)

var validPointTypes = map[PointType]bool{
	PointStructural: true,
	PointUtility:    true,
	PointExternal:   true,
}

// ConnectionPoint is a named, typed attachment location on a module surface,
// given in module-local coordinates with an outward unit normal.
type ConnectionPoint struct {
	ID       string    `yaml:"id" json:"id"`
	Type     PointType `yaml:"type" json:"type"`
	Position geom.Vec  `yaml:"position" json:"position"`
	Normal   geom.Vec  `yaml:"normal" json:"normal"`
}

// Definition is an immutable catalog entry describing one module template.
// Dimensions are meters (X=width, Y=height, Z=depth), mass is kg, power is
// watts, cost is millions of dollars.
type Definition struct {
	ID               string            `yaml:"id" json:"id"`
	Name             string            `yaml:"name" json:"name"`
	Kind             Kind              `yaml:"kind" json:"kind"`
	Dimensions       geom.Vec          `yaml:"dimensions" json:"dimensions"`
	Mass             float64           `yaml:"mass" json:"mass"`
	CrewCapacity     int               `yaml:"crew_capacity" json:"crewCapacity"`
	PowerConsumption float64           `yaml:"power_consumption" json:"powerConsumption"`
	PowerGeneration  float64           `yaml:"power_generation" json:"powerGeneration"`
	Cost             float64           `yaml:"cost" json:"cost"`
	Color            string            `yaml:"color" json:"color"`
	Points           []ConnectionPoint `yaml:"points" json:"points"`
}

// Point returns the connection point with the given id, or nil.
func (d *Definition) Point(id string) *ConnectionPoint {
	for i := range d.Points {
		if d.Points[i].ID == id {
			return &d.Points[i]
		}
	}
	return nil
}

// normalTolerance bounds how far a declared normal may deviate from unit
// length before the definition is rejected.
const normalTolerance = 1e-6

// check verifies the definition invariants: positive dimensions, non-negative
// resources, unique point ids, unit-length normals, known kind and point types.
func (d *Definition) check() error {
	if d.ID == "" {
		return fmt.Errorf("definition has no id")
	}
	if !validKinds[d.Kind] {
		return fmt.Errorf("definition %q: unknown kind %q", d.ID, d.Kind)
	}
	if d.Dimensions.X <= 0 || d.Dimensions.Y <= 0 || d.Dimensions.Z <= 0 {
		return fmt.Errorf("definition %q: dimensions must be positive, got %v", d.ID, d.Dimensions)
	}
	if d.Mass < 0 || d.CrewCapacity < 0 || d.PowerConsumption < 0 || d.PowerGeneration < 0 || d.Cost < 0 {
		return fmt.Errorf("definition %q: resource values must be non-negative", d.ID)
	}

	seen := make(map[string]bool, len(d.Points))
	for _, p := range d.Points {
		if p.ID == "" {
			return fmt.Errorf("definition %q: connection point with empty id", d.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("definition %q: duplicate connection point id %q", d.ID, p.ID)
		}
		seen[p.ID] = true
		if !validPointTypes[p.Type] {
			return fmt.Errorf("definition %q: point %q has unknown type %q", d.ID, p.ID, p.Type)
		}
		if math.Abs(p.Normal.Length()-1) > normalTolerance {
			return fmt.Errorf("definition %q: point %q normal %v is not unit length", d.ID, p.ID, p.Normal)
		}
	}
	return nil
}

// Catalog is a lookup table of module definitions. It is read-only after
// construction; the engine only ever reads from it.
type Catalog struct {
	defs  map[string]*Definition
	order []string
}

// catalogFile is the on-disk/embedded YAML shape.
type catalogFile struct {
	Modules []*Definition `yaml:"modules"`
}

// Parse builds a catalog from YAML bytes, checking every definition.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{defs: make(map[string]*Definition, len(file.Modules))}
	for _, d := range file.Modules {
		if err := d.check(); err != nil {
			return nil, err
		}
		if _, exists := c.defs[d.ID]; exists {
			return nil, fmt.Errorf("duplicate definition id %q", d.ID)
		}
		c.defs[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	return c, nil
}

// Load reads and parses a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Builtin returns the embedded default catalog. The embedded data is
// validated at build time by the package tests, so a parse failure here is
// a programming error.
func Builtin() *Catalog {
	c, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog invalid: %v", err))
	}
	return c
}

// Lookup returns the definition with the given id, or nil.
func (c *Catalog) Lookup(id string) *Definition {
	return c.defs[id]
}

// Definitions returns all definitions in declaration order.
func (c *Catalog) Definitions() []*Definition {
	out := make([]*Definition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.defs[id])
	}
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Merge overlays other onto c: definitions with the same id are replaced,
// new ones appended in the other catalog's order.
func (c *Catalog) Merge(other *Catalog) {
	for _, id := range other.order {
		if _, exists := c.defs[id]; !exists {
			c.order = append(c.order, id)
		}
		c.defs[id] = other.defs[id]
	}
}
