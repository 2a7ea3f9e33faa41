package habitat

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/catalog"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
)

// Reference errors. Operations that name an entity which does not exist fail
// with one of these; they never corrupt state or proceed with undefined
// values. Structural problems (collisions, bad connections) are never errors
// here — they are validation findings.
var (
	ErrDefinitionNotFound = errors.New("module definition not found")
	ErrModuleNotFound     = errors.New("module not found")
	ErrPointNotFound      = errors.New("connection point not found")
	ErrConnectionNotFound = errors.New("connection not found")
)

// Habitat owns the habitat state: placed modules in insertion order, the
// connection set, the current selection, and the derived statistics. It is
// the single logical owner of this state; readers (validator, exporters, UI
// bindings) only see fully settled snapshots between mutations.
type Habitat struct {
	catalog *catalog.Catalog

	modules  []*Module
	byID     map[ModuleID]*Module
	conns    []*Connection
	connByID map[ConnectionID]*Connection

	selected ModuleID
	stats    Statistics
}

// New creates an empty habitat backed by the given catalog.
func New(cat *catalog.Catalog) *Habitat {
	return &Habitat{
		catalog:  cat,
		byID:     make(map[ModuleID]*Module),
		connByID: make(map[ConnectionID]*Connection),
	}
}

// Catalog returns the definition catalog this habitat reads from.
func (h *Habitat) Catalog() *catalog.Catalog {
	return h.catalog
}

// Modules returns the placed modules in insertion order. The slice is shared;
// callers must not mutate it.
func (h *Habitat) Modules() []*Module {
	return h.modules
}

// Module returns the module with the given id, or nil.
func (h *Habitat) Module(id ModuleID) *Module {
	return h.byID[id]
}

// Definition resolves a module's catalog definition, or nil if the module or
// its definition is unknown.
func (h *Habitat) Definition(id ModuleID) *catalog.Definition {
	m := h.byID[id]
	if m == nil {
		return nil
	}
	return h.catalog.Lookup(m.Definition)
}

// Connections returns all connections in creation order.
func (h *Habitat) Connections() []*Connection {
	return h.conns
}

// Connection returns the connection with the given id, or nil.
func (h *Habitat) Connection(id ConnectionID) *Connection {
	return h.connByID[id]
}

// Statistics returns the current derived totals.
func (h *Habitat) Statistics() Statistics {
	return h.stats
}

// AddModule places a new instance of the given definition. The new module is
// not validated against the rest of the habitat: overlapping or disconnected
// placements are allowed and reported by the validator instead.
func (h *Habitat) AddModule(definitionID string, position, rotation geom.Vec) (*Module, error) {
	if h.catalog.Lookup(definitionID) == nil {
		return nil, fmt.Errorf("%w: %q", ErrDefinitionNotFound, definitionID)
	}

	m := &Module{
		ID:         ModuleID(uuid.NewString()),
		Definition: definitionID,
		Position:   position,
		Rotation:   rotation,
		CreatedAt:  time.Now(),
	}
	h.modules = append(h.modules, m)
	h.byID[m.ID] = m
	h.recomputeStatistics()
	return m, nil
}

// RemoveModule deletes a module. The selection is cleared if it pointed at
// the removed module. Connections referencing the module are left in place;
// the next validation pass reports them as invalid references instead of
// silently dropping them.
func (h *Habitat) RemoveModule(id ModuleID) error {
	if _, ok := h.byID[id]; !ok {
		return fmt.Errorf("%w: %q", ErrModuleNotFound, id)
	}

	delete(h.byID, id)
	for i, m := range h.modules {
		if m.ID == id {
			h.modules = append(h.modules[:i], h.modules[i+1:]...)
			break
		}
	}
	if h.selected == id {
		h.selected = ""
	}
	h.recomputeStatistics()
	return nil
}

// UpdateModule applies the non-nil fields of upd to a module in place.
func (h *Habitat) UpdateModule(id ModuleID, upd ModuleUpdate) error {
	m, ok := h.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrModuleNotFound, id)
	}

	if upd.Position != nil {
		m.Position = *upd.Position
	}
	if upd.Rotation != nil {
		m.Rotation = *upd.Rotation
	}
	h.recomputeStatistics()
	return nil
}

// AddConnection records a mating between two named points. Both modules and
// both points must exist, but the pairing is otherwise not validated:
// geometric validity is discovered by the validator pass, which allows the UI
// to show provisional connections without rejecting them upfront.
func (h *Habitat) AddConnection(a ModuleID, pointA string, b ModuleID, pointB string) (*Connection, error) {
	defA := h.Definition(a)
	if defA == nil {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, a)
	}
	defB := h.Definition(b)
	if defB == nil {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, b)
	}
	if defA.Point(pointA) == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrPointNotFound, a, pointA)
	}
	if defB.Point(pointB) == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrPointNotFound, b, pointB)
	}

	c := &Connection{
		ID:        ConnectionID(uuid.NewString()),
		ModuleA:   a,
		PointA:    pointA,
		ModuleB:   b,
		PointB:    pointB,
		CreatedAt: time.Now(),
	}
	h.conns = append(h.conns, c)
	h.connByID[c.ID] = c
	h.recomputeStatistics()
	return c, nil
}

// RemoveConnection deletes a connection.
func (h *Habitat) RemoveConnection(id ConnectionID) error {
	if _, ok := h.connByID[id]; !ok {
		return fmt.Errorf("%w: %q", ErrConnectionNotFound, id)
	}

	delete(h.connByID, id)
	for i, c := range h.conns {
		if c.ID == id {
			h.conns = append(h.conns[:i], h.conns[i+1:]...)
			break
		}
	}
	h.recomputeStatistics()
	return nil
}

// Select marks a module as the current selection.
func (h *Habitat) Select(id ModuleID) error {
	if _, ok := h.byID[id]; !ok {
		return fmt.Errorf("%w: %q", ErrModuleNotFound, id)
	}
	h.selected = id
	return nil
}

// ClearSelection drops the current selection.
func (h *Habitat) ClearSelection() {
	h.selected = ""
}

// Selected returns the currently selected module, or nil.
func (h *Habitat) Selected() *Module {
	if h.selected == "" {
		return nil
	}
	return h.byID[h.selected]
}

// recomputeStatistics rebuilds the derived totals from the module list.
// Called after every mutation so readers never observe stale totals.
func (h *Habitat) recomputeStatistics() {
	var s Statistics
	for _, m := range h.modules {
		def := h.catalog.Lookup(m.Definition)
		if def == nil {
			continue
		}
		s.TotalModules++
		s.TotalMass += def.Mass
		s.TotalCrewCapacity += def.CrewCapacity
		s.TotalPowerConsumption += def.PowerConsumption
		s.TotalPowerGeneration += def.PowerGeneration
		s.TotalCost += def.Cost
	}
	s.PowerBalance = s.TotalPowerGeneration - s.TotalPowerConsumption
	h.stats = s
}
