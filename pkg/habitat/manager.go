package habitat

import (
	"fmt"
	"math"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
)

// Placement defaults.
const (
	// DefaultGridSize is the snap grid in meters. Zero disables snapping.
	DefaultGridSize = 0.5

	// DefaultSpacing is the candidate offset used by the optimal-position
	// search when placing next to an existing module.
	DefaultSpacing = 8.0
)

// DefaultCloneOffset is where a clone lands relative to its source.
var DefaultCloneOffset = geom.V(2, 0, 0)

// PlacementConfig tunes the manager's heuristics.
type PlacementConfig struct {
	GridSize    float64
	Spacing     float64
	CloneOffset geom.Vec
}

// DefaultPlacementConfig returns the stock configuration.
func DefaultPlacementConfig() PlacementConfig {
	return PlacementConfig{
		GridSize:    DefaultGridSize,
		Spacing:     DefaultSpacing,
		CloneOffset: DefaultCloneOffset,
	}
}

// Manager layers placement heuristics over a habitat: grid snapping, optimal
// position search, cloning, auto-connect, and layout metrics. It mutates the
// habitat only through the habitat's own operations.
type Manager struct {
	Habitat *Habitat
	Config  PlacementConfig
}

// NewManager wraps a habitat with the default placement configuration.
func NewManager(h *Habitat) *Manager {
	return &Manager{Habitat: h, Config: DefaultPlacementConfig()}
}

// SnapToGrid rounds each coordinate to the nearest multiple of grid.
// A non-positive grid returns v unchanged.
func SnapToGrid(v geom.Vec, grid float64) geom.Vec {
	if grid <= 0 {
		return v
	}
	return geom.V(
		math.Round(v.X/grid)*grid,
		math.Round(v.Y/grid)*grid,
		math.Round(v.Z/grid)*grid,
	)
}

// candidateOffsets lists the optimal-position candidates around a reference
// module, in the order they are tried.
func candidateOffsets(spacing float64) []geom.Vec {
	return []geom.Vec{
		geom.V(spacing, 0, 0),
		geom.V(-spacing, 0, 0),
		geom.V(0, 0, spacing),
		geom.V(0, 0, -spacing),
		geom.V(0, spacing, 0),
		geom.V(0, -spacing, 0),
	}
}

// OptimalPosition picks a position for a new module. An empty habitat places
// at the origin. Otherwise the reference is the explicitly named target, or
// the most recently added module, and the first candidate offset wins.
// The candidates are not re-checked for collisions against the whole
// habitat; the validator reports any resulting overlap after placement.
func (mg *Manager) OptimalPosition(target ModuleID) geom.Vec {
	h := mg.Habitat
	if len(h.modules) == 0 {
		return SnapToGrid(geom.Vec{}, mg.Config.GridSize)
	}

	ref := h.byID[target]
	if ref == nil {
		ref = h.modules[len(h.modules)-1]
	}

	candidate := ref.Position.Add(candidateOffsets(mg.Config.Spacing)[0])
	return SnapToGrid(candidate, mg.Config.GridSize)
}

// Place adds a new module of the given definition at the optimal position
// relative to target ("" for the most recent module) and selects it.
func (mg *Manager) Place(definitionID string, target ModuleID) (*Module, error) {
	pos := mg.OptimalPosition(target)
	return mg.PlaceAt(definitionID, pos, geom.Vec{})
}

// PlaceAt adds a new module at an explicit position (grid-snapped) and
// selects it.
func (mg *Manager) PlaceAt(definitionID string, position, rotation geom.Vec) (*Module, error) {
	m, err := mg.Habitat.AddModule(definitionID, SnapToGrid(position, mg.Config.GridSize), rotation)
	if err != nil {
		return nil, err
	}
	if err := mg.Habitat.Select(m.ID); err != nil {
		return nil, err
	}
	return m, nil
}

// Clone duplicates a module at its position plus the clone offset, keeping
// its rotation. The clone goes through the normal placement path and so
// becomes the current selection.
func (mg *Manager) Clone(id ModuleID) (*Module, error) {
	src := mg.Habitat.Module(id)
	if src == nil {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, id)
	}
	return mg.PlaceAt(src.Definition, src.Position.Add(mg.Config.CloneOffset), src.Rotation)
}

// AutoConnect finds the closest valid connection for the module at its
// current position and records it. Returns nil (no error) when no candidate
// passes; failure to connect is an expected outcome, not a fault.
func (mg *Manager) AutoConnect(id ModuleID) (*Connection, error) {
	m := mg.Habitat.Module(id)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, id)
	}

	candidates := mg.Habitat.PotentialConnections(id, m.Position)
	if len(candidates) == 0 {
		return nil, nil
	}

	best := candidates[0]
	return mg.Habitat.AddConnection(best.Target.Module, best.Target.PointID, best.Other.Module, best.Other.PointID)
}

// CenterOfMass returns the mass-weighted average of module positions, or the
// origin when there are no modules or the total mass is zero.
func (mg *Manager) CenterOfMass() geom.Vec {
	var sum geom.Vec
	var totalMass float64

	for _, m := range mg.Habitat.modules {
		def := mg.Habitat.catalog.Lookup(m.Definition)
		if def == nil {
			continue
		}
		sum = sum.Add(m.Position.MulScalar(def.Mass))
		totalMass += def.Mass
	}

	if totalMass == 0 {
		return geom.Vec{}
	}
	return sum.DivScalar(totalMass)
}

// BoundingBox returns the axis-aligned box enclosing all module boxes
// (unbuffered). The second return is false for an empty habitat.
func (mg *Manager) BoundingBox() (geom.Box, bool) {
	var box geom.Box
	found := false

	for _, m := range mg.Habitat.modules {
		def := mg.Habitat.catalog.Lookup(m.Definition)
		if def == nil {
			continue
		}
		mb := geom.BoxAt(m.Position, def.Dimensions)
		if !found {
			box = mb
			found = true
		} else {
			box = geom.Union(box, mb)
		}
	}
	return box, found
}

// Density returns the module count divided by the enclosing box volume,
// or 0 when the box is degenerate or the habitat is empty.
func (mg *Manager) Density() float64 {
	box, ok := mg.BoundingBox()
	if !ok {
		return 0
	}
	vol := geom.Volume(box)
	if vol == 0 {
		return 0
	}
	return float64(len(mg.Habitat.modules)) / vol
}
