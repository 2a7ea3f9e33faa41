package habitat

import (
	"fmt"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/catalog"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
)

// CollisionBuffer is the clearance margin, in meters, added to every side of
// a module's bounding box before the overlap test.
const CollisionBuffer = 0.2

// Severity indicates whether a validation finding blocks nothing (warning)
// or marks the habitat as structurally invalid (error). Findings never abort
// mutations; they are advisory output for the UI.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding codes.
const (
	CodeCollision         = "collision"
	CodeInvalidReference  = "invalid-reference"
	CodeInvalidConnection = "invalid-connection"
	CodeDisconnected      = "disconnected"
)

// ValidationError describes a structural problem found during validation.
type ValidationError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Modules    []ModuleID   `json:"modules,omitempty"`
	Connection ConnectionID `json:"connection,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Module  ModuleID `json:"module,omitempty"`
}

// ValidationResult bundles errors and warnings from all validation passes.
// It is transient: always recomputed from current state, never persisted.
type ValidationResult struct {
	Errors   []ValidationError   `json:"errors"`
	Warnings []ValidationWarning `json:"warnings"`
}

// Valid reports whether the habitat has no blocking errors.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate runs the full validation over the habitat's current state.
func (h *Habitat) Validate() ValidationResult {
	return ValidateHabitat(h.catalog, h.modules, h.conns)
}

// ValidateHabitat is the aggregate validation pass. It is a pure function of
// its inputs and is safe (and cheap, at tens of modules) to call after every
// mutation. Passes run in order: pairwise collisions, per-connection
// validity, structural reachability.
func ValidateHabitat(cat *catalog.Catalog, modules []*Module, conns []*Connection) ValidationResult {
	var result ValidationResult
	result.Errors = append(result.Errors, validateCollisions(cat, modules)...)
	result.Errors = append(result.Errors, validateConnections(cat, modules, conns)...)
	result.Warnings = append(result.Warnings, validateReachability(modules, conns)...)
	return result
}

// moduleBox returns a module's buffered axis-aligned bounding box: the
// definition dimensions centered at the module position, inflated by
// CollisionBuffer on all sides. Rotation is ignored here, matching the
// editor's box-overlap model.
func moduleBox(def *catalog.Definition, m *Module) geom.Box {
	return geom.Inflate(geom.BoxAt(m.Position, def.Dimensions), CollisionBuffer)
}

// validateCollisions reports every pair of modules whose buffered boxes
// overlap on all three axes. O(n^2) over the module count, which is fine at
// the tens-of-modules scale this editor targets.
func validateCollisions(cat *catalog.Catalog, modules []*Module) []ValidationError {
	var errs []ValidationError

	for i := 0; i < len(modules); i++ {
		defA := cat.Lookup(modules[i].Definition)
		if defA == nil {
			continue
		}
		boxA := moduleBox(defA, modules[i])

		for j := i + 1; j < len(modules); j++ {
			defB := cat.Lookup(modules[j].Definition)
			if defB == nil {
				continue
			}
			if geom.Overlaps(boxA, moduleBox(defB, modules[j])) {
				errs = append(errs, ValidationError{
					Code: CodeCollision,
					Message: fmt.Sprintf("%s and %s overlap (minimum clearance %.1fm)",
						defA.Name, defB.Name, 2*CollisionBuffer),
					Modules: []ModuleID{modules[i].ID, modules[j].ID},
				})
			}
		}
	}

	return errs
}

// validateConnections re-checks every stored connection against current
// state. A connection whose module or point no longer resolves is an invalid
// reference; one whose points no longer satisfy the compatibility rule (for
// example after a module moved) is an invalid connection.
func validateConnections(cat *catalog.Catalog, modules []*Module, conns []*Connection) []ValidationError {
	byID := make(map[ModuleID]*Module, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}

	resolve := func(id ModuleID, pointID string) (WorldPoint, bool) {
		m := byID[id]
		if m == nil {
			return WorldPoint{}, false
		}
		def := cat.Lookup(m.Definition)
		if def == nil {
			return WorldPoint{}, false
		}
		p := def.Point(pointID)
		if p == nil {
			return WorldPoint{}, false
		}
		t := m.Transform()
		return WorldPoint{
			Module:   m.ID,
			PointID:  p.ID,
			Type:     p.Type,
			Position: t.Point(p.Position),
			Normal:   t.Direction(p.Normal),
		}, true
	}

	var errs []ValidationError
	for _, c := range conns {
		a, okA := resolve(c.ModuleA, c.PointA)
		b, okB := resolve(c.ModuleB, c.PointB)

		if !okA || !okB {
			errs = append(errs, ValidationError{
				Code: CodeInvalidReference,
				Message: fmt.Sprintf("connection references %s/%s and %s/%s, which no longer all exist",
					c.ModuleA, c.PointA, c.ModuleB, c.PointB),
				Connection: c.ID,
			})
			continue
		}

		if d := CanConnect(a, b); !d.OK {
			errs = append(errs, ValidationError{
				Code: CodeInvalidConnection,
				Message: fmt.Sprintf("connection %s/%s to %s/%s is no longer valid: %s",
					c.ModuleA, c.PointA, c.ModuleB, c.PointB, d),
				Connection: c.ID,
				Modules:    []ModuleID{c.ModuleA, c.ModuleB},
			})
		}
	}

	return errs
}

// validateReachability walks the undirected is-connected-to relation from
// the first module in insertion order and warns about every module the walk
// does not reach. Zero or one modules are vacuously connected. Connections
// whose endpoints do not resolve contribute no edges.
func validateReachability(modules []*Module, conns []*Connection) []ValidationWarning {
	if len(modules) <= 1 {
		return nil
	}

	exists := make(map[ModuleID]bool, len(modules))
	for _, m := range modules {
		exists[m.ID] = true
	}

	adj := make(map[ModuleID][]ModuleID)
	for _, c := range conns {
		if exists[c.ModuleA] && exists[c.ModuleB] {
			adj[c.ModuleA] = append(adj[c.ModuleA], c.ModuleB)
			adj[c.ModuleB] = append(adj[c.ModuleB], c.ModuleA)
		}
	}

	reached := map[ModuleID]bool{modules[0].ID: true}
	queue := []ModuleID{modules[0].ID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adj[current] {
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}

	var warnings []ValidationWarning
	for _, m := range modules {
		if !reached[m.ID] {
			warnings = append(warnings, ValidationWarning{
				Code:    CodeDisconnected,
				Message: fmt.Sprintf("module %s is disconnected from the main structure", m.ID),
				Module:  m.ID,
			})
		}
	}
	return warnings
}
