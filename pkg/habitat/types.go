package habitat

import (
	"time"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
)

// ModuleID identifies a placed module instance.
type ModuleID string

// ConnectionID identifies an accepted connection between two points.
type ConnectionID string

// Module is a placed, mutable occurrence of a catalog definition.
// Rotation stores full Euler angles in degrees, but only the Y component
// participates in the world transform (see geom.Transform).
type Module struct {
	ID         ModuleID  `json:"id"`
	Definition string    `json:"definition"` // catalog definition id
	Position   geom.Vec  `json:"position"`
	Rotation   geom.Vec  `json:"rotation"` // Euler degrees; only Y is applied
	CreatedAt  time.Time `json:"createdAt"`
}

// Transform returns the module's local-to-world transform.
func (m *Module) Transform() geom.Transform {
	return geom.Transform{Position: m.Position, RotationY: m.Rotation.Y}
}

// Connection is an accepted mating between two specific connection points on
// two module instances. Connections are stored as created; whether they are
// currently valid is the validator's concern, not the model's.
type Connection struct {
	ID        ConnectionID `json:"id"`
	ModuleA   ModuleID     `json:"moduleA"`
	PointA    string       `json:"pointA"`
	ModuleB   ModuleID     `json:"moduleB"`
	PointB    string       `json:"pointB"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Statistics are the derived totals over all placed modules. They are
// recomputed from scratch on every mutation, never patched incrementally.
type Statistics struct {
	TotalModules          int     `json:"totalModules"`
	TotalMass             float64 `json:"totalMass"`
	TotalCrewCapacity     int     `json:"totalCrewCapacity"`
	TotalPowerConsumption float64 `json:"totalPowerConsumption"`
	TotalPowerGeneration  float64 `json:"totalPowerGeneration"`
	PowerBalance          float64 `json:"powerBalance"`
	TotalCost             float64 `json:"totalCost"`
}

// ModuleUpdate carries the optional fields of an update operation.
// Nil fields are left unchanged.
type ModuleUpdate struct {
	Position *geom.Vec
	Rotation *geom.Vec
}
