package habitat

import (
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/catalog"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
)

// WorldPoint is a connection point mapped into world space.
type WorldPoint struct {
	Module   ModuleID          `json:"module"`
	PointID  string            `json:"pointId"`
	Type     catalog.PointType `json:"type"`
	Position geom.Vec          `json:"position"`
	Normal   geom.Vec          `json:"normal"` // unit length
}

// worldPoints maps a definition's connection points into world space for a
// module at the given transform.
func worldPoints(def *catalog.Definition, id ModuleID, t geom.Transform) []WorldPoint {
	out := make([]WorldPoint, 0, len(def.Points))
	for _, p := range def.Points {
		out = append(out, WorldPoint{
			Module:   id,
			PointID:  p.ID,
			Type:     p.Type,
			Position: t.Point(p.Position),
			Normal:   t.Direction(p.Normal),
		})
	}
	return out
}

// WorldPoints returns the module's connection points in world space, in the
// definition's declared point order. Unknown modules yield nil.
func (h *Habitat) WorldPoints(id ModuleID) []WorldPoint {
	m := h.byID[id]
	if m == nil {
		return nil
	}
	def := h.catalog.Lookup(m.Definition)
	if def == nil {
		return nil
	}
	return worldPoints(def, m.ID, m.Transform())
}

// WorldPointsAt returns the module's connection points as they would be at a
// candidate position, keeping the module's current rotation. Used by the
// potential-connection search while a module is being dragged.
func (h *Habitat) WorldPointsAt(id ModuleID, position geom.Vec) []WorldPoint {
	m := h.byID[id]
	if m == nil {
		return nil
	}
	def := h.catalog.Lookup(m.Definition)
	if def == nil {
		return nil
	}
	return worldPoints(def, m.ID, geom.Transform{Position: position, RotationY: m.Rotation.Y})
}
