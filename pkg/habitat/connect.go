package habitat

import (
	"fmt"
	"sort"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/catalog"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
)

// Connection rule constants.
const (
	// MaxConnectionDistance is the largest gap, in meters, between two
	// world-space points that may still mate.
	MaxConnectionDistance = 0.5

	// NormalAlignmentMax is the largest allowed dot product between two
	// world normals. -0.8 corresponds to roughly 144 degrees of opposition:
	// the normals must point substantially toward each other.
	NormalAlignmentMax = -0.8
)

// pointCompatibility is keyed by the FIRST point's type. The table is
// directional: utility points may attach to structural points, but a lookup
// with a structural first point does not accept utility. This asymmetry is
// deliberate and pinned by tests.
var pointCompatibility = map[catalog.PointType][]catalog.PointType{
	catalog.PointStructural: {catalog.PointStructural},
	catalog.PointUtility:    {catalog.PointStructural, catalog.PointUtility},
	catalog.PointExternal:   {},
}

// ConnectReason explains a connectability decision.
type ConnectReason string

const (
	ReasonValid            ConnectReason = "valid"
	ReasonIncompatibleType ConnectReason = "incompatible-type"
	ReasonTooFar           ConnectReason = "too-far"
	ReasonMisaligned       ConnectReason = "misaligned"
)

// ConnectDecision is the result of evaluating one point pair. It always
// carries the measured distance and normal alignment for diagnostics.
type ConnectDecision struct {
	OK        bool          `json:"ok"`
	Reason    ConnectReason `json:"reason"`
	Distance  float64       `json:"distance"`  // meters between world positions
	Alignment float64       `json:"alignment"` // dot product of world normals
}

func (d ConnectDecision) String() string {
	return fmt.Sprintf("%s (distance %.3fm, alignment %.3f)", d.Reason, d.Distance, d.Alignment)
}

// CanConnect decides whether two world-space points may mate. All three
// checks must pass: type compatibility (keyed by a's type), distance, and
// normal opposition. The decision is deterministic and never an error.
func CanConnect(a, b WorldPoint) ConnectDecision {
	d := ConnectDecision{
		Distance:  geom.Distance(a.Position, b.Position),
		Alignment: a.Normal.Dot(b.Normal),
	}

	compatible := false
	for _, t := range pointCompatibility[a.Type] {
		if t == b.Type {
			compatible = true
			break
		}
	}
	if !compatible {
		d.Reason = ReasonIncompatibleType
		return d
	}

	if d.Distance > MaxConnectionDistance {
		d.Reason = ReasonTooFar
		return d
	}

	if d.Alignment > NormalAlignmentMax {
		d.Reason = ReasonMisaligned
		return d
	}

	d.OK = true
	d.Reason = ReasonValid
	return d
}

// Candidate is one passing point pair found by the potential-connection
// search, with its measured distance.
type Candidate struct {
	Target   WorldPoint `json:"target"`
	Other    WorldPoint `json:"other"`
	Distance float64    `json:"distance"`
}

// PotentialConnections enumerates every (target point x other-module point)
// pair at the candidate position, keeps the pairs that pass CanConnect, and
// returns them sorted ascending by distance. Ties are broken by the other
// module's id, then the target point id, then the other point id, so the
// ordering is stable and reproducible.
func (h *Habitat) PotentialConnections(target ModuleID, at geom.Vec) []Candidate {
	targetPoints := h.WorldPointsAt(target, at)
	if targetPoints == nil {
		return nil
	}

	var out []Candidate
	for _, other := range h.modules {
		if other.ID == target {
			continue
		}
		for _, op := range h.WorldPoints(other.ID) {
			for _, tp := range targetPoints {
				if d := CanConnect(tp, op); d.OK {
					out = append(out, Candidate{Target: tp, Other: op, Distance: d.Distance})
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Other.Module != b.Other.Module {
			return a.Other.Module < b.Other.Module
		}
		if a.Target.PointID != b.Target.PointID {
			return a.Target.PointID < b.Target.PointID
		}
		return a.Other.PointID < b.Other.PointID
	})
	return out
}
