// Package export renders a habitat into shareable formats: a JSON document
// for saving and re-importing, a Markdown mission report, and a Wavefront
// OBJ scene for external 3D tools.
package export

import (
	"encoding/json"
	"time"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/habitat"
)

// FormatVersion identifies the JSON document layout.
const FormatVersion = 1

// Document is the JSON export payload. It carries the full editable state
// plus the derived statistics and validation report, so a viewer can render
// findings without re-running the validator.
type Document struct {
	Version     int                      `json:"version"`
	ExportedAt  time.Time                `json:"exportedAt"`
	Modules     []*habitat.Module        `json:"modules"`
	Connections []*habitat.Connection    `json:"connections"`
	Statistics  habitat.Statistics       `json:"statistics"`
	Validation  habitat.ValidationResult `json:"validation"`
}

// Snapshot captures the habitat's current state as a Document.
func Snapshot(h *habitat.Habitat, now time.Time) Document {
	return Document{
		Version:     FormatVersion,
		ExportedAt:  now.UTC(),
		Modules:     h.Modules(),
		Connections: h.Connections(),
		Statistics:  h.Statistics(),
		Validation:  h.Validate(),
	}
}

// JSON renders the habitat as an indented JSON document.
func JSON(h *habitat.Habitat, now time.Time) ([]byte, error) {
	return json.MarshalIndent(Snapshot(h, now), "", "  ")
}

// Import rebuilds a habitat from an exported document. Modules and
// connections are replayed through the normal operations against the given
// habitat, which must be empty; statistics are recomputed rather than
// trusted from the file.
func Import(h *habitat.Habitat, data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	// Positions and rotations replay exactly; IDs are reassigned because the
	// habitat owns identity. Connections follow by index into the module
	// list so they can be re-pointed at the new IDs.
	newIDs := make(map[habitat.ModuleID]habitat.ModuleID, len(doc.Modules))
	for _, m := range doc.Modules {
		placed, err := h.AddModule(m.Definition, m.Position, m.Rotation)
		if err != nil {
			return err
		}
		newIDs[m.ID] = placed.ID
	}
	for _, c := range doc.Connections {
		a, okA := newIDs[c.ModuleA]
		b, okB := newIDs[c.ModuleB]
		if !okA || !okB {
			// Dangling in the source file; dropped on import, since the new
			// habitat has no module to attach it to.
			continue
		}
		if _, err := h.AddConnection(a, c.PointA, b, c.PointB); err != nil {
			return err
		}
	}
	return nil
}
