package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/habitat"
)

// Markdown renders a human-readable mission report: totals, the module
// manifest, the connection list, and the validation findings.
func Markdown(h *habitat.Habitat, now time.Time) string {
	var b strings.Builder

	stats := h.Statistics()
	result := h.Validate()

	b.WriteString("# Habitat Mission Report\n\n")
	fmt.Fprintf(&b, "Generated %s\n\n", now.UTC().Format(time.RFC3339))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Modules | %d |\n", stats.TotalModules)
	fmt.Fprintf(&b, "| Total mass | %.0f kg |\n", stats.TotalMass)
	fmt.Fprintf(&b, "| Crew capacity | %d |\n", stats.TotalCrewCapacity)
	fmt.Fprintf(&b, "| Power generation | %.0f W |\n", stats.TotalPowerGeneration)
	fmt.Fprintf(&b, "| Power consumption | %.0f W |\n", stats.TotalPowerConsumption)
	fmt.Fprintf(&b, "| Power balance | %+.0f W |\n", stats.PowerBalance)
	fmt.Fprintf(&b, "| Estimated cost | $%.1fM |\n", stats.TotalCost)
	b.WriteString("\n")

	b.WriteString("## Modules\n\n")
	if len(h.Modules()) == 0 {
		b.WriteString("No modules placed.\n\n")
	} else {
		b.WriteString("| # | Module | Position (m) | Rotation |\n|---|---|---|---|\n")
		for i, m := range h.Modules() {
			name := m.Definition
			if def := h.Definition(m.ID); def != nil {
				name = def.Name
			}
			fmt.Fprintf(&b, "| %d | %s | (%.1f, %.1f, %.1f) | %.0f° |\n",
				i+1, name, m.Position.X, m.Position.Y, m.Position.Z, m.Rotation.Y)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Connections\n\n")
	if len(h.Connections()) == 0 {
		b.WriteString("No connections.\n\n")
	} else {
		for _, c := range h.Connections() {
			fmt.Fprintf(&b, "- %s/%s ↔ %s/%s\n",
				moduleLabel(h, c.ModuleA), c.PointA, moduleLabel(h, c.ModuleB), c.PointB)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Validation\n\n")
	if result.Valid() && len(result.Warnings) == 0 {
		b.WriteString("All checks passed.\n")
	} else {
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- **%s**: %s\n", e.Code, e.Message)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s: %s\n", w.Code, w.Message)
		}
	}

	return b.String()
}

// moduleLabel prefers the catalog name and falls back to the raw ID for
// dangling references.
func moduleLabel(h *habitat.Habitat, id habitat.ModuleID) string {
	if def := h.Definition(id); def != nil {
		return def.Name
	}
	return string(id)
}
