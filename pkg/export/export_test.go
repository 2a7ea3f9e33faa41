package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/catalog"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/habitat"
)

var exportTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// buildStation returns a small valid layout: hub at the origin with living
// quarters docked on its south side.
func buildStation(t *testing.T) *habitat.Habitat {
	t.Helper()
	h := habitat.New(catalog.Builtin())

	hub, err := h.AddModule("central-hub", geom.Vec{}, geom.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	lq, err := h.AddModule("living-quarters", geom.V(0, 0, -4.3), geom.Vec{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.AddConnection(lq.ID, "north", hub.ID, "south"); err != nil {
		t.Fatal(err)
	}
	return h
}

func TestJSONRoundTrip(t *testing.T) {
	h := buildStation(t)

	data, err := JSON(h, exportTime)
	if err != nil {
		t.Fatal(err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Version != FormatVersion {
		t.Errorf("version = %d, want %d", doc.Version, FormatVersion)
	}
	if len(doc.Modules) != 2 || len(doc.Connections) != 1 {
		t.Fatalf("document has %d modules, %d connections", len(doc.Modules), len(doc.Connections))
	}
	if doc.Statistics != h.Statistics() {
		t.Error("statistics do not match live habitat")
	}

	restored := habitat.New(catalog.Builtin())
	if err := Import(restored, data); err != nil {
		t.Fatal(err)
	}
	if len(restored.Modules()) != 2 || len(restored.Connections()) != 1 {
		t.Fatalf("restored %d modules, %d connections", len(restored.Modules()), len(restored.Connections()))
	}
	if restored.Statistics() != h.Statistics() {
		t.Error("restored statistics differ")
	}
	if r := restored.Validate(); !r.Valid() {
		t.Errorf("restored habitat invalid: %+v", r.Errors)
	}
}

func TestImportDropsDanglingConnections(t *testing.T) {
	h := buildStation(t)
	mods := h.Modules()
	if err := h.RemoveModule(mods[1].ID); err != nil {
		t.Fatal(err)
	}
	// The export now carries a connection whose second module is gone.
	data, err := JSON(h, exportTime)
	if err != nil {
		t.Fatal(err)
	}

	restored := habitat.New(catalog.Builtin())
	if err := Import(restored, data); err != nil {
		t.Fatal(err)
	}
	if len(restored.Modules()) != 1 {
		t.Fatalf("restored %d modules, want 1", len(restored.Modules()))
	}
	if len(restored.Connections()) != 0 {
		t.Error("dangling connection should not be imported")
	}
}

func TestMarkdownReport(t *testing.T) {
	h := buildStation(t)
	report := Markdown(h, exportTime)

	for _, want := range []string{
		"# Habitat Mission Report",
		"| Modules | 2 |",
		"Central Hub",
		"Living Quarters",
		"All checks passed.",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestMarkdownReportsFindings(t *testing.T) {
	h := habitat.New(catalog.Builtin())
	h.AddModule("central-hub", geom.Vec{}, geom.Vec{})
	h.AddModule("central-hub", geom.V(4, 0, 0), geom.Vec{})

	report := Markdown(h, exportTime)
	if !strings.Contains(report, habitat.CodeCollision) {
		t.Error("report should list the collision finding")
	}
	if strings.Contains(report, "All checks passed.") {
		t.Error("report claims success despite findings")
	}
}

func TestMarkdownEmptyHabitat(t *testing.T) {
	h := habitat.New(catalog.Builtin())
	report := Markdown(h, exportTime)
	if !strings.Contains(report, "No modules placed.") {
		t.Error("empty habitat report missing placeholder")
	}
}

func TestOBJ(t *testing.T) {
	h := buildStation(t)
	scene := OBJ(h)

	if got := strings.Count(scene, "\no "); got != 2 {
		t.Errorf("object count = %d, want 2", got)
	}
	if got := strings.Count(scene, "\nv "); got != 16 {
		t.Errorf("vertex count = %d, want 16", got)
	}
	if got := strings.Count(scene, "\nf "); got != 12 {
		t.Errorf("face count = %d, want 12", got)
	}
	// The second module's faces index past the first module's 8 vertices.
	if !strings.Contains(scene, "f 12 11 10 9") {
		t.Errorf("second object faces not offset:\n%s", scene)
	}

	// World-space placement: the hub's box spans -2.1..2.1, so its first
	// corner is the min corner.
	if !strings.Contains(scene, "v -2.100000 -2.100000 -2.100000") {
		t.Error("hub min corner missing or not in world space")
	}
}

func TestOBJEmpty(t *testing.T) {
	h := habitat.New(catalog.Builtin())
	scene := OBJ(h)
	if strings.Contains(scene, "\nv ") {
		t.Error("empty habitat should export no vertices")
	}
}
