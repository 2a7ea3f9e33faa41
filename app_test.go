package main

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(Config{}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return app
}

// TestE2EDragToDock walks the interactive editing path end to end: place a
// hub, drag living quarters next to it, preview the docking candidate,
// connect, and validate. This is the same sequence the frontend drives
// through the bindings, without the Wails runtime.
func TestE2EDragToDock(t *testing.T) {
	app := newTestApp(t)

	st, err := app.PlaceModuleAt("central-hub", Vec3Data{})
	if err != nil {
		t.Fatal(err)
	}
	hub := st.Modules[0]

	// Living quarters dropped far away, rotated to face the hub, then
	// dragged toward its south side.
	st, err = app.PlaceModuleAt("living-quarters", Vec3Data{X: 0, Y: 0, Z: -20})
	if err != nil {
		t.Fatal(err)
	}
	lq := st.Modules[1]
	if !lq.Selected {
		t.Error("newly placed module should be selected")
	}

	dropAt := Vec3Data{X: 0, Y: 0, Z: -4.3}
	candidates := app.FindPotentialConnections(lq.ID, dropAt)
	if len(candidates) == 0 {
		t.Fatal("expected a docking candidate at the drop position")
	}
	best := candidates[0]
	if best.TargetPoint != "north" || best.OtherModule != hub.ID || best.OtherPoint != "south" {
		t.Fatalf("best candidate = %s -> %s/%s", best.TargetPoint, best.OtherModule, best.OtherPoint)
	}
	if math.Abs(best.Distance-0.45) > 1e-9 {
		t.Errorf("candidate distance = %v, want 0.45", best.Distance)
	}

	// Commit the drop, then the connection.
	if _, err := app.MoveModule(lq.ID, dropAt); err != nil {
		t.Fatal(err)
	}
	st, err = app.ConnectModules(lq.ID, best.TargetPoint, best.OtherModule, best.OtherPoint)
	if err != nil {
		t.Fatal(err)
	}

	if len(st.Connections) != 1 {
		t.Fatalf("connection count = %d, want 1", len(st.Connections))
	}
	if !st.Validation.Valid() || len(st.Validation.Warnings) != 0 {
		t.Errorf("docked layout has findings: %+v %+v", st.Validation.Errors, st.Validation.Warnings)
	}
	if st.Statistics.TotalModules != 2 {
		t.Errorf("statistics count %d modules", st.Statistics.TotalModules)
	}
}

func TestE2EScriptedStation(t *testing.T) {
	app := newTestApp(t)

	result := app.EvaluateScript(`
(def hub (module "central-hub" :at (vec3 0 0 0)))
(def lq (module "living-quarters" :at (vec3 0 0 -4.3)))
(def power (module "power-module" :at (vec3 0 0 4.55) :rotate 180))
(auto-connect lq)
(auto-connect power)
`)
	if len(result.Errors) != 0 {
		t.Fatalf("script errors: %+v", result.Errors)
	}
	if result.State == nil {
		t.Fatal("no state returned")
	}
	st := *result.State

	if len(st.Modules) != 3 || len(st.Connections) != 2 {
		t.Fatalf("%d modules, %d connections", len(st.Modules), len(st.Connections))
	}
	if !st.Validation.Valid() {
		t.Errorf("scripted station invalid: %+v", st.Validation.Errors)
	}
	// 4500W generated against hub + quarters consumption.
	if st.Statistics.PowerBalance <= 0 {
		t.Errorf("power balance = %v, want positive", st.Statistics.PowerBalance)
	}

	// The scripted habitat replaces the interactive one.
	if got := len(app.GetState().Modules); got != 3 {
		t.Errorf("GetState sees %d modules", got)
	}
}

func TestGetMeshes(t *testing.T) {
	app := newTestApp(t)

	if _, err := app.PlaceModuleAt("central-hub", Vec3Data{}); err != nil {
		t.Fatal(err)
	}
	if _, err := app.PlaceModuleAt("airlock", Vec3Data{X: 10}); err != nil {
		t.Fatal(err)
	}

	meshes := app.GetMeshes()
	if len(meshes) != 2 {
		t.Fatalf("mesh count = %d, want 2", len(meshes))
	}
	for _, m := range meshes {
		if len(m.Vertices) != 24*3 || len(m.Indices) != 12*3 {
			t.Errorf("mesh %s has %d vertex floats, %d indices", m.ModuleID, len(m.Vertices), len(m.Indices))
		}
		if m.Color == "" {
			t.Errorf("mesh %s has no color", m.ModuleID)
		}
	}
}

func TestExportBindings(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.PlaceModuleAt("greenhouse", Vec3Data{}); err != nil {
		t.Fatal(err)
	}

	doc, err := app.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}
	if doc == "" {
		t.Fatal("empty JSON export")
	}

	fresh := newTestApp(t)
	st, err := fresh.ImportJSON(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Modules) != 1 || st.Modules[0].Definition != "greenhouse" {
		t.Fatalf("imported state: %+v", st.Modules)
	}

	if report := app.ExportMarkdown(); report == "" {
		t.Error("empty markdown export")
	}
	if scene := app.ExportOBJ(); scene == "" {
		t.Error("empty OBJ export")
	}
}

func TestGetCatalog(t *testing.T) {
	app := newTestApp(t)

	defs := app.GetCatalog()
	if len(defs) == 0 {
		t.Fatal("empty catalog")
	}
	seen := map[string]bool{}
	for _, d := range defs {
		if d.ID == "" || d.Name == "" {
			t.Errorf("incomplete definition: %+v", d)
		}
		seen[d.ID] = true
	}
	for _, want := range []string{"central-hub", "living-quarters", "airlock"} {
		if !seen[want] {
			t.Errorf("catalog missing %q", want)
		}
	}
}
