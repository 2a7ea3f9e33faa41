package engine

import (
	"strings"
	"testing"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/catalog"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(catalog.Builtin())
}

func TestEvaluateEmptySource(t *testing.T) {
	e := newTestEngine(t)

	for _, src := range []string{"", "   \n\t  "} {
		h, evalErrs, err := e.Evaluate(src)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("empty source: errs=%v err=%v", evalErrs, err)
		}
		if h == nil || len(h.Modules()) != 0 {
			t.Error("empty source should produce an empty habitat")
		}
	}
}

func TestEvaluateLayoutScript(t *testing.T) {
	e := newTestEngine(t)

	src := `
; north face of the quarters docks to the hub's south face
(def hub (module "central-hub" :at (vec3 0 0 0)))
(def lq (module "living-quarters" :at (vec3 0 0 -4.3)))
(connect lq :north hub :south)
(select hub)
`
	h, evalErrs, err := e.Evaluate(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}

	if got := len(h.Modules()); got != 2 {
		t.Fatalf("module count = %d, want 2", got)
	}
	if got := len(h.Connections()); got != 1 {
		t.Fatalf("connection count = %d, want 1", got)
	}
	if sel := h.Selected(); sel == nil || sel.Definition != "central-hub" {
		t.Error("hub should be selected")
	}
	if r := h.Validate(); !r.Valid() {
		t.Errorf("scripted layout invalid: %+v", r.Errors)
	}
}

func TestEvaluateRotation(t *testing.T) {
	e := newTestEngine(t)

	src := `
(def hub (module "central-hub"))
(def lq (module "living-quarters" :at (vec3 0 0 4.3) :rotate 180))
(connect lq :north hub :north)
`
	h, evalErrs, err := e.Evaluate(src)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("errs=%v err=%v", evalErrs, err)
	}

	var found bool
	for _, m := range h.Modules() {
		if m.Definition == "living-quarters" {
			found = true
			if m.Rotation.Y != 180 {
				t.Errorf("rotation = %v, want 180", m.Rotation.Y)
			}
		}
	}
	if !found {
		t.Fatal("living-quarters not placed")
	}
	// Rotated 180 degrees the quarters' north point faces the hub, so the
	// stored connection must hold up under validation.
	if r := h.Validate(); !r.Valid() {
		t.Errorf("rotated layout invalid: %+v", r.Errors)
	}
}

func TestEvaluateMoveAndAutoConnect(t *testing.T) {
	e := newTestEngine(t)

	src := `
(def hub (module "central-hub" :at (vec3 0 0 0)))
(def lq (module "living-quarters" :at (vec3 0 0 -20)))
(move lq (vec3 0 0 -4.3))
(auto-connect lq)
`
	h, evalErrs, err := e.Evaluate(src)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("errs=%v err=%v", evalErrs, err)
	}
	if got := len(h.Connections()); got != 1 {
		t.Fatalf("connection count = %d, want 1", got)
	}
}

func TestEvaluateMoveBy(t *testing.T) {
	e := newTestEngine(t)

	src := `
(def hub (module "central-hub" :at (vec3 1 0 0)))
(move hub :by (vec3 2 0 0))
`
	h, evalErrs, err := e.Evaluate(src)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("errs=%v err=%v", evalErrs, err)
	}
	if m := h.Modules()[0]; m.Position != geom.V(3, 0, 0) {
		t.Errorf("position = %v, want (3, 0, 0)", m.Position)
	}
}

func TestEvaluateGridAndClone(t *testing.T) {
	e := newTestEngine(t)

	src := `
(grid 1)
(def lab (module "laboratory" :at (vec3 0.4 0 0)))
(clone lab)
`
	h, evalErrs, err := e.Evaluate(src)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("errs=%v err=%v", evalErrs, err)
	}
	mods := h.Modules()
	if len(mods) != 2 {
		t.Fatalf("module count = %d, want 2", len(mods))
	}
	// Explicit :at coordinates are exact; the clone goes through the
	// placement path and snaps 2.4 to 2 on the 1m grid.
	if mods[0].Position != geom.V(0.4, 0, 0) {
		t.Errorf("first at %v, want (0.4, 0, 0)", mods[0].Position)
	}
	if mods[1].Position != geom.V(2, 0, 0) {
		t.Errorf("clone at %v, want (2, 0, 0)", mods[1].Position)
	}
}

func TestEvaluateParseError(t *testing.T) {
	e := newTestEngine(t)

	h, evalErrs, err := e.Evaluate(`(module "central-hub"`)
	if err != nil {
		t.Fatalf("parse failure should not be fatal: %v", err)
	}
	if h != nil {
		t.Error("habitat should be nil on parse failure")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
}

func TestEvaluateUnknownDefinition(t *testing.T) {
	e := newTestEngine(t)

	h, evalErrs, err := e.Evaluate(`(module "warp-core")`)
	if err != nil {
		t.Fatalf("runtime failure should not be fatal: %v", err)
	}
	if h != nil {
		t.Error("habitat should be nil on runtime failure")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	if !strings.Contains(evalErrs[0].Message, "warp-core") {
		t.Errorf("error %q should name the unknown definition", evalErrs[0].Message)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	e := newTestEngine(t)

	src := `
(def hub (module "central-hub"))
(def lq (module "living-quarters" :at (vec3 0 0 -4.3)))
(auto-connect lq)
`
	first, evalErrs, err := e.Evaluate(src)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("errs=%v err=%v", evalErrs, err)
	}
	second, evalErrs, err := e.Evaluate(src)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("errs=%v err=%v", evalErrs, err)
	}

	if len(first.Modules()) != len(second.Modules()) ||
		len(first.Connections()) != len(second.Connections()) {
		t.Fatal("repeated evaluation produced different layouts")
	}
	for i := range first.Modules() {
		a, b := first.Modules()[i], second.Modules()[i]
		if a.Definition != b.Definition || a.Position != b.Position || a.Rotation != b.Rotation {
			t.Errorf("module %d differs between runs", i)
		}
	}
	if first.Statistics() != second.Statistics() {
		t.Error("statistics differ between runs")
	}
}

func TestEvalErrorFormatting(t *testing.T) {
	withLine := EvalError{Line: 3, Message: "unexpected token"}
	if got := withLine.Error(); got != "line 3: unexpected token" {
		t.Errorf("Error() = %q", got)
	}
	bare := EvalError{Message: "boom"}
	if got := bare.Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
}
