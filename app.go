package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/omorakwant/NASA-space-apps-challenge/pkg/catalog"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/engine"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/export"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/geom"
	"github.com/omorakwant/NASA-space-apps-challenge/pkg/habitat"
)

// colorPalette assigns distinct fallback colors to modules whose catalog
// definition carries none.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes the habitat editing operations to the
// frontend via bindings. All bindings are safe for concurrent use; Wails may
// dispatch them from multiple goroutines.
type App struct {
	ctx context.Context
	log zerolog.Logger

	mu      sync.Mutex
	habitat *habitat.Habitat
	manager *habitat.Manager
	engine  *engine.Engine
}

// NewApp builds the backend around the built-in catalog, optionally merged
// with a user catalog file.
func NewApp(cfg Config, log zerolog.Logger) (*App, error) {
	cat := catalog.Builtin()
	if cfg.CatalogPath != "" {
		user, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load user catalog: %w", err)
		}
		cat.Merge(user)
		log.Info().Str("path", cfg.CatalogPath).Int("definitions", user.Len()).
			Msg("merged user catalog")
	}

	h := habitat.New(cat)
	return &App{
		log:     log,
		habitat: h,
		manager: habitat.NewManager(h),
		engine:  engine.NewEngine(cat),
	}, nil
}

// startup is called by Wails on app startup.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.log.Info().Msg("backend ready")
}

// ---------------------------------------------------------------------------
// Frontend DTOs
// ---------------------------------------------------------------------------

// Vec3Data is the frontend vector format.
type Vec3Data struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func toVec3Data(v geom.Vec) Vec3Data { return Vec3Data{X: v.X, Y: v.Y, Z: v.Z} }
func (v Vec3Data) vec() geom.Vec     { return geom.V(v.X, v.Y, v.Z) }

// ModuleData describes one placed module for the frontend.
type ModuleData struct {
	ID         string   `json:"id"`
	Definition string   `json:"definition"`
	Name       string   `json:"name"`
	Position   Vec3Data `json:"position"`
	Rotation   Vec3Data `json:"rotation"`
	Selected   bool     `json:"selected"`
}

// ConnectionData describes one recorded connection for the frontend.
type ConnectionData struct {
	ID      string `json:"id"`
	ModuleA string `json:"moduleA"`
	PointA  string `json:"pointA"`
	ModuleB string `json:"moduleB"`
	PointB  string `json:"pointB"`
}

// StateData is the full editor state returned after every mutation, so the
// frontend never has to patch incrementally.
type StateData struct {
	Modules     []ModuleData             `json:"modules"`
	Connections []ConnectionData         `json:"connections"`
	Statistics  habitat.Statistics       `json:"statistics"`
	Validation  habitat.ValidationResult `json:"validation"`
}

// CandidateData is one suggested connection for the frontend's drag preview.
type CandidateData struct {
	TargetPoint string   `json:"targetPoint"`
	OtherModule string   `json:"otherModule"`
	OtherPoint  string   `json:"otherPoint"`
	Distance    float64  `json:"distance"`
	Position    Vec3Data `json:"position"`
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	ModuleID string    `json:"moduleId"`
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Color    string    `json:"color"`
}

// DefinitionData describes one catalog entry for the frontend palette.
type DefinitionData struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Dimensions Vec3Data `json:"dimensions"`
	Mass       float64  `json:"mass"`
	Color      string   `json:"color"`
}

// ScriptResult is the outcome of evaluating a layout script.
type ScriptResult struct {
	State  *StateData  `json:"state,omitempty"`
	Errors []ErrorData `json:"errors"`
}

// ErrorData is a JSON-serializable script error.
type ErrorData struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// state builds the full StateData snapshot. Callers must hold a.mu.
func (a *App) state() StateData {
	selected := a.habitat.Selected()

	st := StateData{
		Modules:     []ModuleData{},
		Connections: []ConnectionData{},
		Statistics:  a.habitat.Statistics(),
		Validation:  a.habitat.Validate(),
	}
	for _, m := range a.habitat.Modules() {
		name := m.Definition
		if def := a.habitat.Definition(m.ID); def != nil {
			name = def.Name
		}
		st.Modules = append(st.Modules, ModuleData{
			ID:         string(m.ID),
			Definition: m.Definition,
			Name:       name,
			Position:   toVec3Data(m.Position),
			Rotation:   toVec3Data(m.Rotation),
			Selected:   selected != nil && selected.ID == m.ID,
		})
	}
	for _, c := range a.habitat.Connections() {
		st.Connections = append(st.Connections, ConnectionData{
			ID:      string(c.ID),
			ModuleA: string(c.ModuleA),
			PointA:  c.PointA,
			ModuleB: string(c.ModuleB),
			PointB:  c.PointB,
		})
	}
	return st
}

// ---------------------------------------------------------------------------
// Catalog and state bindings
// ---------------------------------------------------------------------------

// GetCatalog returns the module palette.
func (a *App) GetCatalog() []DefinitionData {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := []DefinitionData{}
	for _, d := range a.habitat.Catalog().Definitions() {
		out = append(out, DefinitionData{
			ID:         d.ID,
			Name:       d.Name,
			Kind:       string(d.Kind),
			Dimensions: toVec3Data(d.Dimensions),
			Mass:       d.Mass,
			Color:      d.Color,
		})
	}
	return out
}

// GetState returns the full current editor state.
func (a *App) GetState() StateData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state()
}

// ---------------------------------------------------------------------------
// Mutation bindings
// ---------------------------------------------------------------------------

// PlaceModule adds a module at the optimal position near the most recently
// placed module and selects it.
func (a *App) PlaceModule(definitionID string) (StateData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, err := a.manager.Place(definitionID, "")
	if err != nil {
		return a.state(), err
	}
	a.log.Debug().Str("module", string(m.ID)).Str("definition", definitionID).
		Msg("placed module")
	return a.state(), nil
}

// PlaceModuleAt adds a module at an explicit, grid-snapped position.
func (a *App) PlaceModuleAt(definitionID string, position Vec3Data) (StateData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.manager.PlaceAt(definitionID, position.vec(), geom.Vec{}); err != nil {
		return a.state(), err
	}
	return a.state(), nil
}

// MoveModule sets a module's position. The move is never rejected; the
// validator reports any resulting collision or broken connection.
func (a *App) MoveModule(id string, position Vec3Data) (StateData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pos := position.vec()
	err := a.habitat.UpdateModule(habitat.ModuleID(id), habitat.ModuleUpdate{Position: &pos})
	return a.state(), err
}

// RotateModule sets a module's yaw angle in degrees.
func (a *App) RotateModule(id string, degrees float64) (StateData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rot := geom.V(0, degrees, 0)
	err := a.habitat.UpdateModule(habitat.ModuleID(id), habitat.ModuleUpdate{Rotation: &rot})
	return a.state(), err
}

// RemoveModule deletes a module. Its connections stay behind in the model
// and show up as invalid references in the next validation.
func (a *App) RemoveModule(id string) (StateData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.habitat.RemoveModule(habitat.ModuleID(id))
	return a.state(), err
}

// CloneModule duplicates a module next to its source and selects the copy.
func (a *App) CloneModule(id string) (StateData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.manager.Clone(habitat.ModuleID(id)); err != nil {
		return a.state(), err
	}
	return a.state(), nil
}

// SelectModule marks a module as the current selection.
func (a *App) SelectModule(id string) (StateData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.habitat.Select(habitat.ModuleID(id))
	return a.state(), err
}

// ClearSelection drops the current selection.
func (a *App) ClearSelection() StateData {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.habitat.ClearSelection()
	return a.state()
}

// ConnectModules records a connection between two named points. The pair is
// reference-checked only; geometric validity is the validator's concern.
func (a *App) ConnectModules(moduleA, pointA, moduleB, pointB string) (StateData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := a.habitat.AddConnection(
		habitat.ModuleID(moduleA), pointA, habitat.ModuleID(moduleB), pointB)
	return a.state(), err
}

// DisconnectModules removes a connection by ID.
func (a *App) DisconnectModules(connectionID string) (StateData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.habitat.RemoveConnection(habitat.ConnectionID(connectionID))
	return a.state(), err
}

// AutoConnect connects a module to its closest valid neighbor, if any.
func (a *App) AutoConnect(id string) (StateData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := a.manager.AutoConnect(habitat.ModuleID(id))
	if err != nil {
		return a.state(), err
	}
	if c != nil {
		a.log.Debug().Str("connection", string(c.ID)).Msg("auto-connected")
	}
	return a.state(), nil
}

// FindPotentialConnections lists valid connections for a module as if it
// were at the given position, closest first. The frontend calls this during
// drags to preview docking.
func (a *App) FindPotentialConnections(id string, at Vec3Data) []CandidateData {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := []CandidateData{}
	for _, c := range a.habitat.PotentialConnections(habitat.ModuleID(id), at.vec()) {
		out = append(out, CandidateData{
			TargetPoint: c.Target.PointID,
			OtherModule: string(c.Other.Module),
			OtherPoint:  c.Other.PointID,
			Distance:    c.Distance,
			Position:    toVec3Data(c.Other.Position),
		})
	}
	return out
}

// Validate runs the full structural validation.
func (a *App) Validate() habitat.ValidationResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.habitat.Validate()
}

// ---------------------------------------------------------------------------
// Rendering and scripting bindings
// ---------------------------------------------------------------------------

// GetMeshes returns one world-space box mesh per module for the 3D view.
func (a *App) GetMeshes() []MeshData {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := []MeshData{}
	for i, m := range a.habitat.Modules() {
		def := a.habitat.Definition(m.ID)
		if def == nil {
			continue
		}
		color := def.Color
		if color == "" {
			color = colorPalette[i%len(colorPalette)]
		}
		mesh := geom.BoxMesh(def.Dimensions, m.Transform())
		out = append(out, MeshData{
			ModuleID: string(m.ID),
			Vertices: mesh.Vertices,
			Normals:  mesh.Normals,
			Indices:  mesh.Indices,
			Color:    color,
		})
	}
	return out
}

// EvaluateScript runs a layout script. On success the scripted habitat
// replaces the current one; on script errors the current habitat is kept.
func (a *App) EvaluateScript(source string) ScriptResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := ScriptResult{Errors: []ErrorData{}}

	h, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Error().Err(err).Msg("script evaluation failed")
		result.Errors = append(result.Errors, ErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, ErrorData{Line: e.Line, Message: e.Message})
		}
		return result
	}

	a.habitat = h
	a.manager = habitat.NewManager(h)
	st := a.state()
	result.State = &st
	return result
}

// ---------------------------------------------------------------------------
// Export bindings
// ---------------------------------------------------------------------------

// ExportJSON renders the habitat as a JSON document.
func (a *App) ExportJSON() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := export.JSON(a.habitat, time.Now())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ImportJSON replaces the habitat with one rebuilt from an exported
// document. The current habitat is kept on failure.
func (a *App) ImportJSON(data string) (StateData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	fresh := habitat.New(a.habitat.Catalog())
	if err := export.Import(fresh, []byte(data)); err != nil {
		return a.state(), err
	}
	a.habitat = fresh
	a.manager = habitat.NewManager(fresh)
	a.log.Info().Int("modules", len(fresh.Modules())).Msg("imported habitat")
	return a.state(), nil
}

// ExportMarkdown renders the mission report.
func (a *App) ExportMarkdown() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return export.Markdown(a.habitat, time.Now())
}

// ExportOBJ renders the habitat as a Wavefront OBJ scene.
func (a *App) ExportOBJ() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return export.OBJ(a.habitat)
}
