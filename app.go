package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chazu/roomkit/pkg/catalog"
	"github.com/chazu/roomkit/pkg/config"
	"github.com/chazu/roomkit/pkg/engine"
	"github.com/chazu/roomkit/pkg/kernel"
	"github.com/chazu/roomkit/pkg/kernel/sdfx"
	"github.com/chazu/roomkit/pkg/model"
	"github.com/chazu/roomkit/pkg/report"
	"github.com/chazu/roomkit/pkg/scene"
	"github.com/chazu/roomkit/pkg/store"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// EventSceneChanged is emitted to the frontend whenever the design or the
// interaction state changes and a new Frame should be fetched.
const EventSceneChanged = "scene:changed"

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx      context.Context
	cfg      config.Config
	store    *store.Store
	composer *scene.Composer
	engine   *engine.Engine
	catalog  *catalog.Catalog
	now      func() time.Time

	// emit is replaced in tests; nil until startup.
	emit        func(event string)
	unsubscribe func()
}

// ErrorData is a JSON-serializable error for the frontend. Line and Col are
// only set for script errors.
type ErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// FrameResult is the scene returned to the frontend.
type FrameResult struct {
	Frame  *scene.Frame `json:"frame"`
	Errors []ErrorData  `json:"errors"`
}

// PointerResult tells the frontend whether the event was consumed and
// whether the camera may handle it.
type PointerResult struct {
	Handled bool        `json:"handled"`
	Camera  bool        `json:"camera"`
	Errors  []ErrorData `json:"errors"`
}

// RoomResult reports room configuration validation errors.
type RoomResult struct {
	Errors []ErrorData `json:"errors"`
}

// ItemResult is the item added from the catalog.
type ItemResult struct {
	Item   *model.FurnitureItem `json:"item"`
	Errors []ErrorData          `json:"errors"`
}

// ImportResult lists the furniture created by a script import.
type ImportResult struct {
	Items  []model.FurnitureItem `json:"items"`
	Errors []ErrorData           `json:"errors"`
}

// ReportResult is a text summary ready to download.
type ReportResult struct {
	Filename string      `json:"filename"`
	Text     string      `json:"text"`
	Errors   []ErrorData `json:"errors"`
}

// NewApp creates a new App over repo using the sdfx kernel. A nil repo keeps
// designs in memory.
func NewApp(cfg config.Config, repo store.Repository) *App {
	return newApp(cfg, repo, sdfx.New(sdfx.WithMeshCells(cfg.MeshCells)))
}

func newApp(cfg config.Config, repo store.Repository, k kernel.Kernel) *App {
	a := &App{
		cfg:     cfg,
		store:   store.New(repo),
		engine:  engine.NewEngine(engine.WithTimeout(cfg.ScriptTimeout)),
		catalog: catalog.Default(),
		now:     time.Now,
	}
	a.composer = scene.New(a.store, k,
		scene.WithHoverGrace(cfg.HoverGrace),
		scene.WithOnChange(a.notify),
	)
	a.unsubscribe = a.store.Subscribe(func(store.Snapshot) { a.notify() })
	return a
}

// startup is called by Wails on app startup. The context is saved
// so we can emit runtime events.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.emit = func(event string) { runtime.EventsEmit(ctx, event) }
}

// shutdown is called by Wails when the window closes.
func (a *App) shutdown(context.Context) {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a *App) notify() {
	if a.emit != nil {
		a.emit(EventSceneChanged)
	}
}

// errorData flattens err into one entry per joined error.
func errorData(err error) []ErrorData {
	if err == nil {
		return []ErrorData{}
	}
	var multi interface{ Unwrap() []error }
	if errors.As(err, &multi) {
		var out []ErrorData
		for _, e := range multi.Unwrap() {
			out = append(out, ErrorData{Message: e.Error()})
		}
		return out
	}
	return []ErrorData{{Message: err.Error()}}
}

// Frame returns the current scene.
func (a *App) Frame() FrameResult {
	f, err := a.composer.Frame()
	if err != nil {
		log.Printf("Frame error: %v", err)
		return FrameResult{Errors: errorData(err)}
	}
	return FrameResult{Frame: f, Errors: []ErrorData{}}
}

// Tick advances door animations and reports whether another frame is needed.
func (a *App) Tick() bool {
	return a.composer.Tick()
}

// PointerEvent routes a pointer event from the viewport.
func (a *App) PointerEvent(ev scene.Event) PointerResult {
	res, err := a.composer.HandlePointer(ev)
	if err != nil {
		log.Printf("PointerEvent error: %v", err)
		return PointerResult{Errors: errorData(err)}
	}
	return PointerResult{Handled: res.Handled, Camera: res.Camera, Errors: []ErrorData{}}
}

// State returns a snapshot of the whole session.
func (a *App) State() store.Snapshot {
	return a.store.Snapshot()
}

// SetRoomConfig validates and applies a room configuration. An invalid
// configuration changes nothing.
func (a *App) SetRoomConfig(cfg model.RoomConfig) RoomResult {
	if err := cfg.Validate(); err != nil {
		return RoomResult{Errors: errorData(err)}
	}
	a.store.SetRoomConfig(cfg)
	return RoomResult{Errors: []ErrorData{}}
}

// ResetRoom clears the furniture and returns to the room form, keeping the
// current room configuration.
func (a *App) ResetRoom() {
	a.store.ResetRoom()
}

// Catalog lists the furniture templates.
func (a *App) Catalog() []catalog.Template {
	return a.catalog.Templates()
}

// AddFromCatalog adds the template tagged typ at a random floor position.
func (a *App) AddFromCatalog(typ string) ItemResult {
	t, ok := a.catalog.Lookup(typ)
	if !ok {
		return ItemResult{Errors: []ErrorData{{Message: fmt.Sprintf("unknown furniture type %q", typ)}}}
	}
	item := a.store.AddFurniture(t.Item(catalog.RandomPosition(a.store.RoomConfig(), nil)))
	return ItemResult{Item: &item, Errors: []ErrorData{}}
}

// UpdateFurniture merges patch into item id.
func (a *App) UpdateFurniture(id string, patch model.FurniturePatch) bool {
	return a.store.UpdateFurniture(id, patch)
}

// RemoveFurniture deletes item id.
func (a *App) RemoveFurniture(id string) bool {
	return a.store.RemoveFurniture(id)
}

// ClearAllFurniture removes every item.
func (a *App) ClearAllFurniture() {
	a.store.ClearAllFurniture()
}

// SaveDesign saves the current room and furniture.
func (a *App) SaveDesign(name string) model.Design {
	return a.store.SaveDesign(name)
}

// LoadDesign opens a saved design.
func (a *App) LoadDesign(id string) bool {
	return a.store.LoadDesign(id)
}

// DeleteDesign removes a saved design.
func (a *App) DeleteDesign(id string) {
	a.store.DeleteDesign(id)
}

// SavedDesigns lists the saved designs.
func (a *App) SavedDesigns() []model.Design {
	return a.store.SavedDesigns()
}

// StartNewDesign begins an unsaved design on the room form.
func (a *App) StartNewDesign() {
	a.store.StartNewDesign()
}

// SetCurrentStep moves the workflow to step.
func (a *App) SetCurrentStep(step model.Step) {
	a.store.SetCurrentStep(step)
}

// ImportScript evaluates a room script and replaces the furniture (and the
// room, when the script declares one) with its result.
func (a *App) ImportScript(source string) ImportResult {
	result := ImportResult{
		Items:  []model.FurnitureItem{},
		Errors: []ErrorData{},
	}

	plan, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("ImportScript fatal error: %v", err)
		result.Errors = append(result.Errors, ErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, ErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	result.Items = plan.Apply(a.store)
	return result
}

// ExportScript writes the current design as a room script.
func (a *App) ExportScript() string {
	return engine.Format(a.store.RoomConfig(), a.store.FurnitureItems())
}

// Report renders the text summary of the current design.
func (a *App) Report() ReportResult {
	now := a.now()
	text, err := report.String(report.Input{
		Room:      a.store.RoomConfig(),
		Items:     a.store.FurnitureItems(),
		Generated: now,
	})
	if err != nil {
		log.Printf("Report error: %v", err)
		return ReportResult{Errors: errorData(err)}
	}
	return ReportResult{Filename: report.Filename(now), Text: text, Errors: []ErrorData{}}
}
