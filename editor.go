package coastline

import (
	"context"
	"fmt"
	"image"
	"math"
	"slices"
)

// defaultStampSize is the longest side, in design pixels, a newly chosen
// stamp asset is placed at.
const defaultStampSize = 50

// EventSink is the interface for optional event forwarding, for example to
// an ECS world. When set on an Editor, editor events are emitted to it.
type EventSink interface {
	EmitEvent(event EditorEvent)
}

// EventType identifies an editor event.
type EventType uint8

const (
	EventStrokeFinished EventType = iota // a mask or paint stroke ended
	EventEffectsApplied                  // the effects overlay was recomputed
	EventSelectionChanged
	EventLayersChanged // the layer tree or a stamp changed
	EventStampPlaced
	EventCanvasResized
	EventProjectLoaded
)

var eventTypeNames = [...]string{
	"stroke-finished", "effects-applied", "selection-changed", "layers-changed",
	"stamp-placed", "canvas-resized", "project-loaded",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// EditorEvent carries the details of an editor event.
type EditorEvent struct {
	Type EventType
	// Tool is the tool of a finished stroke.
	Tool Tool
	// IDs are the affected layers: the selection, or the placed stamp.
	IDs []string
	// X and Y are the design-space position of a placed stamp.
	X, Y float64
	// Width and Height are the canvas size after a resize or load.
	Width, Height int
}

// Editor is the top-level object that owns the canvas surfaces, the layer
// tree, the camera, the assets and the tool state, and routes pointer input
// to the brush engine and the layer manager. It is not safe for concurrent
// use; drive it from one goroutine, typically the game loop.
type Editor struct {
	cfg      Config
	camera   *Camera
	surfaces *Surfaces
	layers   *LayerManager
	assets   *AssetRegistry
	brush    *BrushEngine
	sink     EventSink
	debug    bool

	maskBrush  MaskBrush
	paintBrush PaintBrush
	placement  StampPlacement
	grid       GridConfig
	effects    EffectsConfig
	export     ExportConfig

	tool      Tool
	panel     Tool
	panelOpen bool

	pointer  pointerState
	cursor   Vec2
	gridZoom float64
	revision [surfaceCount]uint64

	injectQueue []PointerEvent
	script      *ScriptRunner
}

// NewEditor creates an editor with an empty canvas of cfg.Width ×
// cfg.Height design pixels. Assets are not fetched until
// [Editor.LoadAssets] is called.
func NewEditor(cfg Config) (*Editor, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("new editor: %w: %dx%d", ErrInvalidCanvasSize, cfg.Width, cfg.Height)
	}
	if cfg.ViewportDPI <= 0 {
		cfg.ViewportDPI = BaseDPI
	}
	assets := NewAssetRegistry(nil)
	assets.SetLand(cfg.LandTexture)
	assets.SetSea(cfg.SeaTexture)
	surfaces := NewSurfaces(cfg.Width, cfg.Height, RenderScale(cfg.ViewportDPI))

	e := &Editor{
		cfg:        cfg,
		camera:     NewCamera(),
		surfaces:   surfaces,
		layers:     NewLayerManager(nil),
		assets:     assets,
		brush:      NewBrushEngine(surfaces, assets, nil),
		debug:      cfg.Debug,
		maskBrush:  DefaultMaskBrush(),
		paintBrush: DefaultPaintBrush(),
		placement:  DefaultStampPlacement(),
		grid:       DefaultGrid(),
		effects:    DefaultEffects(),
		export:     DefaultExport(),
		tool:       ToolSettings,
		panel:      ToolSettings,
		panelOpen:  true,
	}
	if len(cfg.BrushTextures) > 0 {
		e.paintBrush.Texture = cfg.BrushTextures[0]
	}
	return e, nil
}

// LoadAssets starts fetching every asset named by the editor's config.
// Results are applied by [Editor.Update].
func (e *Editor) LoadAssets(ctx context.Context) {
	e.assets.LoadConfig(ctx, e.cfg)
}

// LoadLayerAssets starts loading every stamp image referenced by the layer
// tree that is not available yet.
func (e *Editor) LoadLayerAssets(ctx context.Context) {
	for st := range e.layers.Flatten() {
		if _, ok := e.assets.StampImage(st.Src); !ok {
			e.assets.Load(ctx, st.Src, "")
		}
	}
}

// WaitAssets blocks until every pending asset load has finished and applies
// the results as Update would. Headless programs call it instead of running
// a frame loop.
func (e *Editor) WaitAssets(ctx context.Context) error {
	loaded, err := e.assets.Wait(ctx)
	if len(loaded) > 0 {
		e.assetsLoaded(loaded)
	}
	return err
}

// Config returns the editor configuration, with the current canvas size
// and viewport DPI.
func (e *Editor) Config() Config { return e.cfg }

// Camera returns the view transform.
func (e *Editor) Camera() *Camera { return e.camera }

// Surfaces returns the canvas surfaces.
func (e *Editor) Surfaces() *Surfaces { return e.surfaces }

// Layers returns the layer manager. Mutating it directly bypasses stamp
// re-rendering; prefer the Editor methods.
func (e *Editor) Layers() *LayerManager { return e.layers }

// Assets returns the asset registry.
func (e *Editor) Assets() *AssetRegistry { return e.assets }

// Brush returns the brush engine.
func (e *Editor) Brush() *BrushEngine { return e.brush }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// Panel returns the open side panel; ok is false when no panel is open.
func (e *Editor) Panel() (panel Tool, ok bool) { return e.panel, e.panelOpen }

// Interaction returns the pointer interaction in progress.
func (e *Editor) Interaction() InteractionState { return e.pointer.state }

// Cursor returns the last pointer position in design coordinates.
func (e *Editor) Cursor() Vec2 { return e.cursor }

// MaskBrush returns the mask brush settings.
func (e *Editor) MaskBrush() MaskBrush { return e.maskBrush }

// PaintBrush returns the paint brush settings.
func (e *Editor) PaintBrush() PaintBrush { return e.paintBrush }

// Placement returns the stamp placement settings.
func (e *Editor) Placement() StampPlacement { return e.placement }

// Grid returns the grid overlay settings.
func (e *Editor) Grid() GridConfig { return e.grid }

// Effects returns the edge-effects settings.
func (e *Editor) Effects() EffectsConfig { return e.effects }

// Export returns the export settings.
func (e *Editor) Export() ExportConfig { return e.export }

// Revision returns a counter that increases every time the surface changes.
// Displays compare it to decide when to re-upload pixels.
func (e *Editor) Revision(id SurfaceID) uint64 { return e.revision[id] }

// SetEventSink sets the optional event receiver.
func (e *Editor) SetEventSink(sink EventSink) {
	e.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, effect stage
// timings are logged and deep layer trees produce warnings.
func (e *Editor) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// Update advances camera tweens, applies completed asset loads, steps an
// attached script and consumes one injected pointer event. Call it once
// per frame with the frame duration in seconds.
func (e *Editor) Update(dt float32) {
	e.camera.Update(dt)
	if e.grid.Visible && e.gridZoom != e.camera.Scale {
		e.renderGrid()
	}
	if loaded := e.assets.Poll(); len(loaded) > 0 {
		e.assetsLoaded(loaded)
	}
	if e.script != nil {
		e.script.step(e)
	}
	e.processInjected()
}

// assetsLoaded reacts to newly available images.
func (e *Editor) assetsLoaded(srcs []string) {
	restamp := false
	for _, src := range srcs {
		switch src {
		case e.assets.SeaSource():
			if e.brush.FillBackground() {
				e.touch(SurfaceBackground)
			}
		case e.placement.Asset:
			e.placement.Scale = e.defaultPlacementScale(src)
		}
		if e.paintBrush.Texture == "" && slices.Contains(e.cfg.BrushTextures, src) {
			e.paintBrush.Texture = src
		}
		for st := range e.layers.Flatten() {
			if st.Src == src {
				restamp = true
				break
			}
		}
	}
	if restamp {
		e.renderStamps()
	}
}

// SelectTool activates a tool and opens its panel. Choosing the tool whose
// panel is already open closes the panel instead. Choosing the selection
// tool clears the selection.
func (e *Editor) SelectTool(t Tool) {
	if e.panelOpen && e.panel == t {
		e.panelOpen = false
		return
	}
	e.tool = t
	e.openPanel(t)
	if t == ToolSelection && len(e.layers.Selection()) > 0 {
		e.layers.ClearSelection()
		e.emit(EditorEvent{Type: EventSelectionChanged})
	}
}

func (e *Editor) openPanel(t Tool) {
	e.panel = t
	e.panelOpen = true
}

// closeSelectionPanel leaves the selection panel for the stamp panel when
// the stamp tool is active, or closes it otherwise.
func (e *Editor) closeSelectionPanel() {
	if !e.panelOpen || e.panel != ToolSelection {
		return
	}
	if e.tool == ToolStamp {
		e.panel = ToolStamp
		return
	}
	e.panelOpen = false
}

// SelectLayer applies a click on a layer row or stamp with the given
// modifiers (see [LayerManager.Select]) and shows the selection panel when
// something is selected.
func (e *Editor) SelectLayer(id string, mods KeyModifiers) {
	if !e.layers.Select(id, mods) {
		return
	}
	if mods&ModShift == 0 && mods.Additive() && len(e.layers.Selection()) == 0 {
		e.closeSelectionPanel()
	} else {
		e.openPanel(ToolSelection)
	}
	e.emit(EditorEvent{Type: EventSelectionChanged, IDs: e.layers.Selection()})
}

// ClearSelection deselects everything.
func (e *Editor) ClearSelection() {
	e.layers.ClearSelection()
	e.closeSelectionPanel()
	e.emit(EditorEvent{Type: EventSelectionChanged})
}

// SelectStampsIn replaces, or with additive extends, the selection with
// every stamp whose centre lies inside the design-space rectangle r.
func (e *Editor) SelectStampsIn(r Rect, additive bool) int {
	n := e.layers.SelectStampsIn(r, additive)
	if n > 0 {
		e.openPanel(ToolSelection)
	}
	e.emit(EditorEvent{Type: EventSelectionChanged, IDs: e.layers.Selection()})
	return n
}

// Resize changes the canvas size. Every raster surface is cleared and the
// background refilled with sea; the layer tree is kept.
func (e *Editor) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize canvas: %w: %dx%d", ErrInvalidCanvasSize, width, height)
	}
	e.cfg.Width, e.cfg.Height = width, height
	e.surfaces.Resize(width, height, RenderScale(e.cfg.ViewportDPI))
	e.resetSurfaces()
	Logger().Info("canvas resized", "width", width, "height", height)
	e.emit(EditorEvent{Type: EventCanvasResized, Width: width, Height: height})
	return nil
}

// resetSurfaces refills the background and redraws every derived surface
// after the buffers were recreated.
func (e *Editor) resetSurfaces() {
	e.brush.FillBackground()
	e.renderStamps()
	e.applyEffects()
	e.renderGrid()
	for id := range surfaceCount {
		e.touch(id)
	}
}

// SetViewportDPI changes the backing resolution of every surface. Painted
// content is resampled to the new resolution.
func (e *Editor) SetViewportDPI(dpi float64) error {
	if dpi <= 0 || math.IsNaN(dpi) || math.IsInf(dpi, 0) {
		return fmt.Errorf("set viewport dpi: invalid dpi %v", dpi)
	}
	if dpi == e.cfg.ViewportDPI {
		return nil
	}
	keep := []SurfaceID{SurfaceBackground, SurfaceEffects, SurfaceMask, SurfacePaint}
	old := make(map[SurfaceID]*image.NRGBA, len(keep))
	for _, id := range keep {
		old[id] = e.surfaces.Get(id).Image()
	}
	oldLand := e.surfaces.Land().Image()
	e.cfg.ViewportDPI = dpi
	w, h := e.surfaces.DesignSize()
	e.surfaces.Resize(w, h, RenderScale(dpi))
	for _, id := range keep {
		dst := e.surfaces.Get(id)
		dst.DrawScaled(old[id], dst.Image().Rect)
		e.touch(id)
	}
	land := e.surfaces.Land()
	land.DrawScaled(oldLand, land.Image().Rect)
	e.renderStamps()
	e.renderGrid()
	Logger().Info("viewport dpi changed", "dpi", dpi, "renderScale", e.surfaces.RenderScale())
	return nil
}

// SetMaskBrush replaces the mask brush settings.
func (e *Editor) SetMaskBrush(b MaskBrush) { e.maskBrush = b }

// SetPaintBrush replaces the paint brush settings.
func (e *Editor) SetPaintBrush(b PaintBrush) { e.paintBrush = b }

// SetPlacement replaces the stamp placement settings.
func (e *Editor) SetPlacement(p StampPlacement) { e.placement = p }

// SetExport replaces the export settings.
func (e *Editor) SetExport(c ExportConfig) { e.export = c }

// SetGrid replaces the grid settings and redraws the overlay.
func (e *Editor) SetGrid(g GridConfig) {
	e.grid = g
	e.renderGrid()
}

// SetEffects replaces the edge-effects settings and re-runs the pipeline.
func (e *Editor) SetEffects(cfg EffectsConfig) {
	e.effects = cfg
	e.applyEffects()
}

// SelectStampAsset makes src the asset placed by the stamp tool. Its
// placement scale fits the longest side to 50 design pixels; until the
// image loads the scale is 1.
func (e *Editor) SelectStampAsset(src string) {
	e.placement.Asset = src
	e.placement.Scale = e.defaultPlacementScale(src)
}

func (e *Editor) defaultPlacementScale(src string) float64 {
	tex, ok := e.assets.StampImage(src)
	if !ok {
		return 1
	}
	w, h := tex.Size()
	if m := max(w, h); m > 0 {
		return defaultStampSize / float64(m)
	}
	return 1
}

// GroupSelection wraps the selected layers in a new group.
func (e *Editor) GroupSelection() bool {
	if _, ok := e.layers.Group(); !ok {
		return false
	}
	e.layersChanged()
	return true
}

// UngroupSelection dissolves the single selected group.
func (e *Editor) UngroupSelection() bool {
	if !e.layers.Ungroup() {
		return false
	}
	e.layersChanged()
	return true
}

// DeleteSelection removes the selected layers. When the selection panel
// was open the stamp tool and panel become active.
func (e *Editor) DeleteSelection() bool {
	if !e.layers.Delete() {
		return false
	}
	if e.panelOpen && e.panel == ToolSelection {
		e.tool = ToolStamp
		e.panel = ToolStamp
	}
	e.layersChanged()
	e.emit(EditorEvent{Type: EventSelectionChanged})
	return true
}

// ReorderSelection moves the single selected layer one step within its list.
func (e *Editor) ReorderSelection(forward bool) bool {
	if !e.layers.Reorder(forward) {
		return false
	}
	e.layersChanged()
	return true
}

// MoveLayer moves a layer to the top of a group.
func (e *Editor) MoveLayer(id, group string) error {
	if err := e.layers.MoveInto(id, group); err != nil {
		return err
	}
	e.layersChanged()
	return nil
}

// CreateGroup adds an empty group to the root and selects it.
func (e *Editor) CreateGroup() Group {
	g := e.layers.CreateEmptyGroup()
	e.layersChanged()
	e.emit(EditorEvent{Type: EventSelectionChanged, IDs: []string{g.ID}})
	return g
}

// CopySelection copies the selected stamp.
func (e *Editor) CopySelection() bool { return e.layers.CopySelected() }

// Paste places the copied stamp centred on the last pointer position.
func (e *Editor) Paste() (Stamp, bool) {
	st, ok := e.layers.Paste(e.cursor)
	if !ok {
		return Stamp{}, false
	}
	e.openPanel(ToolSelection)
	e.layersChanged()
	e.emit(EditorEvent{Type: EventSelectionChanged, IDs: []string{st.ID}})
	return st, true
}

// EditSelectedStamp applies fn to the selected stamp.
func (e *Editor) EditSelectedStamp(fn func(Stamp) Stamp) bool {
	if !e.layers.UpdateSelectedStamp(fn) {
		return false
	}
	e.layersChanged()
	return true
}

// SetSelectedStampWidth resizes the selected stamp about its centre.
func (e *Editor) SetSelectedStampWidth(px float64) bool {
	if !e.layers.SetSelectedStampWidth(px) {
		return false
	}
	e.layersChanged()
	return true
}

// FlipSelected mirrors the selected stamp horizontally.
func (e *Editor) FlipSelected() bool {
	return e.EditSelectedStamp(func(st Stamp) Stamp {
		st.FlipH = !st.FlipH
		return st
	})
}

// FitView animates the camera so the canvas fills viewport.
func (e *Editor) FitView(viewport Rect, duration float32) {
	w, h := e.surfaces.DesignSize()
	e.camera.FitTo(viewport, float64(w), float64(h), duration)
}

// applyEffects recomputes the effects overlay from the mask.
func (e *Editor) applyEffects() {
	p, err := ApplyEffects(e.surfaces, e.effects)
	if err != nil {
		Logger().Error("effects failed", "err", err)
		return
	}
	e.touch(SurfaceEffects)
	e.touch(SurfaceMask)
	if e.debug && p != nil {
		debugLogTimings(p.Timings())
	}
	e.emit(EditorEvent{Type: EventEffectsApplied})
}

func (e *Editor) renderStamps() {
	RenderStamps(e.surfaces.Stamps(), e.layers.Flatten(), e.assets, e.surfaces.RenderScale())
	e.touch(SurfaceStamps)
}

func (e *Editor) renderGrid() {
	e.gridZoom = e.camera.Scale
	e.touch(SurfaceGrid)
	if !e.grid.Visible {
		e.surfaces.Grid().Clear()
		return
	}
	w, h := e.surfaces.DesignSize()
	RenderGrid(e.surfaces.Grid(), e.grid, w, h, e.surfaces.RenderScale(), e.camera.Scale)
}

func (e *Editor) layersChanged() {
	e.renderStamps()
	if e.debug {
		debugCheckTreeDepth(e.layers)
	}
	e.emit(EditorEvent{Type: EventLayersChanged})
}

func (e *Editor) touch(id SurfaceID) {
	e.revision[id]++
}

func (e *Editor) emit(ev EditorEvent) {
	if e.sink != nil {
		e.sink.EmitEvent(ev)
	}
}

// State is a read-only snapshot of the editor for displays and tests.
type State struct {
	Tool        Tool
	Panel       Tool
	PanelOpen   bool
	Interaction InteractionState
	Selection   []string
	Layers      []Layer
	// Transform is the world-to-screen matrix.
	Transform [6]float64
	// Marquee is the rubber-band rectangle in screen coordinates; it is
	// only meaningful while Interaction is StateMarqueeSelecting.
	Marquee Rect
	Cursor  Vec2
}

// Snapshot returns the current state. The layers are a deep copy.
func (e *Editor) Snapshot() State {
	s := State{
		Tool:        e.tool,
		Panel:       e.panel,
		PanelOpen:   e.panelOpen,
		Interaction: e.pointer.state,
		Selection:   e.layers.Selection(),
		Layers:      e.layers.Layers(),
		Transform:   e.camera.Matrix(),
		Cursor:      e.cursor,
	}
	if e.pointer.state == StateMarqueeSelecting {
		s.Marquee = RectFromPoints(e.pointer.marqueeFrom, e.pointer.marqueeTo)
	}
	return s
}
