package coastline

import (
	"errors"
	"image/color"
	"slices"
	"testing"
)

// recordingSink collects emitted editor events.
type recordingSink struct {
	events []EditorEvent
}

func (r *recordingSink) EmitEvent(ev EditorEvent) { r.events = append(r.events, ev) }

func (r *recordingSink) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *recordingSink) has(t EventType) bool {
	return slices.Contains(r.types(), t)
}

var treeGreen = color.NRGBA{10, 120, 10, 255}

// newTestEditor returns an editor over a w × h canvas with every asset
// already loaded: land, sea, a "red" brush texture and a 20×10 "tree.png"
// stamp asset.
func newTestEditor(t *testing.T, w, h int) (*Editor, *recordingSink) {
	t.Helper()
	e, err := NewEditor(Config{
		Width: w, Height: h,
		LandTexture:   "land",
		SeaTexture:    "sea",
		BrushTextures: []string{"red"},
	})
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}
	e.Assets().Insert("land", "", solidNRGBA(8, 8, landGreen))
	e.Assets().Insert("sea", "", solidNRGBA(8, 8, seaBlue))
	e.Assets().Insert("red", "", solidNRGBA(8, 8, paintRed))
	e.Assets().Insert("tree.png", "nature", solidNRGBA(20, 10, treeGreen))
	e.Layers().SetIDSource(&seqIDs{})
	e.Brush().SetRandom(seeded(1))
	e.Brush().FillBackground()
	sink := &recordingSink{}
	e.SetEventSink(sink)
	return e, sink
}

func down(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerDown, ScreenX: x, ScreenY: y, Button: MouseButtonLeft}
}

func move(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerMove, ScreenX: x, ScreenY: y, Button: MouseButtonLeft}
}

func up(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerUp, ScreenX: x, ScreenY: y, Button: MouseButtonLeft}
}

func click(e *Editor, x, y float64) {
	e.HandlePointer(down(x, y))
	e.HandlePointer(up(x, y))
}

func TestNewEditorInvalidSize(t *testing.T) {
	for _, sz := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		if _, err := NewEditor(Config{Width: sz[0], Height: sz[1]}); !errors.Is(err, ErrInvalidCanvasSize) {
			t.Errorf("NewEditor(%dx%d) err = %v, want ErrInvalidCanvasSize", sz[0], sz[1], err)
		}
	}
}

func TestNewEditorDefaults(t *testing.T) {
	e, _ := newTestEditor(t, 64, 32)
	if e.Tool() != ToolSettings {
		t.Errorf("Tool() = %v, want settings", e.Tool())
	}
	if p, ok := e.Panel(); !ok || p != ToolSettings {
		t.Errorf("Panel() = %v, %v, want settings, true", p, ok)
	}
	if e.PaintBrush().Texture != "red" {
		t.Errorf("paint texture = %q, want first brush texture", e.PaintBrush().Texture)
	}
	if w, h := e.Surfaces().DesignSize(); w != 64 || h != 32 {
		t.Errorf("DesignSize() = %dx%d, want 64x32", w, h)
	}
	if e.Config().ViewportDPI != BaseDPI {
		t.Errorf("ViewportDPI = %v, want %v", e.Config().ViewportDPI, BaseDPI)
	}
}

func TestSelectToolTogglesPanel(t *testing.T) {
	e, _ := newTestEditor(t, 64, 64)

	e.SelectTool(ToolMask)
	if p, ok := e.Panel(); e.Tool() != ToolMask || !ok || p != ToolMask {
		t.Fatalf("after first select: tool %v panel %v open %v", e.Tool(), p, ok)
	}
	e.SelectTool(ToolMask)
	if _, ok := e.Panel(); ok {
		t.Error("selecting the open panel's tool should close it")
	}
	if e.Tool() != ToolMask {
		t.Errorf("tool = %v, want mask to stay active", e.Tool())
	}
	e.SelectTool(ToolMask)
	if p, ok := e.Panel(); !ok || p != ToolMask {
		t.Errorf("third select: panel %v open %v, want mask open", p, ok)
	}
}

func TestSelectSelectionToolClearsSelection(t *testing.T) {
	e, _ := newTestEditor(t, 64, 64)
	st := e.Layers().AddStamp(stampAt("a", 0, 0))
	e.SelectLayer(st.ID, 0)
	e.SelectTool(ToolSelection)
	if len(e.Layers().Selection()) != 1 {
		t.Fatal("closing the open selection panel should keep the selection")
	}
	e.SelectTool(ToolMask)
	e.SelectTool(ToolSelection)
	if sel := e.Layers().Selection(); len(sel) != 0 {
		t.Errorf("Selection() = %v, want empty", sel)
	}
}

func TestSelectLayerPanel(t *testing.T) {
	e, _ := newTestEditor(t, 64, 64)
	e.Layers().AddStamp(stampAt("a", 0, 0))
	e.Layers().AddStamp(stampAt("b", 20, 0))
	e.SelectTool(ToolStamp)

	e.SelectLayer("a", 0)
	if p, _ := e.Panel(); p != ToolSelection {
		t.Fatalf("plain click panel = %v, want selection", p)
	}
	e.SelectLayer("a", ModCtrl)
	if sel := e.Layers().Selection(); len(sel) != 0 {
		t.Fatalf("ctrl toggle left %v selected", sel)
	}
	if p, ok := e.Panel(); !ok || p != ToolStamp {
		t.Errorf("empty ctrl selection with stamp tool: panel %v open %v, want stamp", p, ok)
	}

	e.SelectTool(ToolSettings)
	e.SelectLayer("b", 0)
	e.SelectLayer("b", ModMeta)
	if _, ok := e.Panel(); ok {
		t.Error("empty meta selection without stamp tool should close the panel")
	}

	e.SelectLayer("missing", 0)
	if sel := e.Layers().Selection(); len(sel) != 0 {
		t.Errorf("unknown id changed selection to %v", sel)
	}
}

func TestMaskStroke(t *testing.T) {
	e, sink := newTestEditor(t, 64, 64)
	e.SetMaskBrush(MaskBrush{Mode: BrushAdd, Shape: ShapeCircle, Size: 10})
	e.SelectTool(ToolMask)
	rev := e.Revision(SurfaceMask)

	e.HandlePointer(down(20, 20))
	if e.Interaction() != StateDrawingMask {
		t.Fatalf("Interaction() = %v, want drawing-mask", e.Interaction())
	}
	e.HandlePointer(move(40, 20))
	if sink.has(EventEffectsApplied) {
		t.Error("effects should not run mid-stroke")
	}
	e.HandlePointer(up(40, 20))

	if e.Interaction() != StateIdle {
		t.Errorf("Interaction() = %v, want idle", e.Interaction())
	}
	m := e.Surfaces().Mask()
	for _, x := range []int{20, 40} {
		if a := m.AlphaAt(x, 20); a == 0 {
			t.Errorf("mask alpha at (%d, 20) = 0, want land", x)
		}
	}
	if a := m.AlphaAt(30, 20); a != 0 {
		t.Errorf("mask alpha between dabs = %d, want 0 (no interpolation)", a)
	}
	if e.Revision(SurfaceMask) <= rev {
		t.Error("mask revision did not advance")
	}
	want := []EventType{EventStrokeFinished, EventEffectsApplied}
	if got := sink.types(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if e.Surfaces().Effects().Empty() {
		t.Error("effects surface empty after stroke")
	}
}

func TestPointerLeaveEndsStroke(t *testing.T) {
	e, sink := newTestEditor(t, 64, 64)
	e.SelectTool(ToolMask)
	e.HandlePointer(down(10, 10))
	e.HandlePointer(PointerEvent{Kind: PointerLeave, ScreenX: 80, ScreenY: 80})
	if e.Interaction() != StateIdle {
		t.Errorf("Interaction() = %v, want idle", e.Interaction())
	}
	if !sink.has(EventEffectsApplied) {
		t.Error("leave should finish the stroke and run effects")
	}
}

func TestBrushStrokeTargets(t *testing.T) {
	tests := []struct {
		name    string
		target  PaintTarget
		surface SurfaceID
		effects bool
	}{
		{"background", TargetBackground, SurfaceBackground, false},
		{"foreground", TargetForeground, SurfaceMask, true},
		{"top", TargetTop, SurfacePaint, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, sink := newTestEditor(t, 64, 64)
			fillLand(e.Surfaces(), ColorWhite)
			b := DefaultPaintBrush()
			b.Texture = "red"
			b.Target = tt.target
			b.Shape = ShapeSquare
			b.Size = 8
			b.TextureScale = 8
			e.SetPaintBrush(b)
			e.SelectTool(ToolBrush)
			rev := e.Revision(tt.surface)

			e.HandlePointer(down(32, 32))
			if e.Interaction() != StateDrawingBrush {
				t.Fatalf("Interaction() = %v, want drawing-brush", e.Interaction())
			}
			e.HandlePointer(up(32, 32))

			if got := e.Surfaces().Get(tt.surface).Image().NRGBAAt(32, 32); got != paintRed {
				t.Errorf("%v pixel = %v, want %v", tt.surface, got, paintRed)
			}
			if e.Revision(tt.surface) <= rev {
				t.Errorf("%v revision did not advance", tt.surface)
			}
			if got := sink.has(EventEffectsApplied); got != tt.effects {
				t.Errorf("effects applied = %v, want %v", got, tt.effects)
			}
		})
	}
}

func TestMiddleButtonPans(t *testing.T) {
	e, _ := newTestEditor(t, 64, 64)
	e.SelectTool(ToolMask)
	e.HandlePointer(PointerEvent{Kind: PointerDown, ScreenX: 10, ScreenY: 10, Button: MouseButtonMiddle})
	if e.Interaction() != StatePanning {
		t.Fatalf("Interaction() = %v, want panning", e.Interaction())
	}
	e.HandlePointer(PointerEvent{Kind: PointerMove, ScreenX: 30, ScreenY: 25})
	e.HandlePointer(PointerEvent{Kind: PointerUp, ScreenX: 30, ScreenY: 25, Button: MouseButtonMiddle})

	assertNear(t, "camera X", e.Camera().X, 20)
	assertNear(t, "camera Y", e.Camera().Y, 15)
	if !e.Surfaces().Mask().Empty() {
		t.Error("panning painted the mask")
	}
}

func TestRightButtonIgnored(t *testing.T) {
	e, _ := newTestEditor(t, 64, 64)
	e.SelectTool(ToolMask)
	e.HandlePointer(PointerEvent{Kind: PointerDown, ScreenX: 32, ScreenY: 32, Button: MouseButtonRight})
	if e.Interaction() != StateIdle {
		t.Errorf("Interaction() = %v, want idle", e.Interaction())
	}
	if !e.Surfaces().Mask().Empty() {
		t.Error("right button painted the mask")
	}
}

func TestPressWhileBusyIgnored(t *testing.T) {
	e, _ := newTestEditor(t, 64, 64)
	e.SelectTool(ToolMask)
	e.HandlePointer(PointerEvent{Kind: PointerDown, ScreenX: 10, ScreenY: 10, Button: MouseButtonMiddle})
	e.HandlePointer(down(32, 32))
	if e.Interaction() != StatePanning {
		t.Errorf("Interaction() = %v, want panning", e.Interaction())
	}
	if !e.Surfaces().Mask().Empty() {
		t.Error("second press painted while panning")
	}
}

func TestWheelZoomsAboutCursor(t *testing.T) {
	e, _ := newTestEditor(t, 64, 64)
	wx, wy := e.Camera().ScreenToWorld(40, 30)
	e.HandleWheel(40, 30, -100)
	assertNear(t, "scale", e.Camera().Scale, ZoomStep)
	gx, gy := e.Camera().ScreenToWorld(40, 30)
	assertNear(t, "world x", gx, wx)
	assertNear(t, "world y", gy, wy)

	e.HandleWheel(40, 30, 100)
	assertNear(t, "scale after zoom out", e.Camera().Scale, 1)
	e.HandleWheel(40, 30, 0)
	assertNear(t, "scale after zero delta", e.Camera().Scale, 1)
}

func TestPlaceStamp(t *testing.T) {
	e, sink := newTestEditor(t, 200, 200)
	e.SelectTool(ToolStamp)
	e.SelectStampAsset("tree.png")
	assertNear(t, "placement scale", e.Placement().Scale, 2.5)

	click(e, 100, 100)

	stamps := slices.Collect(e.Layers().Flatten())
	if len(stamps) != 1 {
		t.Fatalf("got %d stamps, want 1", len(stamps))
	}
	st := stamps[0]
	if st.Src != "tree.png" || st.Width != 20 || st.Height != 10 {
		t.Errorf("stamp = %+v, want tree.png 20x10", st)
	}
	assertNear(t, "scale", st.Scale, 2.5)
	assertNear(t, "x", st.X, 75)
	assertNear(t, "y", st.Y, 87.5)
	if st.Opacity != 1 || st.Saturation != 100 || st.Hue != 0 {
		t.Errorf("colour defaults = %v/%v/%v, want 1/100/0", st.Opacity, st.Saturation, st.Hue)
	}
	if sel := e.Layers().Selection(); !slices.Equal(sel, []string{st.ID}) {
		t.Errorf("Selection() = %v, want [%s]", sel, st.ID)
	}
	if p, _ := e.Panel(); p != ToolSelection || e.Tool() != ToolStamp {
		t.Errorf("panel %v tool %v, want selection panel with stamp tool", p, e.Tool())
	}
	if !sink.has(EventStampPlaced) {
		t.Error("no stamp-placed event")
	}
	if got := e.Surfaces().Stamps().Image().NRGBAAt(100, 100); got != treeGreen {
		t.Errorf("stamp surface at centre = %v, want %v", got, treeGreen)
	}
}

func TestPlaceStampNotLoaded(t *testing.T) {
	e, _ := newTestEditor(t, 200, 200)
	e.SelectTool(ToolStamp)
	e.SelectStampAsset("missing.png")
	assertNear(t, "placement scale", e.Placement().Scale, 1)
	click(e, 100, 100)
	if n := e.Layers().Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
}

func TestDragStamp(t *testing.T) {
	e, sink := newTestEditor(t, 200, 200)
	e.SelectTool(ToolStamp)
	e.SelectStampAsset("tree.png")
	click(e, 100, 100)
	st, _ := e.Layers().SelectedStamp()
	e.ClearSelection()

	e.HandlePointer(down(100, 100))
	if e.Interaction() != StateDraggingStamp {
		t.Fatalf("Interaction() = %v, want dragging-stamp", e.Interaction())
	}
	if sel := e.Layers().Selection(); !slices.Equal(sel, []string{st.ID}) {
		t.Fatalf("press on stamp selected %v, want [%s]", sel, st.ID)
	}
	sink.events = nil
	e.HandlePointer(move(110, 105))
	e.HandlePointer(move(120, 110))
	e.HandlePointer(up(120, 110))

	got, _ := e.Layers().SelectedStamp()
	assertNear(t, "x", got.X, st.X+20)
	assertNear(t, "y", got.Y, st.Y+10)
	if n := e.Layers().Len(); n != 1 {
		t.Errorf("Len() = %d, want 1 (drag must not place)", n)
	}
	if !sink.has(EventLayersChanged) {
		t.Error("no layers-changed event after drag")
	}
}

func TestDragStampZoomed(t *testing.T) {
	e, _ := newTestEditor(t, 200, 200)
	e.Layers().AddStamp(stampAt("a", 0, 0))
	e.Camera().Scale = 2
	e.SelectTool(ToolSelection)

	e.HandlePointer(down(10, 10))
	e.HandlePointer(move(30, 10))
	e.HandlePointer(up(30, 10))

	l, _ := e.Layers().Find("a")
	assertNear(t, "x", l.(Stamp).X, 10)
}

func TestClickEmptyClearsSelection(t *testing.T) {
	e, _ := newTestEditor(t, 200, 200)
	e.SelectTool(ToolStamp)
	e.SelectStampAsset("tree.png")
	click(e, 100, 100)
	e.SetPlacement(StampPlacement{Scale: 1})

	click(e, 10, 10)
	if sel := e.Layers().Selection(); len(sel) != 0 {
		t.Errorf("Selection() = %v, want empty", sel)
	}
	if p, _ := e.Panel(); p != ToolStamp {
		t.Errorf("panel = %v, want stamp", p)
	}
	if n := e.Layers().Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

func TestClickEmptyWithModifierKeepsSelection(t *testing.T) {
	e, _ := newTestEditor(t, 200, 200)
	e.Layers().AddStamp(stampAt("a", 0, 0))
	e.SelectTool(ToolStamp)
	e.SelectLayer("a", 0)
	e.HandlePointer(PointerEvent{Kind: PointerDown, ScreenX: 150, ScreenY: 150, Button: MouseButtonLeft, Modifiers: ModShift})
	if sel := e.Layers().Selection(); !slices.Equal(sel, []string{"a"}) {
		t.Errorf("Selection() = %v, want [a]", sel)
	}
}

func TestMarqueeSelect(t *testing.T) {
	e, _ := newTestEditor(t, 200, 200)
	e.Layers().AddStamp(stampAt("a", 0, 0))   // centre (5, 5)
	e.Layers().AddStamp(stampAt("b", 40, 40)) // centre (45, 45)
	e.Layers().AddStamp(stampAt("c", 90, 90)) // centre (95, 95)
	e.SelectTool(ToolSelection)

	e.HandlePointer(down(60, 60))
	if e.Interaction() != StateMarqueeSelecting {
		t.Fatalf("Interaction() = %v, want marquee-selecting", e.Interaction())
	}
	e.HandlePointer(move(1, 1))
	snap := e.Snapshot()
	if snap.Marquee != (Rect{X: 1, Y: 1, Width: 59, Height: 59}) {
		t.Errorf("Snapshot().Marquee = %+v", snap.Marquee)
	}
	e.HandlePointer(up(1, 1))

	if sel := e.Layers().Selection(); !slices.Equal(sel, []string{"a", "b"}) {
		t.Errorf("Selection() = %v, want [a b]", sel)
	}
	if p, _ := e.Panel(); p != ToolSelection {
		t.Errorf("panel = %v, want selection", p)
	}

	// Additive with Ctrl held on release.
	e.HandlePointer(down(199, 199))
	e.HandlePointer(PointerEvent{Kind: PointerUp, ScreenX: 80, ScreenY: 80, Modifiers: ModCtrl})
	if sel := e.Layers().Selection(); !slices.Equal(sel, []string{"a", "b", "c"}) {
		t.Errorf("additive Selection() = %v, want [a b c]", sel)
	}

	// Replacing with an empty marquee clears.
	e.HandlePointer(down(150, 10))
	e.HandlePointer(up(160, 20))
	if sel := e.Layers().Selection(); len(sel) != 0 {
		t.Errorf("empty marquee Selection() = %v, want empty", sel)
	}
}

func TestMarqueeUsesWorldCoordinates(t *testing.T) {
	e, _ := newTestEditor(t, 200, 200)
	e.Layers().AddStamp(stampAt("a", 40, 40)) // centre (45, 45)
	e.Camera().Scale = 2
	e.Camera().X = -50

	e.SelectTool(ToolSelection)
	// Screen (20..60, 80..100) is world (35..55, 40..50).
	e.HandlePointer(down(20, 80))
	e.HandlePointer(up(60, 100))
	if sel := e.Layers().Selection(); !slices.Equal(sel, []string{"a"}) {
		t.Errorf("Selection() = %v, want [a]", sel)
	}
}

func TestDeleteSelectionSwitchesToStamp(t *testing.T) {
	e, _ := newTestEditor(t, 200, 200)
	e.Layers().AddStamp(stampAt("a", 0, 0))
	e.SelectTool(ToolSelection)
	e.SelectLayer("a", 0)
	if !e.DeleteSelection() {
		t.Fatal("DeleteSelection() = false")
	}
	if p, _ := e.Panel(); p != ToolStamp || e.Tool() != ToolStamp {
		t.Errorf("panel %v tool %v, want stamp/stamp", p, e.Tool())
	}
	if e.Layers().Len() != 0 {
		t.Error("layer not deleted")
	}
	if e.DeleteSelection() {
		t.Error("DeleteSelection() with nothing selected = true")
	}
}

func TestPasteAtCursor(t *testing.T) {
	e, _ := newTestEditor(t, 200, 200)
	e.Layers().AddStamp(stampAt("a", 0, 0))
	e.SelectLayer("a", 0)
	if !e.CopySelection() {
		t.Fatal("CopySelection() = false")
	}
	e.SelectTool(ToolSettings)
	e.HandlePointer(move(150, 120))
	st, ok := e.Paste()
	if !ok {
		t.Fatal("Paste() = false")
	}
	assertNear(t, "x", st.X, 145)
	assertNear(t, "y", st.Y, 115)
	if st.ID == "a" {
		t.Error("pasted stamp reused the original id")
	}
}

func TestResize(t *testing.T) {
	e, sink := newTestEditor(t, 64, 64)
	e.Layers().AddStamp(stampAt("a", 0, 0))
	fillLand(e.Surfaces(), ColorWhite)

	if err := e.Resize(0, 10); !errors.Is(err, ErrInvalidCanvasSize) {
		t.Errorf("Resize(0, 10) err = %v, want ErrInvalidCanvasSize", err)
	}
	if err := e.Resize(100, 50); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if w, h := e.Surfaces().DesignSize(); w != 100 || h != 50 {
		t.Errorf("DesignSize() = %dx%d, want 100x50", w, h)
	}
	if !e.Surfaces().Mask().Empty() {
		t.Error("mask survived resize")
	}
	if got := e.Surfaces().Background().Image().NRGBAAt(99, 49); got != seaBlue {
		t.Errorf("background = %v, want sea %v", got, seaBlue)
	}
	if e.Layers().Len() != 1 {
		t.Error("resize dropped layers")
	}
	if !sink.has(EventCanvasResized) {
		t.Error("no canvas-resized event")
	}
}

func TestSetViewportDPIResamples(t *testing.T) {
	e, _ := newTestEditor(t, 64, 64)
	e.SetMaskBrush(MaskBrush{Mode: BrushAdd, Shape: ShapeSquare, Size: 20})
	e.SelectTool(ToolMask)
	click(e, 32, 32)

	if err := e.SetViewportDPI(192); err != nil {
		t.Fatalf("SetViewportDPI: %v", err)
	}
	if w, h := e.Surfaces().PixelSize(); w != 128 || h != 128 {
		t.Fatalf("PixelSize() = %dx%d, want 128x128", w, h)
	}
	m := e.Surfaces().Mask()
	if a := m.AlphaAt(64, 64); a == 0 {
		t.Error("painted land lost after dpi change")
	}
	if a := m.AlphaAt(4, 4); a != 0 {
		t.Errorf("alpha at (4, 4) = %d, want 0", a)
	}
	if err := e.SetViewportDPI(0); err == nil {
		t.Error("SetViewportDPI(0) should fail")
	}

	// Input maps to the new resolution.
	click(e, 10, 10)
	if a := m.AlphaAt(20, 20); a == 0 {
		t.Error("dab after dpi change not scaled")
	}
}

func TestSetEffectsReruns(t *testing.T) {
	e, sink := newTestEditor(t, 64, 64)
	fillLand(e.Surfaces(), ColorWhite)
	fx := DefaultEffects()
	fx.Enabled = false
	e.SetEffects(fx)
	if !e.Surfaces().Effects().Empty() {
		t.Error("disabled effects left an overlay")
	}
	if !sink.has(EventEffectsApplied) {
		t.Error("no effects-applied event")
	}
	if e.Effects().Enabled {
		t.Error("Effects() not updated")
	}
}

func TestUpdateAppliesLoadedAssets(t *testing.T) {
	e, err := NewEditor(Config{Width: 32, Height: 32, SeaTexture: "sea-src"})
	if err != nil {
		t.Fatal(err)
	}
	e.SelectStampAsset("rock")
	e.Layers().AddStamp(NewStamp("r1", "rock", 0, 0, 10, 10))
	e.assets.results <- loadResult{src: "sea-src", img: solidNRGBA(4, 4, seaBlue)}
	e.assets.results <- loadResult{src: "rock", category: "stones", img: solidNRGBA(100, 25, treeGreen)}
	e.assets.inflight += 2

	e.Update(1.0 / 60)

	if got := e.Surfaces().Background().Image().NRGBAAt(31, 31); got != seaBlue {
		t.Errorf("background = %v, want sea", got)
	}
	assertNear(t, "placement scale", e.Placement().Scale, 0.5)
	if got := e.Surfaces().Stamps().Image().NRGBAAt(5, 5); got != treeGreen {
		t.Errorf("stamp surface = %v, want rendered rock", got)
	}
}

func TestGridFollowsZoom(t *testing.T) {
	e, _ := newTestEditor(t, 100, 100)
	e.SetGrid(GridConfig{Visible: true, Shape: GridSquare, Columns: 2, Rows: 2})
	if e.Surfaces().Grid().Empty() {
		t.Fatal("visible grid not drawn")
	}
	rev := e.Revision(SurfaceGrid)
	e.HandleWheel(50, 50, -1)
	if e.Revision(SurfaceGrid) <= rev {
		t.Error("zoom did not redraw the grid")
	}
	e.SetGrid(GridConfig{Visible: false, Shape: GridSquare, Columns: 2, Rows: 2})
	if !e.Surfaces().Grid().Empty() {
		t.Error("hidden grid left pixels")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	e, _ := newTestEditor(t, 64, 64)
	e.Layers().AddStamp(stampAt("a", 0, 0))
	e.SelectLayer("a", 0)
	snap := e.Snapshot()
	snap.Selection[0] = "x"
	snap.Layers[0] = stampAt("x", 1, 1)
	if sel := e.Layers().Selection(); sel[0] != "a" {
		t.Errorf("snapshot selection aliased editor state: %v", sel)
	}
	if _, ok := e.Layers().Find("a"); !ok {
		t.Error("snapshot layers aliased editor state")
	}
	if snap.Transform != e.Camera().Matrix() {
		t.Errorf("Transform = %v, want %v", snap.Transform, e.Camera().Matrix())
	}
}
