package coastline

import (
	"iter"
	"math"
)

// --- Hit testing ---

// StampHit reports whether the design-space point (x, y) lies inside the
// stamp's rotated box. Points on the edge are inside.
func StampHit(st Stamp, x, y float64) bool {
	w, h := st.Size()
	c := st.Center()
	tx, ty := x-c.X, y-c.Y
	a := -st.Rotation * math.Pi / 180
	sin, cos := math.Sincos(a)
	rx := tx*cos - ty*sin
	ry := tx*sin + ty*cos
	const eps = 1e-9
	return math.Abs(rx) <= w/2+eps && math.Abs(ry) <= h/2+eps
}

// HitTest returns the topmost stamp containing (x, y). Stamps are given in
// paint order, so the last hit wins.
func HitTest(stamps iter.Seq[Stamp], x, y float64) (Stamp, bool) {
	var (
		hit   Stamp
		found bool
	)
	for st := range stamps {
		if StampHit(st, x, y) {
			hit, found = st, true
		}
	}
	return hit, found
}

// --- Pointer events ---

// PointerKind identifies a pointer event.
type PointerKind uint8

const (
	PointerDown  PointerKind = iota // a button was pressed
	PointerMove                     // the pointer moved, with or without a button held
	PointerUp                       // a button was released
	PointerLeave                    // the pointer left the canvas; ends any interaction
)

var pointerKindNames = [...]string{"down", "move", "up", "leave"}

func (k PointerKind) String() string {
	if int(k) < len(pointerKindNames) {
		return pointerKindNames[k]
	}
	return "unknown"
}

// PointerEvent is a pointer event in screen coordinates.
type PointerEvent struct {
	Kind      PointerKind
	ScreenX   float64
	ScreenY   float64
	Button    MouseButton
	Modifiers KeyModifiers
}

// InteractionState is the pointer interaction in progress.
type InteractionState uint8

const (
	StateIdle InteractionState = iota
	StatePanning
	StateDrawingMask
	StateDrawingBrush
	StateDraggingStamp
	StateMarqueeSelecting
)

var interactionNames = [...]string{"idle", "panning", "drawing-mask", "drawing-brush", "dragging-stamp", "marquee-selecting"}

func (s InteractionState) String() string {
	if int(s) < len(interactionNames) {
		return interactionNames[s]
	}
	return "unknown"
}

// pointerState tracks the interaction between a press and its release.
type pointerState struct {
	state       InteractionState
	lastScreen  Vec2 // panning reference
	lastWorld   Vec2 // stamp drag reference
	marqueeFrom Vec2 // screen space
	marqueeTo   Vec2 // screen space
	moved       bool
}

// HandlePointer advances the interaction state machine by one event.
func (e *Editor) HandlePointer(ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		e.pointerDown(ev)
	case PointerMove:
		e.pointerMove(ev)
	case PointerUp, PointerLeave:
		e.pointerUp(ev)
	}
}

// HandleWheel zooms about the cursor: a negative deltaY zooms in.
func (e *Editor) HandleWheel(screenX, screenY, deltaY float64) {
	if deltaY == 0 {
		return
	}
	e.camera.ZoomAt(screenX, screenY, deltaY < 0)
	e.touch(SurfaceGrid)
	if e.grid.Visible {
		e.renderGrid()
	}
}

func (e *Editor) worldPoint(ev PointerEvent) Vec2 {
	x, y := e.camera.ScreenToWorld(ev.ScreenX, ev.ScreenY)
	return Vec2{X: x, Y: y}
}

func (e *Editor) pointerDown(ev PointerEvent) {
	ps := &e.pointer
	if ps.state != StateIdle {
		return
	}
	ps.moved = false

	switch ev.Button {
	case MouseButtonMiddle:
		ps.state = StatePanning
		ps.lastScreen = Vec2{X: ev.ScreenX, Y: ev.ScreenY}
		return
	case MouseButtonLeft:
	default:
		return
	}

	p := e.worldPoint(ev)
	e.cursor = p
	ps.lastWorld = p

	switch e.tool {
	case ToolMask:
		ps.state = StateDrawingMask
		e.brush.PaintMask(p, e.maskBrush)
		e.touch(SurfaceMask)
	case ToolBrush:
		ps.state = StateDrawingBrush
		e.paintDab(p)
	case ToolStamp, ToolSelection:
		if hit, ok := HitTest(e.layers.Flatten(), p.X, p.Y); ok {
			e.SelectLayer(hit.ID, ev.Modifiers)
			ps.state = StateDraggingStamp
			return
		}
		switch {
		case e.tool == ToolSelection:
			ps.state = StateMarqueeSelecting
			ps.marqueeFrom = Vec2{X: ev.ScreenX, Y: ev.ScreenY}
			ps.marqueeTo = ps.marqueeFrom
		case e.placement.Asset != "":
			e.placeStamp(p)
		case ev.Modifiers&(ModShift|ModCtrl|ModMeta) == 0:
			had := len(e.layers.Selection()) > 0
			e.layers.ClearSelection()
			if had {
				if e.panelOpen && e.panel == ToolSelection && e.tool == ToolStamp {
					e.panel = ToolStamp
				}
				e.emit(EditorEvent{Type: EventSelectionChanged})
			}
		}
	}
}

func (e *Editor) pointerMove(ev PointerEvent) {
	ps := &e.pointer
	switch ps.state {
	case StatePanning:
		e.camera.Pan(ev.ScreenX-ps.lastScreen.X, ev.ScreenY-ps.lastScreen.Y)
		ps.lastScreen = Vec2{X: ev.ScreenX, Y: ev.ScreenY}
		return
	case StateMarqueeSelecting:
		ps.marqueeTo = Vec2{X: ev.ScreenX, Y: ev.ScreenY}
		return
	}

	p := e.worldPoint(ev)
	e.cursor = p
	switch ps.state {
	case StateDrawingMask:
		e.brush.PaintMask(p, e.maskBrush)
		e.touch(SurfaceMask)
	case StateDrawingBrush:
		e.paintDab(p)
	case StateDraggingStamp:
		dx, dy := p.X-ps.lastWorld.X, p.Y-ps.lastWorld.Y
		if e.layers.TranslateSelected(dx, dy) > 0 {
			ps.moved = true
			e.renderStamps()
		}
		ps.lastWorld = p
	}
}

func (e *Editor) pointerUp(ev PointerEvent) {
	ps := &e.pointer
	state := ps.state
	ps.state = StateIdle

	switch state {
	case StateMarqueeSelecting:
		ps.marqueeTo = Vec2{X: ev.ScreenX, Y: ev.ScreenY}
		ax, ay := e.camera.ScreenToWorld(ps.marqueeFrom.X, ps.marqueeFrom.Y)
		bx, by := e.camera.ScreenToWorld(ps.marqueeTo.X, ps.marqueeTo.Y)
		r := RectFromPoints(Vec2{X: ax, Y: ay}, Vec2{X: bx, Y: by})
		e.SelectStampsIn(r, ev.Modifiers&(ModShift|ModCtrl|ModMeta) != 0)
	case StateDrawingMask:
		e.emit(EditorEvent{Type: EventStrokeFinished, Tool: ToolMask})
		e.applyEffects()
	case StateDrawingBrush:
		e.emit(EditorEvent{Type: EventStrokeFinished, Tool: ToolBrush})
		if e.paintBrush.Target == TargetForeground {
			e.applyEffects()
		}
	case StateDraggingStamp:
		if ps.moved {
			e.layersChanged()
		}
	}
}

// paintDab applies one paint-brush dab and marks its target changed.
func (e *Editor) paintDab(p Vec2) {
	e.brush.Paint(p, e.paintBrush)
	switch e.paintBrush.Target {
	case TargetBackground:
		e.touch(SurfaceBackground)
	case TargetForeground:
		e.touch(SurfaceMask)
	case TargetTop:
		e.touch(SurfacePaint)
	}
}

// placeStamp creates a stamp of the active asset centred on p. It is a no-op
// while the asset is not loaded.
func (e *Editor) placeStamp(p Vec2) {
	tex, ok := e.assets.StampImage(e.placement.Asset)
	if !ok {
		Logger().Warn("stamp placement skipped", "src", e.placement.Asset, "reason", ErrAssetNotLoaded)
		return
	}
	w, h := tex.Size()
	scale := e.placement.Scale
	st := NewStamp("", e.placement.Asset,
		p.X-float64(w)*scale/2, p.Y-float64(h)*scale/2,
		float64(w), float64(h))
	st.Scale = scale
	st.Rotation = e.placement.Rotation
	st = e.layers.AddStamp(st)
	e.layers.SetSelection([]string{st.ID})
	e.openPanel(ToolSelection)
	e.layersChanged()
	e.emit(EditorEvent{Type: EventStampPlaced, IDs: []string{st.ID}, X: p.X, Y: p.Y})
}
