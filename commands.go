package coastline

import "fmt"

// Command is an editor action triggered from outside the canvas: a panel
// button, a keyboard shortcut or a script step.
type Command interface {
	Apply(e *Editor) error
}

// Execute applies cmd to the editor.
func (e *Editor) Execute(cmd Command) error {
	if err := cmd.Apply(e); err != nil {
		return err
	}
	Logger().Debug("command applied", "command", fmt.Sprintf("%T", cmd))
	return nil
}

// SelectTool activates a tool (see [Editor.SelectTool]).
type SelectTool struct{ Tool Tool }

func (c SelectTool) Apply(e *Editor) error {
	e.SelectTool(c.Tool)
	return nil
}

// SelectLayer applies a click on a layer row.
type SelectLayer struct {
	ID        string
	Modifiers KeyModifiers
}

func (c SelectLayer) Apply(e *Editor) error {
	e.SelectLayer(c.ID, c.Modifiers)
	return nil
}

// ResizeCanvas changes the canvas size in design pixels.
type ResizeCanvas struct{ Width, Height int }

func (c ResizeCanvas) Apply(e *Editor) error { return e.Resize(c.Width, c.Height) }

// SetViewportDPI changes the backing resolution.
type SetViewportDPI struct{ DPI float64 }

func (c SetViewportDPI) Apply(e *Editor) error { return e.SetViewportDPI(c.DPI) }

// GroupSelection wraps the selection in a new group.
type GroupSelection struct{}

func (GroupSelection) Apply(e *Editor) error {
	e.GroupSelection()
	return nil
}

// UngroupSelection dissolves the selected group.
type UngroupSelection struct{}

func (UngroupSelection) Apply(e *Editor) error {
	e.UngroupSelection()
	return nil
}

// CreateGroup adds an empty group.
type CreateGroup struct{}

func (CreateGroup) Apply(e *Editor) error {
	e.CreateGroup()
	return nil
}

// DeleteSelection removes the selected layers.
type DeleteSelection struct{}

func (DeleteSelection) Apply(e *Editor) error {
	e.DeleteSelection()
	return nil
}

// ReorderSelection moves the selected layer one step; Forward moves it
// towards the top of the paint order.
type ReorderSelection struct{ Forward bool }

func (c ReorderSelection) Apply(e *Editor) error {
	e.ReorderSelection(c.Forward)
	return nil
}

// CopySelection copies the selected stamp.
type CopySelection struct{}

func (CopySelection) Apply(e *Editor) error {
	e.CopySelection()
	return nil
}

// PasteClipboard pastes the copied stamp at the cursor.
type PasteClipboard struct{}

func (PasteClipboard) Apply(e *Editor) error {
	e.Paste()
	return nil
}

// MoveLayer drops layer ID into group Target.
type MoveLayer struct{ ID, Target string }

func (c MoveLayer) Apply(e *Editor) error { return e.MoveLayer(c.ID, c.Target) }

// RenameLayer sets a group's name and leaves rename mode.
type RenameLayer struct{ ID, Name string }

func (c RenameLayer) Apply(e *Editor) error {
	if e.layers.Rename(c.ID, c.Name) {
		e.layersChanged()
	}
	return nil
}

// ToggleCollapse expands or collapses a group in the layer list.
type ToggleCollapse struct{ ID string }

func (c ToggleCollapse) Apply(e *Editor) error {
	if e.layers.ToggleCollapse(c.ID) {
		e.emit(EditorEvent{Type: EventLayersChanged})
	}
	return nil
}

// ToggleRenaming enters or leaves rename mode for a group.
type ToggleRenaming struct{ ID string }

func (c ToggleRenaming) Apply(e *Editor) error {
	e.layers.ToggleRenaming(c.ID)
	return nil
}

// SetStampWidth resizes the selected stamp about its centre.
type SetStampWidth struct{ Width float64 }

func (c SetStampWidth) Apply(e *Editor) error {
	e.SetSelectedStampWidth(c.Width)
	return nil
}

// EditStamp replaces the adjustable properties of the selected stamp.
type EditStamp struct {
	Rotation   float64
	Opacity    float64
	Hue        float64
	Saturation float64
}

func (c EditStamp) Apply(e *Editor) error {
	e.EditSelectedStamp(func(st Stamp) Stamp {
		st.Rotation = c.Rotation
		st.Opacity = clamp01(c.Opacity)
		st.Hue = c.Hue
		st.Saturation = max(c.Saturation, 0)
		return st
	})
	return nil
}

// FlipSelected mirrors the selected stamp horizontally.
type FlipSelected struct{}

func (FlipSelected) Apply(e *Editor) error {
	e.FlipSelected()
	return nil
}

// SetMaskBrush replaces the mask brush settings.
type SetMaskBrush struct{ Brush MaskBrush }

func (c SetMaskBrush) Apply(e *Editor) error {
	e.SetMaskBrush(c.Brush)
	return nil
}

// SetPaintBrush replaces the paint brush settings.
type SetPaintBrush struct{ Brush PaintBrush }

func (c SetPaintBrush) Apply(e *Editor) error {
	e.SetPaintBrush(c.Brush)
	return nil
}

// SetEffects replaces the edge effects and re-runs them.
type SetEffects struct{ Effects EffectsConfig }

func (c SetEffects) Apply(e *Editor) error {
	e.SetEffects(c.Effects)
	return nil
}

// SetGrid replaces the grid overlay settings.
type SetGrid struct{ Grid GridConfig }

func (c SetGrid) Apply(e *Editor) error {
	if c.Grid.Columns <= 0 || (c.Grid.Shape == GridSquare && c.Grid.Rows <= 0) {
		return fmt.Errorf("set grid: columns and rows must be positive, got %d×%d", c.Grid.Columns, c.Grid.Rows)
	}
	e.SetGrid(c.Grid)
	return nil
}

// SelectStampAsset chooses the asset placed by the stamp tool.
type SelectStampAsset struct{ Src string }

func (c SelectStampAsset) Apply(e *Editor) error {
	e.SelectStampAsset(c.Src)
	return nil
}

// FitView animates the camera to show the whole canvas in Viewport.
type FitView struct {
	Viewport Rect
	Duration float32
}

func (c FitView) Apply(e *Editor) error {
	e.FitView(c.Viewport, c.Duration)
	return nil
}
