package view

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/coastline"
)

// inputState remembers the pointer between ticks so only changes become
// events.
type inputState struct {
	x, y   int
	inside bool
	down   bool
	button coastline.MouseButton
}

var mouseButtons = [...]struct {
	eb ebiten.MouseButton
	cl coastline.MouseButton
}{
	{ebiten.MouseButtonLeft, coastline.MouseButtonLeft},
	{ebiten.MouseButtonMiddle, coastline.MouseButtonMiddle},
	{ebiten.MouseButtonRight, coastline.MouseButtonRight},
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() coastline.KeyModifiers {
	var mods coastline.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= coastline.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= coastline.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= coastline.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= coastline.ModMeta
	}
	return mods
}

// processInput feeds one tick of mouse, wheel and keyboard state to the
// editor.
func (g *Game) processInput() {
	mods := readModifiers()
	g.processKeys(mods)
	g.processPointer(mods)

	if _, dy := ebiten.Wheel(); dy != 0 {
		// Ebitengine reports scrolling up as positive; the editor zooms in on
		// negative deltas.
		g.editor.HandleWheel(float64(g.input.x), float64(g.input.y), -dy)
	}
}

func (g *Game) processPointer(mods coastline.KeyModifiers) {
	in := &g.input
	x, y := ebiten.CursorPosition()
	inside := x >= 0 && y >= 0 && x < g.width && y < g.height
	moved := x != in.x || y != in.y
	in.x, in.y = x, y

	ev := coastline.PointerEvent{ScreenX: float64(x), ScreenY: float64(y), Modifiers: mods}
	if in.inside && !inside {
		in.inside = false
		in.down = false
		ev.Kind = coastline.PointerLeave
		g.editor.HandlePointer(ev)
		return
	}
	in.inside = inside
	if !inside {
		return
	}

	if moved {
		ev.Kind = coastline.PointerMove
		ev.Button = in.button
		g.editor.HandlePointer(ev)
	}
	for _, b := range mouseButtons {
		switch {
		case !in.down && inpututil.IsMouseButtonJustPressed(b.eb):
			in.down, in.button = true, b.cl
			ev.Kind, ev.Button = coastline.PointerDown, b.cl
			g.editor.HandlePointer(ev)
		case in.down && in.button == b.cl && inpututil.IsMouseButtonJustReleased(b.eb):
			in.down = false
			ev.Kind, ev.Button = coastline.PointerUp, b.cl
			g.editor.HandlePointer(ev)
		}
	}
}

// toolKeys selects tools with the number row, in toolbar order.
var toolKeys = map[ebiten.Key]coastline.Tool{
	ebiten.Key1: coastline.ToolMask,
	ebiten.Key2: coastline.ToolStamp,
	ebiten.Key3: coastline.ToolBrush,
	ebiten.Key4: coastline.ToolSettings,
	ebiten.Key5: coastline.ToolAssets,
	ebiten.Key6: coastline.ToolExport,
	ebiten.Key7: coastline.ToolGrid,
	ebiten.Key8: coastline.ToolSelection,
}

// shortcut maps a key press to an editor command.
func shortcut(key ebiten.Key, mods coastline.KeyModifiers) (coastline.Command, bool) {
	primary := mods.Additive()
	switch {
	case key == ebiten.KeyDelete || key == ebiten.KeyBackspace:
		return coastline.DeleteSelection{}, true
	case key == ebiten.KeyC && primary:
		return coastline.CopySelection{}, true
	case key == ebiten.KeyV && primary:
		return coastline.PasteClipboard{}, true
	case key == ebiten.KeyG && primary && mods&coastline.ModShift != 0:
		return coastline.UngroupSelection{}, true
	case key == ebiten.KeyG && primary:
		return coastline.GroupSelection{}, true
	case key == ebiten.KeyBracketRight:
		return coastline.ReorderSelection{Forward: true}, true
	case key == ebiten.KeyBracketLeft:
		return coastline.ReorderSelection{Forward: false}, true
	case key == ebiten.KeyH && mods == 0:
		return coastline.FlipSelected{}, true
	}
	if t, ok := toolKeys[key]; ok && mods == 0 {
		return coastline.SelectTool{Tool: t}, true
	}
	return nil, false
}

var shortcutKeys = []ebiten.Key{
	ebiten.KeyDelete, ebiten.KeyBackspace,
	ebiten.KeyC, ebiten.KeyV, ebiten.KeyG, ebiten.KeyH,
	ebiten.KeyBracketLeft, ebiten.KeyBracketRight,
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
	ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8,
}

func (g *Game) processKeys(mods coastline.KeyModifiers) {
	for _, k := range shortcutKeys {
		if !inpututil.IsKeyJustPressed(k) {
			continue
		}
		if cmd, ok := shortcut(k, mods); ok {
			if err := g.editor.Execute(cmd); err != nil {
				coastline.Logger().Warn("shortcut failed", "key", k.String(), "err", err)
			}
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		step := 1
		if mods&coastline.ModShift != 0 {
			step = -1
		}
		g.cycleStampAsset(step)
	case inpututil.IsKeyJustPressed(ebiten.KeyF) && mods == 0:
		g.fitView(g.cfg.FitDuration)
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		g.showHUD = !g.showHUD
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		g.Screenshot("editor")
	}
}

// cycleStampAsset moves the placement asset step entries through the loaded
// stamp catalogue, wrapping at either end, and switches to the stamp tool.
// It reports false when no stamp asset has loaded yet.
func (g *Game) cycleStampAsset(step int) bool {
	assets := g.editor.Assets().StampAssets("")
	if len(assets) == 0 {
		return false
	}
	current := g.editor.Placement().Asset
	i := slices.IndexFunc(assets, func(a coastline.StampAsset) bool { return a.Src == current })
	switch {
	case i < 0 && step < 0:
		i = len(assets) - 1
	case i < 0:
		i = 0
	default:
		i = ((i+step)%len(assets) + len(assets)) % len(assets)
	}
	src := assets[i].Src
	if err := g.editor.Execute(coastline.SelectStampAsset{Src: src}); err != nil {
		coastline.Logger().Warn("select stamp asset", "src", src, "err", err)
		return false
	}
	if g.editor.Tool() != coastline.ToolStamp {
		if err := g.editor.Execute(coastline.SelectTool{Tool: coastline.ToolStamp}); err != nil {
			coastline.Logger().Warn("select stamp tool", "err", err)
		}
	}
	coastline.Logger().Debug("stamp asset selected", "src", src, "category", assets[i].Category)
	return true
}
