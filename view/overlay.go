package view

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/coastline"
)

var (
	selectionColor = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	marqueeFill    = color.RGBA{R: 0x1d, G: 0x41, B: 0x7b, A: 0x40}
	cursorColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xc0}
)

// selectedStamps returns the stamps that are selected directly or through
// a selected ancestor group, in paint order.
func selectedStamps(m *coastline.LayerManager) []coastline.Stamp {
	var out []coastline.Stamp
	var walk func(layers []coastline.Layer, inherited bool)
	walk = func(layers []coastline.Layer, inherited bool) {
		for _, l := range layers {
			hit := inherited || m.IsSelected(l.LayerID())
			switch v := l.(type) {
			case coastline.Stamp:
				if hit {
					out = append(out, v)
				}
			case coastline.Group:
				walk(v.Children, hit)
			}
		}
	}
	walk(m.Layers(), false)
	return out
}

// drawSelection outlines every selected stamp's rotated box.
func (g *Game) drawSelection(screen *ebiten.Image) {
	cam := g.editor.Camera()
	for _, st := range selectedStamps(g.editor.Layers()) {
		c := st.Corners()
		for i := range c {
			ax, ay := cam.WorldToScreen(c[i].X, c[i].Y)
			bx, by := cam.WorldToScreen(c[(i+1)%4].X, c[(i+1)%4].Y)
			vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 1.5, selectionColor, true)
		}
	}
}

// drawMarquee draws the rubber band while a marquee selection is active.
func (g *Game) drawMarquee(screen *ebiten.Image) {
	st := g.editor.Snapshot()
	if st.Interaction != coastline.StateMarqueeSelecting {
		return
	}
	r := st.Marquee
	x, y, w, h := float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height)
	vector.DrawFilledRect(screen, x, y, w, h, marqueeFill, false)
	vector.StrokeRect(screen, x, y, w, h, 1, selectionColor, false)
}

// drawBrushCursor previews the dab footprint of the painting tools.
func (g *Game) drawBrushCursor(screen *ebiten.Image) {
	var size float64
	switch g.editor.Tool() {
	case coastline.ToolMask:
		size = g.editor.MaskBrush().Size
	case coastline.ToolBrush:
		size = g.editor.PaintBrush().Size
	default:
		return
	}
	if !g.input.inside {
		return
	}
	r := size / 2 * g.editor.Camera().Scale
	vector.StrokeCircle(screen, float32(g.input.x), float32(g.input.y), float32(r), 1, cursorColor, true)
}
