package coastline

import (
	"math"

	"github.com/gogpu/gg"
)

// gridColor is the stroke colour of the grid overlay.
var gridColor = Color{A: 0.5}

// RenderGrid redraws the grid overlay onto dst. The canvas is width × height
// design pixels; zoom keeps lines one screen pixel wide at the current view
// scale. A hidden grid leaves dst cleared.
func RenderGrid(dst *Surface, cfg GridConfig, width, height int, renderScale, zoom float64) {
	dst.Clear()
	if !cfg.Visible || cfg.Columns <= 0 || width <= 0 || height <= 0 {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	rs := renderScale
	w, h := float64(width), float64(height)

	dc := gg.NewContext(dst.Width(), dst.Height())
	defer dc.Close()
	dc.SetRGBA(gridColor.R, gridColor.G, gridColor.B, gridColor.A)
	dc.SetLineWidth(rs / zoom)

	switch cfg.Shape {
	case GridHexagon:
		hexWidth := w / (float64(cfg.Columns) + 0.5)
		r := hexWidth / 2
		hexHeight := math.Sqrt(3) * r
		for j := 0; float64(j)*hexHeight*0.75 < h+hexHeight; j++ {
			for i := 0; float64(i)*hexWidth < w+hexWidth; i++ {
				cx := float64(i)*hexWidth + float64(j%2)*hexWidth/2
				cy := float64(j) * hexHeight * 0.75
				for k := range 6 {
					a := float64(k) * math.Pi / 3
					x, y := (cx+r*math.Cos(a))*rs, (cy+r*math.Sin(a))*rs
					if k == 0 {
						dc.MoveTo(x, y)
					} else {
						dc.LineTo(x, y)
					}
				}
				dc.ClosePath()
			}
		}
	default:
		if cfg.Rows <= 0 {
			return
		}
		cellW := w / float64(cfg.Columns)
		cellH := h / float64(cfg.Rows)
		for i := 1; i < cfg.Columns; i++ {
			x := float64(i) * cellW * rs
			dc.DrawLine(x, 0, x, h*rs)
		}
		for j := 1; j < cfg.Rows; j++ {
			y := float64(j) * cellH * rs
			dc.DrawLine(0, y, w*rs, y)
		}
	}
	if err := dc.Stroke(); err != nil {
		Logger().Debug("render grid", "err", err)
		return
	}
	dst.Draw(premulToStraight(imageRGBA(dc.Image())), 0, 0, OpSourceOver, 1)
}
