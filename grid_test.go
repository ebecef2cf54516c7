package coastline

import "testing"

// columnAlpha returns the largest alpha in columns x0..x1 of row y.
func columnAlpha(s *Surface, x0, x1, y int) uint8 {
	var a uint8
	for x := x0; x <= x1; x++ {
		a = max(a, s.AlphaAt(x, y))
	}
	return a
}

func TestRenderGridHidden(t *testing.T) {
	dst := NewSurface("grid", 50, 50)
	dst.Fill(ColorWhite)
	RenderGrid(dst, GridConfig{Visible: false, Columns: 5, Rows: 5}, 50, 50, 1, 1)
	if !dst.Empty() {
		t.Error("hidden grid left pixels")
	}
}

func TestRenderGridSquare(t *testing.T) {
	dst := NewSurface("grid", 100, 100)
	RenderGrid(dst, GridConfig{Visible: true, Shape: GridSquare, Columns: 2, Rows: 2}, 100, 100, 1, 1)

	if a := columnAlpha(dst, 48, 52, 25); a == 0 {
		t.Error("no vertical line at x=50")
	}
	if a := columnAlpha(dst, 23, 27, 25); a != 0 {
		t.Errorf("alpha %d inside a cell", a)
	}
	if a := columnAlpha(dst, 20, 30, 50); a == 0 {
		t.Error("no horizontal line at y=50")
	}
	if a := dst.AlphaAt(25, 75); a != 0 {
		t.Errorf("alpha %d inside a cell", a)
	}
}

func TestRenderGridRenderScale(t *testing.T) {
	dst := NewSurface("grid", 200, 200)
	RenderGrid(dst, GridConfig{Visible: true, Shape: GridSquare, Columns: 4, Rows: 4}, 100, 100, 2, 1)
	// Lines every 25 design pixels land every 50 buffer pixels.
	if a := columnAlpha(dst, 97, 103, 30); a == 0 {
		t.Error("no line at buffer x=100")
	}
	if a := columnAlpha(dst, 70, 80, 30); a != 0 {
		t.Errorf("alpha %d between lines", a)
	}
}

func TestRenderGridHexagon(t *testing.T) {
	dst := NewSurface("grid", 100, 100)
	RenderGrid(dst, GridConfig{Visible: true, Shape: GridHexagon, Columns: 4}, 100, 100, 1, 1)
	if dst.Empty() {
		t.Fatal("hexagon grid drew nothing")
	}
	// First-row hexagons are centred on y=0, one cell width apart.
	hexWidth := 100 / 4.5
	cx := int(hexWidth)
	if a := dst.AlphaAt(cx, 0); a != 0 {
		t.Errorf("alpha %d at the centre of a hexagon", a)
	}
}

func TestRenderGridInvalid(t *testing.T) {
	dst := NewSurface("grid", 20, 20)
	dst.Fill(ColorWhite)
	RenderGrid(dst, GridConfig{Visible: true, Columns: 0, Rows: 2}, 20, 20, 1, 1)
	if !dst.Empty() {
		t.Error("zero columns drew a grid")
	}
}
