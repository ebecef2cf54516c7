package coastline

import (
	"image"
	"math"
)

// BrushEngine paints dabs onto the editor surfaces. All coordinates passed
// in are design pixels; the engine scales them by the render scale.
type BrushEngine struct {
	surfaces *Surfaces
	textures TextureSource
	rnd      RandomSource
	patterns patternCache
}

// NewBrushEngine creates a brush engine. A nil rnd uses a time-seeded source.
func NewBrushEngine(s *Surfaces, textures TextureSource, rnd RandomSource) *BrushEngine {
	if rnd == nil {
		rnd = defaultRandom()
	}
	return &BrushEngine{surfaces: s, textures: textures, rnd: rnd}
}

// SetRandom replaces the random source used by rough and edge shapes.
func (e *BrushEngine) SetRandom(rnd RandomSource) {
	if rnd != nil {
		e.rnd = rnd
	}
}

// dabTile returns the integer origin and side of a square tile of side
// extent centred on (cx, cy), plus the centre in tile coordinates.
func dabTile(cx, cy, extent float64) (origin image.Point, n int, center Vec2) {
	ox := math.Floor(cx - extent/2)
	oy := math.Floor(cy - extent/2)
	n = int(math.Ceil(extent)) + 1
	return image.Pt(int(ox), int(oy)), n, Vec2{cx - ox, cy - oy}
}

// PaintMask applies one mask-brush dab at p to both the land buffer and the
// displayed mask. Add mode stamps a land-textured splat shaped like the
// brush; subtract mode erases under the shape. Adding is a no-op while the
// land texture is not loaded.
func (e *BrushEngine) PaintMask(p Vec2, cfg MaskBrush) {
	if e.surfaces == nil || cfg.Size <= 0 {
		return
	}
	rs := e.surfaces.RenderScale()
	size := cfg.Size * rs
	cx, cy := p.X*rs, p.Y*rs
	land := [...]*Surface{e.surfaces.Land(), e.surfaces.Mask()}

	if cfg.Mode == BrushSubtract {
		extent := size
		if cfg.Shape != ShapeEdge && cfg.Roughness > 0 {
			// Scattered dabs may reach past the nominal footprint.
			extent = size * 2
		}
		origin, n, center := dabTile(cx, cy, extent)
		shape := RasterizeShape(n, n, center, size, cfg.Shape, cfg.Roughness, e.rnd)
		for _, dst := range land {
			dst.Draw(shape, origin.X, origin.Y, OpDestinationOut, 1)
		}
		return
	}

	tex, ok := e.textures.Land()
	if !ok {
		Logger().Debug("mask dab skipped", "reason", ErrAssetNotLoaded)
		return
	}
	origin, n, center := dabTile(cx, cy, size)
	tile := image.NewNRGBA(image.Rect(0, 0, n, n))
	w, h := tex.Size()
	pattern := e.patterns.get(tex, scaledDim(w, rs), scaledDim(h, rs), neutralAdjust)
	FillPattern(tile, pattern, image.Pt(-origin.X, -origin.Y))

	shape := RasterizeShape(n, n, center, size, cfg.Shape, cfg.Roughness, e.rnd)
	compositeImage(tile, shape, nil, 0, 0, OpDestinationIn, 1)
	for _, dst := range land {
		dst.Draw(tile, origin.X, origin.Y, OpSourceOver, 1)
	}
}

var neutralAdjust = [4]float64{0, 100, 100, 100}

func scaledDim(v int, s float64) int {
	return max(1, int(math.Round(float64(v)*s)))
}

// Target returns the surface and composite rule a paint brush draws with.
// Paint aimed at the foreground lands only on existing land.
func (e *BrushEngine) Target(t PaintTarget) (*Surface, CompositeOp) {
	switch t {
	case TargetBackground:
		return e.surfaces.Background(), OpSourceOver
	case TargetForeground:
		return e.surfaces.Mask(), OpSourceAtop
	case TargetTop:
		return e.surfaces.Paint(), OpSourceOver
	}
	return nil, OpSourceOver
}

// Paint applies one textured paint dab at p. It is a no-op while the brush
// texture is not loaded.
func (e *BrushEngine) Paint(p Vec2, cfg PaintBrush) {
	if e.surfaces == nil || cfg.Size <= 0 {
		return
	}
	target, op := e.Target(cfg.Target)
	if target == nil {
		return
	}
	tex, ok := e.textures.BrushTexture(cfg.Texture)
	if !ok {
		Logger().Debug("paint dab skipped", "texture", cfg.Texture, "reason", ErrAssetNotLoaded)
		return
	}
	rs := e.surfaces.RenderScale()
	size := cfg.Size * rs
	origin, n, center := dabTile(p.X*rs, p.Y*rs, size)

	side := scaledDim(int(math.Round(cfg.TextureScale)), rs)
	if cfg.TextureScale <= 0 {
		side, _ = tex.Size()
	}
	adjust := [4]float64{cfg.Hue, cfg.Saturation, cfg.Brightness, cfg.Contrast}
	pattern := e.patterns.get(tex, side, side, adjust)
	tile := image.NewNRGBA(image.Rect(0, 0, n, n))
	FillPattern(tile, pattern, image.Pt(-origin.X, -origin.Y))

	var falloff *image.Alpha
	switch cfg.Shape {
	case ShapeCircle:
		falloff = hardnessFalloff(n, center, size/2, cfg.Hardness)
	case ShapeSquare:
		falloff = RasterizeShape(n, n, center, size, ShapeSquare, 0, e.rnd)
	}
	target.DrawMasked(tile, falloff, origin.X, origin.Y, op, cfg.Opacity)
	if cfg.Target == TargetForeground {
		e.surfaces.Land().DrawMasked(tile, falloff, origin.X, origin.Y, op, cfg.Opacity)
	}
}

// FillBackground clears the background and tiles the sea texture over it at
// the current render scale. It reports false when the sea texture is not
// loaded.
func (e *BrushEngine) FillBackground() bool {
	sea, ok := e.textures.Sea()
	if !ok {
		return false
	}
	rs := e.surfaces.RenderScale()
	w, h := sea.Size()
	pattern := e.patterns.get(sea, scaledDim(w, rs), scaledDim(h, rs), neutralAdjust)
	FillPattern(e.surfaces.Background().Image(), pattern, image.Point{})
	return true
}
