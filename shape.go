package coastline

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"
)

// RandomSource supplies uniform values in [0, 1). Rough and edge brush
// shapes draw from it, so tests can inject a seeded source.
type RandomSource interface {
	Float64() float64
}

// defaultRandom returns the process-wide random source.
func defaultRandom() RandomSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// RasterizeShape rasterizes one brush dab into a w × h coverage mask.
//
//   - ShapeEdge: a polygon with max(3, roughness) vertices at even angles,
//     each at radius size/2 scaled by a random factor in [0.6, 1.0).
//   - roughness > 0 (circle or square): 5 + floor(roughness/5) discs of
//     random diameter in [size/4, size/2) scattered within
//     size/2 · roughness/100 of the centre.
//   - otherwise a disc of diameter size, or an axis-aligned square of side
//     size, centred on center.
func RasterizeShape(w, h int, center Vec2, size float64, shape BrushShape, roughness float64, rnd RandomSource) *image.Alpha {
	out := image.NewAlpha(image.Rect(0, 0, max(w, 0), max(h, 0)))
	if w <= 0 || h <= 0 || size <= 0 {
		return out
	}
	if rnd == nil {
		rnd = defaultRandom()
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.SetRGBA(0, 0, 0, 1)

	fill := func() {
		if err := dc.Fill(); err != nil {
			Logger().Debug("rasterize shape", "shape", shape, "err", err)
		}
	}

	switch {
	case shape == ShapeEdge:
		n := max(3, int(roughness))
		radius := size / 2
		for i := range n {
			angle := float64(i) / float64(n) * 2 * math.Pi
			r := radius * (0.6 + rnd.Float64()*0.4)
			vx := center.X + math.Cos(angle)*r
			vy := center.Y + math.Sin(angle)*r
			if i == 0 {
				dc.MoveTo(vx, vy)
			} else {
				dc.LineTo(vx, vy)
			}
		}
		dc.ClosePath()
		fill()
	case roughness > 0:
		dabs := 5 + int(math.Floor(roughness/5))
		scatter := size / 2 * (roughness / 100)
		for range dabs {
			dabSize := size/4 + size/4*rnd.Float64()
			angle := rnd.Float64() * 2 * math.Pi
			r := math.Sqrt(rnd.Float64()) * scatter
			dc.DrawCircle(center.X+math.Cos(angle)*r, center.Y+math.Sin(angle)*r, dabSize/2)
			fill()
		}
	case shape == ShapeSquare:
		dc.DrawRectangle(center.X-size/2, center.Y-size/2, size, size)
		fill()
	default:
		dc.DrawCircle(center.X, center.Y, size/2)
		fill()
	}

	src := imageRGBA(dc.Image())
	for i := range out.Pix {
		out.Pix[i] = src.Pix[i*4+3]
	}
	return out
}

// hardnessFalloff returns the circular paint-brush mask for an n × n tile:
// opaque out to hardness·radius from center, then a linear fade to zero at
// the rim.
func hardnessFalloff(n int, center Vec2, radius, hardness float64) *image.Alpha {
	out := image.NewAlpha(image.Rect(0, 0, max(n, 0), max(n, 0)))
	if n <= 0 || radius <= 0 {
		return out
	}
	grad := gg.NewRadialGradientBrush(center.X, center.Y, 0, radius).
		AddColorStop(0, gg.RGBA{A: 1}).
		AddColorStop(clamp01(hardness), gg.RGBA{A: 1}).
		AddColorStop(1, gg.RGBA{})
	for y := range n {
		for x := range n {
			px, py := float64(x)+0.5, float64(y)+0.5
			if math.Hypot(px-center.X, py-center.Y) >= radius {
				continue
			}
			out.Pix[y*out.Stride+x] = unit8(grad.ColorAt(px, py).A)
		}
	}
	return out
}

// imageRGBA returns img as *image.RGBA, converting when necessary.
func imageRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			rgba.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return rgba
}
