package coastline

import (
	"image"
	"math"

	"github.com/aquilax/go-perlin"
)

// rippleSeed is the fixed turbulence seed, so ripples are reproducible for
// a given mask and configuration.
const rippleSeed = 10

// Octave weights halve and frequencies double, as in fractal noise.
const (
	noiseAlpha = 2.0
	noiseBeta  = 2.0
)

// Turbulence describes a fractal noise field.
type Turbulence struct {
	FreqX, FreqY float64
	Octaves      int
	Seed         int64
}

// rippleTurbulence returns the noise field used by the ripple bands.
// Wider ripples use lower base frequencies.
func rippleTurbulence(r RipplesConfig) Turbulence {
	return Turbulence{
		FreqX:   toPrecision((101-r.Width)*0.0005, 4),
		FreqY:   toPrecision((101-r.Width)*0.002, 4),
		Octaves: r.Count,
		Seed:    rippleSeed,
	}
}

// Render samples the field into a w × h map. Coordinates are divided by
// scale so the pattern is the same at every render resolution. The R channel
// and the A channel carry independent noise in [0, 255]; G and B are zero.
func (t Turbulence) Render(w, h int, scale float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if scale <= 0 {
		scale = 1
	}
	octaves := int32(max(t.Octaves, 1))
	red := perlin.NewPerlin(noiseAlpha, noiseBeta, octaves, t.Seed)
	alpha := perlin.NewPerlin(noiseAlpha, noiseBeta, octaves, t.Seed+1)
	for y := range h {
		ny := float64(y) / scale * t.FreqY
		for x := range w {
			nx := float64(x) / scale * t.FreqX
			i := img.PixOffset(x, y)
			img.Pix[i] = unit8((red.Noise2D(nx, ny) + 1) / 2)
			img.Pix[i+3] = unit8((alpha.Noise2D(nx, ny) + 1) / 2)
		}
	}
	return img
}

// toPrecision rounds v to the given number of significant digits.
func toPrecision(v float64, digits int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(digits-1)-math.Floor(math.Log10(math.Abs(v))))
	return math.Round(v*p) / p
}
