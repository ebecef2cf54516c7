package coastline

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// Filter is the interface for image-processing stages applied to
// render-resolution buffers. src and dst always share the same bounds.
type Filter interface {
	// Apply processes src into dst.
	Apply(src, dst *image.NRGBA)
	// Padding returns how far, in pixels, the effect may reach beyond the
	// source's opaque region (e.g. blur radius, dilation). Zero means none.
	Padding() int
}

// --- AlphaFilter ---

// AlphaFilter derives a silhouette: pixels with any alpha become opaque
// black, all others transparent.
type AlphaFilter struct{}

// Apply writes the silhouette of src into dst.
func (AlphaFilter) Apply(src, dst *image.NRGBA) {
	for i := 3; i < len(src.Pix); i += 4 {
		dst.Pix[i-3], dst.Pix[i-2], dst.Pix[i-1] = 0, 0, 0
		if src.Pix[i] > 0 {
			dst.Pix[i] = 255
		} else {
			dst.Pix[i] = 0
		}
	}
}

// Padding returns 0.
func (AlphaFilter) Padding() int { return 0 }

// --- BlurFilter ---

// BlurFilter applies a Gaussian blur with the given standard deviation.
type BlurFilter struct {
	Sigma float64
}

// Apply blurs src into dst. A non-positive sigma copies src unchanged.
func (f BlurFilter) Apply(src, dst *image.NRGBA) {
	if f.Sigma <= 0 {
		copy(dst.Pix, src.Pix)
		return
	}
	blurred := imaging.Blur(src, f.Sigma)
	copy(dst.Pix, blurred.Pix)
}

// Padding returns three standard deviations, rounded up.
func (f BlurFilter) Padding() int { return int(math.Ceil(3 * f.Sigma)) }

// --- OffsetFilter ---

// OffsetFilter translates the image by (DX, DY) pixels, rounded to whole
// pixels. Uncovered pixels become transparent.
type OffsetFilter struct {
	DX, DY float64
}

// Apply shifts src into dst.
func (f OffsetFilter) Apply(src, dst *image.NRGBA) {
	dx, dy := int(math.Round(f.DX)), int(math.Round(f.DY))
	clear(dst.Pix)
	b := src.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		sy := y - dy
		if sy < b.Min.Y || sy >= b.Max.Y {
			continue
		}
		x0, x1 := max(b.Min.X, b.Min.X+dx), min(b.Max.X, b.Max.X+dx)
		if x0 >= x1 {
			continue
		}
		copy(dst.Pix[dst.PixOffset(x0, y):dst.PixOffset(x1, y)], src.Pix[src.PixOffset(x0-dx, sy):src.PixOffset(x1-dx, sy)])
	}
}

// Padding returns the larger offset component.
func (f OffsetFilter) Padding() int {
	return int(math.Ceil(math.Max(math.Abs(f.DX), math.Abs(f.DY))))
}

// --- FloodFilter ---

// FloodFilter fills with Color clipped to the source's alpha (a flood
// composited "in" the source).
type FloodFilter struct {
	Color Color
}

// Apply writes Color with alpha Color.A × source alpha into dst.
func (f FloodFilter) Apply(src, dst *image.NRGBA) {
	c := f.Color.NRGBA()
	for i := 0; i < len(src.Pix); i += 4 {
		a := uint16(src.Pix[i+3]) * uint16(c.A) / 255
		if a == 0 {
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = 0, 0, 0, 0
			continue
		}
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = c.R, c.G, c.B, uint8(a)
	}
}

// Padding returns 0.
func (FloodFilter) Padding() int { return 0 }

// --- AlphaScaleFilter ---

// AlphaScaleFilter multiplies alpha by Factor, leaving colour untouched.
// src and dst may be the same buffer.
type AlphaScaleFilter struct {
	Factor float64
}

// Apply scales the alpha of src into dst.
func (f AlphaScaleFilter) Apply(src, dst *image.NRGBA) {
	k := clamp01(f.Factor)
	for i := 0; i < len(src.Pix); i += 4 {
		copy(dst.Pix[i:i+3], src.Pix[i:i+3])
		dst.Pix[i+3] = uint8(float64(src.Pix[i+3])*k + 0.5)
	}
}

// Padding returns 0.
func (AlphaScaleFilter) Padding() int { return 0 }

// --- DilateFilter ---

// DilateFilter grows opaque regions: each output pixel takes the most opaque
// pixel within a square window of half-width Radius (rounded up).
type DilateFilter struct {
	Radius float64
}

// Apply dilates src into dst with two separable passes.
func (f DilateFilter) Apply(src, dst *image.NRGBA) {
	r := f.Padding()
	if r <= 0 {
		copy(dst.Pix, src.Pix)
		return
	}
	tmp := image.NewNRGBA(src.Rect)
	dilatePass(src, tmp, r, 1, 0)
	dilatePass(tmp, dst, r, 0, 1)
}

// Padding returns the dilation radius in whole pixels.
func (f DilateFilter) Padding() int {
	if f.Radius <= 0 {
		return 0
	}
	return int(math.Ceil(f.Radius - 1e-9))
}

// dilatePass takes the running maximum along one axis.
func dilatePass(src, dst *image.NRGBA, r, ax, ay int) {
	b := src.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var best [4]uint8
			for k := -r; k <= r; k++ {
				sx, sy := x+k*ax, y+k*ay
				if sx < b.Min.X || sx >= b.Max.X || sy < b.Min.Y || sy >= b.Max.Y {
					continue
				}
				i := src.PixOffset(sx, sy)
				if a := src.Pix[i+3]; a > best[3] {
					best = [4]uint8{src.Pix[i], src.Pix[i+1], src.Pix[i+2], a}
				}
			}
			copy(dst.Pix[dst.PixOffset(x, y):], best[:])
		}
	}
}

// --- DisplacementFilter ---

// Channel selects a color channel of a displacement map.
type Channel uint8

const (
	ChannelR Channel = iota
	ChannelG
	ChannelB
	ChannelA
)

// DisplacementFilter moves each pixel by the values of a displacement map:
// dst(x, y) = src(x + Scale·(X(x,y) − 0.5), y + Scale·(Y(x,y) − 0.5)).
type DisplacementFilter struct {
	Map                *image.NRGBA
	Scale              float64
	XChannel, YChannel Channel
}

// Apply displaces src into dst. A nil map copies src unchanged.
func (f DisplacementFilter) Apply(src, dst *image.NRGBA) {
	if f.Map == nil || f.Scale == 0 {
		copy(dst.Pix, src.Pix)
		return
	}
	b := src.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			di := dst.PixOffset(x, y)
			var dx, dy float64
			if (image.Point{x, y}).In(f.Map.Rect) {
				mi := f.Map.PixOffset(x, y)
				dx = f.Scale * (float64(f.Map.Pix[mi+int(f.XChannel)])/255 - 0.5)
				dy = f.Scale * (float64(f.Map.Pix[mi+int(f.YChannel)])/255 - 0.5)
			}
			sx := x + int(math.Round(dx))
			sy := y + int(math.Round(dy))
			if sx < b.Min.X || sx >= b.Max.X || sy < b.Min.Y || sy >= b.Max.Y {
				dst.Pix[di], dst.Pix[di+1], dst.Pix[di+2], dst.Pix[di+3] = 0, 0, 0, 0
				continue
			}
			si := src.PixOffset(sx, sy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
}

// Padding returns half the scale, the largest possible displacement.
func (f DisplacementFilter) Padding() int { return int(math.Ceil(math.Abs(f.Scale) / 2)) }

// --- ColorMatrixFilter ---

// ColorMatrixFilter applies a 4x5 color matrix to straight-alpha colors.
// The matrix is stored in row-major order: [R_r, R_g, R_b, R_a, R_offset, G_r, ...].
type ColorMatrixFilter struct {
	Matrix [20]float64
}

var identityColorMatrix = [20]float64{
	1, 0, 0, 0, 0,
	0, 1, 0, 0, 0,
	0, 0, 1, 0, 0,
	0, 0, 0, 1, 0,
}

// NewColorMatrixFilter creates a color matrix filter initialized to the identity.
func NewColorMatrixFilter() *ColorMatrixFilter {
	return &ColorMatrixFilter{Matrix: identityColorMatrix}
}

// NewAdjustFilter composes hue rotation (degrees), then saturation,
// brightness and contrast (percentages, 100 = unchanged).
func NewAdjustFilter(hue, saturation, brightness, contrast float64) *ColorMatrixFilter {
	f := NewColorMatrixFilter()
	if hue != 0 {
		f.SetHueRotate(hue)
	}
	if saturation != 100 {
		s := NewColorMatrixFilter()
		s.SetSaturation(saturation / 100)
		f.Then(s)
	}
	if brightness != 100 {
		s := NewColorMatrixFilter()
		s.SetBrightness(brightness / 100)
		f.Then(s)
	}
	if contrast != 100 {
		s := NewColorMatrixFilter()
		s.SetContrast(contrast / 100)
		f.Then(s)
	}
	return f
}

// SetBrightness sets the matrix to scale color channels. b=1 is normal.
func (f *ColorMatrixFilter) SetBrightness(b float64) {
	f.Matrix = [20]float64{
		b, 0, 0, 0, 0,
		0, b, 0, 0, 0,
		0, 0, b, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// SetContrast sets the matrix to adjust contrast. c=1 is normal, 0=gray, >1 is higher.
func (f *ColorMatrixFilter) SetContrast(c float64) {
	t := (1.0 - c) / 2.0
	f.Matrix = [20]float64{
		c, 0, 0, 0, t,
		0, c, 0, 0, t,
		0, 0, c, 0, t,
		0, 0, 0, 1, 0,
	}
}

// SetSaturation sets the matrix to adjust saturation. s=1 is normal, 0=grayscale.
func (f *ColorMatrixFilter) SetSaturation(s float64) {
	f.Matrix = [20]float64{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// SetHueRotate sets the matrix to rotate hue by deg degrees.
func (f *ColorMatrixFilter) SetHueRotate(deg float64) {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	f.Matrix = [20]float64{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928, 0, 0,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283, 0, 0,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Then appends next so that f applies its current matrix first.
func (f *ColorMatrixFilter) Then(next *ColorMatrixFilter) {
	var prod mat.Dense
	prod.Mul(homogeneous(next.Matrix), homogeneous(f.Matrix))
	for r := range 4 {
		for c := range 5 {
			f.Matrix[r*5+c] = prod.At(r, c)
		}
	}
}

// IsIdentity reports whether the filter leaves colors unchanged.
func (f *ColorMatrixFilter) IsIdentity() bool {
	for i, v := range f.Matrix {
		if math.Abs(v-identityColorMatrix[i]) > 1e-9 {
			return false
		}
	}
	return true
}

// homogeneous expands a 4x5 matrix into a 5x5 one with a [0 0 0 0 1] row.
func homogeneous(m [20]float64) *mat.Dense {
	data := make([]float64, 25)
	copy(data, m[:])
	data[24] = 1
	return mat.NewDense(5, 5, data)
}

// Apply transforms every pixel of src into dst.
func (f *ColorMatrixFilter) Apply(src, dst *image.NRGBA) {
	m := &f.Matrix
	for i := 0; i < len(src.Pix); i += 4 {
		a8 := src.Pix[i+3]
		if a8 == 0 {
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = 0, 0, 0, 0
			continue
		}
		r := float64(src.Pix[i]) / 255
		g := float64(src.Pix[i+1]) / 255
		b := float64(src.Pix[i+2]) / 255
		a := float64(a8) / 255
		dst.Pix[i] = unit8(m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4])
		dst.Pix[i+1] = unit8(m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9])
		dst.Pix[i+2] = unit8(m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14])
		dst.Pix[i+3] = unit8(m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19])
	}
}

// Padding returns 0; color matrix transforms don't expand the image.
func (f *ColorMatrixFilter) Padding() int { return 0 }

// applyFilter runs f on src and returns a new buffer.
func applyFilter(f Filter, src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	f.Apply(src, dst)
	return dst
}
