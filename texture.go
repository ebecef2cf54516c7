package coastline

import (
	"image"

	"golang.org/x/image/draw"
)

// Texture is a loaded image asset. A zero Image means the asset has not
// loaded yet.
type Texture struct {
	Src   string
	Image image.Image
}

// Loaded reports whether the texture has pixel data.
func (t Texture) Loaded() bool {
	return t.Image != nil
}

// Size returns the natural pixel dimensions of the texture.
func (t Texture) Size() (w, h int) {
	if t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// TextureSource resolves the textures painting needs. The boolean is false
// while an asset is not loaded.
type TextureSource interface {
	Land() (Texture, bool)
	Sea() (Texture, bool)
	BrushTexture(src string) (Texture, bool)
}

// toNRGBA returns img as an *image.NRGBA with a zero origin, converting
// when necessary.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// scaleImage resamples img to w × h.
func scaleImage(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
	return dst
}

// FillPattern overwrites dst with pattern repeated in both directions so
// that the pattern's top-left pixel lands on anchor.
func FillPattern(dst, pattern *image.NRGBA, anchor image.Point) {
	pw, ph := pattern.Rect.Dx(), pattern.Rect.Dy()
	if pw == 0 || ph == 0 {
		return
	}
	b := dst.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		py := mod(y-anchor.Y, ph)
		for x := b.Min.X; x < b.Max.X; x++ {
			px := mod(x-anchor.X, pw)
			si := pattern.PixOffset(pattern.Rect.Min.X+px, pattern.Rect.Min.Y+py)
			copy(dst.Pix[dst.PixOffset(x, y):], pattern.Pix[si:si+4])
		}
	}
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// patternKey identifies a prepared pattern tile.
type patternKey struct {
	src    string
	w, h   int
	adjust [4]float64
}

const maxPatternCache = 16

// patternCache holds scaled and color-adjusted pattern tiles, so a stroke
// does not resample its texture on every dab.
type patternCache struct {
	tiles map[patternKey]*image.NRGBA
}

// get returns tex scaled to w × h with the hue/saturation/brightness/contrast
// adjustment applied.
func (c *patternCache) get(tex Texture, w, h int, adjust [4]float64) *image.NRGBA {
	key := patternKey{src: tex.Src, w: w, h: h, adjust: adjust}
	if tile, ok := c.tiles[key]; ok {
		return tile
	}
	if c.tiles == nil || len(c.tiles) >= maxPatternCache {
		c.tiles = make(map[patternKey]*image.NRGBA)
	}
	var tile *image.NRGBA
	if nw, nh := tex.Size(); nw == w && nh == h {
		tile = toNRGBA(tex.Image)
	} else {
		tile = scaleImage(tex.Image, w, h)
	}
	if f := NewAdjustFilter(adjust[0], adjust[1], adjust[2], adjust[3]); !f.IsIdentity() {
		tile = applyFilter(f, tile)
	}
	c.tiles[key] = tile
	return tile
}
