package coastline

import (
	"image"
	"iter"

	"golang.org/x/image/draw"
)

// StampSource resolves stamp images by source. The boolean is false while
// an asset is not loaded.
type StampSource interface {
	StampImage(src string) (Texture, bool)
}

// RenderStamps clears dst and draws every stamp in order at the given
// design-to-pixel scale. Stamps whose image is not loaded are skipped. It
// returns the number of stamps drawn.
func RenderStamps(dst *Surface, stamps iter.Seq[Stamp], assets StampSource, scale float64) int {
	dst.Clear()
	if assets == nil {
		return 0
	}
	n := 0
	for st := range stamps {
		tex, ok := assets.StampImage(st.Src)
		if !ok {
			continue
		}
		if drawStamp(dst.Image(), st, tex, scale) {
			n++
		}
	}
	return n
}

// drawStamp draws one stamp with its colour adjustment and opacity onto dst.
func drawStamp(dst draw.Image, st Stamp, tex Texture, scale float64) bool {
	w, h := tex.Size()
	if w == 0 || h == 0 || st.Opacity <= 0 || st.Scale == 0 {
		return false
	}
	src := stampPixels(st, tex)
	m := stampTransform(st, w, h, scale)
	draw.CatmullRom.Transform(dst, toAff3(m), src, src.Bounds(), draw.Over, nil)
	return true
}

// stampPixels returns the stamp's image with hue, saturation and opacity
// applied. The texture image is returned as is when all are neutral.
func stampPixels(st Stamp, tex Texture) image.Image {
	neutral := st.Hue == 0 && st.Saturation == 100
	if neutral && st.Opacity >= 1 {
		return tex.Image
	}
	img := toNRGBA(tex.Image)
	if !neutral {
		img = applyFilter(NewAdjustFilter(st.Hue, st.Saturation, 100, 100), img)
	}
	if st.Opacity < 1 {
		if img == tex.Image {
			img = applyFilter(AlphaScaleFilter{Factor: st.Opacity}, img)
		} else {
			AlphaScaleFilter{Factor: st.Opacity}.Apply(img, img)
		}
	}
	return img
}
