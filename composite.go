package coastline

import (
	"image"
)

// premulAt returns the premultiplied color of img at (x, y) in [0, 1].
// Pixels outside the image bounds are transparent. *image.Alpha sources
// read as black with the stored coverage.
func premulAt(img image.Image, x, y int) (r, g, b, a float64) {
	if !(image.Point{x, y}.In(img.Bounds())) {
		return 0, 0, 0, 0
	}
	switch s := img.(type) {
	case *image.NRGBA:
		i := s.PixOffset(x, y)
		p := s.Pix[i : i+4 : i+4]
		a = float64(p[3]) / 255
		return float64(p[0]) / 255 * a, float64(p[1]) / 255 * a, float64(p[2]) / 255 * a, a
	case *image.RGBA:
		i := s.PixOffset(x, y)
		p := s.Pix[i : i+4 : i+4]
		return float64(p[0]) / 255, float64(p[1]) / 255, float64(p[2]) / 255, float64(p[3]) / 255
	case *image.Alpha:
		return 0, 0, 0, float64(s.Pix[s.PixOffset(x, y)]) / 255
	}
	cr, cg, cb, ca := img.At(x, y).RGBA()
	return float64(cr) / 0xffff, float64(cg) / 0xffff, float64(cb) / 0xffff, float64(ca) / 0xffff
}

// clearsOutside reports whether op changes destination pixels where the
// source is transparent. Such ops are applied over the whole destination.
func (op CompositeOp) clearsOutside() bool {
	switch op {
	case OpSourceIn, OpSourceOut, OpDestinationIn:
		return true
	}
	return false
}

// blend applies the Porter-Duff rule op to one premultiplied pixel pair.
func blend(op CompositeOp, sr, sg, sb, sa, dr, dg, db, da float64) (r, g, b, a float64) {
	switch op {
	case OpSourceAtop:
		k := 1 - sa
		return sr*da + dr*k, sg*da + dg*k, sb*da + db*k, da
	case OpSourceIn:
		return sr * da, sg * da, sb * da, sa * da
	case OpSourceOut:
		k := 1 - da
		return sr * k, sg * k, sb * k, sa * k
	case OpDestinationIn:
		return dr * sa, dg * sa, db * sa, da * sa
	case OpDestinationOut:
		k := 1 - sa
		return dr * k, dg * k, db * k, da * k
	default:
		k := 1 - sa
		return sr + dr*k, sg + dg*k, sb + db*k, sa + da*k
	}
}

// compositeImage draws src onto dst with its bounds' minimum placed at
// (dx, dy), using op and a global alpha in [0, 1]. When mask is non-nil its
// coverage (aligned with src) further scales the source.
func compositeImage(dst *image.NRGBA, src image.Image, mask *image.Alpha, dx, dy int, op CompositeOp, alpha float64) {
	if dst == nil || src == nil {
		return
	}
	alpha = clamp01(alpha)
	sb := src.Bounds()
	shift := image.Point{dx - sb.Min.X, dy - sb.Min.Y}
	area := dst.Bounds()
	if !op.clearsOutside() {
		area = area.Intersect(sb.Add(shift))
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			sx, sy := x-shift.X, y-shift.Y
			sr, sg, sbl, sa := premulAt(src, sx, sy)
			k := alpha
			if mask != nil {
				_, _, _, m := premulAt(mask, sx, sy)
				k *= m
			}
			sr, sg, sbl, sa = sr*k, sg*k, sbl*k, sa*k

			i := dst.PixOffset(x, y)
			p := dst.Pix[i : i+4 : i+4]
			da := float64(p[3]) / 255
			dr, dg, db := float64(p[0])/255*da, float64(p[1])/255*da, float64(p[2])/255*da

			r, g, b, a := blend(op, sr, sg, sbl, sa, dr, dg, db, da)
			storeStraight(p, r, g, b, a)
		}
	}
}

// storeStraight writes a premultiplied color into a straight-alpha pixel.
func storeStraight(p []byte, r, g, b, a float64) {
	if a <= 0 {
		p[0], p[1], p[2], p[3] = 0, 0, 0, 0
		return
	}
	inv := 1 / a
	p[0] = unit8(r * inv)
	p[1] = unit8(g * inv)
	p[2] = unit8(b * inv)
	p[3] = unit8(a)
}

// premulToStraight converts a premultiplied RGBA image to straight-alpha
// NRGBA. Pixels with alpha 0 become transparent black.
func premulToStraight(src *image.RGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := src.PixOffset(x, y)
			di := dst.PixOffset(x, y)
			a := src.Pix[si+3]
			if a == 0 {
				continue
			}
			dst.Pix[di+3] = a
			if a == 255 {
				copy(dst.Pix[di:di+3], src.Pix[si:si+3])
				continue
			}
			for c := 0; c < 3; c++ {
				v := uint16(src.Pix[si+c]) * 255 / uint16(a)
				if v > 255 {
					v = 255
				}
				dst.Pix[di+c] = uint8(v)
			}
		}
	}
	return dst
}
