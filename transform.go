package coastline

import (
	"math"

	"golang.org/x/image/math/f64"
)

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func translateAffine(tx, ty float64) [6]float64 {
	return [6]float64{1, 0, 0, 1, tx, ty}
}

func scaleAffine(sx, sy float64) [6]float64 {
	return [6]float64{sx, 0, 0, sy, 0, 0}
}

// rotateAffine rotates clockwise by deg degrees (Y points down).
func rotateAffine(deg float64) [6]float64 {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return [6]float64{cos, sin, -sin, cos, 0, 0}
}

// stampTransform maps pixel coordinates of a stamp's source image
// (natW × natH) into surface coordinates at the given surface scale.
//
// Composition order:
//
//	Translate(-natW/2, -natH/2) -> Scale(box/nat) -> FlipH -> Rotate -> Translate(center)
func stampTransform(st Stamp, natW, natH int, scale float64) [6]float64 {
	if natW <= 0 || natH <= 0 {
		return identityTransform
	}
	boxW := st.Width * st.Scale * scale
	boxH := st.Height * st.Scale * scale
	flip := 1.0
	if st.FlipH {
		flip = -1
	}
	c := st.Center()

	m := translateAffine(-float64(natW)/2, -float64(natH)/2)
	m = multiplyAffine(scaleAffine(flip*boxW/float64(natW), boxH/float64(natH)), m)
	m = multiplyAffine(rotateAffine(st.Rotation), m)
	return multiplyAffine(translateAffine(c.X*scale, c.Y*scale), m)
}

// toAff3 converts an affine matrix into the row-major form used by
// golang.org/x/image/draw.
func toAff3(m [6]float64) f64.Aff3 {
	return f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
}
