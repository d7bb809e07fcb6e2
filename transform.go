package geotext

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = p * c, so c is
// applied first.
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
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
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

// --- Transformations ---

// Transformation is a user-space affine map applied to a text position after
// the anchor has been resolved. A text applies its transformations in the
// order they were added.
type Transformation interface {
	Matrix() [6]float64
}

// Translation moves by (DX, DY) user units.
type Translation struct {
	DX, DY float64
}

// Matrix implements Transformation.
func (t Translation) Matrix() [6]float64 {
	return [6]float64{1, 0, 0, 1, t.DX, t.DY}
}

// Scaling scales by (SX, SY) about Center.
type Scaling struct {
	SX, SY float64
	Center Vec2
}

// Matrix implements Transformation.
func (s Scaling) Matrix() [6]float64 {
	return [6]float64{s.SX, 0, 0, s.SY, s.Center.X - s.SX*s.Center.X, s.Center.Y - s.SY*s.Center.Y}
}

// Rotation rotates counter-clockwise by Angle radians about Center. User
// space has Y up, so positive angles turn counter-clockwise on screen too.
type Rotation struct {
	Angle  float64
	Center Vec2
}

// Matrix implements Transformation.
func (r Rotation) Matrix() [6]float64 {
	sin, cos := math.Sincos(r.Angle)
	cx, cy := r.Center.X, r.Center.Y
	return [6]float64{
		cos, sin, -sin, cos,
		cx - cos*cx + sin*cy,
		cy - sin*cx - cos*cy,
	}
}

// TransformFunc adapts a function returning a matrix, for transformations
// whose parameters change between refreshes.
type TransformFunc func() [6]float64

// Matrix implements Transformation.
func (f TransformFunc) Matrix() [6]float64 { return f() }

// composeTransformations folds ts into a single matrix, first element applied first.
func composeTransformations(ts []Transformation) [6]float64 {
	m := identityTransform
	for _, t := range ts {
		m = multiplyAffine(t.Matrix(), m)
	}
	return m
}
