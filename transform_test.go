package geotext

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- multiplyAffine ---

func TestMultiplyAffineIdentity(t *testing.T) {
	id := identityTransform
	m := [6]float64{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", multiplyAffine(id, m), m)
	assertMatrix(t, "m*id", multiplyAffine(m, id), m)
}

func TestMultiplyAffineTranslations(t *testing.T) {
	a := [6]float64{1, 0, 0, 1, 10, 20}
	b := [6]float64{1, 0, 0, 1, 5, 3}
	got := multiplyAffine(a, b)
	assertMatrix(t, "translations", got, [6]float64{1, 0, 0, 1, 15, 23})
}

// --- invertAffine ---

func TestInvertAffine(t *testing.T) {
	m := [6]float64{2, 0, 0, 3, 10, 20}
	inv := invertAffine(m)
	result := multiplyAffine(m, inv)
	assertMatrix(t, "m*inv=id", result, identityTransform)
}

func TestInvertAffineRotationScale(t *testing.T) {
	m := multiplyAffine(Scaling{SX: 2, SY: 2}.Matrix(), Rotation{Angle: math.Pi / 3}.Matrix())
	inv := invertAffine(m)
	result := multiplyAffine(m, inv)
	assertMatrix(t, "m*inv=id", result, identityTransform)
}

func TestInvertAffineSingularReturnsIdentity(t *testing.T) {
	m := [6]float64{1, 2, 2, 4, 0, 0}
	inv := invertAffine(m)
	assertMatrix(t, "singular→identity", inv, identityTransform)
}

func TestInvertAffineBothZeroScales(t *testing.T) {
	m := [6]float64{0, 0, 0, 0, 50, 100}
	inv := invertAffine(m)
	assertMatrix(t, "zero-scale→identity", inv, identityTransform)
}

// --- Transformations ---

func TestTranslation(t *testing.T) {
	x, y := transformPoint(Translation{DX: 3, DY: -2}.Matrix(), 1, 1)
	assertNear(t, "x", x, 4)
	assertNear(t, "y", y, -1)
}

func TestScalingAboutCenter(t *testing.T) {
	s := Scaling{SX: 2, SY: 3, Center: Vec2{1, 1}}
	x, y := transformPoint(s.Matrix(), 1, 1)
	assertNear(t, "center x", x, 1)
	assertNear(t, "center y", y, 1)

	x, y = transformPoint(s.Matrix(), 2, 2)
	assertNear(t, "x", x, 3)
	assertNear(t, "y", y, 4)
}

func TestRotation90CounterClockwise(t *testing.T) {
	x, y := transformPoint(Rotation{Angle: math.Pi / 2}.Matrix(), 1, 0)
	assertNear(t, "x", x, 0)
	assertNear(t, "y", y, 1)
}

func TestRotationAboutCenter(t *testing.T) {
	r := Rotation{Angle: math.Pi, Center: Vec2{1, 1}}
	x, y := transformPoint(r.Matrix(), 2, 1)
	assertNear(t, "x", x, 0)
	assertNear(t, "y", y, 1)
}

func TestComposeTransformationsOrder(t *testing.T) {
	// Translate first, then rotate about the origin.
	m := composeTransformations([]Transformation{
		Translation{DX: 1},
		Rotation{Angle: math.Pi / 2},
	})
	x, y := transformPoint(m, 0, 0)
	assertNear(t, "x", x, 0)
	assertNear(t, "y", y, 1)

	// Reversed: rotate the origin (no-op), then translate.
	m = composeTransformations([]Transformation{
		Rotation{Angle: math.Pi / 2},
		Translation{DX: 1},
	})
	x, y = transformPoint(m, 0, 0)
	assertNear(t, "x", x, 1)
	assertNear(t, "y", y, 0)
}

func TestComposeTransformationsEmpty(t *testing.T) {
	assertMatrix(t, "empty", composeTransformations(nil), identityTransform)
}

func TestTransformFunc(t *testing.T) {
	dx := 1.0
	f := TransformFunc(func() [6]float64 { return Translation{DX: dx}.Matrix() })
	x, _ := transformPoint(f.Matrix(), 0, 0)
	assertNear(t, "first", x, 1)
	dx = 5
	x, _ = transformPoint(f.Matrix(), 0, 0)
	assertNear(t, "second", x, 5)
}
