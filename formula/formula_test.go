package formula

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPoint struct {
	name string
	x, y float64
}

func (p *testPoint) X() float64   { return p.x }
func (p *testPoint) Y() float64   { return p.y }
func (p *testPoint) Name() string { return p.name }

type testSlider struct{ v float64 }

func (s *testSlider) Value() float64 { return s.v }

func testEnv() (Env, *testPoint) {
	a := &testPoint{name: "A", x: 1.5, y: -2}
	b := &testPoint{name: "B", x: 4.5, y: 2}
	s := &testSlider{v: 3}
	objs := map[string]any{"A": a, "B": b, "s": s}
	return EnvFunc(func(name string) (any, bool) {
		v, ok := objs[name]
		return v, ok
	}), a
}

func eval(t *testing.T, src string) any {
	t.Helper()
	env, _ := testEnv()
	f, err := NewCompiler(env).Compile(src)
	require.NoError(t, err)
	v, err := f.Eval()
	require.NoError(t, err)
	return v
}

func TestArithmeticPrecedence(t *testing.T) {
	assert.Equal(t, 7.0, eval(t, "1 + 2 * 3"))
	assert.Equal(t, 9.0, eval(t, "(1 + 2) * 3"))
	assert.Equal(t, -4.0, eval(t, "-2^2"))
	assert.Equal(t, 512.0, eval(t, "2^3^2"))
	assert.Equal(t, 0.25, eval(t, "2^-2"))
	assert.Equal(t, 8.0, eval(t, "2**3"))
	assert.Equal(t, 1.0, eval(t, "7 % 3"))
	assert.Equal(t, 0.5, eval(t, ".5"))
	assert.Equal(t, 1500.0, eval(t, "1.5e3"))
}

func TestComparisonAndLogic(t *testing.T) {
	assert.Equal(t, true, eval(t, "1 < 2 && 2 <= 2"))
	assert.Equal(t, false, eval(t, "1 > 2 || !(1 == 1)"))
	assert.Equal(t, "yes", eval(t, "X(A) > 0 ? 'yes' : 'no'"))
}

func TestElementFunctions(t *testing.T) {
	assert.Equal(t, 1.5, eval(t, "X(A)"))
	assert.Equal(t, -2.0, eval(t, "A.Y()"))
	assert.Equal(t, 5.0, eval(t, "Dist(A, B)"))
	assert.Equal(t, 3.0, eval(t, "V(s)"))
	assert.Equal(t, 6.0, eval(t, "s * 2"))
	assert.Equal(t, 3.0, eval(t, "s"))
	assert.Equal(t, "A", eval(t, "A.Name()"))
}

func TestStringConcatenation(t *testing.T) {
	assert.Equal(t, "x=1.5", eval(t, `"x=" + X(A)`))
	assert.Equal(t, "1.50", eval(t, "X(A).toFixed(2)"))
	assert.Equal(t, "4.5", eval(t, "toFixed(X(B), 1)"))
}

func TestBuiltins(t *testing.T) {
	assert.InDelta(t, 1.0, eval(t, "sin(PI/2)").(float64), 1e-12)
	assert.Equal(t, 3.0, eval(t, "sqrt(9)"))
	assert.Equal(t, 5.0, eval(t, "max(1, 5, 2)"))
	assert.InDelta(t, math.E, eval(t, "E").(float64), 1e-12)
}

func TestReferences(t *testing.T) {
	f, err := Compile("Dist(A, B) + X(A) + s.Value() + PI")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "s"}, f.References())
	assert.Equal(t, "Dist(A, B) + X(A) + s.Value() + PI", f.Source())
}

func TestFunctionNamesAreNotReferences(t *testing.T) {
	f, err := Compile("X(P) + sqrt(2)")
	require.NoError(t, err)
	assert.Equal(t, []string{"P"}, f.References())
}

func TestSyntaxErrors(t *testing.T) {
	for _, src := range []string{"", "1 +", "(1", "foo(1)", "A.bogus()", "1 # 2", "'open", "X(A, B)", "1 2"} {
		_, err := Compile(src)
		var se *SyntaxError
		assert.True(t, errors.As(err, &se), "Compile(%q) err = %v, want *SyntaxError", src, err)
	}
}

func TestUnknownNameFailsAtEval(t *testing.T) {
	f, err := Compile("X(Q) + 1")
	require.NoError(t, err)
	_, err = f.Eval()
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestTypeMismatch(t *testing.T) {
	env, _ := testEnv()
	f, err := NewCompiler(env).Compile("X(s)")
	require.NoError(t, err)
	_, err = f.Eval()
	assert.ErrorIs(t, err, ErrType)
}

func TestEvalSeesLiveState(t *testing.T) {
	env, a := testEnv()
	f, err := NewCompiler(env).Compile("X(A) * 2")
	require.NoError(t, err)
	v, err := f.Eval()
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	a.x = 10
	v, err = f.Eval()
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)
}
