package termview

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/geotext"
)

const (
	cellW = 8
	cellH = 16
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 24)
	t.Cleanup(s.Fini)
	return s
}

// newScene maps user (0, 0) to cell (40, 12) with one user unit per cell
// column pair.
func newScene(screen tcell.Screen) (*geotext.Scene, *Renderer) {
	r := New(screen, cellW, cellH)
	canvas := geotext.NewCanvas(geotext.Rect{Width: 80 * cellW, Height: 24 * cellH}, cellH)
	scene := geotext.NewScene(
		geotext.WithCanvas(canvas),
		geotext.WithRenderer(r),
		geotext.WithMeasurer(r.Cell),
	)
	return scene, r
}

func rowText(s tcell.Screen, col, row, n int) string {
	out := make([]rune, 0, n)
	for x := col; x < col+n; x++ {
		ch, _, _, _ := s.GetContent(x, row)
		out = append(out, ch)
	}
	return string(out)
}

func TestRenderer_PaintsAtPosition(t *testing.T) {
	screen := newScreen(t)
	scene, _ := newScene(screen)

	_, err := scene.NewText("t", geotext.Num(0), geotext.Num(0), geotext.String("hello"), geotext.DefaultOptions())
	require.NoError(t, err)

	// bottom-left anchor at device (320, 192): top edge is one cell higher.
	assert.Equal(t, "hello", rowText(screen, 40, 11, 5))
}

func TestRenderer_StripsMarkup(t *testing.T) {
	screen := newScreen(t)
	scene, _ := newScene(screen)

	_, err := scene.NewText("t", geotext.Num(0), geotext.Num(0), geotext.String("x^2 &amp; y"), geotext.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "x2 & y", rowText(screen, 40, 11, 6))
}

func TestRenderer_MoveClearsOldCells(t *testing.T) {
	screen := newScreen(t)
	scene, _ := newScene(screen)

	txt, err := scene.NewText("t", geotext.Num(0), geotext.Num(0), geotext.String("abc"), geotext.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "abc", rowText(screen, 40, 11, 3))

	txt.SetCoords(0, 1) // one cell row up
	assert.Equal(t, "   ", rowText(screen, 40, 11, 3))
	assert.Equal(t, "abc", rowText(screen, 40, 10, 3))
}

func TestRenderer_HideOnRemove(t *testing.T) {
	screen := newScreen(t)
	scene, _ := newScene(screen)

	txt, err := scene.NewText("t", geotext.Num(0), geotext.Num(0), geotext.String("gone"), geotext.DefaultOptions())
	require.NoError(t, err)
	scene.Remove(txt)

	assert.Equal(t, "    ", rowText(screen, 40, 11, 4))
}

func TestRenderer_InvisibleNeverPainted(t *testing.T) {
	screen := newScreen(t)
	scene, _ := newScene(screen)

	opts := geotext.DefaultOptions()
	opts.Visible = false
	_, err := scene.NewText("t", geotext.Num(0), geotext.Num(0), geotext.String("secret"), opts)
	require.NoError(t, err)

	assert.Equal(t, "      ", rowText(screen, 40, 11, 6))
}

func TestRenderer_FollowsVariable(t *testing.T) {
	screen := newScreen(t)
	scene, _ := newScene(screen)

	v := scene.NewVariable("v", 1)
	_, err := scene.NewText("t", geotext.Num(0), geotext.Num(0), geotext.String("v=<value>v</value>"), geotext.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "v=1.00", rowText(screen, 40, 11, 6))

	v.Set(2.5)
	scene.Update()
	assert.Equal(t, "v=2.50", rowText(screen, 40, 11, 6))
}

func TestMeasurer_CellWidths(t *testing.T) {
	m := Measurer{CellW: cellW, CellH: cellH}

	sz, err := m.Measure("ab", geotext.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, geotext.Size{Width: 16, Height: 16}, sz)

	sz, err = m.Measure("日本", geotext.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 32.0, sz.Width, "wide runes take two cells")
}

func TestMeasurer_Unavailable(t *testing.T) {
	_, err := Measurer{}.Measure("x", geotext.DefaultOptions())
	assert.ErrorIs(t, err, geotext.ErrMeasurementUnavailable)
}
