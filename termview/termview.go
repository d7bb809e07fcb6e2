// Package termview paints geotext texts into a tcell screen. Device space
// pixels are mapped onto character cells of a fixed size.
package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/phanxgames/geotext"
)

// cellRect is the span of cells last painted for a text.
type cellRect struct {
	col, row, width int
}

// Renderer implements geotext.Renderer on a tcell screen. It only writes
// cells; the caller decides when to call Screen.Show.
type Renderer struct {
	Screen tcell.Screen
	Cell   Measurer
	Style  tcell.Style

	painted map[uint32]cellRect
}

// New returns a renderer for screen with cells of cellW x cellH pixels.
func New(screen tcell.Screen, cellW, cellH float64) *Renderer {
	return &Renderer{
		Screen:  screen,
		Cell:    Measurer{CellW: cellW, CellH: cellH},
		Style:   tcell.StyleDefault,
		painted: make(map[uint32]cellRect),
	}
}

// Paint implements geotext.Renderer.
func (r *Renderer) Paint(t *geotext.Text) {
	r.clear(t.ID())
	if r.Cell.CellW <= 0 || r.Cell.CellH <= 0 {
		return
	}
	s := geotext.PlainText(t.Display(), t.Options().Display)
	lft, top, _, _ := t.ScreenBox()
	col := int(math.Floor(lft/r.Cell.CellW + 0.5))
	row := int(math.Floor(top/r.Cell.CellH + 0.5))

	style := r.Style.Foreground(toColor(t.Color))
	w, h := r.Screen.Size()
	x := col
	for _, ch := range s {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 {
			continue
		}
		if row >= 0 && row < h && x >= 0 && x < w {
			r.Screen.SetContent(x, row, ch, nil, style)
		}
		x += cw
	}
	r.painted[t.ID()] = cellRect{col: col, row: row, width: x - col}
}

// Hide implements geotext.Renderer.
func (r *Renderer) Hide(t *geotext.Text) {
	r.clear(t.ID())
}

// clear blanks the cells last painted for id.
func (r *Renderer) clear(id uint32) {
	rc, ok := r.painted[id]
	if !ok {
		return
	}
	delete(r.painted, id)
	w, h := r.Screen.Size()
	if rc.row < 0 || rc.row >= h {
		return
	}
	for x := rc.col; x < rc.col+rc.width; x++ {
		if x >= 0 && x < w {
			r.Screen.SetContent(x, rc.row, ' ', nil, r.Style)
		}
	}
}

// toColor converts a geotext color to a tcell true color.
func toColor(c geotext.Color) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int32 {
	return int32(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Measurer implements geotext.Measurer in whole cells: the width is the
// display width of the plain text, the height one cell.
type Measurer struct {
	CellW, CellH float64
}

// Measure implements geotext.Measurer.
func (m Measurer) Measure(content string, opts geotext.Options) (geotext.Size, error) {
	if m.CellW <= 0 || m.CellH <= 0 {
		return geotext.Size{}, geotext.ErrMeasurementUnavailable
	}
	n := runewidth.StringWidth(geotext.PlainText(content, opts.Display))
	return geotext.Size{Width: float64(n) * m.CellW, Height: m.CellH}, nil
}
