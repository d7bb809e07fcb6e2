package geotext

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Renderer draws and hides texts. Paint is called after a refresh changed a
// visible text; Hide when a text becomes invisible or is removed.
type Renderer interface {
	Paint(t *Text)
	Hide(t *Text)
}

// nopRenderer paints nothing. It is the default for headless scenes.
type nopRenderer struct{}

func (nopRenderer) Paint(*Text) {}
func (nopRenderer) Hide(*Text)  {}

// ttfEntry is the cached rendering of one text.
type ttfEntry struct {
	t       *Text
	display string
	size    float64
	color   Color
	img     *ebiten.Image
	dirty   bool
}

// EbitenRenderer paints texts with Ebitengine's text/v2. Each text is
// rendered once to an offscreen image when its display string changes and
// composited by Draw every frame.
type EbitenRenderer struct {
	Font *TTFFont

	entries map[uint32]*ttfEntry
	order   []uint32 // paint order
}

// NewEbitenRenderer returns a renderer drawing with font.
func NewEbitenRenderer(font *TTFFont) *EbitenRenderer {
	return &EbitenRenderer{Font: font, entries: make(map[uint32]*ttfEntry)}
}

// Paint implements Renderer.
func (r *EbitenRenderer) Paint(t *Text) {
	e, ok := r.entries[t.ID()]
	if !ok {
		e = &ttfEntry{t: t, dirty: true}
		r.entries[t.ID()] = e
		r.order = append(r.order, t.ID())
	}
	size := t.opts.FontSize
	if e.display != t.display || e.size != size || e.color != t.Color {
		e.display, e.size, e.color = t.display, size, t.Color
		e.dirty = true
	}
}

// Hide implements Renderer.
func (r *EbitenRenderer) Hide(t *Text) {
	e, ok := r.entries[t.ID()]
	if !ok {
		return
	}
	if e.img != nil {
		e.img.Deallocate()
	}
	delete(r.entries, t.ID())
	for i, id := range r.order {
		if id == t.ID() {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Draw composites every painted text onto dst.
func (r *EbitenRenderer) Draw(dst *ebiten.Image) {
	if r.Font == nil {
		return
	}
	for _, id := range r.order {
		e := r.entries[id]
		if e.dirty || e.img == nil {
			r.render(e)
		}
		if e.img == nil {
			continue
		}
		lft, top, _, _ := e.t.ScreenBox()
		p := e.t.coords.Scr

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(lft-p.X, top-p.Y)
		if e.t.opts.Display == DisplayInternal && e.t.opts.Rotate != 0 {
			// User space turns counter-clockwise; device Y points down.
			op.GeoM.Rotate(-e.t.opts.Rotate * math.Pi / 180)
		}
		op.GeoM.Translate(p.X, p.Y)
		dst.DrawImage(e.img, op)
	}
}

// render rasterizes e's display string into its cached image.
func (r *EbitenRenderer) render(e *ttfEntry) {
	e.dirty = false
	s := PlainText(e.display, e.t.opts.Display)
	face := r.Font.Face(e.size)
	lh := lineHeightOf(face)
	mw, mh := text.Measure(s, face, lh)
	if mw == 0 || mh == 0 {
		if e.img != nil {
			e.img.Deallocate()
			e.img = nil
		}
		return
	}
	w, h := int(mw)+1, int(mh)+1

	if e.img != nil {
		b := e.img.Bounds()
		if b.Dx() != w || b.Dy() != h {
			e.img.Deallocate()
			e.img = ebiten.NewImage(w, h)
		} else {
			e.img.Clear()
		}
	} else {
		e.img = ebiten.NewImage(w, h)
	}

	op := &text.DrawOptions{}
	op.ColorScale.Scale(
		float32(e.color.R),
		float32(e.color.G),
		float32(e.color.B),
		float32(e.color.A),
	)
	op.LineSpacing = lh
	text.Draw(e.img, s, face, op)
}
