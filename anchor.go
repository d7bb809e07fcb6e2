package geotext

import (
	"fmt"
	"log/slog"
	"math"
)

// Coord is a constructor coordinate of a free text: a Num, a Func or a
// Term formula.
type Coord interface {
	isCoord()
}

// Num is a constant coordinate. Texts placed with two Nums are draggable.
type Num float64

// Func is a coordinate computed on every refresh.
type Func func() float64

// Term is a coordinate formula such as "X(A) + 1". Elements it refers to
// become dependencies of the text.
type Term string

func (Num) isCoord()  {}
func (Func) isCoord() {}
func (Term) isCoord() {}

// PositionSource says where a text's position comes from. It is one of
// FixedPosition, FormulaPosition or RelativePosition and is always replaced
// as a whole.
type PositionSource interface {
	isPositionSource()
}

// FixedPosition is a constant user-space position.
type FixedPosition struct {
	X, Y float64
}

// FormulaPosition computes the user-space position from two functions.
type FormulaPosition struct {
	X, Y func() float64
}

// RelativePosition places the text at an offset from its parent's anchor.
// For labels the offset is in device pixels with Y pointing up; otherwise it
// is in user units.
type RelativePosition struct {
	Offset Vec2
}

func (FixedPosition) isPositionSource()    {}
func (FormulaPosition) isPositionSource()  {}
func (RelativePosition) isPositionSource() {}

// coordFunc turns c into a coordinate function. refs lists the elements a
// Term reads; constant is true for Num.
func (s *Scene) coordFunc(c Coord) (fn func() float64, refs []string, constant bool, err error) {
	switch v := c.(type) {
	case nil:
		return constFunc(0), nil, true, nil
	case Num:
		return constFunc(float64(v)), nil, true, nil
	case Func:
		if v == nil {
			return constFunc(0), nil, true, nil
		}
		return v, nil, false, nil
	case Term:
		if s.compiler == nil {
			return nil, nil, false, &FormulaSyntaxError{Formula: string(v), Err: ErrNoFormulaCompiler}
		}
		f, err := s.compiler.CompileFormula(string(v))
		if err != nil {
			return nil, nil, false, &FormulaSyntaxError{Formula: string(v), Err: err}
		}
		src := string(v)
		return func() float64 {
			r, err := f.Eval()
			if err != nil {
				Logger().Warn("geotext: coordinate formula failed",
					slog.String("formula", src), slog.String("err", err.Error()))
				return math.NaN()
			}
			if x, ok := toFloat(r); ok {
				return x
			}
			return math.NaN()
		}, f.References(), false, nil
	}
	return nil, nil, false, fmt.Errorf("geotext: unsupported coordinate %T", c)
}

// positionSource builds the source for a free text from two coordinates.
func (s *Scene) positionSource(x, y Coord) (PositionSource, []string, bool, error) {
	fx, rx, cx, err := s.coordFunc(x)
	if err != nil {
		return nil, nil, false, err
	}
	fy, ry, cy, err := s.coordFunc(y)
	if err != nil {
		return nil, nil, false, err
	}
	refs := append(append([]string(nil), rx...), ry...)
	if cx && cy {
		return FixedPosition{X: fx(), Y: fy()}, refs, true, nil
	}
	return FormulaPosition{X: fx, Y: fy}, refs, false, nil
}

// resolvePosition recomputes the untransformed position from the source.
func (t *Text) resolvePosition() {
	switch src := t.source.(type) {
	case FixedPosition:
		t.base.Set(SpaceUser, src.X, src.Y)
	case FormulaPosition:
		t.base.Set(SpaceUser, src.X(), src.Y())
	case RelativePosition:
		if t.parent == nil {
			return
		}
		if t.opts.IsLabel {
			a := t.parent.AnchorPoint(AnchorLabel).Scr
			t.base.Set(SpaceScreen, a.X+src.Offset.X, a.Y-src.Offset.Y)
			return
		}
		a := t.parent.AnchorPoint(AnchorText).Usr
		t.base.Set(SpaceUser, a.X+src.Offset.X, a.Y+src.Offset.Y)
	}
}

// userPosition evaluates the source without touching the cached position.
func (t *Text) userPosition() Vec2 {
	switch src := t.source.(type) {
	case FixedPosition:
		return Vec2{src.X, src.Y}
	case FormulaPosition:
		return Vec2{src.X(), src.Y()}
	}
	return t.base.Usr
}

// SetPositionDirectly moves the text by the difference between newXY and
// oldXY, both given in space. Labels take the difference in device pixels,
// other texts in user units. A parented text keeps its parent and shifts
// its offset; a free text is pinned to its moved position.
func (t *Text) SetPositionDirectly(space CoordSpace, newXY, oldXY Vec2) {
	c := t.canvas()
	n := NewCoords(c, space, newXY.X, newXY.Y)
	o := NewCoords(c, space, oldXY.X, oldXY.Y)

	switch src := t.source.(type) {
	case RelativePosition:
		off := src.Offset
		if t.opts.IsLabel {
			d := n.Scr.Sub(o.Scr)
			off = Vec2{off.X + d.X, off.Y - d.Y}
		} else {
			off = off.Add(n.Usr.Sub(o.Usr))
		}
		t.source = RelativePosition{Offset: off}
	default:
		p := t.userPosition().Add(n.Usr.Sub(o.Usr))
		t.source = FixedPosition{X: p.X, Y: p.Y}
	}
	t.MarkDirty()
}

// Free pins the text at its current user-space position. A parented text
// is detached from its parent. The text becomes draggable.
func (t *Text) Free() {
	p := t.userPosition()
	t.detach()
	t.source = FixedPosition{X: p.X, Y: p.Y}
	t.draggable = true
	t.MarkDirty()
}

// SetCoords pins the text at user coordinates (x, y), detaching it from any
// parent, and refreshes it. It moves frozen texts too.
func (t *Text) SetCoords(x, y float64) {
	t.detach()
	t.source = FixedPosition{X: x, Y: y}
	t.base.Set(SpaceUser, x, y)
	t.MarkDirty()
	t.Refresh()
}

// detach removes t from its parent's dependent set.
func (t *Text) detach() {
	if t.parent == nil {
		return
	}
	t.parent.RemoveDependent(t)
	t.parent = nil
}

// Bounds returns the user-space box [left, top, right, bottom] of a free
// text. Labels report zeros.
func (t *Text) Bounds() [4]float64 {
	if t.opts.IsLabel {
		return [4]float64{}
	}
	zoom := 1.0
	if c := t.canvas(); c != nil && c.Zoom > 0 {
		zoom = c.Zoom
	}
	u := t.coords.Usr
	w, h := t.size.Width/zoom, t.size.Height/zoom
	return [4]float64{u.X, u.Y + h, u.X + w, u.Y}
}
