package geotext

import (
	"errors"
	"fmt"
	"log/slog"
)

// RefreshState is the refresh state of a Text.
type RefreshState uint8

const (
	StateDirty      RefreshState = iota // needs a refresh
	StateRefreshing                     // inside Refresh
	StateClean                          // up to date
)

// String returns the state name.
func (s RefreshState) String() string {
	switch s {
	case StateRefreshing:
		return "refreshing"
	case StateClean:
		return "clean"
	}
	return "dirty"
}

// Text is a text element whose display string is compiled from a template
// and whose position is fixed, formula-driven or relative to a parent.
type Text struct {
	element

	// Color is the fill color used by paint backends.
	Color Color
	// UserData is an arbitrary payload for the caller.
	UserData any

	opts    Options
	filter  contentFilter
	raw     Content
	tmpl    *Template
	display string
	evalErr error

	source PositionSource
	parent Element
	base   Coords // resolved position before transformations
	coords Coords // position after transformations

	transforms []Transformation

	size       Size
	needsSize  bool
	draggable  bool
	state      RefreshState
	needsPaint bool
	pending    bool // marked dirty while refreshing
}

// NewText creates a free text at (x, y) in user space. Elements referenced
// by Term coordinates or embedded formulas become its dependencies.
//
// Malformed <value> markup is shown literally. A formula that fails to
// compile is returned as *FormulaSyntaxError and nothing is added.
func (s *Scene) NewText(name string, x, y Coord, content Content, opts Options) (*Text, error) {
	src, refs, constant, err := s.positionSource(x, y)
	if err != nil {
		return nil, err
	}
	t, err := s.newText(name, content, opts)
	if err != nil {
		return nil, err
	}
	t.source = src
	t.draggable = constant
	s.attachText(t, nil, refs)
	return t, nil
}

// NewAnchoredText creates a text attached to parent at offset (dx, dy).
// For labels (opts.IsLabel) the offset is added to opts.Offset and both are
// device pixels with Y up; otherwise the offset is in user units.
func (s *Scene) NewAnchoredText(name string, parent Element, dx, dy float64, content Content, opts Options) (*Text, error) {
	if parent == nil {
		return s.NewText(name, Num(dx), Num(dy), content, opts)
	}
	t, err := s.newText(name, content, opts)
	if err != nil {
		return nil, err
	}
	off := Vec2{dx, dy}
	if opts.IsLabel {
		off = off.Add(opts.offset())
	}
	t.source = RelativePosition{Offset: off}
	s.attachText(t, parent, nil)
	return t, nil
}

// NewLabel creates the label of parent, offset by opts.Offset device pixels.
func (s *Scene) NewLabel(name string, parent Element, content Content, opts Options) (*Text, error) {
	opts.IsLabel = true
	return s.NewAnchoredText(name, parent, 0, 0, content, opts)
}

// newText compiles content for an unregistered text.
func (s *Scene) newText(name string, content Content, opts Options) (*Text, error) {
	t := &Text{
		Color:  ColorWhite,
		opts:   opts,
		filter: filterFor(opts),
	}
	t.scene = s
	t.name = name
	tmpl, err := t.compile(content)
	if err != nil {
		return nil, err
	}
	t.raw = content
	t.tmpl = tmpl
	t.base = NewCoords(s.canvas, SpaceUser, 0, 0)
	t.coords = t.base
	return t, nil
}

// attachText registers t, wires its dependencies and runs the first refresh.
func (s *Scene) attachText(t *Text, parent Element, coordRefs []string) {
	s.register(&t.element, t, t.name)
	if parent != nil {
		t.parent = parent
		parent.AddDependent(t)
	}
	registerDependencies(t, coordRefs)
	registerDependencies(t, t.tmpl.References())
	t.resolvePosition()
	t.needsSize = true
	t.MarkDirty()
	t.Refresh()
}

// compile filters and compiles c. Malformed markup degrades to a literal
// template; any other error is returned.
func (t *Text) compile(c Content) (*Template, error) {
	fc := t.filter.filter(c)
	tmpl, err := Compile(fc, CompileConfig{
		Digits:            t.opts.Digits,
		UseMarkupLanguage: t.opts.UseMarkupLanguage,
		Compiler:          t.scene.compiler,
	})
	var te *TemplateError
	if errors.As(err, &te) {
		Logger().Debug("geotext: malformed template; showing it literally",
			slog.String("text", t.name), slog.Int("offset", te.Offset), slog.String("err", te.Msg))
		s, _ := fc.(String)
		return literalTemplate(string(s), t.opts.Digits), nil
	}
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

// SetContent replaces the template and refreshes the text. On a formula
// syntax error the previous content is kept and the error is returned.
func (t *Text) SetContent(c Content) error {
	if t.scene != nil && t.scene.debug {
		debugCheckDisposed(t, "SetContent")
	}
	tmpl, err := t.compile(c)
	if err != nil {
		return err
	}
	t.raw = c
	t.tmpl = tmpl
	registerDependencies(t, tmpl.References())
	t.needsSize = true
	t.MarkDirty()
	t.Refresh()
	return nil
}

// SetText is SetContent for a Go string, number or callback.
func (t *Text) SetText(v any) error {
	c, err := ContentOf(v)
	if err != nil {
		return err
	}
	return t.SetContent(c)
}

// MarkDirty implements Element. The next Refresh recomputes and repaints.
// A text marked dirty during its own refresh stays dirty afterwards.
func (t *Text) MarkDirty() {
	t.dirty = true
	t.needsPaint = true
	if t.state == StateRefreshing {
		t.pending = true
	} else {
		t.state = StateDirty
	}
	t.markDependentsDirty()
}

// Refresh implements Element. It is a no-op on a clean text.
func (t *Text) Refresh() {
	if t.state != StateDirty || t.disposed {
		return
	}
	t.state = StateRefreshing
	t.dirty = false
	t.pending = false

	if !t.opts.Frozen {
		t.resolvePosition()
	}

	display, err := t.tmpl.Evaluate()
	t.display = display
	t.evalErr = err
	if err != nil {
		Logger().Warn("geotext: evaluation failed",
			slog.String("text", t.name), slog.String("err", err.Error()))
	}

	if t.tmpl.Volatile() || t.needsSize {
		t.size = measure(t.scene.measurer, t.display, t.opts)
		t.needsSize = false
	}

	t.applyTransformations()

	if t.needsPaint {
		if t.opts.Visible {
			t.scene.renderer.Paint(t)
		} else {
			t.scene.renderer.Hide(t)
		}
		t.needsPaint = false
	}

	if t.pending {
		t.pending = false
		t.state = StateDirty
		t.dirty = true
		t.needsPaint = true
		return
	}
	t.state = StateClean
}

// applyTransformations maps the resolved position through the text's
// transformations and recomputes the device-space coordinates.
func (t *Text) applyTransformations() {
	t.coords = t.base
	if len(t.transforms) == 0 {
		return
	}
	m := composeTransformations(t.transforms)
	x, y := transformPoint(m, t.base.Usr.X, t.base.Usr.Y)
	t.coords.Set(SpaceUser, x, y)
}

// AddTransformation appends tr to the transformations applied after the
// position is resolved.
func (t *Text) AddTransformation(tr ...Transformation) {
	t.transforms = append(t.transforms, tr...)
	t.MarkDirty()
}

// ClearTransformations removes all transformations.
func (t *Text) ClearTransformations() {
	t.transforms = nil
	t.MarkDirty()
}

// advance steps animated transformations by dt seconds and reports whether
// any moved.
func (t *Text) advance(dt float32) bool {
	moved := false
	for _, tr := range t.transforms {
		if a, ok := tr.(Animator); ok && a.Update(dt) {
			moved = true
		}
	}
	if moved {
		t.MarkDirty()
	}
	return moved
}

// AnchorPoint implements Element. Texts anchor other texts at their own
// position.
func (t *Text) AnchorPoint(AnchorKind) Coords { return t.coords }

// X returns the user-space x coordinate, so formulas can read texts.
func (t *Text) X() float64 { return t.coords.Usr.X }

// Y returns the user-space y coordinate.
func (t *Text) Y() float64 { return t.coords.Usr.Y }

// Display returns the string produced by the latest refresh.
func (t *Text) Display() string { return t.display }

// Err returns the evaluation error of the latest refresh, if any.
func (t *Text) Err() error { return t.evalErr }

// Content returns the content last accepted by SetContent.
func (t *Text) Content() Content { return t.raw }

// CompiledContent returns the concatenation expression of the current
// template, for diagnostics.
func (t *Text) CompiledContent() string { return t.tmpl.Compiled() }

// Volatile reports whether the display can change on every refresh.
func (t *Text) Volatile() bool { return t.tmpl.Volatile() }

// Position returns the current position in both spaces.
func (t *Text) Position() Coords { return t.coords }

// Source returns the current position source.
func (t *Text) Source() PositionSource { return t.source }

// Parent returns the element the text is attached to, or nil.
func (t *Text) Parent() Element { return t.parent }

// IsLabel reports whether the text is a label.
func (t *Text) IsLabel() bool { return t.opts.IsLabel }

// IsDraggable reports whether the text is free and placed by constants.
func (t *Text) IsDraggable() bool { return t.draggable }

// State returns the refresh state.
func (t *Text) State() RefreshState { return t.state }

// Options returns a copy of the text's options.
func (t *Text) Options() Options {
	o := t.opts
	o.Offset = append([]float64(nil), t.opts.Offset...)
	return o
}

// Size returns the cached measurement. ok is false until the text has been
// refreshed since it last changed.
func (t *Text) Size() (sz Size, ok bool) {
	return t.size, t.state == StateClean
}

// SetVisible shows or hides the text on the next refresh.
func (t *Text) SetVisible(visible bool) {
	if t.opts.Visible == visible {
		return
	}
	t.opts.Visible = visible
	t.MarkDirty()
}

// Visible reports whether the text is shown.
func (t *Text) Visible() bool { return t.opts.Visible }

// SetFrozen stops or resumes position updates.
func (t *Text) SetFrozen(frozen bool) {
	t.opts.Frozen = frozen
	t.MarkDirty()
}

// String implements fmt.Stringer for debugging.
func (t *Text) String() string {
	return fmt.Sprintf("Text(%q, %q, %s)", t.name, t.display, t.state)
}
