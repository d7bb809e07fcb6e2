package geotext

import (
	"testing"
)

// recordingRenderer counts paint and hide calls per text and records the
// paint order.
type recordingRenderer struct {
	paints map[uint32]int
	hides  map[uint32]int
	order  []string
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{paints: make(map[uint32]int), hides: make(map[uint32]int)}
}

func (r *recordingRenderer) Paint(t *Text) {
	r.paints[t.ID()]++
	r.order = append(r.order, t.Name())
}

func (r *recordingRenderer) Hide(t *Text) {
	r.hides[t.ID()]++
}

// fixedMeasurer reports the same size for every string.
func fixedMeasurer(w, h float64) Measurer {
	return MeasurerFunc(func(string, Options) (Size, error) {
		return Size{Width: w, Height: h}, nil
	})
}

func newTestScene(opts ...SceneOption) (*Scene, *recordingRenderer) {
	r := newRecordingRenderer()
	return NewScene(append([]SceneOption{WithRenderer(r)}, opts...)...), r
}

func mustText(t *testing.T, s *Scene, name string, x, y Coord, content string) *Text {
	t.Helper()
	txt, err := s.NewText(name, x, y, String(content), DefaultOptions())
	if err != nil {
		t.Fatalf("NewText(%q): %v", name, err)
	}
	return txt
}

func TestNewScene_Defaults(t *testing.T) {
	s := NewScene()
	if s.Canvas() == nil {
		t.Fatal("Canvas = nil")
	}
	if s.HitTolerance() != defaultHitTolerance {
		t.Errorf("HitTolerance = %v, want %v", s.HitTolerance(), defaultHitTolerance)
	}
	if _, ok := s.Renderer().(nopRenderer); !ok {
		t.Errorf("Renderer = %T, want nopRenderer", s.Renderer())
	}
}

func TestScene_IDsArePerScene(t *testing.T) {
	s1, s2 := NewScene(), NewScene()
	a := s1.NewPoint("A", 0, 0)
	b := s2.NewPoint("B", 0, 0)
	if a.ID() != 1 || b.ID() != 1 {
		t.Errorf("IDs = %d, %d, want 1, 1", a.ID(), b.ID())
	}
}

func TestScene_Lookup(t *testing.T) {
	s := NewScene()
	a := s.NewPoint("A", 1, 2)
	el, ok := s.Lookup("A")
	if !ok || el != Element(a) {
		t.Errorf("Lookup(A) = %v, %v", el, ok)
	}
	if _, ok := s.Lookup("missing"); ok {
		t.Error("Lookup(missing) found something")
	}
	if el, ok := s.ElementByID(a.ID()); !ok || el != Element(a) {
		t.Errorf("ElementByID = %v, %v", el, ok)
	}
}

func TestScene_DuplicateNameKeepsFirst(t *testing.T) {
	s := NewScene()
	first := s.NewPoint("P", 0, 0)
	s.NewPoint("P", 1, 1)
	el, _ := s.Lookup("P")
	if el != Element(first) {
		t.Error("Lookup returned the second element")
	}
	if len(s.Elements()) != 2 {
		t.Errorf("Elements = %d, want 2", len(s.Elements()))
	}
}

func TestScene_UpdateRefreshesDependentsAfterParents(t *testing.T) {
	s, _ := newTestScene()
	a := s.NewPoint("A", 0, 0)

	// follower is registered before leader but reads leader's position.
	follower := mustText(t, s, "follower", Num(0), Num(0), "<value>X(leader)</value>")
	leader := mustText(t, s, "leader", Term("X(A)"), Num(0), "L")
	if err := follower.SetContent(String("<value>X(leader)</value>")); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if follower.Display() != "0.00" {
		t.Fatalf("initial follower = %q", follower.Display())
	}

	a.SetPosition(2, 0)
	s.Update()

	if leader.X() != 2 {
		t.Errorf("leader.X = %v, want 2", leader.X())
	}
	if follower.Display() != "2.00" {
		t.Errorf("follower = %q, want %q", follower.Display(), "2.00")
	}
	for _, el := range s.Elements() {
		if el.IsDirty() {
			t.Errorf("%s still dirty after Update", el.Name())
		}
	}
}

func TestScene_UpdateSurvivesCycles(t *testing.T) {
	s, _ := newTestScene()
	t1 := mustText(t, s, "t1", Num(1), Num(0), "<value>X(t2)</value>")
	t2 := mustText(t, s, "t2", Num(2), Num(0), "<value>X(t1)</value>")
	if err := t1.SetContent(String("<value>X(t2)</value>")); err != nil {
		t.Fatalf("SetContent: %v", err)
	}

	t1.MarkDirty()
	if !t2.IsDirty() {
		t.Fatal("t2 not marked dirty through the cycle")
	}
	s.Update()

	if t1.IsDirty() || t2.IsDirty() {
		t.Error("texts still dirty after Update")
	}
	if t1.Display() != "2.00" || t2.Display() != "1.00" {
		t.Errorf("displays = %q, %q", t1.Display(), t2.Display())
	}
}

func TestScene_UpdateSkipsUnrelated(t *testing.T) {
	s, r := newTestScene()
	a := s.NewPoint("A", 0, 0)
	b := s.NewPoint("B", 0, 0)
	txt := mustText(t, s, "t", Num(0), Num(0), "<value>X(A)</value>")
	before := r.paints[txt.ID()]

	b.SetPosition(5, 5)
	s.Update()
	if r.paints[txt.ID()] != before {
		t.Error("text repainted after an unrelated change")
	}

	a.SetPosition(1, 0)
	s.Update()
	if r.paints[txt.ID()] != before+1 {
		t.Errorf("paints = %d, want %d", r.paints[txt.ID()], before+1)
	}
}

func TestScene_Remove(t *testing.T) {
	s, r := newTestScene()
	a := s.NewPoint("A", 0, 0)
	label, err := s.NewLabel("A_label", a, String("A"), LabelOptions())
	if err != nil {
		t.Fatalf("NewLabel: %v", err)
	}

	s.Remove(label)

	if _, ok := s.Lookup("A_label"); ok {
		t.Error("removed label still registered")
	}
	if len(a.Dependents()) != 0 {
		t.Errorf("A dependents = %d, want 0", len(a.Dependents()))
	}
	if r.hides[label.ID()] != 1 {
		t.Errorf("hides = %d, want 1", r.hides[label.ID()])
	}
	if !label.IsDisposed() {
		t.Error("label not disposed")
	}
	if label.Parent() != nil {
		t.Error("label still has a parent")
	}

	// Removing twice is a no-op.
	s.Remove(label)
	if r.hides[label.ID()] != 1 {
		t.Errorf("hides after second Remove = %d, want 1", r.hides[label.ID()])
	}
}

func TestScene_RemoveReferencedElement(t *testing.T) {
	s, _ := newTestScene()
	a := s.NewPoint("A", 1, 0)
	txt := mustText(t, s, "t", Num(0), Num(0), "<value>X(A)</value>")

	s.Remove(a)
	txt.MarkDirty()
	s.Update()

	if txt.Display() != "NaN" {
		t.Errorf("Display = %q, want NaN", txt.Display())
	}
	if txt.Err() == nil {
		t.Error("Err = nil, want evaluation error")
	}
}

func TestScene_RemoveFreesAnchoredTexts(t *testing.T) {
	s, _ := newTestScene()
	a := s.NewPoint("A", 1, 1)
	txt, err := s.NewAnchoredText("t", a, 1, 0, String("x"), DefaultOptions())
	if err != nil {
		t.Fatalf("NewAnchoredText: %v", err)
	}
	label, err := s.NewLabel("A_label", a, String("A"), LabelOptions())
	if err != nil {
		t.Fatalf("NewLabel: %v", err)
	}
	labelScr := label.Position().Scr

	s.Remove(a)
	s.Update()

	if txt.Parent() != nil || label.Parent() != nil {
		t.Fatal("anchored texts still point at the removed element")
	}
	if got := txt.Position().Usr; got != (Vec2{2, 1}) {
		t.Errorf("text position = %v, want {2 1}", got)
	}
	if got := label.Position().Scr; !approxEqual(got.X, labelScr.X, 1e-9) || !approxEqual(got.Y, labelScr.Y, 1e-9) {
		t.Errorf("label position = %v, want %v", got, labelScr)
	}

	s.Canvas().ZoomAt(2, 400, 300)
	s.Invalidate()
	s.Update()
	if got := txt.Position().Usr; got != (Vec2{2, 1}) {
		t.Errorf("text position after zoom = %v, want {2 1}", got)
	}
}

func TestScene_InvalidateRepositionsLabels(t *testing.T) {
	s, _ := newTestScene()
	a := s.NewPoint("A", 1, 0)
	label, err := s.NewLabel("A_label", a, String("A"), LabelOptions())
	if err != nil {
		t.Fatalf("NewLabel: %v", err)
	}
	before := label.Position().Scr

	s.Canvas().SetView(0, 0, 100)
	s.Invalidate()
	s.Update()

	after := label.Position().Scr
	if !approxEqual(after.X-before.X, 50, epsilon) {
		t.Errorf("label moved by %v px, want 50", after.X-before.X)
	}
	// Label offset stays in pixels.
	if !approxEqual(after.X-a.Coords().Scr.X, 10, epsilon) {
		t.Errorf("label offset = %v px, want 10", after.X-a.Coords().Scr.X)
	}
}
