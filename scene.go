package geotext

import (
	"log/slog"
	"sort"
	"time"

	"github.com/phanxgames/geotext/formula"
)

const defaultHitTolerance = 4.0 // pixels

// Scene owns the elements, the canvas transform, and the collaborators text
// nodes use: the formula compiler, the measurement backend, and the paint
// backend. It also schedules refreshes in dependency order.
//
// A Scene is not safe for concurrent use; drive it from one goroutine.
type Scene struct {
	canvas       *Canvas
	renderer     Renderer
	measurer     Measurer
	compiler     FormulaCompiler
	hitTolerance float64
	debug        bool

	pointer      pointerState
	handlers     handlerRegistry
	dragDeadZone float64
	injectQueue  []syntheticPointerEvent
	mouseInput   bool
	script       *ScriptRunner

	elements []Element // registration order
	byID     map[uint32]Element
	byName   map[string]Element
	order    map[uint32]int // element ID -> registration sequence
	nextID   uint32
	nextSeq  int
}

// sceneOptions holds optional configuration for Scene creation.
type sceneOptions struct {
	canvas       *Canvas
	renderer     Renderer
	measurer     Measurer
	compiler     FormulaCompiler
	hitTolerance float64
	mouseInput   bool
}

// SceneOption configures a Scene during creation.
type SceneOption func(*sceneOptions)

// WithCanvas sets the user/device transform. The default is a 800x600
// viewport with 50 pixels per unit, centered on the origin.
func WithCanvas(c *Canvas) SceneOption {
	return func(o *sceneOptions) { o.canvas = c }
}

// WithRenderer sets the paint backend. The default paints nothing.
func WithRenderer(r Renderer) SceneOption {
	return func(o *sceneOptions) { o.renderer = r }
}

// WithMeasurer sets the measurement backend. Without one every size comes
// from the heuristic estimate.
func WithMeasurer(m Measurer) SceneOption {
	return func(o *sceneOptions) { o.measurer = m }
}

// WithFormulaCompiler replaces the built-in formula compiler.
func WithFormulaCompiler(c FormulaCompiler) SceneOption {
	return func(o *sceneOptions) { o.compiler = c }
}

// WithHitTolerance sets the pixel tolerance used by hit-testing.
func WithHitTolerance(r float64) SceneOption {
	return func(o *sceneOptions) { o.hitTolerance = r }
}

// WithMouseInput makes Advance read the Ebitengine mouse and drag texts
// with the left button.
func WithMouseInput() SceneOption {
	return func(o *sceneOptions) { o.mouseInput = true }
}

// NewScene creates an empty scene.
func NewScene(opts ...SceneOption) *Scene {
	o := sceneOptions{hitTolerance: defaultHitTolerance}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Scene{
		canvas:       o.canvas,
		renderer:     o.renderer,
		measurer:     o.measurer,
		compiler:     o.compiler,
		hitTolerance: o.hitTolerance,
		dragDeadZone: defaultDragDeadZone,
		mouseInput:   o.mouseInput,
		byID:         make(map[uint32]Element),
		byName:       make(map[string]Element),
		order:        make(map[uint32]int),
	}
	if s.canvas == nil {
		s.canvas = NewCanvas(Rect{Width: 800, Height: 600}, 50)
	}
	if s.renderer == nil {
		s.renderer = nopRenderer{}
	}
	if s.compiler == nil {
		s.compiler = formulaCompiler{formula.NewCompiler(sceneEnv{s})}
	}
	return s
}

// Canvas returns the scene's coordinate transform.
func (s *Scene) Canvas() *Canvas { return s.canvas }

// Renderer returns the paint backend.
func (s *Scene) Renderer() Renderer { return s.renderer }

// HitTolerance returns the hit-testing tolerance in pixels.
func (s *Scene) HitTolerance() float64 { return s.hitTolerance }

// register assigns an ID and adds the element to the scene's indexes.
// self is the concrete element embedding e.
func (s *Scene) register(e *element, self Element, name string) {
	s.nextID++
	e.id = s.nextID
	e.name = name
	e.scene = s
	e.dirty = true
	s.elements = append(s.elements, self)
	s.byID[e.id] = self
	s.order[e.id] = s.nextSeq
	s.nextSeq++
	if name == "" {
		return
	}
	if prev, ok := s.byName[name]; ok {
		Logger().Warn("geotext: duplicate element name; keeping the first",
			slog.String("name", name), slog.Uint64("kept", uint64(prev.ID())), slog.Uint64("id", uint64(e.id)))
		return
	}
	s.byName[name] = self
}

// Lookup returns the element registered under name.
func (s *Scene) Lookup(name string) (Element, bool) {
	el, ok := s.byName[name]
	return el, ok
}

// ElementByID returns the element with the given ID.
func (s *Scene) ElementByID(id uint32) (Element, bool) {
	el, ok := s.byID[id]
	return el, ok
}

// Elements returns all elements in registration order. The returned slice
// MUST NOT be mutated.
func (s *Scene) Elements() []Element { return s.elements }

// names returns all registered names, for suggestions.
func (s *Scene) names() []string {
	out := make([]string, 0, len(s.byName))
	for _, el := range s.elements {
		if n := el.Name(); n != "" && s.byName[n] == el {
			out = append(out, n)
		}
	}
	return out
}

// Remove takes el out of the scene: it is detached from every dependent
// set, hidden if it is a text, and marked disposed. Texts anchored to el
// are freed at their current position; formulas referring to it fail to
// evaluate.
func (s *Scene) Remove(el Element) {
	if el == nil || el.IsDisposed() {
		return
	}
	if _, ok := s.byID[el.ID()]; !ok {
		return
	}
	for _, other := range s.elements {
		if t, ok := other.(*Text); ok && t.parent == el {
			t.Free()
		}
	}
	for _, other := range s.elements {
		other.RemoveDependent(el)
	}
	for i, other := range s.elements {
		if other == el {
			copy(s.elements[i:], s.elements[i+1:])
			s.elements[len(s.elements)-1] = nil
			s.elements = s.elements[:len(s.elements)-1]
			break
		}
	}
	delete(s.byID, el.ID())
	delete(s.order, el.ID())
	if s.byName[el.Name()] == el {
		delete(s.byName, el.Name())
	}
	if t, ok := el.(*Text); ok {
		t.detach()
		s.renderer.Hide(t)
		if s.pointer.grabbed == t {
			s.pointer.grabbed = nil
			s.pointer.dragging = false
		}
	}
	if d, ok := el.(interface{ dispose() }); ok {
		d.dispose()
	}
}

// Advance runs one script step, processes pointer input, steps canvas and
// transformation animations by dt seconds, marks every element dirty if the
// view moved, then runs Update.
func (s *Scene) Advance(dt float32) {
	if s.script != nil {
		s.script.step(s)
	}
	s.processInput()
	if s.canvas.Update(dt) {
		s.Invalidate()
	}
	for _, el := range s.elements {
		if t, ok := el.(*Text); ok {
			t.advance(dt)
		}
	}
	s.Update()
}

// Invalidate marks every element dirty. Call it after changing the canvas
// transform directly.
func (s *Scene) Invalidate() {
	s.canvas.MarkDirty()
	for _, el := range s.elements {
		el.MarkDirty()
	}
}

// Update refreshes every dirty element. An element is refreshed only after
// all dirty elements it depends on, so texts always read up-to-date parent
// state. Elements caught in a dependency cycle are refreshed last, in
// registration order.
func (s *Scene) Update() {
	var start time.Time
	if s.debug {
		start = time.Now()
	}
	dirty := make(map[uint32]Element)
	for _, el := range s.elements {
		if el.IsDirty() {
			dirty[el.ID()] = el
		}
	}
	if len(dirty) == 0 {
		return
	}

	indeg := make(map[uint32]int, len(dirty))
	for id, el := range dirty {
		if _, ok := indeg[id]; !ok {
			indeg[id] = 0
		}
		for _, d := range el.Dependents() {
			if _, ok := dirty[d.ID()]; ok && d.ID() != id {
				indeg[d.ID()]++
			}
		}
	}

	var ready []Element
	for id, n := range indeg {
		if n == 0 {
			ready = append(ready, dirty[id])
		}
	}
	s.sortByOrder(ready)

	done := 0
	for len(ready) > 0 {
		el := ready[0]
		ready = ready[1:]
		el.Refresh()
		done++
		delete(indeg, el.ID())
		added := false
		for _, d := range el.Dependents() {
			n, ok := indeg[d.ID()]
			if !ok {
				continue
			}
			indeg[d.ID()] = n - 1
			if n-1 == 0 {
				ready = append(ready, d)
				added = true
			}
		}
		if added {
			s.sortByOrder(ready)
		}
	}

	if len(indeg) > 0 {
		rest := make([]Element, 0, len(indeg))
		for id := range indeg {
			rest = append(rest, dirty[id])
		}
		s.sortByOrder(rest)
		Logger().Warn("geotext: dependency cycle; refreshing in registration order",
			slog.Int("elements", len(rest)))
		for _, el := range rest {
			el.Refresh()
		}
	}

	if s.debug {
		s.debugLog(debugStats{
			updateTime: time.Since(start),
			dirty:      len(dirty),
			refreshed:  done + len(indeg),
			cyclic:     len(indeg),
		})
	}
}

func (s *Scene) sortByOrder(els []Element) {
	sort.SliceStable(els, func(i, j int) bool {
		return s.order[els[i].ID()] < s.order[els[j].ID()]
	})
}

// SetDebugMode enables or disables debug checks: use of removed elements
// panics and oversized dependent sets are logged.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// sceneEnv resolves formula names to scene elements.
type sceneEnv struct{ s *Scene }

func (e sceneEnv) Lookup(name string) (any, bool) {
	el, ok := e.s.Lookup(name)
	if !ok {
		return nil, false
	}
	return el, true
}

// formulaCompiler adapts *formula.Compiler to FormulaCompiler.
type formulaCompiler struct{ c *formula.Compiler }

func (f formulaCompiler) CompileFormula(src string) (Formula, error) {
	fm, err := f.c.Compile(src)
	if err != nil {
		return nil, err
	}
	return fm, nil
}
