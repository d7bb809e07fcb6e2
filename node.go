package geotext

// Element is a scene-graph element as seen by text nodes: something that
// can be referenced by name, anchors texts, and tracks the elements that
// depend on it.
type Element interface {
	ID() uint32
	Name() string

	// AddDependent registers d to be refreshed whenever this element
	// changes. Registering the same pair twice is a no-op.
	AddDependent(d Element)
	RemoveDependent(d Element)
	// Dependents returns the dependent-child set in registration order.
	// The returned slice MUST NOT be mutated.
	Dependents() []Element

	// AnchorPoint returns the point texts attach to.
	AnchorPoint(kind AnchorKind) Coords

	// MarkDirty flags the element and, transitively, its dependents.
	MarkDirty()
	IsDirty() bool
	// Refresh brings a dirty element up to date and clears the flag.
	Refresh()

	IsDisposed() bool
}

// element holds the state shared by every concrete Element.
type element struct {
	id       uint32
	name     string
	scene    *Scene
	dirty    bool
	disposed bool

	dependents []Element
	depIndex   map[uint32]int // dependent ID -> index in dependents
}

func (e *element) ID() uint32       { return e.id }
func (e *element) Name() string     { return e.name }
func (e *element) IsDirty() bool    { return e.dirty }
func (e *element) IsDisposed() bool { return e.disposed }

// Scene returns the owning scene.
func (e *element) Scene() *Scene { return e.scene }

func (e *element) AddDependent(d Element) {
	if d == nil {
		return
	}
	if e.scene != nil && e.scene.debug {
		debugCheckDisposed(d, "AddDependent")
	}
	if e.depIndex == nil {
		e.depIndex = make(map[uint32]int)
	}
	if _, ok := e.depIndex[d.ID()]; ok {
		return
	}
	e.depIndex[d.ID()] = len(e.dependents)
	e.dependents = append(e.dependents, d)
	if e.scene != nil && e.scene.debug {
		debugCheckDependentCount(e)
	}
}

func (e *element) RemoveDependent(d Element) {
	i, ok := e.depIndex[d.ID()]
	if !ok {
		return
	}
	copy(e.dependents[i:], e.dependents[i+1:])
	e.dependents[len(e.dependents)-1] = nil
	e.dependents = e.dependents[:len(e.dependents)-1]
	delete(e.depIndex, d.ID())
	for j := i; j < len(e.dependents); j++ {
		e.depIndex[e.dependents[j].ID()] = j
	}
}

func (e *element) Dependents() []Element { return e.dependents }

// hasDependent reports whether d is in the dependent-child set.
func (e *element) hasDependent(d Element) bool {
	_, ok := e.depIndex[d.ID()]
	return ok
}

// markDependentsDirty propagates dirtiness one level down. Dependents that
// are already dirty stop the walk, which also terminates cycles.
func (e *element) markDependentsDirty() {
	for _, d := range e.dependents {
		if !d.IsDirty() {
			d.MarkDirty()
		}
	}
}

// dispose marks the element removed and drops its dependent set.
func (e *element) dispose() {
	e.disposed = true
	e.dirty = false
	e.dependents = nil
	e.depIndex = nil
}

func (e *element) canvas() *Canvas {
	if e.scene == nil {
		return nil
	}
	return e.scene.canvas
}

// --- Point ---

// Point is a free point in user space. Points anchor labels and texts and
// can be referenced from formulas (X(A), Y(A), Dist(A, B)).
type Point struct {
	element
	x, y   float64
	coords Coords
}

// NewPoint creates a point at user coordinates (x, y) and adds it to the scene.
func (s *Scene) NewPoint(name string, x, y float64) *Point {
	p := &Point{x: x, y: y}
	s.register(&p.element, p, name)
	p.coords = NewCoords(s.canvas, SpaceUser, x, y)
	p.dirty = true
	return p
}

// X returns the user-space x coordinate.
func (p *Point) X() float64 { return p.x }

// Y returns the user-space y coordinate.
func (p *Point) Y() float64 { return p.y }

// Coords returns the last refreshed coordinate pair.
func (p *Point) Coords() Coords { return p.coords }

// SetPosition moves the point and marks it and its dependents dirty.
func (p *Point) SetPosition(x, y float64) {
	p.x, p.y = x, y
	p.MarkDirty()
}

// AnchorPoint implements Element. Both kinds anchor at the point itself.
func (p *Point) AnchorPoint(AnchorKind) Coords {
	return p.coords
}

// MarkDirty implements Element.
func (p *Point) MarkDirty() {
	p.dirty = true
	p.markDependentsDirty()
}

// Refresh implements Element.
func (p *Point) Refresh() {
	if !p.dirty {
		return
	}
	p.coords = NewCoords(p.canvas(), SpaceUser, p.x, p.y)
	p.dirty = false
}

// --- Variable ---

// Variable is a named number, the model behind sliders and input fields.
// Formulas read it with V(s), s.Value() or plain s.
type Variable struct {
	element
	value float64
}

// NewVariable creates a variable and adds it to the scene.
func (s *Scene) NewVariable(name string, value float64) *Variable {
	v := &Variable{value: value}
	s.register(&v.element, v, name)
	return v
}

// Value returns the current value.
func (v *Variable) Value() float64 { return v.value }

// Set changes the value and marks dependents dirty.
func (v *Variable) Set(value float64) {
	if v.value == value {
		return
	}
	v.value = value
	v.MarkDirty()
}

// AnchorPoint implements Element. A variable has no position; texts
// anchored to it sit at the user-space origin.
func (v *Variable) AnchorPoint(AnchorKind) Coords {
	return NewCoords(v.canvas(), SpaceUser, 0, 0)
}

// MarkDirty implements Element.
func (v *Variable) MarkDirty() {
	v.dirty = true
	v.markDependentsDirty()
}

// Refresh implements Element.
func (v *Variable) Refresh() {
	v.dirty = false
}
