package geotext

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultDragDeadZone = 4.0 // pixels

// DragContext carries drag event data. Positions are device pixels.
type DragContext struct {
	Text     *Text
	UserData any
	X, Y     float64
	StartX   float64
	StartY   float64
	DeltaX   float64
	DeltaY   float64
}

// pointerState tracks the single pointer that drags texts.
type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	grabbed  *Text
	dragging bool
}

type dragHandler struct {
	id uint32
	fn func(DragContext)
}

type dragEvent uint8

const (
	dragStartEvent dragEvent = iota
	dragMoveEvent
	dragEndEvent
)

type handlerRegistry struct {
	dragStart []dragHandler
	drag      []dragHandler
	dragEnd   []dragHandler
	nextID    uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event dragEvent
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case dragStartEvent:
		h.reg.dragStart = removeDragHandler(h.reg.dragStart, h.id)
	case dragMoveEvent:
		h.reg.drag = removeDragHandler(h.reg.drag, h.id)
	case dragEndEvent:
		h.reg.dragEnd = removeDragHandler(h.reg.dragEnd, h.id)
	}
}

func removeDragHandler(s []dragHandler, id uint32) []dragHandler {
	for i, h := range s {
		if h.id == id {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

func (s *Scene) addDragHandler(ev dragEvent, fn func(DragContext)) CallbackHandle {
	s.handlers.nextID++
	h := dragHandler{id: s.handlers.nextID, fn: fn}
	switch ev {
	case dragStartEvent:
		s.handlers.dragStart = append(s.handlers.dragStart, h)
	case dragMoveEvent:
		s.handlers.drag = append(s.handlers.drag, h)
	case dragEndEvent:
		s.handlers.dragEnd = append(s.handlers.dragEnd, h)
	}
	return CallbackHandle{id: h.id, reg: &s.handlers, event: ev}
}

// OnDragStart registers fn to run when a grabbed text starts moving.
func (s *Scene) OnDragStart(fn func(DragContext)) CallbackHandle {
	return s.addDragHandler(dragStartEvent, fn)
}

// OnDrag registers fn to run after every drag step.
func (s *Scene) OnDrag(fn func(DragContext)) CallbackHandle {
	return s.addDragHandler(dragMoveEvent, fn)
}

// OnDragEnd registers fn to run when a dragged text is released.
func (s *Scene) OnDragEnd(fn func(DragContext)) CallbackHandle {
	return s.addDragHandler(dragEndEvent, fn)
}

// SetDragDeadZone sets the distance in pixels the pointer must travel
// before a press turns into a drag.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// Dragging returns the text being dragged, or nil.
func (s *Scene) Dragging() *Text {
	if !s.pointer.dragging {
		return nil
	}
	return s.pointer.grabbed
}

// movable reports whether a pointer may move t: texts placed by constants
// and texts attached to a parent.
func movable(t *Text) bool {
	return t != nil && (t.draggable || t.parent != nil)
}

// ProcessPointer feeds one pointer sample in device pixels through the drag
// state machine. A press grabs the topmost movable text under the pointer by
// its edge strips; moves beyond the dead zone drag it with
// SetPositionDirectly; a release ends the drag.
func (s *Scene) ProcessPointer(x, y float64, pressed bool) {
	ps := &s.pointer

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.dragging = false
		ps.grabbed = nil
		if t := s.TextAt(x, y); movable(t) {
			ps.grabbed = t
		}

	case !pressed && ps.down:
		if ps.dragging && ps.grabbed != nil {
			s.fireDrag(s.handlers.dragEnd, x, y, x-ps.lastX, y-ps.lastY)
		}
		ps.down = false
		ps.dragging = false
		ps.grabbed = nil

	case pressed && ps.down:
		if ps.grabbed == nil || (x == ps.lastX && y == ps.lastY) {
			return
		}
		if ps.grabbed.IsDisposed() {
			ps.grabbed = nil
			ps.dragging = false
			return
		}
		fromX, fromY := ps.lastX, ps.lastY
		if !ps.dragging {
			dx, dy := x-ps.startX, y-ps.startY
			if math.Sqrt(dx*dx+dy*dy) <= s.dragDeadZone {
				ps.lastX, ps.lastY = x, y
				return
			}
			ps.dragging = true
			fromX, fromY = ps.startX, ps.startY
			s.fireDrag(s.handlers.dragStart, x, y, x-fromX, y-fromY)
		}
		ps.grabbed.SetPositionDirectly(SpaceScreen, Vec2{x, y}, Vec2{fromX, fromY})
		ps.lastX, ps.lastY = x, y
		s.fireDrag(s.handlers.drag, x, y, x-fromX, y-fromY)
	}
}

func (s *Scene) fireDrag(handlers []dragHandler, x, y, dx, dy float64) {
	if len(handlers) == 0 {
		return
	}
	ps := &s.pointer
	ctx := DragContext{
		Text:     ps.grabbed,
		UserData: ps.grabbed.UserData,
		X:        x,
		Y:        y,
		StartX:   ps.startX,
		StartY:   ps.startY,
		DeltaX:   dx,
		DeltaY:   dy,
	}
	for _, h := range handlers {
		h.fn(ctx)
	}
}

// processInput runs at the start of Advance: one injected event if any are
// queued, otherwise the Ebitengine mouse when WithMouseInput is set.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	if !s.mouseInput {
		return
	}
	mx, my := ebiten.CursorPosition()
	s.ProcessPointer(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}
