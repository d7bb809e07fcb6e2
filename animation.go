package geotext

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animator is implemented by transformations that change over time.
// Scene.Advance steps the animators of every text.
type Animator interface {
	// Update advances the animation by dt seconds and reports whether the
	// transformation changed.
	Update(dt float32) bool
}

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the constructors (TweenPoint, TweenTranslation, TweenRotation) and call
// Update(dt) each frame, or let Scene.Advance do it for transformations.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	// target, if set, is marked dirty on every step.
	target Element
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the fields.
// If the target element has been removed, Done is set and no writes occur.
func (g *TweenGroup) Update(dt float32) bool {
	if g.Done {
		return false
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return false
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
	return true
}

// TweenPoint animates a point to (toX, toY) in user space. Texts depending
// on the point follow it.
func TweenPoint(p *Point, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: p}
	g.tweens[0] = gween.New(float32(p.x), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(p.y), float32(toY), duration, fn)
	g.fields[0] = &p.x
	g.fields[1] = &p.y
	return g
}

// AnimatedTranslation is a Translation whose offset is tweened.
type AnimatedTranslation struct {
	TweenGroup
	Translation
}

// TweenTranslation creates a translation that moves from (0, 0) to
// (toDX, toDY) user units over duration seconds. Add it to a text with
// AddTransformation.
func TweenTranslation(toDX, toDY float64, duration float32, fn ease.TweenFunc) *AnimatedTranslation {
	a := &AnimatedTranslation{}
	a.count = 2
	a.tweens[0] = gween.New(0, float32(toDX), duration, fn)
	a.tweens[1] = gween.New(0, float32(toDY), duration, fn)
	a.fields[0] = &a.DX
	a.fields[1] = &a.DY
	return a
}

// AnimatedRotation is a Rotation whose angle is tweened.
type AnimatedRotation struct {
	TweenGroup
	Rotation
}

// TweenRotation creates a rotation about center that turns from 0 to angle
// radians over duration seconds.
func TweenRotation(angle float64, center Vec2, duration float32, fn ease.TweenFunc) *AnimatedRotation {
	a := &AnimatedRotation{Rotation: Rotation{Center: center}}
	a.count = 1
	a.tweens[0] = gween.New(0, float32(angle), duration, fn)
	a.fields[0] = &a.Angle
	return a
}
