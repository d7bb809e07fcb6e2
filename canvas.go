package geotext

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// canvasAnim holds active pan/zoom tweens.
type canvasAnim struct {
	tweenX, tweenY, tweenZoom *gween.Tween
	doneX, doneY, doneZoom    bool
}

// Canvas owns the transform between user space (math units, Y up) and
// device space (pixels, Y down): pan position, zoom and the viewport.
type Canvas struct {
	// X and Y are the user-space point shown at the viewport center.
	X, Y float64
	// Zoom is the number of device pixels per user unit.
	Zoom float64
	// Viewport is the device-space rectangle the canvas maps onto.
	Viewport Rect

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	anim *canvasAnim
}

// NewCanvas creates a canvas centered on the user-space origin with the given
// viewport and zoom.
func NewCanvas(viewport Rect, zoom float64) *Canvas {
	if zoom <= 0 {
		zoom = 1
	}
	return &Canvas{
		Zoom:     zoom,
		Viewport: viewport,
		dirty:    true,
	}
}

// PanTo animates the canvas center to the given user-space point over
// duration seconds.
func (c *Canvas) PanTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	a := c.animation()
	a.tweenX = gween.New(float32(c.X), float32(x), duration, easeFn)
	a.tweenY = gween.New(float32(c.Y), float32(y), duration, easeFn)
	a.doneX, a.doneY = false, false
}

// ZoomTo animates the zoom level over duration seconds.
func (c *Canvas) ZoomTo(zoom float64, duration float32, easeFn ease.TweenFunc) {
	if zoom <= 0 {
		return
	}
	a := c.animation()
	a.tweenZoom = gween.New(float32(c.Zoom), float32(zoom), duration, easeFn)
	a.doneZoom = false
}

func (c *Canvas) animation() *canvasAnim {
	if c.anim == nil {
		c.anim = &canvasAnim{doneX: true, doneY: true, doneZoom: true}
	}
	return c.anim
}

// Animating reports whether a pan or zoom animation is in progress.
func (c *Canvas) Animating() bool {
	return c.anim != nil
}

// Update advances pan/zoom animations by dt seconds and reports whether the
// transform changed. Called from Scene.Advance.
func (c *Canvas) Update(dt float32) bool {
	if c.anim == nil {
		return false
	}
	prevX, prevY, prevZoom := c.X, c.Y, c.Zoom
	a := c.anim
	if a.tweenX != nil && !a.doneX {
		val, done := a.tweenX.Update(dt)
		c.X = float64(val)
		a.doneX = done
	}
	if a.tweenY != nil && !a.doneY {
		val, done := a.tweenY.Update(dt)
		c.Y = float64(val)
		a.doneY = done
	}
	if a.tweenZoom != nil && !a.doneZoom {
		val, done := a.tweenZoom.Update(dt)
		c.Zoom = float64(val)
		a.doneZoom = done
	}
	if a.doneX && a.doneY && a.doneZoom {
		c.anim = nil
	}
	if c.X != prevX || c.Y != prevY || c.Zoom != prevZoom {
		c.dirty = true
		return true
	}
	return false
}

// SetView moves the canvas center and zoom immediately.
func (c *Canvas) SetView(x, y, zoom float64) {
	c.X, c.Y = x, y
	if zoom > 0 {
		c.Zoom = zoom
	}
	c.dirty = true
}

// ZoomAt multiplies the zoom by factor while keeping the device-space point
// (sx, sy) over the same user-space point.
func (c *Canvas) ZoomAt(factor, sx, sy float64) {
	if factor <= 0 {
		return
	}
	ux, uy := c.ScreenToUser(sx, sy)
	c.Zoom *= factor
	c.dirty = true
	nx, ny := c.ScreenToUser(sx, sy)
	c.X += ux - nx
	c.Y += uy - ny
	c.dirty = true
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom, -zoom) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (c *Canvas) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	z := c.Zoom

	c.viewMatrix = [6]float64{z, 0, 0, -z, cx - z*c.X, cy + z*c.Y}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// UserToScreen converts user coordinates to device coordinates.
func (c *Canvas) UserToScreen(ux, uy float64) (sx, sy float64) {
	c.computeViewMatrix()
	return transformPoint(c.viewMatrix, ux, uy)
}

// ScreenToUser converts device coordinates to user coordinates.
func (c *Canvas) ScreenToUser(sx, sy float64) (ux, uy float64) {
	c.computeViewMatrix()
	return transformPoint(c.invViewMatrix, sx, sy)
}

// VisibleBounds returns the user-space rectangle covered by the viewport.
// Y grows upward, so the rectangle's Y is its lower edge.
func (c *Canvas) VisibleBounds() Rect {
	x0, y0 := c.ScreenToUser(c.Viewport.X, c.Viewport.Y)
	x1, y1 := c.ScreenToUser(c.Viewport.X+c.Viewport.Width, c.Viewport.Y+c.Viewport.Height)
	minX, maxX := math.Min(x0, x1), math.Max(x0, x1)
	minY, maxY := math.Min(y0, y1), math.Max(y0, y1)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MarkDirty forces a recomputation of the view matrix. Call it after
// assigning X, Y, Zoom or Viewport directly.
func (c *Canvas) MarkDirty() {
	c.dirty = true
}
