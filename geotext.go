package geotext

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default text color.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets and deltas throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Rect is an axis-aligned rectangle in device space. The origin is at the
// top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Size is a measured text extent in device pixels.
type Size struct {
	Width, Height float64
}

// CoordSpace selects one of the two coordinate systems of a Canvas.
type CoordSpace uint8

const (
	SpaceUser   CoordSpace = iota // math coordinates, Y up, independent of zoom
	SpaceScreen                   // device pixels, Y down
)

// String returns "user" or "screen".
func (s CoordSpace) String() string {
	if s == SpaceScreen {
		return "screen"
	}
	return "user"
}

// AnchorKind selects which anchor point an Element exposes.
type AnchorKind uint8

const (
	AnchorText  AnchorKind = iota // anchor for free text attached to an element (user space)
	AnchorLabel                   // anchor for the element's label (device space)
)

// AnchorX controls the horizontal alignment of a text box around its position.
type AnchorX uint8

const (
	AnchorLeft   AnchorX = iota // position is the left edge (default)
	AnchorCenter                // position is the horizontal middle
	AnchorRight                 // position is the right edge
)

// AnchorY controls the vertical alignment of a text box around its position.
type AnchorY uint8

const (
	AnchorBottom AnchorY = iota // position is the bottom edge (default)
	AnchorMiddle                // position is the vertical middle
	AnchorTop                   // position is the top edge
)

// Display selects how the paint backend interprets the display string.
type Display uint8

const (
	DisplayHTML     Display = iota // display string carries inline markup
	DisplayInternal                // backend draws the string with its own text primitive
)
