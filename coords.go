package geotext

// Coords holds one point in both coordinate spaces of a Canvas. Setting one
// representation recomputes the other through the canvas transform.
//
// Coords is a value type. A copy keeps its canvas pointer, so it converts
// with the canvas's current transform when it is next set.
type Coords struct {
	Usr Vec2 // user space
	Scr Vec2 // device space

	canvas *Canvas
}

// NewCoords creates a coordinate pair from (x, y) given in space.
func NewCoords(c *Canvas, space CoordSpace, x, y float64) Coords {
	p := Coords{canvas: c}
	p.Set(space, x, y)
	return p
}

// Set assigns the point from (x, y) given in space and recomputes the other
// representation.
func (p *Coords) Set(space CoordSpace, x, y float64) {
	if space == SpaceScreen {
		p.Scr = Vec2{x, y}
		if p.canvas != nil {
			ux, uy := p.canvas.ScreenToUser(x, y)
			p.Usr = Vec2{ux, uy}
		} else {
			p.Usr = Vec2{x, -y}
		}
		return
	}
	p.Usr = Vec2{x, y}
	if p.canvas != nil {
		sx, sy := p.canvas.UserToScreen(x, y)
		p.Scr = Vec2{sx, sy}
	} else {
		p.Scr = Vec2{x, -y}
	}
}

// In returns the point in the requested space.
func (p Coords) In(space CoordSpace) Vec2 {
	if space == SpaceScreen {
		return p.Scr
	}
	return p.Usr
}

// Canvas returns the canvas the pair converts through, or nil.
func (p Coords) Canvas() *Canvas {
	return p.canvas
}
