package geotext

// ScreenBox returns the device-space box of the text: left, top, right and
// bottom edges after alignment by AnchorX and AnchorY.
func (t *Text) ScreenBox() (lft, top, rt, bot float64) {
	p := t.coords.Scr
	w, h := t.size.Width, t.size.Height

	switch t.opts.AnchorX {
	case AnchorRight:
		lft = p.X - w
	case AnchorCenter:
		lft = p.X - 0.5*w
	default:
		lft = p.X
	}
	rt = lft + w

	switch t.opts.AnchorY {
	case AnchorTop:
		bot = p.Y + h
	case AnchorMiddle:
		bot = p.Y + 0.5*h
	default:
		bot = p.Y
	}
	top = bot - h
	return lft, top, rt, bot
}

// HasPoint reports whether the device-space point (x, y) grabs the text.
// Only strips along the left and right edges count, widened by the scene's
// hit tolerance; the interior does not.
func (t *Text) HasPoint(x, y float64) bool {
	r := defaultHitTolerance
	if t.scene != nil {
		r = t.scene.hitTolerance
	}
	lft, top, rt, bot := t.ScreenBox()
	return (y >= top-r && y <= bot+r) &&
		((x >= lft-r && x <= lft+2*r) || (x >= rt-2*r && x <= rt+r))
}

// TextAt returns the topmost visible text that has the device-space point
// (x, y), or nil. Later texts are on top.
func (s *Scene) TextAt(x, y float64) *Text {
	for i := len(s.elements) - 1; i >= 0; i-- {
		t, ok := s.elements[i].(*Text)
		if !ok || !t.opts.Visible {
			continue
		}
		if t.HasPoint(x, y) {
			return t
		}
	}
	return nil
}
