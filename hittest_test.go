package geotext

import "testing"

// boxText creates a 40x10 text whose position is device (0, 0).
func boxText(t *testing.T, s *Scene, name string, opts Options) *Text {
	t.Helper()
	txt, err := s.NewText(name, Num(-8), Num(6), String("box"), opts)
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}
	if p := txt.Position().Scr; !approxEqual(p.X, 0, epsilon) || !approxEqual(p.Y, 0, epsilon) {
		t.Fatalf("position = %v, want {0 0}", p)
	}
	return txt
}

func TestScreenBox_Alignment(t *testing.T) {
	tests := []struct {
		name              string
		ax                AnchorX
		ay                AnchorY
		lft, top, rt, bot float64
	}{
		{"left bottom", AnchorLeft, AnchorBottom, 0, -10, 40, 0},
		{"middle middle", AnchorCenter, AnchorMiddle, -20, -5, 20, 5},
		{"right top", AnchorRight, AnchorTop, -40, 0, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestScene(WithMeasurer(fixedMeasurer(40, 10)))
			opts := DefaultOptions()
			opts.AnchorX, opts.AnchorY = tt.ax, tt.ay
			txt := boxText(t, s, "t", opts)
			lft, top, rt, bot := txt.ScreenBox()
			if lft != tt.lft || top != tt.top || rt != tt.rt || bot != tt.bot {
				t.Errorf("ScreenBox = %v %v %v %v, want %v %v %v %v",
					lft, top, rt, bot, tt.lft, tt.top, tt.rt, tt.bot)
			}
		})
	}
}

func TestHasPoint_EdgeStrips(t *testing.T) {
	s, _ := newTestScene(WithMeasurer(fixedMeasurer(40, 10)), WithHitTolerance(2))
	txt := boxText(t, s, "t", DefaultOptions())

	tests := []struct {
		x, y float64
		want bool
	}{
		{-1, -5, true},  // left strip
		{-2, -5, true},  // left tolerance edge
		{4, -5, true},   // inner edge of left strip
		{5, -5, false},  // just inside the strip
		{20, -5, false}, // interior
		{39, -5, true},  // right strip
		{42, -5, true},  // right tolerance edge
		{43, -5, false}, // beyond the right edge
		{-1, 5, false},  // below the box
		{-1, -12, true}, // top tolerance edge
		{-1, -13, false},
	}
	for _, tt := range tests {
		if got := txt.HasPoint(tt.x, tt.y); got != tt.want {
			t.Errorf("HasPoint(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestHasPoint_TopAnchored(t *testing.T) {
	s, _ := newTestScene(WithMeasurer(fixedMeasurer(40, 10)), WithHitTolerance(2))
	opts := DefaultOptions()
	opts.AnchorY = AnchorTop
	txt := boxText(t, s, "t", opts)

	if !txt.HasPoint(-1, 5) {
		t.Error("HasPoint(-1, 5) = false, want true")
	}
	if txt.HasPoint(20, 5) {
		t.Error("HasPoint(20, 5) = true, want false")
	}
}

func TestHasPoint_DefaultTolerance(t *testing.T) {
	s, _ := newTestScene(WithMeasurer(fixedMeasurer(40, 10)))
	txt := boxText(t, s, "t", DefaultOptions())
	if !txt.HasPoint(-4, -5) || txt.HasPoint(-5, -5) {
		t.Error("default tolerance not applied")
	}
}

func TestTextAt(t *testing.T) {
	s, _ := newTestScene(WithMeasurer(fixedMeasurer(40, 10)), WithHitTolerance(2))
	below := boxText(t, s, "below", DefaultOptions())
	above := boxText(t, s, "above", DefaultOptions())

	if got := s.TextAt(0, -5); got != above {
		t.Errorf("TextAt = %v, want above", got)
	}

	above.SetVisible(false)
	above.Refresh()
	if got := s.TextAt(0, -5); got != below {
		t.Errorf("TextAt with top hidden = %v, want below", got)
	}

	if got := s.TextAt(20, -5); got != nil {
		t.Errorf("TextAt(interior) = %v, want nil", got)
	}
}
