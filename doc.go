// Package geotext implements dynamic text elements for interactive geometry
// scenes on [Ebitengine] or in a terminal.
//
// A [Text] shows a string compiled from a small template language and sits
// at a position that is fixed, computed by formulas, or attached to another
// element. Whenever an element the text refers to changes, the scene
// refreshes the text: it re-evaluates the template, measures the result and
// repaints it.
//
// # Quick start
//
//	scene := geotext.NewScene()
//	a := scene.NewPoint("A", 1, 2)
//	label, _ := scene.NewLabel("A_label", a, geotext.String("A"), geotext.LabelOptions())
//	info, _ := scene.NewText("info", geotext.Num(-3), geotext.Num(3),
//		geotext.String("A = (<value>X(A)</value>, <value>Y(A)</value>)"),
//		geotext.DefaultOptions())
//
//	a.SetPosition(2, 2)
//	scene.Update() // info now shows "A = (2.00, 2.00)"
//
// # Templates
//
// String content may embed formulas in <value>...</value> tags. Formulas use
// the grammar of package [github.com/phanxgames/geotext/formula] and refer to
// elements by name. Numeric results are formatted with [Options.Digits]
// decimals unless the formula calls toFixed itself.
//
// Shorthand markup is rewritten into inline HTML: x^2 and x^{10} become
// superscripts, a_1 and a_{ij} subscripts, <overline> and <arrow> an
// overline span. <arc/> and <sqrt/> become the &ang; and &radic; entities.
//
// Number content is formatted with [Options.Digits]. [Dynamic] content is a
// callback called on every refresh.
//
// # Coordinates
//
// Positions live in two spaces tied by the scene's [Canvas]: user space
// (math units, Y up) and device space (pixels, Y down). [Coords] holds both.
// A label's offset is measured in pixels so it does not drift when the
// canvas zooms; other attached texts are offset in user units.
//
// # Backends
//
// Measurement and painting are pluggable via [Measurer] and [Renderer].
// [TTFFont] and [BitmapFont] measure text; [EbitenRenderer] paints with
// Ebitengine's text/v2 and package
// [github.com/phanxgames/geotext/termview] draws into a tcell screen.
// Without a measurer, sizes are estimated from the font size.
//
// [Ebitengine]: https://ebitengine.org
package geotext
