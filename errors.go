package geotext

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrMeasurementUnavailable is returned by a Measurer that cannot measure
	// in the current context (headless, no font loaded). The size cache falls
	// back to a heuristic estimate.
	ErrMeasurementUnavailable = errors.New("geotext: measurement unavailable")

	// ErrNoFormulaCompiler is returned when a template embeds a formula but
	// the scene has no formula compiler.
	ErrNoFormulaCompiler = errors.New("geotext: no formula compiler configured")

	// ErrUnsupportedContent is returned for content values that are neither
	// strings, numbers nor callbacks.
	ErrUnsupportedContent = errors.New("geotext: unsupported content type")
)

// TemplateError reports malformed <value> markup. Text.SetContent recovers
// from it by displaying the template as literal text.
type TemplateError struct {
	Template string
	Offset   int // byte offset of the offending tag
	Msg      string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("geotext: template error at offset %d: %s", e.Offset, e.Msg)
}

// FormulaSyntaxError wraps a formula compiler failure for one embedded
// formula. It is returned to the caller of Text.SetContent, which keeps the
// previous content.
type FormulaSyntaxError struct {
	Formula string
	Err     error
}

func (e *FormulaSyntaxError) Error() string {
	return fmt.Sprintf("geotext: formula %q: %v", e.Formula, e.Err)
}

func (e *FormulaSyntaxError) Unwrap() error { return e.Err }
