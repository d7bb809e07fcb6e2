package geotext

import (
	"errors"
	"log/slog"

	"github.com/rivo/uniseg"
)

// Measurer computes the device-pixel extent of a display string. It returns
// ErrMeasurementUnavailable when it cannot measure in the current context.
type Measurer interface {
	Measure(content string, opts Options) (Size, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(content string, opts Options) (Size, error)

// Measure implements Measurer.
func (f MeasurerFunc) Measure(content string, opts Options) (Size, error) { return f(content, opts) }

// Heuristic size factors relative to the font size.
const (
	heuristicCharWidth  = 0.45
	heuristicLineHeight = 0.9
)

// EstimateSize approximates the extent of content without a font: each
// user-perceived character is 0.45 font sizes wide and the line is 0.9 font
// sizes high.
func EstimateSize(content string, opts Options) Size {
	n := uniseg.GraphemeClusterCount(PlainText(content, opts.Display))
	return Size{
		Width:  float64(n) * opts.FontSize * heuristicCharWidth,
		Height: opts.FontSize * heuristicLineHeight,
	}
}

// measure asks m for the size of content and falls back to EstimateSize
// when no measurer is set or measurement is unavailable.
func measure(m Measurer, content string, opts Options) Size {
	if m == nil {
		return EstimateSize(content, opts)
	}
	sz, err := m.Measure(content, opts)
	if err == nil {
		return sz
	}
	if !errors.Is(err, ErrMeasurementUnavailable) {
		Logger().Warn("geotext: measurement failed; using estimate", slog.String("err", err.Error()))
	}
	return EstimateSize(content, opts)
}
