package geotext

import (
	"fmt"
	"log/slog"
	"time"
)

// debugStats holds per-update scheduling metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime time.Duration
	dirty      int
	refreshed  int
	cyclic     int
}

// debugLog reports update stats through the package logger.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	Logger().Debug("geotext: update",
		slog.Duration("time", stats.updateTime),
		slog.Int("dirty", stats.dirty),
		slog.Int("refreshed", stats.refreshed),
		slog.Int("cyclic", stats.cyclic))
}

// debugCheckDisposed panics with a descriptive message when a removed
// element is used in a graph operation. Callers only invoke it in debug mode.
func debugCheckDisposed(el Element, op string) {
	if el.IsDisposed() {
		panic(fmt.Sprintf("geotext debug: %s on removed element %q (ID was %d)", op, el.Name(), el.ID()))
	}
}

// debugMaxDependents is the dependent-set size above which a warning is logged.
const debugMaxDependents = 1000

func debugCheckDependentCount(e *element) {
	if len(e.dependents) > debugMaxDependents {
		Logger().Warn("geotext debug: large dependent set",
			slog.String("element", e.name),
			slog.Int("dependents", len(e.dependents)),
			slog.Int("threshold", debugMaxDependents))
	}
}
