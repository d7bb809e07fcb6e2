package geotext

import (
	"context"
	"log/slog"

	"github.com/sahilm/fuzzy"
)

// registerDependencies adds t to the dependent set of every element named in
// refs. Names that resolve to nothing are skipped: templates often refer to
// elements that are created later. Self-references are ignored.
func registerDependencies(t *Text, refs []string) {
	s := t.scene
	for _, name := range refs {
		el, ok := s.Lookup(name)
		if !ok {
			logUnresolved(s, t, name)
			continue
		}
		if el == Element(t) {
			continue
		}
		el.AddDependent(t)
	}
}

// logUnresolved logs a missing reference along with the closest known name.
func logUnresolved(s *Scene, t *Text, name string) {
	log := Logger()
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []any{slog.String("text", t.Name()), slog.String("ref", name)}
	if hint := suggestName(name, s.names()); hint != "" {
		attrs = append(attrs, slog.String("suggest", hint))
	}
	log.Debug("geotext: unresolved reference", attrs...)
}

// suggestName returns the best fuzzy match for name among candidates.
func suggestName(name string, candidates []string) string {
	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
