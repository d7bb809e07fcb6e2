package geotext

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in an interaction script.
type scriptStep struct {
	Action string  `json:"action"`
	Name   string  `json:"name,omitempty"`
	Text   string  `json:"text,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Value  float64 `json:"value,omitempty"`
	Factor float64 `json:"factor,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure of an interaction script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner plays an interaction script against a scene, one step per
// Advance: drags through the inject queue, element moves, variable changes,
// zooms, and expectations on displayed text. Attach it with SetScript.
//
// Actions:
//
//	drag    fromX fromY toX toY frames   device pixels
//	move    name x y                     point position in user units
//	set     name value                   variable value
//	zoom    factor x y                   zoom about a device point
//	wait    frames
//	expect  name text                    display string of a text
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	failures  []string
}

// LoadScript parses a JSON interaction script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("geotext: parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("geotext: parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "drag", "move", "set", "zoom", "wait", "expect":
		default:
			return nil, fmt.Errorf("geotext: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// SetScript attaches r to the scene. Pass nil to detach.
func (s *Scene) SetScript(r *ScriptRunner) {
	s.script = r
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Failures returns the failed expectations and steps that referred to
// missing elements.
func (r *ScriptRunner) Failures() []string {
	return r.failures
}

func (r *ScriptRunner) failf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf("step %d: ", r.cursor)+fmt.Sprintf(format, args...))
}

// step advances the runner by one frame. Called from Scene.Advance before
// input is processed.
func (r *ScriptRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "move":
		p, ok := lookupAs[*Point](s, st.Name)
		if !ok {
			r.failf("no point %q", st.Name)
			break
		}
		p.SetPosition(st.X, st.Y)
	case "set":
		v, ok := lookupAs[*Variable](s, st.Name)
		if !ok {
			r.failf("no variable %q", st.Name)
			break
		}
		v.Set(st.Value)
	case "zoom":
		s.canvas.ZoomAt(st.Factor, st.X, st.Y)
		s.Invalidate()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "expect":
		t, ok := lookupAs[*Text](s, st.Name)
		if !ok {
			r.failf("no text %q", st.Name)
			break
		}
		if t.IsDirty() {
			t.Refresh()
		}
		if t.Display() != st.Text {
			r.failf("%s shows %q, want %q", st.Name, t.Display(), st.Text)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

// lookupAs finds the element called name and asserts its concrete type.
func lookupAs[T Element](s *Scene, name string) (T, bool) {
	var zero T
	el, ok := s.Lookup(name)
	if !ok {
		return zero, false
	}
	t, ok := el.(T)
	return t, ok
}
