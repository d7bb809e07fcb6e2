package geotext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Options are the per-text attributes recognized by the text element.
type Options struct {
	// Digits is the decimal precision used for numeric values.
	Digits int `toml:"digits" yaml:"digits"`
	// AnchorX and AnchorY align the text box around its position.
	AnchorX AnchorX `toml:"anchorx" yaml:"anchorx"`
	AnchorY AnchorY `toml:"anchory" yaml:"anchory"`
	// Frozen suppresses position updates during refresh.
	Frozen bool `toml:"frozen" yaml:"frozen"`
	// Display tells the paint backend whether the string carries markup.
	Display Display `toml:"display" yaml:"display"`
	// UseMarkupLanguage hands string content to the alternate typesetting
	// engine instead of compiling <value> tags.
	UseMarkupLanguage bool `toml:"usemarkuplanguage" yaml:"usemarkuplanguage"`
	// Offset is the [dx, dy] device-pixel offset of a label from its
	// parent's label anchor. dy points up.
	Offset []float64 `toml:"offset" yaml:"offset"`
	Visible bool      `toml:"visible" yaml:"visible"`
	// IsLabel marks the text as the label of its anchor element.
	IsLabel bool `toml:"islabel" yaml:"islabel"`
	// FontSize in device pixels, used by measurement backends and the
	// heuristic size estimate.
	FontSize float64 `toml:"fontsize" yaml:"fontsize"`
	// Rotate is a rotation in degrees about the text position, honored for
	// DisplayInternal.
	Rotate float64 `toml:"rotate" yaml:"rotate"`
	// Escape selects the escaping content filter: '<' and '>' in content are
	// shown literally and never interpreted as markup.
	Escape bool `toml:"escape" yaml:"escape"`
}

// DefaultOptions returns the options for free-standing text.
func DefaultOptions() Options {
	return Options{
		Digits:   2,
		AnchorX:  AnchorLeft,
		AnchorY:  AnchorBottom,
		Display:  DisplayHTML,
		Offset:   []float64{0, 0},
		Visible:  true,
		FontSize: 12,
	}
}

// LabelOptions returns the options for element labels.
func LabelOptions() Options {
	o := DefaultOptions()
	o.IsLabel = true
	o.Offset = []float64{10, 10}
	return o
}

// offset returns Offset as a vector; missing components are zero.
func (o Options) offset() Vec2 {
	var v Vec2
	if len(o.Offset) > 0 {
		v.X = o.Offset[0]
	}
	if len(o.Offset) > 1 {
		v.Y = o.Offset[1]
	}
	return v
}

// DecodeOptions decodes TOML attributes on top of DefaultOptions.
func DecodeOptions(data string) (Options, error) {
	o := DefaultOptions()
	if _, err := toml.Decode(data, &o); err != nil {
		return o, fmt.Errorf("geotext: decode options: %w", err)
	}
	return o, nil
}

// DecodeOptionsYAML decodes YAML attributes on top of DefaultOptions.
func DecodeOptionsYAML(data []byte) (Options, error) {
	o := DefaultOptions()
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf("geotext: decode options: %w", err)
	}
	return o, nil
}

// LoadOptionsFile reads a .toml, .yaml or .yml attribute file.
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultOptions(), fmt.Errorf("geotext: read options: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return DecodeOptions(string(data))
	case ".yaml", ".yml":
		return DecodeOptionsYAML(data)
	}
	return DefaultOptions(), fmt.Errorf("geotext: unknown options format %q", filepath.Ext(path))
}

// --- text encodings for enum attributes ---

// String returns "left", "middle" or "right".
func (a AnchorX) String() string {
	switch a {
	case AnchorCenter:
		return "middle"
	case AnchorRight:
		return "right"
	}
	return "left"
}

// MarshalText implements encoding.TextMarshaler.
func (a AnchorX) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AnchorX) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "left":
		*a = AnchorLeft
	case "middle":
		*a = AnchorCenter
	case "right":
		*a = AnchorRight
	default:
		return fmt.Errorf("geotext: invalid anchorx %q", b)
	}
	return nil
}

// String returns "bottom", "middle" or "top".
func (a AnchorY) String() string {
	switch a {
	case AnchorMiddle:
		return "middle"
	case AnchorTop:
		return "top"
	}
	return "bottom"
}

// MarshalText implements encoding.TextMarshaler.
func (a AnchorY) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AnchorY) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "bottom":
		*a = AnchorBottom
	case "middle":
		*a = AnchorMiddle
	case "top":
		*a = AnchorTop
	default:
		return fmt.Errorf("geotext: invalid anchory %q", b)
	}
	return nil
}

// String returns "html" or "internal".
func (d Display) String() string {
	if d == DisplayInternal {
		return "internal"
	}
	return "html"
}

// MarshalText implements encoding.TextMarshaler.
func (d Display) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Display) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "html":
		*d = DisplayHTML
	case "internal":
		*d = DisplayInternal
	default:
		return fmt.Errorf("geotext: invalid display %q", b)
	}
	return nil
}
