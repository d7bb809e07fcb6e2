package geotext

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Content is the input of a text: a String template, a Number or a Dynamic
// callback.
type Content interface {
	isContent()
}

// String is a template. Formulas embedded in <value>...</value> tags are
// evaluated on every refresh.
type String string

// Number is shown with the text's decimal precision.
type Number float64

// Dynamic is called on every refresh. It should return a string or a number;
// numbers are shown with the text's decimal precision.
type Dynamic func() any

func (String) isContent()  {}
func (Number) isContent()  {}
func (Dynamic) isContent() {}

// ContentOf converts a Go value to Content. It accepts Content values,
// strings, Go numbers and func() any, func() string and func() float64
// callbacks.
func ContentOf(v any) (Content, error) {
	switch c := v.(type) {
	case Content:
		return c, nil
	case string:
		return String(c), nil
	case func() any:
		return Dynamic(c), nil
	case func() string:
		return Dynamic(func() any { return c() }), nil
	case func() float64:
		return Dynamic(func() any { return c() }), nil
	}
	if f, ok := toFloat(v); ok {
		return Number(f), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedContent, v)
}

// Formula is a compiled embedded formula.
type Formula interface {
	// Eval computes the current value: a number, string or bool.
	Eval() (any, error)
	// References returns the element names the formula reads.
	References() []string
}

// FormulaCompiler compiles the body of a <value> tag.
type FormulaCompiler interface {
	CompileFormula(src string) (Formula, error)
}

// FormulaCompilerFunc adapts a function to FormulaCompiler.
type FormulaCompilerFunc func(src string) (Formula, error)

// CompileFormula implements FormulaCompiler.
func (f FormulaCompilerFunc) CompileFormula(src string) (Formula, error) { return f(src) }

// Evaluator produces the display string of a text.
type Evaluator interface {
	Evaluate() (string, error)
}

// CompileConfig holds the options that affect template compilation.
type CompileConfig struct {
	Digits            int
	UseMarkupLanguage bool
	Compiler          FormulaCompiler
}

// segment is one piece of a compiled template: literal text or a formula.
type segment struct {
	literal string
	formula Formula
	src     string
	// selfFormatted formulas format their own numbers (toFixed).
	selfFormatted bool
}

// Template is a compiled Content. It is immutable; a text replaces it
// wholesale when its content changes.
type Template struct {
	segments []segment
	dynamic  Dynamic
	digits   int
	compiled string
	volatile bool
	refs     []string
}

// Compile turns raw into a Template. Malformed <value> pairing is reported
// as *TemplateError; a formula the compiler rejects as *FormulaSyntaxError.
func Compile(raw Content, cfg CompileConfig) (*Template, error) {
	switch c := raw.(type) {
	case Dynamic:
		if c == nil {
			return nil, fmt.Errorf("%w: nil callback", ErrUnsupportedContent)
		}
		return &Template{dynamic: c, digits: cfg.Digits, compiled: "dynamic()", volatile: true}, nil
	case Number:
		s := formatFixed(float64(c), cfg.Digits)
		return &Template{segments: []segment{{literal: s}}, digits: cfg.Digits, compiled: strconv.Quote(s)}, nil
	case String:
		if cfg.UseMarkupLanguage {
			s := "`" + string(c) + "`"
			return &Template{segments: []segment{{literal: s}}, digits: cfg.Digits, compiled: strconv.Quote(s), volatile: true}, nil
		}
		return compileString(string(c), cfg)
	case nil:
		return literalTemplate("", cfg.Digits), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedContent, raw)
}

func compileString(raw string, cfg CompileConfig) (*Template, error) {
	src := sanitize(raw)
	t := &Template{digits: cfg.Digits}
	seen := make(map[string]bool)
	var parts []string

	addLiteral := func(s string) {
		s = rewriteLiteral(s)
		t.segments = append(t.segments, segment{literal: s})
		parts = append(parts, strconv.Quote(s))
	}

	rest, base := src, 0
	for {
		i := strings.Index(rest, "<value>")
		j := strings.Index(rest, "</value>")
		if i < 0 && j < 0 {
			break
		}
		switch {
		case j >= 0 && (i < 0 || j < i):
			return nil, &TemplateError{Template: raw, Offset: base + j, Msg: "</value> without <value>"}
		case j < 0:
			return nil, &TemplateError{Template: raw, Offset: base + i, Msg: "unterminated <value>"}
		}
		body := rest[i+len("<value>") : j]
		if k := strings.Index(body, "<value>"); k >= 0 {
			return nil, &TemplateError{Template: raw, Offset: base + i + len("<value>") + k, Msg: "nested <value>"}
		}

		addLiteral(rest[:i])

		body = formulaEntities.Replace(body)
		if cfg.Compiler == nil {
			return nil, &FormulaSyntaxError{Formula: body, Err: ErrNoFormulaCompiler}
		}
		f, err := cfg.Compiler.CompileFormula(body)
		if err != nil {
			return nil, &FormulaSyntaxError{Formula: body, Err: err}
		}
		seg := segment{formula: f, src: body, selfFormatted: strings.Contains(body, "toFixed")}
		t.segments = append(t.segments, seg)
		if seg.selfFormatted {
			parts = append(parts, "("+body+")")
		} else {
			parts = append(parts, fmt.Sprintf("fixed(%s, %d)", body, cfg.Digits))
		}
		for _, ref := range f.References() {
			if !seen[ref] {
				seen[ref] = true
				t.refs = append(t.refs, ref)
			}
		}
		t.volatile = true

		adv := j + len("</value>")
		rest = rest[adv:]
		base += adv
	}
	addLiteral(rest)
	t.compiled = strings.Join(parts, " + ")
	return t, nil
}

// literalTemplate shows s as text: sanitized and rewritten, with any
// <value> tags left as they are.
func literalTemplate(s string, digits int) *Template {
	lit := rewriteLiteral(sanitize(s))
	return &Template{
		segments: []segment{{literal: lit}},
		digits:   digits,
		compiled: strconv.Quote(lit),
	}
}

// Evaluate concatenates the current segment values. A formula that fails
// renders as NaN; the failures are joined into the returned error and the
// remaining segments are still evaluated.
func (t *Template) Evaluate() (string, error) {
	if t.dynamic != nil {
		return formatValue(t.dynamic(), t.digits), nil
	}
	if len(t.segments) == 1 && t.segments[0].formula == nil {
		return t.segments[0].literal, nil
	}
	var b strings.Builder
	var errs []error
	for _, seg := range t.segments {
		if seg.formula == nil {
			b.WriteString(seg.literal)
			continue
		}
		v, err := seg.formula.Eval()
		if err != nil {
			errs = append(errs, fmt.Errorf("geotext: evaluate %q: %w", seg.src, err))
			b.WriteString("NaN")
			continue
		}
		if f, ok := toFloat(v); ok && seg.selfFormatted {
			b.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
			continue
		}
		b.WriteString(formatValue(v, t.digits))
	}
	return b.String(), errors.Join(errs...)
}

// Volatile reports whether the display string can change between refreshes
// without a content change, which forces remeasurement.
func (t *Template) Volatile() bool { return t.volatile }

// References returns the element names read by the embedded formulas in
// order of first appearance.
func (t *Template) References() []string { return t.refs }

// Compiled returns the concatenation expression the template was compiled
// into, e.g. "a = " + fixed(X(A), 2) + "". It is for diagnostics only.
func (t *Template) Compiled() string { return t.compiled }

// contentFilter preprocesses content before compilation.
type contentFilter interface {
	filter(c Content) Content
}

// plainFilter passes content through.
type plainFilter struct{}

func (plainFilter) filter(c Content) Content { return c }

// escapeFilter shows '<' and '>' literally, so content cannot inject markup
// or embedded formulas.
type escapeFilter struct{}

func (escapeFilter) filter(c Content) Content {
	switch v := c.(type) {
	case String:
		return String(escapeReplacer.Replace(string(v)))
	case Dynamic:
		if v == nil {
			return v
		}
		return Dynamic(func() any {
			r := v()
			if s, ok := r.(string); ok {
				return escapeReplacer.Replace(s)
			}
			return r
		})
	}
	return c
}

func filterFor(o Options) contentFilter {
	if o.Escape {
		return escapeFilter{}
	}
	return plainFilter{}
}
