package formula

// Env resolves element names referenced by a formula.
type Env interface {
	Lookup(name string) (any, bool)
}

// EnvFunc adapts a function to Env.
type EnvFunc func(name string) (any, bool)

// Lookup implements Env.
func (f EnvFunc) Lookup(name string) (any, bool) { return f(name) }

// Point is an element with user-space coordinates.
type Point interface {
	X() float64
	Y() float64
}

// Valuer is an element carrying a single number, such as a slider.
type Valuer interface {
	Value() float64
}

// Named is an element with a name.
type Named interface {
	Name() string
}

// Formula is a compiled formula bound to an Env.
type Formula struct {
	src  string
	root node
	refs []string
	env  Env
}

// Eval evaluates the formula against the current state of its Env. The
// result is a float64, string or bool.
func (f *Formula) Eval() (any, error) {
	v, err := f.root.eval(f.env)
	if err != nil {
		return nil, err
	}
	if val, ok := v.(Valuer); ok {
		return val.Value(), nil
	}
	if _, ok := v.(Point); ok {
		return stringify(v), nil
	}
	return v, nil
}

// References returns the distinct element names the formula refers to, in
// order of first appearance.
func (f *Formula) References() []string {
	return f.refs
}

// Source returns the formula text.
func (f *Formula) Source() string {
	return f.src
}

// Compiler compiles formulas against a fixed Env.
type Compiler struct {
	env Env
}

// NewCompiler returns a compiler whose formulas resolve names through env.
// env may be nil for formulas without references.
func NewCompiler(env Env) *Compiler {
	return &Compiler{env: env}
}

// Compile parses src. Parse failures are returned as *SyntaxError.
// Unknown names are not an error here; they fail at evaluation time, since
// referenced elements may be created later.
func (c *Compiler) Compile(src string) (*Formula, error) {
	root, refs, err := parse(src)
	if err != nil {
		return nil, err
	}
	return &Formula{src: src, root: root, refs: refs, env: c.env}, nil
}

// Compile parses src without an Env.
func Compile(src string) (*Formula, error) {
	return NewCompiler(nil).Compile(src)
}
