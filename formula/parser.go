package formula

import "fmt"

// parser is a recursive-descent parser over the token slice produced by lex.
type parser struct {
	src  string
	toks []token
	pos  int
	refs []string
	seen map[string]bool
}

func parse(src string) (node, []string, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, nil, err
	}
	p := &parser{src: src, toks: toks, seen: make(map[string]bool)}
	if p.peek().kind == tokEOF {
		return nil, nil, p.errorf(p.peek(), "empty formula")
	}
	n, err := p.expr()
	if err != nil {
		return nil, nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, nil, p.errorf(t, "unexpected %s %q", t.kind, t.text)
	}
	return n, p.refs, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(op string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == op
}

func (p *parser) expect(op string) error {
	if !p.isOp(op) {
		t := p.peek()
		if t.kind == tokEOF {
			return p.errorf(t, "expected %q", op)
		}
		return p.errorf(t, "expected %q, found %q", op, t.text)
	}
	p.next()
	return nil
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &SyntaxError{Src: p.src, Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) addRef(name string) {
	if !p.seen[name] {
		p.seen[name] = true
		p.refs = append(p.refs, name)
	}
}

func (p *parser) expr() (node, error) {
	cond, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.isOp("?") {
		return cond, nil
	}
	p.next()
	a, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	b, err := p.expr()
	if err != nil {
		return nil, err
	}
	return &ternaryNode{cond: cond, a: a, b: b}, nil
}

// binaryLevel parses one left-associative precedence level.
func (p *parser) binaryLevel(ops []string, operand func() (node, error)) (node, error) {
	l, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op := ""
		for _, o := range ops {
			if p.isOp(o) {
				op = o
				break
			}
		}
		if op == "" {
			return l, nil
		}
		p.next()
		r, err := operand()
		if err != nil {
			return nil, err
		}
		l = &binaryNode{op: op, l: l, r: r}
	}
}

func (p *parser) or() (node, error) {
	return p.binaryLevel([]string{"||"}, p.and)
}

func (p *parser) and() (node, error) {
	return p.binaryLevel([]string{"&&"}, p.cmp)
}

func (p *parser) cmp() (node, error) {
	l, err := p.sum()
	if err != nil {
		return nil, err
	}
	for _, op := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if p.isOp(op) {
			p.next()
			r, err := p.sum()
			if err != nil {
				return nil, err
			}
			return &binaryNode{op: op, l: l, r: r}, nil
		}
	}
	return l, nil
}

func (p *parser) sum() (node, error) {
	return p.binaryLevel([]string{"+", "-"}, p.product)
}

func (p *parser) product() (node, error) {
	return p.binaryLevel([]string{"*", "/", "%"}, p.unary)
}

func (p *parser) unary() (node, error) {
	for _, op := range []string{"-", "+", "!"} {
		if p.isOp(op) {
			p.next()
			x, err := p.unary()
			if err != nil {
				return nil, err
			}
			return &unaryNode{op: op, x: x}, nil
		}
	}
	return p.power()
}

func (p *parser) power() (node, error) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	// Right-associative; the exponent may carry its own sign.
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &binaryNode{op: "^", l: base, r: exp}, nil
}

func (p *parser) postfix() (node, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.isOp(".") {
		p.next()
		t := p.next()
		if t.kind != tokIdent {
			return nil, p.errorf(t, "expected method name after '.'")
		}
		if _, ok := methods[t.text]; !ok {
			return nil, p.errorf(t, "unknown method %q", t.text)
		}
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		x = &methodNode{recv: x, name: t.text, args: args}
	}
	return x, nil
}

// args parses a parenthesized, comma separated argument list.
func (p *parser) args() ([]node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var args []node
	if p.isOp(")") {
		p.next()
		return args, nil
	}
	for {
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.isOp(",") {
			p.next()
			continue
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return numberNode(t.num), nil
	case tokString:
		return stringNode(t.text), nil
	case tokIdent:
		if p.isOp("(") {
			fn, ok := functions[t.text]
			if !ok {
				return nil, p.errorf(t, "unknown function %q", t.text)
			}
			args, err := p.args()
			if err != nil {
				return nil, err
			}
			if fn.arity >= 0 && len(args) != fn.arity {
				return nil, p.errorf(t, "%s takes %d arguments, got %d", t.text, fn.arity, len(args))
			}
			return &callNode{name: t.text, fn: fn, args: args}, nil
		}
		if v, ok := constants[t.text]; ok {
			return numberNode(v), nil
		}
		p.addRef(t.text)
		return &refNode{name: t.text}, nil
	case tokOp:
		if t.text == "(" {
			x, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return x, nil
		}
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return nil, p.errorf(t, "unexpected end of formula")
}
