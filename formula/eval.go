package formula

import (
	"fmt"
	"math"
	"strconv"
)

// node is an AST node. Evaluation results are float64, string, bool or an
// element returned by the Env.
type node interface {
	eval(env Env) (any, error)
}

type numberNode float64

func (n numberNode) eval(Env) (any, error) { return float64(n), nil }

type stringNode string

func (n stringNode) eval(Env) (any, error) { return string(n), nil }

type refNode struct{ name string }

func (n *refNode) eval(env Env) (any, error) {
	if env != nil {
		if v, ok := env.Lookup(n.name); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownName, n.name)
}

type unaryNode struct {
	op string
	x  node
}

func (n *unaryNode) eval(env Env) (any, error) {
	v, err := n.x.eval(env)
	if err != nil {
		return nil, err
	}
	if n.op == "!" {
		return !truthy(v), nil
	}
	f, err := number(v)
	if err != nil {
		return nil, err
	}
	if n.op == "-" {
		return -f, nil
	}
	return f, nil
}

type binaryNode struct {
	op   string
	l, r node
}

func (n *binaryNode) eval(env Env) (any, error) {
	l, err := n.l.eval(env)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "&&":
		if !truthy(l) {
			return false, nil
		}
		r, err := n.r.eval(env)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	case "||":
		if truthy(l) {
			return true, nil
		}
		r, err := n.r.eval(env)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	}
	r, err := n.r.eval(env)
	if err != nil {
		return nil, err
	}
	if n.op == "+" {
		ls, lok := l.(string)
		rs, rok := r.(string)
		if lok || rok {
			if !lok {
				ls = stringify(l)
			}
			if !rok {
				rs = stringify(r)
			}
			return ls + rs, nil
		}
	}
	if n.op == "==" || n.op == "!=" {
		ls, lok := l.(string)
		rs, rok := r.(string)
		if lok && rok {
			return (ls == rs) == (n.op == "=="), nil
		}
	}
	a, err := number(l)
	if err != nil {
		return nil, err
	}
	b, err := number(r)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		return a / b, nil
	case "%":
		return math.Mod(a, b), nil
	case "^":
		return math.Pow(a, b), nil
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case ">=":
		return a >= b, nil
	}
	return nil, fmt.Errorf("formula: unknown operator %q", n.op)
}

type ternaryNode struct {
	cond, a, b node
}

func (n *ternaryNode) eval(env Env) (any, error) {
	c, err := n.cond.eval(env)
	if err != nil {
		return nil, err
	}
	if truthy(c) {
		return n.a.eval(env)
	}
	return n.b.eval(env)
}

type callNode struct {
	name string
	fn   function
	args []node
}

func (n *callNode) eval(env Env) (any, error) {
	args, err := evalArgs(env, n.args)
	if err != nil {
		return nil, err
	}
	return n.fn.call(args)
}

type methodNode struct {
	recv node
	name string
	args []node
}

func (n *methodNode) eval(env Env) (any, error) {
	recv, err := n.recv.eval(env)
	if err != nil {
		return nil, err
	}
	args, err := evalArgs(env, n.args)
	if err != nil {
		return nil, err
	}
	return methods[n.name](recv, args)
}

func evalArgs(env Env, nodes []node) ([]any, error) {
	args := make([]any, len(nodes))
	for i, a := range nodes {
		v, err := a.eval(env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// --- value helpers ---

// number coerces a value to float64. Valuer elements yield their value.
func number(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return math.NaN(), nil
		}
		return f, nil
	case Valuer:
		return x.Value(), nil
	}
	return 0, fmt.Errorf("%w: %T is not a number", ErrType, v)
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	case nil:
		return false
	}
	return true
}

func stringify(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	case Valuer:
		return strconv.FormatFloat(x.Value(), 'g', -1, 64)
	case Named:
		return x.Name()
	}
	return fmt.Sprint(v)
}

func point(v any) (Point, error) {
	p, ok := v.(Point)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a point", ErrType, v)
	}
	return p, nil
}
