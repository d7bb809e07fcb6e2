package formula

import (
	"fmt"
	"math"
	"strconv"
)

type function struct {
	arity int // -1 for variadic
	call  func(args []any) (any, error)
}

var constants = map[string]float64{
	"PI":    math.Pi,
	"E":     math.E,
	"EULER": math.E,
}

func unaryMath(f func(float64) float64) function {
	return function{arity: 1, call: func(args []any) (any, error) {
		x, err := number(args[0])
		if err != nil {
			return nil, err
		}
		return f(x), nil
	}}
}

func binaryMath(f func(a, b float64) float64) function {
	return function{arity: 2, call: func(args []any) (any, error) {
		a, err := number(args[0])
		if err != nil {
			return nil, err
		}
		b, err := number(args[1])
		if err != nil {
			return nil, err
		}
		return f(a, b), nil
	}}
}

func foldMath(f func(a, b float64) float64) function {
	return function{arity: -1, call: func(args []any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: need at least one", ErrArity)
		}
		acc, err := number(args[0])
		if err != nil {
			return nil, err
		}
		for _, a := range args[1:] {
			x, err := number(a)
			if err != nil {
				return nil, err
			}
			acc = f(acc, x)
		}
		return acc, nil
	}}
}

func coordFunc(get func(Point) float64) function {
	return function{arity: 1, call: func(args []any) (any, error) {
		p, err := point(args[0])
		if err != nil {
			return nil, err
		}
		return get(p), nil
	}}
}

var functions = map[string]function{
	"sin":   unaryMath(math.Sin),
	"cos":   unaryMath(math.Cos),
	"tan":   unaryMath(math.Tan),
	"asin":  unaryMath(math.Asin),
	"acos":  unaryMath(math.Acos),
	"atan":  unaryMath(math.Atan),
	"sqrt":  unaryMath(math.Sqrt),
	"abs":   unaryMath(math.Abs),
	"exp":   unaryMath(math.Exp),
	"log":   unaryMath(math.Log),
	"ln":    unaryMath(math.Log),
	"log10": unaryMath(math.Log10),
	"floor": unaryMath(math.Floor),
	"ceil":  unaryMath(math.Ceil),
	"round": unaryMath(math.Round),
	"atan2": binaryMath(math.Atan2),
	"pow":   binaryMath(math.Pow),
	"min":   foldMath(math.Min),
	"max":   foldMath(math.Max),

	"X": coordFunc(func(p Point) float64 { return p.X() }),
	"Y": coordFunc(func(p Point) float64 { return p.Y() }),
	"V": {arity: 1, call: func(args []any) (any, error) {
		v, ok := args[0].(Valuer)
		if !ok {
			return nil, fmt.Errorf("%w: %T has no value", ErrType, args[0])
		}
		return v.Value(), nil
	}},
	"Dist": {arity: 2, call: func(args []any) (any, error) {
		p, err := point(args[0])
		if err != nil {
			return nil, err
		}
		q, err := point(args[1])
		if err != nil {
			return nil, err
		}
		return math.Hypot(p.X()-q.X(), p.Y()-q.Y()), nil
	}},
	"toFixed": {arity: 2, call: func(args []any) (any, error) {
		return toFixed(args[0], args[1:])
	}},
}

var methods = map[string]func(recv any, args []any) (any, error){
	"X": func(recv any, args []any) (any, error) {
		return callCoord(recv, args, func(p Point) float64 { return p.X() })
	},
	"Y": func(recv any, args []any) (any, error) {
		return callCoord(recv, args, func(p Point) float64 { return p.Y() })
	},
	"Value": func(recv any, args []any) (any, error) {
		if len(args) != 0 {
			return nil, fmt.Errorf("%w: Value takes none", ErrArity)
		}
		v, ok := recv.(Valuer)
		if !ok {
			return nil, fmt.Errorf("%w: %T has no value", ErrType, recv)
		}
		return v.Value(), nil
	},
	"Name": func(recv any, args []any) (any, error) {
		n, ok := recv.(Named)
		if !ok {
			return nil, fmt.Errorf("%w: %T has no name", ErrType, recv)
		}
		return n.Name(), nil
	},
	"toFixed": toFixed,
}

func callCoord(recv any, args []any, get func(Point) float64) (any, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("%w: coordinate methods take none", ErrArity)
	}
	p, err := point(recv)
	if err != nil {
		return nil, err
	}
	return get(p), nil
}

// toFixed formats x with a fixed number of decimals and returns a string.
func toFixed(x any, args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: toFixed takes one", ErrArity)
	}
	f, err := number(x)
	if err != nil {
		return nil, err
	}
	d, err := number(args[0])
	if err != nil {
		return nil, err
	}
	digits := int(d)
	if digits < 0 || digits > 100 {
		return nil, fmt.Errorf("%w: toFixed digits %d out of range", ErrType, digits)
	}
	if f == 0 {
		f = 0
	}
	return strconv.FormatFloat(f, 'f', digits, 64), nil
}
