package formula

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by Formula.Eval.
var (
	ErrUnknownName = errors.New("formula: unknown name")
	ErrType        = errors.New("formula: type mismatch")
	ErrArity       = errors.New("formula: wrong number of arguments")
)

// SyntaxError reports a formula that cannot be parsed.
type SyntaxError struct {
	Src string
	Pos int // byte offset in Src
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula: syntax error at %d in %q: %s", e.Pos, e.Src, e.Msg)
}
