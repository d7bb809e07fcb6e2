package formula

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokOp
)

func (k tokenKind) String() string {
	switch k {
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokIdent:
		return "identifier"
	case tokOp:
		return "operator"
	}
	return "end of formula"
}

type token struct {
	kind tokenKind
	text string  // operator or identifier text, decoded string literal
	num  float64 // tokNumber
	pos  int     // byte offset in the source
}

// twoCharOps are matched before single-character operators.
var twoCharOps = []string{"==", "!=", "<=", ">=", "&&", "||", "**"}

const oneCharOps = "+-*/%^()<>!?:,."

// lex splits src into tokens. The returned slice always ends with tokEOF.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isDigit(r) || (r == '.' && i+1 < len(src) && isDigit(rune(src[i+1]))):
			end := scanNumber(src, i)
			v, err := strconv.ParseFloat(src[i:end], 64)
			if err != nil {
				return nil, &SyntaxError{Src: src, Pos: i, Msg: fmt.Sprintf("malformed number %q", src[i:end])}
			}
			toks = append(toks, token{kind: tokNumber, num: v, text: src[i:end], pos: i})
			i = end
		case isIdentStart(r):
			start := i
			for i < len(src) {
				r, size = utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r) {
					break
				}
				i += size
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case r == '"' || r == '\'':
			s, end, err := scanString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, text: s, pos: i})
			i = end
		default:
			op := ""
			for _, two := range twoCharOps {
				if strings.HasPrefix(src[i:], two) {
					op = two
					break
				}
			}
			if op == "" && strings.ContainsRune(oneCharOps, r) {
				op = string(r)
			}
			if op == "" {
				return nil, &SyntaxError{Src: src, Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
			}
			if op == "**" {
				// Power, spelled like the host language of many authoring tools.
				toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			} else {
				toks = append(toks, token{kind: tokOp, text: op, pos: i})
			}
			i += len(op)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func scanNumber(src string, i int) int {
	for i < len(src) && isDigit(rune(src[i])) {
		i++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(rune(src[i])) {
			i++
		}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(rune(src[j])) {
			i = j
			for i < len(src) && isDigit(rune(src[i])) {
				i++
			}
		}
	}
	return i
}

// scanString reads a quoted literal starting at src[i] and returns its
// decoded value and the offset just past the closing quote.
func scanString(src string, i int) (string, int, error) {
	quote := src[i]
	var b strings.Builder
	j := i + 1
	for j < len(src) {
		c := src[j]
		switch c {
		case quote:
			return b.String(), j + 1, nil
		case '\\':
			if j+1 < len(src) {
				b.WriteByte(src[j+1])
				j += 2
				continue
			}
		}
		b.WriteByte(c)
		j++
	}
	return "", 0, &SyntaxError{Src: src, Pos: i, Msg: "unterminated string"}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || r == '$' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool { return isIdentStart(r) || unicode.IsDigit(r) }
