package geotext

import (
	"math"
	"strconv"
	"strings"
)

// toFloat reports whether v is a Go numeric value and returns it as float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// formatFixed formats v with exactly digits decimals. Infinities are spelled
// out and values that round to zero print without a sign.
func formatFixed(v float64, digits int) string {
	if digits < 0 {
		digits = 0
	} else if digits > 100 {
		digits = 100
	}
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	out := strconv.FormatFloat(v, 'f', digits, 64)
	if out[0] == '-' && strings.Trim(out[1:], "0.") == "" {
		return out[1:] // no sign on values that round to zero
	}
	return out
}

// formatValue turns an evaluation result into display text. Numbers get
// fixed-decimal formatting, strings pass through, anything else uses its
// default formatting.
func formatValue(v any, digits int) string {
	if f, ok := toFloat(v); ok {
		return formatFixed(f, digits)
	}
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	case interface{ String() string }:
		return s.String()
	}
	return "NaN"
}

// constFunc returns a coordinate function that always yields v.
func constFunc(v float64) func() float64 {
	return func() float64 { return v }
}
