package store

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatArgs renders a positional argument list the way it is written to an
// inputs log: a parenthesized, comma-separated tuple with a trailing comma
// for a single element, e.g. `()`, `("foo",)`, `("a", 1, 2.5)`.
//
// Elements are rendered as follows: strings are Go-quoted, byte slices are
// Go-quoted with a "b" prefix, integers are base 10, floats use the same
// form Store writes, nil is None and booleans are True or False.
// Anything else falls back to %v.
func FormatArgs(args ...any) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(formatArg(a))
	}
	if len(args) == 1 {
		sb.WriteByte(',')
	}
	sb.WriteByte(')')
	return sb.String()
}

// FormatResult renders a single result for an outputs log. It matches
// formatArg except that strings are written unquoted.
func FormatResult(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return formatArg(v)
}

func formatArg(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case string:
		return strconv.Quote(v)
	case []byte:
		if v == nil {
			return "None"
		}
		return "b" + strconv.Quote(string(v))
	case bool:
		if v {
			return "True"
		}
		return "False"
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
