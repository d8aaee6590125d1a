package result

import (
	"regexp"
	"strconv"
	"strings"
)

// LiteralParser converts a cell's text into a typed value.
type LiteralParser interface {
	ParseLiteral(s string) any
}

// LiteralFunc adapts a function to LiteralParser.
type LiteralFunc func(s string) any

func (f LiteralFunc) ParseLiteral(s string) any { return f(s) }

// Strings keeps every cell as its trimmed text.
var Strings LiteralParser = LiteralFunc(func(s string) any { return strings.TrimSpace(s) })

// DefaultParser reads cells the way the document reads literals elsewhere:
//   - integers become int64, decimal and exponent forms become float64
//   - "double quoted" text becomes the unquoted string
//   - (a b c) becomes a []any of literal-parsed elements
//   - anything else stays a string
var DefaultParser LiteralParser = LiteralFunc(parseLiteral)

var (
	reInt   = regexp.MustCompile(`^[-+]?[0-9]+$`)
	reFloat = regexp.MustCompile(`^[-+]?([0-9]+\.[0-9]*|\.[0-9]+|[0-9]+)([eE][-+]?[0-9]+)?$`)
)

func parseLiteral(s string) any {
	t := strings.TrimSpace(s)
	switch {
	case t == "":
		return ""
	case reInt.MatchString(t):
		// Out-of-range integers stay text rather than lose precision.
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
		return t
	case reFloat.MatchString(t):
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
		return t
	case len(t) >= 2 && t[0] == '"' && t[len(t)-1] == '"':
		if u, err := strconv.Unquote(t); err == nil {
			return u
		}
		return strings.ReplaceAll(t[1:len(t)-1], `\"`, `"`)
	case len(t) >= 2 && t[0] == '(' && t[len(t)-1] == ')':
		fields := strings.Fields(t[1 : len(t)-1])
		list := make([]any, 0, len(fields))
		for _, f := range fields {
			list = append(list, parseLiteral(f))
		}
		return list
	}
	return t
}
