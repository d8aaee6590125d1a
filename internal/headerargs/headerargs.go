// Package headerargs parses org-style header arguments such as
//
//	:db notes.db :colnames yes :separator "|" :var tbl=remarks
//
// into an options bag and variable bindings.
package headerargs

import (
	"fmt"
	"strings"

	apperrors "sqlblock/cli/internal/errors"
	"sqlblock/cli/internal/options"
)

// Parse reads a header-argument string. A key without a value maps to nil.
// Repeated keys keep the last value, except :var, whose name=value bindings accumulate.
func Parse(s string) (options.Bag, map[string]string, error) {
	tokens, err := tokenize(s)
	if err != nil {
		return nil, nil, err
	}

	bag := options.Bag{}
	vars := map[string]string{}
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if tok.quoted || !strings.HasPrefix(tok.text, ":") || len(tok.text) == 1 {
			return nil, nil, apperrors.New(apperrors.InvalidArguments, fmt.Sprintf("expected :key, got %q", tok.text))
		}
		key := tok.text[1:]
		i++

		var values []string
		for i < len(tokens) && (tokens[i].quoted || !strings.HasPrefix(tokens[i].text, ":")) {
			values = append(values, tokens[i].text)
			i++
		}

		if key == "var" {
			for _, v := range values {
				name, value, ok := strings.Cut(strings.TrimSuffix(v, ","), "=")
				if !ok || name == "" {
					return nil, nil, apperrors.New(apperrors.InvalidArguments, fmt.Sprintf(":var expects name=value, got %q", v))
				}
				vars[name] = value
			}
			continue
		}
		if len(values) == 0 {
			bag[key] = nil
			continue
		}
		bag[key] = strings.Join(values, " ")
	}
	return bag, vars, nil
}

// Merge layers bags; later bags override earlier ones key by key.
func Merge(bags ...options.Bag) options.Bag {
	out := options.Bag{}
	for _, b := range bags {
		for k, v := range b {
			out[k] = v
		}
	}
	return out
}

type token struct {
	text   string
	quoted bool
}

func tokenize(s string) ([]token, error) {
	var (
		tokens  []token
		cur     strings.Builder
		inQuote bool
		quoted  bool
		started bool
	)
	flush := func() {
		if started {
			tokens = append(tokens, token{text: cur.String(), quoted: quoted})
		}
		cur.Reset()
		quoted, started = false, false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\'):
			cur.WriteByte(s[i+1])
			i++
		case c == '"':
			inQuote = !inQuote
			quoted, started = true, true
		case !inQuote && (c == ' ' || c == '\t' || c == '\n'):
			flush()
		default:
			cur.WriteByte(c)
			started = true
		}
	}
	if inQuote {
		return nil, apperrors.New(apperrors.InvalidArguments, "unterminated quote in header arguments")
	}
	flush()
	return tokens, nil
}
