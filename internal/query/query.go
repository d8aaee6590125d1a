// Package query assembles the text sent to a database client on stdin.
package query

import (
	"sort"
	"strings"
)

// Assemble joins prologue, body and epilogue, each on its own line.
// Empty parts are skipped and the result ends with a newline unless it is empty.
func Assemble(prologue, body, epilogue string) string {
	var parts []string
	for _, p := range []string{prologue, body, epilogue} {
		p = strings.TrimRight(p, "\n")
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n") + "\n"
}

// Expand substitutes $name references in body with the bound values.
// Longer names are replaced first so $total is not clobbered by a binding for $to.
func Expand(body string, vars map[string]string) string {
	if len(vars) == 0 {
		return body
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, "$"+name, vars[name])
	}
	return strings.NewReplacer(pairs...).Replace(body)
}
