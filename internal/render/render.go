// Package render writes a normalized block result in one of the CLI's output formats:
// an aligned org table, a terminal table, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"sqlblock/cli/internal/result"
)

// Func writes r to w.
type Func func(w io.Writer, r result.Result) error

// For returns the renderer of a format name.
func For(format string) (Func, error) {
	switch format {
	case "org":
		return Org, nil
	case "table":
		return Pretty, nil
	case "json":
		return JSON, nil
	case "yaml":
		return YAML, nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// FormatValue renders a literal-parsed value back into document text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = FormatValue(e)
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return fmt.Sprint(v)
}

// Org writes an org-mode result: ": value" lines for a scalar, an aligned table otherwise.
// An empty table writes nothing.
func Org(w io.Writer, r result.Result) error {
	_, err := io.WriteString(w, OrgString(r))
	return err
}

// OrgString is Org returning a string.
func OrgString(r result.Result) string {
	switch x := r.(type) {
	case result.Scalar:
		var b strings.Builder
		for _, line := range strings.Split(FormatValue(x.Value), "\n") {
			if line == "" {
				b.WriteString(":\n")
				continue
			}
			b.WriteString(": " + line + "\n")
		}
		return b.String()
	case result.Table:
		return orgTable(x)
	}
	return ""
}

func orgTable(t result.Table) string {
	cols := t.Width()
	if len(t.Rows) == 0 {
		return ""
	}
	if cols == 0 {
		cols = 1
	}

	text := make([][]string, len(t.Rows))
	widths := make([]int, cols)
	for i, row := range t.Rows {
		if row.Hline {
			continue
		}
		text[i] = make([]string, cols)
		for j := 0; j < cols; j++ {
			if j < len(row.Cells) {
				text[i][j] = strings.ReplaceAll(FormatValue(row.Cells[j]), "|", `\vert{}`)
				text[i][j] = strings.ReplaceAll(text[i][j], "\n", " ")
			}
			if wd := runewidth.StringWidth(text[i][j]); wd > widths[j] {
				widths[j] = wd
			}
		}
	}

	var b strings.Builder
	for i, row := range t.Rows {
		if row.Hline {
			b.WriteString("|")
			for j, wd := range widths {
				if j > 0 {
					b.WriteString("+")
				}
				b.WriteString(strings.Repeat("-", wd+2))
			}
			b.WriteString("|\n")
			continue
		}
		b.WriteString("|")
		for j, cell := range text[i] {
			b.WriteString(" " + runewidth.FillRight(cell, widths[j]) + " |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Pretty renders a table for the terminal with pterm.
func Pretty(w io.Writer, r result.Result) error {
	switch x := r.(type) {
	case result.Scalar:
		_, err := fmt.Fprintln(w, FormatValue(x.Value))
		return err
	case result.Table:
		if len(x.Rows) == 0 {
			_, err := fmt.Fprintln(w, pterm.Gray("(no rows)"))
			return err
		}
		var data pterm.TableData
		for _, row := range x.Rows {
			if row.Hline {
				continue
			}
			cells := make([]string, x.Width())
			for j := range cells {
				if j < len(row.Cells) {
					cells[j] = FormatValue(row.Cells[j])
				}
			}
			data = append(data, cells)
		}
		s, err := pterm.DefaultTable.WithHasHeader(x.HasHeader()).WithBoxed(true).WithData(data).Srender()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	}
	return nil
}

type scalarDoc struct {
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

type tableDoc struct {
	Type    string  `json:"type" yaml:"type"`
	Columns []any   `json:"columns,omitempty" yaml:"columns,omitempty"`
	Rows    [][]any `json:"rows" yaml:"rows"`
}

// Document converts a result into a plain structure for serialization.
// A header row separated by an hline becomes the columns list.
func Document(r result.Result) any {
	switch x := r.(type) {
	case result.Scalar:
		return scalarDoc{Type: "scalar", Value: x.Value}
	case result.Table:
		doc := tableDoc{Type: "table", Rows: [][]any{}}
		rows := x.Rows
		if x.HasHeader() {
			doc.Columns = rows[0].Cells
			rows = rows[2:]
		}
		for _, row := range rows {
			if row.Hline {
				continue
			}
			doc.Rows = append(doc.Rows, row.Cells)
		}
		return doc
	}
	return nil
}

// JSON writes the result as an indented JSON document.
func JSON(w io.Writer, r result.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document(r))
}

// YAML writes the result as a YAML document.
func YAML(w io.Writer, r result.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Document(r)); err != nil {
		return err
	}
	return enc.Close()
}
