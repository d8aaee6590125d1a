package result

import (
	"encoding/csv"
	"regexp"
	"strings"
)

// Options controls how raw client output is normalized.
type Options struct {
	// HeaderDisplay marks the first row as column names and puts an hline after it.
	HeaderDisplay bool
	// Explicit is set when the user chose the client's output mode or a separator,
	// so the output is not guaranteed to be the structured CSV default.
	Explicit bool
	// Separator is the configured column separator, if any.
	Separator string
	// Parser reads cell literals; nil means DefaultParser.
	Parser LiteralParser
}

var (
	reColumnGap = regexp.MustCompile(`\s{2,}`)
	reUnderline = regexp.MustCompile(`^[-\s]+$`)
)

// Normalize converts raw client output into a Result.
func Normalize(raw string, opts Options) Result {
	if strings.TrimSpace(raw) == "" {
		return Table{}
	}
	parser := opts.Parser
	if parser == nil {
		parser = DefaultParser
	}

	var grid [][]string
	if opts.Explicit {
		grid = splitColumns(raw, opts.Separator)
	} else {
		grid = parseCSV(raw)
	}
	if len(grid) == 0 {
		return Table{}
	}

	rows := make([]Row, 0, len(grid)+1)
	for i, record := range grid {
		cells := make([]any, len(record))
		for j, c := range record {
			cells[j] = parser.ParseLiteral(c)
		}
		rows = append(rows, Row{Cells: cells})
		if i == 0 && opts.HeaderDisplay {
			rows = append(rows, Hline())
		}
	}

	if len(rows) == 1 && len(rows[0].Cells) == 1 {
		return Scalar{Value: rows[0].Cells[0]}
	}
	return Table{Rows: rows}
}

// parseCSV reads the structured default mode. A malformed document falls back to
// the columnar split so the rows are still shown.
func parseCSV(raw string) [][]string {
	r := csv.NewReader(strings.NewReader(raw))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return splitColumns(raw, "")
	}
	return records
}

// splitColumns is the heuristic used when the client's own mode governs the output:
// the configured separator when there is one, otherwise tabs when every line has one,
// otherwise CSV when every line has a comma, otherwise runs of two or more spaces.
func splitColumns(raw, sep string) [][]string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	switch {
	case sep != "":
		return splitEach(lines, func(l string) []string { return strings.Split(l, sep) })
	case allContain(lines, "\t"):
		return splitEach(lines, func(l string) []string { return strings.Split(l, "\t") })
	case allContain(lines, ","):
		r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
		r.LazyQuotes = true
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true
		if records, err := r.ReadAll(); err == nil {
			return records
		}
		return splitEach(lines, func(l string) []string { return strings.Split(l, ",") })
	}

	// -column mode underlines its header with dashes; the hline replaces it.
	var kept []string
	for _, l := range lines {
		if !reUnderline.MatchString(l) {
			kept = append(kept, l)
		}
	}
	return splitEach(kept, func(l string) []string { return reColumnGap.Split(strings.TrimSpace(l), -1) })
}

func splitEach(lines []string, split func(string) []string) [][]string {
	grid := make([][]string, 0, len(lines))
	for _, l := range lines {
		fields := split(l)
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
		grid = append(grid, fields)
	}
	return grid
}

func allContain(lines []string, s string) bool {
	for _, l := range lines {
		if !strings.Contains(l, s) {
			return false
		}
	}
	return true
}
