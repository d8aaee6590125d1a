// Package result normalizes the raw text printed by a database client into the value
// a document splices back: a single scalar, or a table of rows with optional hline rows.
//
// Normalization never fails. Output that does not parse cleanly degrades to a
// best-effort split with raw strings as cells, so the user sees partial data instead
// of nothing.
package result

// Result is either a Scalar or a Table.
type Result interface {
	isResult()
}

// Scalar is a degenerate one-cell result.
type Scalar struct {
	Value any
}

// Table is an ordered sequence of rows. A zero Table means "no rows".
type Table struct {
	Rows []Row
}

func (Scalar) isResult() {}
func (Table) isResult()  {}

// Row is either an hline separating the header from the data, or a row of cells.
type Row struct {
	Hline bool
	Cells []any
}

// Hline returns a separator row.
func Hline() Row { return Row{Hline: true} }

// Cells builds a data row.
func Cells(values ...any) Row { return Row{Cells: values} }

// Width returns the number of columns of the widest data row.
func (t Table) Width() int {
	w := 0
	for _, r := range t.Rows {
		if len(r.Cells) > w {
			w = len(r.Cells)
		}
	}
	return w
}

// HasHeader reports whether the table's second row is an hline, i.e. the first row holds column names.
func (t Table) HasHeader() bool {
	return len(t.Rows) > 1 && t.Rows[1].Hline && !t.Rows[0].Hline
}
