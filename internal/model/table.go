package model

import "math"

// Table is a rendered result: named columns over rows keyed by the input row
// index (Key is nil) or by a group key. Cells hold float64 (NaN renders as an
// empty cell), int, bool or string values.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`

	// InputColumns counts the leading columns copied verbatim from the
	// input file. Exporters never translate them.
	InputColumns int `json:"-"`
}

// NewTable creates an empty table with the given columns.
func NewTable(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Append adds a row. The row must match the column count.
func (t *Table) Append(row ...any) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column, or -1.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Value returns the cell at row i in the named column, or nil.
func (t *Table) Value(i int, column string) any {
	j := t.Index(column)
	if j < 0 || i < 0 || i >= len(t.Rows) || j >= len(t.Rows[i]) {
		return nil
	}
	return t.Rows[i][j]
}

// Float returns the numeric cell at row i, or NaN when absent or non-numeric.
func (t *Table) Float(i int, column string) float64 {
	switch v := t.Value(i, column).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return math.NaN()
}

// String returns the string cell at row i, or "".
func (t *Table) String(i int, column string) string {
	s, _ := t.Value(i, column).(string)
	return s
}
