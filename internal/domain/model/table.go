package model

import "strings"

// Table is a header plus rows of string cells, the unit handed between stages.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable creates an empty table with the given header.
func NewTable(header ...string) *Table {
	return &Table{Header: append([]string(nil), header...)}
}

// Append adds a row. Short rows are padded with empty cells.
func (t *Table) Append(cells ...string) {
	row := make([]string, len(t.Header))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Column returns the index of name, or -1. Matching ignores case and
// surrounding whitespace.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// Cell returns the value at row i, column col, or "" when col is out of range.
func (t *Table) Cell(i, col int) string {
	if col < 0 || i < 0 || i >= len(t.Rows) || col >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][col]
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }
