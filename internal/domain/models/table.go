package models

import "strings"

// Column is one named column of a raw provider table. Levels holds the
// parts of a composite (multi-level) header; Name wins when set.
type Column struct {
	Name   string
	Levels []string
	Values []any
}

// Label returns the column name, flattening composite headers with "_".
func (c Column) Label() string {
	if c.Name != "" {
		return c.Name
	}
	parts := make([]string, 0, len(c.Levels))
	for _, l := range c.Levels {
		if l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, "_")
}

// Table is a loosely typed, column-major price table as returned by a
// provider. Cells are time.Time, string, numeric or nil (missing).
type Table struct {
	Columns     []Column
	Index       []any
	IndexIsTime bool
}

// Rows returns the number of rows, taken from the longest column or index.
func (t *Table) Rows() int {
	if t == nil {
		return 0
	}
	n := len(t.Index)
	for _, c := range t.Columns {
		if len(c.Values) > n {
			n = len(c.Values)
		}
	}
	return n
}

// Empty reports whether the table has no columns or no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Columns) == 0 || t.Rows() == 0
}

// Lookup returns the first column whose label equals name exactly.
func (t *Table) Lookup(name string) (Column, bool) {
	if t == nil {
		return Column{}, false
	}
	for _, c := range t.Columns {
		if c.Label() == name {
			return c, true
		}
	}
	return Column{}, false
}

// Cell returns the value at row i of c, or nil when out of range.
func (c Column) Cell(i int) any {
	if i < 0 || i >= len(c.Values) {
		return nil
	}
	return c.Values[i]
}
