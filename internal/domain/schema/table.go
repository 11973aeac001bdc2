package schema

import (
	"github.com/ci-metrics/actions-metrics/internal/domain/data"
)

// ColumnType identifies the declared type of a table column
type ColumnType string

const (
	ColumnTypeInt   ColumnType = "INT"
	ColumnTypeFloat ColumnType = "FLOAT"
	ColumnTypeText  ColumnType = "TEXT"
)

// Column describes one named, typed column of a table
type Column struct {
	Name string
	Type ColumnType
}

// Table is an ordered sequence of named, typed columns plus an ordered
// sequence of rows. Column names are unique within a table.
//
// Tables flow through the pipeline as immutable-by-convention values:
// each stage produces a new Table and never mutates its input, so no
// locking is needed.
type Table struct {
	Name    string
	Columns []Column
	Rows    []data.Row
}

// HasColumn reports whether the table has a column with the given name
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of a column, or -1 if absent
func (t *Table) ColumnIndex(name string) int {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return i
		}
	}
	return -1
}

// ColumnType returns the declared type of a column and whether it exists
func (t *Table) ColumnType(name string) (ColumnType, bool) {
	if i := t.ColumnIndex(name); i >= 0 {
		return t.Columns[i].Type, true
	}
	return "", false
}

// ColumnNames returns the column names in schema order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// DropColumns returns a new table without the named columns.
// Names that are not present are ignored.
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	out := &Table{Name: t.Name}
	for _, c := range t.Columns {
		if !drop[c.Name] {
			out.Columns = append(out.Columns, c)
		}
	}
	out.Rows = make([]data.Row, len(t.Rows))
	for i, row := range t.Rows {
		newRow := make(data.Row, len(out.Columns))
		for _, c := range out.Columns {
			if v, exists := row[c.Name]; exists {
				newRow[c.Name] = v
			}
		}
		out.Rows[i] = newRow
	}
	return out
}

// Clone creates a deep copy of the table
func (t *Table) Clone() *Table {
	out := &Table{
		Name:    t.Name,
		Columns: make([]Column, len(t.Columns)),
		Rows:    make([]data.Row, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)
	for i, row := range t.Rows {
		out.Rows[i] = row.Copy()
	}
	return out
}
