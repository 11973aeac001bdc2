package data

// Row represents a single table row
// Key = column name, Value = tagged cell value
// Column order lives in the table schema, not here.
type Row map[string]Value

// Get returns the cell for a column. Absent columns read as NULL.
func (r Row) Get(column string) Value {
	return r[column]
}

// Copy creates a copy of the row to prevent mutation of the caller's data
func (r Row) Copy() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
