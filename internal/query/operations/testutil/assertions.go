package testutil

import (
	"testing"

	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
)

// AssertRowCount checks if the table has the expected number of rows
func AssertRowCount(t *testing.T, table *schema.Table, expected int, context string) {
	t.Helper()
	if len(table.Rows) != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, len(table.Rows))
	}
}

// AssertColumnExists checks if a column exists in a table
func AssertColumnExists(t *testing.T, table *schema.Table, column, context string) {
	t.Helper()
	if !table.HasColumn(column) {
		t.Errorf("%s: expected column '%s' to exist", context, column)
	}
}

// AssertColumnNotExists checks if a column does not exist in a table
func AssertColumnNotExists(t *testing.T, table *schema.Table, column, context string) {
	t.Helper()
	if table.HasColumn(column) {
		t.Errorf("%s: did not expect column '%s' to exist", context, column)
	}
}

// AssertNoError checks that an error is nil
func AssertNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: expected no error, got: %v", context, err)
	}
}

// AssertError checks that an error is not nil
func AssertError(t *testing.T, err error, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error, got nil", context)
	}
}

// AssertNullValue checks if a cell is NULL
func AssertNullValue(t *testing.T, value data.Value, context string) {
	t.Helper()
	if !value.IsNull() {
		t.Errorf("%s: expected NULL value, got: %v", context, value)
	}
}

// AssertValue checks a cell against an expected value
func AssertValue(t *testing.T, actual, expected data.Value, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %v, got %v", context, expected, actual)
	}
}

// FindRow returns the first row where column holds the given text value
func FindRow(t *testing.T, table *schema.Table, column, text string) data.Row {
	t.Helper()
	for _, row := range table.Rows {
		if s, ok := row[column].Text(); ok && s == text {
			return row
		}
	}
	t.Fatalf("no row with %s=%q", column, text)
	return nil
}
