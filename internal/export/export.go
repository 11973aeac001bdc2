// Package export rescales numeric columns into units suited for
// spreadsheet display and produces per-column display-format hints.
package export

import (
	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
)

// FormatKind classifies a display format
type FormatKind string

const (
	FormatDuration FormatKind = "duration"
	FormatPercent  FormatKind = "percent"
)

// CellFormat carries a format kind and the spreadsheet number format
// string to apply to the column.
type CellFormat struct {
	Kind   FormatKind
	NumFmt string
}

// FormatMap maps column names to their display formats.
// This is presentation metadata, not part of the table schema.
type FormatMap map[string]CellFormat

// rescaling describes one column's unit conversion for display
type rescaling struct {
	column  string
	divisor float64
	format  CellFormat
}

// Spreadsheet duration/percent formats interpret fractional days and
// 0-1 ratios, hence the divisors.
var rescalings = []rescaling{
	{"total_minutes", 1440, CellFormat{FormatDuration, "[h]:mm"}},
	{"failure_rate", 100, CellFormat{FormatPercent, "0.00%"}},
	{"avg_run_time", 86400000, CellFormat{FormatDuration, "[h]:mm:ss"}},
	{"avg_queue_time", 86400000, CellFormat{FormatDuration, "[h]:mm:ss"}},
}

// PrepareForDisplay returns a value-rescaled copy of the table plus the
// display formats registered for the rescaled columns.
//
// Only numeric columns are rescaled; a text column that happens to carry
// one of these names passes through unformatted. Columns absent from the
// input are simply absent from the FormatMap. Never fails, and the input
// table is not mutated.
func PrepareForDisplay(t *schema.Table) (*schema.Table, FormatMap) {
	out := t.Clone()
	formats := make(FormatMap)

	for _, r := range rescalings {
		idx := out.ColumnIndex(r.column)
		if idx < 0 {
			continue
		}
		colType := out.Columns[idx].Type
		if colType != schema.ColumnTypeInt && colType != schema.ColumnTypeFloat {
			continue
		}

		for _, row := range out.Rows {
			if f, ok := row[r.column].AsFloat(); ok {
				row[r.column] = data.Float(f / r.divisor)
			}
		}
		out.Columns[idx].Type = schema.ColumnTypeFloat
		formats[r.column] = r.format
	}

	return out, formats
}
