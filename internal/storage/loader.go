// Package storage reads raw CSV exports into typed tables.
package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/errors"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
	"github.com/ci-metrics/actions-metrics/internal/normalize"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var nonDigitRun = regexp.MustCompile(`[^0-9-]+`)

// Loader reads a CSV file into a Table, normalizing headers and values.
//
// Parsing is permissive: quoting is lazy, rows may have any field count
// (short rows are null-padded, long rows truncated), and rows that still
// fail to parse are skipped rather than aborting the load.
type Loader struct {
	numericColumns []string
}

// NewLoader creates a Loader. numericColumns names the columns that get
// best-effort int64 coercion after header renaming.
func NewLoader(numericColumns []string) *Loader {
	return &Loader{numericColumns: numericColumns}
}

// Load reads the CSV at path into a normalized, typed table.
// Returns *errors.NotFoundError if the path does not resolve to a file.
func (l *Loader) Load(path string) (*schema.Table, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, &errors.NotFoundError{Path: path}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	columns, sourceIndex := normalizeHeader(header)

	records := make([][]string, 0)
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row: skip it, keep loading
			skipped++
			continue
		}
		records = append(records, record)
	}

	table := &schema.Table{
		Name:    tableName(path),
		Columns: make([]schema.Column, 0, len(columns)),
		Rows:    make([]data.Row, 0, len(records)),
	}

	for _, record := range records {
		row := make(data.Row, len(columns))
		for _, name := range columns {
			idx := sourceIndex[name]
			if idx >= len(record) {
				continue // short row: column reads as NULL
			}
			cleaned := normalize.CleanCell(record[idx])
			if cleaned == "" {
				continue // empty cell loads as NULL
			}
			row[name] = data.Text(cleaned)
		}
		table.Rows = append(table.Rows, row)
	}

	for _, name := range columns {
		table.Columns = append(table.Columns, schema.Column{
			Name: name,
			Type: inferColumnType(table.Rows, name),
		})
	}
	applyInferredTypes(table)

	for _, name := range l.numericColumns {
		coerceNumericColumn(table, name)
	}

	slog.Info("CSV loaded",
		slog.String("path", path),
		slog.String("table", table.Name),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Columns)),
		slog.Int("skipped_rows", skipped),
	)

	return table, nil
}

// normalizeHeader canonicalizes raw headers and resolves duplicates.
//
// Duplicate policy: when two raw headers normalize to the same canonical
// name, the rightmost raw column supplies the values and the surviving
// column keeps the first occurrence's position. Headers that normalize
// to the empty string are dropped.
func normalizeHeader(header []string) ([]string, map[string]int) {
	columns := make([]string, 0, len(header))
	sourceIndex := make(map[string]int, len(header))

	for i, raw := range header {
		name := normalize.ColumnName(raw)
		if name == "" {
			continue
		}
		if _, seen := sourceIndex[name]; !seen {
			columns = append(columns, name)
		}
		sourceIndex[name] = i // last column wins
	}
	return columns, sourceIndex
}

// inferColumnType mirrors permissive CSV readers: a column whose non-null
// cells all parse as int64 is INT; failing that, FLOAT if they all parse
// as float64; otherwise TEXT. A column with no non-null cells carries no
// type evidence and stays TEXT.
func inferColumnType(rows []data.Row, column string) schema.ColumnType {
	allInt := true
	allFloat := true
	sawValue := false
	for _, row := range rows {
		v, exists := row[column]
		if !exists {
			continue
		}
		sawValue = true
		s, _ := v.Text()
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			allFloat = false
		}
		if !allInt && !allFloat {
			return schema.ColumnTypeText
		}
	}
	if !sawValue {
		return schema.ColumnTypeText
	}
	if allInt {
		return schema.ColumnTypeInt
	}
	if allFloat {
		return schema.ColumnTypeFloat
	}
	return schema.ColumnTypeText
}

// applyInferredTypes rewrites text cells of INT/FLOAT columns as typed values
func applyInferredTypes(t *schema.Table) {
	for _, col := range t.Columns {
		if col.Type == schema.ColumnTypeText {
			continue
		}
		for _, row := range t.Rows {
			v, exists := row[col.Name]
			if !exists {
				continue
			}
			s, _ := v.Text()
			switch col.Type {
			case schema.ColumnTypeInt:
				n, _ := strconv.ParseInt(s, 10, 64)
				row[col.Name] = data.Int(n)
			case schema.ColumnTypeFloat:
				f, _ := strconv.ParseFloat(s, 64)
				row[col.Name] = data.Float(f)
			}
		}
	}
}

// coercionStrategy attempts to convert a whole column to int64 values.
// Returns the converted cells and whether every non-null cell succeeded.
type coercionStrategy func(cells []data.Value) ([]data.Value, bool)

// coerceNumericColumn applies an ordered list of coercion strategies to a
// known-numeric column. The first strategy that converts the whole column
// wins; if all fail, the column is left as-is. Never an error.
func coerceNumericColumn(t *schema.Table, column string) {
	idx := t.ColumnIndex(column)
	if idx < 0 || t.Columns[idx].Type == schema.ColumnTypeInt {
		return
	}

	cells := make([]data.Value, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[column]
	}

	strategies := []coercionStrategy{castInt64, stripAndCastInt64}
	for _, strategy := range strategies {
		converted, ok := strategy(cells)
		if !ok {
			continue
		}
		for i, row := range t.Rows {
			if converted[i].IsNull() {
				delete(row, column)
			} else {
				row[column] = converted[i]
			}
		}
		t.Columns[idx].Type = schema.ColumnTypeInt
		return
	}

	slog.Debug("numeric coercion left column unchanged",
		slog.String("table", t.Name),
		slog.String("column", column),
	)
}

// castInt64 converts cells to int64 directly. Float cells truncate,
// text cells must parse exactly.
func castInt64(cells []data.Value) ([]data.Value, bool) {
	out := make([]data.Value, len(cells))
	for i, v := range cells {
		switch v.Kind() {
		case data.KindNull:
			out[i] = data.Null()
		case data.KindInt:
			out[i] = v
		case data.KindFloat:
			f, _ := v.Float()
			out[i] = data.Int(int64(f))
		case data.KindText:
			s, _ := v.Text()
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, false
			}
			out[i] = data.Int(n)
		}
	}
	return out, true
}

// stripAndCastInt64 removes every non-digit/non-'-' character from the
// cell's string rendering and re-attempts the cast
func stripAndCastInt64(cells []data.Value) ([]data.Value, bool) {
	out := make([]data.Value, len(cells))
	for i, v := range cells {
		if v.IsNull() {
			out[i] = data.Null()
			continue
		}
		stripped := nonDigitRun.ReplaceAllString(v.String(), "")
		if stripped == "" {
			// Nothing numeric left to cast; the strategy fails and the
			// column is left untouched.
			return nil, false
		}
		n, err := strconv.ParseInt(stripped, 10, 64)
		if err != nil {
			return nil, false
		}
		out[i] = data.Int(n)
	}
	return out, true
}

// tableName derives a table name from the file path ("usage.csv" -> "usage")
func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
