// Package writer persists final tables as CSV, spreadsheet, or SQLite
// artifacts. Every writer goes through a temp file plus atomic rename.
package writer

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
)

// WriteCSV persists the table as a delimiter-separated text file with
// canonical column names in the header row. NULL cells render as empty
// fields.
func WriteCSV(t *schema.Table, path string) error {
	if t == nil {
		return fmt.Errorf("cannot write nil table")
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.ColumnNames()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = renderCell(row[col.Name])
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic replace
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp → %s: %w", path, err)
	}

	slog.Info("CSV written",
		slog.String("path", path),
		slog.Int("rows", len(t.Rows)),
		slog.Int("columns", len(t.Columns)),
	)

	return nil
}

// renderCell formats a cell for delimiter-separated output
func renderCell(v data.Value) string {
	if v.IsNull() {
		return ""
	}
	return v.String()
}
