package writer

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
	"github.com/ci-metrics/actions-metrics/internal/export"
)

const sheetName = "metrics"

// WriteXLSX persists the table as a spreadsheet with one "metrics"
// sheet, typed cell values, and per-column number formats from the
// FormatMap applied to the data range.
func WriteXLSX(t *schema.Table, formats export.FormatMap, path string) error {
	if t == nil {
		return fmt.Errorf("cannot write nil table")
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	// Header row
	for i, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, col.Name); err != nil {
			return err
		}
	}

	// Data rows with typed writes; NULL cells stay empty
	for r, row := range t.Rows {
		for c, col := range t.Columns {
			v := row[col.Name]
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(v)); err != nil {
				return err
			}
		}
	}

	// Column styles from the format map
	for c, col := range t.Columns {
		format, ok := formats[col.Name]
		if !ok || len(t.Rows) == 0 {
			continue
		}
		numFmt := format.NumFmt
		styleID, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
		if err != nil {
			return fmt.Errorf("failed to build style for %s: %w", col.Name, err)
		}
		top, err := excelize.CoordinatesToCellName(c+1, 2)
		if err != nil {
			return err
		}
		bottom, err := excelize.CoordinatesToCellName(c+1, len(t.Rows)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, top, bottom, styleID); err != nil {
			return fmt.Errorf("failed to style column %s: %w", col.Name, err)
		}
	}

	// excelize validates the extension on save, so the temp name must
	// keep .xlsx
	tmpPath := path + ".tmp.xlsx"
	if err := f.SaveAs(tmpPath); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp → %s: %w", path, err)
	}

	slog.Info("Spreadsheet written",
		slog.String("path", path),
		slog.Int("rows", len(t.Rows)),
		slog.Int("formatted_columns", len(formats)),
	)

	return nil
}

// cellValue unwraps a Value for the spreadsheet library
func cellValue(v data.Value) interface{} {
	if n, ok := v.Int(); ok {
		return n
	}
	if f, ok := v.Float(); ok {
		return f
	}
	s, _ := v.Text()
	return s
}
