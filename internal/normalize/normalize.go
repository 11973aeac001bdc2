// Package normalize canonicalizes raw CSV header names and cleans cell
// values. The CSV exports this pipeline consumes carry stray quoting in
// headers and cells (a raw header can look like "'Job"), so both entry
// points strip leading/trailing quote runs before anything else.
package normalize

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRun   = regexp.MustCompile(`[^0-9A-Za-z]+`)
	underscoreRun = regexp.MustCompile(`__+`)
)

// ColumnName converts a raw header into a canonical snake_case identifier:
// lowercase, only [0-9a-z_], no leading/trailing/duplicate underscores.
// Empty input yields an empty string. The function is idempotent.
func ColumnName(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, `'"`)
	cleaned = strings.TrimSpace(cleaned)
	cleaned = nonAlnumRun.ReplaceAllString(cleaned, "_")
	cleaned = strings.ToLower(cleaned)
	cleaned = underscoreRun.ReplaceAllString(cleaned, "_")
	return strings.Trim(cleaned, "_")
}

// CleanCell strips leading/trailing quote runs and surrounding whitespace
// from a string cell value. Applied uniformly to every string-typed column.
func CleanCell(value string) string {
	cleaned := strings.Trim(value, `'"`)
	return strings.TrimSpace(cleaned)
}
