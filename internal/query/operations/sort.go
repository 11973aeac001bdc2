package operations

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
)

// SortRows orders rows ascending by the key tuple using data.Compare
// (case-sensitive, NULL first). If any key column is missing, the table
// is returned unchanged. The sort is stable.
func SortRows(t *schema.Table, keys []string) *schema.Table {
	for _, key := range keys {
		if !t.HasColumn(key) {
			slog.Debug("Sort skipped, key column missing",
				slog.String("table", t.Name),
				slog.String("column", key),
			)
			return t
		}
	}

	out := &schema.Table{
		Name:    t.Name,
		Columns: make([]schema.Column, len(t.Columns)),
		Rows:    make([]data.Row, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)
	copy(out.Rows, t.Rows)

	sort.SliceStable(out.Rows, func(i, j int) bool {
		for _, key := range keys {
			if c := data.Compare(out.Rows[i][key], out.Rows[j][key]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	slog.Debug("Sort completed",
		slog.String("table", t.Name),
		slog.String("keys", strings.Join(keys, ",")),
		slog.Int("rows", len(out.Rows)),
	)

	return out
}
