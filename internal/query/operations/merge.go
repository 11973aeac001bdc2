package operations

import (
	"log/slog"
	"strings"

	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/errors"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
)

// perfSuffix is appended to performance columns that collide with usage
// columns before the join, so nothing is silently overwritten.
const perfSuffix = "_perf"

// MergeOptions configures the merger. Defaults come from config, not
// from package-level constants.
type MergeOptions struct {
	// Keys is the ordered join key set. Each key must exist in at
	// least one of the two tables.
	Keys []string
	// DropColumns are always removed from the merged schema,
	// regardless of which side they came from.
	DropColumns []string
}

// Merge outer-joins the usage and performance tables on the configured
// key set, coalescing colliding columns so that performance values win
// over usage values.
//
// Rows are matched on the keys present in both tables; a key present on
// one side only passes through as a data column from that side. If no
// key is shared, the join degenerates to a null-filled concatenation.
func Merge(usage, performance *schema.Table, opts MergeOptions) (*schema.Table, error) {
	for _, key := range opts.Keys {
		if !usage.HasColumn(key) && !performance.HasColumn(key) {
			return nil, &errors.MissingKeyError{
				Key:    key,
				Tables: []string{usage.Name, performance.Name},
			}
		}
	}

	matchKeys := make([]string, 0, len(opts.Keys))
	for _, key := range opts.Keys {
		if usage.HasColumn(key) && performance.HasColumn(key) {
			matchKeys = append(matchKeys, key)
		}
	}

	slog.Debug("Starting outer merge",
		slog.String("usage_table", usage.Name),
		slog.String("performance_table", performance.Name),
		slog.String("match_keys", strings.Join(matchKeys, ",")),
		slog.Int("usage_rows", len(usage.Rows)),
		slog.Int("performance_rows", len(performance.Rows)),
	)

	renames := collisionRenames(usage, performance, opts.Keys)
	merged := outerJoin(usage, performance, matchKeys, renames)
	coalesceRenamed(merged, usage, opts.Keys, renames)
	result := merged.DropColumns(opts.DropColumns...)
	result.Name = "merged"

	slog.Info("Outer merge completed",
		slog.String("usage_table", usage.Name),
		slog.String("performance_table", performance.Name),
		slog.Int("result_rows", len(result.Rows)),
		slog.Int("result_columns", len(result.Columns)),
	)

	return result, nil
}

// collisionRenames maps each non-key performance column whose name also
// exists in usage to its suffixed name.
func collisionRenames(usage, performance *schema.Table, keys []string) map[string]string {
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}

	renames := make(map[string]string)
	for _, col := range performance.Columns {
		if !keySet[col.Name] && usage.HasColumn(col.Name) {
			renames[col.Name] = col.Name + perfSuffix
		}
	}
	return renames
}

// outerJoin performs a full outer hash join of usage against performance.
// Performance columns arrive under their renamed names. Key columns
// present on both sides are emitted once.
func outerJoin(usage, performance *schema.Table, matchKeys []string, renames map[string]string) *schema.Table {
	out := &schema.Table{Name: "joined"}

	// Output schema: usage columns in order, then performance-only
	// columns (renamed collisions included) in theirs.
	for _, col := range usage.Columns {
		outType := col.Type
		if perfType, ok := performance.ColumnType(col.Name); ok && renames[col.Name] == "" {
			outType = unifyType(col.Type, perfType)
		}
		out.Columns = append(out.Columns, schema.Column{Name: col.Name, Type: outType})
	}
	for _, col := range performance.Columns {
		name := col.Name
		if renamed, ok := renames[name]; ok {
			name = renamed
		}
		if !out.HasColumn(name) {
			out.Columns = append(out.Columns, schema.Column{Name: name, Type: col.Type})
		}
	}

	// Build hash index on the performance side.
	// Rows with a NULL match key never index and never match.
	hashIndex := make(map[string][]int)
	if len(matchKeys) > 0 {
		for i, row := range performance.Rows {
			key, ok := joinKey(row, matchKeys)
			if !ok {
				continue
			}
			hashIndex[key] = append(hashIndex[key], i)
		}
	}

	results := make([]data.Row, 0, len(usage.Rows))
	matchedUsageRows := make(map[int]bool)
	matchedPerfRows := make(map[int]bool)

	// Phase 1: matching rows
	for usagePos, usageRow := range usage.Rows {
		key, ok := joinKey(usageRow, matchKeys)
		if !ok || len(matchKeys) == 0 {
			continue
		}
		perfPositions, found := hashIndex[key]
		if !found {
			continue
		}
		matchedUsageRows[usagePos] = true
		for _, perfPos := range perfPositions {
			matchedPerfRows[perfPos] = true
			results = append(results, combineRows(usageRow, performance.Rows[perfPos], renames))
		}
	}

	// Phase 2: unmatched usage rows with NULL performance columns
	for usagePos, usageRow := range usage.Rows {
		if !matchedUsageRows[usagePos] {
			results = append(results, combineRows(usageRow, nil, renames))
		}
	}

	// Phase 3: unmatched performance rows with NULL usage columns
	for perfPos, perfRow := range performance.Rows {
		if !matchedPerfRows[perfPos] {
			results = append(results, combineRows(nil, perfRow, renames))
		}
	}

	out.Rows = results
	return out
}

// coalesceRenamed folds every renamed performance column back into its
// usage counterpart: performance's value wins when non-null, the usage
// value otherwise. The suffixed column is dropped in place.
func coalesceRenamed(joined *schema.Table, usage *schema.Table, keys []string, renames map[string]string) {
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}

	dropped := make([]string, 0, len(renames))
	for _, col := range usage.Columns {
		if keySet[col.Name] {
			continue
		}
		perfName, collided := renames[col.Name]
		if !collided || !joined.HasColumn(perfName) {
			continue
		}
		for _, row := range joined.Rows {
			if perfVal := row[perfName]; !perfVal.IsNull() {
				row[col.Name] = perfVal
			}
		}
		dropped = append(dropped, perfName)
	}

	if len(dropped) > 0 {
		trimmed := joined.DropColumns(dropped...)
		joined.Columns = trimmed.Columns
		joined.Rows = trimmed.Rows
	}
}

// joinKey builds the hash key for a row's match-key tuple.
// Returns false if any key value is NULL.
func joinKey(row data.Row, keys []string) (string, bool) {
	var sb strings.Builder
	for _, k := range keys {
		v := row[k]
		if v.IsNull() {
			return "", false
		}
		sb.WriteByte(byte(v.Kind()))
		sb.WriteString(v.String())
		sb.WriteByte(0)
	}
	return sb.String(), true
}

// combineRows merges one row from each side into a joined row.
// Either side may be nil, which leaves that side's columns NULL.
// Shared key columns take whichever side is non-null.
func combineRows(usageRow, perfRow data.Row, renames map[string]string) data.Row {
	joined := make(data.Row, len(usageRow)+len(perfRow))
	for name, value := range usageRow {
		joined[name] = value
	}
	for name, value := range perfRow {
		if renamed, ok := renames[name]; ok {
			name = renamed
		}
		if existing, exists := joined[name]; exists && !existing.IsNull() {
			continue
		}
		joined[name] = value
	}
	return joined
}

// unifyType picks the output type for a column present on both sides
func unifyType(a, b schema.ColumnType) schema.ColumnType {
	if a == b {
		return a
	}
	numeric := func(t schema.ColumnType) bool {
		return t == schema.ColumnTypeInt || t == schema.ColumnTypeFloat
	}
	if numeric(a) && numeric(b) {
		return schema.ColumnTypeFloat
	}
	return schema.ColumnTypeText
}
