package writer

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
)

const sqliteTable = "job_metrics"

// WriteSQLite persists the table as a SQLite database holding one
// job_metrics table with an index on (workflow, job). The database is
// built in a temp file and atomically renamed into place.
func WriteSQLite(t *schema.Table, path string) error {
	if t == nil {
		return fmt.Errorf("cannot write nil table")
	}

	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	db, err := sql.Open("sqlite", tmpPath)
	if err != nil {
		return fmt.Errorf("failed to open sqlite at %s: %w", tmpPath, err)
	}

	if err := writeSQLiteTable(db, t); err != nil {
		db.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close sqlite: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp → %s: %w", path, err)
	}

	slog.Info("SQLite written",
		slog.String("path", path),
		slog.String("table", sqliteTable),
		slog.Int("rows", len(t.Rows)),
	)

	return nil
}

func writeSQLiteTable(db *sql.DB, t *schema.Table) error {
	defs := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		defs[i] = fmt.Sprintf("%q %s", col.Name, sqliteType(col.Type))
	}

	if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, sqliteTable)); err != nil {
		return err
	}
	if _, err := db.Exec(fmt.Sprintf(`CREATE TABLE %q (`, sqliteTable) + strings.Join(defs, ",") + `)`); err != nil {
		return err
	}

	quoted := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		quoted[i] = fmt.Sprintf("%q", col.Name)
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(t.Columns)), ",")

	stmt, err := db.Prepare(
		fmt.Sprintf(`INSERT INTO %q (`, sqliteTable) + strings.Join(quoted, ",") +
			`) VALUES (` + placeholders + `)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]interface{}, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			args[i] = sqliteValue(row[col.Name])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return err
		}
	}

	if t.HasColumn("workflow") && t.HasColumn("job") {
		idx := fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS idx_%s_workflow_job ON %q(workflow, job)`,
			sqliteTable, sqliteTable,
		)
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}

// sqliteType maps column types to SQLite storage classes
func sqliteType(t schema.ColumnType) string {
	switch t {
	case schema.ColumnTypeInt:
		return "INTEGER"
	case schema.ColumnTypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// sqliteValue unwraps a Value for database/sql. NULL maps to nil.
func sqliteValue(v data.Value) interface{} {
	if n, ok := v.Int(); ok {
		return n
	}
	if f, ok := v.Float(); ok {
		return f
	}
	if s, ok := v.Text(); ok {
		return s
	}
	return nil
}
