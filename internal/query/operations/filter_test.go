package operations_test

import (
	"testing"

	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
	"github.com/ci-metrics/actions-metrics/internal/query/operations"
	"github.com/ci-metrics/actions-metrics/internal/query/operations/testutil"
)

func defaultFilterRules() []operations.FilterRule {
	return []operations.FilterRule{
		{Column: "job", Patterns: []string{"Cancel", "Check bypass"}},
		{Column: "workflow", Patterns: []string{"copilot", "fleety"}},
	}
}

func jobsTable(rows ...data.Row) *schema.Table {
	return &schema.Table{
		Name: "merged",
		Columns: []schema.Column{
			{Name: "workflow", Type: schema.ColumnTypeText},
			{Name: "job", Type: schema.ColumnTypeText},
		},
		Rows: rows,
	}
}

// TestFilterRows_JobSubstringCaseInsensitive covers partial matches at
// any position and any casing
func TestFilterRows_JobSubstringCaseInsensitive(t *testing.T) {
	table := jobsTable(
		data.Row{"workflow": data.Text("CI"), "job": data.Text("Cancel workflow run")},
		data.Row{"workflow": data.Text("CI"), "job": data.Text("CANCEL workflow RUN")},
		data.Row{"workflow": data.Text("CI"), "job": data.Text("Run check bypass step")},
		data.Row{"workflow": data.Text("CI"), "job": data.Text("Build")},
	)

	filtered := operations.FilterRows(table, defaultFilterRules())

	testutil.AssertRowCount(t, filtered, 1, "job filter")
	if v, _ := filtered.Rows[0]["job"].Text(); v != "Build" {
		t.Errorf("expected only 'Build' to survive, got %q", v)
	}
}

// TestFilterRows_WorkflowPatterns covers the workflow denylist
func TestFilterRows_WorkflowPatterns(t *testing.T) {
	table := jobsTable(
		data.Row{"workflow": data.Text("Copilot Nightly"), "job": data.Text("Build")},
		data.Row{"workflow": data.Text("fleety-sync"), "job": data.Text("Build")},
		data.Row{"workflow": data.Text("CI"), "job": data.Text("Build")},
	)

	filtered := operations.FilterRows(table, defaultFilterRules())

	testutil.AssertRowCount(t, filtered, 1, "workflow filter")
	if v, _ := filtered.Rows[0]["workflow"].Text(); v != "CI" {
		t.Errorf("expected only 'CI' to survive, got %q", v)
	}
}

// TestFilterRows_NullKept documents the null policy: rows with NULL
// job/workflow never match and are kept
func TestFilterRows_NullKept(t *testing.T) {
	table := jobsTable(
		data.Row{"workflow": data.Text("CI")}, // job is NULL
		data.Row{"job": data.Text("Build")},   // workflow is NULL
	)

	filtered := operations.FilterRows(table, defaultFilterRules())
	testutil.AssertRowCount(t, filtered, 2, "null cells kept")
}

// TestFilterRows_MissingColumnIsNoOp checks a rule whose column the
// table lacks is skipped
func TestFilterRows_MissingColumnIsNoOp(t *testing.T) {
	table := &schema.Table{
		Name:    "merged",
		Columns: []schema.Column{{Name: "total_minutes", Type: schema.ColumnTypeInt}},
		Rows:    []data.Row{{"total_minutes": data.Int(5)}},
	}

	filtered := operations.FilterRows(table, defaultFilterRules())
	testutil.AssertRowCount(t, filtered, 1, "no filter columns")
}

// TestFilterRows_Idempotent checks filter(filter(T)) == filter(T)
func TestFilterRows_Idempotent(t *testing.T) {
	table := jobsTable(
		data.Row{"workflow": data.Text("CI"), "job": data.Text("Cancel run")},
		data.Row{"workflow": data.Text("CI"), "job": data.Text("Build")},
		data.Row{"workflow": data.Text("Copilot"), "job": data.Text("Build")},
	)

	once := operations.FilterRows(table, defaultFilterRules())
	twice := operations.FilterRows(once, defaultFilterRules())

	if len(once.Rows) != len(twice.Rows) {
		t.Fatalf("filter not idempotent: %d != %d rows", len(once.Rows), len(twice.Rows))
	}
	for i := range once.Rows {
		for _, col := range once.Columns {
			if once.Rows[i][col.Name] != twice.Rows[i][col.Name] {
				t.Errorf("row %d column %s changed on second filter", i, col.Name)
			}
		}
	}
}
