package testutil

import (
	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
)

// CreateUsageTable creates a usage table with sample data for testing
func CreateUsageTable() *schema.Table {
	return &schema.Table{
		Name: "usage",
		Columns: []schema.Column{
			{Name: "workflow", Type: schema.ColumnTypeText},
			{Name: "job", Type: schema.ColumnTypeText},
			{Name: "total_minutes", Type: schema.ColumnTypeInt},
			{Name: "job_runs", Type: schema.ColumnTypeInt},
			{Name: "runner_type", Type: schema.ColumnTypeText},
		},
		Rows: []data.Row{
			{"workflow": data.Text("CI"), "job": data.Text("Build"), "total_minutes": data.Int(12), "job_runs": data.Int(4), "runner_type": data.Text("ubuntu")},
			{"workflow": data.Text("CI"), "job": data.Text("Test"), "total_minutes": data.Int(30), "job_runs": data.Int(8), "runner_type": data.Text("ubuntu")},
			{"workflow": data.Text("Release"), "job": data.Text("Publish"), "total_minutes": data.Int(7), "job_runs": data.Int(1), "runner_type": data.Text("macos")},
		},
	}
}

// CreatePerformanceTable creates a performance table with sample data.
// "Build" and "Test" match rows in the usage table; "Lint" does not.
func CreatePerformanceTable() *schema.Table {
	return &schema.Table{
		Name: "performance",
		Columns: []schema.Column{
			{Name: "workflow", Type: schema.ColumnTypeText},
			{Name: "job", Type: schema.ColumnTypeText},
			{Name: "total_minutes", Type: schema.ColumnTypeInt},
			{Name: "failure_rate", Type: schema.ColumnTypeFloat},
			{Name: "avg_run_time", Type: schema.ColumnTypeInt},
		},
		Rows: []data.Row{
			{"workflow": data.Text("CI"), "job": data.Text("Build"), "total_minutes": data.Int(15), "failure_rate": data.Float(2.5), "avg_run_time": data.Int(180000)},
			{"workflow": data.Text("CI"), "job": data.Text("Test"), "failure_rate": data.Float(11.0), "avg_run_time": data.Int(420000)},
			{"workflow": data.Text("CI"), "job": data.Text("Lint"), "total_minutes": data.Int(3), "failure_rate": data.Float(0.0), "avg_run_time": data.Int(60000)},
		},
	}
}
