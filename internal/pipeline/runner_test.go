package pipeline_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/ci-metrics/actions-metrics/internal/config"
	"github.com/ci-metrics/actions-metrics/internal/pipeline"
)

func testPaths() (string, string) {
	return filepath.Join("testdata", "usage.csv"), filepath.Join("testdata", "performance.csv")
}

// TestRunner_EndToEnd runs the whole pipeline over the CSV fixtures
func TestRunner_EndToEnd(t *testing.T) {
	runner := pipeline.New(config.Default(), nil)
	usagePath, perfPath := testPaths()

	result, err := runner.Run(context.Background(), usagePath, perfPath)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	table := result.Table

	// 2 matched rows + usage-only Publish + performance-only Lint;
	// Cancel and Copilot rows filtered out
	if len(table.Rows) != 4 {
		t.Fatalf("expected 4 final rows, got %d", len(table.Rows))
	}

	// sorted ascending by (workflow, job)
	wantOrder := [][2]string{
		{"CI", "Build"},
		{"CI", "Lint"},
		{"CI", "Test"},
		{"Release", "Publish"},
	}
	for i, pair := range wantOrder {
		workflow, _ := table.Rows[i]["workflow"].Text()
		job, _ := table.Rows[i]["job"].Text()
		if workflow != pair[0] || job != pair[1] {
			t.Errorf("row %d: expected (%s, %s), got (%s, %s)", i, pair[0], pair[1], workflow, job)
		}
	}

	// performance wins for Build, usage fills Test's null
	if n, ok := table.Rows[0]["total_minutes"].Int(); !ok || n != 150 {
		t.Errorf("expected Build total_minutes=150 (performance wins), got %v", table.Rows[0]["total_minutes"])
	}
	if n, ok := table.Rows[2]["total_minutes"].Int(); !ok || n != 300 {
		t.Errorf("expected Test total_minutes=300 (usage fallback), got %v", table.Rows[2]["total_minutes"])
	}

	// denylist columns never survive
	if table.HasColumn("runner_type") || table.HasColumn("runner_labels") {
		t.Errorf("denylist columns leaked: %v", table.ColumnNames())
	}

	if result.UsageRows != 5 || result.PerformanceRows != 3 {
		t.Errorf("unexpected input counts: usage=%d performance=%d", result.UsageRows, result.PerformanceRows)
	}
}

// TestRunner_MissingInputFails checks a bad path aborts before any output
func TestRunner_MissingInputFails(t *testing.T) {
	runner := pipeline.New(config.Default(), nil)
	usagePath, _ := testPaths()

	_, err := runner.Run(context.Background(), usagePath, filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected an error for a missing performance file")
	}
}

// TestRunner_WriteArtifactCSV writes and re-reads the persisted table
func TestRunner_WriteArtifactCSV(t *testing.T) {
	runner := pipeline.New(config.Default(), nil)
	usagePath, perfPath := testPaths()

	result, err := runner.Run(context.Background(), usagePath, perfPath)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "merged_metrics.csv")
	if err := runner.WriteArtifact(result, outPath, "csv"); err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("artifact unreadable: %v", err)
	}
	if len(records) != 1+len(result.Table.Rows) {
		t.Errorf("expected %d records, got %d", 1+len(result.Table.Rows), len(records))
	}
}

// TestRunner_UnsupportedFormat checks the artifact dispatch rejects
// unknown formats
func TestRunner_UnsupportedFormat(t *testing.T) {
	runner := pipeline.New(config.Default(), nil)
	usagePath, perfPath := testPaths()

	result, err := runner.Run(context.Background(), usagePath, perfPath)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := runner.WriteArtifact(result, "out.parquet", "parquet"); err == nil {
		t.Error("expected an error for unsupported format")
	}
}

func TestFormatForPath(t *testing.T) {
	cases := map[string]string{
		"merged.csv":    "csv",
		"merged.xlsx":   "xlsx",
		"merged.sqlite": "sqlite",
		"merged.db":     "sqlite",
		"merged":        "csv",
	}
	for path, want := range cases {
		if got := pipeline.FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q): expected %q, got %q", path, want, got)
		}
	}
}
