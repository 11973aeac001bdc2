package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
	"github.com/ci-metrics/actions-metrics/internal/render"
)

func previewFixture(rows int) *schema.Table {
	t := &schema.Table{
		Name: "merged",
		Columns: []schema.Column{
			{Name: "workflow", Type: schema.ColumnTypeText},
			{Name: "job", Type: schema.ColumnTypeText},
		},
	}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, data.Row{
			"workflow": data.Text("CI"),
			"job":      data.Text("Build"),
		})
	}
	return t
}

func TestPreview_RendersHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	render.Preview(&buf, previewFixture(2), 25)

	out := buf.String()
	if !strings.Contains(out, "workflow") || !strings.Contains(out, "job") {
		t.Errorf("expected header in preview, got:\n%s", out)
	}
	if strings.Count(out, "Build") != 2 {
		t.Errorf("expected 2 data rows, got:\n%s", out)
	}
	if strings.Contains(out, "showing") {
		t.Errorf("did not expect a truncation footer, got:\n%s", out)
	}
}

func TestPreview_TruncatesWithFooter(t *testing.T) {
	var buf bytes.Buffer
	render.Preview(&buf, previewFixture(30), 25)

	out := buf.String()
	if strings.Count(out, "Build") != 25 {
		t.Errorf("expected 25 previewed rows, got %d", strings.Count(out, "Build"))
	}
	if !strings.Contains(out, "(showing 25 of 30 rows)") {
		t.Errorf("expected truncation footer, got:\n%s", out)
	}
}

func TestPreview_NullPlaceholder(t *testing.T) {
	table := previewFixture(1)
	delete(table.Rows[0], "job")

	var buf bytes.Buffer
	render.Preview(&buf, table, 25)

	if !strings.Contains(buf.String(), "NULL") {
		t.Errorf("expected NULL placeholder, got:\n%s", buf.String())
	}
}

func TestPreview_Disabled(t *testing.T) {
	var buf bytes.Buffer
	render.Preview(&buf, previewFixture(3), 0)

	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got:\n%s", buf.String())
	}
}
