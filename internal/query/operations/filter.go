package operations

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/ci-metrics/actions-metrics/internal/domain/data"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
)

// FilterRule drops rows whose named column case-insensitively contains
// any of the patterns as a substring.
type FilterRule struct {
	Column   string
	Patterns []string
}

// compile builds one case-insensitive alternation for the rule's patterns
func (r FilterRule) compile() *regexp.Regexp {
	quoted := make([]string, len(r.Patterns))
	for i, p := range r.Patterns {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("(?i)" + strings.Join(quoted, "|"))
}

// FilterRows removes rows matching any of the rules. Rules apply
// independently: a row failing any rule is excluded.
//
// A rule whose column is absent from the table is skipped, and NULL
// (or non-text) cells never match, so such rows are kept unless another
// rule excludes them. The operation is idempotent.
func FilterRows(t *schema.Table, rules []FilterRule) *schema.Table {
	active := make([]struct {
		column  string
		pattern *regexp.Regexp
	}, 0, len(rules))
	for _, rule := range rules {
		if len(rule.Patterns) == 0 || !t.HasColumn(rule.Column) {
			continue
		}
		active = append(active, struct {
			column  string
			pattern *regexp.Regexp
		}{rule.Column, rule.compile()})
	}
	if len(active) == 0 {
		return t
	}

	out := &schema.Table{
		Name:    t.Name,
		Columns: make([]schema.Column, len(t.Columns)),
		Rows:    make([]data.Row, 0, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)

	removed := 0
	for _, row := range t.Rows {
		excluded := false
		for _, rule := range active {
			s, ok := row[rule.column].Text()
			if ok && rule.pattern.MatchString(s) {
				excluded = true
				break
			}
		}
		if excluded {
			removed++
			continue
		}
		out.Rows = append(out.Rows, row)
	}

	slog.Info("Row filter completed",
		slog.String("table", t.Name),
		slog.Int("removed_rows", removed),
		slog.Int("remaining_rows", len(out.Rows)),
	)

	return out
}
