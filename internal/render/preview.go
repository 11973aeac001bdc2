// Package render prints bounded textual previews of tables.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
)

// Preview renders the first n rows of the table for human inspection.
// n <= 0 disables the preview. The rendering is not a durable contract.
func Preview(w io.Writer, t *schema.Table, n int) {
	if n <= 0 || len(t.Columns) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Header
	for i, col := range t.Columns {
		fmt.Fprintf(tw, "%s", col.Name)
		if i < len(t.Columns)-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	// Separator
	for i := range t.Columns {
		fmt.Fprintf(tw, "---")
		if i < len(t.Columns)-1 {
			fmt.Fprintf(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	// Rows
	shown := len(t.Rows)
	if shown > n {
		shown = n
	}
	for _, row := range t.Rows[:shown] {
		for i, col := range t.Columns {
			fmt.Fprintf(tw, "%s", row[col.Name].String())
			if i < len(t.Columns)-1 {
				fmt.Fprintf(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()

	if shown < len(t.Rows) {
		fmt.Fprintf(w, "(showing %d of %d rows)\n", shown, len(t.Rows))
	}
}
