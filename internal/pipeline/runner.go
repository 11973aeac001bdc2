// Package pipeline wires the pipeline stages into one run:
// load both CSVs, merge, filter, sort, then hand the final table to a
// preview or artifact writer.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ci-metrics/actions-metrics/internal/config"
	"github.com/ci-metrics/actions-metrics/internal/domain/schema"
	"github.com/ci-metrics/actions-metrics/internal/export"
	"github.com/ci-metrics/actions-metrics/internal/query/operations"
	"github.com/ci-metrics/actions-metrics/internal/storage"
	"github.com/ci-metrics/actions-metrics/internal/storage/writer"
)

// Result carries the final table of a run plus its per-stage row counts
type Result struct {
	RunID           uuid.UUID
	Table           *schema.Table
	UsageRows       int
	PerformanceRows int
	MergedRows      int
	FilteredRows    int
}

// Runner executes the merge pipeline. Each Run is independent; the
// Runner keeps no state across invocations beyond its configuration.
type Runner struct {
	cfg       config.Config
	loader    *storage.Loader
	logger    *slog.Logger
	observers []Observer
}

// New creates a Runner from explicit configuration
func New(cfg config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    cfg,
		loader: storage.NewLoader(cfg.Pipeline.NumericColumns),
		logger: logger,
	}
}

// AddObserver registers an observer for pipeline lifecycle events
func (r *Runner) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// RemoveObserver unregisters a previously added observer
func (r *Runner) RemoveObserver(o Observer) {
	for i, existing := range r.observers {
		if existing == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Runner) emit(eventType EventType, runID uuid.UUID, data interface{}) {
	event := Event{
		Type:      eventType,
		RunID:     runID.String(),
		Timestamp: time.Now(),
		Data:      data,
	}
	for _, o := range r.observers {
		o.OnEvent(event)
	}
}

// Run executes load → merge → filter → sort and returns the final table.
// Fatal errors (missing input file, missing join keys) abort the run
// before any artifact is written.
func (r *Runner) Run(ctx context.Context, usagePath, perfPath string) (*Result, error) {
	runID := uuid.New()
	logger := r.logger.With("run_id", runID.String())

	logger.Info("pipeline run starting",
		"usage", usagePath,
		"performance", perfPath,
	)

	r.emit(EventLoadStart, runID, map[string]interface{}{
		"usage": usagePath, "performance": perfPath,
	})
	usage, err := r.loader.Load(usagePath)
	if err != nil {
		return nil, err
	}
	performance, err := r.loader.Load(perfPath)
	if err != nil {
		return nil, err
	}
	r.emit(EventLoadEnd, runID, map[string]interface{}{
		"usage_rows": len(usage.Rows), "performance_rows": len(performance.Rows),
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.emit(EventMergeStart, runID, nil)
	merged, err := operations.Merge(usage, performance, operations.MergeOptions{
		Keys:        r.cfg.Pipeline.Keys,
		DropColumns: r.cfg.Pipeline.DropColumns,
	})
	if err != nil {
		return nil, err
	}
	r.emit(EventMergeEnd, runID, map[string]interface{}{"rows": len(merged.Rows)})

	r.emit(EventFilterStart, runID, nil)
	filtered := operations.FilterRows(merged, r.cfg.Filters)
	r.emit(EventFilterEnd, runID, map[string]interface{}{"rows": len(filtered.Rows)})

	r.emit(EventSortStart, runID, nil)
	sorted := operations.SortRows(filtered, r.cfg.Pipeline.SortKeys)
	r.emit(EventSortEnd, runID, map[string]interface{}{"rows": len(sorted.Rows)})

	logger.Info("pipeline run completed",
		"usage_rows", len(usage.Rows),
		"performance_rows", len(performance.Rows),
		"final_rows", len(sorted.Rows),
	)

	return &Result{
		RunID:           runID,
		Table:           sorted,
		UsageRows:       len(usage.Rows),
		PerformanceRows: len(performance.Rows),
		MergedRows:      len(merged.Rows),
		FilteredRows:    len(filtered.Rows),
	}, nil
}

// WriteArtifact persists the run's final table in the requested format.
// The xlsx format applies the display rescaling and per-column formats.
func (r *Runner) WriteArtifact(result *Result, path, format string) error {
	switch strings.ToLower(format) {
	case "csv":
		return writer.WriteCSV(result.Table, path)
	case "xlsx":
		display, formats := export.PrepareForDisplay(result.Table)
		return writer.WriteXLSX(display, formats, path)
	case "sqlite":
		return writer.WriteSQLite(result.Table, path)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatForPath infers the artifact format from a file extension,
// defaulting to csv.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return "xlsx"
	case ".sqlite", ".db":
		return "sqlite"
	default:
		return "csv"
	}
}
