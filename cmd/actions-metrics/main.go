package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ci-metrics/actions-metrics/internal/config"
	"github.com/ci-metrics/actions-metrics/internal/logging"
	"github.com/ci-metrics/actions-metrics/internal/pipeline"
	"github.com/ci-metrics/actions-metrics/internal/render"
)

type runOptions struct {
	usagePath       string
	performancePath string
	outputPath      string
	format          string
	previewRows     int
	keys            []string
}

func newRootCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "actions-metrics",
		Short: "Merge CI workflow usage and performance CSV exports into one table",
		Long: `actions-metrics ingests a usage CSV and a performance CSV describing
CI/CD workflow job metrics, normalizes their schemas, outer-joins them on
(job, workflow) with performance values winning, filters noise rows, sorts
the result, prints a preview, and persists the merged table.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.usagePath, "usage", "example/usage.csv", "Path to the usage CSV export")
	cmd.Flags().StringVar(&opts.performancePath, "performance", "example/performance.csv", "Path to the performance CSV export")
	cmd.Flags().StringVar(&opts.outputPath, "output", "merged_metrics.csv", "Output artifact path")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: csv, xlsx, or sqlite (default: inferred from --output)")
	cmd.Flags().IntVar(&opts.previewRows, "preview", -1, "Rows to preview on the console, 0 disables (default: from config)")
	cmd.Flags().StringSliceVar(&opts.keys, "keys", nil, "Join key override (comma-separated)")

	return cmd
}

func run(cmd *cobra.Command, opts runOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(opts.keys) > 0 {
		cfg.Pipeline.Keys = opts.keys
	}
	if opts.previewRows >= 0 {
		cfg.Pipeline.PreviewRows = opts.previewRows
	}
	if opts.format == "" {
		opts.format = pipeline.FormatForPath(opts.outputPath)
	}

	logger, closeFn := logging.Setup(cfg.Logging)
	defer closeFn()
	slog.SetDefault(logger)

	runner := pipeline.New(cfg, logger)
	runner.AddObserver(pipeline.NewLoggingObserver())

	result, err := runner.Run(cmd.Context(), opts.usagePath, opts.performancePath)
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		return err
	}

	render.Preview(os.Stdout, result.Table, cfg.Pipeline.PreviewRows)

	if err := runner.WriteArtifact(result, opts.outputPath, opts.format); err != nil {
		logger.Error("failed to write artifact", "error", err)
		return err
	}

	logger.Info("merged data saved",
		"output", opts.outputPath,
		"format", opts.format,
		"rows", len(result.Table.Rows),
	)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
