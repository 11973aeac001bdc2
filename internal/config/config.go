// Package config provides explicit configuration for every pipeline
// stage. Defaults are passed into stage constructors rather than living
// as package-level constants, so stages stay pure and testable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ci-metrics/actions-metrics/internal/query/operations"
)

// PipelineConfig holds the stage defaults of the merge pipeline
type PipelineConfig struct {
	// Keys is the ordered join key set for the merger
	Keys []string

	// SortKeys orders the final table. Independent of the join keys:
	// the output sorts workflow-major even though the join matches on
	// (job, workflow).
	SortKeys []string

	// DropColumns are always excluded from the merged schema
	DropColumns []string

	// NumericColumns get best-effort int64 coercion at load time
	NumericColumns []string

	// PreviewRows bounds the console preview (0 disables it)
	PreviewRows int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error
	Level string

	// Format is the console log format: text or json
	Format string

	// SeqURL enables shipping logs to a Seq server when set
	SeqURL string
}

// Config holds all application configuration
type Config struct {
	Pipeline PipelineConfig
	Filters  []operations.FilterRule
	Logging  LoggingConfig
}

// Default returns the stock configuration of the pipeline
func Default() Config {
	return Config{
		Pipeline: PipelineConfig{
			Keys:           []string{"job", "workflow"},
			SortKeys:       []string{"workflow", "job"},
			DropColumns:    []string{"runner_type", "runner_labels"},
			NumericColumns: []string{"total_minutes", "job_runs"},
			PreviewRows:    25,
		},
		Filters: []operations.FilterRule{
			{Column: "job", Patterns: []string{"Cancel", "Check bypass"}},
			{Column: "workflow", Patterns: []string{"copilot", "fleety"}},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults plus environment
// overrides. A .env file in the working directory is loaded first
// when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if v := os.Getenv("AM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("AM_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("AM_SEQ_URL"); v != "" {
		cfg.Logging.SeqURL = v
	}
	if v := os.Getenv("AM_PREVIEW_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid AM_PREVIEW_ROWS: %w", err)
		}
		cfg.Pipeline.PreviewRows = n
	}
	if v := os.Getenv("AM_JOIN_KEYS"); v != "" {
		cfg.Pipeline.Keys = splitKeys(v)
	}
	if v := os.Getenv("AM_SORT_KEYS"); v != "" {
		cfg.Pipeline.SortKeys = splitKeys(v)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration and fails fast on misconfiguration
func (c Config) Validate() error {
	if len(c.Pipeline.Keys) == 0 {
		return fmt.Errorf("at least one join key is required")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", c.Logging.Format)
	}
	if c.Pipeline.PreviewRows < 0 {
		return fmt.Errorf("preview rows must not be negative")
	}
	return nil
}

func splitKeys(v string) []string {
	parts := strings.Split(v, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
