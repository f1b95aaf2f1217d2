package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	OutputFormatText     OutputFormat = "text"
	OutputFormatJSON     OutputFormat = "json"
	OutputFormatYAML     OutputFormat = "yaml"
	OutputFormatMarkdown OutputFormat = "markdown"
	OutputFormatHTML     OutputFormat = "html"
)

// AnalyzeResult bundles the two independent reports of a combined run.
// Either side may be nil when the corresponding analysis was not
// selected or not configured.
type AnalyzeResult struct {
	Diagnostics *DiagnosticsResponse `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Quality     *QualityResponse     `json:"quality,omitempty" yaml:"quality,omitempty"`

	RunID       string `json:"run_id" yaml:"run_id"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64  `json:"duration_ms" yaml:"duration_ms"`
	Version     string `json:"version" yaml:"version"`
}

// ReportFormatter renders report objects; rendering is a plain
// serialization of the report's fields
type ReportFormatter interface {
	WriteDiagnostics(resp *DiagnosticsResponse, format OutputFormat, w io.Writer) error
	WriteQuality(resp *QualityResponse, format OutputFormat, w io.Writer) error
	WriteAnalyze(result *AnalyzeResult, format OutputFormat, w io.Writer) error
}

// ProgressManager creates progress tasks for long-running work
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ExecutableTask is a unit of work for the parallel executor
type ExecutableTask interface {
	Name() string
	IsEnabled() bool
	Execute(ctx context.Context) (interface{}, error)
}

// ParallelExecutor runs independent tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}
