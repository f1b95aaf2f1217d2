package domain

import (
	"context"
	"io"
	"time"
)

// ErrorCategory classifies a compiler diagnostic by pattern match.
// Categories are NOT mutually exclusive: each category is counted
// independently over the full build output, so a single line may
// contribute to several categories (or to none). The per-category sum
// is therefore not reconciled against TotalErrors.
type ErrorCategory string

const (
	CategoryOptionalChaining ErrorCategory = "optional_chaining"
	CategoryTypeConversion   ErrorCategory = "type_conversion"
	CategoryMissingSymbol    ErrorCategory = "missing_symbol"
	CategorySyntaxError      ErrorCategory = "syntax_error"
	CategoryOther            ErrorCategory = "other"
)

// BuildStatus is the ternary outcome of a diagnostics run, plus the
// timeout case for caller-supplied deadlines.
type BuildStatus string

const (
	// BuildStatusSuccess means the build produced zero compiler errors
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusFailure means compiler errors were found; details are
	// in the report. This is expected, classifiable data.
	BuildStatusFailure BuildStatus = "failure"

	// BuildStatusConfigError means the build command could not be run
	// at all (binary missing, bad working directory). Distinct from a
	// failing compile.
	BuildStatusConfigError BuildStatus = "configuration_error"

	// BuildStatusTimedOut means the caller-supplied timeout elapsed
	// before the build finished. No partial output is classified.
	BuildStatusTimedOut BuildStatus = "timed_out"
)

// CategoryCount is a single entry of the error tally
type CategoryCount struct {
	Category ErrorCategory `json:"category" yaml:"category"`
	Count    int           `json:"count" yaml:"count"`
}

// FileErrorCount reports how many error lines point at a file.
// Name holds only the base name of the file.
type FileErrorCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// DiagnosticsRequest describes a single build-and-classify run
type DiagnosticsRequest struct {
	// BuildCommand is the argv of the external build invocation.
	// The command's interleaved stdout/stderr text is the sole input
	// contract of the classifier.
	BuildCommand []string

	// Timeout bounds the build invocation. Zero means wait indefinitely.
	Timeout time.Duration

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool
}

// DiagnosticsResponse is the full triage report for one build run
type DiagnosticsResponse struct {
	Status      BuildStatus     `json:"status" yaml:"status"`
	TotalErrors int             `json:"total_errors" yaml:"total_errors"`
	ExitCode    int             `json:"exit_code" yaml:"exit_code"`
	Categories  []CategoryCount `json:"categories" yaml:"categories"`

	// RemediationOrder is a static policy (syntax first, then optional
	// chaining, missing symbols, type conversions), not derived from
	// dependency analysis between errors.
	RemediationOrder []ErrorCategory `json:"remediation_order,omitempty" yaml:"remediation_order,omitempty"`

	// TopFiles lists up to five files with the most error lines
	TopFiles []FileErrorCount `json:"top_files,omitempty" yaml:"top_files,omitempty"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Metadata
	RunID       string `json:"run_id" yaml:"run_id"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64  `json:"duration_ms" yaml:"duration_ms"`
	Version     string `json:"version" yaml:"version"`
}

// CategoryCountFor returns the tally entry for a category, zero if absent
func (r *DiagnosticsResponse) CategoryCountFor(cat ErrorCategory) int {
	for _, c := range r.Categories {
		if c.Category == cat {
			return c.Count
		}
	}
	return 0
}

// BuildRunner executes an external build command and captures its
// combined stdout/stderr. Implementations must distinguish a command
// that ran and exited non-zero (normal: exit code plus output, nil
// error) from one that could not be started (error).
type BuildRunner interface {
	Run(ctx context.Context, argv []string) (exitCode int, combinedOutput string, err error)
}

// DiagnosticsService runs a build exactly once per invocation and
// classifies its output. Retry policy belongs to external callers.
type DiagnosticsService interface {
	Run(ctx context.Context, req DiagnosticsRequest) (*DiagnosticsResponse, error)
}
