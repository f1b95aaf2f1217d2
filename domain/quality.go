package domain

import (
	"context"
	"io"
)

// SubFactor identifies one of the five quality score components
type SubFactor string

const (
	FactorComplexity    SubFactor = "complexity"
	FactorDocumentation SubFactor = "documentation"
	FactorTesting       SubFactor = "testing"
	FactorSecurity      SubFactor = "security"
	FactorArchitecture  SubFactor = "architecture"
)

// QualityMetrics is gathered by scanning all source files under a root.
// Derived freshly on every run, never persisted.
type QualityMetrics struct {
	FileCount               int `json:"file_count" yaml:"file_count"`
	FunctionCount           int `json:"function_count" yaml:"function_count"`
	DocumentedFunctionCount int `json:"documented_function_count" yaml:"documented_function_count"`
	TestFunctionCount       int `json:"test_function_count" yaml:"test_function_count"`
	LargeFileCount          int `json:"large_file_count" yaml:"large_file_count"`
	SecurityFlagCount       int `json:"security_flag_count" yaml:"security_flag_count"`
	ModernPatternCount      int `json:"modern_pattern_count" yaml:"modern_pattern_count"`
	LegacyPatternCount      int `json:"legacy_pattern_count" yaml:"legacy_pattern_count"`
	UnreadableFileCount     int `json:"unreadable_file_count" yaml:"unreadable_file_count"`
	TotalLines              int `json:"total_lines" yaml:"total_lines"`
}

// DocumentationRatio returns documented functions / total functions
func (m QualityMetrics) DocumentationRatio() float64 {
	if m.FunctionCount == 0 {
		return 0
	}
	return float64(m.DocumentedFunctionCount) / float64(m.FunctionCount)
}

// TestRatio returns test functions / total functions
func (m QualityMetrics) TestRatio() float64 {
	if m.FunctionCount == 0 {
		return 0
	}
	return float64(m.TestFunctionCount) / float64(m.FunctionCount)
}

// SmallFileRatio returns the share of files at or below the large-file
// threshold. Higher is better.
func (m QualityMetrics) SmallFileRatio() float64 {
	if m.FileCount == 0 {
		return 0
	}
	return 1 - float64(m.LargeFileCount)/float64(m.FileCount)
}

// ModernPatternRatio returns modern markers / (modern + legacy markers)
func (m QualityMetrics) ModernPatternRatio() float64 {
	total := m.ModernPatternCount + m.LegacyPatternCount
	if total == 0 {
		return 0
	}
	return float64(m.ModernPatternCount) / float64(total)
}

// FactorScore is the evaluated value of one sub-factor
type FactorScore struct {
	Factor SubFactor `json:"factor" yaml:"factor"`

	// Input is the raw ratio or count the step table was evaluated on
	Input float64 `json:"input" yaml:"input"`

	// Score is the discrete step level in [0,1]
	Score float64 `json:"score" yaml:"score"`

	// Weight is the fixed share of this factor in the composite score
	Weight float64 `json:"weight" yaml:"weight"`
}

// Recommendation is one prioritized improvement suggestion
type Recommendation struct {
	Factor SubFactor `json:"factor" yaml:"factor"`

	// Priority is 1-based, ordered by factor weight descending
	Priority int `json:"priority" yaml:"priority"`

	// Action is the human-readable suggestion
	Action string `json:"action" yaml:"action"`

	// Items is the estimated quantity of work (doc comments to add,
	// files to split, flags to remove) to reach the factor target
	Items int `json:"items" yaml:"items"`

	// GainPoints is the estimated composite score gain, in points
	// on a 0-100 scale
	GainPoints float64 `json:"gain_points" yaml:"gain_points"`

	// Target is the sub-factor score this recommendation aims for
	Target float64 `json:"target" yaml:"target"`
}

// QualityRequest describes a single source tree estimation run
type QualityRequest struct {
	// Root is the directory to scan
	Root string

	// Extension filters scanned files; defaults to ".swift"
	Extension string

	// ExcludePatterns are directory/file patterns to skip
	ExcludePatterns []string

	// RespectGitignore enables .gitignore-aware collection
	RespectGitignore bool

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool
}

// QualityResponse is the full quality report for one run
type QualityResponse struct {
	// Score is the composite quality score in [0,1]
	Score float64 `json:"score" yaml:"score"`

	// Grade is a coarse label derived from Score
	Grade string `json:"grade" yaml:"grade"`

	Metrics         QualityMetrics   `json:"metrics" yaml:"metrics"`
	Factors         []FactorScore    `json:"factors" yaml:"factors"`
	Recommendations []Recommendation `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`

	// Degenerate is set when the tree had no scannable functions and
	// the documentation/testing factors fell back to their minimums
	Degenerate bool `json:"degenerate,omitempty" yaml:"degenerate,omitempty"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Metadata
	RunID       string `json:"run_id" yaml:"run_id"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	DurationMs  int64  `json:"duration_ms" yaml:"duration_ms"`
	Version     string `json:"version" yaml:"version"`
}

// FactorScoreFor returns the evaluated score for a sub-factor, zero if absent
func (r *QualityResponse) FactorScoreFor(f SubFactor) float64 {
	for _, fs := range r.Factors {
		if fs.Factor == f {
			return fs.Score
		}
	}
	return 0
}

// QualityService estimates a composite quality score for a source tree
type QualityService interface {
	Estimate(ctx context.Context, req QualityRequest) (*QualityResponse, error)
}
