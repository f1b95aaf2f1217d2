package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorMessage(t *testing.T) {
	err := NewConfigError("bad threshold", nil)
	want := "[CONFIG_ERROR] bad threshold"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	cause := fmt.Errorf("file not found")
	wrapped := NewBuildError("build tool missing", cause)
	if wrapped.Error() != "[BUILD_ERROR] build tool missing: file not found" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NewAnalysisError("scan failed", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is must find the cause through Unwrap")
	}
}

func TestIsConfigError(t *testing.T) {
	if !IsConfigError(NewConfigError("bad", nil)) {
		t.Error("IsConfigError must accept config errors")
	}
	if IsConfigError(NewBuildError("broken", nil)) {
		t.Error("IsConfigError must reject build errors")
	}
	if IsConfigError(fmt.Errorf("plain")) {
		t.Error("IsConfigError must reject plain errors")
	}
	if IsConfigError(nil) {
		t.Error("IsConfigError must reject nil")
	}
}

func TestCategoryCountFor(t *testing.T) {
	resp := &DiagnosticsResponse{
		Categories: []CategoryCount{
			{Category: CategorySyntaxError, Count: 3},
			{Category: CategoryOther, Count: 1},
		},
	}
	if got := resp.CategoryCountFor(CategorySyntaxError); got != 3 {
		t.Errorf("CategoryCountFor(syntax) = %d, want 3", got)
	}
	if got := resp.CategoryCountFor(CategoryTypeConversion); got != 0 {
		t.Errorf("CategoryCountFor(absent) = %d, want 0", got)
	}
}

func TestFactorScoreFor(t *testing.T) {
	resp := &QualityResponse{
		Factors: []FactorScore{
			{Factor: FactorTesting, Score: 0.6},
		},
	}
	if got := resp.FactorScoreFor(FactorTesting); got != 0.6 {
		t.Errorf("FactorScoreFor(testing) = %.2f, want 0.6", got)
	}
	if got := resp.FactorScoreFor(FactorSecurity); got != 0 {
		t.Errorf("FactorScoreFor(absent) = %.2f, want 0", got)
	}
}

func TestQualityMetricsRatios(t *testing.T) {
	m := QualityMetrics{
		FileCount:               10,
		FunctionCount:           20,
		DocumentedFunctionCount: 5,
		TestFunctionCount:       4,
		LargeFileCount:          2,
		ModernPatternCount:      6,
		LegacyPatternCount:      2,
	}

	if got := m.DocumentationRatio(); got != 0.25 {
		t.Errorf("DocumentationRatio() = %.2f, want 0.25", got)
	}
	if got := m.TestRatio(); got != 0.2 {
		t.Errorf("TestRatio() = %.2f, want 0.2", got)
	}
	if got := m.SmallFileRatio(); got != 0.8 {
		t.Errorf("SmallFileRatio() = %.2f, want 0.8", got)
	}
	if got := m.ModernPatternRatio(); got != 0.75 {
		t.Errorf("ModernPatternRatio() = %.2f, want 0.75", got)
	}
}

func TestQualityMetricsRatiosOnEmptyTree(t *testing.T) {
	var m QualityMetrics
	if m.DocumentationRatio() != 0 || m.TestRatio() != 0 || m.SmallFileRatio() != 0 || m.ModernPatternRatio() != 0 {
		t.Error("all ratios of an empty tree must be zero")
	}
}
