package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/swiftscan/swiftscan/domain"
)

// OutputFormatterImpl implements the ReportFormatter interface. Every
// rendering is a plain serialization of the report's fields.
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	defer encoder.Close()
	return encoder.Encode(data)
}

// WriteDiagnostics writes the diagnostics response in the specified format
func (f *OutputFormatterImpl) WriteDiagnostics(resp *domain.DiagnosticsResponse, format domain.OutputFormat, w io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(w, resp)
	case domain.OutputFormatYAML:
		return WriteYAML(w, resp)
	case domain.OutputFormatText:
		return f.writeDiagnosticsText(resp, w)
	case domain.OutputFormatMarkdown:
		return f.writeDiagnosticsMarkdown(resp, w)
	case domain.OutputFormatHTML:
		return f.WriteHTML(&domain.AnalyzeResult{Diagnostics: resp}, w)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteQuality writes the quality response in the specified format
func (f *OutputFormatterImpl) WriteQuality(resp *domain.QualityResponse, format domain.OutputFormat, w io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(w, resp)
	case domain.OutputFormatYAML:
		return WriteYAML(w, resp)
	case domain.OutputFormatText:
		return f.writeQualityText(resp, w)
	case domain.OutputFormatMarkdown:
		return f.writeQualityMarkdown(resp, w)
	case domain.OutputFormatHTML:
		return f.WriteHTML(&domain.AnalyzeResult{Quality: resp}, w)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteAnalyze writes the combined result in the specified format
func (f *OutputFormatterImpl) WriteAnalyze(result *domain.AnalyzeResult, format domain.OutputFormat, w io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(w, result)
	case domain.OutputFormatYAML:
		return WriteYAML(w, result)
	case domain.OutputFormatText:
		return f.writeAnalyzeText(result, w)
	case domain.OutputFormatMarkdown:
		return f.writeAnalyzeMarkdown(result, w)
	case domain.OutputFormatHTML:
		return f.WriteHTML(result, w)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func categoryLabel(cat domain.ErrorCategory) string {
	switch cat {
	case domain.CategoryOptionalChaining:
		return "Optional chaining"
	case domain.CategoryTypeConversion:
		return "Type conversion"
	case domain.CategoryMissingSymbol:
		return "Missing symbol"
	case domain.CategorySyntaxError:
		return "Syntax error"
	case domain.CategoryOther:
		return "Other"
	}
	return string(cat)
}

func factorLabel(f domain.SubFactor) string {
	return strings.ToUpper(string(f)[:1]) + string(f)[1:]
}

func (f *OutputFormatterImpl) writeDiagnosticsText(resp *domain.DiagnosticsResponse, w io.Writer) error {
	fmt.Fprintf(w, "\n=== Build Diagnostics ===\n\n")
	fmt.Fprintf(w, "Generated: %s\n", resp.GeneratedAt)
	fmt.Fprintf(w, "Duration: %dms\n", resp.DurationMs)
	fmt.Fprintf(w, "Status: %s\n\n", resp.Status)

	switch resp.Status {
	case domain.BuildStatusSuccess:
		fmt.Fprintf(w, "Build succeeded with no compiler errors.\n")
		return nil
	case domain.BuildStatusTimedOut:
		fmt.Fprintf(w, "Build timed out before completion; no output was classified.\n")
		return nil
	case domain.BuildStatusConfigError:
		fmt.Fprintf(w, "Build could not be started; check the configured build command.\n")
		return nil
	}

	fmt.Fprintf(w, "Total errors: %d\n\n", resp.TotalErrors)

	fmt.Fprintf(w, "Categories (independent counts; a line may match several):\n")
	for _, c := range resp.Categories {
		fmt.Fprintf(w, "  %-18s %d\n", categoryLabel(c.Category)+":", c.Count)
	}

	if len(resp.RemediationOrder) > 0 {
		fmt.Fprintf(w, "\nSuggested remediation order:\n")
		for i, cat := range resp.RemediationOrder {
			fmt.Fprintf(w, "  %d. %s\n", i+1, categoryLabel(cat))
		}
	}

	if len(resp.TopFiles) > 0 {
		fmt.Fprintf(w, "\nFiles with most errors:\n")
		for _, file := range resp.TopFiles {
			fmt.Fprintf(w, "  %-30s %d\n", file.Name, file.Count)
		}
	}

	if len(resp.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, warning := range resp.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}

	return nil
}

func (f *OutputFormatterImpl) writeQualityText(resp *domain.QualityResponse, w io.Writer) error {
	fmt.Fprintf(w, "\n=== Quality Score ===\n\n")
	fmt.Fprintf(w, "Generated: %s\n", resp.GeneratedAt)
	fmt.Fprintf(w, "Duration: %dms\n\n", resp.DurationMs)

	fmt.Fprintf(w, "Score: %.2f (%s)\n", resp.Score, resp.Grade)
	if resp.Degenerate {
		fmt.Fprintf(w, "Note: degenerate score, no scannable functions found.\n")
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Factors:\n")
	for _, factor := range resp.Factors {
		fmt.Fprintf(w, "  %-15s %.2f (weight %.0f%%)\n", factorLabel(factor.Factor)+":", factor.Score, factor.Weight*100)
	}

	fmt.Fprintf(w, "\nMetrics:\n")
	m := resp.Metrics
	fmt.Fprintf(w, "  Files: %d (large: %d, unreadable: %d)\n", m.FileCount, m.LargeFileCount, m.UnreadableFileCount)
	fmt.Fprintf(w, "  Functions: %d (documented: %d, tests: %d)\n", m.FunctionCount, m.DocumentedFunctionCount, m.TestFunctionCount)
	fmt.Fprintf(w, "  Security flags: %d\n", m.SecurityFlagCount)
	fmt.Fprintf(w, "  Modern/legacy pattern lines: %d/%d\n", m.ModernPatternCount, m.LegacyPatternCount)

	if len(resp.Recommendations) > 0 {
		fmt.Fprintf(w, "\nRecommendations:\n")
		for _, rec := range resp.Recommendations {
			fmt.Fprintf(w, "  %d. [%s] %s (+%.1f pts)\n", rec.Priority, rec.Factor, rec.Action, rec.GainPoints)
		}
	}

	if len(resp.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, warning := range resp.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}

	return nil
}

func (f *OutputFormatterImpl) writeAnalyzeText(result *domain.AnalyzeResult, w io.Writer) error {
	fmt.Fprintf(w, "\n=== swiftscan Report ===\n")
	fmt.Fprintf(w, "Generated: %s\n", result.GeneratedAt)
	fmt.Fprintf(w, "Duration: %dms\n", result.DurationMs)
	fmt.Fprintf(w, "Version: %s\n", result.Version)

	if result.Diagnostics != nil {
		if err := f.writeDiagnosticsText(result.Diagnostics, w); err != nil {
			return err
		}
	}
	if result.Quality != nil {
		if err := f.writeQualityText(result.Quality, w); err != nil {
			return err
		}
	}
	return nil
}
