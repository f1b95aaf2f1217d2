package service

import (
	"fmt"
	"io"

	"github.com/swiftscan/swiftscan/domain"
)

func (f *OutputFormatterImpl) writeDiagnosticsMarkdown(resp *domain.DiagnosticsResponse, w io.Writer) error {
	fmt.Fprintf(w, "## Build Diagnostics\n\n")
	fmt.Fprintf(w, "- Generated: %s\n", resp.GeneratedAt)
	fmt.Fprintf(w, "- Status: **%s**\n", resp.Status)
	fmt.Fprintf(w, "- Total errors: **%d**\n\n", resp.TotalErrors)

	if resp.Status != domain.BuildStatusFailure {
		return nil
	}

	fmt.Fprintf(w, "### Categories\n\n")
	fmt.Fprintf(w, "Counts are independent; a line may match several categories.\n\n")
	fmt.Fprintf(w, "| Category | Count |\n|---|---|\n")
	for _, c := range resp.Categories {
		fmt.Fprintf(w, "| %s | %d |\n", categoryLabel(c.Category), c.Count)
	}

	if len(resp.RemediationOrder) > 0 {
		fmt.Fprintf(w, "\n### Remediation order\n\n")
		for i, cat := range resp.RemediationOrder {
			fmt.Fprintf(w, "%d. %s\n", i+1, categoryLabel(cat))
		}
	}

	if len(resp.TopFiles) > 0 {
		fmt.Fprintf(w, "\n### Files with most errors\n\n")
		fmt.Fprintf(w, "| File | Errors |\n|---|---|\n")
		for _, file := range resp.TopFiles {
			fmt.Fprintf(w, "| %s | %d |\n", file.Name, file.Count)
		}
	}

	fmt.Fprintf(w, "\n")
	return nil
}

func (f *OutputFormatterImpl) writeQualityMarkdown(resp *domain.QualityResponse, w io.Writer) error {
	fmt.Fprintf(w, "## Quality Score\n\n")
	fmt.Fprintf(w, "- Generated: %s\n", resp.GeneratedAt)
	fmt.Fprintf(w, "- Score: **%.2f** (%s)\n\n", resp.Score, resp.Grade)

	fmt.Fprintf(w, "### Factors\n\n")
	fmt.Fprintf(w, "| Factor | Score | Weight |\n|---|---|---|\n")
	for _, factor := range resp.Factors {
		fmt.Fprintf(w, "| %s | %.2f | %.0f%% |\n", factorLabel(factor.Factor), factor.Score, factor.Weight*100)
	}

	m := resp.Metrics
	fmt.Fprintf(w, "\n### Metrics\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(w, "| Files | %d |\n", m.FileCount)
	fmt.Fprintf(w, "| Large files | %d |\n", m.LargeFileCount)
	fmt.Fprintf(w, "| Functions | %d |\n", m.FunctionCount)
	fmt.Fprintf(w, "| Documented functions | %d |\n", m.DocumentedFunctionCount)
	fmt.Fprintf(w, "| Test functions | %d |\n", m.TestFunctionCount)
	fmt.Fprintf(w, "| Security flags | %d |\n", m.SecurityFlagCount)

	if len(resp.Recommendations) > 0 {
		fmt.Fprintf(w, "\n### Recommendations\n\n")
		for _, rec := range resp.Recommendations {
			fmt.Fprintf(w, "%d. %s *(+%.1f pts)*\n", rec.Priority, rec.Action, rec.GainPoints)
		}
	}

	fmt.Fprintf(w, "\n")
	return nil
}

func (f *OutputFormatterImpl) writeAnalyzeMarkdown(result *domain.AnalyzeResult, w io.Writer) error {
	fmt.Fprintf(w, "# swiftscan Report\n\n")
	fmt.Fprintf(w, "Generated %s in %dms (version %s).\n\n", result.GeneratedAt, result.DurationMs, result.Version)

	if result.Diagnostics != nil {
		if err := f.writeDiagnosticsMarkdown(result.Diagnostics, w); err != nil {
			return err
		}
	}
	if result.Quality != nil {
		if err := f.writeQualityMarkdown(result.Quality, w); err != nil {
			return err
		}
	}
	return nil
}
