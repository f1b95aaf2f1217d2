package service

import (
	"html/template"
	"io"

	"github.com/swiftscan/swiftscan/domain"
)

// htmlData is the view model for the single-page HTML report
type htmlData struct {
	GeneratedAt    string
	DurationMs     int64
	Version        string
	Diagnostics    *domain.DiagnosticsResponse
	Quality        *domain.QualityResponse
	HasDiagnostics bool
	HasQuality     bool
}

// WriteHTML writes the result as a self-contained HTML page
func (f *OutputFormatterImpl) WriteHTML(result *domain.AnalyzeResult, w io.Writer) error {
	data := htmlData{
		GeneratedAt:    result.GeneratedAt,
		DurationMs:     result.DurationMs,
		Version:        result.Version,
		Diagnostics:    result.Diagnostics,
		Quality:        result.Quality,
		HasDiagnostics: result.Diagnostics != nil,
		HasQuality:     result.Quality != nil,
	}
	if data.GeneratedAt == "" {
		if data.HasDiagnostics {
			data.GeneratedAt = result.Diagnostics.GeneratedAt
			data.Version = result.Diagnostics.Version
		} else if data.HasQuality {
			data.GeneratedAt = result.Quality.GeneratedAt
			data.Version = result.Quality.Version
		}
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"categoryLabel": categoryLabel,
		"factorLabel":   factorLabel,
		"pct":           func(v float64) int { return int(v * 100) },
	}).Parse(htmlTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>swiftscan report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #1d1d1f; }
h1 { border-bottom: 2px solid #e5e5e5; padding-bottom: .5rem; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #d2d2d7; padding: .4rem .8rem; text-align: left; }
th { background: #f5f5f7; }
.meta { color: #6e6e73; font-size: .9rem; }
.status-success { color: #248a3d; font-weight: 600; }
.status-failure { color: #d70015; font-weight: 600; }
.status-timed_out, .status-configuration_error { color: #c93400; font-weight: 600; }
.score { font-size: 2rem; font-weight: 700; }
.note { background: #fff8e6; border: 1px solid #f0d890; padding: .5rem .8rem; border-radius: 4px; }
</style>
</head>
<body>
<h1>swiftscan report</h1>
<p class="meta">Generated {{.GeneratedAt}} in {{.DurationMs}}ms &middot; version {{.Version}}</p>

{{if .HasDiagnostics}}
<h2>Build diagnostics</h2>
<p>Status: <span class="status-{{.Diagnostics.Status}}">{{.Diagnostics.Status}}</span>
&middot; total errors: {{.Diagnostics.TotalErrors}}</p>
{{if .Diagnostics.Categories}}
<p class="note">Category counts are independent; a single line may match several categories.</p>
<table>
<tr><th>Category</th><th>Count</th></tr>
{{range .Diagnostics.Categories}}<tr><td>{{categoryLabel .Category}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>
{{end}}
{{if .Diagnostics.RemediationOrder}}
<h3>Remediation order</h3>
<ol>
{{range .Diagnostics.RemediationOrder}}<li>{{categoryLabel .}}</li>
{{end}}
</ol>
{{end}}
{{if .Diagnostics.TopFiles}}
<h3>Files with most errors</h3>
<table>
<tr><th>File</th><th>Errors</th></tr>
{{range .Diagnostics.TopFiles}}<tr><td>{{.Name}}</td><td>{{.Count}}</td></tr>
{{end}}
</table>
{{end}}
{{end}}

{{if .HasQuality}}
<h2>Quality score</h2>
<p class="score">{{printf "%.2f" .Quality.Score}} <small>({{.Quality.Grade}})</small></p>
{{if .Quality.Degenerate}}<p class="note">Degenerate score: no scannable functions were found.</p>{{end}}
<table>
<tr><th>Factor</th><th>Score</th><th>Weight</th></tr>
{{range .Quality.Factors}}<tr><td>{{factorLabel .Factor}}</td><td>{{printf "%.2f" .Score}}</td><td>{{pct .Weight}}%</td></tr>
{{end}}
</table>
<h3>Metrics</h3>
<table>
<tr><th>Metric</th><th>Value</th></tr>
<tr><td>Files</td><td>{{.Quality.Metrics.FileCount}}</td></tr>
<tr><td>Large files</td><td>{{.Quality.Metrics.LargeFileCount}}</td></tr>
<tr><td>Functions</td><td>{{.Quality.Metrics.FunctionCount}}</td></tr>
<tr><td>Documented functions</td><td>{{.Quality.Metrics.DocumentedFunctionCount}}</td></tr>
<tr><td>Test functions</td><td>{{.Quality.Metrics.TestFunctionCount}}</td></tr>
<tr><td>Security flags</td><td>{{.Quality.Metrics.SecurityFlagCount}}</td></tr>
</table>
{{if .Quality.Recommendations}}
<h3>Recommendations</h3>
<ol>
{{range .Quality.Recommendations}}<li>{{.Action}} <em>(+{{printf "%.1f" .GainPoints}} pts)</em></li>
{{end}}
</ol>
{{end}}
{{end}}

</body>
</html>
`
