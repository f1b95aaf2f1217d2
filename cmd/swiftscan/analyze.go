package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/swiftscan/swiftscan/domain"
	"github.com/swiftscan/swiftscan/internal/config"
	"github.com/swiftscan/swiftscan/internal/logging"
	"github.com/swiftscan/swiftscan/internal/version"
	"github.com/swiftscan/swiftscan/service"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Run build diagnostics and quality scoring together",
		Long: `Run the build diagnostics and the quality score estimation as
independent analyses and emit one combined report. The two analyses
share no data, so they run concurrently; a failure in one does not
suppress the other's result.

Examples:
  swiftscan analyze .
  swiftscan analyze --select quality .
  swiftscan analyze --select diagnostics,quality --json .
  swiftscan analyze --format html -o report.html .`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringSliceP("select", "s", []string{"diagnostics", "quality"},
		"Analyses to run (comma-separated): diagnostics,quality")
	cmd.Flags().StringP("config", "c", "", "Path to config file")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml, markdown, html")
	cmd.Flags().Bool("json", false, "Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().Bool("details", false, "Show detailed breakdown")

	return cmd
}

// diagnosticsTask adapts the diagnostics service to the executor
type diagnosticsTask struct {
	enabled bool
	svc     domain.DiagnosticsService
	req     domain.DiagnosticsRequest
	resp    *domain.DiagnosticsResponse
}

func (t *diagnosticsTask) Name() string    { return "diagnostics" }
func (t *diagnosticsTask) IsEnabled() bool { return t.enabled }

func (t *diagnosticsTask) Execute(ctx context.Context) (interface{}, error) {
	resp, err := t.svc.Run(ctx, t.req)
	if err != nil {
		return nil, err
	}
	t.resp = resp
	return resp, nil
}

// qualityTask adapts the quality service to the executor
type qualityTask struct {
	enabled bool
	svc     domain.QualityService
	req     domain.QualityRequest
	resp    *domain.QualityResponse
}

func (t *qualityTask) Name() string    { return "quality" }
func (t *qualityTask) IsEnabled() bool { return t.enabled }

func (t *qualityTask) Execute(ctx context.Context) (interface{}, error) {
	resp, err := t.svc.Estimate(ctx, t.req)
	if err != nil {
		return nil, err
	}
	t.resp = resp
	return resp, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	configPath, _ := cmd.Flags().GetString("config")
	outputPath, _ := cmd.Flags().GetString("output")
	selected, _ := cmd.Flags().GetStringSlice("select")

	cfg, err := config.LoadConfigWithTarget(configPath, root)
	if err != nil {
		return err
	}

	format := resolveFormat(cmd, cfg.Output.Format)
	writer, closeWriter, err := resolveWriter(outputPath)
	if err != nil {
		return err
	}
	defer closeWriter()

	logger := logging.New(debugLogging)
	defer func() { _ = logger.Sync() }()

	pm := service.NewProgressManager(format == domain.OutputFormatText && outputPath == "")
	defer pm.Close()

	buildCommand := cfg.Build.EffectiveCommand()
	runDiagnostics := contains(selected, "diagnostics") && len(buildCommand) > 0
	if contains(selected, "diagnostics") && len(buildCommand) == 0 {
		fmt.Fprintln(os.Stderr, "Skipping diagnostics: no build command configured")
	}

	showDetails, _ := cmd.Flags().GetBool("details")

	diag := &diagnosticsTask{
		enabled: runDiagnostics,
		svc:     service.NewDiagnosticsServiceWithProgress(service.NewXcodeBuildRunner(), pm, logger),
		req: domain.DiagnosticsRequest{
			BuildCommand: buildCommand,
			Timeout:      time.Duration(cfg.Build.TimeoutSeconds) * time.Second,
			OutputFormat: format,
			ShowDetails:  showDetails || cfg.Output.ShowDetails,
		},
	}
	qual := &qualityTask{
		enabled: contains(selected, "quality"),
		svc:     service.NewQualityServiceWithProgress(&cfg.Quality, pm, logger),
		req: domain.QualityRequest{
			Root:             root,
			Extension:        cfg.Analysis.Extension,
			ExcludePatterns:  cfg.Analysis.ExcludePatterns,
			RespectGitignore: cfg.Analysis.RespectGitignore,
			OutputFormat:     format,
			ShowDetails:      showDetails || cfg.Output.ShowDetails,
		},
	}

	start := time.Now()
	executor := service.NewParallelExecutorWithProgress(pm)
	execErr := executor.Execute(cmd.Context(), []domain.ExecutableTask{diag, qual})
	if execErr != nil {
		// a failed analysis is reported, the surviving one still prints
		fmt.Fprintf(os.Stderr, "Analysis error: %v\n", execErr)
	}

	if diag.resp == nil && qual.resp == nil {
		if execErr != nil {
			return execErr
		}
		return fmt.Errorf("no analyses selected; use --select diagnostics,quality")
	}

	result := &domain.AnalyzeResult{
		Diagnostics: diag.resp,
		Quality:     qual.resp,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		DurationMs:  time.Since(start).Milliseconds(),
		Version:     version.Version,
	}

	formatter := service.NewOutputFormatter()
	if err := formatter.WriteAnalyze(result, format, writer); err != nil {
		return err
	}
	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	}
	return nil
}
