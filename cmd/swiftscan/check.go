package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/swiftscan/swiftscan/domain"
	"github.com/swiftscan/swiftscan/internal/config"
	"github.com/swiftscan/swiftscan/internal/logging"
	"github.com/swiftscan/swiftscan/service"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

// checkResult is the machine-readable gate outcome for --json
type checkResult struct {
	Passed      bool     `json:"passed"`
	Score       float64  `json:"score,omitempty"`
	MinScore    float64  `json:"min_score"`
	TotalErrors *int     `json:"total_errors,omitempty"`
	MaxErrors   int      `json:"max_errors"`
	Failures    []string `json:"failures,omitempty"`
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Gate CI on quality score and build errors",
		Long: `Run the quality estimation (and optionally the build diagnostics) and
exit with a CI-friendly status code.

Exit codes:
  0  all thresholds satisfied
  1  a threshold was violated
  2  the check could not run (configuration or execution error)

Examples:
  swiftscan check --min-score 0.6 .
  swiftscan check --build --max-errors 0 .
  swiftscan check --min-score 0.7 --json .`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}

	cmd.Flags().StringP("config", "c", "", "Path to config file")
	cmd.Flags().Float64("min-score", 0.6, "Minimum acceptable quality score in [0,1]")
	cmd.Flags().Bool("build", false, "Also run the build and gate on error count")
	cmd.Flags().Int("max-errors", 0, "Maximum acceptable compiler errors (with --build)")
	cmd.Flags().Bool("json", false, "Output the gate result as JSON")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress failure details, exit code only")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	configPath, _ := cmd.Flags().GetString("config")
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	withBuild, _ := cmd.Flags().GetBool("build")
	maxErrors, _ := cmd.Flags().GetInt("max-errors")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if minScore < 0 || minScore > 1 {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("min-score must be in [0,1], got %g", minScore)}
	}

	cfg, err := config.LoadConfigWithTarget(configPath, root)
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	logger := logging.New(debugLogging)
	defer func() { _ = logger.Sync() }()

	result := checkResult{Passed: true, MinScore: minScore, MaxErrors: maxErrors}

	qualitySvc := service.NewQualityService(&cfg.Quality)
	quality, err := qualitySvc.Estimate(cmd.Context(), domain.QualityRequest{
		Root:             root,
		Extension:        cfg.Analysis.Extension,
		ExcludePatterns:  cfg.Analysis.ExcludePatterns,
		RespectGitignore: cfg.Analysis.RespectGitignore,
	})
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	result.Score = quality.Score
	if quality.Score < minScore {
		result.Passed = false
		result.Failures = append(result.Failures,
			fmt.Sprintf("quality score %.2f below minimum %.2f", quality.Score, minScore))
	}

	if withBuild {
		buildCommand := cfg.Build.EffectiveCommand()
		if len(buildCommand) == 0 {
			return &CheckExitError{Code: 2, Message: "no build command configured; set build.project and build.scheme"}
		}

		diagSvc := service.NewDiagnosticsService(service.NewXcodeBuildRunner())
		diag, err := diagSvc.Run(cmd.Context(), domain.DiagnosticsRequest{
			BuildCommand: buildCommand,
			Timeout:      time.Duration(cfg.Build.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return &CheckExitError{Code: 2, Message: err.Error()}
		}

		switch diag.Status {
		case domain.BuildStatusTimedOut:
			return &CheckExitError{Code: 2, Message: "build timed out before completion"}
		case domain.BuildStatusConfigError:
			return &CheckExitError{Code: 2, Message: "build could not be started"}
		}

		result.TotalErrors = &diag.TotalErrors
		if diag.TotalErrors > maxErrors {
			result.Passed = false
			result.Failures = append(result.Failures,
				fmt.Sprintf("%d compiler errors exceed maximum %d", diag.TotalErrors, maxErrors))
		}
	}

	if jsonOutput {
		if err := service.WriteJSON(os.Stdout, result); err != nil {
			return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
		}
		if !result.Passed {
			return &CheckExitError{Code: 1, Message: ""}
		}
		return nil
	}

	if !result.Passed {
		if !quiet {
			for _, failure := range result.Failures {
				fmt.Fprintf(os.Stderr, "FAIL: %s\n", failure)
			}
		}
		return &CheckExitError{Code: 1, Message: ""}
	}

	if !quiet {
		fmt.Printf("OK: quality score %.2f (minimum %.2f)\n", quality.Score, minScore)
		if result.TotalErrors != nil {
			fmt.Printf("OK: %d compiler errors (maximum %d)\n", *result.TotalErrors, maxErrors)
		}
	}
	return nil
}
