package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swiftscan/swiftscan/domain"
	"github.com/swiftscan/swiftscan/internal/config"
	"github.com/swiftscan/swiftscan/internal/logging"
	"github.com/swiftscan/swiftscan/service"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [path]",
		Short: "Estimate a quality score for a Swift source tree",
		Long: `Scan the Swift files under a directory and estimate a composite
quality score from complexity, documentation, testing, security and
architecture sub-factors, with prioritized improvement suggestions.

The score is derived freshly on every run; nothing is persisted.

Examples:
  swiftscan score .
  swiftscan score Sources/
  swiftscan score --json .
  swiftscan score --format markdown -o QUALITY.md .`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScore,
	}

	cmd.Flags().StringP("config", "c", "", "Path to config file")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml, markdown, html")
	cmd.Flags().Bool("json", false, "Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().String("extension", "", "Source file extension to scan (default: .swift)")
	cmd.Flags().StringSlice("exclude", nil, "Additional directory/file patterns to skip")
	cmd.Flags().Bool("no-gitignore", false, "Ignore .gitignore when collecting files")
	cmd.Flags().Bool("details", false, "Show detailed breakdown")

	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	configPath, _ := cmd.Flags().GetString("config")
	outputPath, _ := cmd.Flags().GetString("output")

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

	svc := service.NewQualityServiceWithProgress(&cfg.Quality, pm, logger)
	resp, err := svc.Estimate(cmd.Context(), buildQualityRequest(cmd, cfg, root, format))
	if err != nil {
		return err
	}

	formatter := service.NewOutputFormatter()
	if err := formatter.WriteQuality(resp, format, writer); err != nil {
		return err
	}
	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	}
	return nil
}

// buildQualityRequest merges config defaults with score command flags
func buildQualityRequest(cmd *cobra.Command, cfg *config.Config, root string, format domain.OutputFormat) domain.QualityRequest {
	extension := cfg.Analysis.Extension
	if flagExt, _ := cmd.Flags().GetString("extension"); flagExt != "" {
		extension = flagExt
	}

	excludes := cfg.Analysis.ExcludePatterns
	if extra, _ := cmd.Flags().GetStringSlice("exclude"); len(extra) > 0 {
		excludes = append(append([]string{}, excludes...), extra...)
	}

	respectGitignore := cfg.Analysis.RespectGitignore
	if noGitignore, _ := cmd.Flags().GetBool("no-gitignore"); noGitignore {
		respectGitignore = false
	}

	showDetails, _ := cmd.Flags().GetBool("details")

	return domain.QualityRequest{
		Root:             root,
		Extension:        extension,
		ExcludePatterns:  excludes,
		RespectGitignore: respectGitignore,
		OutputFormat:     format,
		ShowDetails:      showDetails || cfg.Output.ShowDetails,
	}
}
