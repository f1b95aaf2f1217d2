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

func diagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Run the build and triage compiler errors",
		Long: `Run the configured external build, count compiler errors and classify
them into categories with a suggested remediation order.

The build invocation comes from the config file (build.project and
build.scheme, or a full build.command argv) and can be overridden with
flags. A failing build is a normal, reportable outcome; only a build
that cannot be started at all is an error.

Examples:
  swiftscan diagnose
  swiftscan diagnose --project MyApp.xcodeproj --scheme MyApp
  swiftscan diagnose --json
  swiftscan diagnose -- swift build`,
		RunE: runDiagnose,
	}

	cmd.Flags().StringP("config", "c", "", "Path to config file")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml, markdown, html")
	cmd.Flags().Bool("json", false, "Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().String("project", "", "Xcode project path passed to the build tool")
	cmd.Flags().String("scheme", "", "Build scheme")
	cmd.Flags().String("destination", "", "Build destination platform descriptor")
	cmd.Flags().Int("timeout", 0, "Build timeout in seconds (0 waits indefinitely)")
	cmd.Flags().Bool("details", false, "Show detailed breakdown")

	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	outputPath, _ := cmd.Flags().GetString("output")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	applyBuildFlags(cmd, &cfg.Build)

	buildCommand := cfg.Build.EffectiveCommand()
	if len(args) > 0 {
		// everything after -- is a verbatim build argv
		buildCommand = args
	}
	if len(buildCommand) == 0 {
		return domain.NewConfigError("no build command configured; set build.project and build.scheme, or pass an argv after --", nil)
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

	svc := service.NewDiagnosticsServiceWithProgress(service.NewXcodeBuildRunner(), pm, logger)
	showDetails, _ := cmd.Flags().GetBool("details")

	resp, err := svc.Run(cmd.Context(), domain.DiagnosticsRequest{
		BuildCommand: buildCommand,
		Timeout:      time.Duration(cfg.Build.TimeoutSeconds) * time.Second,
		OutputFormat: format,
		OutputWriter: writer,
		ShowDetails:  showDetails || cfg.Output.ShowDetails,
	})
	if err != nil {
		return err
	}

	formatter := service.NewOutputFormatter()
	if err := formatter.WriteDiagnostics(resp, format, writer); err != nil {
		return err
	}
	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	}
	return nil
}

// applyBuildFlags lets command-line flags override the loaded build config
func applyBuildFlags(cmd *cobra.Command, build *config.BuildConfig) {
	if project, _ := cmd.Flags().GetString("project"); project != "" {
		build.Project = project
		build.Command = nil
	}
	if scheme, _ := cmd.Flags().GetString("scheme"); scheme != "" {
		build.Scheme = scheme
		build.Command = nil
	}
	if dest, _ := cmd.Flags().GetString("destination"); dest != "" {
		build.Destination = dest
	}
	if cmd.Flags().Changed("timeout") {
		timeout, _ := cmd.Flags().GetInt("timeout")
		build.TimeoutSeconds = timeout
	}
}
