package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/swiftscan/swiftscan/domain"
	"github.com/swiftscan/swiftscan/internal/version"
)

var debugLogging bool

func main() {
	// best-effort: build settings like SWIFTSCAN_CONFIG may live in .env
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "swiftscan",
		Short: "swiftscan - build diagnostics and quality scoring for Swift codebases",
		Long: `swiftscan wraps an external build tool to triage compiler errors by
category and scans Swift source trees to estimate a composite quality
score with prioritized improvement suggestions.`,
		Version: version.Version,
	}

	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false,
		"Enable debug logging to stderr")

	rootCmd.AddCommand(diagnoseCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Handle custom exit codes from the check command
		if exitErr, ok := err.(*CheckExitError); ok {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if domain.IsConfigError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("swiftscan version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
