package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/swiftscan/swiftscan/domain"
	"github.com/swiftscan/swiftscan/internal/config"
	"github.com/swiftscan/swiftscan/internal/logging"
	"github.com/swiftscan/swiftscan/service"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-estimate the quality score on every source change",
		Long: `Watch a Swift source tree and re-run the quality estimation whenever
matching files change. Each run recomputes the report from scratch;
nothing is carried over between runs. Stop with Ctrl-C.

Examples:
  swiftscan watch .
  swiftscan watch Sources/ --debounce 2s`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringP("config", "c", "", "Path to config file")
	cmd.Flags().Duration("debounce", service.DefaultDebounce, "Delay before re-running after a change")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	configPath, _ := cmd.Flags().GetString("config")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	cfg, err := config.LoadConfigWithTarget(configPath, root)
	if err != nil {
		return err
	}

	logger := logging.New(debugLogging)
	defer func() { _ = logger.Sync() }()

	qualitySvc := service.NewQualityService(&cfg.Quality)
	formatter := service.NewOutputFormatter()

	estimate := func() {
		resp, err := qualitySvc.Estimate(cmd.Context(), domain.QualityRequest{
			Root:             root,
			Extension:        cfg.Analysis.Extension,
			ExcludePatterns:  cfg.Analysis.ExcludePatterns,
			RespectGitignore: cfg.Analysis.RespectGitignore,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Estimation error: %v\n", err)
			return
		}
		if err := formatter.WriteQuality(resp, domain.OutputFormatText, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Output error: %v\n", err)
		}
		fmt.Printf("\nWatching %s for changes (Ctrl-C to stop)...\n", root)
	}

	// initial run before the first change
	estimate()

	watcher := service.NewWatchService(root, cfg.Analysis.Extension, cfg.Analysis.ExcludePatterns, logger)
	watcher.SetDebounce(debounce)

	err = watcher.Watch(cmd.Context(), func() {
		fmt.Printf("\nChange detected at %s, re-estimating...\n", time.Now().Format("15:04:05"))
		estimate()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
