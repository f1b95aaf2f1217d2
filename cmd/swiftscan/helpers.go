package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/swiftscan/swiftscan/domain"
)

// resolveFormat picks the output format from flags, falling back to the
// configured default. The --json shorthand wins over --format.
func resolveFormat(cmd *cobra.Command, configured string) domain.OutputFormat {
	if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
		return domain.OutputFormatJSON
	}
	if cmd.Flags().Changed("format") {
		format, _ := cmd.Flags().GetString("format")
		return domain.OutputFormat(format)
	}
	if configured != "" {
		return domain.OutputFormat(configured)
	}
	return domain.OutputFormatText
}

// resolveWriter opens the report destination. An empty path means
// stdout, which must not be closed.
func resolveWriter(outputPath string) (io.Writer, func(), error) {
	if outputPath == "" {
		return os.Stdout, func() {}, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
