package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/swiftscan/swiftscan/domain"
	"github.com/swiftscan/swiftscan/internal/config"
)

func TestCheckExitError(t *testing.T) {
	err := &CheckExitError{Code: 1, Message: "threshold violated"}
	if err.Error() != "threshold violated" {
		t.Errorf("Error() = %q", err.Error())
	}

	silent := &CheckExitError{Code: 1}
	if silent.Error() != "" {
		t.Errorf("silent Error() = %q, want empty", silent.Error())
	}
}

func newFormatTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test", Run: func(cmd *cobra.Command, args []string) {}}
	cmd.Flags().StringP("format", "f", "text", "")
	cmd.Flags().Bool("json", false, "")
	return cmd
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		configured string
		want       domain.OutputFormat
	}{
		{"default text", nil, "", domain.OutputFormatText},
		{"config default", nil, "yaml", domain.OutputFormatYAML},
		{"format flag", []string{"--format", "markdown"}, "yaml", domain.OutputFormatMarkdown},
		{"json shorthand", []string{"--json"}, "yaml", domain.OutputFormatJSON},
		{"json wins over format", []string{"--json", "--format", "html"}, "", domain.OutputFormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newFormatTestCmd()
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("flag parsing failed: %v", err)
			}
			if got := resolveFormat(cmd, tt.configured); got != tt.want {
				t.Errorf("resolveFormat() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	items := []string{"diagnostics", "quality"}
	if !contains(items, "quality") {
		t.Error("contains must find present item")
	}
	if contains(items, "score") {
		t.Error("contains must reject absent item")
	}
	if contains(nil, "anything") {
		t.Error("contains on nil slice must be false")
	}
}

func TestApplyBuildFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test", Run: func(cmd *cobra.Command, args []string) {}}
	cmd.Flags().String("project", "", "")
	cmd.Flags().String("scheme", "", "")
	cmd.Flags().String("destination", "", "")
	cmd.Flags().Int("timeout", 0, "")
	cmd.SetArgs([]string{"--project", "Other.xcodeproj", "--timeout", "120"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("flag parsing failed: %v", err)
	}

	build := config.BuildConfig{
		Command:        []string{"swift", "build"},
		Project:        "App.xcodeproj",
		Scheme:         "App",
		TimeoutSeconds: 600,
	}
	applyBuildFlags(cmd, &build)

	if build.Project != "Other.xcodeproj" {
		t.Errorf("project = %s, want Other.xcodeproj", build.Project)
	}
	if build.Command != nil {
		t.Error("flag override must clear the full command argv")
	}
	if build.TimeoutSeconds != 120 {
		t.Errorf("timeout = %d, want 120", build.TimeoutSeconds)
	}
	if build.Scheme != "App" {
		t.Errorf("scheme = %s, must keep the configured value", build.Scheme)
	}
}

func TestCommandWiring(t *testing.T) {
	for _, newCmd := range []func() *cobra.Command{
		diagnoseCmd, scoreCmd, analyzeCmd, checkCmd, watchCmd, initCmd, versionCmd,
	} {
		cmd := newCmd()
		if cmd.Use == "" || cmd.Short == "" {
			t.Errorf("command %q missing usage metadata", cmd.Name())
		}
	}
}
