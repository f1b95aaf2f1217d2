package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/swiftscan/swiftscan/internal/scanner"
	"github.com/swiftscan/swiftscan/internal/scoring"
)

// Default build settings
const (
	// DefaultBuildTool is the external build command wrapped by the
	// diagnostics reporter
	DefaultBuildTool = "xcodebuild"

	// DefaultDestination is the target platform passed to the build tool
	DefaultDestination = "generic/platform=iOS Simulator"

	// DefaultBuildTimeoutSeconds of 0 means wait indefinitely,
	// matching the behavior of running the build tool by hand
	DefaultBuildTimeoutSeconds = 0
)

// Config represents the main configuration structure
type Config struct {
	// Build holds the external build invocation settings
	Build BuildConfig `json:"build" mapstructure:"build" yaml:"build"`

	// Quality holds scoring tables, weights and thresholds
	Quality QualityConfig `json:"quality" mapstructure:"quality" yaml:"quality"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds general source collection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`
}

// BuildConfig describes how to invoke the external build tool.
// Either a full Command argv or the Project/Scheme pair is used;
// Command wins when both are set.
type BuildConfig struct {
	// Command overrides the assembled build invocation entirely
	Command []string `json:"command,omitempty" mapstructure:"command" yaml:"command,omitempty"`

	// Project is the .xcodeproj path passed to the build tool
	Project string `json:"project,omitempty" mapstructure:"project" yaml:"project,omitempty"`

	// Scheme is the build scheme
	Scheme string `json:"scheme,omitempty" mapstructure:"scheme" yaml:"scheme,omitempty"`

	// Destination is the target platform descriptor
	Destination string `json:"destination,omitempty" mapstructure:"destination" yaml:"destination,omitempty"`

	// TimeoutSeconds bounds the build; 0 waits indefinitely
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// EffectiveCommand assembles the argv of the build invocation. An
// empty result means diagnostics are not configured for this project.
func (b BuildConfig) EffectiveCommand() []string {
	if len(b.Command) > 0 {
		return b.Command
	}
	if b.Project == "" || b.Scheme == "" {
		return nil
	}
	dest := b.Destination
	if dest == "" {
		dest = DefaultDestination
	}
	return []string{DefaultBuildTool, "-project", b.Project, "-scheme", b.Scheme, "-destination", dest, "build"}
}

// QualityConfig holds the scoring configuration. Tables and weights
// are data so tuning does not require code changes.
type QualityConfig struct {
	// LargeFileThreshold is the line count above which a file is large
	LargeFileThreshold int `json:"large_file_threshold" mapstructure:"large_file_threshold" yaml:"large_file_threshold"`

	// Weights are the sub-factor shares of the composite score
	Weights scoring.Weights `json:"weights" mapstructure:"weights" yaml:"weights"`

	// Tables are the sub-factor step tables
	Tables scoring.Tables `json:"tables" mapstructure:"tables" yaml:"tables"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, markdown, html
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether to show detailed breakdown
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// Directory is where file-bound reports (html) are written
	Directory string `json:"directory,omitempty" mapstructure:"directory" yaml:"directory,omitempty"`
}

// AnalysisConfig holds general source collection configuration
type AnalysisConfig struct {
	// Extension filters scanned files
	Extension string `json:"extension" mapstructure:"extension" yaml:"extension"`

	// ExcludePatterns specifies directory and file patterns to skip
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// RespectGitignore enables .gitignore-aware collection
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			Destination:    DefaultDestination,
			TimeoutSeconds: DefaultBuildTimeoutSeconds,
		},
		Quality: QualityConfig{
			LargeFileThreshold: scanner.LargeFileThreshold,
			Weights:            scoring.DefaultWeights(),
			Tables:             scoring.DefaultTables(),
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
		},
		Analysis: AnalysisConfig{
			Extension:        scanner.DefaultExtension,
			ExcludePatterns:  scanner.DefaultExcludePatterns,
			RespectGitignore: true,
		},
	}
}

// LoadConfig loads configuration from file or returns the defaults
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context:
// when no explicit path is given, config files are discovered from the
// analyzed directory upward, then in the usual user locations.
func LoadConfigWithTarget(configPath, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// fresh viper instance per load to avoid shared state
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("build", config.Build)
	v.Set("quality", config.Quality)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)

	return v.WriteConfig()
}

func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for configuration files in common locations,
// starting at the analyzed path and walking up to the filesystem root.
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		"swiftscan.yaml",
		"swiftscan.yml",
		".swiftscan.yml",
		"swiftscan.json",
		".swiftscan.json",
	}

	if targetPath != "" {
		if absPath, err := filepath.Abs(targetPath); err == nil {
			if info, statErr := os.Stat(absPath); statErr == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}
				if filepath.Dir(dir) == dir {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, "swiftscan"), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", "swiftscan"), candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv("SWIFTSCAN_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Build.TimeoutSeconds < 0 {
		return fmt.Errorf("build.timeout_seconds must be >= 0, got %d", c.Build.TimeoutSeconds)
	}

	if c.Quality.LargeFileThreshold < 1 {
		return fmt.Errorf("quality.large_file_threshold must be >= 1, got %d", c.Quality.LargeFileThreshold)
	}
	if err := c.Quality.Weights.Validate(); err != nil {
		return fmt.Errorf("quality.weights: %w", err)
	}
	if err := c.Quality.Tables.Validate(); err != nil {
		return fmt.Errorf("quality.tables: %w", err)
	}

	validFormats := map[string]bool{
		"text":     true,
		"json":     true,
		"yaml":     true,
		"markdown": true,
		"html":     true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, markdown, html", c.Output.Format)
	}

	if c.Analysis.Extension == "" {
		return fmt.Errorf("analysis.extension cannot be empty")
	}

	return nil
}
