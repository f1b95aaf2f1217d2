package config

import (
	"fmt"
	"strings"
)

// ProjectType represents the kind of Swift project being scanned
type ProjectType string

const (
	ProjectTypeGeneric   ProjectType = "generic"
	ProjectTypeIOSApp    ProjectType = "ios-app"
	ProjectTypeFramework ProjectType = "framework"
	ProjectTypePackage   ProjectType = "swift-package"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds collection presets for different project types
type ProjectPreset struct {
	ExcludePatterns []string
}

// StrictnessPreset holds threshold values for different strictness levels
type StrictnessPreset struct {
	LargeFileThreshold int
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			ExcludePatterns: []string{"Pods", "Carthage", "DerivedData", ".build", ".git", "Package.swift"},
		},
		ProjectTypeIOSApp: {
			ExcludePatterns: []string{"Pods", "Carthage", "DerivedData", ".build", ".git", "Package.swift", "*.generated.swift", "R.generated.swift"},
		},
		ProjectTypeFramework: {
			ExcludePatterns: []string{"Carthage", "DerivedData", ".build", ".git", "Package.swift", "Example"},
		},
		ProjectTypePackage: {
			ExcludePatterns: []string{".build", ".git", ".swiftpm", "Package.swift"},
		},
	}
}

// GetStrictnessPresets returns threshold presets per strictness level
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed:  {LargeFileThreshold: 800},
		StrictnessStandard: {LargeFileThreshold: 500},
		StrictnessStrict:   {LargeFileThreshold: 300},
	}
}

// GetFullConfigTemplate generates a documented YAML configuration for
// the given project type and strictness level
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	project, ok := GetProjectPresets()[projectType]
	if !ok {
		project = GetProjectPresets()[ProjectTypeGeneric]
	}
	level, ok := GetStrictnessPresets()[strictness]
	if !ok {
		level = GetStrictnessPresets()[StrictnessStandard]
	}

	return fmt.Sprintf(`# swiftscan configuration
# Generated for project type %q, strictness %q.
# All values shown are active; delete any section to fall back to defaults.

# External build invocation used by 'swiftscan diagnose'.
# Either set project+scheme, or override 'command' with a full argv.
build:
  # project: MyApp.xcodeproj
  # scheme: MyApp
  destination: %q
  # 0 waits indefinitely for the build to finish
  timeout_seconds: 0

quality:
  # Files above this line count are counted as large
  large_file_threshold: %d

  # Sub-factor shares of the composite score; must sum to 1.0
  weights:
    complexity: 0.30
    documentation: 0.25
    testing: 0.20
    security: 0.15
    architecture: 0.10

output:
  # text, json, yaml, markdown, html
  format: text
  show_details: false

analysis:
  extension: .swift
  respect_gitignore: true
  exclude_patterns:
%s`, projectType, strictness, DefaultDestination, level.LargeFileThreshold, formatYAMLList(project.ExcludePatterns, "    "))
}

// GetMinimalConfigTemplate generates a small config with the options
// most projects end up changing
func GetMinimalConfigTemplate() string {
	return `# swiftscan configuration (minimal)
build:
  # project: MyApp.xcodeproj
  # scheme: MyApp
  timeout_seconds: 0

quality:
  large_file_threshold: 500

output:
  format: text
`
}

func formatYAMLList(items []string, indent string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(indent)
		sb.WriteString("- ")
		sb.WriteString(fmt.Sprintf("%q", item))
		sb.WriteString("\n")
	}
	return sb.String()
}
