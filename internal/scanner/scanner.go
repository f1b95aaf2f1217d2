// Package scanner gathers quality metrics from a Swift source tree.
// Every file is treated as a unit of text scanned line by line; the
// metrics are recomputed from scratch on every run.
package scanner

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/swiftscan/swiftscan/domain"
)

// LargeFileThreshold is the line count above which a file counts as large
const LargeFileThreshold = 500

var (
	funcRe     = regexp.MustCompile("(^|[\\s])func\\s+[A-Za-z_`]")
	testFuncRe = regexp.MustCompile(`func\s+test[A-Z_0-9]`)

	// insecure-pattern heuristics: plaintext URLs, secret-flavored
	// TODO/FIXME notes, hardcoded credential assignments
	secretTodoRe = regexp.MustCompile(`(?i)(TODO|FIXME).*(password|secret|token|api.?key|credential)`)
	hardcodedRe  = regexp.MustCompile(`(?i)(password|secret|apikey|api_key|token)\s*=\s*"`)

	modernMarkers = []string{"async ", " await ", "actor ", "@MainActor", "Task {", "TaskGroup"}
	legacyMarkers = []string{"@escaping", "completionHandler", "completion:", "DispatchQueue"}
)

// FileMetrics holds the per-file counters of a single scanned file
type FileMetrics struct {
	Path               string
	Lines              int
	Functions          int
	DocumentedFuncs    int
	TestFunctions      int
	SecurityFlags      int
	ModernPatternLines int
	LegacyPatternLines int
}

// IsLarge reports whether the file exceeds the given line threshold
func (f FileMetrics) IsLarge(threshold int) bool {
	if threshold <= 0 {
		threshold = LargeFileThreshold
	}
	return f.Lines > threshold
}

// IsTestFile reports whether path follows the test-file naming convention
func IsTestFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, "Tests.swift") || strings.HasSuffix(base, "Test.swift")
}

// ScanFile scans a single source file. Read failures are returned to
// the caller, which counts them instead of aborting the run.
func ScanFile(path string) (FileMetrics, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileMetrics{Path: path}, err
	}
	return ScanSource(path, string(content)), nil
}

// ScanSource scans source text line by line. Documentation is counted
// per doc-marker run preceding a function declaration; a function is
// documented when the line block immediately above it carries a
// doc comment marker.
func ScanSource(path, content string) FileMetrics {
	m := FileMetrics{Path: path}
	isTest := IsTestFile(path)

	lines := strings.Split(content, "\n")
	m.Lines = len(lines)

	inDocBlock := false
	pendingDoc := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if line == "" {
			continue
		}

		// track block doc comments /** ... */
		if strings.HasPrefix(line, "/**") {
			inDocBlock = true
		}
		if inDocBlock {
			pendingDoc = true
			if strings.Contains(line, "*/") {
				inDocBlock = false
			}
			continue
		}

		if strings.HasPrefix(line, "///") {
			pendingDoc = true
			continue
		}

		// plain comments neither document nor reset the pending marker
		if strings.HasPrefix(line, "//") {
			continue
		}

		if funcRe.MatchString(line) {
			m.Functions++
			if pendingDoc {
				m.DocumentedFuncs++
			}
			if isTest && testFuncRe.MatchString(line) {
				m.TestFunctions++
			}
		}
		pendingDoc = false

		if strings.Contains(line, "http://") || secretTodoRe.MatchString(line) || hardcodedRe.MatchString(line) {
			m.SecurityFlags++
		}
		if containsAny(line, modernMarkers) {
			m.ModernPatternLines++
		}
		if containsAny(line, legacyMarkers) {
			m.LegacyPatternLines++
		}
	}
	return m
}

// Aggregate folds per-file metrics into the tree-wide quality metrics
func Aggregate(files []FileMetrics, unreadable, largeFileThreshold int) domain.QualityMetrics {
	var m domain.QualityMetrics
	m.UnreadableFileCount = unreadable
	for _, f := range files {
		m.FileCount++
		m.TotalLines += f.Lines
		m.FunctionCount += f.Functions
		m.DocumentedFunctionCount += f.DocumentedFuncs
		m.TestFunctionCount += f.TestFunctions
		m.SecurityFlagCount += f.SecurityFlags
		m.ModernPatternCount += f.ModernPatternLines
		m.LegacyPatternCount += f.LegacyPatternLines
		if f.IsLarge(largeFileThreshold) {
			m.LargeFileCount++
		}
	}
	return m
}

func containsAny(line string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
