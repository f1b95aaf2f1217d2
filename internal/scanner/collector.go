package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultExtension is the source-file extension scanned by default
const DefaultExtension = ".swift"

// DefaultExcludePatterns are directory and file names skipped during
// collection: dependency checkouts, build products, and non-source
// metadata files.
var DefaultExcludePatterns = []string{
	"Pods",
	"Carthage",
	"DerivedData",
	".build",
	".git",
	".swiftpm",
	"vendor",
	"Package.swift",
	"*.generated.swift",
}

// Collector finds source files under a root directory
type Collector struct {
	extension string
	excludes  []string
	ignore    *gitignore.GitIgnore
}

// NewCollector creates a collector for the given extension and exclude
// patterns. When respectGitignore is set and root carries a .gitignore,
// ignored paths are skipped as well.
func NewCollector(root, extension string, excludes []string, respectGitignore bool) *Collector {
	if extension == "" {
		extension = DefaultExtension
	}
	if len(excludes) == 0 {
		excludes = DefaultExcludePatterns
	}

	c := &Collector{extension: extension, excludes: excludes}
	if respectGitignore {
		if ign, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			c.ignore = ign
		}
	}
	return c
}

// Collect walks root and returns matching source files in sorted order
// so repeated runs over an unchanged tree scan identical inputs.
func (c *Collector) Collect(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if c.matches(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && c.isExcluded(filepath.Base(path)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !c.matches(path) {
			return nil
		}
		if c.ignore != nil {
			if rel, relErr := filepath.Rel(root, path); relErr == nil && c.ignore.MatchesPath(rel) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (c *Collector) matches(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), c.extension) {
		return false
	}
	return !c.isExcluded(filepath.Base(path))
}

func (c *Collector) isExcluded(name string) bool {
	for _, pattern := range c.excludes {
		if pattern == name {
			return true
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
