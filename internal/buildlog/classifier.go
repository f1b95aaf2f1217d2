// Package buildlog classifies captured build output into error
// categories by pattern matching. It is pure text processing: the
// input is the interleaved stdout/stderr of an external compiler
// invocation, already fully captured.
package buildlog

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/swiftscan/swiftscan/domain"
)

// errorMarker tags a line as carrying a compiler error
const errorMarker = "error:"

// TopFileLimit is the number of files reported in the per-file tally
const TopFileLimit = 5

var (
	missingSymbolRe = regexp.MustCompile(`cannot find .* in scope`)
	syntaxErrorRe   = regexp.MustCompile(`expected .* declaration|unexpected .* identifier`)
)

// categoryMatcher pairs a category with its line predicate. Matchers
// are independent: they do not partition the error set, and a line may
// satisfy several of them.
type categoryMatcher struct {
	category domain.ErrorCategory
	match    func(line string) bool
}

var matchers = []categoryMatcher{
	{domain.CategoryOptionalChaining, func(line string) bool {
		return strings.Contains(line, "cannot use optional chaining on non-optional")
	}},
	{domain.CategoryTypeConversion, func(line string) bool {
		return strings.Contains(line, "cannot convert value of type")
	}},
	{domain.CategoryMissingSymbol, func(line string) bool {
		return missingSymbolRe.MatchString(line)
	}},
	{domain.CategorySyntaxError, func(line string) bool {
		return syntaxErrorRe.MatchString(line)
	}},
}

// remediationOrder is a static policy: fix syntax errors first, then
// optional chaining, then missing symbols, then type conversions. It is
// not derived from dependency analysis between errors.
var remediationOrder = []domain.ErrorCategory{
	domain.CategorySyntaxError,
	domain.CategoryOptionalChaining,
	domain.CategoryMissingSymbol,
	domain.CategoryTypeConversion,
}

// RemediationOrder returns the fixed triage priority of the categories
func RemediationOrder() []domain.ErrorCategory {
	out := make([]domain.ErrorCategory, len(remediationOrder))
	copy(out, remediationOrder)
	return out
}

// CountErrors counts the lines of output containing the error marker
func CountErrors(output string) int {
	total := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, errorMarker) {
			total++
		}
	}
	return total
}

// Classify counts category matches over the full output. Every
// category is counted independently over every line, so counts may
// overlap and their sum need not equal CountErrors. The Other bucket
// holds error-marked lines matched by no category.
func Classify(output string) []domain.CategoryCount {
	counts := make(map[domain.ErrorCategory]int, len(matchers)+1)
	for _, line := range strings.Split(output, "\n") {
		matched := false
		for _, m := range matchers {
			if m.match(line) {
				counts[m.category]++
				matched = true
			}
		}
		if !matched && strings.Contains(line, errorMarker) {
			counts[domain.CategoryOther]++
		}
	}

	ordered := append(RemediationOrder(), domain.CategoryOther)
	tally := make([]domain.CategoryCount, 0, len(ordered))
	for _, cat := range ordered {
		tally = append(tally, domain.CategoryCount{Category: cat, Count: counts[cat]})
	}
	return tally
}

// TopFiles extracts the file path component of every error-marked line
// (the text before the first colon), tallies error lines per file, and
// returns up to limit files ordered by count descending. Ties break by
// name for deterministic reports. Only base names are reported.
func TopFiles(output string, limit int) []domain.FileErrorCount {
	counts := make(map[string]int)
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, errorMarker) {
			continue
		}
		path := strings.TrimSpace(line[:strings.Index(line, ":")])
		if path == "" {
			continue
		}
		counts[path]++
	}

	files := make([]domain.FileErrorCount, 0, len(counts))
	for path, count := range counts {
		files = append(files, domain.FileErrorCount{Name: filepath.Base(path), Count: count})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Count != files[j].Count {
			return files[i].Count > files[j].Count
		}
		return files[i].Name < files[j].Name
	})

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files
}
