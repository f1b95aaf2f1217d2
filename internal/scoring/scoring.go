// Package scoring turns gathered quality metrics into a composite
// score. Sub-factor scores come from step tables (ordered breakpoint
// bands, not smooth functions); the tables and weights are plain data
// so tuning does not require code changes.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/swiftscan/swiftscan/domain"
)

// RatioBand maps a ratio range to a discrete score level. A band
// applies to inputs >= Min, up to the next band's Min.
type RatioBand struct {
	Min   float64 `json:"min" mapstructure:"min" yaml:"min"`
	Score float64 `json:"score" mapstructure:"score" yaml:"score"`
}

// RatioTable is an ordered list of bands keyed on a goodness ratio in
// [0,1]. Valid tables are monotonic: ascending Min, non-decreasing
// Score.
type RatioTable []RatioBand

// Eval returns the score of the highest band whose Min <= ratio
func (t RatioTable) Eval(ratio float64) float64 {
	score := 0.0
	for _, band := range t {
		if ratio >= band.Min {
			score = band.Score
		}
	}
	return score
}

// MinScore returns the lowest level of the table
func (t RatioTable) MinScore() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[0].Score
}

// Validate checks band ordering and monotonicity
func (t RatioTable) Validate(name string) error {
	if len(t) == 0 {
		return fmt.Errorf("%s table cannot be empty", name)
	}
	for i, band := range t {
		if band.Min < 0 || band.Min > 1 {
			return fmt.Errorf("%s table band %d: min %.2f out of [0,1]", name, i, band.Min)
		}
		if band.Score < 0 || band.Score > 1 {
			return fmt.Errorf("%s table band %d: score %.2f out of [0,1]", name, i, band.Score)
		}
		if i > 0 {
			if band.Min <= t[i-1].Min {
				return fmt.Errorf("%s table band %d: min %.2f must be greater than previous %.2f", name, i, band.Min, t[i-1].Min)
			}
			if band.Score < t[i-1].Score {
				return fmt.Errorf("%s table band %d: score %.2f decreases from %.2f", name, i, band.Score, t[i-1].Score)
			}
		}
	}
	return nil
}

// CountBand maps an issue count range to a score level. A band applies
// to counts <= Max.
type CountBand struct {
	Max   int     `json:"max" mapstructure:"max" yaml:"max"`
	Score float64 `json:"score" mapstructure:"score" yaml:"score"`
}

// CountTable is keyed on an issue count: fewer issues score higher.
// Counts above every band's Max fall through to Overflow.
type CountTable struct {
	Bands    []CountBand `json:"bands" mapstructure:"bands" yaml:"bands"`
	Overflow float64     `json:"overflow" mapstructure:"overflow" yaml:"overflow"`
}

// Eval returns the score of the first band whose Max >= count
func (t CountTable) Eval(count int) float64 {
	for _, band := range t.Bands {
		if count <= band.Max {
			return band.Score
		}
	}
	return t.Overflow
}

// Validate checks band ordering and monotonicity
func (t CountTable) Validate(name string) error {
	if len(t.Bands) == 0 {
		return fmt.Errorf("%s table cannot be empty", name)
	}
	for i, band := range t.Bands {
		if band.Score < 0 || band.Score > 1 {
			return fmt.Errorf("%s table band %d: score %.2f out of [0,1]", name, i, band.Score)
		}
		if i > 0 {
			if band.Max <= t.Bands[i-1].Max {
				return fmt.Errorf("%s table band %d: max %d must be greater than previous %d", name, i, band.Max, t.Bands[i-1].Max)
			}
			if band.Score > t.Bands[i-1].Score {
				return fmt.Errorf("%s table band %d: score %.2f increases from %.2f", name, i, band.Score, t.Bands[i-1].Score)
			}
		}
	}
	if t.Overflow < 0 || t.Overflow > t.Bands[len(t.Bands)-1].Score {
		return fmt.Errorf("%s table overflow %.2f must be in [0, %.2f]", name, t.Overflow, t.Bands[len(t.Bands)-1].Score)
	}
	return nil
}

// Weights are the fixed shares of each sub-factor in the composite
// score. They must sum to 1.
type Weights struct {
	Complexity    float64 `json:"complexity" mapstructure:"complexity" yaml:"complexity"`
	Documentation float64 `json:"documentation" mapstructure:"documentation" yaml:"documentation"`
	Testing       float64 `json:"testing" mapstructure:"testing" yaml:"testing"`
	Security      float64 `json:"security" mapstructure:"security" yaml:"security"`
	Architecture  float64 `json:"architecture" mapstructure:"architecture" yaml:"architecture"`
}

// For returns the weight of a sub-factor
func (w Weights) For(f domain.SubFactor) float64 {
	switch f {
	case domain.FactorComplexity:
		return w.Complexity
	case domain.FactorDocumentation:
		return w.Documentation
	case domain.FactorTesting:
		return w.Testing
	case domain.FactorSecurity:
		return w.Security
	case domain.FactorArchitecture:
		return w.Architecture
	}
	return 0
}

// Validate checks that weights are non-negative and sum to 1
func (w Weights) Validate() error {
	for _, v := range []float64{w.Complexity, w.Documentation, w.Testing, w.Security, w.Architecture} {
		if v < 0 {
			return fmt.Errorf("weights cannot be negative")
		}
	}
	sum := w.Complexity + w.Documentation + w.Testing + w.Security + w.Architecture
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// Tables bundles the step tables of all five sub-factors
type Tables struct {
	Complexity    RatioTable `json:"complexity" mapstructure:"complexity" yaml:"complexity"`
	Documentation RatioTable `json:"documentation" mapstructure:"documentation" yaml:"documentation"`
	Testing       RatioTable `json:"testing" mapstructure:"testing" yaml:"testing"`
	Security      CountTable `json:"security" mapstructure:"security" yaml:"security"`
	Architecture  RatioTable `json:"architecture" mapstructure:"architecture" yaml:"architecture"`
}

// Validate checks every table
func (t Tables) Validate() error {
	if err := t.Complexity.Validate("complexity"); err != nil {
		return err
	}
	if err := t.Documentation.Validate("documentation"); err != nil {
		return err
	}
	if err := t.Testing.Validate("testing"); err != nil {
		return err
	}
	if err := t.Security.Validate("security"); err != nil {
		return err
	}
	return t.Architecture.Validate("architecture")
}

// DefaultWeights returns the fixed factor shares: 30% complexity,
// 25% documentation, 20% testing, 15% security, 10% architecture.
func DefaultWeights() Weights {
	return Weights{
		Complexity:    0.30,
		Documentation: 0.25,
		Testing:       0.20,
		Security:      0.15,
		Architecture:  0.10,
	}
}

// DefaultTables returns the hand-tuned default breakpoint tables.
// The documentation table maps ratios >= 0.80 to the top level 1.00.
func DefaultTables() Tables {
	return Tables{
		Documentation: RatioTable{
			{Min: 0.00, Score: 0.20},
			{Min: 0.10, Score: 0.40},
			{Min: 0.30, Score: 0.60},
			{Min: 0.50, Score: 0.75},
			{Min: 0.65, Score: 0.90},
			{Min: 0.80, Score: 1.00},
		},
		Testing: RatioTable{
			{Min: 0.00, Score: 0.20},
			{Min: 0.05, Score: 0.40},
			{Min: 0.15, Score: 0.60},
			{Min: 0.30, Score: 0.80},
			{Min: 0.50, Score: 1.00},
		},
		Complexity: RatioTable{
			{Min: 0.00, Score: 0.20},
			{Min: 0.50, Score: 0.40},
			{Min: 0.75, Score: 0.60},
			{Min: 0.90, Score: 0.80},
			{Min: 0.97, Score: 1.00},
		},
		Security: CountTable{
			Bands: []CountBand{
				{Max: 0, Score: 1.00},
				{Max: 2, Score: 0.80},
				{Max: 5, Score: 0.60},
				{Max: 10, Score: 0.40},
			},
			Overflow: 0.20,
		},
		Architecture: RatioTable{
			{Min: 0.00, Score: 0.30},
			{Min: 0.20, Score: 0.50},
			{Min: 0.40, Score: 0.70},
			{Min: 0.60, Score: 0.85},
			{Min: 0.80, Score: 1.00},
		},
	}
}

// Compute evaluates all five sub-factors and combines them into the
// composite score. When the tree yields no functions, the
// documentation and testing factors fall back to their table minimums
// instead of failing; the caller surfaces this as a degenerate score.
func Compute(metrics domain.QualityMetrics, tables Tables, weights Weights) (float64, []domain.FactorScore, bool) {
	degenerate := metrics.FileCount == 0 || metrics.FunctionCount == 0

	docScore := tables.Documentation.Eval(metrics.DocumentationRatio())
	testScore := tables.Testing.Eval(metrics.TestRatio())
	if degenerate {
		docScore = tables.Documentation.MinScore()
		testScore = tables.Testing.MinScore()
	}

	factors := []domain.FactorScore{
		{Factor: domain.FactorComplexity, Input: metrics.SmallFileRatio(), Score: tables.Complexity.Eval(metrics.SmallFileRatio()), Weight: weights.Complexity},
		{Factor: domain.FactorDocumentation, Input: metrics.DocumentationRatio(), Score: docScore, Weight: weights.Documentation},
		{Factor: domain.FactorTesting, Input: metrics.TestRatio(), Score: testScore, Weight: weights.Testing},
		{Factor: domain.FactorSecurity, Input: float64(metrics.SecurityFlagCount), Score: tables.Security.Eval(metrics.SecurityFlagCount), Weight: weights.Security},
		{Factor: domain.FactorArchitecture, Input: metrics.ModernPatternRatio(), Score: tables.Architecture.Eval(metrics.ModernPatternRatio()), Weight: weights.Architecture},
	}

	score := 0.0
	for _, f := range factors {
		score += f.Score * f.Weight
	}
	return score, factors, degenerate
}

// Grade maps a composite score onto a coarse label
func Grade(score float64) string {
	switch {
	case score >= 0.90:
		return "excellent"
	case score >= 0.75:
		return "good"
	case score >= 0.60:
		return "fair"
	case score >= 0.40:
		return "poor"
	default:
		return "critical"
	}
}

// factor targets: documentation, testing and security aim high; the
// structural factors settle for 0.80
func targetFor(f domain.SubFactor) float64 {
	switch f {
	case domain.FactorDocumentation, domain.FactorTesting, domain.FactorSecurity:
		return 0.95
	default:
		return 0.80
	}
}

// Recommend produces improvement suggestions for every sub-factor
// below its target, ordered by factor weight descending and estimating
// the quantity of work to reach the target level.
func Recommend(metrics domain.QualityMetrics, factors []domain.FactorScore, tables Tables) []domain.Recommendation {
	sorted := make([]domain.FactorScore, len(factors))
	copy(sorted, factors)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Weight > sorted[j].Weight })

	var recs []domain.Recommendation
	for _, f := range sorted {
		target := targetFor(f.Factor)
		if f.Score >= target {
			continue
		}
		rec, ok := recommendFactor(metrics, f, target, tables)
		if !ok {
			continue
		}
		rec.Priority = len(recs) + 1
		recs = append(recs, rec)
	}
	return recs
}

// requiredRatio finds the lowest band Min whose score reaches target
func requiredRatio(t RatioTable, target float64) (float64, float64, bool) {
	for _, band := range t {
		if band.Score >= target {
			return band.Min, band.Score, true
		}
	}
	return 0, 0, false
}

// allowedCount finds the largest count still scoring at or above target
func allowedCount(t CountTable, target float64) (int, float64, bool) {
	allowed, score, found := 0, 0.0, false
	for _, band := range t.Bands {
		if band.Score >= target {
			allowed, score, found = band.Max, band.Score, true
		}
	}
	return allowed, score, found
}

func recommendFactor(m domain.QualityMetrics, f domain.FactorScore, target float64, tables Tables) (domain.Recommendation, bool) {
	rec := domain.Recommendation{Factor: f.Factor, Target: target}

	switch f.Factor {
	case domain.FactorDocumentation:
		ratio, score, ok := requiredRatio(tables.Documentation, target)
		if !ok {
			return rec, false
		}
		items := int(math.Ceil(ratio*float64(m.FunctionCount))) - m.DocumentedFunctionCount
		if items <= 0 {
			items = 1
		}
		rec.Items = items
		rec.GainPoints = (score - f.Score) * f.Weight * 100
		rec.Action = fmt.Sprintf("Add doc comments to %d functions to reach a %.0f%% documentation ratio", items, ratio*100)

	case domain.FactorTesting:
		ratio, score, ok := requiredRatio(tables.Testing, target)
		if !ok {
			return rec, false
		}
		items := int(math.Ceil(ratio*float64(m.FunctionCount))) - m.TestFunctionCount
		if items <= 0 {
			items = 1
		}
		rec.Items = items
		rec.GainPoints = (score - f.Score) * f.Weight * 100
		rec.Action = fmt.Sprintf("Add %d test functions to reach a %.0f%% test ratio", items, ratio*100)

	case domain.FactorComplexity:
		ratio, score, ok := requiredRatio(tables.Complexity, target)
		if !ok {
			return rec, false
		}
		maxLarge := int(math.Floor((1 - ratio) * float64(m.FileCount)))
		items := m.LargeFileCount - maxLarge
		if items <= 0 {
			items = 1
		}
		rec.Items = items
		rec.GainPoints = (score - f.Score) * f.Weight * 100
		rec.Action = fmt.Sprintf("Split %d large files to keep at least %.0f%% of files under the size threshold", items, ratio*100)

	case domain.FactorSecurity:
		allowed, score, ok := allowedCount(tables.Security, target)
		if !ok {
			return rec, false
		}
		items := m.SecurityFlagCount - allowed
		if items <= 0 {
			items = 1
		}
		rec.Items = items
		rec.GainPoints = (score - f.Score) * f.Weight * 100
		rec.Action = fmt.Sprintf("Remove %d flagged insecure patterns (plaintext URLs, hardcoded credentials)", items)

	case domain.FactorArchitecture:
		ratio, score, ok := requiredRatio(tables.Architecture, target)
		if !ok {
			return rec, false
		}
		total := m.ModernPatternCount + m.LegacyPatternCount
		items := int(math.Ceil(ratio*float64(total))) - m.ModernPatternCount
		if items <= 0 {
			items = 1
		}
		rec.Items = items
		rec.GainPoints = (score - f.Score) * f.Weight * 100
		rec.Action = fmt.Sprintf("Migrate %d call sites to structured concurrency (async/await, actors)", items)

	default:
		return rec, false
	}

	return rec, true
}
