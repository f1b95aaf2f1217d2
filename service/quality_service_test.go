package service

import (
	"context"
	"testing"

	"github.com/swiftscan/swiftscan/domain"
	"github.com/swiftscan/swiftscan/internal/config"
	"github.com/swiftscan/swiftscan/internal/testutil"
)

func qualityTestConfig() *config.QualityConfig {
	cfg := config.DefaultConfig()
	return &cfg.Quality
}

func TestQualityEstimate(t *testing.T) {
	root := testutil.WriteSourceTree(t, map[string]string{
		"Sources/Session.swift": `/// Logs the user in.
func login() {
}

func logout() {
}
`,
		"Tests/SessionTests.swift": `func testLogin() {
}
`,
		"Pods/Dep/Dep.swift": "func ignored() {}\n",
	})

	svc := NewQualityService(qualityTestConfig())
	resp, err := svc.Estimate(context.Background(), domain.QualityRequest{Root: root})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, 2, resp.Metrics.FileCount)
	testutil.AssertEqual(t, 3, resp.Metrics.FunctionCount)
	testutil.AssertEqual(t, 1, resp.Metrics.DocumentedFunctionCount)
	testutil.AssertEqual(t, 1, resp.Metrics.TestFunctionCount)
	testutil.AssertEqual(t, 0, resp.Metrics.UnreadableFileCount)

	testutil.AssertTrue(t, !resp.Degenerate, "populated tree must not be degenerate")
	testutil.AssertTrue(t, resp.Score > 0 && resp.Score <= 1, "score must be in (0,1]")
	testutil.AssertTrue(t, resp.Grade != "", "response must carry a grade")
	testutil.AssertEqual(t, 5, len(resp.Factors))
	testutil.AssertTrue(t, resp.RunID != "", "response must carry a run id")
}

func TestQualityEstimateEmptyTree(t *testing.T) {
	root := testutil.WriteSourceTree(t, map[string]string{
		"README.md": "no swift here\n",
	})

	svc := NewQualityService(qualityTestConfig())
	resp, err := svc.Estimate(context.Background(), domain.QualityRequest{Root: root})
	testutil.AssertNoError(t, err)

	testutil.AssertTrue(t, resp.Degenerate, "empty tree must yield a degenerate score")
	testutil.AssertEqual(t, 0, resp.Metrics.FileCount)
	testutil.AssertTrue(t, len(resp.Warnings) > 0, "degenerate run must carry a warning")
	testutil.AssertTrue(t, resp.Score > 0, "degenerate score still reports the minimum levels")
}

func TestQualityEstimateMissingRoot(t *testing.T) {
	svc := NewQualityService(qualityTestConfig())
	_, err := svc.Estimate(context.Background(), domain.QualityRequest{Root: "/does/not/exist"})
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, domain.IsConfigError(err), "missing root must be a config error")
}

func TestQualityEstimateEmptyRootPath(t *testing.T) {
	svc := NewQualityService(qualityTestConfig())
	_, err := svc.Estimate(context.Background(), domain.QualityRequest{})
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, domain.IsConfigError(err), "empty root must be a config error")
}

func TestQualityEstimateCancelled(t *testing.T) {
	root := testutil.WriteSourceTree(t, map[string]string{
		"A.swift": "func a() {}\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewQualityService(qualityTestConfig())
	_, err := svc.Estimate(ctx, domain.QualityRequest{Root: root})
	testutil.AssertError(t, err)
}

func TestQualityEstimateIsDeterministic(t *testing.T) {
	root := testutil.WriteSourceTree(t, map[string]string{
		"Sources/A.swift":    "/// Doc.\nfunc a() {}\nfunc b() {}\n",
		"Sources/B.swift":    "func c(completion: @escaping () -> Void) {}\n",
		"Tests/ATests.swift": "func testA() {}\n",
	})

	svc := NewQualityService(qualityTestConfig())

	first, err := svc.Estimate(context.Background(), domain.QualityRequest{Root: root})
	testutil.AssertNoError(t, err)
	second, err := svc.Estimate(context.Background(), domain.QualityRequest{Root: root})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, first.Score, second.Score)
	testutil.AssertEqual(t, first.Grade, second.Grade)
	testutil.AssertEqual(t, first.Metrics, second.Metrics)
	testutil.AssertEqual(t, len(first.Recommendations), len(second.Recommendations))
}

func TestQualityEstimateCustomExtension(t *testing.T) {
	root := testutil.WriteSourceTree(t, map[string]string{
		"a.metal": "func shade() {}\n",
		"b.swift": "func swiftOnly() {}\n",
	})

	svc := NewQualityService(qualityTestConfig())
	resp, err := svc.Estimate(context.Background(), domain.QualityRequest{
		Root:      root,
		Extension: ".metal",
	})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, 1, resp.Metrics.FileCount)
}
