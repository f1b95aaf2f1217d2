package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/swiftscan/swiftscan/domain"
	"github.com/swiftscan/swiftscan/internal/testutil"
)

// fakeRunner scripts the build outcome without spawning processes
type fakeRunner struct {
	exitCode int
	output   string
	err      error
	delay    time.Duration
	gotArgv  []string
}

func (r *fakeRunner) Run(ctx context.Context, argv []string) (int, string, error) {
	r.gotArgv = argv
	if r.delay > 0 {
		select {
		case <-ctx.Done():
			return 0, "", ctx.Err()
		case <-time.After(r.delay):
		}
	}
	return r.exitCode, r.output, r.err
}

func TestDiagnosticsRunSuccess(t *testing.T) {
	runner := &fakeRunner{exitCode: 0, output: "Compiling App.swift\nBuild succeeded\n"}
	svc := NewDiagnosticsService(runner)

	resp, err := svc.Run(context.Background(), domain.DiagnosticsRequest{
		BuildCommand: []string{"xcodebuild", "build"},
	})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, domain.BuildStatusSuccess, resp.Status)
	testutil.AssertEqual(t, 0, resp.TotalErrors)
	testutil.AssertTrue(t, len(resp.Categories) == 0, "successful build must carry no category tally")
	testutil.AssertTrue(t, resp.RunID != "", "response must carry a run id")
	testutil.AssertTrue(t, resp.GeneratedAt != "", "response must carry a timestamp")

	if len(runner.gotArgv) != 2 || runner.gotArgv[0] != "xcodebuild" {
		t.Errorf("runner received argv %v", runner.gotArgv)
	}
}

func TestDiagnosticsRunFailure(t *testing.T) {
	output := strings.Join([]string{
		"/app/Login.swift:12:5: error: cannot use optional chaining on non-optional value of type 'User'",
		"/app/Login.swift:30:9: error: cannot convert value of type 'String' to expected argument type 'Int'",
		"/app/Profile.swift:8:1: error: expected 'func' keyword in instance method declaration",
		"warning: unused variable",
	}, "\n")
	runner := &fakeRunner{exitCode: 65, output: output}
	svc := NewDiagnosticsService(runner)

	resp, err := svc.Run(context.Background(), domain.DiagnosticsRequest{
		BuildCommand: []string{"xcodebuild", "build"},
	})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, domain.BuildStatusFailure, resp.Status)
	testutil.AssertEqual(t, 3, resp.TotalErrors)
	testutil.AssertEqual(t, 65, resp.ExitCode)

	testutil.AssertEqual(t, 1, resp.CategoryCountFor(domain.CategoryOptionalChaining))
	testutil.AssertEqual(t, 1, resp.CategoryCountFor(domain.CategoryTypeConversion))
	testutil.AssertEqual(t, 1, resp.CategoryCountFor(domain.CategorySyntaxError))
	testutil.AssertEqual(t, 0, resp.CategoryCountFor(domain.CategoryOther))

	if len(resp.RemediationOrder) == 0 || resp.RemediationOrder[0] != domain.CategorySyntaxError {
		t.Errorf("remediation order = %v, want syntax errors first", resp.RemediationOrder)
	}

	if len(resp.TopFiles) != 2 || resp.TopFiles[0].Name != "Login.swift" || resp.TopFiles[0].Count != 2 {
		t.Errorf("top files = %+v", resp.TopFiles)
	}
}

// a non-zero exit without error-marked lines still reports success:
// the classifier only trusts the error marker, not the exit code
func TestDiagnosticsRunExitCodeWithoutErrorLines(t *testing.T) {
	runner := &fakeRunner{exitCode: 1, output: "some tool noise without the marker\n"}
	svc := NewDiagnosticsService(runner)

	resp, err := svc.Run(context.Background(), domain.DiagnosticsRequest{
		BuildCommand: []string{"xcodebuild"},
	})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, domain.BuildStatusSuccess, resp.Status)
	testutil.AssertEqual(t, 1, resp.ExitCode)
}

func TestDiagnosticsRunEmptyCommand(t *testing.T) {
	svc := NewDiagnosticsService(&fakeRunner{})
	_, err := svc.Run(context.Background(), domain.DiagnosticsRequest{})
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, domain.IsConfigError(err), "empty command must be a config error")
}

func TestDiagnosticsRunRunnerError(t *testing.T) {
	runner := &fakeRunner{err: domain.NewConfigError("build tool not found: xcodebuild", nil)}
	svc := NewDiagnosticsService(runner)

	_, err := svc.Run(context.Background(), domain.DiagnosticsRequest{
		BuildCommand: []string{"xcodebuild"},
	})
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, domain.IsConfigError(err), "missing tool must surface as a config error")
}

func TestDiagnosticsRunTimeout(t *testing.T) {
	runner := &fakeRunner{delay: 500 * time.Millisecond, output: "never classified"}
	svc := NewDiagnosticsService(runner)

	resp, err := svc.Run(context.Background(), domain.DiagnosticsRequest{
		BuildCommand: []string{"xcodebuild"},
		Timeout:      20 * time.Millisecond,
	})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, domain.BuildStatusTimedOut, resp.Status)
	testutil.AssertEqual(t, 0, resp.TotalErrors)
	testutil.AssertTrue(t, len(resp.Categories) == 0, "timed out build must not classify partial output")
}
