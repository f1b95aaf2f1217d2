package service

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/swiftscan/swiftscan/domain"
)

// XcodeBuildRunner executes an external build command and captures its
// combined stdout/stderr. The command is injected as an argv, so the
// classifier never depends on a specific build tool.
type XcodeBuildRunner struct {
	// Dir is the working directory for the build; empty uses the
	// current directory
	Dir string

	// Env is appended to the inherited environment
	Env []string
}

// NewXcodeBuildRunner creates a runner executing in the current directory
func NewXcodeBuildRunner() *XcodeBuildRunner {
	return &XcodeBuildRunner{}
}

// Run executes argv and returns its exit code with the full combined
// output. A command that ran and exited non-zero is a normal result
// (compile errors are data); a command that could not be located or
// started is returned as an error.
func (r *XcodeBuildRunner) Run(ctx context.Context, argv []string) (int, string, error) {
	if len(argv) == 0 {
		return 0, "", domain.NewConfigError("no build command configured", nil)
	}

	if _, err := exec.LookPath(argv[0]); err != nil {
		return 0, "", domain.NewConfigError("build tool not found: "+argv[0], err)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), r.Env...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// the build ran and failed; its output is the report input
			return exitErr.ExitCode(), string(out), nil
		}
		return 0, "", domain.NewBuildError("build command could not be started", err)
	}

	return 0, string(out), nil
}
