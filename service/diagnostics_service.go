package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftscan/swiftscan/domain"
	"github.com/swiftscan/swiftscan/internal/buildlog"
	"github.com/swiftscan/swiftscan/internal/version"
)

// DiagnosticsServiceImpl implements the DiagnosticsService interface
type DiagnosticsServiceImpl struct {
	runner   domain.BuildRunner
	progress domain.ProgressManager
	logger   *zap.Logger
}

// NewDiagnosticsService creates a diagnostics service around a build runner
func NewDiagnosticsService(runner domain.BuildRunner) *DiagnosticsServiceImpl {
	return &DiagnosticsServiceImpl{runner: runner, logger: zap.NewNop()}
}

// NewDiagnosticsServiceWithProgress creates a diagnostics service with
// progress reporting and a debug logger
func NewDiagnosticsServiceWithProgress(runner domain.BuildRunner, pm domain.ProgressManager, logger *zap.Logger) *DiagnosticsServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiagnosticsServiceImpl{runner: runner, progress: pm, logger: logger}
}

// Run invokes the build exactly once, captures its combined output and
// produces the triage report. The call blocks for the duration of the
// external build; req.Timeout of zero waits indefinitely, and an
// elapsed timeout yields a TimedOut report rather than partial output.
func (s *DiagnosticsServiceImpl) Run(ctx context.Context, req domain.DiagnosticsRequest) (*domain.DiagnosticsResponse, error) {
	if len(req.BuildCommand) == 0 {
		return nil, domain.NewConfigError("no build command configured", nil)
	}

	start := time.Now()

	runCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var task domain.TaskProgress
	if s.progress != nil {
		task = s.progress.StartTask("Running build", 1)
	}

	s.logger.Debug("invoking build command", zap.Strings("argv", req.BuildCommand))
	exitCode, output, err := s.runner.Run(runCtx, req.BuildCommand)

	if task != nil {
		task.Increment(1)
		task.Complete()
	}

	resp := &domain.DiagnosticsResponse{
		ExitCode:    exitCode,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
	}

	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			s.logger.Debug("build timed out", zap.Duration("timeout", req.Timeout))
			resp.Status = domain.BuildStatusTimedOut
			resp.DurationMs = time.Since(start).Milliseconds()
			return resp, nil
		}
		return nil, err
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		resp.Status = domain.BuildStatusTimedOut
		resp.DurationMs = time.Since(start).Milliseconds()
		return resp, nil
	}

	resp.TotalErrors = buildlog.CountErrors(output)
	if resp.TotalErrors == 0 {
		resp.Status = domain.BuildStatusSuccess
	} else {
		resp.Status = domain.BuildStatusFailure
		resp.Categories = buildlog.Classify(output)
		resp.RemediationOrder = buildlog.RemediationOrder()
		resp.TopFiles = buildlog.TopFiles(output, buildlog.TopFileLimit)
	}

	resp.DurationMs = time.Since(start).Milliseconds()
	s.logger.Debug("diagnostics complete",
		zap.String("status", string(resp.Status)),
		zap.Int("total_errors", resp.TotalErrors))
	return resp, nil
}
