package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftscan/swiftscan/domain"
	"github.com/swiftscan/swiftscan/internal/config"
	"github.com/swiftscan/swiftscan/internal/scanner"
	"github.com/swiftscan/swiftscan/internal/scoring"
	"github.com/swiftscan/swiftscan/internal/version"
)

// QualityServiceImpl implements the QualityService interface
type QualityServiceImpl struct {
	cfg      *config.QualityConfig
	progress domain.ProgressManager
	logger   *zap.Logger
}

// NewQualityService creates a quality estimator from scoring configuration
func NewQualityService(cfg *config.QualityConfig) *QualityServiceImpl {
	return &QualityServiceImpl{cfg: cfg, logger: zap.NewNop()}
}

// NewQualityServiceWithProgress creates a quality estimator with
// progress reporting and a debug logger
func NewQualityServiceWithProgress(cfg *config.QualityConfig, pm domain.ProgressManager, logger *zap.Logger) *QualityServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QualityServiceImpl{cfg: cfg, progress: pm, logger: logger}
}

// Estimate scans the source tree under req.Root and produces the
// composite quality report. Unreadable files are skipped and counted,
// never fatal; an empty tree yields a degenerate score rather than an
// error. Two runs over an unchanged tree produce identical reports
// apart from run metadata.
func (s *QualityServiceImpl) Estimate(ctx context.Context, req domain.QualityRequest) (*domain.QualityResponse, error) {
	if req.Root == "" {
		return nil, domain.NewConfigError("no source root specified", nil)
	}

	start := time.Now()

	collector := scanner.NewCollector(req.Root, req.Extension, req.ExcludePatterns, req.RespectGitignore)
	files, err := collector.Collect(req.Root)
	if err != nil {
		return nil, domain.NewConfigError("source root inaccessible: "+req.Root, err)
	}
	s.logger.Debug("collected source files", zap.Int("count", len(files)))

	var task domain.TaskProgress
	if s.progress != nil && len(files) > 0 {
		task = s.progress.StartTask("Scanning sources", len(files))
		defer task.Complete()
	}

	var perFile []scanner.FileMetrics
	var warnings []string
	unreadable := 0
	for _, path := range files {
		select {
		case <-ctx.Done():
			return nil, domain.NewAnalysisError("scan cancelled", ctx.Err())
		default:
		}

		fm, err := scanner.ScanFile(path)
		if err != nil {
			unreadable++
			warnings = append(warnings, fmt.Sprintf("skipped unreadable file: %s", path))
			s.logger.Debug("skipping unreadable file", zap.String("path", path), zap.Error(err))
		} else {
			perFile = append(perFile, fm)
		}
		if task != nil {
			task.Increment(1)
		}
	}

	metrics := scanner.Aggregate(perFile, unreadable, s.cfg.LargeFileThreshold)
	score, factors, degenerate := scoring.Compute(metrics, s.cfg.Tables, s.cfg.Weights)
	recommendations := scoring.Recommend(metrics, factors, s.cfg.Tables)

	if degenerate {
		warnings = append(warnings, "no scannable functions found; documentation and testing factors report their minimums")
	}

	resp := &domain.QualityResponse{
		Score:           score,
		Grade:           scoring.Grade(score),
		Metrics:         metrics,
		Factors:         factors,
		Recommendations: recommendations,
		Degenerate:      degenerate,
		Warnings:        warnings,
		RunID:           uuid.NewString(),
		GeneratedAt:     time.Now().Format(time.RFC3339),
		DurationMs:      time.Since(start).Milliseconds(),
		Version:         version.Version,
	}

	s.logger.Debug("quality estimate complete",
		zap.Float64("score", score),
		zap.String("grade", resp.Grade),
		zap.Int("files", metrics.FileCount))
	return resp, nil
}
