package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/swiftscan/swiftscan/domain"
)

// Default values for the parallel executor. The diagnostics and
// quality analyses have no data dependency, so a combined run executes
// them as independent tasks joined before report assembly.
const (
	DefaultMaxConcurrency = 4
	DefaultTimeout        = 30 * time.Minute
)

// TaskError represents a single task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d tasks failed:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// ParallelExecutorImpl implements domain.ParallelExecutor
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
	mu             sync.RWMutex
}

// NewParallelExecutor creates a parallel executor with defaults
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
	}
}

// NewParallelExecutorWithProgress creates a parallel executor with progress tracking
func NewParallelExecutorWithProgress(pm domain.ProgressManager) *ParallelExecutorImpl {
	executor := NewParallelExecutor()
	executor.progress = pm
	return executor
}

// Execute runs tasks concurrently with the configured concurrency and
// timeout. Individual failures are collected so every enabled task
// gets a chance to finish.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabledTasks := e.filterEnabledTasks(tasks)
	if len(enabledTasks) == 0 {
		return nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	timeout := e.timeout
	e.mu.RUnlock()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var task domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		task = e.progress.StartTask("Running analyses", len(enabledTasks))
	}
	defer task.Complete()

	g, gCtx := errgroup.WithContext(timeoutCtx)
	g.SetLimit(maxConcurrency)

	var errMu sync.Mutex
	var taskErrors []TaskError

	for _, t := range enabledTasks {
		t := t
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}

			_, err := t.Execute(gCtx)
			task.Increment(1)

			if err != nil {
				errMu.Lock()
				taskErrors = append(taskErrors, TaskError{TaskName: t.Name(), Err: err})
				errMu.Unlock()
			}

			// collect errors instead of cancelling the group so all
			// independent analyses run to completion
			return nil
		})
	}

	_ = g.Wait()

	if len(taskErrors) > 0 {
		return &AggregatedError{Errors: taskErrors}
	}
	return nil
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout sets the timeout for all tasks
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}

func (e *ParallelExecutorImpl) filterEnabledTasks(tasks []domain.ExecutableTask) []domain.ExecutableTask {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	return enabled
}
