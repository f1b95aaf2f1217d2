package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/swiftscan/swiftscan/domain"
)

// mockTask implements domain.ExecutableTask for testing
type mockTask struct {
	name     string
	enabled  bool
	execFunc func(ctx context.Context) (interface{}, error)
}

func (t *mockTask) Name() string { return t.name }

func (t *mockTask) IsEnabled() bool { return t.enabled }

func (t *mockTask) Execute(ctx context.Context) (interface{}, error) {
	if t.execFunc != nil {
		return t.execFunc(ctx)
	}
	return nil, nil
}

func newMockTask(name string, enabled bool) *mockTask {
	return &mockTask{name: name, enabled: enabled}
}

func newMockTaskWithExec(name string, enabled bool, execFunc func(ctx context.Context) (interface{}, error)) *mockTask {
	return &mockTask{name: name, enabled: enabled, execFunc: execFunc}
}

func TestNewParallelExecutor(t *testing.T) {
	executor := NewParallelExecutor()
	if executor == nil {
		t.Fatal("NewParallelExecutor returned nil")
	}
	if executor.maxConcurrency <= 0 {
		t.Errorf("maxConcurrency should be > 0, got %d", executor.maxConcurrency)
	}
	if executor.timeout != DefaultTimeout {
		t.Errorf("timeout should be %v, got %v", DefaultTimeout, executor.timeout)
	}
}

func TestParallelExecutor_EmptyTaskList(t *testing.T) {
	executor := NewParallelExecutor()
	if err := executor.Execute(context.Background(), []domain.ExecutableTask{}); err != nil {
		t.Errorf("empty task list should return nil, got %v", err)
	}
}

func TestParallelExecutor_AllTasksSucceed(t *testing.T) {
	executor := NewParallelExecutor()

	var executedCount atomic.Int32
	exec := func(ctx context.Context) (interface{}, error) {
		executedCount.Add(1)
		return nil, nil
	}
	tasks := []domain.ExecutableTask{
		newMockTaskWithExec("diagnostics", true, exec),
		newMockTaskWithExec("quality", true, exec),
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Errorf("all tasks succeeded should return nil, got %v", err)
	}
	if executedCount.Load() != 2 {
		t.Errorf("both tasks should have executed, got %d", executedCount.Load())
	}
}

func TestParallelExecutor_PartialFailures(t *testing.T) {
	executor := NewParallelExecutor()

	errBuild := errors.New("build tool missing")
	tasks := []domain.ExecutableTask{
		newMockTaskWithExec("diagnostics", true, func(ctx context.Context) (interface{}, error) {
			return nil, errBuild
		}),
		newMockTaskWithExec("quality", true, func(ctx context.Context) (interface{}, error) {
			return "report", nil
		}),
	}

	err := executor.Execute(context.Background(), tasks)
	if err == nil {
		t.Fatal("expected error for partial failures")
	}

	var aggErr *AggregatedError
	if !errors.As(err, &aggErr) {
		t.Fatalf("expected AggregatedError, got %T", err)
	}
	if len(aggErr.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(aggErr.Errors))
	}
	if aggErr.Errors[0].TaskName != "diagnostics" {
		t.Errorf("failed task = %s, want diagnostics", aggErr.Errors[0].TaskName)
	}
	if !errors.Is(err, errBuild) {
		t.Error("aggregated error must unwrap to the task failure")
	}
}

func TestParallelExecutor_DisabledTasksSkipped(t *testing.T) {
	executor := NewParallelExecutor()

	var executedCount atomic.Int32
	tasks := []domain.ExecutableTask{
		newMockTaskWithExec("enabled", true, func(ctx context.Context) (interface{}, error) {
			executedCount.Add(1)
			return nil, nil
		}),
		newMockTaskWithExec("disabled", false, func(ctx context.Context) (interface{}, error) {
			executedCount.Add(1)
			return nil, nil
		}),
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if executedCount.Load() != 1 {
		t.Errorf("only the enabled task should execute, got %d executions", executedCount.Load())
	}
}

func TestParallelExecutor_AllDisabledTasks(t *testing.T) {
	executor := NewParallelExecutor()
	tasks := []domain.ExecutableTask{
		newMockTask("disabled1", false),
		newMockTask("disabled2", false),
	}
	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Errorf("all disabled tasks should return nil, got %v", err)
	}
}

func TestParallelExecutor_ConcurrencyLimit(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(2)

	var current atomic.Int32
	var peak atomic.Int32

	var tasks []domain.ExecutableTask
	for i := 0; i < 5; i++ {
		name := "task" + string(rune('0'+i))
		tasks = append(tasks, newMockTaskWithExec(name, true, func(ctx context.Context) (interface{}, error) {
			n := current.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(50 * time.Millisecond)
			current.Add(-1)
			return nil, nil
		}))
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if peak.Load() > 2 {
		t.Errorf("max concurrency should not exceed 2, got %d", peak.Load())
	}
}

func TestParallelExecutor_Setters(t *testing.T) {
	executor := NewParallelExecutor()

	executor.SetMaxConcurrency(16)
	executor.SetTimeout(10 * time.Minute)
	executor.mu.RLock()
	if executor.maxConcurrency != 16 {
		t.Errorf("maxConcurrency should be 16, got %d", executor.maxConcurrency)
	}
	if executor.timeout != 10*time.Minute {
		t.Errorf("timeout should be 10 minutes, got %v", executor.timeout)
	}
	executor.mu.RUnlock()

	executor.SetMaxConcurrency(0)
	executor.SetTimeout(-time.Second)
	executor.mu.RLock()
	if executor.maxConcurrency != 16 || executor.timeout != 10*time.Minute {
		t.Error("invalid setter values must be ignored")
	}
	executor.mu.RUnlock()
}

func TestParallelExecutor_ProgressIntegration(t *testing.T) {
	var incrementCount atomic.Int32
	var completed atomic.Bool

	mockPM := &mockProgressManager{
		startTaskFunc: func(description string, total int) domain.TaskProgress {
			return &mockTaskProgress{
				incrementFunc: func(n int) { incrementCount.Add(int32(n)) },
				completeFunc:  func() { completed.Store(true) },
			}
		},
	}

	executor := NewParallelExecutorWithProgress(mockPM)
	tasks := []domain.ExecutableTask{
		newMockTask("diagnostics", true),
		newMockTask("quality", true),
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if incrementCount.Load() != 2 {
		t.Errorf("expected 2 increments, got %d", incrementCount.Load())
	}
	if !completed.Load() {
		t.Error("expected Complete() to be called")
	}
}

func TestAggregatedError_Error(t *testing.T) {
	tests := []struct {
		name     string
		errors   []TaskError
		contains string
	}{
		{"no errors", []TaskError{}, "no errors"},
		{"single error", []TaskError{{TaskName: "quality", Err: errors.New("failed")}}, "[quality] failed"},
		{"multiple errors", []TaskError{
			{TaskName: "diagnostics", Err: errors.New("failed1")},
			{TaskName: "quality", Err: errors.New("failed2")},
		}, "2 tasks failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggErr := &AggregatedError{Errors: tt.errors}
			if !strings.Contains(aggErr.Error(), tt.contains) {
				t.Errorf("error string should contain %q, got %q", tt.contains, aggErr.Error())
			}
		})
	}
}

func TestTaskError_Error(t *testing.T) {
	te := TaskError{TaskName: "diagnostics", Err: errors.New("something went wrong")}
	if te.Error() != "[diagnostics] something went wrong" {
		t.Errorf("unexpected error string: %s", te.Error())
	}

	cause := errors.New("original")
	if !errors.Is(TaskError{TaskName: "t", Err: cause}, cause) {
		t.Error("TaskError should unwrap to the original error")
	}
}

// Helper types for testing

type mockProgressManager struct {
	startTaskFunc func(description string, total int) domain.TaskProgress
}

func (m *mockProgressManager) StartTask(description string, total int) domain.TaskProgress {
	if m.startTaskFunc != nil {
		return m.startTaskFunc(description, total)
	}
	return &NoOpTaskProgress{}
}

func (m *mockProgressManager) IsInteractive() bool { return false }

func (m *mockProgressManager) Close() {}

type mockTaskProgress struct {
	incrementFunc func(n int)
	completeFunc  func()
}

func (m *mockTaskProgress) Increment(n int) {
	if m.incrementFunc != nil {
		m.incrementFunc(n)
	}
}

func (m *mockTaskProgress) Describe(string) {}

func (m *mockTaskProgress) Complete() {
	if m.completeFunc != nil {
		m.completeFunc()
	}
}
