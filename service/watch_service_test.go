package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/swiftscan/swiftscan/domain"
	"github.com/swiftscan/swiftscan/internal/testutil"
)

func TestWatchServiceMissingRoot(t *testing.T) {
	svc := NewWatchService(filepath.Join(t.TempDir(), "nope"), ".swift", nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := svc.Watch(ctx, func() {})
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, domain.IsConfigError(err), "missing root must be a config error")
}

func TestWatchServiceTriggersOnChange(t *testing.T) {
	root := testutil.WriteSourceTree(t, map[string]string{
		"Sources/App.swift": "func main() {}\n",
	})

	svc := NewWatchService(root, ".swift", nil, nil)
	svc.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(root, "Sources", "App.swift")
	if err := os.WriteFile(path, []byte("func main() {}\nfunc extra() {}\n"), 0644); err != nil {
		t.Fatalf("failed to modify watched file: %v", err)
	}

	select {
	case <-changed:
	case <-ctx.Done():
		t.Fatal("watcher did not report the change before the deadline")
	}

	cancel()
	if err := <-done; err != nil && err != context.Canceled {
		t.Errorf("Watch returned %v, want context.Canceled", err)
	}
}

func TestWatchServiceIgnoresOtherExtensions(t *testing.T) {
	root := testutil.WriteSourceTree(t, map[string]string{
		"Sources/App.swift": "func main() {}\n",
	})

	svc := NewWatchService(root, ".swift", nil, nil)
	svc.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	go func() {
		_ = svc.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(root, "Sources", "notes.txt")
	if err := os.WriteFile(path, []byte("irrelevant\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case <-changed:
		t.Error("watcher must not report changes to other extensions")
	case <-time.After(300 * time.Millisecond):
	}
}
