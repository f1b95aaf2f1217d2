package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/swiftscan/swiftscan/domain"
)

// DefaultDebounce coalesces editor save bursts into one re-run
const DefaultDebounce = 500 * time.Millisecond

// WatchService re-runs a callback whenever matching source files
// change under a root directory. It holds no state between runs; every
// callback invocation recomputes its report from scratch.
type WatchService struct {
	root      string
	extension string
	excludes  []string
	debounce  time.Duration
	logger    *zap.Logger
}

// NewWatchService creates a watcher over root for files with the given
// extension, skipping excluded directories.
func NewWatchService(root, extension string, excludes []string, logger *zap.Logger) *WatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WatchService{
		root:      root,
		extension: extension,
		excludes:  excludes,
		debounce:  DefaultDebounce,
		logger:    logger,
	}
}

// SetDebounce overrides the change coalescing window
func (s *WatchService) SetDebounce(d time.Duration) {
	if d > 0 {
		s.debounce = d
	}
}

// Watch blocks until ctx is cancelled, invoking onChange after every
// debounced batch of relevant filesystem events.
func (s *WatchService) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return domain.NewConfigError("failed to create filesystem watcher", err)
	}
	defer watcher.Close()

	if err := s.addDirs(watcher, s.root); err != nil {
		return domain.NewConfigError("failed to watch source root: "+s.root, err)
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(event) {
				continue
			}
			// new directories need their own watch registration
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = s.addDirs(watcher, event.Name)
				}
			}
			s.logger.Debug("source change detected", zap.String("path", event.Name))
			if timer == nil {
				timer = time.NewTimer(s.debounce)
				timerC = timer.C
			} else {
				timer.Reset(s.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Debug("watch error", zap.Error(err))
		}
	}
}

func (s *WatchService) relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return false
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return true
	}
	return strings.EqualFold(filepath.Ext(event.Name), s.extension)
}

func (s *WatchService) addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		for _, pattern := range s.excludes {
			if pattern == base {
				return filepath.SkipDir
			}
			if matched, _ := filepath.Match(pattern, base); matched {
				return filepath.SkipDir
			}
		}
		return watcher.Add(path)
	})
}
