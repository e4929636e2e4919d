/*
Package reload
File: watcher.go
Description:
    Hot reload of the YAML data files (equipment catalog, settings defaults).
    A reload is triggered by:
    1. The file changing on disk (fsnotify on its directory, debounced so an
       editor's write-rename-chmod burst reloads once).
    2. SIGHUP, which reloads every registered file.

    Reload callbacks own the swap; a failing callback is logged and the
    previous data stays live.
*/

package reload

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before it is reloaded.
const DefaultDebounce = 300 * time.Millisecond

// Func reloads one file.
type Func func(path string) error

// Watcher maps data files to their reload functions.
type Watcher struct {
	mu       sync.Mutex
	files    map[string]Func // Cleaned path -> reload
	debounce time.Duration
	logger   *zap.Logger
}

// New returns an empty Watcher.
func New(logger *zap.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{files: make(map[string]Func), debounce: debounce, logger: logger}
}

// Add registers path. Empty paths (embedded data) are ignored.
func (w *Watcher) Add(path string, fn Func) {
	if path == "" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[filepath.Clean(path)] = fn
}

// Files returns the registered paths, sorted.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ReloadAll reloads every registered file and returns how many failed.
func (w *Watcher) ReloadAll() int {
	failed := 0
	for _, p := range w.Files() {
		if !w.reload(p) {
			failed++
		}
	}
	return failed
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	// Watch directories, not files: editors replace files by rename
	dirs := map[string]struct{}{}
	for _, p := range w.Files() {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
		w.logger.Info("watching data directory", zap.String("dir", d))
	}

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)

	ticker := time.NewTicker(w.debounce / 3)
	defer ticker.Stop()
	pending := map[string]time.Time{}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-sighup:
			w.logger.Info("SIGHUP received, reloading data files")
			w.ReloadAll()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if !w.registered(name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending[name] = time.Now()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case now := <-ticker.C:
			for name, at := range pending {
				if now.Sub(at) >= w.debounce {
					delete(pending, name)
					w.reload(name)
				}
			}
		}
	}
}

func (w *Watcher) registered(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[path]
	return ok
}

func (w *Watcher) reload(path string) bool {
	w.mu.Lock()
	fn := w.files[path]
	w.mu.Unlock()
	if fn == nil {
		return false
	}
	if err := fn(path); err != nil {
		w.logger.Error("reload failed, keeping previous data", zap.String("path", path), zap.Error(err))
		return false
	}
	w.logger.Info("reloaded data file", zap.String("path", path))
	return true
}
