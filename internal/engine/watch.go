package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/refixlabs/refix/checker"
)

// debounceWindow coalesces the burst of write events editors emit for
// a single save.
const debounceWindow = 100 * time.Millisecond

// Watcher re-runs the engine on files as they change and hands each
// result to a callback.
type Watcher struct {
	engine   *Engine
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	onResult func(filename string, findings []checker.Finding)
	watching bool
}

// NewWatcher wraps an engine for watch mode. onResult receives the
// findings of every re-run; a nil callback logs them instead.
func NewWatcher(e *Engine, logger *zap.Logger, onResult func(string, []checker.Finding)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	return &Watcher{
		engine:   e,
		watcher:  fsw,
		logger:   logger,
		onResult: onResult,
	}, nil
}

// Watch registers every directory under the given roots and starts the
// event loop.
func (w *Watcher) Watch(roots ...string) error {
	if w.watching {
		return fmt.Errorf("already watching")
	}

	for _, root := range roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("adding %s to watcher: %w", root, err)
		}
	}

	w.watching = true
	go w.loop()
	return nil
}

// Stop closes the underlying watcher, which ends the event loop.
func (w *Watcher) Stop() error {
	w.watching = false
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	if !strings.HasSuffix(event.Name, ".go") {
		return
	}

	// An editor save often lands as several writes in quick
	// succession; give the file a moment to settle.
	time.Sleep(debounceWindow)

	findings, err := w.engine.Run(event.Name)
	if err != nil {
		w.logger.Error("re-checking changed file", zap.String("file", event.Name), zap.Error(err))
		return
	}

	if w.onResult != nil {
		w.onResult(event.Name, findings)
		return
	}
	w.logger.Info("re-checked changed file",
		zap.String("file", event.Name),
		zap.Int("findings", len(findings)))
}
