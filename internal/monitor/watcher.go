package monitor

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/runlab/lifeline/pkg/log"
)

// debounceDelay absorbs editor write bursts before triggering a reload.
const debounceDelay = 200 * time.Millisecond

// configWatcher watches one config file and invokes reload on changes.
type configWatcher struct {
	path   string
	delay  time.Duration
	logger log.Logger
	reload func()

	mu       sync.Mutex
	debounce *time.Timer
}

func newConfigWatcher(path string, logger log.Logger, reload func()) *configWatcher {
	return &configWatcher{
		path:   path,
		delay:  debounceDelay,
		logger: logger,
		reload: reload,
	}
}

// run blocks until the context is cancelled.
func (w *configWatcher) run(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error("config watcher: create failed", log.Err(err))
		return
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file rather than
	// writing it in place.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Error("config watcher: watch failed", log.Err(err))
		return
	}
	w.logger.Info("config watcher active", log.String("path", w.path))

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			w.stopDebounce()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher: error", log.Err(err))
		}
	}
}

func (w *configWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, w.reload)
}

func (w *configWatcher) stopDebounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
}
