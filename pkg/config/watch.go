package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is the quiet period after a file event before the config
// is reloaded. Editors commonly produce several write events per save.
const watchDebounce = 200 * time.Millisecond

// Watcher watches a configuration file and reloads it on change, handing
// the new configuration to a callback. The intended consumer is alert
// threshold hot-reload: thresholds change far more often than the rest of
// the config, and a telemetry limit tweak should not need a restart.
//
// A reload that fails to parse or validate is logged and discarded; the
// previous configuration stays in effect.
type Watcher struct {
	path     string
	onReload func(*Config)
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewWatcher creates a watcher for the given config file path.
func NewWatcher(path string, onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     path,
		onReload: onReload,
		watcher:  fsw,
		logger:   slog.Default().With("component", "config.watcher"),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. The watcher stops itself when ctx is cancelled.
// The parent directory is watched rather than the file: editors and
// configmap mounts replace files atomically, which drops a watch on the
// file itself.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.running = true

	go w.loop(ctx)

	w.logger.Info("config watcher started", "path", w.path)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	reloadCh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.shouldProcessEvent(event) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case reloadCh <- struct{}{}:
				default:
				}
			})

		case <-reloadCh:
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

// shouldProcessEvent filters events down to content changes of the watched
// file.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.path)
}

func (w *Watcher) reload() {
	cfg, err := LoadFromFile(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous configuration",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.logger.Info("config reloaded",
		"path", w.path,
		"thresholds", len(cfg.Telemetry.Thresholds),
	)
	w.onReload(cfg)
}

// Stop halts the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
	_ = w.watcher.Close()

	w.logger.Info("config watcher stopped")
}
