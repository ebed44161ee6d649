package appearance

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches an appearance config file and reloads it on change.
// Reloads only affect popups presented after the reload; already-bound
// constraints are never touched.
type Watcher struct {
	watcher  *fsnotify.Watcher
	filePath string
	logger   *slog.Logger
	done     chan struct{}

	mu       sync.Mutex
	running  bool
	onChange func(*Appearance)
}

// NewWatcher creates a watcher for the given appearance file. If path is
// empty the default config path is used.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if path == "" {
		path = ConfigPath()
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  watcher,
		filePath: path,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// SetChangeCallback sets the callback invoked with the freshly loaded
// appearance after each change.
func (w *Watcher) SetChangeCallback(cb func(*Appearance)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = cb
}

// Start begins watching the file for changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory containing the file (more reliable for writes)
	dir := filepath.Dir(w.filePath)
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.watch()
	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch() {
	filename := filepath.Base(w.filePath)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("appearance watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// reload re-reads the file and invokes the change callback.
func (w *Watcher) reload() {
	a, err := Load(w.filePath)
	if err != nil {
		w.logger.Warn("failed to reload appearance", "path", w.filePath, "error", err)
		return
	}

	w.mu.Lock()
	cb := w.onChange
	w.mu.Unlock()

	w.logger.Debug("appearance reloaded", "path", w.filePath)
	if cb != nil {
		cb(a)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.done)
	return w.watcher.Close()
}
