package source

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc is called with the store name of a file that changed on disk.
type ChangeFunc func(name string)

// Watcher monitors files opened through a filesystem-backed store and reports
// writes, removals and renames.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	locator   Locator
	onChange  ChangeFunc
	logger    *slog.Logger

	mu    sync.Mutex
	dirs  map[string]struct{}
	names map[string]map[string]struct{} // filesystem path -> store names

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher resolving names through locator.
func NewWatcher(locator Locator, onChange ChangeFunc, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w := &Watcher{
		fsWatcher: fsw,
		locator:   locator,
		onChange:  onChange,
		logger:    logger,
		dirs:      make(map[string]struct{}),
		names:     make(map[string]map[string]struct{}),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	go w.run()
	return w, nil
}

// Track starts watching the file behind name. Tracking the same name twice
// is a no-op. Names the locator cannot resolve are ignored.
func (w *Watcher) Track(name string) error {
	path, ok := w.locator.Locate(name)
	if !ok {
		return nil
	}
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.dirs[dir]; !ok {
		// fsnotify watches directories so atomic replace-by-rename is seen.
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = struct{}{}
	}

	set, ok := w.names[path]
	if !ok {
		set = make(map[string]struct{})
		w.names[path] = set
	}
	set[name] = struct{}{}
	return nil
}

// Tracked reports how many distinct files are being watched.
func (w *Watcher) Tracked() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.names)
}

// run processes file system events.
func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			for _, name := range w.lookup(filepath.Clean(event.Name)) {
				w.logger.Debug("source changed", "name", name, "op", event.Op.String())
				if w.onChange != nil {
					w.onChange(name)
				}
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) lookup(path string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	set := w.names[path]
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	return names
}

// Close stops the watcher and waits for the event loop to exit. It is idempotent.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		err = w.fsWatcher.Close()
		<-w.done
	})
	return err
}
