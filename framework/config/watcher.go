package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a file-backed property source when the file changes.
// The parent directory is watched rather than the file itself, so editors
// that replace the file via rename still trigger a reload.
type Watcher struct {
	fs     *fsnotify.Watcher
	source *YamlPropertySource
	log    *zap.Logger

	mu       sync.Mutex
	onChange []func()

	closeOnce sync.Once
	done      chan struct{}
}

func NewWatcher(source *YamlPropertySource, log *zap.Logger) (*Watcher, error) {
	if source.Path() == "" {
		return nil, fmt.Errorf("config: cannot watch source %s without a backing file", source.Name())
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: starting watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(source.Path())); err != nil {
		fs.Close()
		return nil, fmt.Errorf("config: watching %s: %w", source.Path(), err)
	}
	w := &Watcher{fs: fs, source: source, log: log, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

// OnChange registers a callback invoked after each successful reload.
func (w *Watcher) OnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

func (w *Watcher) loop() {
	target := filepath.Clean(w.source.Path())
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if err := w.source.Reload(); err != nil {
				w.log.Warn("config reload failed",
					zap.String("file", target),
					zap.Error(err))
				continue
			}
			w.log.Info("config reloaded", zap.String("file", target))
			w.mu.Lock()
			callbacks := append([]func(){}, w.onChange...)
			w.mu.Unlock()
			for _, fn := range callbacks {
				fn()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}
