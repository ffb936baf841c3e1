package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/warpdl/lightsout/pkg/logger"
)

// DefaultDebounce collapses the burst of events an editor produces when it
// saves a file.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc receives a configuration that loaded and validated cleanly.
type ReloadFunc func(*Config)

// Watcher reloads config.yml when it changes on disk. It watches the
// containing directory because editors often replace the file instead of
// writing it in place.
type Watcher struct {
	path     string
	fs       afero.Fs
	log      logger.Logger
	onReload ReloadFunc
	debounce time.Duration

	w    *fsnotify.Watcher
	done chan struct{}

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long the watcher waits for events to settle.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watch starts watching path. Load errors are logged and the previous
// configuration stays in effect.
func Watch(fs afero.Fs, path string, l logger.Logger, onReload ReloadFunc, opts ...WatchOption) (*Watcher, error) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	path = filepath.Clean(path)
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	w := &Watcher{
		path:     path,
		fs:       fs,
		log:      l,
		onReload: onReload,
		debounce: DefaultDebounce,
		w:        fw,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.schedule()
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.log.Warning("Config watcher: %v", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.fs, w.path)
	if err != nil {
		w.log.Warning("Ignoring change to %s: %v", w.path, err)
		return
	}
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	w.log.Info("Reloaded %s", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Close stops the watcher. A reload that is already running may still
// complete.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	err := w.w.Close()
	<-w.done
	return err
}
