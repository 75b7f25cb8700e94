package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// Reloader re-reads the config file whenever it changes on disk and
// applies the new thresholds, alert routes, and budget cap to the
// running session. It watches the parent directory rather than the
// file itself so that editors which save via rename-replace still
// trigger a reload.
type Reloader struct {
	watcher *fsnotify.Watcher
	server  *Server
	target  string
}

// NewReloader sets up a watcher for the config file at path.
func NewReloader(server *Server, path string) (*Reloader, error) {
	if path == "" {
		return nil, fmt.Errorf("no config path to watch")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %q: %w", filepath.Dir(abs), err)
	}

	return &Reloader{watcher: watcher, server: server, target: abs}, nil
}

// Run blocks until ctx is cancelled, reloading the config after each
// burst of writes settles.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	var debounce *time.Timer
	stopTimer := func() {
		if debounce != nil {
			debounce.Stop()
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if !r.relevant(event) {
				continue
			}
			stopTimer()
			debounce = time.AfterFunc(reloadDebounce, r.apply)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "config watcher: %v\n", err)
		}
	}
}

func (r *Reloader) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == r.target
}

func (r *Reloader) apply() {
	if err := r.server.ReloadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "config reload failed: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "config reloaded from %s\n", r.target)
}
