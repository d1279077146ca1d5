// control/hotreload.go
// Author: momentics <momentics@gmail.com>
//
// Watches the config file and pushes valid new versions into a ConfigStore.

package control

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/phuslu/log"
)

// Watcher reloads a config file on change.
type Watcher struct {
	path  string
	store *ConfigStore
	fsw   *fsnotify.Watcher
	log   log.Logger
}

// NewWatcher watches the directory of path; editors that replace the file by
// rename are seen as Create events there.
func NewWatcher(path string, store *ConfigStore, logger log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, store: store, fsw: fsw, log: logger}, nil
}

// Run dispatches reloads until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			w.Reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Str("path", w.path).Msg("config watch error")
		}
	}
}

// Reload loads the file once; an invalid file leaves the store untouched.
// An empty file is skipped: writers truncate before writing, and the Write
// event for the truncation would otherwise reset everything to defaults.
func (w *Watcher) Reload() bool {
	b, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("config reload rejected")
		return false
	}
	if len(bytes.TrimSpace(b)) == 0 {
		w.log.Debug().Str("path", w.path).Msg("config file empty, reload skipped")
		return false
	}
	cfg := Default()
	if err := Parse(b, &cfg); err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("config reload rejected")
		return false
	}
	w.log.Info().Str("path", w.path).Msg("config reloaded")
	w.store.Set(cfg)
	return true
}

// Close stops Run.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
