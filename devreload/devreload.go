// SPDX-License-Identifier: MIT

// Package devreload watches source trees during development and
// triggers an action when files change. The default action exits the
// process with a distinct code so a supervisor (shell loop, process
// manager) can rebuild and restart it.
package devreload

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/go-strut/strut/log"
)

// ExitCode is the process exit code used by the default change action.
const ExitCode = 3

const defaultDebounce = 500 * time.Millisecond

// Config controls what the watcher observes and how it reacts.
type Config struct {
	// Dirs are the roots to watch, recursively. Defaults to ".".
	Dirs []string

	// Extensions filters events by file extension (with dot, e.g.
	// ".go"). Empty means every file counts.
	Extensions []string

	// Debounce collapses bursts of events into one trigger. Defaults
	// to 500ms.
	Debounce time.Duration

	// OnChange is invoked once per debounced change burst with the
	// path that triggered it. The default logs and exits the process
	// with ExitCode.
	OnChange func(path string)
}

// Watcher watches directory trees and fires the configured action on
// changes.
type Watcher struct {
	cfg     Config
	watcher *fsnotify.Watcher
	logger  zerolog.Logger
}

// New validates cfg and creates the watcher. Every configured root must
// exist.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Dirs) == 0 {
		cfg.Dirs = []string{"."}
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}

	logger := log.WithComponent("devreload")
	if cfg.OnChange == nil {
		cfg.OnChange = func(path string) {
			logger.Info().
				Str("event", "devreload.restart").
				Str("path", path).
				Msg("change detected, exiting for restart")
			os.Exit(ExitCode)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{cfg: cfg, watcher: watcher, logger: logger}
	for _, dir := range cfg.Dirs {
		if err := w.watchTree(dir); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}
	return w, nil
}

// watchTree adds dir and every subdirectory to the watcher.
func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", root, err)
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// matches reports whether a changed path passes the extension filter.
func (w *Watcher) matches(path string) bool {
	if len(w.cfg.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, want := range w.cfg.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// Run watches until ctx is cancelled. Newly created directories are
// added to the watch set, and bursts of events are debounced into a
// single OnChange call.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		_ = w.watcher.Close()
	}()

	w.logger.Info().
		Str("event", "devreload.started").
		Strs("dirs", w.cfg.Dirs).
		Msg("watching for changes")

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("event", "devreload.stopped").Msg("watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watchTree(event.Name); err != nil {
						w.logger.Warn().
							Err(err).
							Str("event", "devreload.watch_failed").
							Str("path", event.Name).
							Msg("cannot watch new directory")
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}

			w.logger.Debug().
				Str("event", "devreload.change").
				Str("op", event.Op.String()).
				Str("path", event.Name).
				Msg("file changed")

			path := event.Name
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.cfg.Debounce, func() {
				w.cfg.OnChange(path)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().
				Err(err).
				Str("event", "devreload.watcher_error").
				Msg("watcher error")
		}
	}
}
