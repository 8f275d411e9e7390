// SPDX-License-Identifier: GPL-3.0-or-later

// Package watch re-analyzes dump files as they change on disk. A
// watcher holds an advisory lock on its directory so two processes do
// not race on the same dumps, matches files against a doublestar
// pattern and hands every fresh report to a callback. Rewrites that do
// not change the analyzed content are suppressed by fingerprint.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Santipap250/configdoctor/diag"
	"github.com/Santipap250/configdoctor/logger"
	"github.com/Santipap250/configdoctor/pkg/filelock"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultPattern matches the file extensions firmware dump exports
// commonly use.
const DefaultPattern = "**/*.{txt,diff,dump}"

const (
	defaultDebounce = 500 * time.Millisecond
	defaultRefresh  = time.Minute
)

// Handler receives the report of a changed dump file.
type Handler func(path string, report *diag.Report)

// Config configures a Watcher.
type Config struct {
	Dir      string
	Pattern  string
	Debounce time.Duration
}

// Watcher watches one directory tree for dump file changes.
type Watcher struct {
	*logger.Logger

	dir          string
	pattern      string
	debounce     time.Duration
	refreshEvery time.Duration
	onReport     Handler

	notify *fsnotify.Watcher

	mux    sync.Mutex
	closed bool
	timers map[string]*time.Timer
	seen   map[string]string
}

// New validates cfg and creates a Watcher. The directory must exist;
// an empty pattern means DefaultPattern.
func New(cfg Config, onReport Handler) (*Watcher, error) {
	if onReport == nil {
		return nil, errors.New("nil report handler")
	}

	fi, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("'%s' is not a directory", cfg.Dir)
	}

	pattern := cfg.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("bad watch pattern '%s'", pattern)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	return &Watcher{
		Logger:       logger.New().With(slog.String("component", "watch")),
		dir:          cfg.Dir,
		pattern:      pattern,
		debounce:     debounce,
		refreshEvery: defaultRefresh,
		onReport:     onReport,
		timers:       make(map[string]*time.Timer),
		seen:         make(map[string]string),
	}, nil
}

// Run analyzes every matching file once, then blocks handling change
// events until ctx is canceled. It returns an error when the directory
// is already locked by another watcher or the notify watch cannot be
// established.
func (w *Watcher) Run(ctx context.Context) error {
	lock, ok, err := filelock.TryLock(w.dir)
	if err != nil {
		return fmt.Errorf("lock '%s': %w", w.dir, err)
	}
	if !ok {
		return fmt.Errorf("directory '%s' is already being watched", w.dir)
	}
	defer lock.Release()

	nw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = nw.Close() }()

	w.notify = nw

	if err := w.addDirs(); err != nil {
		return err
	}

	w.Infof("watching '%s' (pattern '%s')", w.dir, w.pattern)

	w.refresh()

	tk := time.NewTicker(w.refreshEvery)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil
		case <-tk.C:
			w.refresh()
		case ev := <-nw.Events:
			w.handleEvent(ev)
		case err := <-nw.Errors:
			if err != nil {
				w.Warningf("watch error: %v", err)
			}
		}
	}
}

// fsnotify watches are not recursive, every subdirectory needs its own.
func (w *Watcher) addDirs() error {
	return filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.notify.Add(path); err != nil {
			return fmt.Errorf("watch '%s': %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}

	if ev.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.notify.Add(ev.Name); err != nil {
				w.Warningf("watch '%s': %v", ev.Name, err)
			}
			w.refresh()
			return
		}
	}

	if w.matches(ev.Name) {
		w.schedule(ev.Name)
	}
}

func (w *Watcher) refresh() {
	matches, err := doublestar.Glob(os.DirFS(w.dir), w.pattern)
	if err != nil {
		w.Warningf("glob '%s': %v", w.pattern, err)
		return
	}

	for _, rel := range matches {
		w.schedule(filepath.Join(w.dir, filepath.FromSlash(rel)))
	}
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return false
	}

	ok, err := doublestar.Match(w.pattern, filepath.ToSlash(rel))

	return err == nil && ok
}

func (w *Watcher) schedule(path string) {
	w.mux.Lock()
	defer w.mux.Unlock()

	if w.closed {
		return
	}

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}

	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mux.Lock()
		delete(w.timers, path)
		closed := w.closed
		w.mux.Unlock()

		if !closed {
			w.analyzeFile(path)
		}
	})
}

func (w *Watcher) analyzeFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.Warningf("cannot read '%s': %v", path, err)
		return
	}

	rep := diag.Analyze(string(data))

	w.mux.Lock()
	last, ok := w.seen[path]
	w.seen[path] = rep.Fingerprint
	w.mux.Unlock()

	if ok && last == rep.Fingerprint {
		return
	}

	w.Debugf("'%s' changed (severity %s, %d findings)", path, rep.Severity, len(rep.Findings))

	w.onReport(path, rep)
}

func (w *Watcher) stop() {
	w.mux.Lock()
	defer w.mux.Unlock()

	w.closed = true

	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}
