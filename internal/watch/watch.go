// Package watch re-runs specs when their files change. It wraps fsnotify
// with recursive directory registration and a debounce window so one save
// producing several filesystem events triggers one run.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"specrun/internal/project"
)

// DefaultDebounce is the quiet period after the last event before a run
// triggers.
const DefaultDebounce = 250 * time.Millisecond

// Watcher observes a directory tree for spec file changes.
type Watcher struct {
	root     string
	pattern  string
	debounce time.Duration
	log      *zap.Logger
}

// New creates a Watcher over root for files matching pattern.
func New(root, pattern string, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{root: root, pattern: pattern, debounce: DefaultDebounce, log: log}
}

// Run blocks until ctx is done, calling onChange with the sorted set of
// changed spec paths after each debounce window. Directories created while
// watching are registered as they appear.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.root); err != nil {
		return err
	}

	pending := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				// New directories need explicit registration.
				if err := w.addTree(fsw, ev.Name); err != nil {
					w.log.Warn("cannot watch new path", zap.String("path", ev.Name), zap.Error(err))
				}
			}
			if !w.relevant(ev) {
				continue
			}
			pending[ev.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
				delete(pending, p)
			}
			sort.Strings(paths)
			w.log.Debug("change detected", zap.Strings("paths", paths))
			onChange(paths)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// relevant reports whether an event concerns a spec or project document.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
		return false
	}
	if project.IsProjectFile(ev.Name) {
		return true
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(w.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// addTree registers path and, when it is a directory, everything under it.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// The path may already be gone; watching continues without it.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if p != path && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor") {
			return fs.SkipDir
		}
		return fsw.Add(p)
	})
}
