// Package watch reruns a callback when input workbooks change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cubeproc/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a set of files and to the workbooks inside a
// set of directories. Parent directories are watched rather than the files
// themselves, so files replaced by an editor's save-and-rename are still seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	ignored  map[string]bool
	debounce time.Duration
}

// New starts watching. Changes are collected from the moment New returns.
func New(files, dirs []string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		ignored:  make(map[string]bool),
		debounce: debounce,
	}

	parents := make(map[string]bool)
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = true
		parents[filepath.Dir(abs)] = true
	}
	for _, d := range dirs {
		if d == "" {
			continue
		}
		abs, err := filepath.Abs(d)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.dirs[abs] = true
		parents[abs] = true
	}

	for dir := range parents {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("Watching directory", "dir", dir)
	}
	return w, nil
}

// Ignore excludes paths, typically the run's own output file, from triggering reruns.
func (w *Watcher) Ignore(paths ...string) {
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			w.ignored[abs] = true
		}
	}
}

// relevant reports whether a change to path should trigger a rerun.
func (w *Watcher) relevant(path string) bool {
	if w.ignored[path] {
		return false
	}
	if w.files[path] {
		return true
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || !strings.EqualFold(filepath.Ext(base), ".xlsx") {
		return false
	}
	return w.dirs[filepath.Dir(path)]
}

// Run calls onChange with the changed paths once no further change has been
// seen for the debounce interval. Calls never overlap; changes seen during a
// call are delivered afterwards. Run returns when ctx is done.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			logger.Debug("Input changed", "file", event.Name, "op", event.Op.String())
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			logger.Info("Inputs changed, rerunning", "files", len(changed))
			onChange(changed)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", "error", err)
		}
	}
}
