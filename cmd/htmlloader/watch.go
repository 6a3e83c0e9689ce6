package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-htmlloader/internal/logfields"
)

// ErrWatch indicates the file watcher could not be set up.
var ErrWatch = errors.New("watch failed")

// watcher debounces file system events into rebuilds.
type watcher struct {
	debounce time.Duration
	outputs  map[string]bool // absolute paths of written modules
	add      func(dir string) error
	rebuild  func(ctx context.Context, changed []string)
	logger   *slog.Logger
}

// watch blocks until ctx is done, rebuilding after changes below dirs.
func (w *watcher) watch(ctx context.Context, dirs []string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWatch, err)
	}
	defer func() { _ = fsw.Close() }()

	w.add = fsw.Add
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWatch, dir, err)
		}
	}
	w.logger.Info("watching", logfields.Count(len(dirs)))
	return w.loop(ctx, fsw.Events, fsw.Errors)
}

// loop collects events until the debounce delay passes without a new one,
// then rebuilds once with every changed path.
func (w *watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && w.add != nil {
					if err := w.add(ev.Name); err != nil {
						w.logger.Warn("cannot watch new directory", logfields.Path(ev.Name), logfields.Error(err))
					}
				}
			}
			pending[ev.Name] = true
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			w.logger.Debug("rebuilding", logfields.Count(len(changed)))
			w.rebuild(ctx, changed)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logfields.Error(err))
		}
	}
}

// relevant drops permission changes, hidden and temporary files, and the
// modules the CLI writes itself. Other files sharing the output extension
// may be inlined assets and stay relevant.
func (w *watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return !w.outputs[absPath(ev.Name)]
}

// trackOutputs records the module paths of a batch so their writes do not
// trigger another rebuild.
func (w *watcher) trackOutputs(results []fileResult) {
	if w.outputs == nil {
		w.outputs = make(map[string]bool, len(results))
	}
	for _, r := range results {
		if r.OutputPath != "" {
			w.outputs[absPath(r.OutputPath)] = true
		}
	}
}

// planRebuild selects the templates to rebuild. A changed template rebuilds
// itself; any other change may be a referenced asset and rebuilds all.
func planRebuild(files []templateFile, changed []string) []templateFile {
	byPath := make(map[string]templateFile, len(files))
	for _, f := range files {
		byPath[absPath(f.InputPath)] = f
	}

	var out []templateFile
	picked := make(map[string]bool)
	for _, c := range changed {
		abs := absPath(c)
		if !isTemplate(c) {
			return files
		}
		if f, ok := byPath[abs]; ok && !picked[abs] {
			picked[abs] = true
			out = append(out, f)
		}
	}
	return out
}

// watchDirs lists the directories to watch for inputs: the directory of
// each file input and every directory below each directory input.
func watchDirs(inputs []string, extra ...string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)
	addDir := func(d string) {
		abs := absPath(d)
		if !seen[abs] {
			seen[abs] = true
			dirs = append(dirs, abs)
		}
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWatch, err)
		}
		if !info.IsDir() {
			addDir(filepath.Dir(input))
			continue
		}
		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != input && (strings.HasPrefix(d.Name(), ".") || skippedDirs[d.Name()]) {
				return filepath.SkipDir
			}
			addDir(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWatch, err)
		}
	}
	for _, d := range extra {
		if d != "" {
			addDir(d)
		}
	}
	return dirs, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
