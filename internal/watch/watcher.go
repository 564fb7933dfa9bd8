// Package watch detects changes to documentation files and reports them so
// the caller can run a full re-parse.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/itsmostafa/docidx/internal/log"
)

// ErrAlreadyRunning is returned by Start on a watcher that is running.
var ErrAlreadyRunning = errors.New("watcher already running")

// excludeDirs are never scanned or subscribed to.
var excludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
}

// Options configures a Watcher.
type Options struct {
	// Root is the directory to watch.
	Root string
	// Patterns are doublestar globs relative to Root, e.g. "**/*.adoc".
	Patterns []string
	// Interval between polling scans.
	Interval time.Duration
	// Debounce delays the scan after a filesystem event so bursts of events
	// collapse into one change report.
	Debounce time.Duration
}

// stamp identifies one version of a file.
type stamp struct {
	modTime time.Time
	size    int64
}

// Watcher compares file modification stamps against the previous scan.
// Scans run on a fixed interval and, between ticks, shortly after fsnotify
// reports activity. fsnotify only speeds things up; polling alone is
// sufficient.
type Watcher struct {
	opts     Options
	onChange func(changed []string)

	mu     sync.Mutex
	stamps map[string]stamp

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	fsw     *fsnotify.Watcher
}

// New creates a watcher. onChange is called from the watcher goroutine with
// the sorted set of files that were added, modified or removed.
func New(opts Options, onChange func(changed []string)) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	return &Watcher{
		opts:     opts,
		onChange: onChange,
		stamps:   make(map[string]stamp),
	}
}

// Start records the current state of the tree and begins watching in the
// background until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	if w.running {
		return ErrAlreadyRunning
	}

	w.mu.Lock()
	w.stamps = w.scan()
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("fsnotify unavailable, falling back to polling only")
	} else {
		w.subscribe(fsw, w.opts.Root)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.fsw = fsw
	w.done = make(chan struct{})
	w.running = true

	go w.loop(ctx)

	log.Info().Str("root", w.opts.Root).Dur("interval", w.opts.Interval).Msg("watching for changes")
	return nil
}

// Stop ends watching and waits for the watcher goroutine to exit.
func (w *Watcher) Stop() {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	if !w.running {
		return
	}
	w.cancel()
	<-w.done
	if w.fsw != nil {
		w.fsw.Close()
		w.fsw = nil
	}
	w.running = false
}

// Check scans the tree once, replaces the stored stamps and returns the
// files that changed since the previous scan.
func (w *Watcher) Check() []string {
	current := w.scan()

	w.mu.Lock()
	defer w.mu.Unlock()

	var changed []string
	for path, st := range current {
		if prev, ok := w.stamps[path]; !ok || prev != st {
			changed = append(changed, path)
		}
	}
	for path := range w.stamps {
		if _, ok := current[path]; !ok {
			changed = append(changed, path)
		}
	}
	w.stamps = current

	sort.Strings(changed)
	return changed
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	var errs <-chan error
	if w.fsw != nil {
		events = w.fsw.Events
		errs = w.fsw.Errors
	}
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			w.fire()

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.subscribe(w.fsw, event.Name)
				}
			}
			settle = time.After(w.opts.Debounce)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Warn().Err(err).Msg("watcher error")

		case <-settle:
			settle = nil
			w.fire()
		}
	}
}

func (w *Watcher) fire() {
	changed := w.Check()
	if len(changed) == 0 {
		return
	}
	log.Info().Int("files", len(changed)).Msg("documentation files changed")
	if w.onChange != nil {
		w.onChange(changed)
	}
}

// scan stamps every file under Root that matches one of the patterns.
func (w *Watcher) scan() map[string]stamp {
	stamps := make(map[string]stamp)
	fsys := os.DirFS(w.opts.Root)
	for _, pattern := range w.opts.Patterns {
		// Unreadable entries and symlink loops are skipped, not fatal.
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			log.Warn().Err(err).Str("pattern", pattern).Msg("failed to scan for documentation files")
			continue
		}
		for _, m := range matches {
			if excluded(m) {
				continue
			}
			path := filepath.Join(w.opts.Root, filepath.FromSlash(m))
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			stamps[path] = stamp{modTime: info.ModTime(), size: info.Size()}
		}
	}
	return stamps
}

// subscribe adds dir and its subdirectories to the fsnotify watcher.
func (w *Watcher) subscribe(fsw *fsnotify.Watcher, dir string) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && excludeDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to watch directory")
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("root", dir).Msg("failed to walk directory tree")
	}
}

// excluded reports whether a slash-separated relative path lies inside an
// excluded directory.
func excluded(rel string) bool {
	dir := filepath.Dir(filepath.FromSlash(rel))
	for dir != "." && dir != string(filepath.Separator) && dir != "" {
		if excludeDirs[filepath.Base(dir)] {
			return true
		}
		dir = filepath.Dir(dir)
	}
	return false
}
