// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when watched source trees change.
//
// A Watcher monitors one or more repository roots recursively and fires a
// callback after a debounce window, so bursts of filesystem events (an
// editor's save-and-rename, a git checkout) collapse into one invocation.
// It backs the style check's --watch mode, where the roots are the
// configured CLI and extension repositories.
package watch

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period after the last filesystem event
// before the callback fires.
const defaultDebounce = 500 * time.Millisecond

// defaultIgnores are always excluded from watching. They cover VCS
// metadata, Python bytecode and tool caches, virtualenvs, editor swap
// files, and OS metadata files that generate high-frequency noise.
var defaultIgnores = []string{
	"**/.git/**",
	"**/__pycache__/**",
	"**/.tox/**",
	"**/.venv/**",
	"**/*.egg-info/**",
	"**/.pytest_cache/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are the directory trees to watch recursively. Empty
		// defaults to the current working directory.
		Roots []string

		// Patterns are doublestar-compatible glob patterns (e.g.
		// "**/*.py") selecting which files trigger the callback. An
		// empty slice matches all non-ignored files.
		Patterns []string

		// Ignore are additional doublestar-compatible glob patterns for
		// paths that never trigger the callback, merged with the
		// built-in defaults.
		Ignore []string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative falls back to
		// defaultDebounce.
		Debounce time.Duration

		// ClearScreen writes an ANSI clear sequence to Stdout before
		// each callback invocation. No terminal detection is performed.
		ClearScreen bool

		// OnChange is called after the debounce window closes with the
		// deduplicated changed paths, each relative to its owning root.
		// A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout and Stderr are the writers for informational and error
		// messages. nil values default to os.Stdout / os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Watcher monitors the configured roots and fires a debounced
	// callback when matching files change. Run must be called exactly
	// once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		roots    []string
		ignores  []string
		stdout   io.Writer
		stderr   io.Writer
		debounce time.Duration
		started  atomic.Bool
	}
)

// New creates a Watcher from the given Config. It resolves every root to
// an absolute path, initialises the underlying fsnotify watcher, and
// registers all non-ignored directories under each root.
func New(cfg Config) (*Watcher, error) {
	roots := cfg.Roots
	if len(roots) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		roots = []string{wd}
	}

	var absRoots []string
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve root %q: %w", root, err)
		}
		if !slices.Contains(absRoots, abs) {
			absRoots = append(absRoots, abs)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// Invalid globs fail at construction time rather than silently
	// failing to match at runtime.
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, err
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		roots:    absRoots,
		ignores:  ignores,
		stdout:   stdout,
		stderr:   stderr,
		debounce: debounce,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "watch: close after init failure: %v\n", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean context
// cancellation and propagates fatal watcher errors. A second call returns
// an error immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set and invokes the OnChange callback. It
	// may be scheduled by time.AfterFunc after the context is cancelled,
	// so ctx.Err() is checked as a best-effort guard; the callback
	// receives ctx for cancellation-sensitive work. The atomic
	// skip-if-busy guard prevents concurrent invocations when the check
	// takes longer than the debounce period.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			fmt.Fprintf(w.stderr, "watch: skipping re-run (previous run still in progress)\n")
			// Schedule a retry so pending events are not lost when no
			// further filesystem events arrive.
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Collect(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			// ANSI escape: clear screen and move cursor to top-left.
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				fmt.Fprintf(w.stderr, "watch: callback error: %v\n", err)
			}
		}
	}

	// The timer is accessed under mu because the event loop writes it
	// under the same lock.
	defer func() {
		mu.Lock()
		localTimer := timer
		mu.Unlock()
		if localTimer != nil && !localTimer.Stop() {
			select {
			case <-localTimer.C:
			default:
			}
		}
		if closeErr := w.fsw.Close(); closeErr != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			rel, ok := w.relToRoot(evt.Name)
			if !ok {
				continue
			}
			if w.isIgnored(rel) {
				continue
			}

			// Extend recursive watches to directories created after
			// startup. This must happen before pattern filtering:
			// directory names rarely match file patterns like **/*.py,
			// and skipping the add here would blind the watcher to
			// everything inside the new directory.
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			if !w.matchesPatterns(rel) {
				continue
			}

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// Resource exhaustion (inotify limits, file descriptor
			// limits) means the watcher is fundamentally broken.
			// isFatalFsnotifyError is platform-specific.
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

// addDirectories walks every root and adds each non-ignored directory to
// the fsnotify watcher. Pattern filtering is applied when events arrive,
// not here.
func (w *Watcher) addDirectories() error {
	for _, root := range w.roots {
		walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, walkDirErr error) error {
			if walkDirErr != nil {
				// Permission errors on individual directories are
				// common and should not abort the walk.
				fmt.Fprintf(w.stderr, "watch: skipping inaccessible path %q: %v\n", path, walkDirErr)
				return nil //nolint:nilerr // intentional skip of inaccessible paths
			}
			if !d.IsDir() {
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil //nolint:nilerr // skip paths that cannot be made relative
			}

			// Skip ignored directories entirely to avoid descending
			// into them.
			if w.isIgnored(rel) || w.isIgnored(rel+"/") {
				return filepath.SkipDir
			}

			if addErr := w.fsw.Add(path); addErr != nil {
				return fmt.Errorf("watch: add directory %q: %w", path, addErr)
			}
			return nil
		})
		if walkErr != nil {
			return fmt.Errorf("watch: walk %q: %w", root, walkErr)
		}
	}
	return nil
}

// maybeAddDir adds path to the fsnotify watcher if it is a non-ignored
// directory, so directories created after the initial walk are monitored.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	rel, ok := w.relToRoot(path)
	if !ok {
		return
	}
	if w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return
	}

	if addErr := w.fsw.Add(path); addErr != nil {
		fmt.Fprintf(w.stderr, "watch: add new directory %q: %v\n", path, addErr)
	}
}

// relToRoot resolves path relative to its owning root. Nested roots
// resolve against the deepest one.
func (w *Watcher) relToRoot(path string) (string, bool) {
	var best string
	found := false
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if !found || len(rel) < len(best) {
			best, found = rel, true
		}
	}
	return best, found
}

// isIgnored returns true if the root-relative path matches any ignore
// pattern.
func (w *Watcher) isIgnored(rel string) bool {
	// Normalise to forward slashes for consistent glob matching.
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// matchesPatterns returns true if the root-relative path matches at least
// one configured watch pattern. No patterns means everything matches.
func (w *Watcher) matchesPatterns(rel string) bool {
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.cfg.Patterns {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	out := make([]string, len(defaultIgnores))
	copy(out, defaultIgnores)
	return out
}

// validatePatterns checks that every pattern is a valid doublestar glob.
// The label ("watch" or "ignore") is used in error messages.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, err)
		}
	}
	return nil
}
