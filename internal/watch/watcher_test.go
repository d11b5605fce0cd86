// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// isIgnoredByDefaults reports whether rel matches any of the default ignore
// patterns. Test-only helper that avoids needing a full Watcher instance.
func isIgnoredByDefaults(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range defaultIgnores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// TestWatcherDebounce verifies that multiple rapid filesystem events are
// coalesced into a single callback invocation containing all changed paths.
func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)

	done := make(chan struct{})

	w, err := New(Config{
		Roots:    []string{dir},
		Debounce: 100 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Write three files in rapid succession, well within the debounce
	// window.
	for _, name := range []string{"a.py", "b.py", "c.py"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data = 1\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		// Small pause so events arrive as separate fsnotify events rather
		// than being batched by the OS.
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	// Allow a brief settle for any additional spurious callbacks.
	time.Sleep(200 * time.Millisecond)

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}

	slices.Sort(collected)
	for _, want := range []string{"a.py", "b.py", "c.py"} {
		if !slices.Contains(collected, want) {
			t.Errorf("expected %q in changed files, got %v", want, collected)
		}
	}
}

// TestWatcherMultipleRoots verifies that changes under any configured root
// trigger the callback with paths relative to their owning root.
func TestWatcherMultipleRoots(t *testing.T) {
	t.Parallel()

	cliRepo := t.TempDir()
	extRepo := t.TempDir()

	var (
		mu        sync.Mutex
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		Roots:    []string{cliRepo, extRepo},
		Debounce: 100 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			collected = append(collected, changed...)
			select {
			case <-done:
			default:
				if len(collected) >= 2 {
					close(done)
				}
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(cliRepo, "core.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("write core.py: %v", err)
	}
	if err := os.WriteFile(filepath.Join(extRepo, "ext.py"), []byte("y = 2\n"), 0o644); err != nil {
		t.Fatalf("write ext.py: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callbacks from both roots")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, want := range []string{"core.py", "ext.py"} {
		if !slices.Contains(collected, want) {
			t.Errorf("expected %q in changed files, got %v", want, collected)
		}
	}
}

// TestWatcherIgnorePatterns confirms that files matching user-supplied ignore
// patterns do not trigger the OnChange callback.
func TestWatcherIgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	callbackFired := make(chan []string, 10)

	w, err := New(Config{
		Roots:    []string{dir},
		Ignore:   []string{"**/*.log"},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, changed []string) error {
			callbackFired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// An ignored file should not trigger the callback.
	if err := os.WriteFile(filepath.Join(dir, "debug.log"), []byte("log"), 0o644); err != nil {
		t.Fatalf("write debug.log: %v", err)
	}

	// Wait long enough for a debounce cycle to complete.
	time.Sleep(200 * time.Millisecond)

	// A non-ignored file should.
	if err := os.WriteFile(filepath.Join(dir, "setup.py"), []byte("import setuptools\n"), 0o644); err != nil {
		t.Fatalf("write setup.py: %v", err)
	}

	select {
	case changed := <-callbackFired:
		if slices.Contains(changed, "debug.log") {
			t.Error("ignored file debug.log appeared in changed set")
		}
		if !slices.Contains(changed, "setup.py") {
			t.Errorf("expected setup.py in changed set, got %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback on non-ignored file")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

// TestWatcherContextCancel verifies that Run returns cleanly when its context
// is cancelled and does not leak goroutines or file descriptors.
func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	w, err := New(Config{
		Roots:    []string{dir},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the event loop time to start.
	time.Sleep(50 * time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() returned error on cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}

// TestDefaultIgnores ensures that the built-in default ignore patterns cover
// the expected high-noise paths (.git, __pycache__, virtualenvs, editor swap
// files, etc.).
func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		ignored bool
	}{
		{".git/config", true},
		{".git/objects/ab/cd1234", true},
		{"src/__pycache__/mod.cpython-312.pyc", true},
		{".tox/py312/lib/site.py", true},
		{".venv/bin/activate", true},
		{"src/cli_core.egg-info/PKG-INFO", true},
		{".pytest_cache/v/cache/lastfailed", true},
		{"core.py.swp", true},
		{"core.py.swo", true},
		{"backup~", true},
		{".DS_Store", true},
		{"sub/.DS_Store", true},
		// These should NOT be ignored.
		{"core.py", false},
		{"src/cli/core/util.py", false},
		{"pyproject.toml", false},
		{".gitignore", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got := isIgnoredByDefaults(tt.path)
			if got != tt.ignored {
				t.Errorf("isIgnoredByDefaults(%q) = %v, want %v", tt.path, got, tt.ignored)
			}
		})
	}
}

// TestWatcherSkipIfBusy verifies that concurrent callback invocations are
// prevented by the atomic skip-if-busy guard. When the callback takes longer
// than the debounce period, subsequent timer fires are skipped.
func TestWatcherSkipIfBusy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu    sync.Mutex
		calls int
	)

	// The callback blocks for 300ms against a 50ms debounce, so the
	// second write lands while the first run is still in progress.
	firstCallDone := make(chan struct{})
	stderrBuf := &bytes.Buffer{}

	w, err := New(Config{
		Roots:    []string{dir},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   stderrBuf,
		OnChange: func(_ context.Context, _ []string) error {
			mu.Lock()
			calls++
			callNum := calls
			mu.Unlock()

			if callNum == 1 {
				time.Sleep(300 * time.Millisecond)
				close(firstCallDone)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "first.py"), []byte("a = 1\n"), 0o644); err != nil {
		t.Fatalf("write first.py: %v", err)
	}

	// Wait for the debounce to fire and the callback to start.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "second.py"), []byte("b = 2\n"), 0o644); err != nil {
		t.Fatalf("write second.py: %v", err)
	}

	select {
	case <-firstCallDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for first callback")
	}

	// Allow time for the second debounce cycle to complete (or be skipped).
	time.Sleep(200 * time.Millisecond)

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	// One call means the second fire was skipped outright; two means it
	// ran after the first completed. Either way, never concurrent.
	if calls > 2 {
		t.Errorf("expected at most 2 callback invocations, got %d", calls)
	}

	if calls == 1 {
		stderrStr := stderrBuf.String()
		if !strings.Contains(stderrStr, "skipping re-run") {
			t.Logf("stderr: %s", stderrStr)
			t.Log("expected skip message in stderr, but callback may have completed before second fire")
		}
	}
}

// TestWatcherClearScreen verifies that ClearScreen: true writes the ANSI
// clear escape sequence before invoking the callback.
func TestWatcherClearScreen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	done := make(chan struct{})
	var once sync.Once
	stdoutBuf := &bytes.Buffer{}

	w, err := New(Config{
		Roots:       []string{dir},
		Debounce:    50 * time.Millisecond,
		ClearScreen: true,
		Stdout:      stdoutBuf,
		Stderr:      &bytes.Buffer{},
		OnChange: func(_ context.Context, _ []string) error {
			once.Do(func() { close(done) })
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	if err := os.WriteFile(filepath.Join(dir, "file.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("write file.py: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := stdoutBuf.String()
	if !strings.Contains(out, "\033[2J\033[H") {
		t.Errorf("expected ANSI clear sequence in stdout, got %q", out)
	}
}

// TestWatcherInvalidPattern verifies that New returns an error when given
// an invalid glob pattern, failing fast at construction time.
func TestWatcherInvalidPattern(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := New(Config{
		Roots:    []string{dir},
		Patterns: []string{"[invalid"},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("New() should return an error for an invalid glob pattern")
	}

	if !strings.Contains(err.Error(), "invalid watch pattern") {
		t.Errorf("error message should mention invalid watch pattern, got: %v", err)
	}
}

// TestWatcherDoubleRunError verifies that calling Run a second time returns
// an error immediately rather than starting a second event loop.
func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	w, err := New(Config{
		Roots:    []string{dir},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the event loop time to start.
	time.Sleep(50 * time.Millisecond)

	err = w.Run(ctx)
	if err == nil {
		t.Fatal("second Run() call should return an error")
	}

	if !strings.Contains(err.Error(), "Run called more than once") {
		t.Errorf("error message should mention double-run, got: %v", err)
	}

	cancel()
	if firstErr := <-errCh; firstErr != nil {
		t.Fatalf("first Run() returned error: %v", firstErr)
	}
}

// TestWatcherNewDirectoryUnderPatterns verifies that a directory created
// after startup is added to the watch set even when file patterns are
// configured, so files written inside it still trigger the callback.
func TestWatcherNewDirectoryUnderPatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	callbackFired := make(chan []string, 10)

	w, err := New(Config{
		Roots:    []string{dir},
		Patterns: []string{"**/*.py"},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, changed []string) error {
			callbackFired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the event loop time to start.
	time.Sleep(50 * time.Millisecond)

	// A new module directory: its name does not match **/*.py, but the
	// watcher must still start monitoring it.
	newDir := filepath.Join(dir, "newmodule")
	if err := os.Mkdir(newDir, 0o755); err != nil {
		t.Fatalf("mkdir newmodule: %v", err)
	}

	// Give the watcher time to register the new directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(newDir, "a.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("write a.py: %v", err)
	}

	select {
	case changed := <-callbackFired:
		want := filepath.Join("newmodule", "a.py")
		if !slices.Contains(changed, want) {
			t.Errorf("expected %q in changed set, got %v", want, changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback on a file in a post-startup directory")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

// TestWatcherPatternFiltering verifies that only events matching the
// configured glob patterns trigger the callback.
func TestWatcherPatternFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	callbackFired := make(chan []string, 10)

	w, err := New(Config{
		Roots:    []string{dir},
		Patterns: []string{"**/*.py"},
		Debounce: 50 * time.Millisecond,
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
		OnChange: func(_ context.Context, changed []string) error {
			callbackFired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// A non-matching file first.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0o644); err != nil {
		t.Fatalf("write notes.txt: %v", err)
	}

	// Wait for a debounce cycle to ensure the .txt write does not fire.
	time.Sleep(200 * time.Millisecond)

	// Then a matching .py file.
	if err := os.WriteFile(filepath.Join(dir, "core.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("write core.py: %v", err)
	}

	select {
	case changed := <-callbackFired:
		if slices.Contains(changed, "notes.txt") {
			t.Error("non-matching file notes.txt appeared in changed set")
		}
		if !slices.Contains(changed, "core.py") {
			t.Errorf("expected core.py in changed set, got %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback on .py file")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}
