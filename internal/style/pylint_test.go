// SPDX-License-Identifier: MPL-2.0

package style

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"clidev/internal/config"
	"clidev/internal/modules"
)

func TestCorePackagePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "two segments",
			path: filepath.Join("/work/cli/src", "cli-core"),
			want: filepath.Join("/work/cli/src", "cli-core", "cli", "core"),
		},
		{
			name: "single segment",
			path: filepath.Join("/work/cli/src", "cli"),
			want: filepath.Join("/work/cli/src", "cli", "cli"),
		},
		{
			name: "many segments",
			path: filepath.Join("/work/cli/src", "cli-testsdk-tools"),
			want: filepath.Join("/work/cli/src", "cli-testsdk-tools", "cli", "testsdk", "tools"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := corePackagePath(tt.path); got != tt.want {
				t.Errorf("corePackagePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestBuildPylintCommand(t *testing.T) {
	t.Parallel()

	paths := []string{"/a/cli/core", "/b/storage"}

	tests := []struct {
		name string
		opts PylintOptions
		want string
	}{
		{
			name: "plain",
			opts: PylintOptions{},
			want: "pylint /a/cli/core /b/storage --rcfile=/rc --jobs 4",
		},
		{
			name: "with plugins",
			opts: PylintOptions{Checkers: []string{"p1", "p2"}},
			want: "pylint /a/cli/core /b/storage --rcfile=/rc --jobs 4 --load-plugins p1,p2",
		},
		{
			name: "rule scoped",
			opts: PylintOptions{DisableAll: true, Enable: []string{"r1", "r2"}},
			want: "pylint /a/cli/core /b/storage --rcfile=/rc --jobs 4 --disable=all --enable r1,r2",
		},
		{
			name: "everything",
			opts: PylintOptions{Checkers: []string{"p1"}, DisableAll: true, Enable: []string{"r1"}},
			want: "pylint /a/cli/core /b/storage --rcfile=/rc --jobs 4 --load-plugins p1 --disable=all --enable r1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := buildPylintCommand(paths, "/rc", 4, tt.opts); got != tt.want {
				t.Errorf("buildPylintCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPylintCLIPaths(t *testing.T) {
	t.Parallel()

	table := &modules.PathTable{
		Core: map[string]string{
			"cli-telemetry": "/src/cli-telemetry",
			"cli-core":      "/src/cli-core",
		},
		Mod: map[string]string{
			"storage": "/src/command_modules/storage",
			"network": "/src/command_modules/network",
		},
	}

	want := []string{
		filepath.Join("/src/cli-core", "cli", "core"),
		filepath.Join("/src/cli-telemetry", "cli", "telemetry"),
		"/src/command_modules/network",
		"/src/command_modules/storage",
	}
	got := pylintCLIPaths(table)
	if len(got) != len(want) {
		t.Fatalf("pylintCLIPaths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pylintCLIPaths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPylintExtensionPaths(t *testing.T) {
	t.Parallel()

	t.Run("expands to the ext package directory", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(root, "ext_alias"), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}

		table := &modules.PathTable{Ext: map[string]string{"alias": root}}
		paths, err := pylintExtensionPaths(table)
		if err != nil {
			t.Fatalf("pylintExtensionPaths() error = %v", err)
		}
		if len(paths) != 1 || paths[0] != filepath.Join(root, "ext_alias") {
			t.Errorf("pylintExtensionPaths() = %v, want [%s]", paths, filepath.Join(root, "ext_alias"))
		}
	})

	t.Run("first match wins", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		for _, dir := range []string{"ext_aaa", "ext_bbb"} {
			if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
				t.Fatalf("MkdirAll() error = %v", err)
			}
		}

		table := &modules.PathTable{Ext: map[string]string{"x": root}}
		paths, err := pylintExtensionPaths(table)
		if err != nil {
			t.Fatalf("pylintExtensionPaths() error = %v", err)
		}
		if len(paths) != 1 || paths[0] != filepath.Join(root, "ext_aaa") {
			t.Errorf("pylintExtensionPaths() = %v, want the lexically first match", paths)
		}
	})

	t.Run("missing package directory is an error", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		table := &modules.PathTable{Ext: map[string]string{"empty": root}}

		_, err := pylintExtensionPaths(table)
		if !errors.Is(err, ErrExtensionPackageMissing) {
			t.Fatalf("pylintExtensionPaths() error = %v, want ErrExtensionPackageMissing", err)
		}
		if !strings.Contains(err.Error(), root) {
			t.Errorf("pylintExtensionPaths() error = %q, want it to name %q", err, root)
		}
	})
}

func TestRunPylint_CommandShape(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.CLI.RepoPath = "/work/cli"
	h := newTestChecker(t, cfg)

	table := &modules.PathTable{
		Core: map[string]string{"cli-core": "/work/cli/src/cli-core"},
		Mod:  map[string]string{"storage": "/work/cli/src/command_modules/storage"},
	}

	result, err := h.checker.RunPylint(context.Background(), table, PylintOptions{})
	if err != nil {
		t.Fatalf("RunPylint() error = %v", err)
	}
	if !result.Success() {
		t.Errorf("RunPylint() result = %+v, want success", result)
	}

	commands := h.runner.commands()
	if len(commands) != 1 {
		t.Fatalf("RunPylint() ran %d commands, want 1: %v", len(commands), commands)
	}
	want := fmt.Sprintf("pylint %s %s --rcfile=%s --jobs %d",
		filepath.Join("/work/cli/src/cli-core", "cli", "core"),
		"/work/cli/src/command_modules/storage",
		filepath.Join("/work/cli", "pylintrc"),
		runtime.NumCPU())
	if commands[0] != want {
		t.Errorf("RunPylint() command = %q, want %q", commands[0], want)
	}
}

func TestRunPylint_ExtensionGroup(t *testing.T) {
	t.Parallel()

	// The marker substring in the repo path makes the resolver pick the
	// in-repo ext config.
	extRepo := filepath.Join(t.TempDir(), "cli-extensions")
	extRoot := filepath.Join(extRepo, "src", "alias")
	if err := os.MkdirAll(filepath.Join(extRoot, "ext_alias"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.CLI.RepoPath = "/work/cli"
	cfg.Ext.RepoPaths = config.RepoPathList(extRepo)
	h := newTestChecker(t, cfg)

	table := &modules.PathTable{Ext: map[string]string{"alias": extRoot}}

	if _, err := h.checker.RunPylint(context.Background(), table, PylintOptions{}); err != nil {
		t.Fatalf("RunPylint() error = %v", err)
	}

	commands := h.runner.commands()
	if len(commands) != 1 {
		t.Fatalf("RunPylint() ran %d commands, want 1: %v", len(commands), commands)
	}
	want := fmt.Sprintf("pylint %s --rcfile=%s --jobs %d",
		filepath.Join(extRoot, "ext_alias"),
		filepath.Join(extRepo, "pylintrc"),
		runtime.NumCPU())
	if commands[0] != want {
		t.Errorf("RunPylint() command = %q, want %q", commands[0], want)
	}
}

func TestRunPylint_EmptyTable_NoInvocations(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.CLI.RepoPath = "/work/cli"
	h := newTestChecker(t, cfg)

	result, err := h.checker.RunPylint(context.Background(), modules.NewPathTable(), PylintOptions{})
	if err != nil {
		t.Fatalf("RunPylint() error = %v", err)
	}
	if !result.Success() || result.ExitCode != 0 {
		t.Errorf("RunPylint() result = %+v, want empty success", result)
	}
	if len(h.runner.calls) != 0 {
		t.Errorf("RunPylint() ran %d commands on an empty table, want 0", len(h.runner.calls))
	}
}

func TestRunPylint_ExtensionPackageMissing_NoInvocations(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.CLI.RepoPath = "/work/cli"
	h := newTestChecker(t, cfg)

	table := &modules.PathTable{
		Core: map[string]string{"cli-core": "/work/cli/src/cli-core"},
		Ext:  map[string]string{"broken": t.TempDir()},
	}

	_, err := h.checker.RunPylint(context.Background(), table, PylintOptions{})
	if !errors.Is(err, ErrExtensionPackageMissing) {
		t.Fatalf("RunPylint() error = %v, want ErrExtensionPackageMissing", err)
	}
	if len(h.runner.calls) != 0 {
		t.Errorf("RunPylint() ran %d commands despite the glob error, want 0", len(h.runner.calls))
	}
}

func TestRunPylint_PassesEnvToRunner(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.CLI.RepoPath = "/work/cli"
	h := newTestChecker(t, cfg)

	table := &modules.PathTable{Core: map[string]string{"cli-core": "/work/cli/src/cli-core"}}
	opts := PylintOptions{Env: []string{"PYTHONPATH=/opt/checkers"}}

	if _, err := h.checker.RunPylint(context.Background(), table, opts); err != nil {
		t.Fatalf("RunPylint() error = %v", err)
	}

	if len(h.runner.calls) != 1 {
		t.Fatalf("RunPylint() ran %d commands, want 1", len(h.runner.calls))
	}
	env := h.runner.calls[0].opts.Env
	if len(env) != 1 || env[0] != "PYTHONPATH=/opt/checkers" {
		t.Errorf("RunPylint() runner env = %v, want [PYTHONPATH=/opt/checkers]", env)
	}
}
