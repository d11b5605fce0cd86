// SPDX-License-Identifier: MPL-2.0

package style

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"clidev/internal/modules"
	"clidev/internal/shell"
)

// ErrExtensionPackageMissing is the sentinel error wrapped by
// ExtensionPackageMissingError.
var ErrExtensionPackageMissing = errors.New("extension package missing")

type (
	// PylintOptions tunes a pylint invocation. The zero value runs the
	// full rule set with no extra plugins.
	PylintOptions struct {
		// Checkers are extra pylint plugin modules passed via
		// --load-plugins.
		Checkers []string
		// Env is appended to the subprocess environment.
		Env []string
		// DisableAll turns every rule off so Enable can scope the run.
		DisableAll bool
		// Enable lists the rules to run, typically with DisableAll set.
		Enable []string
	}

	// ExtensionPackageMissingError reports an extension path with no
	// ext_* package directory to lint.
	ExtensionPackageMissingError struct {
		Path string
	}
)

// Error implements the error interface.
func (e *ExtensionPackageMissingError) Error() string {
	return fmt.Sprintf("no %s* package directory under %s", modules.ExtensionPrefix, e.Path)
}

// Unwrap returns ErrExtensionPackageMissing so callers can use errors.Is.
func (e *ExtensionPackageMissingError) Unwrap() error { return ErrExtensionPackageMissing }

// RunPylint lints the selected paths with pylint, one subprocess per
// non-empty group, and returns the combined result. The CLI group uses the
// nested package directory of each core distribution; the extension group
// uses each extension's ext_* package directory.
func (c *Checker) RunPylint(ctx context.Context, table *modules.PathTable, opts PylintOptions) (*shell.Result, error) {
	cfgPaths, err := c.resolveConfigFilePaths(ToolPylint)
	if err != nil {
		return nil, err
	}
	extPaths, err := pylintExtensionPaths(table)
	if err != nil {
		return nil, err
	}

	jobs := runtime.NumCPU()
	var cliResult, extResult *shell.Result
	if cliPaths := pylintCLIPaths(table); len(cliPaths) > 0 {
		command := buildPylintCommand(cliPaths, cfgPaths.cli, jobs, opts)
		cliResult = c.runner.Run(ctx, command, shell.RunOptions{Env: opts.Env})
	}
	if len(extPaths) > 0 {
		command := buildPylintCommand(extPaths, cfgPaths.ext, jobs, opts)
		extResult = c.runner.Run(ctx, command, shell.RunOptions{Env: opts.Env})
	}
	return shell.Combine(cliResult, extResult), nil
}

// buildPylintCommand assembles the pylint command line for one group.
func buildPylintCommand(paths []string, rcfile string, jobs int, opts PylintOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "pylint %s --rcfile=%s --jobs %d", strings.Join(paths, " "), rcfile, jobs)
	if len(opts.Checkers) > 0 {
		fmt.Fprintf(&b, " --load-plugins %s", strings.Join(opts.Checkers, ","))
	}
	if opts.DisableAll {
		b.WriteString(" --disable=all")
	}
	if len(opts.Enable) > 0 {
		fmt.Fprintf(&b, " --enable %s", strings.Join(opts.Enable, ","))
	}
	return b.String()
}

// pylintCLIPaths returns the CLI group paths: each core distribution's
// nested package directory, then command-module paths as-is.
func pylintCLIPaths(table *modules.PathTable) []string {
	var paths []string
	for _, name := range sortedKeys(table.Core) {
		paths = append(paths, corePackagePath(table.Core[name]))
	}
	for _, name := range sortedKeys(table.Mod) {
		paths = append(paths, table.Mod[name])
	}
	return paths
}

// pylintExtensionPaths expands each extension path to its ext_* package
// directory.
func pylintExtensionPaths(table *modules.PathTable) ([]string, error) {
	var paths []string
	for _, name := range sortedKeys(table.Ext) {
		root := table.Ext[name]
		matches, _ := filepath.Glob(filepath.Join(root, modules.ExtensionPrefix+"*"))
		if len(matches) == 0 {
			return nil, &ExtensionPackageMissingError{Path: root}
		}
		paths = append(paths, matches[0])
	}
	return paths, nil
}

// corePackagePath reconstructs the nested package directory from the
// hyphenated distribution directory: .../cli-core -> .../cli-core/cli/core.
func corePackagePath(path string) string {
	segments := strings.Split(filepath.Base(path), "-")
	return filepath.Join(append([]string{path}, segments...)...)
}

// sortedKeys returns the map keys in sorted order for deterministic
// command lines.
func sortedKeys(part map[string]string) []string {
	keys := maps.Keys(part)
	slices.Sort(keys)
	return keys
}
