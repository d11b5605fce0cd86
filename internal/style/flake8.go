// SPDX-License-Identifier: MPL-2.0

package style

import (
	"context"
	"fmt"
	"strings"

	"clidev/internal/modules"
	"clidev/internal/shell"
)

// RunFlake8 checks the selected paths with flake8, one subprocess per
// non-empty group, and returns the combined result. Unlike pylint, flake8
// takes every path as-is.
func (c *Checker) RunFlake8(ctx context.Context, table *modules.PathTable) (*shell.Result, error) {
	cfgPaths, err := c.resolveConfigFilePaths(ToolFlake8)
	if err != nil {
		return nil, err
	}

	var cliResult, extResult *shell.Result
	if cliPaths := flake8CLIPaths(table); len(cliPaths) > 0 {
		cliResult = c.runner.Run(ctx, buildFlake8Command(cliPaths, cfgPaths.cli), shell.RunOptions{})
	}
	if extPaths := flake8ExtensionPaths(table); len(extPaths) > 0 {
		extResult = c.runner.Run(ctx, buildFlake8Command(extPaths, cfgPaths.ext), shell.RunOptions{})
	}
	return shell.Combine(cliResult, extResult), nil
}

// buildFlake8Command assembles the flake8 command line for one group.
func buildFlake8Command(paths []string, configFile string) string {
	return fmt.Sprintf("flake8 --statistics --append-config=%s %s", configFile, strings.Join(paths, " "))
}

// flake8CLIPaths returns the CLI group paths: core distributions, then
// command modules.
func flake8CLIPaths(table *modules.PathTable) []string {
	var paths []string
	for _, name := range sortedKeys(table.Core) {
		paths = append(paths, table.Core[name])
	}
	for _, name := range sortedKeys(table.Mod) {
		paths = append(paths, table.Mod[name])
	}
	return paths
}

// flake8ExtensionPaths returns the extension repository paths verbatim.
func flake8ExtensionPaths(table *modules.PathTable) []string {
	var paths []string
	for _, name := range sortedKeys(table.Ext) {
		paths = append(paths, table.Ext[name])
	}
	return paths
}
