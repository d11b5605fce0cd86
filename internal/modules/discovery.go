// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clidev/pkg/pyproject"
)

const (
	srcDirName            = "src"
	commandModulesDirName = "command_modules"
)

// Discoverer builds path tables from the configured repositories.
type Discoverer struct {
	// CLIRepoPath is the root of the core CLI repository (may be empty).
	CLIRepoPath string
	// ExtRepoPaths are the roots of the extension repositories.
	ExtRepoPaths []string
}

// NewDiscoverer creates a discoverer for the given repository roots. The
// extension list is the whitespace-separated form stored in settings.
func NewDiscoverer(cliRepoPath, extRepoPaths string) *Discoverer {
	return &Discoverer{
		CLIRepoPath:  cliRepoPath,
		ExtRepoPaths: strings.Fields(extRepoPaths),
	}
}

// PathTable scans the configured repositories and returns the partitioned
// table, restricted to includeOnly when non-nil. An unconfigured CLI repo
// simply yields empty core/module partitions.
func (d *Discoverer) PathTable(includeOnly []string) (*PathTable, error) {
	table := NewPathTable()

	if d.CLIRepoPath != "" {
		if err := d.scanCLIRepo(table); err != nil {
			return nil, err
		}
	}
	for _, repo := range d.ExtRepoPaths {
		if err := d.scanExtensionRepo(table, repo); err != nil {
			return nil, err
		}
	}

	if includeOnly != nil {
		if err := table.Restrict(includeOnly); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// scanCLIRepo fills the Core and Mod partitions from <repo>/src.
func (d *Discoverer) scanCLIRepo(table *PathTable) error {
	srcDir := filepath.Join(d.CLIRepoPath, srcDirName)
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to scan CLI repository %s: %w", srcDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == commandModulesDirName {
			continue
		}
		path := filepath.Join(srcDir, entry.Name())
		if !isDistribution(path) {
			continue
		}
		table.Core[pyproject.DistributionName(path, entry.Name())] = path
	}

	modDir := filepath.Join(srcDir, commandModulesDirName)
	modEntries, err := os.ReadDir(modDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to scan command modules %s: %w", modDir, err)
	}
	for _, entry := range modEntries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(modDir, entry.Name())
		if !isDistribution(path) {
			continue
		}
		table.Mod[pyproject.DistributionName(path, entry.Name())] = path
	}
	return nil
}

// scanExtensionRepo fills the Ext partition from <repo>/src entries that
// carry an ext_* package directory.
func (d *Discoverer) scanExtensionRepo(table *PathTable, repo string) error {
	srcDir := filepath.Join(repo, srcDirName)
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to scan extension repository %s: %w", srcDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(srcDir, entry.Name())
		if !hasExtensionPackage(path) {
			continue
		}
		table.Ext[entry.Name()] = path
	}
	return nil
}

// isDistribution reports whether dir carries a Python distribution marker.
func isDistribution(dir string) bool {
	for _, marker := range []string{pyproject.FileName, "setup.py"} {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// hasExtensionPackage reports whether dir contains an ext_* package directory.
func hasExtensionPackage(dir string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, ExtensionPrefix+"*"))
	if err != nil {
		return false
	}
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
