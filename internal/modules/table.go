// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// SentinelCLI selects only core distributions and command modules.
	SentinelCLI = "CLI"
	// SentinelExt selects only extensions.
	SentinelExt = "EXT"

	// ExtensionPrefix is the package directory prefix every extension carries.
	ExtensionPrefix = "ext_"
)

// Namespace packages that live beside the core distributions but contain
// no lintable code. They are always excluded from selection.
var namespacePackages = []string{
	"cli-nspkg",
	"cli-command-modules-nspkg",
}

// ErrUnrecognizedModules is the sentinel error wrapped by UnrecognizedModulesError.
var ErrUnrecognizedModules = errors.New("unrecognized modules")

type (
	// PathTable partitions the discovered codebase into core distributions,
	// command modules, and extensions, each mapping name to path.
	PathTable struct {
		Core map[string]string
		Mod  map[string]string
		Ext  map[string]string
	}

	// UnrecognizedModulesError reports requested module names that exist in
	// no partition.
	UnrecognizedModulesError struct {
		Names []string
	}
)

// Error implements the error interface.
func (e *UnrecognizedModulesError) Error() string {
	return fmt.Sprintf("unrecognized modules: %s", strings.Join(e.Names, ", "))
}

// Unwrap returns ErrUnrecognizedModules so callers can use errors.Is.
func (e *UnrecognizedModulesError) Unwrap() error { return ErrUnrecognizedModules }

// NewPathTable creates an empty path table.
func NewPathTable() *PathTable {
	return &PathTable{
		Core: make(map[string]string),
		Mod:  make(map[string]string),
		Ext:  make(map[string]string),
	}
}

// IsEmpty returns true when every partition is empty.
func (t *PathTable) IsEmpty() bool {
	return len(t.Core) == 0 && len(t.Mod) == 0 && len(t.Ext) == 0
}

// ModuleNames returns the selected module names for display: command
// modules first, then core distributions, each group sorted.
func (t *PathTable) ModuleNames() []string {
	mod := maps.Keys(t.Mod)
	slices.Sort(mod)
	core := maps.Keys(t.Core)
	slices.Sort(core)
	return append(mod, core...)
}

// ExtensionNames returns the selected extension names, sorted.
func (t *PathTable) ExtensionNames() []string {
	ext := maps.Keys(t.Ext)
	slices.Sort(ext)
	return ext
}

// RemoveNamespacePackages drops the well-known non-module core entries.
func (t *PathTable) RemoveNamespacePackages() {
	for _, name := range namespacePackages {
		delete(t.Core, name)
	}
}

// ClearExtensions empties the extension partition.
func (t *PathTable) ClearExtensions() {
	t.Ext = make(map[string]string)
}

// ClearModules empties the core and command-module partitions.
func (t *PathTable) ClearModules() {
	t.Core = make(map[string]string)
	t.Mod = make(map[string]string)
}

// Restrict prunes the table to the given names. Names found in no
// partition produce an UnrecognizedModulesError listing them in request
// order.
func (t *PathTable) Restrict(names []string) error {
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[name] = true
	}

	found := make(map[string]bool, len(names))
	filter := func(part map[string]string) {
		for name := range part {
			if keep[name] {
				found[name] = true
			} else {
				delete(part, name)
			}
		}
	}
	filter(t.Core)
	filter(t.Mod)
	filter(t.Ext)

	var missing []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !found[name] && !seen[name] {
			missing = append(missing, name)
			seen[name] = true
		}
	}
	if len(missing) > 0 {
		return &UnrecognizedModulesError{Names: missing}
	}
	return nil
}
