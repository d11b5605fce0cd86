// SPDX-License-Identifier: MPL-2.0

package style

import (
	"errors"
	"fmt"
	"path/filepath"

	"clidev/internal/config"
)

const (
	// ToolPylint identifies the pylint static checker.
	ToolPylint Tool = "pylint"
	// ToolFlake8 identifies the flake8 style checker.
	ToolFlake8 Tool = "flake8"

	// pylintConfigName is the pylint config filename looked up inside a
	// configured repository working tree.
	pylintConfigName = "pylintrc"
	// flake8ConfigName is the flake8 analog of pylintConfigName.
	flake8ConfigName = ".flake8"

	// extensionRepoMarker selects the extension repository whose tree
	// carries the in-repo tool configs. Only the first ext.repo_paths
	// entry containing it is considered.
	extensionRepoMarker = "cli-extensions"
)

// ErrUnsupportedTool is the sentinel error wrapped by UnsupportedToolError.
var ErrUnsupportedTool = errors.New("unsupported style tool")

type (
	// Tool identifies a supported lint tool.
	Tool string

	// UnsupportedToolError is returned when a tool identifier names
	// neither pylint nor flake8.
	UnsupportedToolError struct {
		Tool Tool
	}

	// configFilePaths is the resolved pair of tool config files, one per
	// lint group.
	configFilePaths struct {
		// cli covers core distributions and command modules.
		cli string
		// ext covers extensions.
		ext string
	}
)

// Error implements the error interface.
func (e *UnsupportedToolError) Error() string {
	return fmt.Sprintf("unsupported style tool %q (allowed: %s, %s)", string(e.Tool), ToolPylint, ToolFlake8)
}

// Unwrap returns ErrUnsupportedTool so callers can use errors.Is.
func (e *UnsupportedToolError) Unwrap() error { return ErrUnsupportedTool }

// resolveConfigFilePaths returns the config file each lint group runs
// with. A configured repository provides its own in-repo config; otherwise
// the bundled default materialized under the platform config dir is used.
func (c *Checker) resolveConfigFilePaths(tool Tool) (configFilePaths, error) {
	var inRepo, cliBundled, extBundled string
	switch tool {
	case ToolPylint:
		inRepo, cliBundled, extBundled = pylintConfigName, config.CLIPylintConfig, config.ExtPylintConfig
	case ToolFlake8:
		inRepo, cliBundled, extBundled = flake8ConfigName, config.CLIFlake8Config, config.ExtFlake8Config
	default:
		return configFilePaths{}, &UnsupportedToolError{Tool: tool}
	}

	var paths configFilePaths
	if repo := c.cfg.CLI.RepoPath.String(); repo != "" {
		paths.cli = filepath.Join(repo, inRepo)
	} else {
		bundled, err := config.ToolConfigPath(cliBundled)
		if err != nil {
			return configFilePaths{}, err
		}
		paths.cli = bundled
	}

	if repo, ok := c.cfg.Ext.RepoPaths.FirstContaining(extensionRepoMarker); ok {
		paths.ext = filepath.Join(repo, inRepo)
	} else {
		bundled, err := config.ToolConfigPath(extBundled)
		if err != nil {
			return configFilePaths{}, err
		}
		paths.ext = bundled
	}
	return paths, nil
}
