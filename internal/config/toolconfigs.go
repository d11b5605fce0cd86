// SPDX-License-Identifier: MPL-2.0

package config

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

const (
	// toolConfigsDirName is the directory under the config dir holding
	// the bundled lint tool configs.
	toolConfigsDirName = "config_files"

	// CLIPylintConfig is the bundled pylint config for the CLI group.
	CLIPylintConfig = "cli_pylintrc"
	// CLIFlake8Config is the bundled flake8 config for the CLI group.
	CLIFlake8Config = "cli.flake8"
	// ExtPylintConfig is the bundled pylint config for the extension group.
	ExtPylintConfig = "ext_pylintrc"
	// ExtFlake8Config is the bundled flake8 config for the extension group.
	ExtFlake8Config = "ext.flake8"
)

//go:embed config_files
var toolConfigsFS embed.FS

// ToolConfigsDir returns the directory where bundled lint tool configs
// are materialized.
func ToolConfigsDir() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, toolConfigsDirName), nil
}

// ToolConfigPath returns the on-disk path of a bundled tool config file.
// The file may not exist yet; EnsureToolConfigs writes it.
func ToolConfigPath(name string) (string, error) {
	dir, err := ToolConfigsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureToolConfigs materializes the bundled lint tool configs into the
// config directory. Existing files are left untouched so local edits
// survive upgrades.
func EnsureToolConfigs() error {
	dir, err := ToolConfigsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create tool config directory: %w", err)
	}

	entries, err := fs.ReadDir(toolConfigsFS, toolConfigsDirName)
	if err != nil {
		return fmt.Errorf("internal error: failed to read bundled tool configs: %w", err)
	}

	for _, entry := range entries {
		target := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(target); err == nil {
			continue
		}
		data, err := fs.ReadFile(toolConfigsFS, path.Join(toolConfigsDirName, entry.Name()))
		if err != nil {
			return fmt.Errorf("internal error: failed to read bundled tool config %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("failed to write tool config %s: %w", target, err)
		}
	}

	return nil
}
