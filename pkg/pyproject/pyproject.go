// SPDX-License-Identifier: MPL-2.0

// Package pyproject reads distribution metadata from pyproject.toml files.
package pyproject

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the canonical pyproject file name.
const FileName = "pyproject.toml"

type (
	// File is the subset of a pyproject.toml document that clidev reads.
	File struct {
		Project Project `toml:"project"`
	}

	// Project holds the [project] table metadata.
	Project struct {
		Name        string `toml:"name"`
		Version     string `toml:"version"`
		Description string `toml:"description"`
	}
)

// Load reads and decodes the pyproject file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pyproject file: %w", err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// DistributionName returns the project name declared in dir's pyproject
// file, or fallback when the file is absent or declares no name.
func DistributionName(dir, fallback string) string {
	f, err := Load(filepath.Join(dir, FileName))
	if err != nil || f.Project.Name == "" {
		return fallback
	}
	return f.Project.Name
}
