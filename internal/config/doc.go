// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/clidev/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/clidev/config.cue on macOS, %APPDATA%\clidev\config.cue
// on Windows). The package provides type-safe configuration access and covers the CLI
// repository location, extension repository paths, runner selection, and UI settings.
// It also ships the default lint tool configs (pylintrc and flake8 files) that style
// checks fall back to, materialized under <config dir>/config_files.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
