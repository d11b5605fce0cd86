// SPDX-License-Identifier: MPL-2.0

package config

import "context"

var (
	// globalConfig caches the loaded configuration for Load()/Get().
	globalConfig *Config
	// configPath records where the cached configuration was loaded from.
	configPath string
	// errLastLoad records the most recent load failure surfaced by Get().
	errLastLoad error

	// configFilePathOverride forces loading from a specific file (--config).
	configFilePathOverride string
	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string
)

// Load returns the cached configuration, loading it on first use.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: configFilePathOverride,
	})
	if err != nil {
		return nil, err
	}

	globalConfig = cfg
	configPath = path
	return cfg, nil
}

// Get returns the configuration, falling back to defaults when loading
// fails. The load error is kept for LastLoadError so the command layer
// can warn without aborting.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		errLastLoad = err
		return DefaultConfig()
	}
	errLastLoad = nil
	return cfg
}

// LastLoadError returns the error from the most recent Get() load attempt.
func LastLoadError() error {
	return errLastLoad
}

// ConfigFilePath returns the path of the loaded config file, or "" when
// running on defaults.
func ConfigFilePath() string {
	return configPath
}

// SetConfigFilePathOverride forces subsequent loads to use the given
// config file and clears the cache.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
	ResetCache()
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// ResetCache clears the cached configuration, forcing the next load to
// re-read from disk. Overrides are preserved.
func ResetCache() {
	globalConfig = nil
	configPath = ""
	errLastLoad = nil
}

// Reset clears all cached state and overrides. Call from test cleanup to
// restore defaults.
func Reset() {
	ResetCache()
	configFilePathOverride = ""
	configDirOverride = ""
}
