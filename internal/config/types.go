// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// RunnerSystem executes lint commands through the system shell.
	RunnerSystem RunnerMode = "system"
	// RunnerVirtual executes lint commands in the embedded mvdan/sh interpreter.
	RunnerVirtual RunnerMode = "virtual"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultCLICommand is the console command probed when cli.command
	// is not configured.
	DefaultCLICommand CommandName = "cli"
)

var (
	// ErrInvalidRunnerMode is returned when a RunnerMode value is not recognized.
	ErrInvalidRunnerMode = errors.New("invalid runner mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidRepoPath is returned when a RepoPath value is whitespace-only.
	ErrInvalidRepoPath = errors.New("invalid repo path")
	// ErrInvalidCommandName is returned when a CommandName value is whitespace-only.
	ErrInvalidCommandName = errors.New("invalid command name")
	// ErrInvalidCLIConfig is the sentinel error wrapped by InvalidCLIConfigError.
	ErrInvalidCLIConfig = errors.New("invalid CLI config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RunnerMode selects how lint subprocesses are executed.
	// Defined locally to avoid coupling config to internal/shell;
	// the orchestrator casts to shell.Kind at the boundary.
	RunnerMode string

	// InvalidRunnerModeError is returned when a RunnerMode value is not recognized.
	// It wraps ErrInvalidRunnerMode for errors.Is() compatibility.
	InvalidRunnerModeError struct {
		Value RunnerMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// RepoPath is a filesystem path to a repository working tree.
	// The zero value ("") is valid and means "not configured".
	// Non-zero values must not be whitespace-only.
	RepoPath string

	// InvalidRepoPathError is returned when a RepoPath value is
	// non-empty but whitespace-only.
	InvalidRepoPathError struct {
		Value RepoPath
	}

	// RepoPathList is a whitespace-separated list of repository paths.
	// The zero value ("") is valid and means "no repositories configured".
	RepoPathList string

	// CommandName is a console command name resolvable on PATH.
	// The zero value ("") is valid and means "use the default command".
	// Non-zero values must not be whitespace-only.
	CommandName string

	// InvalidCommandNameError is returned when a CommandName value is
	// non-empty but whitespace-only.
	InvalidCommandNameError struct {
		Value CommandName
	}

	// InvalidCLIConfigError is returned when a CLIConfig has invalid fields.
	// It wraps ErrInvalidCLIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidCLIConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// CLIConfig locates the CLI under development.
	CLIConfig struct {
		// RepoPath is the CLI repository working tree.
		RepoPath RepoPath `json:"repo_path" mapstructure:"repo_path"`
		// Command is the console command probed by the pylint pre-flight.
		Command CommandName `json:"command" mapstructure:"command"`
	}

	// ExtConfig locates the extension repositories.
	ExtConfig struct {
		// RepoPaths is a whitespace-separated list of extension repo working trees.
		RepoPaths RepoPathList `json:"repo_paths" mapstructure:"repo_paths"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		// CLI locates the CLI under development.
		CLI CLIConfig `json:"cli" mapstructure:"cli"`
		// Ext locates the extension repositories.
		Ext ExtConfig `json:"ext" mapstructure:"ext"`
		// Runner selects the subprocess execution mode.
		Runner RunnerMode `json:"runner" mapstructure:"runner"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}
)

// ConsoleCommand returns the configured console command, falling back to
// DefaultCLICommand when unset.
func (c CLIConfig) ConsoleCommand() CommandName {
	if c.Command == "" {
		return DefaultCLICommand
	}
	return c.Command
}

// IsValid returns whether the CLIConfig has valid fields.
// It delegates to RepoPath.IsValid() and Command.IsValid().
func (c CLIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.RepoPath.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Command.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidCLIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCLIConfigError.
func (e *InvalidCLIConfigError) Error() string {
	return fmt.Sprintf("invalid CLI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidCLIConfig for errors.Is() compatibility.
func (e *InvalidCLIConfigError) Unwrap() error { return ErrInvalidCLIConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to CLI.IsValid(), Runner.IsValid(), and UI.IsValid().
// Ext holds a free-form path list and needs no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.CLI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Runner.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the RepoPath.
func (p RepoPath) String() string { return string(p) }

// IsValid returns whether the RepoPath is valid.
// The zero value ("") is valid (means "not configured").
// Non-zero values must not be whitespace-only.
func (p RepoPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidRepoPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRepoPathError.
func (e *InvalidRepoPathError) Error() string {
	return fmt.Sprintf("invalid repo path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidRepoPath for errors.Is() compatibility.
func (e *InvalidRepoPathError) Unwrap() error { return ErrInvalidRepoPath }

// String returns the string representation of the RepoPathList.
func (p RepoPathList) String() string { return string(p) }

// Paths splits the list on whitespace. An empty or whitespace-only list
// yields nil.
func (p RepoPathList) Paths() []string {
	return strings.Fields(string(p))
}

// FirstContaining returns the first path in the list containing substr.
func (p RepoPathList) FirstContaining(substr string) (string, bool) {
	for _, path := range p.Paths() {
		if strings.Contains(path, substr) {
			return path, true
		}
	}
	return "", false
}

// String returns the string representation of the CommandName.
func (n CommandName) String() string { return string(n) }

// IsValid returns whether the CommandName is valid.
// The zero value ("") is valid (means "use the default command").
// Non-zero values must not be whitespace-only.
func (n CommandName) IsValid() (bool, []error) {
	if n == "" {
		return true, nil
	}
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidCommandNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCommandNameError.
func (e *InvalidCommandNameError) Error() string {
	return fmt.Sprintf("invalid command name %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidCommandName for errors.Is() compatibility.
func (e *InvalidCommandNameError) Unwrap() error { return ErrInvalidCommandName }

// Error implements the error interface for InvalidRunnerModeError.
func (e *InvalidRunnerModeError) Error() string {
	return fmt.Sprintf("invalid runner mode %q (valid: system, virtual)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidRunnerModeError) Unwrap() error {
	return ErrInvalidRunnerMode
}

// String returns the string representation of the RunnerMode.
func (m RunnerMode) String() string { return string(m) }

// IsValid returns whether the RunnerMode is one of the defined runner modes,
// and a list of validation errors if it is not.
func (m RunnerMode) IsValid() (bool, []error) {
	switch m {
	case RunnerSystem, RunnerVirtual:
		return true, nil
	default:
		return false, []error{&InvalidRunnerModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CLI: CLIConfig{
			RepoPath: "",
			Command:  DefaultCLICommand,
		},
		Ext:    ExtConfig{},
		Runner: RunnerSystem,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
