// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"clidev/internal/config"
	"clidev/internal/display"
	"clidev/internal/modules"
	"clidev/internal/shell"
	"clidev/internal/style"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer — all Cobra command handlers receive an App
	// reference and delegate business logic through its service interfaces
	// (Checks, Modules, Config).
	App struct {
		Config  ConfigProvider
		Checks  CheckService
		Modules ModuleService
		stdout  io.Writer
		stderr  io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests can
	// supply mock implementations to isolate specific service behavior.
	Dependencies struct {
		Config  ConfigProvider
		Checks  CheckService
		Modules ModuleService
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock
	// implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// CheckService runs the style and linter checks. Implementations
	// return the summed tool exit code; usage errors abort before any
	// subprocess runs and surface as an error instead.
	CheckService interface {
		Check(ctx context.Context, opts style.CheckOptions) (shell.ExitCode, error)
		Lint(ctx context.Context, opts style.LintOptions) (shell.ExitCode, error)
	}

	// ModuleService discovers the selectable modules and extensions. The
	// CLI layer uses it for shell completion of module name arguments.
	ModuleService interface {
		PathTable(ctx context.Context) (*modules.PathTable, error)
	}

	// checkService is the production CheckService. It assembles a
	// style.Checker per request so each run sees the current configuration.
	checkService struct {
		config ConfigProvider
		stdout io.Writer
		stderr io.Writer
	}

	// moduleService is the production ModuleService backed by the
	// filesystem discoverer.
	moduleService struct {
		config ConfigProvider
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Checks == nil {
		deps.Checks = &checkService{config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
	}
	if deps.Modules == nil {
		deps.Modules = &moduleService{config: deps.Config}
	}

	return &App{
		Config:  deps.Config,
		Checks:  deps.Checks,
		Modules: deps.Modules,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}
}

// newChecker loads the current configuration and assembles a checker with
// the configured runner and the app's output streams.
func (s *checkService) newChecker(ctx context.Context) (*style.Checker, error) {
	cfg, err := s.config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return nil, err
	}

	runner, err := shell.New(shell.Kind(cfg.Runner))
	if err != nil {
		return nil, err
	}

	disp := display.New(s.stdout, s.stderr, verbose || cfg.UI.Verbose)
	return style.NewChecker(cfg, runner, disp), nil
}

// Check implements CheckService.
func (s *checkService) Check(ctx context.Context, opts style.CheckOptions) (shell.ExitCode, error) {
	checker, err := s.newChecker(ctx)
	if err != nil {
		return 0, err
	}
	return checker.Check(ctx, opts)
}

// Lint implements CheckService.
func (s *checkService) Lint(ctx context.Context, opts style.LintOptions) (shell.ExitCode, error) {
	checker, err := s.newChecker(ctx)
	if err != nil {
		return 0, err
	}
	return checker.Lint(ctx, opts)
}

// PathTable implements ModuleService. Namespace packages are removed so
// completion never offers names the selector would reject.
func (s *moduleService) PathTable(ctx context.Context) (*modules.PathTable, error) {
	cfg, err := s.config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return nil, err
	}

	discoverer := modules.NewDiscoverer(cfg.CLI.RepoPath.String(), cfg.Ext.RepoPaths.String())
	table, err := discoverer.PathTable(nil)
	if err != nil {
		return nil, err
	}
	table.RemoveNamespacePackages()
	return table, nil
}
