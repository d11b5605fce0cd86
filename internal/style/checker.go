// SPDX-License-Identifier: MPL-2.0

// Package style orchestrates pylint and flake8 runs over the configured
// CLI and extension repositories. A Checker resolves the module selection
// into a path table, picks the config file for each lint group, shells out
// to the tools through a shell.Runner, and folds the per-tool results into
// a single summed exit code.
package style

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"clidev/internal/config"
	"clidev/internal/display"
	"clidev/internal/gitdiff"
	"clidev/internal/modules"
	"clidev/internal/shell"
)

// exitCommandNotFound is what POSIX shells report when the command line's
// program cannot be resolved. The virtual interpreter uses it too.
const exitCommandNotFound = 127

var (
	// ErrNoModulesSelected is returned when every partition is empty
	// after selection and filtering. No subprocess runs in that case.
	ErrNoModulesSelected = errors.New("usage error: No modules selected.")

	// ErrCLINotInstalled is returned by the pylint pre-flight when the
	// target CLI's console command is not resolvable on PATH.
	ErrCLINotInstalled = errors.New("usage error: --pylint requires the CLI to be installed.")

	// ErrLintToolNotFound is the sentinel error wrapped by
	// LintToolNotFoundError.
	ErrLintToolNotFound = errors.New("usage error: lint tool not found")
)

type (
	// Checker runs style checks against the configured repositories.
	Checker struct {
		cfg     *config.Config
		runner  shell.Runner
		display *display.Display

		// lookPath resolves the CLI console command for the pylint
		// pre-flight. Tests substitute it.
		lookPath func(file string) (string, error)
	}

	// CheckOptions carries the selection and tool toggles for one style
	// check run.
	CheckOptions struct {
		// Modules restricts the selection to the named modules, or to
		// one partition group via the CLI / EXT sentinels. Empty means
		// everything discovered.
		Modules []string
		// Pylint and Flake8 choose the tools to run. Both unset means
		// both run.
		Pylint bool
		Flake8 bool
		// GitSource, GitTarget, GitRepo narrow the selection to modules
		// touched by a git revision range.
		GitSource string
		GitTarget string
		GitRepo   string
	}

	// LintOptions carries the selection and rule scoping for a linter
	// run.
	LintOptions struct {
		// Modules is interpreted as in CheckOptions.
		Modules []string
		// Rules scopes pylint to the named rules only.
		Rules []string
		// Checkers are extra pylint plugin modules.
		Checkers []string
		// Env is appended to the subprocess environment, typically to
		// make Checkers importable.
		Env []string
		// GitSource, GitTarget, GitRepo narrow the selection as in
		// CheckOptions.
		GitSource string
		GitTarget string
		GitRepo   string
	}

	// LintToolNotFoundError reports a lint tool whose invocation came back
	// with the shell's command-not-found code, meaning it never ran.
	LintToolNotFoundError struct {
		Tool string
	}
)

// Error implements the error interface.
func (e *LintToolNotFoundError) Error() string {
	return fmt.Sprintf("usage error: %s is not installed or not on PATH", strings.ToLower(e.Tool))
}

// Unwrap returns ErrLintToolNotFound so callers can use errors.Is.
func (e *LintToolNotFoundError) Unwrap() error { return ErrLintToolNotFound }

// NewChecker builds a checker over the given settings, runner, and display.
func NewChecker(cfg *config.Config, runner shell.Runner, disp *display.Display) *Checker {
	return &Checker{
		cfg:      cfg,
		runner:   runner,
		display:  disp,
		lookPath: exec.LookPath,
	}
}

// Check runs the selected style tools over the selected modules and
// returns the sum of their exit codes. Usage errors (empty selection,
// unrecognized names, malformed git range, missing CLI) abort before any
// subprocess runs; tool findings fold into the returned exit code instead.
// A tool that comes back with the shell's command-not-found code never ran
// and surfaces as a LintToolNotFoundError rather than a finding.
func (c *Checker) Check(ctx context.Context, opts CheckOptions) (shell.ExitCode, error) {
	c.display.Heading("Style Check")

	table, err := c.selectModules(ctx, opts.Modules, opts.GitSource, opts.GitTarget, opts.GitRepo)
	if err != nil {
		return 0, err
	}
	c.announceSelection(table)

	runPylint, runFlake8 := opts.Pylint, opts.Flake8
	if !runPylint && !runFlake8 {
		runPylint, runFlake8 = true, true
	}
	if runPylint {
		if err := c.ensureCLIInstalled(); err != nil {
			return 0, err
		}
	}

	var pylintResult, flake8Result *shell.Result
	if runPylint {
		result, err := c.RunPylint(ctx, table, PylintOptions{})
		if err != nil {
			return 0, err
		}
		if result.ExitCode == exitCommandNotFound {
			return 0, &LintToolNotFoundError{Tool: "pylint"}
		}
		c.reportResult("Pylint", result)
		pylintResult = result
	}
	if runFlake8 {
		result, err := c.RunFlake8(ctx, table)
		if err != nil {
			return 0, err
		}
		if result.ExitCode == exitCommandNotFound {
			return 0, &LintToolNotFoundError{Tool: "flake8"}
		}
		c.reportResult("Flake8", result)
		flake8Result = result
	}

	final := shell.Combine(pylintResult, flake8Result)
	return shell.ExitCode(final.ExitCode), nil
}

// Lint runs a rule-scoped pylint pass over the selected modules and
// returns its exit code. Rules imply --disable=all --enable <rules>.
func (c *Checker) Lint(ctx context.Context, opts LintOptions) (shell.ExitCode, error) {
	c.display.Heading("Linter")

	table, err := c.selectModules(ctx, opts.Modules, opts.GitSource, opts.GitTarget, opts.GitRepo)
	if err != nil {
		return 0, err
	}
	c.announceSelection(table)

	if err := c.ensureCLIInstalled(); err != nil {
		return 0, err
	}

	pylintOpts := PylintOptions{
		Checkers: opts.Checkers,
		Env:      opts.Env,
	}
	if len(opts.Rules) > 0 {
		pylintOpts.DisableAll = true
		pylintOpts.Enable = opts.Rules
	}

	result, err := c.RunPylint(ctx, table, pylintOpts)
	if err != nil {
		return 0, err
	}
	if result.ExitCode == exitCommandNotFound {
		return 0, &LintToolNotFoundError{Tool: "pylint"}
	}
	c.reportResult("Pylint", result)
	return shell.ExitCode(result.ExitCode), nil
}

// selectModules resolves the requested names into a filtered path table.
func (c *Checker) selectModules(ctx context.Context, names []string, gitSource, gitTarget, gitRepo string) (*modules.PathTable, error) {
	cliOnly := len(names) == 1 && names[0] == modules.SentinelCLI
	extOnly := len(names) == 1 && names[0] == modules.SentinelExt

	var includeOnly []string
	if !cliOnly && !extOnly && len(names) > 0 {
		includeOnly = names
	}

	discoverer := modules.NewDiscoverer(c.cfg.CLI.RepoPath.String(), c.cfg.Ext.RepoPaths.String())
	table, err := discoverer.PathTable(includeOnly)
	if err != nil {
		return nil, err
	}

	table.RemoveNamespacePackages()
	if cliOnly {
		table.ClearExtensions()
	}
	if extOnly {
		table.ClearModules()
	}

	filter := gitdiff.Filter{Source: gitSource, Target: gitTarget, Repo: gitRepo}
	if err := filter.Apply(ctx, table); err != nil {
		return nil, err
	}

	if table.IsEmpty() {
		return nil, ErrNoModulesSelected
	}
	return table, nil
}

// announceSelection prints the selected module and extension names.
func (c *Checker) announceSelection(table *modules.PathTable) {
	if names := table.ModuleNames(); len(names) > 0 {
		c.display.Printf("Modules: %s\n\n", strings.Join(names, ", "))
	}
	if names := table.ExtensionNames(); len(names) > 0 {
		c.display.Printf("Extensions: %s\n\n", strings.Join(names, ", "))
	}
}

// reportResult prints the per-tool pass/fail status. Failures log the
// captured tool output through the error logger before the status line.
func (c *Checker) reportResult(tool string, result *shell.Result) {
	if result.Success() {
		c.display.Passed(tool)
		return
	}
	if result.Err != nil {
		c.display.ToolOutput(shell.ErrorMessage(result.Err))
	}
	c.display.Failed(tool)
}

// ensureCLIInstalled verifies the target CLI's console command resolves on
// PATH. Pylint imports the CLI to lint against it, so a missing install
// fails every run.
func (c *Checker) ensureCLIInstalled() error {
	if _, err := c.lookPath(c.cfg.CLI.ConsoleCommand().String()); err != nil {
		return ErrCLINotInstalled
	}
	return nil
}
