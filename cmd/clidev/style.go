// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"clidev/internal/config"
	"clidev/internal/modules"
	"clidev/internal/shell"
	"clidev/internal/style"
	"clidev/internal/watch"

	"github.com/spf13/cobra"
)

// styleFlagValues holds the parsed flags for one `clidev style` run.
type styleFlagValues struct {
	pylint    bool
	flake8    bool
	gitSource string
	gitTarget string
	gitRepo   string
	watchMode bool
}

// newStyleCommand creates the `clidev style` command.
func newStyleCommand(app *App) *cobra.Command {
	flags := &styleFlagValues{}

	styleCmd := &cobra.Command{
		Use:   "style [modules... | CLI | EXT]",
		Short: "Run pylint and flake8 over the selected modules",
		Long: `Run pylint and flake8 over the selected modules and extensions.

With no module arguments, everything discovered in the configured
repositories is checked. Naming modules restricts the run; the special
values CLI (core + command modules only) and EXT (extensions only)
select one partition.

When neither --pylint nor --flake8 is given, both checks run. The
process exit code is the sum of the tools' exit codes, so 0 means both
passed.

` + SubtitleStyle.Render("Examples:") + `
  clidev style                                 Check everything
  clidev style cli-core storage                Check two modules
  clidev style EXT --flake8                    Style-check extensions only
  clidev style --git-target main --git-repo .  Check what a merge would touch`,
		ValidArgsFunction: completeModuleNames(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := style.CheckOptions{
				Modules:   args,
				Pylint:    flags.pylint,
				Flake8:    flags.flake8,
				GitSource: flags.gitSource,
				GitTarget: flags.gitTarget,
				GitRepo:   flags.gitRepo,
			}
			if flags.watchMode {
				return runStyleWatch(cmd, app, opts)
			}
			return runStyleCheck(cmd, app, opts)
		},
	}

	styleCmd.Flags().BoolVar(&flags.pylint, "pylint", false, "run pylint (both tools run when neither flag is set)")
	styleCmd.Flags().BoolVar(&flags.flake8, "flake8", false, "run flake8 (both tools run when neither flag is set)")
	styleCmd.Flags().BoolVar(&flags.watchMode, "watch", false, "re-run the checks when selected repositories change")
	addGitDiffFlags(styleCmd, &flags.gitSource, &flags.gitTarget, &flags.gitRepo)

	return styleCmd
}

// addGitDiffFlags registers the git revision-range flags shared by the
// style and linter commands.
func addGitDiffFlags(cmd *cobra.Command, source, target, repo *string) {
	cmd.Flags().StringVar(source, "git-source", "", "source revision for diff narrowing (default HEAD)")
	cmd.Flags().StringVar(target, "git-target", "", "target branch for diff narrowing")
	cmd.Flags().StringVar(repo, "git-repo", "", "repository working tree to diff")
}

// runStyleCheck runs the checks once and converts a non-zero summed exit
// code into an ExitError so Execute terminates the process with it.
func runStyleCheck(cmd *cobra.Command, app *App, opts style.CheckOptions) error {
	code, err := app.Checks.Check(cmd.Context(), opts)
	if err != nil {
		cmd.SilenceUsage = true
		renderIssueFor(app.stderr, err)
		return err
	}
	if !code.IsSuccess() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: code}
	}
	return nil
}

// runStyleWatch runs the checks once, then re-runs them whenever a Python
// file under a configured repository changes. It blocks until the context
// is cancelled (Ctrl+C).
func runStyleWatch(cmd *cobra.Command, app *App, opts style.CheckOptions) error {
	cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		return err
	}

	var roots []string
	if repo := cfg.CLI.RepoPath.String(); repo != "" {
		roots = append(roots, repo)
	}
	roots = append(roots, cfg.Ext.RepoPaths.Paths()...)
	if len(roots) == 0 {
		return fmt.Errorf("no repositories configured to watch (set cli.repo_path or ext.repo_paths)")
	}

	// A failing initial run is reported but does not stop the watcher; the
	// point of watch mode is fixing findings and saving.
	code, err := app.Checks.Check(cmd.Context(), opts)
	reportWatchOutcome(app, code, err)

	fmt.Fprintf(app.stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", CmdStyle.Render("→"))

	watcher, err := watch.New(watch.Config{
		Roots:       roots,
		Patterns:    []string{"**/*.py"},
		ClearScreen: true,
		Stdout:      app.stdout,
		Stderr:      app.stderr,
		OnChange: func(ctx context.Context, _ []string) error {
			code, err := app.Checks.Check(ctx, opts)
			reportWatchOutcome(app, code, err)
			fmt.Fprintf(app.stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", CmdStyle.Render("→"))
			return nil
		},
	})
	if err != nil {
		return err
	}

	return watcher.Run(cmd.Context())
}

// reportWatchOutcome prints one watch iteration's result without
// terminating the loop.
func reportWatchOutcome(app *App, code shell.ExitCode, err error) {
	switch {
	case err != nil:
		fmt.Fprintf(app.stderr, "%s %v\n", WarningStyle.Render("!"), err)
		renderIssueFor(app.stderr, err)
	case !code.IsSuccess():
		fmt.Fprintf(app.stderr, "%s checks failed (exit code %s)\n", ErrorStyle.Render("✗"), code)
	default:
		fmt.Fprintf(app.stdout, "%s all checks passed\n", SuccessStyle.Render("✓"))
	}
}

// completeModuleNames offers discovered module and extension names plus
// the CLI / EXT sentinels for module arguments.
func completeModuleNames(app *App) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		table, err := app.Modules.PathTable(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		names := append(table.ModuleNames(), table.ExtensionNames()...)
		if len(args) == 0 {
			names = append(names, modules.SentinelCLI, modules.SentinelExt)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
