// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"clidev/internal/style"

	"github.com/spf13/cobra"
)

// linterFlagValues holds the parsed flags for one `clidev linter` run.
type linterFlagValues struct {
	rules     []string
	checkers  []string
	env       []string
	gitSource string
	gitTarget string
	gitRepo   string
}

// newLinterCommand creates the `clidev linter` command.
func newLinterCommand(app *App) *cobra.Command {
	flags := &linterFlagValues{}

	linterCmd := &cobra.Command{
		Use:   "linter [modules... | CLI | EXT]",
		Short: "Run a rule-scoped pylint pass over the selected modules",
		Long: `Run pylint over the selected modules, optionally scoped to specific
rules and extended with plugin checkers.

--rules disables every rule and enables only the named ones, which is
how custom checkers are run in isolation. --checkers loads extra pylint
plugin modules; --env makes them importable by extending the subprocess
environment.

` + SubtitleStyle.Render("Examples:") + `
  clidev linter                                 Full pylint pass
  clidev linter storage --rules W0611           One rule, one module
  clidev linter --checkers cli_lint.checkers --env PYTHONPATH=/src/tools`,
		ValidArgsFunction: completeModuleNames(app),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := style.LintOptions{
				Modules:   args,
				Rules:     flags.rules,
				Checkers:  flags.checkers,
				Env:       flags.env,
				GitSource: flags.gitSource,
				GitTarget: flags.gitTarget,
				GitRepo:   flags.gitRepo,
			}

			code, err := app.Checks.Lint(cmd.Context(), opts)
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
		},
	}

	linterCmd.Flags().StringSliceVar(&flags.rules, "rules", nil, "pylint rule IDs to run exclusively (implies --disable=all)")
	linterCmd.Flags().StringSliceVar(&flags.checkers, "checkers", nil, "pylint plugin checker modules to load")
	linterCmd.Flags().StringArrayVar(&flags.env, "env", nil, "KEY=VALUE pairs appended to the subprocess environment")
	addGitDiffFlags(linterCmd, &flags.gitSource, &flags.gitTarget, &flags.gitRepo)

	return linterCmd
}
