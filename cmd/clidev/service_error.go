// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"clidev/internal/gitdiff"
	"clidev/internal/issue"
	"clidev/internal/modules"
	"clidev/internal/shell"
	"clidev/internal/style"
)

// issueIDFor maps known service-layer errors to their issue catalog
// entries. Unknown errors map to 0, meaning no guidance card exists.
func issueIDFor(err error) issue.Id {
	switch {
	case errors.Is(err, style.ErrNoModulesSelected):
		return issue.NoModulesSelectedId
	case errors.Is(err, modules.ErrUnrecognizedModules):
		return issue.UnrecognizedModulesId
	case errors.Is(err, style.ErrCLINotInstalled):
		return issue.CLINotInstalledId
	case errors.Is(err, style.ErrLintToolNotFound):
		return issue.LintToolNotFoundId
	case errors.Is(err, style.ErrUnsupportedTool):
		return issue.UnsupportedToolId
	case errors.Is(err, style.ErrExtensionPackageMissing):
		return issue.ExtensionPackageMissingId
	case errors.Is(err, gitdiff.ErrDiffFailed):
		return issue.GitDiffFailedId
	case errors.Is(err, shell.ErrShellNotFound):
		return issue.ShellNotFoundId
	default:
		return 0
	}
}

// renderIssueFor writes the guidance card for a known error to stderr.
// Errors without a catalog entry render nothing; Cobra still prints the
// error message itself.
func renderIssueFor(stderr io.Writer, err error) {
	id := issueIDFor(err)
	if id == 0 {
		return
	}

	catalogEntry := issue.Get(id)
	if catalogEntry == nil {
		return
	}

	rendered, renderErr := catalogEntry.Render("dark")
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
		return
	}
	fmt.Fprint(stderr, rendered)
}
