// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	NoModulesSelectedId
	UnrecognizedModulesId
	CLINotInstalledId
	LintToolNotFoundId
	UnsupportedToolId
	ExtensionPackageMissingId
	GitDiffFailedId
	ShellNotFoundId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the clidev configuration file.

## Configuration file locations:
- Linux: ~/.config/clidev/config.cue
- macOS: ~/Library/Application Support/clidev/config.cue
- Windows: %APPDATA%\clidev\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ clidev config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/clidev/config.cue
~~~

## Example configuration:
~~~cue
cli: {
  repo_path: "/home/user/src/cli"
  command:   "cli"
}

ext: {
  repo_paths: "/home/user/src/cli-extensions"
}

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	noModulesSelectedIssue = &Issue{
		id: NoModulesSelectedId,
		mdMsg: `
# No modules selected!

Every filter was applied and nothing was left to check.

## Common causes:
- ` + "`cli.repo_path`" + ` is not configured, so no modules were discovered
- The git diff range touched no module directories
- The requested module names matched nothing

## Things you can try:
- Configure the CLI repository:
~~~
$ clidev config set cli.repo_path /path/to/cli
~~~

- Run without module arguments to check everything:
~~~
$ clidev style --pylint --flake8
~~~

- Widen or drop the --git-target / --git-source range`,
	}

	unrecognizedModulesIssue = &Issue{
		id: UnrecognizedModulesId,
		mdMsg: `
# Unrecognized modules!

One or more requested module names were not found in the configured
repositories.

## Things you can try:
- List what discovery can see:
~~~
$ clidev style --help
~~~

- Check for typos in the module names
- Verify ` + "`cli.repo_path`" + ` and ` + "`ext.repo_paths`" + ` point at the right checkouts:
~~~
$ clidev config show
~~~`,
	}

	cliNotInstalledIssue = &Issue{
		id: CLINotInstalledId,
		mdMsg: `
# CLI not installed!

Pylint needs the CLI importable in the current environment; its console
command was not found on PATH.

## Things you can try:
- Install the CLI in editable mode into the active environment:
~~~
$ pip install -e /path/to/cli/src/cli-core
~~~

- Activate the virtual environment that has the CLI installed
- Override the console command if yours is named differently:
~~~
$ clidev config set cli.command mycli
~~~`,
	}

	lintToolNotFoundIssue = &Issue{
		id: LintToolNotFoundId,
		mdMsg: `
# Lint tool not found!

The requested linter is not installed in the current environment.

## Things you can try:
- Install the linters:
~~~
$ pip install pylint flake8
~~~

- Activate the virtual environment that has them installed
- Check which interpreter is first on PATH:
~~~
$ which pylint flake8
~~~`,
	}

	unsupportedToolIssue = &Issue{
		id: UnsupportedToolId,
		mdMsg: `
# Unsupported style tool!

Config files can only be resolved for the tools clidev knows how to run.

## Supported tools:
- **pylint**
- **flake8**

## Things you can try:
- Use one of the supported tool names
- Run both checks with the default flags:
~~~
$ clidev style
~~~`,
	}

	extensionPackageMissingIssue = &Issue{
		id: ExtensionPackageMissingId,
		mdMsg: `
# Extension package missing!

An extension directory was selected but contains no ` + "`ext_*`" + ` package,
so pylint has nothing to lint there.

## Expected layout:
~~~
<ext_repo>/src/<name>/ext_<name>/__init__.py
~~~

## Things you can try:
- Check the extension directory for the ` + "`ext_*`" + ` package
- Exclude the broken extension by naming the modules to check:
~~~
$ clidev style alias storage
~~~`,
	}

	gitDiffFailedIssue = &Issue{
		id: GitDiffFailedId,
		mdMsg: `
# Git diff failed!

The revision range could not be diffed, so module narrowing was aborted.

## Common causes:
- The target or source branch does not exist locally
- --git-repo does not point at a git working tree
- The revisions share no merge base

## Things you can try:
- Fetch the branches first:
~~~
$ git -C /path/to/repo fetch origin main
~~~

- Verify the range by hand:
~~~
$ git -C /path/to/repo diff --name-only main...HEAD
~~~`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

Could not find a suitable shell to run the lint commands.

## Shells we look for:
- Linux/macOS: $SHELL, bash, sh
- Windows: pwsh, powershell, cmd

## Things you can try:
- Install bash or another POSIX shell
- Set the SHELL environment variable
- Use the built-in interpreter instead:
~~~cue
runner: "virtual"
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		noModulesSelectedIssue.Id():       noModulesSelectedIssue,
		unrecognizedModulesIssue.Id():     unrecognizedModulesIssue,
		cliNotInstalledIssue.Id():         cliNotInstalledIssue,
		lintToolNotFoundIssue.Id():        lintToolNotFoundIssue,
		unsupportedToolIssue.Id():         unsupportedToolIssue,
		extensionPackageMissingIssue.Id(): extensionPackageMissingIssue,
		gitDiffFailedIssue.Id():           gitDiffFailedIssue,
		shellNotFoundIssue.Id():           shellNotFoundIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
