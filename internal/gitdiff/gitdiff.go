// SPDX-License-Identifier: MPL-2.0

// Package gitdiff narrows a module path table to the entries touched by
// a git revision range.
package gitdiff

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"clidev/internal/modules"
)

// defaultSource is the revision compared against the target branch when
// no source revision is configured.
const defaultSource = "HEAD"

var (
	// ErrIncompleteRange is returned when a diff range is partially
	// configured. Narrowing needs at least a target branch and a repository
	// path; the source revision is optional.
	ErrIncompleteRange = errors.New("usage error: [--git-source NAME] --git-target NAME --git-repo PATH")

	// ErrDiffFailed wraps git failures so callers can match them without
	// parsing the git message folded into the error text.
	ErrDiffFailed = errors.New("git diff failed")
)

type (
	// Filter prunes path table entries whose directories contain none of
	// the files changed between two git revisions. The zero value is a
	// disabled filter that leaves tables untouched.
	Filter struct {
		// Source is the revision holding the changes, usually a feature
		// branch. Empty means HEAD.
		Source string
		// Target is the branch the changes would merge into.
		Target string
		// Repo is the path of the working tree to diff.
		Repo string

		// runGit overrides git execution in tests.
		runGit func(ctx context.Context, repo string, args ...string) (string, error)
	}
)

// Enabled reports whether any part of the diff range is configured.
func (f *Filter) Enabled() bool {
	return f.Source != "" || f.Target != "" || f.Repo != ""
}

// Validate checks that an enabled filter names both a target branch and
// a repository path.
func (f *Filter) Validate() error {
	if !f.Enabled() {
		return nil
	}
	if f.Target == "" || f.Repo == "" {
		return ErrIncompleteRange
	}
	return nil
}

// Apply removes every table entry whose directory holds none of the
// files changed in the configured revision range. A disabled filter
// returns immediately without touching the table.
func (f *Filter) Apply(ctx context.Context, table *modules.PathTable) error {
	if !f.Enabled() {
		return nil
	}
	if err := f.Validate(); err != nil {
		return err
	}

	changed, err := f.changedFiles(ctx)
	if err != nil {
		return err
	}

	prune(table.Core, changed)
	prune(table.Mod, changed)
	prune(table.Ext, changed)
	return nil
}

// changedFiles lists the files changed between the merge base of target
// and source and the source revision itself, resolved against the
// repository root.
func (f *Filter) changedFiles(ctx context.Context) ([]string, error) {
	source := f.Source
	if source == "" {
		source = defaultSource
	}
	spec := fmt.Sprintf("%s...%s", f.Target, source)

	run := f.runGit
	if run == nil {
		run = runGitCommand
	}
	out, err := run(ctx, f.Repo, "diff", "--name-only", spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s: %v", ErrDiffFailed, spec, f.Repo, err)
	}

	var files []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		files = append(files, filepath.Join(f.Repo, filepath.FromSlash(line)))
	}
	return files, nil
}

// runGitCommand executes git inside the repository and returns stdout.
// Stderr is folded into the returned error so callers see what git had
// to say about a bad revision.
func runGitCommand(ctx context.Context, repo string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repo

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return stdout.String(), nil
}

func prune(entries map[string]string, changed []string) {
	for name, dir := range entries {
		if !touchesAny(dir, changed) {
			delete(entries, name)
		}
	}
}

func touchesAny(dir string, files []string) bool {
	for _, file := range files {
		if isAncestor(dir, file) {
			return true
		}
	}
	return false
}

// isAncestor reports whether file sits at or below dir.
func isAncestor(dir, file string) bool {
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
