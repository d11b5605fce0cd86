// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// SystemRunner executes commands through the system's default shell.
type SystemRunner struct {
	// Shell overrides the default shell.
	Shell string
	// ShellArgs are arguments passed to the shell before the command.
	ShellArgs []string
}

// NewSystemRunner creates a new system runner.
func NewSystemRunner() *SystemRunner {
	return &SystemRunner{}
}

// Name returns the runner name.
func (r *SystemRunner) Name() string {
	return string(KindSystem)
}

// Available returns whether a usable shell exists on this system.
func (r *SystemRunner) Available() bool {
	_, err := r.getShell()
	return err == nil
}

// Run executes command through the system shell and captures its combined
// stdout/stderr. A non-zero tool exit yields a ToolError carrying the
// captured output; failures to start the shell at all are reported as
// plain errors with exit code 1.
func (r *SystemRunner) Run(ctx context.Context, command string, opts RunOptions) *Result {
	shellPath, err := r.getShell()
	if err != nil {
		return &Result{ExitCode: 1, Err: err}
	}

	args := append(r.getShellArgs(shellPath), command)

	cmd := exec.CommandContext(ctx, shellPath, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	// Single buffer keeps stdout and stderr interleaved the way the tool
	// emitted them; the combined text is what failure reports carry.
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			return &Result{
				ExitCode: code,
				Err: &ToolError{
					Command: command,
					Code:    ExitCode(code),
					Output:  output.String(),
				},
			}
		}
		return &Result{ExitCode: 1, Err: fmt.Errorf("failed to execute command: %w", err)}
	}

	return &Result{Output: output.String()}
}

// getShell determines which shell to use.
func (r *SystemRunner) getShell() (string, error) {
	if r.Shell != "" {
		return r.Shell, nil
	}

	switch runtime.GOOS {
	case "windows":
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		return exec.LookPath("cmd")
	default:
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell, nil
		}
		if bash, err := exec.LookPath("bash"); err == nil {
			return bash, nil
		}
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		return "", fmt.Errorf("no shell found")
	}
}

// getShellArgs returns the arguments to pass to the shell.
func (r *SystemRunner) getShellArgs(shell string) []string {
	if len(r.ShellArgs) > 0 {
		return r.ShellArgs
	}

	base := filepath.Base(shell)
	base = strings.TrimSuffix(base, ".exe")

	switch base {
	case "cmd":
		return []string{"/C"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		// Assume POSIX shell
		return []string{"-c"}
	}
}
