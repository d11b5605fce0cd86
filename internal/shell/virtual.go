// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRunner executes commands using the embedded mvdan/sh interpreter.
// It needs no shell on the host, which keeps tool invocations working on
// systems without a POSIX shell.
type VirtualRunner struct{}

// NewVirtualRunner creates a new virtual runner.
func NewVirtualRunner() *VirtualRunner {
	return &VirtualRunner{}
}

// Name returns the runner name.
func (r *VirtualRunner) Name() string {
	return string(KindVirtual)
}

// Available returns whether this runner is available.
func (r *VirtualRunner) Available() bool {
	// The interpreter is built-in, so always.
	return true
}

// Run executes command with the embedded interpreter and captures its
// combined stdout/stderr, mapping interp exit statuses onto the Result.
func (r *VirtualRunner) Run(ctx context.Context, command string, opts RunOptions) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "command")
	if err != nil {
		return &Result{ExitCode: 1, Err: fmt.Errorf("failed to parse command: %w", err)}
	}

	env := os.Environ()
	if len(opts.Env) > 0 {
		env = append(env, opts.Env...)
	}

	var output bytes.Buffer
	runner, err := interp.New(
		interp.Dir(opts.Dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, &output, &output),
	)
	if err != nil {
		return &Result{ExitCode: 1, Err: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			code := int(exitStatus)
			return &Result{
				ExitCode: code,
				Err: &ToolError{
					Command: command,
					Code:    ExitCode(code),
					Output:  output.String(),
				},
			}
		}
		return &Result{ExitCode: 1, Err: fmt.Errorf("command execution failed: %w", err)}
	}

	return &Result{Output: output.String()}
}
