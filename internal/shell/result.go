// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"fmt"
)

type (
	// Result contains the outcome of one command execution.
	Result struct {
		// ExitCode is the exit code of the command.
		ExitCode int
		// Err contains any error that occurred. Tool failures carry a
		// *ToolError holding the captured output; infrastructure failures
		// (shell missing, spawn error) carry the underlying error.
		Err error
		// Output contains the captured combined output of a successful run.
		// On failure the captured output travels on the ToolError instead.
		Output string
	}

	// ToolError describes a tool invocation that exited non-zero.
	ToolError struct {
		// Command is the command line that was executed.
		Command string
		// Code is the tool's exit code.
		Code ExitCode
		// Output is the combined stdout/stderr captured from the tool.
		Output string
	}

	// messenger is satisfied by errors that carry accumulated message text.
	// Errors lacking it contribute their Error() string when combined.
	messenger interface {
		Message() string
	}

	// combinedError accumulates the message text of merged tool errors.
	combinedError struct {
		message string
	}
)

// Success returns true if the command executed successfully.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Err == nil
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("command %q returned non-zero exit status %s", e.Command, e.Code)
}

// Message returns the captured output as the error's accumulated text.
func (e *ToolError) Message() string { return e.Output }

func (e *combinedError) Error() string   { return e.message }
func (e *combinedError) Message() string { return e.message }

// ErrorMessage extracts the message text a combined result accumulates for
// err: the carried message when present, the Error() string otherwise.
func ErrorMessage(err error) string {
	var m messenger
	if errors.As(err, &m) {
		return m.Message()
	}
	return err.Error()
}

// Combine merges the results of the two tool groups into one: exit codes
// are summed, error messages concatenated in (first, second) order, and
// output text concatenated. A nil operand contributes nothing, so a group
// that ran no command is skipped transparently.
func Combine(first, second *Result) *Result {
	final := &Result{}

	apply := func(item *Result) {
		if item == nil {
			return
		}
		final.ExitCode += item.ExitCode
		if item.Err != nil {
			if final.Err != nil {
				final.Err = &combinedError{
					message: ErrorMessage(final.Err) + ErrorMessage(item.Err),
				}
			} else {
				final.Err = item.Err
			}
		}
		if item.Output != "" {
			final.Output += item.Output
		}
	}

	apply(first)
	apply(second)
	return final
}
