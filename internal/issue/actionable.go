// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError carries the context a user needs to act on a failure:
// the operation that failed, the resource involved, and concrete
// suggestions. Construct instances through the ErrorContext builder:
//
//	return issue.NewErrorContext().
//		WithOperation("load configuration").
//		WithResource("./config.cue").
//		WithSuggestion("Run 'clidev config init' to create one").
//		Wrap(err).
//		BuildError()
type ActionableError struct {
	// Operation is a verb phrase for what was attempted, e.g. "run pylint".
	Operation string

	// Resource is the file, path, or entity involved. May be empty.
	Resource string

	// Suggestions are hints for fixing the failure. May be empty.
	Suggestions []string

	// Cause is the underlying error. May be nil.
	Cause error
}

// Error returns the concise one-line message used in non-verbose output.
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for terminal output: the one-line message,
// bulleted suggestions, and in verbose mode the numbered cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		for depth, err := 1, e.Cause; err != nil; depth, err = depth+1, errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
		}
	}

	return msg.String()
}

// ErrorContext accumulates error context incrementally. A context can be
// prepared ahead of the fallible call and finished with Wrap + Build once
// the error is in hand.
type ErrorContext struct {
	operation   string
	resource    string
	suggestions []string
	cause       error
}

// NewErrorContext returns an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WithOperation sets the operation, a verb phrase like "load configuration".
// An operation is required; Build returns nil without one.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the file, path, or entity involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends one fix-it hint. Call repeatedly for more.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// Wrap records the underlying error as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build materializes the ActionableError, or nil if no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build returning the error interface, so a non-nil result
// can be returned directly. A typed nil *ActionableError in an error
// return would compare non-nil, hence the explicit check.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}
