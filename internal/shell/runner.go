// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
)

// Runner kind constants for the available execution backends.
const (
	KindSystem  Kind = "system"
	KindVirtual Kind = "virtual"
)

var (
	// ErrInvalidRunnerKind is the sentinel error wrapped by InvalidKindError.
	ErrInvalidRunnerKind = errors.New("invalid runner kind")

	// ErrShellNotFound is returned when the system runner is explicitly
	// requested but no usable shell can be resolved.
	ErrShellNotFound = errors.New("no usable system shell found")
)

type (
	// Kind identifies a runner implementation.
	Kind string

	// InvalidKindError is returned when a Kind names no known runner.
	InvalidKindError struct {
		Value Kind
	}

	// RunOptions carries per-invocation settings.
	RunOptions struct {
		// Dir is the working directory for the command (empty = inherit).
		Dir string
		// Env holds KEY=VALUE pairs appended to the inherited environment.
		Env []string
	}

	// Runner executes a shell command line and captures its result.
	Runner interface {
		// Name returns the runner name.
		Name() string
		// Available returns whether this runner can execute on the current system.
		Available() bool
		// Run executes command and returns its captured result.
		Run(ctx context.Context, command string, opts RunOptions) *Result
	}
)

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid runner kind %q (must be one of: %s, %s)", e.Value, KindSystem, KindVirtual)
}

// Unwrap returns ErrInvalidRunnerKind so callers can use errors.Is.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidRunnerKind }

// IsValid returns whether the Kind names a known runner, and a list of
// validation errors if it does not.
func (k Kind) IsValid() (bool, []error) {
	switch k {
	case KindSystem, KindVirtual:
		return true, nil
	default:
		return false, []error{&InvalidKindError{Value: k}}
	}
}

// New returns the runner for the given kind. The empty kind prefers the
// system runner and falls back to the virtual interpreter, so a runner is
// always usable. Explicitly requesting the system runner on a host with no
// resolvable shell is an error instead: the caller asked for something the
// host cannot provide.
func New(kind Kind) (Runner, error) {
	switch kind {
	case KindSystem:
		sys := NewSystemRunner()
		if !sys.Available() {
			return nil, ErrShellNotFound
		}
		return sys, nil
	case "":
		sys := NewSystemRunner()
		if sys.Available() {
			return sys, nil
		}
		return NewVirtualRunner(), nil
	case KindVirtual:
		return NewVirtualRunner(), nil
	default:
		return nil, &InvalidKindError{Value: kind}
	}
}
