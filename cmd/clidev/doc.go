// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for clidev.
//
// This package implements the Cobra command hierarchy for the clidev CLI:
// the root command, the style and linter checks, configuration management,
// and shell completion. Command handlers delegate business logic through
// the App composition root so tests can inject fake services.
package cmd
