// SPDX-License-Identifier: MPL-2.0

// Package modules discovers the CLI monorepo's source layout and produces
// the path table consumed by style and lint runs.
//
// The path table partitions the codebase into core distributions, command
// modules, and extensions, each mapping a distribution name to its
// filesystem path. Discovery scans the configured CLI repository
// (<repo>/src and <repo>/src/command_modules) and every configured
// extension repository (<repo>/src entries carrying an ext_* package).
package modules
