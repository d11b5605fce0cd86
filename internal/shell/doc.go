// SPDX-License-Identifier: MPL-2.0

// Package shell runs external tool command lines and captures their results.
//
// Two runner implementations are available:
//   - system: executes commands through the host shell (bash/sh/PowerShell)
//   - virtual: executes commands using an embedded shell interpreter (mvdan/sh)
//
// Both implement the Runner interface with Name(), Available(), and Run().
// A Run produces a Result holding the process exit code, any execution
// error, and the captured output. Results from independent tool groups are
// merged with Combine, which sums exit codes and concatenates error text.
package shell
