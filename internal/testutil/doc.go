// SPDX-License-Identifier: MPL-2.0

// Package testutil holds shared helpers for integration tests, currently the
// process-wide container semaphore that throttles concurrent container starts.
package testutil
