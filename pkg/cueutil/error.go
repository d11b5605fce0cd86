// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// FormatError rewrites a CUE evaluation error into the form
//
//	<file-path>: <json-path>: <message>
//
// so users see which field failed, e.g.
// "config.cue: ui.verbose: conflicting values true and \"banana\"".
// Multiple CUE errors collapse into one error with an indented line each.
// Non-CUE errors are wrapped with the file path only.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	var lines []string
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE often repeats the path inside the message; strip it so the
		// prefix is not printed twice.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}

		if pathStr != "" {
			lines = append(lines, pathStr+": "+msg)
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath renders a CUE error path as JSON-path notation. CUE reports
// paths as flat slices with numeric elements for list indices, so
// ["checkers", "0", "name"] becomes "checkers[0].name".
func formatPath(path []string) string {
	var result strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			result.WriteString("[" + part + "]")
		case i > 0:
			result.WriteString("." + part)
		default:
			result.WriteString(part)
		}
	}
	return result.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize rejects input larger than maxSize bytes. Exposed so callers
// can enforce the limit before invoking the CUE evaluator themselves.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
