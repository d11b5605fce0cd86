// SPDX-License-Identifier: MPL-2.0

// Package display is the user-facing output facade: styled status lines on
// stdout (lipgloss) and leveled diagnostics on stderr (charmbracelet/log).
// Command handlers and the style orchestrator write through a Display so
// tests can capture both streams.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Color palette - shared hex colors for consistent theming across all CLI output.
// These colors are designed for dark terminal backgrounds with good contrast.
const (
	// ColorPrimary is purple - used for headings and primary emphasis.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorSuccess is green - used for success states and positive outcomes.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - used for errors, failures, and negative outcomes.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for warnings and attention-needed items.
	ColorWarning = lipgloss.Color("#F59E0B")
)

var (
	// headingStyle is for section titles such as "Style Check".
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// successStyle is for PASSED status lines.
	successStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// Display writes user-facing status to out and diagnostics to a prefixed
// stderr logger.
type Display struct {
	out    io.Writer
	logger *log.Logger
}

// New creates a Display. Status lines go to out; the logger writes to errOut
// with the application prefix. Verbose lowers the log level to debug.
func New(out, errOut io.Writer, verbose bool) *Display {
	logger := log.NewWithOptions(errOut, log.Options{
		Prefix: "clidev",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	return &Display{out: out, logger: logger}
}

// Logger exposes the underlying leveled logger.
func (d *Display) Logger() *log.Logger {
	return d.logger
}

// Heading prints a styled section title.
func (d *Display) Heading(title string) {
	_, _ = fmt.Fprintln(d.out, headingStyle.Render(title))
}

// Printf prints plain formatted status text.
func (d *Display) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(d.out, format, args...)
}

// Passed prints a styled "<tool>: PASSED" status line.
func (d *Display) Passed(tool string) {
	_, _ = fmt.Fprintln(d.out, successStyle.Render(tool+": PASSED"))
}

// Failed reports "<tool>: FAILED" through the error logger.
func (d *Display) Failed(tool string) {
	d.logger.Error(tool + ": FAILED")
}

// ToolOutput reports captured subprocess output from a failed run through
// the error logger, so findings land on stderr alongside the FAILED status
// line. The tools' trailing newline is trimmed; the logger adds its own.
func (d *Display) ToolOutput(output string) {
	if output == "" {
		return
	}
	d.logger.Error(strings.TrimRight(output, "\n"))
}

// Debug logs a debug-level message with optional key/value pairs.
func (d *Display) Debug(msg any, keyvals ...any) {
	d.logger.Debug(msg, keyvals...)
}

// Info logs an info-level message with optional key/value pairs.
func (d *Display) Info(msg any, keyvals ...any) {
	d.logger.Info(msg, keyvals...)
}

// Warn logs a warning-level message with optional key/value pairs.
func (d *Display) Warn(msg any, keyvals ...any) {
	d.logger.Warn(msg, keyvals...)
}

// Error logs an error-level message with optional key/value pairs.
func (d *Display) Error(msg any, keyvals ...any) {
	d.logger.Error(msg, keyvals...)
}
