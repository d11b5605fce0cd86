// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the maximum accepted CUE file size in bytes.
// Settings files are small; anything beyond this is a mistake or abuse.
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Option configures a ParseAndDecode call.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides the file size limit.
func WithMaxFileSize(size int64) Option {
	return func(o *options) { o.maxFileSize = size }
}

// WithConcrete controls whether validation requires concrete values.
// Schemas with optional fields validate with concrete disabled.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}
