// SPDX-License-Identifier: MPL-2.0

// Package cueutil wraps the compile, unify, validate, decode sequence of
// parsing a CUE file against an embedded schema, and formats evaluation
// errors with the failing CUE path.
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Config](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("config.cue"),
//	)
package cueutil
