// Package csv provides error types for CSV parsing.
package csv

import (
	"github.com/shapestone/shape-rfc4180/internal/table"
	"github.com/shapestone/shape-rfc4180/internal/value"
)

// ParseError represents a parsing error with position information.
// Every error returned by ParseTable, Parse and ParseReader for malformed
// input is a *ParseError.
//
// Fields:
//   - Row: record being assembled (1-indexed)
//   - StartLine: line on which that record started (1-indexed)
//   - Line, Column: where the error occurred (1-indexed, column in bytes)
//   - Offset: byte offset into the normalized input
//   - Err: the underlying error, one of the sentinels below
type ParseError = table.ParseError

// SyntaxError is returned by ParseValue. Its Offset is relative to the
// buffer passed in.
type SyntaxError = value.SyntaxError

// Parsing errors. Use errors.Is to classify a failure.
var (
	// ErrQuote indicates a quoted field with no closing quote, or with text
	// between its closing quote and the next delimiter.
	ErrQuote = value.ErrQuote

	// ErrTerminator indicates a buffer passed to ParseValue that does not
	// end with CRLF.
	ErrTerminator = value.ErrTerminator

	// ErrFieldCount indicates a row whose field count differs from the
	// first row's.
	ErrFieldCount = table.ErrFieldCount
)
