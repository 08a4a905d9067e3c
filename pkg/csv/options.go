// Package csv provides configurable options for CSV parsing.
package csv

import (
	"github.com/shapestone/shape-rfc4180/internal/table"
)

// FieldHandler is invoked for every parsed field.
// Row and column are 1-indexed.
type FieldHandler func(row, column int, v Value)

// RecordHandler is invoked for every completed row, before its field count
// is checked against the first row. Row is 1-indexed.
type RecordHandler func(row int, fields []string)

// ReaderOptions configures CSV parsing behavior.
//
// Delimiters are fixed by RFC 4180 and cannot be configured; the options only
// hook into the parse for tracing.
type ReaderOptions struct {
	// OnField is invoked for every parsed field.
	// Default: nil
	OnField FieldHandler

	// OnRecord is invoked for every completed row.
	// Default: nil
	OnRecord RecordHandler
}

// DefaultReaderOptions returns the default reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		OnField:  nil,
		OnRecord: nil,
	}
}

// tableOptions converts the options to the assembler's options.
func (o ReaderOptions) tableOptions() table.Options {
	opts := table.DefaultOptions()
	if o.OnField != nil {
		opts.OnField = table.FieldFunc(o.OnField)
	}
	if o.OnRecord != nil {
		opts.OnRecord = table.RecordFunc(o.OnRecord)
	}
	return opts
}
