// Package value extracts single RFC 4180 field values from a document buffer.
//
// The buffer handed to Parse is the whole unconsumed remainder of a document
// and always ends with the CRLF row terminator. Parse reads exactly one field
// from the front of the buffer and reports how many bytes that field occupied,
// delimiter included, so the caller can advance its cursor to the next field.
//
// Grammar (RFC 4180, fixed delimiters):
//
//	Field       = Enclosed | Bare ;
//	Enclosed    = '"' { QuotedChar | '""' } '"' Delimiter ;
//	Bare        = { BareChar } Delimiter ;
//	Delimiter   = "," | CRLF ;
package value

import (
	"errors"
	"fmt"
	"strings"
)

// Literal delimiters. These are not configurable.
const (
	FieldSeparator = ","
	RowTerminator  = "\r\n"
	Quote          = `"`
	EscapedQuote   = `""`
)

// Delimiter identifies which delimiter ended a field.
type Delimiter int

const (
	// DelimiterField is the field separator (",").
	DelimiterField Delimiter = iota
	// DelimiterRow is the row terminator (CRLF).
	DelimiterRow
)

// String returns the name of the delimiter.
func (d Delimiter) String() string {
	switch d {
	case DelimiterField:
		return "field"
	case DelimiterRow:
		return "row"
	default:
		return fmt.Sprintf("Delimiter(%d)", int(d))
	}
}

// Text returns the literal delimiter text.
func (d Delimiter) Text() string {
	if d == DelimiterRow {
		return RowTerminator
	}
	return FieldSeparator
}

// Len returns the length of the delimiter in bytes.
func (d Delimiter) Len() int {
	return len(d.Text())
}

// Value is the result of parsing one field.
type Value struct {
	// Text is the unescaped field content.
	Text string
	// Enclosed reports whether the field was wrapped in quotes in the source.
	Enclosed bool
	// Delimiter is the delimiter that ended the field.
	Delimiter Delimiter
	// Consumed is the number of source bytes the field occupied, including
	// enclosing quotes and the delimiter.
	Consumed int
}

// EscapedLen returns the on-wire length of v reconstructed from its unescaped
// text plus the delimiter. Enclosed values count their quotes doubled and
// the two wrapping quotes; bare values keep quotes as literal content. For
// every value returned by Parse it equals Consumed.
func (v Value) EscapedLen() int {
	n := len(v.Text) + v.Delimiter.Len()
	if v.Enclosed {
		n += strings.Count(v.Text, Quote)*len(Quote) + 2*len(Quote)
	}
	return n
}

var (
	// ErrQuote indicates a malformed quoted field.
	ErrQuote = errors.New("malformed quoted field")

	// ErrTerminator indicates a buffer that does not end with the row terminator.
	ErrTerminator = errors.New("buffer does not end with CRLF")
)

// SyntaxError reports a failure at a byte offset relative to the buffer
// passed to Parse.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Parse extracts the next field value from the front of buf.
//
// buf must end with RowTerminator; otherwise Parse fails with ErrTerminator.
// An enclosed field without a closing quote, or with text between its closing
// quote and the next delimiter, fails with ErrQuote.
func Parse(buf string) (Value, error) {
	if !strings.HasSuffix(buf, RowTerminator) {
		return Value{}, &SyntaxError{Offset: len(buf), Err: ErrTerminator}
	}

	if strings.HasPrefix(buf, Quote) {
		return parseEnclosed(buf)
	}
	return parseBare(buf), nil
}

// parseBare reads an unquoted field. The value runs up to whichever of the
// field separator or row terminator comes first.
func parseBare(buf string) Value {
	sep := strings.Index(buf, FieldSeparator)
	term := strings.Index(buf, RowTerminator)

	if sep >= 0 && sep < term {
		return Value{
			Text:      buf[:sep],
			Delimiter: DelimiterField,
			Consumed:  sep + len(FieldSeparator),
		}
	}

	return Value{
		Text:      buf[:term],
		Delimiter: DelimiterRow,
		Consumed:  term + len(RowTerminator),
	}
}

// parseEnclosed reads a quoted field starting at buf[0].
func parseEnclosed(buf string) (Value, error) {
	closing, escaped := -1, false

	// A quote immediately followed by another quote is an escape, anything
	// else is the closing quote.
	for i := len(Quote); closing < 0; {
		q := strings.Index(buf[i:], Quote)
		if q < 0 {
			return Value{}, &SyntaxError{
				Offset: 0,
				Err:    fmt.Errorf("%w: no closing quote", ErrQuote),
			}
		}
		q += i

		if strings.HasPrefix(buf[q:], EscapedQuote) {
			escaped = true
			i = q + len(EscapedQuote)
			continue
		}
		closing = q
	}

	text := buf[len(Quote):closing]
	if escaped {
		text = strings.ReplaceAll(text, EscapedQuote, Quote)
	}

	// The delimiter search starts at the closing quote so that separators or
	// terminators inside the quoted content are never considered.
	after := closing + len(Quote)
	sep := indexFrom(buf, FieldSeparator, after)
	term := indexFrom(buf, RowTerminator, after)

	delim, at := DelimiterRow, term
	if sep >= 0 && sep < term {
		delim, at = DelimiterField, sep
	}

	if at != after {
		return Value{}, &SyntaxError{
			Offset: after,
			Err:    fmt.Errorf("%w: extraneous text after closing quote", ErrQuote),
		}
	}

	return Value{
		Text:      text,
		Enclosed:  true,
		Delimiter: delim,
		Consumed:  at + delim.Len(),
	}, nil
}

// indexFrom is strings.Index starting at from, returning an absolute index.
func indexFrom(s, substr string, from int) int {
	i := strings.Index(s[from:], substr)
	if i < 0 {
		return -1
	}
	return i + from
}
