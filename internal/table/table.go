// Package table assembles parsed field values into rows.
//
// Parse walks a terminator-normalized document with a cursor, calling
// value.Parse once per field against the unconsumed remainder and closing a
// row every time a field ends with the row terminator. Every row must have
// the same number of fields as the first one.
package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shapestone/shape-rfc4180/internal/value"
)

// ErrFieldCount indicates a row whose field count differs from the first row.
var ErrFieldCount = errors.New("wrong number of fields")

// FieldFunc is called for every parsed field. Row and column are 1-indexed.
type FieldFunc func(row, column int, v value.Value)

// RecordFunc is called for every completed row. Row is 1-indexed.
type RecordFunc func(row int, fields []string)

// Options configures the assembler.
type Options struct {
	// OnField traces each parsed field. Default: nil
	OnField FieldFunc
	// OnRecord traces each completed row, before its field count is checked.
	// Default: nil
	OnRecord RecordFunc
}

// DefaultOptions returns default assembler options.
func DefaultOptions() Options {
	return Options{}
}

// ParseError reports where in the document a parse failed.
type ParseError struct {
	// Row is the record being assembled (1-indexed).
	Row int
	// StartLine is the line on which Row started (1-indexed).
	StartLine int
	// Line is the line where the error occurred (1-indexed).
	Line int
	// Column is the byte column where the error occurred (1-indexed).
	Column int
	// Offset is the byte offset into the normalized document.
	Offset int
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.StartLine == e.Line {
		return fmt.Sprintf("parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error on line %d (started line %d), column %d: %v",
		e.Line, e.StartLine, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Normalize appends the row terminator to text unless it already ends with
// one. Empty text is returned unchanged.
func Normalize(text string) string {
	if text == "" || strings.HasSuffix(text, value.RowTerminator) {
		return text
	}
	return text + value.RowTerminator
}

// Parse assembles text into rows of field values.
//
// text must already be normalized (see Normalize); a non-empty text that does
// not end with CRLF fails with value.ErrTerminator. Empty text yields an empty
// table. Any failure aborts the whole parse and no rows are returned.
func Parse(text string, opts Options) ([][]string, error) {
	a := &assembler{
		text: text,
		opts: opts,
	}
	return a.run()
}

// assembler holds the cursor state of a single Parse call.
type assembler struct {
	text     string
	pos      int // cursor into text
	rowStart int // offset at which the current row began
	opts     Options

	rows  [][]string
	row   []string
	width int
}

func (a *assembler) run() ([][]string, error) {
	if a.text == "" {
		return [][]string{}, nil
	}

	for {
		rest := a.text[a.pos:]

		v, err := value.Parse(rest)
		if err != nil {
			var se *value.SyntaxError
			if errors.As(err, &se) {
				return nil, a.errorAt(len(a.rows)+1, a.pos+se.Offset, se.Err)
			}
			return nil, a.errorAt(len(a.rows)+1, a.pos, err)
		}

		a.row = append(a.row, v.Text)
		if a.opts.OnField != nil {
			a.opts.OnField(len(a.rows)+1, len(a.row), v)
		}

		if v.Delimiter == value.DelimiterRow {
			if err := a.endRow(); err != nil {
				return nil, err
			}
		}

		if v.Consumed == len(rest) {
			break
		}
		a.pos += v.Consumed
		if v.Delimiter == value.DelimiterRow {
			a.rowStart = a.pos
		}
	}

	return a.rows, nil
}

// endRow appends the current row to the table and checks its width against
// the first row.
func (a *assembler) endRow() error {
	row := a.row
	a.rows = append(a.rows, row)
	a.row = make([]string, 0, len(row))

	n := len(a.rows)
	if a.opts.OnRecord != nil {
		a.opts.OnRecord(n, row)
	}

	if n == 1 {
		a.width = len(row)
		return nil
	}
	if len(row) != a.width {
		return a.errorAt(n, a.rowStart, fmt.Errorf("%w (got %d, expected %d)",
			ErrFieldCount, len(row), a.width))
	}
	return nil
}

// errorAt builds a ParseError for row at an absolute offset in the document.
func (a *assembler) errorAt(row, offset int, err error) *ParseError {
	line, column := position(a.text, offset)
	startLine, _ := position(a.text, a.rowStart)

	return &ParseError{
		Row:       row,
		StartLine: startLine,
		Line:      line,
		Column:    column,
		Offset:    offset,
		Err:       err,
	}
}

// position converts a byte offset into a 1-indexed line and column.
// Lines are separated by CRLF.
func position(text string, offset int) (line, column int) {
	if offset > len(text) {
		offset = len(text)
	}
	prefix := text[:offset]

	line = strings.Count(prefix, value.RowTerminator) + 1
	if i := strings.LastIndex(prefix, value.RowTerminator); i >= 0 {
		return line, offset - (i + len(value.RowTerminator)) + 1
	}
	return line, offset + 1
}
