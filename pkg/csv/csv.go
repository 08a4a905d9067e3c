// Package csv parses RFC 4180 CSV documents held in memory.
//
// Delimiters are fixed: fields are separated by a comma, rows end with CRLF,
// fields may be enclosed in double quotes and a quote inside an enclosed
// field is written twice. A comma or CRLF inside an enclosed field is
// content. A lone CR or LF anywhere is ordinary content.
//
// Every row must have as many fields as the first row; a ragged document is
// rejected with ErrFieldCount. No header row is assumed. Use ParseDocument
// and Document.UseFirstRecordAsHeaders to treat the first row as headers.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple goroutines.
// Each call owns its own cursor over an immutable input string.
//
// # Parsing APIs
//
//   - ParseTable(string) - rows of field strings
//   - Parse(string) - the same table as a Shape AST
//   - ParseReader(io.Reader) - reads the whole input, then parses it
//   - ParseValue(string) - a single field from the front of a buffer
//
// The input does not need a trailing CRLF; one is appended when absent
// (see Normalize).
//
// # Example usage with ParseTable:
//
//	rows, err := csv.ParseTable("name,age\r\nAlice,30\r\n")
//	if err != nil {
//	    // handle error
//	}
//	// rows is [][]string{{"name", "age"}, {"Alice", "30"}}
package csv

import (
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-rfc4180/internal/parser"
	"github.com/shapestone/shape-rfc4180/internal/table"
	"github.com/shapestone/shape-rfc4180/internal/value"
)

// Literal delimiters.
const (
	FieldSeparator = value.FieldSeparator
	RowTerminator  = value.RowTerminator
	Quote          = value.Quote
)

// Value is the result of parsing a single field. See ParseValue.
type Value = value.Value

// Delimiter identifies which delimiter ended a field.
type Delimiter = value.Delimiter

const (
	// DelimiterField is the field separator (",").
	DelimiterField = value.DelimiterField
	// DelimiterRow is the row terminator (CRLF).
	DelimiterRow = value.DelimiterRow
)

// Normalize returns text with a trailing CRLF appended if it does not
// already end with one. Empty text is returned unchanged.
func Normalize(text string) string {
	return table.Normalize(text)
}

// ParseValue extracts the next field from the front of buf.
//
// buf must end with CRLF; otherwise ParseValue fails with ErrTerminator.
// Value.Consumed is the number of bytes of buf the field occupied, quotes
// and delimiter included; buf[v.Consumed:] is the start of the next field.
//
// Example:
//
//	v, _ := csv.ParseValue("\"say \"\"hi\"\"\",x\r\n")
//	// v.Text == `say "hi"`, v.Enclosed == true,
//	// v.Delimiter == csv.DelimiterField, v.Consumed == 13
func ParseValue(buf string) (Value, error) {
	return value.Parse(buf)
}

// ParseTable parses a CSV document into rows of field values.
//
// Returns a *ParseError wrapping ErrQuote or ErrFieldCount on malformed
// input. No rows are returned on failure.
func ParseTable(input string) ([][]string, error) {
	return ParseTableWithOptions(input, DefaultReaderOptions())
}

// ParseTableWithOptions parses a CSV document into rows of field values,
// reporting fields and rows to the callbacks in opts.
func ParseTableWithOptions(input string, opts ReaderOptions) ([][]string, error) {
	return table.Parse(Normalize(input), opts.tableOptions())
}

// Parse parses CSV format into an AST from a string.
//
// Returns an ast.ArrayDataNode representing the parsed CSV:
//   - *ast.ArrayDataNode for the file (array of records)
//   - Each record is an *ast.ArrayDataNode of fields
//   - Each field is an *ast.LiteralNode containing a string value
//
// Example:
//
//	node, err := csv.Parse("name,age\r\nAlice,30\r\n")
//	records := node.(*ast.ArrayDataNode).Elements()
//	// records[0] is the first row
func Parse(input string) (ast.SchemaNode, error) {
	return ParseWithOptions(input, DefaultReaderOptions())
}

// ParseWithOptions parses CSV format into an AST with custom options.
func ParseWithOptions(input string, opts ReaderOptions) (ast.SchemaNode, error) {
	rows, err := ParseTableWithOptions(input, opts)
	if err != nil {
		return nil, err
	}
	return RecordsToNode(rows)
}

// ParseReader reads all of reader and parses it as a CSV document.
//
// The whole input is loaded into memory before parsing starts.
//
// Example:
//
//	file, err := os.Open("data.csv")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	node, err := csv.ParseReader(file)
func ParseReader(reader io.Reader) (ast.SchemaNode, error) {
	return ParseReaderWithOptions(reader, DefaultReaderOptions())
}

// ParseReaderWithOptions reads all of reader and parses it with custom options.
func ParseReaderWithOptions(reader io.Reader, opts ReaderOptions) (ast.SchemaNode, error) {
	input, err := load(reader)
	if err != nil {
		return nil, err
	}
	return ParseWithOptions(input, opts)
}

// Format returns the format identifier for this parser.
func Format() string {
	return "CSV"
}

// Validate checks if the input string is valid RFC 4180 CSV.
//
// Validation runs the token-level parser, whose errors carry the line and
// column of the offending token. It accepts exactly the documents ParseTable
// accepts, and its errors wrap the same sentinels.
//
//	if err := csv.Validate(input); err != nil {
//	    fmt.Println("Invalid CSV:", err)
//	}
func Validate(input string) error {
	_, err := parser.NewParser(Normalize(input)).Parse()
	return err
}

// ValidateReader checks if the input from an io.Reader is valid CSV.
// This reads the entire input from the reader.
func ValidateReader(reader io.Reader) error {
	input, err := load(reader)
	if err != nil {
		return err
	}
	return Validate(input)
}

// load reads the whole of reader into a string.
func load(reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
