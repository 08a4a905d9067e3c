// Package csv provides a user-friendly DOM API over parsed CSV tables.
//
// # Document Type
//
// Document holds the rows of a parsed CSV file. All rows are data until the
// caller decides otherwise:
//
//	doc, _ := csv.ParseDocument("name,age\r\nAlice,30\r\nBob,25\r\n")
//	doc.UseFirstRecordAsHeaders()
//
// # Record Type
//
// Record represents a single row with typed access:
//
//	record, _ := doc.GetRecord(0)
//	name, _ := record.Get(0)           // Get by index
//	age, _ := record.GetByName("age")  // Get by header name
package csv

import (
	"github.com/shapestone/shape-core/pkg/ast"
)

// Document represents a parsed CSV file.
//
// A Document consists of:
//   - Optional headers (names for the columns)
//   - Data records (rows)
type Document struct {
	headers []string
	records [][]string
}

// Record represents a single row in a CSV file.
// It provides access to field values by index or by header name.
type Record struct {
	fields  []string
	headers []string // Reference to document headers for name-based access
}

// NewDocument creates a new empty Document.
func NewDocument() *Document {
	return &Document{
		headers: []string{},
		records: make([][]string, 0),
	}
}

// ParseDocument parses a CSV string into a Document.
// Returns an error if the input is not valid CSV.
//
// All rows, including the first, are data records. Call
// UseFirstRecordAsHeaders to promote the first row to headers.
func ParseDocument(input string) (*Document, error) {
	records, err := ParseTable(input)
	if err != nil {
		return nil, err
	}

	return &Document{
		headers: []string{},
		records: records,
	}, nil
}

// SetHeaders sets the column headers for this CSV document.
// Headers are used by Record.GetByName() to access fields by name.
// Returns the Document for method chaining.
func (d *Document) SetHeaders(headers []string) *Document {
	d.headers = headers
	return d
}

// UseFirstRecordAsHeaders removes the first record and makes it the headers.
// It does nothing if the document has no records.
// Returns the Document for method chaining.
func (d *Document) UseFirstRecordAsHeaders() *Document {
	if len(d.records) == 0 {
		return d
	}
	d.headers = d.records[0]
	d.records = d.records[1:]
	return d
}

// AddRecord adds a data record (row) to the document.
// Returns the Document for method chaining.
func (d *Document) AddRecord(fields []string) *Document {
	d.records = append(d.records, fields)
	return d
}

// Headers returns the column headers.
// Returns an empty slice if no headers have been set.
func (d *Document) Headers() []string {
	return d.headers
}

// Records returns all data records as Record objects.
func (d *Document) Records() []Record {
	records := make([]Record, len(d.records))
	for i, fields := range d.records {
		records[i] = Record{
			fields:  fields,
			headers: d.headers,
		}
	}
	return records
}

// RecordCount returns the number of data records in the document.
// This does not include the header row.
func (d *Document) RecordCount() int {
	return len(d.records)
}

// Width returns the number of fields per row, or 0 for an empty document.
func (d *Document) Width() int {
	if len(d.headers) > 0 {
		return len(d.headers)
	}
	if len(d.records) > 0 {
		return len(d.records[0])
	}
	return 0
}

// GetRecord returns the record at the specified index.
// Returns (Record, false) if the index is out of bounds.
// Index is 0-based (0 = first data record, not the header).
func (d *Document) GetRecord(index int) (Record, bool) {
	if index < 0 || index >= len(d.records) {
		return Record{}, false
	}

	return Record{
		fields:  d.records[index],
		headers: d.headers,
	}, true
}

// ============================================================================
// Record Methods
// ============================================================================

// Get gets the field value at the specified index.
// Returns (value, false) if the index is out of bounds.
func (r Record) Get(index int) (string, bool) {
	if index < 0 || index >= len(r.fields) {
		return "", false
	}
	return r.fields[index], true
}

// GetByName gets the field value by header name.
// Returns (value, false) if the header name is not found or if no headers are set.
func (r Record) GetByName(name string) (string, bool) {
	for i, header := range r.headers {
		if header == name {
			return r.Get(i)
		}
	}
	return "", false
}

// Fields returns a copy of the field values in the record.
func (r Record) Fields() []string {
	fields := make([]string, len(r.fields))
	copy(fields, r.fields)
	return fields
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.fields)
}

// ============================================================================
// AST Conversion
// ============================================================================

// ToAST converts the Document to an AST ArrayDataNode.
// Headers, if set, become the first record.
func (d *Document) ToAST() (*ast.ArrayDataNode, error) {
	records := d.records
	if len(d.headers) > 0 {
		records = append([][]string{d.headers}, d.records...)
	}

	node, err := RecordsToNode(records)
	if err != nil {
		return nil, err
	}
	return node.(*ast.ArrayDataNode), nil
}

// FromAST creates a Document from an AST ArrayDataNode.
// All records become data records.
func FromAST(node ast.SchemaNode) (*Document, error) {
	records, err := NodeToRecords(node)
	if err != nil {
		return nil, err
	}

	return &Document{
		headers: []string{},
		records: records,
	}, nil
}
