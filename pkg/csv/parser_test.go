package csv_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-rfc4180/pkg/csv"
)

// TestParseTable tests the documented parsing scenarios.
func TestParseTable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "two rows",
			input: "a,b,c\r\nd,e,f\r\n",
			want:  [][]string{{"a", "b", "c"}, {"d", "e", "f"}},
		},
		{
			name:  "comma inside quotes",
			input: "\"a,b\",c\r\n",
			want:  [][]string{{"a,b", "c"}},
		},
		{
			name:  "doubled quotes",
			input: "\"say \"\"hi\"\"\",x\r\n",
			want:  [][]string{{"say \"hi\"", "x"}},
		},
		{
			name:  "terminator inside quotes",
			input: "\"line1\r\nline2\",y\r\n",
			want:  [][]string{{"line1\r\nline2", "y"}},
		},
		{
			name:  "missing final terminator",
			input: "a,b\r\nc,d",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "quoted final field without terminator",
			input: "a,\"b\"",
			want:  [][]string{{"a", "b"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  [][]string{},
		},
		{
			name:  "LF is not a row terminator",
			input: "a,b\nc,d",
			want:  [][]string{{"a", "b\nc", "d"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := csv.ParseTable(tt.input)
			if err != nil {
				t.Fatalf("ParseTable() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTable() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestParseTable_Errors tests that malformed input is rejected wholesale.
func TestParseTable_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
		line   int
		column int
	}{
		{"ragged row", "a,b\r\nc\r\n", csv.ErrFieldCount, 2, 1},
		{"unterminated quote", "a,\"abc", csv.ErrQuote, 1, 3},
		{"text after closing quote", "\"abc\"d,e\r\n", csv.ErrQuote, 1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := csv.ParseTable(tt.input)
			if err == nil {
				t.Fatalf("ParseTable() = %q, want error", got)
			}
			if got != nil {
				t.Errorf("ParseTable() returned %q alongside error", got)
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.target)
			}

			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *csv.ParseError, got %T", err)
			}
			if pe.Line != tt.line || pe.Column != tt.column {
				t.Errorf("position = %d:%d, want %d:%d", pe.Line, pe.Column, tt.line, tt.column)
			}
		})
	}
}

// TestParseValue tests single-field extraction.
func TestParseValue(t *testing.T) {
	v, err := csv.ParseValue("\"say \"\"hi\"\"\",x\r\n")
	if err != nil {
		t.Fatalf("ParseValue() error = %v", err)
	}
	if v.Text != `say "hi"` || !v.Enclosed || v.Delimiter != csv.DelimiterField || v.Consumed != 13 {
		t.Errorf("ParseValue() = %+v", v)
	}

	v, err = csv.ParseValue("abc\r\n")
	if err != nil {
		t.Fatalf("ParseValue() error = %v", err)
	}
	if v.Text != "abc" || v.Enclosed || v.Delimiter != csv.DelimiterRow || v.Consumed != 5 {
		t.Errorf("ParseValue() = %+v", v)
	}

	_, err = csv.ParseValue("abc")
	if !errors.Is(err, csv.ErrTerminator) {
		t.Errorf("ParseValue() without CRLF error = %v, want ErrTerminator", err)
	}
	var se *csv.SyntaxError
	if !errors.As(err, &se) || se.Offset != 3 {
		t.Errorf("ParseValue() without CRLF error = %#v, want *SyntaxError at offset 3", err)
	}
}

// TestParse tests the AST form of the table.
func TestParse(t *testing.T) {
	node, err := csv.Parse("name,age\r\n\"Alice\",30\r\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		t.Fatalf("Parse() returned %T, want *ast.ArrayDataNode", node)
	}
	if arr.Len() != 2 {
		t.Fatalf("Parse() returned %d records, want 2", arr.Len())
	}

	record, ok := arr.Get(1).(*ast.ArrayDataNode)
	if !ok {
		t.Fatalf("record is %T, want *ast.ArrayDataNode", arr.Get(1))
	}
	lit, ok := record.Get(0).(*ast.LiteralNode)
	if !ok {
		t.Fatalf("field is %T, want *ast.LiteralNode", record.Get(0))
	}
	if lit.Value() != "Alice" {
		t.Errorf("field = %v, want Alice", lit.Value())
	}

	if _, err := csv.Parse("a\r\nb,c\r\n"); !errors.Is(err, csv.ErrFieldCount) {
		t.Errorf("Parse() ragged error = %v, want ErrFieldCount", err)
	}
}

// TestParseReader tests loading a whole reader before parsing.
func TestParseReader(t *testing.T) {
	node, err := csv.ParseReader(strings.NewReader("a,\"b\r\nc\"\r\nd,e"))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}

	records, err := csv.NodeToRecords(node)
	if err != nil {
		t.Fatalf("NodeToRecords() error = %v", err)
	}
	want := [][]string{{"a", "b\r\nc"}, {"d", "e"}}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("ParseReader() = %q, want %q", records, want)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

// TestParseReader_ReadError tests that loader failures are returned as-is.
func TestParseReader_ReadError(t *testing.T) {
	if _, err := csv.ParseReader(failingReader{}); err == nil || err.Error() != "disk on fire" {
		t.Errorf("ParseReader() error = %v, want disk on fire", err)
	}
	if err := csv.ValidateReader(failingReader{}); err == nil || err.Error() != "disk on fire" {
		t.Errorf("ValidateReader() error = %v, want disk on fire", err)
	}
}

// TestValidate tests that Validate accepts what ParseTable accepts.
func TestValidate(t *testing.T) {
	tests := []struct {
		input  string
		target error
	}{
		{"a,b\r\nc,d\r\n", nil},
		{"\"x\r\ny\",\"\"\"\"", nil},
		{"", nil},
		{"a,b\r\nc", csv.ErrFieldCount},
		{"\"abc", csv.ErrQuote},
		{"\"a\"b", csv.ErrQuote},
	}

	for _, tt := range tests {
		err := csv.Validate(tt.input)
		_, tableErr := csv.ParseTable(tt.input)

		if tt.target == nil {
			if err != nil || tableErr != nil {
				t.Errorf("Validate(%q) = %v, ParseTable error = %v, want nil", tt.input, err, tableErr)
			}
			continue
		}
		if !errors.Is(err, tt.target) || !errors.Is(tableErr, tt.target) {
			t.Errorf("Validate(%q) = %v, ParseTable error = %v, want %v", tt.input, err, tableErr, tt.target)
		}
	}

	if err := csv.ValidateReader(strings.NewReader("a,b\r\n")); err != nil {
		t.Errorf("ValidateReader() = %v, want nil", err)
	}
}

// TestParseTableWithOptions tests the tracing hooks.
func TestParseTableWithOptions(t *testing.T) {
	var fields []string
	var rows []int

	opts := csv.DefaultReaderOptions()
	opts.OnField = func(row, column int, v csv.Value) {
		fields = append(fields, v.Text)
	}
	opts.OnRecord = func(row int, f []string) {
		rows = append(rows, row)
	}

	if _, err := csv.ParseTableWithOptions("a,b\r\nc,d", opts); err != nil {
		t.Fatalf("ParseTableWithOptions() error = %v", err)
	}

	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(fields, want) {
		t.Errorf("fields = %q, want %q", fields, want)
	}
	if want := []int{1, 2}; !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

// TestNormalize tests terminator normalization.
func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":      "",
		"a":     "a\r\n",
		"a\r\n": "a\r\n",
		"a,b\n": "a,b\n\r\n",
		"\"a\"": "\"a\"\r\n",
	}

	for in, want := range tests {
		if got := csv.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestFormat tests the format identifier.
func TestFormat(t *testing.T) {
	if got := csv.Format(); got != "CSV" {
		t.Errorf("Format() = %q, want CSV", got)
	}
}

// TestConcurrentParse tests independent concurrent parses.
func TestConcurrentParse(t *testing.T) {
	inputs := []string{
		"a,b\r\nc,d\r\n",
		"\"x,y\",z\r\n",
		"1\r\n2\r\n3\r\n",
	}

	done := make(chan error, len(inputs)*10)
	for i := 0; i < 10; i++ {
		for _, input := range inputs {
			go func(input string) {
				_, err := csv.ParseTable(input)
				done <- err
			}(input)
		}
	}

	for i := 0; i < len(inputs)*10; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent ParseTable() error = %v", err)
		}
	}
}
