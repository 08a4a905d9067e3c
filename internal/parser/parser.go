// Package parser implements LL(1) recursive descent parsing for RFC 4180 CSV.
// Each production rule in the grammar corresponds to a parse function.
//
// Grammar:
//
//	File          = { Record } ;
//	Record        = Field { "," Field } CRLF ;
//	Field         = QuotedField | UnquotedField ;
//	QuotedField   = '"' { QuotedChar | '""' } '"' ;
//	UnquotedField = { UnquotedChar } ;
//
// The parser accepts exactly the documents accepted by the cursor-based
// assembler in internal/table and reports failures with token positions.
// Input must already end with CRLF.
package parser

import (
	"fmt"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-rfc4180/internal/table"
	"github.com/shapestone/shape-rfc4180/internal/tokenizer"
	"github.com/shapestone/shape-rfc4180/internal/value"
)

// Parser implements LL(1) recursive descent parsing for RFC 4180 CSV.
// It maintains a single token lookahead for predictive parsing.
type Parser struct {
	tokenizer      *shapetokenizer.Tokenizer
	current        *shapetokenizer.Token
	hasToken       bool
	expectedFields int // set from the first record
}

// NewParser creates a new CSV parser for the given input string.
func NewParser(input string) *Parser {
	return NewParserFromStream(shapetokenizer.NewStream(input))
}

// NewParserFromStream creates a new CSV parser using a pre-configured stream.
func NewParserFromStream(stream shapetokenizer.Stream) *Parser {
	tok := tokenizer.NewTokenizerWithStream(stream)

	p := &Parser{
		tokenizer: &tok,
	}
	p.advance() // Load first token
	return p
}

// Parse parses the input and returns an AST representing the CSV file.
//
// Grammar:
//
//	File = { Record } ;
//
// Returns *ast.ArrayDataNode - an array of records, where each record is an
// ArrayDataNode of LiteralNode fields holding string values.
// Every record must have as many fields as the first one.
func (p *Parser) Parse() (ast.SchemaNode, error) {
	records := make([]ast.SchemaNode, 0, 16)

	for p.hasToken {
		startPos := p.position()

		record, err := p.parseRecord()
		if err != nil {
			return nil, err
		}

		fieldCount := record.Len()
		if len(records) == 0 {
			p.expectedFields = fieldCount
		} else if fieldCount != p.expectedFields {
			return nil, fmt.Errorf("record %d at %s: %w (got %d, expected %d)",
				len(records)+1, startPos.String(), table.ErrFieldCount, fieldCount, p.expectedFields)
		}

		records = append(records, record)
	}

	return ast.NewArrayDataNode(records, ast.ZeroPosition()), nil
}

// parseRecord parses a single CSV record.
//
// Grammar:
//
//	Record = Field { "," Field } CRLF ;
//
// Returns *ast.ArrayDataNode representing the record (array of field values).
func (p *Parser) parseRecord() (*ast.ArrayDataNode, error) {
	startPos := p.position()
	fields := make([]ast.SchemaNode, 0, 8)

	// Parse first field
	field, err := p.parseField()
	if err != nil {
		return nil, err
	}
	fields = append(fields, field)

	// Parse additional fields: { "," Field }
	for p.peek() != nil && p.peek().Kind() == tokenizer.TokenComma {
		p.advance() // consume comma

		field, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	// Only CRLF ends a record
	if p.peek() == nil || p.peek().Kind() != tokenizer.TokenNewline {
		return nil, fmt.Errorf("record at %s: %w", startPos.String(), value.ErrTerminator)
	}
	p.advance()

	return ast.NewArrayDataNode(fields, startPos), nil
}

// parseField parses a single CSV field.
//
// Grammar:
//
//	Field = QuotedField | UnquotedField ;
//
// Returns *ast.LiteralNode with string value.
func (p *Parser) parseField() (*ast.LiteralNode, error) {
	if p.peek() != nil && p.peek().Kind() == tokenizer.TokenDQuote {
		return p.parseQuotedField()
	}
	return p.parseUnquotedField(), nil
}

// parseQuotedField parses a quoted CSV field.
//
// Grammar:
//
//	QuotedField = '"' { QuotedChar | EscapedQuote } '"' ;
//	EscapedQuote = '""' ;
//
// Returns *ast.LiteralNode with unescaped string value.
// Commas and CRLF inside the quotes are content. The closing quote must be
// followed by a comma or CRLF.
func (p *Parser) parseQuotedField() (*ast.LiteralNode, error) {
	startPos := p.position()

	// Consume opening quote
	if err := p.expect(tokenizer.TokenDQuote); err != nil {
		return nil, err
	}

	var sb strings.Builder

	for {
		token := p.peek()
		if token == nil || !p.hasToken {
			return nil, fmt.Errorf("quoted field at %s: %w: no closing quote",
				startPos.String(), value.ErrQuote)
		}

		if token.Kind() != tokenizer.TokenDQuote {
			// Field content, comma, or CRLF - all literal inside quotes
			sb.WriteString(token.ValueString())
			p.advance()
			continue
		}

		p.advance() // consume the quote

		// Escaped quote: ""
		if next := p.peek(); next != nil && next.Kind() == tokenizer.TokenDQuote {
			sb.WriteByte('"')
			p.advance()
			continue
		}

		// Closing quote
		if next := p.peek(); next != nil &&
			next.Kind() != tokenizer.TokenComma && next.Kind() != tokenizer.TokenNewline {
			return nil, fmt.Errorf("quoted field at %s: %w: extraneous text after closing quote",
				p.positionStr(), value.ErrQuote)
		}
		return ast.NewLiteralNode(sb.String(), startPos), nil
	}
}

// parseUnquotedField parses an unquoted CSV field.
//
// Grammar:
//
//	UnquotedField = { UnquotedChar } ;
//	UnquotedChar = <any character except ',' and CRLF> ;
//
// A quote after the first character is literal content, as are a lone CR or LF.
func (p *Parser) parseUnquotedField() *ast.LiteralNode {
	startPos := p.position()

	var sb strings.Builder
	for p.peek() != nil {
		kind := p.peek().Kind()
		if kind == tokenizer.TokenComma || kind == tokenizer.TokenNewline {
			break
		}
		sb.WriteString(p.peek().ValueString())
		p.advance()
	}

	return ast.NewLiteralNode(sb.String(), startPos)
}

// Helper methods

// peek returns current token without advancing.
func (p *Parser) peek() *shapetokenizer.Token {
	return p.current
}

// advance moves to next token.
func (p *Parser) advance() {
	token, ok := p.tokenizer.NextToken()
	if ok {
		p.current = token
		p.hasToken = true
	} else {
		p.hasToken = false
		p.current = nil
	}
}

// expect consumes token of expected kind or returns error.
func (p *Parser) expect(kind string) error {
	if p.peek() == nil || p.peek().Kind() != kind {
		got := tokenizer.TokenEOF
		if p.peek() != nil {
			got = p.peek().Kind()
		}
		return fmt.Errorf("expected %s at %s, got %s", kind, p.positionStr(), got)
	}
	p.advance()
	return nil
}

// position returns current position for AST nodes.
func (p *Parser) position() ast.Position {
	if p.hasToken && p.current != nil {
		return ast.NewPosition(
			p.current.Offset(),
			p.current.Row(),
			p.current.Column(),
		)
	}
	return ast.ZeroPosition()
}

// positionStr returns current position as a string for error messages.
func (p *Parser) positionStr() string {
	return p.position().String()
}
