// Package tokenizer provides RFC 4180 tokenization using Shape's tokenizer framework.
package tokenizer

// Token type constants for RFC 4180 CSV.
//
// The tokenizer is context free: it does not know whether it is inside a
// quoted field. The parser decides what a Comma or Newline token means.
const (
	// Structural tokens
	TokenComma   = "Comma"   // , (field separator)
	TokenDQuote  = "DQuote"  // " (quote delimiter)
	TokenNewline = "Newline" // \r\n (row terminator)

	// Field content token. A lone \r or \n is content.
	TokenField = "Field"

	// Special token
	TokenEOF = "EOF" // End of file
)
