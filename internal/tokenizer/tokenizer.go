package tokenizer

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer for RFC 4180 CSV.
//
// Matchers are tried in order of specificity:
// 1. CRLF row terminator
// 2. A lone CR or LF, emitted as field content
// 3. Comma
// 4. Double quote
// 5. Field content (any run of other characters)
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		// CRLF must be tried before the lone CR matcher
		tokenizer.StringMatcherFunc(TokenNewline, "\r\n"),
		tokenizer.StringMatcherFunc(TokenField, "\r"),
		tokenizer.StringMatcherFunc(TokenField, "\n"),

		tokenizer.StringMatcherFunc(TokenComma, ","),
		tokenizer.StringMatcherFunc(TokenDQuote, `"`),

		FieldContentMatcher(),
	)
}

// NewTokenizerWithStream creates a tokenizer using a pre-configured stream.
func NewTokenizerWithStream(stream tokenizer.Stream) tokenizer.Tokenizer {
	tok := NewTokenizer()
	tok.InitializeFromStream(stream)
	return tok
}

// FieldContentMatcher creates a matcher for field content.
// Matches runs of characters that are not comma, quote, CR, or LF.
//
// Grammar:
//
//	Field = Character+ ;
//	Character = <any character except ',', '"', CR, LF> ;
//
// CR and LF stop the run so that the CRLF matcher gets a chance at them; a
// lone CR or LF is then picked up by its own content matcher.
//
// Performance: Uses ByteStream for fast ASCII scanning when available.
func FieldContentMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		if byteStream, ok := stream.(tokenizer.ByteStream); ok {
			return fieldContentMatcherByte(byteStream)
		}
		return fieldContentMatcherRune(stream)
	}
}

// isStop reports whether c ends a run of field content.
func isStop(c rune) bool {
	return c == ',' || c == '"' || c == '\r' || c == '\n'
}

// fieldContentMatcherByte uses ByteStream for optimal performance.
func fieldContentMatcherByte(stream tokenizer.ByteStream) *tokenizer.Token {
	startPos := stream.BytePosition()

	for {
		b, ok := stream.PeekByte()
		if !ok || isStop(rune(b)) {
			break
		}
		stream.NextByte()
	}

	if stream.BytePosition() == startPos {
		return nil
	}

	value := stream.SliceFrom(startPos)
	return tokenizer.NewToken(TokenField, []rune(string(value)))
}

// fieldContentMatcherRune is the fallback rune-based implementation.
func fieldContentMatcherRune(stream tokenizer.Stream) *tokenizer.Token {
	var value []rune

	for {
		r, ok := stream.PeekChar()
		if !ok || isStop(r) {
			break
		}
		stream.NextChar()
		value = append(value, r)
	}

	if len(value) == 0 {
		return nil
	}

	return tokenizer.NewToken(TokenField, value)
}
