package lexer

import (
	"fmt"

	"afflint/internal/diag"
	"afflint/internal/token"
)

func isDec(b byte) bool {
	return b >= '0' && b <= '9'
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

// scanWord consumes [A-Za-z_]+. Tags and enum values (timing, arc, si, none,
// true, ...) all lex as Word; meaning is assigned during lowering.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	for isWordByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Word, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanNumber consumes an optionally signed decimal literal: -?[0-9]+(.[0-9]+)?
// A fractional part promotes the kind to FloatLit. A dangling '.' without
// digits is reported and the token finishes as Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	lx.cursor.Eat('-')
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexBadNumber, sp, "expected digit after '.'")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanPunct consumes one punctuation byte. Anything unrecognized is reported
// and surfaces as a single Invalid token so the parser can resynchronize.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)

	var kind token.Kind
	switch ch {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semicolon
	case ':':
		kind = token.Colon
	default:
		lx.report(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", ch))
		kind = token.Invalid
	}
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
