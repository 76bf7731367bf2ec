package lexer

import (
	"afflint/internal/diag"
	"afflint/internal/source"
	"afflint/internal/token"
)

// Options configure lexing of one file.
type Options struct {
	Reporter diag.Reporter
}

// Lexer produces tokens for the event section of a chart file and raw lines
// for the metadata header. The parser drives the mode switch: it consumes
// raw lines until the '-' separator, then switches to token reads.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // one token lookahead buffer
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipWhitespace()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case isWordByte(ch):
		return lx.scanWord()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '-':
		// a sign is part of the literal; a bare '-' is not a token here
		if _, b1, ok := lx.cursor.Peek2(); ok && isDec(b1) {
			return lx.scanNumber()
		}
		return lx.scanPunct()
	default:
		return lx.scanPunct()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// RawLine consumes the rest of the current line (used for metadata entries)
// and returns its text with the span, excluding the trailing newline.
// ok is false at EOF with nothing consumed.
func (lx *Lexer) RawLine() (text string, sp source.Span, ok bool) {
	if lx.look != nil {
		panic("lexer: RawLine after Peek")
	}
	if lx.cursor.EOF() {
		return "", lx.EmptySpan(), false
	}
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	sp = lx.cursor.SpanFrom(start)
	lx.cursor.Eat('\n')
	return string(lx.file.Content[sp.Start:sp.End]), sp, true
}

// EmptySpan returns a zero-length span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) skipWhitespace() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', '\r':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
