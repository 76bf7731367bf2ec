package parser

import (
	"strings"

	"afflint/internal/cst"
	"afflint/internal/diag"
	"afflint/internal/lexer"
	"afflint/internal/source"
	"afflint/internal/token"
)

// Options configure parsing of one file.
type Options struct {
	Reporter  diag.Reporter
	MaxErrors uint
}

// Parser holds per-file parsing state.
type Parser struct {
	lx        *lexer.Lexer
	opts      Options
	errors    uint
	lastSpan  source.Span
	exhausted bool
}

// ParseFile parses one chart file into a CST. It requires an already
// constructed lexer positioned at the start of the file. Parsing never
// fails as a whole: malformed regions are skipped with diagnostics and the
// best-effort CST is returned.
func ParseFile(lx *lexer.Lexer, opts Options) *cst.File {
	p := Parser{
		lx:       lx,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	file := &cst.File{}
	startSpan := lx.EmptySpan()

	file.Metadata = p.parseMetadata()
	file.Items = p.parseItems()

	file.Span = startSpan.Cover(p.lastSpan)
	return file
}

// parseMetadata reads raw header lines up to the lone '-' separator.
// Lines without a ':' are skipped with a diagnostic; a missing separator is
// reported once at the point the header ended.
func (p *Parser) parseMetadata() *cst.Metadata {
	md := &cst.Metadata{}
	first := true

	for {
		text, sp, ok := p.lx.RawLine()
		if !ok {
			p.report(diag.SynMissingSeparator, diag.SevError, sp, "expected '-' separator after metadata")
			break
		}
		p.lastSpan = sp
		if first {
			md.Span = sp
			first = false
		} else {
			md.Span = md.Span.Cover(sp)
		}

		if strings.TrimSpace(text) == "-" {
			break
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		idx := strings.IndexByte(text, ':')
		if idx < 0 {
			p.report(diag.SynExpectColon, diag.SevError, sp, "expected ':' in metadata entry")
			continue
		}

		key := token.Token{
			Kind: token.Word,
			Span: source.Span{File: sp.File, Start: sp.Start, End: sp.Start + uint32(idx)},
			Text: text[:idx],
		}
		value := token.Token{
			Kind: token.Word,
			Span: source.Span{File: sp.File, Start: sp.Start + uint32(idx) + 1, End: sp.End},
			Text: text[idx+1:],
		}
		md.Entries = append(md.Entries, &cst.MetadataEntry{Key: key, Value: value, Span: sp})
	}

	return md
}

// parseItems is the top-level loop: one event per ';' until EOF.
func (p *Parser) parseItems() []*cst.Event {
	var items []*cst.Event
	for !p.at(token.EOF) {
		ev, ok := p.parseEvent()
		if !ok {
			p.resync()
			continue
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after event"); !ok {
			p.resync()
		}
		items = append(items, ev)
	}
	return items
}

// parseEvent recognizes [word] "(" values ")" [ "[" subevents "]" ].
func (p *Parser) parseEvent() (*cst.Event, bool) {
	ev := &cst.Event{}
	start := p.lx.Peek().Span

	if p.at(token.Word) {
		tag := p.advance()
		ev.Tag = &tag
	}

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return nil, false
	}

	if !p.at(token.RParen) {
		for {
			val := p.lx.Peek()
			if !val.IsLiteral() {
				p.report(diag.SynExpectValue, diag.SevError, p.diagSpan(), "expected a value")
				return nil, false
			}
			p.advance()
			ev.Values = append(ev.Values, val)

			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
		return nil, false
	}

	if p.at(token.LBracket) {
		p.advance()
		ev.Subevents = []*cst.Event{}
		if !p.at(token.RBracket) {
			for {
				sub, ok := p.parseEvent()
				if !ok {
					return nil, false
				}
				ev.Subevents = append(ev.Subevents, sub)
				if p.at(token.Comma) {
					p.advance()
					continue
				}
				break
			}
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
			return nil, false
		}
	}

	ev.Span = start.Cover(p.lastSpan)
	return ev, true
}

// resync skips tokens until just past the next ';' so one malformed event
// does not poison the rest of the document.
func (p *Parser) resync() {
	for {
		tok := p.lx.Peek()
		if tok.Kind == token.EOF {
			return
		}
		p.advance()
		if tok.Kind == token.Semicolon {
			return
		}
	}
}
