package parser

import (
	"afflint/internal/diag"
	"afflint/internal/source"
	"afflint/internal/token"
)

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// diagSpan picks the best span for a diagnostic at the current position.
// At EOF the zero-length span after the last consumed token reads better
// than an empty span at offset 0.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.After()
	}
	return peek.Span
}

// expect consumes a token of kind k or reports and returns ok=false.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.opts.Reporter == nil || p.exhausted {
		return
	}
	if sev == diag.SevError {
		p.errors++
	}
	if p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors {
		p.exhausted = true
		return
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
}
