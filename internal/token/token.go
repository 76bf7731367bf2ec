package token

import (
	"afflint/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token can appear in an event value list.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Word, IntLit, FloatLit:
		return true
	default:
		return false
	}
}
