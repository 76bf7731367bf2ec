package diag

import (
	"afflint/internal/source"
)

// Note is a secondary location attached to a diagnostic, pointing at
// related source text ("first defined here", "previous timing event here").
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is the central record every phase produces. It is pure data;
// rendering lives in internal/diagfmt and the LSP layer.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
