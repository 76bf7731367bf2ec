package lower

import (
	"fmt"
	"strconv"
	"strings"

	"afflint/internal/ast"
	"afflint/internal/diag"
	"afflint/internal/token"
)

// scalar converts one literal token by its lexical kind. Int and float
// literals that fail to parse break an invariant the lexer guarantees, so
// they panic instead of producing a diagnostic.
func scalar(tok token.Token) ast.Scalar {
	switch tok.Kind {
	case token.Word:
		return ast.Scalar{Kind: ast.ScalarWord, Text: tok.Text}
	case token.IntLit:
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			panic(fmt.Errorf("lower: int literal %q does not parse: %w", tok.Text, err))
		}
		return ast.Scalar{Kind: ast.ScalarInt, Text: tok.Text, Int: v}
	case token.FloatLit:
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			panic(fmt.Errorf("lower: float literal %q does not parse: %w", tok.Text, err))
		}
		dot := strings.IndexByte(tok.Text, '.')
		if dot < 0 {
			panic(fmt.Errorf("lower: float literal %q has no '.'", tok.Text))
		}
		return ast.Scalar{
			Kind:       ast.ScalarFloat,
			Text:       tok.Text,
			Float:      v,
			FracDigits: len(tok.Text) - dot - 1,
		}
	default:
		panic(fmt.Errorf("lower: token %s is not a literal", tok.Kind))
	}
}

// values lowers a CST value list to located scalars in source order.
func (l *lowerer) values(toks []token.Token) []ast.Located[ast.Scalar] {
	out := make([]ast.Located[ast.Scalar], 0, len(toks))
	for _, tok := range toks {
		out = append(out, ast.At(scalar(tok), tok.Span))
	}
	return out
}

// The value parsers below refine an already kind-checked scalar into a
// domain value. A nil input means the field was flagged by the kind check
// upstream; it propagates silently so one bad literal is reported once.
// Each parser emits at most one diagnostic naming the allowed set.

func (l *lowerer) track(sc *ast.Located[ast.Scalar]) (ast.Located[ast.Track], bool) {
	if sc == nil {
		return ast.Located[ast.Track]{}, false
	}
	v := sc.Value.Int
	if v < 1 || v > 4 {
		l.errorf(diag.LowBadTrack, sc.Span, "track must be 1, 2, 3 or 4, got %s", sc.Value.Text)
		return ast.Located[ast.Track]{}, false
	}
	return ast.At(ast.Track(v), sc.Span), true
}

func (l *lowerer) color(sc *ast.Located[ast.Scalar]) (ast.Located[ast.Color], bool) {
	if sc == nil {
		return ast.Located[ast.Color]{}, false
	}
	v := sc.Value.Int
	if v < 0 || v > 2 {
		l.errorf(diag.LowBadColor, sc.Span, "color must be 0, 1 or 2, got %s", sc.Value.Text)
		return ast.Located[ast.Color]{}, false
	}
	return ast.At(ast.Color(v), sc.Span), true
}

func (l *lowerer) curve(sc *ast.Located[ast.Scalar]) (ast.Located[ast.Curve], bool) {
	if sc == nil {
		return ast.Located[ast.Curve]{}, false
	}
	c, ok := ast.CurveFromName(sc.Value.Text)
	if !ok {
		l.errorf(diag.LowBadCurve, sc.Span,
			"curve must be one of b, s, si, so, sisi, siso, soso, sosi, got %q", sc.Value.Text)
		return ast.Located[ast.Curve]{}, false
	}
	return ast.At(c, sc.Span), true
}

func (l *lowerer) effect(sc *ast.Located[ast.Scalar]) (ast.Located[ast.Effect], bool) {
	if sc == nil {
		return ast.Located[ast.Effect]{}, false
	}
	e, ok := ast.EffectFromName(sc.Value.Text)
	if !ok {
		l.errorf(diag.LowBadEffect, sc.Span,
			"effect must be one of none, full, incremental, got %q", sc.Value.Text)
		return ast.Located[ast.Effect]{}, false
	}
	return ast.At(e, sc.Span), true
}

func (l *lowerer) boolean(sc *ast.Located[ast.Scalar]) (ast.Located[bool], bool) {
	if sc == nil {
		return ast.Located[bool]{}, false
	}
	switch sc.Value.Text {
	case "true":
		return ast.At(true, sc.Span), true
	case "false":
		return ast.At(false, sc.Span), true
	default:
		l.errorf(diag.LowBadBool, sc.Span, "expected true or false, got %q", sc.Value.Text)
		return ast.Located[bool]{}, false
	}
}

// integer and float carry no extra constraints beyond the kind check, so a
// nil check is all that remains. They never report.

func integer(sc *ast.Located[ast.Scalar]) (ast.Located[int64], bool) {
	if sc == nil {
		return ast.Located[int64]{}, false
	}
	return ast.At(sc.Value.Int, sc.Span), true
}

func float(sc *ast.Located[ast.Scalar]) (ast.Located[ast.Float], bool) {
	if sc == nil {
		return ast.Located[ast.Float]{}, false
	}
	return ast.At(ast.Float{Value: sc.Value.Float, FracDigits: sc.Value.FracDigits}, sc.Span), true
}
