package lower

import (
	"afflint/internal/ast"
	"afflint/internal/cst"
	"afflint/internal/diag"
	"afflint/internal/source"
)

// Event transformers: one per kind. Each enforces, in order, the subevent
// rule, the exact value count, per-field literal kinds, and per-field
// domain constraints. An event is constructed only when every required
// field produced a value; otherwise the transformer yields nothing and the
// diagnostics already raised stand as the sole record.

// arity reports a value-count mismatch and decides whether the transformer
// may continue.
func (l *lowerer) arity(ev *cst.Event, vals []ast.Located[ast.Scalar], want int, kind string) bool {
	if len(vals) == want {
		return true
	}
	l.errorf(diag.LowBadValueCount, ev.Span, "%s expects %d values, got %d", kind, want, len(vals))
	return false
}

// field kind-checks the i-th value. nil means the field is absent: the
// mismatch is reported here once and every downstream consumer stays silent.
func (l *lowerer) field(vals []ast.Located[ast.Scalar], i int, want ast.ScalarKind, name string) *ast.Located[ast.Scalar] {
	sc := &vals[i]
	if sc.Value.Kind != want {
		l.errorf(diag.LowBadValueKind, sc.Span, "%s must be a %s, got %s %q", name, want, sc.Value.Kind, sc.Value.Text)
		return nil
	}
	return sc
}

// noSubevents flags a bracket list on kinds that do not allow one. The
// subevents are discarded; the event itself is still lowered.
func (l *lowerer) noSubevents(ev *cst.Event, kind string) {
	if ev.HasSubevents() {
		l.errorf(diag.LowUnexpectedSubevents, ev.Span, "%s should not have subevents", kind)
	}
}

func (l *lowerer) timing(ev *cst.Event, tag source.Span) (*ast.Timing, bool) {
	l.noSubevents(ev, "timing")
	vals := l.values(ev.Values)
	if !l.arity(ev, vals, 3, "timing") {
		return nil, false
	}

	time, timeOK := integer(l.field(vals, 0, ast.ScalarInt, "time"))
	bpm, bpmOK := float(l.field(vals, 1, ast.ScalarFloat, "bpm"))
	segment, segmentOK := float(l.field(vals, 2, ast.ScalarFloat, "beats per segment"))
	if !timeOK || !bpmOK || !segmentOK {
		return nil, false
	}

	return &ast.Timing{Time: time, BPM: bpm, Segment: segment, Tag: tag}, true
}

func (l *lowerer) tap(ev *cst.Event) (*ast.Tap, bool) {
	l.noSubevents(ev, "tap")
	vals := l.values(ev.Values)
	if !l.arity(ev, vals, 2, "tap") {
		return nil, false
	}

	time, timeOK := integer(l.field(vals, 0, ast.ScalarInt, "time"))
	track, trackOK := l.track(l.field(vals, 1, ast.ScalarInt, "track"))
	if !timeOK || !trackOK {
		return nil, false
	}

	return &ast.Tap{Time: time, Track: track, Span: ev.Span}, true
}

func (l *lowerer) hold(ev *cst.Event, tag source.Span) (*ast.Hold, bool) {
	l.noSubevents(ev, "hold")
	vals := l.values(ev.Values)
	if !l.arity(ev, vals, 3, "hold") {
		return nil, false
	}

	start, startOK := integer(l.field(vals, 0, ast.ScalarInt, "start time"))
	end, endOK := integer(l.field(vals, 1, ast.ScalarInt, "end time"))
	track, trackOK := l.track(l.field(vals, 2, ast.ScalarInt, "track"))
	if !startOK || !endOK || !trackOK {
		return nil, false
	}

	return &ast.Hold{Start: start, End: end, Track: track, Tag: tag}, true
}

func (l *lowerer) arctap(ev *cst.Event, tag source.Span) (*ast.Arctap, bool) {
	l.noSubevents(ev, "arctap")
	vals := l.values(ev.Values)
	if !l.arity(ev, vals, 1, "arctap") {
		return nil, false
	}

	time, timeOK := integer(l.field(vals, 0, ast.ScalarInt, "time"))
	if !timeOK {
		return nil, false
	}

	return &ast.Arctap{Time: time, Tag: tag}, true
}

func (l *lowerer) arc(ev *cst.Event, tag source.Span) (*ast.Arc, bool) {
	vals := l.values(ev.Values)
	if !l.arity(ev, vals, 10, "arc") {
		return nil, false
	}

	start, startOK := integer(l.field(vals, 0, ast.ScalarInt, "start time"))
	end, endOK := integer(l.field(vals, 1, ast.ScalarInt, "end time"))
	xStart, xStartOK := float(l.field(vals, 2, ast.ScalarFloat, "start x"))
	xEnd, xEndOK := float(l.field(vals, 3, ast.ScalarFloat, "end x"))
	curve, curveOK := l.curve(l.field(vals, 4, ast.ScalarWord, "curve"))
	yStart, yStartOK := float(l.field(vals, 5, ast.ScalarFloat, "start y"))
	yEnd, yEndOK := float(l.field(vals, 6, ast.ScalarFloat, "end y"))
	color, colorOK := l.color(l.field(vals, 7, ast.ScalarInt, "color"))
	effect, effectOK := l.effect(l.field(vals, 8, ast.ScalarWord, "effect"))
	isLine, isLineOK := l.boolean(l.field(vals, 9, ast.ScalarWord, "is line"))

	taps := l.arcSubevents(ev)

	if !startOK || !endOK || !xStartOK || !xEndOK || !curveOK ||
		!yStartOK || !yEndOK || !colorOK || !effectOK || !isLineOK {
		return nil, false
	}

	return &ast.Arc{
		Start: start, End: end,
		XStart: xStart, XEnd: xEnd,
		Curve:  curve,
		YStart: yStart, YEnd: yEnd,
		Color: color, Effect: effect, IsLine: isLine,
		Tag:  tag,
		Taps: taps,
	}, true
}

// arcSubevents lowers the attached events of an arc, keeping valid arctaps
// in source order. A sibling of any other kind is dropped with an error
// without affecting the arc or the remaining siblings.
func (l *lowerer) arcSubevents(ev *cst.Event) []ast.Located[*ast.Arctap] {
	if !ev.HasSubevents() {
		return nil
	}
	taps := make([]ast.Located[*ast.Arctap], 0, len(ev.Subevents))
	for _, sub := range ev.Subevents {
		lowered, ok := l.event(sub)
		if !ok {
			continue
		}
		tap, isTap := lowered.(*ast.Arctap)
		if !isTap {
			l.errorf(diag.LowBadSubevent, lowered.TagSpan(), "%s should not be a subevent of arc", lowered.Kind())
			continue
		}
		taps = append(taps, ast.At(tap, sub.Span))
	}
	return taps
}
