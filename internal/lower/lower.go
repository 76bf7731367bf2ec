// Package lower implements the CST -> AST lowering pass: a recursive,
// bottom-up transformation with one case per grammar production. It owns the
// "never abort, always attribute a location" contract: no author input can
// stop the pass, the worst outcome for a malformed subtree is its omission
// plus diagnostics, and every diagnostic points at real source text.
package lower

import (
	"fmt"

	"afflint/internal/ast"
	"afflint/internal/cst"
	"afflint/internal/diag"
	"afflint/internal/source"
)

// Options configure one lowering run.
type Options struct {
	Reporter diag.Reporter
}

// Lower converts a parsed CST into the typed document model, emitting
// diagnostics through the reporter. The returned file is always usable:
// invalid events are omitted, invalid metadata entries keep their first
// occurrence, and surviving nodes preserve source order.
func Lower(file *cst.File, opts Options) *ast.File {
	l := lowerer{reporter: opts.Reporter}
	return l.file(file)
}

type lowerer struct {
	reporter diag.Reporter
}

func (l *lowerer) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportError(l.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

func (l *lowerer) file(f *cst.File) *ast.File {
	out := &ast.File{Span: f.Span}
	out.Metadata = l.metadata(f.Metadata)
	out.Items = l.items(f.Items)
	return out
}

// metadata folds entries in source order. A duplicate key keeps the first
// occurrence and rejects the later one with an error pointing back at the
// occurrence seen immediately before it.
func (l *lowerer) metadata(md *cst.Metadata) *ast.Metadata {
	out := ast.NewMetadata()
	if md == nil {
		return out
	}
	out.Span = md.Span
	lastSeen := make(map[string]source.Span)
	for _, e := range md.Entries {
		entry := ast.MetadataEntry{
			Key:   ast.At(e.Key.Text, e.Key.Span),
			Value: ast.At(e.Value.Text, e.Value.Span),
		}
		if _, ok := out.Put(entry); !ok {
			diag.ReportError(l.reporter, diag.LowDuplicateMetadataKey, e.Key.Span,
				fmt.Sprintf("duplicate metadata key %q", e.Key.Text)).
				WithNote(lastSeen[e.Key.Text], "previous occurrence here").
				Emit()
		}
		lastSeen[e.Key.Text] = e.Key.Span
	}
	return out
}

// event lowers one event node. The leading tag selects the kind: absent
// means tap; an unrecognized tag drops the whole event with an error at the
// tag itself.
func (l *lowerer) event(ev *cst.Event) (ast.Event, bool) {
	if ev.Tag == nil {
		return upcast(l.tap(ev))
	}
	tag := ev.Tag.Span
	switch ev.Tag.Text {
	case "timing":
		return upcast(l.timing(ev, tag))
	case "hold":
		return upcast(l.hold(ev, tag))
	case "arc":
		return upcast(l.arc(ev, tag))
	case "arctap":
		return upcast(l.arctap(ev, tag))
	default:
		l.errorf(diag.LowUnknownEventTag, tag, "unknown event %q", ev.Tag.Text)
		return nil, false
	}
}

// upcast folds a concrete transformer result into the event union without
// wrapping a typed nil into a non-nil interface.
func upcast[E ast.Event](ev E, ok bool) (ast.Event, bool) {
	if !ok {
		return nil, false
	}
	return ev, true
}

// item admits the subset of events legal at the top level. A well-formed
// arctap is still rejected here: it only exists as an arc subevent.
func (l *lowerer) item(ev *cst.Event) (ast.Located[ast.Event], bool) {
	lowered, ok := l.event(ev)
	if !ok {
		return ast.Located[ast.Event]{}, false
	}
	if lowered.Kind() == ast.EventArctap {
		l.errorf(diag.LowArctapAsItem, lowered.TagSpan(), "arctap should not be used as an item")
		return ast.Located[ast.Event]{}, false
	}
	return ast.At(lowered, ev.Span), true
}

// items filters omissions while preserving source order.
func (l *lowerer) items(evs []*cst.Event) []ast.Located[ast.Event] {
	out := make([]ast.Located[ast.Event], 0, len(evs))
	for _, ev := range evs {
		if item, ok := l.item(ev); ok {
			out = append(out, item)
		}
	}
	return out
}
