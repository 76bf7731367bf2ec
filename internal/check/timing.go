package check

import (
	"fmt"

	"afflint/internal/ast"
	"afflint/internal/diag"
	"afflint/internal/source"
)

// checkTiming validates the temporal skeleton of the chart: at least one
// timing event exists, one of them anchors time 0, no two share a time, and
// beats-per-segment is never negative.
func checkTiming(file *ast.File, ctx *Context) {
	var (
		timings  []*ast.Timing
		firstAt  = make(map[int64]source.Span)
		baseSeen bool
	)

	for _, item := range file.Items {
		t, ok := item.Value.(*ast.Timing)
		if !ok {
			continue
		}
		timings = append(timings, t)

		if t.Time.Value == 0 {
			baseSeen = true
		}
		if t.Segment.Value.Value < 0 {
			diag.ReportError(ctx.Reporter, diag.ChkBadSegment, t.Segment.Span,
				fmt.Sprintf("beats per segment must not be negative, got %g", t.Segment.Value.Value)).Emit()
		}
		if prev, dup := firstAt[t.Time.Value]; dup {
			diag.ReportWarning(ctx.Reporter, diag.ChkDuplicateTiming, t.Time.Span,
				fmt.Sprintf("duplicate timing event at %d", t.Time.Value)).
				WithNote(prev, "previous timing event here").
				Emit()
		} else {
			firstAt[t.Time.Value] = t.Time.Span
		}
	}

	if len(timings) == 0 {
		diag.ReportError(ctx.Reporter, diag.ChkNoTiming, file.Span,
			"chart has no timing event").Emit()
		return
	}
	if !baseSeen {
		diag.ReportWarning(ctx.Reporter, diag.ChkNoBaseTiming, timings[0].Tag,
			"chart has no timing event at time 0").Emit()
	}
}
