package check

import (
	"fmt"

	"afflint/internal/ast"
	"afflint/internal/diag"
)

// checkRanges validates cross-field numeric relations that lowering cannot
// see per field: span direction, non-negative times, coordinate bounds.
func checkRanges(file *ast.File, ctx *Context) {
	for _, item := range file.Items {
		switch ev := item.Value.(type) {
		case *ast.Timing:
			checkTime(ctx, ev.Time)
		case *ast.Tap:
			checkTime(ctx, ev.Time)
		case *ast.Hold:
			checkTime(ctx, ev.Start)
			checkSpanOrder(ctx, "hold", ev.Start, ev.End)
		case *ast.Arc:
			checkTime(ctx, ev.Start)
			checkSpanOrder(ctx, "arc", ev.Start, ev.End)
			checkCoord(ctx, "x", ev.XStart, ctx.Config.Bounds.XMin, ctx.Config.Bounds.XMax)
			checkCoord(ctx, "x", ev.XEnd, ctx.Config.Bounds.XMin, ctx.Config.Bounds.XMax)
			checkCoord(ctx, "y", ev.YStart, ctx.Config.Bounds.YMin, ctx.Config.Bounds.YMax)
			checkCoord(ctx, "y", ev.YEnd, ctx.Config.Bounds.YMin, ctx.Config.Bounds.YMax)
			for _, tap := range ev.Taps {
				checkTime(ctx, tap.Value.Time)
			}
		case *ast.Arctap:
			// unreachable: lowering rejects top-level arctaps
		}
	}
}

func checkTime(ctx *Context, time ast.Located[int64]) {
	if time.Value < 0 {
		diag.ReportError(ctx.Reporter, diag.ChkNegativeTime, time.Span,
			fmt.Sprintf("event time must not be negative, got %d", time.Value)).Emit()
	}
}

func checkSpanOrder(ctx *Context, kind string, start, end ast.Located[int64]) {
	if end.Value < start.Value {
		diag.ReportError(ctx.Reporter, diag.ChkReversedSpan, start.Span.Cover(end.Span),
			fmt.Sprintf("%s ends at %d before it starts at %d", kind, end.Value, start.Value)).Emit()
	}
}

func checkCoord(ctx *Context, axis string, coord ast.Located[ast.Float], minVal, maxVal float64) {
	v := coord.Value.Value
	if v < minVal || v > maxVal {
		diag.ReportWarning(ctx.Reporter, diag.ChkCoordOutOfRange, coord.Span,
			fmt.Sprintf("%s coordinate %g is outside the playfield range [%g, %g]",
				axis, v, minVal, maxVal)).Emit()
	}
}
