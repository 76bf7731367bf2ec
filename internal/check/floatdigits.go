package check

import (
	"fmt"

	"afflint/internal/ast"
	"afflint/internal/diag"
)

// checkFloatDigits enforces the formatting convention that every float
// literal is written with a fixed number of fractional digits. This is a
// pure shape rule: "120.5" and "120.50" are the same number, only the
// second spelling passes.
func checkFloatDigits(file *ast.File, ctx *Context) {
	want := ctx.Config.Format.FloatDigits

	for _, item := range file.Items {
		switch ev := item.Value.(type) {
		case *ast.Timing:
			checkDigits(ctx, "bpm", ev.BPM, want)
			checkDigits(ctx, "beats per segment", ev.Segment, want)
		case *ast.Arc:
			checkDigits(ctx, "start x", ev.XStart, want)
			checkDigits(ctx, "end x", ev.XEnd, want)
			checkDigits(ctx, "start y", ev.YStart, want)
			checkDigits(ctx, "end y", ev.YEnd, want)
		}
	}
}

func checkDigits(ctx *Context, name string, f ast.Located[ast.Float], want int) {
	if f.Value.FracDigits == want {
		return
	}
	diag.ReportWarning(ctx.Reporter, diag.ChkFloatDigits, f.Span,
		fmt.Sprintf("%s should be written with %d fractional digits", name, want)).Emit()
}
