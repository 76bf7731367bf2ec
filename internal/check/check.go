// Package check runs the semantic checker pipeline over a lowered file: a
// fixed ordered list of independent, pure functions that only append
// diagnostics. Checkers never mutate the file and never talk to each other;
// their relative order carries no semantic meaning, but each checker emits
// in source order so output stays reproducible.
package check

import (
	"fmt"

	"afflint/internal/ast"
	"afflint/internal/diag"
	"afflint/internal/project"
)

// Context carries everything a checker may consult.
type Context struct {
	Reporter diag.Reporter
	Config   *project.Config
}

type checker struct {
	name string
	run  func(*ast.File, *Context)
}

var pipeline = []checker{
	{"metadata", checkMetadata},
	{"ranges", checkRanges},
	{"float-digits", checkFloatDigits},
	{"timing", checkTiming},
}

// Run executes every checker. A panic inside one checker is contained so
// the remaining checkers still execute; the fault surfaces as a diagnostic
// instead of taking the whole run down.
func Run(file *ast.File, ctx *Context) {
	if file == nil || ctx == nil {
		return
	}
	if ctx.Config == nil {
		ctx.Config = project.Default()
	}
	for _, c := range pipeline {
		runIsolated(file, ctx, c)
	}
}

func runIsolated(file *ast.File, ctx *Context, c checker) {
	defer func() {
		if r := recover(); r != nil {
			if ctx.Reporter != nil {
				ctx.Reporter.Report(diag.ChkInternal, diag.SevError, file.Span,
					fmt.Sprintf("checker %q failed: %v", c.name, r), nil)
			}
		}
	}()
	c.run(file, ctx)
}
