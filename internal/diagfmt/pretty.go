// Package diagfmt renders diagnostics into human- and machine-readable
// forms. It is the only layer that knows how a diagnostic looks; the data
// model stays in internal/diag.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"afflint/internal/diag"
	"afflint/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	hintColor    = color.New(color.FgBlue)
	noteColor    = color.New(color.FgWhite, color.Faint)
)

// Pretty formats diagnostics one block per entry:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	   3 | (1000,5);
//	     |       ^
//	note: <path>:<line>:<col>: <message>
//
// The bag is expected to be sorted already.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := file.FormatPath(opts.PathMode.key(), fs.BaseDir())

	sev := d.Severity.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sev, d.Code.ID(), d.Message)

	if opts.Context {
		writeContext(w, file, start, end, opts)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nfile := fs.Get(n.Span.File)
			nstart, _ := fs.Resolve(n.Span)
			npath := nfile.FormatPath(opts.PathMode.key(), fs.BaseDir())
			label := "note"
			if opts.Color {
				label = noteColor.Sprint(label)
			}
			fmt.Fprintf(w, "%s: %s:%d:%d: %s\n", label, npath, nstart.Line, nstart.Col, n.Msg)
		}
	}
}

// writeContext prints the offending line with a caret underline. Widths are
// computed with runewidth so the carets line up under wide runes too.
func writeContext(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts) {
	line := file.GetLine(start.Line)
	if line == "" {
		return
	}

	gutter := fmt.Sprintf("%4d | ", start.Line)
	fmt.Fprintf(w, "%s%s\n", gutter, line)

	startCol := int(start.Col)
	endCol := int(end.Col)
	if end.Line != start.Line || endCol <= startCol {
		endCol = startCol + 1
	}
	if startCol > len(line)+1 {
		startCol = len(line) + 1
	}
	if endCol > len(line)+1 {
		endCol = len(line) + 1
		if endCol <= startCol {
			endCol = startCol + 1
		}
	}

	pad := runewidth.StringWidth(line[:startCol-1])
	width := runewidth.StringWidth(line[startCol-1 : min(endCol-1, len(line))])
	if width < 1 {
		width = 1
	}

	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = errorColor.Sprint(marker)
	}
	blank := strings.Repeat(" ", len(gutter)-2) + "| "
	fmt.Fprintf(w, "%s%s%s\n", blank, strings.Repeat(" ", pad), marker)
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	case diag.SevHint:
		return hintColor
	default:
		return infoColor
	}
}
