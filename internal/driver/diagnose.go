// Package driver wires the pipeline phases together: lex -> parse -> lower
// -> check, per file. It owns everything the core stages must not know
// about: file loading, parallel fan-out and the on-disk diagnostic cache.
package driver

import (
	"afflint/internal/ast"
	"afflint/internal/check"
	"afflint/internal/diag"
	"afflint/internal/lexer"
	"afflint/internal/lower"
	"afflint/internal/parser"
	"afflint/internal/project"
	"afflint/internal/source"
)

// Result bundles the artefacts of one file's validation run.
type Result struct {
	Path   string
	FileID source.FileID
	File   *ast.File
	Bag    *diag.Bag
}

// CheckFile runs the full pipeline over an already loaded file. The bag
// comes back sorted; re-running on the same content yields the same
// diagnostics.
func CheckFile(fs *source.FileSet, id source.FileID, cfg *project.Config) Result {
	if cfg == nil {
		cfg = project.Default()
	}
	bag := diag.NewBag(cfg.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}

	file := fs.Get(id)
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	cstFile := parser.ParseFile(lx, parser.Options{Reporter: reporter})
	astFile := lower.Lower(cstFile, lower.Options{Reporter: reporter})
	check.Run(astFile, &check.Context{Reporter: reporter, Config: cfg})

	bag.Sort()
	return Result{Path: file.Path, FileID: id, File: astFile, Bag: bag}
}

// CheckPath loads one chart from disk and checks it.
func CheckPath(fs *source.FileSet, path string, cfg *project.Config) (Result, error) {
	id, err := fs.Load(path)
	if err != nil {
		return Result{Path: path}, err
	}
	return CheckFile(fs, id, cfg), nil
}
