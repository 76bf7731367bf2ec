package check

import (
	"fmt"
	"strconv"
	"strings"

	"afflint/internal/ast"
	"afflint/internal/diag"
	"afflint/internal/project"
)

// checkMetadata validates the header against the policy: required keys
// present, only recognized keys used, value shape per key.
func checkMetadata(file *ast.File, ctx *Context) {
	cfg := ctx.Config

	for _, key := range cfg.Metadata.Required {
		if _, ok := file.Metadata.Get(key); !ok {
			diag.ReportError(ctx.Reporter, diag.ChkMissingMetadata, file.Metadata.Span,
				fmt.Sprintf("required metadata key %q is missing", key)).Emit()
		}
	}

	for _, entry := range file.Metadata.Entries() {
		shape, known := cfg.KnownShape(entry.Key.Value)
		if !known {
			diag.ReportWarning(ctx.Reporter, diag.ChkUnknownMetadata, entry.Key.Span,
				fmt.Sprintf("unknown metadata key %q", entry.Key.Value)).Emit()
			continue
		}
		checkValueShape(ctx, entry, shape)
	}
}

func checkValueShape(ctx *Context, entry ast.MetadataEntry, shape project.ValueShape) {
	raw := strings.TrimSpace(entry.Value.Value)
	switch shape {
	case project.ShapeInt:
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			diag.ReportError(ctx.Reporter, diag.ChkBadMetadataValue, entry.Value.Span,
				fmt.Sprintf("%s must be an integer, got %q", entry.Key.Value, raw)).Emit()
		}
	case project.ShapeFloat:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			diag.ReportError(ctx.Reporter, diag.ChkBadMetadataValue, entry.Value.Span,
				fmt.Sprintf("%s must be a number, got %q", entry.Key.Value, raw)).Emit()
		}
	case project.ShapeAny:
	}
}
