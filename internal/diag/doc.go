// Package diag defines the core diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the lexer, the parser, the lowering pass and the checkers.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag performs no formatting, IO, CLI integration, or interactive
// behaviour. Rendering responsibilities live in internal/diagfmt and the LSP
// layer.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity - four-level enum (Hint, Info, Warning, Error) in severity.go.
//   - Code - compact numeric identifier (see codes.go) with stable string form.
//   - Message - human oriented text; keep it short and actionable.
//   - Primary span - the canonical source.Span pointing to the issue.
//   - Notes - optional secondary spans/messages for related locations.
//
// Notes should be used sparingly: each note must add new context (e.g. "first
// occurrence here") rather than repeating the diagnostic message.
//
// # Emitting diagnostics
//
// Phases should use a diag.Reporter to decouple emission from storage. The
// lowering pass, for example, constructs a ReportBuilder via the helpers
// ReportError/ReportWarning/ReportInfo and chains WithNote before calling
// Emit. When no extra metadata is needed, phases may call Reporter.Report
// directly. diag.BagReporter aggregates diagnostics into a Bag, which
// supports sorting, deduplication and merging.
//
// Keep the data model deterministic: re-running the pipeline on the same
// input must produce the same diagnostics, so the CLI and the LSP server can
// safely cache and compare them.
package diag
