// Package cst defines the concrete syntax tree the parser hands to the
// lowering pass. Nodes mirror the grammar productions one to one and stay
// untyped: values are raw tokens, tags are uninterpreted words. Every node
// carries the span of the source text it was parsed from, which is the sole
// structural contract the lowering pass relies on.
package cst

import (
	"afflint/internal/source"
	"afflint/internal/token"
)

// File is the root production: a metadata header followed by events.
type File struct {
	Metadata *Metadata
	Items    []*Event
	Span     source.Span
}

// Metadata is the header section before the '-' separator.
type Metadata struct {
	Entries []*MetadataEntry
	Span    source.Span
}

// MetadataEntry is one "Key:Value" header line. Key and Value carry their
// own spans; Value keeps the raw text exactly as written.
type MetadataEntry struct {
	Key   token.Token
	Value token.Token
	Span  source.Span
}

// Event is one ';'-terminated construct, possibly nested as a subevent.
// Tag is nil for the untagged form "(...)". Subevents is nil when no
// bracket list was written; an empty non-nil slice means "[]" was present.
type Event struct {
	Tag       *token.Token
	Values    []token.Token
	Subevents []*Event
	Span      source.Span
}

// HasSubevents reports whether a bracket list was written, even an empty one.
func (e *Event) HasSubevents() bool {
	return e.Subevents != nil
}
