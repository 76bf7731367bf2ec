package ast

import (
	"afflint/internal/source"
)

// MetadataEntry is one validated header entry. Key and Value keep their raw
// text with spans; interpretation of values is checker policy.
type MetadataEntry struct {
	Key   Located[string]
	Value Located[string]
}

// Metadata is an ordered key -> entry mapping. Keys are unique by
// construction: the lowering pass rejects later duplicates, so first-seen
// order is also source order.
type Metadata struct {
	// Span covers the whole header section, separator included.
	Span source.Span

	entries []MetadataEntry
	index   map[string]int
}

// NewMetadata creates an empty metadata table.
func NewMetadata() *Metadata {
	return &Metadata{index: make(map[string]int)}
}

// Put inserts an entry. ok=false when the key is already present; the
// earlier entry wins and prev points at it.
func (m *Metadata) Put(e MetadataEntry) (prev MetadataEntry, ok bool) {
	if i, dup := m.index[e.Key.Value]; dup {
		return m.entries[i], false
	}
	m.index[e.Key.Value] = len(m.entries)
	m.entries = append(m.entries, e)
	return MetadataEntry{}, true
}

// Get looks an entry up by key.
func (m *Metadata) Get(key string) (MetadataEntry, bool) {
	if i, ok := m.index[key]; ok {
		return m.entries[i], true
	}
	return MetadataEntry{}, false
}

// Entries returns entries in source order. Callers must not modify the
// returned slice.
func (m *Metadata) Entries() []MetadataEntry {
	return m.entries
}

func (m *Metadata) Len() int {
	return len(m.entries)
}

// File is the validated document: the metadata table plus top-level items
// in source order. Items never contain an Arctap; the lowering pass rejects
// those before construction.
type File struct {
	Metadata *Metadata
	Items    []Located[Event]
	Span     source.Span
}
