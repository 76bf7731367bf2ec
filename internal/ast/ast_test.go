package ast

import (
	"testing"

	"afflint/internal/source"
)

func entry(key, value string, start uint32) MetadataEntry {
	end := start + uint32(len(key))
	return MetadataEntry{
		Key:   At(key, source.Span{File: 1, Start: start, End: end}),
		Value: At(value, source.Span{File: 1, Start: end + 1, End: end + 1 + uint32(len(value))}),
	}
}

func TestMetadataFirstWins(t *testing.T) {
	md := NewMetadata()

	if _, ok := md.Put(entry("AudioOffset", "41", 0)); !ok {
		t.Fatalf("first Put rejected")
	}
	prev, ok := md.Put(entry("AudioOffset", "42", 15))
	if ok {
		t.Fatalf("duplicate Put accepted")
	}
	if prev.Value.Value != "41" {
		t.Errorf("prev = %q, want the first entry", prev.Value.Value)
	}

	got, ok := md.Get("AudioOffset")
	if !ok || got.Value.Value != "41" {
		t.Errorf("Get = %q, %v; want 41, true", got.Value.Value, ok)
	}
	if md.Len() != 1 {
		t.Errorf("Len = %d, want 1", md.Len())
	}
}

func TestMetadataOrder(t *testing.T) {
	md := NewMetadata()
	md.Put(entry("AudioOffset", "41", 0))
	md.Put(entry("Version", "1.0", 20))

	entries := md.Entries()
	if len(entries) != 2 || entries[0].Key.Value != "AudioOffset" || entries[1].Key.Value != "Version" {
		t.Errorf("entries out of order: %+v", entries)
	}
}

func TestCurveFromName(t *testing.T) {
	for _, name := range []string{"b", "s", "si", "so", "sisi", "siso", "soso", "sosi"} {
		c, ok := CurveFromName(name)
		if !ok || c.String() != name {
			t.Errorf("CurveFromName(%q) = %s, %v", name, c, ok)
		}
	}
	if _, ok := CurveFromName("bezier"); ok {
		t.Errorf("unknown curve accepted")
	}
}

func TestEffectFromName(t *testing.T) {
	for _, name := range []string{"none", "full", "incremental"} {
		e, ok := EffectFromName(name)
		if !ok || e.String() != name {
			t.Errorf("EffectFromName(%q) = %s, %v", name, e, ok)
		}
	}
	if _, ok := EffectFromName("flash"); ok {
		t.Errorf("unknown effect accepted")
	}
}

func TestTagSpans(t *testing.T) {
	whole := source.Span{File: 1, Start: 10, End: 19}
	tag := source.Span{File: 1, Start: 10, End: 14}

	var ev Event = &Tap{Span: whole}
	if ev.TagSpan() != whole {
		t.Errorf("tap TagSpan = %s, want its whole span", ev.TagSpan())
	}
	ev = &Hold{Tag: tag}
	if ev.TagSpan() != tag {
		t.Errorf("hold TagSpan = %s, want the tag", ev.TagSpan())
	}
}
