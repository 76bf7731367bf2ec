package lsp

import (
	"testing"

	"afflint/internal/source"
)

func virtualFile(t *testing.T, content string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("chart.aff", []byte(content))
	return fs.Get(id)
}

func TestPositionForOffsetInFile(t *testing.T) {
	file := virtualFile(t, "AudioOffset:0\n-\n(1000,5);\n")

	tests := []struct {
		offset uint32
		line   int
		char   int
	}{
		{0, 0, 0},
		{12, 0, 12},
		{13, 0, 13}, // the newline itself
		{14, 1, 0},  // '-'
		{16, 2, 0},  // '('
		{22, 2, 6},  // '5'
		{99, 3, 0},  // clamped past EOF
	}
	for _, tt := range tests {
		got := positionForOffsetInFile(file, tt.offset)
		if got.Line != tt.line || got.Character != tt.char {
			t.Errorf("offset %d = %d:%d, want %d:%d", tt.offset, got.Line, got.Character, tt.line, tt.char)
		}
	}
}

func TestPositionCountsUTF16Units(t *testing.T) {
	// "é" is one UTF-16 unit, "𝄞" (U+1D11E) is a surrogate pair
	file := virtualFile(t, "é𝄞x")

	tests := []struct {
		offset uint32
		char   int
	}{
		{0, 0},
		{2, 1}, // after é (2 bytes)
		{6, 3}, // after 𝄞 (4 bytes, 2 units)
		{7, 4},
	}
	for _, tt := range tests {
		got := positionForOffsetInFile(file, tt.offset)
		if got.Line != 0 || got.Character != tt.char {
			t.Errorf("offset %d = %d:%d, want 0:%d", tt.offset, got.Line, got.Character, tt.char)
		}
	}
}

func TestRangeForSpan(t *testing.T) {
	file := virtualFile(t, "-\n(1000,5);\n")

	r := rangeForSpan(file, source.Span{File: file.ID, Start: 2, End: 10})
	if r.Start.Line != 1 || r.Start.Character != 0 {
		t.Errorf("start = %d:%d, want 1:0", r.Start.Line, r.Start.Character)
	}
	if r.End.Line != 1 || r.End.Character != 8 {
		t.Errorf("end = %d:%d, want 1:8", r.End.Line, r.End.Character)
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///home/user/chart.aff", "/home/user/chart.aff"},
		{"file:///with%20space/chart.aff", "/with space/chart.aff"},
		{"untitled:Untitled-1", "untitled:Untitled-1"},
	}
	for _, tt := range tests {
		if got := uriToPath(tt.uri); got != tt.want {
			t.Errorf("uriToPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
