package lsp

import (
	"unicode/utf8"

	"fortio.org/safecast"

	"afflint/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// positionForOffsetInFile maps a byte offset into a 0-based LSP position.
// Characters are counted in UTF-16 code units per the protocol.
func positionForOffsetInFile(file *source.File, offset uint32) position {
	if file == nil {
		return position{}
	}
	contentLen := safeUint32(len(file.Content))
	if offset > contentLen {
		offset = contentLen
	}

	line := 0
	var lineStart uint32
	for i, nl := range file.LineIdx {
		if nl >= offset {
			break
		}
		line = i + 1
		lineStart = nl + 1
	}

	units := 0
	off := lineStart
	for off < offset {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		off += safeUint32(size)
	}
	return position{Line: line, Character: units}
}

// rangeForSpan maps a source span to an LSP range.
func rangeForSpan(file *source.File, sp source.Span) lspRange {
	return lspRange{
		Start: positionForOffsetInFile(file, sp.Start),
		End:   positionForOffsetInFile(file, sp.End),
	}
}
