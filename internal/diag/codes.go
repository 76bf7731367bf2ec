package diag

import (
	"fmt"
)

// Code is a compact numeric identifier with a stable string form.
// Blocks are reserved per phase: LEX 1000-1999, SYN 2000-2999,
// LOW 3000-3999 (CST->AST lowering), CHK 4000-4999 (semantic checkers).
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo        Code = 1000
	LexUnknownChar Code = 1001
	LexBadNumber   Code = 1002

	// Syntactic
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynUnclosedParen    Code = 2003
	SynUnclosedBracket  Code = 2004
	SynExpectColon      Code = 2005
	SynMissingSeparator Code = 2006
	SynExpectValue      Code = 2007
	SynExpectEvent      Code = 2008

	// Lowering (shape / arity / type / domain)
	LowInfo                 Code = 3000
	LowDuplicateMetadataKey Code = 3001
	LowUnknownEventTag      Code = 3002
	LowUnexpectedSubevents  Code = 3003
	LowBadValueCount        Code = 3004
	LowBadValueKind         Code = 3005
	LowBadTrack             Code = 3006
	LowBadColor             Code = 3007
	LowBadCurve             Code = 3008
	LowBadEffect            Code = 3009
	LowBadBool              Code = 3010
	LowArctapAsItem         Code = 3011
	LowBadSubevent          Code = 3012

	// Checkers
	ChkInfo             Code = 4000
	ChkMissingMetadata  Code = 4001
	ChkUnknownMetadata  Code = 4002
	ChkBadMetadataValue Code = 4003
	ChkReversedSpan     Code = 4004
	ChkNegativeTime     Code = 4005
	ChkCoordOutOfRange  Code = 4006
	ChkFloatDigits      Code = 4007
	ChkNoTiming         Code = 4008
	ChkNoBaseTiming     Code = 4009
	ChkDuplicateTiming  Code = 4010
	ChkBadSegment       Code = 4011
	ChkInternal         Code = 4999
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown diagnostic",

	LexInfo:        "Lexical information",
	LexUnknownChar: "Unknown character",
	LexBadNumber:   "Malformed number literal",

	SynInfo:             "Syntactic information",
	SynUnexpectedToken:  "Unexpected token",
	SynExpectSemicolon:  "Expected ';' after event",
	SynUnclosedParen:    "Unclosed '('",
	SynUnclosedBracket:  "Unclosed '['",
	SynExpectColon:      "Expected ':' in metadata entry",
	SynMissingSeparator: "Missing '-' separator after metadata",
	SynExpectValue:      "Expected a value",
	SynExpectEvent:      "Expected an event",

	LowInfo:                 "Lowering information",
	LowDuplicateMetadataKey: "Duplicate metadata key",
	LowUnknownEventTag:      "Unknown event tag",
	LowUnexpectedSubevents:  "Event kind does not allow subevents",
	LowBadValueCount:        "Wrong number of values",
	LowBadValueKind:         "Wrong value kind",
	LowBadTrack:             "Track out of range",
	LowBadColor:             "Color out of range",
	LowBadCurve:             "Unknown arc curve",
	LowBadEffect:            "Unknown arc effect",
	LowBadBool:              "Not a boolean",
	LowArctapAsItem:         "Arctap is not a top-level item",
	LowBadSubevent:          "Invalid subevent",

	ChkInfo:             "Checker information",
	ChkMissingMetadata:  "Required metadata key missing",
	ChkUnknownMetadata:  "Unknown metadata key",
	ChkBadMetadataValue: "Malformed metadata value",
	ChkReversedSpan:     "Event ends before it starts",
	ChkNegativeTime:     "Negative event time",
	ChkCoordOutOfRange:  "Arc coordinate out of playfield range",
	ChkFloatDigits:      "Inconsistent float formatting",
	ChkNoTiming:         "Chart has no timing event",
	ChkNoBaseTiming:     "Chart has no timing event at time 0",
	ChkDuplicateTiming:  "Duplicate timing event",
	ChkBadSegment:       "Negative beats-per-segment",
	ChkInternal:         "Internal checker failure",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CHK%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
