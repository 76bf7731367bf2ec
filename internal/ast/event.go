package ast

import (
	"afflint/internal/source"
)

// EventKind discriminates the closed event union.
type EventKind uint8

const (
	EventTap EventKind = iota
	EventHold
	EventArc
	EventArctap
	EventTiming
)

func (k EventKind) String() string {
	switch k {
	case EventTap:
		return "tap"
	case EventHold:
		return "hold"
	case EventArc:
		return "arc"
	case EventArctap:
		return "arctap"
	case EventTiming:
		return "timing"
	}
	return "unknown"
}

// Event is the closed union over event kinds. Exactly one variant method
// returns true per implementation; consumers dispatch on Kind() with an
// exhaustive switch.
type Event interface {
	Kind() EventKind
	// TagSpan is the location of the leading tag word. Taps are untagged
	// in the notation and return their whole-event span instead.
	TagSpan() source.Span
}

// Timing sets bpm and beats-per-segment from a point in time.
type Timing struct {
	Time    Located[int64]
	BPM     Located[Float]
	Segment Located[Float]
	Tag     source.Span
}

func (*Timing) Kind() EventKind        { return EventTiming }
func (t *Timing) TagSpan() source.Span { return t.Tag }

// Tap is a floor note on one track.
type Tap struct {
	Time  Located[int64]
	Track Located[Track]
	Span  source.Span
}

func (*Tap) Kind() EventKind        { return EventTap }
func (t *Tap) TagSpan() source.Span { return t.Span }

// Hold is a sustained floor note.
type Hold struct {
	Start Located[int64]
	End   Located[int64]
	Track Located[Track]
	Tag   source.Span
}

func (*Hold) Kind() EventKind        { return EventHold }
func (h *Hold) TagSpan() source.Span { return h.Tag }

// Arc is a sky arc, optionally carrying attached arctaps.
type Arc struct {
	Start  Located[int64]
	End    Located[int64]
	XStart Located[Float]
	XEnd   Located[Float]
	Curve  Located[Curve]
	YStart Located[Float]
	YEnd   Located[Float]
	Color  Located[Color]
	Effect Located[Effect]
	IsLine Located[bool]
	Tag    source.Span
	Taps   []Located[*Arctap]
}

func (*Arc) Kind() EventKind        { return EventArc }
func (a *Arc) TagSpan() source.Span { return a.Tag }

// Arctap is a sky note; legal only attached to an arc.
type Arctap struct {
	Time Located[int64]
	Tag  source.Span
}

func (*Arctap) Kind() EventKind        { return EventArctap }
func (a *Arctap) TagSpan() source.Span { return a.Tag }
