package ast

import (
	"afflint/internal/source"
)

// Located pairs a value with the span of the source text it was derived
// from. It is the universal unit of attribution: every field of every event
// can be traced back to the literal that produced it.
type Located[T any] struct {
	Value T
	Span  source.Span
}

// At builds a Located value.
func At[T any](v T, sp source.Span) Located[T] {
	return Located[T]{Value: v, Span: sp}
}
