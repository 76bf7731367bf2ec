package ast

// ScalarKind discriminates the literal kinds the grammar can produce.
type ScalarKind uint8

const (
	ScalarWord ScalarKind = iota
	ScalarInt
	ScalarFloat
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarWord:
		return "word"
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	}
	return "unknown"
}

// Scalar is one raw literal from an event value list. Text always keeps the
// literal exactly as written; Int/Float/FracDigits are valid per Kind.
// FracDigits retains the literal shape of a float (digits after the '.'),
// which formatting checks need where the numeric value is not enough.
type Scalar struct {
	Kind       ScalarKind
	Text       string
	Int        int64   // valid when Kind == ScalarInt
	Float      float64 // valid when Kind == ScalarFloat
	FracDigits int     // valid when Kind == ScalarFloat
}
