package token

// Kind enumerates every token the chart notation can produce.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	// Literals
	Word
	IntLit
	FloatLit

	// Punctuation
	LParen
	RParen
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case EOF:
		return "eof"
	case Word:
		return "word"
	case IntLit:
		return "int"
	case FloatLit:
		return "float"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case Comma:
		return "','"
	case Semicolon:
		return "';'"
	case Colon:
		return "':'"
	}
	return "unknown"
}
