package ast

// Domain values refine raw scalars into closed sets. They are constructed
// only by the value parsers in internal/lower; an invalid raw value never
// becomes a domain value, so consumers never re-validate.

// Track is a lane id, 1 through 4.
type Track uint8

// Color is an arc color id, 0 through 2.
type Color uint8

// Curve is the easing of an arc.
type Curve uint8

const (
	CurveB Curve = iota
	CurveS
	CurveSi
	CurveSo
	CurveSiSi
	CurveSiSo
	CurveSoSo
	CurveSoSi
)

var curveNames = map[string]Curve{
	"b":    CurveB,
	"s":    CurveS,
	"si":   CurveSi,
	"so":   CurveSo,
	"sisi": CurveSiSi,
	"siso": CurveSiSo,
	"soso": CurveSoSo,
	"sosi": CurveSoSi,
}

// CurveFromName resolves an easing name; ok=false for unknown names.
func CurveFromName(name string) (Curve, bool) {
	c, ok := curveNames[name]
	return c, ok
}

func (c Curve) String() string {
	switch c {
	case CurveB:
		return "b"
	case CurveS:
		return "s"
	case CurveSi:
		return "si"
	case CurveSo:
		return "so"
	case CurveSiSi:
		return "sisi"
	case CurveSiSo:
		return "siso"
	case CurveSoSo:
		return "soso"
	case CurveSoSi:
		return "sosi"
	}
	return "unknown"
}

// Effect is the hit effect of an arc.
type Effect uint8

const (
	EffectNone Effect = iota
	EffectFull
	EffectIncremental
)

var effectNames = map[string]Effect{
	"none":        EffectNone,
	"full":        EffectFull,
	"incremental": EffectIncremental,
}

// EffectFromName resolves an effect name; ok=false for unknown names.
func EffectFromName(name string) (Effect, bool) {
	e, ok := effectNames[name]
	return e, ok
}

func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectFull:
		return "full"
	case EffectIncremental:
		return "incremental"
	}
	return "unknown"
}

// Float is a real value that remembers its literal shape.
type Float struct {
	Value      float64
	FracDigits int
}
