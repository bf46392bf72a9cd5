package emit

import "fmt"

// Cond is the condition field of a conditionally executed instruction.
type Cond int

const (
	AL Cond = iota // Always.
	EQ
	NE
	GT
	LT
	GE
	LE
	MI
	PL
	NV // Never. Records with this condition are skipped when rendered.
)

// condSuffix provides the mnemonic suffix of each condition. AL is the empty suffix.
var condSuffix = [...]string{
	"",
	"EQ",
	"NE",
	"GT",
	"LT",
	"GE",
	"LE",
	"MI",
	"PL",
	"NV",
}

// condInverse maps each condition to the condition that holds exactly when it does not.
var condInverse = [...]Cond{
	AL: NV,
	EQ: NE,
	NE: EQ,
	GT: LE,
	LT: GE,
	GE: LT,
	LE: GT,
	MI: PL,
	PL: MI,
	NV: AL,
}

func (c Cond) String() string {
	if c < AL || c > NV {
		return fmt.Sprintf("<cond %d>", int(c))
	}
	return condSuffix[c]
}

// Invert returns the negated condition.
func (c Cond) Invert() Cond {
	return condInverse[c]
}

// Swap returns the condition that holds for CMP b, a when c holds for CMP a, b.
func (c Cond) Swap() Cond {
	switch c {
	case GT:
		return LT
	case LT:
		return GT
	case GE:
		return LE
	case LE:
		return GE
	}
	return c
}
