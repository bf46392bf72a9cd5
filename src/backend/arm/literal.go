package arm

import (
	"fmt"

	"armcc/src/backend/emit"
)

// literals interns string literals. Every distinct literal gets one label in the read only data section, numbered
// in order of first use.
type literals struct {
	labels map[string]string // Label of each literal, keyed by its source text.
	order  []string          // Literals in first use order.
}

const labelLiteral = ".literal_" // Prefix of literal labels.

func newLiterals() *literals {
	return &literals{labels: make(map[string]string, 8)}
}

// intern returns the label of the literal s, allocating a new label on first use.
func (l *literals) intern(s string) string {
	if lbl, ok := l.labels[s]; ok {
		return lbl
	}
	lbl := fmt.Sprintf("%s%d", labelLiteral, len(l.order))
	l.labels[s] = lbl
	l.order = append(l.order, s)
	return lbl
}

func (l *literals) len() int {
	return len(l.order)
}

// genPool prepends the literal pool and the start of the text section to out. Literals keep the escape sequences of
// the source, which the .asciz directive understands.
func (l *literals) genPool(out *emit.Pipeline) {
	recs := make([]emit.Instruction, 0, 2*len(l.order)+2)
	recs = append(recs, &emit.Text{Line: ".section .rodata"})
	for _, e1 := range l.order {
		recs = append(recs,
			&emit.Label{Name: l.labels[e1]},
			&emit.Text{Line: fmt.Sprintf("\t.asciz \"%s\"", e1)},
		)
	}
	recs = append(recs, &emit.Text{Line: ".text"})
	out.EmitAtStart(recs...)
}
