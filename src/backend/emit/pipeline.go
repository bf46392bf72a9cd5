package emit

import (
	"io"
	"strings"

	"armcc/src/backend/regfile"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Liveness reports whether a register currently holds a live value.
type Liveness interface {
	Occupied(r regfile.Register) bool
}

// Pipeline is an ordered, append only log of instruction records.
type Pipeline struct {
	recs []Instruction
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{recs: make([]Instruction, 0, 256)}
}

// Emit appends records to the log.
func (p *Pipeline) Emit(rs ...Instruction) {
	p.recs = append(p.recs, rs...)
}

// EmitAtStart prepends records to the log, keeping their relative order.
func (p *Pipeline) EmitAtStart(rs ...Instruction) {
	recs := make([]Instruction, 0, len(rs)+len(p.recs))
	recs = append(recs, rs...)
	p.recs = append(recs, p.recs...)
}

// Len returns the number of records in the log.
func (p *Pipeline) Len() int {
	return len(p.recs)
}

// At returns the i'th record.
func (p *Pipeline) At(i int) Instruction {
	return p.recs[i]
}

// Last returns the most recently appended record, or nil if the log is empty.
func (p *Pipeline) Last() Instruction {
	if len(p.recs) == 0 {
		return nil
	}
	return p.recs[len(p.recs)-1]
}

// RebindLast moves the value most recently computed into register from so that it is computed into register to
// instead, making a following MOV to, from unnecessary. The trailing run of register-result records writing from is
// rewritten: every destination becomes to, and reads of from inside the run read to. The rewrite starts at a record
// that does not read from, and no later record of the rewritten run may read the old value of to. The rebind is
// refused if from holds a live value.
//
// RebindLast returns true if the value now resides in to.
func (p *Pipeline) RebindLast(from, to regfile.Register, live Liveness) bool {
	if from == to {
		return true
	}
	if live != nil && live.Occupied(from) {
		return false
	}

	// Collect the run.
	end := len(p.recs) - 1
	first := len(p.recs)
	for i1 := end; i1 >= 0; i1-- {
		rr, ok := p.recs[i1].(RegisterResult)
		if !ok || rr.Dest() != from {
			break
		}
		first = i1
	}
	if first > end {
		return false
	}

	// Records that read the old value of to bound the start of the rewrite from below.
	lo := first
	for i1 := end; i1 > first; i1-- {
		if p.recs[i1].(RegisterResult).Reads(to) {
			lo = i1
			break
		}
	}

	start := -1
	for i1 := lo; i1 <= end; i1++ {
		if !p.recs[i1].(RegisterResult).Reads(from) {
			start = i1
			break
		}
	}
	if start < 0 {
		return false
	}

	for i1 := start; i1 <= end; i1++ {
		rr := p.recs[i1].(RegisterResult)
		if i1 > start {
			rr.ReplaceSource(from, to)
		}
		rr.SetDest(to)
	}
	return true
}

// WriteTo renders every record, one line each, to w. Records that decline to render are skipped.
func (p *Pipeline) WriteTo(w io.Writer) (int64, error) {
	n := int64(0)
	for _, e1 := range p.recs {
		s, ok := e1.Render()
		if !ok {
			continue
		}
		m, err := io.WriteString(w, s+"\n")
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// String returns the rendered log.
func (p *Pipeline) String() string {
	sb := strings.Builder{}
	_, _ = p.WriteTo(&sb)
	return sb.String()
}
