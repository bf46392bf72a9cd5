// Package emit provides the instruction records of the ARM backend and the ordered log they are emitted into.
//
// Every record renders to exactly one line of assembly text. A record may decline to render, which drops that single
// line from the output: branches that are never taken, additions of zero to the same register, moves of a register
// to itself and empty register lists are skipped this way.
package emit

import (
	"fmt"
	"strings"

	"armcc/src/backend/regfile"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Instruction is a single emitted line of assembly.
type Instruction interface {
	Render() (string, bool) // Render returns the assembly line, or false if the record is skipped.
}

// RegisterResult is an instruction that writes exactly one destination register, which may be rewritten after the
// instruction has been emitted.
type RegisterResult interface {
	Instruction
	Dest() regfile.Register
	SetDest(r regfile.Register)
	Reads(r regfile.Register) bool           // True if r is a source operand.
	ReplaceSource(old, new regfile.Register) // Rewrites source operands reading old to read new.
}

// Operand is a flexible second operand: either a register or an immediate.
type Operand struct {
	Reg   regfile.Register
	Imm   int32
	IsImm bool
}

// ArithOp enumerates the data processing instructions with a destination and two operands.
type ArithOp int

// Move is MOV<cond> or, when Not is set, MVN<cond>.
type Move struct {
	Cond Cond
	Rd   regfile.Register
	Src  Operand
	Not  bool
}

// Compare is CMP.
type Compare struct {
	Rn  regfile.Register
	Rhs Operand
}

// Arith is a three operand data processing instruction.
type Arith struct {
	Op  ArithOp
	Rd  regfile.Register
	Rn  regfile.Register
	Rhs Operand
}

// Branch is B<cond> or BL to a label.
type Branch struct {
	Cond  Cond
	Label string
	Link  bool
}

// Push is STMFD sp!, {regs}.
type Push struct {
	Regs []regfile.Register
}

// Pop is LDMFD sp!, {regs}.
type Pop struct {
	Regs []regfile.Register
}

// Store is STR reg, [base, #offset].
type Store struct {
	Reg    regfile.Register
	Base   regfile.Register
	Offset int
}

// Load is LDR reg, [base, #offset].
type Load struct {
	Reg    regfile.Register
	Base   regfile.Register
	Offset int
}

// LoadLabel is LDR dest, =label. It loads the address of label.
type LoadLabel struct {
	Rd    regfile.Register
	Label string
}

// LoadImm is LDR dest, =value. It loads a constant that cannot be encoded as an immediate.
type LoadImm struct {
	Rd    regfile.Register
	Value int32
}

// Label defines a label at the current position.
type Label struct {
	Name string
}

// Text is a line of raw assembly, typically a directive.
type Text struct {
	Line string
}

// ---------------------
// ----- Constants -----
// ---------------------

const (
	ADD ArithOp = iota
	ADC
	SUB
	RSB
	AND
	ORR
	EOR
	MUL
	LSL
	ASR
)

// arithMnemonics provides the mnemonic of each ArithOp.
var arithMnemonics = [...]string{
	"ADD",
	"ADC",
	"SUB",
	"RSB",
	"AND",
	"ORR",
	"EOR",
	"MUL",
	"LSL",
	"ASR",
}

// ---------------------
// ----- Functions -----
// ---------------------

// Reg returns a register operand.
func Reg(r regfile.Register) Operand {
	return Operand{Reg: r}
}

// Imm returns an immediate operand.
func Imm(v int32) Operand {
	return Operand{Imm: v, IsImm: true}
}

func (o Operand) String() string {
	if o.IsImm {
		return fmt.Sprintf("#%d", o.Imm)
	}
	return o.Reg.String()
}

// reads returns true if o is the register r.
func (o Operand) reads(r regfile.Register) bool {
	return !o.IsImm && o.Reg == r
}

// replace rewrites o if it is the register old.
func (o *Operand) replace(old, new regfile.Register) {
	if o.reads(old) {
		o.Reg = new
	}
}

func (op ArithOp) String() string {
	if op < ADD || op > ASR {
		return fmt.Sprintf("<op %d>", int(op))
	}
	return arithMnemonics[op]
}

// Encodable returns true if v fits the immediate field of a data processing instruction: an 8-bit value rotated
// right by an even number of bits.
func Encodable(v int32) bool {
	u := uint32(v)
	for i1 := 0; i1 < 32; i1 += 2 {
		if (u<<i1|u>>(32-i1))&^0xFF == 0 {
			return true
		}
	}
	return false
}

// line formats one instruction line: tab, mnemonic, tab, operands.
func line(mnemonic string, operands ...interface{}) string {
	sb := strings.Builder{}
	sb.WriteRune('\t')
	sb.WriteString(mnemonic)
	for i1, e1 := range operands {
		if i1 == 0 {
			sb.WriteRune('\t')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprint(e1))
	}
	return sb.String()
}

// regList formats a register list for the block transfer instructions.
func regList(regs []regfile.Register) string {
	s := make([]string, len(regs))
	for i1, e1 := range regs {
		s[i1] = e1.String()
	}
	return "{" + strings.Join(s, ", ") + "}"
}

// memory formats a base plus immediate offset address.
func memory(base regfile.Register, offset int) string {
	if offset == 0 {
		return fmt.Sprintf("[%s]", base)
	}
	return fmt.Sprintf("[%s, #%d]", base, offset)
}

func (m *Move) Render() (string, bool) {
	if m.Cond == NV {
		return "", false
	}
	if m.Not {
		return line("MVN"+m.Cond.String(), m.Rd, m.Src), true
	}
	if m.Src.reads(m.Rd) {
		return "", false
	}
	return line("MOV"+m.Cond.String(), m.Rd, m.Src), true
}

func (m *Move) Dest() regfile.Register { return m.Rd }

func (m *Move) SetDest(r regfile.Register) { m.Rd = r }

// Reads reports the source operand. A conditional move also reads its destination, which keeps its old value when
// the condition fails.
func (m *Move) Reads(r regfile.Register) bool {
	return m.Src.reads(r) || (m.Cond != AL && m.Rd == r)
}

func (m *Move) ReplaceSource(old, new regfile.Register) {
	m.Src.replace(old, new)
	if m.Cond != AL && m.Rd == old {
		m.Rd = new
	}
}

func (c *Compare) Render() (string, bool) {
	return line("CMP", c.Rn, c.Rhs), true
}

func (a *Arith) Render() (string, bool) {
	if (a.Op == ADD || a.Op == SUB) && a.Rhs.IsImm && a.Rhs.Imm == 0 && a.Rd == a.Rn {
		return "", false
	}
	return line(a.Op.String(), a.Rd, a.Rn, a.Rhs), true
}

func (a *Arith) Dest() regfile.Register { return a.Rd }

func (a *Arith) SetDest(r regfile.Register) { a.Rd = r }

func (a *Arith) Reads(r regfile.Register) bool {
	return a.Rn == r || a.Rhs.reads(r)
}

func (a *Arith) ReplaceSource(old, new regfile.Register) {
	if a.Rn == old {
		a.Rn = new
	}
	a.Rhs.replace(old, new)
}

func (b *Branch) Render() (string, bool) {
	if b.Cond == NV {
		return "", false
	}
	if b.Link {
		return line("BL"+b.Cond.String(), b.Label), true
	}
	return line("B"+b.Cond.String(), b.Label), true
}

func (p *Push) Render() (string, bool) {
	if len(p.Regs) == 0 {
		return "", false
	}
	return line("STMFD", "sp!", regList(p.Regs)), true
}

func (p *Pop) Render() (string, bool) {
	if len(p.Regs) == 0 {
		return "", false
	}
	return line("LDMFD", "sp!", regList(p.Regs)), true
}

func (s *Store) Render() (string, bool) {
	return line("STR", s.Reg, memory(s.Base, s.Offset)), true
}

func (l *Load) Render() (string, bool) {
	return line("LDR", l.Reg, memory(l.Base, l.Offset)), true
}

func (l *LoadLabel) Render() (string, bool) {
	return line("LDR", l.Rd, "="+l.Label), true
}

func (l *LoadLabel) Dest() regfile.Register { return l.Rd }

func (l *LoadLabel) SetDest(r regfile.Register) { l.Rd = r }

func (l *LoadLabel) Reads(regfile.Register) bool { return false }

func (l *LoadLabel) ReplaceSource(_, _ regfile.Register) {}

func (l *LoadImm) Render() (string, bool) {
	return line("LDR", l.Rd, fmt.Sprintf("=%d", l.Value)), true
}

func (l *LoadImm) Dest() regfile.Register { return l.Rd }

func (l *LoadImm) SetDest(r regfile.Register) { l.Rd = r }

func (l *LoadImm) Reads(regfile.Register) bool { return false }

func (l *LoadImm) ReplaceSource(_, _ regfile.Register) {}

func (l *Label) Render() (string, bool) {
	return l.Name + ":", true
}

func (t *Text) Render() (string, bool) {
	return t.Line, true
}
