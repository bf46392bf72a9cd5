package emit

import (
	"strings"
	"testing"

	"armcc/src/backend/regfile"
)

// liveSet is a Liveness backed by a set of registers.
type liveSet map[regfile.Register]bool

func (l liveSet) Occupied(r regfile.Register) bool {
	return l[r]
}

// lines renders p and splits the output into lines.
func lines(p *Pipeline) []string {
	s := strings.TrimRight(p.String(), "\n")
	if len(s) == 0 {
		return nil
	}
	return strings.Split(s, "\n")
}

func compare(t *testing.T, exp, got []string) {
	t.Helper()
	if len(exp) != len(got) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(exp), len(got), strings.Join(got, "\n"))
	}
	for i1, e1 := range exp {
		if got[i1] != e1 {
			t.Errorf("line %d: expected %q, got %q", i1+1, e1, got[i1])
		}
	}
}

func TestRender(t *testing.T) {
	p := NewPipeline()
	p.Emit(
		&Label{Name: "main"},
		&Push{Regs: []regfile.Register{regfile.FP, regfile.LR}},
		&Arith{Op: ADD, Rd: regfile.FP, Rn: regfile.SP, Rhs: Imm(0)},
		&Move{Rd: regfile.R0, Src: Imm(5)},
		&Move{Rd: regfile.R1, Src: Imm(0), Not: true},
		&Move{Cond: LT, Rd: regfile.R2, Src: Imm(1)},
		&Compare{Rn: regfile.R0, Rhs: Reg(regfile.R1)},
		&Arith{Op: RSB, Rd: regfile.R3, Rn: regfile.R0, Rhs: Imm(10)},
		&Store{Reg: regfile.R4, Base: regfile.FP, Offset: -8},
		&Load{Reg: regfile.R4, Base: regfile.FP, Offset: -8},
		&LoadLabel{Rd: regfile.R5, Label: ".literal_0"},
		&LoadImm{Rd: regfile.R6, Value: 257},
		&Branch{Cond: NE, Label: ".L0"},
		&Branch{Label: "f", Link: true},
		&Pop{Regs: []regfile.Register{regfile.FP, regfile.PC}},
		&Text{Line: "\t.global main"},
	)
	exp := []string{
		"main:",
		"\tSTMFD\tsp!, {fp, lr}",
		"\tADD\tfp, sp, #0",
		"\tMOV\tr0, #5",
		"\tMVN\tr1, #0",
		"\tMOVLT\tr2, #1",
		"\tCMP\tr0, r1",
		"\tRSB\tr3, r0, #10",
		"\tSTR\tr4, [fp, #-8]",
		"\tLDR\tr4, [fp, #-8]",
		"\tLDR\tr5, =.literal_0",
		"\tLDR\tr6, =257",
		"\tBNE\t.L0",
		"\tBL\tf",
		"\tLDMFD\tsp!, {fp, pc}",
		"\t.global main",
	}
	compare(t, exp, lines(p))
}

func TestRenderSkips(t *testing.T) {
	p := NewPipeline()
	p.Emit(
		&Branch{Cond: NV, Label: ".L0"},
		&Arith{Op: ADD, Rd: regfile.R1, Rn: regfile.R1, Rhs: Imm(0)},
		&Arith{Op: SUB, Rd: regfile.SP, Rn: regfile.SP, Rhs: Imm(0)},
		&Move{Rd: regfile.R2, Src: Reg(regfile.R2)},
		&Move{Cond: NV, Rd: regfile.R2, Src: Imm(1)},
		&Push{},
		&Pop{},
		&Arith{Op: ADD, Rd: regfile.R1, Rn: regfile.R2, Rhs: Imm(0)},
		&Branch{Cond: AL, Label: ".L1"},
	)
	exp := []string{
		"\tADD\tr1, r2, #0",
		"\tB\t.L1",
	}
	compare(t, exp, lines(p))
}

func TestEmitAtStart(t *testing.T) {
	p := NewPipeline()
	p.Emit(&Label{Name: "main"})
	p.EmitAtStart(&Text{Line: ".section .rodata"}, &Text{Line: ".text"})
	compare(t, []string{".section .rodata", ".text", "main:"}, lines(p))
}

func TestCond(t *testing.T) {
	tests := []struct {
		c, inv, swap Cond
	}{
		{AL, NV, AL},
		{EQ, NE, EQ},
		{NE, EQ, NE},
		{GT, LE, LT},
		{LT, GE, GT},
		{GE, LT, LE},
		{LE, GT, GE},
		{MI, PL, MI},
		{PL, MI, PL},
	}
	for _, e1 := range tests {
		if e1.c.Invert() != e1.inv {
			t.Errorf("%q.Invert(): expected %q, got %q", e1.c, e1.inv, e1.c.Invert())
		}
		if e1.c.Invert().Invert() != e1.c {
			t.Errorf("%q: double inversion is not the identity", e1.c)
		}
		if e1.c.Swap() != e1.swap {
			t.Errorf("%q.Swap(): expected %q, got %q", e1.c, e1.swap, e1.c.Swap())
		}
	}
}

func TestEncodable(t *testing.T) {
	tests := []struct {
		v  int32
		ok bool
	}{
		{0, true},
		{255, true},
		{256, true},
		{257, false},
		{0x3F000000, true},
		{0x3FC, true},
		{0x102, false},
		{-1, false},
		{-0x0FFFFFF1, true}, // 0xF000000F wraps around bit 0.
		{4095, false},
	}
	for _, e1 := range tests {
		if Encodable(e1.v) != e1.ok {
			t.Errorf("Encodable(%#x): expected %t", uint32(e1.v), e1.ok)
		}
	}
}

func TestRebindLast(t *testing.T) {
	// MOV r3, #5 then MOV r4, r3 collapses into MOV r4, #5.
	p := NewPipeline()
	p.Emit(&Move{Rd: regfile.R3, Src: Imm(5)})
	if !p.RebindLast(regfile.R3, regfile.R4, liveSet{}) {
		t.Fatalf("expected rebind to succeed")
	}
	compare(t, []string{"\tMOV\tr4, #5"}, lines(p))

	// A run of records writing the same register is rewritten as a whole.
	p = NewPipeline()
	p.Emit(
		&Move{Rd: regfile.R3, Src: Imm(0)},
		&Move{Cond: GT, Rd: regfile.R3, Src: Imm(1)},
	)
	if !p.RebindLast(regfile.R3, regfile.R0, liveSet{}) {
		t.Fatalf("expected rebind to succeed")
	}
	compare(t, []string{"\tMOV\tr0, #0", "\tMOVGT\tr0, #1"}, lines(p))
}

func TestRebindRefused(t *testing.T) {
	// Live source register.
	p := NewPipeline()
	p.Emit(&Arith{Op: ADD, Rd: regfile.R2, Rn: regfile.R0, Rhs: Imm(1)})
	if p.RebindLast(regfile.R2, regfile.R5, liveSet{regfile.R2: true}) {
		t.Errorf("rebind of a live register succeeded")
	}

	// The last record writes another register.
	p = NewPipeline()
	p.Emit(&Arith{Op: ADD, Rd: regfile.R2, Rn: regfile.R0, Rhs: Imm(1)})
	if p.RebindLast(regfile.R3, regfile.R5, liveSet{}) {
		t.Errorf("rebind of a foreign destination succeeded")
	}

	// The last record is not a register-result record.
	p = NewPipeline()
	p.Emit(&Arith{Op: ADD, Rd: regfile.R2, Rn: regfile.R0, Rhs: Imm(1)}, &Compare{Rn: regfile.R2, Rhs: Imm(0)})
	if p.RebindLast(regfile.R2, regfile.R5, liveSet{}) {
		t.Errorf("rebind across a compare succeeded")
	}

	// Every record of the run reads its own destination.
	p = NewPipeline()
	p.Emit(&Arith{Op: ADD, Rd: regfile.R2, Rn: regfile.R2, Rhs: Imm(1)})
	if p.RebindLast(regfile.R2, regfile.R5, liveSet{}) {
		t.Errorf("rebind of a read-modify-write record succeeded")
	}
	compare(t, []string{"\tADD\tr2, r2, #1"}, lines(p))
}

func TestRebindClobber(t *testing.T) {
	// r4 is read by the second record, so the first record must keep writing r3.
	p := NewPipeline()
	p.Emit(
		&Move{Rd: regfile.R3, Src: Imm(7)},
		&Arith{Op: ADD, Rd: regfile.R3, Rn: regfile.R3, Rhs: Reg(regfile.R4)},
	)
	if p.RebindLast(regfile.R3, regfile.R4, liveSet{}) {
		t.Errorf("rebind clobbering a pending read succeeded")
	}
	compare(t, []string{"\tMOV\tr3, #7", "\tADD\tr3, r3, r4"}, lines(p))

	// The second record reads r4 but does not read r3, so the rewrite starts there.
	p = NewPipeline()
	p.Emit(
		&Move{Rd: regfile.R3, Src: Imm(7)},
		&Arith{Op: ADD, Rd: regfile.R3, Rn: regfile.R4, Rhs: Imm(1)},
	)
	if !p.RebindLast(regfile.R3, regfile.R4, liveSet{}) {
		t.Fatalf("expected rebind to succeed")
	}
	compare(t, []string{"\tMOV\tr3, #7", "\tADD\tr4, r4, #1"}, lines(p))
}
