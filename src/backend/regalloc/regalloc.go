// Package regalloc provides the local register allocator of the ARM backend.
//
// The allocator manages a bank of N general purpose registers, r0 through r(N-1), for the function currently being
// generated. Values are bound to registers on demand while the syntax tree is walked. When every register is
// occupied the least recently touched register is evicted: its occupant is stored to its stack slot and reloaded
// the next time it is bound. Touching a register means binding a value to it, rebinding the value it already holds
// or swapping a value into it. Ties are broken by the lowest register index, so allocation is deterministic.
package regalloc

import (
	"fmt"

	"armcc/src/backend/emit"
	"armcc/src/backend/regfile"
	"armcc/src/ir"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// slot is one register of the bank.
type slot struct {
	v       *Value // Occupant, <nil> if the register is free.
	touched uint64 // Clock value of the last touch.
}

// Allocator tracks the occupants of a bank of registers and emits the stores and loads that move values between
// registers and their stack slots.
type Allocator struct {
	bank  []slot
	clock uint64
	frame *Frame
	out   *emit.Pipeline
	stats Stats
}

// Snapshot is a copy of the register table of an Allocator.
type Snapshot struct {
	occ     []*Value
	touched []uint64
}

// Stats counts the memory traffic generated by an Allocator.
type Stats struct {
	Spills int // Stores emitted.
	Loads  int // Loads emitted.
	Moves  int // Register to register moves emitted.
}

// ---------------------
// ----- Functions -----
// ---------------------

// New returns an allocator for a bank of n registers. Spill slots are allocated from frame and instructions are
// appended to out.
func New(n int, frame *Frame, out *emit.Pipeline) *Allocator {
	return &Allocator{
		bank:  make([]slot, n),
		frame: frame,
		out:   out,
	}
}

// Size returns the number of registers in the bank.
func (a *Allocator) Size() int {
	return len(a.bank)
}

// Stats returns the number of instructions emitted by the allocator so far.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// touch marks register i as the most recently used.
func (a *Allocator) touch(i regfile.Register) {
	a.clock++
	a.bank[i].touched = a.clock
}

// occupy records v as the occupant of the free register i.
func (a *Allocator) occupy(i regfile.Register, v *Value) {
	a.bank[i].v = v
	v.reg = i
	v.bound = true
	a.touch(i)
}

// vacate empties register i without emitting anything.
func (a *Allocator) vacate(i regfile.Register) {
	if v := a.bank[i].v; v != nil {
		v.bound = false
	}
	a.bank[i].v = nil
}

// ensureSlot allocates a stack slot for v unless it already has one.
func (a *Allocator) ensureSlot(v *Value) int {
	if !v.hasSlot {
		v.slot = a.frame.Allocate(WordSize)
		v.hasSlot = true
	}
	return v.slot
}

// load emits the load of v from its stack slot into register i, if memory holds a meaningful value.
func (a *Allocator) load(v *Value, i regfile.Register) {
	if v.assigned && v.hasSlot {
		a.out.Emit(&emit.Load{Reg: i, Base: regfile.FP, Offset: v.slot})
		a.stats.Loads++
	}
}

// AcquireFree returns the lowest free register. If every register is occupied, the least recently touched one is
// spilled and returned.
func (a *Allocator) AcquireFree() regfile.Register {
	victim := regfile.Register(0)
	for i1, e1 := range a.bank {
		if e1.v == nil {
			return regfile.Register(i1)
		}
		if e1.touched < a.bank[victim].touched {
			victim = regfile.Register(i1)
		}
	}
	a.Spill(victim)
	return victim
}

// Bind makes sure v occupies a register and returns it. A value that was spilled after being assigned is reloaded.
func (a *Allocator) Bind(v *Value) regfile.Register {
	if v.bound {
		a.touch(v.reg)
		return v.reg
	}
	r := a.AcquireFree()
	a.load(v, r)
	a.occupy(r, v)
	return r
}

// Define binds v to a register for writing and marks it assigned. Unlike Bind, no load is emitted since the current
// contents are about to be overwritten.
func (a *Allocator) Define(v *Value) regfile.Register {
	v.assigned = true
	if v.bound {
		a.touch(v.reg)
		return v.reg
	}
	r := a.AcquireFree()
	a.occupy(r, v)
	return r
}

// BindTo forces v into register r. A different occupant of r is spilled first. If v resides in another register it
// is moved, otherwise it is loaded from its stack slot if it has been assigned.
func (a *Allocator) BindTo(v *Value, r regfile.Register) {
	if v.bound && v.reg == r {
		a.touch(r)
		return
	}
	if a.bank[r].v != nil {
		a.Spill(r)
	}
	if v.bound {
		a.out.Emit(&emit.Move{Rd: r, Src: emit.Reg(v.reg)})
		a.stats.Moves++
		a.vacate(v.reg)
	} else {
		a.load(v, r)
	}
	a.occupy(r, v)
}

// Swap exchanges the occupants of registers i and j in the register table. No instruction is emitted: the caller
// is responsible for the register contents matching the new table.
func (a *Allocator) Swap(i, j regfile.Register) {
	a.bank[i].v, a.bank[j].v = a.bank[j].v, a.bank[i].v
	if v := a.bank[i].v; v != nil {
		v.reg = i
	}
	if v := a.bank[j].v; v != nil {
		v.reg = j
	}
	a.touch(i)
	a.touch(j)
}

// Free empties register r without storing its occupant. The occupant must be dead.
func (a *Allocator) Free(r regfile.Register) {
	a.vacate(r)
}

// Release frees the register held by v, if any. The value of v is discarded.
func (a *Allocator) Release(v *Value) {
	if v != nil && v.bound {
		a.vacate(v.reg)
	}
}

// Spill stores the occupant of register r, if any, to its stack slot and empties r. Occupants that have never been
// assigned hold nothing worth storing.
func (a *Allocator) Spill(r regfile.Register) {
	v := a.bank[r].v
	if v == nil {
		return
	}
	if v.assigned {
		a.out.Emit(&emit.Store{Reg: r, Base: regfile.FP, Offset: a.ensureSlot(v)})
		a.stats.Spills++
	}
	a.vacate(r)
}

// Commit forces v to memory and returns its stack slot. Used when the address of v is taken: from then on the stack
// slot holds the authoritative value.
func (a *Allocator) Commit(v *Value) int {
	if v.bound {
		a.Spill(v.reg)
	}
	v.assigned = true
	return a.ensureSlot(v)
}

// SpillAll spills every register from r and up and returns the register table as it was before.
func (a *Allocator) SpillAll(from regfile.Register) Snapshot {
	s := a.Snapshot()
	for i1 := int(from); i1 < len(a.bank); i1++ {
		a.Spill(regfile.Register(i1))
	}
	return s
}

// ReloadAll binds the values of registers from r and up in s back into the registers they occupied in s.
func (a *Allocator) ReloadAll(from regfile.Register, s Snapshot) {
	for i1 := int(from); i1 < len(s.occ) && i1 < len(a.bank); i1++ {
		if v := s.occ[i1]; v != nil {
			a.BindTo(v, regfile.Register(i1))
		}
	}
}

// Snapshot returns a copy of the register table.
func (a *Allocator) Snapshot() Snapshot {
	s := Snapshot{
		occ:     make([]*Value, len(a.bank)),
		touched: make([]uint64, len(a.bank)),
	}
	for i1, e1 := range a.bank {
		s.occ[i1] = e1.v
		s.touched[i1] = e1.touched
	}
	return s
}

// Restore replaces the register table with s without emitting anything. Used where control flow resumes in the
// state captured by s, such as the start of an else branch.
func (a *Allocator) Restore(s Snapshot) {
	for i1 := range a.bank {
		a.vacate(regfile.Register(i1))
	}
	for i1, e1 := range s.occ {
		if e1 != nil {
			a.bank[i1].v = e1
			e1.reg = regfile.Register(i1)
			e1.bound = true
		}
		a.bank[i1].touched = s.touched[i1]
	}
}

// Reconcile emits the stores and loads that bring the registers from the current table to the table in s. Used at
// every control flow join, so that all incoming paths agree on where values live. Only STR and LDR are emitted, so
// the condition flags survive.
func (a *Allocator) Reconcile(s Snapshot) {
	// Evict every occupant that does not belong where it is. All stores precede all loads, so a value moving between
	// registers is stored before it is reloaded.
	for i1, e1 := range a.bank {
		if e1.v != nil && e1.v != s.occ[i1] {
			a.Spill(regfile.Register(i1))
		}
	}
	for i1, e1 := range s.occ {
		if e1 != nil && a.bank[i1].v != e1 {
			a.load(e1, regfile.Register(i1))
			a.occupy(regfile.Register(i1), e1)
		}
	}
	for i1 := range a.bank {
		a.bank[i1].touched = s.touched[i1]
	}
}

// FreeTemporaries frees every register holding a temporary. Called at the end of each statement, when no
// intermediate result is live any longer.
func (a *Allocator) FreeTemporaries() {
	for i1, e1 := range a.bank {
		if e1.v != nil && e1.v.temp {
			a.vacate(regfile.Register(i1))
		}
	}
}

// Occupied returns true if register r holds a value. Registers outside the bank are never free.
func (a *Allocator) Occupied(r regfile.Register) bool {
	if r < 0 || int(r) >= len(a.bank) {
		return true
	}
	return a.bank[r].v != nil
}

// Occupant returns the value held by register r, or <nil>.
func (a *Allocator) Occupant(r regfile.Register) *Value {
	if r < 0 || int(r) >= len(a.bank) {
		return nil
	}
	return a.bank[r].v
}

// Check verifies that the register table and the values it holds agree: every occupant is bound to the register
// holding it, and no value occupies two registers.
func (a *Allocator) Check() error {
	seen := make(map[*Value]regfile.Register, len(a.bank))
	for i1, e1 := range a.bank {
		if e1.v == nil {
			continue
		}
		r := regfile.Register(i1)
		if !e1.v.bound || e1.v.reg != r {
			return fmt.Errorf("%w: %s occupies %s but is bound to %s (bound: %t)", ir.ErrInternal, e1.v, r,
				e1.v.reg, e1.v.bound)
		}
		if prev, ok := seen[e1.v]; ok {
			return fmt.Errorf("%w: %s occupies both %s and %s", ir.ErrInternal, e1.v, prev, r)
		}
		seen[e1.v] = r
	}
	return nil
}

// String returns a print friendly dump of the register table.
func (a *Allocator) String() string {
	s := ""
	for i1, e1 := range a.bank {
		if e1.v != nil {
			s += fmt.Sprintf("%s: %s [%d]\n", regfile.Register(i1), e1.v, e1.touched)
		}
	}
	return s
}
