// Package regfile provides the physical register file of the 32-bit ARM target.
package regfile

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Register identifies a physical integer register by its index, 0 through 15.
type Register int

// ---------------------
// ----- Constants -----
// ---------------------

// Named registers of the procedure call standard.
const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	FP // r11, frame pointer.
	IP // r12, intra-procedure scratch.
	SP // r13, stack pointer.
	LR // r14, link register.
	PC // r15, program counter.
)

// ArgRegisters is the number of registers that carry call arguments. The return value is passed in R0.
const ArgRegisters = 4

// Bank size limits. Registers above the bank are never handed out by the allocator.
const (
	MinBank     = 4  // The argument registers must always be allocatable.
	MaxBank     = 11 // r0-r10, everything below the frame pointer.
	DefaultBank = 10 // r0-r9, leaving r10 untouched.
)

// names provides the assembler spelling of the special registers.
var names = map[Register]string{
	FP: "fp",
	IP: "ip",
	SP: "sp",
	LR: "lr",
	PC: "pc",
}

// ---------------------
// ----- Functions -----
// ---------------------

// String returns the assembler string for the register.
func (r Register) String() string {
	if s, ok := names[r]; ok {
		return s
	}
	if r < R0 || r > PC {
		return fmt.Sprintf("<reg %d>", int(r))
	}
	return fmt.Sprintf("r%d", int(r))
}

// Valid returns true if r is one of the sixteen core registers.
func (r Register) Valid() bool {
	return r >= R0 && r <= PC
}

// ValidBank returns an error if n is not a usable allocator bank size.
func ValidBank(n int) error {
	if n < MinBank || n > MaxBank {
		return fmt.Errorf("register bank size %d out of range [%d, %d]", n, MinBank, MaxBank)
	}
	return nil
}
