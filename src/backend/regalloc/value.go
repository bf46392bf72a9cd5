package regalloc

import (
	"fmt"

	"armcc/src/backend/regfile"
)

// Value is anything that may occupy a physical register: a named variable or an anonymous temporary holding an
// intermediate result. A Value is either unbound, bound to exactly one register of an Allocator, or resident only in
// its stack slot. The allocator keeps the bound register of a Value and its own register table consistent.
type Value struct {
	Name     string           // Source identifier. Empty for temporaries.
	temp     bool             // True for temporaries.
	reg      regfile.Register // Register holding the value. Only meaningful while bound.
	bound    bool             // True while the value occupies reg.
	assigned bool             // True once the value has been written, so memory or register contents are meaningful.
	slot     int              // Frame pointer relative offset of the stack slot.
	hasSlot  bool             // Stack slots are allocated on the first spill.
}

// NewVariable returns an unbound, unassigned value for the named variable.
func NewVariable(name string) *Value {
	return &Value{Name: name}
}

// NewTemporary returns an unbound temporary.
func NewTemporary() *Value {
	return &Value{temp: true}
}

// Temporary returns true if v holds an intermediate result rather than a named variable.
func (v *Value) Temporary() bool {
	return v.temp
}

// Register returns the register holding v, and false if v is not bound.
func (v *Value) Register() (regfile.Register, bool) {
	return v.reg, v.bound
}

// Assigned returns true if v has been written.
func (v *Value) Assigned() bool {
	return v.assigned
}

// MarkAssigned records that v holds a meaningful value, such as a parameter arriving in an argument register.
func (v *Value) MarkAssigned() {
	v.assigned = true
}

// Slot returns the stack slot of v, and false if none has been allocated yet.
func (v *Value) Slot() (int, bool) {
	return v.slot, v.hasSlot
}

func (v *Value) String() string {
	name := v.Name
	if v.temp {
		name = fmt.Sprintf("temp@%p", v)
	}
	if v.bound {
		return fmt.Sprintf("%s (%s)", name, v.reg)
	}
	if v.hasSlot {
		return fmt.Sprintf("%s ([fp, #%d])", name, v.slot)
	}
	return name
}
