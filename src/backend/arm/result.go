package arm

import (
	"fmt"

	"armcc/src/backend/emit"
	"armcc/src/backend/regalloc"
	"armcc/src/backend/regfile"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// resultKind tells where the value of an evaluated expression lives.
type resultKind int

// result is the outcome of evaluating an expression. Only register results name a value that occupies, or may be
// bound to, a register. All other kinds are turned into register results on demand by materialize, which consumes
// them.
type result struct {
	kind  resultKind
	value *regalloc.Value // Register and address results.
	imm   int32           // Constant results.
	cond  emit.Cond       // Flags results: the condition that holds when the expression is true.
	label string          // Literal results.
}

// ---------------------
// ----- Constants -----
// ---------------------

const (
	resRegister resultKind = iota // The value of a variable or temporary.
	resConstant                   // A compile time integer constant.
	resFlags                      // The outcome of a comparison, held in the condition flags.
	resLiteral                    // The address of a string literal.
	resAddress                    // The address of a variable.
)

// resultKinds provides print friendly strings of resultKind.
var resultKinds = [...]string{
	"register",
	"constant",
	"flags",
	"literal",
	"address",
}

// ---------------------
// ----- Functions -----
// ---------------------

func registerResult(v *regalloc.Value) result {
	return result{kind: resRegister, value: v}
}

func constResult(v int32) result {
	return result{kind: resConstant, imm: v}
}

func flagsResult(cc emit.Cond) result {
	return result{kind: resFlags, cond: cc}
}

func literalResult(label string) result {
	return result{kind: resLiteral, label: label}
}

func addressResult(v *regalloc.Value) result {
	return result{kind: resAddress, value: v}
}

func (k resultKind) String() string {
	if int(k) < 0 || int(k) >= len(resultKinds) {
		return fmt.Sprintf("<result %d>", int(k))
	}
	return resultKinds[k]
}

// temporary returns true if r holds an intermediate value that dies once consumed.
func (r result) temporary() bool {
	return r.kind == resRegister && r.value.Temporary()
}

// release frees the register of a temporary result. Variables are left untouched.
func (c *Context) release(r result) {
	if !r.temporary() {
		return
	}
	if rs, ok := r.value.Register(); ok {
		c.ra.Free(rs)
	}
}

// materialize forces r into a register and returns the register result holding it. Non-register results are
// computed into a fresh temporary.
func (c *Context) materialize(r result) result {
	if r.kind == resRegister {
		c.ra.Bind(r.value)
		return r
	}
	t := regalloc.NewTemporary()
	if r.kind == resAddress {
		// Force the variable to memory before the temporary is allocated, so it cannot steal the variable's
		// register after the address has been computed.
		c.ra.Commit(r.value)
	}
	c.materializeInto(r, c.ra.Define(t))
	return registerResult(t)
}

// materializeInto computes r into register rd. The caller owns rd.
func (c *Context) materializeInto(r result, rd regfile.Register) {
	switch r.kind {
	case resRegister:
		if rs := c.ra.Bind(r.value); rs != rd {
			c.emit(&emit.Move{Rd: rd, Src: emit.Reg(rs)})
		}
	case resConstant:
		c.loadConst(rd, r.imm)
	case resFlags:
		c.emit(
			&emit.Move{Rd: rd, Src: emit.Imm(0)},
			&emit.Move{Cond: r.cond, Rd: rd, Src: emit.Imm(1)},
		)
	case resLiteral:
		c.emit(&emit.LoadLabel{Rd: rd, Label: r.label})
	case resAddress:
		off := int32(-c.ra.Commit(r.value))
		if emit.Encodable(off) {
			c.emit(&emit.Arith{Op: emit.SUB, Rd: rd, Rn: regfile.FP, Rhs: emit.Imm(off)})
		} else {
			c.emit(
				&emit.LoadImm{Rd: rd, Value: off},
				&emit.Arith{Op: emit.SUB, Rd: rd, Rn: regfile.FP, Rhs: emit.Reg(rd)},
			)
		}
	}
}

// loadConst loads the constant v into rd with the shortest form available.
func (c *Context) loadConst(rd regfile.Register, v int32) {
	switch {
	case emit.Encodable(v):
		c.emit(&emit.Move{Rd: rd, Src: emit.Imm(v)})
	case emit.Encodable(^v):
		c.emit(&emit.Move{Rd: rd, Src: emit.Imm(^v), Not: true})
	default:
		c.emit(&emit.LoadImm{Rd: rd, Value: v})
	}
}

// operand returns r as the flexible second operand of a data processing instruction. Constants that fit the
// immediate field are used as is; everything else is materialized.
func (c *Context) operand(r result) (emit.Operand, result) {
	if r.kind == resConstant && emit.Encodable(r.imm) {
		return emit.Imm(r.imm), r
	}
	r = c.materialize(r)
	rs, _ := r.value.Register()
	return emit.Reg(rs), r
}
