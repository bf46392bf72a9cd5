package arm

import (
	"armcc/src/backend/emit"
	"armcc/src/backend/regalloc"
	"armcc/src/backend/regfile"
	"armcc/src/ir"
)

// -----------------------------
// ----- Type definitions ------
// -----------------------------

// ---------------------
// ----- Constants -----
// ---------------------

// arithOps maps the arithmetic and bitwise operators to their data processing instruction.
var arithOps = map[ir.BinaryOp]emit.ArithOp{
	ir.OpAdd: emit.ADD,
	ir.OpSub: emit.SUB,
	ir.OpMul: emit.MUL,
	ir.OpAnd: emit.AND,
	ir.OpOr:  emit.ORR,
	ir.OpXor: emit.EOR,
	ir.OpShl: emit.LSL,
	ir.OpShr: emit.ASR,
}

// compareConds maps the comparison operators to the condition that holds after CMP l, r when the comparison is true.
var compareConds = map[ir.BinaryOp]emit.Cond{
	ir.OpEq: emit.EQ,
	ir.OpNe: emit.NE,
	ir.OpLt: emit.LT,
	ir.OpGt: emit.GT,
	ir.OpLe: emit.LE,
	ir.OpGe: emit.GE,
}

// --------------------
// ----- Function -----
// --------------------

// genExpr generates code for the expression e and returns where its value lives.
func (c *Context) genExpr(e ir.Expr) (result, error) {
	switch e := e.(type) {
	case *ir.IntLit:
		return constResult(int32(e.Value)), nil
	case *ir.FloatLit:
		return result{}, ir.Errorf(ir.ErrUnsupported, e.Position(), "floating point constant %g", e.Value)
	case *ir.StringLit:
		return literalResult(c.lits.intern(e.Value)), nil
	case *ir.Ident:
		v, err := c.lookupVariable(e.Position(), e.Name)
		if err != nil {
			return result{}, err
		}
		return registerResult(v.val), nil
	case *ir.Unary:
		return c.genUnary(e)
	case *ir.IncDec:
		return c.genIncDec(e, e.Postfix)
	case *ir.Binary:
		return c.genBinary(e)
	case *ir.Logical:
		return c.genLogical(e)
	case *ir.Assign:
		return c.genAssign(e)
	case *ir.Call:
		return c.genCall(e)
	case *ir.Comma:
		var r result
		for i1, e1 := range e.List {
			var err error
			if r, err = c.genExpr(e1); err != nil {
				return result{}, err
			}
			if i1 < len(e.List)-1 {
				c.release(r)
			}
		}
		return r, nil
	case *ir.Cond:
		return result{}, ir.Errorf(ir.ErrUnsupported, e.Position(), "conditional operator")
	default:
		return result{}, ir.Errorf(ir.ErrInternal, e.Position(), "unexpected expression node %T", e)
	}
}

// genBinary generates code for arithmetic, bitwise, shift and comparison operators.
func (c *Context) genBinary(e *ir.Binary) (result, error) {
	l, err := c.genExpr(e.L)
	if err != nil {
		return result{}, err
	}
	if l.kind == resFlags {
		// The right operand may compare too.
		l = c.materialize(l)
	}
	r, err := c.genExpr(e.R)
	if err != nil {
		return result{}, err
	}

	if l.kind == resConstant && r.kind == resConstant {
		v, err := ir.FoldBinary(e.Op, l.imm, r.imm)
		if err != nil {
			return result{}, ir.Errorf(ir.ErrUnsupported, e.Position(), "%s", err)
		}
		return constResult(v), nil
	}
	if e.Op.IsComparison() {
		return c.genCompare(e.Op, l, r), nil
	}
	return c.genArith(e.Position(), e.Op, l, r)
}

// genCompare emits CMP for a comparison and returns the condition flags.
func (c *Context) genCompare(op ir.BinaryOp, l, r result) result {
	cc := compareConds[op]
	if l.kind == resConstant {
		l, r = r, l
		cc = cc.Swap()
	}
	l = c.materialize(l)
	rn, _ := l.value.Register()
	op2, r := c.operand(r)
	c.emit(&emit.Compare{Rn: rn, Rhs: op2})
	c.release(l)
	c.release(r)
	return flagsResult(cc)
}

// genArith emits the data processing instruction of op, computing l op r into a new temporary.
func (c *Context) genArith(pos ir.Pos, op ir.BinaryOp, l, r result) (result, error) {
	aop, ok := arithOps[op]
	if !ok {
		return result{}, ir.Errorf(ir.ErrUnsupported, pos, "operator %s: the target has no divide instruction", op)
	}

	if l.kind == resConstant {
		switch {
		case op.Commutative():
			l, r = r, l
		case op == ir.OpSub && emit.Encodable(l.imm):
			// c - x is computed as x reversed-subtracted from c.
			l, r = r, l
			aop = emit.RSB
		}
	}
	if r.kind == resConstant {
		switch {
		case (aop == emit.ADD || aop == emit.SUB) && !emit.Encodable(r.imm) && emit.Encodable(-r.imm):
			// x + -c is x - c.
			r.imm = -r.imm
			if aop == emit.ADD {
				aop = emit.SUB
			} else {
				aop = emit.ADD
			}
		case aop == emit.MUL, (aop == emit.LSL || aop == emit.ASR) && (r.imm < 0 || r.imm > 31):
			r = c.materialize(r)
		}
	}

	l = c.materialize(l)
	rn, _ := l.value.Register()
	op2, r := c.operand(r)
	c.release(l)
	c.release(r)
	t := regalloc.NewTemporary()
	rd := c.ra.Define(t)
	c.emit(&emit.Arith{Op: aop, Rd: rd, Rn: rn, Rhs: op2})
	return registerResult(t), nil
}

// genUnary generates code for the prefix operators.
func (c *Context) genUnary(e *ir.Unary) (result, error) {
	switch e.Op {
	case ir.OpAddr:
		id, ok := e.X.(*ir.Ident)
		if !ok {
			return result{}, ir.Errorf(ir.ErrUnsupported, e.Position(), "address of a non-variable expression")
		}
		v, err := c.lookupVariable(id.Position(), id.Name)
		if err != nil {
			return result{}, err
		}
		return addressResult(v.val), nil
	case ir.OpDeref:
		return result{}, ir.Errorf(ir.ErrUnsupported, e.Position(), "pointer dereference")
	}

	x, err := c.genExpr(e.X)
	if err != nil {
		return result{}, err
	}
	if x.kind == resConstant {
		v, err := ir.FoldUnary(e.Op, x.imm)
		if err != nil {
			return result{}, ir.Errorf(ir.ErrInternal, e.Position(), "%s", err)
		}
		return constResult(v), nil
	}

	switch e.Op {
	case ir.OpPlus:
		return x, nil
	case ir.OpNot:
		if x.kind == resFlags {
			return flagsResult(x.cond.Invert()), nil
		}
		x = c.materialize(x)
		rn, _ := x.value.Register()
		c.emit(&emit.Compare{Rn: rn, Rhs: emit.Imm(0)})
		c.release(x)
		return flagsResult(emit.EQ), nil
	}

	x = c.materialize(x)
	rn, _ := x.value.Register()
	c.release(x)
	t := regalloc.NewTemporary()
	rd := c.ra.Define(t)
	switch e.Op {
	case ir.OpNeg:
		c.emit(&emit.Arith{Op: emit.RSB, Rd: rd, Rn: rn, Rhs: emit.Imm(0)})
	case ir.OpCompl:
		c.emit(&emit.Move{Rd: rd, Src: emit.Reg(rn), Not: true})
	default:
		return result{}, ir.Errorf(ir.ErrInternal, e.Position(), "unexpected unary operator %s", e.Op)
	}
	return registerResult(t), nil
}

// genIncDec generates ++ and --. A postfix operator yields a copy of the old value, unless the value is discarded.
func (c *Context) genIncDec(e *ir.IncDec, postfix bool) (result, error) {
	v, err := c.target(e.X)
	if err != nil {
		return result{}, err
	}
	aop := emit.SUB
	if e.Inc {
		aop = emit.ADD
	}
	rv := c.ra.Bind(v.val)
	v.val.MarkAssigned()
	if !postfix {
		c.emit(&emit.Arith{Op: aop, Rd: rv, Rn: rv, Rhs: emit.Imm(1)})
		return registerResult(v.val), nil
	}
	t := regalloc.NewTemporary()
	rt := c.ra.Define(t)
	c.emit(
		&emit.Move{Rd: rt, Src: emit.Reg(rv)},
		&emit.Arith{Op: aop, Rd: rv, Rn: rv, Rhs: emit.Imm(1)},
	)
	return registerResult(t), nil
}

// genAssign generates plain and compound assignment. The value of an assignment is the assigned variable.
func (c *Context) genAssign(e *ir.Assign) (result, error) {
	v, err := c.target(e.Target)
	if err != nil {
		return result{}, err
	}
	r, err := c.genExpr(e.Value)
	if err != nil {
		return result{}, err
	}
	if e.Op != ir.OpNone {
		if r.kind == resFlags {
			r = c.materialize(r)
		}
		if r, err = c.genArith(e.Position(), e.Op, registerResult(v.val), r); err != nil {
			return result{}, err
		}
	}
	c.store(v, r)
	return registerResult(v.val), nil
}

// target resolves the left hand side of an assignment. Only variables are assignable.
func (c *Context) target(e ir.Expr) (*variable, error) {
	id, ok := e.(*ir.Ident)
	if !ok {
		return nil, ir.Errorf(ir.ErrImmutableTarget, e.Position(), "expression is not assignable")
	}
	sym, err := c.scopes.Resolve(c.scope, id.Name, id.Position())
	if err != nil {
		return nil, err
	}
	v, ok := sym.(*variable)
	if !ok {
		return nil, ir.Errorf(ir.ErrImmutableTarget, id.Position(), "%s %q is not assignable", sym.Kind(), id.Name)
	}
	return v, nil
}

// store writes r into the register of variable v. A value computed into a temporary is retargeted to v's register
// when the instructions that computed it allow, saving a move.
func (c *Context) store(v *variable, r result) {
	if r.kind == resAddress {
		r = c.materialize(r)
	}
	switch {
	case r.kind == resRegister && r.value == v.val:
		c.ra.Bind(v.val)
		v.val.MarkAssigned()
	case r.temporary():
		rs := c.ra.Bind(r.value)
		c.ra.Release(r.value)
		rd := c.ra.Define(v.val)
		if rd != rs && !c.out.RebindLast(rs, rd, c.ra) {
			c.emit(&emit.Move{Rd: rd, Src: emit.Reg(rs)})
		}
	case r.kind == resRegister:
		rs := c.ra.Bind(r.value)
		rd := c.ra.Define(v.val)
		c.emit(&emit.Move{Rd: rd, Src: emit.Reg(rs)})
	default:
		c.materializeInto(r, c.ra.Define(v.val))
	}
}

// argRegisters returns r0 through r(n-1).
func argRegisters(n int) []regfile.Register {
	regs := make([]regfile.Register, n)
	for i1 := range regs {
		regs[i1] = regfile.Register(i1)
	}
	return regs
}
