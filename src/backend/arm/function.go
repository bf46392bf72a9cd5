package arm

import (
	"armcc/src/backend/emit"
	"armcc/src/backend/regalloc"
	"armcc/src/backend/regfile"
	"armcc/src/ir"
)

// genFunction generates the definition of f.
//
// General steps:
//
// - Save the frame pointer and link register, and set up the frame pointer.
// - Grow the stack by the size of the spill area, which is only known once the body has been generated.
// - Bind the parameters to the argument registers they arrive in.
// - Generate the body.
// - Restore the stack pointer and return by popping the link register into pc.
func (c *Context) genFunction(f *ir.Function) error {
	if len(f.Params) > regfile.ArgRegisters {
		return ir.Errorf(ir.ErrUnsupported, f.Pos, "function %q has %d parameters, at most %d are supported",
			f.Name, len(f.Params), regfile.ArgRegisters)
	}
	if f.Result.IsFloat() {
		return ir.Errorf(ir.ErrUnsupported, f.Pos, "function %q returns floating point type %s", f.Name, f.Result)
	}
	fun, err := c.lookupFunction(f.Pos, f.Name)
	if err != nil {
		return err
	}

	fun.ret = "." + f.Name + "return"
	c.fun = fun
	c.frame = regalloc.NewFrame()
	c.ra = regalloc.New(c.bank, c.frame, c.out)
	defer func() {
		c.stats.Spills += c.ra.Stats().Spills
		c.stats.Loads += c.ra.Stats().Loads
		c.stats.Moves += c.ra.Stats().Moves
		c.fun, c.ra, c.frame = nil, nil, nil
		c.scope = ir.Root
	}()

	grow := &emit.Arith{Op: emit.SUB, Rd: regfile.SP, Rn: regfile.SP, Rhs: emit.Imm(0)}
	c.emit(
		&emit.Text{Line: "\t.global " + f.Name},
		&emit.Label{Name: f.Name},
		&emit.Push{Regs: []regfile.Register{regfile.FP, regfile.LR}},
		&emit.Arith{Op: emit.ADD, Rd: regfile.FP, Rn: regfile.SP, Rhs: emit.Imm(0)},
		grow,
	)

	// Parameters live in their own scope, searched by the body before the root scope.
	params := c.scopes.Open(ir.Root)
	c.scope = params
	for i1, e1 := range f.Params {
		if len(e1.Name) == 0 {
			continue
		}
		v, err := c.declareVariable(e1.Pos, e1.Name, e1.Type)
		if err != nil {
			return err
		}
		c.ra.BindTo(v.val, regfile.Register(i1))
		v.val.MarkAssigned()
	}
	body := c.scopes.Open(ir.Root)
	c.scopes.AddAux(body, params)
	c.scope = body

	if err := c.genItems(f.Body.Items); err != nil {
		return err
	}
	if f.Name == labelMain && !endsInReturn(f.Body) {
		// Falling off the end of main returns 0.
		c.loadConst(regfile.R0, 0)
	}

	c.label(fun.ret)
	c.emit(
		&emit.Arith{Op: emit.ADD, Rd: regfile.SP, Rn: regfile.FP, Rhs: emit.Imm(0)},
		&emit.Pop{Regs: []regfile.Register{regfile.FP, regfile.PC}},
	)
	grow.Rhs = emit.Imm(int32(c.frame.Size()))
	return nil
}

// endsInReturn returns true if the last statement of b is a return statement.
func endsInReturn(b *ir.Block) bool {
	if len(b.Items) == 0 {
		return false
	}
	_, ok := b.Items[len(b.Items)-1].(*ir.Return)
	return ok
}

// genReturn moves the return value into r0 and jumps to the epilogue.
func (c *Context) genReturn(s *ir.Return) error {
	if s.Value != nil {
		r, err := c.genExpr(s.Value)
		if err != nil {
			return err
		}
		if r.kind == resAddress {
			r = c.materialize(r)
		}
		if r.kind == resRegister {
			if rs := c.ra.Bind(r.value); rs != regfile.R0 {
				c.emit(&emit.Move{Rd: regfile.R0, Src: emit.Reg(rs)})
			}
			c.release(r)
		} else {
			c.materializeInto(r, regfile.R0)
		}
	}
	c.branch(emit.AL, c.fun.ret)
	return nil
}

// genCall generates a call of a named function. Arguments are evaluated right to left and pushed, so the first
// argument ends up on top of the stack, then popped into the argument registers all at once. Every register is
// spilled across the call. The result arrives in r0.
func (c *Context) genCall(e *ir.Call) (result, error) {
	f, err := c.lookupFunction(e.Pos, e.Func)
	if err != nil {
		return result{}, err
	}
	if len(e.Args) > regfile.ArgRegisters {
		return result{}, ir.Errorf(ir.ErrUnsupported, e.Pos, "call of %q passes %d arguments, at most %d are supported",
			e.Func, len(e.Args), regfile.ArgRegisters)
	}
	if !f.variadic && len(e.Args) != f.params {
		return result{}, ir.Errorf(ir.ErrArgumentCount, e.Pos, "function %q takes %d arguments, got %d", e.Func,
			f.params, len(e.Args))
	}

	for i1 := len(e.Args) - 1; i1 >= 0; i1-- {
		r, err := c.genExpr(e.Args[i1])
		if err != nil {
			return result{}, err
		}
		r = c.materialize(r)
		rs, _ := r.value.Register()
		c.emit(&emit.Push{Regs: []regfile.Register{rs}})
		c.release(r)
	}

	saved := c.ra.SpillAll(regfile.R0)
	c.emit(
		&emit.Pop{Regs: argRegisters(len(e.Args))},
		&emit.Branch{Label: e.Func, Link: true},
	)

	t := regalloc.NewTemporary()
	c.ra.BindTo(t, regfile.R0)
	t.MarkAssigned()
	c.ra.ReloadAll(regfile.R1, saved)
	return registerResult(t), nil
}
