package arm

import (
	"armcc/src/backend/emit"
	"armcc/src/backend/regalloc"
	"armcc/src/ir"
)

// test turns r into the condition that holds when r is non-zero. Constants give AL or NV, so branches on them are
// either unconditional or dropped at render time. Addresses are never zero.
func (c *Context) test(r result) emit.Cond {
	switch r.kind {
	case resFlags:
		return r.cond
	case resConstant:
		if r.imm != 0 {
			return emit.AL
		}
		return emit.NV
	case resLiteral, resAddress:
		return emit.AL
	}
	r = c.materialize(r)
	rn, _ := r.value.Register()
	c.emit(&emit.Compare{Rn: rn, Rhs: emit.Imm(0)})
	c.release(r)
	return emit.NE
}

// condition evaluates e and returns the condition that holds when e is true.
func (c *Context) condition(e ir.Expr) (emit.Cond, error) {
	r, err := c.genExpr(e)
	if err != nil {
		return emit.AL, err
	}
	return c.test(r), nil
}

// genLogical generates && and ||. The right operand is only evaluated when the left does not decide the outcome.
// The value is 1 or 0 in a new temporary.
func (c *Context) genLogical(e *ir.Logical) (result, error) {
	l, err := c.genExpr(e.L)
	if err != nil {
		return result{}, err
	}
	if l.kind == resConstant {
		if (l.imm != 0) != e.And {
			// 0 && x is 0, 1 || x is 1.
			return constResult(truth(l.imm != 0)), nil
		}
		r, err := c.genExpr(e.R)
		if err != nil {
			return result{}, err
		}
		if r.kind == resConstant {
			return constResult(truth(r.imm != 0)), nil
		}
		return flagsResult(c.test(r)), nil
	}

	lc := c.test(l)
	first := int32(0)
	if !e.And {
		first = 1
	}
	t := regalloc.NewTemporary()
	rd := c.ra.Define(t)
	c.emit(&emit.Move{Rd: rd, Src: emit.Imm(first)})

	end := c.labels.New()
	s := c.ra.Snapshot()
	if e.And {
		c.branch(lc.Invert(), end)
	} else {
		c.branch(lc, end)
	}

	r, err := c.genExpr(e.R)
	if err != nil {
		return result{}, err
	}
	// Only R decides the value from here: the temporary is 0 for && and 1 for ||.
	rc := c.test(r)
	c.ra.Reconcile(s)
	if e.And {
		c.emit(&emit.Move{Cond: rc, Rd: rd, Src: emit.Imm(1)})
	} else {
		c.emit(&emit.Move{Cond: rc.Invert(), Rd: rd, Src: emit.Imm(0)})
	}
	c.label(end)
	return registerResult(t), nil
}

// genIf generates a selection statement. A constant condition generates the branch that is taken and nothing else.
func (c *Context) genIf(s *ir.If) error {
	r, err := c.genExpr(s.Cond)
	if err != nil {
		return err
	}
	if r.kind == resConstant {
		if r.imm != 0 {
			return c.genStatement(s.Then)
		}
		if s.Else != nil {
			return c.genStatement(s.Else)
		}
		return nil
	}

	cc := c.test(r)
	c.ra.FreeTemporaries()
	state := c.ra.Snapshot()
	els := c.labels.New()
	c.branch(cc.Invert(), els)
	if err := c.genStatement(s.Then); err != nil {
		return err
	}
	c.ra.Reconcile(state)
	if s.Else == nil {
		c.label(els)
		return nil
	}

	end := c.labels.New()
	c.branch(emit.AL, end)
	c.label(els)
	c.ra.Restore(state)
	if err := c.genStatement(s.Else); err != nil {
		return err
	}
	c.ra.Reconcile(state)
	c.label(end)
	return nil
}

// truth converts a Go boolean to the C truth values 1 and 0.
func truth(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
