package arm

import (
	"armcc/src/backend/emit"
	"armcc/src/ir"
)

// genStatement generates code for statement s. Temporaries never outlive the statement that created them.
func (c *Context) genStatement(s ir.Stmt) error {
	var err error
	switch s := s.(type) {
	case *ir.Block:
		c.openScope()
		err = c.genItems(s.Items)
		c.closeScope()
	case *ir.DeclStmt:
		err = c.genDeclaration(s)
	case *ir.ExprStmt:
		err = c.genEffect(s.X)
	case *ir.If:
		err = c.genIf(s)
	case *ir.While:
		err = c.genLoop(s.Cond, nil, s.Body)
	case *ir.For:
		c.openScope()
		if s.Init != nil {
			err = c.genStatement(s.Init)
		}
		if err == nil {
			err = c.genLoop(s.Cond, s.Step, s.Body)
		}
		c.closeScope()
	case *ir.Return:
		err = c.genReturn(s)
	case *ir.Break:
		err = c.genJump(s.Pos, false)
	case *ir.Continue:
		err = c.genJump(s.Pos, true)
	case *ir.Empty:
	default:
		err = ir.Errorf(ir.ErrInternal, s.Position(), "unexpected statement node %T", s)
	}
	if err != nil {
		return err
	}
	c.ra.FreeTemporaries()
	return c.check(s)
}

// genItems generates a list of statements in order.
func (c *Context) genItems(items []ir.Stmt) error {
	for _, e1 := range items {
		if err := c.genStatement(e1); err != nil {
			return err
		}
	}
	return nil
}

// genEffect evaluates e for its side effects only.
func (c *Context) genEffect(e ir.Expr) error {
	if id, ok := e.(*ir.IncDec); ok {
		// The old value of x++ is discarded.
		_, err := c.genIncDec(id, false)
		return err
	}
	_, err := c.genExpr(e)
	return err
}

// genDeclaration declares local variables in the current scope and stores their initializers. A declarator is in
// scope in its own initializer.
func (c *Context) genDeclaration(s *ir.DeclStmt) error {
	for _, e1 := range s.Vars {
		v, err := c.declareVariable(e1.Pos, e1.Name, e1.Type)
		if err != nil {
			return err
		}
		if e1.Init == nil {
			continue
		}
		r, err := c.genExpr(e1.Init)
		if err != nil {
			return err
		}
		c.store(v, r)
		c.ra.FreeTemporaries()
	}
	return nil
}

// genLoop generates a pre-tested loop. The test is placed after the body and entered by a jump, so every iteration
// runs exactly one conditional branch. A nil cond loops forever.
func (c *Context) genLoop(cond ir.Expr, step ir.Expr, body ir.Stmt) error {
	infinite := cond == nil
	if cond != nil {
		if v, ok := ir.ConstValue(cond); ok {
			if v == 0 {
				return nil
			}
			infinite = true
		}
	}

	c.ra.FreeTemporaries()
	state := c.ra.Snapshot()
	lBody := c.labels.New()
	lTest := c.labels.New()
	lEnd := c.labels.New()
	lCont := lTest
	if step != nil {
		lCont = c.labels.New()
	}

	c.branch(emit.AL, lTest)
	c.label(lBody)
	c.loops.Push(&loop{cont: lCont, end: lEnd, state: state})
	err := c.genStatement(body)
	c.loops.Pop()
	if err != nil {
		return err
	}
	c.ra.Reconcile(state)

	if step != nil {
		c.label(lCont)
		if err := c.genEffect(step); err != nil {
			return err
		}
		c.ra.FreeTemporaries()
		c.ra.Reconcile(state)
	}

	c.label(lTest)
	if infinite {
		c.branch(emit.AL, lBody)
	} else {
		cc, err := c.condition(cond)
		if err != nil {
			return err
		}
		c.ra.FreeTemporaries()
		c.ra.Reconcile(state)
		c.branch(cc, lBody)
	}
	c.label(lEnd)
	return nil
}

// genJump generates break, or continue if cont is set. Registers are brought back to the state the loop labels
// expect before jumping.
func (c *Context) genJump(pos ir.Pos, cont bool) error {
	l, ok := c.loops.Peek().(*loop)
	if !ok {
		kw := "break"
		if cont {
			kw = "continue"
		}
		return ir.Errorf(ir.ErrSyntax, pos, "%s statement not within a loop", kw)
	}
	c.ra.FreeTemporaries()
	c.ra.Reconcile(l.state)
	if cont {
		c.branch(emit.AL, l.cont)
	} else {
		c.branch(emit.AL, l.end)
	}
	return nil
}
