package ir

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// validator carries the state of one validation pass over a program.
type validator struct {
	funcs map[string]*Function // Last seen declaration of every function, by name.
	loops int                  // Depth of loop nesting at the current statement.
}

// ---------------------
// ----- Functions -----
// ---------------------

// ValidateTree checks the structural rules the grammar cannot express: break and continue must appear inside a
// loop, parameter names must be unique, declarations of a function must agree on its parameter count, and calls
// of functions with a fixed parameter list must pass that many arguments.
func ValidateTree(p *Program) error {
	v := validator{funcs: make(map[string]*Function, len(p.Decls))}
	for _, e1 := range p.Decls {
		f, ok := e1.(*Function)
		if !ok {
			continue
		}
		if prev, ok := v.funcs[f.Name]; ok {
			if prev.Body != nil && f.Body != nil {
				return Errorf(ErrDuplicateDeclaration, f.Pos, "function %q was previously defined at line %d:%d",
					f.Name, prev.Line, prev.Col)
			}
			if !prev.Variadic && !f.Variadic && len(prev.Params) != len(f.Params) {
				return Errorf(ErrArgumentCount, f.Pos, "function %q declared with %d parameters, previously %d",
					f.Name, len(f.Params), len(prev.Params))
			}
		}
		seen := make(map[string]bool, len(f.Params))
		for _, e2 := range f.Params {
			if e2.Name == "" {
				continue
			}
			if seen[e2.Name] {
				return Errorf(ErrDuplicateDeclaration, e2.Pos, "parameter %q of function %q declared twice",
					e2.Name, f.Name)
			}
			seen[e2.Name] = true
		}
		v.funcs[f.Name] = f
	}

	for _, e1 := range p.Decls {
		switch d := e1.(type) {
		case *Function:
			if d.Body != nil {
				if err := v.stmt(d.Body); err != nil {
					return err
				}
			}
		case *Global:
			for _, e2 := range d.Vars {
				if e2.Init != nil {
					if err := v.expr(e2.Init); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// stmt recursively validates statement s.
func (v *validator) stmt(s Stmt) error {
	switch s := s.(type) {
	case *Block:
		for _, e1 := range s.Items {
			if err := v.stmt(e1); err != nil {
				return err
			}
		}
	case *DeclStmt:
		for _, e1 := range s.Vars {
			if e1.Init != nil {
				if err := v.expr(e1.Init); err != nil {
					return err
				}
			}
		}
	case *ExprStmt:
		return v.expr(s.X)
	case *If:
		if err := v.expr(s.Cond); err != nil {
			return err
		}
		if err := v.stmt(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return v.stmt(s.Else)
		}
	case *While:
		if err := v.expr(s.Cond); err != nil {
			return err
		}
		v.loops++
		defer func() { v.loops-- }()
		return v.stmt(s.Body)
	case *For:
		if s.Init != nil {
			if err := v.stmt(s.Init); err != nil {
				return err
			}
		}
		for _, e1 := range []Expr{s.Cond, s.Step} {
			if e1 != nil {
				if err := v.expr(e1); err != nil {
					return err
				}
			}
		}
		v.loops++
		defer func() { v.loops-- }()
		return v.stmt(s.Body)
	case *Return:
		if s.Value != nil {
			return v.expr(s.Value)
		}
	case *Break:
		if v.loops == 0 {
			return Errorf(ErrSyntax, s.Pos, "break statement not within a loop")
		}
	case *Continue:
		if v.loops == 0 {
			return Errorf(ErrSyntax, s.Pos, "continue statement not within a loop")
		}
	case *Empty:
	default:
		return Errorf(ErrInternal, s.Position(), "unexpected statement node %T", s)
	}
	return nil
}

// expr recursively validates the calls in expression e.
func (v *validator) expr(e Expr) error {
	switch e := e.(type) {
	case *Ident, *IntLit, *FloatLit, *StringLit:
	case *Unary:
		return v.expr(e.X)
	case *IncDec:
		return v.expr(e.X)
	case *Binary:
		if err := v.expr(e.L); err != nil {
			return err
		}
		return v.expr(e.R)
	case *Logical:
		if err := v.expr(e.L); err != nil {
			return err
		}
		return v.expr(e.R)
	case *Cond:
		for _, e1 := range []Expr{e.Cond, e.Then, e.Else} {
			if err := v.expr(e1); err != nil {
				return err
			}
		}
	case *Assign:
		if err := v.expr(e.Target); err != nil {
			return err
		}
		return v.expr(e.Value)
	case *Call:
		if f, ok := v.funcs[e.Func]; ok && !f.Variadic && len(f.Params) != len(e.Args) {
			return Errorf(ErrArgumentCount, e.Pos, "function %q takes %d arguments, got %d",
				e.Func, len(f.Params), len(e.Args))
		}
		for _, e1 := range e.Args {
			if err := v.expr(e1); err != nil {
				return err
			}
		}
	case *Comma:
		for _, e1 := range e.List {
			if err := v.expr(e1); err != nil {
				return err
			}
		}
	default:
		return Errorf(ErrInternal, e.Position(), "unexpected expression node %T", e)
	}
	return nil
}
