package arm

import (
	"armcc/src/backend/regalloc"
	"armcc/src/ir"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// variable is a local variable or parameter bound in a scope.
type variable struct {
	pos ir.Pos
	typ ir.Type
	val *regalloc.Value // Register and stack slot state.
}

// function is a function bound in the root scope. Calls branch to its name.
type function struct {
	pos      ir.Pos
	name     string
	params   int    // Number of named parameters.
	variadic bool   // True if calls may pass any number of arguments beyond params.
	defined  bool   // True once a body has been seen.
	ret      string // Label of the epilogue. Only set while the body is being generated.
}

// loop holds the jump targets of an enclosing loop.
type loop struct {
	cont  string            // Target of continue.
	end   string            // Target of break.
	state regalloc.Snapshot // Register table every jump into the loop's labels must agree with.
}

// ---------------------
// ----- Functions -----
// ---------------------

func newVariable(pos ir.Pos, name string, typ ir.Type) *variable {
	return &variable{pos: pos, typ: typ, val: regalloc.NewVariable(name)}
}

func (v *variable) Name() string        { return v.val.Name }
func (v *variable) Kind() ir.SymbolKind { return ir.SymVariable }
func (v *variable) Position() ir.Pos    { return v.pos }

func (f *function) Name() string        { return f.name }
func (f *function) Kind() ir.SymbolKind { return ir.SymFunction }
func (f *function) Position() ir.Pos    { return f.pos }

// declare binds sym in the current scope.
func (c *Context) declare(sym ir.Symbol) error {
	return c.scopes.Declare(c.scope, sym)
}

// declareVariable declares a new local variable in the current scope.
func (c *Context) declareVariable(pos ir.Pos, name string, typ ir.Type) (*variable, error) {
	if typ.IsFloat() {
		return nil, ir.Errorf(ir.ErrUnsupported, pos, "floating point variable %q", name)
	}
	if typ.IsVoid() {
		return nil, ir.Errorf(ir.ErrUnsupported, pos, "variable %q declared void", name)
	}
	v := newVariable(pos, name, typ)
	if err := c.declare(v); err != nil {
		return nil, err
	}
	return v, nil
}

// declareFunction binds the function f in the root scope. A prototype may be declared any number of times and
// followed by one definition.
func (c *Context) declareFunction(f *ir.Function) error {
	sym := &function{
		pos:      f.Position(),
		name:     f.Name,
		params:   len(f.Params),
		variadic: f.Variadic,
		defined:  f.Body != nil,
	}
	prev, ok := c.scopes.Lookup(ir.Root, f.Name)
	if !ok {
		return c.scopes.Declare(ir.Root, sym)
	}
	pf, isFunc := prev.(*function)
	if !isFunc || (pf.defined && sym.defined) {
		return c.scopes.Declare(ir.Root, sym)
	}
	if sym.defined {
		c.scopes.Replace(ir.Root, sym)
	}
	return nil
}

// lookupVariable resolves name to a variable.
func (c *Context) lookupVariable(pos ir.Pos, name string) (*variable, error) {
	sym, err := c.scopes.Resolve(c.scope, name, pos)
	if err != nil {
		return nil, err
	}
	v, ok := sym.(*variable)
	if !ok {
		return nil, ir.Errorf(ir.ErrUnsupported, pos, "%s %q used as a value", sym.Kind(), name)
	}
	return v, nil
}

// lookupFunction resolves name to a function.
func (c *Context) lookupFunction(pos ir.Pos, name string) (*function, error) {
	sym, err := c.scopes.Resolve(c.scope, name, pos)
	if err != nil {
		return nil, err
	}
	f, ok := sym.(*function)
	if !ok {
		return nil, ir.Errorf(ir.ErrUnsupported, pos, "called object %q is a %s, not a function", name, sym.Kind())
	}
	return f, nil
}
