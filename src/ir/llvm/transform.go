// Package llvm provides means to transform the syntax tree into LLVM IR through the LLVM C API.
//
// This is the alternative output of the compiler, selected with -ll. Unlike the ARM backend it supports global
// variables, division, the conditional operator and all of pointer-free integer arithmetic, since LLVM takes care
// of instruction selection and register allocation.
package llvm

import (
	"fmt"
	"strconv"
)

import (
	"tinygo.org/x/go-llvm"
)

import (
	"armcc/src/ir"
	"armcc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// symTab maps the names declared in one scope to their stack or global storage.
type symTab map[string]llvm.Value

// loopBlocks holds the jump targets of an enclosing loop.
type loopBlocks struct {
	cont llvm.BasicBlock // Target of continue.
	end  llvm.BasicBlock // Target of break.
}

// generator holds the state of one transformation.
type generator struct {
	ctx    llvm.Context
	m      llvm.Module
	b      llvm.Builder
	fun    llvm.Value            // Function being generated.
	result ir.Type               // Result type of fun.
	st     util.Stack            // Scope stack of *symTab, innermost on top. Globals live in the module.
	ls     util.Stack            // Loop stack of *loopBlocks.
	strs   map[string]llvm.Value // Interned string constants.
	i      llvm.Type             // Integer type.
	p      llvm.Type             // Pointer type.
}

// ---------------------
// ----- Constants -----
// ---------------------

const stringPrefix = ".str" // Prefix of global string constants.
const mapSize = 16          // Predefined size for a decently sized symbol table hash table.

// predicates maps the comparison operators to signed integer predicates.
var predicates = map[ir.BinaryOp]llvm.IntPredicate{
	ir.OpEq: llvm.IntEQ,
	ir.OpNe: llvm.IntNE,
	ir.OpLt: llvm.IntSLT,
	ir.OpGt: llvm.IntSGT,
	ir.OpLe: llvm.IntSLE,
	ir.OpGe: llvm.IntSGE,
}

// ---------------------
// ----- functions -----
// ---------------------

// Generate transforms the program p to textual LLVM IR. The module is verified before it is printed.
func Generate(p *ir.Program) (string, error) {
	ctx := llvm.NewContext()
	defer ctx.Dispose()

	// Builder constructs LLVM IR instructions on basic block level.
	b := ctx.NewBuilder()
	defer b.Dispose()

	m := ctx.NewModule(p.Name)
	defer m.Dispose()

	g := &generator{
		ctx:  ctx,
		m:    m,
		b:    b,
		strs: make(map[string]llvm.Value, mapSize),
		i:    ctx.Int32Type(),
		p:    llvm.PointerType(ctx.Int8Type(), 0),
	}
	for _, e1 := range p.Decls {
		var err error
		switch d := e1.(type) {
		case *ir.Function:
			err = g.genFunction(d)
		case *ir.Global:
			err = g.genGlobal(d)
		default:
			err = ir.Errorf(ir.ErrInternal, e1.Position(), "unexpected top level node %T", e1)
		}
		if err != nil {
			return "", err
		}
	}

	if err := llvm.VerifyModule(m, llvm.ReturnStatusAction); err != nil {
		return "", fmt.Errorf("%w: LLVM module verification failed: %s", ir.ErrInternal, err)
	}
	return m.String(), nil
}

// genType returns the LLVM type of t. Every pointer is an untyped byte pointer.
func (g *generator) genType(pos ir.Pos, t ir.Type) (llvm.Type, error) {
	switch {
	case t.Pointer > 0:
		return g.p, nil
	case t.IsFloat():
		return llvm.Type{}, ir.Errorf(ir.ErrUnsupported, pos, "floating point type %s", t)
	case t.IsVoid():
		return g.ctx.VoidType(), nil
	}
	return g.i, nil
}

// genFunction declares f in the module and generates its body, if any. Repeated declarations reuse the first one.
func (g *generator) genFunction(f *ir.Function) error {
	fun := g.m.NamedFunction(f.Name)
	if fun.IsNil() {
		ret, err := g.genType(f.Pos, f.Result)
		if err != nil {
			return err
		}
		params := make([]llvm.Type, len(f.Params))
		for i1, e1 := range f.Params {
			if params[i1], err = g.genType(e1.Pos, e1.Type); err != nil {
				return err
			}
		}
		fun = llvm.AddFunction(g.m, f.Name, llvm.FunctionType(ret, params, f.Variadic))
	}
	if f.Body == nil {
		return nil
	}
	if fun.BasicBlocksCount() > 0 {
		return ir.Errorf(ir.ErrDuplicateDeclaration, f.Pos, "function %q is already defined", f.Name)
	}

	g.fun = fun
	g.result = f.Result
	g.b.SetInsertPointAtEnd(g.ctx.AddBasicBlock(fun, "entry"))

	// Parameters are copied to the stack so they can be assigned like any other variable.
	params := make(symTab, len(f.Params))
	for i1, e1 := range f.Params {
		if len(e1.Name) == 0 {
			continue
		}
		v := fun.Param(i1)
		v.SetName(e1.Name)
		alloc := g.b.CreateAlloca(v.Type(), e1.Name+".addr")
		g.b.CreateStore(v, alloc)
		params[e1.Name] = alloc
	}
	g.st.Push(&params)
	defer g.st.Pop()

	if err := g.genBlock(f.Body); err != nil {
		return err
	}

	// The insertion block is never terminated at this point. Falling off the end returns 0.
	if f.Result.IsVoid() && f.Result.Pointer == 0 {
		g.b.CreateRetVoid()
	} else {
		g.b.CreateRet(llvm.ConstNull(fun.Type().ElementType().ReturnType()))
	}
	return nil
}

// genGlobal declares global variables. Initializers must be integer constant expressions.
func (g *generator) genGlobal(d *ir.Global) error {
	for _, e1 := range d.Vars {
		typ, err := g.genType(e1.Pos, e1.Type)
		if err != nil {
			return err
		}
		if !g.m.NamedGlobal(e1.Name).IsNil() || !g.m.NamedFunction(e1.Name).IsNil() {
			return ir.Errorf(ir.ErrDuplicateDeclaration, e1.Pos, "%q is already declared", e1.Name)
		}
		val := llvm.ConstNull(typ)
		if e1.Init != nil {
			v, ok := ir.ConstValue(e1.Init)
			if !ok {
				return ir.Errorf(ir.ErrUnsupported, e1.Pos, "initializer of global %q is not constant", e1.Name)
			}
			if typ == g.i {
				val = llvm.ConstInt(g.i, uint64(v), true)
			}
		}
		gv := llvm.AddGlobal(g.m, typ, e1.Name)
		gv.SetInitializer(val)
	}
	return nil
}

// genBlock generates the statements of b in a new scope.
func (g *generator) genBlock(b *ir.Block) error {
	scope := make(symTab, mapSize)
	g.st.Push(&scope)
	defer g.st.Pop()
	for _, e1 := range b.Items {
		if err := g.genStatement(e1); err != nil {
			return err
		}
	}
	return nil
}

// terminate starts a new unreachable basic block after a terminator, so that the insertion block is never
// terminated.
func (g *generator) terminate() {
	g.b.SetInsertPointAtEnd(g.ctx.AddBasicBlock(g.fun, ""))
}

// genStatement generates LLVM IR for statement s.
func (g *generator) genStatement(s ir.Stmt) error {
	switch s := s.(type) {
	case *ir.Block:
		return g.genBlock(s)
	case *ir.DeclStmt:
		return g.genDeclaration(s)
	case *ir.ExprStmt:
		_, err := g.genExpression(s.X)
		return err
	case *ir.If:
		return g.genIf(s)
	case *ir.While:
		return g.genLoop(s.Cond, nil, s.Body)
	case *ir.For:
		scope := make(symTab, 1)
		g.st.Push(&scope)
		defer g.st.Pop()
		if s.Init != nil {
			if err := g.genStatement(s.Init); err != nil {
				return err
			}
		}
		return g.genLoop(s.Cond, s.Step, s.Body)
	case *ir.Return:
		return g.genReturn(s)
	case *ir.Break, *ir.Continue:
		l, ok := g.ls.Peek().(*loopBlocks)
		if !ok {
			return ir.Errorf(ir.ErrSyntax, s.Position(), "jump statement not within a loop")
		}
		if _, ok := s.(*ir.Break); ok {
			g.b.CreateBr(l.end)
		} else {
			g.b.CreateBr(l.cont)
		}
		g.terminate()
	case *ir.Empty:
	default:
		return ir.Errorf(ir.ErrInternal, s.Position(), "unexpected statement node %T", s)
	}
	return nil
}

// genDeclaration allocates stack memory for local variables and stores their initializers.
func (g *generator) genDeclaration(s *ir.DeclStmt) error {
	scope := g.st.Peek().(*symTab)
	for _, e1 := range s.Vars {
		typ, err := g.genType(e1.Pos, e1.Type)
		if err != nil {
			return err
		}
		if e1.Type.IsVoid() && e1.Type.Pointer == 0 {
			return ir.Errorf(ir.ErrUnsupported, e1.Pos, "variable %q declared void", e1.Name)
		}
		if _, ok := (*scope)[e1.Name]; ok {
			return ir.Errorf(ir.ErrDuplicateDeclaration, e1.Pos, "%q is already declared in this scope", e1.Name)
		}
		alloc := g.b.CreateAlloca(typ, e1.Name)
		(*scope)[e1.Name] = alloc
		if e1.Init != nil {
			v, err := g.genExpression(e1.Init)
			if err != nil {
				return err
			}
			g.b.CreateStore(g.convert(v, typ), alloc)
		}
	}
	return nil
}

// genIf generates LLVM IR for either IF-THEN or IF-THEN-ELSE statements.
func (g *generator) genIf(s *ir.If) error {
	cond, err := g.genCondition(s.Cond)
	if err != nil {
		return err
	}
	thn := g.ctx.AddBasicBlock(g.fun, "if.then")
	conv := g.ctx.AddBasicBlock(g.fun, "if.end")
	els := conv
	if s.Else != nil {
		els = g.ctx.AddBasicBlock(g.fun, "if.else")
	}
	g.b.CreateCondBr(cond, thn, els)

	g.b.SetInsertPointAtEnd(thn)
	if err := g.genStatement(s.Then); err != nil {
		return err
	}
	g.b.CreateBr(conv)

	if s.Else != nil {
		g.b.SetInsertPointAtEnd(els)
		if err := g.genStatement(s.Else); err != nil {
			return err
		}
		g.b.CreateBr(conv)
	}
	conv.MoveAfter(g.b.GetInsertBlock())
	g.b.SetInsertPointAtEnd(conv)
	return nil
}

// genLoop generates a pre-tested loop. A nil cond loops forever.
func (g *generator) genLoop(cond ir.Expr, step ir.Expr, body ir.Stmt) error {
	head := g.ctx.AddBasicBlock(g.fun, "loop.test")
	blk := g.ctx.AddBasicBlock(g.fun, "loop.body")
	cont := head
	if step != nil {
		cont = g.ctx.AddBasicBlock(g.fun, "loop.step")
	}
	conv := g.ctx.AddBasicBlock(g.fun, "loop.end")

	g.b.CreateBr(head)
	g.b.SetInsertPointAtEnd(head)
	if cond == nil {
		g.b.CreateBr(blk)
	} else {
		c, err := g.genCondition(cond)
		if err != nil {
			return err
		}
		g.b.CreateCondBr(c, blk, conv)
	}

	g.b.SetInsertPointAtEnd(blk)
	g.ls.Push(&loopBlocks{cont: cont, end: conv})
	err := g.genStatement(body)
	g.ls.Pop()
	if err != nil {
		return err
	}
	g.b.CreateBr(cont)

	if step != nil {
		cont.MoveAfter(g.b.GetInsertBlock())
		g.b.SetInsertPointAtEnd(cont)
		if _, err := g.genExpression(step); err != nil {
			return err
		}
		g.b.CreateBr(head)
	}
	conv.MoveAfter(g.b.GetInsertBlock())
	g.b.SetInsertPointAtEnd(conv)
	return nil
}

// genReturn terminates the current basic block with a return statement.
func (g *generator) genReturn(s *ir.Return) error {
	if s.Value == nil {
		if g.result.IsVoid() && g.result.Pointer == 0 {
			g.b.CreateRetVoid()
		} else {
			g.b.CreateRet(llvm.ConstNull(g.fun.Type().ElementType().ReturnType()))
		}
		g.terminate()
		return nil
	}
	v, err := g.genExpression(s.Value)
	if err != nil {
		return err
	}
	g.b.CreateRet(g.convert(v, g.fun.Type().ElementType().ReturnType()))
	g.terminate()
	return nil
}

// lookup returns the storage of the variable name: a local alloca, searched innermost scope first, or a global.
func (g *generator) lookup(pos ir.Pos, name string) (llvm.Value, error) {
	for i1 := 1; i1 <= g.st.Size(); i1++ {
		if scope := g.st.Get(i1).(*symTab); scope != nil {
			if v, ok := (*scope)[name]; ok {
				return v, nil
			}
		}
	}
	if v := g.m.NamedGlobal(name); !v.IsNil() {
		return v, nil
	}
	if !g.m.NamedFunction(name).IsNil() {
		return llvm.Value{}, ir.Errorf(ir.ErrImmutableTarget, pos, "function %q used as a variable", name)
	}
	return llvm.Value{}, ir.Errorf(ir.ErrUnresolvedSymbol, pos, "%q is not declared in this scope", name)
}

// convert adapts v to type t: booleans are widened, integers and pointers are cast into each other.
func (g *generator) convert(v llvm.Value, t llvm.Type) llvm.Value {
	vt := v.Type()
	if vt == t {
		return v
	}
	switch {
	case vt.TypeKind() == llvm.IntegerTypeKind && t.TypeKind() == llvm.IntegerTypeKind:
		return g.b.CreateZExt(v, t, "")
	case vt.TypeKind() == llvm.IntegerTypeKind && t.TypeKind() == llvm.PointerTypeKind:
		return g.b.CreateIntToPtr(v, t, "")
	case vt.TypeKind() == llvm.PointerTypeKind && t.TypeKind() == llvm.IntegerTypeKind:
		return g.b.CreatePtrToInt(v, t, "")
	case vt.TypeKind() == llvm.PointerTypeKind && t.TypeKind() == llvm.PointerTypeKind:
		return g.b.CreateBitCast(v, t, "")
	}
	return v
}

// integer returns v as a 32-bit integer.
func (g *generator) integer(v llvm.Value) llvm.Value {
	return g.convert(v, g.i)
}

// genCondition evaluates e to an i1 that is true when e is non-zero.
func (g *generator) genCondition(e ir.Expr) (llvm.Value, error) {
	v, err := g.genExpression(e)
	if err != nil {
		return llvm.Value{}, err
	}
	return g.truth(v), nil
}

// truth compares v against zero, unless it already is a boolean.
func (g *generator) truth(v llvm.Value) llvm.Value {
	switch {
	case v.Type() == g.ctx.Int1Type():
		return v
	case v.Type().TypeKind() == llvm.PointerTypeKind:
		return g.b.CreateIsNotNull(v, "")
	}
	return g.b.CreateICmp(llvm.IntNE, v, llvm.ConstInt(v.Type(), 0, false), "")
}

// genExpression generates LLVM IR from the expression e and returns its value.
func (g *generator) genExpression(e ir.Expr) (llvm.Value, error) {
	switch e := e.(type) {
	case *ir.IntLit:
		return llvm.ConstInt(g.i, uint64(e.Value), true), nil
	case *ir.FloatLit:
		return llvm.Value{}, ir.Errorf(ir.ErrUnsupported, e.Pos, "floating point constant %g", e.Value)
	case *ir.StringLit:
		return g.genString(e.Value), nil
	case *ir.Ident:
		ptr, err := g.lookup(e.Pos, e.Name)
		if err != nil {
			return llvm.Value{}, err
		}
		return g.b.CreateLoad(ptr, ""), nil
	case *ir.Unary:
		return g.genUnary(e)
	case *ir.IncDec:
		return g.genIncDec(e)
	case *ir.Binary:
		l, err := g.genExpression(e.L)
		if err != nil {
			return llvm.Value{}, err
		}
		r, err := g.genExpression(e.R)
		if err != nil {
			return llvm.Value{}, err
		}
		return g.genBinary(e.Pos, e.Op, l, r)
	case *ir.Logical:
		return g.genLogical(e)
	case *ir.Cond:
		return g.genTernary(e)
	case *ir.Assign:
		return g.genAssign(e)
	case *ir.Call:
		return g.genCall(e)
	case *ir.Comma:
		var v llvm.Value
		for _, e1 := range e.List {
			var err error
			if v, err = g.genExpression(e1); err != nil {
				return llvm.Value{}, err
			}
		}
		return v, nil
	}
	return llvm.Value{}, ir.Errorf(ir.ErrInternal, e.Position(), "unexpected expression node %T", e)
}

// genString returns a pointer to the global string constant s, which keeps the escape sequences of the source.
func (g *generator) genString(s string) llvm.Value {
	if v, ok := g.strs[s]; ok {
		return v
	}
	text, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		text = s
	}
	v := g.b.CreateGlobalStringPtr(text, stringPrefix)
	g.strs[s] = v
	return v
}

// genBinary applies the arithmetic, bitwise, shift or comparison operator op to l and r.
func (g *generator) genBinary(pos ir.Pos, op ir.BinaryOp, l, r llvm.Value) (llvm.Value, error) {
	l, r = g.integer(l), g.integer(r)
	if pred, ok := predicates[op]; ok {
		return g.b.CreateZExt(g.b.CreateICmp(pred, l, r, ""), g.i, ""), nil
	}
	switch op {
	case ir.OpAdd:
		return g.b.CreateAdd(l, r, ""), nil
	case ir.OpSub:
		return g.b.CreateSub(l, r, ""), nil
	case ir.OpMul:
		return g.b.CreateMul(l, r, ""), nil
	case ir.OpDiv:
		return g.b.CreateSDiv(l, r, ""), nil
	case ir.OpMod:
		return g.b.CreateSRem(l, r, ""), nil
	case ir.OpAnd:
		return g.b.CreateAnd(l, r, ""), nil
	case ir.OpOr:
		return g.b.CreateOr(l, r, ""), nil
	case ir.OpXor:
		return g.b.CreateXor(l, r, ""), nil
	case ir.OpShl:
		return g.b.CreateShl(l, r, ""), nil
	case ir.OpShr:
		return g.b.CreateAShr(l, r, ""), nil
	}
	return llvm.Value{}, ir.Errorf(ir.ErrInternal, pos, "unexpected binary operator %s", op)
}

// genUnary generates the prefix operators. The address of a variable is its stack or global storage.
func (g *generator) genUnary(e *ir.Unary) (llvm.Value, error) {
	if e.Op == ir.OpAddr {
		id, ok := e.X.(*ir.Ident)
		if !ok {
			return llvm.Value{}, ir.Errorf(ir.ErrUnsupported, e.Pos, "address of a non-variable expression")
		}
		ptr, err := g.lookup(id.Pos, id.Name)
		if err != nil {
			return llvm.Value{}, err
		}
		return g.b.CreateBitCast(ptr, g.p, ""), nil
	}
	if e.Op == ir.OpDeref {
		return llvm.Value{}, ir.Errorf(ir.ErrUnsupported, e.Pos, "pointer dereference")
	}

	x, err := g.genExpression(e.X)
	if err != nil {
		return llvm.Value{}, err
	}
	switch e.Op {
	case ir.OpPlus:
		return x, nil
	case ir.OpNeg:
		return g.b.CreateNeg(g.integer(x), ""), nil
	case ir.OpCompl:
		return g.b.CreateNot(g.integer(x), ""), nil
	case ir.OpNot:
		return g.b.CreateZExt(g.b.CreateNot(g.truth(x), ""), g.i, ""), nil
	}
	return llvm.Value{}, ir.Errorf(ir.ErrInternal, e.Pos, "unexpected unary operator %s", e.Op)
}

// target returns the storage of an assignable expression.
func (g *generator) target(e ir.Expr) (llvm.Value, error) {
	id, ok := e.(*ir.Ident)
	if !ok {
		return llvm.Value{}, ir.Errorf(ir.ErrImmutableTarget, e.Position(), "expression is not assignable")
	}
	return g.lookup(id.Pos, id.Name)
}

// genIncDec generates ++ and --, yielding the old value in postfix position and the new one otherwise.
func (g *generator) genIncDec(e *ir.IncDec) (llvm.Value, error) {
	ptr, err := g.target(e.X)
	if err != nil {
		return llvm.Value{}, err
	}
	old := g.b.CreateLoad(ptr, "")
	one := llvm.ConstInt(g.i, 1, false)
	var v llvm.Value
	switch {
	case old.Type().TypeKind() == llvm.PointerTypeKind:
		step := one
		if !e.Inc {
			step = llvm.ConstInt(g.i, ^uint64(0), true)
		}
		v = g.b.CreateGEP(old, []llvm.Value{step}, "")
	case e.Inc:
		v = g.b.CreateAdd(old, one, "")
	default:
		v = g.b.CreateSub(old, one, "")
	}
	g.b.CreateStore(v, ptr)
	if e.Postfix {
		return old, nil
	}
	return v, nil
}

// genAssign generates plain and compound assignment. The value of an assignment is the stored value.
func (g *generator) genAssign(e *ir.Assign) (llvm.Value, error) {
	ptr, err := g.target(e.Target)
	if err != nil {
		return llvm.Value{}, err
	}
	v, err := g.genExpression(e.Value)
	if err != nil {
		return llvm.Value{}, err
	}
	if e.Op != ir.OpNone {
		if v, err = g.genBinary(e.Pos, e.Op, g.b.CreateLoad(ptr, ""), v); err != nil {
			return llvm.Value{}, err
		}
	}
	v = g.convert(v, ptr.Type().ElementType())
	g.b.CreateStore(v, ptr)
	return v, nil
}

// genLogical generates the short circuit operators with a phi node joining the two outcomes.
func (g *generator) genLogical(e *ir.Logical) (llvm.Value, error) {
	l, err := g.genCondition(e.L)
	if err != nil {
		return llvm.Value{}, err
	}
	from := g.b.GetInsertBlock()
	rhs := g.ctx.AddBasicBlock(g.fun, "logic.rhs")
	conv := g.ctx.AddBasicBlock(g.fun, "logic.end")
	if e.And {
		g.b.CreateCondBr(l, rhs, conv)
	} else {
		g.b.CreateCondBr(l, conv, rhs)
	}

	g.b.SetInsertPointAtEnd(rhs)
	r, err := g.genCondition(e.R)
	if err != nil {
		return llvm.Value{}, err
	}
	rhs = g.b.GetInsertBlock()
	g.b.CreateBr(conv)

	conv.MoveAfter(rhs)
	g.b.SetInsertPointAtEnd(conv)
	phi := g.b.CreatePHI(g.ctx.Int1Type(), "")
	short := llvm.ConstInt(g.ctx.Int1Type(), 0, false)
	if !e.And {
		short = llvm.ConstInt(g.ctx.Int1Type(), 1, false)
	}
	phi.AddIncoming([]llvm.Value{short, r}, []llvm.BasicBlock{from, rhs})
	return g.b.CreateZExt(phi, g.i, ""), nil
}

// genTernary generates the conditional operator. Both arms are converted to the type of the first.
func (g *generator) genTernary(e *ir.Cond) (llvm.Value, error) {
	c, err := g.genCondition(e.Cond)
	if err != nil {
		return llvm.Value{}, err
	}
	thn := g.ctx.AddBasicBlock(g.fun, "cond.then")
	els := g.ctx.AddBasicBlock(g.fun, "cond.else")
	conv := g.ctx.AddBasicBlock(g.fun, "cond.end")
	g.b.CreateCondBr(c, thn, els)

	g.b.SetInsertPointAtEnd(thn)
	tv, err := g.genExpression(e.Then)
	if err != nil {
		return llvm.Value{}, err
	}
	tv = g.integerOrPointer(tv)
	thn = g.b.GetInsertBlock()
	g.b.CreateBr(conv)

	els.MoveAfter(thn)
	g.b.SetInsertPointAtEnd(els)
	ev, err := g.genExpression(e.Else)
	if err != nil {
		return llvm.Value{}, err
	}
	ev = g.convert(ev, tv.Type())
	els = g.b.GetInsertBlock()
	g.b.CreateBr(conv)

	conv.MoveAfter(els)
	g.b.SetInsertPointAtEnd(conv)
	phi := g.b.CreatePHI(tv.Type(), "")
	phi.AddIncoming([]llvm.Value{tv, ev}, []llvm.BasicBlock{thn, els})
	return phi, nil
}

// integerOrPointer widens booleans and leaves every other value as is.
func (g *generator) integerOrPointer(v llvm.Value) llvm.Value {
	if v.Type().TypeKind() == llvm.PointerTypeKind {
		return v
	}
	return g.integer(v)
}

// genCall generates a direct call. Arguments beyond the named parameters of a variadic function are passed as is.
func (g *generator) genCall(e *ir.Call) (llvm.Value, error) {
	fun := g.m.NamedFunction(e.Func)
	if fun.IsNil() {
		if _, err := g.lookup(e.Pos, e.Func); err == nil {
			return llvm.Value{}, ir.Errorf(ir.ErrUnsupported, e.Pos, "called object %q is not a function", e.Func)
		}
		return llvm.Value{}, ir.Errorf(ir.ErrUnresolvedSymbol, e.Pos, "function %q is not declared", e.Func)
	}
	ftyp := fun.Type().ElementType()
	params := ftyp.ParamTypes()
	if len(e.Args) < len(params) || (!ftyp.IsFunctionVarArg() && len(e.Args) != len(params)) {
		return llvm.Value{}, ir.Errorf(ir.ErrArgumentCount, e.Pos, "function %q takes %d arguments, got %d",
			e.Func, len(params), len(e.Args))
	}

	args := make([]llvm.Value, len(e.Args))
	for i1, e1 := range e.Args {
		v, err := g.genExpression(e1)
		if err != nil {
			return llvm.Value{}, err
		}
		if i1 < len(params) {
			v = g.convert(v, params[i1])
		} else {
			v = g.integerOrPointer(v)
		}
		args[i1] = v
	}
	return g.b.CreateCall(fun, args, ""), nil
}
