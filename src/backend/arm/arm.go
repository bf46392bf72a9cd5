// Package arm generates 32-bit ARM assembly from the syntax tree in a single pass.
//
// The tree is walked depth first. Every expression evaluates to a result describing where its value lives: in a
// register, as a compile time constant, in the condition flags, as the address of a string literal or as the address
// of a variable. Results are forced into registers only when an instruction needs them there. Registers are handed
// out by a local least recently used allocator, one per function, and every instruction is appended to an emission
// pipeline that is rendered once the whole translation unit has been generated.
package arm

import (
	"fmt"

	"armcc/src/backend/emit"
	"armcc/src/backend/regalloc"
	"armcc/src/backend/regfile"
	"armcc/src/ir"
	"armcc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Context holds all state of one compilation. Nothing is shared between contexts, so any number of translation
// units may be compiled one after the other, or concurrently, in the same process.
type Context struct {
	bank   int                 // Register bank size.
	out    *emit.Pipeline      // Instruction log of the translation unit.
	scopes *ir.Scopes          // Scope arena of the translation unit.
	labels *util.Labels        // Local label generator.
	lits   *literals           // String literal pool.
	loops  util.Stack          // Enclosing loops of the statement being generated, innermost on top.
	log    *util.Logger        // Verbose statistics.
	stats  regalloc.Stats      // Allocator statistics summed over all functions.
	fun    *function           // Function being generated.
	ra     *regalloc.Allocator // Register allocator of the function being generated.
	frame  *regalloc.Frame     // Stack frame of the function being generated.
	scope  ir.ScopeID          // Current scope.
}

// ---------------------
// ----- Constants -----
// ---------------------

const labelMain = "main" // Name of the program entry function.

// ---------------------
// ----- Functions -----
// ---------------------

// NewContext returns a context generating code for a bank of n registers.
func NewContext(n int, log *util.Logger) (*Context, error) {
	if err := regfile.ValidBank(n); err != nil {
		return nil, err
	}
	return &Context{
		bank:   n,
		out:    emit.NewPipeline(),
		scopes: ir.NewScopes(),
		labels: util.NewLabels(),
		lits:   newLiterals(),
		log:    log,
		scope:  ir.Root,
	}, nil
}

// Generate generates ARM assembly for the program p. Output is not rendered: the returned pipeline holds every
// instruction in order.
func Generate(opt util.Options, p *ir.Program, log *util.Logger) (*emit.Pipeline, error) {
	c, err := NewContext(opt.Registers, log)
	if err != nil {
		return nil, err
	}
	if err := c.GenProgram(p); err != nil {
		return nil, err
	}
	return c.out, nil
}

// GenProgram generates every declaration of p, then prepends the literal pool.
func (c *Context) GenProgram(p *ir.Program) error {
	for _, e1 := range p.Decls {
		switch d := e1.(type) {
		case *ir.Function:
			if err := c.declareFunction(d); err != nil {
				return err
			}
			if d.Body == nil {
				continue
			}
			if err := c.genFunction(d); err != nil {
				return err
			}
		case *ir.Global:
			return ir.Errorf(ir.ErrUnsupported, d.Position(), "global variables are not supported by the ARM backend")
		default:
			return ir.Errorf(ir.ErrInternal, e1.Position(), "unexpected top level node %T", e1)
		}
	}
	c.lits.genPool(c.out)

	c.log.Logf("ARM backend: %d instructions, %d labels, %d string literals", c.out.Len(), c.labels.Count(),
		c.lits.len())
	c.log.Logf("ARM backend: %d spills, %d loads, %d moves inserted by the register allocator", c.stats.Spills,
		c.stats.Loads, c.stats.Moves)
	return nil
}

// Output returns the instruction log of the context.
func (c *Context) Output() *emit.Pipeline {
	return c.out
}

// emit appends instructions to the output.
func (c *Context) emit(rs ...emit.Instruction) {
	c.out.Emit(rs...)
}

// label defines label l at the current position.
func (c *Context) label(l string) {
	c.out.Emit(&emit.Label{Name: l})
}

// branch emits a conditional branch to l.
func (c *Context) branch(cc emit.Cond, l string) {
	c.out.Emit(&emit.Branch{Cond: cc, Label: l})
}

// check verifies the allocator's register table.
func (c *Context) check(n ir.Node) error {
	if err := c.ra.Check(); err != nil {
		return fmt.Errorf("line %d:%d: %w", n.Position().Line, n.Position().Col, err)
	}
	return nil
}

// openScope enters a new scope nested in the current one.
func (c *Context) openScope() {
	c.scope = c.scopes.Open(c.scope)
}

// closeScope leaves the current scope. Registers held by its variables are freed: the variables are dead.
func (c *Context) closeScope() {
	for _, e1 := range c.scopes.Symbols(c.scope) {
		if v, ok := e1.(*variable); ok {
			c.ra.Release(v.val)
		}
	}
	c.scope = c.scopes.Parent(c.scope)
}
