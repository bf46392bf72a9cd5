package ir

import (
	"fmt"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// SymbolKind differentiates the kinds of symbols a scope can hold.
type SymbolKind int

// Symbol is a named entity bound in a scope. Backends define their own symbol types, carrying whatever state they
// need for code generation, and the scope chain only relies on this interface.
type Symbol interface {
	Name() string     // Identifier the symbol is bound to.
	Kind() SymbolKind // Variable or function.
	Position() Pos    // Declaration site, used for error reporting.
}

// ScopeID addresses a scope in a Scopes arena.
type ScopeID int

// scope is a single lexical scope. Links to other scopes are indices into the owning arena.
type scope struct {
	table  map[string]Symbol // Symbols declared in this scope.
	order  []Symbol          // Symbols in declaration order.
	parent ScopeID           // Lexically enclosing scope, NoScope for the root.
	aux    []ScopeID         // Auxiliary scopes searched before the parent, in registration order.
}

// Scopes is an arena of lexical scopes. The root scope is created with the arena and always has index 0.
type Scopes struct {
	arena []scope
}

// ---------------------
// ----- Constants -----
// ---------------------

const (
	SymVariable SymbolKind = iota
	SymFunction
)

// NoScope is the parent of the root scope.
const NoScope ScopeID = -1

// Root is the index of the file scope.
const Root ScopeID = 0

const tableSize = 8 // Most blocks declare only a handful of names.

// sKind defines strings for print friendly output of SymbolKind.
var sKind = [...]string{
	"variable",
	"function",
}

// ----------------------
// ----- Functions ------
// ----------------------

func (k SymbolKind) String() string {
	if int(k) < 0 || int(k) >= len(sKind) {
		return fmt.Sprintf("<kind %d>", k)
	}
	return sKind[k]
}

// NewScopes returns an arena holding only the root scope.
func NewScopes() *Scopes {
	s := &Scopes{}
	s.Open(NoScope)
	return s
}

// Open creates a new scope with the given lexical parent and returns its index.
func (s *Scopes) Open(parent ScopeID) ScopeID {
	s.arena = append(s.arena, scope{
		table:  make(map[string]Symbol, tableSize),
		parent: parent,
	})
	return ScopeID(len(s.arena) - 1)
}

// AddAux registers aux to be searched from id after id's own symbols and before id's parent.
func (s *Scopes) AddAux(id, aux ScopeID) {
	s.arena[id].aux = append(s.arena[id].aux, aux)
}

// Parent returns the lexical parent of scope id.
func (s *Scopes) Parent(id ScopeID) ScopeID {
	return s.arena[id].parent
}

// Len returns the number of scopes allocated in the arena.
func (s *Scopes) Len() int {
	return len(s.arena)
}

// Symbols returns the symbols declared directly in scope id, in declaration order.
func (s *Scopes) Symbols(id ScopeID) []Symbol {
	return s.arena[id].order
}

// Declare binds sym in scope id. Shadowing a symbol of an enclosing scope is legal, declaring the same name twice
// in one scope is not.
func (s *Scopes) Declare(id ScopeID, sym Symbol) error {
	sc := &s.arena[id]
	if prev, ok := sc.table[sym.Name()]; ok {
		p := sym.Position()
		return Errorf(ErrDuplicateDeclaration, p, "%s %q was previously declared at line %d:%d",
			sym.Kind(), sym.Name(), prev.Position().Line, prev.Position().Col)
	}
	sc.table[sym.Name()] = sym
	sc.order = append(sc.order, sym)
	return nil
}

// Replace rebinds name in scope id to sym. The name must already be declared in that scope.
func (s *Scopes) Replace(id ScopeID, sym Symbol) {
	sc := &s.arena[id]
	prev := sc.table[sym.Name()]
	sc.table[sym.Name()] = sym
	for i1, e1 := range sc.order {
		if e1 == prev {
			sc.order[i1] = sym
		}
	}
}

// Lookup returns the symbol bound to name in scope id itself, without searching other scopes.
func (s *Scopes) Lookup(id ScopeID, name string) (Symbol, bool) {
	sym, ok := s.arena[id].table[name]
	return sym, ok
}

// Resolve searches for name starting at scope id. Each scope is searched in its own table, then in its auxiliary
// scopes recursively, before moving on to its parent. An error wrapping ErrUnresolvedSymbol is returned if the
// chain is exhausted at the root.
func (s *Scopes) Resolve(id ScopeID, name string, at Pos) (Symbol, error) {
	for e1 := id; e1 != NoScope; e1 = s.arena[e1].parent {
		if sym, ok := s.local(e1, name); ok {
			return sym, nil
		}
	}
	return nil, Errorf(ErrUnresolvedSymbol, at, "%q is not declared in this scope", name)
}

// local searches the table of scope id and then its auxiliary scopes, depth first.
func (s *Scopes) local(id ScopeID, name string) (Symbol, bool) {
	sc := &s.arena[id]
	if sym, ok := sc.table[name]; ok {
		return sym, true
	}
	for _, e1 := range sc.aux {
		if sym, ok := s.local(e1, name); ok {
			return sym, true
		}
	}
	return nil, false
}

// String returns a print friendly dump of the arena, one scope per line.
func (s *Scopes) String() string {
	sb := strings.Builder{}
	for i1, e1 := range s.arena {
		sb.WriteString(fmt.Sprintf("scope %d (parent %d, aux %v):", i1, e1.parent, e1.aux))
		for _, e2 := range e1.order {
			sb.WriteString(fmt.Sprintf(" %s %q;", e2.Kind(), e2.Name()))
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
