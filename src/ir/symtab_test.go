package ir

import (
	"errors"
	"testing"
)

// testSymbol is a minimal Symbol.
type testSymbol struct {
	name string
	kind SymbolKind
	pos  Pos
}

func (s *testSymbol) Name() string     { return s.name }
func (s *testSymbol) Kind() SymbolKind { return s.kind }
func (s *testSymbol) Position() Pos    { return s.pos }

func TestScopesShadowing(t *testing.T) {
	s := NewScopes()
	outer := &testSymbol{name: "x"}
	inner := &testSymbol{name: "x"}
	if err := s.Declare(Root, outer); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	block := s.Open(Root)
	if err := s.Declare(block, inner); err != nil {
		t.Fatalf("shadowing must be legal, got error: %s", err)
	}

	sym, err := s.Resolve(block, "x", Pos{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if sym != inner {
		t.Errorf("expected innermost declaration to win")
	}
	if sym, _ = s.Resolve(Root, "x", Pos{}); sym != outer {
		t.Errorf("expected root declaration from root scope")
	}
	if s.Parent(block) != Root || s.Parent(Root) != NoScope {
		t.Errorf("unexpected parent links: %s", s)
	}
}

func TestScopesDuplicate(t *testing.T) {
	s := NewScopes()
	if err := s.Declare(Root, &testSymbol{name: "f", kind: SymFunction, pos: Pos{Line: 1, Col: 5}}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	err := s.Declare(Root, &testSymbol{name: "f", kind: SymVariable, pos: Pos{Line: 3, Col: 1}})
	if !errors.Is(err, ErrDuplicateDeclaration) {
		t.Fatalf("expected %q, got %v", ErrDuplicateDeclaration, err)
	}
	if len(s.Symbols(Root)) != 1 {
		t.Errorf("expected 1 symbol in root scope, got %d", len(s.Symbols(Root)))
	}
}

func TestScopesUnresolved(t *testing.T) {
	s := NewScopes()
	block := s.Open(s.Open(Root))
	if _, err := s.Resolve(block, "y", Pos{Line: 2, Col: 3}); !errors.Is(err, ErrUnresolvedSymbol) {
		t.Errorf("expected %q, got %v", ErrUnresolvedSymbol, err)
	}
}

func TestScopesAux(t *testing.T) {
	s := NewScopes()
	global := &testSymbol{name: "a"}
	param := &testSymbol{name: "a"}
	other := &testSymbol{name: "b"}
	if err := s.Declare(Root, global); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	params := s.Open(Root)
	if err := s.Declare(params, param); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := s.Declare(params, other); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	body := s.Open(Root)
	s.AddAux(body, params)
	block := s.Open(body)

	// The auxiliary scope is searched before the parent of body.
	if sym, err := s.Resolve(block, "a", Pos{}); err != nil || sym != param {
		t.Errorf("expected parameter from auxiliary scope, got %v, %v", sym, err)
	}
	if sym, err := s.Resolve(block, "b", Pos{}); err != nil || sym != other {
		t.Errorf("expected symbol from auxiliary scope, got %v, %v", sym, err)
	}

	// Declaring a name of an auxiliary scope in body is shadowing, not a duplicate.
	local := &testSymbol{name: "a"}
	if err := s.Declare(body, local); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if sym, _ := s.Resolve(block, "a", Pos{}); sym != local {
		t.Errorf("expected local declaration to shadow the parameter")
	}
	if _, ok := s.Lookup(block, "a"); ok {
		t.Errorf("Lookup must not search enclosing scopes")
	}
}

func TestScopesReplace(t *testing.T) {
	s := NewScopes()
	proto := &testSymbol{name: "f", kind: SymFunction}
	def := &testSymbol{name: "f", kind: SymFunction}
	if err := s.Declare(Root, proto); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	s.Replace(Root, def)
	if sym, _ := s.Lookup(Root, "f"); sym != def {
		t.Errorf("expected replaced symbol")
	}
	if syms := s.Symbols(Root); len(syms) != 1 || syms[0] != def {
		t.Errorf("expected declaration order to hold the replacement, got %v", syms)
	}
}
