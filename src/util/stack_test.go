package util

import "testing"

func TestStack(t *testing.T) {
	s := Stack{}
	if s.Pop() != nil || s.Peek() != nil {
		t.Fatalf("expected empty stack")
	}
	for i1 := 1; i1 <= 3; i1++ {
		s.Push(i1)
	}
	s.Push(nil)
	if s.Size() != 3 {
		t.Fatalf("expected 3 elements, got %d", s.Size())
	}
	if s.Get(1) != 3 || s.Get(3) != 1 || s.Get(4) != nil || s.Get(0) != nil {
		t.Errorf("unexpected Get results: %v %v %v %v", s.Get(1), s.Get(3), s.Get(4), s.Get(0))
	}
	for _, e1 := range []int{3, 2, 1} {
		if s.Peek() != e1 {
			t.Errorf("expected %d on top, got %v", e1, s.Peek())
		}
		if e := s.Pop(); e != e1 {
			t.Errorf("expected %d, got %v", e1, e)
		}
	}
	if s.Size() != 0 {
		t.Errorf("expected empty stack, got %d elements", s.Size())
	}
}

func TestLabels(t *testing.T) {
	l := NewLabels()
	exp := []string{".L0", ".L1", ".L2"}
	for _, e1 := range exp {
		if got := l.New(); got != e1 {
			t.Errorf("expected %s, got %s", e1, got)
		}
	}
	if l.Count() != len(exp) {
		t.Errorf("expected %d labels, got %d", len(exp), l.Count())
	}
	if got := NewLabels().New(); got != ".L0" {
		t.Errorf("expected a fresh generator to start at .L0, got %s", got)
	}
}
