package regalloc

import (
	"fmt"
	"strings"
	"testing"

	"armcc/src/backend/emit"
	"armcc/src/backend/regfile"
)

// setup returns an allocator of n registers and the pipeline it emits into.
func setup(n int) (*Allocator, *emit.Pipeline) {
	out := emit.NewPipeline()
	return New(n, NewFrame(), out), out
}

// lines renders p and splits the output into lines.
func lines(p *emit.Pipeline) []string {
	s := strings.TrimRight(p.String(), "\n")
	if len(s) == 0 {
		return nil
	}
	return strings.Split(s, "\n")
}

func compare(t *testing.T, exp, got []string) {
	t.Helper()
	if len(exp) != len(got) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(exp), len(got), strings.Join(got, "\n"))
	}
	for i1, e1 := range exp {
		if got[i1] != e1 {
			t.Errorf("line %d: expected %q, got %q", i1+1, e1, got[i1])
		}
	}
}

func check(t *testing.T, a *Allocator) {
	t.Helper()
	if err := a.Check(); err != nil {
		t.Fatalf("register table inconsistent: %s", err)
	}
}

// TestEviction binds one more value than there are registers and verifies that the value bound longest ago is
// stored and evicted.
func TestEviction(t *testing.T) {
	for n := regfile.MinBank; n <= regfile.MaxBank; n++ {
		a, out := setup(n)
		vals := make([]*Value, n+1)
		for i1 := range vals {
			vals[i1] = NewVariable(fmt.Sprintf("v%d", i1))
			if r := a.Define(vals[i1]); i1 < n && r != regfile.Register(i1) {
				t.Fatalf("n=%d: expected v%d in r%d, got %s", n, i1, i1, r)
			}
		}
		check(t, a)
		if r, ok := vals[0].Register(); ok {
			t.Errorf("n=%d: evicted value still bound to %s", n, r)
		}
		if slot, ok := vals[0].Slot(); !ok || slot != -4 {
			t.Errorf("n=%d: expected evicted value in slot -4, got %d (%t)", n, slot, ok)
		}
		if r, ok := vals[n].Register(); !ok || r != regfile.R0 {
			t.Errorf("n=%d: expected new value in r0, got %s (%t)", n, r, ok)
		}
		compare(t, []string{"\tSTR\tr0, [fp, #-4]"}, lines(out))
	}
}

// TestEvictionTouch verifies that rebinding a resident value protects it from eviction.
func TestEvictionTouch(t *testing.T) {
	a, out := setup(4)
	vals := make([]*Value, 5)
	for i1 := range vals {
		vals[i1] = NewVariable(fmt.Sprintf("v%d", i1))
	}
	for _, e1 := range vals[:4] {
		a.Define(e1)
	}
	a.Bind(vals[0])
	a.Bind(vals[1])
	if r := a.Define(vals[4]); r != regfile.R2 {
		t.Fatalf("expected r2 to be evicted, got %s", r)
	}
	check(t, a)
	compare(t, []string{"\tSTR\tr2, [fp, #-4]"}, lines(out))

	// Binding the evicted value reloads it into the least recently touched register.
	if r := a.Bind(vals[2]); r != regfile.R3 {
		t.Fatalf("expected reload into r3, got %s", r)
	}
	check(t, a)
	compare(t, []string{
		"\tSTR\tr2, [fp, #-4]",
		"\tSTR\tr3, [fp, #-8]",
		"\tLDR\tr3, [fp, #-4]",
	}, lines(out))
}

func TestUnassignedNotStored(t *testing.T) {
	a, out := setup(4)
	vals := make([]*Value, 5)
	for i1 := range vals {
		vals[i1] = NewVariable(fmt.Sprintf("v%d", i1))
		a.Bind(vals[i1])
	}
	check(t, a)
	if out.Len() != 0 {
		t.Errorf("expected no instructions, got:\n%s", out)
	}
	if _, ok := vals[0].Slot(); ok {
		t.Errorf("unassigned value was given a stack slot")
	}
}

func TestBindTo(t *testing.T) {
	a, out := setup(4)
	x := NewVariable("x")
	y := NewVariable("y")
	a.Define(x) // r0
	a.Define(y) // r1

	// y moves into r0, spilling x.
	a.BindTo(y, regfile.R0)
	check(t, a)
	if a.Occupied(regfile.R1) {
		t.Errorf("expected r1 to be free after the move")
	}

	// x is reloaded into r2.
	a.BindTo(x, regfile.R2)
	check(t, a)

	// Already in place.
	a.BindTo(x, regfile.R2)
	compare(t, []string{
		"\tSTR\tr0, [fp, #-4]",
		"\tMOV\tr0, r1",
		"\tLDR\tr2, [fp, #-4]",
	}, lines(out))
	if a.Stats().Moves != 1 || a.Stats().Loads != 1 || a.Stats().Spills != 1 {
		t.Errorf("unexpected statistics %+v", a.Stats())
	}
}

func TestSwap(t *testing.T) {
	a, out := setup(4)
	x := NewVariable("x")
	y := NewVariable("y")
	a.Define(x)
	a.Define(y)
	a.Swap(regfile.R0, regfile.R1)
	check(t, a)
	if r, _ := x.Register(); r != regfile.R1 {
		t.Errorf("expected x in r1, got %s", r)
	}
	if r, _ := y.Register(); r != regfile.R0 {
		t.Errorf("expected y in r0, got %s", r)
	}

	// Swapping with a free register moves the occupant.
	a.Swap(regfile.R0, regfile.R3)
	check(t, a)
	if a.Occupied(regfile.R0) || a.Occupant(regfile.R3) != y {
		t.Errorf("expected y in r3 and r0 free")
	}
	if out.Len() != 0 {
		t.Errorf("swap emitted instructions:\n%s", out)
	}
}

func TestFreeAndRelease(t *testing.T) {
	a, out := setup(4)
	tmp := NewTemporary()
	x := NewVariable("x")
	a.Define(tmp)
	a.Define(x)
	a.FreeTemporaries()
	check(t, a)
	if a.Occupied(regfile.R0) || !a.Occupied(regfile.R1) {
		t.Errorf("expected only the temporary to be freed")
	}
	a.Release(x)
	if a.Occupied(regfile.R1) {
		t.Errorf("expected r1 to be free")
	}
	if out.Len() != 0 {
		t.Errorf("freeing emitted instructions:\n%s", out)
	}
	if !a.Occupied(regfile.R4) || !a.Occupied(regfile.FP) {
		t.Errorf("registers outside the bank must be reported occupied")
	}
}

func TestSpillAllReloadAll(t *testing.T) {
	a, out := setup(4)
	vals := make([]*Value, 3)
	for i1 := range vals {
		vals[i1] = NewVariable(fmt.Sprintf("v%d", i1))
		a.Define(vals[i1])
	}
	s := a.SpillAll(regfile.R0)
	check(t, a)
	for i1 := range a.bank {
		if a.Occupied(regfile.Register(i1)) {
			t.Errorf("r%d still occupied after SpillAll", i1)
		}
	}
	a.ReloadAll(regfile.R1, s)
	check(t, a)
	if a.Occupied(regfile.R0) {
		t.Errorf("r0 reloaded")
	}
	compare(t, []string{
		"\tSTR\tr0, [fp, #-4]",
		"\tSTR\tr1, [fp, #-8]",
		"\tSTR\tr2, [fp, #-12]",
		"\tLDR\tr1, [fp, #-8]",
		"\tLDR\tr2, [fp, #-12]",
	}, lines(out))
}

func TestSnapshotRestore(t *testing.T) {
	a, out := setup(4)
	x := NewVariable("x")
	y := NewVariable("y")
	a.Define(x)
	s := a.Snapshot()
	a.Define(y)
	a.Spill(regfile.R0)
	n := out.Len()
	a.Restore(s)
	check(t, a)
	if out.Len() != n {
		t.Errorf("restore emitted instructions")
	}
	if a.Occupant(regfile.R0) != x || a.Occupied(regfile.R1) {
		t.Errorf("unexpected register table after restore:\n%s", a)
	}
	if _, ok := y.Register(); ok {
		t.Errorf("y still bound after restore")
	}
}

// TestReconcile verifies that reconciling to a snapshot stores the values that moved and reloads the values that
// the snapshot expects, using loads and stores only.
func TestReconcile(t *testing.T) {
	a, out := setup(4)
	x := NewVariable("x")
	y := NewVariable("y")
	z := NewVariable("z")
	a.Define(x) // r0
	a.Define(y) // r1
	s := a.Snapshot()

	// Inside a branch: x is spilled, z takes r0, y moves to r2.
	a.Spill(regfile.R0)
	a.Define(z)
	a.BindTo(y, regfile.R2)
	check(t, a)
	mark := out.Len()

	a.Reconcile(s)
	check(t, a)
	if a.Occupant(regfile.R0) != x || a.Occupant(regfile.R1) != y || a.Occupied(regfile.R2) {
		t.Fatalf("unexpected register table after reconcile:\n%s", a)
	}
	got := lines(out)[mark:]
	compare(t, []string{
		"\tSTR\tr0, [fp, #-8]",
		"\tSTR\tr2, [fp, #-12]",
		"\tLDR\tr0, [fp, #-4]",
		"\tLDR\tr1, [fp, #-12]",
	}, got)
	for _, e1 := range got {
		if !strings.HasPrefix(e1, "\tSTR") && !strings.HasPrefix(e1, "\tLDR") {
			t.Errorf("reconcile emitted %q", e1)
		}
	}

	// A second reconcile is a no-op.
	mark = out.Len()
	a.Reconcile(s)
	if out.Len() != mark {
		t.Errorf("reconciling a matching table emitted instructions")
	}
}

func TestCommit(t *testing.T) {
	a, out := setup(4)
	x := NewVariable("x")
	if slot := a.Commit(x); slot != -4 {
		t.Errorf("expected slot -4, got %d", slot)
	}
	a.Define(x)
	if slot := a.Commit(x); slot != -4 {
		t.Errorf("expected slot -4, got %d", slot)
	}
	check(t, a)
	compare(t, []string{"\tSTR\tr0, [fp, #-4]"}, lines(out))
}

func TestFrame(t *testing.T) {
	f := NewFrame()
	if f.Size() != 0 {
		t.Errorf("expected empty frame, got %d", f.Size())
	}
	if off := f.Allocate(4); off != -4 {
		t.Errorf("expected -4, got %d", off)
	}
	if off := f.Allocate(4); off != -8 {
		t.Errorf("expected -8, got %d", off)
	}
	f.Allocate(4)
	if f.Size() != 16 {
		t.Errorf("expected aligned size 16, got %d", f.Size())
	}
	for i1 := 0; i1 < 255; i1++ {
		f.Allocate(4)
	}
	if s := f.Size(); !emit.Encodable(int32(s)) || s%8 != 0 || s < 1032 {
		t.Errorf("frame size %d is not an aligned encodable immediate", s)
	}
}
