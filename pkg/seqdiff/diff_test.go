package seqdiff

import (
	"fmt"
	"testing"
)

func identKey(item any) string {
	return fmt.Sprintf("%v", item)
}

func seq(items ...any) []any { return items }

// applyAndCompare checks the core correctness property: applying the script
// to old yields exactly next whenever Overkill is false.
func applyAndCompare(t *testing.T, old, next []any) Result {
	t.Helper()
	res := Diff(old, next, identKey)
	if res.Overkill {
		return res
	}
	got, err := Apply(old, res.Ops)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if len(got) != len(next) {
		t.Fatalf("applied length %d, expected %d (ops %v)", len(got), len(next), res.Ops)
	}
	for i := range next {
		if got[i] != next[i] {
			t.Fatalf("applied %v, expected %v (ops %v)", got, next, res.Ops)
		}
	}
	return res
}

func TestDiffDeleteAndAdd(t *testing.T) {
	res := applyAndCompare(t, seq(1, 2, 3), seq(1, 3, 4))

	if len(res.Ops) != 2 {
		t.Fatalf("expected 2 ops (one delete, one add), got %v", res.Ops)
	}
	if res.Ops[0].Kind != OpDelete || res.Ops[0].Item != 2 {
		t.Errorf("expected delete of 2, got %v", res.Ops[0])
	}
	if res.Ops[1].Kind != OpAdd || res.Ops[1].Item != 4 {
		t.Errorf("expected add of 4, got %v", res.Ops[1])
	}
}

func TestDiffIdentical(t *testing.T) {
	res := applyAndCompare(t, seq("a", "b", "c"), seq("a", "b", "c"))
	if len(res.Ops) != 0 {
		t.Errorf("identical sequences should produce no ops, got %v", res.Ops)
	}
}

func TestDiffPairwiseSwap(t *testing.T) {
	res := applyAndCompare(t, seq("a", "b"), seq("b", "a"))
	if res.Overkill {
		t.Fatal("a two-element swap should not be overkill")
	}
	for _, op := range res.Ops {
		if op.Kind != OpMove {
			t.Errorf("swap should use only moves, got %v", op)
		}
	}
}

func TestDiffInnerSwap(t *testing.T) {
	applyAndCompare(t, seq(1, 2, 3, 4, 5), seq(1, 4, 3, 2, 5))
}

func TestDiffRotation(t *testing.T) {
	applyAndCompare(t, seq(1, 2, 3, 4, 5, 6, 7, 8), seq(8, 1, 2, 3, 4, 5, 6, 7))
}

func TestDiffDeleteAll(t *testing.T) {
	res := Diff(seq(1, 2, 3), seq(9, 8, 7), identKey)
	if !res.Overkill {
		t.Error("replacing every element should bail out as overkill")
	}
}

func TestDiffEmptyOld(t *testing.T) {
	res := Diff(nil, seq(1, 2), identKey)
	if !res.Overkill {
		t.Error("building from empty is never cheaper than a rebuild")
	}
}

func TestDiffOverkillThreshold(t *testing.T) {
	// Script length reaching len(next) trips the bail-out.
	res := Diff(seq(1, 2), seq(3, 1), identKey)
	if !res.Overkill {
		t.Errorf("expected overkill, got ops %v", res.Ops)
	}
}

func TestDiffPermutationsProperty(t *testing.T) {
	perms := [][]any{
		seq(1, 2, 3, 4),
		seq(4, 3, 2, 1),
		seq(2, 1, 4, 3),
		seq(3, 1, 4, 2),
		seq(1, 3, 2, 4),
	}
	base := seq(1, 2, 3, 4)
	for _, p := range perms {
		applyAndCompare(t, base, p)
		applyAndCompare(t, p, base)
	}
}

func TestDiffMixedEdits(t *testing.T) {
	applyAndCompare(t, seq("a", "b", "c", "d", "e", "f"), seq("a", "c", "x", "e", "d", "f"))
}

func TestIdentityKeysMemoized(t *testing.T) {
	table := NewIdentityKeys()
	a := &struct{ n int }{1}
	b := &struct{ n int }{1}

	ka1, ok := table.Key(a)
	if !ok {
		t.Fatal("pointer items must get a pseudo-key")
	}
	ka2, _ := table.Key(a)
	kb, _ := table.Key(b)

	if ka1 != ka2 {
		t.Errorf("same object must keep its key: %s vs %s", ka1, ka2)
	}
	if ka1 == kb {
		t.Error("distinct objects must not share a key")
	}

	table.Forget(a)
	ka3, _ := table.Key(a)
	if ka3 == ka1 {
		t.Error("forgotten object should be re-keyed")
	}
}

func TestIdentityKeysRejectsValues(t *testing.T) {
	table := NewIdentityKeys()
	if _, ok := table.Key(42); ok {
		t.Error("primitive values have no identity to key on")
	}
	if _, ok := table.Key(nil); ok {
		t.Error("nil has no identity")
	}
}
