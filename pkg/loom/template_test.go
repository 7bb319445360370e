package loom

import "testing"

func TestTplLockstepInvariant(t *testing.T) {
	tpl := Tpl([]string{"<p>", "</p>"}, "x")
	if len(tpl.Fragments) != len(tpl.Values)+1 {
		t.Fatalf("lockstep broken: %d fragments, %d values", len(tpl.Fragments), len(tpl.Values))
	}
}

func TestTplPadsShortFragments(t *testing.T) {
	tpl := Tpl([]string{"<p>"}, "a", "b")
	if len(tpl.Fragments) != 3 {
		t.Errorf("expected padded fragments, got %d", len(tpl.Fragments))
	}
}

func TestSameShapeIsIdentity(t *testing.T) {
	frags := []string{"<p>", "</p>"}
	a := Tpl(frags, 1)
	b := Tpl(frags, 2)
	if !SameShape(a, b) {
		t.Error("templates sharing a fragments slice must have the same shape")
	}

	c := Tpl([]string{"<p>", "</p>"}, 1)
	if SameShape(a, c) {
		t.Error("equal content is not shape identity")
	}
}

func TestSplitTextRunsKeepsRepeats(t *testing.T) {
	runs, keys := splitTextRuns("a#{0}b#{1}c#{0}d")
	if len(keys) != 3 || keys[0] != "0" || keys[1] != "1" || keys[2] != "0" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	if len(runs) != 4 || runs[0] != "a" || runs[3] != "d" {
		t.Fatalf("unexpected runs: %v", runs)
	}
}

func TestPlaceholderGrammar(t *testing.T) {
	cases := []struct {
		in   string
		keys []string
	}{
		{"#{0}", []string{"0"}},
		{"#{ a-key }", []string{"a-key"}},
		{"#{0:12}", []string{"0"}},
		{"/*#{7}*/", []string{"7"}},
		{"#{0}#{0}", []string{"0"}},
		{"plain", nil},
	}
	for _, tc := range cases {
		got := placeholderKeys(tc.in)
		if len(got) != len(tc.keys) {
			t.Errorf("%q: expected %v, got %v", tc.in, tc.keys, got)
			continue
		}
		for i := range got {
			if got[i] != tc.keys[i] {
				t.Errorf("%q: expected %v, got %v", tc.in, tc.keys, got)
			}
		}
	}
}

func TestDefaultSerialize(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"s", "s"},
		{true, "true"},
		{42, "42"},
		{3.5, "3.5"},
		{func() {}, "[function]"},
		{struct{}{}, "[object]"},
	}
	for _, tc := range cases {
		if got := defaultSerialize(tc.in); got != tc.want {
			t.Errorf("%v: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
