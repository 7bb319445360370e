package dom

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, markup string) []*Node {
	t.Helper()
	nodes, err := ParseFragment(markup)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return nodes
}

func TestParseFragmentDetachedRoots(t *testing.T) {
	nodes := mustParse(t, `<div id="a">hello</div><span>x</span>`)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(nodes))
	}
	for _, n := range nodes {
		if n.Parent != nil {
			t.Error("parsed roots must be detached")
		}
	}
	if v, _ := Attr(nodes[0], "id"); v != "a" {
		t.Errorf("expected id=a, got %q", v)
	}
}

func TestParseFragmentOrphanText(t *testing.T) {
	nodes := mustParse(t, "just text")
	if len(nodes) != 1 || !IsText(nodes[0]) {
		t.Fatalf("expected a single text root, got %v", nodes)
	}
	if nodes[0].Parent != nil {
		t.Error("orphan text must have no parent")
	}
}

func TestAttrRoundTrip(t *testing.T) {
	n := NewElement("div")
	SetAttr(n, "class", "x")
	SetAttr(n, "id", "y")
	SetAttr(n, "class", "z") // replace in place keeps order

	if v, _ := Attr(n, "class"); v != "z" {
		t.Errorf("expected class=z, got %q", v)
	}
	if n.Attr[0].Key != "class" {
		t.Error("replacing an attribute must preserve source order")
	}

	RemoveAttr(n, "class")
	if HasAttr(n, "class") {
		t.Error("expected class removed")
	}
	if !HasAttr(n, "id") {
		t.Error("id should survive removal of class")
	}
}

func TestReplaceWithNodes(t *testing.T) {
	roots := mustParse(t, "<div>a<span>b</span>c</div>")
	div := roots[0]
	span := div.FirstChild.NextSibling

	repl := []*Node{NewText("x"), NewElement("em")}
	ReplaceWithNodes(span, repl)

	if got := Render(div); got != "<div>ax<em></em>c</div>" {
		t.Errorf("unexpected render: %s", got)
	}
}

func TestInsertAt(t *testing.T) {
	div := NewElement("ul")
	for _, s := range []string{"a", "c"} {
		li := NewElement("li")
		Append(li, NewText(s))
		Append(div, li)
	}
	li := NewElement("li")
	Append(li, NewText("b"))
	InsertAt(div, li, 1)

	if got := Render(div); got != "<ul><li>a</li><li>b</li><li>c</li></ul>" {
		t.Errorf("unexpected render: %s", got)
	}

	tail := NewElement("li")
	InsertAt(div, tail, 99) // past the end appends
	if div.LastChild != tail {
		t.Error("out-of-range insert should append")
	}
}

func TestRenderEscapesText(t *testing.T) {
	n := NewElement("div")
	Append(n, NewText(`<script>alert("x")</script>`))

	got := Render(n)
	if strings.Contains(got, "<script>") {
		t.Fatalf("text content must be escaped, got %s", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("expected escaped markup, got %s", got)
	}
}

func TestEventListeners(t *testing.T) {
	n := NewElement("button")

	var clicks int
	AddEventListener(n, "click", func(e *Event) { clicks++ })

	if !Dispatch(n, "click", nil) {
		t.Fatal("expected a listener to run")
	}
	if Dispatch(n, "keydown", nil) {
		t.Error("no keydown listener installed")
	}

	// Replacing the listener keeps exactly one.
	AddEventListener(n, "click", func(e *Event) { clicks += 10 })
	Dispatch(n, "click", nil)
	if clicks != 11 {
		t.Errorf("expected replacement listener, clicks=%d", clicks)
	}

	RemoveEventListener(n, "click")
	if HasEventListener(n, "click") {
		t.Error("listener should be removed")
	}
}

func TestProperties(t *testing.T) {
	n := NewElement("input")
	SetProperty(n, "checked", true)

	v, ok := Property(n, "checked")
	if !ok || v != true {
		t.Errorf("expected checked=true, got %v %v", v, ok)
	}

	Release(n)
	if _, ok := Property(n, "checked"); ok {
		t.Error("Release should clear property state")
	}
}

func TestReleaseClearsSubtree(t *testing.T) {
	div := NewElement("div")
	btn := NewElement("button")
	Append(div, btn)
	AddEventListener(btn, "click", func(*Event) {})

	Release(div)
	if HasEventListener(btn, "click") {
		t.Error("Release must clear descendants too")
	}
}

func TestExtractRefs(t *testing.T) {
	roots := mustParse(t, `<div><input ref:user-name><button ref:submit>go</button></div>`)
	refs := ExtractRefs(roots...)

	if refs.Len() != 2 {
		t.Fatalf("expected 2 refs, got %d", refs.Len())
	}
	if refs.Get("submit") == nil || refs.Get("SUBMIT") == nil {
		t.Error("strict lookup should be case-insensitive")
	}
	if refs.Get("user-name") == nil {
		t.Error("strict lookup should match the exact name")
	}
	if refs.Loose("userName") == nil || refs.Loose("user_name") == nil {
		t.Error("loose lookup should normalize separator and case variants")
	}

	// Attributes are stripped from the tree.
	html := Render(roots[0])
	if strings.Contains(html, "ref:") {
		t.Errorf("ref attributes must be stripped, got %s", html)
	}
}

func TestWalkDepthFirst(t *testing.T) {
	roots := mustParse(t, "<div><p><em>x</em></p><span></span></div>")

	var tags []string
	Walk(roots[0], func(n *Node) bool {
		if IsElement(n) {
			tags = append(tags, n.Data)
		}
		return true
	})

	want := []string{"div", "p", "em", "span"}
	if len(tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], tags[i])
		}
	}
}
