package loom

import (
	"testing"

	"github.com/loom-dev/loom/pkg/dom"
	"github.com/loom-dev/loom/pkg/store"
)

type todo struct {
	title string
}

func todoRow(item any) *Template {
	return Tpl([]string{"<li>", "</li>"}, item.(*todo).title)
}

func listNodes(t *testing.T, lv *ListView) []*dom.Node {
	t.Helper()
	nodes, ok := lv.Get().([]*dom.Node)
	if !ok {
		t.Fatalf("unexpected list value %T", lv.Get())
	}
	return nodes
}

func TestForEachRendersRows(t *testing.T) {
	src := store.New([]any{&todo{"a"}, &todo{"b"}})
	lv := ForEach(src, todoRow, WithMode(Eager))
	defer lv.Stop()

	nodes := listNodes(t, lv)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(nodes))
	}
	if got := dom.RenderAll(nodes); got != "<li>a</li><li>b</li>" {
		t.Errorf("unexpected rows: %s", got)
	}
}

func TestForEachReusesRowsOnReorder(t *testing.T) {
	a, b, c := &todo{"a"}, &todo{"b"}, &todo{"c"}
	src := store.New([]any{a, b, c})
	lv := ForEach(src, todoRow, WithMode(Eager))
	defer lv.Stop()

	before := listNodes(t, lv)

	src.Set([]any{b, a, c})
	after := listNodes(t, lv)
	if len(after) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(after))
	}
	if after[0] != before[1] || after[1] != before[0] || after[2] != before[2] {
		t.Error("a reorder should move existing row nodes, not rebuild them")
	}
}

func TestForEachDisposesRemovedRows(t *testing.T) {
	cleanups := 0
	row := func(item any) *Template {
		return Tpl([]string{"<li use=", ">", "</li>"},
			UseAction(func(_ *dom.Node) func() {
				return func() { cleanups++ }
			}),
			item.(*todo).title)
	}

	a, b, c := &todo{"a"}, &todo{"b"}, &todo{"c"}
	src := store.New([]any{a, b, c})
	lv := ForEach(src, row, WithMode(Eager))

	src.Set([]any{a, c})
	if cleanups != 1 {
		t.Errorf("removing one item should dispose one row, got %d", cleanups)
	}

	lv.Stop()
	if cleanups != 3 {
		t.Errorf("stop should dispose the remaining rows, got %d", cleanups)
	}
}

func TestForEachRebuildsOnWholesaleChange(t *testing.T) {
	src := store.New([]any{&todo{"a"}, &todo{"b"}})
	lv := ForEach(src, todoRow, WithMode(Eager))
	defer lv.Stop()

	src.Set([]any{&todo{"x"}, &todo{"y"}})
	if got := dom.RenderAll(listNodes(t, lv)); got != "<li>x</li><li>y</li>" {
		t.Errorf("unexpected rows after rebuild: %s", got)
	}
}

func TestForEachPlainValuesKeyBySerializedForm(t *testing.T) {
	src := store.New([]any{"a", "b", "c"})
	lv := ForEach(src, func(item any) *Template {
		return Tpl([]string{"<li>", "</li>"}, item)
	}, WithMode(Eager))
	defer lv.Stop()

	before := listNodes(t, lv)
	src.Set([]any{"b", "a", "c"})
	after := listNodes(t, lv)

	if after[0] != before[1] || after[1] != before[0] {
		t.Error("equal plain values should be interchangeable rows")
	}
}

func TestForEachDuplicatePlainValuesRebuild(t *testing.T) {
	src := store.New([]any{"a", "a"})
	lv := ForEach(src, func(item any) *Template {
		return Tpl([]string{"<li>", "</li>"}, item)
	}, WithMode(Eager))
	defer lv.Stop()

	src.Set([]any{"a", "a", "b"})
	if got := dom.RenderAll(listNodes(t, lv)); got != "<li>a</li><li>a</li><li>b</li>" {
		t.Errorf("unexpected rows: %s", got)
	}
}

func TestForEachInterpolated(t *testing.T) {
	src := store.New([]any{&todo{"a"}, &todo{"b"}})
	lv := ForEach(src, todoRow, WithMode(Eager))
	defer lv.Stop()

	c := mustRender(t, Tpl([]string{"<ul>", "</ul>"}, lv), WithMode(Eager))
	if got := c.HTML(); got != "<ul><li>a</li><li>b</li></ul>" {
		t.Fatalf("unexpected html: %s", got)
	}

	src.Set([]any{&todo{"b2"}})
	if got := c.HTML(); got != "<ul><li>b2</li></ul>" {
		t.Errorf("list change should re-render rows: %s", got)
	}
}
