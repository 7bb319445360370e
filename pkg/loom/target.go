package loom

import (
	"reflect"

	"github.com/loom-dev/loom/pkg/dom"
	"github.com/loom-dev/loom/pkg/store"
)

// Target is one slot occurrence in a text run. It always occupies at
// least one node in the DOM so the slot keeps its position even when the
// current value renders to nothing.
type Target struct {
	link *DomLink

	// nodes are the current occupants, in order. Never empty.
	nodes []*dom.Node

	// last is the previously applied value, compared by reference to
	// short-circuit same-store re-deliveries.
	last    any
	hasLast bool

	// owned content was constructed by this target and is disposed when
	// replaced. Caller-provided nodes are left alone.
	owned []*Compiled
}

func newTarget(l *DomLink) *Target {
	return &Target{link: l}
}

// update transitions the slot's DOM content to render v. Like-for-like
// text updates mutate the existing text node in place so node identity
// survives value changes.
func (t *Target) update(v any) {
	if t.hasLast && sameRef(t.last, v) {
		return
	}
	t.last = v
	t.hasLast = true

	switch val := v.(type) {
	case *dom.Node:
		t.replace([]*dom.Node{val}, nil)
	case []*dom.Node:
		t.replace(append([]*dom.Node(nil), val...), nil)
	case []any:
		t.materialize(val)
	case *Template:
		sub, err := Render(val, t.link.c.inheritedOptions()...)
		if err != nil {
			logger.Error("nested template render failed", "err", err)
			t.setText("")
			return
		}
		t.replace(sub.Roots(), []*Compiled{sub})
	case *Compiled:
		t.replace(val.Roots(), nil)
	default:
		if isSliceValue(v) {
			t.materialize(toSlice(v))
			return
		}
		t.setText(serialize(v, t.link.ctx, t.currentKey(), t.link.c.serializer()))
	}
}

// materialize renders a value array into the slot, classified by its
// first entry: node entries pass through by identity, anything else
// becomes one text node per entry. An empty array collapses to a single
// empty text node so the slot keeps its position.
func (t *Target) materialize(items []any) {
	if len(items) == 0 {
		t.replace(nil, nil)
		return
	}
	nodes := make([]*dom.Node, 0, len(items))
	if _, isNode := items[0].(*dom.Node); isNode {
		for _, item := range items {
			if n, ok := item.(*dom.Node); ok && n != nil {
				nodes = append(nodes, n)
			}
		}
	} else {
		for _, item := range items {
			nodes = append(nodes, dom.NewText(serialize(item, t.link.ctx, t.currentKey(), t.link.c.serializer())))
		}
	}
	t.replace(nodes, nil)
}

func isSliceValue(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// setText writes a plain string into the slot, reusing the occupant text
// node when there is exactly one.
func (t *Target) setText(s string) {
	if len(t.nodes) == 1 && dom.IsText(t.nodes[0]) && len(t.owned) == 0 {
		t.nodes[0].Data = s
		return
	}
	t.replace([]*dom.Node{dom.NewText(s)}, nil)
}

// replace swaps the slot's occupants for next, disposing any content the
// slot itself constructed. Nodes shared between old and next keep their
// identity; an empty next collapses to an empty text node to hold the
// position.
func (t *Target) replace(next []*dom.Node, nextOwned []*Compiled) {
	if len(next) == 0 {
		next = []*dom.Node{dom.NewText("")}
	}
	t.spliceDOM(t.nodes, next)
	for _, sub := range t.owned {
		sub.Dispose()
	}
	t.nodes = next
	t.owned = nextOwned
}

// spliceDOM relinks the slot from old to next, whether it lives under a
// parent element or among the compiled roots.
func (t *Target) spliceDOM(old, next []*dom.Node) {
	if len(old) == 0 {
		return
	}
	parent := old[0].Parent
	if parent == nil {
		t.link.c.replaceRoots(old, next)
		return
	}
	anchor := dom.NewText("")
	parent.InsertBefore(anchor, old[0])
	for _, n := range old {
		dom.Detach(n)
	}
	for _, n := range next {
		dom.Detach(n)
		parent.InsertBefore(n, anchor)
	}
	dom.Detach(anchor)
}

// disposeOwned releases content this target constructed. Called from the
// owning link's disposal.
func (t *Target) disposeOwned() {
	for _, sub := range t.owned {
		sub.Dispose()
	}
	t.owned = nil
}

func (t *Target) currentKey() string {
	if len(t.link.keys) == 1 {
		return t.link.keys[0]
	}
	return ""
}

// sameRef reports whether a and b are the same reference for kinds where
// identity is meaningful. Value kinds always re-render.
func sameRef(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a.(type) {
	case *dom.Node, *Template, *Compiled:
		return a == b
	}
	if ra, ok := a.(store.Readable); ok {
		rb, okb := b.(store.Readable)
		return okb && ra == rb
	}
	return false
}

// replaceRoots splices next in place of old within the top-level node
// list. Nodes present in both stay in their new position.
func (c *Compiled) replaceRoots(old, next []*dom.Node) {
	idx := -1
	for i, r := range c.roots {
		if r == old[0] {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	skip := map[*dom.Node]bool{}
	for _, n := range old {
		skip[n] = true
	}
	out := make([]*dom.Node, 0, len(c.roots)-len(old)+len(next))
	out = append(out, c.roots[:idx]...)
	out = append(out, next...)
	for i := idx; i < len(c.roots); i++ {
		if !skip[c.roots[i]] {
			out = append(out, c.roots[i])
		}
	}
	c.roots = out
}
