package loom

import (
	"strings"

	"github.com/loom-dev/loom/pkg/dom"
)

// bindRoots walks the parsed subtree and attaches a link for every
// placeholder location: attribute values, text under an element, and
// top-level text with no element parent.
func bindRoots(c *Compiled) []*Binding {
	// Collect first: binding a text node splices it out of the tree,
	// which would derail a live traversal.
	type textSite struct {
		node *dom.Node
		ctx  Context
	}
	var elements []*dom.Node
	var texts []textSite

	for _, root := range c.roots {
		if dom.IsText(root) && containsPlaceholder(root.Data) {
			texts = append(texts, textSite{node: root, ctx: OrphanText})
			continue
		}
		dom.Walk(root, func(n *dom.Node) bool {
			switch {
			case dom.IsElement(n):
				elements = append(elements, n)
			case dom.IsText(n) && containsPlaceholder(n.Data):
				texts = append(texts, textSite{node: n, ctx: ChildText})
			}
			return true
		})
	}

	for _, el := range elements {
		bindAttrs(c, el)
	}
	for _, site := range texts {
		bindText(c, site.node, site.ctx)
	}
	return c.bindings
}

// bindAttrs creates one link per attribute whose value carries at least
// one placeholder. The raw attribute value is kept as the substitution
// template.
func bindAttrs(c *Compiled, el *dom.Node) {
	for _, a := range el.Attr {
		if !containsPlaceholder(a.Val) {
			continue
		}
		l := &DomLink{
			c:        c,
			ctx:      AttrValue,
			owner:    el,
			attrName: a.Key,
			keys:     placeholderKeys(a.Val),
			literals: []string{a.Val},
		}
		l.run = l.applyAttr
		c.registerLink(l)
		l.subscribe(l.run)
	}
}

// bindText replaces a placeholder-bearing text node with interleaved
// literal runs and slot targets, then subscribes the link.
func bindText(c *Compiled, textNode *dom.Node, ctx Context) {
	runs, slotKeys := splitTextRuns(textNode.Data)

	l := &DomLink{
		c:        c,
		ctx:      ctx,
		owner:    textNode.Parent,
		keys:     dedup(slotKeys),
		slotKeys: slotKeys,
		literals: runs,
	}

	var nodes []*dom.Node
	for i := range slotKeys {
		if runs[i] != "" {
			nodes = append(nodes, dom.NewText(runs[i]))
		}
		t := newTarget(l)
		holder := dom.NewText("")
		t.nodes = []*dom.Node{holder}
		l.targets = append(l.targets, t)
		nodes = append(nodes, holder)
	}
	if tail := runs[len(runs)-1]; tail != "" {
		nodes = append(nodes, dom.NewText(tail))
	}

	if textNode.Parent != nil {
		dom.ReplaceWithNodes(textNode, nodes)
	} else {
		c.replaceRoots([]*dom.Node{textNode}, nodes)
	}

	l.run = l.applyText
	c.registerLink(l)
	l.subscribe(l.run)
}

// applyText pushes every slot's current store value into its target.
func (l *DomLink) applyText() {
	for i, t := range l.targets {
		t.update(l.c.Stores[l.slotKeys[i]].Get())
	}
}

// applyAttr writes the attribute. A value that fills the whole attribute
// dispatches on shape: handlers become event listeners, toggles control
// attribute presence, props bypass the attribute for the property table,
// and actions run their setup against the element. Everything else, and
// every mixed-literal attribute, serializes into the attribute string.
func (l *DomLink) applyAttr() {
	if len(l.keys) == 1 && isPurePlaceholder(l.literals[0]) {
		v := l.c.Stores[l.keys[0]].Get()
		if l.applyDirective(v) {
			return
		}
	}
	val := substitutePlaceholders(l.literals[0], func(key string) string {
		return serialize(l.c.Stores[key].Get(), AttrValue, key, l.c.serializer())
	})
	dom.SetAttr(l.owner, l.attrName, val)
}

// applyDirective handles the shapes with non-string attribute semantics.
// Returns false when the value should serialize as ordinary text.
func (l *DomLink) applyDirective(v any) bool {
	switch val := v.(type) {
	case Handler:
		l.bindEvent(val.Fn)
	case dom.Handler:
		l.bindEvent(val)
	case func(*dom.Event):
		l.bindEvent(val)
	case Toggle:
		if val.On {
			dom.SetAttr(l.owner, l.attrName, "")
		} else {
			dom.RemoveAttr(l.owner, l.attrName)
		}
	case Prop:
		dom.RemoveAttr(l.owner, l.attrName)
		dom.SetProperty(l.owner, l.attrName, val.Value)
	case Action:
		dom.RemoveAttr(l.owner, l.attrName)
		if l.cleanup != nil {
			l.cleanup()
			l.cleanup = nil
		}
		if val.Init != nil {
			l.cleanup = val.Init(l.owner)
		}
	default:
		return false
	}
	return true
}

// bindEvent replaces the attribute with a listener. An on-prefixed
// attribute name maps to its event type, so onclick listens for click.
func (l *DomLink) bindEvent(h dom.Handler) {
	dom.RemoveAttr(l.owner, l.attrName)
	event := eventName(l.attrName)
	dom.AddEventListener(l.owner, event, h)
	owner := l.owner
	l.cleanup = func() {
		dom.RemoveEventListener(owner, event)
	}
}

func eventName(attr string) string {
	name := strings.ToLower(attr)
	if strings.HasPrefix(name, "on") && len(name) > 2 {
		return name[2:]
	}
	return name
}

// isPurePlaceholder reports whether the literal is exactly one
// placeholder with nothing around it.
func isPurePlaceholder(literal string) bool {
	loc := placeholderRe.FindStringIndex(strings.TrimSpace(literal))
	if loc == nil {
		return false
	}
	trimmed := strings.TrimSpace(literal)
	return loc[0] == 0 && loc[1] == len(trimmed)
}

func dedup(keys []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
