package loom

import (
	"github.com/loom-dev/loom/pkg/debounce"
	"github.com/loom-dev/loom/pkg/dom"
	"github.com/loom-dev/loom/pkg/store"
)

// Binding is the public view of one store-table entry and the DOM
// locations it feeds.
type Binding struct {
	Key   string
	Store store.Readable

	links []*DomLink
}

// Links returns the DOM locations bound to this entry.
func (b *Binding) Links() []*DomLink {
	return b.links
}

// DomLink wires one placeholder location in the DOM to the store table.
// An attribute link may aggregate several keys; a text link drives one or
// more slot occurrences through targets.
type DomLink struct {
	c   *Compiled
	ctx Context

	// owner is the element carrying the attribute, or the parent of a
	// child-text run. Orphan-text links have no owner.
	owner    *dom.Node
	attrName string

	// keys is the deduplicated dependency set; slotKeys keeps one entry per
	// text slot occurrence, repeats included.
	keys     []string
	slotKeys []string
	literals []string
	targets  []*Target

	// run re-applies the link's current values to the DOM. Kept so rebind
	// can resubscribe without rebuilding the link.
	run func()

	unsubs  []store.Unsubscribe
	agg     *store.Derived
	deb     *debounce.Debouncer
	cleanup func()
	dead    bool
}

// Context reports where in the DOM this link writes.
func (l *DomLink) Context() Context {
	return l.ctx
}

// Keys returns the store-table keys feeding this link.
func (l *DomLink) Keys() []string {
	return l.keys
}

// subscribe attaches l to its dependency set, routing updates through
// the compiled options' update mode. A link over several keys observes a
// derived aggregate of its sources, so a mutation reaching it through
// multiple keys still lands as one recomputation. The initial paint
// happens synchronously once everything is attached.
func (l *DomLink) subscribe(apply func()) {
	if l.c.opts.Mode == Batched {
		l.deb = debounce.New(l.c.opts.Loop.Schedule)
	}
	onUpdate := func(any) {
		if l.dead {
			return
		}
		if l.deb != nil {
			l.deb.Invoke(apply)
			return
		}
		apply()
	}
	settingUp := true
	guard := func(v any) {
		if settingUp {
			return
		}
		onUpdate(v)
	}
	if n := len(l.keys); n > 1 && n <= store.MaxDerivedSources {
		sources := make([]store.Readable, n)
		for i, key := range l.keys {
			sources[i] = l.c.Stores[key]
		}
		l.agg = store.NewDerived(func(values []any) any { return values }, sources...)
		l.unsubs = append(l.unsubs, l.agg.Subscribe(guard))
	} else {
		for _, key := range l.keys {
			l.unsubs = append(l.unsubs, l.c.Stores[key].Subscribe(guard))
		}
	}
	settingUp = false
	apply()
}

// resubscribe drops the link's subscriptions and reattaches to whatever
// the store table now holds for its keys. The initial paint of the new
// subscription refreshes the DOM.
func (l *DomLink) resubscribe() {
	for _, unsub := range l.unsubs {
		unsub()
	}
	l.unsubs = nil
	if l.agg != nil {
		l.agg.Stop()
		l.agg = nil
	}
	l.subscribe(l.run)
}

// dispose detaches the link from its stores and runs its cleanup action.
// Safe to call more than once.
func (l *DomLink) dispose() {
	if l.dead {
		return
	}
	l.dead = true
	for _, unsub := range l.unsubs {
		unsub()
	}
	l.unsubs = nil
	if l.agg != nil {
		l.agg.Stop()
		l.agg = nil
	}
	if l.cleanup != nil {
		l.cleanup()
		l.cleanup = nil
	}
	for _, t := range l.targets {
		t.disposeOwned()
	}
}

// values snapshots the current value of every key the link depends on.
func (l *DomLink) values() []any {
	out := make([]any, len(l.keys))
	for i, key := range l.keys {
		out[i] = l.c.Stores[key].Get()
	}
	return out
}

func (c *Compiled) registerLink(l *DomLink) {
	c.links = append(c.links, l)
	for _, key := range l.keys {
		b := c.bindingFor(key)
		b.links = append(b.links, l)
	}
}

func (c *Compiled) bindingFor(key string) *Binding {
	for _, b := range c.bindings {
		if b.Key == key {
			return b
		}
	}
	b := &Binding{Key: key, Store: c.Stores[key]}
	c.bindings = append(c.bindings, b)
	return b
}
