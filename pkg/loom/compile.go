package loom

import (
	"strconv"
	"strings"

	"github.com/loom-dev/loom/pkg/dispose"
	"github.com/loom-dev/loom/pkg/dom"
	"github.com/loom-dev/loom/pkg/store"
)

// Compiled is the output of compiling (and, after Render, binding) a
// template: placeholder markup, the deduplicated store table, and the live
// binding state.
type Compiled struct {
	Template *Template

	// Markup is the byte-faithful reconstruction of the fragments with
	// placeholders substituted for values.
	Markup string

	// Stores maps placeholder keys to their backing observables.
	Stores map[string]store.Readable

	// keyAt holds the placeholder key used for each value position.
	keyAt []string

	// wrapped marks keys whose store the compiler created around a plain
	// value; those slots accept plain-value rebinds.
	wrapped map[string]bool

	opts     *Options
	roots    []*dom.Node
	refs     *dom.Refs
	bindings []*Binding
	links    []*DomLink

	// internalCleanups run as part of the root disposal slot, before the
	// store table is released. Watch registers its dependency
	// unsubscriptions here so user-level shallow disposal cannot touch them.
	internalCleanups []func()
}

// Compile turns a template into placeholder markup plus a store table.
// Values that already are observables are referenced, never re-wrapped, and
// a store interpolated at several positions is deduplicated to one table
// entry. Plain values are wrapped in fresh single-value stores keyed by
// position.
func Compile(tpl *Template) *Compiled {
	c := &Compiled{
		Template: tpl,
		Stores:   map[string]store.Readable{},
		keyAt:    make([]string, len(tpl.Values)),
		wrapped:  map[string]bool{},
	}

	keyByStore := map[store.Readable]string{}
	var sb strings.Builder

	for i, v := range tpl.Values {
		sb.WriteString(tpl.Fragments[i])

		var key string
		if r, ok := v.(store.Readable); ok {
			if seen, dup := keyByStore[r]; dup {
				key = seen
			} else {
				key = strconv.Itoa(i)
				keyByStore[r] = key
				c.Stores[key] = r
			}
		} else {
			key = strconv.Itoa(i)
			c.Stores[key] = store.New(v)
			c.wrapped[key] = true
		}
		c.keyAt[i] = key

		sb.WriteString(placeholderToken(key, tpl.Fragments[i], currentValue(v)))
	}
	sb.WriteString(tpl.Fragments[len(tpl.Fragments)-1])

	c.Markup = sb.String()
	return c
}

// placeholderToken renders the placeholder for key, applying the two
// special serialization forms: handler-shaped values ride inside a comment
// token so the markup stays inert when parsed, and quote-shaped values are
// auto-quoted unless the preceding literal already ends in a quote.
func placeholderToken(key, precedingLiteral string, sample any) string {
	token := "#{" + key + "}"
	switch {
	case isHandlerShaped(sample):
		return "/*" + token + "*/"
	case isQuoteShaped(sample) && !endsInQuote(precedingLiteral):
		return `"` + token + `"`
	default:
		return token
	}
}

// currentValue resolves a value for compile-time shape decisions: stores
// contribute their current value.
func currentValue(v any) any {
	if r, ok := v.(store.Readable); ok {
		return r.Get()
	}
	return v
}

func endsInQuote(s string) bool {
	return strings.HasSuffix(s, `"`) || strings.HasSuffix(s, `'`)
}

// Render compiles tpl, parses the markup into a detached subtree, extracts
// element refs, and binds every placeholder to its backing store.
func Render(tpl *Template, opts ...Option) (*Compiled, error) {
	c := Compile(tpl)
	c.opts = buildOptions(opts)

	roots, err := dom.ParseFragment(c.Markup)
	if err != nil {
		return nil, err
	}
	c.roots = roots
	c.refs = dom.ExtractRefs(roots...)
	c.bindings = bindRoots(c)

	dispose.Attach(c, c.teardown)
	return c, nil
}

// Roots returns the bound top-level nodes.
func (c *Compiled) Roots() []*dom.Node {
	return c.roots
}

// Bindings returns the live bindings in placeholder-appearance order.
func (c *Compiled) Bindings() []*Binding {
	return c.bindings
}

// Refs returns the elements collected from ref:<name> attributes.
func (c *Compiled) Refs() *dom.Refs {
	return c.refs
}

// HTML flushes pending batched writes and serializes the bound subtree.
func (c *Compiled) HTML() string {
	if c.opts != nil && c.opts.Loop != nil {
		c.opts.Loop.Flush()
	}
	return dom.RenderAll(c.roots)
}

// Dispose releases the whole subtree: bindings, then stores, then nested
// content. Idempotent.
func (c *Compiled) Dispose() {
	dispose.Dispose(c)
}

// teardown is the root cleanup: links backward, then internal cleanups,
// then the wrapped stores' current content, then the DOM side tables.
func (c *Compiled) teardown() {
	for i := len(c.links) - 1; i >= 0; i-- {
		c.links[i].dispose()
	}
	c.links = nil
	c.bindings = nil

	for i := len(c.internalCleanups) - 1; i >= 0; i-- {
		c.internalCleanups[i]()
	}
	c.internalCleanups = nil

	for key, own := range c.wrapped {
		if !own {
			continue
		}
		if s, ok := c.Stores[key]; ok {
			dispose.DisposeRecursive(s)
		}
	}

	for _, root := range c.roots {
		dom.Release(root)
	}
}

// inheritedOptions propagates this compilation's configuration to nested
// renders.
func (c *Compiled) inheritedOptions() []Option {
	if c.opts == nil {
		return nil
	}
	return c.opts.asOptionList()
}

func (c *Compiled) serializer() Serializer {
	if c.opts == nil {
		return nil
	}
	return c.opts.Serializer
}
