package loom

import (
	"sync"

	"github.com/loom-dev/loom/pkg/store"
)

// Cond is a first-true-wins conditional: an observable whose value is the
// content of the first arm with a truthy condition, or the else content
// when no arm matches.
//
// Content the conditional constructs itself (templates, and template
// factories, rendered on branch entry) is disposed when the branch goes
// inactive. Caller-constructed nodes pass through untouched; their
// lifecycle stays with the caller.
type Cond struct {
	arms        []condArm
	elseContent any
	hasElse     bool
	opts        []Option

	mu          sync.Mutex
	inner       *store.Store
	active      int
	owned       *Compiled
	contentSub  store.Unsubscribe
	unsubs      []store.Unsubscribe
	started     bool
	stopped     bool
}

type condArm struct {
	cond    any
	content any
}

// If starts a conditional chain.
func If(cond any, content any) *Cond {
	return &Cond{
		arms:   []condArm{{cond: cond, content: content}},
		active: -1,
		inner:  store.New(nil),
	}
}

// ElseIf appends an arm. Arms are evaluated in order; the first truthy
// condition wins.
func (c *Cond) ElseIf(cond any, content any) *Cond {
	c.arms = append(c.arms, condArm{cond: cond, content: content})
	return c
}

// Else sets the fallback content.
func (c *Cond) Else(content any) *Cond {
	c.elseContent = content
	c.hasElse = true
	return c
}

// WithOptions forwards render options to content the conditional
// constructs.
func (c *Cond) WithOptions(opts ...Option) *Cond {
	c.opts = opts
	return c
}

// Get returns the active branch's current content.
func (c *Cond) Get() any {
	c.ensureStarted()
	return c.inner.Get()
}

// Subscribe attaches to branch switches.
func (c *Cond) Subscribe(onValue func(any), onInvalidate ...func()) store.Unsubscribe {
	c.ensureStarted()
	return c.inner.Subscribe(onValue, onInvalidate...)
}

// Stop detaches from every condition source and disposes constructed
// content.
func (c *Cond) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	unsubs := c.unsubs
	c.unsubs = nil
	contentSub := c.contentSub
	c.contentSub = nil
	owned := c.owned
	c.owned = nil
	c.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	if contentSub != nil {
		contentSub()
	}
	if owned != nil {
		owned.Dispose()
	}
}

// ensureStarted subscribes to every observable condition on first use and
// evaluates the initial branch.
func (c *Cond) ensureStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.stopped {
		return
	}
	c.started = true

	for _, arm := range c.arms {
		src, ok := arm.cond.(store.Readable)
		if !ok {
			continue
		}
		inited := false
		unsub := src.Subscribe(func(any) {
			if !inited {
				inited = true
				return
			}
			c.mu.Lock()
			defer c.mu.Unlock()
			c.evaluateLocked()
		})
		c.unsubs = append(c.unsubs, unsub)
	}
	c.evaluateLocked()
}

// evaluateLocked picks the first truthy arm and switches branches when it
// differs from the active one.
func (c *Cond) evaluateLocked() {
	if c.stopped {
		return
	}
	next := len(c.arms)
	for i, arm := range c.arms {
		if truthy(arm.cond) {
			next = i
			break
		}
	}
	if next == c.active {
		return
	}
	c.active = next

	if c.contentSub != nil {
		c.contentSub()
		c.contentSub = nil
	}
	if c.owned != nil {
		c.owned.Dispose()
		c.owned = nil
	}

	var content any
	switch {
	case next < len(c.arms):
		content = c.arms[next].content
	case c.hasElse:
		content = c.elseContent
	default:
		c.inner.Set(nil)
		return
	}
	c.emitLocked(content)
}

// emitLocked resolves the branch content and publishes it. Observable
// content stays subscribed while its branch is active.
func (c *Cond) emitLocked(content any) {
	if src, ok := content.(store.Readable); ok {
		inited := false
		c.contentSub = src.Subscribe(func(v any) {
			if inited {
				c.mu.Lock()
				defer c.mu.Unlock()
				c.publishLocked(v)
				return
			}
			inited = true
			c.publishLocked(v)
		})
		return
	}
	c.publishLocked(content)
}

// publishLocked renders constructable content and emits the result.
func (c *Cond) publishLocked(content any) {
	if c.owned != nil {
		c.owned.Dispose()
		c.owned = nil
	}
	switch val := content.(type) {
	case func() *Template:
		c.renderOwnedLocked(val())
	case *Template:
		c.renderOwnedLocked(val)
	default:
		c.inner.Set(content)
	}
}

func (c *Cond) renderOwnedLocked(tpl *Template) {
	sub, err := Render(tpl, c.opts...)
	if err != nil {
		logger.Error("conditional branch render failed", "err", err)
		c.inner.Set(nil)
		return
	}
	c.owned = sub
	c.inner.Set(sub)
}

// truthy evaluates a condition value: observables by their current value,
// bools directly, zero values of strings and numbers as false, everything
// else as true.
func truthy(v any) bool {
	if r, ok := v.(store.Readable); ok {
		return truthy(r.Get())
	}
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case uint:
		return val != 0
	case uint64:
		return val != 0
	case float64:
		return val != 0
	case float32:
		return val != 0
	}
	return true
}

var _ store.Readable = (*Cond)(nil)
var _ store.Readable = (*ListView)(nil)
