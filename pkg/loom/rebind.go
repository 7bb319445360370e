package loom

import (
	interrors "github.com/loom-dev/loom/internal/errors"
	"github.com/loom-dev/loom/pkg/dispose"
	"github.com/loom-dev/loom/pkg/store"
)

// Rebind points the store-table entry for key at a new value without
// re-parsing markup. An observable replaces the entry and every link
// depending on it resubscribes; a plain value flows through the existing
// writable entry, disposing the value it displaces. Pushing a plain value
// onto a read-only slot logs a warning and leaves the slot untouched.
func (c *Compiled) Rebind(key string, value any) error {
	old, ok := c.Stores[key]
	if !ok {
		return interrors.Newf(interrors.CategoryRebind, "no store entry for key %q", key)
	}

	if r, isReadable := value.(store.Readable); isReadable {
		if r == old {
			return nil
		}
		if c.wrapped[key] {
			logger.Warn(interrors.New("W111").Error(), "key", key)
		}
		c.Stores[key] = r
		c.wrapped[key] = false
		c.resubscribeKey(key)
		return nil
	}

	w, writable := old.(store.Writable)
	if !writable {
		logger.Warn(interrors.New("W110").Error(), "key", key)
		return nil
	}
	displaced := w.Get()
	w.Set(value)
	if displaced != nil && !sameRef(displaced, value) {
		dispose.DisposeRecursive(displaced)
	}
	return nil
}

// RebindTemplate rebinds every value position from a template with the
// same fragment identity. Templates built from a different literal cannot
// rebind in place.
func (c *Compiled) RebindTemplate(tpl *Template) error {
	if !SameShape(c.Template, tpl) {
		return interrors.New("E002").WithDetail("template %p does not share this compilation's fragments", tpl)
	}
	for i, v := range tpl.Values {
		if err := c.Rebind(c.keyAt[i], v); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiled) resubscribeKey(key string) {
	b := c.bindingFor(key)
	b.Store = c.Stores[key]
	for _, l := range b.links {
		l.resubscribe()
	}
}
