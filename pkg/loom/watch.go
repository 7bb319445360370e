package loom

import (
	interrors "github.com/loom-dev/loom/internal/errors"
	"github.com/loom-dev/loom/pkg/debounce"
	"github.com/loom-dev/loom/pkg/dispose"
	"github.com/loom-dev/loom/pkg/store"
)

// Track declares the observables a watched build depends on. Only calls
// made during the first build register anything.
type Track func(sources ...store.Readable)

// Watch renders the template produced by build and re-renders it in place
// whenever a tracked dependency changes. Re-renders rebind values into the
// existing subtree, so build must keep returning a template made from the
// same literal; a build that switches shape is reported and ignored.
//
// Shape identity follows the fragments slice, so the literal must be
// hoisted out of the build function:
//
//	frags := []string{"<p>", "</p>"}
//	name := store.New("ada")
//	c, _ := loom.Watch(func(track loom.Track) *loom.Template {
//	    track(name)
//	    return loom.Tpl(frags, name.Get())
//	})
func Watch(build func(track Track) *Template, opts ...Option) (*Compiled, error) {
	var deps []store.Readable
	collecting := true
	track := func(sources ...store.Readable) {
		if !collecting {
			return
		}
		for _, s := range sources {
			if s != nil {
				deps = append(deps, s)
			}
		}
	}

	tpl := build(track)
	collecting = false

	c, err := Render(tpl, opts...)
	if err != nil {
		return nil, err
	}

	rerun := func() {
		next := build(track)
		if !SameShape(c.Template, next) {
			logger.Error(interrors.New("E002").Error())
			return
		}
		dispose.ShallowDispose(c)
		if rerr := c.RebindTemplate(next); rerr != nil {
			logger.Warn("watch rebind failed", "err", rerr)
		}
	}

	var schedule func()
	if c.opts.DebounceWatches {
		deb := debounce.New(c.opts.Loop.Schedule)
		schedule = func() { deb.Invoke(rerun) }
	} else {
		schedule = rerun
	}

	for _, dep := range deps {
		inited := false
		unsub := dep.Subscribe(func(any) {
			if !inited {
				inited = true
				return
			}
			schedule()
		})
		c.internalCleanups = append(c.internalCleanups, unsub)
	}
	return c, nil
}
