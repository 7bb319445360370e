package loom

import (
	"reflect"
	"sync"

	"github.com/loom-dev/loom/pkg/dispose"
	"github.com/loom-dev/loom/pkg/dom"
	"github.com/loom-dev/loom/pkg/seqdiff"
	"github.com/loom-dev/loom/pkg/store"
)

// ListView projects an observable slice onto a live node list. Rows are
// rendered once per item and reused across updates; the edit script from
// the keyed diff decides which rows survive, move, or go.
type ListView struct {
	inner  *store.Store
	render func(item any) *Template
	opts   []Option

	mu    sync.Mutex
	ids   *seqdiff.IdentityKeys
	items []any
	rows  []*Compiled
	unsub store.Unsubscribe
	state int
}

const (
	listIdle = iota
	listRunning
	listStopped
)

// ForEach binds src, whose value must be a slice, to a per-item render
// function. The returned view is an observable node list suitable for
// interpolation into a template.
//
// Items with reference identity key by identity; plain values key by
// their serialized form, so equal plain items are interchangeable rows.
func ForEach(src store.Readable, render func(item any) *Template, opts ...Option) *ListView {
	lv := &ListView{
		inner:  store.New([]*dom.Node(nil)),
		render: render,
		opts:   opts,
		ids:    seqdiff.NewIdentityKeys(),
	}
	lv.unsub = src.Subscribe(func(v any) {
		lv.reconcile(toSlice(v))
	})
	lv.state = listRunning
	dispose.Attach(lv, lv.teardown)
	return lv
}

// Get returns the current node list.
func (lv *ListView) Get() any {
	return lv.inner.Get()
}

// Subscribe attaches to the node list.
func (lv *ListView) Subscribe(onValue func(any), onInvalidate ...func()) store.Unsubscribe {
	return lv.inner.Subscribe(onValue, onInvalidate...)
}

// Stop detaches from the source and disposes every rendered row.
func (lv *ListView) Stop() {
	dispose.Dispose(lv)
}

func (lv *ListView) teardown() {
	lv.mu.Lock()
	if lv.state == listStopped {
		lv.mu.Unlock()
		return
	}
	lv.state = listStopped
	unsub := lv.unsub
	rows := lv.rows
	lv.rows = nil
	lv.items = nil
	lv.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	for _, row := range rows {
		row.Dispose()
	}
}

// reconcile diffs the previous item list against next and mirrors the
// edit script onto the row list, then publishes the flattened nodes.
func (lv *ListView) reconcile(next []any) {
	lv.mu.Lock()
	defer lv.mu.Unlock()
	if lv.state == listStopped {
		return
	}

	// The diff needs unique keys. Duplicate plain values collide on their
	// serialized form, so such lists rebuild instead of diffing.
	res := seqdiff.Result{Overkill: true}
	if uniqueKeys(lv.items, lv.itemKey) && uniqueKeys(next, lv.itemKey) {
		res = seqdiff.Diff(lv.items, next, lv.itemKey)
	}
	if res.Overkill {
		for _, row := range lv.rows {
			row.Dispose()
		}
		lv.rows = make([]*Compiled, 0, len(next))
		for _, item := range next {
			lv.rows = append(lv.rows, lv.renderRow(item))
		}
	} else {
		for _, op := range res.Ops {
			switch op.Kind {
			case seqdiff.OpDelete:
				lv.rows[op.Index].Dispose()
				lv.rows = append(lv.rows[:op.Index], lv.rows[op.Index+1:]...)
			case seqdiff.OpAdd:
				lv.rows = insertRow(lv.rows, op.Index, lv.renderRow(op.Item))
			case seqdiff.OpMove:
				row := lv.rows[op.Index]
				lv.rows = append(lv.rows[:op.Index], lv.rows[op.Index+1:]...)
				lv.rows = insertRow(lv.rows, op.DestIndex, row)
			}
		}
	}

	lv.items = next
	var nodes []*dom.Node
	for _, row := range lv.rows {
		nodes = append(nodes, row.Roots()...)
	}
	lv.inner.Set(nodes)
}

func (lv *ListView) renderRow(item any) *Compiled {
	row, err := Render(lv.render(item), lv.opts...)
	if err != nil {
		logger.Error("row render failed", "err", err)
		empty, _ := Render(Text([]string{""}))
		return empty
	}
	return row
}

// itemKey keys reference items by identity and plain values by serialized
// form.
func (lv *ListView) itemKey(v any) string {
	if key, ok := lv.ids.Key(v); ok {
		return key
	}
	return "v:" + defaultSerialize(v)
}

func uniqueKeys(items []any, keyOf seqdiff.KeyOf) bool {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		k := keyOf(item)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

func insertRow(rows []*Compiled, i int, row *Compiled) []*Compiled {
	if i >= len(rows) {
		return append(rows, row)
	}
	rows = append(rows, nil)
	copy(rows[i+1:], rows[i:])
	rows[i] = row
	return rows
}

// toSlice normalizes the source value to []any.
func toSlice(v any) []any {
	if v == nil {
		return nil
	}
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
