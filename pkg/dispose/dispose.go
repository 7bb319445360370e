// Package dispose implements the resource disposal protocol.
//
// Any value can carry cleanup callbacks, bookkept in an explicit side table
// keyed by identity rather than hidden properties. The first cleanup ever
// attached becomes the frozen root slot (framework-installed bookkeeping);
// every later one chains into the shallow slot (user-installed resources).
// Dispose runs root then shallow and removes the table entry, so a second
// Dispose is a guaranteed no-op. ShallowDispose releases only the user chain,
// which the rebind path uses to drop user resources while the framework's own
// subscriptions are rebuilt in place.
package dispose

import (
	"log/slog"
	"reflect"
	"sync"

	interrors "github.com/loom-dev/loom/internal/errors"
)

var logger = slog.Default().With("component", "dispose")

// record holds the cleanup chain for one value.
type record struct {
	root    func()
	shallow []func()
}

var (
	tableMu sync.Mutex
	table   = map[any]*record{}
)

// Attach adds cleanup to v's chain and returns v. The first attachment
// becomes the root slot; later ones append to the shallow chain in
// attachment order. Values must be of a comparable type (pointers, stores,
// compiled templates); an uncomparable value cannot key the side table, so
// the attachment is logged and skipped.
func Attach(v any, cleanup func()) any {
	if v == nil || cleanup == nil {
		return v
	}
	if !canKey(v) {
		logger.Warn(interrors.New("W120").Error(), "type", reflect.TypeOf(v).String())
		return v
	}

	tableMu.Lock()
	defer tableMu.Unlock()

	rec, ok := table[v]
	if !ok {
		table[v] = &record{root: cleanup}
		return v
	}
	rec.shallow = append(rec.shallow, cleanup)
	return v
}

// IsDisposable reports whether v currently carries a cleanup chain.
func IsDisposable(v any) bool {
	if v == nil {
		return false
	}
	if !canKey(v) {
		return false
	}
	tableMu.Lock()
	defer tableMu.Unlock()
	_, ok := table[v]
	return ok
}

// Dispose runs v's full cleanup chain, root first, then removes the marker.
// Idempotence comes from marker absence, not a flag. A slice disposes each
// element.
func Dispose(v any) {
	if vs, ok := v.([]any); ok {
		for _, item := range vs {
			Dispose(item)
		}
		return
	}
	if v == nil || !canKey(v) {
		return
	}

	tableMu.Lock()
	rec, ok := table[v]
	if ok {
		delete(table, v)
	}
	tableMu.Unlock()
	if !ok {
		return
	}

	if rec.root != nil {
		rec.root()
	}
	for _, fn := range rec.shallow {
		fn()
	}
}

// ShallowDispose runs and clears only the user-installed shallow chain,
// leaving the root slot in place. A slice shallow-disposes each element.
func ShallowDispose(v any) {
	if vs, ok := v.([]any); ok {
		for _, item := range vs {
			ShallowDispose(item)
		}
		return
	}
	if v == nil || !canKey(v) {
		return
	}

	tableMu.Lock()
	rec, ok := table[v]
	var chain []func()
	if ok {
		chain = rec.shallow
		rec.shallow = nil
	}
	tableMu.Unlock()

	for _, fn := range chain {
		fn()
	}
}

// valueGetter matches the observable contract structurally, so this package
// needs no dependency on the store package.
type valueGetter interface {
	Get() any
}

// DisposeRecursive unwraps one level of container before disposing v itself:
// a store's current value, or each element of a slice. This is how releasing
// a rendered list also releases every item's resources.
func DisposeRecursive(v any) {
	switch inner := v.(type) {
	case nil:
		return
	case []any:
		for _, item := range inner {
			DisposeRecursive(item)
		}
		return
	case valueGetter:
		Dispose(inner.Get())
	}
	Dispose(v)
}

// canKey reports whether v can key the identity side table.
func canKey(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Comparable()
}
