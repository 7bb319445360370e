package seqdiff

import (
	"reflect"
	"strconv"
	"sync"
)

// IdentityKeys memoizes a stable pseudo-key per object identity, the
// convenience fallback for item sequences rendered without an explicit key
// function. Only reference-shaped values (pointers, maps, channels,
// functions) have an identity to key on; for anything else Key reports
// false and the caller falls back to not diffing at all.
//
// The table grows with the distinct objects it has seen; Forget releases an
// entry once its object is known to be out of every live sequence.
type IdentityKeys struct {
	mu   sync.Mutex
	next uint64
	keys map[uintptr]string
}

// NewIdentityKeys creates an empty pseudo-key table.
func NewIdentityKeys() *IdentityKeys {
	return &IdentityKeys{keys: map[uintptr]string{}}
}

// Key returns the memoized pseudo-key for item, generating one on first
// sight. ok is false when item has no usable identity.
func (t *IdentityKeys) Key(item any) (key string, ok bool) {
	ptr, ok := identityOf(item)
	if !ok {
		return "", false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if key, ok := t.keys[ptr]; ok {
		return key, true
	}
	t.next++
	key = "obj-" + strconv.FormatUint(t.next, 10)
	t.keys[ptr] = key
	return key, true
}

// Forget drops the memoized key for item.
func (t *IdentityKeys) Forget(item any) {
	ptr, ok := identityOf(item)
	if !ok {
		return
	}
	t.mu.Lock()
	delete(t.keys, ptr)
	t.mu.Unlock()
}

func identityOf(item any) (uintptr, bool) {
	if item == nil {
		return 0, false
	}
	v := reflect.ValueOf(item)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return v.Pointer(), true
	default:
		return 0, false
	}
}
