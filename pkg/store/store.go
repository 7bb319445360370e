package store

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Unsubscribe removes a subscription. Safe to call more than once.
type Unsubscribe func()

// Readable is the minimal observable contract. Subscribe must invoke onValue
// synchronously with the current value before returning.
//
// The optional onInvalidate callback fires when the store knows its value is
// about to change but has not delivered the new value yet. Derived stores use
// it to avoid recomputing while any dependency is still stale.
type Readable interface {
	// Get returns the current value without subscribing.
	Get() any

	// Subscribe registers onValue for the current value and all future
	// changes. The returned Unsubscribe is idempotent.
	Subscribe(onValue func(any), onInvalidate ...func()) Unsubscribe
}

// Writable is a Readable that accepts new values.
type Writable interface {
	Readable

	// Set replaces the value and notifies subscribers if it changed.
	Set(value any)

	// Update replaces the value with fn(current).
	Update(fn func(any) any)
}

// subscriberIDCounter issues unique subscription IDs.
var subscriberIDCounter uint64

func nextSubscriberID() uint64 {
	return atomic.AddUint64(&subscriberIDCounter, 1)
}

// subscriber is one registered (onValue, onInvalidate) pair.
type subscriber struct {
	id           uint64
	onValue      func(any)
	onInvalidate func()
}

// emitQueue is the module-level subscriber queue. Notifications append here
// and only the outermost Set drains, so a diamond of derived stores settles
// with a single downstream recomputation per root mutation.
//
// The queue is only touched between Set entry and drain completion on a
// single goroutine at a time; the mutex guards against accidental concurrent
// writers, not for parallel scheduling.
var (
	emitMu    sync.Mutex
	emitQueue []queuedEmit
)

type queuedEmit struct {
	sub   *subscriber
	value any
}

// Store is a single-value Writable.
type Store struct {
	mu    sync.Mutex
	value any
	subs  []*subscriber
}

// New creates a writable store holding initial.
func New(initial any) *Store {
	return &Store{value: initial}
}

// Get returns the current value.
func (s *Store) Get() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Subscribe implements Readable. onValue runs synchronously with the current
// value before Subscribe returns.
func (s *Store) Subscribe(onValue func(any), onInvalidate ...func()) Unsubscribe {
	sub := &subscriber{id: nextSubscriberID(), onValue: onValue}
	if len(onInvalidate) > 0 {
		sub.onInvalidate = onInvalidate[0]
	}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	value := s.value
	s.mu.Unlock()

	onValue(value)

	var once sync.Once
	return func() {
		once.Do(func() { s.removeSubscriber(sub.id) })
	}
}

func (s *Store) removeSubscriber(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Set replaces the value and notifies subscribers if it changed.
func (s *Store) Set(value any) {
	s.mu.Lock()
	changed := notEqual(s.value, value)
	if changed {
		s.value = value
	}
	subs := make([]*subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if changed {
		notify(subs, value)
	}
}

// Update replaces the value with fn(current).
func (s *Store) Update(fn func(any) any) {
	s.mu.Lock()
	next := fn(s.value)
	changed := notEqual(s.value, next)
	if changed {
		s.value = next
	}
	subs := make([]*subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if changed {
		notify(subs, next)
	}
}

// notify invalidates every subscriber, queues the value deliveries, and
// drains the queue if this call started it. Invalidation of all edges before
// any delivery is what keeps derived diamonds glitch-free.
func notify(subs []*subscriber, value any) {
	emitMu.Lock()
	runQueue := len(emitQueue) == 0
	for _, sub := range subs {
		if sub.onInvalidate != nil {
			sub.onInvalidate()
		}
		emitQueue = append(emitQueue, queuedEmit{sub: sub, value: value})
	}
	if !runQueue {
		emitMu.Unlock()
		return
	}
	// Drain. Deliveries may append further emits; the loop picks them up.
	for i := 0; i < len(emitQueue); i++ {
		q := emitQueue[i]
		emitMu.Unlock()
		q.sub.onValue(q.value)
		emitMu.Lock()
	}
	emitQueue = emitQueue[:0]
	emitMu.Unlock()
}

// notEqual reports whether a change from a to b should renotify. Values of
// reference or mutable kinds always renotify, since they can change in place.
func notEqual(a, b any) bool {
	if a == nil && b == nil {
		return false
	}
	if a == nil || b == nil {
		return true
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return true
	}
	switch ta.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return a != b
	default:
		return true
	}
}

// IsReadable reports whether v satisfies the observable contract.
func IsReadable(v any) bool {
	_, ok := v.(Readable)
	return ok
}

// IsWritable reports whether v is a writable observable.
func IsWritable(v any) bool {
	_, ok := v.(Writable)
	return ok
}
