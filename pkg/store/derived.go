package store

import "sync"

// Derived is a Readable computed from one or more source stores.
//
// The combinator receives the latest value of every source, in source order.
// A Derived holds its sources for its whole lifetime; release it through the
// disposal protocol (its cleanup unsubscribes from every source).
type Derived struct {
	inner   *Store
	combine func(values []any) any

	mu      sync.Mutex
	values  []any
	pending uint64
	inited  bool
	unsubs  []Unsubscribe
	stopped bool
}

// MaxDerivedSources is the source limit of a single Derived, set by the
// width of its pending bitmask.
const MaxDerivedSources = 64

// NewDerived creates a derived store over sources. A nil source is the one
// hard failure in this system: the combinator cannot run without it, so
// NewDerived panics rather than degrade.
func NewDerived(combine func(values []any) any, sources ...Readable) *Derived {
	if len(sources) == 0 {
		panic("[LOOM E001] NewDerived requires at least one source")
	}
	for _, src := range sources {
		if src == nil {
			panic("[LOOM E001] NewDerived received a nil source")
		}
	}
	if len(sources) > MaxDerivedSources {
		panic("[LOOM E001] NewDerived supports at most 64 sources")
	}

	d := &Derived{
		inner:   New(nil),
		combine: combine,
		values:  make([]any, len(sources)),
	}

	d.unsubs = make([]Unsubscribe, len(sources))
	for i, src := range sources {
		i := i
		d.unsubs[i] = src.Subscribe(
			func(v any) {
				d.mu.Lock()
				d.values[i] = v
				d.pending &^= 1 << uint(i)
				ready := d.inited && d.pending == 0
				d.mu.Unlock()
				if ready {
					d.sync()
				}
			},
			func() {
				d.mu.Lock()
				d.pending |= 1 << uint(i)
				d.mu.Unlock()
			},
		)
	}

	d.mu.Lock()
	d.inited = true
	d.mu.Unlock()
	d.sync()

	return d
}

// sync recomputes and publishes the derived value.
func (d *Derived) sync() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	values := make([]any, len(d.values))
	copy(values, d.values)
	d.mu.Unlock()

	d.inner.Set(d.combine(values))
}

// Get returns the current derived value.
func (d *Derived) Get() any {
	return d.inner.Get()
}

// Subscribe implements Readable.
func (d *Derived) Subscribe(onValue func(any), onInvalidate ...func()) Unsubscribe {
	return d.inner.Subscribe(onValue, onInvalidate...)
}

// Stop unsubscribes from every source. Further source changes no longer
// reach this store; existing subscribers keep the last value. Idempotent.
func (d *Derived) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	unsubs := d.unsubs
	d.unsubs = nil
	d.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}
