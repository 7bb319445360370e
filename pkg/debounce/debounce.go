// Package debounce provides the micro-scheduler that batches DOM writes and
// coalesces watch re-evaluation.
//
// A Debouncer keeps only the last callback handed to it within one batch
// ("last write wins"). Callbacks drain on the shared Loop, the cooperative
// stand-in for a microtask queue: Tick blocks until the current batch has
// drained, Flush drains it synchronously on the caller.
package debounce

import "sync"

// Loop is a cooperative run queue. Scheduling the first callback of a batch
// starts a single drain; further callbacks scheduled before the drain runs
// join the same batch.
type Loop struct {
	mu        sync.Mutex
	queue     []func()
	scheduled bool
	draining  bool
	manual    bool
	idle      *sync.Cond
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	l := &Loop{}
	l.idle = sync.NewCond(&l.mu)
	return l
}

// NewManualLoop creates a loop that never drains on its own: queued
// callbacks wait for an explicit Flush. Deterministic batching assertions
// in tests hang off this; do not Tick a manual loop with work queued.
func NewManualLoop() *Loop {
	l := NewLoop()
	l.manual = true
	return l
}

// shared is the module-level loop backing the default scheduler.
var shared = NewLoop()

// Shared returns the module-level loop used by default schedulers.
func Shared() *Loop {
	return shared
}

// Schedule queues fn. The first callback of a batch arms an asynchronous
// drain; one drain serves the whole batch.
func (l *Loop) Schedule(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	if !l.manual && !l.scheduled && !l.draining {
		l.scheduled = true
		go l.drainAsync()
	}
	l.mu.Unlock()
}

func (l *Loop) drainAsync() {
	l.mu.Lock()
	l.scheduled = false
	l.drainLocked()
	l.mu.Unlock()
}

// Flush synchronously drains every queued callback, including callbacks they
// queue in turn. For callers needing deterministic assertions without waiting
// on the scheduler.
func (l *Loop) Flush() {
	l.mu.Lock()
	for l.draining {
		// Another goroutine is draining; wait for it, then drain leftovers.
		l.idle.Wait()
	}
	l.drainLocked()
	l.mu.Unlock()
}

// drainLocked runs the queue to exhaustion. Called with l.mu held; releases
// it around each callback.
func (l *Loop) drainLocked() {
	l.draining = true
	for len(l.queue) > 0 {
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()
		fn()
		l.mu.Lock()
	}
	l.draining = false
	l.idle.Broadcast()
}

// Tick blocks until the loop has drained all pending callbacks. The Go
// rendition of awaiting a microtask boundary in async test code.
func (l *Loop) Tick() {
	l.mu.Lock()
	for l.draining || l.scheduled || len(l.queue) > 0 {
		l.idle.Wait()
	}
	l.mu.Unlock()
}

// Pending reports whether callbacks are queued or draining.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.draining || len(l.queue) > 0
}

// Flush drains the shared loop synchronously.
func Flush() {
	shared.Flush()
}

// Tick waits for the shared loop to drain.
func Tick() {
	shared.Tick()
}

// Debouncer coalesces callbacks: within one batch only the last callback
// handed to Invoke runs, exactly once, when the batch drains.
type Debouncer struct {
	schedule func(func())

	mu     sync.Mutex
	latest func()
	armed  bool
}

// New creates a debouncer draining through schedule. A nil schedule uses the
// shared loop.
func New(schedule func(func())) *Debouncer {
	if schedule == nil {
		schedule = shared.Schedule
	}
	return &Debouncer{schedule: schedule}
}

// Invoke replaces any previously queued, not-yet-run callback with fn.
func (d *Debouncer) Invoke(fn func()) {
	d.mu.Lock()
	d.latest = fn
	if d.armed {
		d.mu.Unlock()
		return
	}
	d.armed = true
	d.mu.Unlock()

	d.schedule(func() {
		d.mu.Lock()
		run := d.latest
		d.latest = nil
		d.armed = false
		d.mu.Unlock()
		if run != nil {
			run()
		}
	})
}
