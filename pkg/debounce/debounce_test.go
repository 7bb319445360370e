package debounce

import (
	"sync/atomic"
	"testing"
)

func TestDebouncerCoalesces(t *testing.T) {
	loop := NewLoop()
	d := New(loop.Schedule)

	var ran []int
	d.Invoke(func() { ran = append(ran, 1) })
	d.Invoke(func() { ran = append(ran, 2) })
	d.Invoke(func() { ran = append(ran, 3) })

	loop.Tick()

	if len(ran) != 1 || ran[0] != 3 {
		t.Fatalf("expected only the last callback to run once, got %v", ran)
	}
}

func TestFlushRunsSynchronously(t *testing.T) {
	loop := NewLoop()
	d := New(loop.Schedule)

	ran := false
	d.Invoke(func() { ran = true })
	loop.Flush()

	if !ran {
		t.Fatal("Flush should run the queued callback synchronously")
	}
}

func TestDebouncerReusableAcrossBatches(t *testing.T) {
	loop := NewLoop()
	d := New(loop.Schedule)

	count := 0
	d.Invoke(func() { count++ })
	loop.Flush()
	d.Invoke(func() { count++ })
	loop.Flush()

	if count != 2 {
		t.Fatalf("expected one run per batch, got %d", count)
	}
}

func TestIndependentDebouncersDoNotCoalesce(t *testing.T) {
	loop := NewLoop()
	a := New(loop.Schedule)
	b := New(loop.Schedule)

	var ran []string
	a.Invoke(func() { ran = append(ran, "a") })
	b.Invoke(func() { ran = append(ran, "b") })
	loop.Flush()

	if len(ran) != 2 {
		t.Fatalf("expected both debouncers to run, got %v", ran)
	}
}

func TestLoopDrainsNestedSchedules(t *testing.T) {
	loop := NewLoop()

	var order []int
	loop.Schedule(func() {
		order = append(order, 1)
		loop.Schedule(func() { order = append(order, 2) })
	})
	loop.Flush()

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected nested schedule to drain in order, got %v", order)
	}
}

func TestTickWaitsForAsyncDrain(t *testing.T) {
	loop := NewLoop()

	var count atomic.Int32
	for i := 0; i < 10; i++ {
		loop.Schedule(func() { count.Add(1) })
	}
	loop.Tick()

	if got := count.Load(); got != 10 {
		t.Fatalf("expected 10 callbacks after Tick, got %d", got)
	}
	if loop.Pending() {
		t.Error("loop should be idle after Tick")
	}
}

func TestNilScheduleUsesSharedLoop(t *testing.T) {
	d := New(nil)

	ran := false
	d.Invoke(func() { ran = true })
	Flush()

	if !ran {
		t.Fatal("expected shared loop Flush to run the callback")
	}
	Tick()
}

func TestManualLoopWaitsForFlush(t *testing.T) {
	loop := NewManualLoop()
	d := New(loop.Schedule)

	runs := 0
	d.Invoke(func() { runs++ })
	d.Invoke(func() { runs++ })

	if runs != 0 {
		t.Fatalf("manual loop must not drain on its own, got %d runs", runs)
	}
	if !loop.Pending() {
		t.Fatal("expected queued work")
	}

	loop.Flush()
	if runs != 1 {
		t.Errorf("expected exactly one coalesced run, got %d", runs)
	}
}
