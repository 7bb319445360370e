package loomtest

import (
	"strings"
	"testing"

	"github.com/loom-dev/loom/pkg/debounce"
	"github.com/loom-dev/loom/pkg/dom"
	"github.com/loom-dev/loom/pkg/loom"
)

// Fixture wraps a bound template with a manual scheduler loop and
// assertion helpers.
type Fixture struct {
	t        *testing.T
	loop     *debounce.Loop
	compiled *loom.Compiled
}

// Render binds tpl on a fresh manual loop and fails the test on error.
// Options are forwarded; the loop option is fixed by the fixture.
func Render(t *testing.T, tpl *loom.Template, opts ...loom.Option) *Fixture {
	t.Helper()
	loop := debounce.NewManualLoop()
	opts = append(opts, loom.WithLoop(loop))
	c, err := loom.Render(tpl, opts...)
	if err != nil {
		t.Fatalf("loomtest: render: %v", err)
	}
	f := &Fixture{t: t, loop: loop, compiled: c}
	t.Cleanup(f.Dispose)
	return f
}

// Watch is the watch-mode counterpart of Render.
func Watch(t *testing.T, build func(track loom.Track) *loom.Template, opts ...loom.Option) *Fixture {
	t.Helper()
	loop := debounce.NewManualLoop()
	opts = append(opts, loom.WithLoop(loop))
	c, err := loom.Watch(build, opts...)
	if err != nil {
		t.Fatalf("loomtest: watch: %v", err)
	}
	f := &Fixture{t: t, loop: loop, compiled: c}
	t.Cleanup(f.Dispose)
	return f
}

// Compiled exposes the underlying binding for direct inspection.
func (f *Fixture) Compiled() *loom.Compiled {
	return f.compiled
}

// Flush drains the fixture's scheduler loop, applying every batched write.
func (f *Fixture) Flush() *Fixture {
	f.loop.Flush()
	return f
}

// HTML serializes the current subtree without flushing pending batches.
func (f *Fixture) HTML() string {
	return dom.RenderAll(f.compiled.Roots())
}

// Ref returns the element registered under a strict ref name, failing the
// test when absent.
func (f *Fixture) Ref(name string) *dom.Node {
	f.t.Helper()
	n := f.compiled.Refs().Get(name)
	if n == nil {
		f.t.Fatalf("loomtest: no ref %q", name)
	}
	return n
}

// Dispatch fires a synthetic event at the ref'd element and flushes.
func (f *Fixture) Dispatch(ref, event string, data map[string]any) *Fixture {
	f.t.Helper()
	if !dom.Dispatch(f.Ref(ref), event, data) {
		f.t.Fatalf("loomtest: no %q listener on ref %q", event, ref)
	}
	return f.Flush()
}

// Click is shorthand for Dispatch(ref, "click", nil).
func (f *Fixture) Click(ref string) *Fixture {
	f.t.Helper()
	return f.Dispatch(ref, "click", nil)
}

// ExpectHTML asserts the exact serialized output.
func (f *Fixture) ExpectHTML(want string) *Fixture {
	f.t.Helper()
	if got := f.HTML(); got != want {
		f.t.Errorf("expected html %q, got %q", want, got)
	}
	return f
}

// ExpectContains asserts the output contains the substring.
func (f *Fixture) ExpectContains(want string) *Fixture {
	f.t.Helper()
	if got := f.HTML(); !strings.Contains(got, want) {
		f.t.Errorf("expected output to contain %q, got:\n%s", want, truncate(got, 500))
	}
	return f
}

// ExpectNotContains asserts the output does not contain the substring.
func (f *Fixture) ExpectNotContains(unwanted string) *Fixture {
	f.t.Helper()
	if got := f.HTML(); strings.Contains(got, unwanted) {
		f.t.Errorf("expected output to not contain %q, got:\n%s", unwanted, truncate(got, 500))
	}
	return f
}

// Dispose tears the binding down. Registered automatically as a test
// cleanup; calling it again is a no-op.
func (f *Fixture) Dispose() {
	f.compiled.Dispose()
}

// RenderToString binds tpl, serializes it once, and disposes it.
func RenderToString(tpl *loom.Template, opts ...loom.Option) string {
	c, err := loom.Render(tpl, append(opts, loom.WithMode(loom.Eager))...)
	if err != nil {
		return ""
	}
	defer c.Dispose()
	return dom.RenderAll(c.Roots())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
