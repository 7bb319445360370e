// Package loomtest provides testing helpers for bound templates.
//
// The loomtest package reduces boilerplate when asserting on live template
// output by pairing every fixture with its own manual scheduler loop, so
// batched updates only apply when the test says so.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    count := store.New(0)
//	    f := loomtest.Render(t, Tpl([]string{"<p>", "</p>"}, count))
//	    f.ExpectHTML("<p>0</p>")
//
//	    count.Set(1)
//	    f.ExpectHTML("<p>0</p>") // not flushed yet
//	    f.Flush().ExpectHTML("<p>1</p>")
//	}
//
// # Event Dispatch
//
// Elements carrying ref attributes can receive synthetic events:
//
//	f := loomtest.Render(t, Tpl(
//	    []string{`<button ref:go onclick=`, `>go</button>`},
//	    OnEvent(handler)))
//	f.Click("go")
//
// # Assertions
//
//	f.ExpectContains("Welcome")
//	f.ExpectNotContains("Error")
package loomtest
