package loom

import (
	"testing"

	"github.com/loom-dev/loom/pkg/dom"
	"github.com/loom-dev/loom/pkg/store"
)

func TestCondFirstTrueWins(t *testing.T) {
	a := store.New(true)
	b := store.New(true)

	c := If(a, "A").ElseIf(b, "B").Else("C")
	if got := c.Get(); got != "A" {
		t.Errorf("expected first truthy arm, got %v", got)
	}

	a.Set(false)
	if got := c.Get(); got != "B" {
		t.Errorf("expected second arm, got %v", got)
	}

	b.Set(false)
	if got := c.Get(); got != "C" {
		t.Errorf("expected else content, got %v", got)
	}

	a.Set(true)
	if got := c.Get(); got != "A" {
		t.Errorf("expected first arm again, got %v", got)
	}
	c.Stop()
}

func TestCondStaticConditions(t *testing.T) {
	c := If(false, "A").ElseIf("nonempty", "B").Else("C")
	defer c.Stop()
	if got := c.Get(); got != "B" {
		t.Errorf("truthiness of plain values should decide, got %v", got)
	}
}

func TestCondNoElse(t *testing.T) {
	c := If(false, "A")
	defer c.Stop()
	if got := c.Get(); got != nil {
		t.Errorf("no matching arm and no else should yield nil, got %v", got)
	}
}

func TestCondConstructedContentDisposal(t *testing.T) {
	setups, cleanups := 0, 0
	factory := func() *Template {
		return Tpl([]string{"<div use=", "></div>"},
			UseAction(func(_ *dom.Node) func() {
				setups++
				return func() { cleanups++ }
			}))
	}

	on := store.New(true)
	c := If(on, factory).Else("off").WithOptions(WithMode(Eager))
	defer c.Stop()

	if c.Get() == nil || setups != 1 {
		t.Fatalf("expected the branch to render once, setups=%d", setups)
	}

	on.Set(false)
	if cleanups != 1 {
		t.Errorf("leaving the branch must dispose constructed content, cleanups=%d", cleanups)
	}

	on.Set(true)
	if setups != 2 {
		t.Errorf("re-entering the branch must render fresh content, setups=%d", setups)
	}
}

func TestCondCallerNodesPassThrough(t *testing.T) {
	node := dom.NewElement("aside")
	on := store.New(false)

	c := If(on, "ignored").Else(node)
	defer c.Stop()

	if c.Get() != node {
		t.Fatal("caller node should pass through by identity")
	}

	// Flipping away and back must hand out the same node untouched.
	on.Set(true)
	on.Set(false)
	if c.Get() != node {
		t.Error("caller node lifecycle belongs to the caller")
	}
}

func TestCondInterpolated(t *testing.T) {
	on := store.New(true)
	yes := func() *Template { return Tpl([]string{"<b>yes</b>"}) }

	c := mustRender(t,
		Tpl([]string{"<div>", "</div>"}, If(on, yes).Else("no").WithOptions(WithMode(Eager))),
		WithMode(Eager))

	if got := c.HTML(); got != "<div><b>yes</b></div>" {
		t.Fatalf("unexpected html: %s", got)
	}

	on.Set(false)
	if got := c.HTML(); got != "<div>no</div>" {
		t.Errorf("branch switch should replace content: %s", got)
	}
}
