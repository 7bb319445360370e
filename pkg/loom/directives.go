package loom

import "github.com/loom-dev/loom/pkg/dom"

// Attribute-value directives form a closed set of recognized wrapper types.
// A directive may be interpolated directly (static) or emitted from a store
// (dynamic); the binder dispatches on the emitted value's type.

// Toggle conditionally includes the attribute it is bound to: present with
// an empty value when On, absent otherwise.
type Toggle struct {
	On bool
}

// ToggleIf builds a Toggle directive.
func ToggleIf(on bool) Toggle {
	return Toggle{On: on}
}

// Handler installs an event listener on the element. The attribute name it
// is bound to yields the event type by stripping the leading "on"
// ("onclick" listens for "click").
type Handler struct {
	Fn dom.Handler
}

// OnEvent builds a Handler directive.
func OnEvent(fn dom.Handler) Handler {
	return Handler{Fn: fn}
}

// Action runs Init against the bound element once materialized. The
// returned cleanup, if any, runs on teardown or when a newer action
// replaces this one.
type Action struct {
	Init func(el *dom.Node) func()
}

// UseAction builds an Action directive.
func UseAction(init func(el *dom.Node) func()) Action {
	return Action{Init: init}
}

// Prop writes the value as a live DOM property instead of a serialized
// attribute.
type Prop struct {
	Value any
}

// PropValue builds a Prop directive.
func PropValue(v any) Prop {
	return Prop{Value: v}
}

// isHandlerShaped reports whether v serializes through the comment token
// form so the surrounding markup stays inert when parsed.
func isHandlerShaped(v any) bool {
	switch v.(type) {
	case Handler, dom.Handler, func(*dom.Event):
		return true
	}
	return false
}

// isQuoteShaped reports whether v's placeholder gets auto-quoted when the
// preceding literal does not already end in a quote character.
func isQuoteShaped(v any) bool {
	switch v.(type) {
	case Toggle, Action:
		return true
	}
	return false
}
