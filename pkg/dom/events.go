package dom

import "sync"

// Event is delivered to listeners on Dispatch. Data carries host-specific
// payload (form values, key codes) set by whatever drives the tree.
type Event struct {
	Type   string
	Target *Node
	Data   map[string]any
}

// Handler handles one dispatched event.
type Handler func(*Event)

// Listener/property state lives in side tables keyed by node identity,
// since serialized HTML has no place for either.
var (
	sideMu    sync.Mutex
	listeners = map[*Node]map[string]Handler{}
	props     = map[*Node]map[string]any{}
)

// AddEventListener installs h for the given event type on n, replacing any
// previous listener for that type.
func AddEventListener(n *Node, event string, h Handler) {
	if n == nil || h == nil {
		return
	}
	sideMu.Lock()
	defer sideMu.Unlock()
	m := listeners[n]
	if m == nil {
		m = map[string]Handler{}
		listeners[n] = m
	}
	m[event] = h
}

// RemoveEventListener removes the listener for the given event type.
func RemoveEventListener(n *Node, event string) {
	sideMu.Lock()
	defer sideMu.Unlock()
	if m := listeners[n]; m != nil {
		delete(m, event)
		if len(m) == 0 {
			delete(listeners, n)
		}
	}
}

// HasEventListener reports whether n has a listener for the event type.
func HasEventListener(n *Node, event string) bool {
	sideMu.Lock()
	defer sideMu.Unlock()
	m := listeners[n]
	_, ok := m[event]
	return ok
}

// Dispatch synchronously invokes n's listener for the event type, if any,
// and reports whether one ran.
func Dispatch(n *Node, event string, data map[string]any) bool {
	sideMu.Lock()
	h := listeners[n][event]
	sideMu.Unlock()
	if h == nil {
		return false
	}
	h(&Event{Type: event, Target: n, Data: data})
	return true
}

// SetProperty stores a live property on n. Properties are DOM-object state
// (checked, value, scrollTop) distinct from serialized attributes.
func SetProperty(n *Node, name string, value any) {
	if n == nil {
		return
	}
	sideMu.Lock()
	defer sideMu.Unlock()
	m := props[n]
	if m == nil {
		m = map[string]any{}
		props[n] = m
	}
	m[name] = value
}

// Property returns n's live property value.
func Property(n *Node, name string) (any, bool) {
	sideMu.Lock()
	defer sideMu.Unlock()
	v, ok := props[n][name]
	return v, ok
}

// Release drops all listener and property state for n and its subtree.
// Call when a subtree is discarded so the side tables do not pin it.
func Release(n *Node) {
	Walk(n, func(c *Node) bool {
		sideMu.Lock()
		delete(listeners, c)
		delete(props, c)
		sideMu.Unlock()
		return true
	})
}
