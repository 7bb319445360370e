package loom

import (
	"reflect"
	"strconv"
	"sync"
)

// Context tells a serializer where the value is being rendered.
type Context uint8

const (
	// AttrValue is a placeholder inside an attribute value.
	AttrValue Context = iota
	// ChildText is a placeholder in a text run with a parent element.
	ChildText
	// OrphanText is a placeholder in a parentless text node.
	OrphanText
)

// String returns the context's name.
func (c Context) String() string {
	switch c {
	case AttrValue:
		return "attr-value"
	case ChildText:
		return "child-text"
	case OrphanText:
		return "orphan-text"
	default:
		return "unknown"
	}
}

// Serializer is a partial value-to-text conversion: it may transform
// specific types and pass others through by returning ok=false.
type Serializer func(v any, ctx Context, key string) (s string, ok bool)

// globalSerializer is the process-wide serializer slot. Single-writer
// contract: set it once at startup (or around a test) and reset it rather
// than racing writers.
var globalSerializer struct {
	mu sync.RWMutex
	fn Serializer
}

// SetGlobalSerializer installs a process-wide partial serializer consulted
// after any per-call serializer and before the default conversion.
func SetGlobalSerializer(s Serializer) {
	globalSerializer.mu.Lock()
	globalSerializer.fn = s
	globalSerializer.mu.Unlock()
}

// ResetGlobalSerializer restores the identity global serializer.
func ResetGlobalSerializer() {
	SetGlobalSerializer(nil)
}

func getGlobalSerializer() Serializer {
	globalSerializer.mu.RLock()
	defer globalSerializer.mu.RUnlock()
	return globalSerializer.fn
}

// serialize runs the two-stage chain, then the fixed default conversion.
// Strings enter the DOM as text content and are escaped by the HTML
// serializer; bound values are never reparsed as markup.
func serialize(v any, ctx Context, key string, perCall Serializer) string {
	if perCall != nil {
		if s, ok := perCall(v, ctx, key); ok {
			return s
		}
	}
	if global := getGlobalSerializer(); global != nil {
		if s, ok := global(v, ctx, key); ok {
			return s
		}
	}
	return defaultSerialize(v)
}

// defaultSerialize converts any remaining value to its canonical text form.
func defaultSerialize(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Chan:
		return "[function]"
	default:
		return "[object]"
	}
}
