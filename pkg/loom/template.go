package loom

import (
	"log/slog"
	"strings"
)

var logger = slog.Default().With("component", "loom")

// Template is an ordered list of literal fragments interleaved with
// interpolated values. A well-formed template has exactly one more fragment
// than it has values.
//
// Two templates have the same shape iff they share the identical fragments
// backing array, not merely equal content. The watch/rebind path relies on
// this identity, so a render function re-evaluated for one call site must
// return the same fragments slice every time (declare it once, package- or
// closure-level, and reuse it).
type Template struct {
	Fragments []string
	Values    []any

	// textOnly marks templates built with Text; their output is flat text.
	textOnly bool
}

// Tpl builds a markup template from fragments and values.
func Tpl(fragments []string, values ...any) *Template {
	t := &Template{Fragments: fragments, Values: values}
	t.normalize()
	if first := strings.TrimSpace(firstLiteral(fragments)); first != "" && !strings.HasPrefix(first, "<") {
		logger.Warn("markup template does not start with a tag", "code", "W102")
	}
	return t
}

// Text builds a text-only template. Markup inside is not rejected, only
// warned about: the compiler cannot safely veto template authorship.
func Text(fragments []string, values ...any) *Template {
	t := &Template{Fragments: fragments, Values: values, textOnly: true}
	t.normalize()
	for _, f := range fragments {
		if strings.ContainsRune(f, '<') {
			logger.Warn("text template contains markup", "code", "W101")
			break
		}
	}
	return t
}

// normalize pads fragments so the lockstep invariant holds; a mismatch is a
// caller bug reported as a warning, not rejected.
func (t *Template) normalize() {
	if len(t.Fragments) == len(t.Values)+1 {
		return
	}
	logger.Warn("fragment and value counts do not line up",
		"code", "W103", "fragments", len(t.Fragments), "values", len(t.Values))
	for len(t.Fragments) < len(t.Values)+1 {
		t.Fragments = append(t.Fragments, "")
	}
}

// SameShape reports whether a and b share fragment-sequence identity.
func SameShape(a, b *Template) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Fragments) != len(b.Fragments) {
		return false
	}
	if len(a.Fragments) == 0 {
		return true
	}
	return &a.Fragments[0] == &b.Fragments[0]
}

func firstLiteral(fragments []string) string {
	if len(fragments) == 0 {
		return ""
	}
	return fragments[0]
}
