package loom

import (
	"regexp"
	"strings"
)

// Placeholder grammar: #{ key } or #{ key : globalPosition }. Whitespace
// around key and position is insignificant; the optional position suffix is
// informational and ignored during substitution. The comment form
// /*#{ key }*/ keeps handler-shaped placeholders inert in parsed markup.
var placeholderRe = regexp.MustCompile(`(?:/\*)?#\{\s*([a-zA-Z0-9_-]+)\s*(?::\s*[0-9]+\s*)?\}(?:\*/)?`)

// containsPlaceholder is the cheap pre-check binders use before running the
// grammar over a literal.
func containsPlaceholder(s string) bool {
	return strings.Contains(s, "#{")
}

// placeholderKeys returns the ordered, deduplicated keys appearing in s.
func placeholderKeys(s string) []string {
	var keys []string
	seen := map[string]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(s, -1) {
		key := m[1]
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// substitutePlaceholders replaces every placeholder in literal with
// resolve(key), preserving all literal text.
func substitutePlaceholders(literal string, resolve func(key string) string) string {
	return placeholderRe.ReplaceAllStringFunc(literal, func(m string) string {
		sub := placeholderRe.FindStringSubmatch(m)
		return resolve(sub[1])
	})
}

// splitTextRuns splits a child-text literal into interleaved literal runs
// and single-placeholder slots: runs[0] + key[0] + runs[1] + key[1] + ... +
// runs[len(keys)]. Unlike placeholderKeys, repeated keys stay repeated:
// every occurrence becomes its own independently subscribed slot.
func splitTextRuns(literal string) (runs []string, keys []string) {
	locs := placeholderRe.FindAllStringSubmatchIndex(literal, -1)
	prev := 0
	for _, loc := range locs {
		runs = append(runs, literal[prev:loc[0]])
		keys = append(keys, literal[loc[2]:loc[3]])
		prev = loc[1]
	}
	runs = append(runs, literal[prev:])
	return runs, keys
}
