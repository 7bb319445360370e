package dom

import "strings"

// refPrefix marks an element for retrieval by name. The attribute is
// stripped during extraction.
const refPrefix = "ref:"

// Refs holds elements collected by ExtractRefs.
//
// Get is the strict view: exact name match, case-insensitive. Loose
// normalizes away '-', '_' and letter case so "user-name", "user_name" and
// "userName" all address the same entry, last write winning on collision.
type Refs struct {
	strict map[string]*Node
	loose  map[string]*Node
}

// ExtractRefs walks the given roots, collects every element carrying a
// ref:<name> attribute and strips the attribute from the tree.
func ExtractRefs(roots ...*Node) *Refs {
	r := &Refs{
		strict: map[string]*Node{},
		loose:  map[string]*Node{},
	}
	for _, root := range roots {
		Walk(root, func(n *Node) bool {
			if !IsElement(n) {
				return true
			}
			for i := 0; i < len(n.Attr); {
				key := n.Attr[i].Key
				if !strings.HasPrefix(key, refPrefix) {
					i++
					continue
				}
				name := key[len(refPrefix):]
				if name != "" {
					r.strict[strings.ToLower(name)] = n
					r.loose[normalizeRefName(name)] = n
				}
				n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			}
			return true
		})
	}
	return r
}

// Get returns the element registered under name, matching case-insensitively
// but otherwise exactly.
func (r *Refs) Get(name string) *Node {
	return r.strict[strings.ToLower(name)]
}

// Loose returns the element whose normalized name matches: '-', '_' and
// case differences are ignored.
func (r *Refs) Loose(name string) *Node {
	return r.loose[normalizeRefName(name)]
}

// Len returns the number of strict entries.
func (r *Refs) Len() int {
	return len(r.strict)
}

func normalizeRefName(name string) string {
	var sb strings.Builder
	for _, ch := range name {
		if ch == '-' || ch == '_' {
			continue
		}
		sb.WriteRune(ch)
	}
	return strings.ToLower(sb.String())
}
