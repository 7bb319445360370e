// Package dom wraps golang.org/x/net/html with the mutable-tree operations
// the binding engine needs: fragment parsing, attribute access, node
// surgery, and side tables for event listeners and live properties (which
// have no representation in serialized HTML).
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is the tree node type. It is x/net/html's node; nodes returned by
// ParseFragment are detached roots (nil Parent).
type Node = html.Node

// ParseFragment parses markup in a <div> body context and returns the
// resulting top-level nodes, detached from any parent. Plain text yields a
// single parentless text node.
func ParseFragment(markup string) ([]*Node, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	return html.ParseFragment(strings.NewReader(markup), ctx)
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// NewElement creates a detached element node.
func NewElement(tag string) *Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// IsText reports whether n is a text node.
func IsText(n *Node) bool {
	return n != nil && n.Type == html.TextNode
}

// IsElement reports whether n is an element node.
func IsElement(n *Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Render serializes n to HTML.
func Render(n *Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

// RenderAll serializes a node sequence to HTML.
func RenderAll(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return ""
		}
	}
	return sb.String()
}

// Attr returns the value of the named attribute.
func Attr(n *Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute, preserving source order for
// existing attributes.
func SetAttr(n *Node, name, value string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr removes the named attribute if present.
func RemoveAttr(n *Node, name string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// HasAttr reports whether the named attribute is present.
func HasAttr(n *Node, name string) bool {
	_, ok := Attr(n, name)
	return ok
}

// Detach removes n from its parent, if any. Listener and property state
// survives detachment; use Release when the node is discarded for good.
func Detach(n *Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Replace swaps old for replacement in old's parent. old must be attached.
func Replace(old, replacement *Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	Detach(replacement)
	parent.InsertBefore(replacement, old)
	parent.RemoveChild(old)
}

// ReplaceWithNodes swaps old for a sequence of nodes, preserving order.
func ReplaceWithNodes(old *Node, nodes []*Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	for _, n := range nodes {
		Detach(n)
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)
}

// InsertAt inserts node as the index-th child of parent. An index at or past
// the end appends.
func InsertAt(parent, node *Node, index int) {
	Detach(node)
	ref := parent.FirstChild
	for i := 0; i < index && ref != nil; i++ {
		ref = ref.NextSibling
	}
	parent.InsertBefore(node, ref)
}

// Append adds node as the last child of parent.
func Append(parent, node *Node) {
	Detach(node)
	parent.AppendChild(node)
}

// Children returns parent's children as a slice.
func Children(parent *Node) []*Node {
	var out []*Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// Walk visits n and every descendant depth-first. Returning false from visit
// skips the node's children.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, visit)
	}
}
