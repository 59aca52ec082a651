// Package svgtree models an SVG document as an owned element tree,
// with parsing and deterministic serialization. It knows nothing of
// the normalization pipeline; higher layers rewrite the tree.
package svgtree

import (
	"fmt"
	"strings"
)

// Attr is one attribute. Names keep their prefix for foreign
// namespaces ("xlink:href" is normalized to "href" at parse time).
type Attr struct {
	Name, Value string
}

// Node is one element. Children are exclusively owned; there are no
// child-to-parent references, ancestry queries walk from the root.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	Text     string // character data, kept only for passthrough content
}

// Document owns a parsed SVG tree.
type Document struct {
	Root *Node
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present, even if empty.
func (n *Node) HasAttr(name string) bool {
	for _, a := range n.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// SetAttr sets an attribute, keeping the position of an existing one.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{name, value})
}

// RemoveAttr removes an attribute if present.
func (n *Node) RemoveAttr(name string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of the subtree.
func (n *Node) Clone() *Node {
	c := &Node{
		Tag:   n.Tag,
		Attrs: append([]Attr(nil), n.Attrs...),
		Text:  n.Text,
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// RemoveChild removes the child (by identity) if present.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

// ReplaceChild substitutes child (by identity) with the given nodes,
// splicing them into its position.
func (n *Node) ReplaceChild(child *Node, with ...*Node) {
	for i, c := range n.Children {
		if c == child {
			rest := append([]*Node(nil), n.Children[i+1:]...)
			n.Children = append(n.Children[:i], with...)
			n.Children = append(n.Children, rest...)
			return
		}
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{Root: d.Root.Clone()}
}

// Walk visits every node depth first with its structural address,
// "/svg[0]/defs[0]/linearGradient[1]". Indices count earlier siblings
// of the same tag. Returning false from fn prunes the subtree.
func (d *Document) Walk(fn func(n *Node, addr string) bool) {
	var rec func(n *Node, addr string)
	rec = func(n *Node, addr string) {
		if !fn(n, addr) {
			return
		}
		counts := map[string]int{}
		for _, c := range n.Children {
			i := counts[c.Tag]
			counts[c.Tag]++
			rec(c, fmt.Sprintf("%s/%s[%d]", addr, c.Tag, i))
		}
	}
	if d.Root != nil {
		rec(d.Root, fmt.Sprintf("/%s[0]", d.Root.Tag))
	}
}

// Address returns the structural address of target, or "" if it is
// not in the tree.
func (d *Document) Address(target *Node) string {
	found := ""
	d.Walk(func(n *Node, addr string) bool {
		if n == target {
			found = addr
			return false
		}
		return found == ""
	})
	return found
}

// FindID returns the first node carrying the id, or nil. The lookup
// table is rebuilt per call; the tree holds no auxiliary indices that
// could go stale between rewrites.
func (d *Document) FindID(id string) *Node {
	byID := d.IDIndex()
	return byID[id]
}

// IDIndex maps each id to the first node declaring it.
func (d *Document) IDIndex() map[string]*Node {
	byID := map[string]*Node{}
	d.Walk(func(n *Node, addr string) bool {
		if id := n.Attr("id"); id != "" {
			if _, seen := byID[id]; !seen {
				byID[id] = n
			}
		}
		return true
	})
	return byID
}

// RefID extracts the id out of a reference value, either "#id" or
// "url(#id)". ok is false for anything else.
func RefID(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "url(") && strings.HasSuffix(v, ")") {
		v = strings.TrimSpace(v[4 : len(v)-1])
	}
	if strings.HasPrefix(v, "#") && len(v) > 1 {
		return v[1:], true
	}
	return "", false
}
