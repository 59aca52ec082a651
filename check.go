package picosvg

import (
	"fmt"

	"github.com/gofonts/picosvg/svgtree"
)

// Check walks the tree and reports every violation of the canonical
// form, in document order; an empty result means the document is a
// valid picosvg. Violations are reported, never raised: severity is
// the caller's call. AllowText and AllowAllDefs widen the accepted
// grammar the same way they do during normalization.
func (s *SVG) Check(opts ...Option) []string {
	o := buildOptions(opts)
	var out []string

	root := s.doc.Root
	if len(root.Children) == 0 || root.Children[0].Tag != "defs" {
		out = append(out, "MissingElement: /svg[0]/defs[0]")
	}

	firstID := map[string]string{}
	var walk func(n *svgtree.Node, addr string, allowed func(child *svgtree.Node) bool)
	walk = func(n *svgtree.Node, addr string, allowed func(child *svgtree.Node) bool) {
		counts := map[string]int{}
		for _, c := range n.Children {
			childAddr := fmt.Sprintf("%s/%s[%d]", addr, c.Tag, counts[c.Tag])
			counts[c.Tag]++

			if id := c.Attr("id"); id != "" {
				if first, seen := firstID[id]; seen {
					out = append(out, fmt.Sprintf(
						"BadElement: %s reuses id=%q, first seen at %s", childAddr, id, first))
				} else {
					firstID[id] = childAddr
				}
			}
			if !allowed(c) {
				out = append(out, "BadElement: "+childAddr)
				continue
			}
			walk(c, childAddr, childGrammar(c, o))
		}
	}
	walk(root, "/svg[0]", childGrammar(root, o))
	return out
}

// childGrammar returns the rule deciding which children an element of
// the canonical form may hold.
func childGrammar(n *svgtree.Node, o options) func(*svgtree.Node) bool {
	switch n.Tag {
	case "svg":
		seenDefs := false
		return func(c *svgtree.Node) bool {
			switch {
			case c.Tag == "defs":
				// exactly one defs, leading
				ok := !seenDefs && len(n.Children) > 0 && n.Children[0] == c
				seenDefs = true
				return ok
			case c.Tag == "path", c.Tag == "g":
				return true
			case textTags[c.Tag]:
				return o.allowText
			default:
				return false
			}
		}
	case "defs":
		return func(c *svgtree.Node) bool {
			return gradientTags[c.Tag] || (o.allowAllDefs && defsOnlyTags[c.Tag])
		}
	case "linearGradient", "radialGradient":
		return func(c *svgtree.Node) bool { return c.Tag == "stop" }
	case "g":
		return func(c *svgtree.Node) bool {
			return c.Tag == "path" || (o.allowText && textTags[c.Tag])
		}
	default:
		if textTags[n.Tag] || defsOnlyTags[n.Tag] {
			// passthrough content is opaque
			return func(*svgtree.Node) bool { return true }
		}
		return func(*svgtree.Node) bool { return false }
	}
}
