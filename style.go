package picosvg

import (
	"fmt"

	"github.com/gofonts/picosvg/svgtree"
)

// Presentation properties the pipeline understands. Inline style
// declarations for these are promoted onto the element; anything else
// in a style attribute is editor noise and is dropped.
var knownProperties = map[string]bool{
	"fill":              true,
	"fill-rule":         true,
	"fill-opacity":      true,
	"stroke":            true,
	"stroke-width":      true,
	"stroke-linecap":    true,
	"stroke-linejoin":   true,
	"stroke-miterlimit": true,
	"stroke-dasharray":  true,
	"stroke-dashoffset": true,
	"stroke-opacity":    true,
	"opacity":           true,
	"clip-path":         true,
	"clip-rule":         true,
	"display":           true,
	"color":             true,
	"stop-color":        true,
	"stop-opacity":      true,
}

// Properties a group passes down to its descendants during
// flattening. A child's explicit value always wins.
var inheritedProperties = []string{
	"fill", "fill-rule", "fill-opacity",
	"stroke", "stroke-width", "stroke-linecap", "stroke-linejoin",
	"stroke-miterlimit", "stroke-dasharray", "stroke-dashoffset",
	"stroke-opacity", "clip-rule", "color",
}

// Attributes various editors attach that carry no rendering meaning.
var junkAttrs = []string{
	"enable-background", "data-name", "class",
}

func isJunkProperty(prop string) bool {
	for _, junk := range junkAttrs {
		if prop == junk {
			return true
		}
	}
	return false
}

// applyStyles promotes inline style declarations to presentation
// attributes, with CSS precedence over a same-named attribute, and
// strips editor junk.
func (p *pipeline) applyStyles() error {
	var firstErr error
	p.doc.Walk(func(n *svgtree.Node, addr string) bool {
		if firstErr != nil {
			return false
		}
		if style := n.Attr("style"); style != "" {
			decls, leftover, err := svgtree.ParseDeclarations(style, func(prop string) bool {
				return knownProperties[prop] || isJunkProperty(prop)
			})
			if err != nil {
				firstErr = err
				return false
			}
			for _, d := range decls {
				if isJunkProperty(d.Property) {
					continue
				}
				n.SetAttr(d.Property, d.Value)
			}
			// declarations outside the known set stay as style text
			if leftover == "" {
				n.RemoveAttr("style")
			} else {
				n.SetAttr("style", leftover)
			}
		}
		for _, junk := range junkAttrs {
			n.RemoveAttr(junk)
		}
		return true
	})
	return firstErr
}

// Element kinds the canonical pipeline can digest.
var supportedTags = map[string]bool{
	"svg": true, "g": true, "defs": true, "use": true, "clipPath": true,
	"path": true, "rect": true, "circle": true, "ellipse": true,
	"line": true, "polygon": true, "polyline": true,
	"linearGradient": true, "radialGradient": true, "stop": true,
}

// Non-rendering metadata, always removed without complaint.
var droppedTags = map[string]bool{
	"title": true, "desc": true, "metadata": true,
}

var textTags = map[string]bool{
	"text": true, "tspan": true, "textPath": true,
}

var defsOnlyTags = map[string]bool{
	"filter": true, "mask": true, "pattern": true, "switch": true,
	"symbol": true, "marker": true, "style": true,
}

// enforcePolicy rejects, drops or marks for passthrough every element
// outside the supported set, per the configured options. The first
// offending element in document order fails the run.
func (p *pipeline) enforcePolicy() error {
	var firstErr error
	var remove []*svgtree.Node
	p.doc.Walk(func(n *svgtree.Node, addr string) bool {
		if firstErr != nil {
			return false
		}
		switch {
		case supportedTags[n.Tag]:
			return true
		case droppedTags[n.Tag]:
			remove = append(remove, n)
			return false
		case textTags[n.Tag] && p.opts.allowText,
			defsOnlyTags[n.Tag] && p.opts.allowAllDefs:
			p.passthrough[n] = true
			return false
		default:
			if p.opts.dropUnsupported {
				remove = append(remove, n)
				return false
			}
			firstErr = fmt.Errorf("BadElement: %s", addr)
			return false
		}
	})
	if firstErr != nil {
		return firstErr
	}
	for _, n := range remove {
		p.removeNode(n)
	}
	return nil
}

// removeNode detaches n from wherever it sits in the tree.
func (p *pipeline) removeNode(target *svgtree.Node) {
	var rec func(n *svgtree.Node) bool
	rec = func(n *svgtree.Node) bool {
		for _, c := range n.Children {
			if c == target {
				n.RemoveChild(target)
				return true
			}
			if rec(c) {
				return true
			}
		}
		return false
	}
	rec(p.doc.Root)
}
