package picosvg

import (
	"errors"
	"fmt"

	"github.com/gofonts/picosvg/svgpath"
	"github.com/gofonts/picosvg/svgtree"
)

// resolveUses inlines every use element as a deep copy of its target,
// composing the use's x/y offset and transform ahead of the target's
// own transform chain. Targets holding further use references resolve
// first; a reference cycle fails the run.
func (p *pipeline) resolveUses() error {
	// expansions are bounded: a cycle that escapes per-expansion
	// detection would otherwise grow the tree forever
	for budget := 1000; budget > 0; budget-- {
		use := p.findFirst("use")
		if use == nil {
			return nil
		}
		if err := p.expandUse(use, map[string]bool{}); err != nil {
			return err
		}
	}
	return errors.New("picosvg: use references do not resolve, likely a cycle")
}

func (p *pipeline) findFirst(tag string) *svgtree.Node {
	var found *svgtree.Node
	p.doc.Walk(func(n *svgtree.Node, addr string) bool {
		if found != nil || p.passthrough[n] {
			return false
		}
		if n.Tag == tag {
			found = n
			return false
		}
		return true
	})
	return found
}

func (p *pipeline) expandUse(use *svgtree.Node, seen map[string]bool) error {
	id, ok := svgtree.RefID(use.Attr("href"))
	if !ok {
		return fmt.Errorf("picosvg: use without target at %s", p.doc.Address(use))
	}
	if seen[id] {
		return fmt.Errorf("picosvg: use reference cycle involving #%s", id)
	}
	seen[id] = true
	target := p.doc.FindID(id)
	if target == nil {
		return fmt.Errorf("picosvg: use references missing id #%s at %s", id, p.doc.Address(use))
	}

	// resolve references inside the target before copying it
	for {
		var inner *svgtree.Node
		if target.Tag == "use" {
			inner = target
		} else {
			for _, c := range target.Children {
				if c.Tag == "use" {
					inner = c
					break
				}
			}
		}
		if inner == nil {
			break
		}
		if err := p.expandUse(inner, seen); err != nil {
			return err
		}
		if inner == target {
			// the target was itself a use and has been replaced
			target = p.doc.FindID(id)
			if target == nil {
				return fmt.Errorf("picosvg: use references missing id #%s", id)
			}
		}
	}

	x, y, err := attrCoords(use, "x", "y")
	if err != nil {
		return err
	}
	m := svgpath.Identity
	if tr := use.Attr("transform"); tr != "" {
		if m, err = svgpath.ParseTransform(tr); err != nil {
			return err
		}
	}
	m = m.Translate(x, y)
	if tr := target.Attr("transform"); tr != "" {
		tm, err := svgpath.ParseTransform(tr)
		if err != nil {
			return err
		}
		m = m.Mult(tm)
	}

	inlined := target.Clone()
	inlined.RemoveAttr("id")
	inlined.RemoveAttr("transform")
	if !m.IsIdentity(0) {
		inlined.SetAttr("transform", formatMatrix(m))
	}
	// presentation attributes on the use act as inherited defaults
	for _, a := range use.Attrs {
		switch a.Name {
		case "href", "x", "y", "transform", "width", "height", "id":
		default:
			if !inlined.HasAttr(a.Name) {
				inlined.SetAttr(a.Name, a.Value)
			}
		}
	}
	p.replaceNode(use, inlined)
	return nil
}

// resolveNestedSVGs splices each nested svg into the parent coordinate
// space: its viewBox/width/height become a transform on a group, and
// the nested viewport becomes a clip on that group.
func (p *pipeline) resolveNestedSVGs() error {
	for {
		var nested *svgtree.Node
		p.doc.Walk(func(n *svgtree.Node, addr string) bool {
			if nested != nil || p.passthrough[n] {
				return false
			}
			if n.Tag == "svg" && n != p.doc.Root {
				nested = n
				return false
			}
			return true
		})
		if nested == nil {
			return nil
		}
		if err := p.spliceNestedSVG(nested); err != nil {
			return err
		}
	}
}

func (p *pipeline) spliceNestedSVG(nested *svgtree.Node) error {
	x, y, err := attrCoords(nested, "x", "y")
	if err != nil {
		return err
	}
	vx, vy, vw, vh, hasVB, err := (&svgtree.Document{Root: nested}).ViewBox()
	if err != nil {
		return err
	}
	w, h := vw, vh
	if wa := nested.Attr("width"); wa != "" {
		if w, err = svgtree.ParseLength(wa); err != nil {
			return err
		}
	}
	if ha := nested.Attr("height"); ha != "" {
		if h, err = svgtree.ParseLength(ha); err != nil {
			return err
		}
	}

	m := svgpath.Identity.Translate(x, y)
	if hasVB && vw > 0 && vh > 0 {
		if w > 0 && h > 0 {
			m = m.Scale(w/vw, h/vh)
		}
		m = m.Translate(-vx, -vy)
	}

	g := &svgtree.Node{Tag: "g", Children: nested.Children}
	for _, a := range nested.Attrs {
		switch a.Name {
		case "x", "y", "width", "height", "viewBox", "transform":
		default:
			g.SetAttr(a.Name, a.Value)
		}
	}
	if tr := nested.Attr("transform"); tr != "" {
		tm, err := svgpath.ParseTransform(tr)
		if err != nil {
			return err
		}
		m = tm.Mult(m)
	}
	if !m.IsIdentity(0) {
		g.SetAttr("transform", formatMatrix(m))
	}
	// the nested viewport clips its content; expressed here in the
	// nested coordinate space, where it is the viewBox rectangle
	switch {
	case hasVB && vw > 0 && vh > 0:
		g.SetAttr("clip-path", "url(#"+p.addClipRect(vx, vy, vw, vh)+")")
	case w > 0 && h > 0:
		g.SetAttr("clip-path", "url(#"+p.addClipRect(0, 0, w, h)+")")
	}
	p.replaceNode(nested, g)
	return nil
}

// addClipRect registers a rectangular clip definition and returns its id.
func (p *pipeline) addClipRect(x, y, w, h float64) string {
	byID := p.doc.IDIndex()
	id := "viewport-clip"
	for i := 1; ; i++ {
		if _, taken := byID[id]; !taken {
			break
		}
		id = fmt.Sprintf("viewport-clip-%d", i)
	}
	clip := &svgtree.Node{Tag: "clipPath"}
	clip.SetAttr("id", id)
	rect := &svgtree.Node{Tag: "path"}
	rect.SetAttr("d", svgpath.Rect(x, y, w, h, 0, 0))
	clip.Children = append(clip.Children, rect)
	p.defsNode().Children = append(p.defsNode().Children, clip)
	return id
}

// defsNode returns the first defs under root, creating one if needed.
func (p *pipeline) defsNode() *svgtree.Node {
	for _, c := range p.doc.Root.Children {
		if c.Tag == "defs" {
			return c
		}
	}
	defs := &svgtree.Node{Tag: "defs"}
	p.doc.Root.Children = append([]*svgtree.Node{defs}, p.doc.Root.Children...)
	return defs
}

func (p *pipeline) replaceNode(old *svgtree.Node, with ...*svgtree.Node) {
	var rec func(n *svgtree.Node) bool
	rec = func(n *svgtree.Node) bool {
		for _, c := range n.Children {
			if c == old {
				n.ReplaceChild(old, with...)
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

func attrCoords(n *svgtree.Node, names ...string) (float64, float64, error) {
	var out [2]float64
	for i, name := range names {
		if v := n.Attr(name); v != "" {
			f, err := svgtree.ParseLength(v)
			if err != nil {
				return 0, 0, fmt.Errorf("picosvg: %s=%q: %w", name, v, err)
			}
			out[i] = f
		}
	}
	return out[0], out[1], nil
}

func formatMatrix(m svgpath.Matrix2D) string {
	return fmt.Sprintf("matrix(%s %s %s %s %s %s)",
		svgpath.FormatFloat(m.A, -1), svgpath.FormatFloat(m.B, -1),
		svgpath.FormatFloat(m.C, -1), svgpath.FormatFloat(m.D, -1),
		svgpath.FormatFloat(m.E, -1), svgpath.FormatFloat(m.F, -1))
}
