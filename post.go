package picosvg

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gofonts/picosvg/svgpath"
	"github.com/gofonts/picosvg/svgtree"
)

// removeUnpainted drops shapes that draw nothing: no geometry left,
// zero opacity, or both fill and stroke resolved to no paint.
func (p *pipeline) removeUnpainted() error {
	for _, leaf := range p.paintedPaths() {
		painted, err := p.isPainted(leaf)
		if err != nil {
			return err
		}
		if !painted {
			p.removeNode(leaf)
		}
	}
	return nil
}

func (p *pipeline) isPainted(n *svgtree.Node) (bool, error) {
	if n.Attr("d") == "" {
		return false, nil
	}
	op, err := attrOpacity(n, "opacity")
	if err != nil {
		return false, err
	}
	if op == 0 {
		return false, nil
	}

	fill, err := p.paintPresent(n, "fill", "black", "fill-opacity")
	if err != nil {
		return false, err
	}
	stroke, err := p.paintPresent(n, "stroke", "none", "stroke-opacity")
	if err != nil {
		return false, err
	}
	if stroke {
		if sw := n.Attr("stroke-width"); sw != "" {
			w, err := svgtree.ParseLength(sw)
			if err != nil {
				return false, fmt.Errorf("picosvg: stroke-width at %s: %w", p.doc.Address(n), err)
			}
			stroke = w > 0
		}
	}
	return fill || stroke, nil
}

func (p *pipeline) paintPresent(n *svgtree.Node, attr, initial, opacityAttr string) (bool, error) {
	v := n.Attr(attr)
	if v == "" {
		v = initial
	}
	if _, isRef := svgtree.RefID(v); !isRef {
		_, ok, err := svgtree.ParseColor(v)
		if err != nil {
			return false, fmt.Errorf("picosvg: %s at %s: %w", attr, p.doc.Address(n), err)
		}
		if !ok {
			return false, nil
		}
	}
	op, err := attrOpacity(n, opacityAttr)
	if err != nil {
		return false, err
	}
	return op > 0, nil
}

// pruneSubpaths drops the individual subpaths of a shape that round to
// zero area at the output precision, keeping their siblings.
func (p *pipeline) pruneSubpaths() error {
	threshold := 0.5 * math.Pow10(-p.opts.ndigits)
	for _, leaf := range p.paintedPaths() {
		d := leaf.Attr("d")
		if d == "" {
			continue
		}
		path, err := svgpath.Parse(d)
		if err != nil {
			return fmt.Errorf("picosvg: path at %s: %w", p.doc.Address(leaf), err)
		}
		var kept []svgpath.Path
		for _, sub := range path.Absolute().SubPaths() {
			if sub.Area(p.tolerance) >= threshold {
				kept = append(kept, sub)
			}
		}
		if len(kept) == 0 {
			p.removeNode(leaf)
			continue
		}
		leaf.SetAttr("d", svgpath.Concat(kept...).String())
	}
	return nil
}

// assembleCanonical gives the document its final shape: defs first
// under root, holding exactly the gradients some shape still
// references, with clip definitions and template leftovers gone.
func (p *pipeline) assembleCanonical() error {
	// find which gradients survive
	referenced := map[string]bool{}
	for _, leaf := range p.paintedPaths() {
		for _, attr := range []string{"fill", "stroke"} {
			if id, ok := svgtree.RefID(leaf.Attr(attr)); ok {
				referenced[id] = true
			}
		}
	}
	var gradients []*svgtree.Node
	for _, g := range p.gradientNodes() {
		if referenced[g.Attr("id")] {
			gradients = append(gradients, g)
		}
		p.removeNode(g)
	}

	// defs content beyond gradients: drop clip definitions and shape
	// templates, keep opted-in passthrough
	defs := p.defsNode()
	var keptDefs []*svgtree.Node
	for _, c := range defs.Children {
		if p.passthrough[c] {
			keptDefs = append(keptDefs, c)
		}
	}
	defs.Children = append(gradients, keptDefs...)

	var rest []*svgtree.Node
	for _, c := range p.doc.Root.Children {
		if c == defs || c.Tag == "clipPath" {
			continue
		}
		if c.Tag == "g" && len(c.Children) == 0 {
			// a retained compositing group whose shapes were all removed
			continue
		}
		rest = append(rest, c)
	}
	p.doc.Root.Children = append([]*svgtree.Node{defs}, rest...)
	return nil
}

// round applies the output precision to every coordinate-bearing
// attribute: path data, gradient geometry and the viewBox.
func (p *pipeline) round() error {
	nd := p.opts.ndigits

	var roundPaths func(n *svgtree.Node) error
	roundPaths = func(n *svgtree.Node) error {
		if p.passthrough[n] {
			return nil
		}
		if n.Tag == "path" {
			if d := n.Attr("d"); d != "" {
				path, err := svgpath.Parse(d)
				if err != nil {
					return err
				}
				n.SetAttr("d", path.D(nd))
			}
		}
		for _, c := range n.Children {
			if err := roundPaths(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := roundPaths(p.doc.Root); err != nil {
		return err
	}

	for _, g := range p.gradientNodes() {
		for _, name := range gradientGeometryAttrs[g.Tag] {
			v := g.Attr(name)
			if v == "" {
				continue
			}
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				g.SetAttr(name, svgpath.FormatFloat(f, nd))
			}
		}
		if tr := g.Attr("gradientTransform"); tr != "" {
			m, err := svgpath.ParseTransform(tr)
			if err == nil {
				g.SetAttr("gradientTransform", formatRoundedMatrix(m, nd))
			}
		}
	}

	x, y, w, h := p.viewBox[0], p.viewBox[1], p.viewBox[2], p.viewBox[3]
	p.doc.Root.SetAttr("viewBox", fmt.Sprintf("%s %s %s %s",
		svgpath.FormatFloat(x, nd), svgpath.FormatFloat(y, nd),
		svgpath.FormatFloat(w, nd), svgpath.FormatFloat(h, nd)))
	return nil
}

func formatRoundedMatrix(m svgpath.Matrix2D, ndigits int) string {
	return fmt.Sprintf("matrix(%s %s %s %s %s %s)",
		svgpath.FormatFloat(m.A, ndigits), svgpath.FormatFloat(m.B, ndigits),
		svgpath.FormatFloat(m.C, ndigits), svgpath.FormatFloat(m.D, ndigits),
		svgpath.FormatFloat(m.E, ndigits), svgpath.FormatFloat(m.F, ndigits))
}
