package picosvg

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gofonts/picosvg/svgpath"
	"github.com/gofonts/picosvg/svgtree"
)

// flatCtx is the state accumulated from the root down to one element
// during flattening.
type flatCtx struct {
	transform svgpath.Matrix2D
	attrs     map[string]string
	opacity   float64
	clips     []pendingClip
}

func (c flatCtx) child() flatCtx {
	attrs := make(map[string]string, len(c.attrs))
	for k, v := range c.attrs {
		attrs[k] = v
	}
	return flatCtx{
		transform: c.transform,
		attrs:     attrs,
		opacity:   c.opacity,
		clips:     append([]pendingClip(nil), c.clips...),
	}
}

// flatten pushes transforms, inherited paint and opacity from groups
// down to the leaf paths and removes the groups, leaving no transform
// attribute below the root. A group whose opacity is below 1 and
// which composites more than one shape as a unit is retained, carrying
// only that opacity; folding it per shape would change the rendering
// where the shapes overlap.
func (p *pipeline) flatten() error {
	root := p.doc.Root
	ctx := flatCtx{transform: svgpath.Identity, attrs: map[string]string{}, opacity: 1}
	for _, name := range inheritedProperties {
		if v := root.Attr(name); v != "" {
			ctx.attrs[name] = v
		}
	}
	out, err := p.flattenChildren(root, ctx)
	if err != nil {
		return err
	}
	root.Children = out
	return nil
}

func (p *pipeline) flattenChildren(n *svgtree.Node, ctx flatCtx) ([]*svgtree.Node, error) {
	var out []*svgtree.Node
	for _, c := range n.Children {
		repl, err := p.flattenNode(c, ctx.child())
		if err != nil {
			return nil, err
		}
		out = append(out, repl...)
	}
	return out, nil
}

func (p *pipeline) flattenNode(n *svgtree.Node, ctx flatCtx) ([]*svgtree.Node, error) {
	if n.Attr("display") == "none" {
		return nil, nil
	}
	switch {
	case n.Tag == "defs", n.Tag == "clipPath",
		n.Tag == "linearGradient", n.Tag == "radialGradient":
		// not rendered directly; gradients and clips keep their own
		// coordinate handling
		return []*svgtree.Node{n}, nil
	case p.passthrough[n]:
		if !ctx.transform.IsIdentity(0) {
			m := ctx.transform
			if tr := n.Attr("transform"); tr != "" {
				own, err := svgpath.ParseTransform(tr)
				if err != nil {
					return nil, err
				}
				m = m.Mult(own)
			}
			n.SetAttr("transform", formatMatrix(m))
		}
		return []*svgtree.Node{n}, nil
	}

	if tr := n.Attr("transform"); tr != "" {
		own, err := svgpath.ParseTransform(tr)
		if err != nil {
			return nil, fmt.Errorf("picosvg: transform at %s: %w", p.doc.Address(n), err)
		}
		ctx.transform = ctx.transform.Mult(own)
		n.RemoveAttr("transform")
	}
	if cp := n.Attr("clip-path"); cp != "" {
		id, ok := svgtree.RefID(cp)
		if !ok {
			return nil, fmt.Errorf("picosvg: malformed clip-path %q at %s", cp, p.doc.Address(n))
		}
		ctx.clips = append(ctx.clips, pendingClip{ref: id, transform: ctx.transform})
		n.RemoveAttr("clip-path")
	}

	switch n.Tag {
	case "g":
		gOpacity, err := attrOpacity(n, "opacity")
		if err != nil {
			return nil, err
		}
		for _, name := range inheritedProperties {
			if v := n.Attr(name); v != "" {
				ctx.attrs[name] = v
			}
		}
		if gOpacity < 1 && paintableLeafCount(p, n) > 1 {
			// keep the group as a compositing unit
			total := ctx.opacity * gOpacity
			ctx.opacity = 1
			children, err := p.flattenChildren(n, ctx)
			if err != nil {
				return nil, err
			}
			n.Attrs = nil
			n.SetAttr("opacity", svgpath.FormatFloat(total, -1))
			n.Children = children
			return []*svgtree.Node{n}, nil
		}
		ctx.opacity *= gOpacity
		return p.flattenChildren(n, ctx)
	case "path":
		if err := p.flattenLeaf(n, ctx); err != nil {
			return nil, err
		}
		return []*svgtree.Node{n}, nil
	default:
		return []*svgtree.Node{n}, nil
	}
}

func (p *pipeline) flattenLeaf(n *svgtree.Node, ctx flatCtx) error {
	for name, v := range ctx.attrs {
		if !n.HasAttr(name) {
			n.SetAttr(name, v)
		}
	}

	own, err := attrOpacity(n, "opacity")
	if err != nil {
		return err
	}
	if total := ctx.opacity * own; total < 1 {
		n.SetAttr("opacity", svgpath.FormatFloat(total, -1))
	} else {
		n.RemoveAttr("opacity")
	}

	if !ctx.transform.IsIdentity(0) {
		if d := n.Attr("d"); d != "" {
			path, err := svgpath.Parse(d)
			if err != nil {
				return fmt.Errorf("picosvg: path at %s: %w", p.doc.Address(n), err)
			}
			n.SetAttr("d", path.Transform(ctx.transform).String())
		}
		if err := p.scaleStrokeWidth(n, ctx.transform); err != nil {
			return err
		}
		for _, attr := range []string{"fill", "stroke"} {
			if id, ok := svgtree.RefID(n.Attr(attr)); ok {
				if err := p.retargetGradient(n, attr, id, ctx.transform); err != nil {
					return err
				}
			}
		}
	}

	if len(ctx.clips) > 0 {
		p.clips[n] = ctx.clips
	}
	return nil
}

// scaleStrokeWidth keeps stroke geometry visually stable under the
// flattened transform by scaling the width with the mean scale factor.
func (p *pipeline) scaleStrokeWidth(n *svgtree.Node, m svgpath.Matrix2D) error {
	sw := n.Attr("stroke-width")
	if sw == "" {
		return nil
	}
	w, err := svgtree.ParseLength(sw)
	if err != nil {
		return fmt.Errorf("picosvg: stroke-width at %s: %w", p.doc.Address(n), err)
	}
	scale := math.Sqrt(math.Abs(m.Det()))
	if scale != 1 {
		n.SetAttr("stroke-width", svgpath.FormatFloat(w*scale, -1))
	}
	return nil
}

func attrOpacity(n *svgtree.Node, name string) (float64, error) {
	v := n.Attr(name)
	if v == "" {
		return 1, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 1, fmt.Errorf("picosvg: bad %s %q", name, v)
	}
	return math.Max(0, math.Min(1, f)), nil
}

// paintableLeafCount counts the shapes a subtree composites.
func paintableLeafCount(p *pipeline, n *svgtree.Node) int {
	count := 0
	var rec func(*svgtree.Node)
	rec = func(n *svgtree.Node) {
		switch {
		case n.Tag == "path", p.passthrough[n] && textTags[n.Tag]:
			count++
		case n.Tag == "defs" || n.Tag == "clipPath":
		default:
			for _, c := range n.Children {
				rec(c)
			}
		}
	}
	rec(n)
	return count
}
