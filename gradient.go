package picosvg

import (
	"fmt"
	"math"

	"github.com/gofonts/picosvg/svgpath"
	"github.com/gofonts/picosvg/svgtree"
)

var gradientTags = map[string]bool{
	"linearGradient": true,
	"radialGradient": true,
}

// Attributes a gradient inherits from its template chain.
var commonGradientAttrs = []string{"gradientUnits", "gradientTransform", "spreadMethod"}

var gradientGeometryAttrs = map[string][]string{
	"linearGradient": {"x1", "y1", "x2", "y2"},
	"radialGradient": {"cx", "cy", "r", "fx", "fy"},
}

func (p *pipeline) gradientNodes() []*svgtree.Node {
	var out []*svgtree.Node
	p.doc.Walk(func(n *svgtree.Node, addr string) bool {
		if p.passthrough[n] {
			return false
		}
		if gradientTags[n.Tag] {
			out = append(out, n)
			return false
		}
		return true
	})
	return out
}

// resolveGradientTemplates merges gradient href template chains:
// stops and shared attributes are copied forward onto each referencing
// gradient, the links removed. Template-only gradients left without a
// referent are pruned later with the other orphans.
func (p *pipeline) resolveGradientTemplates() error {
	for _, g := range p.gradientNodes() {
		if err := p.resolveGradientChain(g, map[*svgtree.Node]bool{}); err != nil {
			return err
		}
	}
	return nil
}

func (p *pipeline) resolveGradientChain(g *svgtree.Node, visiting map[*svgtree.Node]bool) error {
	href := g.Attr("href")
	if href == "" {
		return nil
	}
	if visiting[g] {
		return fmt.Errorf("picosvg: gradient reference cycle involving #%s", g.Attr("id"))
	}
	visiting[g] = true

	id, ok := svgtree.RefID(href)
	if !ok {
		return fmt.Errorf("picosvg: malformed gradient reference %q at %s", href, p.doc.Address(g))
	}
	target := p.doc.FindID(id)
	if target == nil {
		return fmt.Errorf("picosvg: gradient references missing id #%s at %s", id, p.doc.Address(g))
	}
	if !gradientTags[target.Tag] {
		return fmt.Errorf("picosvg: gradient reference #%s is not a gradient", id)
	}
	if err := p.resolveGradientChain(target, visiting); err != nil {
		return err
	}

	inheritable := append(append([]string{}, commonGradientAttrs...), gradientGeometryAttrs[g.Tag]...)
	for _, name := range inheritable {
		if !g.HasAttr(name) && target.HasAttr(name) {
			g.SetAttr(name, target.Attr(name))
		}
	}
	if len(g.Children) == 0 {
		for _, stop := range target.Children {
			g.Children = append(g.Children, stop.Clone())
		}
	}
	g.RemoveAttr("href")
	return nil
}

// retargetGradient re-points a shape's userSpaceOnUse gradient fill
// after the shape's coordinates moved under transform m. The gradient
// is copied per distinct transform so shapes sharing it keep their
// rendering; orphaned originals are pruned at assembly.
func (p *pipeline) retargetGradient(n *svgtree.Node, attr, id string, m svgpath.Matrix2D) error {
	grad := p.doc.FindID(id)
	if grad == nil {
		return fmt.Errorf("picosvg: %s references missing id #%s at %s", attr, id, p.doc.Address(n))
	}
	if !gradientTags[grad.Tag] || grad.Attr("gradientUnits") != "userSpaceOnUse" {
		// objectBoundingBox geometry follows the shape's box on its own
		return nil
	}
	key := id + "|" + formatMatrix(m)
	copyID, ok := p.gradCopies[key]
	if !ok {
		clone := grad.Clone()
		copyID = p.uniqueID(id)
		clone.SetAttr("id", copyID)
		gt := m
		if tr := grad.Attr("gradientTransform"); tr != "" {
			old, err := svgpath.ParseTransform(tr)
			if err != nil {
				return err
			}
			gt = m.Mult(old)
		}
		if gt.IsIdentity(0) {
			clone.RemoveAttr("gradientTransform")
		} else {
			clone.SetAttr("gradientTransform", formatMatrix(gt))
		}
		p.insertAfter(grad, clone)
		p.gradCopies[key] = copyID
	}
	n.SetAttr(attr, "url(#"+copyID+")")
	return nil
}

func (p *pipeline) uniqueID(base string) string {
	byID := p.doc.IDIndex()
	for i := 2; ; i++ {
		id := fmt.Sprintf("%s-%d", base, i)
		if _, taken := byID[id]; !taken {
			return id
		}
	}
}

func (p *pipeline) insertAfter(anchor, n *svgtree.Node) {
	var rec func(parent *svgtree.Node) bool
	rec = func(parent *svgtree.Node) bool {
		for i, c := range parent.Children {
			if c == anchor {
				rest := append([]*svgtree.Node(nil), parent.Children[i+1:]...)
				parent.Children = append(parent.Children[:i+1], n)
				parent.Children = append(parent.Children, rest...)
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

// foldGradientTransforms rewrites each gradientTransform so only the
// part that cannot be expressed by moving the control points remains:
// the translation is folded into the geometry, the linear remainder is
// kept as matrix(a b c d 0 0), or dropped when it is the identity
// within epsilon.
func (p *pipeline) foldGradientTransforms() error {
	for _, g := range p.gradientNodes() {
		if err := p.foldGradientTransform(g); err != nil {
			return err
		}
	}
	return nil
}

func (p *pipeline) foldGradientTransform(g *svgtree.Node) error {
	tr := g.Attr("gradientTransform")
	if tr == "" {
		return nil
	}
	gt, err := svgpath.ParseTransform(tr)
	if err != nil {
		return fmt.Errorf("picosvg: gradientTransform at %s: %w", p.doc.Address(g), err)
	}
	linear := gt.Linear()
	inv, err := linear.Invert()
	if err != nil {
		// a degenerate transform cannot be folded
		return nil
	}

	objectSpace := g.Attr("gradientUnits") != "userSpaceOnUse"
	geo, err := p.gradientGeometry(g, objectSpace)
	if err != nil {
		return err
	}
	fold := func(x, y float64) (float64, float64) {
		return inv.Apply(gt.Apply(x, y))
	}
	switch g.Tag {
	case "linearGradient":
		geo["x1"], geo["y1"] = fold(geo["x1"], geo["y1"])
		geo["x2"], geo["y2"] = fold(geo["x2"], geo["y2"])
	case "radialGradient":
		geo["cx"], geo["cy"] = fold(geo["cx"], geo["cy"])
		if _, ok := geo["fx"]; ok {
			geo["fx"], geo["fy"] = fold(geo["fx"], geo["fy"])
		}
	}
	for _, name := range gradientGeometryAttrs[g.Tag] {
		if v, ok := geo[name]; ok {
			g.SetAttr(name, svgpath.FormatFloat(v, -1))
		}
	}

	if linear.IsIdentity(p.opts.epsilon) {
		g.RemoveAttr("gradientTransform")
	} else {
		g.SetAttr("gradientTransform", formatMatrix(linear))
	}
	return nil
}

// gradientGeometry resolves the control point attributes to numbers,
// applying the per-kind defaults and resolving percentages against the
// bounding box (0..1) or the viewBox.
func (p *pipeline) gradientGeometry(g *svgtree.Node, objectSpace bool) (map[string]float64, error) {
	defaults := map[string]string{}
	switch g.Tag {
	case "linearGradient":
		defaults = map[string]string{"x1": "0%", "y1": "0%", "x2": "100%", "y2": "0%"}
	case "radialGradient":
		defaults = map[string]string{"cx": "50%", "cy": "50%", "r": "50%"}
	}
	geo := map[string]float64{}
	for _, name := range gradientGeometryAttrs[g.Tag] {
		v := g.Attr(name)
		if v == "" {
			v = defaults[name]
		}
		if v == "" {
			continue // fx/fy track cx/cy when absent
		}
		f, err := svgtree.ParseLength(v)
		if err != nil {
			return nil, fmt.Errorf("picosvg: gradient %s=%q: %w", name, v, err)
		}
		if isPercent(v) {
			f = p.resolveGradientPercent(name, f, objectSpace)
		}
		geo[name] = f
	}
	// an absent focal coordinate tracks the center
	if g.Tag == "radialGradient" {
		_, hasFx := geo["fx"]
		_, hasFy := geo["fy"]
		if hasFx && !hasFy {
			geo["fy"] = geo["cy"]
		}
		if hasFy && !hasFx {
			geo["fx"] = geo["cx"]
		}
	}
	return geo, nil
}

func isPercent(v string) bool {
	return len(v) > 0 && v[len(v)-1] == '%'
}

func (p *pipeline) resolveGradientPercent(name string, pct float64, objectSpace bool) float64 {
	f := pct / 100
	if objectSpace {
		return f
	}
	x, y, w, h := p.viewBox[0], p.viewBox[1], p.viewBox[2], p.viewBox[3]
	switch name {
	case "x1", "x2", "cx", "fx":
		return x + f*w
	case "y1", "y2", "cy", "fy":
		return y + f*h
	default: // r, against the normalized diagonal
		return f * math.Sqrt((w*w+h*h)/2)
	}
}
