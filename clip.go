package picosvg

import (
	"fmt"

	"github.com/gofonts/picosvg/boolops"
	"github.com/gofonts/picosvg/svgpath"
	"github.com/gofonts/picosvg/svgtree"
)

// paintedPaths returns the path elements that render, in document
// order, skipping defs, clip definitions and gradients.
func (p *pipeline) paintedPaths() []*svgtree.Node {
	var out []*svgtree.Node
	p.doc.Walk(func(n *svgtree.Node, addr string) bool {
		switch {
		case n.Tag == "defs", n.Tag == "clipPath", gradientTags[n.Tag], p.passthrough[n]:
			return false
		case n.Tag == "path":
			out = append(out, n)
			return false
		}
		return true
	})
	return out
}

// applyClips intersects each clipped shape with its accumulated clip
// regions and writes the single resulting nonzero path back. A shape
// fully outside its clip, or clipped by an empty definition, ends up
// with no geometry at all.
func (p *pipeline) applyClips() error {
	for _, leaf := range p.paintedPaths() {
		clips := p.clips[leaf]
		if len(clips) == 0 {
			continue
		}
		d := leaf.Attr("d")
		if d == "" {
			continue
		}
		cur, err := svgpath.Parse(d)
		if err != nil {
			return fmt.Errorf("picosvg: path at %s: %w", p.doc.Address(leaf), err)
		}
		rule, _ := boolops.ParseFillRule(leaf.Attr("fill-rule"))
		for _, pc := range clips {
			region, err := p.clipRegion(pc.ref, pc.transform, map[string]bool{})
			if err != nil {
				return err
			}
			cur = boolops.Intersect(cur, rule, region, boolops.NonZero, p.tolerance)
			rule = boolops.NonZero
			if len(cur) == 0 {
				break
			}
		}
		leaf.RemoveAttr("fill-rule")
		if len(cur) == 0 {
			leaf.RemoveAttr("d")
		} else {
			leaf.SetAttr("d", cur.String())
		}
	}
	return nil
}

// clipRegion builds the clip definition's region in root space, under
// the coordinate system m the clip was referenced from. Clip
// definitions may themselves be clipped; those resolve first.
func (p *pipeline) clipRegion(ref string, m svgpath.Matrix2D, visiting map[string]bool) (svgpath.Path, error) {
	if visiting[ref] {
		return nil, fmt.Errorf("picosvg: clip-path reference cycle involving #%s", ref)
	}
	visiting[ref] = true
	def := p.doc.FindID(ref)
	if def == nil {
		return nil, fmt.Errorf("picosvg: clip-path references missing id #%s", ref)
	}
	if def.Tag != "clipPath" {
		return nil, fmt.Errorf("picosvg: clip-path reference #%s is not a clipPath", ref)
	}
	if units := def.Attr("clipPathUnits"); units != "" && units != "userSpaceOnUse" {
		return nil, fmt.Errorf("picosvg: clipPathUnits %q is not supported", units)
	}

	base := m
	if tr := def.Attr("transform"); tr != "" {
		own, err := svgpath.ParseTransform(tr)
		if err != nil {
			return nil, err
		}
		base = base.Mult(own)
	}

	var region svgpath.Path
	for _, child := range def.Children {
		if child.Tag != "path" {
			continue
		}
		d := child.Attr("d")
		if d == "" {
			continue
		}
		path, err := svgpath.Parse(d)
		if err != nil {
			return nil, fmt.Errorf("picosvg: clip shape in #%s: %w", ref, err)
		}
		ct := base
		if tr := child.Attr("transform"); tr != "" {
			own, err := svgpath.ParseTransform(tr)
			if err != nil {
				return nil, err
			}
			ct = ct.Mult(own)
		}
		rule, _ := boolops.ParseFillRule(childClipRule(def, child))
		part := boolops.Union([]svgpath.Path{path.Transform(ct)}, rule, p.tolerance)
		if len(region) == 0 {
			region = part
		} else if len(part) > 0 {
			region = boolops.Union([]svgpath.Path{region, part}, boolops.NonZero, p.tolerance)
		}
	}

	// a clip definition can be clipped itself
	if cp := def.Attr("clip-path"); cp != "" && len(region) > 0 {
		id, ok := svgtree.RefID(cp)
		if !ok {
			return nil, fmt.Errorf("picosvg: malformed clip-path %q on #%s", cp, ref)
		}
		outer, err := p.clipRegion(id, m, visiting)
		if err != nil {
			return nil, err
		}
		region = boolops.Intersect(region, boolops.NonZero, outer, boolops.NonZero, p.tolerance)
	}
	return region, nil
}

func childClipRule(def, child *svgtree.Node) string {
	if v := child.Attr("clip-rule"); v != "" {
		return v
	}
	return def.Attr("clip-rule")
}

// normalizeWinding rewrites evenodd-filled paths into equivalent
// nonzero geometry via a boolean self-union; nonzero is the sole
// canonical rule, so the attribute is dropped either way.
func (p *pipeline) normalizeWinding() error {
	for _, leaf := range p.paintedPaths() {
		rule, _ := boolops.ParseFillRule(leaf.Attr("fill-rule"))
		if rule == boolops.EvenOdd {
			if d := leaf.Attr("d"); d != "" {
				path, err := svgpath.Parse(d)
				if err != nil {
					return fmt.Errorf("picosvg: path at %s: %w", p.doc.Address(leaf), err)
				}
				out := boolops.Normalize(path, boolops.EvenOdd, p.tolerance)
				if len(out) == 0 {
					leaf.RemoveAttr("d")
				} else {
					leaf.SetAttr("d", out.String())
				}
			}
		}
		leaf.RemoveAttr("fill-rule")
	}
	return nil
}

// clipToViewBox trims geometry reaching past the document viewBox.
// Shapes already inside are untouched, keeping their curves exact.
func (p *pipeline) clipToViewBox() error {
	vx, vy, vw, vh := p.viewBox[0], p.viewBox[1], p.viewBox[2], p.viewBox[3]
	slack := p.tolerance
	box, err := svgpath.Parse(svgpath.Rect(vx, vy, vw, vh, 0, 0))
	if err != nil {
		return err
	}
	for _, leaf := range p.paintedPaths() {
		d := leaf.Attr("d")
		if d == "" {
			continue
		}
		path, err := svgpath.Parse(d)
		if err != nil {
			return fmt.Errorf("picosvg: path at %s: %w", p.doc.Address(leaf), err)
		}
		minX, minY, maxX, maxY, ok := path.Bounds(p.tolerance)
		if !ok {
			continue
		}
		if minX >= vx-slack && minY >= vy-slack && maxX <= vx+vw+slack && maxY <= vy+vh+slack {
			continue
		}
		out := boolops.Intersect(path, boolops.NonZero, box, boolops.NonZero, p.tolerance)
		if len(out) == 0 {
			leaf.RemoveAttr("d")
		} else {
			leaf.SetAttr("d", out.String())
		}
	}
	return nil
}
