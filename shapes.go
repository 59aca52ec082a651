package picosvg

import (
	"fmt"

	"github.com/gofonts/picosvg/svgpath"
	"github.com/gofonts/picosvg/svgtree"
)

// Geometry attributes consumed when a shape becomes a path.
var shapeGeometryAttrs = map[string][]string{
	"rect":     {"x", "y", "width", "height", "rx", "ry"},
	"circle":   {"cx", "cy", "r"},
	"ellipse":  {"cx", "cy", "rx", "ry"},
	"line":     {"x1", "y1", "x2", "y2"},
	"polygon":  {"points"},
	"polyline": {"points"},
}

// shapesToPaths rewrites every geometric primitive, wherever it sits
// in the tree, into an equivalent path element. Presentation
// attributes stay put; only the geometry attributes are consumed.
func (p *pipeline) shapesToPaths() error {
	var firstErr error
	p.doc.Walk(func(n *svgtree.Node, addr string) bool {
		if firstErr != nil || p.passthrough[n] {
			return false
		}
		if _, isShape := shapeGeometryAttrs[n.Tag]; !isShape {
			return true
		}
		d, err := shapePathData(n)
		if err != nil {
			firstErr = fmt.Errorf("picosvg: %s: %w", addr, err)
			return false
		}
		for _, attr := range shapeGeometryAttrs[n.Tag] {
			n.RemoveAttr(attr)
		}
		n.Tag = "path"
		if d == "" {
			n.RemoveAttr("d")
		} else {
			n.SetAttr("d", d)
		}
		return true
	})
	return firstErr
}

func shapePathData(n *svgtree.Node) (string, error) {
	geo := func(name string) (float64, error) {
		v := n.Attr(name)
		if v == "" {
			return 0, nil
		}
		return svgtree.ParseLength(v)
	}
	var vals []float64
	for _, name := range shapeGeometryAttrs[n.Tag] {
		if name == "points" {
			break
		}
		f, err := geo(name)
		if err != nil {
			return "", fmt.Errorf("%s %s: %w", n.Tag, name, err)
		}
		vals = append(vals, f)
	}

	switch n.Tag {
	case "rect":
		x, y, w, h := vals[0], vals[1], vals[2], vals[3]
		if w <= 0 || h <= 0 {
			return "", nil
		}
		rx, ry := vals[4], vals[5]
		// rx and ry default to each other
		if !n.HasAttr("rx") {
			rx = ry
		}
		if !n.HasAttr("ry") {
			ry = rx
		}
		return svgpath.Rect(x, y, w, h, rx, ry), nil
	case "circle":
		if vals[2] == 0 {
			return "", nil
		}
		return svgpath.Circle(vals[0], vals[1], vals[2]), nil
	case "ellipse":
		if vals[2] == 0 || vals[3] == 0 {
			return "", nil
		}
		return svgpath.Ellipse(vals[0], vals[1], vals[2], vals[3]), nil
	case "line":
		return svgpath.Line(vals[0], vals[1], vals[2], vals[3]), nil
	case "polygon", "polyline":
		pts, err := svgpath.ParseNumberList(n.Attr("points"))
		if err != nil {
			return "", fmt.Errorf("%s points: %w", n.Tag, err)
		}
		if len(pts) < 4 || len(pts)%2 != 0 {
			return "", fmt.Errorf("%s points: need an even run of at least 4 numbers", n.Tag)
		}
		if n.Tag == "polygon" {
			return svgpath.Polygon(pts), nil
		}
		return svgpath.Polyline(pts), nil
	}
	return "", fmt.Errorf("not a shape: %s", n.Tag)
}
