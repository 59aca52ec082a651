// Package boolops performs boolean geometry on paths by flattening
// curves to polygons at a caller-chosen tolerance and delegating the
// set operations to a Martinez-Rueda clipper.
package boolops

import (
	"math"
	"sort"

	polyclip "github.com/ctessum/polyclip-go"

	"github.com/gofonts/picosvg/svgpath"
)

// FillRule selects how winding decides the interior of a path.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// ParseFillRule maps the SVG fill-rule/clip-rule keywords. The empty
// string is the initial value, nonzero.
func ParseFillRule(s string) (FillRule, bool) {
	switch s {
	case "", "nonzero":
		return NonZero, true
	case "evenodd":
		return EvenOdd, true
	}
	return NonZero, false
}

// Normalize returns a path covering the same filled region as p under
// rule, built so its nonzero and evenodd interpretations agree: no
// subpath overlaps another, holes wind against their outline. Curves
// are approximated at tolerance; the output contains only lines.
func Normalize(p svgpath.Path, rule FillRule, tolerance float64) svgpath.Path {
	return fromPolygon(region(p, rule, tolerance))
}

// Union merges the filled regions of the given paths, each
// interpreted under rule, into a single nonzero line path.
func Union(paths []svgpath.Path, rule FillRule, tolerance float64) svgpath.Path {
	var acc polyclip.Polygon
	for _, p := range paths {
		r := region(p, rule, tolerance)
		switch {
		case len(r) == 0:
		case len(acc) == 0:
			acc = r
		default:
			acc = acc.Construct(polyclip.UNION, r)
		}
	}
	return fromPolygon(acc)
}

// Intersect clips subject by clip, each interpreted under its own
// rule, and returns the remaining region as a nonzero line path.
func Intersect(subject svgpath.Path, subjectRule FillRule, clip svgpath.Path, clipRule FillRule, tolerance float64) svgpath.Path {
	a := region(subject, subjectRule, tolerance)
	b := region(clip, clipRule, tolerance)
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := a.Construct(polyclip.INTERSECTION, b)
	if len(out) == 0 {
		// a subject vertex sitting exactly on a clip edge can make the
		// clipper return nothing; retry with the clip nudged off the
		// incidence by a fraction of the tolerance
		out = a.Construct(polyclip.INTERSECTION, translated(b, tolerance/1024))
	}
	return fromPolygon(out)
}

// translated returns poly with every point offset by delta on both axes.
func translated(poly polyclip.Polygon, delta float64) polyclip.Polygon {
	out := make(polyclip.Polygon, len(poly))
	for i, c := range poly {
		nc := make(polyclip.Contour, len(c))
		for j, pt := range c {
			nc[j] = polyclip.Point{X: pt.X + delta, Y: pt.Y + delta}
		}
		out[i] = nc
	}
	return out
}

// region computes the filled region of p under rule as a polygon set.
// Degenerate contours, below tolerance squared in area, are dropped
// before clipping.
func region(p svgpath.Path, rule FillRule, tolerance float64) polyclip.Polygon {
	var contours []polyclip.Contour
	for _, poly := range p.Flatten(tolerance) {
		if len(poly) < 3 || math.Abs(ringArea(poly)) < tolerance*tolerance {
			continue
		}
		c := make(polyclip.Contour, len(poly))
		for i, pt := range poly {
			c[i] = polyclip.Point{X: pt.X, Y: pt.Y}
		}
		contours = append(contours, c)
	}
	if len(contours) == 0 {
		return nil
	}

	switch rule {
	case EvenOdd:
		// each enclosure toggles: fold with symmetric difference
		out := polyclip.Polygon{contours[0]}
		for _, c := range contours[1:] {
			out = out.Construct(polyclip.XOR, polyclip.Polygon{c})
		}
		return out
	default:
		// fold outermost first so a contour winding with the outline
		// adds and one winding against it cuts a hole
		sort.SliceStable(contours, func(i, j int) bool {
			return math.Abs(contourArea(contours[i])) > math.Abs(contourArea(contours[j]))
		})
		outward := contourArea(contours[0]) >= 0
		out := polyclip.Polygon{contours[0]}
		for _, c := range contours[1:] {
			op := polyclip.UNION
			if (contourArea(c) >= 0) != outward {
				op = polyclip.DIFFERENCE
			}
			out = out.Construct(op, polyclip.Polygon{c})
		}
		return out
	}
}

// fromPolygon renders a polygon set as an absolute path of lines,
// one closed subpath per contour, oriented so the nonzero and evenodd
// readings of the result agree.
func fromPolygon(poly polyclip.Polygon) svgpath.Path {
	var out svgpath.Path
	for _, c := range orientByNesting(poly) {
		if len(c) < 3 {
			continue
		}
		out = append(out, svgpath.Command{Verb: 'M', Args: []float64{c[0].X, c[0].Y}})
		for _, pt := range c[1:] {
			out = append(out, svgpath.Command{Verb: 'L', Args: []float64{pt.X, pt.Y}})
		}
		out = append(out, svgpath.Command{Verb: 'Z'})
	}
	return out
}

// orientByNesting rewinds each contour by its containment depth: a
// contour inside an even number of larger contours is an outline and
// winds positive, one inside an odd number is a hole and winds
// negative. The clipper itself reports contours in arbitrary
// orientation.
func orientByNesting(poly polyclip.Polygon) polyclip.Polygon {
	for i, c := range poly {
		if len(c) < 3 {
			continue
		}
		depth := 0
		for j, other := range poly {
			if j == i || math.Abs(contourArea(other)) <= math.Abs(contourArea(c)) {
				continue
			}
			if pointInContour(other, c[0]) {
				depth++
			}
		}
		positive := contourArea(c) >= 0
		if (depth%2 == 0) != positive {
			poly[i] = reversedContour(c)
		}
	}
	return poly
}

// pointInContour ray-casts p against the contour edges.
func pointInContour(c polyclip.Contour, p polyclip.Point) bool {
	in := false
	for i, a := range c {
		b := c[(i+1)%len(c)]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < a.X+(b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) {
			in = !in
		}
	}
	return in
}

func reversedContour(c polyclip.Contour) polyclip.Contour {
	out := make(polyclip.Contour, len(c))
	for i, pt := range c {
		out[len(c)-1-i] = pt
	}
	return out
}

func ringArea(pts []svgpath.Point) float64 {
	sum := 0.0
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

func contourArea(c polyclip.Contour) float64 {
	sum := 0.0
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}
