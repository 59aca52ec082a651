package svgpath

import "math"

// Flattening of curves to polylines, used for areas, bounds and as
// input to the boolean geometry collaborator.

// Flatten approximates the path with one polyline per subpath, within
// the given tolerance (maximum distance between a curve and its chord).
func (p Path) Flatten(tolerance float64) [][]Point {
	if tolerance <= 0 {
		tolerance = 1e-3
	}
	abs := p.Absolute()
	var contours [][]Point
	var cur, start Point
	line := func(pt Point) {
		n := len(contours)
		if n == 0 {
			contours = append(contours, []Point{cur})
			n = 1
		}
		contours[n-1] = append(contours[n-1], pt)
	}
	var prevCtrl Point
	var prevVerb byte
	for _, cmd := range abs {
		switch cmd.Verb {
		case 'M':
			cur = Point{cmd.Args[0], cmd.Args[1]}
			start = cur
			contours = append(contours, []Point{cur})
		case 'L':
			line(Point{cmd.Args[0], cmd.Args[1]})
		case 'H':
			line(Point{cmd.Args[0], cur.Y})
		case 'V':
			line(Point{cur.X, cmd.Args[0]})
		case 'C':
			flattenCubic(cur,
				Point{cmd.Args[0], cmd.Args[1]},
				Point{cmd.Args[2], cmd.Args[3]},
				Point{cmd.Args[4], cmd.Args[5]},
				tolerance, line)
			prevCtrl = Point{cmd.Args[2], cmd.Args[3]}
		case 'S':
			c1 := reflectControl(cur, prevCtrl, prevVerb, 'C', 'S')
			flattenCubic(cur, c1,
				Point{cmd.Args[0], cmd.Args[1]},
				Point{cmd.Args[2], cmd.Args[3]},
				tolerance, line)
			prevCtrl = Point{cmd.Args[0], cmd.Args[1]}
		case 'Q':
			c1, c2 := quadToCubic(cur,
				Point{cmd.Args[0], cmd.Args[1]},
				Point{cmd.Args[2], cmd.Args[3]})
			flattenCubic(cur, c1, c2, Point{cmd.Args[2], cmd.Args[3]}, tolerance, line)
			prevCtrl = Point{cmd.Args[0], cmd.Args[1]}
		case 'T':
			ctrl := reflectControl(cur, prevCtrl, prevVerb, 'Q', 'T')
			end := Point{cmd.Args[0], cmd.Args[1]}
			c1, c2 := quadToCubic(cur, ctrl, end)
			flattenCubic(cur, c1, c2, end, tolerance, line)
			prevCtrl = ctrl
		case 'A':
			for _, cc := range arcToCubics(cur.X, cur.Y, cmd.Args) {
				if cc.Verb == 'L' {
					line(Point{cc.Args[0], cc.Args[1]})
					continue
				}
				flattenCubic(cur,
					Point{cc.Args[0], cc.Args[1]},
					Point{cc.Args[2], cc.Args[3]},
					Point{cc.Args[4], cc.Args[5]},
					tolerance, line)
				cur = Point{cc.Args[4], cc.Args[5]}
			}
		case 'Z':
			if cur != start {
				line(start)
			}
		}
		cur = cmd.endPoint(cur, start)
		prevVerb = cmd.Verb
	}
	return contours
}

// reflectControl returns the reflection of the previous control point
// around the current point, the implied first control of S/T shorthands.
func reflectControl(cur, prevCtrl Point, prevVerb, full, short byte) Point {
	if prevVerb != full && prevVerb != short {
		return cur
	}
	return Point{2*cur.X - prevCtrl.X, 2*cur.Y - prevCtrl.Y}
}

func quadToCubic(p0, q, p2 Point) (c1, c2 Point) {
	c1 = Point{p0.X + 2*(q.X-p0.X)/3, p0.Y + 2*(q.Y-p0.Y)/3}
	c2 = Point{p2.X + 2*(q.X-p2.X)/3, p2.Y + 2*(q.Y-p2.Y)/3}
	return
}

// flattenCubic emits line segments approximating the cubic within tol,
// by recursive midpoint subdivision on a flatness test.
func flattenCubic(p0, p1, p2, p3 Point, tol float64, emit func(Point)) {
	const maxDepth = 24
	var rec func(p0, p1, p2, p3 Point, depth int)
	rec = func(p0, p1, p2, p3 Point, depth int) {
		if depth >= maxDepth || cubicFlatEnough(p0, p1, p2, p3, tol) {
			emit(p3)
			return
		}
		// de Casteljau split at t=1/2
		ab := mid(p0, p1)
		bc := mid(p1, p2)
		cd := mid(p2, p3)
		abc := mid(ab, bc)
		bcd := mid(bc, cd)
		abcd := mid(abc, bcd)
		rec(p0, ab, abc, abcd, depth+1)
		rec(abcd, bcd, cd, p3, depth+1)
	}
	rec(p0, p1, p2, p3, 0)
}

func mid(a, b Point) Point { return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2} }

// cubicFlatEnough bounds the distance from the control points to the
// chord; the curve lies within 3/4 of that bound.
func cubicFlatEnough(p0, p1, p2, p3 Point, tol float64) bool {
	d1 := distToSegment(p1, p0, p3)
	d2 := distToSegment(p2, p0, p3)
	return math.Max(d1, d2)*3/4 <= tol
}

func distToSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
