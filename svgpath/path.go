package svgpath

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Command is one operation of the path mini language: a verb letter
// and its numeric arguments. Lower-case verbs are relative.
type Command struct {
	Verb byte
	Args []float64
}

// Path is an ordered sequence of commands, semantically a union of
// closed or open subpaths.
type Path []Command

// Point is a position in user space.
type Point struct {
	X, Y float64
}

func parseBasicFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// FormatFloat renders v in its shortest round-trippable form, with the
// decimal point omitted for integral values. ndigits < 0 disables rounding.
func FormatFloat(v float64, ndigits int) string {
	if ndigits >= 0 {
		v = roundTo(v, ndigits)
	}
	if v == 0 { // avoid -0
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundTo(v float64, ndigits int) float64 {
	p := math.Pow10(ndigits)
	return math.Round(v*p) / p
}

// Clone returns a deep copy of p.
func (p Path) Clone() Path {
	q := make(Path, len(p))
	for i, cmd := range p {
		q[i] = Command{Verb: cmd.Verb, Args: append([]float64(nil), cmd.Args...)}
	}
	return q
}

// D renders the path in canonical text form, rounding coordinates to
// ndigits (pass -1 to keep full precision).
func (p Path) D(ndigits int) string {
	chunks := make([]string, len(p))
	for i, cmd := range p {
		chunks[i] = cmd.format(ndigits)
	}
	return strings.Join(chunks, " ")
}

// String renders the path without rounding.
func (p Path) String() string { return p.D(-1) }

func (c Command) format(ndigits int) string {
	f := func(i int) string { return FormatFloat(c.Args[i], ndigits) }
	switch upperLetter(c.Verb) {
	case 'M', 'L', 'T':
		return fmt.Sprintf("%c%s,%s", c.Verb, f(0), f(1))
	case 'H', 'V':
		return fmt.Sprintf("%c%s", c.Verb, f(0))
	case 'C':
		return fmt.Sprintf("%c%s,%s %s,%s %s,%s", c.Verb, f(0), f(1), f(2), f(3), f(4), f(5))
	case 'S', 'Q':
		return fmt.Sprintf("%c%s,%s %s,%s", c.Verb, f(0), f(1), f(2), f(3))
	case 'A':
		return fmt.Sprintf("%c%s %s %s %s %s %s,%s", c.Verb,
			f(0), f(1), f(2), f(3), f(4), f(5), f(6))
	default: // Z
		return string(c.Verb)
	}
}

// isRelative reports whether the command verb is lower case.
func (c Command) isRelative() bool { return c.Verb >= 'a' && c.Verb <= 'z' }

// endPoint returns the point the command leaves the pen at, given the
// current point and the current subpath start.
func (c Command) endPoint(cur, start Point) Point {
	var rel Point
	if c.isRelative() {
		rel = cur
	}
	switch upperLetter(c.Verb) {
	case 'Z':
		return start
	case 'H':
		return Point{rel.X + c.Args[0], cur.Y}
	case 'V':
		return Point{cur.X, rel.Y + c.Args[0]}
	default:
		n := len(c.Args)
		return Point{rel.X + c.Args[n-2], rel.Y + c.Args[n-1]}
	}
}

// Absolute returns an equivalent path with every command absolute.
// H and V are kept, shorthand curves are kept; only the coordinates
// and verb case change.
func (p Path) Absolute() Path {
	out := make(Path, 0, len(p))
	var cur, start Point
	for _, cmd := range p {
		abs := Command{Verb: upperLetter(cmd.Verb), Args: append([]float64(nil), cmd.Args...)}
		if cmd.isRelative() {
			switch abs.Verb {
			case 'H':
				abs.Args[0] += cur.X
			case 'V':
				abs.Args[0] += cur.Y
			case 'A':
				abs.Args[5] += cur.X
				abs.Args[6] += cur.Y
			default:
				for i := 0; i+1 < len(abs.Args); i += 2 {
					abs.Args[i] += cur.X
					abs.Args[i+1] += cur.Y
				}
			}
		}
		if abs.Verb == 'M' {
			start = Point{abs.Args[0], abs.Args[1]}
		}
		cur = abs.endPoint(cur, start)
		out = append(out, abs)
	}
	return out
}

// Transform returns the path with m applied to every coordinate.
// The input is made absolute first; H and V become explicit lines, and
// arc radii and rotation are re-derived so that the swept ellipse is
// the exact image of the original under m.
func (p Path) Transform(m Matrix2D) Path {
	abs := p.Absolute()
	out := make(Path, 0, len(abs))
	var cur, start Point
	for _, cmd := range abs {
		var tc Command
		switch cmd.Verb {
		case 'Z':
			tc = Command{Verb: 'Z'}
		case 'H':
			x, y := m.Apply(cmd.Args[0], cur.Y)
			tc = Command{Verb: 'L', Args: []float64{x, y}}
		case 'V':
			x, y := m.Apply(cur.X, cmd.Args[0])
			tc = Command{Verb: 'L', Args: []float64{x, y}}
		case 'A':
			tc = transformArc(m, cmd)
		default:
			args := make([]float64, len(cmd.Args))
			for i := 0; i+1 < len(cmd.Args); i += 2 {
				args[i], args[i+1] = m.Apply(cmd.Args[i], cmd.Args[i+1])
			}
			tc = Command{Verb: cmd.Verb, Args: args}
		}
		if cmd.Verb == 'M' {
			start = Point{cmd.Args[0], cmd.Args[1]}
		}
		cur = cmd.endPoint(cur, start)
		out = append(out, tc)
	}
	return out
}

// Round rounds every coordinate in place to ndigits.
func (p Path) Round(ndigits int) Path {
	for _, cmd := range p {
		for i := range cmd.Args {
			cmd.Args[i] = roundTo(cmd.Args[i], ndigits)
		}
	}
	return p
}

// SubPaths splits an absolute path at its moveto commands.
func (p Path) SubPaths() []Path {
	var subs []Path
	for _, cmd := range p {
		if upperLetter(cmd.Verb) == 'M' || len(subs) == 0 {
			subs = append(subs, Path{})
		}
		subs[len(subs)-1] = append(subs[len(subs)-1], cmd)
	}
	return subs
}

// Concat joins paths into one.
func Concat(paths ...Path) Path {
	var out Path
	for _, p := range paths {
		out = append(out, p...)
	}
	return out
}

// Bounds returns the bounding box of the path's flattened outline.
// ok is false for an empty path.
func (p Path) Bounds(tolerance float64) (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, contour := range p.Flatten(tolerance) {
		for _, pt := range contour {
			ok = true
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	return
}

// Area returns the total absolute area of the path's subpaths, each
// treated as a closed polygon after flattening.
func (p Path) Area(tolerance float64) float64 {
	var total float64
	for _, contour := range p.Flatten(tolerance) {
		total += math.Abs(polygonArea(contour))
	}
	return total
}

func polygonArea(pts []Point) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}
