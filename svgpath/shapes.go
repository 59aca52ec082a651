package svgpath

import (
	"fmt"
	"strings"
)

// Conversion of the basic SVG shapes to their path equivalent. Each
// construction is clockwise and closed (line and polyline stay open),
// and renders numbers in their shortest form.

func num(v float64) string { return FormatFloat(v, -1) }

// Line renders a line as an open two point path.
func Line(x1, y1, x2, y2 float64) string {
	return fmt.Sprintf("M%s,%s L%s,%s", num(x1), num(y1), num(x2), num(y2))
}

// Rect renders a rectangle. Corner radii are clamped to half the
// width and height; with no radius the edges are H/V lines, otherwise
// each corner is a quarter ellipse arc.
func Rect(x, y, w, h, rx, ry float64) string {
	if rx < 0 {
		rx = 0
	}
	if ry < 0 {
		ry = 0
	}
	// an unset radius copies the other one
	if rx == 0 && ry > 0 {
		rx = ry
	}
	if ry == 0 && rx > 0 {
		ry = rx
	}
	if rx > w/2 {
		rx = w / 2
	}
	if ry > h/2 {
		ry = h / 2
	}

	if rx == 0 || ry == 0 {
		return fmt.Sprintf("M%s,%s H%s V%s H%s V%s Z",
			num(x), num(y), num(x+w), num(y+h), num(x), num(y))
	}

	arc := func(toX, toY float64) string {
		return fmt.Sprintf("A%s %s 0 0 1 %s,%s", num(rx), num(ry), num(toX), num(toY))
	}
	parts := []string{
		fmt.Sprintf("M%s,%s", num(x+rx), num(y)),
		fmt.Sprintf("H%s", num(x+w-rx)),
		arc(x+w, y+ry),
		fmt.Sprintf("V%s", num(y+h-ry)),
		arc(x+w-rx, y+h),
		fmt.Sprintf("H%s", num(x+rx)),
		arc(x, y+h-ry),
		fmt.Sprintf("V%s", num(y+ry)),
		arc(x+rx, y),
		"Z",
	}
	return strings.Join(parts, " ")
}

// Ellipse renders an ellipse as two 180 degree arcs between
// (cx+rx,cy) and (cx-rx,cy). A single 360 degree arc would be
// degenerate under boolean operations, so two arcs are mandatory.
func Ellipse(cx, cy, rx, ry float64) string {
	arc := func(toX float64) string {
		return fmt.Sprintf("A%s %s 0 1 1 %s,%s", num(rx), num(ry), num(toX), num(cy))
	}
	return fmt.Sprintf("M%s,%s %s %s Z", num(cx+rx), num(cy), arc(cx-rx), arc(cx+rx))
}

// Circle renders a circle, the rx == ry ellipse.
func Circle(cx, cy, r float64) string {
	return Ellipse(cx, cy, r, r)
}

// Polygon renders a closed point sequence. Points after the first are
// an implicit coordinate run, reproduced as written.
func Polygon(pts []float64) string {
	return polyPath(pts, true)
}

// Polyline renders an open point sequence.
func Polyline(pts []float64) string {
	return polyPath(pts, false)
}

func polyPath(pts []float64, closed bool) string {
	if len(pts) < 2 {
		return ""
	}
	pairs := make([]string, 0, len(pts)/2)
	for i := 0; i+1 < len(pts); i += 2 {
		pairs = append(pairs, num(pts[i])+","+num(pts[i+1]))
	}
	d := "M" + strings.Join(pairs, " ")
	if closed {
		d += " Z"
	}
	return d
}
