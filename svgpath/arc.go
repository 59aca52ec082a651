package svgpath

import "math"

// Elliptical arc handling: conversion between the endpoint form used
// by the A command and the center form needed for transformation and
// flattening, following the SVG implementation notes (F.6.5/F.6.6).

type centerArc struct {
	cx, cy     float64
	rx, ry     float64
	phi        float64 // x-axis rotation, radians
	theta1     float64 // start angle
	deltaTheta float64 // swept angle, sign carries direction
}

// endpointToCenter converts an arc from (x1,y1) with the given A
// arguments to center parameterization. Out-of-range radii are scaled
// up minimally, per the spec, preserving their ratio.
func endpointToCenter(x1, y1 float64, args []float64) (centerArc, bool) {
	rx, ry := math.Abs(args[0]), math.Abs(args[1])
	phi := args[2] * math.Pi / 180
	largeArc := args[3] != 0
	sweep := args[4] != 0
	x2, y2 := args[5], args[6]

	if rx == 0 || ry == 0 || (x1 == x2 && y1 == y2) {
		return centerArc{}, false // degenerate: rendered as a line
	}

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	dx, dy := (x1-x2)/2, (y1-y2)/2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	// scale radii up if no ellipse can reach the endpoint
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	radicand := num / den
	if radicand < 0 {
		radicand = 0
	}
	coef := math.Sqrt(radicand)
	if largeArc == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	cx := cosPhi*cxp - sinPhi*cyp + (x1+x2)/2
	cy := sinPhi*cxp + cosPhi*cyp + (y1+y2)/2

	theta1 := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	theta2 := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	delta := theta2 - theta1
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}

	return centerArc{cx, cy, rx, ry, phi, theta1, delta}, true
}

// pointAt returns the arc point at parameter eta.
func (a centerArc) pointAt(eta float64) (float64, float64) {
	sinPhi, cosPhi := math.Sin(a.phi), math.Cos(a.phi)
	x := a.rx * math.Cos(eta)
	y := a.ry * math.Sin(eta)
	return a.cx + cosPhi*x - sinPhi*y, a.cy + sinPhi*x + cosPhi*y
}

// derivativeAt returns the arc tangent vector at parameter eta.
func (a centerArc) derivativeAt(eta float64) (float64, float64) {
	sinPhi, cosPhi := math.Sin(a.phi), math.Cos(a.phi)
	x := -a.rx * math.Sin(eta)
	y := a.ry * math.Cos(eta)
	return cosPhi*x - sinPhi*y, sinPhi*x + cosPhi*y
}

// maxArcDx is the maximum radians a cubic spline is allowed to span
// when approximating an elliptical arc.
const maxArcDx = math.Pi / 8

// arcToCubics approximates the arc from (x1,y1) with the given A
// arguments as a run of C commands, by the method of L. Maisonobe,
// "Drawing an elliptical arc using polylines, quadratic or cubic
// Bezier curves", 2003.
func arcToCubics(x1, y1 float64, args []float64) Path {
	a, ok := endpointToCenter(x1, y1, args)
	if !ok {
		return Path{{Verb: 'L', Args: []float64{args[5], args[6]}}}
	}

	segs := int(math.Abs(a.deltaTheta)/maxArcDx) + 1
	dEta := a.deltaTheta / float64(segs)
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3

	var out Path
	lx, ly := x1, y1
	ldx, ldy := a.derivativeAt(a.theta1)
	for i := 1; i <= segs; i++ {
		eta := a.theta1 + dEta*float64(i)
		var px, py float64
		if i == segs {
			px, py = args[5], args[6] // keep the endpoint exact
		} else {
			px, py = a.pointAt(eta)
		}
		dx, dy := a.derivativeAt(eta)
		out = append(out, Command{Verb: 'C', Args: []float64{
			lx + alpha*ldx, ly + alpha*ldy,
			px - alpha*dx, py - alpha*dy,
			px, py,
		}})
		lx, ly, ldx, ldy = px, py, dx, dy
	}
	return out
}

// transformArc rewrites an absolute A command under the transform m.
// The swept ellipse is the image of the original ellipse, so radii and
// x-rotation are re-derived from the composed linear map rather than
// scaled naively; the sweep flag flips when m mirrors.
func transformArc(m Matrix2D, cmd Command) Command {
	rx, ry := cmd.Args[0], cmd.Args[1]
	phi := cmd.Args[2] * math.Pi / 180
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)

	// ellipse axes as the columns of L * R(phi) * diag(rx, ry)
	e11, e21 := m.applyVector(cosPhi*rx, sinPhi*rx)
	e12, e22 := m.applyVector(-sinPhi*ry, cosPhi*ry)

	nrx, nry, nphi := svd2x2(e11, e12, e21, e22)
	if math.Abs(nrx-nry) < 1e-12 {
		nphi = 0 // a circle has no meaningful x-rotation
	}

	sweep := cmd.Args[4]
	if m.Det() < 0 {
		sweep = 1 - sweep
	}
	x, y := m.Apply(cmd.Args[5], cmd.Args[6])
	return Command{Verb: 'A', Args: []float64{
		nrx, nry, nphi * 180 / math.Pi, cmd.Args[3], sweep, x, y,
	}}
}

// svd2x2 decomposes [[a,b],[c,d]] as R(phi)*diag(sx,sy)*R(theta) and
// returns the singular values and the post-rotation phi, which
// together describe the image of the unit circle.
func svd2x2(a, b, c, d float64) (sx, sy, phi float64) {
	e := (a + d) / 2
	f := (a - d) / 2
	g := (c + b) / 2
	h := (c - b) / 2
	q := math.Sqrt(e*e + h*h)
	r := math.Sqrt(f*f + g*g)
	sx = q + r
	sy = math.Abs(q - r)
	a1 := math.Atan2(g, f)
	a2 := math.Atan2(h, e)
	phi = (a2 + a1) / 2
	return
}
