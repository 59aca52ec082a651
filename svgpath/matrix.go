package svgpath

import (
	"errors"
	"math"
	"strings"
)

// Matrix2D is a 2D affine transform, mapping (x, y) to
// (A*x + C*y + E, B*x + D*y + F).
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the neutral transform.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

var errParamMismatch = errors.New("svgpath: transform parameter mismatch")

// Mult returns m x n, the transform applying n first, then m.
func (m Matrix2D) Mult(n Matrix2D) Matrix2D {
	return Matrix2D{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply transforms the point (x, y).
func (m Matrix2D) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// applyVector transforms (x, y) by the linear part only, ignoring translation.
func (m Matrix2D) applyVector(x, y float64) (float64, float64) {
	return m.A*x + m.C*y, m.B*x + m.D*y
}

// Linear returns m with its translation removed.
func (m Matrix2D) Linear() Matrix2D {
	m.E, m.F = 0, 0
	return m
}

func (m Matrix2D) Translate(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

func (m Matrix2D) Scale(x, y float64) Matrix2D {
	return m.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Rotate rotates by theta radians.
func (m Matrix2D) Rotate(theta float64) Matrix2D {
	sin, cos := math.Sin(theta), math.Cos(theta)
	return m.Mult(Matrix2D{cos, sin, -sin, cos, 0, 0})
}

func (m Matrix2D) SkewX(theta float64) Matrix2D {
	return m.Mult(Matrix2D{1, 0, math.Tan(theta), 1, 0, 0})
}

func (m Matrix2D) SkewY(theta float64) Matrix2D {
	return m.Mult(Matrix2D{1, math.Tan(theta), 0, 1, 0, 0})
}

// Det returns the determinant of the linear part.
func (m Matrix2D) Det() float64 { return m.A*m.D - m.B*m.C }

// Invert returns the inverse transform. Degenerate transforms
// (zero determinant) have no inverse.
func (m Matrix2D) Invert() (Matrix2D, error) {
	det := m.Det()
	if det == 0 {
		return Identity, errors.New("svgpath: transform is not invertible")
	}
	return Matrix2D{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}, nil
}

// IsIdentity reports whether m is the identity within eps.
func (m Matrix2D) IsIdentity(eps float64) bool {
	return math.Abs(m.A-1) <= eps && math.Abs(m.B) <= eps &&
		math.Abs(m.C) <= eps && math.Abs(m.D-1) <= eps &&
		math.Abs(m.E) <= eps && math.Abs(m.F) <= eps
}

// IsTranslation reports whether the linear part of m is the identity within eps.
func (m Matrix2D) IsTranslation(eps float64) bool {
	return m.Linear().IsIdentity(eps)
}

func applyTransformTerm(m Matrix2D, name string, pts []float64) (Matrix2D, error) {
	ln := len(pts)
	switch name {
	case "rotate":
		if ln == 1 {
			m = m.Rotate(pts[0] * math.Pi / 180)
		} else if ln == 3 {
			m = m.Translate(pts[1], pts[2]).
				Rotate(pts[0] * math.Pi / 180).
				Translate(-pts[1], -pts[2])
		} else {
			return m, errParamMismatch
		}
	case "translate":
		if ln == 1 {
			m = m.Translate(pts[0], 0)
		} else if ln == 2 {
			m = m.Translate(pts[0], pts[1])
		} else {
			return m, errParamMismatch
		}
	case "skewx":
		if ln == 1 {
			m = m.SkewX(pts[0] * math.Pi / 180)
		} else {
			return m, errParamMismatch
		}
	case "skewy":
		if ln == 1 {
			m = m.SkewY(pts[0] * math.Pi / 180)
		} else {
			return m, errParamMismatch
		}
	case "scale":
		if ln == 1 {
			m = m.Scale(pts[0], pts[0])
		} else if ln == 2 {
			m = m.Scale(pts[0], pts[1])
		} else {
			return m, errParamMismatch
		}
	case "matrix":
		if ln == 6 {
			m = m.Mult(Matrix2D{pts[0], pts[1], pts[2], pts[3], pts[4], pts[5]})
		} else {
			return m, errParamMismatch
		}
	default:
		return m, errParamMismatch
	}
	return m, nil
}

// ParseTransform parses an SVG transform attribute value, a list of
// terms like "translate(1 2) rotate(45)" composed left to right.
func ParseTransform(v string) (Matrix2D, error) {
	m := Identity
	for _, t := range strings.Split(v, ")") {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), ","))
		if len(t) == 0 {
			continue
		}
		d := strings.SplitN(t, "(", 2)
		if len(d) != 2 || len(d[1]) < 1 {
			return m, errParamMismatch // badly formed transformation
		}
		pts, err := parseNumberList(d[1])
		if err != nil {
			return m, err
		}
		m, err = applyTransformTerm(m, strings.ToLower(strings.TrimSpace(d[0])), pts)
		if err != nil {
			return m, err
		}
	}
	return m, nil
}
