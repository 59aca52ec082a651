package svgpath

import "testing"

func TestShapeConversions(t *testing.T) {
	for _, tc := range []struct {
		name string
		got  string
		want string
	}{
		{"line", Line(10, 110, 50, 150), "M10,110 L50,150"},
		{"line decimals", Line(10.0, 110.2, 50.5, 150.7), "M10,110.2 L50.5,150.7"},
		{"rect minimal", Rect(0, 0, 1, 1, 0, 0), "M0,0 H1 V1 H0 V0 Z"},
		{"rect sharp", Rect(10, 11, 17, 11, 0, 0), "M10,11 H27 V22 H10 V11 Z"},
		{
			"rect rounded", Rect(9, 9, 11, 7, 2, 0),
			"M11,9 H18 A2 2 0 0 1 20,11 V14 A2 2 0 0 1 18,16 H11" +
				" A2 2 0 0 1 9,14 V11 A2 2 0 0 1 11,9 Z",
		},
		{"rect simple", Rect(11.5, 16, 11, 2, 0, 0), "M11.5,16 H22.5 V18 H11.5 V16 Z"},
		{"polygon", Polygon([]float64{30, 10, 50, 30, 10, 30}), "M30,10 50,30 10,30 Z"},
		{"polyline", Polyline([]float64{30, 10, 50, 30, 10, 30}), "M30,10 50,30 10,30"},
		{"circle minimal", Circle(0, 0, 1), "M1,0 A1 1 0 1 1 -1,0 A1 1 0 1 1 1,0 Z"},
		{
			"circle", Circle(600, 200, 100),
			"M700,200 A100 100 0 1 1 500,200 A100 100 0 1 1 700,200 Z",
		},
		{
			"circle decimals", Circle(12, 6.5, 1.5),
			"M13.5,6.5 A1.5 1.5 0 1 1 10.5,6.5 A1.5 1.5 0 1 1 13.5,6.5 Z",
		},
		{
			"ellipse", Ellipse(100, 50, 100, 50),
			"M200,50 A100 50 0 1 1 0,50 A100 50 0 1 1 200,50 Z",
		},
		{
			"ellipse decimals", Ellipse(100.5, 50, 10, 50.5),
			"M110.5,50 A10 50.5 0 1 1 90.5,50 A10 50.5 0 1 1 110.5,50 Z",
		},
		// radii clamp to half the extent
		{"rect clamped radius", Rect(0, 0, 4, 2, 5, 5), Rect(0, 0, 4, 2, 2, 1)},
	} {
		if tc.got != tc.want {
			t.Errorf("%s:\ngot  %q\nwant %q", tc.name, tc.got, tc.want)
		}
	}
}

func TestShapePathsParse(t *testing.T) {
	// every construction must be valid path data
	for _, d := range []string{
		Line(1, 2, 3, 4),
		Rect(0, 0, 10, 10, 3, 2),
		Circle(5, 5, 5),
		Ellipse(1, 2, 3, 4),
		Polygon([]float64{0, 0, 1, 0, 1, 1}),
	} {
		if _, err := Parse(d); err != nil {
			t.Errorf("Parse(%q): %v", d, err)
		}
	}
}
