package svgpath

import (
	"io"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		d    string
		want Path
	}{
		{
			"m1,1 2,0 1,3",
			Path{
				{'m', []float64{1, 1}},
				{'l', []float64{2, 0}},
				{'l', []float64{1, 3}},
			},
		},
		{
			"m1,1 v2 h2z",
			Path{
				{'m', []float64{1, 1}},
				{'v', []float64{2}},
				{'h', []float64{2}},
				{'z', nil},
			},
		},
		{
			"M7,5 a3,1 0,0,0 0,-3 a3,3 0 0 1 -4,2",
			Path{
				{'M', []float64{7, 5}},
				{'a', []float64{3, 1, 0, 0, 0, 0, -3}},
				{'a', []float64{3, 3, 0, 0, 1, -4, 2}},
			},
		},
		{
			"m-1-1 0.5-.5-.5-.3.1.2.2.51.52.711",
			Path{
				{'m', []float64{-1, -1}},
				{'l', []float64{0.5, -0.5}},
				{'l', []float64{-0.5, -0.3}},
				{'l', []float64{0.1, 0.2}},
				{'l', []float64{0.2, 0.51}},
				{'l', []float64{0.52, 0.711}},
			},
		},
		// arc flags glued to the next number
		{
			"M0,0 A1 1 0 1130,30",
			Path{
				{'M', []float64{0, 0}},
				{'A', []float64{1, 1, 0, 1, 1, 30, 30}},
			},
		},
		// M run of pairs stays M then L
		{
			"M30,10 50,30 10,30 Z",
			Path{
				{'M', []float64{30, 10}},
				{'L', []float64{50, 30}},
				{'L', []float64{10, 30}},
				{'Z', nil},
			},
		},
		// exponents
		{
			"M6.1232e-17,1E2 L0,0",
			Path{
				{'M', []float64{6.1232e-17, 100}},
				{'L', []float64{0, 0}},
			},
		},
	} {
		got, err := Parse(tc.d)
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.d, err)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("Parse(%q) = %v, want %v", tc.d, got, tc.want)
			continue
		}
		for i := range got {
			if got[i].Verb != tc.want[i].Verb || !sameArgs(got[i].Args, tc.want[i].Args) {
				t.Errorf("Parse(%q)[%d] = %c%v, want %c%v",
					tc.d, i, got[i].Verb, got[i].Args, tc.want[i].Verb, tc.want[i].Args)
			}
		}
	}
}

func sameArgs(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseErrors(t *testing.T) {
	for _, d := range []string{
		"M1,1 L2,x",
		"Mq",
		"1,1 2,2",             // numbers before any command
		"M1,1 A1 1 0 2 0 3,3", // bad arc flag
		"M0,0 Z 1",            // nothing can follow a close
	} {
		if _, err := Parse(d); err == nil {
			t.Errorf("Parse(%q): expected error", d)
		}
	}
}

func TestScannerRestart(t *testing.T) {
	s := NewScanner("M1,2 L3,4")
	first, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := s.Next(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
	}
	s.Reset()
	again, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, again) {
		t.Errorf("after Reset got %v, want %v", again, first)
	}
}

func TestParseNumberList(t *testing.T) {
	got, err := ParseNumberList(" 7,7  12 12 ")
	if err != nil {
		t.Fatal(err)
	}
	if !sameArgs(got, []float64{7, 7, 12, 12}) {
		t.Errorf("got %v", got)
	}
	if _, err := ParseNumberList("1 banana"); err == nil {
		t.Error("expected error for non numeric token")
	}
}
