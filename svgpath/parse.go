package svgpath

import (
	"fmt"
	"io"
)

// Parsing of the SVG path mini language: command letters followed by
// numeric arguments, with numbers allowed to run together whenever a
// sign or a second decimal point makes the boundary unambiguous
// ("1-1" is two numbers, so is ".5-.5").

// argCounts maps an upper-cased command letter to its argument count.
var argCounts = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2,
	'A': 7, 'Z': 0,
}

func isCommandLetter(b byte) bool {
	_, ok := argCounts[upperLetter(b)]
	return ok
}

func upperLetter(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func isWSP(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// Scanner reads path commands one at a time. It never mutates its
// source and can be restarted with Reset. Runs of coordinates after an
// M/m are reported as implicit L/l commands of matching case.
type Scanner struct {
	d    string
	pos  int
	verb byte // current command letter, 0 before the first
	ran  bool // at least one command emitted for verb
}

// NewScanner returns a Scanner over the path data d.
func NewScanner(d string) *Scanner {
	return &Scanner{d: d}
}

// Reset restarts the scanner from the beginning of its source.
func (s *Scanner) Reset() {
	s.pos, s.verb, s.ran = 0, 0, false
}

func (s *Scanner) skipSeparators() {
	for s.pos < len(s.d) && (isWSP(s.d[s.pos]) || s.d[s.pos] == ',') {
		s.pos++
	}
}

// scanNumber lexes one number starting at the current position.
func (s *Scanner) scanNumber() (float64, error) {
	start := s.pos
	i := s.pos
	if i < len(s.d) && (s.d[i] == '+' || s.d[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s.d) && s.d[i] >= '0' && s.d[i] <= '9' {
		i++
		digits++
	}
	if i < len(s.d) && s.d[i] == '.' {
		i++
		for i < len(s.d) && s.d[i] >= '0' && s.d[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		end := i + 1
		if end > len(s.d) {
			end = len(s.d)
		}
		return 0, fmt.Errorf("svgpath: invalid number %q at offset %d", s.d[start:end], start)
	}
	if i < len(s.d) && (s.d[i] == 'e' || s.d[i] == 'E') {
		j := i + 1
		if j < len(s.d) && (s.d[j] == '+' || s.d[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s.d) && s.d[j] >= '0' && s.d[j] <= '9' {
			j++
			expDigits++
		}
		if expDigits > 0 {
			i = j
		}
	}
	v, err := parseBasicFloat(s.d[start:i])
	if err != nil {
		return 0, fmt.Errorf("svgpath: invalid number %q at offset %d", s.d[start:i], start)
	}
	s.pos = i
	return v, nil
}

// scanFlag lexes an arc flag, a bare 0 or 1 possibly glued to its neighbors.
func (s *Scanner) scanFlag() (float64, error) {
	if s.pos < len(s.d) && (s.d[s.pos] == '0' || s.d[s.pos] == '1') {
		v := float64(s.d[s.pos] - '0')
		s.pos++
		return v, nil
	}
	tok := ""
	if s.pos < len(s.d) {
		tok = s.d[s.pos : s.pos+1]
	}
	return 0, fmt.Errorf("svgpath: invalid arc flag %q at offset %d", tok, s.pos)
}

// Next returns the next command, or io.EOF at the end of the data.
func (s *Scanner) Next() (Command, error) {
	s.skipSeparators()
	if s.pos >= len(s.d) {
		return Command{}, io.EOF
	}

	b := s.d[s.pos]
	switch {
	case isCommandLetter(b):
		s.verb = b
		s.ran = false
		s.pos++
	case s.verb == 0:
		return Command{}, fmt.Errorf("svgpath: expected command letter, got %q at offset %d", string(b), s.pos)
	case s.ran:
		// a coordinate run continues the previous command;
		// after M/m the continuation is an implicit lineto
		switch s.verb {
		case 'M':
			s.verb = 'L'
		case 'm':
			s.verb = 'l'
		}
		// Z takes no arguments, so nothing can continue it
		if argCounts[upperLetter(s.verb)] == 0 {
			return Command{}, fmt.Errorf("svgpath: expected command letter, got %q at offset %d", string(b), s.pos)
		}
	}

	n := argCounts[upperLetter(s.verb)]
	args := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		s.skipSeparators()
		var (
			v   float64
			err error
		)
		if upperLetter(s.verb) == 'A' && (i == 3 || i == 4) {
			v, err = s.scanFlag()
		} else {
			v, err = s.scanNumber()
		}
		if err != nil {
			return Command{}, err
		}
		args = append(args, v)
	}
	s.ran = true
	return Command{Verb: s.verb, Args: args}, nil
}

// Parse parses the path data d into its command sequence.
func Parse(d string) (Path, error) {
	s := NewScanner(d)
	var p Path
	for {
		cmd, err := s.Next()
		if err == io.EOF {
			return p, nil
		}
		if err != nil {
			return nil, err
		}
		p = append(p, cmd)
	}
}

// parseNumberList parses whitespace or comma separated numbers, as
// found in transform terms, viewBox and points attributes.
func parseNumberList(v string) ([]float64, error) {
	s := NewScanner(v)
	var pts []float64
	for {
		s.skipSeparators()
		if s.pos >= len(s.d) {
			return pts, nil
		}
		f, err := s.scanNumber()
		if err != nil {
			return nil, err
		}
		pts = append(pts, f)
	}
}

// ParseNumberList parses whitespace or comma separated numbers.
func ParseNumberList(v string) ([]float64, error) { return parseNumberList(v) }
