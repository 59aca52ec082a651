package svgtree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyLength is returned for an empty or whitespace-only length.
var ErrEmptyLength = errors.New("svgtree: empty length")

// Conversion factors to CSS pixels for the absolute units.
var absoluteUnits = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 96.0 / 72,
	"pc": 16,
	"in": 96,
	"mm": 96.0 / 25.4,
	"cm": 96.0 / 2.54,
}

// Units that need a font or viewport to resolve, which a standalone
// document does not provide.
var relativeUnits = map[string]bool{
	"em": true, "rem": true, "ex": true, "ch": true, "vw": true, "vh": true,
}

// ParseLength resolves a CSS length to user units (pixels). Unitless
// values and percentages pass through numerically unchanged; absolute
// units are converted; font- and viewport-relative units fail.
func ParseLength(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, ErrEmptyLength
	}

	// longest numeric prefix wins, so exponents are not mistaken
	// for units
	num, unit := 0.0, v
	for i := len(v); i > 0; i-- {
		if n, err := strconv.ParseFloat(v[:i], 64); err == nil {
			num, unit = n, v[i:]
			break
		}
	}
	if unit == v {
		return 0, fmt.Errorf("svgtree: invalid length %q", v)
	}

	if unit == "%" {
		return num, nil
	}
	if relativeUnits[unit] {
		return 0, fmt.Errorf("svgtree: relative unit %q requires font or viewport context", unit)
	}
	scale, ok := absoluteUnits[unit]
	if !ok {
		return 0, fmt.Errorf("svgtree: invalid length %q", v)
	}
	return num * scale, nil
}
