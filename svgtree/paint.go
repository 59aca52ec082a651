package svgtree

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses an SVG color value: #rgb, #rrggbb, rgb(...) with
// integer or percentage channels, or a named color. ok is false for
// "none", meaning the absence of paint rather than any color.
func ParseColor(v string) (c color.RGBA, ok bool, err error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "none":
		return color.RGBA{}, false, nil
	case v == "" || v == "currentColor":
		// no inherited context; currentColor resolves to the initial
		// color, black
		return color.RGBA{A: 0xff}, true, nil
	case strings.HasPrefix(v, "#"):
		c, err = parseHexColor(v)
		return c, err == nil, err
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		c, err = parseRGBColor(v[4 : len(v)-1])
		return c, err == nil, err
	default:
		named, found := colornames.Map[strings.ToLower(v)]
		if !found {
			return color.RGBA{}, false, fmt.Errorf("svgtree: unknown color %q", v)
		}
		return named, true, nil
	}
}

func parseHexColor(v string) (color.RGBA, error) {
	hex := v[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return color.RGBA{}, fmt.Errorf("svgtree: bad hex color %q", v)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("svgtree: bad hex color %q", v)
	}
	return color.RGBA{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
		A: 0xff,
	}, nil
}

func parseRGBColor(args string) (color.RGBA, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("svgtree: rgb() needs 3 channels, got %q", args)
	}
	var ch [3]uint8
	for i, p := range parts {
		p = strings.TrimSpace(p)
		var val float64
		var err error
		if strings.HasSuffix(p, "%") {
			val, err = strconv.ParseFloat(p[:len(p)-1], 64)
			val = val * 255 / 100
		} else {
			val, err = strconv.ParseFloat(p, 64)
		}
		if err != nil {
			return color.RGBA{}, fmt.Errorf("svgtree: bad rgb() channel %q", p)
		}
		if val < 0 {
			val = 0
		}
		if val > 255 {
			val = 255
		}
		ch[i] = uint8(val + 0.5)
	}
	return color.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}, nil
}
