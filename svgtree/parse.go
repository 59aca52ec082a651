package svgtree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Namespaces we resolve during parsing. Elements and attributes from
// any other namespace are editor noise and are dropped on the way in.
const (
	svgNS   = "http://www.w3.org/2000/svg"
	xlinkNS = "http://www.w3.org/1999/xlink"
)

var errNoSVG = errors.New("svgtree: no svg element found")

// Parse reads an SVG document into a tree. Comments, processing
// instructions and foreign-namespace content are discarded; xlink:href
// is normalized to plain href. The decoder tolerates non-UTF8
// encodings declared in the XML header.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		root  *Node
		stack []*Node
	)
	for {
		t, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			if foreignElement(se.Name) {
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			n := &Node{Tag: se.Name.Local}
			for _, a := range se.Attr {
				if name, ok := attrName(a.Name); ok {
					n.Attrs = append(n.Attrs, Attr{name, a.Value})
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("svgtree: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			if text := strings.TrimSpace(string(se)); text != "" {
				cur := stack[len(stack)-1]
				if cur.Text != "" {
					cur.Text += " "
				}
				cur.Text += text
			}
		// comments, directives and processing instructions
		// (xpacket and friends) never make it into the tree
		default:
		}
	}
	if root == nil {
		return nil, errNoSVG
	}
	if root.Tag != "svg" {
		return nil, fmt.Errorf("svgtree: root element is <%s>, not <svg>", root.Tag)
	}
	return &Document{Root: root}, nil
}

// ParseString parses an SVG document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// foreignElement reports whether the element belongs to a namespace
// other than SVG. Undeclared prefixes surface with the prefix text as
// the space; those are foreign too.
func foreignElement(name xml.Name) bool {
	return name.Space != "" && name.Space != svgNS
}

// attrName maps a decoded attribute name to its tree form, dropping
// namespace declarations and foreign-namespace attributes.
func attrName(name xml.Name) (string, bool) {
	switch name.Space {
	case "", svgNS:
		if name.Local == "xmlns" {
			return "", false
		}
		return name.Local, true
	case "xmlns":
		return "", false
	case xlinkNS, "xlink":
		if name.Local == "href" {
			return "href", true
		}
		return "", false
	default:
		return "", false
	}
}

// ViewBox returns the root viewBox rectangle. ok is false when the
// attribute is absent; a present but malformed value is an error.
func (d *Document) ViewBox() (x, y, w, h float64, ok bool, err error) {
	v := d.Root.Attr("viewBox")
	if v == "" {
		return 0, 0, 0, 0, false, nil
	}
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ','
	})
	if len(fields) != 4 {
		return 0, 0, 0, 0, false, fmt.Errorf("svgtree: viewBox %q must hold 4 numbers", v)
	}
	var nums [4]float64
	for i, f := range fields {
		nums[i], err = strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, 0, 0, 0, false, fmt.Errorf("svgtree: viewBox %q: bad number %q", v, f)
		}
	}
	return nums[0], nums[1], nums[2], nums[3], true, nil
}
