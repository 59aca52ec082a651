package svgtree

import (
	"io"
	"strings"
)

// Encode writes the document as XML. With a non-empty indent every
// element starts its own line; with indent "" the output is a single
// line. The svg namespace declaration is always emitted on the root.
func (d *Document) Encode(w io.Writer, indent string) error {
	sw, ok := w.(io.StringWriter)
	if !ok {
		sw = plainStringWriter{w}
	}
	if err := writeNode(sw, d.Root, indent, 0, true); err != nil {
		return err
	}
	if indent != "" {
		_, err := sw.WriteString("\n")
		return err
	}
	return nil
}

// XML renders the document to a string, see Encode.
func (d *Document) XML(indent string) string {
	var sb strings.Builder
	d.Encode(&sb, indent)
	return sb.String()
}

type plainStringWriter struct{ w io.Writer }

func (p plainStringWriter) WriteString(s string) (int, error) {
	return p.w.Write([]byte(s))
}

func writeNode(w io.StringWriter, n *Node, indent string, depth int, isRoot bool) error {
	if indent != "" && !isRoot {
		if _, err := w.WriteString("\n" + strings.Repeat(indent, depth)); err != nil {
			return err
		}
	}
	if _, err := w.WriteString("<" + n.Tag); err != nil {
		return err
	}
	if isRoot {
		if _, err := w.WriteString(` xmlns="` + svgNS + `"`); err != nil {
			return err
		}
	}
	for _, a := range n.Attrs {
		if _, err := w.WriteString(" " + a.Name + `="` + escapeAttr(a.Value) + `"`); err != nil {
			return err
		}
	}
	if len(n.Children) == 0 && n.Text == "" {
		_, err := w.WriteString("/>")
		return err
	}
	if _, err := w.WriteString(">"); err != nil {
		return err
	}
	if n.Text != "" {
		if _, err := w.WriteString(escapeText(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := writeNode(w, c, indent, depth+1, false); err != nil {
			return err
		}
	}
	if indent != "" && len(n.Children) > 0 {
		if _, err := w.WriteString("\n" + strings.Repeat(indent, depth)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("</" + n.Tag + ">")
	return err
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
)

var textEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;",
)

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
func escapeText(s string) string { return textEscaper.Replace(s) }
