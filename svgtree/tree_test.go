package svgtree

import (
	"strings"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">` +
		`<defs/><path d="M1,1 L2,2"/></svg>`
	doc, err := ParseString(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.XML(""); got != in {
		t.Errorf("round trip:\ngot  %s\nwant %s", got, in)
	}
}

func TestParseDropsNoise(t *testing.T) {
	in := `<?xml version="1.0"?>
<?xpacket begin="x" id="W5M0MpCehiHzreSzNTczkc9d"?>
<!-- editor comment -->
<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
     xmlns:sodipodi="http://sodipodi.sourceforge.net/DTD/sodipodi-0.0.dtd"
     viewBox="0 0 10 10">
  <sodipodi:namedview inkscape:zoom="2"/>
  <path inkscape:label="layer" d="M1,1 L2,2"/>
</svg>
<?xpacket end="w"?>`
	doc, err := ParseString(in)
	if err != nil {
		t.Fatal(err)
	}
	out := doc.XML("")
	for _, bad := range []string{"xpacket", "comment", "inkscape", "sodipodi"} {
		if strings.Contains(out, bad) {
			t.Errorf("output still contains %q: %s", bad, out)
		}
	}
	if len(doc.Root.Children) != 1 || doc.Root.Children[0].Tag != "path" {
		t.Errorf("unexpected children: %s", out)
	}
}

func TestParseXlinkHref(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg"
   xmlns:xlink="http://www.w3.org/1999/xlink">
  <use xlink:href="#target"/>
</svg>`
	doc, err := ParseString(in)
	if err != nil {
		t.Fatal(err)
	}
	use := doc.Root.Children[0]
	if got := use.Attr("href"); got != "#target" {
		t.Errorf("href = %q, want #target", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"<g/>",
		"<svg><unclosed></svg>",
	} {
		if _, err := ParseString(in); err == nil {
			t.Errorf("ParseString(%q): expected error", in)
		}
	}
}

func TestAddresses(t *testing.T) {
	doc, err := ParseString(`<svg xmlns="http://www.w3.org/2000/svg">` +
		`<defs><linearGradient id="a"/><linearGradient id="b"/></defs>` +
		`<path/><g><path/></g><path/></svg>`)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	doc.Walk(func(n *Node, addr string) bool {
		got[addr] = n.Tag
		return true
	})
	for addr, tag := range map[string]string{
		"/svg[0]":                           "svg",
		"/svg[0]/defs[0]":                   "defs",
		"/svg[0]/defs[0]/linearGradient[1]": "linearGradient",
		"/svg[0]/path[0]":                   "path",
		"/svg[0]/g[0]":                      "g",
		"/svg[0]/g[0]/path[0]":              "path",
		"/svg[0]/path[1]":                   "path",
	} {
		if got[addr] != tag {
			t.Errorf("address %s: got %q, want %q", addr, got[addr], tag)
		}
	}

	grad := doc.FindID("b")
	if grad == nil {
		t.Fatal("FindID(b) = nil")
	}
	if addr := doc.Address(grad); addr != "/svg[0]/defs[0]/linearGradient[1]" {
		t.Errorf("Address = %q", addr)
	}
}

func TestNodeEdits(t *testing.T) {
	doc, _ := ParseString(`<svg xmlns="http://www.w3.org/2000/svg"><g><path/></g><rect/></svg>`)
	g := doc.Root.Children[0]

	g.SetAttr("fill", "red")
	g.SetAttr("fill", "blue")
	if g.Attr("fill") != "blue" || len(g.Attrs) != 1 {
		t.Errorf("SetAttr: %+v", g.Attrs)
	}
	g.RemoveAttr("fill")
	if g.HasAttr("fill") {
		t.Error("RemoveAttr left the attribute")
	}

	// splice the group's children into its position
	doc.Root.ReplaceChild(g, g.Children...)
	if got := doc.XML(""); !strings.Contains(got, "<path/><rect/>") {
		t.Errorf("ReplaceChild: %s", got)
	}

	clone := doc.Clone()
	clone.Root.Children[0].SetAttr("d", "M0,0")
	if doc.Root.Children[0].HasAttr("d") {
		t.Error("Clone shares nodes with the original")
	}
}

func TestViewBox(t *testing.T) {
	doc, _ := ParseString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="7 7, 12 12"/>`)
	x, y, w, h, ok, err := doc.ViewBox()
	if err != nil || !ok {
		t.Fatalf("ViewBox: ok=%v err=%v", ok, err)
	}
	if x != 7 || y != 7 || w != 12 || h != 12 {
		t.Errorf("ViewBox = %v %v %v %v", x, y, w, h)
	}

	doc, _ = ParseString(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	if _, _, _, _, ok, _ := doc.ViewBox(); ok {
		t.Error("missing viewBox reported present")
	}

	doc, _ = ParseString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="1 2 3"/>`)
	if _, _, _, _, _, err := doc.ViewBox(); err == nil {
		t.Error("short viewBox must error")
	}
}

func TestPrettyEncode(t *testing.T) {
	doc, _ := ParseString(`<svg xmlns="http://www.w3.org/2000/svg"><defs/><g><path d="M1,1"/></g></svg>`)
	want := `<svg xmlns="http://www.w3.org/2000/svg">
  <defs/>
  <g>
    <path d="M1,1"/>
  </g>
</svg>
`
	if got := doc.XML("  "); got != want {
		t.Errorf("pretty:\ngot  %q\nwant %q", got, want)
	}
}

func TestRefID(t *testing.T) {
	for _, tc := range []struct {
		in, id string
		ok     bool
	}{
		{"#g1", "g1", true},
		{"url(#g1)", "g1", true},
		{" url( #g1 ) ", "g1", true},
		{"g1", "", false},
		{"url(g1)", "", false},
		{"", "", false},
	} {
		id, ok := RefID(tc.in)
		if id != tc.id || ok != tc.ok {
			t.Errorf("RefID(%q) = %q,%v, want %q,%v", tc.in, id, ok, tc.id, tc.ok)
		}
	}
}
