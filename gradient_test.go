package picosvg

import (
	"strings"
	"testing"

	"github.com/gofonts/picosvg/svgtree"
)

// gradientByID digs the normalized gradient out of defs.
func gradientByID(t *testing.T, s *SVG, id string) *svgtree.Node {
	t.Helper()
	g := s.Document().FindID(id)
	if g == nil {
		t.Fatalf("gradient #%s not in output: %s", id, s.String())
	}
	return g
}

func TestGradientTranslationFolded(t *testing.T) {
	out := normalize(t, `<svg viewBox="0 0 10 10">
  <defs>
    <linearGradient id="g" x1="1" y1="1" x2="3" y2="1" gradientUnits="userSpaceOnUse" gradientTransform="translate(1 -4122)">
      <stop offset="0" stop-color="blue"/>
    </linearGradient>
  </defs>
  <rect width="10" height="10" fill="url(#g)"/>
</svg>`)
	g := gradientByID(t, out, "g")
	for attr, want := range map[string]string{
		"x1": "2", "y1": "-4121", "x2": "4", "y2": "-4121",
	} {
		if got := g.Attr(attr); got != want {
			t.Errorf("%s = %q, want %q", attr, got, want)
		}
	}
	if g.HasAttr("gradientTransform") {
		t.Errorf("pure translation must fold away: %q", g.Attr("gradientTransform"))
	}
}

func TestGradientResidualTransformKept(t *testing.T) {
	out := normalize(t, `<svg viewBox="0 0 10 10">
  <defs>
    <linearGradient id="g" x1="0" y1="0" x2="1" y2="0" gradientUnits="userSpaceOnUse" gradientTransform="matrix(2 0 0 2 1 1)">
      <stop offset="0" stop-color="blue"/>
    </linearGradient>
  </defs>
  <rect width="10" height="10" fill="url(#g)"/>
</svg>`)
	g := gradientByID(t, out, "g")
	for attr, want := range map[string]string{
		"x1": "0.5", "y1": "0.5", "x2": "1.5", "y2": "0.5",
	} {
		if got := g.Attr(attr); got != want {
			t.Errorf("%s = %q, want %q", attr, got, want)
		}
	}
	if got := g.Attr("gradientTransform"); got != "matrix(2 0 0 2 0 0)" {
		t.Errorf("gradientTransform = %q, want the linear remainder", got)
	}
}

func TestRadialGradientFolded(t *testing.T) {
	out := normalize(t, `<svg viewBox="0 0 10 10">
  <defs>
    <radialGradient id="g" cx="5" cy="5" r="2" gradientUnits="userSpaceOnUse" gradientTransform="translate(1 2)">
      <stop offset="0" stop-color="blue"/>
    </radialGradient>
  </defs>
  <rect width="10" height="10" fill="url(#g)"/>
</svg>`)
	g := gradientByID(t, out, "g")
	for attr, want := range map[string]string{"cx": "6", "cy": "7", "r": "2"} {
		if got := g.Attr(attr); got != want {
			t.Errorf("%s = %q, want %q", attr, got, want)
		}
	}
	if g.HasAttr("gradientTransform") {
		t.Error("pure translation must fold away")
	}
}

func TestRadialFocalPointDefaultsToCenter(t *testing.T) {
	out := normalize(t, `<svg viewBox="0 0 10 10">
  <defs>
    <radialGradient id="g" cx="5" cy="5" r="2" fx="4" gradientUnits="userSpaceOnUse" gradientTransform="translate(1 2)">
      <stop offset="0" stop-color="blue"/>
    </radialGradient>
  </defs>
  <rect width="10" height="10" fill="url(#g)"/>
</svg>`)
	g := gradientByID(t, out, "g")
	// fy starts at cy, so it folds like the center's y
	for attr, want := range map[string]string{
		"cx": "6", "cy": "7", "fx": "5", "fy": "7",
	} {
		if got := g.Attr(attr); got != want {
			t.Errorf("%s = %q, want %q", attr, got, want)
		}
	}
}

func TestGradientTemplateChain(t *testing.T) {
	out := normalize(t, `<svg viewBox="0 0 10 10">
  <defs>
    <linearGradient id="base">
      <stop offset="0" stop-color="blue"/>
      <stop offset="1" stop-color="red"/>
    </linearGradient>
    <linearGradient id="mid" href="#base" gradientUnits="userSpaceOnUse"/>
    <linearGradient id="leaf" href="#mid" x1="1" y1="0" x2="2" y2="0"/>
  </defs>
  <rect width="10" height="10" fill="url(#leaf)"/>
</svg>`)
	g := gradientByID(t, out, "leaf")
	if len(g.Children) != 2 || g.Children[0].Attr("stop-color") != "blue" {
		t.Errorf("stops not inherited: %s", out.String())
	}
	if got := g.Attr("gradientUnits"); got != "userSpaceOnUse" {
		t.Errorf("gradientUnits = %q, want inherited userSpaceOnUse", got)
	}
	if g.HasAttr("href") {
		t.Error("href must not survive")
	}
	for _, orphan := range []string{`id="base"`, `id="mid"`} {
		if strings.Contains(out.String(), orphan) {
			t.Errorf("template %s must be pruned: %s", orphan, out.String())
		}
	}
}

func TestGradientCycleFails(t *testing.T) {
	s, err := FromString(`<svg viewBox="0 0 10 10">
  <defs>
    <linearGradient id="a" href="#b"/>
    <linearGradient id="b" href="#a"/>
  </defs>
  <rect width="10" height="10" fill="url(#a)"/>
</svg>`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToPicoSVG(); err == nil {
		t.Fatal("gradient reference cycle must fail")
	}
}

func TestGradientOrphanPruned(t *testing.T) {
	out := normalize(t, `<svg viewBox="0 0 10 10">
  <defs>
    <linearGradient id="unused"><stop offset="0" stop-color="blue"/></linearGradient>
  </defs>
  <rect width="10" height="10"/>
</svg>`)
	if strings.Contains(out.String(), "unused") {
		t.Errorf("orphan gradient survived: %s", out.String())
	}
}

func TestGroupTransformPushedIntoGradient(t *testing.T) {
	out := normalize(t, `<svg viewBox="0 0 10 10">
  <defs>
    <linearGradient id="g0" x1="1" y1="0" x2="2" y2="0" gradientUnits="userSpaceOnUse">
      <stop offset="0" stop-color="blue"/>
    </linearGradient>
  </defs>
  <g transform="translate(5,0)">
    <rect width="2" height="2" fill="url(#g0)"/>
  </g>
</svg>`)
	var path *svgtree.Node
	out.Document().Walk(func(n *svgtree.Node, addr string) bool {
		if n.Tag == "path" {
			path = n
		}
		return true
	})
	if path == nil {
		t.Fatal("no path in output")
	}
	id, ok := svgtree.RefID(path.Attr("fill"))
	if !ok {
		t.Fatalf("fill = %q", path.Attr("fill"))
	}
	if id == "g0" {
		t.Fatal("moved shape must reference a retargeted gradient copy")
	}
	g := gradientByID(t, out, id)
	for attr, want := range map[string]string{
		"x1": "6", "y1": "0", "x2": "7", "y2": "0",
	} {
		if got := g.Attr(attr); got != want {
			t.Errorf("%s = %q, want %q", attr, got, want)
		}
	}
	if strings.Contains(out.String(), `id="g0"`) {
		t.Errorf("untransformed original must be pruned: %s", out.String())
	}
}

func TestObjectBoundingBoxDefaultsMaterialized(t *testing.T) {
	out := normalize(t, `<svg viewBox="0 0 10 10">
  <defs>
    <linearGradient id="g" gradientTransform="translate(0.5)">
      <stop offset="0" stop-color="blue"/>
    </linearGradient>
  </defs>
  <rect width="10" height="10" fill="url(#g)"/>
</svg>`)
	g := gradientByID(t, out, "g")
	for attr, want := range map[string]string{
		"x1": "0.5", "y1": "0", "x2": "1.5", "y2": "0",
	} {
		if got := g.Attr(attr); got != want {
			t.Errorf("%s = %q, want %q", attr, got, want)
		}
	}
	if g.HasAttr("gradientTransform") {
		t.Error("pure translation must fold away")
	}
}
