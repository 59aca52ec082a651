// Package picosvg normalizes arbitrary SVG documents into a
// restricted canonical subset: a root svg holding one defs with
// flattened gradients followed by absolute-coordinate paths, with no
// groups, transforms, use references or nested coordinate systems
// left behind.
package picosvg

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gofonts/picosvg/svgpath"
	"github.com/gofonts/picosvg/svgtree"
)

// SVG wraps a parsed document and exposes normalization over it.
type SVG struct {
	doc *svgtree.Document
}

// Parse reads an SVG document.
func Parse(r io.Reader) (*SVG, error) {
	doc, err := svgtree.Parse(r)
	if err != nil {
		return nil, err
	}
	return &SVG{doc: doc}, nil
}

// FromString parses an SVG document held in a string.
func FromString(s string) (*SVG, error) {
	doc, err := svgtree.ParseString(s)
	if err != nil {
		return nil, err
	}
	return &SVG{doc: doc}, nil
}

// Document exposes the underlying tree.
func (s *SVG) Document() *svgtree.Document { return s.doc }

// String renders the document on one line.
func (s *SVG) String() string { return s.doc.XML("") }

// Pretty renders the document indented by two spaces per level.
func (s *SVG) Pretty() string { return s.doc.XML("  ") }

// ViewBox returns the root viewBox, falling back to "0 0 width height"
// when only width/height are given.
func (s *SVG) ViewBox() (x, y, w, h float64, err error) {
	x, y, w, h, ok, err := s.doc.ViewBox()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if ok {
		return x, y, w, h, nil
	}
	wa, ha := s.doc.Root.Attr("width"), s.doc.Root.Attr("height")
	if wa == "" || ha == "" {
		return 0, 0, 0, 0, errors.New("picosvg: svg has neither viewBox nor width/height")
	}
	if w, err = svgtree.ParseLength(wa); err != nil {
		return 0, 0, 0, 0, err
	}
	if h, err = svgtree.ParseLength(ha); err != nil {
		return 0, 0, 0, 0, err
	}
	return 0, 0, w, h, nil
}

// Tolerance is the curve flattening tolerance used for boolean
// geometry: 0.1% of the larger viewBox dimension.
func (s *SVG) Tolerance() (float64, error) {
	_, _, w, h, err := s.ViewBox()
	if err != nil {
		return 0, err
	}
	return toleranceRatio * math.Max(w, h), nil
}

// ToPicoSVG runs the full normalization pipeline and returns the
// canonical document. The receiver is left untouched unless InPlace
// is given.
func (s *SVG) ToPicoSVG(opts ...Option) (*SVG, error) {
	o := buildOptions(opts)
	doc := s.doc
	if !o.inPlace {
		doc = doc.Clone()
	}
	p := &pipeline{
		doc:         doc,
		opts:        o,
		clips:       map[*svgtree.Node][]pendingClip{},
		passthrough: map[*svgtree.Node]bool{},
		gradCopies:  map[string]string{},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	out := &SVG{doc: doc}
	if o.inPlace {
		s.doc = doc
	}
	return out, nil
}

// pendingClip is a clip reference collected during flattening, with
// the coordinate system it was referenced from.
type pendingClip struct {
	ref       string
	transform svgpath.Matrix2D
}

// pipeline carries one normalization run over one document. Stages
// run in a fixed order; each depends on the previous stage's
// normalized form.
type pipeline struct {
	doc  *svgtree.Document
	opts options

	viewBox   [4]float64
	tolerance float64

	clips       map[*svgtree.Node][]pendingClip
	passthrough map[*svgtree.Node]bool
	gradCopies  map[string]string // gradient id + transform -> copied id
}

func (p *pipeline) run() error {
	for _, stage := range []func() error{
		p.resolveViewBox,
		p.applyStyles,
		p.enforcePolicy,
		p.resolveUses,
		p.resolveNestedSVGs,
		p.resolveGradientTemplates,
		p.shapesToPaths,
		p.flatten,
		p.foldGradientTransforms,
		p.applyClips,
		p.normalizeWinding,
		p.clipToViewBox,
		p.removeUnpainted,
		p.pruneSubpaths,
		p.assembleCanonical,
		p.round,
	} {
		if err := stage(); err != nil {
			return err
		}
	}
	return nil
}

// resolveViewBox pins the root viewBox, synthesizing it from
// width/height when absent, and fixes the flattening tolerance.
func (p *pipeline) resolveViewBox() error {
	s := &SVG{doc: p.doc}
	x, y, w, h, err := s.ViewBox()
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("picosvg: degenerate viewBox %v %v %v %v", x, y, w, h)
	}
	p.viewBox = [4]float64{x, y, w, h}
	p.tolerance = toleranceRatio * math.Max(w, h)
	p.doc.Root.SetAttr("viewBox", fmt.Sprintf("%s %s %s %s",
		svgpath.FormatFloat(x, -1), svgpath.FormatFloat(y, -1),
		svgpath.FormatFloat(w, -1), svgpath.FormatFloat(h, -1)))
	p.doc.Root.RemoveAttr("width")
	p.doc.Root.RemoveAttr("height")
	return nil
}
