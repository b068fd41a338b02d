package fontload

import (
	"fmt"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/npillmayer/ttf2bdf/outline"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Source delivers the glyphs of a loaded font as outlines in design units.
// It implements outline.Source.
type Source struct {
	font    *ScalableFont
	backend Backend
	face    *font.Face // Typesetting backend only
	buf     sfnt.Buffer
	metrics outline.FontMetrics
}

var _ outline.Source = (*Source)(nil)

// Font returns the underlying font.
func (src *Source) Font() *ScalableFont {
	return src.font
}

// Backend returns the parser backend of src.
func (src *Source) Backend() Backend {
	return src.backend
}

// Name returns the family and subfamily names of the font.
func (src *Source) Name() (family, subfamily string) {
	family, _ = src.font.SFNT.Name(&src.buf, sfnt.NameIDFamily)
	subfamily, _ = src.font.SFNT.Name(&src.buf, sfnt.NameIDSubfamily)
	return
}

// Metrics returns units per em and the ascent and descent of the font.
func (src *Source) Metrics() outline.FontMetrics {
	return src.metrics
}

// NumGlyphs returns the number of glyphs in the font.
func (src *Source) NumGlyphs() int {
	return src.font.SFNT.NumGlyphs()
}

func (src *Source) loadMetrics() outline.FontMetrics {
	upem := int(src.font.SFNT.UnitsPerEm())
	m := outline.FontMetrics{UnitsPerEm: upem}
	switch src.backend {
	case Typesetting:
		m.UnitsPerEm = int(src.face.Upem())
		if ext, ok := src.face.FontHExtents(); ok {
			m.Ascent, m.Descent = float64(ext.Ascender), -float64(ext.Descender)
		}
	default:
		// at ppem = upem, 26.6 values are design units
		fm, err := src.font.SFNT.Metrics(&src.buf, fixed.I(upem), xfont.HintingNone)
		if err != nil {
			tracer().Errorf("cannot read font metrics: %v", err)
			return m
		}
		m.Ascent, m.Descent = float64(fm.Ascent)/64, float64(fm.Descent)/64
	}
	return m
}

// Glyph returns the glyph for a Unicode code point. found is false if the
// font does not map code to a glyph.
func (src *Source) Glyph(code rune) (outline.Glyph, bool, error) {
	id, found, err := src.glyphIndex(code)
	if err != nil || !found {
		return outline.Glyph{Code: code}, false, err
	}
	g, err := src.loadGlyph(id)
	if err != nil {
		return outline.Glyph{Code: code}, true, fmt.Errorf("glyph %#U: %w", code, err)
	}
	g.Code = code
	return g, true, nil
}

// GlyphByID returns a glyph by its index in the font.
func (src *Source) GlyphByID(id outline.GlyphID) (outline.Glyph, bool) {
	if int(id) >= src.NumGlyphs() {
		return outline.Glyph{}, false
	}
	g, err := src.loadGlyph(id)
	if err != nil {
		tracer().Errorf("glyph id %d: %v", id, err)
		return outline.Glyph{}, false
	}
	return g, true
}

// GlyphName returns the name of a glyph as stored in the font, or "".
func (src *Source) GlyphName(id outline.GlyphID) string {
	name, err := src.font.SFNT.GlyphName(&src.buf, sfnt.GlyphIndex(id))
	if err != nil {
		return ""
	}
	return name
}

// Codes returns the code points in [from, to] the font has glyphs for, in
// ascending order.
func (src *Source) Codes(from, to rune) []rune {
	var codes []rune
	for r := max(from, 0); r <= to; r++ {
		if _, ok, _ := src.glyphIndex(r); ok {
			codes = append(codes, r)
		}
	}
	return codes
}

func (src *Source) glyphIndex(code rune) (outline.GlyphID, bool, error) {
	if src.backend == Typesetting {
		gid, ok := src.face.NominalGlyph(code)
		return outline.GlyphID(gid), ok && gid != 0, nil
	}
	x, err := src.font.SFNT.GlyphIndex(&src.buf, code)
	if err != nil {
		return 0, false, err
	}
	return outline.GlyphID(x), x != 0, nil
}

func (src *Source) loadGlyph(id outline.GlyphID) (g outline.Glyph, err error) {
	g.Kind = outline.SimpleGlyph
	g.Name = src.GlyphName(id)
	if src.backend == Typesetting {
		g.Contours, g.Advance = src.typesettingGlyph(id)
		return g, nil
	}
	g.Contours, g.Advance, err = src.sfntGlyph(id)
	return g, err
}

// sfntGlyph loads a glyph at ppem = upem, so 26.6 coordinates are design
// units. sfnt delivers y pointing down.
func (src *Source) sfntGlyph(id outline.GlyphID) ([]outline.Contour, float64, error) {
	ppem := fixed.I(src.metrics.UnitsPerEm)
	x := sfnt.GlyphIndex(id)
	advance, err := src.font.SFNT.GlyphAdvance(&src.buf, x, ppem, xfont.HintingNone)
	if err != nil {
		return nil, 0, err
	}
	segs, err := src.font.SFNT.LoadGlyph(&src.buf, x, ppem, nil)
	if err != nil {
		return nil, 0, err
	}
	pt := func(p fixed.Point26_6) outline.Point {
		return outline.Pt(float64(p.X)/64, -float64(p.Y)/64)
	}
	var b outline.Builder
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			b.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			b.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			b.QuadTo(pt(seg.Args[0]), pt(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			b.CubeTo(pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2]))
		}
	}
	return b.Contours(), float64(advance) / 64, nil
}

// typesettingGlyph loads a glyph outline in design units, y pointing up.
// Glyphs without outline data (bitmap or SVG glyphs) yield no contours.
func (src *Source) typesettingGlyph(id outline.GlyphID) ([]outline.Contour, float64) {
	gid := font.GID(id)
	advance := float64(src.face.HorizontalAdvance(gid))
	data, ok := src.face.GlyphData(gid).(font.GlyphOutline)
	if !ok {
		return nil, advance
	}
	pt := func(p ot.SegmentPoint) outline.Point {
		return outline.Pt(float64(p.X), float64(p.Y))
	}
	var b outline.Builder
	for _, seg := range data.Segments {
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			b.MoveTo(pt(seg.Args[0]))
		case ot.SegmentOpLineTo:
			b.LineTo(pt(seg.Args[0]))
		case ot.SegmentOpQuadTo:
			b.QuadTo(pt(seg.Args[0]), pt(seg.Args[1]))
		case ot.SegmentOpCubeTo:
			b.CubeTo(pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2]))
		}
	}
	return b.Contours(), advance
}
