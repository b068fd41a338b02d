package outline

import (
	"errors"
	"fmt"
)

// GlyphID identifies a glyph within a font, independent of character codes.
type GlyphID uint16

// GlyphKind tags the variant a Glyph holds.
type GlyphKind uint8

const (
	SimpleGlyph    GlyphKind = iota // glyph carries its own contours
	CompositeGlyph                  // glyph is assembled from references to other glyphs
)

func (k GlyphKind) String() string {
	switch k {
	case SimpleGlyph:
		return "simple"
	case CompositeGlyph:
		return "composite"
	}
	return fmt.Sprintf("GlyphKind(%d)", k)
}

// Transform is an affine transformation of a component glyph: a 2×2 matrix
// followed by an offset. The zero value is not the identity; use [Identity].
type Transform struct {
	XX, XY, YX, YY float64
	DX, DY         float64
}

// Identity is the transformation leaving points unchanged.
var Identity = Transform{XX: 1, YY: 1}

// Translate returns a transformation moving points by (dx,dy).
func Translate(dx, dy float64) Transform {
	return Transform{XX: 1, YY: 1, DX: dx, DY: dy}
}

// Apply transforms a point.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: t.XX*p.X + t.XY*p.Y + t.DX,
		Y: t.YX*p.X + t.YY*p.Y + t.DY,
	}
}

// Then returns the transformation applying t first, then u.
func (t Transform) Then(u Transform) Transform {
	return Transform{
		XX: u.XX*t.XX + u.XY*t.YX,
		XY: u.XX*t.XY + u.XY*t.YY,
		YX: u.YX*t.XX + u.YY*t.YX,
		YY: u.YX*t.XY + u.YY*t.YY,
		DX: u.XX*t.DX + u.XY*t.DY + u.DX,
		DY: u.YX*t.DX + u.YY*t.DY + u.DY,
	}
}

// Component places a referenced glyph inside a composite glyph.
type Component struct {
	Glyph     GlyphID
	Transform Transform
}

// Glyph is a tagged union over the glyph variants found in outline fonts.
// Kind selects which of Contours or Components is meaningful.
type Glyph struct {
	Kind       GlyphKind
	Code       rune        // character code this glyph is requested for
	Name       string      // glyph name, if the font provides one
	Advance    float64     // horizontal advance in design units
	Contours   []Contour   // for SimpleGlyph
	Components []Component // for CompositeGlyph
}

// MaxCompositeDepth bounds the nesting of composite glyph references.
const MaxCompositeDepth = 8

// ErrCompositeCycle is returned if a composite glyph references itself,
// directly or indirectly.
var ErrCompositeCycle = errors.New("composite glyph references itself")

// ErrCompositeDepth is returned if composite glyphs nest too deeply.
var ErrCompositeDepth = errors.New("composite glyph nesting too deep")

// ErrMissingComponent is returned if a composite glyph references a glyph
// which cannot be found.
var ErrMissingComponent = errors.New("composite glyph references unknown glyph")

// Lookup finds glyphs by id. It is used to resolve composite glyphs.
type Lookup func(GlyphID) (Glyph, bool)

// Resolve flattens a glyph into an outline. Simple glyphs are copied; composite
// glyphs have their components looked up, transformed and concatenated, with
// nesting bounded by [MaxCompositeDepth].
func Resolve(g Glyph, lookup Lookup) (Outline, error) {
	o := Outline{Code: g.Code, Advance: g.Advance, Name: g.Name}
	var err error
	o.Contours, err = resolve(g, Identity, lookup, nil, 0, o.Contours)
	if err != nil {
		return Outline{Code: g.Code}, fmt.Errorf("glyph %#U: %w", g.Code, err)
	}
	return o, nil
}

func resolve(g Glyph, t Transform, lookup Lookup, path []GlyphID, depth int,
	out []Contour) ([]Contour, error) {
	//
	switch g.Kind {
	case SimpleGlyph:
		for _, c := range g.Contours {
			out = append(out, transformContour(c, t))
		}
		return out, nil
	case CompositeGlyph:
		if depth >= MaxCompositeDepth {
			return out, ErrCompositeDepth
		}
		if lookup == nil && len(g.Components) > 0 {
			return out, ErrMissingComponent
		}
		var err error
		for _, comp := range g.Components {
			for _, id := range path {
				if id == comp.Glyph {
					return out, fmt.Errorf("%w: glyph id %d", ErrCompositeCycle, id)
				}
			}
			sub, ok := lookup(comp.Glyph)
			if !ok {
				return out, fmt.Errorf("%w: glyph id %d", ErrMissingComponent, comp.Glyph)
			}
			tracer().Debugf("resolving component %d of %#U at depth %d", comp.Glyph, g.Code, depth)
			out, err = resolve(sub, comp.Transform.Then(t), lookup,
				append(path, comp.Glyph), depth+1, out)
			if err != nil {
				return out, err
			}
		}
		return out, nil
	}
	return out, fmt.Errorf("unknown glyph kind %s", g.Kind)
}

func transformContour(c Contour, t Transform) Contour {
	r := Contour{
		Start:    t.Apply(c.Start),
		Segments: make([]Segment, len(c.Segments)),
	}
	for i, s := range c.Segments {
		r.Segments[i].Op = s.Op
		for j := range s.Args {
			r.Segments[i].Args[j] = t.Apply(s.Args[j])
		}
	}
	return r
}
