/*
Package outline holds the normalized vector description of glyphs, as produced by
a font parser and consumed by the rasterizer.

Coordinates are in font design units, with the y axis growing upward, the way
they are stored in the font file. A glyph is described by a set of closed
contours; every contour starts at a point and continues with line, quadratic and
cubic segments. The last point of a contour implicitly connects to its start.

Glyphs may either carry contours directly ([SimpleGlyph]) or reference other
glyphs with an affine placement ([CompositeGlyph]). [Resolve] flattens a glyph of
either kind into an [Outline], which is all the rasterizer ever sees.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package outline

import (
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ttf2bdf.outline'.
func tracer() tracing.Trace {
	return tracing.Select("ttf2bdf.outline")
}

// Point is a coordinate pair in design units.
type Point struct {
	X, Y float64
}

// Pt is a shortcut to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Eq reports whether two points coincide.
func (p Point) Eq(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// SegmentOp tells how to interpret the arguments of a segment.
type SegmentOp uint8

const (
	LineTo SegmentOp = iota // Args[0] is the end point
	QuadTo                  // Args[0] is the control point, Args[1] the end point
	CubeTo                  // Args[0..1] are control points, Args[2] is the end point
)

func (op SegmentOp) String() string {
	switch op {
	case LineTo:
		return "LineTo"
	case QuadTo:
		return "QuadTo"
	case CubeTo:
		return "CubeTo"
	}
	return fmt.Sprintf("SegmentOp(%d)", op)
}

// Segment is one piece of a contour. It starts at the end point of the
// previous segment (or at the contour's start point).
type Segment struct {
	Op   SegmentOp
	Args [3]Point
}

// End returns the point a segment ends at.
func (s Segment) End() Point {
	switch s.Op {
	case QuadTo:
		return s.Args[1]
	case CubeTo:
		return s.Args[2]
	}
	return s.Args[0]
}

// Line creates a line segment to p.
func Line(p Point) Segment {
	return Segment{Op: LineTo, Args: [3]Point{p}}
}

// Quad creates a quadratic Bézier segment with control point c, ending at p.
func Quad(c, p Point) Segment {
	return Segment{Op: QuadTo, Args: [3]Point{c, p}}
}

// Cube creates a cubic Bézier segment with control points c1 and c2, ending at p.
func Cube(c1, c2, p Point) Segment {
	return Segment{Op: CubeTo, Args: [3]Point{c1, c2, p}}
}

// Contour is a closed sequence of segments. Closing the contour from the end of
// the last segment back to Start is implicit.
type Contour struct {
	Start    Point
	Segments []Segment
}

// Points returns the start point followed by every argument point of every
// segment, control points included.
func (c Contour) Points() []Point {
	pts := make([]Point, 0, 1+2*len(c.Segments))
	pts = append(pts, c.Start)
	for _, s := range c.Segments {
		switch s.Op {
		case LineTo:
			pts = append(pts, s.Args[0])
		case QuadTo:
			pts = append(pts, s.Args[0], s.Args[1])
		case CubeTo:
			pts = append(pts, s.Args[0], s.Args[1], s.Args[2])
		}
	}
	return pts
}

// IsDegenerate reports whether a contour has fewer than 2 distinct points.
// Degenerate contours enclose no area.
func (c Contour) IsDegenerate() bool {
	for _, p := range c.Points() {
		if !p.Eq(c.Start) {
			return false
		}
	}
	return true
}

// Outline is a glyph reduced to plain contours, ready for rasterization.
type Outline struct {
	Code     rune      // character code, >= 0
	Contours []Contour // closed contours in design units
	Advance  float64   // horizontal advance in design units
	Name     string    // glyph name as stored in the font, may be empty
}

// Empty reports whether an outline has no contours at all.
func (o Outline) Empty() bool {
	return len(o.Contours) == 0
}

// Bounds returns the control box of all contours. The control box contains
// every curve, as Bézier curves stay within the hull of their control points.
// ok is false for outlines without points.
func (o Outline) Bounds() (min, max Point, ok bool) {
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	for _, c := range o.Contours {
		for _, p := range c.Points() {
			min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
			max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
			ok = true
		}
	}
	if !ok {
		return Point{}, Point{}, false
	}
	return
}

// Rect is a convenience function to create a rectangular contour, running
// counter-clockwise.
func Rect(x0, y0, x1, y1 float64) Contour {
	return Contour{
		Start: Pt(x0, y0),
		Segments: []Segment{
			Line(Pt(x1, y0)),
			Line(Pt(x1, y1)),
			Line(Pt(x0, y1)),
		},
	}
}
