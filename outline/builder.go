package outline

// Builder collects pen commands (move, line, quad, cube) into contours.
// Font parsers typically deliver outlines as such a command stream.
//
// A MoveTo closes the contour under construction and starts a new one.
// Drawing commands without a preceding MoveTo start a contour at the origin.
type Builder struct {
	contours []Contour
	current  *Contour
}

// MoveTo starts a new contour at p.
func (b *Builder) MoveTo(p Point) {
	b.Close()
	b.current = &Contour{Start: p}
}

// LineTo appends a line segment.
func (b *Builder) LineTo(p Point) {
	b.add(Line(p))
}

// QuadTo appends a quadratic Bézier segment.
func (b *Builder) QuadTo(c, p Point) {
	b.add(Quad(c, p))
}

// CubeTo appends a cubic Bézier segment.
func (b *Builder) CubeTo(c1, c2, p Point) {
	b.add(Cube(c1, c2, p))
}

func (b *Builder) add(s Segment) {
	if b.current == nil {
		b.current = &Contour{}
	}
	b.current.Segments = append(b.current.Segments, s)
}

// Close finishes the contour under construction, if any. An explicit line
// back to the start point is dropped, as closing is implicit.
func (b *Builder) Close() {
	if b.current == nil {
		return
	}
	c := *b.current
	b.current = nil
	if n := len(c.Segments); n > 0 {
		if last := c.Segments[n-1]; last.Op == LineTo && last.Args[0].Eq(c.Start) {
			c.Segments = c.Segments[:n-1]
		}
	}
	b.contours = append(b.contours, c)
}

// Contours closes any open contour and returns all contours collected so far.
// The builder is reset afterwards.
func (b *Builder) Contours() []Contour {
	b.Close()
	cs := b.contours
	b.contours = nil
	return cs
}
