package raster

import (
	"math"

	"github.com/npillmayer/ttf2bdf/outline"
)

// vec is a point in pixel space.
type vec struct {
	x, y float64
}

func (v vec) add(w vec) vec { return vec{v.x + w.x, v.y + w.y} }
func (v vec) sub(w vec) vec { return vec{v.x - w.x, v.y - w.y} }
func (v vec) mul(f float64) vec { return vec{v.x * f, v.y * f} }
func (v vec) length() float64 { return math.Hypot(v.x, v.y) }
func mid(v, w vec) vec { return vec{(v.x + w.x) / 2, (v.y + w.y) / 2} }
func (v vec) eq(w vec) bool { return v.x == w.x && v.y == w.y }
func (v vec) finite() bool { return !math.IsNaN(v.x+v.y) && !math.IsInf(v.x+v.y, 0) }

// flattener turns contours into polygons in pixel space.
type flattener struct {
	tolerance float64
	pts       []vec
}

// emit appends a polygon vertex, skipping immediate duplicates.
func (f *flattener) emit(p vec) {
	if n := len(f.pts); n > 0 && f.pts[n-1].eq(p) {
		return
	}
	f.pts = append(f.pts, p)
}

// contour flattens one contour into a closed polygon. The polygon is returned
// without repeating the start vertex at the end.
func (f *flattener) contour(c outline.Contour, tr transform) []vec {
	f.pts = f.pts[:0]
	cur := tr.apply(c.Start)
	f.emit(cur)
	for _, s := range c.Segments {
		switch s.Op {
		case outline.LineTo:
			cur = tr.apply(s.Args[0])
			f.emit(cur)
		case outline.QuadTo:
			p1, p2 := tr.apply(s.Args[0]), tr.apply(s.Args[1])
			f.quad(cur, p1, p2, 0)
			cur = p2
		case outline.CubeTo:
			p1, p2, p3 := tr.apply(s.Args[0]), tr.apply(s.Args[1]), tr.apply(s.Args[2])
			f.cube(cur, p1, p2, p3, 0)
			cur = p3
		}
	}
	if n := len(f.pts); n > 1 && f.pts[n-1].eq(f.pts[0]) {
		f.pts = f.pts[:n-1]
	}
	return f.pts
}

// quad flattens a quadratic Bézier curve by de Casteljau subdivision. The
// distance of the curve from its chord is at most |p0 - 2p1 + p2| / 4.
func (f *flattener) quad(p0, p1, p2 vec, depth int) {
	dev := p0.sub(p1.mul(2)).add(p2).length() / 4
	if depth >= MaxFlattenDepth || !(dev > f.tolerance) {
		f.emit(p2)
		return
	}
	q0, q1 := mid(p0, p1), mid(p1, p2)
	m := mid(q0, q1)
	f.quad(p0, q0, m, depth+1)
	f.quad(m, q1, p2, depth+1)
}

// cube flattens a cubic Bézier curve by de Casteljau subdivision. The
// distance of the curve from its chord is bounded by
// 3/4 · max(|p0 - 2p1 + p2|, |p1 - 2p2 + p3|).
func (f *flattener) cube(p0, p1, p2, p3 vec, depth int) {
	d1 := p0.sub(p1.mul(2)).add(p2).length()
	d2 := p1.sub(p2.mul(2)).add(p3).length()
	dev := 0.75 * math.Max(d1, d2)
	if depth >= MaxFlattenDepth || !(dev > f.tolerance) {
		f.emit(p3)
		return
	}
	q0, q1, q2 := mid(p0, p1), mid(p1, p2), mid(p2, p3)
	r0, r1 := mid(q0, q1), mid(q1, q2)
	m := mid(r0, r1)
	f.cube(p0, q0, r0, m, depth+1)
	f.cube(m, r1, q2, p3, depth+1)
}
