package raster

import (
	"math"
	"slices"

	"github.com/npillmayer/ttf2bdf/outline"
)

// edge is a non-horizontal polygon edge in pixel space, oriented top to bottom.
type edge struct {
	x0, y0 float64 // upper end point
	x1, y1 float64 // lower end point
	dxdy   float64
	dir    int // +1 if the original edge runs downwards, -1 otherwise
}

// crossing is the intersection of a scanline with an edge.
type crossing struct {
	x   float64
	dir int
}

// collectEdges flattens all contours and returns their non-horizontal edges.
// Contours with fewer than 2 distinct points do not contribute.
func collectEdges(contours []outline.Contour, tr transform, tolerance float64) []edge {
	f := flattener{tolerance: tolerance}
	var edges []edge
	for i, c := range contours {
		if c.IsDegenerate() {
			tracer().Debugf("skipping degenerate contour #%d", i)
			continue
		}
		poly := f.contour(c, tr)
		if len(poly) < 2 {
			continue
		}
		for j := range poly {
			a, b := poly[j], poly[(j+1)%len(poly)]
			if !a.finite() || !b.finite() || a.y == b.y {
				continue
			}
			e := edge{dir: 1}
			if a.y > b.y {
				a, b = b, a
				e.dir = -1
			}
			e.x0, e.y0, e.x1, e.y1 = a.x, a.y, b.x, b.y
			e.dxdy = (b.x - a.x) / (b.y - a.y)
			edges = append(edges, e)
		}
	}
	return edges
}

// fill scans every pixel row of bm at the vertical pixel center and sets the
// pixels whose centers lie inside the edges, according to rule.
func fill(bm *Bitmap, edges []edge, rule FillRule) {
	var xs []crossing
	for row := 0; row < bm.Height; row++ {
		y := float64(row) + 0.5
		xs = xs[:0]
		for _, e := range edges {
			// half-open in y, so shared vertices are counted once
			if y < e.y0 || y >= e.y1 {
				continue
			}
			xs = append(xs, crossing{x: e.x0 + (y-e.y0)*e.dxdy, dir: e.dir})
		}
		if len(xs) < 2 {
			continue
		}
		slices.SortFunc(xs, func(a, b crossing) int {
			switch {
			case a.x < b.x:
				return -1
			case a.x > b.x:
				return 1
			}
			return a.dir - b.dir
		})
		switch rule {
		case NonZero:
			winding, start := 0, 0.0
			for _, c := range xs {
				if winding == 0 {
					start = c.x
				}
				winding += c.dir
				if winding == 0 {
					fillSpan(bm, row, start, c.x)
				}
			}
		default:
			for i := 0; i+1 < len(xs); i += 2 {
				fillSpan(bm, row, xs[i].x, xs[i+1].x)
			}
		}
	}
}

// fillSpan sets the pixels of a row whose centers c+0.5 satisfy x0 ≤ c+0.5 < x1.
func fillSpan(bm *Bitmap, row int, x0, x1 float64) {
	if !(x1 > x0) {
		return
	}
	from := math.Ceil(x0 - 0.5)
	to := math.Ceil(x1 - 0.5)
	if to <= 0 || from >= float64(bm.Width) {
		return
	}
	bm.fillSpan(row, int(math.Max(from, 0)), int(math.Min(to, float64(bm.Width))))
}
