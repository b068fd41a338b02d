package raster

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ttf2bdf/outline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(code rune, x0, y0, x1, y1 float64) outline.Outline {
	return outline.Outline{
		Code:     code,
		Contours: []outline.Contour{outline.Rect(x0, y0, x1, y1)},
	}
}

func rows(t *testing.T, bm *Bitmap) []string {
	t.Helper()
	require.NotNil(t, bm)
	return bm.Rows()
}

func repeat(s string, n int) []string {
	r := make([]string, n)
	for i := range r {
		r[i] = s
	}
	return r
}

func TestEmptyOutline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttf2bdf.raster")
	defer teardown()
	//
	for _, ppem := range []int{1, 8, 13, 32} {
		bm, err := Rasterize(outline.Outline{Code: 'x'}, ppem, 1000)
		require.NoError(t, err)
		assert.Equal(t, ppem, bm.Width)
		assert.Equal(t, ppem, bm.Height)
		assert.True(t, bm.IsBlank(), "expected blank bitmap for ppem=%d", ppem)
	}
}

func TestFullEmSquare(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttf2bdf.raster")
	defer teardown()
	//
	bm, err := Rasterize(square('A', 0, 0, 1000, 1000), 8, 1000)
	require.NoError(t, err)
	assert.Equal(t, repeat("FF", 8), rows(t, bm))
	assert.Equal(t, 0, bm.XOffset)
	assert.Equal(t, 0, bm.YOffset)
	assert.Equal(t, 8, bm.Advance, "expected advance to default to the cell width")
}

func TestHalfSquareAndPadding(t *testing.T) {
	bm, err := Rasterize(square('l', 0, 0, 500, 1000), 8, 1000)
	require.NoError(t, err)
	assert.Equal(t, repeat("F0", 8), rows(t, bm))
	//
	bm, err = Rasterize(square('l', 0, 0, 1000, 1000), 10, 1000)
	require.NoError(t, err)
	assert.Equal(t, repeat("FFC0", 10), rows(t, bm), "expected rows padded with zero bits on the right")
}

func TestInvalidMetrics(t *testing.T) {
	tests := []struct{ ppem, upem int }{
		{0, 1000}, {-1, 1000}, {8, 0}, {8, -2048},
	}
	for _, tt := range tests {
		bm, err := Rasterize(square('Q', 0, 0, 10, 10), tt.ppem, tt.upem)
		assert.Nil(t, bm)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidMetrics), "expected ErrInvalidMetrics, got %v", err)
		var merr *MetricsError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, 'Q', merr.Code)
		assert.Equal(t, tt.ppem, merr.PixelsPerEm)
		assert.Contains(t, err.Error(), "U+0051")
	}
}

func TestDeterminism(t *testing.T) {
	o := circle('o', 500, 500, 450, true)
	a, err := Rasterize(o, 24, 1000)
	require.NoError(t, err)
	b, err := Rasterize(o, 24, 1000)
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "expected identical bitmaps:\n%s\n%s", a, b)
}

func TestFillRules(t *testing.T) {
	o := outline.Outline{Code: 'O', Contours: []outline.Contour{
		outline.Rect(0, 0, 1000, 1000),
		outline.Rect(250, 250, 750, 750), // same orientation as the outer contour
	}}
	bm, err := Rasterize(o, 8, 1000, WithFillRule(EvenOdd))
	require.NoError(t, err)
	assert.Equal(t, []string{"FF", "FF", "C3", "C3", "C3", "C3", "FF", "FF"}, rows(t, bm))
	//
	bm, err = Rasterize(o, 8, 1000, WithFillRule(NonZero))
	require.NoError(t, err)
	assert.Equal(t, repeat("FF", 8), rows(t, bm))
	//
	reversed := outline.Contour{Start: outline.Pt(250, 250), Segments: []outline.Segment{
		outline.Line(outline.Pt(250, 750)),
		outline.Line(outline.Pt(750, 750)),
		outline.Line(outline.Pt(750, 250)),
	}}
	o.Contours[1] = reversed
	bm, err = Rasterize(o, 8, 1000, WithFillRule(NonZero))
	require.NoError(t, err)
	assert.Equal(t, []string{"FF", "FF", "C3", "C3", "C3", "C3", "FF", "FF"}, rows(t, bm),
		"expected counter-rotating contour to cut a hole with nonzero rule")
}

func TestDescent(t *testing.T) {
	bm, err := Rasterize(square('_', 0, 0, 1000, 1000), 8, 1000, WithDescent(2))
	require.NoError(t, err)
	assert.Equal(t, -2, bm.YOffset)
	assert.Equal(t, []string{"FF", "FF", "FF", "FF", "FF", "FF", "00", "00"}, rows(t, bm))
	//
	bm, err = Rasterize(square('g', 0, -250, 1000, 0), 8, 1000, WithDescent(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"00", "00", "00", "00", "00", "00", "FF", "FF"}, rows(t, bm),
		"expected descender below the baseline to land in the descent rows")
}

func TestDegenerateGeometry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttf2bdf.raster")
	defer teardown()
	//
	o := outline.Outline{Code: '.', Contours: []outline.Contour{
		{Start: outline.Pt(100, 100)},
		{Start: outline.Pt(100, 100), Segments: []outline.Segment{outline.Line(outline.Pt(100, 100))}},
		{Start: outline.Pt(0, 0), Segments: []outline.Segment{outline.Line(outline.Pt(1000, 1000))}},
	}}
	bm, err := Rasterize(o, 8, 1000)
	require.NoError(t, err)
	assert.True(t, bm.IsBlank(), "expected degenerate contours to contribute no fill:\n%s", bm)
	//
	bowtie := outline.Outline{Code: 'x', Contours: []outline.Contour{{
		Start: outline.Pt(0, 0),
		Segments: []outline.Segment{
			outline.Line(outline.Pt(1000, 1000)),
			outline.Line(outline.Pt(1000, 0)),
			outline.Line(outline.Pt(0, 1000)),
		},
	}}}
	bm, err = Rasterize(bowtie, 16, 1000)
	require.NoError(t, err)
	assert.False(t, bm.IsBlank())
	//
	wild := outline.Outline{Code: '~', Contours: []outline.Contour{{
		Start: outline.Pt(0, 0),
		Segments: []outline.Segment{
			outline.Cube(outline.Pt(1e12, -1e12), outline.Pt(-1e12, 1e12), outline.Pt(1000, 0)),
			outline.Quad(outline.Pt(math.Inf(1), 5), outline.Pt(0, 1000)),
		},
	}}}
	_, err = Rasterize(wild, 16, 1000)
	assert.NoError(t, err)
}

func TestCurves(t *testing.T) {
	for _, quads := range []bool{true, false} {
		bm, err := Rasterize(circle('o', 500, 500, 500, quads), 16, 1000)
		require.NoError(t, err)
		t.Logf("circle (quads=%v):\n%s", quads, bm)
		assert.True(t, bm.At(8, 8), "expected center to be set")
		assert.True(t, bm.At(0, 8), "expected left rim to be set")
		assert.True(t, bm.At(15, 7), "expected right rim to be set")
		for _, corner := range [][2]int{{0, 0}, {15, 0}, {0, 15}, {15, 15}} {
			assert.False(t, bm.At(corner[0], corner[1]), "expected corner %v to be clear", corner)
		}
	}
}

func TestFlattenDepthBound(t *testing.T) {
	f := flattener{tolerance: 1e-9}
	c := outline.Contour{Start: outline.Pt(0, 0), Segments: []outline.Segment{
		outline.Cube(outline.Pt(0, 1000), outline.Pt(1000, 1000), outline.Pt(1000, 0)),
	}}
	poly := f.contour(c, transform{scale: 1, baseline: 0})
	assert.LessOrEqual(t, len(poly), 1+(1<<MaxFlattenDepth), "expected subdivision to be bounded")
	assert.Greater(t, len(poly), 2)
}

func TestAdvance(t *testing.T) {
	o := square('i', 0, 0, 100, 100)
	o.Advance = 500
	bm, err := Rasterize(o, 8, 1000)
	require.NoError(t, err)
	assert.Equal(t, 4, bm.Advance)
	for _, adv := range []float64{math.Inf(1), math.Inf(-1), math.NaN(), 1e300, -250} {
		o.Advance = adv
		bm, err = Rasterize(o, 8, 1000)
		require.NoError(t, err)
		assert.Equal(t, 8, bm.Advance, "expected cell width for advance %g", adv)
	}
}

func TestRasterizeAllKeepsOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttf2bdf.raster")
	defer teardown()
	//
	var batch []outline.Outline
	for i := 0; i < 40; i++ {
		w := float64(25 * (i + 1))
		batch = append(batch, square(rune('!'+i), 0, 0, w, w))
	}
	results := RasterizeAll(batch, 12, 1000, 4, WithFillRule(NonZero))
	require.Len(t, results, len(batch))
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, batch[i].Code, r.Code, "expected results in input order")
		seq, err := Rasterize(batch[i], 12, 1000, WithFillRule(NonZero))
		require.NoError(t, err)
		assert.True(t, seq.Equal(r.Bitmap), "parallel result %d differs from sequential", i)
	}
	assert.Empty(t, RasterizeAll(nil, 12, 1000, 0))
	//
	failed := RasterizeAll(batch[:3], 0, 1000, 2)
	for _, r := range failed {
		assert.True(t, errors.Is(r.Err, ErrInvalidMetrics))
	}
}

func TestBitmap(t *testing.T) {
	bm := NewBitmap(10, 2)
	assert.Equal(t, 2, bm.Stride())
	bm.Set(9, 1, true)
	bm.Set(0, 0, true)
	bm.Set(42, 0, true) // ignored
	assert.True(t, bm.At(9, 1))
	assert.False(t, bm.At(8, 1))
	assert.False(t, bm.At(-1, 0))
	assert.Equal(t, []string{"8000", "0040"}, bm.Rows())
	assert.Equal(t, []byte{0x00, 0x40}, bm.Row(1))
	assert.Equal(t, "X.........\n.........X\n", bm.String())
	ink := bm.Ink()
	assert.Equal(t, 0, ink.Min.X)
	assert.Equal(t, 10, ink.Max.X)
	bm.Set(0, 0, false)
	assert.False(t, bm.At(0, 0))
	assert.Panics(t, func() { NewBitmap(0, 4) })
}

func TestParseFillRule(t *testing.T) {
	r, err := ParseFillRule("nonzero")
	require.NoError(t, err)
	assert.Equal(t, NonZero, r)
	r, err = ParseFillRule("evenodd")
	require.NoError(t, err)
	assert.Equal(t, EvenOdd, r)
	assert.Equal(t, "nonzero", NonZero.String())
	_, err = ParseFillRule("winding")
	assert.Error(t, err)
}

// circle approximates a circle by 4 quadratic or cubic segments.
func circle(code rune, cx, cy, r float64, quads bool) outline.Outline {
	p := func(x, y float64) outline.Point { return outline.Pt(cx+x*r, cy+y*r) }
	var segs []outline.Segment
	if quads {
		// 4 quadrants, control points at the corners of the bounding square
		segs = []outline.Segment{
			outline.Quad(p(1, 1), p(0, 1)),
			outline.Quad(p(-1, 1), p(-1, 0)),
			outline.Quad(p(-1, -1), p(0, -1)),
			outline.Quad(p(1, -1), p(1, 0)),
		}
	} else {
		k := 0.5523
		segs = []outline.Segment{
			outline.Cube(p(1, k), p(k, 1), p(0, 1)),
			outline.Cube(p(-k, 1), p(-1, k), p(-1, 0)),
			outline.Cube(p(-1, -k), p(-k, -1), p(0, -1)),
			outline.Cube(p(k, -1), p(1, -k), p(1, 0)),
		}
	}
	return outline.Outline{Code: code, Contours: []outline.Contour{{Start: p(1, 0), Segments: segs}}}
}
