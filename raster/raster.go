/*
Package raster converts glyph outlines into monochrome bitmaps.

The rasterizer scales an outline from design units to a square pixel cell of
pixelsPerEm × pixelsPerEm, flattens curves into line segments and fills the
result with a scanline algorithm: every pixel row is intersected with all
edges at the vertical pixel center, crossings are sorted, and pixels whose
center lies inside the outline (by the even-odd or nonzero rule) are set.

Rasterization is total for well-formed metrics: malformed geometry (degenerate or
self-intersecting contours, curves with wild control points) degrades to a
best-effort fill but never fails. Only non-positive pixelsPerEm or unitsPerEm
produce an error, see [ErrInvalidMetrics].

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package raster

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/ttf2bdf/outline"
)

// tracer traces with key 'ttf2bdf.raster'.
func tracer() tracing.Trace {
	return tracing.Select("ttf2bdf.raster")
}

// ErrInvalidMetrics is the error class for non-positive resolution parameters.
var ErrInvalidMetrics = errors.New("invalid metrics")

// MetricsError reports rasterization parameters which cannot be used.
// It matches [ErrInvalidMetrics] with errors.Is.
type MetricsError struct {
	Code        rune // character code of the glyph to rasterize
	PixelsPerEm int
	UnitsPerEm  int
}

func (e *MetricsError) Error() string {
	return fmt.Sprintf("glyph %#U: %s: pixelsPerEm=%d, unitsPerEm=%d",
		e.Code, ErrInvalidMetrics, e.PixelsPerEm, e.UnitsPerEm)
}

// Unwrap makes a MetricsError match ErrInvalidMetrics.
func (e *MetricsError) Unwrap() error {
	return ErrInvalidMetrics
}

// FillRule decides which regions of a self-overlapping outline are inside.
type FillRule uint8

const (
	EvenOdd FillRule = iota // inside if a ray crosses the outline an odd number of times
	NonZero                 // inside if the winding number is not zero
)

func (r FillRule) String() string {
	switch r {
	case EvenOdd:
		return "evenodd"
	case NonZero:
		return "nonzero"
	}
	return fmt.Sprintf("FillRule(%d)", r)
}

// ParseFillRule parses "evenodd" or "nonzero".
func ParseFillRule(s string) (FillRule, error) {
	switch s {
	case "evenodd", "even-odd", "eo":
		return EvenOdd, nil
	case "nonzero", "non-zero", "nz":
		return NonZero, nil
	}
	return EvenOdd, fmt.Errorf("unknown fill rule %q (expected evenodd|nonzero)", s)
}

// DefaultFlatness is the maximum deviation of flattened curves from the true
// curve, in pixels.
const DefaultFlatness = 0.25

// MaxFlattenDepth bounds the recursive subdivision of curves.
const MaxFlattenDepth = 8

// Options control rasterization beyond the metrics.
type Options struct {
	Rule     FillRule
	Descent  int     // pixel rows of the cell below the baseline
	Flatness float64 // curve flattening tolerance in pixels
}

// Option sets a rasterization option.
type Option func(*Options)

// WithFillRule selects the fill rule; the default is EvenOdd.
func WithFillRule(rule FillRule) Option {
	return func(o *Options) { o.Rule = rule }
}

// WithDescent places the baseline descent pixel rows above the bottom of the
// cell. The default of 0 maps the em box [0, unitsPerEm] onto the full cell.
func WithDescent(px int) Option {
	return func(o *Options) { o.Descent = px }
}

// WithFlatness sets the curve flattening tolerance. Non-positive values are
// replaced by DefaultFlatness.
func WithFlatness(tolerance float64) Option {
	return func(o *Options) { o.Flatness = tolerance }
}

func makeOptions(opts []Option) Options {
	o := Options{Rule: EvenOdd, Flatness: DefaultFlatness}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Flatness <= 0 {
		o.Flatness = DefaultFlatness
	}
	return o
}

// Rasterize converts an outline into a bitmap of exactly pixelsPerEm ×
// pixelsPerEm pixels. Design coordinates are scaled by pixelsPerEm/unitsPerEm.
//
// The bitmap's offsets place the cell at x=0 and y=-descent relative to the
// glyph origin; its advance is the outline's advance scaled to pixels, or
// pixelsPerEm if the outline has no positive, finite advance.
func Rasterize(o outline.Outline, pixelsPerEm, unitsPerEm int, opts ...Option) (*Bitmap, error) {
	if pixelsPerEm <= 0 || unitsPerEm <= 0 {
		return nil, &MetricsError{Code: o.Code, PixelsPerEm: pixelsPerEm, UnitsPerEm: unitsPerEm}
	}
	options := makeOptions(opts)
	bm := NewBitmap(pixelsPerEm, pixelsPerEm)
	bm.YOffset = -options.Descent
	bm.Advance = pixelsPerEm
	scale := float64(pixelsPerEm) / float64(unitsPerEm)
	if adv := math.Round(o.Advance * scale); adv > 0 && adv <= math.MaxInt32 {
		bm.Advance = int(adv)
	}
	if o.Empty() {
		return bm, nil
	}
	tr := transform{
		scale:    scale,
		baseline: float64(pixelsPerEm - options.Descent),
	}
	edges := collectEdges(o.Contours, tr, options.Flatness)
	tracer().Debugf("rasterize %#U: %d contours, %d edges", o.Code, len(o.Contours), len(edges))
	fill(bm, edges, options.Rule)
	return bm, nil
}

// transform maps design units (y up) to pixel space (y down, origin at the
// top left corner of the cell).
type transform struct {
	scale    float64
	baseline float64 // pixel row of the baseline, counted from the top
}

func (t transform) apply(p outline.Point) vec {
	return vec{x: p.X * t.scale, y: t.baseline - p.Y*t.scale}
}
