/*
Package bdf writes and reads fonts in the Glyph Bitmap Distribution Format
(BDF), version 2.1.

A BDF file is plain ASCII text: a font header (name, size, resolution, global
bounding box, an optional property list and the glyph count) followed by one
block per glyph and a trailer. Every glyph block carries the glyph's name and
encoding, its widths, its bounding box and its bitmap as rows of hex digits.

	STARTFONT 2.1
	FONT -gomono-Go-Medium-R-Normal--16-150-75-75-M-80-ISO10646-1
	SIZE 15 75 75
	FONTBOUNDINGBOX 16 16 0 -3
	CHARS 1
	STARTCHAR A
	ENCODING 65
	SWIDTH 512 0
	DWIDTH 8 0
	BBX 16 16 0 -3
	BITMAP
	0000
	…
	ENDCHAR
	ENDFONT

Emission is deterministic: glyph blocks appear in the order the records are
handed in, no sorting by code point takes place. The header's glyph count must
match the number of records exactly; a mismatch is a programming error and
nothing is written.

See https://adobe-type-tools.github.io/font-tech-notes/pdfs/5005.BDF_Spec.pdf

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package bdf

import (
	"errors"
	"fmt"
	"image"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/ttf2bdf/raster"
)

// tracer traces with key 'ttf2bdf.bdf'.
func tracer() tracing.Trace {
	return tracing.Select("ttf2bdf.bdf")
}

// Version is the BDF version this package writes.
const Version = "2.1"

// Error classes of this package, to be matched with errors.Is.
var (
	ErrCountMismatch   = errors.New("glyph count mismatch")
	ErrInvalidRecord   = errors.New("invalid glyph record")
	ErrInvalidMetadata = errors.New("invalid font metadata")
	ErrSyntax          = errors.New("BDF syntax error")
)

// CountMismatchError is returned if the glyph count declared in the font
// metadata differs from the number of glyphs actually present.
type CountMismatchError struct {
	Declared int // CHARS value
	Actual   int // number of glyph records
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("%s: CHARS %d, but %d glyphs", ErrCountMismatch, e.Declared, e.Actual)
}

func (e *CountMismatchError) Unwrap() error {
	return ErrCountMismatch
}

// RecordError reports a glyph record which cannot be written.
type RecordError struct {
	Index int  // position in the record sequence
	Code  rune // encoding of the record
	Issue string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s #%d (code %d): %s", ErrInvalidRecord, e.Index, e.Code, e.Issue)
}

func (e *RecordError) Unwrap() error {
	return ErrInvalidRecord
}

// SyntaxError reports malformed BDF input.
type SyntaxError struct {
	Line  int // 1-based line number
	Issue string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s in line %d: %s", ErrSyntax, e.Line, e.Issue)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// BoundingBox is a BDF bounding box: size in pixels plus the offset of its
// lower left corner from the glyph origin.
type BoundingBox struct {
	Width, Height    int
	XOffset, YOffset int
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%d %d %d %d", b.Width, b.Height, b.XOffset, b.YOffset)
}

// Empty reports whether the box covers no pixels.
func (b BoundingBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Union returns the smallest box containing both b and c. Empty boxes are
// neutral.
func (b BoundingBox) Union(c BoundingBox) BoundingBox {
	if b.Empty() {
		return c
	}
	if c.Empty() {
		return b
	}
	r := b.rect().Union(c.rect())
	return BoundingBox{
		Width:   r.Dx(),
		Height:  r.Dy(),
		XOffset: r.Min.X,
		YOffset: r.Min.Y,
	}
}

// rect is the box in y-up glyph coordinates.
func (b BoundingBox) rect() image.Rectangle {
	return image.Rect(b.XOffset, b.YOffset, b.XOffset+b.Width, b.YOffset+b.Height)
}

// Record is a single glyph, ready for emission. Records are created once and
// not modified afterwards.
type Record struct {
	Code   rune           // value of the ENCODING line
	Name   string         // glyph name for STARTCHAR, see GlyphName
	Bitmap *raster.Bitmap // pixels and BBX
	DWidth int            // device width in pixels
	SWidth int            // scalable width in 1/1000 of the point size
}

// BBX returns the glyph's bounding box as given by its bitmap.
func (r Record) BBX() BoundingBox {
	if r.Bitmap == nil {
		return BoundingBox{}
	}
	return BoundingBox{
		Width:   r.Bitmap.Width,
		Height:  r.Bitmap.Height,
		XOffset: r.Bitmap.XOffset,
		YOffset: r.Bitmap.YOffset,
	}
}

// NewRecord creates a record for a rasterized glyph. The device width is
// taken from the bitmap's advance, the scalable width is derived from it for
// the given point size and horizontal resolution.
func NewRecord(code rune, name string, bm *raster.Bitmap, pointSize, xdpi int) Record {
	r := Record{Code: code, Name: name, Bitmap: bm}
	if bm != nil {
		r.DWidth = bm.Advance
		r.SWidth = ScalableWidth(bm.Advance, pointSize, xdpi)
	}
	return r
}

// ScalableWidth converts a device width in pixels to the BDF scalable width,
// i.e. 1/1000 of the point size: dwidth · 1000 · 72 / (pointSize · xdpi).
func ScalableWidth(dwidth, pointSize, xdpi int) int {
	if pointSize <= 0 || xdpi <= 0 {
		return 0
	}
	num := dwidth * 72000
	den := pointSize * xdpi
	if num < 0 {
		return -((-num + den/2) / den)
	}
	return (num + den/2) / den
}
