package raster

import (
	"bytes"
	"fmt"
	"image"
	"strings"
)

// Bitmap is a monochrome pixel grid of fixed size. Rows are stored top to
// bottom, each row packed MSB-first into (Width+7)/8 bytes, with unused bits
// at the end of a row kept at zero.
//
// Besides the pixels, a bitmap carries the placement of the grid relative to
// the glyph origin (the BDF BBX offsets) and the device advance width.
type Bitmap struct {
	Width, Height    int
	XOffset, YOffset int // lower left corner of the grid, relative to the glyph origin
	Advance          int // device width in pixels
	stride           int
	bits             []byte
}

// NewBitmap creates an all-zero bitmap. Width and height must be positive;
// NewBitmap panics otherwise.
func NewBitmap(width, height int) *Bitmap {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("raster: invalid bitmap size %d×%d", width, height))
	}
	stride := (width + 7) / 8
	return &Bitmap{
		Width:   width,
		Height:  height,
		Advance: width,
		stride:  stride,
		bits:    make([]byte, stride*height),
	}
}

// Stride is the number of bytes per row.
func (b *Bitmap) Stride() int {
	return b.stride
}

// At reports whether the pixel at column x, row y is set. Row 0 is the top row.
// Pixels outside the grid are never set.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.bits[y*b.stride+x/8]&(0x80>>(x%8)) != 0
}

// Set sets or clears a pixel. Coordinates outside the grid are ignored.
func (b *Bitmap) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	mask := byte(0x80 >> (x % 8))
	if on {
		b.bits[y*b.stride+x/8] |= mask
	} else {
		b.bits[y*b.stride+x/8] &^= mask
	}
}

// fillSpan sets pixels x0 ≤ x < x1 of row y, clipped to the grid.
func (b *Bitmap) fillSpan(y, x0, x1 int) {
	x0, x1 = max(x0, 0), min(x1, b.Width)
	for x := x0; x < x1; x++ {
		b.bits[y*b.stride+x/8] |= 0x80 >> (x % 8)
	}
}

// Row returns a copy of the packed bytes of row y.
func (b *Bitmap) Row(y int) []byte {
	r := make([]byte, b.stride)
	copy(r, b.bits[y*b.stride:(y+1)*b.stride])
	return r
}

// RowHex returns row y as uppercase hex digits, two per byte, as used in
// BDF BITMAP sections.
func (b *Bitmap) RowHex(y int) string {
	return fmt.Sprintf("%X", b.bits[y*b.stride:(y+1)*b.stride])
}

// Rows returns all rows as hex strings, top to bottom.
func (b *Bitmap) Rows() []string {
	rows := make([]string, b.Height)
	for y := range rows {
		rows[y] = b.RowHex(y)
	}
	return rows
}

// Equal reports whether two bitmaps have identical size, placement and pixels.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Width == other.Width && b.Height == other.Height &&
		b.XOffset == other.XOffset && b.YOffset == other.YOffset &&
		b.Advance == other.Advance && bytes.Equal(b.bits, other.bits)
}

// IsBlank reports whether no pixel is set.
func (b *Bitmap) IsBlank() bool {
	for _, v := range b.bits {
		if v != 0 {
			return false
		}
	}
	return true
}

// Ink returns the smallest rectangle containing all set pixels, in grid
// coordinates. It is empty for blank bitmaps.
func (b *Bitmap) Ink() image.Rectangle {
	var r image.Rectangle
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.At(x, y) {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

// String renders the bitmap as text, one line per row, with 'X' for set
// pixels and '.' for clear ones.
func (b *Bitmap) String() string {
	var sb strings.Builder
	sb.Grow((b.Width + 1) * b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.At(x, y) {
				sb.WriteByte('X')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
