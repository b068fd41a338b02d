/*
Package ttf2bdf converts outline fonts (TrueType, OpenType) into bitmap fonts
in BDF format.

The conversion is a pipeline of three steps:

▪︎ Glyph outlines are taken from an outline source, usually a font file
loaded with a third-party font parser. Outlines stay in design units.

▪︎ Every glyph is rasterized into a monochrome square cell of
pixels-per-em × pixels-per-em pixels (package raster). Glyphs are
independent of each other and are rasterized in parallel.

▪︎ The rasterized glyphs are reassembled in the order of the requested
character codes and serialized to BDF text (package bdf).

Character codes may be Unicode code points (charset ISO10646-1) or codes of
an 8-bit charset like ISO8859-1, which are mapped to Unicode to find the
glyphs in the font but written with their 8-bit value as BDF encoding.

Errors concerning a single glyph do not abort a conversion; they are
collected in the conversion result.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ttf2bdf

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ttf2bdf'
func tracer() tracing.Trace {
	return tracing.Select("ttf2bdf")
}

// ErrIO is the error class for failures reading font files or writing BDF
// files.
var ErrIO = errors.New("I/O error")

// ErrConfig is the error class for unusable conversion parameters.
var ErrConfig = errors.New("invalid configuration")
