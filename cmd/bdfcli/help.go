package main

import (
	"strings"

	"github.com/npillmayer/ttf2bdf"
	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "glyph", "glyphs", "code", "codes":
		pterm.Info.Println("Glyphs and codes")
		pterm.Println(`
	Codes are given as a single character (glyph:A), or as a hex number,
	optionally prefixed by U+ or 0x (glyph:41, glyph:U+00E9).
	Codes are interpreted in the current charset.

	glyph:<code>        print the bitmap of a glyph
	glyph:<code>:hex    print the BDF bitmap rows of a glyph
	info:<code>         print outline information of a glyph
	`)
	case "charset", "charsets":
		pterm.Info.Println("Charsets")
		pterm.Printf(`
	charset:<name> selects the charset of the character codes and of the BDF
	font. Changing the charset resets the list of codes to convert.
	Known charsets: %s
	`, strings.Join(ttf2bdf.Charsets(), ", "))
		pterm.Println()
	case "convert", "emit":
		pterm.Info.Println("Converting")
		pterm.Println(`
	convert             convert the default codes of the charset
	convert:<from>-<to> convert a range of codes
	emit:<file>         write the last conversion as a BDF file
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	load:<file>[:<backend>]   load a TrueType/OpenType font (backend sfnt or typesetting)
	ppem:<n>                  set the cell size in pixels
	rule:<evenodd|nonzero>    set the fill rule
	charset[:<name>]          set or list charsets
	glyph:<code>[:hex]        show a glyph bitmap
	info[:<code>]             show font or glyph information
	convert[:<from>-<to>]     convert glyphs
	emit:<file>               write a BDF file
	help[:<topic>]            topics: glyph, charset, convert
	quit                      leave
	`)
	}
}
