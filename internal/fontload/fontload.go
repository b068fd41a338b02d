/*
Package fontload loads outline fonts from files and delivers their glyphs as
outlines for rasterization.

Parsing of the binary font tables is left to third-party parsers: the default
backend uses golang.org/x/image/font/sfnt, an alternative backend uses
github.com/go-text/typesetting. Both deliver composite glyphs already
resolved, so every glyph arrives as a simple glyph in design units with the
y axis pointing up.

A Source is not safe for concurrent use.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'ttf2bdf.fontload'.
func tracer() tracing.Trace {
	return tracing.Select("ttf2bdf.fontload")
}

// ErrUnsupportedFormat is returned for files which are not TrueType or
// OpenType fonts.
var ErrUnsupportedFormat = errors.New("unsupported font format")

// Backend selects the parser used to read glyph outlines.
type Backend uint8

const (
	SFNT        Backend = iota // golang.org/x/image/font/sfnt
	Typesetting                // github.com/go-text/typesetting
)

func (b Backend) String() string {
	switch b {
	case SFNT:
		return "sfnt"
	case Typesetting:
		return "typesetting"
	}
	return fmt.Sprintf("Backend(%d)", b)
}

// ParseBackend parses a backend name as returned by Backend.String.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sfnt", "x/image":
		return SFNT, nil
	case "typesetting", "go-text", "gotext":
		return Typesetting, nil
	}
	return SFNT, fmt.Errorf("unknown font backend %q (expected sfnt|typesetting)", s)
}

// ScalableFont is a parsed scalable font with original bytes and SFNT view.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
	SFNT     *sfnt.Font
}

// IsFontFile reports whether path has the extension of a TrueType or
// OpenType font file.
func IsFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file and
// prepares it as an outline source with the given backend.
func LoadOpenTypeFont(fontfile string, backend Backend) (*Source, error) {
	if !IsFontFile(fontfile) {
		return nil, fmt.Errorf("%w: %s (expected .ttf or .otf)", ErrUnsupportedFormat, fontfile)
	}
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	src, err := ParseOpenTypeFont(bytez, backend)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fontfile, err)
	}
	src.font.Filepath = fontfile
	tracer().Infof("loaded font %q from %s (%s backend)", src.font.Fontname, fontfile, backend)
	return src, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
func ParseOpenTypeFont(fbytes []byte, backend Backend) (*Source, error) {
	f := &ScalableFont{Binary: fbytes}
	var err error
	if f.SFNT, err = sfnt.Parse(f.Binary); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	src := &Source{font: f, backend: backend}
	switch backend {
	case SFNT:
	case Typesetting:
		if src.face, err = font.ParseTTF(bytes.NewReader(fbytes)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
		}
	default:
		return nil, fmt.Errorf("unknown font backend %s", backend)
	}
	src.metrics = src.loadMetrics()
	return src, nil
}
