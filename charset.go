package ttf2bdf

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Charset determines the meaning of the character codes of a BDF font.
type Charset struct {
	Registry string           // CHARSET_REGISTRY, e.g. "ISO8859"
	Encoding string           // CHARSET_ENCODING, e.g. "1"
	cmap     *charmap.Charmap // nil for Unicode
}

// Unicode is the charset ISO10646-1, where codes are Unicode code points.
var Unicode = Charset{Registry: "ISO10646", Encoding: "1"}

var charsets = map[string]Charset{
	"iso10646-1":   Unicode,
	"iso8859-1":    {Registry: "ISO8859", Encoding: "1", cmap: charmap.ISO8859_1},
	"iso8859-2":    {Registry: "ISO8859", Encoding: "2", cmap: charmap.ISO8859_2},
	"iso8859-15":   {Registry: "ISO8859", Encoding: "15", cmap: charmap.ISO8859_15},
	"koi8-r":       {Registry: "KOI8", Encoding: "R", cmap: charmap.KOI8R},
	"windows-1252": {Registry: "MICROSOFT", Encoding: "CP1252", cmap: charmap.Windows1252},
}

// Charsets lists the names accepted by ParseCharset.
func Charsets() []string {
	return []string{"iso10646-1", "iso8859-1", "iso8859-2", "iso8859-15", "koi8-r", "windows-1252"}
}

// ParseCharset finds a charset by name. Names are matched case-insensitively;
// "unicode" and "latin1" are accepted as aliases.
func ParseCharset(name string) (Charset, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "unicode", "utf-8", "utf8":
		n = "iso10646-1"
	case "latin1", "latin-1":
		n = "iso8859-1"
	case "cp1252":
		n = "windows-1252"
	}
	cs, ok := charsets[n]
	if !ok {
		return Charset{}, fmt.Errorf("%w: unknown charset %q (known: %s)", ErrConfig, name,
			strings.Join(Charsets(), ", "))
	}
	return cs, nil
}

func (cs Charset) String() string {
	return cs.Registry + "-" + cs.Encoding
}

// IsUnicode is true for ISO10646-1.
func (cs Charset) IsUnicode() bool {
	return cs.cmap == nil
}

// Rune maps a character code of the charset to its Unicode code point.
// ok is false if code is not defined in the charset.
func (cs Charset) Rune(code rune) (r rune, ok bool) {
	if cs.cmap == nil {
		return code, code >= 0 && utf8.ValidRune(code)
	}
	if code < 0 || code > 0xff {
		return utf8.RuneError, false
	}
	r = cs.cmap.DecodeByte(byte(code))
	return r, r != utf8.RuneError
}

// DefaultCodes returns the codes converted if no codes are requested
// explicitly: printable ASCII for Unicode, and every code of an 8-bit charset
// which maps to a graphic character.
func (cs Charset) DefaultCodes() []rune {
	var codes []rune
	if cs.cmap == nil {
		for c := rune(0x20); c <= 0x7e; c++ {
			codes = append(codes, c)
		}
		return codes
	}
	for c := rune(0); c <= 0xff; c++ {
		if r, ok := cs.Rune(c); ok && unicode.IsGraphic(r) {
			codes = append(codes, c)
		}
	}
	return codes
}
