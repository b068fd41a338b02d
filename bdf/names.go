package bdf

import "fmt"

// GlyphName derives a glyph name for STARTCHAR from a Unicode code point.
// ASCII letters and digits are named by themselves, U+0020 is "space", all
// other code points get names of the form "uniXXXX" (or "uXXXXX" beyond the
// BMP).
func GlyphName(code rune) string {
	switch {
	case code == ' ':
		return "space"
	case code >= 'A' && code <= 'Z', code >= 'a' && code <= 'z', code >= '0' && code <= '9':
		return string(code)
	case code > 0xFFFF:
		return fmt.Sprintf("u%05X", code)
	case code < 0:
		return "unknown"
	}
	return fmt.Sprintf("uni%04X", code)
}

// PreferredName returns the glyph name stored in the font, if it is usable
// as a BDF glyph name, and GlyphName(code) otherwise.
func PreferredName(sourceName string, code rune) string {
	if isToken(sourceName) && len(sourceName) <= 127 {
		return sourceName
	}
	return GlyphName(code)
}

// isToken reports whether s is a non-empty run of printable ASCII without
// spaces.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] <= 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// isText reports whether s is printable ASCII, spaces allowed.
func isText(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
