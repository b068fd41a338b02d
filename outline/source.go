package outline

// FontMetrics contains the font-wide metrics a converter needs, in design units.
type FontMetrics struct {
	UnitsPerEm int
	Ascent     float64 // positive, above the baseline
	Descent    float64 // positive, below the baseline
}

// Source delivers glyph outlines of a font. It is implemented by font parsers;
// package fontload provides implementations on top of third-party parsers.
//
// Glyph returns the glyph mapped to a character code. found is false if the
// font has no glyph for code. Composite glyphs returned by Glyph must be
// resolvable with GlyphByID.
type Source interface {
	Name() (family, subfamily string)
	Metrics() FontMetrics
	Glyph(code rune) (g Glyph, found bool, err error)
	GlyphByID(id GlyphID) (Glyph, bool)
}

// Load fetches the glyph for code from src and resolves it into an outline.
func Load(src Source, code rune) (Outline, bool, error) {
	g, found, err := src.Glyph(code)
	if err != nil || !found {
		return Outline{Code: code}, found, err
	}
	o, err := Resolve(g, src.GlyphByID)
	return o, true, err
}

// Table is an in-memory Source, mapping character codes to glyph ids and
// glyph ids to glyphs.
type Table struct {
	Family, Subfamily string
	FontMetrics       FontMetrics
	CMap              map[rune]GlyphID
	Glyphs            map[GlyphID]Glyph
}

var _ Source = (*Table)(nil)

// Name returns family and subfamily names.
func (t *Table) Name() (string, string) {
	return t.Family, t.Subfamily
}

// Metrics returns the font-wide metrics.
func (t *Table) Metrics() FontMetrics {
	return t.FontMetrics
}

// Glyph returns the glyph mapped to code, with its Code field set to code.
func (t *Table) Glyph(code rune) (Glyph, bool, error) {
	id, ok := t.CMap[code]
	if !ok {
		return Glyph{}, false, nil
	}
	g, ok := t.Glyphs[id]
	if !ok {
		return Glyph{}, false, nil
	}
	g.Code = code
	return g, true, nil
}

// GlyphByID returns a glyph by id.
func (t *Table) GlyphByID(id GlyphID) (Glyph, bool) {
	g, ok := t.Glyphs[id]
	return g, ok
}
