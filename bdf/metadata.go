package bdf

import (
	"fmt"
	"strconv"
	"strings"
)

// Metadata holds the font-global values of a BDF header. Count and the bounding
// box depend on the complete glyph set; use ComputeMetadata to derive them.
type Metadata struct {
	Name       string // FONT, usually an XLFD name
	PointSize  int
	XDPI, YDPI int
	BBox       BoundingBox // FONTBOUNDINGBOX
	Count      int         // CHARS
	Properties []Property  // optional, written only if not empty
}

// Property is an entry of the STARTPROPERTIES section. String values are
// written in double quotes, all other values verbatim.
type Property struct {
	Name     string
	Value    string
	IsString bool
}

// IntProperty creates an integer property.
func IntProperty(name string, value int) Property {
	return Property{Name: name, Value: strconv.Itoa(value)}
}

// StringProperty creates a string property.
func StringProperty(name, value string) Property {
	return Property{Name: name, Value: value, IsString: true}
}

func (p Property) String() string {
	if p.IsString {
		return p.Name + " " + quote(p.Value)
	}
	return p.Name + " " + p.Value
}

// Int returns the value of an integer property.
func (p Property) Int() (int, bool) {
	if p.IsString {
		return 0, false
	}
	n, err := strconv.Atoi(p.Value)
	return n, err == nil
}

// Property looks up a property by name.
func (m Metadata) Property(name string) (Property, bool) {
	for _, p := range m.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// MetadataOptions are the inputs to ComputeMetadata which cannot be derived
// from the glyph records.
type MetadataOptions struct {
	Foundry    string // XLFD foundry, defaults to "misc"
	Family     string // XLFD family name
	Weight     string // XLFD weight, defaults to "Medium"
	Slant      string // XLFD slant, defaults to "R"
	PixelSize  int    // pixels per em
	PointSize  int
	XDPI, YDPI int
	Registry   string // charset registry, e.g. "ISO10646"
	Encoding   string // charset encoding, e.g. "1"
	Ascent     int    // pixels above the baseline
	Descent    int    // pixels below the baseline
	// DefaultChar is the encoding of the glyph substituted for missing ones;
	// negative for none.
	DefaultChar rune
	Properties  bool // if set, standard properties are included
}

// ComputeMetadata derives the font header from the complete, ordered glyph set:
// glyph count, union of all glyph bounding boxes and the XLFD font name.
func ComputeMetadata(records []Record, opts MetadataOptions) Metadata {
	m := Metadata{
		PointSize: opts.PointSize,
		XDPI:      opts.XDPI,
		YDPI:      opts.YDPI,
		Count:     len(records),
	}
	monospaced, total := true, 0
	for i, r := range records {
		m.BBox = m.BBox.Union(r.BBX())
		total += r.DWidth
		if i > 0 && r.DWidth != records[0].DWidth {
			monospaced = false
		}
	}
	avg := 0
	if len(records) > 0 {
		avg = (total*10 + len(records)/2) / len(records)
	}
	spacing := "P"
	if monospaced {
		spacing = "M"
	}
	registry, encoding := opts.Registry, opts.Encoding
	if registry == "" {
		registry, encoding = "ISO10646", "1"
	}
	m.Name = XLFD(opts.Foundry, opts.Family, opts.Weight, opts.Slant, opts.PixelSize,
		opts.PointSize*10, opts.XDPI, opts.YDPI, spacing, avg, registry, encoding)
	if opts.Properties {
		m.Properties = []Property{
			IntProperty("FONT_ASCENT", opts.Ascent),
			IntProperty("FONT_DESCENT", opts.Descent),
		}
		if opts.DefaultChar >= 0 {
			m.Properties = append(m.Properties, IntProperty("DEFAULT_CHAR", int(opts.DefaultChar)))
		}
		m.Properties = append(m.Properties,
			StringProperty("CHARSET_REGISTRY", registry),
			StringProperty("CHARSET_ENCODING", encoding))
	}
	tracer().Debugf("font %s: %d glyphs, bbox %s", m.Name, m.Count, m.BBox)
	return m
}

// XLFD builds an X Logical Font Description name:
//
//	-foundry-family-weight-slant-Normal--pixels-decipoints-xdpi-ydpi-spacing-avgwidth-registry-encoding
//
// avgWidth is in tenths of a pixel. Empty foundry, weight and slant fall back
// to "misc", "Medium" and "R". Hyphens and non-ASCII characters in fields are
// replaced, as XLFD uses '-' as field separator.
func XLFD(foundry, family, weight, slant string, pixels, decipoints, xdpi, ydpi int,
	spacing string, avgWidth int, registry, encoding string) string {
	//
	or := func(s, dflt string) string {
		if s = xlfdField(s); s == "" {
			return dflt
		}
		return s
	}
	return fmt.Sprintf("-%s-%s-%s-%s-Normal--%d-%d-%d-%d-%s-%d-%s-%s",
		or(foundry, "misc"), or(family, "unknown"), or(weight, "Medium"), or(slant, "R"),
		pixels, decipoints, xdpi, ydpi, or(spacing, "P"), avgWidth,
		or(registry, "ISO10646"), or(encoding, "1"))
}

func xlfdField(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case r == '-' || r == '*' || r == '?' || r == '"' || r == ',':
			return ' '
		case r < 0x20 || r > 0x7e:
			return -1
		}
		return r
	}, s))
}

// quote writes a BDF string value; embedded quotes are doubled.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
