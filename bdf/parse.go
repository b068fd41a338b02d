package bdf

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/ttf2bdf/raster"
)

// Font is a BDF font as read by Parse.
type Font struct {
	Version  string
	Comments []string
	Metadata
	Glyphs []Glyph // in file order
}

// Glyph is a glyph block of a BDF font. Bitmap rows are kept as hex strings,
// exactly as found in the input.
type Glyph struct {
	Name     string
	Encoding rune
	SWidth   int
	DWidth   int
	BBX      BoundingBox
	Rows     []string
}

// Glyph returns the first glyph with the given encoding.
func (f *Font) Glyph(code rune) (Glyph, bool) {
	for _, g := range f.Glyphs {
		if g.Encoding == code {
			return g, true
		}
	}
	return Glyph{}, false
}

// Bitmap decodes the glyph's hex rows into a bitmap. The bounding box must
// agree with the rows: one row per pixel line, each row wide enough for the
// BBX width.
func (g Glyph) Bitmap() (*raster.Bitmap, error) {
	if g.BBX.Empty() {
		return nil, fmt.Errorf("glyph %s: empty bounding box %s", g.Name, g.BBX)
	}
	if g.BBX.Height != len(g.Rows) {
		return nil, fmt.Errorf("glyph %s: %d bitmap rows, BBX height is %d", g.Name, len(g.Rows), g.BBX.Height)
	}
	rows := make([][]byte, len(g.Rows))
	for y, row := range g.Rows {
		b, err := hex.DecodeString(row)
		if err != nil {
			return nil, fmt.Errorf("glyph %s, row %d: %w", g.Name, y, err)
		}
		if g.BBX.Width > 8*len(b) {
			return nil, fmt.Errorf("glyph %s, row %d: %d bits, BBX width is %d", g.Name, y, 8*len(b), g.BBX.Width)
		}
		rows[y] = b
	}
	bm := raster.NewBitmap(g.BBX.Width, g.BBX.Height)
	bm.XOffset, bm.YOffset = g.BBX.XOffset, g.BBX.YOffset
	bm.Advance = g.DWidth
	for y, b := range rows {
		for x := 0; x < bm.Width; x++ {
			if b[x/8]&(0x80>>(x%8)) != 0 {
				bm.Set(x, y, true)
			}
		}
	}
	return bm, nil
}

// Parse reads a BDF font. It recovers the header, the property list and every
// glyph block with its bitmap rows. Keywords it does not know are skipped.
//
// Parse fails with a *SyntaxError for malformed input and with a
// *CountMismatchError if the number of glyph blocks differs from CHARS.
func Parse(r io.Reader) (*Font, error) {
	p := &parser{scanner: bufio.NewScanner(r)}
	p.scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	font, err := p.parse()
	if err != nil {
		tracer().Errorf("parsing BDF: %v", err)
		return nil, err
	}
	tracer().Debugf("parsed BDF font %q with %d glyphs", font.Name, len(font.Glyphs))
	return font, nil
}

type parser struct {
	scanner *bufio.Scanner
	line    int
	keyword string
	args    string
}

// next advances to the next non-empty line and splits it into keyword and
// arguments.
func (p *parser) next() bool {
	for p.scanner.Scan() {
		p.line++
		text := strings.TrimSpace(p.scanner.Text())
		if text == "" {
			continue
		}
		p.keyword, p.args, _ = strings.Cut(text, " ")
		p.args = strings.TrimSpace(p.args)
		return true
	}
	return false
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Line: p.line, Issue: fmt.Sprintf(format, args...)}
}

// ints parses exactly n integer arguments of the current line.
func (p *parser) ints(n int) ([]int, error) {
	fields := strings.Fields(p.args)
	if len(fields) < n {
		return nil, p.errorf("%s expects %d values, has %d", p.keyword, n, len(fields))
	}
	values := make([]int, n)
	for i := range values {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, p.errorf("%s: %q is not an integer", p.keyword, fields[i])
		}
		values[i] = v
	}
	return values, nil
}

func (p *parser) bbox() (BoundingBox, error) {
	v, err := p.ints(4)
	if err != nil {
		return BoundingBox{}, err
	}
	return BoundingBox{Width: v[0], Height: v[1], XOffset: v[2], YOffset: v[3]}, nil
}

func (p *parser) parse() (*Font, error) {
	f := &Font{}
	for p.next() && p.keyword == "COMMENT" {
		f.Comments = append(f.Comments, p.args)
	}
	if p.keyword != "STARTFONT" {
		return nil, p.errorf("expected STARTFONT, found %q", p.keyword)
	}
	f.Version = p.args
	chars := -1
	for chars < 0 {
		if !p.next() {
			return nil, p.eof("CHARS")
		}
		var err error
		switch p.keyword {
		case "COMMENT":
			f.Comments = append(f.Comments, p.args)
		case "FONT":
			f.Name = p.args
		case "SIZE":
			var v []int
			if v, err = p.ints(3); err == nil {
				f.PointSize, f.XDPI, f.YDPI = v[0], v[1], v[2]
			}
		case "FONTBOUNDINGBOX":
			f.BBox, err = p.bbox()
		case "STARTPROPERTIES":
			err = p.properties(&f.Metadata)
		case "CHARS":
			var v []int
			if v, err = p.ints(1); err == nil {
				chars = v[0]
				if chars < 0 {
					err = p.errorf("negative glyph count %d", chars)
				}
			}
		}
		if err != nil {
			return nil, err
		}
	}
	f.Count = chars
	for {
		if !p.next() {
			return nil, p.eof("ENDFONT")
		}
		switch p.keyword {
		case "ENDFONT":
			if len(f.Glyphs) != f.Count {
				return nil, &CountMismatchError{Declared: f.Count, Actual: len(f.Glyphs)}
			}
			return f, nil
		case "STARTCHAR":
			g, err := p.glyph()
			if err != nil {
				return nil, err
			}
			f.Glyphs = append(f.Glyphs, g)
		case "COMMENT":
			f.Comments = append(f.Comments, p.args)
		default:
			return nil, p.errorf("unexpected %s between glyphs", p.keyword)
		}
	}
}

func (p *parser) properties(m *Metadata) error {
	v, err := p.ints(1)
	if err != nil {
		return err
	}
	m.Properties = make([]Property, 0, min(max(v[0], 0), 64))
	for {
		if !p.next() {
			return p.eof("ENDPROPERTIES")
		}
		if p.keyword == "ENDPROPERTIES" {
			break
		}
		prop := Property{Name: p.keyword, Value: p.args}
		if strings.HasPrefix(p.args, `"`) {
			if len(p.args) < 2 || !strings.HasSuffix(p.args, `"`) {
				return p.errorf("unterminated string value of property %s", p.keyword)
			}
			prop.Value = strings.ReplaceAll(p.args[1:len(p.args)-1], `""`, `"`)
			prop.IsString = true
		}
		m.Properties = append(m.Properties, prop)
	}
	if len(m.Properties) != v[0] {
		tracer().Infof("STARTPROPERTIES announces %d properties, found %d", v[0], len(m.Properties))
	}
	return nil
}

// glyph parses a glyph block, starting at its STARTCHAR line.
func (p *parser) glyph() (Glyph, error) {
	g := Glyph{Name: p.args}
	bbxSeen := false
	for {
		if !p.next() {
			return g, p.eof("ENDCHAR")
		}
		var err error
		var v []int
		switch p.keyword {
		case "ENCODING":
			if v, err = p.ints(1); err == nil {
				g.Encoding = rune(v[0])
			}
		case "SWIDTH":
			if v, err = p.ints(2); err == nil {
				g.SWidth = v[0]
			}
		case "DWIDTH":
			if v, err = p.ints(2); err == nil {
				g.DWidth = v[0]
			}
		case "BBX":
			g.BBX, err = p.bbox()
			bbxSeen = true
		case "BITMAP":
			if !bbxSeen {
				return g, p.errorf("glyph %s: BITMAP before BBX", g.Name)
			}
			return g, p.bitmap(&g)
		case "ENDCHAR":
			return g, p.errorf("glyph %s has no BITMAP", g.Name)
		}
		if err != nil {
			return g, err
		}
	}
}

func (p *parser) bitmap(g *Glyph) error {
	g.Rows = make([]string, 0, min(max(g.BBX.Height, 0), 256))
	for {
		if !p.next() {
			return p.eof("ENDCHAR")
		}
		if p.keyword == "ENDCHAR" {
			break
		}
		if p.args != "" {
			return p.errorf("glyph %s: malformed bitmap row", g.Name)
		}
		g.Rows = append(g.Rows, strings.ToUpper(p.keyword))
	}
	if len(g.Rows) != max(g.BBX.Height, 0) {
		return p.errorf("glyph %s: %d bitmap rows, BBX height is %d", g.Name, len(g.Rows), g.BBX.Height)
	}
	return nil
}

func (p *parser) eof(expected string) error {
	if err := p.scanner.Err(); err != nil {
		return err
	}
	return p.errorf("unexpected end of input, missing %s", expected)
}
