package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/ttf2bdf"
	"github.com/npillmayer/ttf2bdf/bdf"
	"github.com/npillmayer/ttf2bdf/raster"
	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/runenames"
)

var errNoFont = errors.New("no font loaded, use 'load:<file>'")

func loadOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errors.New("usage: load:<file>[:<backend>]"), false
	}
	if op.format != "" {
		intp.cfg.Backend = op.format
	}
	return intp.loadFont(op.arg), false
}

func ppemOp(intp *Intp, op *Op) (error, bool) {
	ppem, err := strconv.Atoi(op.arg)
	if err != nil || ppem <= 0 {
		return fmt.Errorf("ppem must be a positive number, is '%s'", op.arg), false
	}
	intp.cfg.PixelsPerEm = ppem
	intp.result = nil
	return nil, false
}

func ruleOp(intp *Intp, op *Op) (error, bool) {
	rule, err := raster.ParseFillRule(op.arg)
	if err != nil {
		return err, false
	}
	intp.cfg.FillRule = rule
	intp.result = nil
	return nil, false
}

func charsetOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		pterm.Printf("charsets: %s\n", strings.Join(ttf2bdf.Charsets(), ", "))
		return nil, false
	}
	if _, err := ttf2bdf.ParseCharset(op.arg); err != nil {
		return err, false
	}
	intp.cfg.Charset = op.arg
	intp.cfg.Codes = nil
	intp.result = nil
	return nil, false
}

// glyphOp converts a single code and prints its bitmap. Format 'hex' prints
// the BDF bitmap rows instead of a picture.
func glyphOp(intp *Intp, op *Op) (error, bool) {
	code, err := parseCode(op.arg)
	if err != nil {
		return err, false
	}
	rec, err := intp.convertOne(code)
	if err != nil {
		return err, false
	}
	pterm.Printf("STARTCHAR %s  ENCODING %d  DWIDTH %d  BBX %s\n", rec.Name, rec.Code, rec.DWidth, rec.BBX())
	if strings.ToLower(op.format) == "hex" {
		for _, row := range rec.Bitmap.Rows() {
			pterm.Println(row)
		}
		return nil, false
	}
	pterm.Println(picture(rec.Bitmap))
	return nil, false
}

// infoOp prints font information, or information about a single glyph if a
// code is given.
func infoOp(intp *Intp, op *Op) (error, bool) {
	if intp.src == nil {
		return errNoFont, false
	}
	if op.arg == "" {
		family, subfamily := intp.src.Name()
		m := intp.src.Metrics()
		data := [][]string{
			{"Property", "Value"},
			{"File", intp.src.Font().Filepath},
			{"Family", family},
			{"Subfamily", subfamily},
			{"Backend", intp.src.Backend().String()},
			{"Units per em", strconv.Itoa(m.UnitsPerEm)},
			{"Ascent / Descent", fmt.Sprintf("%g / %g", m.Ascent, m.Descent)},
			{"Glyphs", strconv.Itoa(intp.src.NumGlyphs())},
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render(), false
	}
	code, err := parseCode(op.arg)
	if err != nil {
		return err, false
	}
	data, err := intp.glyphInfo(code)
	if err != nil {
		return err, false
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render(), false
}

func (intp *Intp) glyphInfo(code rune) ([][]string, error) {
	cs, err := ttf2bdf.ParseCharset(intp.cfg.Charset)
	if err != nil {
		return nil, err
	}
	r, ok := cs.Rune(code)
	if !ok {
		return nil, fmt.Errorf("code %d is not defined in charset %s", code, cs)
	}
	g, found, err := intp.src.Glyph(r)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("font has no glyph for %#U", r)
	}
	data := [][]string{
		{"Property", "Value"},
		{"Code", fmt.Sprintf("%d in %s", code, cs)},
		{"Unicode", fmt.Sprintf("%U %s", r, runenames.Name(r))},
		{"Glyph name", g.Name},
		{"BDF name", bdf.PreferredName(g.Name, r)},
		{"Kind", g.Kind.String()},
		{"Contours", strconv.Itoa(len(g.Contours))},
		{"Components", strconv.Itoa(len(g.Components))},
		{"Advance", fmt.Sprintf("%g", g.Advance)},
	}
	return data, nil
}

// convertOp converts a range of codes, or the charset's default codes.
func convertOp(intp *Intp, op *Op) (error, bool) {
	if op.arg != "" {
		codes, err := parseCodeRange(op.arg)
		if err != nil {
			return err, false
		}
		intp.cfg.Codes = codes
	}
	if err := intp.convert(); err != nil {
		return err, false
	}
	res := intp.result
	pterm.Info.Printf("%d glyphs, %d skipped, %d failed\n", len(res.Records), len(res.Warnings), len(res.Errors))
	for _, e := range res.Errors {
		pterm.Error.Println(e.Error())
	}
	pterm.Println(res.Metadata.Name)
	return nil, false
}

// emitOp writes the last conversion to a BDF file, converting first if needed.
func emitOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errors.New("usage: emit:<file>"), false
	}
	if intp.result == nil {
		if err := intp.convert(); err != nil {
			return err, false
		}
	}
	if err := intp.result.SaveBDF(op.arg); err != nil {
		return err, false
	}
	pterm.Info.Printf("wrote %d glyphs to %s\n", len(intp.result.Records), op.arg)
	return nil, false
}

func (intp *Intp) convert() error {
	if intp.src == nil {
		return errNoFont
	}
	conv, err := ttf2bdf.NewConverter(intp.cfg)
	if err != nil {
		return err
	}
	intp.result, err = conv.Convert(intp.src)
	return err
}

// convertOne converts a single code with the current settings, leaving the
// last conversion result untouched.
func (intp *Intp) convertOne(code rune) (bdf.Record, error) {
	if intp.src == nil {
		return bdf.Record{}, errNoFont
	}
	cfg := intp.cfg
	cfg.Codes = []rune{code}
	conv, err := ttf2bdf.NewConverter(cfg)
	if err != nil {
		return bdf.Record{}, err
	}
	res, err := conv.Convert(intp.src)
	if err != nil {
		return bdf.Record{}, err
	}
	if err = res.Err(); err != nil {
		return bdf.Record{}, err
	}
	if len(res.Records) == 0 {
		if len(res.Warnings) > 0 {
			return bdf.Record{}, errors.New(res.Warnings[0].Issue)
		}
		return bdf.Record{}, fmt.Errorf("no glyph for code %d", code)
	}
	return res.Records[0], nil
}

// picture draws a bitmap with two characters per pixel, marking the baseline.
func picture(bm *raster.Bitmap) string {
	var sb strings.Builder
	baseline := bm.Height + bm.YOffset
	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			switch {
			case bm.At(x, y):
				sb.WriteString("██")
			case y == baseline-1:
				sb.WriteString("__")
			default:
				sb.WriteString(" .")
			}
		}
		if y < bm.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// parseCode reads a character code. A single character stands for itself,
// everything else is read as a hex number, optionally prefixed by U+ or 0x.
func parseCode(s string) (rune, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing character code")
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}
	hex := s
	if len(hex) > 2 && (strings.EqualFold(hex[:2], "u+") || strings.EqualFold(hex[:2], "0x")) {
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || u > utf8.MaxRune {
		return 0, fmt.Errorf("invalid character code '%s'", s)
	}
	return rune(u), nil
}

// parseCodeRange reads a single code or a range 'from-to'.
func parseCodeRange(s string) ([]rune, error) {
	from, to, isRange := strings.Cut(s, "-")
	first, err := parseCode(from)
	if err != nil {
		return nil, err
	}
	if !isRange {
		return []rune{first}, nil
	}
	last, err := parseCode(to)
	if err != nil {
		return nil, err
	}
	if last < first {
		return nil, fmt.Errorf("invalid code range '%s'", s)
	}
	codes := make([]rune, 0, last-first+1)
	for r := first; r <= last; r++ {
		codes = append(codes, r)
	}
	return codes, nil
}
