package bdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Emit serializes records as a BDF font with header values from metadata.
// Glyph blocks are written in the order of records.
//
// metadata.Count must equal len(records), otherwise Emit fails with a
// *CountMismatchError. Records and metadata are validated before any output
// is produced, so an error never comes with partial output.
//
// An empty metadata.Name is replaced by an XLFD name derived from the other
// header values. Records without a usable name are written with
// GlyphName(code), records with a negative code as ENCODING -1.
func Emit(records []Record, metadata Metadata) (string, error) {
	if metadata.Name == "" {
		metadata.Name = derivedName(metadata)
	}
	if err := validate(records, metadata); err != nil {
		tracer().Errorf("cannot emit font: %v", err)
		return "", err
	}
	var sb strings.Builder
	w := bufio.NewWriter(&sb)
	writeFont(w, records, metadata)
	w.Flush() // writing to a strings.Builder does not fail
	return sb.String(), nil
}

// Write emits the font to w. The font is rendered completely before the first
// byte is written; validation errors leave w untouched.
func Write(w io.Writer, records []Record, metadata Metadata) error {
	text, err := Emit(records, metadata)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

func validate(records []Record, m Metadata) error {
	if m.Count != len(records) {
		return &CountMismatchError{Declared: m.Count, Actual: len(records)}
	}
	if m.Name == "" || !isText(m.Name) {
		return fmt.Errorf("%w: font name %q", ErrInvalidMetadata, m.Name)
	}
	for _, p := range m.Properties {
		if !isToken(p.Name) || !isText(p.Value) {
			return fmt.Errorf("%w: property %s", ErrInvalidMetadata, p)
		}
		if !p.IsString {
			if _, ok := p.Int(); !ok {
				return fmt.Errorf("%w: property %s is neither string nor integer", ErrInvalidMetadata, p.Name)
			}
		}
	}
	for i, r := range records {
		issue := ""
		switch {
		case r.Bitmap == nil:
			issue = "missing bitmap"
		case r.Bitmap.Width <= 0 || r.Bitmap.Height <= 0:
			issue = fmt.Sprintf("bitmap of size %d×%d", r.Bitmap.Width, r.Bitmap.Height)
		}
		if issue != "" {
			return &RecordError{Index: i, Code: r.Code, Issue: issue}
		}
	}
	return nil
}

// derivedName is the XLFD name for metadata which does not carry one.
func derivedName(m Metadata) string {
	return XLFD("", "", "", "", m.BBox.Height, m.PointSize*10, m.XDPI, m.YDPI, "", 0, "", "")
}

func writeFont(w *bufio.Writer, records []Record, m Metadata) {
	fmt.Fprintf(w, "STARTFONT %s\n", Version)
	fmt.Fprintf(w, "FONT %s\n", m.Name)
	fmt.Fprintf(w, "SIZE %d %d %d\n", m.PointSize, m.XDPI, m.YDPI)
	fmt.Fprintf(w, "FONTBOUNDINGBOX %s\n", m.BBox)
	if len(m.Properties) > 0 {
		fmt.Fprintf(w, "STARTPROPERTIES %d\n", len(m.Properties))
		for _, p := range m.Properties {
			fmt.Fprintln(w, p)
		}
		fmt.Fprintln(w, "ENDPROPERTIES")
	}
	fmt.Fprintf(w, "CHARS %d\n", m.Count)
	for _, r := range records {
		writeGlyph(w, r)
	}
	fmt.Fprintln(w, "ENDFONT")
}

func writeGlyph(w *bufio.Writer, r Record) {
	code := r.Code
	if code < 0 {
		code = -1
	}
	fmt.Fprintf(w, "STARTCHAR %s\n", PreferredName(r.Name, code))
	fmt.Fprintf(w, "ENCODING %d\n", code)
	fmt.Fprintf(w, "SWIDTH %d 0\n", r.SWidth)
	fmt.Fprintf(w, "DWIDTH %d 0\n", r.DWidth)
	fmt.Fprintf(w, "BBX %s\n", r.BBX())
	fmt.Fprintln(w, "BITMAP")
	for y := 0; y < r.Bitmap.Height; y++ {
		w.WriteString(r.Bitmap.RowHex(y))
		w.WriteByte('\n')
	}
	fmt.Fprintln(w, "ENDCHAR")
}
