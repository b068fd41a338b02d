package ttf2bdf

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/npillmayer/ttf2bdf/bdf"
	"github.com/npillmayer/ttf2bdf/outline"
	"github.com/npillmayer/ttf2bdf/raster"
)

// Converter turns the glyphs of an outline source into BDF glyph records.
type Converter struct {
	config  Config
	charset Charset
}

// NewConverter creates a converter for a configuration, which is validated
// first.
func NewConverter(config Config) (*Converter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cs, _ := ParseCharset(config.Charset)
	return &Converter{config: config, charset: cs}, nil
}

// Config returns the converter's configuration.
func (c *Converter) Config() Config {
	return c.config
}

// Charset returns the charset of the character codes.
func (c *Converter) Charset() Charset {
	return c.charset
}

// Result is the outcome of a conversion: glyph records in the order of the
// requested codes, the font metadata computed from them, and the issues
// encountered on the way.
type Result struct {
	Records  []bdf.Record
	Metadata bdf.Metadata
	Warnings []Warning    // skipped codes
	Errors   []GlyphError // glyphs which failed to convert
}

// Err returns all glyph errors joined into one, or nil.
func (r *Result) Err() error {
	ec := errorCollector{errors: r.Errors}
	return ec.joined()
}

// BDF serializes the result.
func (r *Result) BDF() (string, error) {
	return bdf.Emit(r.Records, r.Metadata)
}

// WriteBDF writes the result as a BDF font to w. Write failures match ErrIO.
func (r *Result) WriteBDF(w io.Writer) error {
	text, err := r.BDF()
	if err != nil {
		return err
	}
	if _, err = io.WriteString(w, text); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// job is a glyph waiting for rasterization.
type job struct {
	code rune // code in the target charset
	name string
}

// Convert loads, rasterizes and collects the glyphs for the configured
// codes. Codes without a glyph in the font are skipped with a warning, glyphs
// which fail to convert are reported in Result.Errors. Neither aborts the
// conversion.
func (c *Converter) Convert(src outline.Source) (*Result, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no outline source", ErrConfig)
	}
	cfg := c.config
	metrics := src.Metrics()
	codes := cfg.Codes
	if len(codes) == 0 {
		codes = c.charset.DefaultCodes()
	}
	tracer().Infof("converting %d codes at %d ppem, upem = %d", len(codes), cfg.PixelsPerEm, metrics.UnitsPerEm)
	ec := &errorCollector{}
	// sources are not required to be safe for concurrent use, so loading is
	// sequential
	outlines := make([]outline.Outline, 0, len(codes))
	jobs := make([]job, 0, len(codes))
	for _, code := range codes {
		r, ok := c.charset.Rune(code)
		if !ok {
			ec.addWarning(code, "not defined in charset %s", c.charset)
			continue
		}
		g, found, err := src.Glyph(r)
		if err != nil {
			ec.addError(code, r, StageLoad, err)
			continue
		}
		if !found {
			ec.addWarning(code, "font has no glyph for %#U", r)
			continue
		}
		o, err := outline.Resolve(g, src.GlyphByID)
		if err != nil {
			ec.addError(code, r, StageResolve, err)
			continue
		}
		o.Code = r
		outlines = append(outlines, o)
		jobs = append(jobs, job{code: code, name: bdf.PreferredName(o.Name, r)})
	}
	descent := c.descent(metrics)
	results := raster.RasterizeAll(outlines, cfg.PixelsPerEm, metrics.UnitsPerEm, cfg.Workers,
		raster.WithFillRule(cfg.FillRule), raster.WithDescent(descent))
	pointSize := cfg.pointSize()
	result := &Result{Records: make([]bdf.Record, 0, len(results))}
	defaultChar := rune(-1)
	for i, res := range results {
		if res.Err != nil {
			ec.addError(jobs[i].code, res.Code, StageRasterize, res.Err)
			continue
		}
		if res.Code == ' ' {
			defaultChar = jobs[i].code
		}
		result.Records = append(result.Records,
			bdf.NewRecord(jobs[i].code, jobs[i].name, res.Bitmap, pointSize, cfg.XDPI))
	}
	family, subfamily := src.Name()
	weight, slant := weightAndSlant(subfamily)
	result.Metadata = bdf.ComputeMetadata(result.Records, bdf.MetadataOptions{
		Foundry:     cfg.Foundry,
		Family:      family,
		Weight:      weight,
		Slant:       slant,
		PixelSize:   cfg.PixelsPerEm,
		PointSize:   pointSize,
		XDPI:        cfg.XDPI,
		YDPI:        cfg.YDPI,
		Registry:    c.charset.Registry,
		Encoding:    c.charset.Encoding,
		Ascent:      cfg.PixelsPerEm - descent,
		Descent:     descent,
		DefaultChar: defaultChar,
		Properties:  cfg.Properties,
	})
	result.Warnings, result.Errors = ec.warnings, ec.errors
	tracer().Infof("converted %d glyphs, %d warnings, %d errors", len(result.Records),
		len(result.Warnings), len(result.Errors))
	return result, nil
}

// descent returns the configured descent or the font's descent in pixels,
// kept inside the cell.
func (c *Converter) descent(m outline.FontMetrics) int {
	if c.config.Descent >= 0 {
		return c.config.Descent
	}
	if m.UnitsPerEm <= 0 {
		return 0
	}
	d := int(math.Round(m.Descent * float64(c.config.PixelsPerEm) / float64(m.UnitsPerEm)))
	return min(max(d, 0), c.config.PixelsPerEm-1)
}

// weightAndSlant derives XLFD weight and slant from a subfamily name like
// "Bold Italic".
func weightAndSlant(subfamily string) (weight, slant string) {
	weight, slant = "Medium", "R"
	s := strings.ToLower(subfamily)
	switch {
	case strings.Contains(s, "bold"):
		weight = "Bold"
	case strings.Contains(s, "light"):
		weight = "Light"
	}
	switch {
	case strings.Contains(s, "italic"):
		slant = "I"
	case strings.Contains(s, "oblique"):
		slant = "O"
	}
	return
}
