package ttf2bdf

import (
	"errors"
	"fmt"
)

// Stage names the conversion step a glyph error occurred in.
type Stage int

const (
	// StageLoad is reading a glyph from the outline source.
	StageLoad Stage = iota
	// StageResolve is flattening composite glyphs.
	StageResolve
	// StageRasterize is converting an outline to a bitmap.
	StageRasterize
)

// String returns a human-readable representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageResolve:
		return "resolve"
	case StageRasterize:
		return "rasterize"
	default:
		return "UNKNOWN"
	}
}

// GlyphError represents an error encountered while converting a single glyph.
// The glyph is missing from the output, other glyphs are not affected.
type GlyphError struct {
	Code  rune  // character code in the target charset
	Rune  rune  // Unicode code point the glyph was looked up with
	Stage Stage // conversion step which failed
	Err   error
}

// Error implements the error interface.
func (e GlyphError) Error() string {
	if e.Code != e.Rune {
		return fmt.Sprintf("[%s] code %d (%#U): %v", e.Stage, e.Code, e.Rune, e.Err)
	}
	return fmt.Sprintf("[%s] %#U: %v", e.Stage, e.Rune, e.Err)
}

func (e GlyphError) Unwrap() error {
	return e.Err
}

// Warning represents a non-critical issue encountered during conversion.
type Warning struct {
	Code  rune
	Issue string
}

// String returns a human-readable representation of the warning.
func (w Warning) String() string {
	return fmt.Sprintf("[WARNING] code %d: %s", w.Code, w.Issue)
}

// errorCollector accumulates glyph errors and warnings during a conversion.
type errorCollector struct {
	errors   []GlyphError
	warnings []Warning
}

func (ec *errorCollector) addError(code, r rune, stage Stage, err error) {
	tracer().Errorf("glyph %#U: %s: %v", r, stage, err)
	ec.errors = append(ec.errors, GlyphError{Code: code, Rune: r, Stage: stage, Err: err})
}

func (ec *errorCollector) addWarning(code rune, format string, args ...any) {
	w := Warning{Code: code, Issue: fmt.Sprintf(format, args...)}
	tracer().Debugf("%s", w)
	ec.warnings = append(ec.warnings, w)
}

// hasErrors returns true if any errors have been recorded.
func (ec *errorCollector) hasErrors() bool {
	return len(ec.errors) > 0
}

// joined returns all recorded errors as one, or nil.
func (ec *errorCollector) joined() error {
	if !ec.hasErrors() {
		return nil
	}
	errs := make([]error, len(ec.errors))
	for i, e := range ec.errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
