package ttf2bdf

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/ttf2bdf/internal/fontload"
	"github.com/npillmayer/ttf2bdf/raster"
)

// Config holds the parameters of a conversion.
type Config struct {
	PixelsPerEm int // size of the square glyph cell in pixels
	PointSize   int // SIZE of the BDF font; 0 derives it from PixelsPerEm and YDPI
	XDPI, YDPI  int // device resolution
	FillRule    raster.FillRule
	// Descent is the number of cell rows below the baseline. A negative value
	// derives it from the font's descent.
	Descent    int
	Workers    int    // parallel rasterizers; ≤ 0 means GOMAXPROCS
	Charset    string // see ParseCharset
	Codes      []rune // character codes in output order; empty selects the charset's default
	Properties bool   // write a BDF property section
	Foundry    string // XLFD foundry name
	Backend    string // font parser, "sfnt" or "typesetting"
}

// DefaultConfig returns a configuration for 16 pixel fonts at 75 dpi,
// covering printable ASCII.
func DefaultConfig() Config {
	return Config{
		PixelsPerEm: 16,
		XDPI:        75,
		YDPI:        75,
		FillRule:    raster.EvenOdd,
		Descent:     -1,
		Charset:     "iso10646-1",
		Foundry:     "misc",
		Backend:     "sfnt",
	}
}

// Validate checks the configuration. Errors match ErrConfig.
func (c Config) Validate() error {
	var errs []error
	if c.PixelsPerEm <= 0 {
		errs = append(errs, fmt.Errorf("%w: pixels per em must be positive, is %d", ErrConfig, c.PixelsPerEm))
	}
	if c.PointSize < 0 {
		errs = append(errs, fmt.Errorf("%w: negative point size %d", ErrConfig, c.PointSize))
	}
	if c.XDPI <= 0 || c.YDPI <= 0 {
		errs = append(errs, fmt.Errorf("%w: resolution must be positive, is %dx%d", ErrConfig, c.XDPI, c.YDPI))
	}
	if c.PixelsPerEm > 0 && c.Descent >= c.PixelsPerEm {
		errs = append(errs, fmt.Errorf("%w: descent %d does not fit into %d pixel cell", ErrConfig,
			c.Descent, c.PixelsPerEm))
	}
	if _, err := fontload.ParseBackend(c.Backend); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrConfig, err))
	}
	cs, err := ParseCharset(c.Charset)
	if err != nil {
		errs = append(errs, err)
	} else {
		for _, code := range c.Codes {
			if _, ok := cs.Rune(code); !ok {
				errs = append(errs, fmt.Errorf("%w: code %d not defined in charset %s", ErrConfig, code, cs))
				break
			}
		}
	}
	return errors.Join(errs...)
}

// pointSize returns the configured point size or derives it from the pixel
// size: pt = px · 72 / dpi.
func (c Config) pointSize() int {
	if c.PointSize > 0 {
		return c.PointSize
	}
	return max(1, int(math.Round(float64(c.PixelsPerEm)*72/float64(c.YDPI))))
}
