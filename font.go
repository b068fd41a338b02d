package ttf2bdf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/npillmayer/ttf2bdf/internal/fontload"
)

// OpenFont loads a TrueType or OpenType font file as an outline source,
// using the named parser backend. File system failures match ErrIO, files of
// other formats match fontload.ErrUnsupportedFormat.
func OpenFont(fontfile string, backend string) (*fontload.Source, error) {
	b, err := fontload.ParseBackend(backend)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	src, err := fontload.LoadOpenTypeFont(fontfile, b)
	if err != nil {
		var perr *fs.PathError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		return nil, err
	}
	return src, nil
}

// ConvertFile converts a font file into a BDF file. The output file is
// written only if the font could be converted; glyph errors are returned in
// the result and do not prevent writing.
func ConvertFile(input, output string, config Config) (*Result, error) {
	conv, err := NewConverter(config)
	if err != nil {
		return nil, err
	}
	src, err := OpenFont(input, config.Backend)
	if err != nil {
		return nil, err
	}
	result, err := conv.Convert(src)
	if err != nil {
		return nil, err
	}
	if err = result.SaveBDF(output); err != nil {
		return result, err
	}
	tracer().Infof("wrote %d glyphs to %s", len(result.Records), output)
	return result, nil
}

// SaveBDF writes the result to a file. The file is created only after the
// BDF text has been rendered successfully.
func (r *Result) SaveBDF(path string) error {
	text, err := r.BDF()
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
