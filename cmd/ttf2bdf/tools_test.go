package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ttf2bdf"
	"github.com/npillmayer/ttf2bdf/bdf"
	"github.com/npillmayer/ttf2bdf/internal/fontload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "out.bdf", outputPath("out"))
	assert.Equal(t, "out.bdf", outputPath("out.bdf"))
	assert.Equal(t, "out.BDF", outputPath(" out.BDF "))
	assert.Equal(t, "dir/go.ttf.bdf", outputPath("dir/go.ttf"))
}

func TestCheckInput(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(dir, "go.ttf")
	require.NoError(t, os.WriteFile(font, goregular.TTF, 0o644))
	assert.NoError(t, checkInput(font))
	assert.Error(t, checkInput(""))
	assert.Error(t, checkInput(filepath.Join(dir, "missing.otf")))
	assert.Error(t, checkInput(filepath.Join(dir, "go.pcf")))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "fonts.ttf"), 0o755))
	assert.Error(t, checkInput(filepath.Join(dir, "fonts.ttf")))
}

func TestParseCodepoints(t *testing.T) {
	codes, err := parseCodepoints("U+0041, 0x42 43,u+44")
	require.NoError(t, err)
	assert.Equal(t, []rune{'A', 'B', 'C', 'D'}, codes)
	codes, err = parseCodepoints("30-32,U+0061..U+0062")
	require.NoError(t, err)
	assert.Equal(t, []rune{'0', '1', '2', 'a', 'b'}, codes)
	codes, err = parseCodepoints("")
	require.NoError(t, err)
	assert.Empty(t, codes)
	for _, bad := range []string{"xyz", "7E-20", "110000", "-", "20-"} {
		_, err = parseCodepoints(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseTraceLevel(t *testing.T) {
	l, err := parseTraceLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, tracing.LevelDebug, l)
	l, err = parseTraceLevel("Info")
	require.NoError(t, err)
	assert.Equal(t, tracing.LevelInfo, l)
	l, err = parseTraceLevel("")
	require.NoError(t, err)
	assert.Equal(t, tracing.LevelError, l)
	_, err = parseTraceLevel("verbose")
	assert.Error(t, err)
}

func TestInfoTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttf2bdf")
	defer teardown()
	//
	src, err := fontload.ParseOpenTypeFont(goregular.TTF, fontload.SFNT)
	require.NoError(t, err)
	data := fontInfo(src)
	assert.Equal(t, []string{"Family", "Go"}, data[3])
	assert.Equal(t, []string{"Units per em", "2048"}, data[5])
	assert.Equal(t, []string{"ASCII coverage", "95/95"}, data[9])
	//
	cfg := ttf2bdf.DefaultConfig()
	cfg.Codes = []rune{' ', 'A', 'B'}
	cfg.Properties = true
	conv, err := ttf2bdf.NewConverter(cfg)
	require.NoError(t, err)
	result, err := conv.Convert(src)
	require.NoError(t, err)
	text, err := result.BDF()
	require.NoError(t, err)
	font, err := bdf.Parse(strings.NewReader(text))
	require.NoError(t, err)
	header, glyphs := bdfInfo(font, 2)
	assert.Equal(t, []string{"Chars", "3"}, header[5])
	assert.Contains(t, header, []string{"DEFAULT_CHAR", "32"})
	require.Len(t, glyphs, 3)
	assert.Equal(t, "space", glyphs[1][0])
	assert.Equal(t, "-", glyphs[1][5])
	assert.Equal(t, "A", glyphs[2][0])
	assert.Equal(t, "65", glyphs[2][1])
}

func TestRenderComparison(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttf2bdf")
	defer teardown()
	//
	src, err := fontload.ParseOpenTypeFont(goregular.TTF, fontload.SFNT)
	require.NoError(t, err)
	cfg := ttf2bdf.DefaultConfig()
	cfg.Codes = []rune{'A', 0x4E00, 'o'}
	img, err := renderComparison(src, cfg, 4)
	require.NoError(t, err)
	cell := 16 * 4
	panel := 2*cell + viewGap
	assert.Equal(t, 2*(panel+viewGap)+viewGap, img.Bounds().Dx())
	assert.Equal(t, cell+2*viewGap, img.Bounds().Dy())
	assert.Equal(t, white, img.RGBAAt(0, 0))
	var black, shades int
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			c := img.RGBAAt(x, y)
			switch {
			case c == pixelInk:
				black++
			case c.R == c.G && c.G == c.B && c != white && c != grey:
				shades++
			}
		}
	}
	assert.Greater(t, black, 0)
	assert.Greater(t, shades, 0, "expected anti-aliased pixels")
	//
	cfg.Codes = []rune{0x4E00}
	_, err = renderComparison(src, cfg, 4)
	assert.Error(t, err)
	//
	path := filepath.Join(t.TempDir(), "out", "view.png")
	require.NoError(t, writePNG(path, img))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
