package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ttf2bdf/bdf"
	"github.com/npillmayer/ttf2bdf/raster"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"
)

type CLITestEnviron struct {
	suite.Suite
	dir      string
	fontfile string
	intp     *Intp
}

func TestCLI(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttf2bdf.cli")
	defer teardown()
	//
	suite.Run(t, new(CLITestEnviron))
}

func (env *CLITestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	env.dir = env.T().TempDir()
	env.fontfile = filepath.Join(env.dir, "Go-Regular.ttf")
	env.Require().NoError(os.WriteFile(env.fontfile, goregular.TTF, 0o644))
}

func (env *CLITestEnviron) SetupTest() {
	env.intp = newIntp(nil)
}

func (env *CLITestEnviron) run(line string) error {
	cmd, err := env.intp.parseCommand(line)
	env.Require().NoError(err)
	err, _ = env.intp.execute(cmd)
	return err
}

func (env *CLITestEnviron) TestParseCommand() {
	cmd, err := env.intp.parseCommand("ppem:12  rule:nonzero glyph:41:hex")
	env.Require().NoError(err)
	env.Equal(3, cmd.count)
	env.Equal(PPEM, cmd.op[0].code)
	env.Equal("12", cmd.op[0].arg)
	env.Equal(GLYPH, cmd.op[2].code)
	env.Equal("41", cmd.op[2].arg)
	env.Equal("hex", cmd.op[2].format)
	env.Equal(NOOP, cmd.op[3].code)
	//
	cmd, err = env.intp.parseCommand("frobnicate quit ppem:3")
	env.Require().NoError(err)
	env.Equal(HELP, cmd.op[0].code)
	env.Equal(QUIT, cmd.op[1].code)
	env.Equal(NOOP, cmd.op[2].code)
	err, quit := env.intp.execute(cmd)
	env.NoError(err)
	env.True(quit)
	env.Equal(16, env.intp.cfg.PixelsPerEm)
}

func (env *CLITestEnviron) TestSettings() {
	env.NoError(env.run("ppem:24 rule:nonzero charset:latin1"))
	env.Equal(24, env.intp.cfg.PixelsPerEm)
	env.Equal(raster.NonZero, env.intp.cfg.FillRule)
	env.Equal("latin1", env.intp.cfg.Charset)
	env.Error(env.run("ppem:0"))
	env.Error(env.run("rule:winding"))
	env.Error(env.run("charset:ebcdic"))
	env.Equal("latin1", env.intp.cfg.Charset)
	env.Contains(env.intp.String(), "ppem=24 rule=nonzero")
}

func (env *CLITestEnviron) TestNoFont() {
	env.ErrorIs(env.run("glyph:A"), errNoFont)
	env.ErrorIs(env.run("info"), errNoFont)
	env.ErrorIs(env.run("emit:x.bdf"), errNoFont)
	env.Error(env.run("load:" + filepath.Join(env.dir, "missing.ttf")))
	env.Nil(env.intp.src)
}

func (env *CLITestEnviron) TestGlyphs() {
	env.Require().NoError(env.run("load:" + env.fontfile))
	env.NoError(env.run("ppem:12 glyph:A glyph:41:hex info info:e9"))
	rec, err := env.intp.convertOne('o')
	env.Require().NoError(err)
	env.Equal(12, rec.Bitmap.Height)
	env.False(rec.Bitmap.IsBlank())
	pic := picture(rec.Bitmap)
	env.Len(strings.Split(pic, "\n"), 12)
	env.Contains(pic, "██")
	env.Contains(pic, "__")
	_, err = env.intp.convertOne(0x4E00)
	env.Error(err)
	//
	data, err := env.intp.glyphInfo('A')
	env.Require().NoError(err)
	env.Equal([]string{"Unicode", "U+0041 LATIN CAPITAL LETTER A"}, data[2])
	env.Equal([]string{"BDF name", "A"}, data[4])
}

func (env *CLITestEnviron) TestConvertAndEmit() {
	env.Require().NoError(env.run("load:" + env.fontfile + ":typesetting"))
	env.Equal("typesetting", env.intp.cfg.Backend)
	out := filepath.Join(env.dir, "abc.bdf")
	env.Require().NoError(env.run("ppem:10 convert:61-63 emit:" + out))
	env.Require().NotNil(env.intp.result)
	env.Len(env.intp.result.Records, 3)
	f, err := os.Open(out)
	env.Require().NoError(err)
	defer f.Close()
	font, err := bdf.Parse(f)
	env.Require().NoError(err)
	env.Len(font.Glyphs, 3)
	env.Equal("c", font.Glyphs[2].Name)
	// changing settings drops the last result
	env.NoError(env.run("ppem:11"))
	env.Nil(env.intp.result)
}

func (env *CLITestEnviron) TestParseCode() {
	for in, want := range map[string]rune{"A": 'A', "41": 'A', "U+00E9": 0xE9, "0x20": ' ', "é": 0xE9, "7": '7'} {
		r, err := parseCode(in)
		env.NoError(err, in)
		env.Equal(want, r, in)
	}
	for _, in := range []string{"", "zz", "110000"} {
		_, err := parseCode(in)
		env.Error(err, in)
	}
	codes, err := parseCodeRange("30-39")
	env.NoError(err)
	env.Len(codes, 10)
	_, err = parseCodeRange("39-30")
	env.Error(err)
}
