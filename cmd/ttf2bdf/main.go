/*
Command ttf2bdf converts TrueType and OpenType fonts into BDF bitmap fonts.

Usage:

	ttf2bdf [flags] <input.ttf> <output[.bdf]>
	ttf2bdf info <file.ttf|file.bdf>
	ttf2bdf view [flags] <input.ttf> <codepoints>

Every glyph is rendered into a square cell of --ppem pixels. The output file
always carries the extension .bdf. The command exits with status 1 if the
conversion fails or if any glyph could not be converted.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/ttf2bdf"
	"github.com/npillmayer/ttf2bdf/raster"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

// tracer traces with key 'ttf2bdf'
func tracer() tracing.Trace {
	return tracing.Select("ttf2bdf")
}

var traceKeys = []string{
	"ttf2bdf",
	"ttf2bdf.raster",
	"ttf2bdf.bdf",
	"ttf2bdf.fontload",
	"ttf2bdf.outline",
}

func main() {
	initDisplay()

	commando.
		SetExecutableName("ttf2bdf").
		SetVersion("v0.1.0").
		SetDescription("Convert TrueType/OpenType outline fonts into BDF bitmap fonts.")

	commando.
		Register(nil).
		AddArgument("input", "TrueType or OpenType font file (.ttf, .otf)", "").
		AddArgument("output", "BDF output file (extension .bdf is enforced)", "").
		AddFlag("ppem,p", "pixels per em (cell size)", commando.Int, 16).
		AddFlag("size,s", "point size (0 derives it from ppem and dpi)", commando.Int, 0).
		AddFlag("dpi,d", "resolution in dots per inch", commando.Int, 75).
		AddFlag("rule,r", "fill rule: evenodd|nonzero", commando.String, "evenodd").
		AddFlag("charset,c", "target charset (e.g. iso10646-1, iso8859-1, koi8-r)", commando.String, "iso10646-1").
		AddFlag("codepoints,u", "codes to convert (e.g. 20-7E,U+00E9), 'all' for every mapped code", commando.String, "-").
		AddFlag("descent", "descent in pixels (-1 derives it from the font)", commando.Int, -1).
		AddFlag("foundry,f", "XLFD foundry", commando.String, "misc").
		AddFlag("properties,P", "write a properties section", commando.Bool, nil).
		AddFlag("backend,b", "font parser: sfnt|typesetting", commando.String, "sfnt").
		AddFlag("workers,w", "rasterizer goroutines (0 uses all CPUs)", commando.Int, 0).
		AddFlag("trace,T", "trace level: Debug|Info|Error", commando.String, "Error").
		AddFlag("verbose,V", "list skipped codes", commando.Bool, nil).
		SetAction(runConvertCommand)

	commando.
		Register("info").
		SetDescription("Print information about a font file or a BDF file.").
		SetShortDescription("font or BDF info").
		AddArgument("file", "TrueType, OpenType or BDF file", "").
		AddFlag("glyphs,g", "number of BDF glyphs to list", commando.Int, 20).
		AddFlag("trace,T", "trace level: Debug|Info|Error", commando.String, "Error").
		SetAction(runInfoCommand)

	commando.
		Register("view").
		SetDescription("Render glyphs as bitmap and as anti-aliased outline to a PNG image.").
		SetShortDescription("glyphs to image").
		AddArgument("font", "TrueType or OpenType font file", "").
		AddArgument("codepoints...", "code points to render (e.g. U+0041,42 61-63)", "").
		AddFlag("ppem,p", "pixels per em (cell size)", commando.Int, 16).
		AddFlag("scale,x", "magnification of a pixel in the image", commando.Int, 8).
		AddFlag("rule,r", "fill rule: evenodd|nonzero", commando.String, "evenodd").
		AddFlag("backend,b", "font parser: sfnt|typesetting", commando.String, "sfnt").
		AddFlag("output,o", "output PNG file", commando.String, "ttf2bdf-view.png").
		AddFlag("trace,T", "trace level: Debug|Info|Error", commando.String, "Error").
		SetAction(runViewCommand)

	commando.Parse(nil)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// setupTracing routes all tracers of the module to the Go log adapter.
func setupTracing(flag commando.FlagValue) {
	level, err := flag.GetString()
	if err != nil {
		fatalf("invalid --trace flag: %v", err)
	}
	l, err := parseTraceLevel(level)
	if err != nil {
		fatalf("%v", err)
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{"tracing.adapter": "go"}
	for _, key := range traceKeys {
		conf["trace."+key] = "Error"
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fatalf("error configuring tracing: %v", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
}

func runConvertCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setupTracing(flags["trace"])
	input := strings.TrimSpace(args["input"].Value)
	if err := checkInput(input); err != nil {
		fatalf("%v", err)
	}
	output := strings.TrimSpace(args["output"].Value)
	if output == "" {
		fatalf("output path is required")
	}
	output = outputPath(output)

	cfg, err := configFromFlags(flags)
	if err != nil {
		fatalf("%v", err)
	}
	codes := mustFlagString(flags["codepoints"], "codepoints")
	switch codes {
	case "", "-":
	case "all":
		cfg.Codes, err = allCodes(input, cfg)
	default:
		cfg.Codes, err = parseCodepoints(codes)
	}
	if err != nil {
		fatalf("%v", err)
	}

	tracer().Infof("converting %s to %s", input, output)
	result, err := ttf2bdf.ConvertFile(input, output, cfg)
	if err != nil {
		fatalf("%v", err)
	}
	if mustFlagBool(flags["verbose"], "verbose") {
		for _, w := range result.Warnings {
			pterm.Warning.Println(w.String())
		}
	}
	for _, e := range result.Errors {
		pterm.Error.Println(e.Error())
	}
	pterm.Info.Printf("%s: %d glyphs, %d skipped, %d failed\n", output,
		len(result.Records), len(result.Warnings), len(result.Errors))
	pterm.Println(result.Metadata.Name)
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

// configFromFlags creates a conversion configuration from command line flags.
// Code points are not part of it.
func configFromFlags(flags map[string]commando.FlagValue) (ttf2bdf.Config, error) {
	cfg := ttf2bdf.DefaultConfig()
	cfg.PixelsPerEm = mustFlagInt(flags["ppem"], "ppem")
	cfg.PointSize = mustFlagInt(flags["size"], "size")
	dpi := mustFlagInt(flags["dpi"], "dpi")
	cfg.XDPI, cfg.YDPI = dpi, dpi
	cfg.Descent = mustFlagInt(flags["descent"], "descent")
	cfg.Workers = mustFlagInt(flags["workers"], "workers")
	cfg.Properties = mustFlagBool(flags["properties"], "properties")
	cfg.Charset = mustFlagString(flags["charset"], "charset")
	cfg.Foundry = mustFlagString(flags["foundry"], "foundry")
	cfg.Backend = mustFlagString(flags["backend"], "backend")
	rule, err := raster.ParseFillRule(mustFlagString(flags["rule"], "rule"))
	if err != nil {
		return cfg, err
	}
	cfg.FillRule = rule
	return cfg, cfg.Validate()
}

// allCodes lists every code of the target charset the font has a glyph for.
func allCodes(input string, cfg ttf2bdf.Config) ([]rune, error) {
	cs, err := ttf2bdf.ParseCharset(cfg.Charset)
	if err != nil {
		return nil, err
	}
	if !cs.IsUnicode() {
		return cs.DefaultCodes(), nil
	}
	src, err := ttf2bdf.OpenFont(input, cfg.Backend)
	if err != nil {
		return nil, err
	}
	codes := src.Codes(0, 0xFFFF)
	if len(codes) == 0 {
		return nil, fmt.Errorf("font %s maps no code points", input)
	}
	return codes, nil
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return strings.TrimSpace(s)
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ttf2bdf: "+format+"\n", args...)
	os.Exit(1)
}
