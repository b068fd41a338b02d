/*
Command bdfcli is an interactive shell for inspecting how outline glyphs turn
into BDF bitmaps.

A font is loaded with flag -font or with command 'load'. Commands are
separated by spaces, arguments are appended with colons:

	bdf > ppem:12 rule:nonzero glyph:A
	bdf > convert:20-7E emit:small.bdf

Type 'help' for a list of commands.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/ttf2bdf"
	"github.com/npillmayer/ttf2bdf/internal/fontload"
	"github.com/pterm/pterm"
)

// tracer traces with key 'ttf2bdf.cli'
func tracer() tracing.Trace {
	return tracing.Select("ttf2bdf.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":      "go",
		"trace.ttf2bdf.cli":    "Info",
		"trace.ttf2bdf":        "Error",
		"trace.ttf2bdf.bdf":    "Error",
		"trace.ttf2bdf.raster": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load")
	backend := flag.String("backend", "sfnt", "Font parser [sfnt|typesetting]")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the BDF CLI")
	//
	// set up REPL
	repl, err := readline.New("bdf > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := newIntp(repl)
	intp.cfg.Backend = *backend
	//
	// load font to use
	if *fontname != "" {
		if err := intp.loadFont(*fontname); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(4)
		}
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	src    *fontload.Source
	repl   *readline.Instance
	cfg    ttf2bdf.Config
	result *ttf2bdf.Result // last conversion
}

func newIntp(repl *readline.Instance) *Intp {
	return &Intp{repl: repl, cfg: ttf2bdf.DefaultConfig()}
}

func (intp *Intp) String() string {
	if intp == nil {
		return "()"
	}
	sb := strings.Builder{}
	sb.WriteString("( ")
	if intp.src != nil {
		sb.WriteString(fmt.Sprintf("font=%s ", intp.src.Font().Fontname))
	}
	sb.WriteString(fmt.Sprintf("ppem=%d rule=%s charset=%s", intp.cfg.PixelsPerEm, intp.cfg.FillRule,
		intp.cfg.Charset))
	if intp.result != nil {
		sb.WriteString(fmt.Sprintf(" glyphs=%d", len(intp.result.Records)))
	}
	sb.WriteString(" )")
	return sb.String()
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := intp.parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

type Op struct {
	code   int
	arg    string
	format string
}

type Command struct {
	count int
	op    [32]Op
}

const NOOP = -1
const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	LOAD
	PPEM
	RULE
	CHARSET
	GLYPH
	INFO
	CONVERT
	EMIT
)

var opMap = map[string]int{
	"quit":    QUIT,
	"help":    HELP,
	"load":    LOAD,
	"ppem":    PPEM,
	"rule":    RULE,
	"charset": CHARSET,
	"glyph":   GLYPH,
	"info":    INFO,
	"convert": CONVERT,
	"emit":    EMIT,
}

var opNames = []string{
	"quit",
	"help",
	"load",
	"ppem",
	"rule",
	"charset",
	"glyph",
	"info",
	"convert",
	"emit",
}

var command = Command{}

func resetCommand() {
	command.count = 0
	for i := range command.op {
		command.op[i].code = NOOP
		command.op[i].arg = ""
		command.op[i].format = ""
	}
}

func (intp *Intp) parseCommand(line string) (*Command, error) {
	resetCommand()
	steps := strings.Fields(line)
	if len(steps) > len(command.op) {
		return nil, fmt.Errorf("too many commands in one line: %d", len(steps))
	}
	command.count = len(steps)
	for i, step := range steps {
		c := strings.Split(step, ":") // e.g.  "glyph:41:hex" or "ppem:24" or "help:glyph" or "quit"
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			code = HELP
		}
		command.op[i].code = code
		command.op[i].arg = ""
		if command.op[i].code == QUIT {
			return &command, nil
		}
		command.op[i].arg = getOptArg(c, 1)
		command.op[i].format = getOptArg(c, 2)
		if command.op[i].arg == "" {
			tracer().Debugf("%s", opNames[command.op[i].code])
		} else {
			tracer().Debugf("%s: '%s'", opNames[command.op[i].code], command.op[i].arg)
		}
	}
	return &command, nil
}

// getOptArg returns the n-th part of a command, or "".
func getOptArg(c []string, n int) string {
	if len(c) > n {
		return c[n]
	}
	return ""
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:    quitOp,
	HELP:    helpOp,
	LOAD:    loadOp,
	PPEM:    ppemOp,
	RULE:    ruleOp,
	CHARSET: charsetOp,
	GLYPH:   glyphOp,
	INFO:    infoOp,
	CONVERT: convertOp,
	EMIT:    emitOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op[:cmd.count])
	for _, c := range cmd.op {
		if c.code == NOOP {
			break
		}
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(fontname string) error {
	src, err := ttf2bdf.OpenFont(fontname, intp.cfg.Backend)
	if err != nil {
		return err
	}
	intp.src, intp.result = src, nil
	family, subfamily := src.Name()
	pterm.Printf("loaded %s %s: %d glyphs, %d units per em\n", family, subfamily, src.NumGlyphs(),
		src.Metrics().UnitsPerEm)
	return nil
}
