package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/ttf2bdf"
	"github.com/npillmayer/ttf2bdf/bdf"
	"github.com/npillmayer/ttf2bdf/internal/fontload"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runInfoCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setupTracing(flags["trace"])
	path := strings.TrimSpace(args["file"].Value)
	if path == "" {
		fatalf("file path is required")
	}
	if strings.EqualFold(filepath.Ext(path), ".bdf") {
		f, err := os.Open(path)
		if err != nil {
			fatalf("%v", err)
		}
		defer f.Close()
		font, err := bdf.Parse(f)
		if err != nil {
			fatalf("cannot parse %s: %v", path, err)
		}
		header, glyphs := bdfInfo(font, mustFlagInt(flags["glyphs"], "glyphs"))
		renderTable(header)
		if len(glyphs) > 1 {
			pterm.Info.Printf("showing %d of %d glyphs\n", len(glyphs)-1, len(font.Glyphs))
			renderTable(glyphs)
		}
		return
	}
	if err := checkInput(path); err != nil {
		fatalf("%v", err)
	}
	src, err := ttf2bdf.OpenFont(path, "sfnt")
	if err != nil {
		fatalf("%v", err)
	}
	renderTable(fontInfo(src))
}

func renderTable(data [][]string) {
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		fatalf("%v", err)
	}
}

// fontInfo lists name and metrics of an outline font, as a table with header.
func fontInfo(src *fontload.Source) [][]string {
	family, subfamily := src.Name()
	m := src.Metrics()
	ascii := src.Codes(0x20, 0x7E)
	return [][]string{
		{"Property", "Value"},
		{"File", src.Font().Filepath},
		{"Font name", src.Font().Fontname},
		{"Family", family},
		{"Subfamily", subfamily},
		{"Units per em", strconv.Itoa(m.UnitsPerEm)},
		{"Ascent", fmt.Sprintf("%g", m.Ascent)},
		{"Descent", fmt.Sprintf("%g", m.Descent)},
		{"Glyphs", strconv.Itoa(src.NumGlyphs())},
		{"ASCII coverage", fmt.Sprintf("%d/95", len(ascii))},
		{"Unicode BMP codes", strconv.Itoa(len(src.Codes(0, 0xFFFF)))},
	}
}

// bdfInfo lists the header of a BDF font and up to n of its glyphs, as two
// tables with headers.
func bdfInfo(font *bdf.Font, n int) (header, glyphs [][]string) {
	header = [][]string{
		{"Property", "Value"},
		{"Version", font.Version},
		{"Font", font.Name},
		{"Size", fmt.Sprintf("%d pt at %dx%d dpi", font.PointSize, font.XDPI, font.YDPI)},
		{"Bounding box", font.BBox.String()},
		{"Chars", strconv.Itoa(font.Count)},
	}
	for _, p := range font.Properties {
		header = append(header, []string{p.Name, p.Value})
	}
	for _, c := range font.Comments {
		header = append(header, []string{"Comment", c})
	}
	glyphs = [][]string{{"Name", "Encoding", "SWIDTH", "DWIDTH", "BBX", "Ink"}}
	for i, g := range font.Glyphs {
		if i >= n {
			break
		}
		ink := "-"
		if bm, err := g.Bitmap(); err == nil && !bm.IsBlank() {
			r := bm.Ink()
			ink = fmt.Sprintf("%dx%d", r.Dx(), r.Dy())
		}
		glyphs = append(glyphs, []string{
			g.Name,
			strconv.Itoa(int(g.Encoding)),
			strconv.Itoa(g.SWidth),
			strconv.Itoa(g.DWidth),
			g.BBX.String(),
			ink,
		})
	}
	return
}
