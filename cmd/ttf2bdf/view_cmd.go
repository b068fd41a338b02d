package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/ttf2bdf"
	"github.com/npillmayer/ttf2bdf/outline"
	"github.com/npillmayer/ttf2bdf/raster"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
	"golang.org/x/image/vector"
)

var (
	white    = color.RGBA{255, 255, 255, 255}
	grey     = color.RGBA{200, 200, 200, 255}
	red      = color.RGBA{220, 0, 0, 255}
	pixelInk = color.RGBA{0, 0, 0, 255}
)

const viewGap = 8

func runViewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setupTracing(flags["trace"])
	fontPath := strings.TrimSpace(args["font"].Value)
	if err := checkInput(fontPath); err != nil {
		fatalf("%v", err)
	}
	codes, err := parseCodepoints(args["codepoints"].Value)
	if err != nil {
		fatalf("%v", err)
	}
	if len(codes) == 0 {
		fatalf("no code points to render")
	}
	outPath := mustFlagString(flags["output"], "output")
	if outPath == "" {
		fatalf("output path is empty")
	}
	scale := mustFlagInt(flags["scale"], "scale")
	if scale <= 0 {
		fatalf("--scale must be > 0")
	}
	cfg := ttf2bdf.DefaultConfig()
	cfg.PixelsPerEm = mustFlagInt(flags["ppem"], "ppem")
	cfg.Backend = mustFlagString(flags["backend"], "backend")
	cfg.Codes = codes
	if cfg.FillRule, err = raster.ParseFillRule(mustFlagString(flags["rule"], "rule")); err != nil {
		fatalf("%v", err)
	}
	src, err := ttf2bdf.OpenFont(fontPath, cfg.Backend)
	if err != nil {
		fatalf("%v", err)
	}
	img, err := renderComparison(src, cfg, scale)
	if err != nil {
		fatalf("%v", err)
	}
	if err := writePNG(outPath, img); err != nil {
		fatalf("%v", err)
	}
	pterm.Info.Printf("wrote %s (%dx%d)\n", outPath, img.Bounds().Dx(), img.Bounds().Dy())
}

// renderComparison draws, for every code in cfg.Codes, the monochrome bitmap
// next to an anti-aliased rendering of the same outline. Both are magnified
// by scale. Codes without a glyph are left out.
func renderComparison(src outline.Source, cfg ttf2bdf.Config, scale int) (*image.RGBA, error) {
	conv, err := ttf2bdf.NewConverter(cfg)
	if err != nil {
		return nil, err
	}
	result, err := conv.Convert(src)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		if err = result.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("font has no glyphs for the requested code points")
	}
	cell := cfg.PixelsPerEm * scale
	panel := 2*cell + viewGap
	width := len(result.Records)*(panel+viewGap) + viewGap
	height := cell + 2*viewGap
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)

	upem := src.Metrics().UnitsPerEm
	for i, rec := range result.Records {
		x0 := viewGap + i*(panel+viewGap)
		left := image.Rect(x0, viewGap, x0+cell, viewGap+cell)
		right := left.Add(image.Pt(cell+viewGap, 0))
		drawBitmap(img, rec.Bitmap, left, scale)
		o, _, err := outline.Load(src, rec.Code)
		if err != nil {
			return nil, fmt.Errorf("glyph %#U: %w", rec.Code, err)
		}
		drawOutline(img, o, right, cfg.PixelsPerEm, upem, -rec.Bitmap.YOffset, scale)
		baseline := viewGap + (cfg.PixelsPerEm+rec.Bitmap.YOffset)*scale
		for _, r := range []image.Rectangle{left, right} {
			drawRectOutline(img, r.Min.X-1, r.Min.Y-1, r.Max.X+1, r.Max.Y+1, grey)
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetRGBA(x, baseline, red)
			}
		}
	}
	return img, nil
}

// drawBitmap magnifies every pixel of bm to a square of scale × scale.
func drawBitmap(img *image.RGBA, bm *raster.Bitmap, r image.Rectangle, scale int) {
	for y := 0; y < bm.Height; y++ {
		for x := 0; x < bm.Width; x++ {
			if !bm.At(x, y) {
				continue
			}
			px := image.Rect(x*scale, y*scale, (x+1)*scale, (y+1)*scale).Add(r.Min)
			draw.Draw(img, px, image.NewUniform(pixelInk), image.Point{}, draw.Src)
		}
	}
}

// drawOutline renders an outline with anti-aliasing into r, using the same
// cell geometry as the bitmap rasterizer.
func drawOutline(img *image.RGBA, o outline.Outline, r image.Rectangle, ppem, upem, descent, scale int) {
	if upem <= 0 {
		return
	}
	f := float32(ppem*scale) / float32(upem)
	baseline := float32((ppem - descent) * scale)
	pt := func(p outline.Point) (float32, float32) {
		return float32(p.X) * f, baseline - float32(p.Y)*f
	}
	rast := vector.NewRasterizer(r.Dx(), r.Dy())
	rast.DrawOp = draw.Over
	for _, c := range o.Contours {
		if c.IsDegenerate() {
			continue
		}
		rast.MoveTo(pt(c.Start))
		for _, s := range c.Segments {
			switch s.Op {
			case outline.LineTo:
				rast.LineTo(pt(s.Args[0]))
			case outline.QuadTo:
				cx, cy := pt(s.Args[0])
				x, y := pt(s.Args[1])
				rast.QuadTo(cx, cy, x, y)
			case outline.CubeTo:
				c1x, c1y := pt(s.Args[0])
				c2x, c2y := pt(s.Args[1])
				x, y := pt(s.Args[2])
				rast.CubeTo(c1x, c1y, c2x, c2y, x, y)
			}
		}
		rast.ClosePath()
	}
	rast.Draw(img, r, image.Black, image.Point{})
}

func drawRectOutline(img *image.RGBA, minX int, minY int, maxX int, maxY int, c color.RGBA) {
	if img == nil {
		return
	}
	rect := image.Rect(minX, minY, maxX, maxY).Intersect(img.Bounds())
	if rect.Empty() {
		return
	}
	for x := rect.Min.X; x < rect.Max.X; x++ {
		img.SetRGBA(x, rect.Min.Y, c)
		img.SetRGBA(x, rect.Max.Y-1, c)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		img.SetRGBA(rect.Min.X, y, c)
		img.SetRGBA(rect.Max.X-1, y, c)
	}
}

func writePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("cannot encode PNG: %w", err)
	}
	return f.Close()
}
