package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/ttf2bdf/internal/fontload"
)

// outputPath forces the extension .bdf onto a path.
func outputPath(path string) string {
	path = strings.TrimSpace(path)
	if strings.EqualFold(filepath.Ext(path), ".bdf") {
		return path
	}
	return path + ".bdf"
}

// checkInput makes sure path names an existing TrueType or OpenType file.
func checkInput(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("input font path is required")
	}
	if !fontload.IsFontFile(path) {
		return fmt.Errorf("input file %s must have extension .ttf or .otf", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access input font: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input font %s is a directory", path)
	}
	return nil
}

// parseCodepoints parses a list of code points, separated by commas or
// spaces. Entries are hex numbers, optionally prefixed by U+ or 0x, or ranges
// of the form 'from-to' or 'from..to'.
func parseCodepoints(spec string) ([]rune, error) {
	parts := splitCSVSpace(spec)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		from, to, isRange := strings.Cut(p, "..")
		if !isRange {
			from, to, isRange = strings.Cut(p, "-")
		}
		first, err := parseCodepointToken(from)
		if err != nil {
			return nil, err
		}
		if !isRange {
			out = append(out, first)
			continue
		}
		last, err := parseCodepointToken(to)
		if err != nil {
			return nil, err
		}
		if last < first {
			return nil, fmt.Errorf("invalid codepoint range %q", p)
		}
		for r := first; r <= last; r++ {
			out = append(out, r)
		}
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, errors.New("empty codepoint token")
	}
	hex := token
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || u > 0x10FFFF {
		return 0, fmt.Errorf("invalid codepoint %q", token)
	}
	return rune(u), nil
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// parseTraceLevel accepts Debug, Info or Error, in any case.
func parseTraceLevel(s string) (tracing.TraceLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return tracing.LevelDebug, nil
	case "info":
		return tracing.LevelInfo, nil
	case "", "error":
		return tracing.LevelError, nil
	}
	return tracing.LevelError, fmt.Errorf("invalid trace level %q (expected Debug|Info|Error)", s)
}
