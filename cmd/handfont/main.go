// seehuhn.de/go/handfont - convert scanned alphabet sheets into fonts
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Handfont converts an image of a handwritten alphabet into font
// files.
//
// Usage:
//
//	handfont [options] alphabet.png output-base
//
// The output files are output-base.ttf and/or output-base.otf.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"seehuhn.de/go/handfont"
	"seehuhn.de/go/handfont/raster"
	"seehuhn.de/go/handfont/segment"
	"seehuhn.de/go/handfont/sfnt"
	"seehuhn.de/go/handfont/vector"
)

func main() {
	family := flag.String("family", "Handwriting", "font family name")
	style := flag.String("style", "Regular", "font style name")
	version := flag.String("fontversion", "1.000", "font version")
	upm := flag.Int("upm", 1000, "units per em")
	smoothing := flag.String("smoothing", "medium",
		"smoothing level (none, low, medium, high, maximum)")
	method := flag.String("method", "auto",
		"segmentation method (auto, contour, row-column, grid)")
	invert := flag.String("invert", "auto",
		"input polarity (auto, dark, light)")
	alphabet := flag.String("alphabet", "",
		"expected characters in reading order (default: auto-detect)")
	formats := flag.String("formats", "ttf",
		"comma-separated output formats (ttf, otf)")
	small := flag.Bool("small-glyphs", false,
		"keep small components as punctuation")
	minCharSize := flag.Int("min-char-size", 20,
		"minimum main glyph size in pixels")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Printf("Usage: %s [options] alphabet.png output-base\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputFile := flag.Arg(0)
	outputBase := flag.Arg(1)

	opt := &handfont.Options{
		UnitsPerEm:         *upm,
		Alphabet:           *alphabet,
		IncludeSmallGlyphs: *small,
		MinCharSize:        *minCharSize,
	}

	switch *smoothing {
	case "none":
		opt.Smoothing = vector.SmoothingNone
	case "low":
		opt.Smoothing = vector.SmoothingLow
	case "medium":
		opt.Smoothing = vector.SmoothingMedium
	case "high":
		opt.Smoothing = vector.SmoothingHigh
	case "maximum":
		opt.Smoothing = vector.SmoothingMaximum
	default:
		fmt.Fprintf(os.Stderr, "Unknown smoothing level %q\n", *smoothing)
		os.Exit(1)
	}

	switch *method {
	case "auto":
		opt.Method = segment.MethodAuto
	case "contour":
		opt.Method = segment.MethodContour
	case "row-column":
		opt.Method = segment.MethodRowColumn
	case "grid":
		opt.Method = segment.MethodGrid
	default:
		fmt.Fprintf(os.Stderr, "Unknown segmentation method %q\n", *method)
		os.Exit(1)
	}

	switch *invert {
	case "auto":
		opt.Invert = raster.PolarityAuto
	case "dark":
		opt.Invert = raster.PolarityDarkOnLight
	case "light":
		opt.Invert = raster.PolarityLightOnDark
	default:
		fmt.Fprintf(os.Stderr, "Unknown polarity %q\n", *invert)
		os.Exit(1)
	}

	extensions := make(map[handfont.Format]string)
	for _, name := range strings.Split(*formats, ",") {
		switch strings.TrimSpace(name) {
		case "ttf":
			opt.Formats = append(opt.Formats, handfont.FormatTrueType)
			extensions[handfont.FormatTrueType] = ".ttf"
		case "otf":
			opt.Formats = append(opt.Formats, handfont.FormatCFF)
			extensions[handfont.FormatCFF] = ".otf"
		default:
			fmt.Fprintf(os.Stderr, "Unknown format %q\n", name)
			os.Exit(1)
		}
	}

	if term.IsTerminal(int(os.Stderr.Fd())) {
		opt.Progress = func(stage string, done, total int) {
			fmt.Fprintf(os.Stderr, "\r%-12s %d/%d", stage, done+1, total)
			if done+1 == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	f, err := os.Open(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	info := &sfnt.Info{
		FamilyName: *family,
		StyleName:  *style,
		Version:    *version,
	}
	res, err := handfont.Generate(context.Background(), f, info, opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, warning := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	for format, data := range res.Fonts {
		outputFile := outputBase + extensions[format]
		err = os.WriteFile(outputFile, data, 0o666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%d glyphs)\n", outputFile, len(res.Glyphs)+2)
	}
}
