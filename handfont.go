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

// Package handfont converts a raster image of a handwritten or
// printed alphabet into a TrueType or OpenType font.  The pipeline
// binarizes the image, detects text rows, segments the rows into
// glyph cells, assigns character labels, traces smooth vector
// outlines, infers font metrics, and assembles the font tables.
package handfont

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"seehuhn.de/go/handfont/label"
	"seehuhn.de/go/handfont/metrics"
	"seehuhn.de/go/handfont/raster"
	"seehuhn.de/go/handfont/rows"
	"seehuhn.de/go/handfont/segment"
	"seehuhn.de/go/handfont/sfnt"
	"seehuhn.de/go/handfont/vector"
)

// Format selects an output font format.
type Format int

// The supported output formats.
const (
	FormatTrueType Format = iota // .ttf, quadratic outlines
	FormatCFF                    // .otf, cubic outlines
)

func (f Format) String() string {
	switch f {
	case FormatTrueType:
		return "ttf"
	case FormatCFF:
		return "otf"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Options controls the conversion pipeline.  The zero value gives the
// defaults: 1000 units per em, no smoothing (SmoothingNone), automatic
// method and polarity detection, and TrueType output.
type Options struct {
	UnitsPerEm int              // target em size (default 1000)
	Smoothing  vector.Smoothing // outline smoothing level
	Invert     raster.Polarity  // input polarity
	Method     segment.Method   // segmentation method

	MinCharSize        int // minimum main glyph dimension (default 20)
	MinSmallGlyphSize  int // minimum punctuation dimension (default 3)
	IncludeSmallGlyphs bool
	GridRows, GridCols int // layout hints for grid segmentation

	// Alphabet is the expected character set in reading order.  When
	// empty, the set is chosen from the number of detected glyphs.
	Alphabet string

	SideBearingPct float64 // side bearing as percent of em (default 3)
	KerningPct     float64 // kern suppression threshold (default 0.15)

	Formats []Format // output formats (default TrueType)

	Oracle label.Oracle // optional glyph identification oracle

	// Progress, if set, is called as the pipeline advances.
	Progress func(stage string, done, total int)
}

func (o *Options) progress(stage string, done, total int) {
	if o.Progress != nil {
		o.Progress(stage, done, total)
	}
}

// Result is the outcome of a conversion.
type Result struct {
	// Fonts maps each requested format to the encoded font file.
	Fonts map[Format][]byte

	Metrics  *metrics.Metrics
	Cells    []segment.Cell
	Glyphs   []*vector.Glyph // normalized outlines, in em units
	Alphabet string
	Warnings []string
}

// Generate runs the full conversion pipeline on the image read from r
// and assembles the font files.  The info argument provides naming and
// versioning; its metric fields are filled in by the pipeline.  The
// context is checked between glyphs and kerning pairs, so conversions
// can be cancelled.
func Generate(ctx context.Context, r io.Reader, info *sfnt.Info, opt *Options) (*Result, error) {
	if opt == nil {
		opt = &Options{}
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = []Format{FormatTrueType}
	}
	unitsPerEm := opt.UnitsPerEm
	if unitsPerEm <= 0 {
		unitsPerEm = 1000
	}

	res := &Result{Fonts: make(map[Format][]byte)}

	img, err := raster.Decode(r)
	if err != nil {
		return nil, err
	}
	opt.progress("binarize", 0, 1)
	bin := raster.Binarize(img, opt.Invert)

	opt.progress("rows", 0, 1)
	textRows, err := rows.NewDetector().Detect(bin)
	if err != nil {
		return nil, err
	}

	opt.progress("segment", 0, 1)
	segCfg := &segment.Config{
		Method:             opt.Method,
		MinCharSize:        opt.MinCharSize,
		MinSmallGlyphSize:  opt.MinSmallGlyphSize,
		IncludeSmallGlyphs: opt.IncludeSmallGlyphs,
		GridRows:           opt.GridRows,
		GridCols:           opt.GridCols,
		Split:              label.SplitFunc(ctx, opt.Oracle),
	}
	seg, err := segment.Segment(img, bin, textRows, segCfg)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(res.Warnings, seg.Warnings...)

	alphabet := opt.Alphabet
	if alphabet == "" {
		alphabet = label.DetectAlphabet(len(seg.Cells))
	}
	res.Alphabet = alphabet

	warnings, err := label.Assign(ctx, seg.Cells, alphabet, opt.Oracle)
	res.Warnings = append(res.Warnings, warnings...)
	if err != nil {
		return nil, err
	}
	res.Cells = label.DeriveMirrors(seg.Cells, alphabet)

	vectorizer := vector.NewVectorizer(opt.Smoothing)
	var glyphs []*vector.Glyph
	for i := range res.Cells {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cell := &res.Cells[i]
		opt.progress("vectorize", i, len(res.Cells))
		g, err := vectorizer.Vectorize(cell.Image, cell.Label)
		if err != nil {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("glyph %q: %v", cell.Label, err))
			continue
		}
		if len(g.Paths) == 0 {
			continue
		}
		glyphs = append(glyphs, g)
	}
	if len(glyphs) == 0 {
		return nil, ErrNoGlyphs
	}

	opt.progress("metrics", 0, 1)
	calc := metrics.NewCalculator(unitsPerEm)
	if opt.SideBearingPct > 0 {
		calc.SideBearingPct = opt.SideBearingPct
	}
	if opt.KerningPct > 0 {
		calc.KerningPct = opt.KerningPct
	}
	m, normalized, err := calc.Calculate(ctx, glyphs)
	if err != nil {
		return nil, err
	}
	res.Metrics = m
	res.Glyphs = normalized

	info.UnitsPerEm = m.UnitsPerEm
	info.Ascent = m.Ascent
	info.Descent = m.Descent
	info.LineGap = m.LineGap
	info.CapHeight = m.CapHeight
	info.XHeight = m.XHeight
	if info.CreationTime.IsZero() {
		info.CreationTime = time.Now().UTC()
	}
	if info.ModificationTime.IsZero() {
		info.ModificationTime = info.CreationTime
	}

	font, err := buildFont(info, m, normalized)
	if err != nil {
		return nil, err
	}
	for _, format := range formats {
		opt.progress("assemble", 0, 1)
		buf := &bytes.Buffer{}
		switch format {
		case FormatCFF:
			err = font.WriteCFF(buf)
		default:
			err = font.WriteTrueType(buf)
		}
		if err != nil {
			return nil, err
		}
		res.Fonts[format] = buf.Bytes()
	}
	return res, nil
}
