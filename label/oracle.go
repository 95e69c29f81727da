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

package label

import (
	"context"

	"seehuhn.de/go/handfont/raster"
	"seehuhn.de/go/handfont/rows"
	"seehuhn.de/go/handfont/segment"
)

// Hint tells the oracle where a glyph sits relative to its row, which
// helps distinguish marks like apostrophes from commas.
type Hint int

// The position hints.
const (
	HintNone Hint = iota
	HintAtTop
	HintOnBaseline
	HintHasDescender
)

// Identification is the oracle's answer for a single glyph image.
// Char is 0 when the oracle could not identify the glyph.
type Identification struct {
	Char         rune
	Confidence   float64 // in [0, 1]
	Alternatives []rune
}

// Oracle identifies glyph images and analyses regions which may
// contain several glyphs run together.  Implementations wrap whatever
// transport is available; the pipeline treats the oracle as a black
// box and degrades to sequential labelling when it fails.
type Oracle interface {
	// Identify names the character shown in the image.
	Identify(ctx context.Context, img *raster.Image, hint Hint) (*Identification, error)

	// AnalyzeSplit reports how many glyphs a region contains and where
	// to split it, as fractions of the region width.
	AnalyzeSplit(ctx context.Context, region *raster.Image, expectedWidthPx int) (count int, splits []float64, err error)
}

// PositionHint derives a position hint for a cell from the baseline of
// its row.
func PositionHint(cell *segment.Cell, row rows.Row) Hint {
	bottom := cell.Y + cell.H
	switch {
	case bottom > row.Baseline+row.Height/10:
		return HintHasDescender
	case cell.Y+cell.H < row.Baseline-row.Height/3:
		return HintAtTop
	default:
		return HintOnBaseline
	}
}

// SplitFunc adapts an oracle to the segmenter's split callback.
func SplitFunc(ctx context.Context, oracle Oracle) segment.SplitFunc {
	if oracle == nil {
		return nil
	}
	return func(region *raster.Image, expectedWidth int) (int, []float64, error) {
		return oracle.AnalyzeSplit(ctx, region, expectedWidth)
	}
}
