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

// Package metrics infers font metrics from a heterogeneous set of
// vectorized glyphs.  Glyphs are scaled into em units and placed on
// the baseline; cap height, x-height, ascender, descender, advance
// widths and a kerning table are derived from the glyph shapes.
package metrics

import (
	"context"
	"math"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/handfont/vector"
)

// Character classes used for metric inference.
const (
	uppercaseFlat      = "EFHILTZ"
	uppercaseRound     = "CDGOQS"
	lowercaseXHeight   = "acemnorsuvwxz"
	lowercaseAscender  = "bdfhklt"
	lowercaseDescender = "gjpqy"
	digits             = "0123456789"
)

// Pair is an ordered pair of characters for kerning.
type Pair struct {
	Left, Right rune
}

// Metrics holds the derived font metrics, in em units.
type Metrics struct {
	UnitsPerEm uint16

	Ascent    funit.Int16
	Descent   funit.Int16 // negative or zero
	CapHeight funit.Int16
	XHeight   funit.Int16
	LineGap   funit.Int16

	// SideBearing is the blank space added on each side of a glyph
	// inside its advance width.
	SideBearing funit.Int16

	Widths  map[rune]funit.Int16
	Kerning map[Pair]funit.Int16
	Extents map[rune]funit.Rect16
}

// Calculator computes Metrics from vectorized glyphs.  The zero value
// is not usable; call NewCalculator for defaults.
type Calculator struct {
	UnitsPerEm     int     // default 1000
	SideBearingPct float64 // side bearing as percent of em (default 3)
	KerningPct     float64 // suppress kern pairs below this percent of em (default 0.15)
}

// NewCalculator returns a Calculator with the default parameters.
func NewCalculator(unitsPerEm int) *Calculator {
	if unitsPerEm <= 0 {
		unitsPerEm = 1000
	}
	return &Calculator{
		UnitsPerEm:     unitsPerEm,
		SideBearingPct: 3,
		KerningPct:     0.15,
	}
}

// Calculate scales the glyphs to em units with their baselines at y=0
// and derives the font metrics.  The returned glyph list parallels the
// input list.  The context is checked between kerning pairs.
func (c *Calculator) Calculate(ctx context.Context, glyphs []*vector.Glyph) (*Metrics, []*vector.Glyph, error) {
	upm := float64(c.UnitsPerEm)
	m := &Metrics{
		UnitsPerEm: uint16(c.UnitsPerEm),
		Widths:     make(map[rune]funit.Int16),
		Extents:    make(map[rune]funit.Rect16),
	}

	normalized := c.normalize(glyphs)
	byLabel := make(map[rune]*vector.Glyph, len(normalized))
	for _, g := range normalized {
		if _, ok := byLabel[g.Label]; !ok {
			byLabel[g.Label] = g
		}
	}

	capHeight := meanYMax(byLabel, uppercaseFlat)
	if capHeight == 0 {
		capHeight = meanYMax(byLabel, uppercaseRound)
	}
	if capHeight == 0 {
		capHeight = 0.70 * upm
	}

	xHeight := meanYMax(byLabel, lowercaseXHeight)
	if xHeight == 0 {
		xHeight = 0.50 * upm
	}

	var ascent float64
	if yMax, ok := maxYMax(byLabel, lowercaseAscender); ok {
		ascent = math.Max(yMax, capHeight)
	} else {
		ascent = 1.10 * capHeight
	}

	descent := 0.0
	if yMin, ok := minYMin(byLabel, lowercaseDescender); ok {
		descent = yMin
	} else {
		descent = -0.20 * upm
	}

	// all outlines must fit between descent and ascent
	for _, g := range normalized {
		b := g.Bounds()
		ascent = math.Max(ascent, b.YMax)
		descent = math.Min(descent, b.YMin)
	}

	// keep descent <= 0 <= xHeight <= capHeight <= ascent
	descent = math.Min(descent, 0)
	xHeight = math.Max(xHeight, 0)
	capHeight = math.Max(capHeight, xHeight)
	ascent = math.Max(ascent, capHeight)

	m.CapHeight = funit.Int16(math.Round(capHeight))
	m.XHeight = funit.Int16(math.Round(xHeight))
	m.Ascent = funit.Int16(math.Round(ascent))
	m.Descent = funit.Int16(math.Round(descent))

	sideBearing := c.SideBearingPct * upm / 100
	m.SideBearing = funit.Int16(math.Round(sideBearing))
	for _, g := range normalized {
		b := g.Bounds()
		m.Extents[g.Label] = funit.Rect16{
			LLx: funit.Int16(math.Floor(b.XMin)),
			LLy: funit.Int16(math.Floor(b.YMin)),
			URx: funit.Int16(math.Ceil(b.XMax)),
			URy: funit.Int16(math.Ceil(b.YMax)),
		}
		w := b.XMax - b.XMin
		m.Widths[g.Label] = funit.Int16(math.Round(w + 2*sideBearing))
	}

	kerning, err := c.kerning(ctx, byLabel)
	if err != nil {
		return nil, nil, err
	}
	m.Kerning = kerning

	return m, normalized, nil
}

// normalize scales all glyphs so that the tallest reference uppercase
// letter spans 70% of the em, and shifts each glyph vertically so that
// its baseline lands at y=0.  Descender glyphs are aligned by their
// top edge instead, so that their tails drop below the baseline.
func (c *Calculator) normalize(glyphs []*vector.Glyph) []*vector.Glyph {
	byLabel := make(map[rune]*vector.Glyph, len(glyphs))
	for _, g := range glyphs {
		if _, ok := byLabel[g.Label]; !ok {
			byLabel[g.Label] = g
		}
	}

	capH := tallestHeight(glyphs, func(g *vector.Glyph) bool {
		return inClass(g.Label, uppercaseFlat) || inClass(g.Label, uppercaseRound)
	})
	if capH == 0 {
		capH = tallestHeight(glyphs, func(g *vector.Glyph) bool {
			return g.Label >= 'A' && g.Label <= 'Z'
		})
	}
	if capH == 0 {
		capH = tallestHeight(glyphs, func(*vector.Glyph) bool { return true })
	}
	if capH == 0 {
		return glyphs
	}
	scale := 0.70 * float64(c.UnitsPerEm) / capH

	// x-height estimate, in bitmap scale
	var xhSum float64
	var xhN int
	for _, r := range lowercaseXHeight {
		if g, ok := byLabel[r]; ok {
			b := g.Bounds()
			xhSum += b.YMax - b.YMin
			xhN++
		}
	}
	avgXHeight := capH * 0.7
	if xhN > 0 {
		avgXHeight = xhSum / float64(xhN)
	}

	// mean height of the regular descender glyphs, for the j dot
	var descSum float64
	var descN int
	for _, r := range "gpqy" {
		if g, ok := byLabel[r]; ok {
			b := g.Bounds()
			descSum += b.YMax - b.YMin
			descN++
		}
	}

	res := make([]*vector.Glyph, len(glyphs))
	for i, g := range glyphs {
		b := g.Bounds()
		var yOffset float64
		switch {
		case g.Label == 'j':
			yOffset = b.YMax - avgXHeight
			if descN > 0 {
				dotHeight := math.Max(0, (b.YMax-b.YMin)-descSum/float64(descN))
				yOffset -= dotHeight
			}
		case inClass(g.Label, lowercaseDescender):
			yOffset = b.YMax - avgXHeight
		default:
			yOffset = b.YMin
		}

		res[i] = g.Map(func(p vec.Vec2) vec.Vec2 {
			return vec.Vec2{X: p.X * scale, Y: (p.Y - yOffset) * scale}
		})
		res[i].Width = g.Width * scale
		res[i].Height = g.Height * scale
		res[i].Advance = g.Advance * scale
	}
	return res
}

func inClass(r rune, class string) bool {
	for _, c := range class {
		if c == r {
			return true
		}
	}
	return false
}

func tallestHeight(glyphs []*vector.Glyph, keep func(*vector.Glyph) bool) float64 {
	best := 0.0
	for _, g := range glyphs {
		if !keep(g) || len(g.Paths) == 0 {
			continue
		}
		b := g.Bounds()
		if h := b.YMax - b.YMin; h > best {
			best = h
		}
	}
	return best
}

func meanYMax(byLabel map[rune]*vector.Glyph, class string) float64 {
	var sum float64
	var n int
	for _, r := range class {
		if g, ok := byLabel[r]; ok {
			sum += g.Bounds().YMax
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func maxYMax(byLabel map[rune]*vector.Glyph, class string) (float64, bool) {
	best := math.Inf(-1)
	found := false
	for _, r := range class {
		if g, ok := byLabel[r]; ok {
			best = math.Max(best, g.Bounds().YMax)
			found = true
		}
	}
	return best, found
}

func minYMin(byLabel map[rune]*vector.Glyph, class string) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, r := range class {
		if g, ok := byLabel[r]; ok {
			best = math.Min(best, g.Bounds().YMin)
			found = true
		}
	}
	return best, found
}
