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

package handfont

import (
	"sort"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/handfont/metrics"
	"seehuhn.de/go/handfont/sfnt"
	"seehuhn.de/go/handfont/sfnt/glyph"
	"seehuhn.de/go/handfont/vector"
)

// buildFont arranges the normalized glyphs into the font roster:
// .notdef, space, then the glyph labels sorted by code point.  Glyph
// outlines are shifted so that each one starts at its left side
// bearing, and the kerning table is re-keyed from characters to glyph
// IDs.
func buildFont(info *sfnt.Info, m *metrics.Metrics, glyphs []*vector.Glyph) (*sfnt.Font, error) {
	em := int(m.UnitsPerEm)

	byLabel := make(map[rune]*vector.Glyph, len(glyphs))
	var labels []rune
	for _, g := range glyphs {
		if _, ok := byLabel[g.Label]; ok {
			continue
		}
		byLabel[g.Label] = g
		labels = append(labels, g.Label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	font := &sfnt.Font{
		Info: info,
		Kern: make(map[glyph.Pair]funit.Int16),
	}
	font.Glyphs = append(font.Glyphs, &sfnt.Glyph{
		Name:    ".notdef",
		Advance: funit.Int16(em / 2),
		Paths:   sfnt.NotdefOutline(m.UnitsPerEm, m.CapHeight),
	})
	font.Glyphs = append(font.Glyphs, &sfnt.Glyph{
		Name:    "space",
		Rune:    ' ',
		Advance: funit.Int16(em / 4),
	})

	gids := make(map[rune]glyph.ID, len(labels))
	for _, r := range labels {
		src := byLabel[r]
		b := src.Bounds()
		shift := float64(m.SideBearing) - b.XMin
		shifted := src.Map(func(p vec.Vec2) vec.Vec2 {
			return vec.Vec2{X: p.X + shift, Y: p.Y}
		})
		gids[r] = glyph.ID(len(font.Glyphs))
		font.Glyphs = append(font.Glyphs, &sfnt.Glyph{
			Name:    sfnt.GlyphName(r),
			Rune:    r,
			Advance: m.Widths[r],
			Paths:   shifted.Paths,
		})
	}

	for pair, k := range m.Kerning {
		left, ok := gids[pair.Left]
		if !ok {
			continue
		}
		right, ok := gids[pair.Right]
		if !ok {
			continue
		}
		font.Kern[glyph.Pair{Left: left, Right: right}] = k
	}

	return font, nil
}
