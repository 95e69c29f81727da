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

package metrics

import (
	"context"
	"math"
	"strings"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/handfont/vector"
)

// kernCandidates lists the character pairs which commonly need
// spacing adjustment.
var kernCandidates = []Pair{
	// capital + lowercase
	{'A', 'v'}, {'A', 'w'}, {'A', 'y'},
	{'F', 'a'}, {'F', 'e'}, {'F', 'o'},
	{'L', 'T'}, {'L', 'V'}, {'L', 'W'}, {'L', 'Y'},
	{'P', 'a'}, {'P', 'e'}, {'P', 'o'},
	{'T', 'a'}, {'T', 'e'}, {'T', 'o'}, {'T', 'r'}, {'T', 'y'},
	{'V', 'a'}, {'V', 'e'}, {'V', 'o'},
	{'W', 'a'}, {'W', 'e'}, {'W', 'o'},
	{'Y', 'a'}, {'Y', 'e'}, {'Y', 'o'},
	// capital + capital
	{'A', 'T'}, {'A', 'V'}, {'A', 'W'}, {'A', 'Y'},
	{'L', 'A'},
	// lowercase pairs
	{'f', 'f'}, {'f', 'i'}, {'f', 'l'},
	{'r', 'a'}, {'r', 'e'}, {'r', 'o'},
	{'v', 'a'}, {'v', 'e'}, {'v', 'o'},
	{'w', 'a'}, {'w', 'e'}, {'w', 'o'},
	{'y', 'a'}, {'y', 'e'}, {'y', 'o'},
	// punctuation
	{'.', '\''}, {',', '\''},
	{'A', '\''}, {'T', '\''},
}

// edgeShape classifies the silhouette of one side of a glyph.
type edgeShape int

const (
	edgeStraight edgeShape = iota
	edgeRound
	edgeDiagonal
	edgeOpen
)

// Characters with concave ("open") edges which the sampling classifier
// cannot see.  The crossbar shapes leave most of the edge band empty,
// so they get a fixed classification instead.
var (
	openRightEdges = "EFL"
	openLeftEdges  = "J"
)

// kerning derives kern values for the candidate pairs present in the
// glyph set.  The context is checked between pairs; on cancellation the
// partial table is discarded.
func (c *Calculator) kerning(ctx context.Context, byLabel map[rune]*vector.Glyph) (map[Pair]funit.Int16, error) {
	upm := float64(c.UnitsPerEm)
	threshold := c.KerningPct * upm / 100
	baseKern := -0.05 * upm

	res := make(map[Pair]funit.Int16)
	for _, pair := range kernCandidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		left, ok := byLabel[pair.Left]
		if !ok {
			continue
		}
		right, ok := byLabel[pair.Right]
		if !ok {
			continue
		}

		kern := kernValue(left, right, baseKern)
		if math.Abs(kern) >= threshold && kern != 0 {
			res[pair] = funit.Int16(math.Round(kern))
		}
	}
	return res, nil
}

// kernValue estimates the adjustment for a glyph pair from the shapes
// of the facing edges.  Negative values pull the glyphs together.
func kernValue(left, right *vector.Glyph, baseKern float64) float64 {
	leftEdge := analyzeEdge(left, false)
	rightEdge := analyzeEdge(right, true)

	var kern float64
	switch {
	case leftEdge == edgeDiagonal && rightEdge == edgeDiagonal:
		kern = 2 * baseKern
	case leftEdge == edgeDiagonal || rightEdge == edgeDiagonal:
		kern = baseKern
	case leftEdge == edgeOpen || rightEdge == edgeOpen:
		kern = 0.5 * baseKern
	}

	// per-pair overrides for the classic problem combinations
	if strings.ContainsRune("FPTY", left.Label) && strings.ContainsRune("aeo", right.Label) {
		kern = 2.5 * baseKern
	}
	if left.Label == 'L' && strings.ContainsRune("TVWY", right.Label) {
		kern = 3 * baseKern
	}
	if left.Label == 'A' && strings.ContainsRune("VWY", right.Label) {
		kern = 2.5 * baseKern
	}

	return kern
}

// analyzeEdge classifies the left or right edge of a glyph by the
// horizontal spread of the outline points within 20% of the glyph
// width from that side.
func analyzeEdge(g *vector.Glyph, leftSide bool) edgeShape {
	if leftSide {
		if strings.ContainsRune(openLeftEdges, g.Label) {
			return edgeOpen
		}
	} else {
		if strings.ContainsRune(openRightEdges, g.Label) {
			return edgeOpen
		}
	}

	b := g.Bounds()
	width := b.XMax - b.XMin
	if width <= 0 || len(g.Paths) == 0 {
		return edgeStraight
	}
	band := width * 0.2

	xMin := math.Inf(1)
	xMax := math.Inf(-1)
	found := false
	for i := range g.Paths {
		if g.Paths[i].Hole {
			continue
		}
		for _, cmd := range g.Paths[i].Cmds {
			for _, p := range cmd.Pts {
				in := p.X > b.XMax-band
				if leftSide {
					in = p.X < b.XMin+band
				}
				if !in {
					continue
				}
				xMin = math.Min(xMin, p.X)
				xMax = math.Max(xMax, p.X)
				found = true
			}
		}
	}
	if !found {
		return edgeStraight
	}

	variation := (xMax - xMin) / width
	switch {
	case variation < 0.1:
		return edgeStraight
	case variation < 0.3:
		return edgeRound
	default:
		return edgeDiagonal
	}
}
