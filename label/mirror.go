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

import "seehuhn.de/go/handfont/segment"

// mirrorSources maps characters to the character they can be derived
// from by a horizontal flip.
var mirrorSources = map[rune]rune{
	'\\': '/',
	')':  '(',
	']':  '[',
	'}':  '{',
	'>':  '<',
}

// DeriveMirrors synthesizes cells for characters of the alphabet which
// are missing but have a present mirror twin.  The derived cells are
// exact flips and carry confidence 1.
func DeriveMirrors(cells []segment.Cell, alphabet string) []segment.Cell {
	present := make(map[rune]int, len(cells))
	for i := range cells {
		if _, ok := present[cells[i].Label]; !ok {
			present[cells[i].Label] = i
		}
	}

	for _, want := range alphabet {
		if _, ok := present[want]; ok {
			continue
		}
		source, ok := mirrorSources[want]
		if !ok {
			continue
		}
		srcIdx, ok := present[source]
		if !ok {
			continue
		}
		src := cells[srcIdx]
		derived := segment.Cell{
			Label:      want,
			X:          src.X,
			Y:          src.Y,
			W:          src.W,
			H:          src.H,
			Image:      src.Image.FlipHorizontal(),
			Row:        src.Row,
			Col:        len(cells),
			Confidence: 1,
		}
		present[want] = len(cells)
		cells = append(cells, derived)
	}
	return cells
}
