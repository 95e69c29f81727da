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

// Package label assigns character labels to segmented glyph cells.
// Labels come from a known alphabet in reading order, from an external
// identification oracle, or from mirror twins of already labelled
// glyphs.
package label

import (
	"context"
	"fmt"

	"seehuhn.de/go/handfont/segment"
)

// The standard alphabets, in the order glyph sheets usually list them.
const (
	Uppercase   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lowercase   = "abcdefghijklmnopqrstuvwxyz"
	Digits      = "0123456789"
	Punctuation = "!@#$%^&*()_+-=[]{}|;':\",./<>?`~\\"
	Full        = Uppercase + Lowercase + Digits + Punctuation
)

// Unknown is assigned to cells which cannot be labelled.
const Unknown = '?'

// DetectAlphabet guesses the alphabet of a sheet from the number of
// glyph cells found on it.
func DetectAlphabet(numCells int) string {
	switch {
	case numCells <= 10:
		return Digits
	case numCells <= 26:
		return Uppercase
	case numCells <= 36:
		return Uppercase + Digits
	case numCells <= 52:
		return Uppercase + Lowercase
	case numCells <= 62:
		return Uppercase + Lowercase + Digits
	default:
		return Full
	}
}

// Assign labels the cells in reading order.  When an oracle is given,
// each cell is first offered to the oracle; identifications with
// confidence below 0.5, oracle errors, and cells beyond the alphabet
// fall back to sequential labelling.  The returned warnings list
// mismatches between the cell count and the alphabet.
func Assign(ctx context.Context, cells []segment.Cell, alphabet string, oracle Oracle) ([]string, error) {
	runes := []rune(alphabet)
	var warnings []string
	oracleDown := false

	for i := range cells {
		if err := ctx.Err(); err != nil {
			return warnings, err
		}

		var sequential rune = Unknown
		if i < len(runes) {
			sequential = runes[i]
		}

		if oracle != nil && !oracleDown {
			id, err := oracle.Identify(ctx, cells[i].Image, HintNone)
			if err != nil {
				warnings = append(warnings,
					fmt.Sprintf("identification oracle unavailable: %v", err))
				oracleDown = true
			} else if id.Char != 0 && id.Confidence >= 0.5 {
				cells[i].Label = id.Char
				cells[i].Confidence = id.Confidence
				continue
			}
		}

		cells[i].Label = sequential
		if sequential == Unknown {
			cells[i].Confidence = 0
		}
	}

	warnings = append(warnings, countWarnings(len(cells), runes)...)
	warnings = append(warnings, missingWarnings(cells, runes)...)
	return warnings, nil
}

func countWarnings(n int, alphabet []rune) []string {
	if n == len(alphabet) {
		return nil
	}
	diff := n - len(alphabet)
	if diff > 0 {
		return []string{fmt.Sprintf(
			"detected %d glyphs but expected %d (%d extra)",
			n, len(alphabet), diff)}
	}
	return []string{fmt.Sprintf(
		"detected %d glyphs but expected %d (%d missing)",
		n, len(alphabet), -diff)}
}

func missingWarnings(cells []segment.Cell, alphabet []rune) []string {
	found := make(map[rune]bool, len(cells))
	for i := range cells {
		found[cells[i].Label] = true
	}
	var missing []rune
	for _, r := range alphabet {
		if !found[r] {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("missing characters: %q", string(missing))}
}
