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

package rows

import (
	"sort"

	"seehuhn.de/go/handfont/raster"
)

// SegmentColumns splits a row into glyph columns using the vertical
// projection profile.  The gap threshold is a small percentage of the
// row height, so that minor anti-aliasing does not hide real gaps.
// Unusually wide columns are split again, but only at clear gaps.
func (d *Detector) SegmentColumns(bin *raster.Binary, row Row) []Column {
	minWidth := 5
	gap := max(2, int(float64(row.Height)*0.03))

	proj := make([]int, bin.Width)
	for x := 0; x < bin.Width; x++ {
		n := 0
		for y := row.Y; y < min(row.Bottom(), bin.Height); y++ {
			if bin.IsInk(x, y) {
				n++
			}
		}
		proj[x] = n
	}

	var cols []Column
	inCol := false
	start := 0
	for x, ink := range proj {
		if !inCol && ink > gap {
			inCol = true
			start = x
		} else if inCol && ink <= gap {
			if x-start >= minWidth {
				cols = append(cols, Column{X: start, Width: x - start, Y: row.Y, Height: row.Height})
			}
			inCol = false
		}
	}
	if inCol && bin.Width-start >= minWidth {
		cols = append(cols, Column{X: start, Width: bin.Width - start, Y: row.Y, Height: row.Height})
	}

	return splitWideColumns(cols, proj, gap)
}

// splitWideColumns splits columns wider than 1.8 times the median width
// at clear gaps in the projection.
func splitWideColumns(cols []Column, proj []int, gap int) []Column {
	if len(cols) == 0 {
		return cols
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = c.Width
	}
	sort.Ints(widths)
	median := widths[len(widths)/2]

	var res []Column
	for _, col := range cols {
		if float64(col.Width) <= float64(median)*1.8 {
			res = append(res, col)
			continue
		}
		splits := gapSplits(proj[col.X:col.X+col.Width], gap)
		if len(splits) == 0 {
			res = append(res, col)
			continue
		}
		bounds := append([]int{0}, splits...)
		bounds = append(bounds, col.Width)
		for i := 0; i+1 < len(bounds); i++ {
			w := bounds[i+1] - bounds[i]
			if w >= 5 {
				res = append(res, Column{
					X:     col.X + bounds[i],
					Width: w,
					Y:     col.Y, Height: col.Height,
				})
			}
		}
	}
	return res
}

// gapSplits returns the centres of low-ink runs at least two pixels
// wide.
func gapSplits(proj []int, gap int) []int {
	if len(proj) < 10 {
		return nil
	}
	var splits []int
	inGap := false
	start := 0
	for x, v := range proj {
		if v <= gap {
			if !inGap {
				start = x
				inGap = true
			}
		} else if inGap {
			if x-start >= 2 {
				splits = append(splits, (start+x)/2)
			}
			inGap = false
		}
	}
	return splits
}
