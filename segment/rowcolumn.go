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

package segment

import (
	"image"

	"seehuhn.de/go/handfont/raster"
	"seehuhn.de/go/handfont/rows"
)

// segmentRowColumn segments along the detected row bands: each band is
// split into glyph columns by its vertical ink projection, and the
// intra-row merge passes reunite multi-part glyphs.  This mode works
// best when the glyphs are laid out in a deliberate grid of rows.
func segmentRowColumn(img *raster.Image, bin *raster.Binary, textRows []rows.Row, cfg *Config) (*Result, error) {
	res := &Result{Method: MethodRowColumn}
	if len(textRows) == 0 {
		return res, rows.ErrNoTextRows
	}

	detector := rows.NewDetector()
	var merged []*component
	for rowIdx, row := range textRows {
		var comps []*component
		for _, col := range detector.SegmentColumns(bin, row) {
			box := tightBox(bin, col)
			if box.Dx()*box.Dy() < 9 {
				continue
			}
			comps = append(comps, &component{
				box:  box,
				area: float64(box.Dx() * box.Dy()),
				row:  rowIdx,
			})
		}
		merged = append(merged, mergeRow(comps)...)
	}

	merged = splitWide(merged, bin, img, cfg, res)

	for _, c := range merged {
		res.Cells = append(res.Cells, extractCell(img, c, cfg))
	}
	return res, nil
}

// tightBox shrinks a column to the bounding box of its ink.  Columns
// span the full row height, which would make the vertical merge rules
// meaningless.
func tightBox(bin *raster.Binary, col rows.Column) image.Rectangle {
	x0, y0 := col.X+col.Width, col.Y+col.Height
	x1, y1 := col.X, col.Y
	for y := col.Y; y < col.Y+col.Height; y++ {
		for x := col.X; x < col.X+col.Width; x++ {
			if !bin.IsInk(x, y) {
				continue
			}
			if x < x0 {
				x0 = x
			}
			if x >= x1 {
				x1 = x + 1
			}
			if y < y0 {
				y0 = y
			}
			if y >= y1 {
				y1 = y + 1
			}
		}
	}
	if x1 <= x0 || y1 <= y0 {
		return image.Rectangle{}
	}
	return image.Rect(x0, y0, x1, y1)
}
