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
	"fmt"

	"seehuhn.de/go/handfont/raster"
)

// segmentGrid divides the image into a uniform grid of cells.  When the
// grid size is not given it is estimated from the gaps in the ink
// projections.  Each occupied cell is re-cropped tightly around its
// ink; empty cells produce warnings.
func segmentGrid(img *raster.Image, bin *raster.Binary, cfg *Config) (*Result, error) {
	res := &Result{Method: MethodGrid}

	gridRows, gridCols := cfg.GridRows, cfg.GridCols
	if gridRows <= 0 || gridCols <= 0 {
		gridRows, gridCols = detectGridSize(bin)
	}
	res.GridRows, res.GridCols = gridRows, gridCols

	cellW := bin.Width / gridCols
	cellH := bin.Height / gridRows
	if cellW <= 0 || cellH <= 0 {
		return res, nil
	}

	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridCols; col++ {
			x0, y0 := col*cellW, row*cellH
			cell, ok := tightCrop(img, bin, x0, y0, cellW, cellH, cfg.Padding)
			if !ok {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("empty cell at row %d, col %d", row, col))
				continue
			}
			cell.Row = row
			res.Cells = append(res.Cells, cell)
		}
	}
	return res, nil
}

// tightCrop shrinks a grid cell to the bounding box of its ink, with a
// small pad.  Cells with fewer than ten ink pixels count as empty.
func tightCrop(img *raster.Image, bin *raster.Binary, x0, y0, w, h, pad int) (Cell, bool) {
	xMin, yMin := x0+w, y0+h
	xMax, yMax := x0-1, y0-1
	n := 0
	for y := y0; y < min(y0+h, bin.Height); y++ {
		for x := x0; x < min(x0+w, bin.Width); x++ {
			if !bin.IsInk(x, y) {
				continue
			}
			n++
			if x < xMin {
				xMin = x
			}
			if x > xMax {
				xMax = x
			}
			if y < yMin {
				yMin = y
			}
			if y > yMax {
				yMax = y
			}
		}
	}
	if n < 10 {
		return Cell{}, false
	}

	cx0 := max(0, xMin-pad)
	cy0 := max(0, yMin-pad)
	cx1 := min(img.Width, xMax+1+pad)
	cy1 := min(img.Height, yMax+1+pad)
	return Cell{
		X: xMin, Y: yMin,
		W: xMax + 1 - xMin, H: yMax + 1 - yMin,
		Image:      img.SubImage(cx0, cy0, cx1-cx0, cy1-cy0),
		Confidence: 1,
	}, true
}

// detectGridSize estimates the grid layout by counting runs of ink in
// the horizontal and vertical ink projections.
func detectGridSize(bin *raster.Binary) (int, int) {
	rowProj := make([]int, bin.Height)
	colProj := make([]int, bin.Width)
	for y := 0; y < bin.Height; y++ {
		for x := 0; x < bin.Width; x++ {
			if bin.IsInk(x, y) {
				rowProj[y]++
				colProj[x]++
			}
		}
	}

	// count runs of ink in a projection, bridging holes of up to five
	// scanlines
	countGroups := func(proj []int, threshold float64) int {
		groups := 0
		last := -10
		for i, v := range proj {
			if float64(v) >= threshold {
				if i-last > 5 {
					groups++
				}
				last = i
			}
		}
		return max(1, groups)
	}

	rows := countGroups(rowProj, float64(bin.Width)*0.05)
	cols := countGroups(colProj, float64(bin.Height)*0.05)
	return rows, cols
}
