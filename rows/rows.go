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

// Package rows detects horizontal text rows in a binarized alphabet
// sheet by analysing the horizontal projection profile.  Overlapping
// rows (descenders reaching into the next line) and stray small rows
// are resolved here.
package rows

import (
	"errors"
	"sort"

	"seehuhn.de/go/handfont/raster"
)

// ErrNoTextRows is returned when no text rows can be found in the
// image.  The pipeline cannot continue in this case.
var ErrNoTextRows = errors.New("no text rows detected")

// Row is a horizontal band of text, in pixel coordinates of the source
// image.
type Row struct {
	Y        int // top edge
	Height   int
	Baseline int // estimated baseline, relative to the image top
}

// Bottom returns the exclusive bottom edge of the row.
func (r Row) Bottom() int {
	return r.Y + r.Height
}

// Column is a glyph region within a row, produced by the row-column
// segmentation mode.
type Column struct {
	X, Width  int
	Y, Height int
	RowIndex  int
}

// Detector holds the tunable parameters of row detection.  The zero
// value is not usable; call NewDetector for defaults.
type Detector struct {
	MinRowHeight   int     // discard rows shorter than this (default 20)
	GapRatio       float64 // row opens when the projection exceeds W*GapRatio (default 0.05)
	DescenderRatio float64 // baseline at y + h*(1-DescenderRatio) (default 0.3)
}

// NewDetector returns a Detector with the default parameters.
func NewDetector() *Detector {
	return &Detector{
		MinRowHeight:   20,
		GapRatio:       0.05,
		DescenderRatio: 0.3,
	}
}

// Detect finds the text rows of a binary image, ordered top to bottom.
// Overlapping rows are merged unless the projection valley between them
// stays below 30% of the surrounding peaks, and rows smaller than 30%
// of the median height are absorbed into their nearest neighbour.
func (d *Detector) Detect(bin *raster.Binary) ([]Row, error) {
	proj := Projection(bin)
	gap := float64(bin.Width) * d.GapRatio

	var res []Row
	inRow := false
	start := 0
	for y, ink := range proj {
		if !inRow && float64(ink) > gap {
			inRow = true
			start = y
		} else if inRow && float64(ink) <= gap {
			res = d.appendRow(res, start, y-start)
			inRow = false
		}
	}
	if inRow {
		res = d.appendRow(res, start, bin.Height-start)
	}

	res = d.mergeOverlapping(res, proj)
	res = d.absorbSmall(res)

	if len(res) == 0 {
		return nil, ErrNoTextRows
	}
	return res, nil
}

// Projection returns the per-scanline ink pixel counts of the image.
func Projection(bin *raster.Binary) []int {
	proj := make([]int, bin.Height)
	for y := 0; y < bin.Height; y++ {
		n := 0
		row := bin.Pix[y*bin.Width : (y+1)*bin.Width]
		for _, p := range row {
			if p == 0 {
				n++
			}
		}
		proj[y] = n
	}
	return proj
}

func (d *Detector) appendRow(res []Row, y, h int) []Row {
	if h < d.MinRowHeight {
		return res
	}
	return append(res, d.makeRow(y, h))
}

func (d *Detector) makeRow(y, h int) Row {
	return Row{
		Y:        y,
		Height:   h,
		Baseline: y + int(float64(h)*(1-d.DescenderRatio)),
	}
}

// mergeOverlapping keeps overlapping rows separate when the projection
// between them shows a clear valley, and merges them otherwise.
func (d *Detector) mergeOverlapping(rws []Row, proj []int) []Row {
	if len(rws) < 2 {
		return rws
	}
	var res []Row
	i := 0
	for i < len(rws) {
		cur := rws[i]
		if i+1 < len(rws) && rws[i+1].Y < cur.Bottom() {
			next := rws[i+1]
			oStart := max(0, next.Y)
			oEnd := min(len(proj), cur.Bottom())
			if oStart < oEnd && !hasValley(proj, cur, next, oStart, oEnd) {
				merged := d.makeRow(cur.Y, next.Bottom()-cur.Y)
				rws[i+1] = merged
				i++
				continue
			}
		}
		res = append(res, cur)
		i++
	}
	return res
}

func hasValley(proj []int, cur, next Row, oStart, oEnd int) bool {
	minInk := proj[oStart]
	for _, v := range proj[oStart:oEnd] {
		if v < minInk {
			minInk = v
		}
	}
	maxInk := 0
	for _, v := range proj[cur.Y:oStart] {
		if v > maxInk {
			maxInk = v
		}
	}
	for _, v := range proj[oEnd:min(len(proj), next.Bottom())] {
		if v > maxInk {
			maxInk = v
		}
	}
	return maxInk > 0 && float64(minInk) < float64(maxInk)*0.3
}

// absorbSmall iteratively merges rows below 30% of the median height
// into the vertically nearer neighbour.  The iteration count is capped
// by the initial number of rows.
func (d *Detector) absorbSmall(rws []Row) []Row {
	if len(rws) < 2 {
		return rws
	}
	heights := make([]int, len(rws))
	for i, r := range rws {
		heights[i] = r.Height
	}
	sort.Ints(heights)
	median := heights[len(heights)/2]
	small := float64(median) * 0.30

	merged := append([]Row(nil), rws...)
	for iter := 0; iter < len(rws); iter++ {
		changed := false
		var next []Row
		for i := 0; i < len(merged); i++ {
			cur := merged[i]
			if float64(cur.Height) >= small {
				next = append(next, cur)
				continue
			}

			var prev *Row
			if len(next) > 0 {
				prev = &next[len(next)-1]
			}
			gapPrev, gapNext := -1, -1
			if prev != nil {
				gapPrev = cur.Y - prev.Bottom()
			}
			if i+1 < len(merged) {
				gapNext = merged[i+1].Y - cur.Bottom()
			}

			switch {
			case prev != nil && (gapNext < 0 || gapPrev <= gapNext):
				bottom := max(prev.Bottom(), cur.Bottom())
				next[len(next)-1] = d.makeRow(prev.Y, bottom-prev.Y)
				changed = true
			case i+1 < len(merged):
				top := min(cur.Y, merged[i+1].Y)
				merged[i+1] = d.makeRow(top, merged[i+1].Bottom()-top)
				changed = true
			default:
				next = append(next, cur)
			}
		}
		merged = next
		if !changed {
			break
		}
	}
	return merged
}
