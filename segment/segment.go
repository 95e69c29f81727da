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

// Package segment splits a binarized alphabet sheet into individual
// glyph cells.  Multi-part glyphs (the dot of an i, quotation marks,
// the circles of a percent sign) are merged into single cells, and
// touching glyphs are split at projection valleys.
package segment

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"seehuhn.de/go/handfont/raster"
	"seehuhn.de/go/handfont/rows"
)

// ErrNoGlyphs is returned when segmentation produces no glyph cells.
var ErrNoGlyphs = errors.New("no glyph cells found")

// Method selects the segmentation strategy.
type Method int

// The supported segmentation methods.  MethodAuto chooses between
// contour and grid segmentation based on the layout of the image.
const (
	MethodAuto Method = iota
	MethodContour
	MethodRowColumn
	MethodGrid
)

func (m Method) String() string {
	switch m {
	case MethodAuto:
		return "auto"
	case MethodContour:
		return "contour"
	case MethodRowColumn:
		return "row-column"
	case MethodGrid:
		return "grid"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Cell is a single segmented glyph.  The label is assigned later, by
// the labelling stage; freshly segmented cells have Label == 0.
type Cell struct {
	Label      rune
	X, Y, W, H int // bounding box in the source image
	Image      *raster.Image
	Row, Col   int
	Confidence float64
}

// SplitFunc is consulted for cells which look like several glyphs run
// together.  It receives the cell image and the expected width of a
// single glyph and returns the number of glyphs and the relative split
// positions in (0, 1).  Returning count <= 1 keeps the cell whole.
type SplitFunc func(region *raster.Image, expectedWidth int) (count int, splits []float64, err error)

// Config holds the segmentation parameters.  The zero value selects
// automatic method detection with the default sizes.
type Config struct {
	Method             Method
	MinCharSize        int // minimum main-glyph dimension (default 20)
	MinSmallGlyphSize  int // minimum punctuation dimension (default 3)
	IncludeSmallGlyphs bool
	Padding            int // extra pixels around each extracted cell (default 2)
	GridRows, GridCols int // grid layout hints, 0 = detect
	Split              SplitFunc
}

func (c *Config) fillDefaults() {
	if c.MinCharSize == 0 {
		c.MinCharSize = 20
	}
	if c.MinSmallGlyphSize == 0 {
		c.MinSmallGlyphSize = 3
	}
	if c.Padding == 0 {
		c.Padding = 2
	}
}

// Result is the outcome of segmentation.
type Result struct {
	Cells    []Cell
	Method   Method
	GridRows int
	GridCols int
	Warnings []string
}

// component is a connected ink region together with the contour it was
// traced from.  Merged components keep the largest member contour as
// their representative.
type component struct {
	box     image.Rectangle
	area    float64
	contour *raster.Contour
	row     int
}

// Segment splits the sheet into glyph cells using the configured
// method.  The rows argument is the output of row detection on the same
// binary image; it is required for the contour and row-column methods.
func Segment(img *raster.Image, bin *raster.Binary, textRows []rows.Row, cfg *Config) (*Result, error) {
	cfg2 := *cfg
	cfg2.fillDefaults()

	method := cfg2.Method
	if method == MethodAuto {
		method = detectMethod(bin, &cfg2)
	}

	var res *Result
	var err error
	switch method {
	case MethodGrid:
		res, err = segmentGrid(img, bin, &cfg2)
	case MethodRowColumn:
		res, err = segmentRowColumn(img, bin, textRows, &cfg2)
	default:
		res, err = segmentContour(img, bin, textRows, &cfg2)
	}
	if err != nil {
		return nil, err
	}
	if len(res.Cells) == 0 {
		return nil, ErrNoGlyphs
	}
	sortReadingOrder(res.Cells)
	for i := range res.Cells {
		res.Cells[i].Col = i
	}
	return res, nil
}

// detectMethod chooses between contour and grid segmentation.  Free
// layouts with a reasonable number of separate glyph-sized regions use
// contours; sparse or degenerate images fall back to the grid.
func detectMethod(bin *raster.Binary, cfg *Config) Method {
	if cfg.GridRows > 0 && cfg.GridCols > 0 {
		return MethodGrid
	}
	contours := raster.Outer(raster.FindContours(bin))
	valid := 0
	for i := range contours {
		b := contours[i].BoundingBox()
		if b.Dx() >= cfg.MinCharSize && b.Dy() >= cfg.MinCharSize {
			valid++
		}
	}
	if valid < 5 {
		return MethodGrid
	}
	return MethodContour
}

// segmentContour implements connected-component segmentation with the
// merge and split passes of the free-handwriting mode.
func segmentContour(img *raster.Image, bin *raster.Binary, textRows []rows.Row, cfg *Config) (*Result, error) {
	res := &Result{Method: MethodContour}

	comps := findComponents(bin, cfg)
	if len(comps) == 0 {
		return res, nil
	}

	assignRows(comps, textRows)

	// merge multi-part glyphs within each row
	byRow := make(map[int][]*component)
	for _, c := range comps {
		byRow[c.row] = append(byRow[c.row], c)
	}
	var merged []*component
	for _, rowIdx := range sortedKeys(byRow) {
		merged = append(merged, mergeRow(byRow[rowIdx])...)
	}

	// split cells which look like several glyphs run together
	merged = splitWide(merged, bin, img, cfg, res)

	// classify remaining small components
	var kept []*component
	orphans := 0
	for _, c := range merged {
		if c.box.Dx() >= cfg.MinCharSize && c.box.Dy() >= cfg.MinCharSize {
			kept = append(kept, c)
			continue
		}
		if cfg.IncludeSmallGlyphs && isLikelyPunctuation(c, cfg) {
			kept = append(kept, c)
		} else {
			orphans++
		}
	}
	if orphans > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d orphan small components discarded", orphans))
	}

	for _, c := range kept {
		res.Cells = append(res.Cells, extractCell(img, c, cfg))
	}
	return res, nil
}

// findComponents extracts the external contours of the sheet and
// filters out noise.  Small parts (dots, punctuation fragments) are
// kept at this stage so that the merge passes can reunite them with
// their glyphs; stray ones are classified later.
func findComponents(bin *raster.Binary, cfg *Config) []*component {
	minDot := 5
	minArea := 25.0
	if cfg.IncludeSmallGlyphs {
		minDot = cfg.MinSmallGlyphSize
		minArea = float64(minDot * minDot)
	}

	contours := raster.FindContours(bin)
	var comps []*component
	for i := range contours {
		c := &contours[i]
		if c.Hole {
			continue
		}
		b := c.BoundingBox()
		w, h := b.Dx(), b.Dy()
		area := c.Area()
		if w*h < 9 {
			continue
		}
		if w < minDot || h < minDot || area < minArea {
			continue
		}
		comps = append(comps, &component{
			box:     b,
			area:    area,
			contour: c,
		})
	}
	return comps
}

// assignRows attaches each component to a text row, first by vertical
// centre, then by maximal overlap.  A component never belongs to two
// rows.
func assignRows(comps []*component, textRows []rows.Row) {
	for _, c := range comps {
		cy := c.box.Min.Y + c.box.Dy()/2
		margin := c.box.Dy() / 4
		idx := -1
		for i, r := range textRows {
			if cy >= r.Y-margin && cy <= r.Bottom()+margin {
				idx = i
				break
			}
		}
		if idx < 0 {
			best := 0
			for i, r := range textRows {
				overlap := min(c.box.Max.Y, r.Bottom()) - max(c.box.Min.Y, r.Y)
				if overlap > best {
					best = overlap
					idx = i
				}
			}
			if idx < 0 {
				idx = 0
			}
		}
		c.row = idx
	}
}

// extractCell crops the component region with a small pad, clipped to
// the image bounds.
func extractCell(img *raster.Image, c *component, cfg *Config) Cell {
	pad := cfg.Padding
	x0 := max(0, c.box.Min.X-pad)
	y0 := max(0, c.box.Min.Y-pad)
	x1 := min(img.Width, c.box.Max.X+pad)
	y1 := min(img.Height, c.box.Max.Y+pad)
	return Cell{
		X: c.box.Min.X, Y: c.box.Min.Y,
		W: c.box.Dx(), H: c.box.Dy(),
		Image:      img.SubImage(x0, y0, x1-x0, y1-y0),
		Row:        c.row,
		Confidence: 1,
	}
}

// isLikelyPunctuation separates real punctuation marks from noise using
// shape statistics of the representative contour.
func isLikelyPunctuation(c *component, cfg *Config) bool {
	w, h := c.box.Dx(), c.box.Dy()
	if w < cfg.MinSmallGlyphSize || h < cfg.MinSmallGlyphSize {
		return false
	}
	if c.contour == nil {
		return false
	}

	hullArea := c.contour.HullArea()
	if hullArea == 0 {
		return false
	}
	solidity := c.area / hullArea
	if solidity < 0.35 {
		return false
	}

	aspect := float64(max(w, h)) / float64(max(1, min(w, h)))
	substantial := w >= 30 || h >= 30
	if aspect > 8 && !substantial {
		return false
	}
	if aspect > 20 {
		return false
	}

	extent := c.area / float64(w*h)
	if extent < 0.15 {
		return false
	}

	n := len(c.contour.CompressColinear())
	return n >= 4 && n <= 500
}

// sortReadingOrder orders cells row-major, left to right within each
// row.
func sortReadingOrder(cells []Cell) {
	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].X < cells[j].X
	})
}

func sortedKeys(m map[int][]*component) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func medianInt(vals []int) int {
	if len(vals) == 0 {
		return 0
	}
	s := append([]int(nil), vals...)
	sort.Ints(s)
	return s[len(s)/2]
}
