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
	"errors"
	"testing"

	"seehuhn.de/go/handfont/raster"
)

// sheet creates an all-background binary image.
func sheet(w, h int) *raster.Binary {
	b := &raster.Binary{Pix: make([]uint8, w*h), Width: w, Height: h}
	for i := range b.Pix {
		b.Pix[i] = 255
	}
	return b
}

// ink marks a rectangular region as ink.
func ink(b *raster.Binary, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.Pix[y*b.Width+x] = 0
		}
	}
}

func TestDetectTwoRows(t *testing.T) {
	b := sheet(400, 200)
	ink(b, 20, 30, 380, 70)
	ink(b, 20, 120, 380, 165)

	rws, err := NewDetector().Detect(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(rws) != 2 {
		t.Fatalf("got %d rows, want 2", len(rws))
	}
	if rws[0].Y > rws[1].Y {
		t.Error("rows not ordered top to bottom")
	}
	for _, r := range rws {
		if r.Height < 20 {
			t.Errorf("row height %d below minimum", r.Height)
		}
		if r.Baseline <= r.Y || r.Baseline >= r.Bottom() {
			t.Errorf("baseline %d outside row [%d, %d)", r.Baseline, r.Y, r.Bottom())
		}
	}
	// rows must not overlap
	if rws[0].Bottom() > rws[1].Y {
		t.Error("rows overlap")
	}
}

func TestDetectNoRows(t *testing.T) {
	b := sheet(300, 100)
	_, err := NewDetector().Detect(b)
	if !errors.Is(err, ErrNoTextRows) {
		t.Errorf("got %v, want ErrNoTextRows", err)
	}
}

func TestDetectShortRowDiscarded(t *testing.T) {
	b := sheet(400, 100)
	ink(b, 20, 30, 380, 40) // only 10 px tall

	_, err := NewDetector().Detect(b)
	if !errors.Is(err, ErrNoTextRows) {
		t.Errorf("got %v, want ErrNoTextRows", err)
	}
}

func TestAbsorbSmallRows(t *testing.T) {
	d := NewDetector()
	d.MinRowHeight = 5
	rws := []Row{
		d.makeRow(10, 50),
		d.makeRow(62, 8), // stray descender fragment
		d.makeRow(120, 50),
	}
	merged := d.absorbSmall(rws)
	if len(merged) != 2 {
		t.Fatalf("got %d rows, want 2", len(merged))
	}
	// the fragment is closer to the first row, which must now extend
	// down to cover it
	if merged[0].Bottom() < 70 {
		t.Errorf("first row ends at %d, fragment not absorbed", merged[0].Bottom())
	}
}

func TestSegmentColumns(t *testing.T) {
	b := sheet(300, 60)
	ink(b, 20, 10, 60, 50)
	ink(b, 80, 10, 120, 50)
	ink(b, 140, 10, 180, 50)

	row := Row{Y: 5, Height: 50, Baseline: 40}
	cols := NewDetector().SegmentColumns(b, row)
	if len(cols) != 3 {
		t.Fatalf("got %d columns, want 3", len(cols))
	}
	for i, col := range cols {
		if col.Width < 35 || col.Width > 45 {
			t.Errorf("column %d has width %d", i, col.Width)
		}
	}
	if cols[0].X > cols[1].X || cols[1].X > cols[2].X {
		t.Error("columns not ordered left to right")
	}
}

func TestSegmentColumnsSplitsWide(t *testing.T) {
	b := sheet(400, 60)
	// two normal glyphs and one double-width glyph with an internal gap
	ink(b, 20, 10, 60, 50)
	ink(b, 80, 10, 120, 50)
	ink(b, 140, 10, 180, 50)
	ink(b, 185, 10, 225, 50) // the 5 px gap separates the pair in the projection

	row := Row{Y: 5, Height: 50, Baseline: 40}
	cols := NewDetector().SegmentColumns(b, row)
	if len(cols) < 4 {
		t.Fatalf("got %d columns, want at least 4", len(cols))
	}
}
