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

import (
	"context"
	"errors"
	"testing"

	"seehuhn.de/go/handfont/raster"
	"seehuhn.de/go/handfont/segment"
)

func TestDetectAlphabet(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{5, Digits},
		{10, Digits},
		{26, Uppercase},
		{30, Uppercase + Digits},
		{52, Uppercase + Lowercase},
		{62, Uppercase + Lowercase + Digits},
		{80, Full},
	}
	for _, c := range cases {
		if got := DetectAlphabet(c.n); got != c.want {
			t.Errorf("DetectAlphabet(%d) = %q", c.n, got)
		}
	}
}

func makeCells(n int) []segment.Cell {
	cells := make([]segment.Cell, n)
	for i := range cells {
		img := &raster.Image{Pix: make([]uint8, 100), Width: 10, Height: 10}
		for j := range img.Pix {
			img.Pix[j] = 255
		}
		img.Pix[5*10+i%10] = 0
		cells[i] = segment.Cell{X: i * 20, W: 10, H: 10, Image: img, Confidence: 1}
	}
	return cells
}

func TestSequentialLabels(t *testing.T) {
	cells := makeCells(4)
	warnings, err := Assign(context.Background(), cells, "ABC", nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []rune{'A', 'B', 'C', Unknown}
	for i, cell := range cells {
		if cell.Label != want[i] {
			t.Errorf("cell %d labelled %q, want %q", i, cell.Label, want[i])
		}
	}
	if len(warnings) == 0 {
		t.Error("missing count mismatch warning")
	}
}

func TestMissingCharactersReported(t *testing.T) {
	cells := makeCells(2)
	warnings, err := Assign(context.Background(), cells, "ABCD", nil)
	if err != nil {
		t.Fatal(err)
	}
	foundMissing := false
	for _, w := range warnings {
		if len(w) > 0 && (w[0] == 'm' || w[0] == 'd') {
			foundMissing = true
		}
	}
	if !foundMissing {
		t.Errorf("warnings %q do not report the missing characters", warnings)
	}
}

// stubOracle answers with a fixed identification, or fails.
type stubOracle struct {
	char       rune
	confidence float64
	err        error
}

func (o *stubOracle) Identify(ctx context.Context, img *raster.Image, hint Hint) (*Identification, error) {
	if o.err != nil {
		return nil, o.err
	}
	return &Identification{Char: o.char, Confidence: o.confidence}, nil
}

func (o *stubOracle) AnalyzeSplit(ctx context.Context, region *raster.Image, expectedWidthPx int) (int, []float64, error) {
	return 1, nil, o.err
}

func TestOracleLabels(t *testing.T) {
	cells := makeCells(2)
	_, err := Assign(context.Background(), cells, "AB", &stubOracle{char: 'X', confidence: 0.9})
	if err != nil {
		t.Fatal(err)
	}
	for i, cell := range cells {
		if cell.Label != 'X' {
			t.Errorf("cell %d labelled %q, want X", i, cell.Label)
		}
	}
}

func TestOracleLowConfidence(t *testing.T) {
	cells := makeCells(2)
	_, err := Assign(context.Background(), cells, "AB", &stubOracle{char: 'X', confidence: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	if cells[0].Label != 'A' || cells[1].Label != 'B' {
		t.Error("low-confidence answers must fall back to sequential labels")
	}
}

func TestOracleFailure(t *testing.T) {
	cells := makeCells(2)
	warnings, err := Assign(context.Background(), cells, "AB",
		&stubOracle{err: errors.New("transport down")})
	if err != nil {
		t.Fatal(err)
	}
	if cells[0].Label != 'A' || cells[1].Label != 'B' {
		t.Error("oracle failure must fall back to sequential labels")
	}
	if len(warnings) == 0 {
		t.Error("oracle failure must be reported")
	}
}

func TestDeriveMirrors(t *testing.T) {
	img := &raster.Image{Pix: make([]uint8, 30), Width: 10, Height: 3}
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.Pix[0] = 0 // mark one corner so the flip is observable

	cells := []segment.Cell{
		{Label: '/', W: 10, H: 3, Image: img, Confidence: 1},
	}
	cells = DeriveMirrors(cells, "/\\")
	if len(cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(cells))
	}
	derived := cells[1]
	if derived.Label != '\\' {
		t.Errorf("derived cell labelled %q", derived.Label)
	}
	if derived.Confidence != 1 {
		t.Errorf("derived cell confidence %g", derived.Confidence)
	}
	if derived.Image.Pix[9] != 0 {
		t.Error("derived image is not the horizontal flip of the source")
	}
}

func TestDeriveMirrorsNoSource(t *testing.T) {
	cells := []segment.Cell{}
	cells = DeriveMirrors(cells, "\\")
	if len(cells) != 0 {
		t.Error("mirror derived without a source")
	}
}
