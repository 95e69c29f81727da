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

package raster

import "testing"

// fill creates a w x h image with constant intensity.
func fill(w, h int, v uint8) *Image {
	img := &Image{Pix: make([]uint8, w*h), Width: w, Height: h}
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// paint sets a rectangular region to the given intensity.
func paint(img *Image, x0, y0, x1, y1 int, v uint8) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.Pix[y*img.Width+x] = v
		}
	}
}

func TestOtsuBimodal(t *testing.T) {
	img := fill(100, 100, 230)
	paint(img, 10, 10, 40, 40, 20)

	threshold := OtsuThreshold(img)
	if threshold < 20 || threshold >= 230 {
		t.Errorf("threshold %d does not separate the modes", threshold)
	}
}

func TestBinarizeInvariant(t *testing.T) {
	img := fill(200, 100, 240)
	paint(img, 20, 20, 80, 80, 10)

	bin := Binarize(img, PolarityAuto)
	ink := bin.InkCount()
	if 2*ink > len(bin.Pix) {
		t.Errorf("ink is the majority: %d of %d", ink, len(bin.Pix))
	}
	if !bin.IsInk(50, 50) {
		t.Error("dark region did not become ink")
	}
	if bin.IsInk(150, 50) {
		t.Error("background became ink")
	}
}

func TestBinarizeInverted(t *testing.T) {
	// light ink on a dark ground
	img := fill(200, 100, 15)
	paint(img, 20, 20, 80, 80, 240)

	if !DetectInversion(img) {
		t.Fatal("inversion not detected")
	}

	bin := Binarize(img, PolarityAuto)
	if !bin.IsInk(50, 50) {
		t.Error("light glyph did not become ink")
	}
	if bin.IsInk(150, 50) {
		t.Error("dark ground became ink")
	}
}

func TestDetectInversion(t *testing.T) {
	type testCase struct {
		name       string
		border     uint8
		center     uint8
		wantInvert bool
	}
	cases := []testCase{
		{"dark on light", 250, 120, false},
		{"light on dark", 20, 200, true},
		{"dark border", 90, 95, true},
		{"uniform light", 200, 200, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			img := fill(200, 200, c.border)
			paint(img, 50, 50, 150, 150, c.center)
			if got := DetectInversion(img); got != c.wantInvert {
				t.Errorf("got %v, want %v", got, c.wantInvert)
			}
		})
	}
}

func TestGaussianBlurSoftensEdges(t *testing.T) {
	img := fill(50, 50, 0)
	paint(img, 20, 20, 30, 30, 200)

	blurred := GaussianBlur(img, 5)
	if blurred.Width != 50 || blurred.Height != 50 {
		t.Fatalf("wrong size %dx%d", blurred.Width, blurred.Height)
	}
	// the centre keeps its value, edges of the square soften
	if blurred.At(25, 25) < 150 {
		t.Errorf("centre washed out: %d", blurred.At(25, 25))
	}
	if blurred.At(19, 25) == 0 || blurred.At(19, 25) >= 200 {
		t.Errorf("edge not softened: %d", blurred.At(19, 25))
	}
}

func TestFlipHorizontal(t *testing.T) {
	img := fill(10, 3, 255)
	img.Pix[0] = 7 // top-left corner

	flipped := img.FlipHorizontal()
	if flipped.Pix[9] != 7 {
		t.Error("top-left pixel did not move to top-right")
	}
	if flipped.Pix[0] != 255 {
		t.Error("top-right pixel not background")
	}
}
