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

func TestCloseInkFillsGap(t *testing.T) {
	b := binaryImage(40, 20)
	ink(b, 5, 5, 18, 15)
	ink(b, 20, 5, 33, 15) // 2 px gap at x = 18..19

	closed := CloseInk(b, 5)
	if !closed.IsInk(18, 10) || !closed.IsInk(19, 10) {
		t.Error("close did not bridge the gap")
	}
}

func TestOpenInkRemovesSpeck(t *testing.T) {
	b := binaryImage(40, 40)
	ink(b, 10, 10, 30, 30)
	ink(b, 35, 35, 36, 36) // single-pixel speck

	opened := OpenInk(b, 3)
	if opened.IsInk(35, 35) {
		t.Error("open kept the speck")
	}
	if !opened.IsInk(20, 20) {
		t.Error("open destroyed the main region")
	}
}

func TestEllipticalKernel(t *testing.T) {
	k3 := EllipticalKernel(3)
	if len(k3) == 0 || len(k3) > 9 {
		t.Errorf("3x3 kernel has %d offsets", len(k3))
	}
	found := false
	for _, p := range k3 {
		if p.X == 0 && p.Y == 0 {
			found = true
		}
	}
	if !found {
		t.Error("kernel does not contain the centre")
	}
}
