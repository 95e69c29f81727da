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

import "image"

// EllipticalKernel returns the offsets of an elliptical structuring
// element inscribed in a k-by-k square.
func EllipticalKernel(k int) []image.Point {
	if k < 1 {
		return nil
	}
	var pts []image.Point
	r := float64(k) / 2
	cx := float64(k-1) / 2
	cy := float64(k-1) / 2
	inv := 1 / (r * r)
	for y := 0; y < k; y++ {
		for x := 0; x < k; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx*inv+dy*dy*inv <= 1 {
				pts = append(pts, image.Pt(x-k/2, y-k/2))
			}
		}
	}
	return pts
}

// DilateInk grows the ink regions by the structuring element: a pixel
// becomes ink if any kernel-offset neighbour is ink.
func DilateInk(b *Binary, kernel []image.Point) *Binary {
	res := &Binary{
		Pix:    make([]uint8, len(b.Pix)),
		Width:  b.Width,
		Height: b.Height,
	}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			v := uint8(255)
			for _, d := range kernel {
				if b.IsInk(x+d.X, y+d.Y) {
					v = 0
					break
				}
			}
			res.Pix[y*b.Width+x] = v
		}
	}
	return res
}

// ErodeInk shrinks the ink regions by the structuring element: a pixel
// stays ink only if all kernel-offset neighbours are ink.  Neighbours
// outside the image count as background.
func ErodeInk(b *Binary, kernel []image.Point) *Binary {
	res := &Binary{
		Pix:    make([]uint8, len(b.Pix)),
		Width:  b.Width,
		Height: b.Height,
	}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			v := uint8(0)
			for _, d := range kernel {
				if !b.IsInk(x+d.X, y+d.Y) {
					v = 255
					break
				}
			}
			res.Pix[y*b.Width+x] = v
		}
	}
	return res
}

// CloseInk performs a morphological close (dilate, then erode) on the
// ink regions, filling small gaps in strokes.
func CloseInk(b *Binary, k int) *Binary {
	if k < 3 {
		return b
	}
	kernel := EllipticalKernel(k)
	return ErodeInk(DilateInk(b, kernel), kernel)
}

// OpenInk performs a morphological open (erode, then dilate) on the ink
// regions, removing small protrusions.
func OpenInk(b *Binary, k int) *Binary {
	if k < 3 {
		return b
	}
	kernel := EllipticalKernel(k)
	return DilateInk(ErodeInk(b, kernel), kernel)
}
