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

// Package raster provides the bitmap side of the font generation pipeline:
// image decoding, binarization, morphology, and contour extraction.
package raster

import (
	"errors"
	"image"
	"io"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errEmptyImage = errors.New("image has zero width or height")

// ErrInvalidImage is returned when the input cannot be decoded as a
// raster image.
var ErrInvalidImage = errors.New("cannot decode raster image")

// Image is a grayscale raster with top-left origin.  Pix holds one byte
// per pixel, row-major.  Images are not modified after construction.
type Image struct {
	Pix    []uint8
	Width  int
	Height int
}

// Decode reads an image in any of the registered formats (PNG, JPEG,
// BMP, TIFF, WebP) and converts it to grayscale.  For images with an
// alpha channel, fully or mostly transparent pixels become white.
func Decode(r io.Reader) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, ErrInvalidImage
	}
	return FromImage(src)
}

// FromImage converts any image.Image to a grayscale Image.  Pixels with
// alpha below 128 are treated as background and become white.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, errEmptyImage
	}
	img := &Image{
		Pix:    make([]uint8, w*h),
		Width:  w,
		Height: h,
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a < 128*0x101 {
				img.Pix[y*w+x] = 255
				continue
			}
			if a > 0 && a < 0xffff {
				// un-premultiply
				r = r * 0xffff / a
				g = g * 0xffff / a
				bl = bl * 0xffff / a
			}
			// ITU-R BT.601 luma, the same weights OpenCV uses
			lum := (299*r + 587*g + 114*bl) / 1000
			img.Pix[y*w+x] = uint8(lum >> 8)
		}
	}
	return img, nil
}

// At returns the intensity at (x, y).  Out-of-range coordinates are
// clamped to the nearest edge pixel.
func (img *Image) At(x, y int) uint8 {
	if x < 0 {
		x = 0
	} else if x >= img.Width {
		x = img.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= img.Height {
		y = img.Height - 1
	}
	return img.Pix[y*img.Width+x]
}

// SubImage returns a copy of the given region, clipped to the image
// bounds.
func (img *Image) SubImage(x, y, w, h int) *Image {
	x0, y0 := max(0, x), max(0, y)
	x1, y1 := min(img.Width, x+w), min(img.Height, y+h)
	if x1 <= x0 || y1 <= y0 {
		return &Image{Pix: []uint8{}, Width: 0, Height: 0}
	}
	res := &Image{
		Pix:    make([]uint8, (x1-x0)*(y1-y0)),
		Width:  x1 - x0,
		Height: y1 - y0,
	}
	for yy := y0; yy < y1; yy++ {
		copy(res.Pix[(yy-y0)*res.Width:(yy-y0+1)*res.Width],
			img.Pix[yy*img.Width+x0:yy*img.Width+x1])
	}
	return res
}

// FlipHorizontal returns a mirrored copy of the image.  This is used to
// derive missing glyphs from their mirror twins.
func (img *Image) FlipHorizontal() *Image {
	res := &Image{
		Pix:    make([]uint8, len(img.Pix)),
		Width:  img.Width,
		Height: img.Height,
	}
	for y := 0; y < img.Height; y++ {
		row := img.Pix[y*img.Width : (y+1)*img.Width]
		out := res.Pix[y*img.Width : (y+1)*img.Width]
		for x := range row {
			out[img.Width-1-x] = row[x]
		}
	}
	return res
}
