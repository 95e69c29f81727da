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

import "math"

// Binary is a two-valued raster.  Invariant: background pixels are 255,
// ink pixels are 0.
type Binary struct {
	Pix    []uint8
	Width  int
	Height int
}

// Polarity controls how input polarity is determined before
// binarization.
type Polarity int

const (
	// PolarityAuto samples the image borders to decide whether the
	// input has light ink on a dark ground.
	PolarityAuto Polarity = iota

	// PolarityDarkOnLight declares dark ink on a light ground.
	PolarityDarkOnLight

	// PolarityLightOnDark declares light ink on a dark ground; the
	// image is inverted before thresholding.
	PolarityLightOnDark
)

// IsInk reports whether the pixel at (x, y) is an ink pixel.
// Out-of-range coordinates count as background.
func (b *Binary) IsInk(x, y int) bool {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Width+x] == 0
}

// InkCount returns the total number of ink pixels.
func (b *Binary) InkCount() int {
	n := 0
	for _, p := range b.Pix {
		if p == 0 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of b.
func (b *Binary) Clone() *Binary {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Binary{Pix: pix, Width: b.Width, Height: b.Height}
}

// Invert flips ink and background in place.
func (b *Binary) Invert() {
	for i, p := range b.Pix {
		b.Pix[i] = 255 - p
	}
}

// Binarize converts a grayscale image to a Binary with dark ink on a
// white ground.  The image is smoothed with a 3x3 Gaussian blur and
// thresholded using Otsu's method.  With PolarityAuto the polarity is
// detected once per image via DetectInversion; the result is then
// normalized so that ink pixels are the minority.
func Binarize(img *Image, polarity Polarity) *Binary {
	gray := img
	invert := false
	switch polarity {
	case PolarityLightOnDark:
		invert = true
	case PolarityAuto:
		invert = DetectInversion(img)
	}
	if invert {
		inv := &Image{
			Pix:    make([]uint8, len(img.Pix)),
			Width:  img.Width,
			Height: img.Height,
		}
		for i, p := range img.Pix {
			inv.Pix[i] = 255 - p
		}
		gray = inv
	}

	blurred := GaussianBlur(gray, 3)
	t := OtsuThreshold(blurred)
	bin := &Binary{
		Pix:    make([]uint8, len(blurred.Pix)),
		Width:  blurred.Width,
		Height: blurred.Height,
	}
	for i, p := range blurred.Pix {
		if p > t {
			bin.Pix[i] = 255
		}
	}

	// Ink must be the minority; otherwise the threshold has picked the
	// wrong side.
	if 2*bin.InkCount() > len(bin.Pix) {
		bin.Invert()
	}
	return bin
}

// DetectInversion reports whether an image appears to have light ink on
// a dark ground.  It compares the mean intensity of a border band of
// width max(10, min(W,H)/20) against a centered window of half the
// image size.
func DetectInversion(img *Image) bool {
	w, h := img.Width, img.Height
	if w == 0 || h == 0 {
		return false
	}
	band := min(w, h) / 20
	if band < 10 {
		band = 10
	}
	if 2*band > w {
		band = w / 2
	}
	if 2*band > h {
		band = h / 2
	}
	if band < 1 {
		band = 1
	}

	var borderSum, borderN int64
	add := func(x0, y0, x1, y1 int) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				borderSum += int64(img.Pix[y*w+x])
				borderN++
			}
		}
	}
	add(0, 0, w, band)      // top
	add(0, h-band, w, h)    // bottom
	add(0, band, band, h-band)
	add(w-band, band, w, h-band)
	if borderN == 0 {
		return false
	}
	borderMean := float64(borderSum) / float64(borderN)

	var centerSum, centerN int64
	for y := h / 4; y < 3*h/4; y++ {
		for x := w / 4; x < 3*w/4; x++ {
			centerSum += int64(img.Pix[y*w+x])
			centerN++
		}
	}
	centerMean := borderMean
	if centerN > 0 {
		centerMean = float64(centerSum) / float64(centerN)
	}

	return borderMean < 100 || borderMean < centerMean-30
}

// OtsuThreshold computes the threshold which maximizes the
// between-class variance of the intensity histogram.  Pixels with
// intensity greater than the returned value belong to the background
// class.
func OtsuThreshold(img *Image) uint8 {
	var hist [256]int
	for _, p := range img.Pix {
		hist[p]++
	}
	total := len(img.Pix)
	if total == 0 {
		return 127
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var sumB, wB float64
	best := 0.0
	threshold := uint8(127)
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = uint8(t)
		}
	}
	return threshold
}

// GaussianBlur applies a separable Gaussian blur with a k-by-k kernel.
// Even or non-positive kernel sizes leave the image unchanged.  The
// standard deviation is derived from the kernel size the same way
// OpenCV does for a zero sigma.
func GaussianBlur(img *Image, k int) *Image {
	if k < 3 || k%2 == 0 || len(img.Pix) == 0 {
		return img
	}
	sigma := 0.3*(float64(k-1)*0.5-1) + 0.8
	kernel := make([]float64, k)
	mid := k / 2
	var norm float64
	for i := range kernel {
		d := float64(i - mid)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		norm += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= norm
	}

	w, h := img.Width, img.Height
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range kernel {
				acc += kv * float64(img.At(x+i-mid, y))
			}
			tmp[y*w+x] = acc
		}
	}
	res := &Image{Pix: make([]uint8, w*h), Width: w, Height: h}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i := range kernel {
				yy := y + i - mid
				if yy < 0 {
					yy = 0
				} else if yy >= h {
					yy = h - 1
				}
				acc += kernel[i] * tmp[yy*w+x]
			}
			res.Pix[y*w+x] = uint8(math.Round(min(255, max(0, acc))))
		}
	}
	return res
}
