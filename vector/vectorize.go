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

package vector

import (
	"errors"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/handfont/raster"
)

// ErrNoOutline is returned when a glyph image contained ink but no
// usable contour survived filtering and simplification.
var ErrNoOutline = errors.New("no outline after simplification")

// Smoothing selects how aggressively glyph outlines are smoothed.
type Smoothing int

// The smoothing levels, from no smoothing at all to maximum smoothing
// which may lose fine detail.
const (
	SmoothingNone Smoothing = iota
	SmoothingLow
	SmoothingMedium
	SmoothingHigh
	SmoothingMaximum
)

// smoothingParams ties each smoothing level to its preprocessing and
// simplification parameters.
var smoothingParams = [...]struct {
	blurKernel      int
	morphKernel     int
	epsilonFactor   float64
	cornerThreshold float64 // degrees
}{
	SmoothingNone:    {0, 0, 0, 180},
	SmoothingLow:     {3, 0, 0.0005, 160},
	SmoothingMedium:  {5, 3, 0.001, 145},
	SmoothingHigh:    {7, 5, 0.002, 130},
	SmoothingMaximum: {9, 7, 0.004, 110},
}

// Vectorizer converts glyph bitmaps to vector outlines.
type Vectorizer struct {
	Smoothing      Smoothing
	MinContourArea float64 // contours below this area are noise (default 50)
}

// NewVectorizer returns a Vectorizer with the default parameters.
func NewVectorizer(smoothing Smoothing) *Vectorizer {
	return &Vectorizer{
		Smoothing:      smoothing,
		MinContourArea: 50,
	}
}

// Vectorize traces the outlines of a glyph image.  The returned glyph
// is in font space: the y axis points up and the origin is at the
// lower-left corner of the bitmap.  A blank image yields a glyph with
// no paths; an image whose contours all vanish during filtering yields
// ErrNoOutline.
func (v *Vectorizer) Vectorize(img *raster.Image, glyphLabel rune) (*Glyph, error) {
	params := smoothingParams[v.Smoothing]

	gray := img
	if params.blurKernel > 0 {
		gray = raster.GaussianBlur(gray, params.blurKernel)
	}
	t := raster.OtsuThreshold(gray)
	bin := &raster.Binary{
		Pix:    make([]uint8, len(gray.Pix)),
		Width:  gray.Width,
		Height: gray.Height,
	}
	for i, p := range gray.Pix {
		if p > t {
			bin.Pix[i] = 255
		}
	}
	if params.morphKernel > 0 {
		bin = raster.CloseInk(bin, params.morphKernel)
		bin = raster.OpenInk(bin, params.morphKernel)
	}

	h := float64(img.Height)
	glyph := &Glyph{
		Label:   glyphLabel,
		Width:   float64(img.Width),
		Height:  h,
		Advance: float64(img.Width),
	}

	contours := raster.FindContours(bin)
	if len(contours) == 0 {
		return glyph, nil
	}

	minArea := v.MinContourArea
	for i := range contours {
		c := &contours[i]
		if c.Area() < minArea {
			continue
		}

		pts := make([]vec.Vec2, len(c.Points))
		for j, p := range c.Points {
			pts[j] = vec.Vec2{X: float64(p.X), Y: float64(p.Y)}
		}
		if params.epsilonFactor > 0 {
			eps := params.epsilonFactor * c.Perimeter()
			pts = douglasPeucker(pts, eps)
		}
		if len(pts) < 3 {
			continue
		}

		// flip into font space
		for j := range pts {
			pts[j].Y = h - pts[j].Y
		}

		cmds := fitOutline(pts, params.cornerThreshold)
		if len(cmds) == 0 {
			continue
		}
		glyph.Paths = append(glyph.Paths, Path{Cmds: cmds, Hole: c.Hole})
	}

	if len(glyph.Paths) == 0 {
		return nil, ErrNoOutline
	}
	return glyph, nil
}
