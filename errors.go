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

package handfont

import (
	"seehuhn.de/go/handfont/raster"
	"seehuhn.de/go/handfont/rows"
	"seehuhn.de/go/handfont/segment"
)

// The fatal pipeline errors.  Anything which merely reduces the
// quality of the output font is reported as a warning on the Result
// instead.
var (
	// ErrInvalidImage means the input could not be decoded as a
	// raster image.
	ErrInvalidImage = raster.ErrInvalidImage

	// ErrNoTextRows means the row detector found no text in the
	// image.
	ErrNoTextRows = rows.ErrNoTextRows

	// ErrNoGlyphs means segmentation produced no glyph cells.
	ErrNoGlyphs = segment.ErrNoGlyphs
)
