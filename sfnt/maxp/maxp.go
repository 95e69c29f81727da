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

// Package maxp writes the "maxp" table of sfnt fonts.
package maxp

import "encoding/binary"

// Info describes the resource requirements of the glyph outlines.
type Info struct {
	NumGlyphs   int
	MaxPoints   int
	MaxContours int
}

// EncodeV10 returns a version 1.0 "maxp" table, as used with TrueType
// outlines.  Fields related to composites and instructions stay at
// their standard defaults.
func (info *Info) EncodeV10() []byte {
	buf := make([]byte, 32)
	binary.BigEndian.PutUint32(buf[0:], 0x00010000)
	binary.BigEndian.PutUint16(buf[4:], uint16(info.NumGlyphs))
	binary.BigEndian.PutUint16(buf[6:], uint16(info.MaxPoints))
	binary.BigEndian.PutUint16(buf[8:], uint16(info.MaxContours))
	// maxCompositePoints, maxCompositeContours = 0
	binary.BigEndian.PutUint16(buf[14:], 2) // maxZones
	// maxTwilightPoints, maxStorage, maxFunctionDefs,
	// maxInstructionDefs, maxStackElements, maxSizeOfInstructions,
	// maxComponentElements, maxComponentDepth = 0
	return buf
}

// EncodeV05 returns a version 0.5 "maxp" table, as used with CFF
// outlines.
func (info *Info) EncodeV05() []byte {
	buf := make([]byte, 6)
	binary.BigEndian.PutUint32(buf[0:], 0x00005000)
	binary.BigEndian.PutUint16(buf[4:], uint16(info.NumGlyphs))
	return buf
}
