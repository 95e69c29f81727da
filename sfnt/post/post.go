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

// Package post writes the "post" table of sfnt fonts.
package post

import (
	"encoding/binary"

	"seehuhn.de/go/postscript/funit"
)

// Info contains the information for the "post" table.
type Info struct {
	UnderlinePosition  funit.Int16
	UnderlineThickness funit.Int16
}

// header fills the 32 bytes shared by all post table versions.
func (info *Info) header(version uint32) []byte {
	buf := make([]byte, 32)
	binary.BigEndian.PutUint32(buf[0:], version)
	// italicAngle = 0
	binary.BigEndian.PutUint16(buf[8:], uint16(info.UnderlinePosition))
	binary.BigEndian.PutUint16(buf[10:], uint16(info.UnderlineThickness))
	// isFixedPitch = 0, memory hints = 0
	return buf
}

// EncodeV3 returns a version 3.0 "post" table, which does not name the
// glyphs.  This is the form used with CFF outlines.
func (info *Info) EncodeV3() []byte {
	return info.header(0x00030000)
}

// EncodeV2 returns a version 2.0 "post" table with the given glyph
// names, in roster order.  All names are stored in the table itself,
// so readers do not need the standard Macintosh name list.
func (info *Info) EncodeV2(names []string) []byte {
	buf := info.header(0x00020000)

	n := len(names)
	buf = binary.BigEndian.AppendUint16(buf, uint16(n))
	for i := range names {
		buf = binary.BigEndian.AppendUint16(buf, uint16(258+i))
	}
	for _, name := range names {
		if len(name) > 63 {
			name = name[:63]
		}
		buf = append(buf, byte(len(name)))
		buf = append(buf, name...)
	}
	return buf
}
