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

// Package os2 writes the "OS/2" table of sfnt fonts.
package os2

import (
	"encoding/binary"

	"seehuhn.de/go/postscript/funit"
)

// Info contains the information for the "OS/2" table.  Subscript,
// superscript and strikeout geometry is derived from the em size.
type Info struct {
	UnitsPerEm uint16

	AvgCharWidth funit.Int16

	Ascent    funit.Int16
	Descent   funit.Int16 // negative
	LineGap   funit.Int16
	CapHeight funit.Int16
	XHeight   funit.Int16

	WinAscent  funit.Int16
	WinDescent funit.Int16 // positive

	FirstCharIndex uint16
	LastCharIndex  uint16

	VendorID [4]byte
}

// Encode returns a version 4 "OS/2" table.
func (info *Info) Encode() []byte {
	em := int(info.UnitsPerEm)
	vendor := info.VendorID
	if vendor == ([4]byte{}) {
		copy(vendor[:], "NONE")
	}

	buf := make([]byte, 96)
	binary.BigEndian.PutUint16(buf[0:], 4) // version
	binary.BigEndian.PutUint16(buf[2:], uint16(info.AvgCharWidth))
	binary.BigEndian.PutUint16(buf[4:], 400) // usWeightClass: normal
	binary.BigEndian.PutUint16(buf[6:], 5)   // usWidthClass: medium
	binary.BigEndian.PutUint16(buf[8:], 0)   // fsType: installable
	binary.BigEndian.PutUint16(buf[10:], uint16(em*65/100))  // ySubscriptXSize
	binary.BigEndian.PutUint16(buf[12:], uint16(em*60/100))  // ySubscriptYSize
	binary.BigEndian.PutUint16(buf[14:], 0)                  // ySubscriptXOffset
	binary.BigEndian.PutUint16(buf[16:], uint16(em*75/1000)) // ySubscriptYOffset
	binary.BigEndian.PutUint16(buf[18:], uint16(em*65/100))  // ySuperscriptXSize
	binary.BigEndian.PutUint16(buf[20:], uint16(em*60/100))  // ySuperscriptYSize
	binary.BigEndian.PutUint16(buf[22:], 0)                  // ySuperscriptXOffset
	binary.BigEndian.PutUint16(buf[24:], uint16(em*35/100))  // ySuperscriptYOffset
	binary.BigEndian.PutUint16(buf[26:], uint16(em*5/100))   // yStrikeoutSize
	binary.BigEndian.PutUint16(buf[28:], uint16(em*22/100))  // yStrikeoutPosition
	binary.BigEndian.PutUint16(buf[30:], 0)                  // sFamilyClass
	// bytes 32-41: PANOSE, all zero (any)
	binary.BigEndian.PutUint32(buf[42:], 1) // ulUnicodeRange1: Basic Latin
	copy(buf[58:], vendor[:])
	binary.BigEndian.PutUint16(buf[62:], 0x0040) // fsSelection: REGULAR
	binary.BigEndian.PutUint16(buf[64:], info.FirstCharIndex)
	binary.BigEndian.PutUint16(buf[66:], info.LastCharIndex)
	binary.BigEndian.PutUint16(buf[68:], uint16(info.Ascent))
	binary.BigEndian.PutUint16(buf[70:], uint16(info.Descent))
	binary.BigEndian.PutUint16(buf[72:], uint16(info.LineGap))
	binary.BigEndian.PutUint16(buf[74:], uint16(info.WinAscent))
	binary.BigEndian.PutUint16(buf[76:], uint16(info.WinDescent))
	binary.BigEndian.PutUint32(buf[78:], 1) // ulCodePageRange1: Latin 1
	binary.BigEndian.PutUint16(buf[86:], uint16(info.XHeight))
	binary.BigEndian.PutUint16(buf[88:], uint16(info.CapHeight))
	binary.BigEndian.PutUint16(buf[90:], 0)  // usDefaultChar
	binary.BigEndian.PutUint16(buf[92:], 32) // usBreakChar: space
	binary.BigEndian.PutUint16(buf[94:], 2)  // usMaxContext: kern pairs
	return buf
}
