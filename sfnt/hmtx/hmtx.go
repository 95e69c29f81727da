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

// Package hmtx writes the "hhea" and "hmtx" tables of sfnt fonts.
package hmtx

import (
	"encoding/binary"

	"seehuhn.de/go/postscript/funit"
)

// Info contains the horizontal metrics of all glyphs in the font, in
// glyph roster order.
type Info struct {
	Widths       []funit.Int16
	GlyphExtents []funit.Rect16

	Ascent  funit.Int16
	Descent funit.Int16 // negative
	LineGap funit.Int16
}

// EncodeHmtx returns the binary "hmtx" table.  All glyphs get a full
// longHorMetric record with a left side bearing of zero.
func (info *Info) EncodeHmtx() []byte {
	buf := make([]byte, 4*len(info.Widths))
	for i, w := range info.Widths {
		binary.BigEndian.PutUint16(buf[4*i:], uint16(w))
		// left side bearing stays zero
	}
	return buf
}

// EncodeHhea returns the binary "hhea" table matching EncodeHmtx.
func (info *Info) EncodeHhea() []byte {
	var advanceMax funit.Int16
	var minLSB, minRSB, xMaxExtent funit.Int16
	first := true
	for i, w := range info.Widths {
		if w > advanceMax {
			advanceMax = w
		}
		if i >= len(info.GlyphExtents) {
			continue
		}
		ext := info.GlyphExtents[i]
		if ext == (funit.Rect16{}) {
			continue
		}
		rsb := w - ext.URx
		if first {
			minLSB, minRSB, xMaxExtent = ext.LLx, rsb, ext.URx
			first = false
			continue
		}
		if ext.LLx < minLSB {
			minLSB = ext.LLx
		}
		if rsb < minRSB {
			minRSB = rsb
		}
		if ext.URx > xMaxExtent {
			xMaxExtent = ext.URx
		}
	}

	buf := make([]byte, 36)
	binary.BigEndian.PutUint32(buf[0:], 0x00010000) // version
	binary.BigEndian.PutUint16(buf[4:], uint16(info.Ascent))
	binary.BigEndian.PutUint16(buf[6:], uint16(info.Descent))
	binary.BigEndian.PutUint16(buf[8:], uint16(info.LineGap))
	binary.BigEndian.PutUint16(buf[10:], uint16(advanceMax))
	binary.BigEndian.PutUint16(buf[12:], uint16(minLSB))
	binary.BigEndian.PutUint16(buf[14:], uint16(minRSB))
	binary.BigEndian.PutUint16(buf[16:], uint16(xMaxExtent))
	binary.BigEndian.PutUint16(buf[18:], 1) // caretSlopeRise
	binary.BigEndian.PutUint16(buf[20:], 0) // caretSlopeRun
	binary.BigEndian.PutUint16(buf[22:], 0) // caretOffset
	// bytes 24-31: reserved
	binary.BigEndian.PutUint16(buf[32:], 0) // metricDataFormat
	binary.BigEndian.PutUint16(buf[34:], uint16(len(info.Widths)))
	return buf
}
