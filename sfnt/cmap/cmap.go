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

// Package cmap writes the "cmap" table of sfnt fonts, using a format 4
// subtable for the Basic Multilingual Plane.
package cmap

import (
	"encoding/binary"
	"math/bits"
	"sort"

	"seehuhn.de/go/handfont/sfnt/glyph"
)

// Info maps unicode code points to glyph IDs.  Only code points in the
// Basic Multilingual Plane can be represented.
type Info map[rune]glyph.ID

// Encode returns the binary "cmap" table.  The format 4 subtable is
// referenced twice, as platform (0, 3) and as platform (3, 1).
func (info Info) Encode() []byte {
	subtable := info.encodeFormat4()

	const numTables = 2
	buf := make([]byte, 4+8*numTables)
	binary.BigEndian.PutUint16(buf[2:], numTables)

	offset := uint32(len(buf))
	// platform 0 (Unicode), encoding 3 (BMP)
	binary.BigEndian.PutUint16(buf[4:], 0)
	binary.BigEndian.PutUint16(buf[6:], 3)
	binary.BigEndian.PutUint32(buf[8:], offset)
	// platform 3 (Windows), encoding 1 (Unicode BMP)
	binary.BigEndian.PutUint16(buf[12:], 3)
	binary.BigEndian.PutUint16(buf[14:], 1)
	binary.BigEndian.PutUint32(buf[16:], offset)

	return append(buf, subtable...)
}

// encodeFormat4 builds the format 4 segment mapping.  Runs of
// consecutive code points become segments; segments whose glyph IDs
// follow the code points use idDelta, all others store their IDs in
// the glyph ID array.
func (info Info) encodeFormat4() []byte {
	codes := make([]int, 0, len(info))
	for r := range info {
		if r >= 0 && r < 0xFFFF {
			codes = append(codes, int(r))
		}
	}
	sort.Ints(codes)

	type segment struct {
		start, end int
		gids       []glyph.ID
	}
	var segments []segment
	for _, c := range codes {
		if n := len(segments); n > 0 && segments[n-1].end == c-1 {
			segments[n-1].end = c
			segments[n-1].gids = append(segments[n-1].gids, info[rune(c)])
		} else {
			segments = append(segments, segment{start: c, end: c, gids: []glyph.ID{info[rune(c)]}})
		}
	}
	segments = append(segments, segment{start: 0xFFFF, end: 0xFFFF, gids: []glyph.ID{0}})

	segCount := len(segments)
	// layout: header (14 bytes), endCode, pad, startCode, idDelta,
	// idRangeOffset, glyphIdArray
	length := 16 + 8*segCount
	var glyphIDArray []glyph.ID
	useDelta := make([]bool, segCount)
	for i, seg := range segments {
		useDelta[i] = true
		for k, gid := range seg.gids {
			if int(gid) != int(seg.gids[0])+k {
				useDelta[i] = false
				break
			}
		}
		if !useDelta[i] {
			length += 2 * len(seg.gids)
		}
	}

	buf := make([]byte, length)
	binary.BigEndian.PutUint16(buf[0:], 4)
	binary.BigEndian.PutUint16(buf[2:], uint16(length))
	// language = 0
	binary.BigEndian.PutUint16(buf[6:], uint16(2*segCount))
	entrySelector := bits.Len(uint(segCount)) - 1
	searchRange := 2 << entrySelector
	binary.BigEndian.PutUint16(buf[8:], uint16(searchRange))
	binary.BigEndian.PutUint16(buf[10:], uint16(entrySelector))
	binary.BigEndian.PutUint16(buf[12:], uint16(2*segCount-searchRange))

	endCodes := buf[14:]
	startCodes := buf[14+2*segCount+2:]
	idDeltas := buf[14+4*segCount+2:]
	idRangeOffsets := buf[14+6*segCount+2:]
	for i, seg := range segments {
		binary.BigEndian.PutUint16(endCodes[2*i:], uint16(seg.end))
		binary.BigEndian.PutUint16(startCodes[2*i:], uint16(seg.start))
		if useDelta[i] {
			delta := int(seg.gids[0]) - seg.start
			binary.BigEndian.PutUint16(idDeltas[2*i:], uint16(delta))
		} else {
			// offset from this idRangeOffset slot to the segment's
			// entries in the glyph ID array
			offset := 2*(segCount-i) + 2*len(glyphIDArray)
			binary.BigEndian.PutUint16(idRangeOffsets[2*i:], uint16(offset))
			glyphIDArray = append(glyphIDArray, seg.gids...)
		}
	}
	gidArea := buf[16+8*segCount:]
	for i, gid := range glyphIDArray {
		binary.BigEndian.PutUint16(gidArea[2*i:], uint16(gid))
	}
	return buf
}
