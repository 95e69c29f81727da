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

package cmap

import (
	"encoding/binary"
	"testing"

	"seehuhn.de/go/handfont/sfnt/glyph"
)

// lookupFormat4 resolves a code point in an encoded format 4 subtable,
// following the algorithm from the OpenType specification.
func lookupFormat4(sub []byte, code uint16) glyph.ID {
	segCountX2 := int(binary.BigEndian.Uint16(sub[6:]))
	segCount := segCountX2 / 2
	endCodes := sub[14:]
	startCodes := sub[14+segCountX2+2:]
	idDeltas := sub[14+2*segCountX2+2:]
	idRangeOffsets := sub[14+3*segCountX2+2:]

	for i := 0; i < segCount; i++ {
		end := binary.BigEndian.Uint16(endCodes[2*i:])
		if code > end {
			continue
		}
		start := binary.BigEndian.Uint16(startCodes[2*i:])
		if code < start {
			return 0
		}
		rangeOffset := binary.BigEndian.Uint16(idRangeOffsets[2*i:])
		if rangeOffset == 0 {
			delta := binary.BigEndian.Uint16(idDeltas[2*i:])
			return glyph.ID(code + delta)
		}
		pos := 14 + 3*segCountX2 + 2 + 2*i + int(rangeOffset) +
			2*int(code-start)
		gid := binary.BigEndian.Uint16(sub[pos:])
		if gid == 0 {
			return 0
		}
		delta := binary.BigEndian.Uint16(idDeltas[2*i:])
		return glyph.ID(gid + delta)
	}
	return 0
}

func subtable(t *testing.T, data []byte) []byte {
	t.Helper()
	numTables := int(binary.BigEndian.Uint16(data[2:]))
	if numTables != 2 {
		t.Fatalf("%d encoding records", numTables)
	}
	offset := binary.BigEndian.Uint32(data[8:])
	return data[offset:]
}

func TestCmapContiguous(t *testing.T) {
	info := Info{' ': 1}
	for i, r := range "ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
		info[r] = glyph.ID(2 + i)
	}
	sub := subtable(t, info.Encode())

	for r, want := range info {
		if got := lookupFormat4(sub, uint16(r)); got != want {
			t.Errorf("lookup(%q) = %d, want %d", r, got, want)
		}
	}
	if got := lookupFormat4(sub, 'a'); got != 0 {
		t.Errorf("unmapped code point resolves to %d", got)
	}
}

func TestCmapScattered(t *testing.T) {
	// non-monotone glyph IDs force the glyph ID array path
	info := Info{
		'A': 5, 'B': 3, 'C': 9,
		'x': 1,
	}
	sub := subtable(t, info.Encode())
	for r, want := range info {
		if got := lookupFormat4(sub, uint16(r)); got != want {
			t.Errorf("lookup(%q) = %d, want %d", r, got, want)
		}
	}
}

func TestCmapSentinel(t *testing.T) {
	info := Info{'A': 2}
	sub := subtable(t, info.Encode())
	if got := lookupFormat4(sub, 0xFFFF); got != 0 {
		t.Errorf("sentinel code point resolves to %d", got)
	}
	length := binary.BigEndian.Uint16(sub[2:])
	if int(length) != len(sub) {
		t.Errorf("subtable length %d, data length %d", length, len(sub))
	}
}
