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

// Package kern reads and writes the "kern" table of sfnt fonts, using
// a single format 0 subtable with horizontal kerning pairs.
package kern

import (
	"encoding/binary"
	"errors"
	"io"
	"math/bits"
	"sort"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/handfont/sfnt/glyph"
)

// Info maps glyph pairs to their horizontal kerning adjustment.
type Info map[glyph.Pair]funit.Int16

var errMalformed = errors.New("malformed kern table")

// Encode returns the binary form of the "kern" table.  Pairs are
// sorted by left, then right glyph ID, as required for the binary
// search headers.
func (info Info) Encode() []byte {
	pairs := make([]glyph.Pair, 0, len(info))
	for p := range info {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Left != pairs[j].Left {
			return pairs[i].Left < pairs[j].Left
		}
		return pairs[i].Right < pairs[j].Right
	})

	n := len(pairs)
	buf := make([]byte, 18+6*n)
	// version 0, nTables 1
	binary.BigEndian.PutUint16(buf[2:], 1)
	// subtable: version 0, length, coverage
	binary.BigEndian.PutUint16(buf[6:], uint16(14+6*n))
	binary.BigEndian.PutUint16(buf[8:], 0x0001) // horizontal, format 0
	binary.BigEndian.PutUint16(buf[10:], uint16(n))
	entrySelector := 0
	if n > 0 {
		entrySelector = bits.Len(uint(n)) - 1
	}
	searchRange := 6 << entrySelector
	binary.BigEndian.PutUint16(buf[12:], uint16(searchRange))
	binary.BigEndian.PutUint16(buf[14:], uint16(entrySelector))
	binary.BigEndian.PutUint16(buf[16:], uint16(6*n-searchRange))

	for i, p := range pairs {
		rec := buf[18+6*i:]
		binary.BigEndian.PutUint16(rec[0:], uint16(p.Left))
		binary.BigEndian.PutUint16(rec[2:], uint16(p.Right))
		binary.BigEndian.PutUint16(rec[4:], uint16(info[p]))
	}
	return buf
}

// Read decodes a "kern" table.  Only horizontal format 0 subtables are
// interpreted; other subtables are skipped.
func Read(r io.Reader) (Info, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, errMalformed
	}
	if binary.BigEndian.Uint16(head[0:]) != 0 {
		return nil, errMalformed
	}
	nTables := int(binary.BigEndian.Uint16(head[2:]))

	info := Info{}
	for t := 0; t < nTables; t++ {
		var sub [6]byte
		if _, err := io.ReadFull(r, sub[:]); err != nil {
			return nil, errMalformed
		}
		length := int(binary.BigEndian.Uint16(sub[2:]))
		coverage := binary.BigEndian.Uint16(sub[4:])
		if length < 6 {
			return nil, errMalformed
		}
		body := make([]byte, length-6)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, errMalformed
		}
		if coverage != 0x0001 {
			continue
		}
		if len(body) < 8 {
			return nil, errMalformed
		}
		n := int(binary.BigEndian.Uint16(body[0:]))
		if len(body) < 8+6*n {
			return nil, errMalformed
		}
		for i := 0; i < n; i++ {
			rec := body[8+6*i:]
			pair := glyph.Pair{
				Left:  glyph.ID(binary.BigEndian.Uint16(rec[0:])),
				Right: glyph.ID(binary.BigEndian.Uint16(rec[2:])),
			}
			info[pair] = funit.Int16(binary.BigEndian.Uint16(rec[4:]))
		}
	}
	return info, nil
}
