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

// Package name writes the "name" table of sfnt fonts.
package name

import (
	"encoding/binary"
	"sort"

	"golang.org/x/text/encoding/unicode"
)

// The name IDs used by this module.
const (
	IDFamily         = 1
	IDSubfamily      = 2
	IDUniqueID       = 3
	IDFullName       = 4
	IDVersion        = 5
	IDPostScriptName = 6
)

// Info maps name IDs to their string values.  Each entry is written
// twice, as a Macintosh Roman record and as a Windows UTF-16BE record.
type Info map[int]string

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()

// Encode returns the binary form of the "name" table.
func (info Info) Encode() []byte {
	ids := make([]int, 0, len(info))
	for id := range info {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	type record struct {
		platformID, encodingID, languageID, nameID int
		data                                       []byte
	}
	var records []record
	for _, id := range ids {
		s := info[id]
		mac := make([]byte, 0, len(s))
		for _, r := range s {
			if r < 128 {
				mac = append(mac, byte(r))
			} else {
				mac = append(mac, '?')
			}
		}
		records = append(records, record{1, 0, 0, id, mac})
	}
	for _, id := range ids {
		data, err := utf16be.Bytes([]byte(info[id]))
		if err != nil {
			continue
		}
		records = append(records, record{3, 1, 0x0409, id, data})
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.platformID != b.platformID {
			return a.platformID < b.platformID
		}
		if a.encodingID != b.encodingID {
			return a.encodingID < b.encodingID
		}
		if a.languageID != b.languageID {
			return a.languageID < b.languageID
		}
		return a.nameID < b.nameID
	})

	n := len(records)
	buf := make([]byte, 6+12*n)
	binary.BigEndian.PutUint16(buf[2:], uint16(n))
	binary.BigEndian.PutUint16(buf[4:], uint16(len(buf)))

	var storage []byte
	for i, rec := range records {
		entry := buf[6+12*i:]
		binary.BigEndian.PutUint16(entry[0:], uint16(rec.platformID))
		binary.BigEndian.PutUint16(entry[2:], uint16(rec.encodingID))
		binary.BigEndian.PutUint16(entry[4:], uint16(rec.languageID))
		binary.BigEndian.PutUint16(entry[6:], uint16(rec.nameID))
		binary.BigEndian.PutUint16(entry[8:], uint16(len(rec.data)))
		binary.BigEndian.PutUint16(entry[10:], uint16(len(storage)))
		storage = append(storage, rec.data...)
	}
	return append(buf, storage...)
}
