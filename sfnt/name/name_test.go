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

package name

import (
	"encoding/binary"
	"testing"
)

func TestEncode(t *testing.T) {
	info := Info{
		IDFamily:         "Scribble",
		IDSubfamily:      "Regular",
		IDFullName:       "Scribble Regular",
		IDPostScriptName: "Scribble-Regular",
	}
	data := info.Encode()

	count := int(binary.BigEndian.Uint16(data[2:]))
	if count != 2*len(info) {
		t.Fatalf("%d records, want %d", count, 2*len(info))
	}
	storage := int(binary.BigEndian.Uint16(data[4:]))
	if storage != 6+12*count {
		t.Errorf("storage offset %d", storage)
	}

	// records must be sorted by platform, encoding, language, name ID
	type key struct{ p, e, l, n int }
	var prev key
	for i := 0; i < count; i++ {
		rec := data[6+12*i:]
		k := key{
			p: int(binary.BigEndian.Uint16(rec[0:])),
			e: int(binary.BigEndian.Uint16(rec[2:])),
			l: int(binary.BigEndian.Uint16(rec[4:])),
			n: int(binary.BigEndian.Uint16(rec[6:])),
		}
		if i > 0 && !(prev.p < k.p || prev.p == k.p && (prev.e < k.e ||
			prev.e == k.e && (prev.l < k.l || prev.l == k.l && prev.n < k.n))) {
			t.Errorf("record %d out of order: %+v after %+v", i, k, prev)
		}
		prev = k

		length := int(binary.BigEndian.Uint16(rec[8:]))
		offset := int(binary.BigEndian.Uint16(rec[10:]))
		if storage+offset+length > len(data) {
			t.Errorf("record %d overflows the table", i)
		}
	}

	// the first record is Macintosh Roman and stores plain bytes
	rec := data[6:]
	if binary.BigEndian.Uint16(rec[0:]) != 1 {
		t.Fatal("first record not Macintosh")
	}
	length := int(binary.BigEndian.Uint16(rec[8:]))
	offset := int(binary.BigEndian.Uint16(rec[10:]))
	if got := string(data[storage+offset : storage+offset+length]); got != "Scribble" {
		t.Errorf("family name %q", got)
	}

	// the Windows records store UTF-16BE
	winRec := data[6+12*len(info):]
	if binary.BigEndian.Uint16(winRec[0:]) != 3 {
		t.Fatal("Windows records missing")
	}
	length = int(binary.BigEndian.Uint16(winRec[8:]))
	if length != 2*len("Scribble") {
		t.Errorf("UTF-16 length %d", length)
	}
}
