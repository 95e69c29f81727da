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

package head

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"seehuhn.de/go/postscript/funit"
)

func TestHeadLength(t *testing.T) {
	info := &Info{}
	data := info.Encode()
	if len(data) != headLength {
		t.Errorf("expected %d, got %d", headLength, len(data))
	}
}

func TestHeadRoundTrip(t *testing.T) {
	info1 := &Info{
		FontRevision: Version(0x00018000),
		Flags:        3,
		UnitsPerEm:   1000,
		Created:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Modified:     time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC),
		FontBBox: funit.Rect16{
			LLx: -10, LLy: -200, URx: 900, URy: 800,
		},
		LowestRecPPEM: 8,
		LocaFormat:    0,
	}
	data := info1.Encode()
	info2, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(info1, info2) {
		t.Errorf("round trip changed the data:\n%+v\n%+v", info1, info2)
	}
}

func FuzzHead(f *testing.F) {
	info := &Info{}
	data := info.Encode()
	f.Add(data)

	f.Fuzz(func(t *testing.T, d1 []byte) {
		i1, err := Read(bytes.NewReader(d1))
		if err != nil {
			return
		}

		d2 := i1.Encode()

		i2, err := Read(bytes.NewReader(d2))
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(i1, i2) {
			t.Fatal("not equal")
		}
	})
}

func TestTimestamp(t *testing.T) {
	day := fontEpoch.Add(24 * time.Hour)
	if got := toTimestamp(day); got != 86400 {
		t.Errorf("got %d, want 86400", got)
	}
	if got := fromTimestamp(86400); !got.Equal(day) {
		t.Errorf("got %v", got)
	}
}

func FuzzVersion(f *testing.F) {
	f.Add(uint32(0x00010000))
	f.Fuzz(func(t *testing.T, x uint32) {
		v1 := Version(x)
		s := v1.String()
		v2, err := VersionFromString(s)
		if err != nil {
			return
		}
		if v1.Round() != v2 {
			t.Errorf("%s != %s", v1, v2)
		}
	})
}
