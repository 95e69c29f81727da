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

// Package head reads and writes the "head" table of sfnt fonts.
package head

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"seehuhn.de/go/postscript/funit"
)

const headLength = 54

// fontEpoch is the zero point of sfnt timestamps.
var fontEpoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// Info contains the information of the "head" table.
type Info struct {
	FontRevision Version

	Flags      uint16
	UnitsPerEm uint16

	Created  time.Time
	Modified time.Time

	FontBBox funit.Rect16

	MacStyle      uint16
	LowestRecPPEM uint16

	// LocaFormat is 0 for short loca offsets and 1 for long ones.
	LocaFormat int16
}

// Encode returns the binary form of the "head" table.  The
// checkSumAdjustment field is left at zero; it is filled in when the
// complete font file is assembled.
func (info *Info) Encode() []byte {
	buf := make([]byte, headLength)
	binary.BigEndian.PutUint32(buf[0:], 0x00010000) // version
	binary.BigEndian.PutUint32(buf[4:], uint32(info.FontRevision))
	// bytes 8-11: checkSumAdjustment, filled in later
	binary.BigEndian.PutUint32(buf[12:], 0x5F0F3CF5) // magicNumber
	binary.BigEndian.PutUint16(buf[16:], info.Flags)
	binary.BigEndian.PutUint16(buf[18:], info.UnitsPerEm)
	binary.BigEndian.PutUint64(buf[20:], uint64(toTimestamp(info.Created)))
	binary.BigEndian.PutUint64(buf[28:], uint64(toTimestamp(info.Modified)))
	binary.BigEndian.PutUint16(buf[36:], uint16(info.FontBBox.LLx))
	binary.BigEndian.PutUint16(buf[38:], uint16(info.FontBBox.LLy))
	binary.BigEndian.PutUint16(buf[40:], uint16(info.FontBBox.URx))
	binary.BigEndian.PutUint16(buf[42:], uint16(info.FontBBox.URy))
	binary.BigEndian.PutUint16(buf[44:], info.MacStyle)
	binary.BigEndian.PutUint16(buf[46:], info.LowestRecPPEM)
	binary.BigEndian.PutUint16(buf[48:], 2) // fontDirectionHint (deprecated)
	binary.BigEndian.PutUint16(buf[50:], uint16(info.LocaFormat))
	binary.BigEndian.PutUint16(buf[52:], 0) // glyphDataFormat
	return buf
}

// Read decodes a "head" table.
func Read(r io.Reader) (*Info, error) {
	buf := make([]byte, headLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errMalformed
	}
	if binary.BigEndian.Uint32(buf[0:]) != 0x00010000 {
		return nil, errMalformed
	}
	if binary.BigEndian.Uint32(buf[12:]) != 0x5F0F3CF5 {
		return nil, errMalformed
	}
	locaFormat := int16(binary.BigEndian.Uint16(buf[50:]))
	if locaFormat != 0 && locaFormat != 1 {
		return nil, errMalformed
	}

	info := &Info{
		FontRevision: Version(binary.BigEndian.Uint32(buf[4:])),
		Flags:        binary.BigEndian.Uint16(buf[16:]),
		UnitsPerEm:   binary.BigEndian.Uint16(buf[18:]),
		Created:      fromTimestamp(int64(binary.BigEndian.Uint64(buf[20:]))),
		Modified:     fromTimestamp(int64(binary.BigEndian.Uint64(buf[28:]))),
		FontBBox: funit.Rect16{
			LLx: funit.Int16(binary.BigEndian.Uint16(buf[36:])),
			LLy: funit.Int16(binary.BigEndian.Uint16(buf[38:])),
			URx: funit.Int16(binary.BigEndian.Uint16(buf[40:])),
			URy: funit.Int16(binary.BigEndian.Uint16(buf[42:])),
		},
		MacStyle:      binary.BigEndian.Uint16(buf[44:]),
		LowestRecPPEM: binary.BigEndian.Uint16(buf[46:]),
		LocaFormat:    locaFormat,
	}
	return info, nil
}

var errMalformed = errors.New("malformed head table")

// toTimestamp converts a time to whole seconds since 1904-01-01 UTC.
func toTimestamp(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return int64(t.Sub(fontEpoch) / time.Second)
}

func fromTimestamp(s int64) time.Time {
	if s == 0 {
		return time.Time{}
	}
	return fontEpoch.Add(time.Duration(s) * time.Second)
}

// Version is a 16.16 fixed point font revision number.
type Version uint32

// VersionFromString parses strings like "1.007" into a Version.
func VersionFromString(s string) (Version, error) {
	s = strings.TrimPrefix(s, "Version ")
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || x < 0 || x >= 0x8000 {
		return 0, errors.New("invalid version string")
	}
	return Version(math.Round(x * 65536)), nil
}

// String formats the version with three decimal digits, the customary
// form for font revision numbers.
func (v Version) String() string {
	return fmt.Sprintf("%.3f", float64(v)/65536)
}

// Round returns the version rounded to the nearest thousandth, the
// precision of the String representation.
func (v Version) Round() Version {
	milli := math.Round(float64(v) / 65536 * 1000)
	return Version(math.Round(milli / 1000 * 65536))
}
