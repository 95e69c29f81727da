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

// Package header reads and writes the table directory of sfnt font
// files.
package header

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"sort"
)

// The sfnt scaler types supported here.
const (
	ScalerTypeTrueType uint32 = 0x00010000
	ScalerTypeCFF      uint32 = 0x4F54544F // "OTTO"
)

// Record locates one table within the font file.
type Record struct {
	Offset uint32
	Length uint32
}

// Info is the decoded table directory of an sfnt file.
type Info struct {
	ScalerType uint32
	Toc        map[string]Record
}

var (
	errMalformed = errors.New("malformed sfnt header")

	// ErrMissingTable is wrapped by ReadTableBytes when a table is not
	// present in the file.
	ErrMissingTable = errors.New("missing table")
)

// Write assembles a complete sfnt file from the given tables and
// writes it to w.  Tables are padded to four-byte boundaries and
// stored in alphabetical tag order.  If a "head" table is present, its
// checkSumAdjustment field is filled in; the head table must be at
// least 12 bytes long to hold it.
func Write(w io.Writer, scalerType uint32, tables map[string][]byte) (int64, error) {
	numTables := len(tables)
	if numTables == 0 || numTables > 0xFFFF {
		return 0, errors.New("invalid number of tables")
	}
	if head, ok := tables["head"]; ok && len(head) < 12 {
		return 0, errors.New("head table too short")
	}

	tags := make([]string, 0, numTables)
	for tag := range tables {
		if len(tag) != 4 {
			return 0, fmt.Errorf("invalid table tag %q", tag)
		}
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	directorySize := 12 + 16*numTables
	total := directorySize
	offsets := make(map[string]int, numTables)
	for _, tag := range tags {
		offsets[tag] = total
		total += (len(tables[tag]) + 3) &^ 3
	}

	buf := make([]byte, total)
	binary.BigEndian.PutUint32(buf[0:], scalerType)
	binary.BigEndian.PutUint16(buf[4:], uint16(numTables))
	entrySelector := bits.Len(uint(numTables)) - 1
	searchRange := 16 << entrySelector
	binary.BigEndian.PutUint16(buf[6:], uint16(searchRange))
	binary.BigEndian.PutUint16(buf[8:], uint16(entrySelector))
	binary.BigEndian.PutUint16(buf[10:], uint16(16*numTables-searchRange))

	// zero the head checksum adjustment before computing any checksums
	for i, tag := range tags {
		body := tables[tag]
		offset := offsets[tag]
		copy(buf[offset:], body)
		if tag == "head" {
			for k := 8; k < 12; k++ {
				buf[offset+k] = 0
			}
		}

		rec := buf[12+16*i:]
		copy(rec, tag)
		binary.BigEndian.PutUint32(rec[4:], checksum(buf[offset:offset+(len(body)+3)&^3]))
		binary.BigEndian.PutUint32(rec[8:], uint32(offset))
		binary.BigEndian.PutUint32(rec[12:], uint32(len(body)))
	}

	if offset, ok := offsets["head"]; ok {
		adjustment := 0xB1B0AFBA - checksum(buf)
		binary.BigEndian.PutUint32(buf[offset+8:], adjustment)
	}

	n, err := w.Write(buf)
	return int64(n), err
}

// checksum is the standard sfnt checksum: the sum of all big-endian
// uint32 words of the (padded) data.
func checksum(data []byte) uint32 {
	var sum uint32
	for i := 0; i+4 <= len(data); i += 4 {
		sum += binary.BigEndian.Uint32(data[i:])
	}
	if rest := len(data) % 4; rest != 0 {
		var tail [4]byte
		copy(tail[:], data[len(data)-rest:])
		sum += binary.BigEndian.Uint32(tail[:])
	}
	return sum
}

// ReadSfntHeader decodes the table directory at the start of r.
func ReadSfntHeader(r io.ReaderAt) (*Info, error) {
	var dir [12]byte
	if _, err := r.ReadAt(dir[:], 0); err != nil {
		return nil, errMalformed
	}
	scalerType := binary.BigEndian.Uint32(dir[0:])
	numTables := int(binary.BigEndian.Uint16(dir[4:]))
	if numTables == 0 {
		return nil, errMalformed
	}

	records := make([]byte, 16*numTables)
	if _, err := r.ReadAt(records, 12); err != nil {
		return nil, errMalformed
	}

	info := &Info{
		ScalerType: scalerType,
		Toc:        make(map[string]Record, numTables),
	}
	for i := 0; i < numTables; i++ {
		rec := records[16*i:]
		tag := string(rec[:4])
		offset := binary.BigEndian.Uint32(rec[8:])
		length := binary.BigEndian.Uint32(rec[12:])
		if offset > 1<<30 || length > 1<<30 {
			return nil, errMalformed
		}
		info.Toc[tag] = Record{Offset: offset, Length: length}
	}
	return info, nil
}

// ReadTableBytes returns the body of the named table.
func (info *Info) ReadTableBytes(r io.ReaderAt, tag string) ([]byte, error) {
	rec, ok := info.Toc[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingTable, tag)
	}
	body := make([]byte, rec.Length)
	if _, err := r.ReadAt(body, int64(rec.Offset)); err != nil {
		return nil, errMalformed
	}
	return body, nil
}
