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

// Package cff writes the "CFF " table of OpenType fonts.  The encoder
// covers exactly what this module needs: a single non-CID font with
// Type 2 charstrings, a format 0 charset, and one private dictionary.
package cff

import (
	"encoding/binary"
	"errors"
	"math"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/handfont/vector"
)

// Glyph is one glyph of a CFF font.  Paths use cubic Bezier curves in
// font units.
type Glyph struct {
	Name  string
	Width funit.Int16
	Paths []vector.Path
}

// Font is a complete CFF font.  Glyph 0 must be the .notdef glyph.
type Font struct {
	FontName   string
	FullName   string
	FamilyName string
	Weight     string
	FontBBox   [4]int
	Glyphs     []*Glyph
}

// The number of predefined SIDs in the CFF standard strings table.
const nStdStrings = 391

// Dict and charstring operators used by the encoder.
const (
	opFullName    = 2
	opFamilyName  = 3
	opWeight      = 4
	opFontBBox    = 5
	opCharset     = 15
	opCharStrings = 17
	opPrivate     = 18

	opDefaultWidthX = 20
	opNominalWidthX = 21

	t2RLineTo   = 5
	t2RRCurveTo = 8
	t2EndChar   = 14
	t2RMoveTo   = 21
)

// Encode returns the binary form of the font, ready to be stored in a
// "CFF " table.
func (f *Font) Encode() ([]byte, error) {
	if len(f.Glyphs) == 0 {
		return nil, errors.New("no glyphs")
	}
	if len(f.Glyphs) > 0xFFFF {
		return nil, errors.New("too many glyphs")
	}

	strings := &stringTable{index: make(map[string]int)}

	header := []byte{1, 0, 4, 4}
	nameIndex := encodeIndex([][]byte{[]byte(f.FontName)})

	fullName := strings.lookup(f.FullName)
	familyName := strings.lookup(f.FamilyName)
	weight := strings.lookup(f.Weight)

	// glyph names for the charset; glyph 0 is the implicit .notdef
	charset := []byte{0} // format 0
	for _, g := range f.Glyphs[1:] {
		charset = binary.BigEndian.AppendUint16(charset, uint16(strings.lookup(g.Name)))
	}

	var charStrings [][]byte
	for _, g := range f.Glyphs {
		charStrings = append(charStrings, encodeCharString(g))
	}
	charStringsIndex := encodeIndex(charStrings)

	var private []byte
	private = appendDictInt(private, 0)
	private = append(private, opDefaultWidthX)
	private = appendDictInt(private, 0)
	private = append(private, opNominalWidthX)

	stringIndex := encodeIndex(strings.data)
	globalSubrs := encodeIndex(nil)

	// The top dict encodes all offsets as 5-byte integers, so its size
	// does not depend on the offset values and the layout can be
	// computed in one pass.
	makeTopDict := func(charsetPos, charStringsPos, privatePos int) []byte {
		var d []byte
		d = appendDictInt(d, fullName)
		d = append(d, opFullName)
		d = appendDictInt(d, familyName)
		d = append(d, opFamilyName)
		d = appendDictInt(d, weight)
		d = append(d, opWeight)
		for _, v := range f.FontBBox {
			d = appendDictInt(d, v)
		}
		d = append(d, opFontBBox)
		d = appendDictLong(d, charsetPos)
		d = append(d, opCharset)
		d = appendDictLong(d, charStringsPos)
		d = append(d, opCharStrings)
		d = appendDictLong(d, len(private))
		d = appendDictLong(d, privatePos)
		d = append(d, opPrivate)
		return d
	}

	topDictSize := len(makeTopDict(0, 0, 0))
	topDictIndexSize := len(encodeIndex([][]byte{make([]byte, topDictSize)}))

	pos := len(header) + len(nameIndex) + topDictIndexSize +
		len(stringIndex) + len(globalSubrs)
	charsetPos := pos
	pos += len(charset)
	charStringsPos := pos
	pos += len(charStringsIndex)
	privatePos := pos

	topDict := makeTopDict(charsetPos, charStringsPos, privatePos)
	topDictIndex := encodeIndex([][]byte{topDict})
	if len(topDictIndex) != topDictIndexSize {
		return nil, errors.New("inconsistent top dict size")
	}

	var res []byte
	res = append(res, header...)
	res = append(res, nameIndex...)
	res = append(res, topDictIndex...)
	res = append(res, stringIndex...)
	res = append(res, globalSubrs...)
	res = append(res, charset...)
	res = append(res, charStringsIndex...)
	res = append(res, private...)
	return res, nil
}

// stringTable assigns SIDs to the custom strings of the font.
type stringTable struct {
	data  [][]byte
	index map[string]int
}

func (t *stringTable) lookup(s string) int {
	if sid, ok := t.index[s]; ok {
		return sid
	}
	sid := nStdStrings + len(t.data)
	t.data = append(t.data, []byte(s))
	t.index[s] = sid
	return sid
}

// encodeIndex builds a CFF INDEX structure.
func encodeIndex(items [][]byte) []byte {
	if len(items) == 0 {
		return []byte{0, 0}
	}
	total := 0
	for _, item := range items {
		total += len(item)
	}
	offSize := 1
	switch {
	case total+1 > 0xFFFFFF:
		offSize = 4
	case total+1 > 0xFFFF:
		offSize = 3
	case total+1 > 0xFF:
		offSize = 2
	}

	buf := make([]byte, 0, 3+(len(items)+1)*offSize+total)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(items)))
	buf = append(buf, byte(offSize))
	offset := 1
	appendOffset := func(v int) {
		for k := offSize - 1; k >= 0; k-- {
			buf = append(buf, byte(v>>(8*k)))
		}
	}
	appendOffset(offset)
	for _, item := range items {
		offset += len(item)
		appendOffset(offset)
	}
	for _, item := range items {
		buf = append(buf, item...)
	}
	return buf
}

// appendDictInt appends an integer operand in its shortest encoding.
func appendDictInt(buf []byte, v int) []byte {
	switch {
	case v >= -107 && v <= 107:
		return append(buf, byte(v+139))
	case v >= 108 && v <= 1131:
		v -= 108
		return append(buf, byte(v/256+247), byte(v%256))
	case v >= -1131 && v <= -108:
		v = -v - 108
		return append(buf, byte(v/256+251), byte(v%256))
	case v >= -32768 && v <= 32767:
		return append(buf, 28, byte(v>>8), byte(v))
	default:
		return append(buf, 29, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
}

// appendDictLong appends an integer operand in the fixed five-byte
// encoding, used where the operand size must not depend on the value.
func appendDictLong(buf []byte, v int) []byte {
	return append(buf, 29, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// appendT2Int appends an integer operand to a Type 2 charstring.
func appendT2Int(buf []byte, v int) []byte {
	switch {
	case v >= -107 && v <= 107:
		return append(buf, byte(v+139))
	case v >= 108 && v <= 1131:
		v -= 108
		return append(buf, byte(v/256+247), byte(v%256))
	case v >= -1131 && v <= -108:
		v = -v - 108
		return append(buf, byte(v/256+251), byte(v%256))
	default:
		return append(buf, 28, byte(v>>8), byte(v))
	}
}

// encodeCharString builds the Type 2 charstring for one glyph.  Since
// nominalWidthX and defaultWidthX are both zero, the advance width is
// always included as the leading operand.
func encodeCharString(g *Glyph) []byte {
	var buf []byte
	buf = appendT2Int(buf, int(g.Width))

	x, y := 0, 0
	round := func(v float64) int { return int(math.Round(v)) }

	for i := range g.Paths {
		path := &g.Paths[i]
		for _, cmd := range path.Cmds {
			switch cmd.Op {
			case vector.OpMoveTo:
				px, py := round(cmd.Pts[0].X), round(cmd.Pts[0].Y)
				buf = appendT2Int(buf, px-x)
				buf = appendT2Int(buf, py-y)
				buf = append(buf, t2RMoveTo)
				x, y = px, py
			case vector.OpLineTo:
				px, py := round(cmd.Pts[0].X), round(cmd.Pts[0].Y)
				buf = appendT2Int(buf, px-x)
				buf = appendT2Int(buf, py-y)
				buf = append(buf, t2RLineTo)
				x, y = px, py
			case vector.OpQuadTo:
				// elevate to a cubic
				qx, qy := cmd.Pts[0].X, cmd.Pts[0].Y
				ex, ey := cmd.Pts[1].X, cmd.Pts[1].Y
				c1x := float64(x) + 2.0/3.0*(qx-float64(x))
				c1y := float64(y) + 2.0/3.0*(qy-float64(y))
				c2x := ex + 2.0/3.0*(qx-ex)
				c2y := ey + 2.0/3.0*(qy-ey)
				buf, x, y = appendCurve(buf, x, y,
					round(c1x), round(c1y), round(c2x), round(c2y), round(ex), round(ey))
			case vector.OpCubeTo:
				buf, x, y = appendCurve(buf, x, y,
					round(cmd.Pts[0].X), round(cmd.Pts[0].Y),
					round(cmd.Pts[1].X), round(cmd.Pts[1].Y),
					round(cmd.Pts[2].X), round(cmd.Pts[2].Y))
			case vector.OpClose:
				// Type 2 charstrings close subpaths implicitly.
			}
		}
	}

	return append(buf, t2EndChar)
}

func appendCurve(buf []byte, x, y, c1x, c1y, c2x, c2y, ex, ey int) ([]byte, int, int) {
	buf = appendT2Int(buf, c1x-x)
	buf = appendT2Int(buf, c1y-y)
	buf = appendT2Int(buf, c2x-c1x)
	buf = appendT2Int(buf, c2y-c1y)
	buf = appendT2Int(buf, ex-c2x)
	buf = appendT2Int(buf, ey-c2y)
	buf = append(buf, t2RRCurveTo)
	return buf, ex, ey
}
