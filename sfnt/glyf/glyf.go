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

// Package glyf reads and writes the "glyf" and "loca" tables of
// TrueType fonts.  Only simple (non-composite) glyphs with quadratic
// outlines are supported, which is all this module ever produces.
package glyf

import (
	"encoding/binary"
	"errors"

	"seehuhn.de/go/postscript/funit"
)

// Point is one point of a quadratic glyph outline.
type Point struct {
	X, Y    funit.Int16
	OnCurve bool
}

// Contour is a closed sequence of outline points.
type Contour []Point

// Glyph is a simple TrueType glyph.
type Glyph struct {
	Contours []Contour
}

// Info holds the outlines of all glyphs in the font, indexed by glyph
// ID.  A nil entry is a glyph without an outline, like the space.
type Info []*Glyph

// Encoded is the binary form of the glyph outlines, ready to be stored
// in the "glyf" and "loca" tables.
type Encoded struct {
	GlyfData   []byte
	LocaData   []byte
	LocaFormat int16
}

const (
	flagOnCurve = 0x01
	flagXShort  = 0x02
	flagYShort  = 0x04
	flagRepeat  = 0x08
	flagXSame   = 0x10
	flagYSame   = 0x20
)

var errMalformed = errors.New("malformed glyf data")

// BBox returns the bounding box of the glyph.  The zero rectangle is
// returned for glyphs without points.
func (g *Glyph) BBox() funit.Rect16 {
	var bbox funit.Rect16
	first := true
	if g == nil {
		return bbox
	}
	for _, cc := range g.Contours {
		for _, p := range cc {
			if first {
				bbox = funit.Rect16{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
				first = false
				continue
			}
			if p.X < bbox.LLx {
				bbox.LLx = p.X
			}
			if p.Y < bbox.LLy {
				bbox.LLy = p.Y
			}
			if p.X > bbox.URx {
				bbox.URx = p.X
			}
			if p.Y > bbox.URy {
				bbox.URy = p.Y
			}
		}
	}
	return bbox
}

// Encode converts the outlines to their binary form.  Deltas are
// stored as uncompressed 16-bit values, which keeps the encoder
// simple and deterministic.
func (info Info) Encode() *Encoded {
	var glyf []byte
	offsets := make([]int, 0, len(info)+1)
	offsets = append(offsets, 0)

	for _, g := range info {
		if g != nil && len(g.Contours) > 0 {
			glyf = append(glyf, encodeGlyph(g)...)
			for len(glyf)%4 != 0 {
				glyf = append(glyf, 0)
			}
		}
		offsets = append(offsets, len(glyf))
	}

	locaFormat := int16(0)
	if len(glyf) > 2*0xFFFF {
		locaFormat = 1
	}
	var loca []byte
	for _, offset := range offsets {
		if locaFormat == 0 {
			loca = binary.BigEndian.AppendUint16(loca, uint16(offset/2))
		} else {
			loca = binary.BigEndian.AppendUint32(loca, uint32(offset))
		}
	}
	return &Encoded{
		GlyfData:   glyf,
		LocaData:   loca,
		LocaFormat: locaFormat,
	}
}

func encodeGlyph(g *Glyph) []byte {
	bbox := g.BBox()
	buf := make([]byte, 10)
	binary.BigEndian.PutUint16(buf[0:], uint16(len(g.Contours)))
	binary.BigEndian.PutUint16(buf[2:], uint16(bbox.LLx))
	binary.BigEndian.PutUint16(buf[4:], uint16(bbox.LLy))
	binary.BigEndian.PutUint16(buf[6:], uint16(bbox.URx))
	binary.BigEndian.PutUint16(buf[8:], uint16(bbox.URy))

	end := -1
	for _, cc := range g.Contours {
		end += len(cc)
		buf = binary.BigEndian.AppendUint16(buf, uint16(end))
	}
	buf = binary.BigEndian.AppendUint16(buf, 0) // no instructions

	var flags, xs, ys []byte
	var prev Point
	for _, cc := range g.Contours {
		for _, p := range cc {
			var flag byte
			if p.OnCurve {
				flag = flagOnCurve
			}
			flags = append(flags, flag)
			xs = binary.BigEndian.AppendUint16(xs, uint16(p.X-prev.X))
			ys = binary.BigEndian.AppendUint16(ys, uint16(p.Y-prev.Y))
			prev = p
		}
	}
	buf = append(buf, flags...)
	buf = append(buf, xs...)
	buf = append(buf, ys...)
	return buf
}

// Decode converts binary glyph data back into outlines.  All simple
// glyph encodings are understood, including short and repeated deltas;
// composite glyphs are rejected.
func Decode(enc *Encoded) (Info, error) {
	offsets, err := decodeLoca(enc)
	if err != nil {
		return nil, err
	}

	info := make(Info, len(offsets)-1)
	for i := 0; i+1 < len(offsets); i++ {
		start, end := offsets[i], offsets[i+1]
		if start > end || end > len(enc.GlyfData) {
			return nil, errMalformed
		}
		if start == end {
			continue
		}
		g, err := decodeGlyph(enc.GlyfData[start:end])
		if err != nil {
			return nil, err
		}
		if len(g.Contours) > 0 {
			info[i] = g
		}
	}
	return info, nil
}

func decodeLoca(enc *Encoded) ([]int, error) {
	switch enc.LocaFormat {
	case 0:
		if len(enc.LocaData)%2 != 0 || len(enc.LocaData) < 4 {
			return nil, errMalformed
		}
		n := len(enc.LocaData) / 2
		offsets := make([]int, n)
		for i := range offsets {
			offsets[i] = 2 * int(binary.BigEndian.Uint16(enc.LocaData[2*i:]))
		}
		return offsets, nil
	case 1:
		if len(enc.LocaData)%4 != 0 || len(enc.LocaData) < 8 {
			return nil, errMalformed
		}
		n := len(enc.LocaData) / 4
		offsets := make([]int, n)
		for i := range offsets {
			offsets[i] = int(binary.BigEndian.Uint32(enc.LocaData[4*i:]))
		}
		return offsets, nil
	default:
		return nil, errMalformed
	}
}

func decodeGlyph(data []byte) (*Glyph, error) {
	if len(data) < 10 {
		return nil, errMalformed
	}
	numContours := int(int16(binary.BigEndian.Uint16(data[0:])))
	if numContours < 0 {
		return nil, errors.New("composite glyphs not supported")
	}
	pos := 10

	ends := make([]int, numContours)
	for i := range ends {
		if pos+2 > len(data) {
			return nil, errMalformed
		}
		ends[i] = int(binary.BigEndian.Uint16(data[pos:]))
		pos += 2
	}
	numPoints := 0
	if numContours > 0 {
		numPoints = ends[numContours-1] + 1
	}

	if pos+2 > len(data) {
		return nil, errMalformed
	}
	instrLen := int(binary.BigEndian.Uint16(data[pos:]))
	pos += 2 + instrLen

	flags := make([]byte, 0, numPoints)
	for len(flags) < numPoints {
		if pos >= len(data) {
			return nil, errMalformed
		}
		flag := data[pos]
		pos++
		flags = append(flags, flag)
		if flag&flagRepeat != 0 {
			if pos >= len(data) {
				return nil, errMalformed
			}
			repeat := int(data[pos])
			pos++
			for k := 0; k < repeat && len(flags) < numPoints; k++ {
				flags = append(flags, flag)
			}
		}
	}

	readDeltas := func(short, same byte) ([]int, error) {
		deltas := make([]int, numPoints)
		for i, flag := range flags {
			switch {
			case flag&short != 0:
				if pos >= len(data) {
					return nil, errMalformed
				}
				d := int(data[pos])
				pos++
				if flag&same == 0 {
					d = -d
				}
				deltas[i] = d
			case flag&same != 0:
				deltas[i] = 0
			default:
				if pos+2 > len(data) {
					return nil, errMalformed
				}
				deltas[i] = int(int16(binary.BigEndian.Uint16(data[pos:])))
				pos += 2
			}
		}
		return deltas, nil
	}
	dxs, err := readDeltas(flagXShort, flagXSame)
	if err != nil {
		return nil, err
	}
	dys, err := readDeltas(flagYShort, flagYSame)
	if err != nil {
		return nil, err
	}

	g := &Glyph{}
	x, y := 0, 0
	idx := 0
	for _, end := range ends {
		var cc Contour
		for ; idx <= end; idx++ {
			x += dxs[idx]
			y += dys[idx]
			cc = append(cc, Point{
				X:       funit.Int16(x),
				Y:       funit.Int16(y),
				OnCurve: flags[idx]&flagOnCurve != 0,
			})
		}
		g.Contours = append(g.Contours, cc)
	}
	return g, nil
}
