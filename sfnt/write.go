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

package sfnt

import (
	"io"
	"math"

	"golang.org/x/exp/maps"
	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/handfont/sfnt/cff"
	"seehuhn.de/go/handfont/sfnt/cmap"
	"seehuhn.de/go/handfont/sfnt/glyf"
	"seehuhn.de/go/handfont/sfnt/glyph"
	"seehuhn.de/go/handfont/sfnt/head"
	"seehuhn.de/go/handfont/sfnt/header"
	"seehuhn.de/go/handfont/sfnt/hmtx"
	"seehuhn.de/go/handfont/sfnt/kern"
	"seehuhn.de/go/handfont/sfnt/maxp"
	"seehuhn.de/go/handfont/sfnt/name"
	"seehuhn.de/go/handfont/sfnt/os2"
	"seehuhn.de/go/handfont/sfnt/post"
	"seehuhn.de/go/handfont/vector"
)

// WriteTrueType writes the font as a TrueType file with quadratic
// "glyf" outlines.  Cubic segments are converted with a maximum error
// of one unit per 1000 units per em.
func (f *Font) WriteTrueType(w io.Writer) error {
	if err := f.validate(); err != nil {
		return err
	}

	maxErr := float64(f.UnitsPerEm) / 1000
	outlines := make(glyf.Info, len(f.Glyphs))
	maxPoints, maxContours := 0, 0
	var bbox funit.Rect16
	for i, g := range f.Glyphs {
		og := quadraticOutline(g, maxErr)
		outlines[i] = og
		if og == nil {
			continue
		}
		points := 0
		for _, cc := range og.Contours {
			points += len(cc)
		}
		if points > maxPoints {
			maxPoints = points
		}
		if len(og.Contours) > maxContours {
			maxContours = len(og.Contours)
		}
		bbox = unionRect(bbox, og.BBox())
	}
	enc := outlines.Encode()

	tables := f.commonTables(glyphExtents(outlines))
	tables["glyf"] = enc.GlyfData
	tables["loca"] = enc.LocaData
	tables["head"] = f.headTable(bbox, enc.LocaFormat)
	maxpInfo := &maxp.Info{
		NumGlyphs:   len(f.Glyphs),
		MaxPoints:   maxPoints,
		MaxContours: maxContours,
	}
	tables["maxp"] = maxpInfo.EncodeV10()
	tables["post"] = f.postInfo().EncodeV2(f.glyphNames())

	_, err := header.Write(w, header.ScalerTypeTrueType, tables)
	if err != nil {
		return &AssemblyError{Table: "head", Err: err}
	}
	return nil
}

// WriteCFF writes the font as an OpenType file with a "CFF " outline
// table.
func (f *Font) WriteCFF(w io.Writer) error {
	if err := f.validate(); err != nil {
		return err
	}

	var bbox funit.Rect16
	cffGlyphs := make([]*cff.Glyph, len(f.Glyphs))
	extents := make([]funit.Rect16, len(f.Glyphs))
	for i, g := range f.Glyphs {
		cffGlyphs[i] = &cff.Glyph{
			Name:  g.Name,
			Width: g.Advance,
			Paths: g.Paths,
		}
		ext := pathExtent(g.Paths)
		extents[i] = ext
		bbox = unionRect(bbox, ext)
	}

	cffFont := &cff.Font{
		FontName:   f.PostScriptName(),
		FullName:   f.FullName(),
		FamilyName: f.FamilyName,
		Weight:     f.StyleName,
		FontBBox: [4]int{
			int(bbox.LLx), int(bbox.LLy), int(bbox.URx), int(bbox.URy),
		},
		Glyphs: cffGlyphs,
	}
	cffData, err := cffFont.Encode()
	if err != nil {
		return &AssemblyError{Table: "CFF ", Err: err}
	}

	tables := f.commonTables(extents)
	tables["CFF "] = cffData
	tables["head"] = f.headTable(bbox, 0)
	maxpInfo := &maxp.Info{NumGlyphs: len(f.Glyphs)}
	tables["maxp"] = maxpInfo.EncodeV05()
	tables["post"] = f.postInfo().EncodeV3()

	_, err = header.Write(w, header.ScalerTypeCFF, tables)
	if err != nil {
		return &AssemblyError{Table: "head", Err: err}
	}
	return nil
}

// commonTables builds the tables shared by both writers: cmap, hhea,
// hmtx, OS/2, name and kern.
func (f *Font) commonTables(extents []funit.Rect16) map[string][]byte {
	tables := make(map[string][]byte)

	cmapInfo := cmap.Info{}
	first, last := uint16(0xFFFF), uint16(0)
	for i, g := range f.Glyphs {
		if g.Rune == 0 || g.Rune > 0xFFFE {
			continue
		}
		cmapInfo[g.Rune] = glyph.ID(i)
		if uint16(g.Rune) < first {
			first = uint16(g.Rune)
		}
		if uint16(g.Rune) > last {
			last = uint16(g.Rune)
		}
	}
	tables["cmap"] = cmapInfo.Encode()

	widths := make([]funit.Int16, len(f.Glyphs))
	var widthSum int
	for i, g := range f.Glyphs {
		widths[i] = g.Advance
		widthSum += int(g.Advance)
	}
	hmtxInfo := &hmtx.Info{
		Widths:       widths,
		GlyphExtents: extents,
		Ascent:       f.Ascent,
		Descent:      f.Descent,
		LineGap:      f.LineGap,
	}
	tables["hhea"] = hmtxInfo.EncodeHhea()
	tables["hmtx"] = hmtxInfo.EncodeHmtx()

	winAscent := f.Ascent
	if f.CapHeight > winAscent {
		winAscent = f.CapHeight
	}
	os2Info := &os2.Info{
		UnitsPerEm:     f.UnitsPerEm,
		AvgCharWidth:   funit.Int16(widthSum / len(f.Glyphs)),
		Ascent:         f.Ascent,
		Descent:        f.Descent,
		LineGap:        f.LineGap,
		CapHeight:      f.CapHeight,
		XHeight:        f.XHeight,
		WinAscent:      winAscent,
		WinDescent:     -f.Descent,
		FirstCharIndex: first,
		LastCharIndex:  last,
	}
	tables["OS/2"] = os2Info.Encode()

	nameInfo := name.Info{
		name.IDFamily:         f.FamilyName,
		name.IDSubfamily:      f.StyleName,
		name.IDUniqueID:       f.UniqueID(),
		name.IDFullName:       f.FullName(),
		name.IDVersion:        "Version " + f.Version,
		name.IDPostScriptName: f.PostScriptName(),
	}
	tables["name"] = nameInfo.Encode()

	if len(f.Kern) > 0 {
		kernInfo := kern.Info{}
		maps.Copy(kernInfo, f.Kern)
		tables["kern"] = kernInfo.Encode()
	}

	return tables
}

func (f *Font) headTable(bbox funit.Rect16, locaFormat int16) []byte {
	headInfo := &head.Info{
		FontRevision:  f.fontRevision(),
		Flags:         3, // baseline at y=0, left sidebearing at x=0
		UnitsPerEm:    f.UnitsPerEm,
		Created:       f.CreationTime,
		Modified:      f.ModificationTime,
		FontBBox:      bbox,
		LowestRecPPEM: 8,
		LocaFormat:    locaFormat,
	}
	return headInfo.Encode()
}

func (f *Font) postInfo() *post.Info {
	em := int(f.UnitsPerEm)
	return &post.Info{
		UnderlinePosition:  funit.Int16(-em / 10),
		UnderlineThickness: funit.Int16(em / 20),
	}
}

func (f *Font) glyphNames() []string {
	names := make([]string, len(f.Glyphs))
	for i, g := range f.Glyphs {
		names[i] = g.Name
	}
	return names
}

// quadraticOutline converts a glyph's cubic paths to a TrueType
// outline with quadratic segments only.
func quadraticOutline(g *Glyph, maxErr float64) *glyf.Glyph {
	if len(g.Paths) == 0 {
		return nil
	}
	res := &glyf.Glyph{}
	for i := range g.Paths {
		q := g.Paths[i].ToQuadratic(maxErr)
		cc := commandsToContour(q.Cmds)
		if len(cc) >= 3 {
			res.Contours = append(res.Contours, cc)
		}
	}
	if len(res.Contours) == 0 {
		return nil
	}
	return res
}

// commandsToContour flattens one quadratic path into TrueType points.
func commandsToContour(cmds []vector.Command) glyf.Contour {
	var cc glyf.Contour
	appendPoint := func(x, y float64, onCurve bool) {
		p := glyf.Point{
			X:       funit.Int16(math.Round(x)),
			Y:       funit.Int16(math.Round(y)),
			OnCurve: onCurve,
		}
		if n := len(cc); n > 0 && cc[n-1] == p {
			return
		}
		cc = append(cc, p)
	}
	for _, cmd := range cmds {
		switch cmd.Op {
		case vector.OpMoveTo, vector.OpLineTo:
			appendPoint(cmd.Pts[0].X, cmd.Pts[0].Y, true)
		case vector.OpQuadTo:
			appendPoint(cmd.Pts[0].X, cmd.Pts[0].Y, false)
			appendPoint(cmd.Pts[1].X, cmd.Pts[1].Y, true)
		}
	}
	// drop an explicit closing point
	if n := len(cc); n > 1 && cc[0] == cc[n-1] {
		cc = cc[:n-1]
	}
	return cc
}

func glyphExtents(outlines glyf.Info) []funit.Rect16 {
	extents := make([]funit.Rect16, len(outlines))
	for i, g := range outlines {
		if g != nil {
			extents[i] = g.BBox()
		}
	}
	return extents
}

func pathExtent(paths []vector.Path) funit.Rect16 {
	var res funit.Rect16
	first := true
	for i := range paths {
		b := paths[i].Bounds()
		r := funit.Rect16{
			LLx: funit.Int16(math.Floor(b.XMin)),
			LLy: funit.Int16(math.Floor(b.YMin)),
			URx: funit.Int16(math.Ceil(b.XMax)),
			URy: funit.Int16(math.Ceil(b.YMax)),
		}
		if first {
			res = r
			first = false
		} else {
			res = unionRect(res, r)
		}
	}
	return res
}

func unionRect(a, b funit.Rect16) funit.Rect16 {
	if a == (funit.Rect16{}) {
		return b
	}
	if b == (funit.Rect16{}) {
		return a
	}
	if b.LLx < a.LLx {
		a.LLx = b.LLx
	}
	if b.LLy < a.LLy {
		a.LLy = b.LLy
	}
	if b.URx > a.URx {
		a.URx = b.URx
	}
	if b.URy > a.URy {
		a.URy = b.URy
	}
	return a
}
