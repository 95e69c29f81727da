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

// Package sfnt assembles OpenType font files from vectorized glyph
// outlines and font metrics.  Both TrueType ("glyf") and CFF outlines
// are supported; the individual tables are built by the sub-packages.
package sfnt

import (
	"fmt"
	"strings"
	"time"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/handfont/sfnt/glyph"
	"seehuhn.de/go/handfont/sfnt/head"
	"seehuhn.de/go/handfont/vector"
)

// Info holds the naming and vertical metric information of a font.
type Info struct {
	FamilyName string
	StyleName  string
	Version    string

	UnitsPerEm uint16

	Ascent    funit.Int16
	Descent   funit.Int16 // negative
	LineGap   funit.Int16
	CapHeight funit.Int16
	XHeight   funit.Int16

	CreationTime     time.Time
	ModificationTime time.Time
}

// FullName returns the full font name, like "Scribble Regular".
func (info *Info) FullName() string {
	return info.FamilyName + " " + info.StyleName
}

// PostScriptName returns the PostScript name of the font, with all
// spaces stripped.
func (info *Info) PostScriptName() string {
	name := info.FamilyName + "-" + info.StyleName
	return strings.ReplaceAll(name, " ", "")
}

// UniqueID returns the unique font identifier for the "name" table.
func (info *Info) UniqueID() string {
	return info.Version + ";" + info.PostScriptName()
}

// fontRevision parses the version string, falling back to 1.0.
func (info *Info) fontRevision() head.Version {
	v, err := head.VersionFromString(info.Version)
	if err != nil {
		return head.Version(0x00010000)
	}
	return v
}

// Glyph is one glyph of the font roster.  Paths are cubic outlines in
// font units with the baseline at y=0.
type Glyph struct {
	Name    string
	Rune    rune // 0 for unmapped glyphs like .notdef
	Advance funit.Int16
	Paths   []vector.Path
}

// Font is a complete font, ready to be written.  Glyph 0 must be
// .notdef; glyph order determines the glyph IDs.
type Font struct {
	*Info
	Glyphs []*Glyph
	Kern   map[glyph.Pair]funit.Int16
}

// AssemblyError reports that a font table could not be built.
type AssemblyError struct {
	Table string
	Err   error
}

func (err *AssemblyError) Error() string {
	return fmt.Sprintf("cannot assemble %q table: %v", err.Table, err.Err)
}

func (err *AssemblyError) Unwrap() error {
	return err.Err
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return len(f.Glyphs)
}

// GID returns the glyph ID for a rune, or false if the rune is not
// mapped.
func (f *Font) GID(r rune) (glyph.ID, bool) {
	if r == 0 {
		return 0, false
	}
	for i, g := range f.Glyphs {
		if g.Rune == r {
			return glyph.ID(i), true
		}
	}
	return 0, false
}

// validate checks the invariants common to both writers.
func (f *Font) validate() error {
	if len(f.Glyphs) == 0 {
		return &AssemblyError{Table: "maxp", Err: fmt.Errorf("no glyphs")}
	}
	if len(f.Glyphs) > 0xFFFF {
		return &AssemblyError{Table: "maxp", Err: fmt.Errorf("too many glyphs")}
	}
	if f.Glyphs[0].Name != ".notdef" {
		return &AssemblyError{Table: "glyf", Err: fmt.Errorf("glyph 0 must be .notdef")}
	}
	if f.UnitsPerEm == 0 {
		return &AssemblyError{Table: "head", Err: fmt.Errorf("units per em is zero")}
	}
	for _, g := range f.Glyphs {
		if g.Advance < 0 {
			return &AssemblyError{Table: "hmtx", Err: fmt.Errorf("glyph %q has negative advance", g.Name)}
		}
	}
	return nil
}

// NotdefOutline returns the standard .notdef shape: a rectangle half
// an em wide and capHeight tall, with a rectangular hole inset by
// max(width/10, 20) units.
func NotdefOutline(unitsPerEm uint16, capHeight funit.Int16) []vector.Path {
	w := float64(unitsPerEm) / 2
	h := float64(capHeight)
	if h <= 0 {
		h = 0.7 * float64(unitsPerEm)
	}
	inset := w / 10
	if inset < 20 {
		inset = 20
	}

	outer := rectPath(0, 0, w, h, false)
	inner := rectPath(inset, inset, w-inset, h-inset, true)
	inner.Hole = true
	return []vector.Path{outer, inner}
}

// rectPath builds a rectangular path.  The reverse flag flips the
// winding so that inner rectangles act as holes under the nonzero
// fill rule.
func rectPath(x0, y0, x1, y1 float64, reverse bool) vector.Path {
	pts := []vec.Vec2{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	}
	if reverse {
		pts = []vec.Vec2{
			{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0},
		}
	}
	var p vector.Path
	p.Cmds = append(p.Cmds, vector.Command{Op: vector.OpMoveTo, Pts: pts[:1]})
	for i := 1; i < len(pts); i++ {
		p.Cmds = append(p.Cmds, vector.Command{Op: vector.OpLineTo, Pts: pts[i : i+1]})
	}
	p.Cmds = append(p.Cmds, vector.Command{Op: vector.OpClose})
	return p
}
