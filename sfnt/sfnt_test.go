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
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/goki/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/handfont/sfnt/glyph"
	"seehuhn.de/go/handfont/sfnt/header"
	"seehuhn.de/go/handfont/vector"
)

func linePath(pts ...vec.Vec2) vector.Path {
	var p vector.Path
	p.Cmds = append(p.Cmds, vector.Command{Op: vector.OpMoveTo, Pts: pts[:1]})
	for i := 1; i < len(pts); i++ {
		p.Cmds = append(p.Cmds, vector.Command{Op: vector.OpLineTo, Pts: pts[i : i+1]})
	}
	p.Cmds = append(p.Cmds, vector.Command{Op: vector.OpClose})
	return p
}

func testFont() *Font {
	info := &Info{
		FamilyName: "Scribble",
		StyleName:  "Regular",
		Version:    "1.000",
		UnitsPerEm: 1000,
		Ascent:     770,
		Descent:    -200,
		CapHeight:  700,
		XHeight:    480,

		CreationTime:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		ModificationTime: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	square := linePath(
		vec.Vec2{X: 30, Y: 0}, vec.Vec2{X: 530, Y: 0},
		vec.Vec2{X: 530, Y: 700}, vec.Vec2{X: 30, Y: 700},
	)
	wedge := linePath(
		vec.Vec2{X: 30, Y: 700}, vec.Vec2{X: 530, Y: 700},
		vec.Vec2{X: 280, Y: 0},
	)
	curved := vector.Path{Cmds: []vector.Command{
		{Op: vector.OpMoveTo, Pts: []vec.Vec2{{X: 30, Y: 0}}},
		{Op: vector.OpCubeTo, Pts: []vec.Vec2{
			{X: 30, Y: 400}, {X: 530, Y: 400}, {X: 530, Y: 0},
		}},
		{Op: vector.OpClose},
	}}

	f := &Font{
		Info: info,
		Kern: map[glyph.Pair]funit.Int16{},
	}
	f.Glyphs = append(f.Glyphs,
		&Glyph{Name: ".notdef", Advance: 500, Paths: NotdefOutline(1000, 700)},
		&Glyph{Name: "space", Rune: ' ', Advance: 250},
		&Glyph{Name: "A", Rune: 'A', Advance: 560, Paths: []vector.Path{square}},
		&Glyph{Name: "O", Rune: 'O', Advance: 560, Paths: []vector.Path{curved}},
		&Glyph{Name: "V", Rune: 'V', Advance: 560, Paths: []vector.Path{wedge}},
	)
	f.Kern[glyph.Pair{Left: 2, Right: 4}] = -125 // A before V
	return f
}

func TestTrueTypeReadBack(t *testing.T) {
	f := testFont()
	buf := &bytes.Buffer{}
	if err := f.WriteTrueType(buf); err != nil {
		t.Fatal(err)
	}

	parsed, err := truetype.Parse(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got := parsed.FUnitsPerEm(); got != 1000 {
		t.Errorf("units per em %d", got)
	}

	scale := fixed.Int26_6(parsed.FUnitsPerEm())
	for _, r := range "AOV " {
		idx := parsed.Index(r)
		if idx == 0 {
			t.Errorf("%q not mapped", r)
		}
	}

	a := parsed.Index('A')
	hm := parsed.HMetric(scale, a)
	if hm.AdvanceWidth != 560 {
		t.Errorf("advance %d, want 560", hm.AdvanceWidth)
	}

	v := parsed.Index('V')
	if got := parsed.Kern(scale, a, v); got != -125 {
		t.Errorf("kern %d, want -125", got)
	}

	// walking the outlines must only ever yield quadratic data
	var gb truetype.GlyphBuf
	for _, r := range "AOV" {
		err := gb.Load(parsed, scale, parsed.Index(r), font.HintingNone)
		if err != nil {
			t.Fatalf("%q: %v", r, err)
		}
		if len(gb.Points) < 3 || len(gb.Ends) < 1 {
			t.Errorf("%q has no outline", r)
		}
	}
}

// TestTrueTypeIdempotent reads the emitted file and writes it again;
// the result must be byte-identical.
func TestTrueTypeIdempotent(t *testing.T) {
	f := testFont()
	buf1 := &bytes.Buffer{}
	if err := f.WriteTrueType(buf1); err != nil {
		t.Fatal(err)
	}

	r := bytes.NewReader(buf1.Bytes())
	info, err := header.ReadSfntHeader(r)
	if err != nil {
		t.Fatal(err)
	}
	tables := make(map[string][]byte, len(info.Toc))
	for tag := range info.Toc {
		body, err := info.ReadTableBytes(r, tag)
		if err != nil {
			t.Fatal(err)
		}
		tables[tag] = body
	}

	buf2 := &bytes.Buffer{}
	if _, err := header.Write(buf2, info.ScalerType, tables); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf1.Bytes(), buf2.Bytes()) {
		t.Error("re-emitted font differs")
	}
}

func TestCFFContainer(t *testing.T) {
	f := testFont()
	buf := &bytes.Buffer{}
	if err := f.WriteCFF(buf); err != nil {
		t.Fatal(err)
	}

	r := bytes.NewReader(buf.Bytes())
	info, err := header.ReadSfntHeader(r)
	if err != nil {
		t.Fatal(err)
	}
	if info.ScalerType != header.ScalerTypeCFF {
		t.Errorf("scaler type %08x", info.ScalerType)
	}
	cffData, err := info.ReadTableBytes(r, "CFF ")
	if err != nil {
		t.Fatal(err)
	}
	if len(cffData) == 0 || cffData[0] != 1 {
		t.Error("implausible CFF table")
	}
	if _, ok := info.Toc["glyf"]; ok {
		t.Error("CFF font contains a glyf table")
	}

	maxpData, err := info.ReadTableBytes(r, "maxp")
	if err != nil {
		t.Fatal(err)
	}
	if len(maxpData) != 6 {
		t.Errorf("maxp length %d, want version 0.5", len(maxpData))
	}
}

func TestValidate(t *testing.T) {
	f := testFont()
	f.Glyphs[0].Name = "notdef"
	err := f.WriteTrueType(&bytes.Buffer{})
	if err == nil {
		t.Fatal("invalid roster accepted")
	}
	var asmErr *AssemblyError
	if !errors.As(err, &asmErr) {
		t.Fatalf("unexpected error type %T", err)
	}
}

func TestGlyphName(t *testing.T) {
	cases := map[rune]string{
		'A': "A", 'z': "z", ' ': "space", '!': "exclam",
		'\\': "backslash", '~': "asciitilde", 'é': "uni00E9",
	}
	for r, want := range cases {
		if got := GlyphName(r); got != want {
			t.Errorf("GlyphName(%q) = %q, want %q", r, got, want)
		}
	}
}
