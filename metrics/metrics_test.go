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

package metrics

import (
	"context"
	"math"
	"testing"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/handfont/vector"
)

// box creates a rectangular test glyph in bitmap scale.
func box(label rune, x0, y0, x1, y1 float64) *vector.Glyph {
	pts := []vec.Vec2{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	}
	p := vector.Path{Cmds: []vector.Command{
		{Op: vector.OpMoveTo, Pts: pts[:1]},
		{Op: vector.OpLineTo, Pts: pts[1:2]},
		{Op: vector.OpLineTo, Pts: pts[2:3]},
		{Op: vector.OpLineTo, Pts: pts[3:4]},
		{Op: vector.OpClose},
	}}
	return &vector.Glyph{
		Label:  label,
		Paths:  []vector.Path{p},
		Width:  x1 - x0,
		Height: y1 - y0,
	}
}

func calculate(t *testing.T, glyphs []*vector.Glyph) (*Metrics, []*vector.Glyph) {
	t.Helper()
	m, normalized, err := NewCalculator(1000).Calculate(context.Background(), glyphs)
	if err != nil {
		t.Fatal(err)
	}
	return m, normalized
}

// TestUppercaseSheet mirrors the uppercase-only scenario: all glyphs
// are 100 px tall rectangles, so the cap height must come out at 70%
// of the em.
func TestUppercaseSheet(t *testing.T) {
	var glyphs []*vector.Glyph
	for _, r := range "ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
		glyphs = append(glyphs, box(r, 0, 0, 60, 100))
	}

	m, normalized, err := NewCalculator(1000).Calculate(context.Background(), glyphs)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(m.CapHeight)-700) > 1 {
		t.Errorf("cap height %d, want 700", m.CapHeight)
	}
	if m.Descent != -200 {
		t.Errorf("descent %d, want the -200 fallback", m.Descent)
	}
	for _, g := range normalized {
		b := g.Bounds()
		if math.Abs(b.YMin) > 1e-6 {
			t.Errorf("glyph %q does not sit on the baseline: yMin = %g", g.Label, b.YMin)
		}
		if float64(m.Ascent) < b.YMax-1e-6 {
			t.Errorf("glyph %q exceeds the ascent", g.Label)
		}
	}

	// advance = width + 2 * 3% of em
	wantAdvance := 60.0*700/100 + 2*30
	if math.Abs(float64(m.Widths['H'])-wantAdvance) > 2 {
		t.Errorf("advance %d, want about %g", m.Widths['H'], wantAdvance)
	}
}

// TestDescenderPlacement checks that descender glyphs are aligned by
// the x-height line and reach below the baseline.
func TestDescenderPlacement(t *testing.T) {
	var glyphs []*vector.Glyph
	for _, r := range "EFHILTZ" {
		glyphs = append(glyphs, box(r, 0, 0, 60, 100))
	}
	// x-height glyphs: 60 px tall
	for _, r := range "acemnorsuvwxz" {
		glyphs = append(glyphs, box(r, 0, 0, 50, 60))
	}
	// descender glyphs: 90 px tall (60 above the x-line, 30 below)
	for _, r := range "gpqy" {
		glyphs = append(glyphs, box(r, 0, 0, 50, 90))
	}

	m, normalized := calculate(t, glyphs)

	byLabel := make(map[rune]*vector.Glyph)
	for _, g := range normalized {
		byLabel[g.Label] = g
	}

	// scale is 700/100 px; the descender part is 30 px deep
	scale := 700.0 / 100
	wantDescent := -30 * scale
	if math.Abs(float64(m.Descent)-wantDescent) > 2 {
		t.Errorf("descent %d, want about %g", m.Descent, wantDescent)
	}

	g := byLabel['g']
	b := g.Bounds()
	if b.YMin >= 0 {
		t.Error("descender does not reach below the baseline")
	}
	if math.Abs(b.YMax-60*scale) > 1 {
		t.Errorf("descender top at %g, want the x-height line", b.YMax)
	}

	a := byLabel['a']
	if math.Abs(a.Bounds().YMin) > 1e-6 {
		t.Error("x-height glyph must sit on the baseline")
	}

	// invariant: descent <= 0 <= xHeight <= capHeight <= ascent
	if !(m.Descent <= 0 && 0 <= m.XHeight && m.XHeight <= m.CapHeight && m.CapHeight <= m.Ascent) {
		t.Errorf("metric ordering violated: %d %d %d %d",
			m.Descent, m.XHeight, m.CapHeight, m.Ascent)
	}
}

// TestJDotCompensation checks that the dot of the j does not push the
// descender alignment off.
func TestJDotCompensation(t *testing.T) {
	var glyphs []*vector.Glyph
	glyphs = append(glyphs, box('H', 0, 0, 60, 100))
	for _, r := range "acemnorsuvwxz" {
		glyphs = append(glyphs, box(r, 0, 0, 50, 60))
	}
	for _, r := range "gpqy" {
		glyphs = append(glyphs, box(r, 0, 0, 50, 90))
	}
	// j is 15 px taller than its descender peers because of the dot
	glyphs = append(glyphs, box('j', 0, 0, 20, 105))

	m, normalized := calculate(t, glyphs)

	var j, g *vector.Glyph
	for _, gl := range normalized {
		switch gl.Label {
		case 'j':
			j = gl
		case 'g':
			g = gl
		}
	}
	if j == nil || g == nil {
		t.Fatal("glyphs missing")
	}
	// the descender parts must align within a few units
	if math.Abs(j.Bounds().YMin-g.Bounds().YMin) > 5 {
		t.Errorf("j bottom %g does not match g bottom %g",
			j.Bounds().YMin, g.Bounds().YMin)
	}
	_ = m
}

// TestKernOverrides checks the fixed kerning overrides.
func TestKernOverrides(t *testing.T) {
	var glyphs []*vector.Glyph
	for _, r := range "ALTVWY" {
		glyphs = append(glyphs, box(r, 0, 0, 60, 100))
	}
	for _, r := range "aeo" {
		glyphs = append(glyphs, box(r, 0, 0, 50, 60))
	}

	m, _ := calculate(t, glyphs)

	cases := []struct {
		pair Pair
		want funit.Int16
	}{
		{Pair{'A', 'V'}, -125},
		{Pair{'A', 'W'}, -125},
		{Pair{'L', 'T'}, -150},
		{Pair{'L', 'V'}, -150},
		{Pair{'T', 'a'}, -125},
		{Pair{'T', 'e'}, -125},
	}
	for _, c := range cases {
		got, ok := m.Kerning[c.pair]
		if !ok {
			t.Errorf("pair %q%q missing", c.pair.Left, c.pair.Right)
			continue
		}
		if got != c.want {
			t.Errorf("kern %q%q = %d, want %d", c.pair.Left, c.pair.Right, got, c.want)
		}
	}
}

// TestKernThreshold checks that tiny kern values are suppressed.
func TestKernThreshold(t *testing.T) {
	var glyphs []*vector.Glyph
	for _, r := range "AV" {
		glyphs = append(glyphs, box(r, 0, 0, 60, 100))
	}
	calc := NewCalculator(1000)
	calc.KerningPct = 50 // absurdly high threshold: 500 units
	m, _, err := calc.Calculate(context.Background(), glyphs)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Kerning) != 0 {
		t.Errorf("kerning %v not suppressed", m.Kerning)
	}
}

// TestSingleGlyph checks the fallback metrics for a one-glyph font.
func TestSingleGlyph(t *testing.T) {
	m, _ := calculate(t, []*vector.Glyph{box('#', 0, 0, 60, 80)})

	if m.XHeight != 500 {
		t.Errorf("x-height fallback %d, want 500", m.XHeight)
	}
	if m.Descent != -200 {
		t.Errorf("descent fallback %d, want -200", m.Descent)
	}
	if m.CapHeight < m.XHeight || m.Ascent < m.CapHeight {
		t.Error("metric ordering violated")
	}
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var glyphs []*vector.Glyph
	for _, r := range "AV" {
		glyphs = append(glyphs, box(r, 0, 0, 60, 100))
	}
	_, _, err := NewCalculator(1000).Calculate(ctx, glyphs)
	if err == nil {
		t.Error("cancellation not observed")
	}
}
