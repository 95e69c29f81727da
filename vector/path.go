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

// Package vector converts bitmap glyph images into smooth vector
// outlines.  Outlines are sequences of move/line/quadratic/cubic
// commands in font space (y grows upwards), with inner contours
// marked as holes.
package vector

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Op is the type of a path command.
type Op uint8

// The path command types.  A path starts with OpMoveTo and every
// subpath ends with OpClose.
const (
	OpMoveTo Op = iota
	OpLineTo
	OpQuadTo
	OpCubeTo
	OpClose
)

// Command is a single path command.  The number of points depends on
// the operator: one for OpMoveTo and OpLineTo, two (control, end) for
// OpQuadTo, three (control 1, control 2, end) for OpCubeTo, and none
// for OpClose.
type Command struct {
	Op  Op
	Pts []vec.Vec2
}

// Path is one closed contour of a glyph.
type Path struct {
	Cmds []Command
	Hole bool
}

// Rect is an axis-aligned bounding box in font space.
type Rect struct {
	XMin, YMin, XMax, YMax float64
}

// IsZero reports whether the rectangle is the zero value.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Extend enlarges the rectangle to include the given point.
func (r *Rect) Extend(p vec.Vec2) {
	r.XMin = math.Min(r.XMin, p.X)
	r.YMin = math.Min(r.YMin, p.Y)
	r.XMax = math.Max(r.XMax, p.X)
	r.YMax = math.Max(r.YMax, p.Y)
}

// Bounds returns the bounding box of all path points, including
// control points.
func (p *Path) Bounds() Rect {
	var r Rect
	first := true
	for _, cmd := range p.Cmds {
		for _, pt := range cmd.Pts {
			if first {
				r = Rect{XMin: pt.X, YMin: pt.Y, XMax: pt.X, YMax: pt.Y}
				first = false
				continue
			}
			r.Extend(pt)
		}
	}
	return r
}

// Map returns a copy of the path with all points transformed by f.
func (p *Path) Map(f func(vec.Vec2) vec.Vec2) Path {
	cmds := make([]Command, len(p.Cmds))
	for i, cmd := range p.Cmds {
		pts := make([]vec.Vec2, len(cmd.Pts))
		for j, pt := range cmd.Pts {
			pts[j] = f(pt)
		}
		cmds[i] = Command{Op: cmd.Op, Pts: pts}
	}
	return Path{Cmds: cmds, Hole: p.Hole}
}

// Glyph is a vectorized glyph: all outlines of one character, plus its
// nominal size.  Coordinates start out in bitmap scale and are mapped
// to em units by the metrics stage.
type Glyph struct {
	Label   rune
	Paths   []Path
	Width   float64
	Height  float64
	Advance float64
}

// Bounds returns the combined bounding box of all paths.  For a glyph
// without paths the nominal width and height are used.
func (g *Glyph) Bounds() Rect {
	if len(g.Paths) == 0 {
		return Rect{XMax: g.Width, YMax: g.Height}
	}
	r := g.Paths[0].Bounds()
	for i := 1; i < len(g.Paths); i++ {
		b := g.Paths[i].Bounds()
		r.Extend(vec.Vec2{X: b.XMin, Y: b.YMin})
		r.Extend(vec.Vec2{X: b.XMax, Y: b.YMax})
	}
	return r
}

// Map returns a copy of the glyph with all points transformed by f.
// The nominal sizes are not changed.
func (g *Glyph) Map(f func(vec.Vec2) vec.Vec2) *Glyph {
	paths := make([]Path, len(g.Paths))
	for i := range g.Paths {
		paths[i] = g.Paths[i].Map(f)
	}
	return &Glyph{
		Label:   g.Label,
		Paths:   paths,
		Width:   g.Width,
		Height:  g.Height,
		Advance: g.Advance,
	}
}
