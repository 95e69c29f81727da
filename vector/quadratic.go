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

package vector

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// maxSplitDepth bounds the recursion of the cubic-to-quadratic
// conversion.  At depth 10 a cubic is split into 1024 pieces, far
// beyond what any glyph outline needs.
const maxSplitDepth = 10

// ToQuadratic returns a copy of the path with all cubic segments
// replaced by quadratic ones.  Each replacement deviates from the
// original curve by at most maxErr units.
func (p *Path) ToQuadratic(maxErr float64) Path {
	var cmds []Command
	var cur vec.Vec2
	for _, cmd := range p.Cmds {
		switch cmd.Op {
		case OpCubeTo:
			cmds = append(cmds, cubicToQuads(cur, cmd.Pts[0], cmd.Pts[1], cmd.Pts[2], maxErr, 0)...)
			cur = cmd.Pts[2]
		default:
			cmds = append(cmds, cmd)
			if len(cmd.Pts) > 0 {
				cur = cmd.Pts[len(cmd.Pts)-1]
			}
		}
	}
	return Path{Cmds: cmds, Hole: p.Hole}
}

// cubicToQuads approximates one cubic Bezier segment by quadratic
// segments.  A single quadratic with control point
// (3(p1+p2) - p0 - p3)/4 is used whenever its error bound
// sqrt(3)/36 * |p3 - 3 p2 + 3 p1 - p0| is small enough; otherwise the
// cubic is subdivided at its midpoint.  When the recursion budget runs
// out, the midpoint of the two control points serves as a last-resort
// control point.
func cubicToQuads(p0, p1, p2, p3 vec.Vec2, maxErr float64, depth int) []Command {
	dx := p3.X - 3*p2.X + 3*p1.X - p0.X
	dy := p3.Y - 3*p2.Y + 3*p1.Y - p0.Y
	err := math.Sqrt(3) / 36 * math.Hypot(dx, dy)

	if err <= maxErr || depth >= maxSplitDepth {
		var ctrl vec.Vec2
		if err <= maxErr {
			ctrl = vec.Vec2{
				X: (3*(p1.X+p2.X) - p0.X - p3.X) / 4,
				Y: (3*(p1.Y+p2.Y) - p0.Y - p3.Y) / 4,
			}
		} else {
			ctrl = vec.Vec2{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}
		}
		return []Command{{Op: OpQuadTo, Pts: []vec.Vec2{ctrl, p3}}}
	}

	// de Casteljau split at t = 1/2
	mid := func(a, b vec.Vec2) vec.Vec2 {
		return vec.Vec2{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	}
	q0 := mid(p0, p1)
	q1 := mid(p1, p2)
	q2 := mid(p2, p3)
	r0 := mid(q0, q1)
	r1 := mid(q1, q2)
	s := mid(r0, r1)

	res := cubicToQuads(p0, q0, r0, s, maxErr, depth+1)
	return append(res, cubicToQuads(s, r1, q2, p3, maxErr, depth+1)...)
}
