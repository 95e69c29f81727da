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

// douglasPeucker simplifies a closed polyline with the Douglas-Peucker
// algorithm.  The closing edge is made explicit during simplification
// and removed again afterwards.
func douglasPeucker(pts []vec.Vec2, eps float64) []vec.Vec2 {
	if len(pts) < 3 || eps <= 0 {
		return pts
	}
	closed := append(append([]vec.Vec2(nil), pts...), pts[0])
	res := dpRec(closed, eps)
	if len(res) > 1 && res[0] == res[len(res)-1] {
		res = res[:len(res)-1]
	}
	return res
}

func dpRec(pts []vec.Vec2, eps float64) []vec.Vec2 {
	if len(pts) < 3 {
		return pts
	}
	a, b := pts[0], pts[len(pts)-1]
	maxDist := 0.0
	maxIdx := 0
	for i := 1; i < len(pts)-1; i++ {
		d := perpendicularDistance(pts[i], a, b)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= eps {
		return []vec.Vec2{a, b}
	}
	left := dpRec(pts[:maxIdx+1], eps)
	right := dpRec(pts[maxIdx:], eps)
	return append(left[:len(left)-1], right...)
}

func perpendicularDistance(p, a, b vec.Vec2) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / l
}

// fitOutline converts a simplified contour into path commands.  The
// polyline is split at corner vertices; the stretches between corners
// are fitted with cubic Bezier segments.
func fitOutline(pts []vec.Vec2, cornerThresholdDeg float64) []Command {
	if len(pts) < 2 {
		return nil
	}
	cmds := []Command{{Op: OpMoveTo, Pts: []vec.Vec2{pts[0]}}}

	corners := detectCorners(pts, cornerThresholdDeg)
	corners = append(corners, len(pts)-1)

	start := 0
	for _, ci := range corners {
		run := pts[start : ci+1]
		if len(run) >= 2 {
			cmds = append(cmds, fitRun(run)...)
		}
		start = ci
	}

	cmds = append(cmds, Command{Op: OpClose})
	return cmds
}

// detectCorners returns the indices of vertices whose interior angle is
// below the threshold.
func detectCorners(pts []vec.Vec2, thresholdDeg float64) []int {
	if len(pts) < 3 {
		return nil
	}
	threshold := thresholdDeg * math.Pi / 180
	var corners []int
	for i := 1; i < len(pts)-1; i++ {
		if angleAt(pts[i-1], pts[i], pts[i+1]) < threshold {
			corners = append(corners, i)
		}
	}
	return corners
}

// angleAt returns the interior angle at p1 formed by p0 and p2.
func angleAt(p0, p1, p2 vec.Vec2) float64 {
	v1 := vec.Vec2{X: p0.X - p1.X, Y: p0.Y - p1.Y}
	v2 := vec.Vec2{X: p2.X - p1.X, Y: p2.Y - p1.Y}
	l1 := math.Hypot(v1.X, v1.Y)
	l2 := math.Hypot(v2.X, v2.Y)
	if l1 == 0 || l2 == 0 {
		return math.Pi
	}
	cos := (v1.X*v2.X + v1.Y*v2.Y) / (l1 * l2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}

// fitRun fits one corner-free stretch of the contour.  Two points give
// a line, three give a quadratic through the middle point, longer runs
// are fitted with cubics from central-difference tangents.
func fitRun(pts []vec.Vec2) []Command {
	switch len(pts) {
	case 0, 1:
		return nil
	case 2:
		return []Command{{Op: OpLineTo, Pts: []vec.Vec2{pts[1]}}}
	case 3:
		return []Command{{Op: OpQuadTo, Pts: []vec.Vec2{pts[1], pts[2]}}}
	}

	if len(pts) > 20 {
		pts = resample(pts, max(8, (len(pts)+2)/3))
	}

	tangents := unitTangents(pts)
	var cmds []Command
	n := len(pts)
	i := 0
	for i < n-1 {
		j := min(i+3, n-1)
		p0, p3 := pts[i], pts[j]
		dist := math.Hypot(p3.X-p0.X, p3.Y-p0.Y) / 3
		c1 := vec.Vec2{X: p0.X + tangents[i].X*dist, Y: p0.Y + tangents[i].Y*dist}
		c2 := vec.Vec2{X: p3.X - tangents[j].X*dist, Y: p3.Y - tangents[j].Y*dist}
		cmds = append(cmds, Command{Op: OpCubeTo, Pts: []vec.Vec2{c1, c2, p3}})
		i += max(1, min(3, n-i-1))
	}
	return cmds
}

// resample spaces the points of a polyline evenly by arc length.
func resample(pts []vec.Vec2, target int) []vec.Vec2 {
	if len(pts) <= target || target < 2 {
		return pts
	}
	arc := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		arc[i] = arc[i-1] + math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	total := arc[len(arc)-1]
	if total == 0 {
		return []vec.Vec2{pts[0], pts[len(pts)-1]}
	}

	res := make([]vec.Vec2, 0, target)
	res = append(res, pts[0])
	step := total / float64(target-1)
	j := 1
	for i := 1; i < target-1; i++ {
		want := float64(i) * step
		for j < len(arc) && arc[j] < want {
			j++
		}
		if j >= len(arc) {
			break
		}
		t := (want - arc[j-1]) / (arc[j] - arc[j-1])
		res = append(res, vec.Vec2{
			X: pts[j-1].X + t*(pts[j].X-pts[j-1].X),
			Y: pts[j-1].Y + t*(pts[j].Y-pts[j-1].Y),
		})
	}
	res = append(res, pts[len(pts)-1])
	return res
}

// unitTangents computes unit tangent vectors at each point, using
// central differences in the interior and one-sided differences at the
// ends.
func unitTangents(pts []vec.Vec2) []vec.Vec2 {
	n := len(pts)
	res := make([]vec.Vec2, n)
	for i := range pts {
		var dx, dy float64
		switch i {
		case 0:
			dx, dy = pts[1].X-pts[0].X, pts[1].Y-pts[0].Y
		case n - 1:
			dx, dy = pts[n-1].X-pts[n-2].X, pts[n-1].Y-pts[n-2].Y
		default:
			dx, dy = pts[i+1].X-pts[i-1].X, pts[i+1].Y-pts[i-1].Y
		}
		l := math.Hypot(dx, dy)
		if l > 0 {
			res[i] = vec.Vec2{X: dx / l, Y: dy / l}
		} else {
			res[i] = vec.Vec2{X: 1, Y: 0}
		}
	}
	return res
}
