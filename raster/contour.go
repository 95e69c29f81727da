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

package raster

import (
	"image"
	"math"
	"sort"
)

// Contour is a traced border of an ink region.  Points are listed in
// tracing order; the polygon is implicitly closed.  Contours are stored
// in a flat slice and refer to their enclosing contour by index.
type Contour struct {
	Points []image.Point
	Hole   bool
	Parent int // index of the enclosing contour, or -1
}

// Neighbour offsets in clockwise order, starting east, for a raster
// with y growing downwards.
var cwOffsets = [8]image.Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// FindContours traces all borders of the ink regions of b using the
// Suzuki-Abe border following algorithm and returns them together with
// their nesting hierarchy.  Outer borders have Hole == false; borders
// of enclosed background regions have Hole == true and point to their
// outer contour via Parent.
func FindContours(b *Binary) []Contour {
	w, h := b.Width+2, b.Height+2
	f := make([]int32, w*h)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Pix[y*b.Width+x] == 0 {
				f[(y+1)*w+x+1] = 1
			}
		}
	}

	type borderInfo struct {
		hole   bool
		parent int32 // NBD of parent border
	}
	// NBD 1 is the frame of the picture, treated as a hole border.
	borders := []borderInfo{{hole: true, parent: 0}}
	var contours []Contour

	nbd := int32(1)
	for i := 1; i < h-1; i++ {
		lnbd := int32(1)
		for j := 1; j < w-1; j++ {
			fij := f[i*w+j]
			if fij == 0 {
				continue
			}

			var from int // index into cwOffsets pointing at the zero neighbour
			isHole := false
			trace := false
			if fij == 1 && f[i*w+j-1] == 0 {
				trace = true
				from = 4 // west
			} else if fij >= 1 && f[i*w+j+1] == 0 {
				trace = true
				from = 0 // east
				isHole = true
				if fij > 1 {
					lnbd = fij
				}
			}

			if trace {
				nbd++
				prev := borders[lnbd-1]
				parent := lnbd
				if prev.hole == isHole {
					parent = prev.parent
				}
				borders = append(borders, borderInfo{hole: isHole, parent: parent})

				pts := followBorder(f, w, i, j, from, nbd)
				parentIdx := int(parent) - 2 // -1 for the frame
				contours = append(contours, Contour{
					Points: shiftPoints(pts),
					Hole:   isHole,
					Parent: parentIdx,
				})
			}

			if f[i*w+j] != 1 {
				lnbd = f[i*w+j]
				if lnbd < 0 {
					lnbd = -lnbd
				}
			}
		}
	}
	return contours
}

// followBorder traces one border starting at (i, j).  The from argument
// gives the direction of the background pixel which triggered the
// trace.  Pixels are marked in f according to the Suzuki-Abe rules.
func followBorder(f []int32, w, i, j, from int, nbd int32) []image.Point {
	// find the first nonzero neighbour, searching clockwise from `from`
	i1, j1 := -1, -1
	for k := 0; k < 8; k++ {
		d := cwOffsets[(from+k)%8]
		if f[(i+d.Y)*w+j+d.X] != 0 {
			i1, j1 = i+d.Y, j+d.X
			break
		}
	}
	if i1 < 0 {
		// isolated pixel
		f[i*w+j] = -nbd
		return []image.Point{{X: j, Y: i}}
	}

	var pts []image.Point
	i2, j2 := i1, j1
	i3, j3 := i, j
	for {
		// search counterclockwise around (i3, j3), starting just after
		// the direction of (i2, j2)
		start := dirIndex(j2-j3, i2-i3)
		i4, j4 := -1, -1
		examinedEastZero := false
		for k := 1; k <= 8; k++ {
			d := cwOffsets[((start-k)%8+8)%8]
			yy, xx := i3+d.Y, j3+d.X
			if f[yy*w+xx] != 0 {
				i4, j4 = yy, xx
				break
			}
			if d.X == 1 && d.Y == 0 {
				examinedEastZero = true
			}
		}

		if examinedEastZero {
			f[i3*w+j3] = -nbd
		} else if f[i3*w+j3] == 1 {
			f[i3*w+j3] = nbd
		}
		pts = append(pts, image.Point{X: j3, Y: i3})

		if i4 == i && j4 == j && i3 == i1 && j3 == j1 {
			break
		}
		i2, j2 = i3, j3
		i3, j3 = i4, j4
	}
	return pts
}

func dirIndex(dx, dy int) int {
	for k, d := range cwOffsets {
		if d.X == dx && d.Y == dy {
			return k
		}
	}
	return 0
}

func shiftPoints(pts []image.Point) []image.Point {
	for k := range pts {
		pts[k].X--
		pts[k].Y--
	}
	return pts
}

// Outer returns the contours which are not holes.
func Outer(contours []Contour) []Contour {
	var res []Contour
	for _, c := range contours {
		if !c.Hole {
			res = append(res, c)
		}
	}
	return res
}

// Area returns the area enclosed by the contour, computed with the
// shoelace formula.
func (c *Contour) Area() float64 {
	pts := c.Points
	n := len(pts)
	if n < 3 {
		return 0
	}
	var sum float64
	for k := 0; k < n; k++ {
		p, q := pts[k], pts[(k+1)%n]
		sum += float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the length of the closed contour polygon.
func (c *Contour) Perimeter() float64 {
	pts := c.Points
	n := len(pts)
	if n < 2 {
		return 0
	}
	var sum float64
	for k := 0; k < n; k++ {
		p, q := pts[k], pts[(k+1)%n]
		dx := float64(q.X - p.X)
		dy := float64(q.Y - p.Y)
		sum += math.Hypot(dx, dy)
	}
	return sum
}

// BoundingBox returns the smallest rectangle containing all contour
// points.  The Max point is exclusive, as usual for image.Rectangle.
func (c *Contour) BoundingBox() image.Rectangle {
	if len(c.Points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c.Points[0], Max: c.Points[0]}
	for _, p := range c.Points[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	r.Max.X++
	r.Max.Y++
	return r
}

// ConvexHull returns the convex hull of the contour points, using
// Andrew's monotone chain algorithm.
func (c *Contour) ConvexHull() []image.Point {
	pts := make([]image.Point, len(c.Points))
	copy(pts, c.Points)
	sort.Slice(pts, func(a, b int) bool {
		if pts[a].X != pts[b].X {
			return pts[a].X < pts[b].X
		}
		return pts[a].Y < pts[b].Y
	})
	// drop duplicates
	uniq := pts[:0]
	for k, p := range pts {
		if k == 0 || p != pts[k-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}

	cross := func(o, a, b image.Point) int64 {
		return int64(a.X-o.X)*int64(b.Y-o.Y) - int64(a.Y-o.Y)*int64(b.X-o.X)
	}
	var hull []image.Point
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for k := len(pts) - 2; k >= 0; k-- {
		p := pts[k]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// HullArea returns the area of the convex hull of the contour.
func (c *Contour) HullArea() float64 {
	hull := c.ConvexHull()
	h := Contour{Points: hull}
	return h.Area()
}

// CompressColinear removes interior points of horizontal, vertical and
// diagonal runs, leaving only the run endpoints.  The result
// approximates the vertex count a chain-code compression would give.
func (c *Contour) CompressColinear() []image.Point {
	pts := c.Points
	n := len(pts)
	if n < 3 {
		return pts
	}
	var res []image.Point
	for k := 0; k < n; k++ {
		prev := pts[(k-1+n)%n]
		cur := pts[k]
		next := pts[(k+1)%n]
		d1 := image.Pt(cur.X-prev.X, cur.Y-prev.Y)
		d2 := image.Pt(next.X-cur.X, next.Y-cur.Y)
		if d1 != d2 {
			res = append(res, cur)
		}
	}
	if len(res) == 0 {
		res = append(res, pts[0])
	}
	return res
}
