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

package segment

import (
	"image"
	"sort"
)

// mergeRow applies the three intra-row merge passes:
//
//  1. adjacent narrow components (quotation marks, colons),
//  2. vertically stacked components (i and j dots),
//  3. diagonally arranged components with horizontal overlap (%).
func mergeRow(comps []*component) []*component {
	if len(comps) < 2 {
		return comps
	}
	comps = mergeAdjacentNarrow(comps)
	comps = mergeStacked(comps)
	comps = mergeDiagonal(comps)
	return comps
}

func combine(a, b *component) *component {
	rep := a.contour
	if b.contour != nil && (rep == nil || b.area > a.area) {
		rep = b.contour
	}
	return &component{
		box:     a.box.Union(b.box),
		area:    a.area + b.area,
		contour: rep,
		row:     a.row,
	}
}

// mergeAdjacentNarrow joins runs of side-by-side narrow components.
// Narrow means less than 75% of the median width in the row.  Two short
// marks at the same height (the halves of a double quote) may be up to
// 1.5 widths apart; otherwise the gap must stay below 0.6 widths.  Two
// tall narrows whose union would be wider than 1.3 medians are never
// joined, so that adjacent parentheses survive.
func mergeAdjacentNarrow(comps []*component) []*component {
	widths := make([]int, len(comps))
	heights := make([]int, len(comps))
	for i, c := range comps {
		widths[i] = c.box.Dx()
		heights[i] = c.box.Dy()
	}
	medianW := medianInt(widths)
	medianH := medianInt(heights)
	narrow := func(c *component) bool {
		return float64(c.box.Dx()) < float64(medianW)*0.75
	}

	sorted := append([]*component(nil), comps...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].box.Min.X < sorted[j].box.Min.X
	})

	var res []*component
	i := 0
	for i < len(sorted) {
		cur := sorted[i]
		if !narrow(cur) {
			res = append(res, cur)
			i++
			continue
		}
		group := cur
		j := i + 1
		for j < len(sorted) {
			next := sorted[j]
			if !narrow(next) {
				break
			}
			gap := next.box.Min.X - group.box.Max.X

			h1, h2 := cur.box.Dy(), next.box.Dy()
			cy1 := cur.box.Min.Y + h1/2
			cy2 := next.box.Min.Y + h2/2
			centersClose := absInt(cy1-cy2) < int(float64(medianH)*0.3)
			bothShort := float64(h1) < float64(medianH)*0.6 && float64(h2) < float64(medianH)*0.6
			bothTall := float64(h1) > float64(medianH)*0.7 && float64(h2) > float64(medianH)*0.7

			combined := next.box.Max.X - group.box.Min.X
			tooWide := float64(combined) > float64(medianW)*1.3
			if bothTall && tooWide {
				break
			}

			var maxGap float64
			if bothShort && centersClose {
				maxGap = float64(min(cur.box.Dx(), next.box.Dx())) * 1.5
			} else {
				maxGap = float64(min(group.box.Dx(), next.box.Dx())) * 0.6
			}
			if gap < 0 || float64(gap) > maxGap {
				break
			}
			group = combine(group, next)
			j++
		}
		res = append(res, group)
		i = j
	}
	return res
}

// mergeStacked joins components whose x-centres nearly coincide, for
// dots floating above their stems.  Merging requires either a strong
// height contrast (dot versus stem) or near-identical centres with
// horizontal overlap, which keeps side-by-side glyphs apart.
func mergeStacked(comps []*component) []*component {
	type entry struct {
		c  *component
		cx int
	}
	entries := make([]entry, len(comps))
	for i, c := range comps {
		entries[i] = entry{c: c, cx: c.box.Min.X + c.box.Dx()/2}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].cx < entries[j].cx })

	used := make([]bool, len(entries))
	var res []*component
	for i := range entries {
		if used[i] {
			continue
		}
		group := entries[i].c
		for j := i + 1; j < len(entries); j++ {
			if used[j] {
				continue
			}
			a, b := entries[i], entries[j]
			minW := min(a.c.box.Dx(), b.c.box.Dx())
			dx := absInt(a.cx - b.cx)
			if float64(dx) > float64(minW)*0.8 {
				continue
			}
			hMin := min(a.c.box.Dy(), b.c.box.Dy())
			hMax := max(a.c.box.Dy(), b.c.box.Dy())
			heightRatio := 1.0
			if hMax > 0 {
				heightRatio = float64(hMin) / float64(hMax)
			}
			xOverlap := a.c.box.Min.X < b.c.box.Max.X && b.c.box.Min.X < a.c.box.Max.X
			if heightRatio < 0.40 || (dx < 10 && xOverlap) {
				group = combine(group, b.c)
				used[j] = true
			}
		}
		used[i] = true
		res = append(res, group)
	}
	return res
}

// mergeDiagonal groups components with more than 50% horizontal overlap
// whose vertical centres are within two median widths, using union-find.
// This reunites the circles of a percent sign with its stroke.
func mergeDiagonal(comps []*component) []*component {
	n := len(comps)
	if n < 2 {
		return comps
	}
	widths := make([]int, n)
	for i, c := range comps {
		widths[i] = c.box.Dx()
	}
	medianW := medianInt(widths)

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		pi, pj := find(i), find(j)
		if pi != pj {
			parent[pi] = pj
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if horizontalOverlap(comps[i].box, comps[j].box) <= 0.5 {
				continue
			}
			cy1 := comps[i].box.Min.Y + comps[i].box.Dy()/2
			cy2 := comps[j].box.Min.Y + comps[j].box.Dy()/2
			if absInt(cy1-cy2) < 2*medianW {
				union(i, j)
			}
		}
	}

	groups := make(map[int]*component)
	var order []int
	for i := range comps {
		root := find(i)
		if g, ok := groups[root]; ok {
			groups[root] = combine(g, comps[i])
		} else {
			groups[root] = comps[i]
			order = append(order, root)
		}
	}
	res := make([]*component, 0, len(order))
	for _, root := range order {
		res = append(res, groups[root])
	}
	return res
}

func horizontalOverlap(a, b image.Rectangle) float64 {
	start := max(a.Min.X, b.Min.X)
	end := min(a.Max.X, b.Max.X)
	if end <= start {
		return 0
	}
	minW := min(a.Dx(), b.Dx())
	if minW <= 0 {
		return 0
	}
	return float64(end-start) / float64(minW)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
