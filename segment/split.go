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
	"fmt"
	"image"
	"sort"

	"seehuhn.de/go/handfont/raster"
)

// splitWide breaks components wider than 1.8 times the median width at
// valleys of the vertical ink projection.  When a split oracle is
// configured it is consulted first; projection analysis is the
// fallback.
func splitWide(comps []*component, bin *raster.Binary, img *raster.Image, cfg *Config, res *Result) []*component {
	if len(comps) < 3 {
		return comps
	}
	widths := make([]int, len(comps))
	for i, c := range comps {
		widths[i] = c.box.Dx()
	}
	median := medianInt(widths)
	if median == 0 {
		return comps
	}

	var out []*component
	for _, c := range comps {
		w := c.box.Dx()
		if float64(w) <= float64(median)*1.8 {
			out = append(out, c)
			continue
		}

		splits := oracleSplits(c, img, median, cfg, res)
		if splits == nil {
			splits = projectionSplits(c, bin, median)
		}
		if len(splits) == 0 {
			out = append(out, c)
			continue
		}

		bounds := append([]int{0}, splits...)
		bounds = append(bounds, w)
		sort.Ints(bounds)
		for i := 0; i+1 < len(bounds); i++ {
			sw := bounds[i+1] - bounds[i]
			if sw < 3 {
				continue
			}
			out = append(out, &component{
				box: image.Rect(c.box.Min.X+bounds[i], c.box.Min.Y,
					c.box.Min.X+bounds[i+1], c.box.Max.Y),
				area: c.area * float64(sw) / float64(w),
				row:  c.row,
			})
		}
	}
	return out
}

// oracleSplits asks the configured split oracle about a wide region.
// It returns nil if no oracle is configured or the oracle fails, an
// empty slice if the oracle says the region is a single glyph, and the
// split offsets otherwise.
func oracleSplits(c *component, img *raster.Image, median int, cfg *Config, res *Result) []int {
	if cfg.Split == nil {
		return nil
	}
	region := img.SubImage(c.box.Min.X, c.box.Min.Y, c.box.Dx(), c.box.Dy())
	count, ratios, err := cfg.Split(region, median)
	if err != nil {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("split oracle failed: %v", err))
		return nil
	}
	if count <= 1 || len(ratios) == 0 {
		return []int{}
	}
	w := c.box.Dx()
	var splits []int
	for _, r := range ratios {
		if r > 0 && r < 1 {
			splits = append(splits, int(r*float64(w)))
		}
	}
	return splits
}

// projectionSplits finds split points as the deepest valleys of the
// vertical ink projection inside the component.  Valleys must stay
// below min + 0.3*(max-min) and be at least half a median width apart;
// at most ceil(w/median)-1 splits are taken.
func projectionSplits(c *component, bin *raster.Binary, median int) []int {
	w := c.box.Dx()
	proj := make([]int, w)
	for x := 0; x < w; x++ {
		n := 0
		for y := c.box.Min.Y; y < c.box.Max.Y; y++ {
			if bin.IsInk(c.box.Min.X+x, y) {
				n++
			}
		}
		proj[x] = n
	}

	minP, maxP := proj[0], proj[0]
	for _, v := range proj {
		if v < minP {
			minP = v
		}
		if v > maxP {
			maxP = v
		}
	}
	threshold := float64(minP) + 0.3*float64(maxP-minP)

	type valley struct{ x, depth int }
	var valleys []valley
	inValley := false
	start := 0
	for x, v := range proj {
		if float64(v) <= threshold {
			if !inValley {
				start = x
				inValley = true
			}
		} else if inValley {
			depth := proj[start]
			for _, d := range proj[start:x] {
				if d < depth {
					depth = d
				}
			}
			valleys = append(valleys, valley{x: (start + x) / 2, depth: depth})
			inValley = false
		}
	}
	if len(valleys) == 0 {
		return nil
	}

	sort.Slice(valleys, func(i, j int) bool { return valleys[i].depth < valleys[j].depth })

	wanted := max(2, (w+median-1)/median)
	minSpacing := float64(median) * 0.5
	var splits []int
	for _, v := range valleys {
		ok := true
		for _, s := range splits {
			if float64(absInt(v.x-s)) <= minSpacing {
				ok = false
				break
			}
		}
		if ok {
			splits = append(splits, v.x)
			if len(splits) >= wanted-1 {
				break
			}
		}
	}
	sort.Ints(splits)
	return splits
}
